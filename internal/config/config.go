// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/apex/log"
	"gopkg.in/yaml.v3"
)

// FileEnv names the environment variable holding an explicit config path.
const FileEnv = "SNAPLOG_CFG_FILE"

// FileName is the config file looked for in the user config directory.
const FileName = "snaplog.yaml"

// Type is one loaded config file. Source is the path it came from and Data
// its decoded tree. When Namespace is set (the running command, e.g. "diff"),
// lookups try "<Namespace>.<key>" before the bare key.
type Type struct {
	Source    string
	Namespace string
	Data      map[string]interface{}
}

// Config is the process wide configuration, loaded at start up and reloaded
// lazily by the getters while it is empty.
var Config Type

func init() {
	_, _ = Load()
}

// GetInt returns the integer at the dotted key. YAML may decode numbers as
// int, int64 or float64; floats are truncated.
func GetInt(key string, defaultValue ...int) (int, error) {
	return lookup(key, defaultValue, func(v any) (int, error) {
		switch n := v.(type) {
		case int:
			return n, nil
		case int64:
			return int(n), nil
		case float64:
			return int(n), nil
		}
		return 0, errors.New("value is not an int")
	})
}

// GetString returns the string at the dotted key.
func GetString(key string, defaultValue ...string) (string, error) {
	return lookup(key, defaultValue, func(v any) (string, error) {
		s, ok := v.(string)
		if !ok {
			return "", errors.New("value is not a string")
		}
		return s, nil
	})
}

// GetStringSlice returns the list of strings at the dotted key.
func GetStringSlice(key string, defaultValue ...[]string) ([]string, error) {
	return lookup(key, defaultValue, func(v any) ([]string, error) {
		switch list := v.(type) {
		case []string:
			return list, nil
		case []interface{}:
			out := make([]string, 0, len(list))
			for _, item := range list {
				s, ok := item.(string)
				if !ok {
					return nil, errors.New("slice element is not a string")
				}
				out = append(out, s)
			}
			return out, nil
		}
		return nil, errors.New("value is not a slice")
	})
}

// lookup resolves key against Config and converts the value. A missing key
// yields the default when exactly one is given. A present value of the wrong
// type is always an error.
func lookup[T any](key string, defaults []T, convert func(any) (T, error)) (T, error) {
	if len(Config.Data) == 0 {
		_, _ = Load()
	}

	v, err := Config.get(key)
	if err != nil {
		if len(defaults) == 1 {
			return defaults[0], nil
		}
		var zero T
		return zero, err
	}
	return convert(v)
}

// Load reads the config file into Config and returns it. A single argument
// naming an existing file is loaded directly; any other argument, such as
// the command name InitApp passes, falls through to the normal lookup of
// SNAPLOG_CFG_FILE and then the user config directory.
func Load(cfgFilePath ...string) (Type, error) {
	path := ""
	if len(cfgFilePath) == 1 && isFile(cfgFilePath[0]) {
		path = cfgFilePath[0]
	} else {
		var err error
		if path, err = getConfigFile(); err != nil {
			return Type{}, err
		}
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Type{}, err
	}

	var data map[string]interface{}
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return Type{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	Config = Type{Source: path, Data: data}
	return Config, nil
}

func isFile(path string) bool {
	if path == "" {
		return false
	}
	fi, err := os.Stat(path)
	return err == nil && !fi.IsDir()
}

// get walks the dotted key, namespaced first when a namespace is set.
func (cfg *Type) get(kspec string) (any, error) {
	if len(cfg.Data) == 0 {
		_, _ = Load(cfg.Source)
	}

	tried := make([]string, 0, 2) //nolint:mnd
	if cfg.Namespace != "" {
		tried = append(tried, cfg.Namespace+"."+kspec)
	}
	tried = append(tried, kspec)

	for _, key := range tried {
		if v, ok := walk(cfg.Data, strings.Split(key, ".")); ok {
			return v, nil
		}
	}
	return nil, fmt.Errorf("no valid path found among: %v", tried)
}

// walk descends through nested maps one key part at a time.
func walk(node any, parts []string) (any, bool) {
	for _, part := range parts {
		m, ok := node.(map[string]interface{})
		if !ok {
			return nil, false
		}
		if node, ok = m[part]; !ok {
			return nil, false
		}
	}
	return node, true
}

// getConfigFile finds the config file. SNAPLOG_CFG_FILE, when set, must name
// an existing file. Otherwise snaplog.yaml in os.UserConfigDir is used if
// present.
func getConfigFile() (string, error) {
	if p := os.Getenv(FileEnv); p != "" {
		fi, err := os.Stat(p)
		switch {
		case err != nil:
			return "", fmt.Errorf("config file not found at %s path: %s", FileEnv, p)
		case fi.IsDir():
			return "", fmt.Errorf("%s points to a directory: %s", FileEnv, p)
		}
		log.Debugf("using config file from %s: %s", FileEnv, p)
		return p, nil
	}

	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	p := filepath.Join(dir, FileName)
	if isFile(p) {
		log.Debugf("using config file: %s", p)
		return p, nil
	}

	return "", errors.New("no config file found in standard locations")
}
