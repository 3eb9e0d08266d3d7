// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrNoDataset is returned when a named dataset is not present in the config.
var ErrNoDataset = errors.New("dataset not configured")

// DefaultDataset is the dataset name used when none is given on the command
// line.
const DefaultDataset = "default"

// Dataset is the typed configuration of one comparable dataset. It is decoded
// from the "datasets.<name>" node of the config file on top of the values set
// by NewDataset.
type Dataset struct {
	Name     string   `yaml:"-"`
	Source   string   `yaml:"source"`
	Pattern  string   `yaml:"pattern"`
	Sheet    string   `yaml:"sheet"`
	Keys     []string `yaml:"keys"`
	Meta     []string `yaml:"meta"`
	Ignore   []string `yaml:"ignore"`
	Schedule string   `yaml:"schedule"`
	Sentinel string   `yaml:"sentinel"`
	Timezone string   `yaml:"timezone"`
	Region   string   `yaml:"region"`
	Endpoint string   `yaml:"endpoint"`
	Output   Output   `yaml:"output"`
}

// Output controls where and how the change-log workbook is written.
type Output struct {
	Dir    string `yaml:"dir"`
	Prefix string `yaml:"prefix"`
	Labels Labels `yaml:"labels"`
}

// Labels holds the user visible names used in the change-log workbook.
type Labels struct {
	Modified   string `yaml:"modified"`
	Added      string `yaml:"added"`
	Removed    string `yaml:"removed"`
	ChangeType string `yaml:"change_type"`
	Changed    string `yaml:"changed"`
	Field      string `yaml:"field"`
	Old        string `yaml:"old"`
	New        string `yaml:"new"`
	Hint       string `yaml:"hint"`
	NoModified string `yaml:"no_modified"`
	NoAdded    string `yaml:"no_added"`
	NoRemoved  string `yaml:"no_removed"`
}

// NewDataset returns a Dataset carrying every default.
func NewDataset(name string) Dataset {
	return Dataset{
		Name:     name,
		Source:   ".",
		Pattern:  "*.xlsx",
		Sheet:    "Sheet1",
		Schedule: "08:40",
		Sentinel: "unknown",
		Output: Output{
			Dir:    "change_log",
			Prefix: "changelog",
			Labels: Labels{
				Modified:   "Modified",
				Added:      "Added",
				Removed:    "Removed",
				ChangeType: "change_type",
				Changed:    "modified",
				Field:      "changed_field",
				Old:        "old_value",
				New:        "new_value",
				Hint:       "hint",
				NoModified: "no modified records",
				NoAdded:    "no added records",
				NoRemoved:  "no removed records",
			},
		},
	}
}

// GetDataset decodes the named dataset from the loaded configuration. A
// missing "datasets" tree yields ErrNoDataset unless name is the default
// dataset, in which case the bare defaults are returned.
func GetDataset(name string) (Dataset, error) {
	if name == "" {
		name = DefaultDataset
	}
	ds := NewDataset(name)

	if len(Config.Data) == 0 {
		_, _ = Load()
	}

	raw, err := Config.get("datasets." + name)
	if err != nil {
		if name == DefaultDataset {
			return ds, nil
		}
		return ds, fmt.Errorf("%w: %s", ErrNoDataset, name)
	}

	// Round trip the generic tree through YAML so the typed struct picks up
	// only the keys that are present and keeps the defaults for the rest.
	b, err := yaml.Marshal(raw)
	if err != nil {
		return ds, fmt.Errorf("failed to encode dataset %s: %w", name, err)
	}
	if err := yaml.Unmarshal(b, &ds); err != nil {
		return ds, fmt.Errorf("failed to decode dataset %s: %w", name, err)
	}
	ds.Name = name

	return ds, nil
}

// DatasetNames returns the sorted names of every configured dataset.
func DatasetNames() []string {
	if len(Config.Data) == 0 {
		_, _ = Load()
	}

	raw, err := Config.get("datasets")
	if err != nil {
		return nil
	}
	m, ok := raw.(map[string]interface{})
	if !ok {
		return nil
	}

	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Validate reports the first configuration problem that would make a
// comparison impossible.
func (ds Dataset) Validate() error {
	if len(ds.Keys) == 0 {
		return fmt.Errorf("dataset %s: no key columns configured", ds.Name)
	}
	for _, k := range ds.Keys {
		if k == "" {
			return fmt.Errorf("dataset %s: empty key column name", ds.Name)
		}
	}
	if ds.Source == "" {
		return fmt.Errorf("dataset %s: no source configured", ds.Name)
	}
	if _, err := filepath.Match(ds.Pattern, ""); err != nil {
		return fmt.Errorf("dataset %s: bad pattern %q: %w", ds.Name, ds.Pattern, err)
	}
	if _, err := ds.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves Timezone. Empty means the local zone.
func (ds Dataset) Location() (*time.Location, error) {
	if ds.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(ds.Timezone)
	if err != nil {
		return nil, fmt.Errorf("dataset %s: bad timezone %q: %w", ds.Name, ds.Timezone, err)
	}
	return loc, nil
}
