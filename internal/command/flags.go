// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"
)

// NewGlobalFlags returns the presentation flags every command shares. When
// params carries the command namespace and the config file path, flags that
// make sense to persist also take their value from the config file, first
// under "<ns>.<flag>" and then under the bare flag name.
func NewGlobalFlags(params ...string) (flags []cli.Flag) {
	outputFlag := &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "output format",
		Value:   "text",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("SNAPLOG_OUTPUT"),
		),
		Validator: func(value string) error {
			return FlagValidators(value, OutputValidator)
		},
	}

	paddingFlag := &cli.IntFlag{
		Name:  "padding",
		Usage: "spaces between text table columns",
		Value: 2, //nolint:mnd
		Validator: func(value int) error {
			return FlagValidators(value, PaddingValidator)
		},
	}

	colorFlag := &cli.BoolFlag{
		Name:    "color",
		Aliases: []string{"c"},
		Usage:   "enable colored text output",
		Value:   false,
	}

	titlesFlag := &cli.BoolFlag{
		Name:    "titles",
		Aliases: []string{"t"},
		Usage:   "show titles with text output",
		Value:   false,
	}

	if len(params) == 2 && params[1] != "" {
		outputFlag.Sources.Chain = append(outputFlag.Sources.Chain, configSources(params[0], "output", params[1])...)
		paddingFlag.Sources = cli.NewValueSourceChain(configSources(params[0], "padding", params[1])...)
		colorFlag.Sources = cli.NewValueSourceChain(configSources(params[0], "color", params[1])...)
		titlesFlag.Sources = cli.NewValueSourceChain(configSources(params[0], "titles", params[1])...)
	}

	flags = []cli.Flag{
		colorFlag,
		&cli.StringFlag{
			Name:    "filter",
			Aliases: []string{"f"},
			Usage:   "comma-separated list of filters to apply to results",
		},
		outputFlag,
		paddingFlag,
		&cli.StringFlag{
			Name:    "sort",
			Aliases: []string{"s"},
			Usage:   "comma-separated list of columns to sort the results by",
		},
		titlesFlag,
	}

	return
}

// NewDatasetFlag constructs the "dataset" flag. The dataset named in a
// "location::dataset" positional argument takes precedence over it.
func NewDatasetFlag(params ...string) (flag *cli.StringFlag) {
	flag = &cli.StringFlag{
		Name:    "dataset",
		Aliases: []string{"d"},
		Usage:   "configured dataset to compare",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("SNAPLOG_DATASET"),
		),
	}

	if len(params) == 2 && params[1] != "" {
		flag = NameSpacedValueChainFlagFromConfigFile(params[0], params[1], flag)
	}

	return
}

// NameSpacedValueChainFlagFromConfigFile adds namespaced and global config file
// sources to the given flag's Sources chain.
func NameSpacedValueChainFlagFromConfigFile(ns string, path string, flag *cli.StringFlag) *cli.StringFlag {
	flag.Sources.Chain = append(flag.Sources.Chain, configSources(ns, flag.Name, path)...)
	return flag
}

func configSources(ns string, key string, path string) []cli.ValueSource {
	return []cli.ValueSource{
		yaml.YAML(ns+"."+key, altsrc.StringSourcer(path)),
		yaml.YAML(key, altsrc.StringSourcer(path)),
	}
}
