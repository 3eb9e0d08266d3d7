// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"encoding/json"
	"fmt"
	"image/color"
	"io"
	"os"
	"strconv"

	"github.com/apex/log"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v2"

	"github.com/tfctl/snaplog/internal/config"
	"github.com/tfctl/snaplog/internal/filters"
)

// InterfaceToString converts a cell value to a string. Nil and the empty
// string yield the optional emptyValue. Numbers keep their full precision
// since a change from 1.5 to 1.25 must stay visible.
func InterfaceToString(value interface{}, emptyValue ...string) string {
	if len(emptyValue) == 0 {
		emptyValue = []string{""}
	}

	switch value := value.(type) {
	case nil:
		return emptyValue[0]
	case string:
		if value == "" {
			return emptyValue[0]
		}
		return value
	case int:
		return strconv.Itoa(value)
	case int64:
		return strconv.FormatInt(value, 10)
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(value)
	case fmt.Stringer:
		return value.String()
	default:
		jsonBytes, err := json.Marshal(value)
		if err != nil {
			return fmt.Sprintf("%v", value)
		}
		return string(jsonBytes)
	}
}

// SliceDiceSpit filters, sorts and renders rows according to the --filter,
// --sort and --output flags of cmd. Columns fixes the column order of the
// table and yaml renderings. The optional postProcess callback runs on the
// filtered rows before a text table is rendered.
func SliceDiceSpit(rows []map[string]interface{},
	columns []string,
	cmd *cli.Command,
	w io.Writer,
	postProcess func([]map[string]interface{}) error) {

	// Default to stdout.
	if w == nil {
		w = os.Stdout
	}

	filtered := Prepare(rows, cmd)

	switch cmd.String("output") {
	case "json":
		// json.Marshal sorts map keys, so column order is not kept here.
		jsonOutput, err := json.Marshal(filtered)
		if err != nil {
			log.Errorf("SliceDiceSpit json marshal: %v", err)
			return
		}
		_, _ = w.Write(append(jsonOutput, '\n'))
	case "yaml":
		yamlOutput, err := yaml.Marshal(Ordered(filtered, columns))
		if err != nil {
			log.Errorf("SliceDiceSpit yaml marshal: %v", err)
			return
		}
		_, _ = w.Write(yamlOutput)
	default:
		if postProcess != nil {
			if err := postProcess(filtered); err != nil {
				log.Errorf("PostProcess: %v", err)
			}
		}

		TableWriter(filtered, columns, cmd, w)
	}
}

// Prepare applies the --filter and --sort flags of cmd to rows.
func Prepare(rows []map[string]interface{}, cmd *cli.Command) []map[string]interface{} {
	filtered := filters.FilterRows(rows, cmd.String("filter"))
	SortDataset(filtered, cmd.String("sort"))
	return filtered
}

// Ordered converts rows to yaml.MapSlice so yaml output keeps column order.
func Ordered(rows []map[string]interface{}, columns []string) []yaml.MapSlice {
	out := make([]yaml.MapSlice, 0, len(rows))
	for _, row := range rows {
		ms := make(yaml.MapSlice, 0, len(columns))
		for _, c := range columns {
			ms = append(ms, yaml.MapItem{Key: c, Value: row[c]})
		}
		out = append(out, ms)
	}
	return out
}

// TableWriter renders the result set in a tabular form honoring color,
// titles and padding options. Output is written to w. If w is nil, os.Stdout
// is used.
func TableWriter(
	resultSet []map[string]interface{},
	columns []string,
	cmd *cli.Command,
	w io.Writer) {

	if w == nil {
		w = os.Stdout
	}

	var (
		headerStyle  = lipgloss.NewStyle().Align(lipgloss.Left).Bold(true)
		cellStyle    = lipgloss.NewStyle().Padding(0, 0).Align(lipgloss.Left)
		evenRowStyle = cellStyle
		oddRowStyle  = cellStyle
	)

	if cmd.Bool("color") {
		headerColor, evenColor, oddColor := getColors("colors")

		headerStyle = headerStyle.Foreground(headerColor)
		evenRowStyle = evenRowStyle.Foreground(evenColor)
		oddRowStyle = oddRowStyle.Foreground(oddColor)
	}

	if cmd.Metadata["header"] != nil {
		fmt.Fprintln(w, headerStyle.Render(cmd.Metadata["header"].(string)))
	}

	if len(resultSet) > 0 {
		var rows [][]string
		for _, result := range resultSet {
			row := make([]string, 0, len(columns))
			for _, c := range columns {
				row = append(row, InterfaceToString(result[c], "-"))
			}
			rows = append(rows, row)
		}

		pad := cmd.Int("padding")
		t := table.New().
			BorderBottom(false).
			BorderTop(false).
			BorderLeft(false).
			BorderRight(false).
			Border(lipgloss.HiddenBorder()).
			StyleFunc(func(row, col int) lipgloss.Style {
				var style lipgloss.Style
				switch {
				case row == table.HeaderRow:
					style = headerStyle
				case row%2 == 0:
					style = evenRowStyle
				default:
					style = oddRowStyle
				}

				if col > 0 {
					style = style.PaddingLeft(pad)
				}

				return style
			}).
			Headers().
			Rows(rows...)

		if cmd.Bool("titles") {
			// https://github.com/charmbracelet/lipgloss/issues/261
			t = t.Headers(columns...).BorderHeader(false)
		}
		fmt.Fprintln(w, t)
	}

	if cmd.Metadata["footer"] != nil {
		fmt.Fprintln(w, headerStyle.Render(cmd.Metadata["footer"].(string)))
	}
}

// getColors returns configured color values for table rendering. Each color is
// selected based on terminal background color and brightness so that we can
// make sure output is reasonably visible for all(?) terminal themes.
func getColors(key string) (header, even, odd color.Color) {
	isDark := lipgloss.HasDarkBackground(os.Stdin, os.Stdout)

	// Use the explicit color if found in the config and leave it up to the user
	// to choose appropriate colors for their theme. If not found, pick a
	// reasonable default based on terminal background.
	resolveColor := func(key string, light string, dark string) color.Color {
		colorCfg, err := config.GetString(key)
		if err == nil {
			return lipgloss.Color(colorCfg)
		}

		if isDark {
			return lipgloss.Color(dark)
		}
		return lipgloss.Color(light)
	}

	header = resolveColor(key+".title", "#b08800", "#f6be00")
	even = resolveColor(key+".even", "#333333", "#ffffff")
	odd = resolveColor(key+".odd", "#0088a0", "#00c8f0")

	return
}
