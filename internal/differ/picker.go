// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tfctl/snaplog/internal/snapshot"
)

// ErrPickCancelled is returned when the user leaves the picker without
// choosing two snapshots.
var ErrPickCancelled = errors.New("snapshot selection cancelled")

// SelectSnapshots lets the user pick two snapshots interactively. The result
// is ordered oldest first, ready to be used as the old and new side.
func SelectSnapshots(items []snapshot.Candidate) ([]snapshot.Candidate, error) {
	p := tea.NewProgram(model{items: items})
	m, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("picker failed: %w", err)
	}

	selected := m.(model).selected
	if len(selected) != 2 {
		return nil, ErrPickCancelled
	}

	sort.SliceStable(selected, func(i, j int) bool {
		return selected[i].Timestamp.Before(selected[j].Timestamp)
	})
	return selected, nil
}

type model struct {
	items    []snapshot.Candidate
	cursor   int
	selected []snapshot.Candidate
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "q", "esc", "ctrl+c":
			m.selected = nil
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}
		case " ":
			if len(m.items) == 0 {
				break
			}
			if i := indexOf(m.selected, m.items[m.cursor]); i >= 0 {
				m.selected = append(m.selected[:i:i], m.selected[i+1:]...)
			} else if len(m.selected) < 2 {
				m.selected = append(m.selected, m.items[m.cursor])
			}
		case "enter":
			if len(m.selected) == 2 {
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

func (m model) View() string {
	var sb strings.Builder
	sb.WriteString("Select two snapshots:\n\n")
	for i, c := range m.items {
		cursor := " "
		if m.cursor == i {
			cursor = ">"
		}
		mark := " "
		if indexOf(m.selected, c) >= 0 {
			mark = "x"
		}

		fmt.Fprintf(&sb, "%s [%s] %s  %s\n", cursor, mark, c.Timestamp.Format("2006-01-02 15:04:05"), c.Name)
	}
	sb.WriteString("\nSPACE: toggle, ENTER: go, Q/ESCAPE: quit\n")
	return sb.String()
}

func indexOf(cands []snapshot.Candidate, c snapshot.Candidate) int {
	for i, v := range cands {
		if v.Path == c.Path {
			return i
		}
	}
	return -1
}
