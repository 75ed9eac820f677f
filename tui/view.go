// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/zintix-labs/picklab/spec"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	activeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	mainStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	euroStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#E6B422")).Bold(true)
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
)

const helpLine = "↑/↓ move  ←/→ change  enter edit/generate  g generate  e export  q quit"

// View implements tea.Model.
func (m *Model) View() string {
	s := m.sess.Settings()
	var b strings.Builder
	b.WriteString(titleStyle.Render("Eurojackpot · " + s.Variant.Label()))
	b.WriteString("\n\n")

	rows := make([]string, 0, 10)
	for i, f := range m.fields() {
		cursor := "  "
		label := labelStyle.Render(fmt.Sprintf("%-18s", fieldName[f]))
		if i == m.cursor {
			cursor = activeStyle.Render("> ")
			label = activeStyle.Render(fmt.Sprintf("%-18s", fieldName[f]))
		}
		rows = append(rows, cursor+label+valueStyle.Render(m.fieldValue(f, s)))
	}
	b.WriteString(cardStyle.Render(strings.Join(rows, "\n")))
	b.WriteString("\n")

	if len(m.picks) > 0 {
		lines := make([]string, len(m.picks))
		for i, p := range m.picks {
			lines[i] = fmt.Sprintf("%3d  %s  %s", i+1, mainStyle.Render(p.Main.String()), euroStyle.Render(p.Euro.String()))
		}
		b.WriteString(cardStyle.Render(strings.Join(lines, "\n")))
		b.WriteString("\n")
	}
	if m.errMsg != "" {
		b.WriteString(errorStyle.Render(m.errMsg))
		b.WriteString("\n")
	} else if m.status != "" {
		b.WriteString(statusStyle.Render(m.status))
		b.WriteString("\n")
	}
	help := helpLine
	if m.editing {
		help = "type numbers separated by commas  enter apply  esc cancel"
	}
	b.WriteString(statusStyle.Render(help))
	out := b.String()
	if m.width > 0 {
		out = lipgloss.NewStyle().MaxWidth(m.width).Render(out)
	}
	return out
}

func (m *Model) fieldValue(f field, s spec.Settings) string {
	switch f {
	case fieldVariant:
		return string(s.Variant)
	case fieldCount:
		return strconv.Itoa(s.Count)
	case fieldAvoid:
		return onOff(s.AvoidConsecutive)
	case fieldBalance:
		return onOff(s.BalanceRanges)
	case fieldPresetMain, fieldPresetEuro:
		if m.editing && f == m.current() {
			return m.input + "█"
		}
		nums := s.PresetMain
		if f == fieldPresetEuro {
			nums = s.PresetEuro
		}
		if len(nums) == 0 {
			return "-"
		}
		return spec.NumberSet(nums).String()
	case fieldStrategy:
		return string(s.Strategy)
	case fieldPoolMain:
		return poolValue(s.PoolMain)
	case fieldPoolEuro:
		return poolValue(s.PoolEuro)
	case fieldWeighted:
		return onOff(s.Weighted)
	}
	return ""
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func poolValue(n int) string {
	if n == 0 {
		return "all"
	}
	return strconv.Itoa(n)
}
