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

// Package tui 提供以 Bubble Tea 操作 Session 的終端介面。
package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/zintix-labs/picklab/spec"
)

// Session Model 所需的 Session 行為
type Session interface {
	Settings() spec.Settings
	UpdateSettings(p spec.Patch) ([]string, error)
	Run() ([]spec.Pick, error)
	ExportFileName() string
	WriteExport(w io.Writer) error
}

type field int

const (
	fieldVariant field = iota
	fieldCount
	fieldAvoid
	fieldBalance
	fieldPresetMain
	fieldPresetEuro
	fieldStrategy
	fieldPoolMain
	fieldPoolEuro
	fieldWeighted
)

var fieldName = map[field]string{
	fieldVariant:    "Variant",
	fieldCount:      "Picks",
	fieldAvoid:      "Avoid consecutive",
	fieldBalance:    "Balance ranges",
	fieldPresetMain: "Preset main",
	fieldPresetEuro: "Preset euro",
	fieldStrategy:   "Strategy",
	fieldPoolMain:   "Pool main",
	fieldPoolEuro:   "Pool euro",
	fieldWeighted:   "Weighted",
}

var (
	variants   = []spec.Variant{spec.VariantPlain, spec.VariantCustom, spec.VariantFrequency}
	strategies = []spec.Strategy{spec.StrategyHot, spec.StrategyCold, spec.StrategyMixed}
)

// Model implements tea.Model.
type Model struct {
	sess      Session
	exportDir string

	cursor  int
	editing bool
	input   string

	picks  []spec.Pick
	status string
	errMsg string

	width int
}

// NewModel exportDir 為空字串時匯出到目前目錄
func NewModel(sess Session, exportDir string) *Model {
	return &Model{sess: sess, exportDir: exportDir}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.editing {
			m.updateInput(msg)
			return m, nil
		}
		switch msg.String() {
		case "q", "esc":
			return m, tea.Quit
		case "up", "k":
			m.move(-1)
		case "down", "j":
			m.move(1)
		case "left", "h", "-":
			m.adjust(-1)
		case "right", "l", "+", "=", " ":
			m.adjust(1)
		case "enter":
			if f := m.current(); f == fieldPresetMain || f == fieldPresetEuro {
				m.startInput(f)
				return m, nil
			}
			m.run()
		case "g", "r":
			m.run()
		case "e":
			m.export()
		}
	}
	return m, nil
}

// fields 依目前變體列出可編輯欄位
func (m *Model) fields() []field {
	fs := []field{fieldVariant, fieldCount, fieldAvoid, fieldBalance}
	switch m.sess.Settings().Variant {
	case spec.VariantCustom:
		fs = append(fs, fieldPresetMain, fieldPresetEuro)
	case spec.VariantFrequency:
		fs = append(fs, fieldStrategy, fieldPoolMain, fieldPoolEuro, fieldWeighted)
	}
	return fs
}

func (m *Model) current() field {
	fs := m.fields()
	if m.cursor >= len(fs) {
		m.cursor = len(fs) - 1
	}
	return fs[m.cursor]
}

func (m *Model) move(d int) {
	n := len(m.fields())
	m.cursor = (m.cursor + d + n) % n
}

func (m *Model) adjust(d int) {
	s := m.sess.Settings()
	var p spec.Patch
	switch f := m.current(); f {
	case fieldVariant:
		p = spec.Patch{"variant": string(cycle(variants, s.Variant, d))}
	case fieldStrategy:
		p = spec.Patch{"strategy": string(cycle(strategies, s.Strategy, d))}
	case fieldCount:
		p = spec.Patch{"count": s.Count + d}
	case fieldPoolMain:
		p = spec.Patch{"poolMain": stepPool(s.PoolMain, d, spec.KindMain)}
	case fieldPoolEuro:
		p = spec.Patch{"poolEuro": stepPool(s.PoolEuro, d, spec.KindEuro)}
	case fieldAvoid:
		p = spec.Patch{"avoidConsecutive": !s.AvoidConsecutive}
	case fieldBalance:
		p = spec.Patch{"balanceRanges": !s.BalanceRanges}
	case fieldWeighted:
		p = spec.Patch{"weighted": !s.Weighted}
	case fieldPresetMain, fieldPresetEuro:
		m.startInput(f)
		return
	}
	m.apply(p)
}

func (m *Model) apply(p spec.Patch) {
	if _, err := m.sess.UpdateSettings(p); err != nil {
		m.errMsg = err.Error()
		return
	}
	m.errMsg = ""
}

func (m *Model) startInput(f field) {
	s := m.sess.Settings()
	nums := s.PresetMain
	if f == fieldPresetEuro {
		nums = s.PresetEuro
	}
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = strconv.Itoa(n)
	}
	m.input = strings.Join(parts, ", ")
	m.editing = true
}

func (m *Model) updateInput(msg tea.KeyMsg) {
	switch msg.Type {
	case tea.KeyEsc:
		m.editing = false
	case tea.KeyEnter:
		key := "presetMain"
		if m.current() == fieldPresetEuro {
			key = "presetEuro"
		}
		m.editing = false
		m.apply(spec.Patch{key: m.input})
	case tea.KeyBackspace:
		if len(m.input) > 0 {
			m.input = m.input[:len(m.input)-1]
		}
	case tea.KeySpace:
		m.input += " "
	case tea.KeyRunes:
		for _, r := range msg.Runes {
			if (r >= '0' && r <= '9') || r == ',' || r == ' ' {
				m.input += string(r)
			}
		}
	}
}

func (m *Model) run() {
	picks, err := m.sess.Run()
	if err != nil {
		m.errMsg = err.Error()
		return
	}
	m.picks = picks
	m.errMsg = ""
	m.status = fmt.Sprintf("generated %d picks", len(picks))
}

func (m *Model) export() {
	path := filepath.Join(m.exportDir, m.sess.ExportFileName())
	if err := m.writeFile(path); err != nil {
		m.errMsg = err.Error()
		return
	}
	m.errMsg = ""
	m.status = "exported " + path
}

func (m *Model) writeFile(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if err = m.sess.WriteExport(f); err != nil {
		_ = os.Remove(path)
	}
	return err
}

func cycle[T comparable](list []T, cur T, d int) T {
	i := 0
	for j, v := range list {
		if v == cur {
			i = j
			break
		}
	}
	n := len(list)
	return list[(i+d+n)%n]
}

// stepPool 0 (全部) 與一注號碼數之間直接跳過
func stepPool(n, d int, k spec.Kind) int {
	n += d
	switch {
	case n <= 0:
		return 0
	case n < k.Count() && d > 0:
		return k.Count()
	case n < k.Count():
		return 0
	}
	return n
}
