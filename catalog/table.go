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

// Package catalog 管理冷熱號頻率表：資料模型、來源讀取、失敗時退回內建預設表，
// 以及由頻率分析結果建立新表。
package catalog

import (
	"bytes"
	"encoding/json"
	"io"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/zintix-labs/picklab/errs"
	"github.com/zintix-labs/picklab/spec"
)

// Entry 單一號碼頻率
type Entry = spec.FrequencyEntry

// Group 一種號碼（主號或歐元號）的冷熱分類
type Group struct {
	Hot     []Entry `yaml:"hot"               json:"hot"`
	Cold    []Entry `yaml:"cold"              json:"cold"`
	Neutral []Entry `yaml:"neutral,omitempty" json:"neutral,omitempty"`
}

// Metadata 產生資訊，讀取時僅保留不檢查
type Metadata struct {
	MainNumbersTotal int               `yaml:"mainNumbersTotal"     json:"mainNumbersTotal"`
	EuroNumbersTotal int               `yaml:"euroNumbersTotal"     json:"euroNumbersTotal"`
	MainHotCount     int               `yaml:"mainHotCount"         json:"mainHotCount"`
	MainColdCount    int               `yaml:"mainColdCount"        json:"mainColdCount"`
	EuroHotCount     int               `yaml:"euroHotCount"         json:"euroHotCount"`
	EuroColdCount    int               `yaml:"euroColdCount"        json:"euroColdCount"`
	GeneratedBy      string            `yaml:"generatedBy"          json:"generatedBy"`
	DataSource       map[string]string `yaml:"dataSource,omitempty" json:"dataSource,omitempty"`
}

// Table 冷熱號頻率表
type Table struct {
	Main        Group     `yaml:"main"                  json:"main"`
	Euro        Group     `yaml:"euro"                  json:"euro"`
	LastUpdated string    `yaml:"lastUpdated,omitempty" json:"lastUpdated,omitempty"`
	Metadata    *Metadata `yaml:"metadata,omitempty"    json:"metadata,omitempty"`
}

// Format 序列化格式
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatByName 依檔名副檔名判斷格式（會先去掉 .gz/.zst），無法判斷時視為 JSON
func FormatByName(name string) Format {
	name = strings.ToLower(trimCompression(name))
	if strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
		return FormatYAML
	}
	return FormatJSON
}

func (t *Table) group(k spec.Kind) *Group {
	if k == spec.KindEuro {
		return &t.Euro
	}
	return &t.Main
}

// Ranked 依策略排序：hot 頻率由高到低、cold 由低到高，同頻率依號碼排序。
// mixed 或未知策略回傳 hot 排序。回傳的是複本。
func (t *Table) Ranked(k spec.Kind, s spec.Strategy) []spec.FrequencyEntry {
	g := t.group(k)
	if s == spec.StrategyCold {
		out := slices.Clone(g.Cold)
		slices.SortStableFunc(out, func(a, b Entry) int {
			return cmpFreq(a, b, false)
		})
		return out
	}
	out := slices.Clone(g.Hot)
	slices.SortStableFunc(out, func(a, b Entry) int {
		return cmpFreq(a, b, true)
	})
	return out
}

func cmpFreq(a, b Entry, desc bool) int {
	switch {
	case a.RelativeFrequency == b.RelativeFrequency:
		return a.Number - b.Number
	case (a.RelativeFrequency > b.RelativeFrequency) == desc:
		return -1
	default:
		return 1
	}
}

// Validate 每組 hot/cold 至少要有一注所需的號碼數、號碼需在區間內、頻率在 [0,1]，
// 且同一號碼不可同時出現在 hot 與 cold。
func (t *Table) Validate() error {
	for _, k := range []spec.Kind{spec.KindMain, spec.KindEuro} {
		g := t.group(k)
		if len(g.Hot) < k.Count() || len(g.Cold) < k.Count() {
			return errs.Warnf("%s hot/cold lists need at least %d numbers each, got %d/%d", k, k.Count(), len(g.Hot), len(g.Cold))
		}
		seen := make(map[int]string, len(g.Hot)+len(g.Cold)+len(g.Neutral))
		lists := []struct {
			name    string
			entries []Entry
		}{{"hot", g.Hot}, {"cold", g.Cold}, {"neutral", g.Neutral}}
		for _, l := range lists {
			for _, e := range l.entries {
				if !k.Domain().Contains(e.Number) {
					return errs.Warnf("%s %s number %d outside %s", k, l.name, e.Number, k.Domain())
				}
				if e.RelativeFrequency < 0 || e.RelativeFrequency > 1 {
					return errs.Warnf("%s %s number %d has frequency %v", k, l.name, e.Number, e.RelativeFrequency)
				}
				if prev, dup := seen[e.Number]; dup {
					return errs.Warnf("%s number %d listed in both %s and %s", k, e.Number, prev, l.name)
				}
				seen[e.Number] = l.name
			}
		}
	}
	return nil
}

// Clone 深拷貝
func (t *Table) Clone() *Table {
	c := &Table{
		Main:        t.Main.clone(),
		Euro:        t.Euro.clone(),
		LastUpdated: t.LastUpdated,
	}
	if t.Metadata != nil {
		m := *t.Metadata
		if t.Metadata.DataSource != nil {
			m.DataSource = make(map[string]string, len(t.Metadata.DataSource))
			for k, v := range t.Metadata.DataSource {
				m.DataSource[k] = v
			}
		}
		c.Metadata = &m
	}
	return c
}

func (g Group) clone() Group {
	return Group{Hot: slices.Clone(g.Hot), Cold: slices.Clone(g.Cold), Neutral: slices.Clone(g.Neutral)}
}

// Parse 解析並驗證頻率表
func Parse(raw []byte, f Format) (*Table, error) {
	t := &Table{}
	switch f {
	case FormatYAML:
		if err := yaml.Unmarshal(raw, t); err != nil {
			return nil, errs.Wrap(err, "failed to unmarshall yaml")
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(raw))
		if err := dec.Decode(t); err != nil {
			return nil, errs.Wrap(err, "can not unmarshall json byte")
		}
	}
	if err := t.Validate(); err != nil {
		return nil, errs.Wrap(err, "invalid frequency table")
	}
	return t, nil
}

// Write 以指定格式輸出
func (t *Table) Write(w io.Writer, f Format) error {
	switch f {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(t); err != nil {
			return errs.Wrap(err, "encode yaml")
		}
		if err := enc.Close(); err != nil {
			return errs.Wrap(err, "close yaml encoder")
		}
		return nil
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(t); err != nil {
			return errs.Wrap(err, "encode json")
		}
		return nil
	}
}
