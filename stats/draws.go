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

package stats

import (
	"bufio"
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/zintix-labs/picklab/errs"
	"github.com/zintix-labs/picklab/spec"
)

// Draw 一期開獎結果
type Draw struct {
	Date time.Time `json:"date,omitzero" yaml:"date,omitempty"`
	Main []int     `json:"main" yaml:"main"`
	Euro []int     `json:"euro" yaml:"euro"`
}

// EuroEra 歐元號碼的規則期間 (號碼上限不同)
type EuroEra struct {
	Label string    `json:"label" yaml:"label"`
	From  time.Time `json:"from" yaml:"from"`
	To    time.Time `json:"to,omitzero" yaml:"to,omitempty"` // 零值代表至今
	Max   int       `json:"max" yaml:"max"`
}

// EuroEras 依日期排序，最後一個為現行規則
var EuroEras = []EuroEra{
	{Label: "2012-2014", From: date(2012, 3, 23), To: date(2014, 10, 3), Max: 8},
	{Label: "2014-2022", From: date(2014, 10, 10), To: date(2022, 3, 18), Max: 10},
	{Label: "2022-present", From: date(2022, 3, 25), Max: 12},
}

var (
	mainColumns = []string{"z1", "z2", "z3", "z4", "z5"}
	euroColumns = []string{"ez1", "ez2"}
	dateColumns = []string{"datum", "date"}
	dateLayouts = []string{time.DateOnly, "02.01.2006", time.DateTime, "01/02/2006"}
)

// Contains 判斷日期是否落在期間內
func (e EuroEra) Contains(t time.Time) bool {
	if t.Before(e.From) {
		return false
	}
	return e.To.IsZero() || !t.After(e.To)
}

// EraOf 回傳日期所屬的歐元期間；無日期視為現行規則
func EraOf(t time.Time) (EuroEra, bool) {
	if t.IsZero() {
		return EuroEras[len(EuroEras)-1], true
	}
	for _, e := range EuroEras {
		if e.Contains(t) {
			return e, true
		}
	}
	return EuroEra{}, false
}

// ParseDraws 讀取開獎歷史 CSV
//
// 表頭需包含 Z1..Z5, EZ1, EZ2；日期欄 (Datum / Date) 可省略。分隔符號支援 ',' 與 ';'。
func ParseDraws(r io.Reader) ([]Draw, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(peekSize(br))
	if err != nil && err != io.EOF {
		return nil, errs.Wrap(err, "read draw history")
	}
	cr := csv.NewReader(br)
	cr.Comma = sniffComma(head)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errs.EmptyResultf("draw history is empty")
	}
	if err != nil {
		return nil, errs.Wrap(err, "read draw history header")
	}
	cols, err := locateColumns(header)
	if err != nil {
		return nil, err
	}

	draws := make([]Draw, 0, 512)
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errs.Wrap(err, "read draw history")
		}
		line, _ := cr.FieldPos(0)
		if blankRecord(rec) {
			continue
		}
		d, err := cols.draw(rec)
		if err != nil {
			return nil, errs.WrapWithExtra(err, "invalid draw", "line "+strconv.Itoa(line))
		}
		draws = append(draws, d)
	}
	if len(draws) == 0 {
		return nil, errs.EmptyResultf("draw history has no rows")
	}
	return draws, nil
}

// ============================================================
// ** 內部方法 **
// ============================================================

type drawColumns struct {
	main []int
	euro []int
	date int
}

func locateColumns(header []string) (drawColumns, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		k := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, ok := idx[k]; !ok {
			idx[k] = i
		}
	}
	c := drawColumns{date: -1}
	for _, name := range mainColumns {
		i, ok := idx[name]
		if !ok {
			return c, errs.InvalidSettingsf("draw history missing column %s", strings.ToUpper(name))
		}
		c.main = append(c.main, i)
	}
	for _, name := range euroColumns {
		i, ok := idx[name]
		if !ok {
			return c, errs.InvalidSettingsf("draw history missing column %s", strings.ToUpper(name))
		}
		c.euro = append(c.euro, i)
	}
	for _, name := range dateColumns {
		if i, ok := idx[name]; ok {
			c.date = i
			break
		}
	}
	return c, nil
}

func (c drawColumns) draw(rec []string) (Draw, error) {
	d := Draw{}
	if c.date >= 0 {
		t, err := parseDate(field(rec, c.date))
		if err != nil {
			return d, err
		}
		d.Date = t
	}
	main, err := numbers(rec, c.main, spec.MainDomain)
	if err != nil {
		return d, err
	}
	max := spec.EuroDomain.Max
	if era, ok := EraOf(d.Date); ok {
		max = era.Max
	}
	euro, err := numbers(rec, c.euro, spec.Domain{Min: spec.EuroDomain.Min, Max: max})
	if err != nil {
		return d, err
	}
	d.Main = main
	d.Euro = euro
	return d, nil
}

func numbers(rec []string, cols []int, d spec.Domain) ([]int, error) {
	out := make([]int, 0, len(cols))
	for _, i := range cols {
		raw := field(rec, i)
		if f, err := strconv.ParseFloat(raw, 64); err == nil && f == float64(int(f)) {
			raw = strconv.Itoa(int(f))
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, errs.InvalidRangef("not a number: %q", raw)
		}
		if !d.Contains(n) {
			return nil, errs.InvalidRangef("number %d outside %s", n, d)
		}
		out = append(out, n)
	}
	set := spec.NewNumberSet(out...)
	if err := set.Validate(d, len(cols)); err != nil {
		return nil, err
	}
	return set.Ints(), nil
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errs.InvalidSettingsf("unrecognized date %q", s)
}

func field(rec []string, i int) string {
	if i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func blankRecord(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// 以第一行判斷分隔符號
func sniffComma(head []byte) rune {
	line := string(head)
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	if strings.Count(line, ";") > strings.Count(line, ",") {
		return ';'
	}
	return ','
}

func peekSize(br *bufio.Reader) int {
	return min(br.Size(), 1024)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
