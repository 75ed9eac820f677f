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

package spec

import (
	"slices"
	"strconv"
	"strings"

	"github.com/zintix-labs/picklab/errs"
)

const (
	// MainCount 主號數量
	MainCount = 5
	// EuroCount 歐元號數量
	EuroCount = 2
	// RangeBuckets 區段平衡時切分的區段數
	RangeBuckets = 5
)

var (
	MainDomain = Domain{Min: 1, Max: 50}
	EuroDomain = Domain{Min: 1, Max: 12}
)

// Domain 為含兩端的整數區間 [Min, Max]。
type Domain struct {
	Min int `yaml:"min" json:"min" toml:"min"`
	Max int `yaml:"max" json:"max" toml:"max"`
}

// Size 區間內整數個數，Min > Max 時為 0
func (d Domain) Size() int {
	if d.Min > d.Max {
		return 0
	}
	return d.Max - d.Min + 1
}

func (d Domain) Contains(n int) bool {
	return n >= d.Min && n <= d.Max
}

// Valid Min > Max 時回傳 InvalidRange。
func (d Domain) Valid() error {
	if d.Min > d.Max {
		return errs.InvalidRangef("domain min %d greater than max %d", d.Min, d.Max)
	}
	return nil
}

func (d Domain) String() string {
	return strconv.Itoa(d.Min) + "-" + strconv.Itoa(d.Max)
}

// Kind 區分主號與歐元號，各自對應區間與數量。
type Kind uint8

const (
	KindMain Kind = iota
	KindEuro
)

func (k Kind) Domain() Domain {
	if k == KindEuro {
		return EuroDomain
	}
	return MainDomain
}

func (k Kind) Count() int {
	if k == KindEuro {
		return EuroCount
	}
	return MainCount
}

func (k Kind) String() string {
	if k == KindEuro {
		return "euro"
	}
	return "main"
}

// NumberSet 遞增排序、不重複的號碼組。
type NumberSet []int

// NewNumberSet 複製並排序輸入，不檢查重複。
func NewNumberSet(nums ...int) NumberSet {
	ns := slices.Clone(nums)
	slices.Sort(ns)
	return NumberSet(ns)
}

func (ns NumberSet) Contains(n int) bool {
	_, ok := slices.BinarySearch(ns, n)
	return ok
}

// IsSorted 嚴格遞增（同時代表沒有重複）
func (ns NumberSet) IsSorted() bool {
	for i := 1; i < len(ns); i++ {
		if ns[i] <= ns[i-1] {
			return false
		}
	}
	return true
}

// Validate 檢查數量、區間、排序與重複。
func (ns NumberSet) Validate(d Domain, k int) error {
	if len(ns) != k {
		return errs.InvalidRangef("expected %d numbers, got %d", k, len(ns))
	}
	if !ns.IsSorted() {
		return errs.InvalidRangef("numbers not strictly ascending: %s", ns)
	}
	for _, n := range ns {
		if !d.Contains(n) {
			return errs.InvalidRangef("number %d outside domain %s", n, d)
		}
	}
	return nil
}

func (ns NumberSet) Ints() []int {
	return slices.Clone([]int(ns))
}

// String 以 ", " 串接，例如 "3, 14, 27"
func (ns NumberSet) String() string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ", ")
}

// Pick 一注號碼：5 個主號 + 2 個歐元號，產生後不再修改。
type Pick struct {
	Main NumberSet `yaml:"main" json:"main"`
	Euro NumberSet `yaml:"euro" json:"euro"`
}

func (p Pick) Validate() error {
	if err := p.Main.Validate(MainDomain, MainCount); err != nil {
		return errs.Wrap(err, "main numbers")
	}
	if err := p.Euro.Validate(EuroDomain, EuroCount); err != nil {
		return errs.Wrap(err, "euro numbers")
	}
	return nil
}

// String "Main: a, b, c, d, e | Euro: x, y"
func (p Pick) String() string {
	return "Main: " + p.Main.String() + " | Euro: " + p.Euro.String()
}
