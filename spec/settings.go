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
	"fmt"
	"slices"
	"strings"

	"github.com/zintix-labs/picklab/errs"
)

// MaxCount 單次產生的注數上限
const MaxCount = 100

// Settings 產生號碼的設定。
//
// PresetMain/PresetEuro 只在 custom 變體生效；Strategy/PoolMain/PoolEuro/Weighted
// 只在 frequency 變體生效。Pool 為 0 代表使用整份冷熱號清單，否則不得小於一注的號碼數。
type Settings struct {
	Variant          Variant  `yaml:"variant"           json:"variant"           toml:"variant"`
	Count            int      `yaml:"count"             json:"count"             toml:"count"`
	AvoidConsecutive bool     `yaml:"avoid_consecutive" json:"avoid_consecutive" toml:"avoid_consecutive"`
	BalanceRanges    bool     `yaml:"balance_ranges"    json:"balance_ranges"    toml:"balance_ranges"`
	PresetMain       []int    `yaml:"preset_main"       json:"preset_main"       toml:"preset_main"`
	PresetEuro       []int    `yaml:"preset_euro"       json:"preset_euro"       toml:"preset_euro"`
	Strategy         Strategy `yaml:"strategy"          json:"strategy"          toml:"strategy"`
	PoolMain         int      `yaml:"pool_main"         json:"pool_main"         toml:"pool_main"`
	PoolEuro         int      `yaml:"pool_euro"         json:"pool_euro"         toml:"pool_euro"`
	Weighted         bool     `yaml:"weighted"          json:"weighted"          toml:"weighted"`
}

// DefaultSettings 單注、純隨機、避開連號、不做區段平衡。
func DefaultSettings() Settings {
	return Settings{
		Variant:          VariantPlain,
		Count:            1,
		AvoidConsecutive: true,
		BalanceRanges:    false,
		Strategy:         StrategyHot,
	}
}

// Clone 深拷貝 slice 欄位
func (s Settings) Clone() Settings {
	c := s
	c.PresetMain = slices.Clone(s.PresetMain)
	c.PresetEuro = slices.Clone(s.PresetEuro)
	return c
}

// Preset 依 Kind 取出預設號碼
func (s *Settings) Preset(k Kind) []int {
	if k == KindEuro {
		return s.PresetEuro
	}
	return s.PresetMain
}

// Pool 依 Kind 取出號池大小
func (s *Settings) Pool(k Kind) int {
	if k == KindEuro {
		return s.PoolEuro
	}
	return s.PoolMain
}

// Summary 匯出檔 Settings 行，只列出該變體會用到的欄位
func (s *Settings) Summary() string {
	parts := []string{
		fmt.Sprintf("Avoid Consecutive: %t", s.AvoidConsecutive),
		fmt.Sprintf("Balance Ranges: %t", s.BalanceRanges),
	}
	switch s.Variant {
	case VariantCustom:
		parts = append(parts,
			"Preset Main: "+NumberSet(s.PresetMain).String(),
			"Preset Euro: "+NumberSet(s.PresetEuro).String())
	case VariantFrequency:
		parts = append(parts, fmt.Sprintf("Pool: %d/%d", s.PoolMain, s.PoolEuro), fmt.Sprintf("Weighted: %t", s.Weighted))
	}
	return strings.Join(parts, ", ")
}

// init 正規化別名後驗證
func (s *Settings) init() error {
	if v, ok := ParseVariant(string(s.Variant)); ok {
		s.Variant = v
	}
	if s.Strategy == "" {
		s.Strategy = StrategyHot
	}
	if st, ok := ParseStrategy(string(s.Strategy)); ok {
		s.Strategy = st
	}
	slices.Sort(s.PresetMain)
	slices.Sort(s.PresetEuro)
	return s.Validate()
}

// Validate 檢查設定值，錯誤一律為 InvalidSettings。
func (s *Settings) Validate() error {
	if _, ok := variantLabel[s.Variant]; !ok {
		return errs.InvalidSettingsf("unknown variant %q", s.Variant)
	}
	if s.Count < 1 || s.Count > MaxCount {
		return errs.InvalidSettingsf("count %d outside [1,%d]", s.Count, MaxCount)
	}
	switch s.Strategy {
	case StrategyHot, StrategyCold, StrategyMixed:
	default:
		return errs.InvalidSettingsf("unknown strategy %q", s.Strategy)
	}
	if s.PoolMain < 0 || s.PoolEuro < 0 {
		return errs.InvalidSettingsf("pool size must not be negative: main=%d euro=%d", s.PoolMain, s.PoolEuro)
	}
	for _, k := range []Kind{KindMain, KindEuro} {
		if n := s.Pool(k); n > 0 && n < k.Count() {
			return errs.InvalidSettingsf("pool %s %d smaller than %d numbers per pick", k, n, k.Count())
		}
	}
	for _, k := range []Kind{KindMain, KindEuro} {
		if err := validPreset(s.Preset(k), k); err != nil {
			return err
		}
	}
	return nil
}

func validPreset(nums []int, k Kind) error {
	if len(nums) > k.Count() {
		return errs.InvalidSettingsf("preset %s has %d numbers, at most %d allowed", k, len(nums), k.Count())
	}
	d := k.Domain()
	seen := make(map[int]struct{}, len(nums))
	for _, n := range nums {
		if !d.Contains(n) {
			return errs.InvalidSettingsf("preset %s number %d outside %s", k, n, d)
		}
		if _, dup := seen[n]; dup {
			return errs.InvalidSettingsf("preset %s number %d repeated", k, n)
		}
		seen[n] = struct{}{}
	}
	return nil
}
