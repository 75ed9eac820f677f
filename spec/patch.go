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
	"encoding/json"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/zintix-labs/picklab/errs"
)

// Patch 局部更新設定，key 不分大小寫，底線與連字號會被忽略
// （avoidConsecutive、avoid_consecutive、avoid-consecutive 等價）。
type Patch map[string]any

type patchFn func(s *Settings, v any) error

var patchMap = map[string]patchFn{
	"variant":          patchVariant,
	"type":             patchVariant,
	"count":            patchCount,
	"numberofpicks":    patchCount,
	"avoidconsecutive": patchBool(func(s *Settings) *bool { return &s.AvoidConsecutive }),
	"balanceranges":    patchBool(func(s *Settings) *bool { return &s.BalanceRanges }),
	"weighted":         patchBool(func(s *Settings) *bool { return &s.Weighted }),
	"presetnumbers":    patchPreset(KindMain),
	"presetmain":       patchPreset(KindMain),
	"custommain":       patchPreset(KindMain),
	"preseteuro":       patchPreset(KindEuro),
	"customeuro":       patchPreset(KindEuro),
	"strategy":         patchStrategy,
	"poolmain":         patchInt(func(s *Settings) *int { return &s.PoolMain }),
	"pooleuro":         patchInt(func(s *Settings) *int { return &s.PoolEuro }),
}

func normalizeKey(k string) string {
	k = strings.ToLower(k)
	return strings.NewReplacer("_", "", "-", "", " ", "").Replace(k)
}

// Apply 合併 patch 中認得的 key，未知的 key 略過並回傳（已排序）。
// 任一值型別或範圍錯誤時回傳 InvalidSettings，且 s 保持不變。
func (s *Settings) Apply(p Patch) ([]string, error) {
	next := s.Clone()
	ignored := make([]string, 0)
	for key, v := range p {
		fn, ok := patchMap[normalizeKey(key)]
		if !ok {
			ignored = append(ignored, key)
			continue
		}
		if err := fn(&next, v); err != nil {
			return nil, errs.WrapWithExtra(err, "apply settings patch", key)
		}
	}
	if err := next.Validate(); err != nil {
		return nil, err
	}
	*s = next
	slices.Sort(ignored)
	return ignored, nil
}

func patchVariant(s *Settings, v any) error {
	str, ok := v.(string)
	if !ok {
		return errs.InvalidSettingsf("variant must be a string, got %T", v)
	}
	variant, ok := ParseVariant(str)
	if !ok {
		return errs.InvalidSettingsf("unknown variant %q", str)
	}
	s.Variant = variant
	return nil
}

func patchStrategy(s *Settings, v any) error {
	str, ok := v.(string)
	if !ok {
		return errs.InvalidSettingsf("strategy must be a string, got %T", v)
	}
	st, ok := ParseStrategy(str)
	if !ok {
		return errs.InvalidSettingsf("unknown strategy %q", str)
	}
	s.Strategy = st
	return nil
}

func patchCount(s *Settings, v any) error {
	n, err := toInt(v)
	if err != nil {
		return err
	}
	s.Count = n
	return nil
}

func patchInt(field func(*Settings) *int) patchFn {
	return func(s *Settings, v any) error {
		n, err := toInt(v)
		if err != nil {
			return err
		}
		*field(s) = n
		return nil
	}
}

func patchBool(field func(*Settings) *bool) patchFn {
	return func(s *Settings, v any) error {
		switch b := v.(type) {
		case bool:
			*field(s) = b
		case string:
			parsed, err := strconv.ParseBool(strings.TrimSpace(b))
			if err != nil {
				return errs.InvalidSettingsf("invalid boolean %q", b)
			}
			*field(s) = parsed
		default:
			return errs.InvalidSettingsf("expected boolean, got %T", v)
		}
		return nil
	}
}

// patchPreset 與輸入框行為一致：過濾區間外與重複的號碼，超過數量時截斷。
func patchPreset(k Kind) patchFn {
	return func(s *Settings, v any) error {
		var raw []int
		switch t := v.(type) {
		case nil:
		case string:
			raw = ParseNumbers(t, k.Domain(), k.Count())
		case []int:
			raw = t
		case []any:
			raw = make([]int, 0, len(t))
			for _, item := range t {
				n, err := toInt(item)
				if err != nil {
					return err
				}
				raw = append(raw, n)
			}
		default:
			return errs.InvalidSettingsf("preset must be a list or comma separated string, got %T", v)
		}
		nums := normalizeNumbers(raw, k.Domain(), k.Count())
		if k == KindEuro {
			s.PresetEuro = nums
		} else {
			s.PresetMain = nums
		}
		return nil
	}
}

// ParseNumbers 解析逗號分隔的號碼字串；非數字、區間外與重複的項目略過，
// 最多保留 limit 個（依輸入順序），結果排序後回傳。
func ParseNumbers(input string, d Domain, limit int) []int {
	if strings.TrimSpace(input) == "" {
		return []int{}
	}
	raw := make([]int, 0)
	for _, part := range strings.Split(input, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		raw = append(raw, n)
	}
	return normalizeNumbers(raw, d, limit)
}

func normalizeNumbers(raw []int, d Domain, limit int) []int {
	out := make([]int, 0, limit)
	for _, n := range raw {
		if len(out) == limit {
			break
		}
		if !d.Contains(n) || slices.Contains(out, n) {
			continue
		}
		out = append(out, n)
	}
	slices.Sort(out)
	return out
}

func toInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int32:
		return int(n), nil
	case int64:
		return int(n), nil
	case uint:
		return int(n), nil
	case float64:
		if n != math.Trunc(n) {
			return 0, errs.InvalidSettingsf("expected integer, got %v", n)
		}
		return int(n), nil
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, errs.InvalidSettingsf("expected integer, got %q", n.String())
		}
		return int(i), nil
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, errs.InvalidSettingsf("expected integer, got %q", n)
		}
		return i, nil
	default:
		return 0, errs.InvalidSettingsf("expected integer, got %T", v)
	}
}
