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

import "strings"

// Variant 產生器變體。
type Variant string

const (
	// VariantPlain 純隨機（可選擇避開連號、區段平衡）
	VariantPlain Variant = "plain"
	// VariantCustom 使用者預設號碼，其餘補齊
	VariantCustom Variant = "custom"
	// VariantFrequency 依歷史頻率的冷熱號池抽選
	VariantFrequency Variant = "frequency"
)

var VariantMap = map[string]Variant{
	"plain":           VariantPlain,
	"random":          VariantPlain,
	"random-pick":     VariantPlain,
	"custom":          VariantCustom,
	"custom-pick":     VariantCustom,
	"frequency":       VariantFrequency,
	"structured":      VariantFrequency,
	"structured-pick": VariantFrequency,
}

var variantLabel = map[Variant]string{
	VariantPlain:     "RANDOM PICK",
	VariantCustom:    "CUSTOM PICK",
	VariantFrequency: "STRUCTURED PICK",
}

// ParseVariant 接受正式名稱與別名，大小寫不敏感。
func ParseVariant(s string) (Variant, bool) {
	v, ok := VariantMap[strings.ToLower(strings.TrimSpace(s))]
	return v, ok
}

// Label 匯出檔標題使用
func (v Variant) Label() string {
	if l, ok := variantLabel[v]; ok {
		return l
	}
	return strings.ToUpper(string(v))
}

// Strategy 頻率變體的號池策略。
type Strategy string

const (
	StrategyHot   Strategy = "hot"
	StrategyCold  Strategy = "cold"
	StrategyMixed Strategy = "mixed"
)

var StrategyMap = map[string]Strategy{
	"hot":          StrategyHot,
	"hot-numbers":  StrategyHot,
	"cold":         StrategyCold,
	"cold-numbers": StrategyCold,
	"mixed":        StrategyMixed,
}

func ParseStrategy(s string) (Strategy, bool) {
	v, ok := StrategyMap[strings.ToLower(strings.TrimSpace(s))]
	return v, ok
}

// Label 匯出檔使用，例如 "HOT NUMBERS"
func (st Strategy) Label() string {
	return strings.ToUpper(string(st)) + " NUMBERS"
}

// FrequencyEntry 單一號碼的歷史出現頻率。
type FrequencyEntry struct {
	Number            int     `yaml:"number"                      json:"number"`
	RelativeFrequency float64 `yaml:"relativeFrequency"           json:"relativeFrequency"`
	AbsoluteFrequency int     `yaml:"absoluteFrequency,omitempty" json:"absoluteFrequency,omitempty"`
}
