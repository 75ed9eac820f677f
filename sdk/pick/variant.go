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

package pick

import (
	"github.com/zintix-labs/picklab/errs"
	"github.com/zintix-labs/picklab/sdk/sampler"
	"github.com/zintix-labs/picklab/spec"
)

// Ranking 提供依策略排序的頻率清單：hot 由高到低、cold 由低到高。
type Ranking interface {
	Ranked(k spec.Kind, s spec.Strategy) []spec.FrequencyEntry
}

// variantFn 產生一注號碼
type variantFn func(g *Generator, s *spec.Settings) (spec.Pick, Trace, error)

var variantMap = map[spec.Variant]variantFn{
	spec.VariantPlain:     pickPlain,
	spec.VariantCustom:    pickCustom,
	spec.VariantFrequency: pickFrequency,
}

// Pick 依 s.Variant 產生一注號碼。
func (g *Generator) Pick(s *spec.Settings) (spec.Pick, Trace, error) {
	fn, ok := variantMap[s.Variant]
	if !ok {
		return spec.Pick{}, Trace{}, errs.InvalidSettingsf("unknown variant %q", s.Variant)
	}
	return fn(g, s)
}

// PickN 依 s.Count 產生多注；任一注失敗即回傳錯誤，不回傳部分結果。
func (g *Generator) PickN(s *spec.Settings) ([]spec.Pick, []Trace, error) {
	picks := make([]spec.Pick, 0, s.Count)
	traces := make([]Trace, 0, s.Count)
	for i := 0; i < s.Count; i++ {
		p, tr, err := g.Pick(s)
		if err != nil {
			return nil, nil, err
		}
		picks = append(picks, p)
		traces = append(traces, tr)
	}
	return picks, traces, nil
}

func mainOptions(s *spec.Settings) Options {
	return Options{AvoidConsecutive: s.AvoidConsecutive, BalanceRanges: s.BalanceRanges}
}

// pickPlain 主號套用連號/區段設定；歐元號只保證不重複。
func pickPlain(g *Generator, s *spec.Settings) (spec.Pick, Trace, error) {
	main, tr, err := g.GenerateTraced(spec.MainDomain, spec.MainCount, mainOptions(s), nil)
	if err != nil {
		return spec.Pick{}, tr, errs.Wrap(err, "generate main numbers")
	}
	euro, etr, err := g.GenerateTraced(spec.EuroDomain, spec.EuroCount, Options{}, nil)
	if err != nil {
		return spec.Pick{}, tr, errs.Wrap(err, "generate euro numbers")
	}
	tr.Merge(etr)
	return spec.Pick{Main: main, Euro: euro}, tr, nil
}

// pickCustom 保留預設號碼，只產生剩餘的數量。
func pickCustom(g *Generator, s *spec.Settings) (spec.Pick, Trace, error) {
	main, tr, err := g.completePreset(spec.KindMain, s.PresetMain, mainOptions(s))
	if err != nil {
		return spec.Pick{}, tr, errs.Wrap(err, "complete main numbers")
	}
	euro, etr, err := g.completePreset(spec.KindEuro, s.PresetEuro, Options{})
	if err != nil {
		return spec.Pick{}, tr, errs.Wrap(err, "complete euro numbers")
	}
	tr.Merge(etr)
	return spec.Pick{Main: main, Euro: euro}, tr, nil
}

func (g *Generator) completePreset(k spec.Kind, preset []int, opt Options) (spec.NumberSet, Trace, error) {
	need := k.Count() - len(preset)
	if need < 0 {
		return nil, Trace{}, errs.InvalidRangef("%d preset %s numbers exceed %d", len(preset), k, k.Count())
	}
	if need == 0 {
		ns := spec.NewNumberSet(preset...)
		return ns, Trace{}, ns.Validate(k.Domain(), k.Count())
	}
	opt.Fixed = preset
	rest, tr, err := g.GenerateTraced(k.Domain(), need, opt, preset)
	if err != nil {
		return nil, tr, err
	}
	all := append(rest.Ints(), preset...)
	return spec.NewNumberSet(all...), tr, nil
}

// pickFrequency 從冷熱號池抽號，mixed 為 ⌈k/2⌉ 個熱號加上其餘冷號。
func pickFrequency(g *Generator, s *spec.Settings) (spec.Pick, Trace, error) {
	if g.ranking == nil {
		return spec.Pick{}, Trace{}, errs.NewFatal("frequency variant requires a ranking table")
	}
	main, tr, err := g.fromRanking(spec.KindMain, s, mainOptions(s))
	if err != nil {
		return spec.Pick{}, tr, errs.Wrap(err, "generate main numbers")
	}
	euro, etr, err := g.fromRanking(spec.KindEuro, s, Options{})
	if err != nil {
		return spec.Pick{}, tr, errs.Wrap(err, "generate euro numbers")
	}
	tr.Merge(etr)
	return spec.Pick{Main: main, Euro: euro}, tr, nil
}

func (g *Generator) fromRanking(k spec.Kind, s *spec.Settings, opt Options) (spec.NumberSet, Trace, error) {
	if s.Strategy != spec.StrategyMixed {
		opt.Pool, opt.Weights = g.pool(k, s.Strategy, s.Pool(k), s.Weighted)
		return g.GenerateTraced(k.Domain(), k.Count(), opt, nil)
	}

	hotN := (k.Count() + 1) / 2
	hotOpt := opt
	hotOpt.Pool, hotOpt.Weights = g.pool(k, spec.StrategyHot, s.Pool(k), s.Weighted)
	hot, tr, err := g.GenerateTraced(k.Domain(), hotN, hotOpt, nil)
	if err != nil {
		return nil, tr, err
	}
	coldOpt := opt
	coldOpt.Fixed = hot.Ints()
	coldOpt.Pool, coldOpt.Weights = g.pool(k, spec.StrategyCold, s.Pool(k), s.Weighted)
	cold, ctr, err := g.GenerateTraced(k.Domain(), k.Count()-hotN, coldOpt, hot)
	tr.Merge(ctr)
	if err != nil {
		return nil, tr, err
	}
	return spec.NewNumberSet(append(hot.Ints(), cold...)...), tr, nil
}

// pool 取排名前 size 名（0 代表全部），weighted 時依名次給權重。
func (g *Generator) pool(k spec.Kind, st spec.Strategy, size int, weighted bool) ([]int, []int) {
	entries := g.ranking.Ranked(k, st)
	if size > 0 && size < len(entries) {
		entries = entries[:size]
	}
	values := make([]int, 0, len(entries))
	for _, e := range entries {
		values = append(values, e.Number)
	}
	if !weighted {
		return values, nil
	}
	return values, sampler.RankWeights(len(values))
}
