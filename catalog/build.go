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

package catalog

import (
	"slices"
	"time"

	"github.com/zintix-labs/picklab/errs"
	"github.com/zintix-labs/picklab/spec"
)

// Counts 冷熱號數量
type Counts struct {
	MainHot  int
	MainCold int
	EuroHot  int
	EuroCold int
}

// DefaultCounts 主號 10/10、歐元號 3/3
func DefaultCounts() Counts {
	return Counts{MainHot: 10, MainCold: 10, EuroHot: 3, EuroCold: 3}
}

// Build 由完整頻率清單建立頻率表：頻率最高的 hot 個為熱號、最低的 cold 個為冷號，
// 其餘為中性；各清單依號碼排序。清單需涵蓋整個區間且不可重複。
func Build(main, euro []spec.FrequencyEntry, c Counts, now time.Time) (*Table, error) {
	mg, err := split(spec.KindMain, main, c.MainHot, c.MainCold)
	if err != nil {
		return nil, err
	}
	eg, err := split(spec.KindEuro, euro, c.EuroHot, c.EuroCold)
	if err != nil {
		return nil, err
	}
	t := &Table{
		Main:        mg,
		Euro:        eg,
		LastUpdated: now.Format(time.DateOnly),
		Metadata: &Metadata{
			MainNumbersTotal: len(main),
			EuroNumbersTotal: len(euro),
			MainHotCount:     len(mg.Hot),
			MainColdCount:    len(mg.Cold),
			EuroHotCount:     len(eg.Hot),
			EuroColdCount:    len(eg.Cold),
			GeneratedBy:      "picklab analyze",
		},
	}
	if err := t.Validate(); err != nil {
		return nil, errs.Wrap(err, "built table invalid")
	}
	return t, nil
}

func split(k spec.Kind, entries []spec.FrequencyEntry, hot, cold int) (Group, error) {
	d := k.Domain()
	if hot < k.Count() || cold < k.Count() {
		return Group{}, errs.InvalidRangef("%s: hot=%d cold=%d, each needs at least %d", k, hot, cold, k.Count())
	}
	if hot+cold > len(entries) {
		return Group{}, errs.InvalidRangef("%s: hot=%d cold=%d do not fit %d entries", k, hot, cold, len(entries))
	}
	seen := make(map[int]struct{}, len(entries))
	for _, e := range entries {
		if !d.Contains(e.Number) {
			return Group{}, errs.InvalidRangef("%s number %d outside %s", k, e.Number, d)
		}
		if _, dup := seen[e.Number]; dup {
			return Group{}, errs.InvalidRangef("%s number %d repeated", k, e.Number)
		}
		seen[e.Number] = struct{}{}
	}
	if len(seen) != d.Size() {
		return Group{}, errs.InvalidRangef("%s covers %d of %d numbers", k, len(seen), d.Size())
	}

	ranked := slices.Clone(entries)
	slices.SortStableFunc(ranked, func(a, b Entry) int { return cmpFreq(a, b, true) })
	byNumber := func(a, b Entry) int { return a.Number - b.Number }

	g := Group{
		Hot:     slices.Clone(ranked[:hot]),
		Cold:    slices.Clone(ranked[len(ranked)-cold:]),
		Neutral: slices.Clone(ranked[hot : len(ranked)-cold]),
	}
	slices.SortFunc(g.Hot, byNumber)
	slices.SortFunc(g.Cold, byNumber)
	slices.SortFunc(g.Neutral, byNumber)
	return g, nil
}
