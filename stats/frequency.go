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
	"slices"
	"strconv"
	"time"

	"github.com/zintix-labs/picklab/catalog"
	"github.com/zintix-labs/picklab/errs"
	"github.com/zintix-labs/picklab/spec"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/combin"
	"gonum.org/v1/gonum/stat/distuv"
)

// FrequencyReport 開獎歷史分析報告
type FrequencyReport struct {
	Draws   int           `json:"draws" yaml:"draws"`
	From    time.Time     `json:"from,omitzero" yaml:"from,omitempty"`
	To      time.Time     `json:"to,omitzero" yaml:"to,omitempty"`
	Main    NumberStats   `json:"main" yaml:"main"`
	Euro    []NumberStats `json:"euro" yaml:"euro"` // 每個有資料的歐元期間一份
	EvenOdd EvenOddReport `json:"evenOdd" yaml:"evenOdd"`
	Sum     SumStats      `json:"sum" yaml:"sum"`
}

// NumberStats 單一號碼區間的頻率統計
type NumberStats struct {
	Label         string                `json:"label" yaml:"label"`
	Domain        spec.Domain           `json:"domain" yaml:"domain"`
	Draws         int                   `json:"draws" yaml:"draws"`
	Total         int                   `json:"total" yaml:"total"` // 抽出的號碼總數
	Entries       []spec.FrequencyEntry `json:"entries" yaml:"entries"`
	Expected      float64               `json:"expected" yaml:"expected"` // 均勻分布下的相對頻率
	MeanCount     float64               `json:"meanCount" yaml:"meanCount"`
	StdCount      float64               `json:"stdCount" yaml:"stdCount"`
	MostFrequent  int                   `json:"mostFrequent" yaml:"mostFrequent"`
	LeastFrequent int                   `json:"leastFrequent" yaml:"leastFrequent"`
	ChiSquare     float64               `json:"chiSquare" yaml:"chiSquare"`
	PValue        float64               `json:"pValue" yaml:"pValue"`
}

// EvenOddReport 每期偶數個數分布
type EvenOddReport struct {
	Main []EvenOddBucket `json:"main" yaml:"main"`
	Euro []EvenOddBucket `json:"euro" yaml:"euro"`
}

type EvenOddBucket struct {
	Even        int     `json:"even" yaml:"even"`
	Odd         int     `json:"odd" yaml:"odd"`
	Count       int     `json:"count" yaml:"count"`
	Empirical   float64 `json:"empirical" yaml:"empirical"`
	Theoretical float64 `json:"theoretical" yaml:"theoretical"`
}

// SumStats 主號總和
type SumStats struct {
	Mean     float64 `json:"mean" yaml:"mean"`
	Std      float64 `json:"std" yaml:"std"`
	Min      int     `json:"min" yaml:"min"`
	Max      int     `json:"max" yaml:"max"`
	Expected float64 `json:"expected" yaml:"expected"`
}

// Analyze 統計開獎歷史
//
// 主號使用全部期數；歐元號依期間分開統計 (上限 8/10/12)，避免不同規則混在一起。
func Analyze(draws []Draw) (*FrequencyReport, error) {
	if len(draws) == 0 {
		return nil, errs.EmptyResultf("no draws to analyze")
	}
	r := &FrequencyReport{Draws: len(draws)}

	mainCounts := make([]int, spec.MainDomain.Size())
	sums := make([]float64, 0, len(draws))
	sumMin, sumMax := 0, 0
	for i, d := range draws {
		s := 0
		for _, n := range d.Main {
			mainCounts[n-spec.MainDomain.Min]++
			s += n
		}
		sums = append(sums, float64(s))
		if i == 0 || s < sumMin {
			sumMin = s
		}
		if i == 0 || s > sumMax {
			sumMax = s
		}
		if !d.Date.IsZero() {
			if r.From.IsZero() || d.Date.Before(r.From) {
				r.From = d.Date
			}
			if d.Date.After(r.To) {
				r.To = d.Date
			}
		}
	}
	r.Main = numberStats("main", spec.MainDomain, len(draws), mainCounts)

	for _, era := range EuroEras {
		dom := spec.Domain{Min: spec.EuroDomain.Min, Max: era.Max}
		counts := make([]int, dom.Size())
		n := 0
		for _, d := range draws {
			e, ok := EraOf(d.Date)
			if !ok || e.Label != era.Label {
				continue
			}
			n++
			for _, v := range d.Euro {
				counts[v-dom.Min]++
			}
		}
		if n == 0 {
			continue
		}
		r.Euro = append(r.Euro, numberStats("euro "+era.Label, dom, n, counts))
	}

	r.EvenOdd = EvenOddReport{
		Main: evenOdd(draws, spec.MainDomain, spec.MainCount, func(d Draw) []int { return d.Main }),
	}
	if cur, ok := r.CurrentEuro(); ok {
		r.EvenOdd.Euro = evenOdd(currentEraDraws(draws), cur.Domain, spec.EuroCount, func(d Draw) []int { return d.Euro })
	}

	mean, std := stat.PopMeanStdDev(sums, nil)
	r.Sum = SumStats{
		Mean:     mean,
		Std:      std,
		Min:      sumMin,
		Max:      sumMax,
		Expected: float64(spec.MainCount) * float64(spec.MainDomain.Min+spec.MainDomain.Max) / 2,
	}
	return r, nil
}

// CurrentEuro 回傳現行歐元期間 (1-12) 的統計
func (r *FrequencyReport) CurrentEuro() (NumberStats, bool) {
	for _, ns := range r.Euro {
		if ns.Domain == spec.EuroDomain {
			return ns, true
		}
	}
	return NumberStats{}, false
}

// Catalog 由分析結果建立頻率表 (主號全期、歐元號現行期間)
func (r *FrequencyReport) Catalog(c catalog.Counts, now time.Time) (*catalog.Table, error) {
	euro, ok := r.CurrentEuro()
	if !ok {
		return nil, errs.EmptyResultf("no draws in the current euro era (%s)", spec.EuroDomain)
	}
	t, err := catalog.Build(r.Main.Entries, euro.Entries, c, now)
	if err != nil {
		return nil, err
	}
	t.Metadata.DataSource = map[string]string{
		"draws":     strconv.Itoa(r.Draws),
		"euroDraws": strconv.Itoa(euro.Draws),
	}
	if !r.From.IsZero() {
		t.Metadata.DataSource["from"] = r.From.Format(time.DateOnly)
		t.Metadata.DataSource["to"] = r.To.Format(time.DateOnly)
	}
	return t, nil
}

// Top 依絕對頻率由高到低取前 n 個
func (ns NumberStats) Top(n int) []spec.FrequencyEntry {
	out := slices.Clone(ns.Entries)
	slices.SortStableFunc(out, func(a, b spec.FrequencyEntry) int { return b.AbsoluteFrequency - a.AbsoluteFrequency })
	return out[:min(n, len(out))]
}

// ============================================================
// ** 內部方法 **
// ============================================================

func numberStats(label string, d spec.Domain, draws int, counts []int) NumberStats {
	total := 0
	for _, c := range counts {
		total += c
	}
	ns := NumberStats{
		Label:    label,
		Domain:   d,
		Draws:    draws,
		Total:    total,
		Entries:  make([]spec.FrequencyEntry, len(counts)),
		Expected: 1 / float64(d.Size()),
	}
	obs := make([]float64, len(counts))
	exp := make([]float64, len(counts))
	most, least := 0, 0
	for i, c := range counts {
		rel := 0.0
		if total > 0 {
			rel = float64(c) / float64(total)
		}
		ns.Entries[i] = spec.FrequencyEntry{Number: d.Min + i, RelativeFrequency: rel, AbsoluteFrequency: c}
		obs[i] = float64(c)
		exp[i] = float64(total) / float64(len(counts))
		if c > counts[most] {
			most = i
		}
		if c < counts[least] {
			least = i
		}
	}
	ns.MostFrequent = d.Min + most
	ns.LeastFrequent = d.Min + least
	ns.MeanCount, ns.StdCount = stat.PopMeanStdDev(obs, nil)
	ns.PValue = 1
	if total > 0 && len(counts) > 1 {
		ns.ChiSquare = stat.ChiSquare(obs, exp)
		ns.PValue = distuv.ChiSquared{K: float64(len(counts) - 1)}.Survival(ns.ChiSquare)
	}
	return ns
}

// evenOdd 以超幾何分布計算理論機率：區間內偶數 e 個、奇數 o 個，取 k 個中恰有 i 個偶數。
func evenOdd(draws []Draw, d spec.Domain, k int, nums func(Draw) []int) []EvenOddBucket {
	even := 0
	for n := d.Min; n <= d.Max; n++ {
		if n%2 == 0 {
			even++
		}
	}
	odd := d.Size() - even
	all := float64(combin.Binomial(d.Size(), k))

	out := make([]EvenOddBucket, k+1)
	for i := range out {
		out[i] = EvenOddBucket{Even: i, Odd: k - i}
		if i <= even && k-i <= odd {
			out[i].Theoretical = float64(combin.Binomial(even, i)*combin.Binomial(odd, k-i)) / all
		}
	}
	for _, dr := range draws {
		e := 0
		for _, n := range nums(dr) {
			if n%2 == 0 {
				e++
			}
		}
		out[e].Count++
	}
	if len(draws) > 0 {
		for i := range out {
			out[i].Empirical = float64(out[i].Count) / float64(len(draws))
		}
	}
	return out
}

func currentEraDraws(draws []Draw) []Draw {
	cur := EuroEras[len(EuroEras)-1]
	out := make([]Draw, 0, len(draws))
	for _, d := range draws {
		if e, ok := EraOf(d.Date); ok && e.Label == cur.Label {
			out = append(out, d)
		}
	}
	return out
}
