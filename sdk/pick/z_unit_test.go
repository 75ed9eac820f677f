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
	"errors"
	"slices"
	"sort"
	"testing"

	"github.com/zintix-labs/picklab/errs"
	"github.com/zintix-labs/picklab/sdk/constraint"
	"github.com/zintix-labs/picklab/sdk/core"
	"github.com/zintix-labs/picklab/spec"
)

func newGen(seed int64) *Generator {
	return New(core.New(core.Default().New(seed)))
}

// staticRanking 測試用排名：hot 取 highFreq 順序，cold 取 lowFreq 順序
type staticRanking struct {
	hot  map[spec.Kind][]int
	cold map[spec.Kind][]int
}

func (r staticRanking) Ranked(k spec.Kind, s spec.Strategy) []spec.FrequencyEntry {
	src := r.hot[k]
	if s == spec.StrategyCold {
		src = r.cold[k]
	}
	out := make([]spec.FrequencyEntry, len(src))
	for i, n := range src {
		out[i] = spec.FrequencyEntry{Number: n, RelativeFrequency: 0.02}
	}
	return out
}

var testRanking = staticRanking{
	hot: map[spec.Kind][]int{
		spec.KindMain: {20, 34, 49, 11, 17, 16, 21, 35, 7, 18},
		spec.KindEuro: {3, 5, 10},
	},
	cold: map[spec.Kind][]int{
		spec.KindMain: {48, 27, 50, 5, 25, 24, 36, 28, 33, 42},
		spec.KindEuro: {2, 11, 8},
	},
}

func checkSet(t *testing.T, ns spec.NumberSet, d spec.Domain, k int) {
	t.Helper()
	if err := ns.Validate(d, k); err != nil {
		t.Fatalf("invalid number set %v: %v", ns, err)
	}
}

func TestGenerateShape(t *testing.T) {
	for seed := int64(0); seed < 200; seed++ {
		g := newGen(seed)
		ns, err := g.Generate(spec.MainDomain, 5, Options{AvoidConsecutive: true, BalanceRanges: seed%2 == 0}, nil)
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		checkSet(t, ns, spec.MainDomain, 5)
		if constraint.HasConsecutiveAdjacency(ns) {
			t.Fatalf("seed %d: consecutive numbers in %v", seed, ns)
		}
	}
}

func TestGenerateBalancedCoverage(t *testing.T) {
	for seed := int64(1); seed <= 50; seed++ {
		g := newGen(seed)
		ns, tr, err := g.GenerateTraced(spec.MainDomain, 5, Options{AvoidConsecutive: true, BalanceRanges: true}, nil)
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		occ := constraint.RangeOccupancy(ns, 1, 10)
		if len(occ) != 5 {
			t.Fatalf("seed %d: expected 5 distinct ranges, got %v from %v", seed, occ, ns)
		}
		if tr.RangeMisses != 0 {
			t.Fatalf("seed %d: unexpected range miss %+v", seed, tr)
		}
	}
}

func TestGenerateDegradedDomain(t *testing.T) {
	g := newGen(3)
	ns, tr, err := g.GenerateTraced(spec.Domain{Min: 1, Max: 5}, 5, Options{AvoidConsecutive: true}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(ns, spec.NumberSet{1, 2, 3, 4, 5}) {
		t.Fatalf("expected full domain, got %v", ns)
	}
	if !tr.Relaxed || !tr.Degraded() {
		t.Fatalf("expected relaxed trace, got %+v", tr)
	}
}

func TestGenerateExclusion(t *testing.T) {
	for seed := int64(0); seed < 100; seed++ {
		g := newGen(seed)
		ns, err := g.Generate(spec.Domain{Min: 1, Max: 10}, 3, Options{AvoidConsecutive: true}, []int{1, 2, 3})
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		checkSet(t, ns, spec.Domain{Min: 1, Max: 10}, 3)
		for _, v := range []int{1, 2, 3} {
			if ns.Contains(v) {
				t.Fatalf("seed %d: excluded %d present in %v", seed, v, ns)
			}
		}
	}
}

func TestGenerateInvalidRange(t *testing.T) {
	g := newGen(1)
	cases := []struct {
		name     string
		d        spec.Domain
		k        int
		excluded []int
		opt      Options
	}{
		{"k exceeds domain", spec.Domain{Min: 1, Max: 4}, 5, nil, Options{}},
		{"inverted domain", spec.Domain{Min: 9, Max: 1}, 1, nil, Options{}},
		{"zero k", spec.MainDomain, 0, nil, Options{}},
		{"excluded leaves too few", spec.Domain{Min: 1, Max: 5}, 3, []int{1, 2, 3}, Options{}},
		{"pool too small", spec.MainDomain, 5, nil, Options{Pool: []int{1, 2, 3}}},
		{"empty pool", spec.MainDomain, 1, nil, Options{Pool: []int{}}},
	}
	for _, c := range cases {
		ns, err := g.Generate(c.d, c.k, c.opt, c.excluded)
		if !errors.Is(err, errs.ErrInvalidRange) {
			t.Fatalf("%s: expected ErrInvalidRange, got %v", c.name, err)
		}
		if ns != nil {
			t.Fatalf("%s: partial result returned: %v", c.name, ns)
		}
	}
}

func TestGenerateExhaustsDomainWithExclusion(t *testing.T) {
	g := newGen(8)
	ns, err := g.Generate(spec.Domain{Min: 1, Max: 10}, 5, Options{AvoidConsecutive: true}, []int{2, 4, 6, 8, 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(ns, spec.NumberSet{1, 3, 5, 7, 9}) {
		t.Fatalf("expected odd numbers, got %v", ns)
	}
}

func TestGeneratePoolAndWeights(t *testing.T) {
	g := newGen(4)
	pool := []int{3, 5, 10, 60}
	for i := 0; i < 100; i++ {
		ns, err := g.Generate(spec.EuroDomain, 2, Options{Pool: pool, Weights: []int{3, 2, 1, 9}}, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, v := range ns {
			if v != 3 && v != 5 && v != 10 {
				t.Fatalf("value %d outside in-domain pool", v)
			}
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	s := spec.DefaultSettings()
	s.Count = 5
	s.BalanceRanges = true
	a, _, err := newGen(77).PickN(&s)
	if err != nil {
		t.Fatal(err)
	}
	b, _, err := newGen(77).PickN(&s)
	if err != nil {
		t.Fatal(err)
	}
	for i := range a {
		if a[i].String() != b[i].String() {
			t.Fatalf("pick %d differs: %s vs %s", i, a[i], b[i])
		}
	}
}

func TestPickPlain(t *testing.T) {
	s := spec.DefaultSettings()
	s.Count = 50
	picks, traces, err := newGen(10).PickN(&s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(picks) != 50 || len(traces) != 50 {
		t.Fatalf("unexpected count %d/%d", len(picks), len(traces))
	}
	for _, p := range picks {
		if err := p.Validate(); err != nil {
			t.Fatalf("invalid pick %s: %v", p, err)
		}
		if constraint.HasConsecutiveAdjacency(p.Main) {
			t.Fatalf("consecutive main numbers in %s", p)
		}
	}
}

func TestPickCustomKeepsPresets(t *testing.T) {
	s := spec.DefaultSettings()
	s.Variant = spec.VariantCustom
	s.PresetMain = []int{7, 14}
	s.PresetEuro = []int{4}
	s.BalanceRanges = true
	s.Count = 100
	picks, _, err := newGen(21).PickN(&s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, p := range picks {
		if err := p.Validate(); err != nil {
			t.Fatalf("invalid pick %s: %v", p, err)
		}
		if !p.Main.Contains(7) || !p.Main.Contains(14) || !p.Euro.Contains(4) {
			t.Fatalf("presets missing from %s", p)
		}
	}
}

func TestPickCustomFullPreset(t *testing.T) {
	s := spec.DefaultSettings()
	s.Variant = spec.VariantCustom
	s.PresetMain = []int{1, 2, 3, 4, 5}
	s.PresetEuro = []int{11, 12}
	p, tr, err := newGen(1).Pick(&s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.String() != "Main: 1, 2, 3, 4, 5 | Euro: 11, 12" || tr.Attempts != 0 {
		t.Fatalf("unexpected pick %s trace %+v", p, tr)
	}
}

func TestPickFrequencyStrategies(t *testing.T) {
	hotMain := testRanking.hot[spec.KindMain]
	coldMain := testRanking.cold[spec.KindMain]
	hotEuro := testRanking.hot[spec.KindEuro]
	coldEuro := testRanking.cold[spec.KindEuro]

	count := func(ns spec.NumberSet, pool []int) int {
		n := 0
		for _, v := range ns {
			if slices.Contains(pool, v) {
				n++
			}
		}
		return n
	}

	g := newGen(12).WithRanking(testRanking)
	for _, st := range []spec.Strategy{spec.StrategyHot, spec.StrategyCold, spec.StrategyMixed} {
		s := spec.DefaultSettings()
		s.Variant = spec.VariantFrequency
		s.Strategy = st
		s.Weighted = st == spec.StrategyHot
		s.Count = 30
		picks, _, err := g.PickN(&s)
		if err != nil {
			t.Fatalf("%s: %v", st, err)
		}
		for _, p := range picks {
			if err := p.Validate(); err != nil {
				t.Fatalf("%s: invalid pick %s: %v", st, p, err)
			}
			switch st {
			case spec.StrategyHot:
				if count(p.Main, hotMain) != 5 || count(p.Euro, hotEuro) != 2 {
					t.Fatalf("hot pick outside pool: %s", p)
				}
			case spec.StrategyCold:
				if count(p.Main, coldMain) != 5 || count(p.Euro, coldEuro) != 2 {
					t.Fatalf("cold pick outside pool: %s", p)
				}
			case spec.StrategyMixed:
				if count(p.Main, hotMain) != 3 || count(p.Main, coldMain) != 2 {
					t.Fatalf("mixed pick wrong split: %s", p)
				}
				if count(p.Euro, hotEuro) != 1 || count(p.Euro, coldEuro) != 1 {
					t.Fatalf("mixed euro wrong split: %s", p)
				}
			}
		}
	}
}

func TestPickFrequencyPoolSize(t *testing.T) {
	g := newGen(2).WithRanking(testRanking)
	s := spec.DefaultSettings()
	s.Variant = spec.VariantFrequency
	s.PoolMain = 5
	s.AvoidConsecutive = false
	p, _, err := g.Pick(&s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := spec.NewNumberSet(20, 34, 49, 11, 17)
	if !slices.Equal(p.Main, want) {
		t.Fatalf("expected top 5 hot numbers, got %v", p.Main)
	}

	s.PoolMain = 4
	if _, _, err := g.Pick(&s); !errors.Is(err, errs.ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange for pool smaller than k, got %v", err)
	}
}

func TestPickFrequencyWithoutRanking(t *testing.T) {
	s := spec.DefaultSettings()
	s.Variant = spec.VariantFrequency
	if _, _, err := newGen(1).Pick(&s); err == nil {
		t.Fatalf("expected error without ranking")
	}
	s.Variant = "bogus"
	if _, _, err := newGen(1).Pick(&s); !errors.Is(err, errs.ErrInvalidSettings) {
		t.Fatalf("expected ErrInvalidSettings, got %v", err)
	}
}

func existingPicks() []spec.Pick {
	raw := [][7]int{
		{14, 21, 32, 39, 48, 2, 10},
		{7, 13, 16, 47, 50, 1, 12},
		{8, 10, 23, 27, 39, 4, 8},
		{17, 20, 33, 36, 48, 6, 7},
		{11, 28, 32, 35, 36, 3, 5},
		{12, 25, 40, 43, 44, 9, 11},
		{1, 29, 30, 49, 50, 4, 8},
		{3, 19, 22, 40, 42, 3, 5},
		{31, 33, 37, 45, 49, 1, 12},
		{2, 4, 9, 26, 44, 6, 7},
		{18, 34, 41, 43, 46, 9, 11},
		{5, 6, 15, 24, 38, 2, 10},
	}
	out := make([]spec.Pick, len(raw))
	for i, r := range raw {
		out[i] = spec.Pick{Main: spec.NewNumberSet(r[:5]...), Euro: spec.NewNumberSet(r[5:]...)}
	}
	return out
}

func TestCoverage(t *testing.T) {
	existing := existingPicks()
	picks, err := newGen(6).Coverage(existing, 6, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(picks) != 6 {
		t.Fatalf("expected 6 picks, got %d", len(picks))
	}

	used := make(map[string]bool)
	for _, p := range existing {
		used[p.Euro.String()] = true
	}
	euros := make([]int, 0, 12)
	for _, p := range picks {
		if err := p.Validate(); err != nil {
			t.Fatalf("invalid pick %s: %v", p, err)
		}
		if used[p.Euro.String()] {
			t.Fatalf("euro pair %s reused", p.Euro)
		}
		used[p.Euro.String()] = true
		euros = append(euros, p.Euro...)
		for _, e := range existing {
			if !e.Euro.Contains(p.Euro[0]) && !e.Euro.Contains(p.Euro[1]) {
				continue
			}
			for _, m := range p.Main {
				if e.Main.Contains(m) {
					t.Fatalf("pick %s reuses main %d of %s", p, m, e)
				}
			}
		}
	}
	sort.Ints(euros)
	want := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}
	if !slices.Equal(euros, want) {
		t.Fatalf("euro numbers not fully covered: %v", euros)
	}
}

func TestCoverageErrors(t *testing.T) {
	g := newGen(1)
	if _, err := g.Coverage(nil, 0, Options{}); !errors.Is(err, errs.ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange for n=0, got %v", err)
	}
	if _, err := g.Coverage(nil, 67, Options{}); !errors.Is(err, errs.ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange for too many pairs, got %v", err)
	}
}

func TestSearchPairs(t *testing.T) {
	order := []euroPair{{1, 2}, {1, 3}, {2, 3}, {3, 4}}
	got := searchPairs(order, 2, 4)
	if len(got) != 2 || covered(got) != 4 {
		t.Fatalf("expected a perfect cover, got %v", got)
	}
	if searchPairs([]euroPair{{1, 2}, {1, 3}}, 2, 4) != nil {
		t.Fatalf("expected no cover")
	}
}
