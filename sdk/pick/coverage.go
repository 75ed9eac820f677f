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
	"slices"

	"github.com/zintix-labs/picklab/errs"
	"github.com/zintix-labs/picklab/spec"
)

// CoverageAttempts 隨機挑選歐元號配對的嘗試次數，失敗後改為窮舉搜尋
const CoverageAttempts = 10000

type euroPair [2]int

// Coverage 以既有號碼為基礎再產生 n 注補充號碼：
//  1. 歐元號配對不與既有配對重複，且彼此不重複
//  2. n 組配對合計涵蓋 min(12, 2n) 個不同的歐元號
//  3. 主號避開所有「與新配對共用任一歐元號」的既有號碼的主號
//
// opt 套用在主號上（Fixed/Pool 會被忽略）。
func (g *Generator) Coverage(existing []spec.Pick, n int, opt Options) ([]spec.Pick, error) {
	if n <= 0 {
		return nil, errs.InvalidRangef("coverage count must be positive, got %d", n)
	}
	used := make(map[euroPair]struct{}, len(existing))
	for _, p := range existing {
		if len(p.Euro) != spec.EuroCount {
			return nil, errs.InvalidRangef("existing pick has %d euro numbers", len(p.Euro))
		}
		used[euroPair{p.Euro[0], p.Euro[1]}] = struct{}{}
	}

	pairs, err := g.coveragePairs(used, n)
	if err != nil {
		return nil, err
	}

	opt.Fixed, opt.Pool, opt.Weights = nil, nil, nil
	picks := make([]spec.Pick, 0, n)
	for _, pair := range pairs {
		main, err := g.Generate(spec.MainDomain, spec.MainCount, opt, forbiddenMains(existing, pair))
		if err != nil {
			return nil, errs.WrapWithExtra(err, "coverage main numbers", spec.NumberSet(pair[:]).String())
		}
		picks = append(picks, spec.Pick{Main: main, Euro: spec.NewNumberSet(pair[0], pair[1])})
	}
	return picks, nil
}

// forbiddenMains 與 pair 共用任一歐元號的既有號碼之主號
func forbiddenMains(existing []spec.Pick, pair euroPair) []int {
	out := make([]int, 0)
	for _, p := range existing {
		if !p.Euro.Contains(pair[0]) && !p.Euro.Contains(pair[1]) {
			continue
		}
		for _, m := range p.Main {
			if !slices.Contains(out, m) {
				out = append(out, m)
			}
		}
	}
	return out
}

func (g *Generator) coveragePairs(used map[euroPair]struct{}, n int) ([]euroPair, error) {
	d := spec.EuroDomain
	avail := make([]euroPair, 0, d.Size()*(d.Size()-1)/2)
	for a := d.Min; a <= d.Max; a++ {
		for b := a + 1; b <= d.Max; b++ {
			if _, ok := used[euroPair{a, b}]; !ok {
				avail = append(avail, euroPair{a, b})
			}
		}
	}
	if len(avail) < n {
		return nil, errs.InvalidRangef("only %d unused euro pairs left, need %d", len(avail), n)
	}
	target := min(d.Size(), 2*n)

	idx := make([]int, len(avail))
	for i := range idx {
		idx[i] = i
	}
	for a := 0; a < CoverageAttempts; a++ {
		g.core.ShuffleInts(idx)
		chosen := make([]euroPair, n)
		for i := 0; i < n; i++ {
			chosen[i] = avail[idx[i]]
		}
		if covered(chosen) >= target {
			return chosen, nil
		}
	}

	// 窮舉：先打亂順序讓結果不固定，再以剪枝回溯搜尋
	g.core.ShuffleInts(idx)
	order := make([]euroPair, len(avail))
	for i, j := range idx {
		order[i] = avail[j]
	}
	if found := searchPairs(order, n, target); found != nil {
		return found, nil
	}
	return nil, errs.InvalidRangef("no %d unused euro pairs cover %d numbers", n, target)
}

func covered(pairs []euroPair) int {
	seen := make(map[int]struct{}, 2*len(pairs))
	for _, p := range pairs {
		seen[p[0]] = struct{}{}
		seen[p[1]] = struct{}{}
	}
	return len(seen)
}

func searchPairs(order []euroPair, n, target int) []euroPair {
	chosen := make([]euroPair, 0, n)
	count := make(map[int]int)
	var walk func(start int) bool
	walk = func(start int) bool {
		if len(chosen) == n {
			return len(count) >= target
		}
		// 剩餘每組最多再貢獻 2 個新號碼
		if len(count)+2*(n-len(chosen)) < target {
			return false
		}
		for i := start; i <= len(order)-(n-len(chosen)); i++ {
			p := order[i]
			chosen = append(chosen, p)
			count[p[0]]++
			count[p[1]]++
			if walk(i + 1) {
				return true
			}
			chosen = chosen[:len(chosen)-1]
			for _, v := range p {
				if count[v]--; count[v] == 0 {
					delete(count, v)
				}
			}
		}
		return false
	}
	if walk(0) {
		return chosen
	}
	return nil
}
