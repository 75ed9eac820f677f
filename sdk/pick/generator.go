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

// Package pick 為號碼產生引擎：在區間內以拒絕採樣產生 k 個不重複號碼，
// 並支援避開連號、區段平衡、排除號碼、固定號碼與限定號池。
//
// 所有限制都是「盡力而為」：嘗試次數用完後依序放寬（先放寬區段內的連號，
// 再放寬全域補位的連號），但輸出永遠是 k 個不重複、在區間內、遞增排序的號碼。
package pick

import (
	"slices"

	"github.com/zintix-labs/picklab/errs"
	"github.com/zintix-labs/picklab/sdk/constraint"
	"github.com/zintix-labs/picklab/sdk/core"
	"github.com/zintix-labs/picklab/sdk/sampler"
	"github.com/zintix-labs/picklab/spec"
)

const (
	// RangeAttemptBudget 每個區段在完整限制下的嘗試次數
	RangeAttemptBudget = 50
	// RelaxedAttemptBudget 區段內放寬連號限制後的嘗試次數
	RelaxedAttemptBudget = 100
	// FillAttemptBudget 全域補位在完整限制下的嘗試次數（總計）
	FillAttemptBudget = 1000
	// enumerateLimit 放寬後仍補不滿時，區間不超過此大小就直接列舉剩餘候選
	enumerateLimit = 4096
)

// Options 單次產生的限制條件。
type Options struct {
	// AvoidConsecutive 新號碼不得與已選號碼（含 Fixed）相差 1
	AvoidConsecutive bool
	// BalanceRanges 區間可等分為 5 段時，先讓每個未被佔用的區段各出一個號碼
	BalanceRanges bool
	// Fixed 已確定的號碼：視為已佔用區段並參與連號判斷，但不會出現在輸出中
	Fixed []int
	// Pool 非 nil 時取代整個區間成為抽號範圍（區間外的值會被忽略）
	Pool []int
	// Weights 與 Pool 對齊的權重，nil 代表等權重
	Weights []int
}

// Trace 記錄一次產生過程中的放寬情形，不影響輸出。
type Trace struct {
	Attempts       int  `json:"attempts"        yaml:"attempts"`
	RangeFallbacks int  `json:"range_fallbacks" yaml:"range_fallbacks"`
	RangeMisses    int  `json:"range_misses"    yaml:"range_misses"`
	Relaxed        bool `json:"relaxed"         yaml:"relaxed"`
}

// Degraded 是否有任何限制被放寬
func (t Trace) Degraded() bool {
	return t.RangeFallbacks > 0 || t.RangeMisses > 0 || t.Relaxed
}

// Merge 累加另一段 Trace
func (t *Trace) Merge(o Trace) {
	t.Attempts += o.Attempts
	t.RangeFallbacks += o.RangeFallbacks
	t.RangeMisses += o.RangeMisses
	t.Relaxed = t.Relaxed || o.Relaxed
}

// Generator 號碼產生器，單一 goroutine 使用。
type Generator struct {
	core    *core.Core
	ranking Ranking
}

// New 以 Core 建立產生器
func New(c *core.Core) *Generator {
	return &Generator{core: c}
}

// WithRanking 設定頻率變體所需的冷熱號排名
func (g *Generator) WithRanking(r Ranking) *Generator {
	g.ranking = r
	return g
}

func (g *Generator) Core() *core.Core {
	return g.core
}

// Generate 在 d 中產生 k 個號碼，排除 excluded。
// 區間不合法、k <= 0、k 大於區間大小或可選號碼不足時回傳 InvalidRange，不回傳部分結果。
func (g *Generator) Generate(d spec.Domain, k int, opt Options, excluded []int) (spec.NumberSet, error) {
	ns, _, err := g.GenerateTraced(d, k, opt, excluded)
	return ns, err
}

// GenerateTraced 同 Generate，並回傳放寬紀錄。
func (g *Generator) GenerateTraced(d spec.Domain, k int, opt Options, excluded []int) (spec.NumberSet, Trace, error) {
	if err := d.Valid(); err != nil {
		return nil, Trace{}, err
	}
	if k <= 0 {
		return nil, Trace{}, errs.InvalidRangef("k must be positive, got %d", k)
	}
	if k > d.Size() {
		return nil, Trace{}, errs.InvalidRangef("k=%d exceeds domain %s size %d", k, d, d.Size())
	}
	st, err := g.newDraw(d, k, opt, excluded)
	if err != nil {
		return nil, Trace{}, err
	}
	if left := st.feasible(); k > left {
		return nil, Trace{}, errs.InvalidRangef("only %d candidates left in %s for k=%d", left, d, k)
	}

	if opt.BalanceRanges {
		if width, ok := constraint.Balanceable(d); ok {
			st.balance(width)
		}
	}
	st.fill()
	return spec.NewNumberSet(st.chosen...), st.trace, nil
}

// draw 單次產生的暫存狀態
type draw struct {
	g       *Generator
	d       spec.Domain
	k       int
	opt     Options
	pool    *sampler.Pool
	blocked map[int]struct{}
	chosen  []int
	taken   []int // Fixed + chosen，供連號判斷
	trace   Trace
}

func (g *Generator) newDraw(d spec.Domain, k int, opt Options, excluded []int) (*draw, error) {
	st := &draw{
		g:       g,
		d:       d,
		k:       k,
		opt:     opt,
		blocked: make(map[int]struct{}, len(excluded)+len(opt.Fixed)),
		chosen:  make([]int, 0, k),
		taken:   make([]int, 0, k+len(opt.Fixed)),
	}
	for _, v := range excluded {
		st.blocked[v] = struct{}{}
	}
	for _, v := range opt.Fixed {
		st.blocked[v] = struct{}{}
	}
	st.taken = append(st.taken, opt.Fixed...)

	if opt.Pool != nil {
		values, weights := filterPool(d, opt.Pool, opt.Weights, d.Min, d.Max)
		p, err := sampler.NewPool(values, weights)
		if err != nil {
			return nil, errs.InvalidRangef("invalid pool: %v", err)
		}
		st.pool = p
	}
	return st, nil
}

// filterPool 保留 [lo,hi] 內、不重複的池內號碼，權重同步裁切。
func filterPool(d spec.Domain, pool, weights []int, lo, hi int) ([]int, []int) {
	values := make([]int, 0, len(pool))
	var ws []int
	if weights != nil {
		ws = make([]int, 0, len(pool))
	}
	for i, v := range pool {
		if v < lo || v > hi || !d.Contains(v) || slices.Contains(values, v) {
			continue
		}
		values = append(values, v)
		if weights != nil && i < len(weights) {
			ws = append(ws, weights[i])
		}
	}
	if ws != nil && len(ws) != len(values) {
		ws = nil
	}
	return values, ws
}

// feasible 排除 blocked 後仍可選的號碼數
func (st *draw) feasible() int {
	if st.pool != nil {
		n := 0
		for _, v := range st.pool.Values {
			if _, b := st.blocked[v]; !b {
				n++
			}
		}
		return n
	}
	n := st.d.Size()
	for v := range st.blocked {
		if st.d.Contains(v) {
			n--
		}
	}
	return n
}

func (st *draw) accept(v int, strict bool) bool {
	if !st.d.Contains(v) {
		return false
	}
	if _, b := st.blocked[v]; b {
		return false
	}
	if constraint.HasDuplicate(st.chosen, v) {
		return false
	}
	if strict && st.opt.AvoidConsecutive && constraint.CreatesAdjacency(st.taken, v) {
		return false
	}
	return true
}

func (st *draw) add(v int) {
	st.chosen = append(st.chosen, v)
	st.taken = append(st.taken, v)
}

func (st *draw) between(lo, hi int) func() int {
	return func() int {
		v, err := st.g.core.IntBetween(lo, hi)
		if err != nil {
			return lo - 1
		}
		return v
	}
}

// drawAny 從整個區間或號池抽一個值
func (st *draw) drawAny() int {
	if st.pool != nil {
		return st.pool.Pick(st.g.core)
	}
	return st.between(st.d.Min, st.d.Max)()
}

// rangeSource 區段 [lo,hi] 的抽號函式；號池在此區段沒有號碼時回傳 nil
func (st *draw) rangeSource(lo, hi int) func() int {
	if st.pool == nil {
		return st.between(lo, hi)
	}
	var ws []int
	if st.pool.Weighted() {
		ws = st.opt.Weights
	}
	values, weights := filterPool(st.d, st.opt.Pool, ws, lo, hi)
	if len(values) == 0 {
		return nil
	}
	sub, err := sampler.NewPool(values, weights)
	if err != nil {
		return nil
	}
	return func() int { return sub.Pick(st.g.core) }
}

// tryDraw 最多抽 budget 次，第一個通過的值加入並回傳 true
func (st *draw) tryDraw(src func() int, budget int, strict bool) bool {
	for a := 0; a < budget; a++ {
		v := src()
		st.trace.Attempts++
		if st.accept(v, strict) {
			st.add(v)
			return true
		}
	}
	return false
}

// balance 未被佔用的區段打亂順序後逐一補號，最多補到 k 個。
func (st *draw) balance(width int) {
	occ := constraint.RangeOccupancy(st.taken, st.d.Min, width)
	free := make([]int, 0, spec.RangeBuckets)
	for i := 0; i < spec.RangeBuckets; i++ {
		if _, ok := occ[i]; !ok {
			free = append(free, i)
		}
	}
	st.g.core.ShuffleInts(free)

	for _, idx := range free {
		if len(st.chosen) == st.k {
			return
		}
		src := st.rangeSource(constraint.RangeBounds(st.d.Min, width, idx))
		if src == nil {
			st.trace.RangeMisses++
			continue
		}
		if st.tryDraw(src, RangeAttemptBudget, true) {
			continue
		}
		if st.tryDraw(src, RelaxedAttemptBudget, false) {
			if st.opt.AvoidConsecutive {
				st.trace.RangeFallbacks++
			}
			continue
		}
		st.trace.RangeMisses++
	}
}

// fill 全域補位：先在完整限制下嘗試，用完次數後放寬連號。
func (st *draw) fill() {
	if len(st.chosen) == st.k {
		return
	}
	if st.opt.AvoidConsecutive {
		for a := 0; a < FillAttemptBudget && len(st.chosen) < st.k; a++ {
			v := st.drawAny()
			st.trace.Attempts++
			if st.accept(v, true) {
				st.add(v)
			}
		}
		if len(st.chosen) == st.k {
			return
		}
		st.trace.Relaxed = true
	}

	for a := 0; a < FillAttemptBudget && len(st.chosen) < st.k; a++ {
		v := st.drawAny()
		st.trace.Attempts++
		if st.accept(v, false) {
			st.add(v)
		}
	}
	// 拒絕採樣仍補不滿（極端排除或號池權重懸殊）時，改由剩餘候選均勻抽取
	for len(st.chosen) < st.k {
		st.trace.Attempts++
		rest := st.remaining()
		if rest == nil {
			if v := st.drawAny(); st.accept(v, false) {
				st.add(v)
			}
			continue
		}
		if len(rest) == 0 {
			return
		}
		st.add(st.g.core.Pick(rest))
	}
}

// remaining 列舉尚可選的號碼；區間過大時回傳 nil
func (st *draw) remaining() []int {
	var universe []int
	if st.pool != nil {
		universe = st.pool.Values
	} else {
		if st.d.Size() > enumerateLimit {
			return nil
		}
		universe = make([]int, 0, st.d.Size())
		for v := st.d.Min; v <= st.d.Max; v++ {
			universe = append(universe, v)
		}
	}
	rest := make([]int, 0, len(universe))
	for _, v := range universe {
		if st.accept(v, false) {
			rest = append(rest, v)
		}
	}
	return rest
}
