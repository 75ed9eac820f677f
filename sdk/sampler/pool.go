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

package sampler

import (
	"github.com/zintix-labs/picklab/errs"
	"github.com/zintix-labs/picklab/sdk/core"
)

// Pool 號碼池，可選擇帶權重。
// 無權重時等機率取樣；有權重時以 AliasTable 取樣。
type Pool struct {
	Values []int
	table  *AliasTable
}

// NewPool 建立號碼池，weights 為 nil 代表等權重。
// 權重數量不符、負權重或全為零時回傳錯誤（不 panic）。
func NewPool(values []int, weights []int) (*Pool, error) {
	p := &Pool{Values: values}
	if weights == nil {
		return p, nil
	}
	if len(weights) != len(values) {
		return nil, errs.Warnf("pool has %d values but %d weights", len(values), len(weights))
	}
	total := 0
	for _, w := range weights {
		if w < 0 {
			return nil, errs.NewWarn("pool weight must not be negative")
		}
		total += w
	}
	if total == 0 && len(values) > 0 {
		return nil, errs.NewWarn("pool weights are all zero")
	}
	if len(values) > 0 {
		p.table = BuildAliasTable(weights)
	}
	return p, nil
}

// Len 號碼池大小
func (p *Pool) Len() int {
	return len(p.Values)
}

// Weighted 是否為加權池
func (p *Pool) Weighted() bool {
	return p.table != nil
}

// Pick 取一個號碼，空池回傳 -1
func (p *Pool) Pick(c *core.Core) int {
	if len(p.Values) == 0 {
		return -1
	}
	if p.table == nil {
		return c.Pick(p.Values)
	}
	return p.Values[p.table.Pick(c)]
}

// RankWeights 依排名給權重：第 1 名 n、最後一名 1。
func RankWeights(n int) []int {
	w := make([]int, n)
	for i := range w {
		w[i] = n - i
	}
	return w
}
