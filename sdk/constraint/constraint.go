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

// Package constraint 提供號碼組的純判斷函式（重複、連號、區段佔用），
// 不持有狀態，所有產生器變體共用。
package constraint

import (
	"slices"

	"github.com/zintix-labs/picklab/spec"
)

// HasDuplicate candidate 中是否已有 v
func HasDuplicate(candidate []int, v int) bool {
	return slices.Contains(candidate, v)
}

// HasConsecutiveAdjacency 排序後是否存在相差 1 的相鄰元素。不修改輸入。
func HasConsecutiveAdjacency(candidate []int) bool {
	if len(candidate) < 2 {
		return false
	}
	sorted := slices.Clone(candidate)
	slices.Sort(sorted)
	for i := 1; i < len(sorted); i++ {
		if sorted[i]-sorted[i-1] == 1 {
			return true
		}
	}
	return false
}

// CreatesAdjacency 加入 v 後是否會與 candidate 中任一元素形成連號。
// candidate 本身無連號時與 HasConsecutiveAdjacency(append(candidate, v)) 等價。
func CreatesAdjacency(candidate []int, v int) bool {
	for _, c := range candidate {
		if c-v == 1 || v-c == 1 {
			return true
		}
	}
	return false
}

// RangeOccupancy 回傳 candidate 佔用的區段索引 floor((v-min)/width)。
// 以 1-50、寬度 10 為例即 floor((v-1)/10)，索引 0..4。
func RangeOccupancy(candidate []int, min, width int) map[int]struct{} {
	occ := make(map[int]struct{}, len(candidate))
	if width <= 0 {
		return occ
	}
	for _, v := range candidate {
		occ[RangeIndex(v, min, width)] = struct{}{}
	}
	return occ
}

// RangeIndex 單一號碼所屬區段
func RangeIndex(v, min, width int) int {
	return (v - min) / width
}

// RangeBounds 第 idx 個區段的 [lo, hi]
func RangeBounds(min, width, idx int) (lo, hi int) {
	lo = min + idx*width
	return lo, lo + width - 1
}

// Balanceable 區間能否等分成 spec.RangeBuckets 個區段，回傳區段寬度。
func Balanceable(d spec.Domain) (width int, ok bool) {
	size := d.Size()
	if size < spec.RangeBuckets || size%spec.RangeBuckets != 0 {
		return 0, false
	}
	return size / spec.RangeBuckets, true
}
