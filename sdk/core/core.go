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

package core

import (
	"crypto/rand"
	"encoding/binary"

	"github.com/zintix-labs/picklab/errs"
)

// PRNG 定義 Core 所需的亂數來源，需同時支援取樣與狀態保存/還原。
type PRNG interface {
	RAND
	Restorable
}

// Restorable 定義可快照與還原的狀態介面。
type Restorable interface {
	// Snapshot 回傳可用於還原的序列化狀態。
	Snapshot() ([]byte, error)
	// Restore 依序列化狀態還原 PRNG 內部狀態。
	Restore([]byte) error
}

// RAND 定義核心亂數取樣能力。
//
// 同時要求 Uint64 / Float64 / UintN / IntN，讓 32-bit 與 64-bit 原生輸出的 PRNG
// 各自提供最合適的 bounded 取樣與浮點精度。
type RAND interface {
	// Uint64 回傳非負 uint64 亂數。
	Uint64() uint64
	// Float64 回傳 [0,1) 的浮點亂數。
	Float64() float64
	// UintN 回傳 [0,max) 的 uint 亂數，若 max == 0 回傳 0。
	UintN(uint) uint
	// IntN 回傳 [0,max) 的 int 亂數，若 max <= 0 回傳 -1。
	IntN(int) int
}

type PRNGFactory interface {
	// New 以指定 seed 建立新的 PRNG。
	//
	// 合約：在同一個實作與同一個版本下，New(seed) 必須是決定性的，
	// 相同的 seed 必須產生相同的輸出序列（Secure 例外，見 secure.go）。
	// 模擬器以 baseSeed 派生各 worker 的子 seed，需要此性質才能重現。
	New(int64) PRNG
}

// DefaultPRNG 實作預設的 PRNGFactory (PCG64)
type DefaultPRNG struct{}

// New 滿足合約
func (d *DefaultPRNG) New(seed int64) PRNG {
	return newPCG64WithSeed(seed)
}

func Default() *DefaultPRNG {
	return &DefaultPRNG{}
}

// PCG32PRNG 以 PCG32 實作 PRNGFactory。
type PCG32PRNG struct{}

func (p *PCG32PRNG) New(seed int64) PRNG {
	return newPCG32WithSeed(seed)
}

func PCG32Factory() *PCG32PRNG {
	return &PCG32PRNG{}
}

// NewSeed 從 crypto/rand 取得一個非負 seed，未指定 seed 時使用。
func NewSeed() int64 {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic("core: crypto/rand unavailable: " + err.Error())
	}
	return int64(binary.BigEndian.Uint64(b[:]) &^ (1 << 63))
}

// Core 封裝 PRNG，並提供常用取樣與工具方法。
type Core struct {
	PRNG
}

// New 允許使用外部自實現的 PRNG 建立 Core。
func New(rng PRNG) *Core {
	return &Core{rng}
}

// IntBetween 回傳 [min,max] 區間（含兩端）的均勻整數。
// min > max 時回傳 InvalidRange 錯誤。
func (c *Core) IntBetween(min, max int) (int, error) {
	if min > max {
		return 0, errs.InvalidRangef("min %d greater than max %d", min, max)
	}
	span := uint64(max - min)
	if span == ^uint64(0) {
		return min + int(c.Uint64()), nil
	}
	return min + int(c.uint64n(span+1)), nil
}

// Pick 從列表中隨機選取一個元素，若列表為空回傳 -1
// 熱路徑中只使用哨兵值回傳
func (c *Core) Pick(src []int) int {
	if len(src) == 0 {
		return -1
	}
	idx := c.IntN(len(src))
	return src[idx]
}

// ShuffleInts 使用 Fisher-Yates 演算法對 []int 進行就地隨機重排。
// 所有 N! 種排列機率相等；O(N) 時間、零配置。
func (c *Core) ShuffleInts(src []int) {
	if len(src) <= 1 {
		return
	}

	for i := len(src) - 1; i > 0; i-- {
		j := c.IntN(i + 1)
		src[i], src[j] = src[j], src[i]
	}
}

// uint64n 透過 UintN 取得 [0,n) 的亂數；超出 uint 範圍時 (32-bit 平台) 改以拒絕採樣。
func (c *Core) uint64n(n uint64) uint64 {
	if uint64(uint(n)) == n {
		return uint64(c.UintN(uint(n)))
	}
	thresh := -n % n
	for {
		v := c.Uint64()
		if v >= thresh {
			return v % n
		}
	}
}
