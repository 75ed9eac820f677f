package core

import (
	"encoding/binary"
	"math"
	"math/bits"

	"github.com/zintix-labs/picklab/errs"
)

const (
	pcg32Multiplier  = 6364136223846793005
	pcg32FloatUnit   = 1.0 / (1 << 32)
	pcg32SnapshotLen = 16
)

// PCG32 64-bit 狀態、32-bit 輸出 (XSH RR)。
// 與 PCG64 介面相同，可在 core.Core 中互換；快照為 (state, inc) 共 16 bytes。
type PCG32 struct {
	state uint64
	inc   uint64
}

// newPCG32WithSeed 依 PCG 建議流程初始化：先以 stream 步進一次，加上 seed，再步進一次
func newPCG32WithSeed(seed int64) *PCG32 {
	const stream = 1
	r := &PCG32{inc: stream<<1 | 1}
	r.next()
	r.state += uint64(seed)
	r.next()
	return r
}

func (r *PCG32) Uint32() uint32 {
	return r.next()
}

// Uint64 兩次輸出拼接，高位在前
func (r *PCG32) Uint64() uint64 {
	return uint64(r.next())<<32 | uint64(r.next())
}

// UintN [0,max)，max == 0 回傳 0
func (r *PCG32) UintN(max uint) uint {
	if max == 0 {
		return 0
	}
	return uint(r.below64(uint64(max)))
}

// IntN [0,max)，max <= 0 回傳 -1；max 在 32-bit 內時只消耗一次輸出
func (r *PCG32) IntN(max int) int {
	if max <= 0 {
		return -1
	}
	if max <= math.MaxUint32 {
		return int(r.below32(uint32(max)))
	}
	return int(r.below64(uint64(max)))
}

// Float64 [0,1)，32-bit 精度
func (r *PCG32) Float64() float64 {
	return float64(r.next()) * pcg32FloatUnit
}

func (r *PCG32) Snapshot() ([]byte, error) {
	b := make([]byte, 0, pcg32SnapshotLen)
	b = binary.BigEndian.AppendUint64(b, r.state)
	return binary.BigEndian.AppendUint64(b, r.inc), nil
}

// Restore inc 必須為奇數
func (r *PCG32) Restore(data []byte) error {
	if len(data) != pcg32SnapshotLen {
		return errs.Warnf("pcg32 snapshot must be %d bytes, got %d", pcg32SnapshotLen, len(data))
	}
	inc := binary.BigEndian.Uint64(data[8:])
	if inc&1 == 0 {
		return errs.NewWarn("pcg32 snapshot has even increment")
	}
	r.state = binary.BigEndian.Uint64(data[:8])
	r.inc = inc
	return nil
}

func (r *PCG32) next() uint32 {
	old := r.state
	r.state = old*pcg32Multiplier + r.inc
	xorshifted := uint32(((old >> 18) ^ old) >> 27)
	return bits.RotateLeft32(xorshifted, -int(old>>59))
}

// below32 拒絕落在 2^32 mod bound 以下的值以消除偏差
func (r *PCG32) below32(bound uint32) uint32 {
	threshold := -bound % bound
	for {
		if v := r.next(); v >= threshold {
			return v % bound
		}
	}
}

func (r *PCG32) below64(bound uint64) uint64 {
	threshold := -bound % bound
	for {
		if v := r.Uint64(); v >= threshold {
			return v % bound
		}
	}
}
