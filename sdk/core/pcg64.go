// PCG64 random number generator.
//
// The PCG algorithm is designed by Melissa O'Neill.
// The bounded generation (UintN/IntN) follows the multiply-and-reject
// approach of the Go standard library (math/rand), which is licensed
// under the BSD 3-Clause License.

package core

import (
	"math/bits"
	r2 "math/rand/v2"

	"github.com/zintix-labs/picklab/errs"
)

const (
	// seed 展開用常數
	pcg64SeedMix  = 0x9e3779b97f4a7c15
	pcg64StreamLo = 0xDA942042E4DD58B5
	// r2.PCG MarshalBinary 的長度："pcg:" + 16 bytes
	pcg64SnapshotLen = 20
)

// PCG64 預設亂數產生器 (128-bit 狀態，math/rand/v2 實作)
type PCG64 struct {
	rng *r2.PCG
}

// newPCG64WithSeed 以 splitmix64 把 int64 seed 展開成 128-bit 狀態
func newPCG64WithSeed(seed int64) *PCG64 {
	x := uint64(seed) ^ pcg64SeedMix
	return &PCG64{rng: r2.NewPCG(splitmix64(x), splitmix64(x^pcg64StreamLo))}
}

func (r *PCG64) Uint64() uint64 {
	return r.rng.Uint64()
}

// UintN [0,max)，max == 0 回傳 0
func (r *PCG64) UintN(max uint) uint {
	if max == 0 {
		return 0
	}
	return uint(r.bounded(uint64(max)))
}

// IntN [0,max)，max <= 0 回傳 -1
func (r *PCG64) IntN(max int) int {
	if max <= 0 {
		return -1
	}
	return int(r.bounded(uint64(max)))
}

// Float64 [0,1)，取高 53 bits
func (r *PCG64) Float64() float64 {
	return float64(r.Uint64()>>11) / (1 << 53)
}

// Snapshot 目前狀態，可交給 Restore 還原
func (r *PCG64) Snapshot() ([]byte, error) {
	return r.rng.MarshalBinary()
}

func (r *PCG64) Restore(data []byte) error {
	if len(data) != pcg64SnapshotLen {
		return errs.Warnf("pcg64 snapshot must be %d bytes, got %d", pcg64SnapshotLen, len(data))
	}
	if err := r.rng.UnmarshalBinary(data); err != nil {
		return errs.Wrap(err, "restore pcg64")
	}
	return nil
}

func splitmix64(x uint64) uint64 {
	x += pcg64SeedMix
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

// bounded [0,n) 無偏取樣：乘法取高位，低位落在偏差區間時重抽
func (r *PCG64) bounded(n uint64) uint64 {
	if n&(n-1) == 0 {
		return r.Uint64() & (n - 1)
	}
	hi, lo := bits.Mul64(r.Uint64(), n)
	if lo < n {
		thresh := -n % n
		for lo < thresh {
			hi, lo = bits.Mul64(r.Uint64(), n)
		}
	}
	return hi
}
