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
	r2 "math/rand/v2"

	"github.com/zintix-labs/picklab/errs"
)

// SecurePRNG 以 crypto/rand 為來源，不可重現，因此不支援快照與還原。
type SecurePRNG struct {
	rng *r2.Rand
}

// SecureFactory 忽略 seed，每次 New 都回傳獨立的加密亂數來源。
type SecureFactory struct{}

func (s *SecureFactory) New(int64) PRNG {
	return &SecurePRNG{rng: r2.New(cryptoSource{})}
}

func Secure() *SecureFactory {
	return &SecureFactory{}
}

func (r *SecurePRNG) Uint64() uint64 { return r.rng.Uint64() }

func (r *SecurePRNG) Float64() float64 { return r.rng.Float64() }

func (r *SecurePRNG) UintN(max uint) uint {
	if max == 0 {
		return 0
	}
	return r.rng.UintN(max)
}

func (r *SecurePRNG) IntN(max int) int {
	if max <= 0 {
		return -1
	}
	return r.rng.IntN(max)
}

func (r *SecurePRNG) Snapshot() ([]byte, error) {
	return nil, errs.NewWarn("secure prng has no restorable state")
}

func (r *SecurePRNG) Restore([]byte) error {
	return errs.NewWarn("secure prng has no restorable state")
}

type cryptoSource struct{}

func (cryptoSource) Uint64() uint64 {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic("core: crypto/rand unavailable: " + err.Error())
	}
	return uint64(b[0]) | uint64(b[1])<<8 | uint64(b[2])<<16 | uint64(b[3])<<24 |
		uint64(b[4])<<32 | uint64(b[5])<<40 | uint64(b[6])<<48 | uint64(b[7])<<56
}
