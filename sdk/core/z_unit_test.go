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
	"errors"
	"slices"
	"testing"

	"github.com/zintix-labs/picklab/errs"
)

func TestCoreDeterminism(t *testing.T) {
	c1 := New(Default().New(7))
	c2 := New(Default().New(7))
	for i := 0; i < 5; i++ {
		if c1.Uint64() != c2.Uint64() {
			t.Fatalf("Uint64 mismatch at %d", i)
		}
	}
	if c1.IntN(10) != c2.IntN(10) {
		t.Fatalf("IntN mismatch")
	}
	if c1.UintN(10) != c2.UintN(10) {
		t.Fatalf("UintN mismatch")
	}
}

func TestCorePickAndShuffle(t *testing.T) {
	c := New(Default().New(9))
	if got := c.Pick(nil); got != -1 {
		t.Fatalf("expected -1 for empty pick, got %d", got)
	}

	src := []int{1, 2, 3, 4}
	c.ShuffleInts(src)
	if len(src) != 4 {
		t.Fatalf("unexpected length after shuffle")
	}
	want := []int{1, 2, 3, 4}
	got := slices.Clone(src)
	slices.Sort(want)
	slices.Sort(got)
	if !slices.Equal(want, got) {
		t.Fatalf("shuffle changed elements: %v", src)
	}
}

func TestIntBetween(t *testing.T) {
	c := New(Default().New(11))
	seen := make(map[int]bool)
	for i := 0; i < 2000; i++ {
		v, err := c.IntBetween(1, 12)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if v < 1 || v > 12 {
			t.Fatalf("value out of range: %d", v)
		}
		seen[v] = true
	}
	if len(seen) != 12 {
		t.Fatalf("expected every value in [1,12] to appear, got %d", len(seen))
	}

	v, err := c.IntBetween(7, 7)
	if err != nil || v != 7 {
		t.Fatalf("single point range: v=%d err=%v", v, err)
	}

	if _, err := c.IntBetween(5, 4); !errors.Is(err, errs.ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
}

func TestIntBetweenNegative(t *testing.T) {
	c := New(PCG32Factory().New(3))
	for i := 0; i < 500; i++ {
		v, err := c.IntBetween(-3, 3)
		if err != nil || v < -3 || v > 3 {
			t.Fatalf("v=%d err=%v", v, err)
		}
	}
}

func TestSnapshotRestore(t *testing.T) {
	factories := map[string]PRNGFactory{
		"pcg64": Default(),
		"pcg32": PCG32Factory(),
	}
	for name, f := range factories {
		c := New(f.New(42))
		c.Uint64()
		state, err := c.Snapshot()
		if err != nil {
			t.Fatalf("%s snapshot: %v", name, err)
		}
		want := []uint64{c.Uint64(), c.Uint64(), c.Uint64()}

		r := New(f.New(999))
		if err := r.Restore(state); err != nil {
			t.Fatalf("%s restore: %v", name, err)
		}
		got := []uint64{r.Uint64(), r.Uint64(), r.Uint64()}
		if !slices.Equal(want, got) {
			t.Fatalf("%s restore mismatch: %v vs %v", name, want, got)
		}
	}
}

func TestPCG32RestoreRejectsBadState(t *testing.T) {
	r := PCG32Factory().New(1)
	if err := r.Restore([]byte{1, 2, 3}); err == nil {
		t.Fatalf("expected error for short snapshot")
	}
}

func TestSecureFactory(t *testing.T) {
	c := New(Secure().New(0))
	for i := 0; i < 100; i++ {
		v, err := c.IntBetween(1, 50)
		if err != nil || v < 1 || v > 50 {
			t.Fatalf("v=%d err=%v", v, err)
		}
	}
	if _, err := c.Snapshot(); err == nil {
		t.Fatalf("secure prng should not snapshot")
	}
	if c.IntN(0) != -1 {
		t.Fatalf("IntN(0) should be -1")
	}
}

func TestNewSeedNonNegative(t *testing.T) {
	for i := 0; i < 32; i++ {
		if NewSeed() < 0 {
			t.Fatalf("negative seed")
		}
	}
}
