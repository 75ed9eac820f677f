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

package errs

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
)

func TestKindMatchesSentinel(t *testing.T) {
	err := InvalidRangef("k=%d exceeds domain size %d", 6, 5)
	if !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
	if errors.Is(err, ErrEmptyResult) {
		t.Fatalf("unexpected match with ErrEmptyResult")
	}
	if err.ErrLv != Warn {
		t.Fatalf("expected warn level, got %s", ErrLv(err.ErrLv))
	}
	if !strings.Contains(err.Error(), "kind=invalid_range") {
		t.Fatalf("kind missing from message: %s", err.Error())
	}
}

func TestWrapKeepsKindAndLevel(t *testing.T) {
	inner := EmptyResultf("nothing to export")
	outer := Wrap(inner, "export failed")
	if outer.ErrLv != Warn || outer.Kind != KindEmptyResult {
		t.Fatalf("wrap should keep level and kind: %+v", outer)
	}
	if !errors.Is(fmt.Errorf("ctx: %w", outer), ErrEmptyResult) {
		t.Fatalf("errors.Is should see through fmt wrapping")
	}

	std := Wrap(io.EOF, "read")
	if std.ErrLv != Fatal || std.Kind != KindNone {
		t.Fatalf("foreign cause should be fatal without kind: %+v", std)
	}
	if !errors.Is(std, io.EOF) {
		t.Fatalf("cause lost")
	}
}

func TestDataUnavailable(t *testing.T) {
	err := DataUnavailable(io.ErrUnexpectedEOF, "hot_cold_numbers.json")
	if !IsKind(err, KindDataUnavailable) {
		t.Fatalf("expected data unavailable kind")
	}
	if Level(err) != Log {
		t.Fatalf("expected log level")
	}
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("cause lost")
	}
	if Level(nil) != None || Level(io.EOF) != Fatal {
		t.Fatalf("unexpected Level for nil/foreign error")
	}
}

func TestUnclassifiedIdentity(t *testing.T) {
	a := NewWarn("a")
	b := NewWarn("a")
	if errors.Is(a, b) {
		t.Fatalf("unclassified errors must compare by identity")
	}
	if !errors.Is(a, a) {
		t.Fatalf("identity lost")
	}
}
