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

package spec

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/zintix-labs/picklab/errs"
)

func TestDomain(t *testing.T) {
	if MainDomain.Size() != 50 || EuroDomain.Size() != 12 {
		t.Fatalf("unexpected domain sizes")
	}
	if err := (Domain{Min: 5, Max: 4}).Valid(); !errors.Is(err, errs.ErrInvalidRange) {
		t.Fatalf("expected invalid range, got %v", err)
	}
	if (Domain{Min: 5, Max: 4}).Size() != 0 {
		t.Fatalf("inverted domain should have size 0")
	}
}

func TestNumberSet(t *testing.T) {
	ns := NewNumberSet(14, 3, 27)
	if ns.String() != "3, 14, 27" {
		t.Fatalf("unexpected string %q", ns.String())
	}
	if !ns.Contains(14) || ns.Contains(15) {
		t.Fatalf("contains mismatch")
	}
	if err := ns.Validate(MainDomain, 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := NewNumberSet(3, 3, 5).Validate(MainDomain, 3); err == nil {
		t.Fatalf("duplicates should fail validation")
	}
	if err := NewNumberSet(3, 51).Validate(MainDomain, 2); err == nil {
		t.Fatalf("out of domain should fail validation")
	}
}

func TestPickString(t *testing.T) {
	p := Pick{Main: NewNumberSet(1, 12, 23, 34, 45), Euro: NewNumberSet(2, 9)}
	if err := p.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := p.String(); got != "Main: 1, 12, 23, 34, 45 | Euro: 2, 9" {
		t.Fatalf("unexpected %q", got)
	}
}

func TestParseNumbers(t *testing.T) {
	got := ParseNumbers(" 14, 7, x, 60, 7, 0, 22, 31, 45, 49", MainDomain, MainCount)
	want := []int{7, 14, 22, 31, 45}
	if !slices.Equal(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
	if len(ParseNumbers("", MainDomain, MainCount)) != 0 {
		t.Fatalf("empty input should give empty result")
	}
}

func TestApplyPatch(t *testing.T) {
	s := DefaultSettings()
	ignored, err := s.Apply(Patch{
		"variant":           "custom-pick",
		"count":             float64(3),
		"avoid_consecutive": false,
		"presetNumbers":     "7, 14",
		"preset-euro":       []any{float64(3)},
		"colour":            "blue",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(ignored, []string{"colour"}) {
		t.Fatalf("unexpected ignored keys %v", ignored)
	}
	if s.Variant != VariantCustom || s.Count != 3 || s.AvoidConsecutive {
		t.Fatalf("patch not applied: %+v", s)
	}
	if !slices.Equal(s.PresetMain, []int{7, 14}) || !slices.Equal(s.PresetEuro, []int{3}) {
		t.Fatalf("presets not applied: %+v", s)
	}
}

func TestApplyPatchRejectsBadValueAtomically(t *testing.T) {
	s := DefaultSettings()
	before := s.Clone()
	if _, err := s.Apply(Patch{"count": 5, "balanceRanges": "maybe"}); !errors.Is(err, errs.ErrInvalidSettings) {
		t.Fatalf("expected invalid settings, got %v", err)
	}
	if s.Count != before.Count || s.BalanceRanges != before.BalanceRanges {
		t.Fatalf("settings changed on failed patch: %+v", s)
	}
	if _, err := s.Apply(Patch{"count": 0}); err == nil {
		t.Fatalf("count 0 should be rejected")
	}
}

func TestValidatePresets(t *testing.T) {
	s := DefaultSettings()
	s.PresetMain = []int{1, 2, 3, 4, 5, 6}
	if err := s.Validate(); err == nil {
		t.Fatalf("too many presets should fail")
	}
	s.PresetMain = []int{7, 7}
	if err := s.Validate(); err == nil {
		t.Fatalf("duplicate presets should fail")
	}
	s.PresetMain = nil
	s.PresetEuro = []int{13}
	if err := s.Validate(); err == nil {
		t.Fatalf("euro preset outside domain should fail")
	}
}

func TestValidatePoolSize(t *testing.T) {
	cases := []struct {
		main, euro int
		ok         bool
	}{
		{0, 0, true},
		{5, 2, true},
		{10, 3, true},
		{4, 0, false},
		{1, 0, false},
		{0, 1, false},
		{-1, 0, false},
	}
	for _, c := range cases {
		s := DefaultSettings()
		s.PoolMain, s.PoolEuro = c.main, c.euro
		err := s.Validate()
		if c.ok && err != nil {
			t.Fatalf("pool %d/%d: unexpected error %v", c.main, c.euro, err)
		}
		if !c.ok && !errors.Is(err, errs.ErrInvalidSettings) {
			t.Fatalf("pool %d/%d: expected invalid settings, got %v", c.main, c.euro, err)
		}
	}

	s := DefaultSettings()
	if _, err := s.Apply(Patch{"poolMain": 3}); !errors.Is(err, errs.ErrInvalidSettings) {
		t.Fatalf("patch with pool 3 should be rejected, got %v", err)
	}
	if s.PoolMain != 0 {
		t.Fatalf("pool changed on failed patch: %d", s.PoolMain)
	}
}

func TestGetSettingsByFormats(t *testing.T) {
	y := []byte("variant: structured-pick\ncount: 4\nstrategy: cold-numbers\nbalance_ranges: true\n")
	s, err := GetSettingsByYAML(y)
	if err != nil {
		t.Fatalf("yaml: %v", err)
	}
	if s.Variant != VariantFrequency || s.Strategy != StrategyCold || s.Count != 4 || !s.BalanceRanges {
		t.Fatalf("yaml decoded wrong: %+v", s)
	}
	if !s.AvoidConsecutive {
		t.Fatalf("missing keys should keep defaults")
	}

	if _, err := GetSettingsByYAML([]byte("cuont: 4\n")); err == nil {
		t.Fatalf("unknown yaml field should fail")
	}

	tm, err := GetSettingsByTOML([]byte("variant = \"custom\"\npreset_main = [14, 7]\n"))
	if err != nil {
		t.Fatalf("toml: %v", err)
	}
	if tm.Variant != VariantCustom || !slices.Equal(tm.PresetMain, []int{7, 14}) {
		t.Fatalf("toml decoded wrong: %+v", tm)
	}
	if _, err := GetSettingsByTOML([]byte("colour = \"red\"\n")); err == nil {
		t.Fatalf("unknown toml key should fail")
	}

	js, err := GetSettingsByJSON([]byte(`{"count": 2, "avoid_consecutive": false}`))
	if err != nil {
		t.Fatalf("json: %v", err)
	}
	if js.Count != 2 || js.AvoidConsecutive {
		t.Fatalf("json decoded wrong: %+v", js)
	}
}

func TestLoadSettingsFile(t *testing.T) {
	dir := t.TempDir()
	s, found, err := LoadSettingsFile(filepath.Join(dir, "missing.toml"))
	if err != nil || found || s.Count != 1 {
		t.Fatalf("missing file should fall back to defaults: %v %v %+v", err, found, s)
	}

	path := filepath.Join(dir, "cfg.yml")
	if err := os.WriteFile(path, []byte("count: 101\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, found, err = LoadSettingsFile(path)
	if !found || err == nil || !strings.Contains(err.Error(), "count") {
		t.Fatalf("expected count validation error, got %v", err)
	}
}

func TestSettingsSummary(t *testing.T) {
	s := DefaultSettings()
	if got := s.Summary(); got != "Avoid Consecutive: true, Balance Ranges: false" {
		t.Fatalf("plain summary: %q", got)
	}
	s.Variant = VariantCustom
	s.PresetMain = []int{7, 14}
	if got := s.Summary(); !strings.Contains(got, "Preset Main: 7, 14") {
		t.Fatalf("custom summary: %q", got)
	}
	if StrategyCold.Label() != "COLD NUMBERS" {
		t.Fatalf("strategy label: %q", StrategyCold.Label())
	}
}
