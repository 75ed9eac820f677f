package assets

import (
	"testing"

	"github.com/zintix-labs/picklab/errs"
	"github.com/zintix-labs/picklab/spec"
)

func TestPresetsLoad(t *testing.T) {
	names := Presets()
	if len(names) != 5 {
		t.Fatalf("expected 5 presets, got %v", names)
	}
	for _, n := range names {
		s, err := Preset(n)
		if err != nil {
			t.Fatalf("preset %s: %v", n, err)
		}
		if err := s.Validate(); err != nil {
			t.Fatalf("preset %s invalid: %v", n, err)
		}
	}
}

func TestPresetHot(t *testing.T) {
	s, err := Preset("hot")
	if err != nil {
		t.Fatal(err)
	}
	if s.Variant != spec.VariantFrequency || s.Strategy != spec.StrategyHot || !s.Weighted {
		t.Fatalf("unexpected hot preset: %+v", s)
	}
	if s.PoolMain != 10 || s.PoolEuro != 3 {
		t.Fatalf("unexpected pools: %d/%d", s.PoolMain, s.PoolEuro)
	}
}

func TestUnknownPreset(t *testing.T) {
	_, err := Preset("jackpot")
	if !errs.IsKind(err, errs.KindInvalidSettings) {
		t.Fatalf("expected invalid settings, got %v", err)
	}
}
