package game

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig_Valid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}
}

func TestValidate_ReportsEveryBadField(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ShakeDecay = 1
	cfg.ReloadMs = 0
	cfg.Layers = []LayerSpec{{Src: "a", Speed: 0.3}, {Src: "b", Speed: 0.1}}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation errors")
	}
	for _, field := range []string{"shake_decay", "reload_ms", "layers"} {
		if !strings.Contains(err.Error(), "invalid "+field) {
			t.Fatalf("expected %s in %q", field, err)
		}
	}
}

func TestParseConfig_AppliesOverrides(t *testing.T) {
	cfg, err := parseConfig([]byte(`{"recoil_ms": 120, "dust": {"count": 10}, "mystery": 3}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.RecoilMs != 120 {
		t.Fatalf("expected recoil_ms 120, got %d", cfg.RecoilMs)
	}
	if cfg.Dust.Count != 10 {
		t.Fatalf("expected dust count 10, got %d", cfg.Dust.Count)
	}
	if cfg.Dust.WindSpeed != 0.7 {
		t.Fatalf("partial dust override should keep defaults, got wind %v", cfg.Dust.WindSpeed)
	}
}

func TestParseConfig_ResetsInvalidValues(t *testing.T) {
	cfg, err := parseConfig([]byte(`{"shake_decay": 1, "target_layers": [7], "reload_delay_ms": 0}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ShakeDecay != 0.88 {
		t.Fatalf("a decay of 1 should reset to 0.88, got %v", cfg.ShakeDecay)
	}
	if len(cfg.TargetLayers) != 2 || cfg.TargetLayers[0] != 1 || cfg.TargetLayers[1] != 2 {
		t.Fatalf("out-of-range target layers should reset, got %v", cfg.TargetLayers)
	}
	if cfg.ReloadDelayMs != 0 {
		t.Fatalf("a zero reload delay is allowed, got %d", cfg.ReloadDelayMs)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("sanitized config should validate: %v", err)
	}
}

func TestParseConfig_BadJSONUsesDefaults(t *testing.T) {
	cfg, err := parseConfig([]byte(`{"recoil_ms": `))
	if err != nil {
		t.Fatalf("malformed JSON should not be fatal: %v", err)
	}
	if cfg.RecoilMs != DefaultConfig().RecoilMs {
		t.Fatalf("expected defaults, got recoil_ms %d", cfg.RecoilMs)
	}
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil || cfg.ReloadMs != 500 {
		t.Fatalf("empty path should give defaults, got %d, %v", cfg.ReloadMs, err)
	}

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected an error for a missing file")
	}

	path := filepath.Join(t.TempDir(), "scope.json")
	if err := os.WriteFile(path, []byte(`{"reload_ms": 650}`), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err = LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.ReloadDuration().Milliseconds() != 650 {
		t.Fatalf("expected 650ms reload, got %v", cfg.ReloadDuration())
	}
}

func TestParseConfig_ShortLayerListKeepsTargetInRange(t *testing.T) {
	cfg, err := parseConfig([]byte(`{"layers": [{"src": "bg.png", "speed": 0.1}]}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Layers) != 1 {
		t.Fatalf("expected the single override layer, got %d", len(cfg.Layers))
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("sanitized config should validate: %v", err)
	}
	if len(cfg.TargetLayers) != 1 || cfg.TargetLayers[0] != 0 || cfg.DefaultTarget != 0 || cfg.TargetAfterLayer != 0 {
		t.Fatalf("expected target on layer 0, got layers=%v default=%d after=%d",
			cfg.TargetLayers, cfg.DefaultTarget, cfg.TargetAfterLayer)
	}

	ts := NewTestSim(WithConfig(cfg), WithLayerImage(0, RidgeLayer(800, 600, 0.5, 80)))
	ts.Scene.Trigger()
	ts.RunFor(1600 * time.Millisecond)
	if st := ts.Scene.Stats(); st.Placements != 1 || st.PlacementFallbacks != 0 {
		t.Fatalf("expected a real placement on layer 0, got %s", st)
	}
	if ts.Scene.Target().Layer != 0 {
		t.Fatalf("expected target on layer 0, got %d", ts.Scene.Target().Layer)
	}
}

func TestParseConfig_TwoLayersClampsTargetDepths(t *testing.T) {
	cfg, err := parseConfig([]byte(`{"layers": [{"src": "far.png", "speed": 0.05}, {"src": "near.png", "speed": 0.2}]}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("sanitized config should validate: %v", err)
	}
	if len(cfg.TargetLayers) != 1 || cfg.TargetLayers[0] != 1 || cfg.DefaultTarget != 1 || cfg.TargetAfterLayer != 1 {
		t.Fatalf("expected target depths clamped to layer 1, got layers=%v default=%d after=%d",
			cfg.TargetLayers, cfg.DefaultTarget, cfg.TargetAfterLayer)
	}
}
