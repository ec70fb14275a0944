package game

import (
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"log"
	"os"
	"reflect"
	"slices"
	"strings"
	"time"
)

// Logical surface size. The host scales this to the device.
const (
	screenWidth  = 800
	screenHeight = 600
)

// LayerSpec describes one parallax background layer.
type LayerSpec struct {
	Src   string  `json:"src"`
	Speed float64 `json:"speed"` // fraction of scope displacement applied to the layer
}

// DustConfig controls the ambient wind-blown dust.
type DustConfig struct {
	Count     int         `json:"count"`
	Color     color.NRGBA `json:"color"`
	SizeMin   float64     `json:"size_min"`
	SizeMax   float64     `json:"size_max"`
	WindSpeed float64     `json:"wind_speed"`
	WindDir   float64     `json:"wind_dir"` // +1 blows right, -1 blows left
	Margin    float64     `json:"margin"`   // how far past an edge before wrapping
}

// Config holds every tunable of the scope. All values are fixed for a session.
type Config struct {
	Width  int `json:"width"`
	Height int `json:"height"`

	// Recoil kick applied on each shot.
	RecoilPower      float64 `json:"recoil_power"`
	RecoilSide       float64 `json:"recoil_side"`
	RecoilUpVariance float64 `json:"recoil_up_variance"`
	RecoilMs         int     `json:"recoil_ms"`

	// Idle breathing sway.
	BreathX     float64 `json:"breath_x"`
	BreathY     float64 `json:"breath_y"`
	BreathSpeed float64 `json:"breath_speed"` // phase step per frame
	BreathRatio float64 `json:"breath_ratio"` // vertical/horizontal frequency ratio

	FollowFactor float64 `json:"follow_factor"`

	// Screen shake.
	ShakePower       float64 `json:"shake_power"`
	ShakeDecay       float64 `json:"shake_decay"`
	ShakePowerReload float64 `json:"shake_power_reload"`
	ShakeDecayReload float64 `json:"shake_decay_reload"`
	ShakeEpsilon     float64 `json:"shake_epsilon"`

	// Bolt cycle.
	ReloadDelayMs int     `json:"reload_delay_ms"`
	ReloadMs      int     `json:"reload_ms"`
	ReloadDrop    float64 `json:"reload_drop"`
	ReloadRotate  float64 `json:"reload_rotate"` // degrees
	ReloadZoom    float64 `json:"reload_zoom"`

	// Background.
	Layers   []LayerSpec `json:"layers"`
	Overscan float64     `json:"overscan"`
	BaseFill color.NRGBA `json:"base_fill"`

	// Target marker.
	TargetRadius      float64 `json:"target_radius"`
	TargetLayers      []int   `json:"target_layers"`
	DefaultTarget     int     `json:"default_target_layer"`
	TargetAfterLayer  int     `json:"target_after_layer"`
	AlphaThreshold    uint8   `json:"alpha_threshold"`
	PlacementAttempts int     `json:"placement_attempts"`

	Dust DustConfig `json:"dust"`

	ScopeSrc  string `json:"scope_src"`
	ShotSrc   string `json:"shot_src"`
	ReloadSrc string `json:"reload_src"`
}

// DefaultConfig returns the stock tuning.
func DefaultConfig() Config {
	return Config{
		Width:  screenWidth,
		Height: screenHeight,

		RecoilPower:      50,
		RecoilSide:       30,
		RecoilUpVariance: 100,
		RecoilMs:         90,

		BreathX:     2,
		BreathY:     1.5,
		BreathSpeed: 0.025,
		BreathRatio: 0.7,

		FollowFactor: 0.18,

		ShakePower:       20,
		ShakeDecay:       0.88,
		ShakePowerReload: 8,
		ShakeDecayReload: 0.93,
		ShakeEpsilon:     0.5,

		ReloadDelayMs: 1000,
		ReloadMs:      500,
		ReloadDrop:    40,
		ReloadRotate:  5,
		ReloadZoom:    1.12,

		Layers: []LayerSpec{
			{Src: "bg-layer4.png", Speed: 0.05}, // farthest
			{Src: "bg-layer3.png", Speed: 0.1},
			{Src: "bg-layer2.png", Speed: 0.13},
			{Src: "bg-layer1.png", Speed: 0.2}, // nearest
		},
		Overscan: 1.2,
		BaseFill: color.NRGBA{R: 255, G: 255, B: 255, A: 255},

		TargetRadius:      28,
		TargetLayers:      []int{1, 2},
		DefaultTarget:     2,
		TargetAfterLayer:  1,
		AlphaThreshold:    32,
		PlacementAttempts: 1000,

		Dust: DustConfig{
			Count:     40,
			Color:     color.NRGBA{R: 255, G: 255, B: 255, A: 46},
			SizeMin:   1,
			SizeMax:   2.5,
			WindSpeed: 0.7,
			WindDir:   1,
			Margin:    10,
		},

		ScopeSrc:  "scope.png",
		ShotSrc:   "sfx/sniper-shot.mp3",
		ReloadSrc: "sfx/reload.mp3",
	}
}

// RecoilDuration is how long the recoil kick takes to reach its peak.
func (c Config) RecoilDuration() time.Duration {
	return time.Duration(c.RecoilMs) * time.Millisecond
}

// ReloadDelay is the pause between the recoil settling and the bolt cycle.
func (c Config) ReloadDelay() time.Duration {
	return time.Duration(c.ReloadDelayMs) * time.Millisecond
}

// ReloadDuration is the length of the bolt cycle animation.
func (c Config) ReloadDuration() time.Duration {
	return time.Duration(c.ReloadMs) * time.Millisecond
}

// configCheck pairs a validity test with the reset used when loading overrides.
type configCheck struct {
	field string
	bad   func(c *Config) bool
	reset func(c *Config, d Config)
}

var configChecks = []configCheck{
	{"width/height", func(c *Config) bool { return c.Width <= 0 || c.Height <= 0 },
		func(c *Config, d Config) { c.Width, c.Height = d.Width, d.Height }},
	{"recoil_ms", func(c *Config) bool { return c.RecoilMs <= 0 },
		func(c *Config, d Config) { c.RecoilMs = d.RecoilMs }},
	{"recoil_side", func(c *Config) bool { return c.RecoilSide < 0 || c.RecoilUpVariance < 0 },
		func(c *Config, d Config) { c.RecoilSide, c.RecoilUpVariance = d.RecoilSide, d.RecoilUpVariance }},
	{"follow_factor", func(c *Config) bool { return c.FollowFactor <= 0 || c.FollowFactor > 1 },
		func(c *Config, d Config) { c.FollowFactor = d.FollowFactor }},
	// A decay of 1 never settles; only the epsilon snap would end the shake.
	{"shake_decay", func(c *Config) bool { return c.ShakeDecay <= 0 || c.ShakeDecay >= 1 },
		func(c *Config, d Config) { c.ShakeDecay = d.ShakeDecay }},
	{"shake_decay_reload", func(c *Config) bool { return c.ShakeDecayReload <= 0 || c.ShakeDecayReload >= 1 },
		func(c *Config, d Config) { c.ShakeDecayReload = d.ShakeDecayReload }},
	{"shake_power", func(c *Config) bool { return c.ShakePower < 0 || c.ShakePowerReload < 0 },
		func(c *Config, d Config) { c.ShakePower, c.ShakePowerReload = d.ShakePower, d.ShakePowerReload }},
	{"shake_epsilon", func(c *Config) bool { return c.ShakeEpsilon <= 0 },
		func(c *Config, d Config) { c.ShakeEpsilon = d.ShakeEpsilon }},
	{"reload_delay_ms", func(c *Config) bool { return c.ReloadDelayMs < 0 },
		func(c *Config, d Config) { c.ReloadDelayMs = d.ReloadDelayMs }},
	{"reload_ms", func(c *Config) bool { return c.ReloadMs <= 0 },
		func(c *Config, d Config) { c.ReloadMs = d.ReloadMs }},
	{"reload_zoom", func(c *Config) bool { return c.ReloadZoom < 1 },
		func(c *Config, d Config) { c.ReloadZoom = d.ReloadZoom }},
	{"layers", func(c *Config) bool { return !layersAscending(c.Layers) },
		func(c *Config, d Config) { c.Layers = append([]LayerSpec(nil), d.Layers...) }},
	{"overscan", func(c *Config) bool { return c.Overscan < 1 },
		func(c *Config, d Config) { c.Overscan = d.Overscan }},
	{"target_layers", func(c *Config) bool { return !targetLayersValid(c) },
		func(c *Config, d Config) { c.resetTargetLayers(d) }},
	{"target_radius", func(c *Config) bool {
		return c.TargetRadius < 0 || 2*c.TargetRadius >= float64(c.Width) || 2*c.TargetRadius >= float64(c.Height)
	}, func(c *Config, d Config) { c.TargetRadius = d.TargetRadius }},
	{"placement_attempts", func(c *Config) bool { return c.PlacementAttempts <= 0 },
		func(c *Config, d Config) { c.PlacementAttempts = d.PlacementAttempts }},
	{"dust", func(c *Config) bool {
		return c.Dust.Count < 0 || c.Dust.SizeMin <= 0 || c.Dust.SizeMax < c.Dust.SizeMin || c.Dust.Margin < 0
	}, func(c *Config, d Config) { c.Dust = d.Dust }},
}

func layersAscending(layers []LayerSpec) bool {
	if len(layers) == 0 {
		return false
	}
	for i := 1; i < len(layers); i++ {
		if layers[i].Speed < layers[i-1].Speed {
			return false
		}
	}
	return true
}

func targetLayersValid(c *Config) bool {
	n := len(c.Layers)
	if len(c.TargetLayers) == 0 {
		return false
	}
	for _, l := range c.TargetLayers {
		if l < 0 || l >= n {
			return false
		}
	}
	return c.DefaultTarget >= 0 && c.DefaultTarget < n &&
		c.TargetAfterLayer >= 0 && c.TargetAfterLayer < n
}

// resetTargetLayers restores the default target depths, moved into the
// middle of the stack when the configured layer list is shorter than the
// default one. Runs after the layers check, so c.Layers is non-empty.
func (c *Config) resetTargetLayers(d Config) {
	c.TargetLayers = append([]int(nil), d.TargetLayers...)
	c.DefaultTarget = d.DefaultTarget
	c.TargetAfterLayer = d.TargetAfterLayer
	if targetLayersValid(c) {
		return
	}
	last := len(c.Layers) - 1
	c.TargetLayers = c.TargetLayers[:0]
	for _, l := range d.TargetLayers {
		l = min(l, last)
		if !slices.Contains(c.TargetLayers, l) {
			c.TargetLayers = append(c.TargetLayers, l)
		}
	}
	c.DefaultTarget = min(d.DefaultTarget, last)
	c.TargetAfterLayer = min(d.TargetAfterLayer, last)
}

// Validate reports every out-of-range value.
func (c Config) Validate() error {
	var errs []error
	for _, chk := range configChecks {
		if chk.bad(&c) {
			errs = append(errs, fmt.Errorf("config: invalid %s", chk.field))
		}
	}
	return errors.Join(errs...)
}

// sanitize replaces invalid values with the defaults and logs each one.
func (c *Config) sanitize() {
	def := DefaultConfig()
	for _, chk := range configChecks {
		if chk.bad(c) {
			log.Printf("Invalid %s in config, using default", chk.field)
			chk.reset(c, def)
		}
	}
}

// LoadConfig reads JSON overrides on top of DefaultConfig. An empty path
// returns the defaults. Unknown keys are reported but not fatal, and invalid
// values fall back to their defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	return parseConfig(data)
}

func parseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		log.Printf("Invalid config file, using defaults: %v", err)
		return cfg, nil
	}
	known := jsonKeys(Config{})
	for key := range raw {
		if !known[key] {
			log.Printf("Warning: unrecognised config key '%s'", key)
		}
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		log.Printf("Invalid config file, using defaults: %v", err)
		return DefaultConfig(), nil
	}
	cfg.sanitize()
	return cfg, nil
}

func jsonKeys(v any) map[string]bool {
	keys := make(map[string]bool)
	t := reflect.TypeOf(v)
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("json")
		if name := strings.Split(tag, ",")[0]; name != "" && name != "-" {
			keys[name] = true
		}
	}
	return keys
}
