package game

import (
	"image"
	"image/color"
	"math"
	"math/rand"
	"time"
)

// TestSim is a headless scope harness used by tests and the headless report.
// It mirrors Game.Update without any ebiten dependency, with a fixed frame
// step and deterministic seeding.
type TestSim struct {
	Scene  *Scene
	Log    *EventLog
	Cues   *CueRecorder
	Config Config
	Step   time.Duration

	layers StaticLayers
	rng    *rand.Rand
}

// simOptionKind controls the pass in which an option is applied.
type simOptionKind int

const (
	simOptInfra simOptionKind = iota // config, seed, step, layers, applied first
	simOptScene                      // pointer and other scene input, applied after the scene exists
)

// SimOption is a builder function applied to a TestSim during construction.
type SimOption struct {
	kind simOptionKind
	fn   func(*TestSim)
}

// WithConfig replaces the default configuration.
func WithConfig(cfg Config) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.Config = cfg
	}}
}

// WithSeed sets the RNG seed for deterministic runs.
func WithSeed(seed int64) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.rng = rand.New(rand.NewSource(seed)) // #nosec G404 -- test harness
	}}
}

// WithStep sets the frame length.
func WithStep(d time.Duration) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.Step = d
	}}
}

// WithLayerImage installs img as the decoded image of layer i.
func WithLayerImage(i int, img image.Image) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.layers[i] = img
	}}
}

// WithPointer moves the pointer before the first frame.
func WithPointer(x, y float64) SimOption {
	return SimOption{simOptScene, func(ts *TestSim) {
		ts.Scene.MovePointer(x, y)
	}}
}

// NewTestSim constructs a TestSim from the given options in two ordered passes:
//  1. Infrastructure (config, seed, step, layers)
//  2. Scene input
func NewTestSim(opts ...SimOption) *TestSim {
	ts := &TestSim{
		Config: DefaultConfig(),
		Step:   10 * time.Millisecond,
		Log:    NewEventLog(),
		Cues:   &CueRecorder{},
		layers: StaticLayers{},
		rng:    rand.New(rand.NewSource(1)), // #nosec G404 -- test harness default
	}
	for _, o := range opts {
		if o.kind == simOptInfra {
			o.fn(ts)
		}
	}
	ts.Scene = NewScene(ts.Config, ts.layers, ts.Cues, ts.rng)
	ts.Scene.AddSink(ts.Log)
	for _, o := range opts {
		if o.kind == simOptScene {
			o.fn(ts)
		}
	}
	return ts
}

// Tick advances one frame.
func (ts *TestSim) Tick() {
	ts.Scene.Tick(ts.Step)
}

// RunFor advances whole frames until at least d of scene time has passed.
func (ts *TestSim) RunFor(d time.Duration) {
	end := ts.Scene.Now() + d
	for ts.Scene.Now() < end {
		ts.Tick()
	}
}

// RunUntil advances up to maxFrames, stopping early once predicate holds.
// Returns the scene time at which it held, or -1.
func (ts *TestSim) RunUntil(predicate func(*TestSim) bool, maxFrames int) time.Duration {
	for i := 0; i < maxFrames; i++ {
		ts.Tick()
		if predicate(ts) {
			return ts.Scene.Now()
		}
	}
	return -1
}

// CueRecorder is a CuePlayer that remembers every cue in order.
type CueRecorder struct {
	Played []Cue
}

// PlayCue implements CuePlayer.
func (cr *CueRecorder) PlayCue(c Cue) {
	cr.Played = append(cr.Played, c)
}

// Count returns how many times c was played.
func (cr *CueRecorder) Count(c Cue) int {
	n := 0
	for _, p := range cr.Played {
		if p == c {
			n++
		}
	}
	return n
}

// RidgeLayer builds a w×h layer that is transparent above a sine-shaped
// ridge line at roughly horizon×h and opaque below it.
func RidgeLayer(w, h int, horizon float64, shade uint8) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	fill := color.NRGBA{R: shade, G: shade + shade/4, B: shade / 2, A: 255}
	for x := 0; x < w; x++ {
		ridge := horizon*float64(h) + 0.06*float64(h)*math.Sin(6*math.Pi*float64(x)/float64(w))
		for y := int(ridge); y < h; y++ {
			if y >= 0 {
				img.SetNRGBA(x, y, fill)
			}
		}
	}
	return img
}
