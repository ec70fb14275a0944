package game

import (
	"fmt"
	"math/rand"
	"time"
)

// Scene is the scope's complete simulated state: fire cycle, motion, dust and
// target. It has no rendering dependency. Input methods only record intent;
// Tick is the single writer of everything animated.
type Scene struct {
	cfg      Config
	rng      *rand.Rand
	machine  FireMachine
	motion   Motion
	dust     *DustField
	target   Target
	parallax Parallax

	layers LayerSource
	masks  map[int]*AlphaMask
	cues   CuePlayer
	sinks  []EventSink

	stats  CycleStats
	now    time.Duration
	frames int
	closed bool
}

// NewScene builds a scene at rest with the scope and target centred.
// layers may be nil, in which case every placement falls back to the centre.
func NewScene(cfg Config, layers LayerSource, cues CuePlayer, rng *rand.Rand) *Scene {
	if cues == nil {
		cues = nopCues{}
	}
	w, h := float64(cfg.Width), float64(cfg.Height)
	center := Vec2{X: w / 2, Y: h / 2}
	return &Scene{
		cfg:     cfg,
		rng:     rng,
		machine: NewFireMachine(cfg),
		motion:  newMotion(center),
		dust:    NewDustField(cfg.Dust, w, h, rng),
		target:  Target{Pos: center, Layer: cfg.DefaultTarget, Radius: cfg.TargetRadius},
		parallax: Parallax{
			Layers:   buildLayers(cfg.Layers),
			Overscan: cfg.Overscan,
			W:        w,
			H:        h,
		},
		layers: layers,
		masks:  make(map[int]*AlphaMask),
		cues:   cues,
	}
}

// AddSink subscribes s to every subsequent event.
func (s *Scene) AddSink(sink EventSink) {
	s.sinks = append(s.sinks, sink)
}

func (s *Scene) record(category, key, value string, num float64) {
	e := Event{At: s.now, Category: category, Key: key, Value: value, NumVal: num}
	for _, sink := range s.sinks {
		sink.Record(e)
	}
}

// MovePointer records a pointer position in surface coordinates. Ignored
// while reloading; while idle it also becomes the recoil origin.
func (s *Scene) MovePointer(x, y float64) {
	if s.closed || s.machine.State() == StateReloading {
		return
	}
	s.motion.Pointer = Vec2{X: x, Y: y}
	if s.machine.State() == StateIdle {
		s.motion.RecoilOrigin = s.motion.Pointer
	}
}

// Trigger fires if the rifle is ready. Any other time it does nothing and
// returns false.
func (s *Scene) Trigger() bool {
	if s.closed {
		return false
	}
	if !s.machine.Fire(s.enter) {
		s.stats.IgnoredTriggers++
		return false
	}
	return true
}

// Tick advances the scene by one frame of length dt: phase transitions and
// motion first, then shake, then dust.
func (s *Scene) Tick(dt time.Duration) {
	if s.closed {
		return
	}
	s.now += dt
	s.frames++
	if s.machine.phase == phaseCycling && s.machine.remaining <= dt {
		// Last frame of the bolt cycle: the tween lands on 1 before the
		// completion actions run.
		s.motion.ReloadProgress = 1
	}
	s.machine.Advance(dt, s.enter)

	m := &s.motion
	switch s.machine.phase {
	case phaseRecoil:
		m.recoilAt(s.machine.Progress())
	case phaseCycling:
		p := EaseInOutQuad(s.machine.Progress())
		if p > m.ReloadProgress {
			m.ReloadProgress = p
		}
	default:
		m.follow(s.cfg.FollowFactor)
	}
	m.breathe(s.cfg.BreathSpeed)

	decay := s.cfg.ShakeDecay
	if s.machine.State() == StateReloading {
		decay = s.cfg.ShakeDecayReload
	}
	m.decayShake(decay, s.cfg.ShakeEpsilon)
	m.sampleShake(s.rng)

	s.dust.Advance()
}

// enter runs the entry actions of a phase. It is the only place state
// transitions have side effects.
func (s *Scene) enter(from, to phase) {
	m := &s.motion
	switch to {
	case phaseRecoil:
		s.cues.PlayCue(CueShot)
		m.Shake = s.cfg.ShakePower
		peak := m.kick(s.cfg, s.rng)
		s.stats.Shots++
		s.stats.lastShot = s.now
		s.record("state", "fire", fmt.Sprintf("peak=(%.1f,%.1f)", peak.X, peak.Y), peak.Y)

	case phaseChambering:
		m.Pos = m.recoilTo
		m.Shake = 0
		m.RecoilOrigin = m.Pointer
		s.stats.lastSettle = s.now
		s.stats.addRecoil(s.now - s.stats.lastShot)
		s.record("state", "recoil_done", fmt.Sprintf("pos=(%.1f,%.1f)", m.Pos.X, m.Pos.Y), 0)

	case phaseCycling:
		s.cues.PlayCue(CueReload)
		m.ReloadProgress = 0
		m.rotateSign = 1
		if s.rng.Float64() < 0.5 {
			m.rotateSign = -1
		}
		m.Shake = s.cfg.ShakePowerReload
		s.stats.lastReload = s.now
		s.stats.addChamber(s.now - s.stats.lastSettle)
		s.record("state", "reload_start", fmt.Sprintf("sign=%+.0f", m.rotateSign), m.rotateSign)

	case phaseReady:
		if from != phaseCycling {
			return
		}
		// A frame long enough to skip the whole cycle still finishes the tween.
		m.ReloadProgress = max(m.ReloadProgress, 1)
		s.record("reload", "progress", "complete", m.ReloadProgress)
		m.ReloadProgress = 0
		m.Shake = 0
		m.RecoilOrigin = m.Pointer
		s.stats.Reloads++
		s.stats.addCycle(s.now - s.stats.lastReload)
		s.retarget()
		s.record("state", "reload_done", "", 0)
	}
}

// retarget picks a new depth for the target and an opaque spot on it.
func (s *Scene) retarget() {
	choices := s.cfg.TargetLayers
	layer := choices[s.rng.Intn(len(choices))]

	var sampler AlphaSampler
	if mask := s.maskFor(layer); mask != nil {
		sampler = mask
	}
	pl := PlaceOnOpaque(sampler, s.cfg.Width, s.cfg.Height, s.target.Radius,
		s.cfg.AlphaThreshold, s.cfg.PlacementAttempts, s.rng)

	s.target.Layer = layer
	s.target.Pos = pl.Pos
	s.stats.addPlacement(pl)
	key := "placed"
	if pl.Fallback {
		key = "fallback"
	}
	s.record("target", key, fmt.Sprintf("layer=%d pos=(%.1f,%.1f) tries=%d", layer, pl.Pos.X, pl.Pos.Y, pl.Attempts), float64(pl.Attempts))
}

func (s *Scene) maskFor(layer int) *AlphaMask {
	if mask, ok := s.masks[layer]; ok {
		return mask
	}
	if s.layers == nil {
		return nil
	}
	img, ok := s.layers.LayerImage(layer)
	if !ok {
		return nil
	}
	mask := NewAlphaMask(img, s.cfg.Width, s.cfg.Height)
	s.masks[layer] = mask
	return mask
}

// Close cancels any pending phase and stops the scene. Later ticks and input
// are ignored.
func (s *Scene) Close() {
	if s.closed {
		return
	}
	s.machine.Reset()
	s.motion.Shake = 0
	s.motion.ShakeOffset = Vec2{}
	s.motion.ReloadProgress = 0
	s.closed = true
	s.record("state", "closed", "", 0)
}

// Closed reports whether Close has been called.
func (s *Scene) Closed() bool { return s.closed }

// Chambering reports the pause between recoil settling and the bolt cycle.
// The state reads idle, but the trigger is not accepted yet.
func (s *Scene) Chambering() bool { return s.machine.phase == phaseChambering }

// State is the visible fire state.
func (s *Scene) State() FireState { return s.machine.State() }

// Now is the scene clock.
func (s *Scene) Now() time.Duration { return s.now }

// Frames is the number of ticks run.
func (s *Scene) Frames() int { return s.frames }

// ScopePos is the scope centre.
func (s *Scene) ScopePos() Vec2 { return s.motion.Pos }

// PointerTarget is the last accepted pointer location.
func (s *Scene) PointerTarget() Vec2 { return s.motion.Pointer }

// RecoilOrigin is the base of the next recoil kick.
func (s *Scene) RecoilOrigin() Vec2 { return s.motion.RecoilOrigin }

// RecoilPeak is where the last kick is headed.
func (s *Scene) RecoilPeak() Vec2 { return s.motion.recoilTo }

// Shake is the current shake amplitude.
func (s *Scene) Shake() float64 { return s.motion.Shake }

// ShakeOffset is this frame's global translation.
func (s *Scene) ShakeOffset() Vec2 { return s.motion.ShakeOffset }

// ReloadProgress is the eased bolt-cycle progress.
func (s *Scene) ReloadProgress() float64 { return s.motion.ReloadProgress }

// Pose is the scope sprite transform for this frame.
func (s *Scene) Pose() ScopePose { return s.motion.pose(s.cfg, s.State()) }

// Target returns the hit marker.
func (s *Scene) Target() Target { return s.target }

// Dust returns the particle field.
func (s *Scene) Dust() *DustField { return s.dust }

// Parallax returns the layer geometry.
func (s *Scene) Parallax() Parallax { return s.parallax }

// Stats returns the running cycle statistics.
func (s *Scene) Stats() CycleStats { return s.stats }

// Config returns the scene's configuration.
func (s *Scene) Config() Config { return s.cfg }
