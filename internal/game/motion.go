package game

import (
	"math"
	"math/rand"
)

// Motion owns the scope's continuous position and every derived animation
// scalar. Only the frame tick mutates it; input writes Pointer and
// RecoilOrigin through Scene.
type Motion struct {
	Pos          Vec2 // scope centre
	Pointer      Vec2 // last accepted pointer location
	RecoilOrigin Vec2 // pointer location when tracking was last permitted

	Shake       float64 // current shake amplitude, ≥ 0
	ShakeOffset Vec2    // this frame's global translation

	ReloadProgress float64 // eased [0,1] progress of the bolt cycle
	rotateSign     float64

	breath float64 // monotonically increasing sway phase

	recoilFrom Vec2
	recoilTo   Vec2
}

// ScopePose is the sprite transform for one frame.
type ScopePose struct {
	Center Vec2    // translation before rotation/zoom
	Offset Vec2    // sprite-local offset (breathing + reload bob)
	Rotate float64 // radians
	Zoom   float64
}

func newMotion(center Vec2) Motion {
	return Motion{
		Pos:          center,
		Pointer:      center,
		RecoilOrigin: center,
		rotateSign:   1,
	}
}

// follow moves the scope a fixed fraction of the remaining way to the pointer.
func (m *Motion) follow(factor float64) {
	m.Pos = m.Pos.Lerp(m.Pointer, factor)
}

// kick draws the recoil peak once per shot.
func (m *Motion) kick(cfg Config, rng *rand.Rand) Vec2 {
	m.recoilFrom = m.Pos
	m.recoilTo = Vec2{
		X: m.RecoilOrigin.X + (rng.Float64()-0.5)*cfg.RecoilSide,
		Y: m.RecoilOrigin.Y - cfg.RecoilPower - rng.Float64()*cfg.RecoilUpVariance,
	}
	return m.recoilTo
}

// recoilAt places the scope along the kick for linear progress t.
func (m *Motion) recoilAt(t float64) {
	m.Pos = m.recoilFrom.Lerp(m.recoilTo, EaseOutQuad(t))
}

// breathe advances the sway phase by one frame.
func (m *Motion) breathe(step float64) {
	m.breath += step
}

// decayShake shrinks the shake amplitude and snaps it to zero under eps.
func (m *Motion) decayShake(decay, eps float64) {
	if m.Shake <= 0 {
		m.Shake = 0
		return
	}
	m.Shake *= decay
	if m.Shake < eps {
		m.Shake = 0
	}
}

// sampleShake picks this frame's translation. No randomness is consumed
// while the scope is steady.
func (m *Motion) sampleShake(rng *rand.Rand) {
	if m.Shake <= 0 {
		m.ShakeOffset = Vec2{}
		return
	}
	m.ShakeOffset = Vec2{
		X: (rng.Float64() - 0.5) * m.Shake,
		Y: (rng.Float64() - 0.5) * m.Shake,
	}
}

// reloadCurve returns the bob/rotate/zoom offsets for a bolt cycle at
// progress p. Pure in p.
func reloadCurve(cfg Config, sign, p float64) (drop, rotate, zoom float64) {
	s := math.Sin(math.Pi * p)
	drop = cfg.ReloadDrop * s
	rotate = sign * s * cfg.ReloadRotate * math.Pi / 180
	zoom = 1 + s*(cfg.ReloadZoom-1)
	return drop, rotate, zoom
}

// pose builds the sprite transform for the given visible state.
func (m *Motion) pose(cfg Config, state FireState) ScopePose {
	p := ScopePose{Center: m.Pos, Zoom: 1}
	switch state {
	case StateIdle:
		p.Offset = Vec2{
			X: math.Sin(m.breath) * cfg.BreathX,
			Y: math.Cos(m.breath*cfg.BreathRatio) * cfg.BreathY,
		}
	case StateReloading:
		drop, rot, zoom := reloadCurve(cfg, m.rotateSign, m.ReloadProgress)
		p.Offset.Y += drop
		p.Rotate = rot
		p.Zoom = zoom
	}
	return p
}
