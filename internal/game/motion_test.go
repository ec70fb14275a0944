package game

import (
	"math"
	"math/rand"
	"testing"
)

func TestMotion_FollowIsGeometric(t *testing.T) {
	m := newMotion(Vec2{400, 300})
	m.Pointer = Vec2{700, 500}
	const factor = 0.18
	prev := m.Pointer.Sub(m.Pos).Len()
	for i := 0; i < 60; i++ {
		m.follow(factor)
		d := m.Pointer.Sub(m.Pos).Len()
		if math.Abs(d-prev*(1-factor)) > 1e-9 {
			t.Fatalf("frame %d: expected distance %.6f, got %.6f", i, prev*(1-factor), d)
		}
		if m.Pos.X > m.Pointer.X || m.Pos.Y > m.Pointer.Y {
			t.Fatalf("frame %d: overshot pointer: %v", i, m.Pos)
		}
		prev = d
	}
}

func TestMotion_KickRange(t *testing.T) {
	cfg := DefaultConfig()
	rng := rand.New(rand.NewSource(5))
	for i := 0; i < 500; i++ {
		m := newMotion(Vec2{400, 300})
		peak := m.kick(cfg, rng)
		if peak.Y < 150 || peak.Y > 250 {
			t.Fatalf("recoil y %.2f outside [150,250]", peak.Y)
		}
		if peak.X < 385 || peak.X > 415 {
			t.Fatalf("recoil x %.2f outside [385,415]", peak.X)
		}
	}
}

func TestMotion_RecoilTweenEndsAtPeak(t *testing.T) {
	cfg := DefaultConfig()
	m := newMotion(Vec2{400, 300})
	peak := m.kick(cfg, rand.New(rand.NewSource(1)))
	m.recoilAt(0)
	if m.Pos != (Vec2{400, 300}) {
		t.Fatalf("tween should start at the scope position, got %v", m.Pos)
	}
	m.recoilAt(1)
	if m.Pos != peak {
		t.Fatalf("tween should end at the peak %v, got %v", peak, m.Pos)
	}
}

func TestMotion_ShakeDecaySnapsToZero(t *testing.T) {
	m := newMotion(Vec2{})
	m.Shake = 20
	frames := 0
	for m.Shake > 0 {
		m.decayShake(0.88, 0.5)
		frames++
		if frames > 1000 {
			t.Fatal("shake never settled")
		}
	}
	if m.Shake != 0 {
		t.Fatalf("expected exact zero, got %v", m.Shake)
	}
	// 20 * 0.88^n < 0.5  →  n = 29
	if frames != 29 {
		t.Fatalf("expected 29 frames of shake, got %d", frames)
	}
}

func TestMotion_SampleShakeBounded(t *testing.T) {
	m := newMotion(Vec2{})
	rng := rand.New(rand.NewSource(2))
	m.Shake = 8
	for i := 0; i < 500; i++ {
		m.sampleShake(rng)
		if math.Abs(m.ShakeOffset.X) > 4 || math.Abs(m.ShakeOffset.Y) > 4 {
			t.Fatalf("shake offset %v exceeds magnitude/2", m.ShakeOffset)
		}
	}
	m.Shake = 0
	m.sampleShake(rng)
	if m.ShakeOffset != (Vec2{}) {
		t.Fatalf("no shake should give zero offset, got %v", m.ShakeOffset)
	}
}

func TestReloadCurve_PureAndSymmetric(t *testing.T) {
	cfg := DefaultConfig()
	d0, r0, z0 := reloadCurve(cfg, 1, 0)
	if d0 != 0 || r0 != 0 || z0 != 1 {
		t.Fatalf("expected rest pose at p=0, got drop=%v rot=%v zoom=%v", d0, r0, z0)
	}
	d, r, z := reloadCurve(cfg, -1, 0.5)
	if math.Abs(d-cfg.ReloadDrop) > 1e-9 {
		t.Fatalf("expected full drop at midpoint, got %v", d)
	}
	if math.Abs(r+cfg.ReloadRotate*math.Pi/180) > 1e-9 {
		t.Fatalf("expected full negative rotation, got %v", r)
	}
	if math.Abs(z-cfg.ReloadZoom) > 1e-9 {
		t.Fatalf("expected max zoom, got %v", z)
	}
	a, _, _ := reloadCurve(cfg, 1, 0.3)
	b, _, _ := reloadCurve(cfg, 1, 0.7)
	if math.Abs(a-b) > 1e-9 {
		t.Fatalf("bob should be symmetric about the midpoint: %v vs %v", a, b)
	}
	again, _, _ := reloadCurve(cfg, 1, 0.3)
	if again != a {
		t.Fatal("reload curve must not accumulate state")
	}
}

func TestMotion_PoseBreathesOnlyWhenIdle(t *testing.T) {
	cfg := DefaultConfig()
	m := newMotion(Vec2{400, 300})
	for i := 0; i < 40; i++ {
		m.breathe(cfg.BreathSpeed)
	}
	idle := m.pose(cfg, StateIdle)
	if idle.Offset == (Vec2{}) {
		t.Fatal("idle pose should sway")
	}
	if math.Abs(idle.Offset.X) > cfg.BreathX || math.Abs(idle.Offset.Y) > cfg.BreathY {
		t.Fatalf("sway %v exceeds amplitude", idle.Offset)
	}
	firing := m.pose(cfg, StateFiring)
	if firing.Offset != (Vec2{}) || firing.Zoom != 1 || firing.Rotate != 0 {
		t.Fatalf("firing pose should be steady, got %+v", firing)
	}
}
