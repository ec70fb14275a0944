package game

import (
	"math/rand"
	"testing"
)

func TestDustField_StaysInBounds(t *testing.T) {
	cfg := DefaultConfig().Dust
	cfg.WindSpeed = 3
	d := NewDustField(cfg, 800, 600, rand.New(rand.NewSource(4)))
	if len(d.Particles) != cfg.Count {
		t.Fatalf("expected %d particles, got %d", cfg.Count, len(d.Particles))
	}
	for frame := 0; frame < 5000; frame++ {
		d.Advance()
		for i, p := range d.Particles {
			if p.Pos.X < -10 || p.Pos.X > 810 || p.Pos.Y < -10 || p.Pos.Y > 610 {
				t.Fatalf("frame %d particle %d out of bounds: %v", frame, i, p.Pos)
			}
		}
	}
}

func TestDustField_WrapsToOppositeEdge(t *testing.T) {
	cfg := DefaultConfig().Dust
	d := &DustField{cfg: cfg, w: 800, h: 600, Particles: []DustParticle{
		{Pos: Vec2{-9.9, 300}, VX: -0.5, Radius: 2, Alpha: 0.2},
		{Pos: Vec2{809.9, 300}, VX: 0.5},
		{Pos: Vec2{400, -9.95}, VY: -0.1},
		{Pos: Vec2{400, 609.95}, VY: 0.1},
	}}
	d.Advance()
	want := []Vec2{{810, 300}, {-10, 300}, {400, 610}, {400, -10}}
	for i, p := range d.Particles {
		if p.Pos != want[i] {
			t.Fatalf("particle %d: expected %v, got %v", i, want[i], p.Pos)
		}
	}
	if d.Particles[0].VX != -0.5 || d.Particles[0].Radius != 2 || d.Particles[0].Alpha != 0.2 {
		t.Fatal("wrap should preserve velocity and appearance")
	}
}

func TestDustField_MostDriftWithWind(t *testing.T) {
	cfg := DefaultConfig().Dust
	cfg.Count = 2000
	d := NewDustField(cfg, 800, 600, rand.New(rand.NewSource(9)))
	with := 0
	for _, p := range d.Particles {
		if p.VX > 0 {
			with++
		}
		if p.Radius < cfg.SizeMin || p.Radius > cfg.SizeMax {
			t.Fatalf("radius %v outside size range", p.Radius)
		}
		if p.Alpha < 0.12 || p.Alpha > 0.30 {
			t.Fatalf("alpha %v outside [0.12,0.30]", p.Alpha)
		}
	}
	frac := float64(with) / float64(cfg.Count)
	if frac < 0.75 || frac > 0.85 {
		t.Fatalf("expected ~80%% drifting with the wind, got %.2f", frac)
	}
}

func TestDustColors_ScaleConfiguredAlpha(t *testing.T) {
	base := DefaultConfig().Dust.Color
	halo, core := dustColors(base, 0.3)
	if core.A != 13 {
		t.Fatalf("core alpha should be 46*0.3, got %d", core.A)
	}
	if halo.A != 6 {
		t.Fatalf("halo alpha should be half the core, got %d", halo.A)
	}
	if core.R != base.R || core.G != base.G || core.B != base.B {
		t.Fatalf("colour channels should be kept, got %v", core)
	}
	if _, full := dustColors(base, 1); full.A != base.A {
		t.Fatalf("a fully opaque particle should use the configured alpha, got %d", full.A)
	}
}
