package game

import (
	"image/color"
	"math/rand"
)

// DustParticle is one mote of wind-blown dust.
type DustParticle struct {
	Pos    Vec2
	VX     float64 // horizontal drift per frame
	VY     float64 // slight vertical drift per frame
	Radius float64
	Alpha  float64
}

// DustField is a fixed set of particles that wrap toroidally around the surface.
type DustField struct {
	cfg       DustConfig
	w, h      float64
	Particles []DustParticle
}

// NewDustField scatters cfg.Count particles over a w×h surface. Roughly four
// in five drift with the wind, the rest against it.
func NewDustField(cfg DustConfig, w, h float64, rng *rand.Rand) *DustField {
	d := &DustField{cfg: cfg, w: w, h: h, Particles: make([]DustParticle, cfg.Count)}
	for i := range d.Particles {
		dir := cfg.WindDir
		if rng.Float64() <= 0.2 {
			dir = -dir
		}
		d.Particles[i] = DustParticle{
			Pos:    Vec2{X: rng.Float64() * w, Y: rng.Float64() * h},
			Radius: cfg.SizeMin + rng.Float64()*(cfg.SizeMax-cfg.SizeMin),
			VX:     cfg.WindSpeed * (0.7 + rng.Float64()*0.6) * dir,
			VY:     (rng.Float64() - 0.5) * 0.2,
			Alpha:  0.12 + rng.Float64()*0.18,
		}
	}
	return d
}

// Advance moves every particle one frame and wraps any that left the margin.
func (d *DustField) Advance() {
	m := d.cfg.Margin
	for i := range d.Particles {
		p := &d.Particles[i]
		p.Pos.X += p.VX
		p.Pos.Y += p.VY
		if p.Pos.X < -m {
			p.Pos.X = d.w + m
		} else if p.Pos.X > d.w+m {
			p.Pos.X = -m
		}
		if p.Pos.Y < -m {
			p.Pos.Y = d.h + m
		} else if p.Pos.Y > d.h+m {
			p.Pos.Y = -m
		}
	}
}

// dustColors scales the configured dust colour by a particle's alpha: a
// faint halo and a core at full particle strength.
func dustColors(base color.NRGBA, alpha float64) (halo, core color.NRGBA) {
	halo, core = base, base
	halo.A = uint8(float64(base.A) * alpha * 0.5)
	core.A = uint8(float64(base.A) * alpha)
	return halo, core
}
