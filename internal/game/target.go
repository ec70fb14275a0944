package game

import (
	"image"
	"math/rand"

	xdraw "golang.org/x/image/draw"
)

// Target is the single hit marker. Layer selects which parallax depth it rides.
type Target struct {
	Pos    Vec2
	Layer  int
	Radius float64
}

// LayerSource exposes decoded layer images for alpha sampling.
type LayerSource interface {
	LayerImage(i int) (image.Image, bool)
}

// AlphaSampler answers alpha queries on a rasterised layer.
type AlphaSampler interface {
	AlphaAt(x, y int) uint8
}

// AlphaMask is a layer drawn once at native surface size with no parallax.
type AlphaMask struct {
	img *image.RGBA
}

// NewAlphaMask scales src to w×h and keeps the result for sampling.
func NewAlphaMask(src image.Image, w, h int) *AlphaMask {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return &AlphaMask{img: dst}
}

// AlphaAt returns the 8-bit alpha at (x, y), 0 outside the mask.
func (m *AlphaMask) AlphaAt(x, y int) uint8 {
	if !(image.Point{X: x, Y: y}.In(m.img.Rect)) {
		return 0
	}
	return m.img.RGBAAt(x, y).A
}

// Placement is the result of one opaque-area search.
type Placement struct {
	Pos      Vec2
	Attempts int
	Fallback bool // budget exhausted or no sampler; Pos is the surface centre
}

// PlaceOnOpaque rejection-samples points at least radius from every edge of a
// w×h surface and returns the first whose alpha exceeds threshold. After
// attempts misses it falls back to the centre.
func PlaceOnOpaque(s AlphaSampler, w, h int, radius float64, threshold uint8, attempts int, rng *rand.Rand) Placement {
	center := Vec2{X: float64(w) / 2, Y: float64(h) / 2}
	if s == nil {
		return Placement{Pos: center, Fallback: true}
	}
	spanX := float64(w) - 2*radius
	spanY := float64(h) - 2*radius
	for i := 0; i < attempts; i++ {
		p := Vec2{
			X: rng.Float64()*spanX + radius,
			Y: rng.Float64()*spanY + radius,
		}
		if s.AlphaAt(int(p.X), int(p.Y)) > threshold {
			return Placement{Pos: p, Attempts: i + 1}
		}
	}
	return Placement{Pos: center, Attempts: attempts, Fallback: true}
}
