package game

// ParallaxLayer is an immutable background layer record.
type ParallaxLayer struct {
	Src   string
	Speed float64
	Order int // back-to-front draw index
}

// buildLayers turns the configured specs into draw-ordered layers. Specs are
// validated as ascending by speed, so the config index is the draw index.
func buildLayers(specs []LayerSpec) []ParallaxLayer {
	out := make([]ParallaxLayer, len(specs))
	for i, s := range specs {
		out[i] = ParallaxLayer{Src: s.Src, Speed: s.Speed, Order: i}
	}
	return out
}

// Parallax computes per-layer placement for an overscanned w×h surface.
type Parallax struct {
	Layers   []ParallaxLayer
	Overscan float64
	W, H     float64
}

// ScaledSize is the drawn size of every layer.
func (p Parallax) ScaledSize() (float64, float64) {
	return p.W * p.Overscan, p.H * p.Overscan
}

// Offset is the top-left draw position of a layer moving at speed when the
// scope sits at scope. Faster layers shift further per unit of displacement.
func (p Parallax) Offset(scope Vec2, speed float64) Vec2 {
	sw, sh := p.ScaledSize()
	d := scope.Sub(Vec2{X: p.W / 2, Y: p.H / 2})
	return Vec2{
		X: -d.X*speed - (sw-p.W)/2,
		Y: -d.Y*speed - (sh-p.H)/2,
	}
}

// TargetScreenPos is where the marker lands after riding its layer.
func (p Parallax) TargetScreenPos(scope Vec2, t Target) Vec2 {
	speed := 0.0
	if t.Layer >= 0 && t.Layer < len(p.Layers) {
		speed = p.Layers[t.Layer].Speed
	}
	return t.Pos.Add(p.Offset(scope, speed))
}
