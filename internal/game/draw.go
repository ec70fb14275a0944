package game

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

var (
	targetFill = color.NRGBA{R: 220, G: 40, B: 40, A: 217}
	targetGlow = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
)

// drawFrame composites one frame into dst: parallax with the target slotted
// in, then dust, then the scope sprite. The caller applies the shake.
func (g *Game) drawFrame(dst *ebiten.Image) {
	g.drawParallax(dst)
	g.drawDust(dst)
	g.drawScope(dst)
}

// drawParallax draws every layer back to front. A layer that is not ready is
// skipped, except the base layer which gets a solid fill.
func (g *Game) drawParallax(dst *ebiten.Image) {
	px := g.scene.Parallax()
	scope := g.scene.ScopePos()
	sw, sh := px.ScaledSize()
	for i, layer := range px.Layers {
		if tex, ok := g.assets.LayerTexture(i); ok {
			b := tex.Bounds()
			off := px.Offset(scope, layer.Speed)
			op := &ebiten.DrawImageOptions{}
			op.GeoM.Scale(sw/float64(b.Dx()), sh/float64(b.Dy()))
			op.GeoM.Translate(off.X, off.Y)
			op.Filter = ebiten.FilterLinear
			dst.DrawImage(tex, op)
		} else if i == 0 {
			vector.FillRect(dst, 0, 0, float32(px.W), float32(px.H), g.cfg.BaseFill, false)
		}
		if i == g.cfg.TargetAfterLayer {
			g.drawTarget(dst, px.TargetScreenPos(scope, g.scene.Target()))
		}
	}
}

// drawTarget renders the marker as a red disc with a soft white halo.
func (g *Game) drawTarget(dst *ebiten.Image, at Vec2) {
	t := g.scene.Target()
	x, y, r := float32(at.X), float32(at.Y), float32(t.Radius)
	halo := targetGlow
	halo.A = 25
	vector.FillCircle(dst, x, y, r+8, halo, true)
	halo.A = 50
	vector.FillCircle(dst, x, y, r+4, halo, true)
	vector.FillCircle(dst, x, y, r, targetFill, true)
}

// drawDust renders each particle as a faint glow with a brighter core.
func (g *Game) drawDust(dst *ebiten.Image) {
	base := g.cfg.Dust.Color
	for _, p := range g.scene.Dust().Particles {
		x, y, r := float32(p.Pos.X), float32(p.Pos.Y), float32(p.Radius)
		halo, core := dustColors(base, p.Alpha)
		vector.FillCircle(dst, x, y, r*2.5, halo, true)
		vector.FillCircle(dst, x, y, r, core, true)
	}
}

// drawScope draws the sprite centred on the scope with the pose's local
// offset, rotation and zoom.
func (g *Game) drawScope(dst *ebiten.Image) {
	tex, ok := g.assets.ScopeTexture()
	if !ok {
		return
	}
	pose := g.scene.Pose()
	b := tex.Bounds()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(pose.Offset.X-float64(b.Dx())/2, pose.Offset.Y-float64(b.Dy())/2)
	op.GeoM.Scale(pose.Zoom, pose.Zoom)
	op.GeoM.Rotate(pose.Rotate)
	op.GeoM.Translate(pose.Center.X, pose.Center.Y)
	op.Filter = ebiten.FilterLinear
	dst.DrawImage(tex, op)
}
