package game

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// InputSource supplies pointer moves and the edge-triggered fire signal.
type InputSource interface {
	// Pointer returns the pointer in surface coordinates when it moved since
	// the last call.
	Pointer() (x, y float64, moved bool)
	// Triggered reports a fresh trigger press this frame.
	Triggered() bool
}

// ebitenInput reads the mouse (and Space as an alternate trigger).
type ebitenInput struct {
	w, h       int
	lastX      int
	lastY      int
	hasPointer bool
}

func newEbitenInput(w, h int) *ebitenInput {
	return &ebitenInput{w: w, h: h}
}

func (in *ebitenInput) Pointer() (float64, float64, bool) {
	x, y := ebiten.CursorPosition()
	if x < 0 || y < 0 || x > in.w || y > in.h {
		return 0, 0, false
	}
	if in.hasPointer && x == in.lastX && y == in.lastY {
		return 0, 0, false
	}
	in.lastX, in.lastY, in.hasPointer = x, y, true
	return float64(x), float64(y), true
}

func (in *ebitenInput) Triggered() bool {
	return inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) ||
		inpututil.IsKeyJustPressed(ebiten.KeySpace)
}
