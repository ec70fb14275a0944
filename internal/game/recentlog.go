package game

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	logPanelWidth = 260
	logMaxEntries = 8
	logLineHeight = 14
)

// RecentLog is a ring buffer of the latest events rendered in the HUD.
type RecentLog struct {
	entries []Event
	head    int
	count   int
}

// NewRecentLog creates a recent-event log with a fixed capacity.
func NewRecentLog() *RecentLog {
	return &RecentLog{
		entries: make([]Event, logMaxEntries),
	}
}

// Record appends an event, overwriting the oldest when full.
func (rl *RecentLog) Record(e Event) {
	rl.entries[rl.head] = e
	rl.head = (rl.head + 1) % logMaxEntries
	if rl.count < logMaxEntries {
		rl.count++
	}
}

// Recent returns events in chronological order (oldest first).
func (rl *RecentLog) Recent() []Event {
	result := make([]Event, rl.count)
	for i := 0; i < rl.count; i++ {
		idx := (rl.head - rl.count + i + logMaxEntries) % logMaxEntries
		result[i] = rl.entries[idx]
	}
	return result
}

// Draw renders the panel anchored to the top-right corner of the surface.
func (rl *RecentLog) Draw(screen *ebiten.Image, surfaceW int) {
	entries := rl.Recent()
	if len(entries) == 0 {
		return
	}
	panelX := surfaceW - logPanelWidth - 8
	panelH := len(entries)*logLineHeight + 8
	vector.FillRect(screen, float32(panelX), 8, logPanelWidth, float32(panelH), color.RGBA{R: 0, G: 0, B: 0, A: 100}, false)

	y := 12
	for i, e := range entries {
		// Highlight the newest line.
		if i == len(entries)-1 {
			vector.FillRect(screen, float32(panelX+2), float32(y), logPanelWidth-4, logLineHeight, color.RGBA{R: 40, G: 40, B: 40, A: 120}, false)
		}
		line := fmt.Sprintf("%5d %s %s", e.At.Milliseconds(), e.Key, e.Value)
		ebitenutil.DebugPrintAt(screen, line, panelX+6, y)
		y += logLineHeight
	}
}
