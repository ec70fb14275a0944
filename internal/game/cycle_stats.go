package game

import (
	"fmt"
	"strings"
	"time"
)

// CycleStats accumulates fire-cycle counters and measured phase lengths.
type CycleStats struct {
	Shots           int // triggers accepted
	Settled         int // recoils completed
	Chambered       int // bolt cycles started
	Reloads         int // bolt cycles completed
	IgnoredTriggers int

	Placements         int
	PlacementFallbacks int
	placementAttempts  int

	RecoilTotal  time.Duration // trigger → recoil settled
	ChamberTotal time.Duration // recoil settled → reload start
	CycleTotal   time.Duration // reload start → ready

	lastShot   time.Duration
	lastSettle time.Duration
	lastReload time.Duration
}

func (cs *CycleStats) addRecoil(d time.Duration) {
	cs.RecoilTotal += d
	cs.Settled++
}

func (cs *CycleStats) addChamber(d time.Duration) {
	cs.ChamberTotal += d
	cs.Chambered++
}

func (cs *CycleStats) addCycle(d time.Duration) { cs.CycleTotal += d }

func (cs *CycleStats) addPlacement(p Placement) {
	cs.Placements++
	cs.placementAttempts += p.Attempts
	if p.Fallback {
		cs.PlacementFallbacks++
	}
}

// MeanPlacementAttempts is the average number of samples per placement.
func (cs CycleStats) MeanPlacementAttempts() float64 {
	if cs.Placements == 0 {
		return 0
	}
	return float64(cs.placementAttempts) / float64(cs.Placements)
}

// MeanRecoil is the average trigger-to-settle time.
func (cs CycleStats) MeanRecoil() time.Duration {
	return meanDuration(cs.RecoilTotal, cs.Settled)
}

// MeanChamber is the average settle-to-reload time.
func (cs CycleStats) MeanChamber() time.Duration {
	return meanDuration(cs.ChamberTotal, cs.Chambered)
}

// MeanCycle is the average bolt-cycle time.
func (cs CycleStats) MeanCycle() time.Duration {
	return meanDuration(cs.CycleTotal, cs.Reloads)
}

func meanDuration(total time.Duration, n int) time.Duration {
	if n == 0 {
		return 0
	}
	return total / time.Duration(n)
}

// String returns a one-line summary.
func (cs CycleStats) String() string {
	return fmt.Sprintf("shots=%d reloads=%d ignored=%d placements=%d fallbacks=%d tries=%.1f recoil=%v chamber=%v cycle=%v",
		cs.Shots, cs.Reloads, cs.IgnoredTriggers, cs.Placements, cs.PlacementFallbacks,
		cs.MeanPlacementAttempts(), cs.MeanRecoil(), cs.MeanChamber(), cs.MeanCycle())
}

// Snapshot is a point-in-time dump of the scene, used by the clipboard key
// and the headless report.
type Snapshot struct {
	At      time.Duration
	State   FireState
	Scope   Vec2
	Pointer Vec2
	Origin  Vec2
	Shake   float64
	Reload  float64
	Target  Target
	Stats   CycleStats
}

// Snapshot captures the current scene.
func (s *Scene) Snapshot() Snapshot {
	return Snapshot{
		At:      s.now,
		State:   s.State(),
		Scope:   s.motion.Pos,
		Pointer: s.motion.Pointer,
		Origin:  s.motion.RecoilOrigin,
		Shake:   s.motion.Shake,
		Reload:  s.motion.ReloadProgress,
		Target:  s.target,
		Stats:   s.stats,
	}
}

func (sn Snapshot) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "--- Scope at T=%dms ---\n", sn.At.Milliseconds())
	fmt.Fprintf(&sb, "state:   %s\n", sn.State)
	fmt.Fprintf(&sb, "scope:   (%.1f, %.1f)\n", sn.Scope.X, sn.Scope.Y)
	fmt.Fprintf(&sb, "pointer: (%.1f, %.1f)  origin: (%.1f, %.1f)\n", sn.Pointer.X, sn.Pointer.Y, sn.Origin.X, sn.Origin.Y)
	fmt.Fprintf(&sb, "shake:   %.2f  reload: %.2f\n", sn.Shake, sn.Reload)
	fmt.Fprintf(&sb, "target:  layer=%d (%.1f, %.1f) r=%.0f\n", sn.Target.Layer, sn.Target.Pos.X, sn.Target.Pos.Y, sn.Target.Radius)
	fmt.Fprintf(&sb, "stats:   %s\n", sn.Stats)
	return sb.String()
}
