package game

import "time"

// FireState is the externally visible rifle state.
type FireState int

const (
	StateIdle FireState = iota
	StateFiring
	StateReloading
)

func (s FireState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFiring:
		return "firing"
	case StateReloading:
		return "reloading"
	default:
		return "unknown"
	}
}

// phase is the internal step of the fire cycle. Two phases map to StateIdle:
// phaseReady accepts the trigger, phaseChambering waits for the bolt cycle.
type phase int

const (
	phaseReady phase = iota
	phaseRecoil
	phaseChambering
	phaseCycling
	phaseCount
)

func (p phase) String() string {
	switch p {
	case phaseReady:
		return "ready"
	case phaseRecoil:
		return "recoil"
	case phaseChambering:
		return "chambering"
	case phaseCycling:
		return "cycling"
	default:
		return "unknown"
	}
}

// phaseRow is one line of the transition table. phaseReady is the only stable
// phase; every other phase times out into next.
type phaseRow struct {
	state FireState
	next  phase
}

var phaseTable = [phaseCount]phaseRow{
	phaseReady:      {state: StateIdle, next: phaseReady},
	phaseRecoil:     {state: StateFiring, next: phaseChambering},
	phaseChambering: {state: StateIdle, next: phaseCycling},
	phaseCycling:    {state: StateReloading, next: phaseReady},
}

// FireMachine sequences ready → recoil → chambering → cycling → ready using a
// single countdown for the current phase.
type FireMachine struct {
	phase     phase
	remaining time.Duration
	durations [phaseCount]time.Duration
}

// NewFireMachine builds a machine from the configured phase lengths.
func NewFireMachine(cfg Config) FireMachine {
	var m FireMachine
	m.durations[phaseRecoil] = cfg.RecoilDuration()
	m.durations[phaseChambering] = cfg.ReloadDelay()
	m.durations[phaseCycling] = cfg.ReloadDuration()
	return m
}

// State reports the visible state of the current phase.
func (m *FireMachine) State() FireState {
	return phaseTable[m.phase].state
}

// Elapsed is how far into the current timed phase the machine is.
func (m *FireMachine) Elapsed() time.Duration {
	return m.durations[m.phase] - m.remaining
}

// Progress is Elapsed as a fraction of the phase length (0 for stable phases).
func (m *FireMachine) Progress() float64 {
	d := m.durations[m.phase]
	if d <= 0 {
		return 0
	}
	return clamp01(float64(m.Elapsed()) / float64(d))
}

// Fire leaves phaseReady. It is a no-op in every other phase.
func (m *FireMachine) Fire(enter func(from, to phase)) bool {
	if m.phase != phaseReady {
		return false
	}
	m.transition(phaseRecoil, 0, enter)
	return true
}

// Advance runs the countdown by dt. Overshoot carries into the next phase so
// long frames do not stretch the cycle. enter is called once per transition,
// in order.
func (m *FireMachine) Advance(dt time.Duration, enter func(from, to phase)) {
	if m.phase == phaseReady {
		return
	}
	m.remaining -= dt
	for m.phase != phaseReady && m.remaining <= 0 {
		m.transition(phaseTable[m.phase].next, m.remaining, enter)
	}
}

func (m *FireMachine) transition(to phase, carry time.Duration, enter func(from, to phase)) {
	from := m.phase
	m.phase = to
	m.remaining = 0
	if to != phaseReady {
		m.remaining = m.durations[to] + carry
	}
	if enter != nil {
		enter(from, to)
	}
}

// Reset cancels any pending phase and returns to ready.
func (m *FireMachine) Reset() {
	m.phase = phaseReady
	m.remaining = 0
}
