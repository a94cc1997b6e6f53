// Package explore owns the proximity job-discovery session: one run of the
// explore activity from start to stop.
//
// Valid phase graph:
//
//	Idle ──► AwaitingPermission ──► Locating ──► Active ──► Stopped ──► Idle
//	              │                                ▲  │
//	              └──────► Idle (cancel)           └──┘ (filter change)
//
// Stopped drains back to Idle immediately; it never rests there.
package explore

import "fmt"

// Phase is the session lifecycle state.
type Phase string

const (
	PhaseIdle               Phase = "idle"
	PhaseAwaitingPermission Phase = "awaiting_permission"
	PhaseLocating           Phase = "locating"
	PhaseActive             Phase = "active"
	PhaseStopped            Phase = "stopped"
)

// validTransitions lists every allowed (from → to) pair.
var validTransitions = map[Phase][]Phase{
	PhaseIdle:               {PhaseAwaitingPermission},
	PhaseAwaitingPermission: {PhaseLocating, PhaseIdle},
	PhaseLocating:           {PhaseActive},
	PhaseActive:             {PhaseActive, PhaseStopped},
	PhaseStopped:            {PhaseIdle},
}

// ParsePhase converts a raw string to a Phase, returning an error for
// unknown values.
func ParsePhase(s string) (Phase, error) {
	p := Phase(s)
	switch p {
	case PhaseIdle, PhaseAwaitingPermission, PhaseLocating, PhaseActive, PhaseStopped:
		return p, nil
	}
	return "", fmt.Errorf("unknown session phase %q", s)
}

// IsTransitionAllowed returns true when moving from → to is permitted by
// the phase machine.
func IsTransitionAllowed(from, to Phase) bool {
	for _, p := range validTransitions[from] {
		if p == to {
			return true
		}
	}
	return false
}
