package explore

import "testing"

func TestParsePhase(t *testing.T) {
	valid := []string{"idle", "awaiting_permission", "locating", "active", "stopped"}
	for _, s := range valid {
		got, err := ParsePhase(s)
		if err != nil {
			t.Errorf("ParsePhase(%q) returned unexpected error: %v", s, err)
		}
		if string(got) != s {
			t.Errorf("ParsePhase(%q) = %q", s, got)
		}
	}

	if _, err := ParsePhase("exploring"); err == nil {
		t.Error("ParsePhase(\"exploring\") expected error, got nil")
	}
	if _, err := ParsePhase(""); err == nil {
		t.Error("ParsePhase(\"\") expected error, got nil")
	}
}

func TestIsTransitionAllowed(t *testing.T) {
	allowed := []struct{ from, to Phase }{
		{PhaseIdle, PhaseAwaitingPermission},
		{PhaseAwaitingPermission, PhaseLocating},
		{PhaseAwaitingPermission, PhaseIdle},
		{PhaseLocating, PhaseActive},
		{PhaseActive, PhaseActive},
		{PhaseActive, PhaseStopped},
		{PhaseStopped, PhaseIdle},
	}
	for _, tt := range allowed {
		if !IsTransitionAllowed(tt.from, tt.to) {
			t.Errorf("IsTransitionAllowed(%s, %s) = false, want true", tt.from, tt.to)
		}
	}

	denied := []struct{ from, to Phase }{
		{PhaseIdle, PhaseActive},
		{PhaseIdle, PhaseLocating},
		{PhaseLocating, PhaseIdle},
		{PhaseLocating, PhaseStopped},
		{PhaseStopped, PhaseActive},
		{PhaseActive, PhaseLocating},
	}
	for _, tt := range denied {
		if IsTransitionAllowed(tt.from, tt.to) {
			t.Errorf("IsTransitionAllowed(%s, %s) = true, want false", tt.from, tt.to)
		}
	}
}
