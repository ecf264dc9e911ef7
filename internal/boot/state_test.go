package boot

import (
	"testing"

	"github.com/mtp-labs/bootship/pkg/log"
)

func TestMachine_HappyPath(t *testing.T) {
	m := NewMachine(log.NewNoopLogger())

	sequence := []State{
		StateStagesRunning,
		StateStagesResolved,
		StateServiceStarting,
		StateServiceReady,
		StateAppLaunching,
		StateRunning,
	}
	for _, next := range sequence {
		if err := m.TransitionTo(next, "test"); err != nil {
			t.Fatalf("transition to %s: %v", next, err)
		}
	}
	if m.State() != StateRunning {
		t.Fatalf("expected Running, got %s", m.State())
	}
}

func TestMachine_FailurePaths(t *testing.T) {
	t.Run("stage failure", func(t *testing.T) {
		m := NewMachine(log.NewNoopLogger())
		for _, next := range []State{StateStagesRunning, StateStagesResolved, StateAborted} {
			if err := m.TransitionTo(next, "test"); err != nil {
				t.Fatalf("transition to %s: %v", next, err)
			}
		}
	})

	t.Run("service failure", func(t *testing.T) {
		m := NewMachine(log.NewNoopLogger())
		seq := []State{StateStagesRunning, StateStagesResolved, StateServiceStarting, StateServiceFailed, StateAborted}
		for _, next := range seq {
			if err := m.TransitionTo(next, "test"); err != nil {
				t.Fatalf("transition to %s: %v", next, err)
			}
		}
	})
}

func TestMachine_RejectsInvalidTransitions(t *testing.T) {
	m := NewMachine(log.NewNoopLogger())

	if err := m.TransitionTo(StateServiceReady, "test"); err == nil {
		t.Fatal("Init -> ServiceReady must be rejected")
	}
	if m.State() != StateInit {
		t.Fatalf("state moved on rejected transition: %s", m.State())
	}
}

func TestMachine_TerminalStates(t *testing.T) {
	m := NewMachine(log.NewNoopLogger())
	steps := []State{
		StateStagesRunning, StateStagesResolved, StateServiceStarting,
		StateServiceReady, StateAppLaunching, StateRunning,
	}
	for _, next := range steps {
		if err := m.TransitionTo(next, "test"); err != nil {
			t.Fatal(err)
		}
	}
	if err := m.TransitionTo(StateAborted, "test"); err == nil {
		t.Fatal("Running is terminal")
	}
}

func TestStateString(t *testing.T) {
	if StateInit.String() != "Init" || StateAborted.String() != "Aborted" {
		t.Fatal("unexpected state names")
	}
	if State(99).String() != "Unknown" {
		t.Fatal("out-of-range state must stringify as Unknown")
	}
}
