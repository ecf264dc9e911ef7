package boot

import (
	"fmt"
	"sync"

	"github.com/mtp-labs/bootship/pkg/log"
)

// State represents the orchestrator's position in the startup sequence.
type State int

const (
	StateInit State = iota
	StateStagesRunning
	StateStagesResolved
	StateServiceStarting
	StateServiceReady
	StateServiceFailed
	StateAppLaunching
	StateRunning
	StateAborted
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case StateInit:
		return "Init"
	case StateStagesRunning:
		return "StagesRunning"
	case StateStagesResolved:
		return "StagesResolved"
	case StateServiceStarting:
		return "ServiceStarting"
	case StateServiceReady:
		return "ServiceReady"
	case StateServiceFailed:
		return "ServiceFailed"
	case StateAppLaunching:
		return "AppLaunching"
	case StateRunning:
		return "Running"
	case StateAborted:
		return "Aborted"
	default:
		return "Unknown"
	}
}

// validNext lists the allowed transitions. Running and Aborted are terminal.
var validNext = map[State][]State{
	StateInit:            {StateStagesRunning},
	StateStagesRunning:   {StateStagesResolved},
	StateStagesResolved:  {StateServiceStarting, StateAborted},
	StateServiceStarting: {StateServiceReady, StateServiceFailed},
	StateServiceReady:    {StateAppLaunching},
	StateServiceFailed:   {StateAborted},
	StateAppLaunching:    {StateRunning, StateAborted},
}

// Machine is the validated startup state machine. A single goroutine drives
// it; the mutex only guards State() readers in tests.
type Machine struct {
	mu     sync.RWMutex
	state  State
	logger log.Logger
}

// NewMachine creates a machine in StateInit.
func NewMachine(logger log.Logger) *Machine {
	return &Machine{state: StateInit, logger: logger}
}

// State returns the current state.
func (m *Machine) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// TransitionTo attempts to transition to a new state.
// Returns an error if the transition is not in the table.
func (m *Machine) TransitionTo(next State, reason string) error {
	m.mu.Lock()
	current := m.state

	allowed := false
	for _, s := range validNext[current] {
		if s == next {
			allowed = true
			break
		}
	}
	if !allowed {
		m.mu.Unlock()
		return fmt.Errorf("invalid transition %s -> %s", current, next)
	}

	m.state = next
	m.mu.Unlock()

	m.logger.Info("state transition",
		log.String("from", current.String()),
		log.String("to", next.String()),
		log.String("reason", reason),
	)
	return nil
}
