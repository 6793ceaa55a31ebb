package reconcile

import (
	"errors"
	"fmt"

	"github.com/spf13/afero"
)

// ErrInvalidTransition is returned when a session step is called out of order.
var ErrInvalidTransition = errors.New("invalid reconcile state transition")

// State is a step of the reconcile lifecycle.
type State int

const (
	Idle State = iota
	Planned
	Confirmed
	Applying
	Done
	Cancelled
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Planned:
		return "planned"
	case Confirmed:
		return "confirmed"
	case Applying:
		return "applying"
	case Done:
		return "done"
	case Cancelled:
		return "cancelled"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

var transitions = map[State][]State{
	Idle:      {Planned},
	Planned:   {Confirmed, Cancelled},
	Confirmed: {Applying},
	Applying:  {Done, Failed},
}

// Session drives one plan through Idle, Planned, Confirmed, Applying and
// finally Done, Cancelled or Failed.
type Session struct {
	fs    afero.Fs
	state State
	plan  *Plan
	err   error
}

// NewSession returns an idle session operating on fsys.
func NewSession(fsys afero.Fs) *Session {
	return &Session{fs: fsys, state: Idle}
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	return s.state
}

// Err returns the failure that moved the session to Failed.
func (s *Session) Err() error {
	return s.err
}

// Plan computes the plan and moves to Planned.
func (s *Session) Plan(installed []string, manifest Manifest, opts PlanOptions) (*Plan, error) {
	if err := s.transition(Planned); err != nil {
		return nil, err
	}
	s.plan = ComputePlan(installed, manifest, opts)
	return s.plan, nil
}

// Confirm records the operator decision: approval moves to Confirmed,
// anything else to Cancelled.
func (s *Session) Confirm(approved bool) error {
	if approved {
		return s.transition(Confirmed)
	}
	return s.transition(Cancelled)
}

// Apply runs the confirmed plan and ends in Done or Failed.
func (s *Session) Apply(installedDir string, src Extractor, opts ApplyOptions) (*ApplyResult, error) {
	if err := s.transition(Applying); err != nil {
		return nil, err
	}

	result, err := Apply(s.fs, s.plan, installedDir, src, opts)
	if err != nil {
		s.err = err
		s.state = Failed
		return nil, err
	}
	s.state = Done
	return result, nil
}

func (s *Session) transition(to State) error {
	for _, allowed := range transitions[s.state] {
		if allowed == to {
			s.state = to
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.state, to)
}
