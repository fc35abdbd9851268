// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package auth reduces a stream of per-frame face match outcomes to a
// single accept or reject decision.
//
// A [Session] is a tick-driven state machine:
//
//	Idle --Start--> Sampling --Tick/Poll--> Accepted | Rejected
//
// Every tick first checks the wall-clock budget, then applies the frame
// outcome. A session is accepted after RequiredConsecutiveMatches matches
// in a row and rejected after MaxAttempts mismatches or once Timeout has
// elapsed since Start. Accepted and Rejected are terminal.
//
// A Session is not safe for concurrent use; one goroutine owns its ticks.
package auth

import (
	"fmt"
	"time"

	"github.com/MKhiriev/neuro-vault/internal/face"
	"github.com/MKhiriev/neuro-vault/internal/utils"
)

// State is the session state.
type State int

const (
	StateIdle State = iota
	StateSampling
	StateAccepted
	StateRejected
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSampling:
		return "sampling"
	case StateAccepted:
		return "accepted"
	case StateRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further tick can change s.
func (s State) Terminal() bool {
	return s == StateAccepted || s == StateRejected
}

// Reason explains a rejection.
type Reason string

const (
	ReasonNone        Reason = ""
	ReasonTimeout     Reason = "timeout"
	ReasonMaxAttempts Reason = "max attempts exceeded"
)

// Config bounds a session.
type Config struct {
	// MaxAttempts is the number of mismatching frames that rejects the
	// session. Frames without a face do not count.
	MaxAttempts int
	// Timeout is measured from Start. The session is rejected on the first
	// tick strictly after it.
	Timeout time.Duration
	// RequiredConsecutiveMatches is the run of matching frames that accepts
	// the session.
	RequiredConsecutiveMatches int
}

// DefaultConfig returns 3 attempts, a 10 second timeout and 3 consecutive
// matches.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:                3,
		Timeout:                    10 * time.Second,
		RequiredConsecutiveMatches: 3,
	}
}

// Validate rejects non-positive limits.
func (c Config) Validate() error {
	if c.MaxAttempts < 1 {
		return fmt.Errorf("%w: max attempts %d", ErrInvalidConfig, c.MaxAttempts)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("%w: timeout %s", ErrInvalidConfig, c.Timeout)
	}
	if c.RequiredConsecutiveMatches < 1 {
		return fmt.Errorf("%w: required consecutive matches %d", ErrInvalidConfig, c.RequiredConsecutiveMatches)
	}
	return nil
}

// Decision is a snapshot of the session after a tick.
type Decision struct {
	SessionID   string
	State       State
	Reason      Reason
	Attempts    int
	Consecutive int
	Elapsed     time.Duration
}

// Session is one authentication attempt.
type Session struct {
	id  string
	cfg Config
	now func() time.Time

	state       State
	reason      Reason
	attempts    int
	consecutive int
	startedAt   time.Time
	elapsed     time.Duration
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) SessionOption {
	return func(s *Session) {
		s.now = now
	}
}

// WithID sets the session ID used for log and audit correlation.
func WithID(id string) SessionOption {
	return func(s *Session) {
		s.id = id
	}
}

// NewSession returns an Idle session.
func NewSession(cfg Config, opts ...SessionOption) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Session{cfg: cfg, now: time.Now, state: StateIdle}
	for _, opt := range opts {
		opt(s)
	}
	if s.id == "" {
		s.id = utils.NewID()
	}
	return s, nil
}

// ID returns the session ID.
func (s *Session) ID() string { return s.id }

// Config returns the session limits.
func (s *Session) Config() Config { return s.cfg }

// State returns the current state.
func (s *Session) State() State { return s.state }

// Start moves the session to Sampling, resets its counters and starts the
// clock. Starting a session again begins a fresh attempt.
func (s *Session) Start() Decision {
	s.state = StateSampling
	s.reason = ReasonNone
	s.attempts = 0
	s.consecutive = 0
	s.startedAt = s.now()
	s.elapsed = 0
	return s.decision()
}

// Tick applies one frame outcome. Terminal states are returned unchanged.
func (s *Session) Tick(outcome face.Outcome) (Decision, error) {
	if s.state == StateIdle {
		return Decision{}, ErrNotStarted
	}
	if s.state.Terminal() {
		return s.decision(), nil
	}

	if s.timedOut() {
		return s.decision(), nil
	}

	switch outcome {
	case face.OutcomeMatch:
		s.consecutive++
		if s.consecutive >= s.cfg.RequiredConsecutiveMatches {
			s.state = StateAccepted
		}
	case face.OutcomeMismatch:
		s.consecutive = 0
		s.attempts++
		if s.attempts >= s.cfg.MaxAttempts {
			s.reject(ReasonMaxAttempts)
		}
	default:
		s.consecutive = 0
	}

	return s.decision(), nil
}

// Poll is a tick without a frame: only the timeout is checked.
func (s *Session) Poll() (Decision, error) {
	if s.state == StateIdle {
		return Decision{}, ErrNotStarted
	}
	if !s.state.Terminal() {
		s.timedOut()
	}
	return s.decision(), nil
}

// timedOut records the elapsed time and rejects the session once it
// exceeds the timeout.
func (s *Session) timedOut() bool {
	s.elapsed = s.now().Sub(s.startedAt)
	if s.elapsed > s.cfg.Timeout {
		s.reject(ReasonTimeout)
		return true
	}
	return false
}

func (s *Session) reject(reason Reason) {
	s.state = StateRejected
	s.reason = reason
}

func (s *Session) decision() Decision {
	return Decision{
		SessionID:   s.id,
		State:       s.state,
		Reason:      s.reason,
		Attempts:    s.attempts,
		Consecutive: s.consecutive,
		Elapsed:     s.elapsed,
	}
}
