// Package session tracks administrator login sessions and the submission
// workflow state machine. Keeping this state here leaves the domain package
// side-effect-free: classification and report building are invoked only with
// immutable snapshots, never with session state.
package session

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// SubmissionState is the per-session state of the reading submission
// workflow.
type SubmissionState string

const (
	// StateIdle: no submission in flight.
	StateIdle SubmissionState = "idle"
	// StateAwaitingConfirmation: the batch contained blank entries and the
	// administrator must explicitly confirm before anything is sent.
	StateAwaitingConfirmation SubmissionState = "awaiting_confirmation"
	// StateSubmitting: entries are being posted to the form endpoint.
	StateSubmitting SubmissionState = "submitting"
	// StateDone: the last batch finished; results are available.
	StateDone SubmissionState = "done"
)

// transitions lists the legal state changes. Anything else is a workflow
// bug surfaced as an error rather than silently accepted.
var transitions = map[SubmissionState][]SubmissionState{
	StateIdle:                 {StateAwaitingConfirmation, StateSubmitting},
	StateAwaitingConfirmation: {StateSubmitting, StateIdle},
	StateSubmitting:           {StateDone},
	StateDone:                 {StateIdle, StateAwaitingConfirmation, StateSubmitting},
}

type session struct {
	createdAt  time.Time
	submission SubmissionState
}

// Store is an in-memory session store. Sessions expire after the configured
// TTL; expired tokens behave exactly like unknown ones.
type Store struct {
	ttl   time.Duration
	clock clockwork.Clock

	mu       sync.Mutex
	sessions map[string]*session
}

// NewStore creates a session store.
func NewStore(ttl time.Duration, clock clockwork.Clock) *Store {
	return &Store{
		ttl:      ttl,
		clock:    clock,
		sessions: make(map[string]*session),
	}
}

// Login creates a new session and returns its opaque bearer token.
func (s *Store) Login() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	token := hex.EncodeToString(buf)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = &session{
		createdAt:  s.clock.Now(),
		submission: StateIdle,
	}
	return token, nil
}

// Logout removes a session. Unknown tokens are a no-op.
func (s *Store) Logout(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
}

// Active reports whether the token belongs to a live session.
func (s *Store) Active(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lookup(token) != nil
}

// Submission returns the submission state of a session. Unknown or expired
// tokens read as Idle.
func (s *Store) Submission(token string) SubmissionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.lookup(token)
	if sess == nil {
		return StateIdle
	}
	return sess.submission
}

// Transition moves a session's submission workflow from one state to
// another, rejecting moves the workflow does not allow and stale
// expectations (the session is not in the from state).
func (s *Store) Transition(token string, from, to SubmissionState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.lookup(token)
	if sess == nil {
		return fmt.Errorf("no active session")
	}
	if sess.submission != from {
		return fmt.Errorf("submission is %s, not %s", sess.submission, from)
	}
	for _, allowed := range transitions[from] {
		if allowed == to {
			sess.submission = to
			return nil
		}
	}
	return fmt.Errorf("illegal submission transition %s -> %s", from, to)
}

// lookup returns the live session for a token, reaping it when expired.
// Callers must hold s.mu.
func (s *Store) lookup(token string) *session {
	sess, ok := s.sessions[token]
	if !ok {
		return nil
	}
	if s.clock.Since(sess.createdAt) >= s.ttl {
		delete(s.sessions, token)
		return nil
	}
	return sess
}
