// Package interview implements the turn-based mock interview: a session
// accumulator that owns the transcript and resends it in full to a stateless
// responder on every call, and a Service that hosts persisted sessions.
package interview

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/PabloGalante/careerai/internal/domain"
)

// Snapshot is a copy of a session's state.
type Snapshot struct {
	Status  domain.Status
	Context string
	Turns   []domain.Turn
	Report  string
}

// Session is the accumulator for one interview. Idle -> Active on Start,
// Active -> Closed when the responder emits the marker or End is called.
// At most one call runs at a time; overlapping calls get domain.ErrBusy.
type Session struct {
	responder domain.Responder
	inflight  *semaphore.Weighted

	mu    sync.RWMutex
	state Snapshot
}

func NewSession(responder domain.Responder) *Session {
	return RestoreSession(responder, Snapshot{Status: domain.StatusIdle})
}

// RestoreSession rebuilds a session from previously saved state.
func RestoreSession(responder domain.Responder, snap Snapshot) *Session {
	if snap.Status == "" {
		snap.Status = domain.StatusIdle
	}
	snap.Turns = append([]domain.Turn(nil), snap.Turns...)
	return &Session{
		responder: responder,
		inflight:  semaphore.NewWeighted(1),
		state:     snap,
	}
}

// Start discards any previous transcript and asks the responder for the first
// question. On failure the previous state is kept.
func (s *Session) Start(ctx context.Context, roleContext string) (domain.Turn, error) {
	if strings.TrimSpace(roleContext) == "" {
		return domain.Turn{}, domain.ErrEmptyContext
	}
	if !s.inflight.TryAcquire(1) {
		return domain.Turn{}, domain.ErrBusy
	}
	defer s.inflight.Release(1)

	reply, err := s.responder.Respond(ctx, domain.ResponderRequest{Context: roleContext})
	if err != nil {
		return domain.Turn{}, fmt.Errorf("%w: %w", domain.ErrResponderFailed, err)
	}

	next := Snapshot{Status: domain.StatusActive, Context: roleContext}
	turn := domain.InterviewerTurn(reply)
	if report, ok := domain.ParseTerminal(reply); ok {
		next.Status = domain.StatusClosed
		next.Report = report
		turn = domain.InterviewerTurn(domain.ClosingAcknowledgement)
	}
	next.Turns = []domain.Turn{turn}

	s.mu.Lock()
	s.state = next
	s.mu.Unlock()

	return turn, nil
}

// Submit appends a candidate answer and sends the whole transcript. It returns
// the turn appended after the answer: the next question, or the closing
// acknowledgement when the interview ended.
func (s *Session) Submit(ctx context.Context, text string) (domain.Turn, error) {
	return s.exchange(ctx, text, false)
}

// End asks the responder to finish now and closes the session with its reply
// as the report, whether or not the marker was emitted.
func (s *Session) End(ctx context.Context) (domain.Turn, error) {
	return s.exchange(ctx, domain.EndRequest, true)
}

func (s *Session) exchange(ctx context.Context, text string, forceClose bool) (domain.Turn, error) {
	if !s.inflight.TryAcquire(1) {
		return domain.Turn{}, domain.ErrBusy
	}
	defer s.inflight.Release(1)

	s.mu.Lock()
	if s.state.Status != domain.StatusActive {
		s.mu.Unlock()
		return domain.Turn{}, domain.ErrNotActive
	}
	if strings.TrimSpace(text) == "" {
		s.mu.Unlock()
		return domain.Turn{}, domain.ErrEmptyTurn
	}

	mark := len(s.state.Turns)
	s.state.Turns = append(s.state.Turns, domain.CandidateTurn(text))
	req := domain.ResponderRequest{
		Context: s.state.Context,
		Turns:   append([]domain.Turn(nil), s.state.Turns...),
	}
	s.mu.Unlock()

	reply, err := s.responder.Respond(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.state.Turns = s.state.Turns[:mark]
		return domain.Turn{}, fmt.Errorf("%w: %w", domain.ErrResponderFailed, err)
	}

	report, terminal := domain.ParseTerminal(reply)
	if forceClose && !terminal {
		report, terminal = strings.TrimSpace(reply), true
	}

	if terminal {
		turn := domain.InterviewerTurn(domain.ClosingAcknowledgement)
		s.state.Turns = append(s.state.Turns, turn)
		s.state.Report = report
		s.state.Status = domain.StatusClosed
		return turn, nil
	}

	turn := domain.InterviewerTurn(reply)
	s.state.Turns = append(s.state.Turns, turn)
	return turn, nil
}

func (s *Session) Status() domain.Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Status
}

func (s *Session) Context() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Context
}

// Transcript returns a copy of the turns accumulated so far.
func (s *Session) Transcript() []domain.Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Turn(nil), s.state.Turns...)
}

// Report is empty until the session is closed.
func (s *Session) Report() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Report
}

func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := s.state
	snap.Turns = append([]domain.Turn(nil), s.state.Turns...)
	return snap
}
