package interview

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/PabloGalante/careerai/internal/domain"
	"github.com/PabloGalante/careerai/internal/observability"
)

// Service hosts persisted interview sessions for remote clients. Each call
// restores the accumulator from the store, runs one operation and saves the
// result only if it succeeded.
type Service struct {
	responder domain.Responder
	store     domain.InterviewStore
	authz     domain.Authorizer
	events    domain.EventPublisher
	now       func() time.Time

	mu       sync.Mutex
	inflight map[string]struct{}
}

type Option func(*Service)

func WithAuthorizer(a domain.Authorizer) Option {
	return func(s *Service) { s.authz = a }
}

func WithEvents(p domain.EventPublisher) Option {
	return func(s *Service) { s.events = p }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(responder domain.Responder, store domain.InterviewStore, opts ...Option) *Service {
	s := &Service{
		responder: responder,
		store:     store,
		authz:     AllowAll(),
		now:       time.Now,
		inflight:  make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type StartInput struct {
	UserID  domain.UserID
	Context string
}

type TurnOutput struct {
	Interview *domain.Interview
	Turn      domain.Turn
}

func (s *Service) StartInterview(ctx context.Context, in StartInput) (*TurnOutput, error) {
	log := observability.LoggerFromContext(ctx).With("user_id", in.UserID)

	// One start per user at a time, so the plan cap is checked against every
	// interview this process has created.
	userKey := "user:" + string(in.UserID)
	if err := s.acquire(userKey); err != nil {
		return nil, err
	}
	defer s.release(userKey)

	if err := s.authz.Authorize(ctx, in.UserID, domain.ActionStartInterview); err != nil {
		log.Warn("start interview denied", "error", err)
		return nil, err
	}

	id := domain.SessionID(uuid.Must(uuid.NewV7()).String())

	log = log.With("session_id", id)
	log.Info("starting interview")

	sess := NewSession(s.responder)
	turn, err := sess.Start(ctx, in.Context)
	if err != nil {
		log.Error("failed to start interview", "error", err)
		return nil, err
	}

	now := s.now()
	iv := &domain.Interview{
		ID:        id,
		UserID:    in.UserID,
		CreatedAt: now,
	}
	s.apply(iv, sess.Snapshot(), now)

	if err := s.store.CreateInterview(ctx, iv); err != nil {
		log.Error("failed to create interview", "error", err)
		return nil, err
	}
	s.publishIfClosed(ctx, iv)

	log.Info("interview started", "status", iv.Status)
	return &TurnOutput{Interview: iv, Turn: turn}, nil
}

type SubmitInput struct {
	SessionID domain.SessionID
	UserID    domain.UserID
	Text      string
}

func (s *Service) SubmitAnswer(ctx context.Context, in SubmitInput) (*TurnOutput, error) {
	if err := s.authz.Authorize(ctx, in.UserID, domain.ActionSubmitAnswer); err != nil {
		return nil, err
	}
	return s.run(ctx, in.SessionID, in.UserID, func(sess *Session) (domain.Turn, error) {
		return sess.Submit(ctx, in.Text)
	})
}

func (s *Service) EndInterview(ctx context.Context, id domain.SessionID, userID domain.UserID) (*TurnOutput, error) {
	return s.run(ctx, id, userID, func(sess *Session) (domain.Turn, error) {
		return sess.End(ctx)
	})
}

// GetInterview returns the session if it belongs to userID.
func (s *Service) GetInterview(ctx context.Context, id domain.SessionID, userID domain.UserID) (*domain.Interview, error) {
	iv, err := s.store.GetInterview(ctx, id)
	if err != nil {
		return nil, err
	}
	if iv.UserID != userID {
		return nil, fmt.Errorf("interview %s: %w", id, domain.ErrNotFound)
	}
	return iv, nil
}

func (s *Service) ListInterviews(ctx context.Context, userID domain.UserID, limit int) ([]*domain.Interview, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.store.ListInterviewsByUser(ctx, userID, limit)
}

func (s *Service) run(
	ctx context.Context,
	id domain.SessionID,
	userID domain.UserID,
	op func(*Session) (domain.Turn, error),
) (*TurnOutput, error) {
	log := observability.LoggerFromContext(ctx).With(
		"session_id", id,
		"user_id", userID,
	)

	key := "session:" + string(id)
	if err := s.acquire(key); err != nil {
		return nil, err
	}
	defer s.release(key)

	iv, err := s.GetInterview(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	sess := RestoreSession(s.responder, Snapshot{
		Status:  iv.Status,
		Context: iv.Context,
		Turns:   iv.Turns,
		Report:  iv.Report,
	})

	start := time.Now()
	turn, err := op(sess)
	if err != nil {
		log.Warn("interview turn failed", "error", err)
		return nil, err
	}
	log.Info("interview turn completed",
		"elapsed_ms", time.Since(start).Milliseconds(),
		"turns", len(sess.Transcript()),
	)

	s.apply(iv, sess.Snapshot(), s.now())
	if err := s.store.SaveInterview(ctx, iv); err != nil {
		log.Error("failed to save interview", "error", err)
		return nil, err
	}
	s.publishIfClosed(ctx, iv)

	return &TurnOutput{Interview: iv, Turn: turn}, nil
}

func (s *Service) apply(iv *domain.Interview, snap Snapshot, now time.Time) {
	iv.Status = snap.Status
	iv.Context = snap.Context
	iv.Turns = snap.Turns
	iv.Report = snap.Report
	iv.UpdatedAt = now
	if snap.Status == domain.StatusClosed && iv.ClosedAt == nil {
		at := now
		iv.ClosedAt = &at
	}
}

func (s *Service) publishIfClosed(ctx context.Context, iv *domain.Interview) {
	if s.events == nil || iv.Status != domain.StatusClosed {
		return
	}
	err := s.events.Publish(ctx, domain.Event{
		Type:      domain.EventInterviewCompleted,
		SessionID: iv.ID,
		UserID:    iv.UserID,
		At:        s.now(),
		Data: map[string]any{
			"turns":         len(iv.Turns),
			"report_length": len(iv.Report),
		},
	})
	if err != nil {
		// The interview is already saved; a lost notification is only logged.
		observability.LoggerFromContext(ctx).Error("failed to publish event",
			"session_id", iv.ID, "error", err)
	}
}

func (s *Service) acquire(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inflight[key]; busy {
		return domain.ErrBusy
	}
	s.inflight[key] = struct{}{}
	return nil
}

func (s *Service) release(key string) {
	s.mu.Lock()
	delete(s.inflight, key)
	s.mu.Unlock()
}
