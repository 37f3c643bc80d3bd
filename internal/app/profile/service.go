package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/PabloGalante/careerai/internal/domain"
	"github.com/PabloGalante/careerai/internal/observability"
)

// Service holds the logic of reading and updating user profiles.
type Service struct {
	store domain.ProfileStore
	now   func() time.Time
}

// NewService creates a profile service from a ProfileStore
func NewService(store domain.ProfileStore) *Service {
	return &Service{
		store: store,
		now:   time.Now,
	}
}

// Update carries the editable profile fields. Empty fields are left unchanged.
type Update struct {
	Name      string `json:"name"`
	Headline  string `json:"headline"`
	Summary   string `json:"summary"`
	LinkedIn  string `json:"linkedin"`
	Portfolio string `json:"portfolio"`
	PhotoURL  string `json:"photo_url"`
}

// Get returns the user's profile, creating the default free profile on first access.
func (s *Service) Get(ctx context.Context, userID domain.UserID) (*domain.UserProfile, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id: %w", domain.ErrInvalidInput)
	}

	p, err := s.store.GetProfile(ctx, userID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	p, err = s.store.CreateProfile(ctx, domain.NewProfile(userID, s.now()))
	if err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}

	observability.LoggerFromContext(ctx).Info("profile created", "user_id", userID)
	return p, nil
}

// Update writes the non-empty fields of u and leaves the rest as stored.
func (s *Service) Update(ctx context.Context, userID domain.UserID, u Update) (*domain.UserProfile, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id: %w", domain.ErrInvalidInput)
	}

	ch := domain.ProfileChanges{
		Name:      nonEmpty(u.Name),
		Headline:  nonEmpty(u.Headline),
		Summary:   nonEmpty(u.Summary),
		LinkedIn:  nonEmpty(u.LinkedIn),
		Portfolio: nonEmpty(u.Portfolio),
		PhotoURL:  nonEmpty(u.PhotoURL),
		At:        s.now(),
	}

	p, err := s.store.UpdateProfile(ctx, userID, ch)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return p, nil
}

func nonEmpty(v string) *string {
	if v = strings.TrimSpace(v); v == "" {
		return nil
	}
	return &v
}

// RecordActivity stores the last page the user worked on.
func (s *Service) RecordActivity(ctx context.Context, userID domain.UserID, page string) error {
	page = strings.TrimSpace(page)
	if page == "" {
		return fmt.Errorf("activity page: %w", domain.ErrInvalidInput)
	}
	if userID == "" {
		return fmt.Errorf("user id: %w", domain.ErrInvalidInput)
	}

	now := s.now()
	_, err := s.store.UpdateProfile(ctx, userID, domain.ProfileChanges{
		LastActivity: &domain.Activity{Page: page, At: now},
		At:           now,
	})
	if err != nil {
		return fmt.Errorf("record activity: %w", err)
	}
	return nil
}

// SetPlan changes the user's subscription tier.
func (s *Service) SetPlan(ctx context.Context, userID domain.UserID, plan domain.Plan) error {
	if plan != domain.PlanFree && plan != domain.PlanPro {
		return fmt.Errorf("plan %q: %w", plan, domain.ErrInvalidInput)
	}
	if userID == "" {
		return fmt.Errorf("user id: %w", domain.ErrInvalidInput)
	}

	if _, err := s.store.UpdateProfile(ctx, userID, domain.ProfileChanges{Plan: &plan, At: s.now()}); err != nil {
		return fmt.Errorf("set plan: %w", err)
	}

	observability.LoggerFromContext(ctx).Info("plan changed", "user_id", userID, "plan", plan)
	return nil
}
