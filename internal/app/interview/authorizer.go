package interview

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/PabloGalante/careerai/internal/domain"
)

// AllowAll permits every action.
func AllowAll() domain.Authorizer {
	return domain.AuthorizerFunc(func(context.Context, domain.UserID, domain.Action) error {
		return nil
	})
}

// PlanAuthorizer caps the number of interviews a free user may start per
// rolling day. Pro users are not limited.
type PlanAuthorizer struct {
	profiles   domain.ProfileStore
	interviews domain.InterviewStore
	freeDaily  int
	now        func() time.Time
}

func NewPlanAuthorizer(profiles domain.ProfileStore, interviews domain.InterviewStore, freeDaily int) *PlanAuthorizer {
	return &PlanAuthorizer{
		profiles:   profiles,
		interviews: interviews,
		freeDaily:  freeDaily,
		now:        time.Now,
	}
}

func (a *PlanAuthorizer) Authorize(ctx context.Context, userID domain.UserID, action domain.Action) error {
	if userID == "" {
		return fmt.Errorf("missing user: %w", domain.ErrForbidden)
	}
	if action != domain.ActionStartInterview || a.freeDaily <= 0 {
		return nil
	}

	plan := domain.PlanFree
	p, err := a.profiles.GetProfile(ctx, userID)
	switch {
	case err == nil:
		plan = p.Plan
	case errors.Is(err, domain.ErrNotFound):
	default:
		return fmt.Errorf("load profile: %w", err)
	}
	if plan == domain.PlanPro {
		return nil
	}

	n, err := a.interviews.CountInterviewsSince(ctx, userID, a.now().Add(-24*time.Hour))
	if err != nil {
		return fmt.Errorf("count interviews: %w", err)
	}
	if n >= a.freeDaily {
		return fmt.Errorf("free plan allows %d interviews per day: %w", a.freeDaily, domain.ErrForbidden)
	}
	return nil
}
