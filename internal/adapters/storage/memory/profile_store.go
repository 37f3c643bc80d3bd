package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/PabloGalante/careerai/internal/domain"
)

// ProfileStore is a simple in-memory implementation of domain.ProfileStore.
// It is NOT persistent and is only suitable for development / local mode.
type ProfileStore struct {
	mu       sync.RWMutex
	profiles map[domain.UserID]*domain.UserProfile
	now      func() time.Time
}

func NewProfileStore() *ProfileStore {
	return &ProfileStore{
		profiles: make(map[domain.UserID]*domain.UserProfile),
		now:      time.Now,
	}
}

func (s *ProfileStore) GetProfile(_ context.Context, userID domain.UserID) (*domain.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[userID]
	if !ok {
		return nil, fmt.Errorf("profile %s: %w", userID, domain.ErrNotFound)
	}
	return p.Clone(), nil
}

// CreateProfile stores p unless a profile already exists for the user.
func (s *ProfileStore) CreateProfile(_ context.Context, p *domain.UserProfile) (*domain.UserProfile, error) {
	if p == nil || p.UserID == "" {
		return nil, fmt.Errorf("create profile: %w", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.profiles[p.UserID]; ok {
		return existing.Clone(), nil
	}
	s.profiles[p.UserID] = p.Clone()
	return p.Clone(), nil
}

// UpdateProfile applies ch under the write lock.
func (s *ProfileStore) UpdateProfile(_ context.Context, userID domain.UserID, ch domain.ProfileChanges) (*domain.UserProfile, error) {
	if userID == "" {
		return nil, fmt.Errorf("update profile: %w", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[userID]
	if !ok {
		p = domain.NewProfile(userID, s.now())
		s.profiles[userID] = p
	}
	ch.Apply(p)
	return p.Clone(), nil
}

// IncrementCoverLetters bumps the counter, creating a free-plan profile if needed.
func (s *ProfileStore) IncrementCoverLetters(_ context.Context, userID domain.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	p, ok := s.profiles[userID]
	if !ok {
		p = domain.NewProfile(userID, now)
		s.profiles[userID] = p
	}
	p.CoverLettersGenerated++
	p.UpdatedAt = now
	return nil
}
