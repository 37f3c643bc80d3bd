package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/PabloGalante/careerai/internal/domain"
)

// InterviewStore is an in-memory domain.InterviewStore.
// It is NOT persistent and is only suitable for development / local mode.
// Records are copied on the way in and out.
type InterviewStore struct {
	mu         sync.RWMutex
	interviews map[domain.SessionID]*domain.Interview
}

func NewInterviewStore() *InterviewStore {
	return &InterviewStore{
		interviews: make(map[domain.SessionID]*domain.Interview),
	}
}

func (s *InterviewStore) CreateInterview(_ context.Context, iv *domain.Interview) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.interviews[iv.ID]; exists {
		return fmt.Errorf("interview %s already exists", iv.ID)
	}

	s.interviews[iv.ID] = iv.Clone()
	return nil
}

func (s *InterviewStore) SaveInterview(_ context.Context, iv *domain.Interview) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.interviews[iv.ID]; !exists {
		return fmt.Errorf("interview %s: %w", iv.ID, domain.ErrNotFound)
	}

	s.interviews[iv.ID] = iv.Clone()
	return nil
}

func (s *InterviewStore) GetInterview(_ context.Context, id domain.SessionID) (*domain.Interview, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	iv, ok := s.interviews[id]
	if !ok {
		return nil, fmt.Errorf("interview %s: %w", id, domain.ErrNotFound)
	}

	return iv.Clone(), nil
}

// ListInterviewsByUser returns the newest `limit` interviews first.
// If limit <= 0, returns all.
func (s *InterviewStore) ListInterviewsByUser(_ context.Context, userID domain.UserID, limit int) ([]*domain.Interview, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Interview
	for _, iv := range s.interviews {
		if iv.UserID == userID {
			result = append(result, iv.Clone())
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (s *InterviewStore) CountInterviewsSince(_ context.Context, userID domain.UserID, since time.Time) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, iv := range s.interviews {
		if iv.UserID == userID && !iv.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}
