package firestore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/PabloGalante/careerai/internal/domain"
)

type Store struct {
	client *firestore.Client
	now    func() time.Time
}

// NewStore creates a Firestore store.
// Uses the project passed (CAREERAI_GCP_PROJECT).
func NewStore(ctx context.Context, projectID string) (*Store, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID is required for Firestore store")
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}

	return &Store{client: client, now: time.Now}, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

// ─────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────

func (s *Store) interviewsCol() *firestore.CollectionRef {
	return s.client.Collection("interviews")
}

func (s *Store) interviewDoc(id domain.SessionID) *firestore.DocumentRef {
	return s.interviewsCol().Doc(string(id))
}

func (s *Store) usersCol() *firestore.CollectionRef {
	return s.client.Collection("users")
}

func (s *Store) userDoc(id domain.UserID) *firestore.DocumentRef {
	return s.usersCol().Doc(string(id))
}

func notFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

// ─────────────────────────────────────────
// Firestore Types
// ─────────────────────────────────────────

type turnDoc struct {
	Role string `firestore:"role"`
	Text string `firestore:"text"`
}

type interviewDocument struct {
	UserID    string     `firestore:"user_id"`
	Context   string     `firestore:"context"`
	Status    string     `firestore:"status"`
	Turns     []turnDoc  `firestore:"turns"`
	Report    string     `firestore:"report"`
	CreatedAt time.Time  `firestore:"created_at"`
	UpdatedAt time.Time  `firestore:"updated_at"`
	ClosedAt  *time.Time `firestore:"closed_at"`
}

type activityDoc struct {
	Page string    `firestore:"page"`
	At   time.Time `firestore:"at"`
}

type profileDoc struct {
	Name                  string       `firestore:"name"`
	Headline              string       `firestore:"headline"`
	Summary               string       `firestore:"summary"`
	LinkedIn              string       `firestore:"linkedin"`
	Portfolio             string       `firestore:"portfolio"`
	PhotoURL              string       `firestore:"photo_url"`
	Plan                  string       `firestore:"plan"`
	CoverLettersGenerated int          `firestore:"cover_letters_generated"`
	LastActivity          *activityDoc `firestore:"last_activity"`
	CreatedAt             time.Time    `firestore:"created_at"`
	UpdatedAt             time.Time    `firestore:"updated_at"`
}

func toInterviewDoc(iv *domain.Interview) interviewDocument {
	turns := make([]turnDoc, 0, len(iv.Turns))
	for _, t := range iv.Turns {
		turns = append(turns, turnDoc{Role: string(t.Role), Text: t.Text})
	}
	return interviewDocument{
		UserID:    string(iv.UserID),
		Context:   iv.Context,
		Status:    string(iv.Status),
		Turns:     turns,
		Report:    iv.Report,
		CreatedAt: iv.CreatedAt,
		UpdatedAt: iv.UpdatedAt,
		ClosedAt:  iv.ClosedAt,
	}
}

func fromInterviewDoc(id domain.SessionID, doc interviewDocument) *domain.Interview {
	turns := make([]domain.Turn, 0, len(doc.Turns))
	for _, t := range doc.Turns {
		turns = append(turns, domain.Turn{Role: domain.Role(t.Role), Text: t.Text})
	}
	return &domain.Interview{
		ID:        id,
		UserID:    domain.UserID(doc.UserID),
		Context:   doc.Context,
		Status:    domain.Status(doc.Status),
		Turns:     turns,
		Report:    doc.Report,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
		ClosedAt:  doc.ClosedAt,
	}
}

func toProfileDoc(p *domain.UserProfile) profileDoc {
	doc := profileDoc{
		Name:                  p.Name,
		Headline:              p.Headline,
		Summary:               p.Summary,
		LinkedIn:              p.LinkedIn,
		Portfolio:             p.Portfolio,
		PhotoURL:              p.PhotoURL,
		Plan:                  string(p.Plan),
		CoverLettersGenerated: p.CoverLettersGenerated,
		CreatedAt:             p.CreatedAt,
		UpdatedAt:             p.UpdatedAt,
	}
	if p.LastActivity != nil {
		doc.LastActivity = &activityDoc{Page: p.LastActivity.Page, At: p.LastActivity.At}
	}
	return doc
}

func fromProfileDoc(id domain.UserID, doc profileDoc) *domain.UserProfile {
	p := &domain.UserProfile{
		UserID:                id,
		Name:                  doc.Name,
		Headline:              doc.Headline,
		Summary:               doc.Summary,
		LinkedIn:              doc.LinkedIn,
		Portfolio:             doc.Portfolio,
		PhotoURL:              doc.PhotoURL,
		Plan:                  domain.Plan(doc.Plan),
		CoverLettersGenerated: doc.CoverLettersGenerated,
		CreatedAt:             doc.CreatedAt,
		UpdatedAt:             doc.UpdatedAt,
	}
	if p.Plan == "" {
		p.Plan = domain.PlanFree
	}
	if doc.LastActivity != nil {
		p.LastActivity = &domain.Activity{Page: doc.LastActivity.Page, At: doc.LastActivity.At}
	}
	return p
}

// ─────────────────────────────────────────
// InterviewStore implementation
// ─────────────────────────────────────────

func (s *Store) CreateInterview(ctx context.Context, iv *domain.Interview) error {
	_, err := s.interviewDoc(iv.ID).Create(ctx, toInterviewDoc(iv))
	if err != nil {
		return fmt.Errorf("firestore CreateInterview: %w", err)
	}
	return nil
}

func (s *Store) SaveInterview(ctx context.Context, iv *domain.Interview) error {
	// Set without merge: the transcript is always written whole.
	_, err := s.interviewDoc(iv.ID).Set(ctx, toInterviewDoc(iv))
	if err != nil {
		return fmt.Errorf("firestore SaveInterview: %w", err)
	}
	return nil
}

func (s *Store) GetInterview(ctx context.Context, id domain.SessionID) (*domain.Interview, error) {
	snap, err := s.interviewDoc(id).Get(ctx)
	if err != nil {
		if notFound(err) {
			return nil, fmt.Errorf("interview %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("firestore GetInterview: %w", err)
	}

	var doc interviewDocument
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("firestore GetInterview decode: %w", err)
	}

	return fromInterviewDoc(id, doc), nil
}

func (s *Store) ListInterviewsByUser(ctx context.Context, userID domain.UserID, limit int) ([]*domain.Interview, error) {
	q := s.interviewsCol().Where("user_id", "==", string(userID)).OrderBy("created_at", firestore.Desc)
	if limit > 0 {
		q = q.Limit(limit)
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	var out []*domain.Interview
	for {
		snap, err := iter.Next()
		if err != nil {
			if errors.Is(err, iterator.Done) {
				break
			}
			return nil, fmt.Errorf("firestore ListInterviewsByUser: %w", err)
		}

		var doc interviewDocument
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decode interviewDocument: %w", err)
		}

		out = append(out, fromInterviewDoc(domain.SessionID(snap.Ref.ID), doc))
	}
	return out, nil
}

func (s *Store) CountInterviewsSince(ctx context.Context, userID domain.UserID, since time.Time) (int, error) {
	iter := s.interviewsCol().
		Where("user_id", "==", string(userID)).
		Where("created_at", ">=", since).
		Select().
		Documents(ctx)
	defer iter.Stop()

	n := 0
	for {
		_, err := iter.Next()
		if err != nil {
			if errors.Is(err, iterator.Done) {
				break
			}
			return 0, fmt.Errorf("firestore CountInterviewsSince: %w", err)
		}
		n++
	}
	return n, nil
}

// ─────────────────────────────────────────
// ProfileStore implementation
// ─────────────────────────────────────────

func (s *Store) GetProfile(ctx context.Context, userID domain.UserID) (*domain.UserProfile, error) {
	snap, err := s.userDoc(userID).Get(ctx)
	if err != nil {
		if notFound(err) {
			return nil, fmt.Errorf("profile %s: %w", userID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("firestore GetProfile: %w", err)
	}

	var doc profileDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("firestore GetProfile decode: %w", err)
	}
	return fromProfileDoc(userID, doc), nil
}

// CreateProfile writes the whole document once. A concurrent first access
// loses the race to Create and reads the winner's document.
func (s *Store) CreateProfile(ctx context.Context, p *domain.UserProfile) (*domain.UserProfile, error) {
	if p == nil || p.UserID == "" {
		return nil, fmt.Errorf("create profile: %w", domain.ErrInvalidInput)
	}

	_, err := s.userDoc(p.UserID).Create(ctx, toProfileDoc(p))
	if status.Code(err) == codes.AlreadyExists {
		return s.GetProfile(ctx, p.UserID)
	}
	if err != nil {
		return nil, fmt.Errorf("firestore CreateProfile: %w", err)
	}
	return p.Clone(), nil
}

// UpdateProfile writes only the fields ch names, so counters maintained with
// firestore.Increment survive.
func (s *Store) UpdateProfile(ctx context.Context, userID domain.UserID, ch domain.ProfileChanges) (*domain.UserProfile, error) {
	if userID == "" {
		return nil, fmt.Errorf("update profile: %w", domain.ErrInvalidInput)
	}

	doc := s.userDoc(userID)
	var out *domain.UserProfile

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(doc)
		if notFound(err) {
			out = domain.NewProfile(userID, s.now())
			ch.Apply(out)
			return tx.Create(doc, toProfileDoc(out))
		}
		if err != nil {
			return err
		}

		var cur profileDoc
		if err := snap.DataTo(&cur); err != nil {
			return fmt.Errorf("decode profile: %w", err)
		}
		out = fromProfileDoc(userID, cur)
		ch.Apply(out)
		return tx.Update(doc, profileUpdates(ch))
	})
	if err != nil {
		return nil, fmt.Errorf("firestore UpdateProfile: %w", err)
	}
	return out, nil
}

func profileUpdates(ch domain.ProfileChanges) []firestore.Update {
	var ups []firestore.Update
	str := func(path string, v *string) {
		if v != nil {
			ups = append(ups, firestore.Update{Path: path, Value: *v})
		}
	}
	str("name", ch.Name)
	str("headline", ch.Headline)
	str("summary", ch.Summary)
	str("linkedin", ch.LinkedIn)
	str("portfolio", ch.Portfolio)
	str("photo_url", ch.PhotoURL)
	if ch.Plan != nil {
		ups = append(ups, firestore.Update{Path: "plan", Value: string(*ch.Plan)})
	}
	if ch.LastActivity != nil {
		ups = append(ups, firestore.Update{
			Path:  "last_activity",
			Value: activityDoc{Page: ch.LastActivity.Page, At: ch.LastActivity.At},
		})
	}
	return append(ups, firestore.Update{Path: "updated_at", Value: ch.At})
}

// IncrementCoverLetters bumps the counter atomically, creating the user
// document on first use.
func (s *Store) IncrementCoverLetters(ctx context.Context, userID domain.UserID) error {
	now := s.now()
	doc := s.userDoc(userID)

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		_, err := tx.Get(doc)
		if notFound(err) {
			p := domain.NewProfile(userID, now)
			p.CoverLettersGenerated = 1
			return tx.Create(doc, toProfileDoc(p))
		}
		if err != nil {
			return err
		}
		return tx.Update(doc, []firestore.Update{
			{Path: "cover_letters_generated", Value: firestore.Increment(1)},
			{Path: "updated_at", Value: now},
		})
	})
	if err != nil {
		return fmt.Errorf("firestore IncrementCoverLetters: %w", err)
	}
	return nil
}
