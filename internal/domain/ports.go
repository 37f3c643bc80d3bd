package domain

import (
	"context"
	"io"
	"time"
)

//go:generate go tool mockgen -destination=mocks/mock_ports.go -package=mocks . Responder,Generator

// ResponderRequest is everything the stateless responder sees on one call.
type ResponderRequest struct {
	Context string
	Turns   []Turn
}

// Responder produces the next interviewer turn, or Marker followed by the report.
// It keeps no memory between calls.
type Responder interface {
	Respond(ctx context.Context, req ResponderRequest) (string, error)
}

// GenerateRequest is a single structured-output call to the language model.
type GenerateRequest struct {
	Flow        string
	System      string
	Prompt      string
	Schema      map[string]any // JSON schema of the expected reply
	Temperature float32
}

// Generator defines how the core application talks to an LLM service.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}

// InterviewStore defines interview persistence.
type InterviewStore interface {
	CreateInterview(ctx context.Context, iv *Interview) error
	SaveInterview(ctx context.Context, iv *Interview) error
	GetInterview(ctx context.Context, id SessionID) (*Interview, error)
	ListInterviewsByUser(ctx context.Context, userID UserID, limit int) ([]*Interview, error)
	CountInterviewsSince(ctx context.Context, userID UserID, since time.Time) (int, error)
}

// ProfileStore defines user profile persistence. Writes after creation are
// field-level so concurrent writers never overwrite each other's fields.
type ProfileStore interface {
	GetProfile(ctx context.Context, userID UserID) (*UserProfile, error)
	// CreateProfile stores p unless the user already has a profile, and
	// returns whichever profile is stored.
	CreateProfile(ctx context.Context, p *UserProfile) (*UserProfile, error)
	// UpdateProfile applies ch atomically, creating the default profile first
	// when the user has none, and returns the result.
	UpdateProfile(ctx context.Context, userID UserID, ch ProfileChanges) (*UserProfile, error)
	IncrementCoverLetters(ctx context.Context, userID UserID) error
}

// Authorizer is the capability check performed before an action runs.
// A nil error means allowed.
type Authorizer interface {
	Authorize(ctx context.Context, userID UserID, action Action) error
}

// AuthorizerFunc adapts a function to Authorizer.
type AuthorizerFunc func(ctx context.Context, userID UserID, action Action) error

func (f AuthorizerFunc) Authorize(ctx context.Context, userID UserID, action Action) error {
	return f(ctx, userID, action)
}

// Event is a domain notification published after a state change.
type Event struct {
	Type      string         `json:"type"`
	SessionID SessionID      `json:"session_id,omitempty"`
	UserID    UserID         `json:"user_id"`
	At        time.Time      `json:"at"`
	Data      map[string]any `json:"data,omitempty"`
}

const EventInterviewCompleted = "interview.completed"

type EventPublisher interface {
	Publish(ctx context.Context, ev Event) error
}

// ObjectStore keeps uploaded files such as résumés.
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, body io.Reader) error
	Get(ctx context.Context, key string) ([]byte, error)
}

// Order is a payment-gateway order, amounts in minor currency units.
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt,omitempty"`
}

// OrderGateway creates orders with the payment provider.
type OrderGateway interface {
	CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (*Order, error)
}
