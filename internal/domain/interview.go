package domain

import (
	"strings"
	"time"
)

// Marker is the literal prefix the responder emits when the interview is over.
// Everything after it is the final report.
const Marker = "INTERVIEW_COMPLETE"

// ClosingAcknowledgement replaces the raw marker reply in the transcript.
const ClosingAcknowledgement = "Thank you for completing the interview. Here is your feedback report."

// EndRequest is the candidate turn sent when the candidate ends the interview early.
const EndRequest = "Please end the interview and provide the report."

// Turn is one utterance in a transcript.
type Turn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

func InterviewerTurn(text string) Turn {
	return Turn{Role: RoleInterviewer, Text: text}
}

func CandidateTurn(text string) Turn {
	return Turn{Role: RoleCandidate, Text: text}
}

// IsTerminal reports whether reply starts with the exact Marker.
func IsTerminal(reply string) bool {
	return strings.HasPrefix(reply, Marker)
}

// ParseTerminal strips the Marker and returns the trimmed report.
// A bare marker yields an empty report.
func ParseTerminal(reply string) (string, bool) {
	if !IsTerminal(reply) {
		return "", false
	}
	return strings.TrimSpace(strings.TrimPrefix(reply, Marker)), true
}

// FormatTurn renders a turn as a "role: text" line. Continuation lines are
// indented so turn text can never start a line with another role prefix.
func FormatTurn(t Turn) string {
	text := strings.ReplaceAll(strings.TrimRight(t.Text, "\n"), "\r\n", "\n")
	return string(t.Role) + ": " + strings.ReplaceAll(text, "\n", "\n  ")
}

// FormatTurns renders turns in order with FormatTurn.
func FormatTurns(turns []Turn) []string {
	out := make([]string, 0, len(turns))
	for _, t := range turns {
		out = append(out, FormatTurn(t))
	}
	return out
}

// Interview is the persisted form of one mock-interview session.
type Interview struct {
	ID        SessionID
	UserID    UserID
	Context   string // role or job description, immutable after start
	Status    Status
	Turns     []Turn
	Report    string
	CreatedAt Timestamp
	UpdatedAt Timestamp
	ClosedAt  *time.Time
}

// Clone returns a deep copy so callers can mutate it without touching stored state.
func (iv *Interview) Clone() *Interview {
	if iv == nil {
		return nil
	}
	out := *iv
	out.Turns = append([]Turn(nil), iv.Turns...)
	if iv.ClosedAt != nil {
		at := *iv.ClosedAt
		out.ClosedAt = &at
	}
	return &out
}
