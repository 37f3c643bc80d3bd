package domain

import "time"

type SessionID string
type UserID string

// Role identifies who produced a turn in an interview transcript.
type Role string

const (
	RoleInterviewer Role = "interviewer"
	RoleCandidate   Role = "candidate"
)

func (r Role) Valid() bool {
	return r == RoleInterviewer || r == RoleCandidate
}

// Status is the lifecycle state of an interview session.
type Status string

const (
	StatusIdle   Status = "idle"
	StatusActive Status = "active"
	StatusClosed Status = "closed"
)

// Plan is the subscription tier of a user.
type Plan string

const (
	PlanFree Plan = "free"
	PlanPro  Plan = "pro"
)

// Action names an operation gated by an Authorizer.
type Action string

const (
	ActionStartInterview Action = "interview.start"
	ActionSubmitAnswer   Action = "interview.submit"
	ActionRunFlow        Action = "flow.run"
)

type Timestamp = time.Time
