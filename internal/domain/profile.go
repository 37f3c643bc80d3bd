package domain

import "time"

// Activity records the last page a user worked on.
type Activity struct {
	Page string    `json:"page"`
	At   time.Time `json:"at"`
}

// UserProfile is the per-user document: profile fields, plan tier and usage counters.
type UserProfile struct {
	UserID    UserID `json:"user_id"`
	Name      string `json:"name,omitempty"`
	Headline  string `json:"headline,omitempty"`
	Summary   string `json:"summary,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
	Portfolio string `json:"portfolio,omitempty"`
	PhotoURL  string `json:"photo_url,omitempty"`

	Plan Plan `json:"plan"`

	CoverLettersGenerated int `json:"cover_letters_generated"`

	LastActivity *Activity `json:"last_activity,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsComplete reports whether the fields shown on the public profile are filled in.
func (p *UserProfile) IsComplete() bool {
	return p.Headline != "" && p.Summary != ""
}

func (p *UserProfile) Clone() *UserProfile {
	if p == nil {
		return nil
	}
	out := *p
	if p.LastActivity != nil {
		a := *p.LastActivity
		out.LastActivity = &a
	}
	return &out
}

// ProfileChanges is a targeted profile write. Nil fields are left as stored,
// so a write never clobbers fields it does not name, such as the cover-letter
// counter.
type ProfileChanges struct {
	Name      *string
	Headline  *string
	Summary   *string
	LinkedIn  *string
	Portfolio *string
	PhotoURL  *string

	Plan         *Plan
	LastActivity *Activity

	At time.Time
}

// Apply writes the named fields onto p and stamps UpdatedAt.
func (c ProfileChanges) Apply(p *UserProfile) {
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&p.Name, c.Name)
	set(&p.Headline, c.Headline)
	set(&p.Summary, c.Summary)
	set(&p.LinkedIn, c.LinkedIn)
	set(&p.Portfolio, c.Portfolio)
	set(&p.PhotoURL, c.PhotoURL)
	if c.Plan != nil {
		p.Plan = *c.Plan
	}
	if c.LastActivity != nil {
		a := *c.LastActivity
		p.LastActivity = &a
	}
	p.UpdatedAt = c.At
}

// NewProfile is the default free-plan profile created on first use.
func NewProfile(userID UserID, now time.Time) *UserProfile {
	return &UserProfile{
		UserID:    userID,
		Plan:      PlanFree,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
