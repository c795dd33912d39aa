package models

import "time"

// PRStatus is the public-relations engagement pipeline stage.
type PRStatus string

const (
	PRStatusPitched   PRStatus = "pitched"
	PRStatusConfirmed PRStatus = "confirmed"
	PRStatusPrepped   PRStatus = "prepped"
	PRStatusCompleted PRStatus = "completed"
	PRStatusCancelled PRStatus = "cancelled"
)

// PREvent is a press appearance, interview or placement handled by a PR
// coordinator.
type PREvent struct {
	Syncable

	Outlet      string     `json:"outlet"`
	ContactName string     `json:"contactName,omitempty"`
	Status      PRStatus   `json:"status"`
	ScheduledAt *time.Time `json:"scheduledAt,omitempty"`
	TalkingPts  string     `json:"talkingPoints,omitempty"`
	Fee         float64    `json:"fee,omitempty"`
}

func (p *PREvent) Validate() error {
	v := &ValidationError{}
	if p.Outlet == "" {
		v.Add("outlet", "is required")
	}
	switch p.Status {
	case PRStatusPitched, PRStatusConfirmed, PRStatusPrepped,
		PRStatusCompleted, PRStatusCancelled:
	default:
		v.Add("status", "unknown PR status")
	}
	if p.Fee < 0 {
		v.Add("fee", "must not be negative")
	}
	return v.ErrOrNil()
}

// PREventPatch is a validated partial update for PREvent.
type PREventPatch struct {
	Outlet      *string
	ContactName *string
	Status      *PRStatus
	ScheduledAt *time.Time
	TalkingPts  *string
	Fee         *float64
}

func (p PREventPatch) Apply(rec Record) error {
	e, ok := rec.(*PREvent)
	if !ok {
		return &ValidationError{FieldErrors: map[string]string{"record": "patch applies to PR events only"}}
	}
	if p.Outlet != nil {
		e.Outlet = *p.Outlet
	}
	if p.ContactName != nil {
		e.ContactName = *p.ContactName
	}
	if p.Status != nil {
		e.Status = *p.Status
	}
	if p.ScheduledAt != nil {
		e.ScheduledAt = p.ScheduledAt
	}
	if p.TalkingPts != nil {
		e.TalkingPts = *p.TalkingPts
	}
	if p.Fee != nil {
		e.Fee = *p.Fee
	}
	return nil
}
