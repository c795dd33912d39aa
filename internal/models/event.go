package models

import "time"

// Visibility controls who may see an event.
type Visibility string

const (
	VisibilityManagerOnly Visibility = "manager_only"
	VisibilityFYIOnly     Visibility = "fyi_only"
	VisibilityMandatory   Visibility = "mandatory"
)

// EventType distinguishes work events from personal ones. Privacy
// shielding only applies to personal events.
type EventType string

const (
	EventTypeWork     EventType = "work"
	EventTypePersonal EventType = "personal"
	EventTypeGig      EventType = "gig"
	EventTypeDeadline EventType = "deadline"
)

// Event is a calendar entry, possibly linked to a domain module record.
type Event struct {
	Syncable

	Title             string     `json:"title"`
	Description       string     `json:"description,omitempty"`
	StartTime         time.Time  `json:"startTime"`
	EndTime           time.Time  `json:"endTime"`
	Type              EventType  `json:"type"`
	Visibility        Visibility `json:"visibility"`
	ModuleID          string     `json:"moduleId,omitempty"`
	ModuleType        string     `json:"moduleType,omitempty"`
	CreatedBy         string     `json:"createdBy"`
	IsPrivacyShielded bool       `json:"isPrivacyShielded,omitempty"`
}

func (e *Event) Validate() error {
	v := &ValidationError{}
	if e.Title == "" {
		v.Add("title", "is required")
	}
	if e.CreatedBy == "" {
		v.Add("createdBy", "is required")
	}
	switch e.Visibility {
	case VisibilityManagerOnly, VisibilityFYIOnly, VisibilityMandatory:
	default:
		v.Add("visibility", "must be manager_only, fyi_only or mandatory")
	}
	switch e.Type {
	case EventTypeWork, EventTypePersonal, EventTypeGig, EventTypeDeadline:
	default:
		v.Add("type", "unknown event type")
	}
	if e.StartTime.IsZero() {
		v.Add("startTime", "is required")
	}
	if e.EndTime.IsZero() {
		v.Add("endTime", "is required")
	} else if !e.StartTime.IsZero() && e.EndTime.Before(e.StartTime) {
		v.Add("endTime", "must not precede startTime")
	}
	return v.ErrOrNil()
}

// EventPatch is a validated partial update for Event. Nil fields are
// left untouched.
type EventPatch struct {
	Title             *string
	Description       *string
	StartTime         *time.Time
	EndTime           *time.Time
	Type              *EventType
	Visibility        *Visibility
	ModuleID          *string
	ModuleType        *string
	IsPrivacyShielded *bool
}

func (p EventPatch) Apply(rec Record) error {
	e, ok := rec.(*Event)
	if !ok {
		return &ValidationError{FieldErrors: map[string]string{"record": "patch applies to events only"}}
	}
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.StartTime != nil {
		e.StartTime = *p.StartTime
	}
	if p.EndTime != nil {
		e.EndTime = *p.EndTime
	}
	if p.Type != nil {
		e.Type = *p.Type
	}
	if p.Visibility != nil {
		e.Visibility = *p.Visibility
	}
	if p.ModuleID != nil {
		e.ModuleID = *p.ModuleID
	}
	if p.ModuleType != nil {
		e.ModuleType = *p.ModuleType
	}
	if p.IsPrivacyShielded != nil {
		e.IsPrivacyShielded = *p.IsPrivacyShielded
	}
	return nil
}
