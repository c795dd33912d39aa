package models

import "time"

// Priority orders tasks for display and triage.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Task is a unit of work, optionally linked to a project (a brand deal,
// a solar lead, ...) via ProjectID.
type Task struct {
	Syncable

	Title            string     `json:"title"`
	Description      string     `json:"description,omitempty"`
	Completed        bool       `json:"completed"`
	Priority         Priority   `json:"priority"`
	DueDate          *time.Time `json:"dueDate,omitempty"`
	ProjectID        string     `json:"projectId,omitempty"`
	Category         string     `json:"category"`
	EstimatedMinutes int        `json:"estimatedMinutes,omitempty"`
}

func (t *Task) Validate() error {
	v := &ValidationError{}
	if t.Title == "" {
		v.Add("title", "is required")
	}
	switch t.Priority {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
	default:
		v.Add("priority", "must be low, medium, high or urgent")
	}
	if t.Category == "" {
		v.Add("category", "is required")
	}
	if t.EstimatedMinutes < 0 {
		v.Add("estimatedMinutes", "must not be negative")
	}
	return v.ErrOrNil()
}

// TaskPatch is a validated partial update for Task.
type TaskPatch struct {
	Title            *string
	Description      *string
	Completed        *bool
	Priority         *Priority
	DueDate          *time.Time
	ClearDueDate     bool
	Category         *string
	EstimatedMinutes *int
}

func (p TaskPatch) Apply(rec Record) error {
	t, ok := rec.(*Task)
	if !ok {
		return &ValidationError{FieldErrors: map[string]string{"record": "patch applies to tasks only"}}
	}
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.DueDate != nil {
		t.DueDate = p.DueDate
	}
	if p.ClearDueDate {
		t.DueDate = nil
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.EstimatedMinutes != nil {
		t.EstimatedMinutes = *p.EstimatedMinutes
	}
	return nil
}
