package models

import "time"

// PomodoroSession records a single focus session, optionally tied to a
// task.
type PomodoroSession struct {
	Syncable

	TaskID          string     `json:"taskId,omitempty"`
	StartedAt       time.Time  `json:"startedAt"`
	EndedAt         *time.Time `json:"endedAt,omitempty"`
	DurationMinutes int        `json:"durationMinutes"`
	Completed       bool       `json:"completed"`
	Interruptions   int        `json:"interruptions,omitempty"`
}

func (p *PomodoroSession) Validate() error {
	v := &ValidationError{}
	if p.StartedAt.IsZero() {
		v.Add("startedAt", "is required")
	}
	if p.DurationMinutes <= 0 {
		v.Add("durationMinutes", "must be positive")
	}
	if p.Interruptions < 0 {
		v.Add("interruptions", "must not be negative")
	}
	return v.ErrOrNil()
}

// PomodoroPatch is a validated partial update for PomodoroSession.
type PomodoroPatch struct {
	EndedAt       *time.Time
	Completed     *bool
	Interruptions *int
}

func (p PomodoroPatch) Apply(rec Record) error {
	s, ok := rec.(*PomodoroSession)
	if !ok {
		return &ValidationError{FieldErrors: map[string]string{"record": "patch applies to pomodoro sessions only"}}
	}
	if p.EndedAt != nil {
		s.EndedAt = p.EndedAt
	}
	if p.Completed != nil {
		s.Completed = *p.Completed
	}
	if p.Interruptions != nil {
		s.Interruptions = *p.Interruptions
	}
	return nil
}
