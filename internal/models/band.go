package models

import "time"

// Song is a setlist entry managed by a band manager.
type Song struct {
	Syncable

	Title           string `json:"title"`
	Artist          string `json:"artist,omitempty"`
	DurationSeconds int    `json:"durationSeconds,omitempty"`
	Key             string `json:"key,omitempty"`
	Notes           string `json:"notes,omitempty"`
}

func (s *Song) Validate() error {
	v := &ValidationError{}
	if s.Title == "" {
		v.Add("title", "is required")
	}
	if s.DurationSeconds < 0 {
		v.Add("durationSeconds", "must not be negative")
	}
	return v.ErrOrNil()
}

// AppearanceWindow is a bookable availability window for appearances,
// shoots or shows.
type AppearanceWindow struct {
	Syncable

	Label     string    `json:"label"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	Booked    bool      `json:"booked"`
	Category  string    `json:"category,omitempty"`
}

func (w *AppearanceWindow) Validate() error {
	v := &ValidationError{}
	if w.Label == "" {
		v.Add("label", "is required")
	}
	if w.StartTime.IsZero() {
		v.Add("startTime", "is required")
	}
	if w.EndTime.IsZero() {
		v.Add("endTime", "is required")
	} else if !w.StartTime.IsZero() && w.EndTime.Before(w.StartTime) {
		v.Add("endTime", "must not precede startTime")
	}
	return v.ErrOrNil()
}
