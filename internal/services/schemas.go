// Package services exposes the per-domain façades UI code talks to:
// role preconditions, metadata stamping via the store, and derived
// side-effect writes such as auto-generated follow-up tasks.
package services

import (
	"time"

	"github.com/hyphenhq/hyphen/internal/models"
	"github.com/hyphenhq/hyphen/internal/store"
)

// Collection names. One logical collection per entity type.
const (
	CollectionEvents            = "events"
	CollectionTasks             = "tasks"
	CollectionBrandDeals        = "brandDeals"
	CollectionSolarLeads        = "solarLeads"
	CollectionPREvents          = "prEvents"
	CollectionPomodoroSessions  = "pomodoroSessions"
	CollectionSongs             = "songs"
	CollectionAppearanceWindows = "appearanceWindows"
)

// Schemas declares every collection with its sync behaviour and index
// extractors.
func Schemas() []store.Schema {
	return []store.Schema{
		{
			Name:     CollectionEvents,
			Syncable: true,
			New:      func() models.Record { return &models.Event{} },
			Indexes: store.Indexes{
				Status: func(r models.Record) string { return string(r.(*models.Event).Type) },
				Times: func(r models.Record) (time.Time, time.Time) {
					e := r.(*models.Event)
					return e.StartTime, e.EndTime
				},
			},
		},
		{
			Name:     CollectionTasks,
			Syncable: true,
			New:      func() models.Record { return &models.Task{} },
			Indexes: store.Indexes{
				Status:   func(r models.Record) string { return string(r.(*models.Task).Priority) },
				Category: func(r models.Record) string { return r.(*models.Task).Category },
				Times: func(r models.Record) (time.Time, time.Time) {
					t := r.(*models.Task)
					if t.DueDate == nil {
						return time.Time{}, time.Time{}
					}
					return *t.DueDate, *t.DueDate
				},
			},
		},
		{
			Name:     CollectionBrandDeals,
			Syncable: true,
			New:      func() models.Record { return &models.BrandDeal{} },
			Indexes: store.Indexes{
				Status: func(r models.Record) string { return string(r.(*models.BrandDeal).Status) },
			},
		},
		{
			Name:     CollectionSolarLeads,
			Syncable: true,
			New:      func() models.Record { return &models.SolarLead{} },
			Indexes: store.Indexes{
				Status: func(r models.Record) string { return string(r.(*models.SolarLead).Status) },
			},
		},
		{
			Name:     CollectionPREvents,
			Syncable: true,
			New:      func() models.Record { return &models.PREvent{} },
			Indexes: store.Indexes{
				Status: func(r models.Record) string { return string(r.(*models.PREvent).Status) },
				Times: func(r models.Record) (time.Time, time.Time) {
					e := r.(*models.PREvent)
					if e.ScheduledAt == nil {
						return time.Time{}, time.Time{}
					}
					return *e.ScheduledAt, *e.ScheduledAt
				},
			},
		},
		{
			Name:     CollectionPomodoroSessions,
			Syncable: true,
			New:      func() models.Record { return &models.PomodoroSession{} },
			Indexes: store.Indexes{
				Times: func(r models.Record) (time.Time, time.Time) {
					s := r.(*models.PomodoroSession)
					end := s.StartedAt
					if s.EndedAt != nil {
						end = *s.EndedAt
					}
					return s.StartedAt, end
				},
			},
		},
		{
			Name:     CollectionSongs,
			Syncable: true,
			New:      func() models.Record { return &models.Song{} },
			Indexes: store.Indexes{
				Category: func(r models.Record) string { return r.(*models.Song).Artist },
			},
		},
		{
			Name:     CollectionAppearanceWindows,
			Syncable: true,
			New:      func() models.Record { return &models.AppearanceWindow{} },
			Indexes: store.Indexes{
				Category: func(r models.Record) string { return r.(*models.AppearanceWindow).Category },
				Times: func(r models.Record) (time.Time, time.Time) {
					w := r.(*models.AppearanceWindow)
					return w.StartTime, w.EndTime
				},
			},
		},
	}
}

// RegisterAll registers every collection schema with the store.
func RegisterAll(st *store.Store) error {
	for _, sc := range Schemas() {
		if err := st.Register(sc); err != nil {
			return err
		}
	}
	return nil
}
