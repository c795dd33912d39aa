package services

import (
	"context"
	"time"

	"github.com/hyphenhq/hyphen/internal/models"
	"github.com/hyphenhq/hyphen/internal/store"
)

// PomodoroService records focus sessions.
type PomodoroService struct {
	store *store.Store
	now   func() time.Time
}

func NewPomodoroService(st *store.Store, now func() time.Time) *PomodoroService {
	if now == nil {
		now = time.Now
	}
	return &PomodoroService{store: st, now: now}
}

// Start opens a session of the given planned duration, optionally tied
// to a task.
func (s *PomodoroService) Start(ctx context.Context, taskID string, durationMinutes int) (*models.PomodoroSession, error) {
	session := &models.PomodoroSession{
		TaskID:          taskID,
		StartedAt:       s.now(),
		DurationMinutes: durationMinutes,
	}
	if err := s.store.Create(ctx, CollectionPomodoroSessions, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Stop closes a session, marking whether the full duration was reached.
func (s *PomodoroService) Stop(ctx context.Context, id string, completed bool) (*models.PomodoroSession, error) {
	ended := s.now()
	rec, err := s.store.Update(ctx, CollectionPomodoroSessions, id, models.PomodoroPatch{
		EndedAt:   &ended,
		Completed: &completed,
	})
	if err != nil {
		return nil, err
	}
	return rec.(*models.PomodoroSession), nil
}

func (s *PomodoroService) List(ctx context.Context) ([]*models.PomodoroSession, error) {
	return s.list(ctx, store.Query{})
}

// ListForTask returns the sessions recorded against one task.
func (s *PomodoroService) ListForTask(ctx context.Context, taskID string) ([]*models.PomodoroSession, error) {
	return s.list(ctx, store.Query{
		Predicate: func(r models.Record) bool {
			return r.(*models.PomodoroSession).TaskID == taskID
		},
	})
}

func (s *PomodoroService) list(ctx context.Context, q store.Query) ([]*models.PomodoroSession, error) {
	recs, err := s.store.All(ctx, CollectionPomodoroSessions, q)
	if err != nil {
		return nil, err
	}
	sessions := make([]*models.PomodoroSession, 0, len(recs))
	for _, rec := range recs {
		sessions = append(sessions, rec.(*models.PomodoroSession))
	}
	return sessions, nil
}
