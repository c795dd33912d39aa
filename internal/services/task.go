package services

import (
	"context"

	"github.com/hyphenhq/hyphen/internal/models"
	"github.com/hyphenhq/hyphen/internal/store"
)

// TaskService manages tasks across every domain module.
type TaskService struct {
	store *store.Store
}

func NewTaskService(st *store.Store) *TaskService {
	return &TaskService{store: st}
}

func (s *TaskService) Create(ctx context.Context, t *models.Task) error {
	return s.store.Create(ctx, CollectionTasks, t)
}

func (s *TaskService) Get(ctx context.Context, id string) (*models.Task, error) {
	rec, err := s.store.Get(ctx, CollectionTasks, id)
	if err != nil {
		return nil, err
	}
	return rec.(*models.Task), nil
}

func (s *TaskService) Update(ctx context.Context, id string, patch models.TaskPatch) (*models.Task, error) {
	rec, err := s.store.Update(ctx, CollectionTasks, id, patch)
	if err != nil {
		return nil, err
	}
	return rec.(*models.Task), nil
}

// Complete marks a task done.
func (s *TaskService) Complete(ctx context.Context, id string) (*models.Task, error) {
	done := true
	return s.Update(ctx, id, models.TaskPatch{Completed: &done})
}

func (s *TaskService) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, CollectionTasks, id)
}

func (s *TaskService) List(ctx context.Context) ([]models.Task, error) {
	return s.collect(ctx, store.Query{})
}

func (s *TaskService) ListByCategory(ctx context.Context, category string) ([]models.Task, error) {
	return s.collect(ctx, store.Query{Category: category})
}

// ListForProject returns the tasks linked to a module record (a brand
// deal, a solar lead, ...).
func (s *TaskService) ListForProject(ctx context.Context, projectID string) ([]models.Task, error) {
	return s.collect(ctx, store.Query{
		Predicate: func(r models.Record) bool {
			return r.(*models.Task).ProjectID == projectID
		},
	})
}

func (s *TaskService) collect(ctx context.Context, q store.Query) ([]models.Task, error) {
	recs, err := s.store.All(ctx, CollectionTasks, q)
	if err != nil {
		return nil, err
	}
	tasks := make([]models.Task, 0, len(recs))
	for _, rec := range recs {
		tasks = append(tasks, *rec.(*models.Task))
	}
	return tasks, nil
}
