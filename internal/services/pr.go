package services

import (
	"context"

	"github.com/hyphenhq/hyphen/internal/models"
	"github.com/hyphenhq/hyphen/internal/store"
)

// PREventService manages press appearances and placements.
type PREventService struct {
	store *store.Store
}

func NewPREventService(st *store.Store) *PREventService {
	return &PREventService{store: st}
}

func (s *PREventService) Create(ctx context.Context, e *models.PREvent) error {
	if e.Status == "" {
		e.Status = models.PRStatusPitched
	}
	return s.store.Create(ctx, CollectionPREvents, e)
}

func (s *PREventService) Update(ctx context.Context, id string, patch models.PREventPatch) (*models.PREvent, error) {
	rec, err := s.store.Update(ctx, CollectionPREvents, id, patch)
	if err != nil {
		return nil, err
	}
	return rec.(*models.PREvent), nil
}

func (s *PREventService) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, CollectionPREvents, id)
}

func (s *PREventService) List(ctx context.Context) ([]*models.PREvent, error) {
	return s.list(ctx, store.Query{})
}

func (s *PREventService) ListByStatus(ctx context.Context, status models.PRStatus) ([]*models.PREvent, error) {
	return s.list(ctx, store.Query{Status: string(status)})
}

func (s *PREventService) list(ctx context.Context, q store.Query) ([]*models.PREvent, error) {
	recs, err := s.store.All(ctx, CollectionPREvents, q)
	if err != nil {
		return nil, err
	}
	events := make([]*models.PREvent, 0, len(recs))
	for _, rec := range recs {
		events = append(events, rec.(*models.PREvent))
	}
	return events, nil
}
