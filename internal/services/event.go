package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hyphenhq/hyphen/internal/models"
	"github.com/hyphenhq/hyphen/internal/store"
	"github.com/hyphenhq/hyphen/internal/visibility"
)

// EventService manages calendar events with role-based visibility.
type EventService struct {
	store *store.Store
}

func NewEventService(st *store.Store) *EventService {
	return &EventService{store: st}
}

// Create persists a new event on behalf of actor. Only managers may
// create manager_only events.
func (s *EventService) Create(ctx context.Context, actor models.User, e *models.Event) error {
	if e.Visibility == models.VisibilityManagerOnly && actor.Role != models.RoleManager {
		return fmt.Errorf("%w: only managers may create manager_only events", ErrPermission)
	}
	e.CreatedBy = actor.ID
	return s.store.Create(ctx, CollectionEvents, e)
}

// Update applies a patch on behalf of actor. Editing requires manager
// role or ownership; raising visibility to manager_only requires
// manager role.
func (s *EventService) Update(ctx context.Context, actor models.User, id string, patch models.EventPatch) (*models.Event, error) {
	rec, err := s.store.Get(ctx, CollectionEvents, id)
	if err != nil {
		return nil, err
	}
	existing := rec.(*models.Event)
	if !visibility.CanEditEvent(*existing, actor) {
		return nil, fmt.Errorf("%w: cannot edit event %s", ErrPermission, id)
	}
	if patch.Visibility != nil && *patch.Visibility == models.VisibilityManagerOnly &&
		actor.Role != models.RoleManager {
		return nil, fmt.Errorf("%w: only managers may set manager_only visibility", ErrPermission)
	}
	updated, err := s.store.Update(ctx, CollectionEvents, id, patch)
	if err != nil {
		return nil, err
	}
	return updated.(*models.Event), nil
}

// Delete removes an event. Deleting an absent id is a no-op.
func (s *EventService) Delete(ctx context.Context, actor models.User, id string) error {
	rec, err := s.store.Get(ctx, CollectionEvents, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if !visibility.CanEditEvent(*rec.(*models.Event), actor) {
		return fmt.Errorf("%w: cannot delete event %s", ErrPermission, id)
	}
	return s.store.Delete(ctx, CollectionEvents, id)
}

// List returns every event viewer may see, privacy shield applied.
func (s *EventService) List(ctx context.Context, viewer models.User, prefs visibility.PreferenceSource) ([]models.Event, error) {
	return s.listFiltered(ctx, store.Query{}, viewer, prefs)
}

// ListRange returns visible events whose start time falls in [from, to).
func (s *EventService) ListRange(ctx context.Context, viewer models.User, from, to time.Time, prefs visibility.PreferenceSource) ([]models.Event, error) {
	return s.listFiltered(ctx, store.Query{From: from, To: to}, viewer, prefs)
}

func (s *EventService) listFiltered(ctx context.Context, q store.Query, viewer models.User, prefs visibility.PreferenceSource) ([]models.Event, error) {
	recs, err := s.store.All(ctx, CollectionEvents, q)
	if err != nil {
		return nil, err
	}
	events := make([]models.Event, 0, len(recs))
	for _, rec := range recs {
		events = append(events, *rec.(*models.Event))
	}
	return visibility.FilterForViewer(events, viewer, prefs), nil
}
