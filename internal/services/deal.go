package services

import (
	"context"
	"fmt"

	"github.com/hyphenhq/hyphen/internal/exclusivity"
	"github.com/hyphenhq/hyphen/internal/models"
	"github.com/hyphenhq/hyphen/internal/store"
)

// deliverableEstimates maps a deliverable type to its planning estimate
// in minutes. Shared between deal creation and any UI-side duration
// display, so it is data rather than ad hoc logic.
var deliverableEstimates = map[models.DeliverableType]int{
	models.DeliverableStory: 30,
	models.DeliverablePost:  60,
	models.DeliverableReel:  120,
	models.DeliverableVideo: 240,
	models.DeliverableBlog:  180,
}

// dealStatusOrder positions each pipeline stage for forward-only moves.
var dealStatusOrder = map[models.DealStatus]int{
	models.DealStatusNegotiating: 0,
	models.DealStatusSigned:      1,
	models.DealStatusInProgress:  2,
	models.DealStatusDelivered:   3,
	models.DealStatusPaid:        4,
}

// BrandDealService manages sponsorship deals and their derived tasks.
type BrandDealService struct {
	store *store.Store
	tasks *TaskService
}

func NewBrandDealService(st *store.Store, tasks *TaskService) *BrandDealService {
	return &BrandDealService{store: st, tasks: tasks}
}

// Create persists a deal, auto-generates one task per deliverable
// (linked via ProjectID, estimate from the per-type table) and returns
// advisory exclusivity warnings against existing deals.
func (s *BrandDealService) Create(ctx context.Context, deal *models.BrandDeal) ([]models.Task, []exclusivity.Warning, error) {
	existing, err := s.list(ctx, store.Query{})
	if err != nil {
		return nil, nil, err
	}

	if err := s.store.Create(ctx, CollectionBrandDeals, deal); err != nil {
		return nil, nil, err
	}

	tasks := make([]models.Task, 0, len(deal.Deliverables))
	for _, dl := range deal.Deliverables {
		task := &models.Task{
			Title:            fmt.Sprintf("Deliver %s for %s", dl.Type, deal.BrandName),
			Description:      dl.Description,
			Priority:         models.PriorityMedium,
			DueDate:          dl.DueDate,
			ProjectID:        deal.ID,
			Category:         "brand_deal",
			EstimatedMinutes: deliverableEstimates[dl.Type],
		}
		if err := s.tasks.Create(ctx, task); err != nil {
			return tasks, nil, err
		}
		tasks = append(tasks, *task)
	}

	return tasks, exclusivity.FindConflicts(deal, existing), nil
}

type dealStatusPatch struct {
	to models.DealStatus
}

func (p dealStatusPatch) Apply(rec models.Record) error {
	rec.(*models.BrandDeal).Status = p.to
	return nil
}

// AdvanceStatus moves a deal forward along the pipeline. Backward or
// skipped-stage moves are rejected.
func (s *BrandDealService) AdvanceStatus(ctx context.Context, id string, to models.DealStatus) (*models.BrandDeal, error) {
	rec, err := s.store.Get(ctx, CollectionBrandDeals, id)
	if err != nil {
		return nil, err
	}
	deal := rec.(*models.BrandDeal)
	fromPos, ok := dealStatusOrder[deal.Status]
	toPos, toKnown := dealStatusOrder[to]
	if !ok || !toKnown || toPos != fromPos+1 {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, deal.Status, to)
	}
	updated, err := s.store.Update(ctx, CollectionBrandDeals, id, dealStatusPatch{to: to})
	if err != nil {
		return nil, err
	}
	return updated.(*models.BrandDeal), nil
}

func (s *BrandDealService) Update(ctx context.Context, id string, patch models.BrandDealPatch) (*models.BrandDeal, error) {
	rec, err := s.store.Update(ctx, CollectionBrandDeals, id, patch)
	if err != nil {
		return nil, err
	}
	return rec.(*models.BrandDeal), nil
}

func (s *BrandDealService) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, CollectionBrandDeals, id)
}

func (s *BrandDealService) List(ctx context.Context) ([]*models.BrandDeal, error) {
	return s.list(ctx, store.Query{})
}

func (s *BrandDealService) ListByStatus(ctx context.Context, status models.DealStatus) ([]*models.BrandDeal, error) {
	return s.list(ctx, store.Query{Status: string(status)})
}

func (s *BrandDealService) list(ctx context.Context, q store.Query) ([]*models.BrandDeal, error) {
	recs, err := s.store.All(ctx, CollectionBrandDeals, q)
	if err != nil {
		return nil, err
	}
	deals := make([]*models.BrandDeal, 0, len(recs))
	for _, rec := range recs {
		deals = append(deals, rec.(*models.BrandDeal))
	}
	return deals, nil
}
