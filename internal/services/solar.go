package services

import (
	"context"
	"fmt"
	"time"

	"github.com/hyphenhq/hyphen/internal/models"
	"github.com/hyphenhq/hyphen/internal/store"
)

// stageTransition keys the follow-up table by a pipeline move.
type stageTransition struct {
	from, to models.LeadStage
}

// followUpSpec describes one task generated by a stage transition. The
// due offset is relative to the moment of the transition.
type followUpSpec struct {
	title     string
	dueOffset time.Duration
	priority  models.Priority
}

// leadFollowUps is the transition table: the same (from, to) pair always
// generates the same follow-up set, for every lead.
var leadFollowUps = map[stageTransition][]followUpSpec{
	{models.LeadStageLead, models.LeadStageQualified}: {
		{"Log qualification call notes", 24 * time.Hour, models.PriorityMedium},
	},
	{models.LeadStageQualified, models.LeadStageAssessment}: {
		{"Schedule site visit", 48 * time.Hour, models.PriorityHigh},
		{"Send pre-assessment checklist email", 24 * time.Hour, models.PriorityMedium},
	},
	{models.LeadStageAssessment, models.LeadStageProposal}: {
		{"Prepare system proposal", 72 * time.Hour, models.PriorityHigh},
	},
	{models.LeadStageProposal, models.LeadStageContract}: {
		{"Review and send contract", 48 * time.Hour, models.PriorityUrgent},
	},
	{models.LeadStageContract, models.LeadStageInstallation}: {
		{"Schedule installation crew", 7 * 24 * time.Hour, models.PriorityHigh},
	},
	{models.LeadStageInstallation, models.LeadStageCustomer}: {
		{"Post-installation satisfaction call", 14 * 24 * time.Hour, models.PriorityMedium},
	},
}

// SolarLeadService manages the solar sales pipeline.
type SolarLeadService struct {
	store *store.Store
	tasks *TaskService
	now   func() time.Time
}

func NewSolarLeadService(st *store.Store, tasks *TaskService, now func() time.Time) *SolarLeadService {
	if now == nil {
		now = time.Now
	}
	return &SolarLeadService{store: st, tasks: tasks, now: now}
}

func (s *SolarLeadService) Create(ctx context.Context, lead *models.SolarLead) error {
	if lead.Status == "" {
		lead.Status = models.LeadStageLead
	}
	return s.store.Create(ctx, CollectionSolarLeads, lead)
}

type leadStagePatch struct {
	to models.LeadStage
}

func (p leadStagePatch) Apply(rec models.Record) error {
	rec.(*models.SolarLead).Status = p.to
	return nil
}

// AdvanceStage moves a lead to the next pipeline stage and generates the
// transition's follow-up tasks. Moves absent from the transition table
// are rejected.
func (s *SolarLeadService) AdvanceStage(ctx context.Context, id string, to models.LeadStage) (*models.SolarLead, []models.Task, error) {
	rec, err := s.store.Get(ctx, CollectionSolarLeads, id)
	if err != nil {
		return nil, nil, err
	}
	lead := rec.(*models.SolarLead)

	specs, ok := leadFollowUps[stageTransition{from: lead.Status, to: to}]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, lead.Status, to)
	}

	updated, err := s.store.Update(ctx, CollectionSolarLeads, id, leadStagePatch{to: to})
	if err != nil {
		return nil, nil, err
	}

	at := s.now()
	tasks := make([]models.Task, 0, len(specs))
	for _, spec := range specs {
		due := at.Add(spec.dueOffset)
		task := &models.Task{
			Title:     fmt.Sprintf("%s: %s", spec.title, lead.Name),
			Priority:  spec.priority,
			DueDate:   &due,
			ProjectID: lead.ID,
			Category:  "solar",
		}
		if err := s.tasks.Create(ctx, task); err != nil {
			return updated.(*models.SolarLead), tasks, err
		}
		tasks = append(tasks, *task)
	}

	return updated.(*models.SolarLead), tasks, nil
}

func (s *SolarLeadService) Update(ctx context.Context, id string, patch models.SolarLeadPatch) (*models.SolarLead, error) {
	rec, err := s.store.Update(ctx, CollectionSolarLeads, id, patch)
	if err != nil {
		return nil, err
	}
	return rec.(*models.SolarLead), nil
}

func (s *SolarLeadService) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, CollectionSolarLeads, id)
}

func (s *SolarLeadService) List(ctx context.Context) ([]*models.SolarLead, error) {
	return s.list(ctx, store.Query{})
}

func (s *SolarLeadService) ListByStage(ctx context.Context, stage models.LeadStage) ([]*models.SolarLead, error) {
	return s.list(ctx, store.Query{Status: string(stage)})
}

func (s *SolarLeadService) list(ctx context.Context, q store.Query) ([]*models.SolarLead, error) {
	recs, err := s.store.All(ctx, CollectionSolarLeads, q)
	if err != nil {
		return nil, err
	}
	leads := make([]*models.SolarLead, 0, len(recs))
	for _, rec := range recs {
		leads = append(leads, rec.(*models.SolarLead))
	}
	return leads, nil
}
