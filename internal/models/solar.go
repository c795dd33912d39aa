package models

import "time"

// LeadStage is the solar-sales pipeline position of a lead.
type LeadStage string

const (
	LeadStageLead         LeadStage = "lead"
	LeadStageQualified    LeadStage = "qualified"
	LeadStageAssessment   LeadStage = "assessment"
	LeadStageProposal     LeadStage = "proposal"
	LeadStageContract     LeadStage = "contract"
	LeadStageInstallation LeadStage = "installation"
	LeadStageCustomer     LeadStage = "customer"
)

// LeadStages lists the pipeline in order.
var LeadStages = []LeadStage{
	LeadStageLead, LeadStageQualified, LeadStageAssessment,
	LeadStageProposal, LeadStageContract, LeadStageInstallation,
	LeadStageCustomer,
}

func (s LeadStage) valid() bool {
	for _, known := range LeadStages {
		if s == known {
			return true
		}
	}
	return false
}

// SolarLead is a prospective solar installation customer.
type SolarLead struct {
	Syncable

	Name            string     `json:"name"`
	Address         string     `json:"address,omitempty"`
	Phone           string     `json:"phone,omitempty"`
	Email           string     `json:"email,omitempty"`
	Status          LeadStage  `json:"status"`
	EstimatedSystem string     `json:"estimatedSystem,omitempty"`
	QuoteAmount     float64    `json:"quoteAmount,omitempty"`
	NextContactAt   *time.Time `json:"nextContactAt,omitempty"`
	Notes           string     `json:"notes,omitempty"`
}

func (l *SolarLead) Validate() error {
	v := &ValidationError{}
	if l.Name == "" {
		v.Add("name", "is required")
	}
	if !l.Status.valid() {
		v.Add("status", "unknown pipeline stage")
	}
	if l.QuoteAmount < 0 {
		v.Add("quoteAmount", "must not be negative")
	}
	return v.ErrOrNil()
}

// SolarLeadPatch is a validated partial update for SolarLead. Status is
// absent on purpose; stage transitions go through the service.
type SolarLeadPatch struct {
	Name            *string
	Address         *string
	Phone           *string
	Email           *string
	EstimatedSystem *string
	QuoteAmount     *float64
	NextContactAt   *time.Time
	Notes           *string
}

func (p SolarLeadPatch) Apply(rec Record) error {
	l, ok := rec.(*SolarLead)
	if !ok {
		return &ValidationError{FieldErrors: map[string]string{"record": "patch applies to solar leads only"}}
	}
	if p.Name != nil {
		l.Name = *p.Name
	}
	if p.Address != nil {
		l.Address = *p.Address
	}
	if p.Phone != nil {
		l.Phone = *p.Phone
	}
	if p.Email != nil {
		l.Email = *p.Email
	}
	if p.EstimatedSystem != nil {
		l.EstimatedSystem = *p.EstimatedSystem
	}
	if p.QuoteAmount != nil {
		l.QuoteAmount = *p.QuoteAmount
	}
	if p.NextContactAt != nil {
		l.NextContactAt = p.NextContactAt
	}
	if p.Notes != nil {
		l.Notes = *p.Notes
	}
	return nil
}
