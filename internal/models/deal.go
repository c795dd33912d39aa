package models

import (
	"strconv"
	"time"
)

// DealStatus is the brand-deal pipeline stage.
type DealStatus string

const (
	DealStatusNegotiating DealStatus = "negotiating"
	DealStatusSigned      DealStatus = "signed"
	DealStatusInProgress  DealStatus = "in_progress"
	DealStatusDelivered   DealStatus = "delivered"
	DealStatusPaid        DealStatus = "paid"
)

// DeliverableType classifies a piece of sponsored content.
type DeliverableType string

const (
	DeliverableStory DeliverableType = "story"
	DeliverablePost  DeliverableType = "post"
	DeliverableReel  DeliverableType = "reel"
	DeliverableVideo DeliverableType = "video"
	DeliverableBlog  DeliverableType = "blog"
)

// Deliverable is a single contracted content item within a brand deal.
type Deliverable struct {
	Type        DeliverableType `json:"type"`
	Description string          `json:"description,omitempty"`
	DueDate     *time.Time      `json:"dueDate,omitempty"`
}

// BrandDeal is a sponsorship agreement with a brand.
type BrandDeal struct {
	Syncable

	BrandName         string        `json:"brandName"`
	Amount            float64       `json:"amount"`
	Status            DealStatus    `json:"status"`
	Deliverables      []Deliverable `json:"deliverables,omitempty"`
	ExclusivityClause string        `json:"exclusivityClause,omitempty"`
	ContractStart     *time.Time    `json:"contractStart,omitempty"`
	ContractEnd       *time.Time    `json:"contractEnd,omitempty"`
}

func (d *BrandDeal) Validate() error {
	v := &ValidationError{}
	if d.BrandName == "" {
		v.Add("brandName", "is required")
	}
	if d.Amount < 0 {
		v.Add("amount", "must not be negative")
	}
	switch d.Status {
	case DealStatusNegotiating, DealStatusSigned, DealStatusInProgress,
		DealStatusDelivered, DealStatusPaid:
	default:
		v.Add("status", "unknown deal status")
	}
	for i, dl := range d.Deliverables {
		switch dl.Type {
		case DeliverableStory, DeliverablePost, DeliverableReel,
			DeliverableVideo, DeliverableBlog:
		default:
			v.Add("deliverables", "unknown deliverable type at index "+strconv.Itoa(i))
		}
	}
	return v.ErrOrNil()
}

// BrandDealPatch is a validated partial update for BrandDeal. Status is
// deliberately absent: pipeline stages advance through the service so
// stage side effects stay table-driven.
type BrandDealPatch struct {
	BrandName         *string
	Amount            *float64
	Deliverables      *[]Deliverable
	ExclusivityClause *string
	ContractStart     *time.Time
	ContractEnd       *time.Time
}

func (p BrandDealPatch) Apply(rec Record) error {
	d, ok := rec.(*BrandDeal)
	if !ok {
		return &ValidationError{FieldErrors: map[string]string{"record": "patch applies to brand deals only"}}
	}
	if p.BrandName != nil {
		d.BrandName = *p.BrandName
	}
	if p.Amount != nil {
		d.Amount = *p.Amount
	}
	if p.Deliverables != nil {
		d.Deliverables = *p.Deliverables
	}
	if p.ExclusivityClause != nil {
		d.ExclusivityClause = *p.ExclusivityClause
	}
	if p.ContractStart != nil {
		d.ContractStart = p.ContractStart
	}
	if p.ContractEnd != nil {
		d.ContractEnd = p.ContractEnd
	}
	return nil
}
