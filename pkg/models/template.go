// Package models defines the core domain models for the trade-finance workflow engine.
package models

import "time"

// TemplateStatus represents the lifecycle state of a workflow template.
type TemplateStatus string

const (
	TemplateStatusActive   TemplateStatus = "active"   // Eligible for resolution
	TemplateStatusInactive TemplateStatus = "inactive" // Retained for audit, never resolved
)

// TriggerType identifies who initiated the transaction event.
type TriggerType string

const (
	TriggerManual       TriggerType = "Manual"       // Bank-side back-office initiation
	TriggerClientPortal TriggerType = "ClientPortal" // Customer-facing portal initiation
)

// WorkflowTemplate selects which approval stages apply to a
// (product, event, trigger) combination. Templates are provisioned by
// configuration tooling and are read-only to the engine.
type WorkflowTemplate struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"          validate:"required,min=3"`
	ProductCode  string         `json:"product_code"  validate:"required"`
	EventCode    string         `json:"event_code"    validate:"required"`
	TriggerTypes []TriggerType  `json:"trigger_types" validate:"required,min=1"`
	Status       TemplateStatus `json:"status"        validate:"required"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// Matches reports whether the template is an Active match for the given
// product/event codes and trigger type. Product and event codes compare
// exactly; the trigger type must be a member of the template's allowed set.
func (t *WorkflowTemplate) Matches(productCode, eventCode string, trigger TriggerType) bool {
	if t.Status != TemplateStatusActive {
		return false
	}

	if t.ProductCode != productCode || t.EventCode != eventCode {
		return false
	}

	for _, tt := range t.TriggerTypes {
		if tt == trigger {
			return true
		}
	}

	return false
}

// Stage is an ordered step in a template's approval pipeline. Order values
// form a total order within one template; duplicates are a configuration
// defect.
type Stage struct {
	ID         string `json:"id"`
	TemplateID string `json:"template_id" validate:"required"`
	Name       string `json:"name"        validate:"required"`
	Order      int    `json:"order"       validate:"gte=0"`
}

// StageField assigns a field identifier to a pane and section within one
// stage. The same field identifier may appear in several stages, each time
// with its own pane/section placement.
type StageField struct {
	ID      string `json:"id"`
	StageID string `json:"stage_id" validate:"required"`
	FieldID string `json:"field_id" validate:"required"`
	Pane    string `json:"pane"     validate:"required"`
	Section string `json:"section"  validate:"required"`
	Order   int    `json:"order"    validate:"gte=0"`
}
