package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DirectiveStatus is the stored portion of the directive state machine.
// Only pending and complied are persisted; overdue is derived from the
// current usage/date at evaluation time and never written back.
type DirectiveStatus string

const (
	DirectivePending  DirectiveStatus = "pending"
	DirectiveComplied DirectiveStatus = "complied"
)

// Directive is a regulatory compliance item (airworthiness directive,
// service bulletin, state EMS vehicle mandate) tracked per asset,
// independent of the routine maintenance catalog.
type Directive struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DirectiveID       string             `bson:"directive_id" json:"directive_id"` // e.g. "AD-2021-16-09"
	AssetID           string             `bson:"asset_id" json:"asset_id"`
	Title             string             `bson:"title" json:"title"`
	ComplianceMethod  string             `bson:"compliance_method" json:"compliance_method"`
	Recurring         bool               `bson:"recurring" json:"recurring"`
	UsageInterval     *float64           `bson:"usage_interval,omitempty" json:"usage_interval,omitempty"`
	CalendarDays      *int               `bson:"calendar_days,omitempty" json:"calendar_days,omitempty"`
	LastCompliedAt    *time.Time         `bson:"last_complied_at,omitempty" json:"last_complied_at,omitempty"`
	LastCompliedUsage *float64           `bson:"last_complied_usage,omitempty" json:"last_complied_usage,omitempty"`
	NextDueUsage      *float64           `bson:"next_due_usage,omitempty" json:"next_due_usage,omitempty"`
	NextDueDate       *time.Time         `bson:"next_due_date,omitempty" json:"next_due_date,omitempty"`
	Status            DirectiveStatus    `bson:"status" json:"status"`
	UsageThreshold    *float64           `bson:"usage_threshold,omitempty" json:"usage_threshold,omitempty"`
	DayThreshold      *float64           `bson:"day_threshold,omitempty" json:"day_threshold,omitempty"`
	CreatedAt         time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt         time.Time          `bson:"updated_at" json:"updated_at"`
}

// EffectiveUsageThreshold returns the configured usage threshold or the
// fleet default.
func (d *Directive) EffectiveUsageThreshold() float64 {
	if d.UsageThreshold != nil && *d.UsageThreshold > 0 {
		return *d.UsageThreshold
	}
	return DefaultUsageThreshold
}

// EffectiveDayThreshold returns the configured day threshold or the
// fleet default.
func (d *Directive) EffectiveDayThreshold() float64 {
	if d.DayThreshold != nil && *d.DayThreshold > 0 {
		return *d.DayThreshold
	}
	return DefaultDayThreshold
}

// RecordComplianceRequest is the write contract for recording a
// directive compliance event.
type RecordComplianceRequest struct {
	DirectiveID       string    `json:"directive_id"`
	CompliedAt        time.Time `json:"complied_at"`
	UsageAtCompliance float64   `json:"usage_at_compliance"`
}
