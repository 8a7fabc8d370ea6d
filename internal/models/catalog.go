package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Default urgency thresholds applied when a catalog entry does not set
// its own. These are the two values the legacy pages used ad hoc: 10
// usage units for hour/odometer items, 30 days for calendar items.
const (
	DefaultUsageThreshold = 10.0
	DefaultDayThreshold   = 30.0
)

// MaintenanceType is a catalog entry describing one scheduled maintenance
// or inspection type and its recurrence rule. An entry may recur on
// cumulative usage, on elapsed calendar days, or both; an entry with
// neither interval must be flagged unscheduled (ad hoc work only).
type MaintenanceType struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Code                 string             `bson:"code" json:"code"` // e.g. "100HR", "ANNUAL", "ROTOR-TRACK"
	Label                string             `bson:"label" json:"label"`
	UsageInterval        *float64           `bson:"usage_interval,omitempty" json:"usage_interval,omitempty"`
	CalendarIntervalDays *int               `bson:"calendar_interval_days,omitempty" json:"calendar_interval_days,omitempty"`
	Unscheduled          bool               `bson:"unscheduled" json:"unscheduled"`
	UsageThreshold       *float64           `bson:"usage_threshold,omitempty" json:"usage_threshold,omitempty"`
	DayThreshold         *float64           `bson:"day_threshold,omitempty" json:"day_threshold,omitempty"`
	CreatedAt            time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt            time.Time          `bson:"updated_at" json:"updated_at"`
}

// Validate checks the catalog invariant: a type defines at least one
// interval, or is flagged unscheduled, but never both and never neither.
// Violations are configuration defects surfaced at load time.
func (t *MaintenanceType) Validate() error {
	hasInterval := t.UsageInterval != nil || t.CalendarIntervalDays != nil
	if t.Unscheduled && hasInterval {
		return fmt.Errorf("maintenance type %q: unscheduled type must not declare an interval", t.Code)
	}
	if !t.Unscheduled && !hasInterval {
		return fmt.Errorf("maintenance type %q: scheduled type must declare a usage or calendar interval", t.Code)
	}
	if t.UsageInterval != nil && *t.UsageInterval <= 0 {
		return fmt.Errorf("maintenance type %q: usage interval must be positive", t.Code)
	}
	if t.CalendarIntervalDays != nil && *t.CalendarIntervalDays <= 0 {
		return fmt.Errorf("maintenance type %q: calendar interval must be positive", t.Code)
	}
	return nil
}

// EffectiveUsageThreshold returns the configured usage threshold or the
// fleet default.
func (t *MaintenanceType) EffectiveUsageThreshold() float64 {
	if t.UsageThreshold != nil && *t.UsageThreshold > 0 {
		return *t.UsageThreshold
	}
	return DefaultUsageThreshold
}

// EffectiveDayThreshold returns the configured day threshold or the
// fleet default.
func (t *MaintenanceType) EffectiveDayThreshold() float64 {
	if t.DayThreshold != nil && *t.DayThreshold > 0 {
		return *t.DayThreshold
	}
	return DefaultDayThreshold
}
