package compliance

import (
	"fmt"
	"time"

	"github.com/ukydev/fleet-compliance/internal/models"
)

// Derived directive statuses. Only pending and complied are ever stored;
// overdue is recomputed from the latest snapshot on every evaluation.
const (
	DirectiveStatusPending  = "pending"
	DirectiveStatusOverdue  = "overdue"
	DirectiveStatusComplied = "complied"
)

// DeriveDirectiveStatus computes the display status of a directive from
// the asset's current usage and the evaluation time.
func DeriveDirectiveStatus(d *models.Directive, cumulativeUsage float64, now time.Time) string {
	if d.Status == models.DirectiveComplied && !d.Recurring {
		return DirectiveStatusComplied
	}
	if d.NextDueUsage != nil && RemainingUsage(cumulativeUsage, *d.NextDueUsage) < 0 {
		return DirectiveStatusOverdue
	}
	if d.NextDueDate != nil && RemainingDays(*d.NextDueDate, now) < 0 {
		return DirectiveStatusOverdue
	}
	return DirectiveStatusPending
}

// ApplyCompliance runs the directive state machine for one compliance
// event and returns the updated directive.
//
// Recurring directives regenerate their next-due markers from the
// compliance method's intervals applied to the event's usage/date and
// return to pending. Non-recurring directives transition to complied as
// a terminal state with no further due computation. Recording compliance
// on an already-terminal directive is a logic error and is rejected with
// ErrInvalidTransition.
func ApplyCompliance(d models.Directive, compliedAt time.Time, usageAtCompliance float64) (models.Directive, error) {
	if !d.Recurring && d.Status == models.DirectiveComplied {
		return d, fmt.Errorf("directive %q already complied: %w", d.DirectiveID, ErrInvalidTransition)
	}

	d.LastCompliedAt = &compliedAt
	d.LastCompliedUsage = &usageAtCompliance

	if d.Recurring {
		d.NextDueUsage = nil
		d.NextDueDate = nil
		if d.UsageInterval != nil {
			due := usageAtCompliance + *d.UsageInterval
			d.NextDueUsage = &due
		}
		if d.CalendarDays != nil {
			due := compliedAt.AddDate(0, 0, *d.CalendarDays)
			d.NextDueDate = &due
		}
		d.Status = models.DirectivePending
	} else {
		d.NextDueUsage = nil
		d.NextDueDate = nil
		d.Status = models.DirectiveComplied
	}

	d.UpdatedAt = time.Now()
	return d, nil
}

// NewMaintenanceRecord builds the append-only ledger entry for completed
// maintenance work, deriving the next-due markers from the catalog
// entry: usage-at-performance plus the usage interval, and performed-at
// plus the calendar interval.
func NewMaintenanceRecord(req models.RecordMaintenanceRequest, mt *models.MaintenanceType) models.MaintenanceRecord {
	rec := models.MaintenanceRecord{
		AssetID:            req.AssetID,
		TypeCode:           req.TypeCode,
		PerformedAt:        req.PerformedAt,
		UsageAtPerformance: req.UsageAtPerformance,
		Technician:         req.Technician,
		WorkOrder:          req.WorkOrder,
		Notes:              req.Notes,
		CreatedAt:          time.Now(),
	}
	if mt.UsageInterval != nil {
		due := req.UsageAtPerformance + *mt.UsageInterval
		rec.NextDueUsage = &due
	}
	if mt.CalendarIntervalDays != nil {
		due := req.PerformedAt.AddDate(0, 0, *mt.CalendarIntervalDays)
		rec.NextDueDate = &due
	}
	return rec
}
