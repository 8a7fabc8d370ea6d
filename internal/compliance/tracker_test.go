package compliance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukydev/fleet-compliance/internal/models"
)

func intptr(v int) *int { return &v }

func TestApplyCompliance_RecurringRegeneratesNextDue(t *testing.T) {
	compliedAt := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	d := models.Directive{
		DirectiveID:   "AD-2021-16-09",
		AssetID:       "N911MD",
		Recurring:     true,
		UsageInterval: fptr(300.0),
		CalendarDays:  intptr(365),
		Status:        models.DirectivePending,
		NextDueUsage:  fptr(1200.0),
		NextDueDate:   tptr(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)),
	}

	updated, err := ApplyCompliance(d, compliedAt, 1210.0)
	require.NoError(t, err)

	assert.Equal(t, models.DirectivePending, updated.Status)
	require.NotNil(t, updated.NextDueUsage)
	assert.InDelta(t, 1510.0, *updated.NextDueUsage, 1e-9)
	require.NotNil(t, updated.NextDueDate)
	assert.Equal(t, compliedAt.AddDate(0, 0, 365), *updated.NextDueDate)

	// The regenerated cycle is strictly later than the previous one.
	assert.Greater(t, *updated.NextDueUsage, *d.NextDueUsage)
	assert.True(t, updated.NextDueDate.After(*d.NextDueDate))

	require.NotNil(t, updated.LastCompliedAt)
	assert.Equal(t, compliedAt, *updated.LastCompliedAt)
	require.NotNil(t, updated.LastCompliedUsage)
	assert.InDelta(t, 1210.0, *updated.LastCompliedUsage, 1e-9)
}

func TestApplyCompliance_RecurringUsageOnlyInterval(t *testing.T) {
	d := models.Directive{
		DirectiveID:   "AD-2022-05-03",
		Recurring:     true,
		UsageInterval: fptr(100.0),
		Status:        models.DirectivePending,
	}

	updated, err := ApplyCompliance(d, time.Now(), 850.0)
	require.NoError(t, err)
	require.NotNil(t, updated.NextDueUsage)
	assert.InDelta(t, 950.0, *updated.NextDueUsage, 1e-9)
	assert.Nil(t, updated.NextDueDate)
}

func TestApplyCompliance_OneTimeTerminates(t *testing.T) {
	d := models.Directive{
		DirectiveID:  "AD-2020-01-01",
		Recurring:    false,
		Status:       models.DirectivePending,
		NextDueUsage: fptr(900.0),
		NextDueDate:  tptr(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)),
	}

	updated, err := ApplyCompliance(d, time.Now(), 880.0)
	require.NoError(t, err)

	assert.Equal(t, models.DirectiveComplied, updated.Status)
	// Terminal: no further due computation for this directive.
	assert.Nil(t, updated.NextDueUsage)
	assert.Nil(t, updated.NextDueDate)
}

func TestApplyCompliance_TerminalDirectiveRejected(t *testing.T) {
	d := models.Directive{
		DirectiveID: "AD-2020-01-01",
		Recurring:   false,
		Status:      models.DirectiveComplied,
	}

	_, err := ApplyCompliance(d, time.Now(), 900.0)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestDeriveDirectiveStatus(t *testing.T) {
	now := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		d        models.Directive
		usage    float64
		expected string
	}{
		{
			"pending with future due date",
			models.Directive{Status: models.DirectivePending, NextDueDate: tptr(now.AddDate(0, 1, 0))},
			0, DirectiveStatusPending,
		},
		{
			"overdue by date",
			models.Directive{Status: models.DirectivePending, NextDueDate: tptr(now.AddDate(0, -1, 0))},
			0, DirectiveStatusOverdue,
		},
		{
			"overdue by usage",
			models.Directive{Status: models.DirectivePending, NextDueUsage: fptr(500.0)},
			510.0, DirectiveStatusOverdue,
		},
		{
			"terminal complied",
			models.Directive{Status: models.DirectiveComplied, Recurring: false},
			0, DirectiveStatusComplied,
		},
		{
			"pending with no due criteria",
			models.Directive{Status: models.DirectivePending},
			0, DirectiveStatusPending,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DeriveDirectiveStatus(&tt.d, tt.usage, now))
		})
	}
}

func TestNewMaintenanceRecord_DerivesNextDueMarkers(t *testing.T) {
	performedAt := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	req := models.RecordMaintenanceRequest{
		AssetID:            "N407LF",
		TypeCode:           "100HR",
		PerformedAt:        performedAt,
		UsageAtPerformance: 450.0,
		Technician:         "R. Alvarez",
	}
	mt := models.MaintenanceType{
		Code:                 "100HR",
		UsageInterval:        fptr(100.0),
		CalendarIntervalDays: intptr(180),
	}

	rec := NewMaintenanceRecord(req, &mt)

	require.NotNil(t, rec.NextDueUsage)
	assert.InDelta(t, 550.0, *rec.NextDueUsage, 1e-9)
	require.NotNil(t, rec.NextDueDate)
	assert.Equal(t, performedAt.AddDate(0, 0, 180), *rec.NextDueDate)
}

func TestNewMaintenanceRecord_UnscheduledTypeHasNoDue(t *testing.T) {
	req := models.RecordMaintenanceRequest{
		AssetID:            "M-42",
		TypeCode:           "ADHOC",
		PerformedAt:        time.Now(),
		UsageAtPerformance: 88000,
	}
	mt := models.MaintenanceType{Code: "ADHOC", Unscheduled: true}

	rec := NewMaintenanceRecord(req, &mt)

	assert.Nil(t, rec.NextDueUsage)
	assert.Nil(t, rec.NextDueDate)
}
