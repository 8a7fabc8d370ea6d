package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukydev/fleet-compliance/internal/compliance"
	"github.com/ukydev/fleet-compliance/internal/models"
)

func scenarioSnapshot() *compliance.Snapshot {
	nextDue := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return &compliance.Snapshot{
		Assets: []models.Asset{{
			AssetID:         "N911MD",
			Kind:            models.KindAircraft,
			UsageUnit:       "hours",
			CumulativeUsage: 1495.0,
			Status:          models.StatusAvailable,
		}},
		Types: []models.MaintenanceType{{
			Code:          "100HR",
			Label:         "100-hour inspection",
			UsageInterval: fptr(100.0),
		}},
		Records: []models.MaintenanceRecord{{
			AssetID:            "N911MD",
			TypeCode:           "100HR",
			PerformedAt:        time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC),
			UsageAtPerformance: 1400.0,
			NextDueUsage:       fptr(1500.0),
		}},
		Directives: []models.Directive{{
			DirectiveID: "AD-2023-14-07",
			AssetID:     "N911MD",
			Status:      models.DirectivePending,
			NextDueDate: &nextDue,
		}},
	}
}

func TestWorklistHandler_AssetWorklist(t *testing.T) {
	handler := NewWorklistHandler(&fakeSnapshotSource{snap: scenarioSnapshot()})

	req := httptest.NewRequest(http.MethodGet, "/api/worklist?asset_id=N911MD", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var wl compliance.Worklist
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &wl))
	require.Len(t, wl.Items, 2)

	// The overdue directive outranks the critical inspection.
	assert.Equal(t, "AD-2023-14-07", wl.Items[0].Code)
	assert.Equal(t, compliance.TierOverdue, wl.Items[0].Tier)
	assert.Equal(t, "100HR", wl.Items[1].Code)
	assert.Equal(t, compliance.TierCritical, wl.Items[1].Tier)
}

func TestWorklistHandler_FleetWorklist(t *testing.T) {
	handler := NewWorklistHandler(&fakeSnapshotSource{snap: scenarioSnapshot()})

	req := httptest.NewRequest(http.MethodGet, "/api/worklist", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var wl compliance.Worklist
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &wl))
	assert.Len(t, wl.Items, 2)
}

func TestWorklistHandler_UnknownAsset(t *testing.T) {
	handler := NewWorklistHandler(&fakeSnapshotSource{snap: scenarioSnapshot()})

	req := httptest.NewRequest(http.MethodGet, "/api/worklist?asset_id=N000XX", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestWorklistHandler_SnapshotFetchFails(t *testing.T) {
	handler := NewWorklistHandler(&fakeSnapshotSource{err: errors.New("mongo down")})

	req := httptest.NewRequest(http.MethodGet, "/api/worklist", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestWorklistHandler_MethodNotAllowed(t *testing.T) {
	handler := NewWorklistHandler(&fakeSnapshotSource{snap: scenarioSnapshot()})

	req := httptest.NewRequest(http.MethodPost, "/api/worklist", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
