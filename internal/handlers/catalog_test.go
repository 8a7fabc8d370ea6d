package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/ukydev/fleet-compliance/internal/db"
	"github.com/ukydev/fleet-compliance/internal/models"
)

func TestCatalogHandler_CreateType(t *testing.T) {
	types := new(MockTypeCollection)
	types.On("FindTypeByCode", mock.Anything, "100HR").Return(nil, db.ErrNotFound)
	types.On("InsertType", mock.Anything, mock.Anything).Return(nil)

	body, _ := json.Marshal(models.MaintenanceType{
		Code:          "100HR",
		Label:         "100-hour inspection",
		UsageInterval: fptr(100.0),
	})
	req := httptest.NewRequest(http.MethodPost, "/api/maintenance-types", bytes.NewBuffer(body))
	w := httptest.NewRecorder()
	NewCatalogHandler(types).ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	types.AssertExpectations(t)
}

func TestCatalogHandler_CreateRejectsInconsistentInterval(t *testing.T) {
	body, _ := json.Marshal(models.MaintenanceType{
		Code:          "BROKEN",
		Unscheduled:   true,
		UsageInterval: fptr(10.0),
	})
	req := httptest.NewRequest(http.MethodPost, "/api/maintenance-types", bytes.NewBuffer(body))
	w := httptest.NewRecorder()
	NewCatalogHandler(new(MockTypeCollection)).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCatalogHandler_CreateDuplicateConflicts(t *testing.T) {
	types := new(MockTypeCollection)
	types.On("FindTypeByCode", mock.Anything, "100HR").Return(&models.MaintenanceType{Code: "100HR"}, nil)

	body, _ := json.Marshal(models.MaintenanceType{Code: "100HR", UsageInterval: fptr(100.0)})
	req := httptest.NewRequest(http.MethodPost, "/api/maintenance-types", bytes.NewBuffer(body))
	w := httptest.NewRecorder()
	NewCatalogHandler(types).ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	types.AssertNotCalled(t, "InsertType", mock.Anything, mock.Anything)
}

func TestCatalogHandler_List(t *testing.T) {
	types := new(MockTypeCollection)
	types.On("FindTypes", mock.Anything).Return([]models.MaintenanceType{
		{Code: "100HR", UsageInterval: fptr(100.0)},
		{Code: "ADHOC", Unscheduled: true},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/maintenance-types", nil)
	w := httptest.NewRecorder()
	NewCatalogHandler(types).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var got []models.MaintenanceType
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Len(t, got, 2)
}
