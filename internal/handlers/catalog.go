package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/ukydev/fleet-compliance/internal/db"
	"github.com/ukydev/fleet-compliance/internal/models"
)

// CatalogHandler handles maintenance type catalog requests.
type CatalogHandler struct {
	types db.TypeCollection
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(types db.TypeCollection) *CatalogHandler {
	return &CatalogHandler{types: types}
}

// ServeHTTP routes catalog listing and creation.
func (h *CatalogHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *CatalogHandler) list(w http.ResponseWriter, r *http.Request) {
	types, err := h.types.FindTypes(r.Context())
	if err != nil {
		http.Error(w, "Failed to fetch maintenance types", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(types)
}

func (h *CatalogHandler) create(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var mt models.MaintenanceType
	if err := json.Unmarshal(body, &mt); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if mt.Code == "" {
		http.Error(w, "code is required", http.StatusBadRequest)
		return
	}
	if err := mt.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if _, err := h.types.FindTypeByCode(r.Context(), mt.Code); err == nil {
		http.Error(w, "Maintenance type already exists", http.StatusConflict)
		return
	}

	if err := h.types.InsertType(r.Context(), mt); err != nil {
		http.Error(w, "Failed to create maintenance type", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(mt)
}
