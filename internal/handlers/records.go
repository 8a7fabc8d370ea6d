package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/ukydev/fleet-compliance/internal/compliance"
	"github.com/ukydev/fleet-compliance/internal/db"
	"github.com/ukydev/fleet-compliance/internal/models"
)

// RecordHandler handles the maintenance ledger: listing history and
// reporting completed work. Next-due markers are always derived from the
// catalog entry at creation, never taken from the caller.
type RecordHandler struct {
	records db.RecordCollection
	types   db.TypeCollection
	assets  db.AssetCollection
}

// NewRecordHandler creates a new maintenance record handler.
func NewRecordHandler(records db.RecordCollection, types db.TypeCollection, assets db.AssetCollection) *RecordHandler {
	return &RecordHandler{records: records, types: types, assets: assets}
}

// ServeHTTP routes record listing and creation.
func (h *RecordHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *RecordHandler) list(w http.ResponseWriter, r *http.Request) {
	filter := bson.M{}
	if assetID := r.URL.Query().Get("asset_id"); assetID != "" {
		filter["asset_id"] = assetID
	}
	if typeCode := r.URL.Query().Get("type_code"); typeCode != "" {
		filter["type_code"] = typeCode
	}

	records, err := h.records.FindRecords(r.Context(), filter)
	if err != nil {
		http.Error(w, "Failed to fetch maintenance records", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(records)
}

func (h *RecordHandler) create(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var req models.RecordMaintenanceRequest
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if req.AssetID == "" || req.TypeCode == "" {
		http.Error(w, "asset_id and type_code are required", http.StatusBadRequest)
		return
	}
	if req.UsageAtPerformance < 0 {
		http.Error(w, "usage_at_performance must not be negative", http.StatusBadRequest)
		return
	}
	if req.PerformedAt.IsZero() {
		req.PerformedAt = time.Now()
	}

	if _, err := h.assets.FindAssetByAssetID(r.Context(), req.AssetID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			http.Error(w, "Asset not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to resolve asset", http.StatusInternalServerError)
		return
	}

	mt, err := h.types.FindTypeByCode(r.Context(), req.TypeCode)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			http.Error(w, "Maintenance type not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to resolve maintenance type", http.StatusInternalServerError)
		return
	}

	record := compliance.NewMaintenanceRecord(req, mt)
	inserted, err := h.records.InsertRecord(r.Context(), record)
	if err != nil {
		http.Error(w, "Failed to create maintenance record", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(inserted)
}
