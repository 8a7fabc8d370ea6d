package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/ukydev/fleet-compliance/internal/db"
	"github.com/ukydev/fleet-compliance/internal/models"
)

// AssetHandler handles asset registry requests.
type AssetHandler struct {
	assets db.AssetCollection
}

// NewAssetHandler creates a new asset handler.
func NewAssetHandler(assets db.AssetCollection) *AssetHandler {
	return &AssetHandler{assets: assets}
}

// ServeHTTP routes asset listing and creation.
func (h *AssetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *AssetHandler) list(w http.ResponseWriter, r *http.Request) {
	filter := bson.M{}
	if assetID := r.URL.Query().Get("asset_id"); assetID != "" {
		filter["asset_id"] = assetID
	}
	if kind := r.URL.Query().Get("kind"); kind != "" {
		filter["kind"] = kind
	}

	assets, err := h.assets.FindAssets(r.Context(), filter)
	if err != nil {
		http.Error(w, "Failed to fetch assets", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(assets)
}

func (h *AssetHandler) create(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var asset models.Asset
	if err := json.Unmarshal(body, &asset); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if asset.AssetID == "" {
		http.Error(w, "asset_id is required", http.StatusBadRequest)
		return
	}
	if !models.IsValidKind(asset.Kind) {
		http.Error(w, "Invalid asset kind", http.StatusBadRequest)
		return
	}
	if asset.Status == "" {
		asset.Status = models.StatusAvailable
	}
	if !models.IsValidStatus(asset.Status) {
		http.Error(w, "Invalid asset status", http.StatusBadRequest)
		return
	}
	if asset.CumulativeUsage < 0 {
		http.Error(w, "cumulative_usage must not be negative", http.StatusBadRequest)
		return
	}

	if _, err := h.assets.FindAssetByAssetID(r.Context(), asset.AssetID); err == nil {
		http.Error(w, "Asset already exists", http.StatusConflict)
		return
	}

	if err := h.assets.InsertAsset(r.Context(), asset); err != nil {
		http.Error(w, "Failed to create asset", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(asset)
}

// UsageHandler ingests cumulative-usage updates from the external
// telemetry/flight-log feed. The only mutator of an asset's counter.
type UsageHandler struct {
	assets db.AssetCollection
}

// NewUsageHandler creates a new usage ingestion handler.
func NewUsageHandler(assets db.AssetCollection) *UsageHandler {
	return &UsageHandler{assets: assets}
}

// ServeHTTP applies a usage update, preserving the monotonic invariant.
func (h *UsageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var update models.UsageUpdate
	if err := json.Unmarshal(body, &update); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if update.AssetID == "" {
		http.Error(w, "asset_id is required", http.StatusBadRequest)
		return
	}
	if update.CumulativeUsage < 0 {
		http.Error(w, "cumulative_usage must not be negative", http.StatusBadRequest)
		return
	}
	if update.ObservedAt.IsZero() {
		update.ObservedAt = time.Now()
	}

	err = h.assets.UpdateUsage(r.Context(), update.AssetID, update.CumulativeUsage, update.ObservedAt)
	switch {
	case errors.Is(err, db.ErrNotFound):
		http.Error(w, "Asset not found", http.StatusNotFound)
		return
	case errors.Is(err, db.ErrUsageRollback):
		http.Error(w, "Cumulative usage may not decrease", http.StatusUnprocessableEntity)
		return
	case err != nil:
		http.Error(w, "Failed to update usage", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
