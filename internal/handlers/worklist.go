package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/ukydev/fleet-compliance/internal/compliance"
)

// WorklistHandler evaluates a fresh snapshot and returns the
// priority-ordered worklist for one asset or the whole fleet.
type WorklistHandler struct {
	source compliance.SnapshotSource
}

// NewWorklistHandler creates a new worklist handler.
func NewWorklistHandler(source compliance.SnapshotSource) *WorklistHandler {
	return &WorklistHandler{source: source}
}

// ServeHTTP computes the worklist. Per-obligation anomalies ride along
// in the response; only a failed snapshot fetch is fatal.
func (h *WorklistHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	snap, err := h.source.FetchSnapshot(r.Context())
	if err != nil {
		http.Error(w, "Failed to fetch snapshot", http.StatusInternalServerError)
		return
	}

	now := time.Now()
	var wl compliance.Worklist
	if assetID := r.URL.Query().Get("asset_id"); assetID != "" {
		wl, err = compliance.BuildAssetWorklist(snap, assetID, now)
		if err != nil {
			if errors.Is(err, compliance.ErrNotFound) {
				http.Error(w, "Asset not found", http.StatusNotFound)
				return
			}
			http.Error(w, "Failed to build worklist", http.StatusInternalServerError)
			return
		}
	} else {
		wl = compliance.BuildFleetWorklist(snap, now)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(wl)
}
