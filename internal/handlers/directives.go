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

// directiveView is a directive plus its derived status. The stored
// document only carries pending/complied; overdue is computed from the
// current counters on every read.
type directiveView struct {
	models.Directive
	DerivedStatus string `json:"derived_status"`
}

// DirectiveHandler handles regulatory directive tracking.
type DirectiveHandler struct {
	directives db.DirectiveCollection
	assets     db.AssetCollection
}

// NewDirectiveHandler creates a new directive handler.
func NewDirectiveHandler(directives db.DirectiveCollection, assets db.AssetCollection) *DirectiveHandler {
	return &DirectiveHandler{directives: directives, assets: assets}
}

// ServeHTTP routes directive listing and creation.
func (h *DirectiveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *DirectiveHandler) list(w http.ResponseWriter, r *http.Request) {
	filter := bson.M{}
	if assetID := r.URL.Query().Get("asset_id"); assetID != "" {
		filter["asset_id"] = assetID
	}

	directives, err := h.directives.FindDirectives(r.Context(), filter)
	if err != nil {
		http.Error(w, "Failed to fetch directives", http.StatusInternalServerError)
		return
	}

	now := time.Now()
	views := make([]directiveView, 0, len(directives))
	for i := range directives {
		d := directives[i]
		usage := 0.0
		if asset, err := h.assets.FindAssetByAssetID(r.Context(), d.AssetID); err == nil {
			usage = asset.CumulativeUsage
		}
		views = append(views, directiveView{
			Directive:     d,
			DerivedStatus: compliance.DeriveDirectiveStatus(&d, usage, now),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(views)
}

func (h *DirectiveHandler) create(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var d models.Directive
	if err := json.Unmarshal(body, &d); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if d.DirectiveID == "" || d.AssetID == "" {
		http.Error(w, "directive_id and asset_id are required", http.StatusBadRequest)
		return
	}
	if _, err := h.assets.FindAssetByAssetID(r.Context(), d.AssetID); err != nil {
		http.Error(w, "Asset not found", http.StatusNotFound)
		return
	}
	if _, err := h.directives.FindDirectiveByDirectiveID(r.Context(), d.DirectiveID); err == nil {
		http.Error(w, "Directive already exists", http.StatusConflict)
		return
	}

	d.Status = models.DirectivePending
	if err := h.directives.InsertDirective(r.Context(), d); err != nil {
		http.Error(w, "Failed to create directive", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(d)
}

// ComplianceHandler records directive compliance events, running the
// directive state machine.
type ComplianceHandler struct {
	directives db.DirectiveCollection
}

// NewComplianceHandler creates a new compliance recording handler.
func NewComplianceHandler(directives db.DirectiveCollection) *ComplianceHandler {
	return &ComplianceHandler{directives: directives}
}

// ServeHTTP applies one compliance event.
func (h *ComplianceHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var req models.RecordComplianceRequest
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if req.DirectiveID == "" {
		http.Error(w, "directive_id is required", http.StatusBadRequest)
		return
	}
	if req.CompliedAt.IsZero() {
		req.CompliedAt = time.Now()
	}

	d, err := h.directives.FindDirectiveByDirectiveID(r.Context(), req.DirectiveID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			http.Error(w, "Directive not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to resolve directive", http.StatusInternalServerError)
		return
	}

	updated, err := compliance.ApplyCompliance(*d, req.CompliedAt, req.UsageAtCompliance)
	if err != nil {
		if errors.Is(err, compliance.ErrInvalidTransition) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		http.Error(w, "Failed to record compliance", http.StatusInternalServerError)
		return
	}

	if err := h.directives.ReplaceDirective(r.Context(), req.DirectiveID, updated); err != nil {
		http.Error(w, "Failed to store directive", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(updated)
}
