package compliance

import (
	"context"
	"fmt"

	"github.com/ukydev/fleet-compliance/internal/models"
)

// Snapshot is an immutable view of the backend store at one point in
// time. Every evaluation is a pure function of a snapshot; the engine
// never holds derived state between evaluations, so nothing here can
// silently go stale.
type Snapshot struct {
	Assets     []models.Asset
	Types      []models.MaintenanceType
	Records    []models.MaintenanceRecord
	Directives []models.Directive
}

// SnapshotSource fetches a fresh snapshot from the backing store.
type SnapshotSource interface {
	FetchSnapshot(ctx context.Context) (*Snapshot, error)
}

// Asset resolves an asset by its operational id (tail number / unit id).
func (s *Snapshot) Asset(assetID string) (*models.Asset, error) {
	for i := range s.Assets {
		if s.Assets[i].AssetID == assetID {
			return &s.Assets[i], nil
		}
	}
	return nil, fmt.Errorf("asset %q: %w", assetID, ErrNotFound)
}

// MaintenanceType resolves a catalog entry by code.
func (s *Snapshot) MaintenanceType(code string) (*models.MaintenanceType, error) {
	for i := range s.Types {
		if s.Types[i].Code == code {
			return &s.Types[i], nil
		}
	}
	return nil, fmt.Errorf("maintenance type %q: %w", code, ErrNotFound)
}

// LatestRecord selects the current obligation among the records of one
// (asset, type) pair: maximum performed-at, ties broken by maximum
// usage-at-performance. Returns nil when the pair has no history, which
// is distinct from compliant and is surfaced to the worklist as such.
func LatestRecord(records []models.MaintenanceRecord) *models.MaintenanceRecord {
	var latest *models.MaintenanceRecord
	for i := range records {
		r := &records[i]
		if latest == nil {
			latest = r
			continue
		}
		if r.PerformedAt.After(latest.PerformedAt) {
			latest = r
		} else if r.PerformedAt.Equal(latest.PerformedAt) && r.UsageAtPerformance > latest.UsageAtPerformance {
			latest = r
		}
	}
	return latest
}
