package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AssetKind distinguishes aircraft from ground units. The kind decides
// which cumulative usage counter the asset carries: Hobbs/tach hours for
// aircraft, odometer kilometers for ground vehicles.
type AssetKind string

const (
	KindAircraft AssetKind = "aircraft"
	KindGround   AssetKind = "ground"
)

// Asset statuses.
const (
	StatusAvailable     = "available"
	StatusInMaintenance = "in_maintenance"
	StatusOutOfService  = "out_of_service"
)

// Asset represents one operational unit of the fleet: a HEMS aircraft
// identified by tail number or a ground ambulance identified by unit id.
type Asset struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AssetID         string             `bson:"asset_id" json:"asset_id"` // tail number ("N911MD") or unit id ("M-42")
	Kind            AssetKind          `bson:"kind" json:"kind"`
	Make            string             `bson:"make" json:"make"`
	Model           string             `bson:"model" json:"model"`
	Year            int                `bson:"year" json:"year"`
	UsageUnit       string             `bson:"usage_unit" json:"usage_unit"` // "hours" or "km"
	CumulativeUsage float64            `bson:"cumulative_usage" json:"cumulative_usage"`
	Status          string             `bson:"status" json:"status"`
	Station         string             `bson:"station" json:"station"`
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updated_at"`
}

// UsageUpdate is the write contract the external telemetry/flight-log
// ingestion uses to advance an asset's cumulative counter. Decreasing
// values are rejected; the counter is monotonic over the asset lifetime.
type UsageUpdate struct {
	AssetID         string    `json:"asset_id"`
	CumulativeUsage float64   `json:"cumulative_usage"`
	ObservedAt      time.Time `json:"observed_at"`
}

// IsValidKind reports whether k is a known asset kind.
func IsValidKind(k AssetKind) bool {
	return k == KindAircraft || k == KindGround
}

// IsValidStatus reports whether s is a known asset status.
func IsValidStatus(s string) bool {
	switch s {
	case StatusAvailable, StatusInMaintenance, StatusOutOfService:
		return true
	default:
		return false
	}
}
