package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaintenanceRecord is one completed maintenance event. Records are
// append-only: the ledger for an (asset, type) pair is never rewritten,
// and the current obligation for the type is always the most recently
// performed record.
//
// NextDueUsage and NextDueDate are computed when the record is created:
// usage_at_performance + usage_interval and performed_at + calendar
// interval respectively. Both may be present; the obligation is then
// satisfied by whichever triggers first.
type MaintenanceRecord struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AssetID            string             `bson:"asset_id" json:"asset_id"`
	TypeCode           string             `bson:"type_code" json:"type_code"`
	PerformedAt        time.Time          `bson:"performed_at" json:"performed_at"`
	UsageAtPerformance float64            `bson:"usage_at_performance" json:"usage_at_performance"`
	NextDueUsage       *float64           `bson:"next_due_usage,omitempty" json:"next_due_usage,omitempty"`
	NextDueDate        *time.Time         `bson:"next_due_date,omitempty" json:"next_due_date,omitempty"`
	Technician         string             `bson:"technician" json:"technician"`
	WorkOrder          string             `bson:"work_order" json:"work_order"`
	Notes              string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt          time.Time          `bson:"created_at" json:"created_at"`
}

// RecordMaintenanceRequest is the write contract for reporting completed
// maintenance work. Next-due markers are derived from the catalog entry,
// never supplied by the caller.
type RecordMaintenanceRequest struct {
	AssetID            string    `json:"asset_id"`
	TypeCode           string    `json:"type_code"`
	PerformedAt        time.Time `json:"performed_at"`
	UsageAtPerformance float64   `json:"usage_at_performance"`
	Technician         string    `json:"technician"`
	WorkOrder          string    `json:"work_order"`
	Notes              string    `json:"notes,omitempty"`
}
