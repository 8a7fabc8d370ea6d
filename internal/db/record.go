package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ukydev/fleet-compliance/internal/models"
)

// RecordCollection defines the interface for the append-only maintenance
// ledger. Records are inserted when work completes and never mutated.
type RecordCollection interface {
	InsertRecord(ctx context.Context, record models.MaintenanceRecord) (*models.MaintenanceRecord, error)
	FindRecords(ctx context.Context, filter bson.M) ([]models.MaintenanceRecord, error)
}

// MongoRecordCollection implements RecordCollection for MongoDB.
type MongoRecordCollection struct {
	Collection *mongo.Collection
}

// InsertRecord appends a completed maintenance event to the ledger.
func (c *MongoRecordCollection) InsertRecord(ctx context.Context, record models.MaintenanceRecord) (*models.MaintenanceRecord, error) {
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	result, err := c.Collection.InsertOne(ctx, record)
	if err != nil {
		return nil, err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		record.ID = oid
	}
	return &record, nil
}

// FindRecords queries ledger entries with optional filtering.
func (c *MongoRecordCollection) FindRecords(ctx context.Context, filter bson.M) ([]models.MaintenanceRecord, error) {
	if filter == nil {
		filter = bson.M{}
	}
	cursor, err := c.Collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []models.MaintenanceRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}
