package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ukydev/fleet-compliance/internal/models"
)

// TypeCollection defines the interface for the maintenance type catalog.
type TypeCollection interface {
	InsertType(ctx context.Context, mt models.MaintenanceType) error
	FindTypes(ctx context.Context) ([]models.MaintenanceType, error)
	FindTypeByCode(ctx context.Context, code string) (*models.MaintenanceType, error)
}

// MongoTypeCollection implements TypeCollection for MongoDB.
type MongoTypeCollection struct {
	Collection *mongo.Collection
}

// InsertType inserts a catalog entry after checking the interval
// invariant.
func (c *MongoTypeCollection) InsertType(ctx context.Context, mt models.MaintenanceType) error {
	if err := mt.Validate(); err != nil {
		return err
	}
	mt.CreatedAt = time.Now()
	mt.UpdatedAt = time.Now()
	_, err := c.Collection.InsertOne(ctx, mt)
	return err
}

// FindTypes returns the whole catalog.
func (c *MongoTypeCollection) FindTypes(ctx context.Context) ([]models.MaintenanceType, error) {
	cursor, err := c.Collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var types []models.MaintenanceType
	if err := cursor.All(ctx, &types); err != nil {
		return nil, err
	}
	return types, nil
}

// FindTypeByCode finds a catalog entry by code.
func (c *MongoTypeCollection) FindTypeByCode(ctx context.Context, code string) (*models.MaintenanceType, error) {
	var mt models.MaintenanceType
	err := c.Collection.FindOne(ctx, bson.M{"code": code}).Decode(&mt)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &mt, nil
}

// ValidateCatalog re-checks the interval invariant for every stored
// entry. Run at service boot: a violation is a configuration defect to
// report once at load time, not per evaluation.
func ValidateCatalog(ctx context.Context, types TypeCollection) []error {
	entries, err := types.FindTypes(ctx)
	if err != nil {
		return []error{fmt.Errorf("load catalog: %w", err)}
	}
	var defects []error
	for i := range entries {
		if err := entries[i].Validate(); err != nil {
			defects = append(defects, err)
		}
	}
	return defects
}
