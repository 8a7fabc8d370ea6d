package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ukydev/fleet-compliance/internal/models"
)

// AssetCollection defines the interface for asset registry operations.
type AssetCollection interface {
	InsertAsset(ctx context.Context, asset models.Asset) error
	FindAssets(ctx context.Context, filter bson.M) ([]models.Asset, error)
	FindAssetByAssetID(ctx context.Context, assetID string) (*models.Asset, error)
	UpdateUsage(ctx context.Context, assetID string, cumulativeUsage float64, observedAt time.Time) error
	UpdateStatus(ctx context.Context, assetID string, status string) error
}

// MongoAssetCollection implements AssetCollection for MongoDB.
type MongoAssetCollection struct {
	Collection *mongo.Collection
}

// InsertAsset inserts an asset into the registry.
func (c *MongoAssetCollection) InsertAsset(ctx context.Context, asset models.Asset) error {
	asset.CreatedAt = time.Now()
	asset.UpdatedAt = time.Now()
	_, err := c.Collection.InsertOne(ctx, asset)
	return err
}

// FindAssets queries assets with optional filtering.
func (c *MongoAssetCollection) FindAssets(ctx context.Context, filter bson.M) ([]models.Asset, error) {
	if filter == nil {
		filter = bson.M{}
	}
	cursor, err := c.Collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var assets []models.Asset
	if err := cursor.All(ctx, &assets); err != nil {
		return nil, err
	}
	return assets, nil
}

// FindAssetByAssetID finds an asset by its operational id (tail number
// or unit id).
func (c *MongoAssetCollection) FindAssetByAssetID(ctx context.Context, assetID string) (*models.Asset, error) {
	var asset models.Asset
	err := c.Collection.FindOne(ctx, bson.M{"asset_id": assetID}).Decode(&asset)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &asset, nil
}

// UpdateUsage advances the asset's cumulative counter. The update filter
// includes the monotonic guard so a stale concurrent writer can never
// roll the counter back.
func (c *MongoAssetCollection) UpdateUsage(ctx context.Context, assetID string, cumulativeUsage float64, observedAt time.Time) error {
	result, err := c.Collection.UpdateOne(ctx,
		bson.M{"asset_id": assetID, "cumulative_usage": bson.M{"$lte": cumulativeUsage}},
		bson.M{"$set": bson.M{"cumulative_usage": cumulativeUsage, "updated_at": observedAt}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		// Distinguish a missing asset from a rollback attempt.
		if _, findErr := c.FindAssetByAssetID(ctx, assetID); findErr != nil {
			return findErr
		}
		return ErrUsageRollback
	}
	return nil
}

// UpdateStatus sets the asset's operational status.
func (c *MongoAssetCollection) UpdateStatus(ctx context.Context, assetID string, status string) error {
	result, err := c.Collection.UpdateOne(ctx,
		bson.M{"asset_id": assetID},
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now()}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
