package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ukydev/fleet-compliance/internal/models"
)

// DirectiveCollection defines the interface for regulatory directive
// tracking.
type DirectiveCollection interface {
	InsertDirective(ctx context.Context, d models.Directive) error
	FindDirectives(ctx context.Context, filter bson.M) ([]models.Directive, error)
	FindDirectiveByDirectiveID(ctx context.Context, directiveID string) (*models.Directive, error)
	ReplaceDirective(ctx context.Context, directiveID string, d models.Directive) error
}

// MongoDirectiveCollection implements DirectiveCollection for MongoDB.
type MongoDirectiveCollection struct {
	Collection *mongo.Collection
}

// InsertDirective inserts a directive. New directives start pending.
func (c *MongoDirectiveCollection) InsertDirective(ctx context.Context, d models.Directive) error {
	if d.Status == "" {
		d.Status = models.DirectivePending
	}
	d.CreatedAt = time.Now()
	d.UpdatedAt = time.Now()
	_, err := c.Collection.InsertOne(ctx, d)
	return err
}

// FindDirectives queries directives with optional filtering.
func (c *MongoDirectiveCollection) FindDirectives(ctx context.Context, filter bson.M) ([]models.Directive, error) {
	if filter == nil {
		filter = bson.M{}
	}
	cursor, err := c.Collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var directives []models.Directive
	if err := cursor.All(ctx, &directives); err != nil {
		return nil, err
	}
	return directives, nil
}

// FindDirectiveByDirectiveID finds a directive by its regulatory id.
func (c *MongoDirectiveCollection) FindDirectiveByDirectiveID(ctx context.Context, directiveID string) (*models.Directive, error) {
	var d models.Directive
	err := c.Collection.FindOne(ctx, bson.M{"directive_id": directiveID}).Decode(&d)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

// ReplaceDirective stores the directive state produced by a compliance
// transition.
func (c *MongoDirectiveCollection) ReplaceDirective(ctx context.Context, directiveID string, d models.Directive) error {
	result, err := c.Collection.ReplaceOne(ctx, bson.M{"directive_id": directiveID}, d)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
