package handlers

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/ukydev/fleet-compliance/internal/compliance"
	"github.com/ukydev/fleet-compliance/internal/models"
)

// MockAssetCollection is a mock implementation of db.AssetCollection
type MockAssetCollection struct {
	mock.Mock
}

func (m *MockAssetCollection) InsertAsset(ctx context.Context, asset models.Asset) error {
	args := m.Called(ctx, asset)
	return args.Error(0)
}

func (m *MockAssetCollection) FindAssets(ctx context.Context, filter bson.M) ([]models.Asset, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Asset), args.Error(1)
}

func (m *MockAssetCollection) FindAssetByAssetID(ctx context.Context, assetID string) (*models.Asset, error) {
	args := m.Called(ctx, assetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Asset), args.Error(1)
}

func (m *MockAssetCollection) UpdateUsage(ctx context.Context, assetID string, cumulativeUsage float64, observedAt time.Time) error {
	args := m.Called(ctx, assetID, cumulativeUsage, observedAt)
	return args.Error(0)
}

func (m *MockAssetCollection) UpdateStatus(ctx context.Context, assetID string, status string) error {
	args := m.Called(ctx, assetID, status)
	return args.Error(0)
}

// MockTypeCollection is a mock implementation of db.TypeCollection
type MockTypeCollection struct {
	mock.Mock
}

func (m *MockTypeCollection) InsertType(ctx context.Context, mt models.MaintenanceType) error {
	args := m.Called(ctx, mt)
	return args.Error(0)
}

func (m *MockTypeCollection) FindTypes(ctx context.Context) ([]models.MaintenanceType, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MaintenanceType), args.Error(1)
}

func (m *MockTypeCollection) FindTypeByCode(ctx context.Context, code string) (*models.MaintenanceType, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MaintenanceType), args.Error(1)
}

// MockRecordCollection is a mock implementation of db.RecordCollection
type MockRecordCollection struct {
	mock.Mock
}

func (m *MockRecordCollection) InsertRecord(ctx context.Context, record models.MaintenanceRecord) (*models.MaintenanceRecord, error) {
	args := m.Called(ctx, record)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MaintenanceRecord), args.Error(1)
}

func (m *MockRecordCollection) FindRecords(ctx context.Context, filter bson.M) ([]models.MaintenanceRecord, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MaintenanceRecord), args.Error(1)
}

// MockDirectiveCollection is a mock implementation of db.DirectiveCollection
type MockDirectiveCollection struct {
	mock.Mock
}

func (m *MockDirectiveCollection) InsertDirective(ctx context.Context, d models.Directive) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDirectiveCollection) FindDirectives(ctx context.Context, filter bson.M) ([]models.Directive, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Directive), args.Error(1)
}

func (m *MockDirectiveCollection) FindDirectiveByDirectiveID(ctx context.Context, directiveID string) (*models.Directive, error) {
	args := m.Called(ctx, directiveID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Directive), args.Error(1)
}

func (m *MockDirectiveCollection) ReplaceDirective(ctx context.Context, directiveID string, d models.Directive) error {
	args := m.Called(ctx, directiveID, d)
	return args.Error(0)
}

// fakeSnapshotSource serves a fixed snapshot or error.
type fakeSnapshotSource struct {
	snap *compliance.Snapshot
	err  error
}

func (f *fakeSnapshotSource) FetchSnapshot(ctx context.Context) (*compliance.Snapshot, error) {
	return f.snap, f.err
}

func fptr(v float64) *float64 { return &v }
