package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/yungbote/featurestore-backend/internal/domain"
)

func SeedRawTable(tb testing.TB, ctx context.Context, tx *gorm.DB, name string) *types.RawTable {
	tb.Helper()
	t := &types.RawTable{
		ID:               uuid.New(),
		Name:             name,
		SchemaDefinition: datatypes.JSON([]byte(`{"user_id":"string","amount":"float"}`)),
	}
	if err := tx.WithContext(ctx).Create(t).Error; err != nil {
		tb.Fatalf("seed raw table: %v", err)
	}
	return t
}

func SeedRawRecord(tb testing.TB, ctx context.Context, tx *gorm.DB, tableID uuid.UUID, payload string) *types.RawRecord {
	tb.Helper()
	r := &types.RawRecord{
		ID:         uuid.New(),
		RawTableID: tableID,
		Payload:    datatypes.JSON([]byte(payload)),
	}
	if err := tx.WithContext(ctx).Create(r).Error; err != nil {
		tb.Fatalf("seed raw record: %v", err)
	}
	return r
}

func SeedFeature(tb testing.TB, ctx context.Context, tx *gorm.DB, tableID uuid.UUID, name string) *types.Feature {
	tb.Helper()
	f := &types.Feature{
		ID:               uuid.New(),
		Name:             name,
		RawTableID:       tableID,
		ComputationLogic: "AVG(amount)",
		EntityKey:        "user_id",
	}
	if err := tx.WithContext(ctx).Create(f).Error; err != nil {
		tb.Fatalf("seed feature: %v", err)
	}
	return f
}

func SeedFeatureVersion(tb testing.TB, ctx context.Context, tx *gorm.DB, featureID uuid.UUID, label, status string) *types.FeatureVersion {
	tb.Helper()
	v := &types.FeatureVersion{
		ID:        uuid.New(),
		FeatureID: featureID,
		Version:   label,
		Status:    status,
	}
	if err := tx.WithContext(ctx).Create(v).Error; err != nil {
		tb.Fatalf("seed feature version: %v", err)
	}
	return v
}

func SeedFeatureVector(tb testing.TB, ctx context.Context, tx *gorm.DB, versionID uuid.UUID, entityID, value string) *types.FeatureVector {
	tb.Helper()
	v := &types.FeatureVector{
		ID:               uuid.New(),
		FeatureVersionID: versionID,
		EntityID:         entityID,
		Value:            datatypes.JSON([]byte(value)),
	}
	if err := tx.WithContext(ctx).Create(v).Error; err != nil {
		tb.Fatalf("seed feature vector: %v", err)
	}
	return v
}
