package serving_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/featurestore-backend/internal/data/repos/serving"
	"github.com/yungbote/featurestore-backend/internal/data/repos/testutil"
	types "github.com/yungbote/featurestore-backend/internal/domain"
	"github.com/yungbote/featurestore-backend/internal/pkg/dbctx"
)

func TestFeatureVectorRepoUpsertOverwrites(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := serving.NewFeatureVectorRepo(db, testutil.Logger(t))
	dbc := dbctx.Background().WithTx(tx)

	table := testutil.SeedRawTable(t, ctx, tx, "transactions")
	feature := testutil.SeedFeature(t, ctx, tx, table.ID, "avg_spend")
	version := testutil.SeedFeatureVersion(t, ctx, tx, feature.ID, "v1", types.VersionStatusActive)

	first := []*types.FeatureVector{
		{FeatureVersionID: version.ID, EntityID: "u1", Value: datatypes.JSON([]byte(`15.0`)), ComputedAt: time.Now().UTC()},
		{FeatureVersionID: version.ID, EntityID: "u2", Value: datatypes.JSON([]byte(`5.0`)), ComputedAt: time.Now().UTC()},
	}
	if err := repo.UpsertBatch(dbc, first); err != nil {
		t.Fatalf("UpsertBatch: %v", err)
	}

	// Same (version, entity) pair again: the row is overwritten, not
	// duplicated.
	second := []*types.FeatureVector{
		{FeatureVersionID: version.ID, EntityID: "u1", Value: datatypes.JSON([]byte(`20.0`)), ComputedAt: time.Now().UTC()},
	}
	if err := repo.UpsertBatch(dbc, second); err != nil {
		t.Fatalf("UpsertBatch overwrite: %v", err)
	}

	rows, err := repo.ListByVersion(dbc, version.ID)
	if err != nil {
		t.Fatalf("ListByVersion: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows after overwrite, got %d", len(rows))
	}

	u1, err := repo.GetByVersionAndEntity(dbc, version.ID, "u1")
	if err != nil || u1 == nil {
		t.Fatalf("GetByVersionAndEntity: %v", err)
	}
	if string(u1.Value) != "20.0" {
		t.Fatalf("expected overwritten value 20.0, got %s", u1.Value)
	}
}

func TestFeatureVectorRepoMissingRow(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := serving.NewFeatureVectorRepo(db, testutil.Logger(t))
	dbc := dbctx.Background().WithTx(tx)

	vector, err := repo.GetByVersionAndEntity(dbc, uuid.New(), "nobody")
	if err != nil {
		t.Fatalf("GetByVersionAndEntity: %v", err)
	}
	if vector != nil {
		t.Fatalf("expected nil for missing vector, got %+v", vector)
	}

	if err := repo.UpsertBatch(dbc, nil); err != nil {
		t.Fatalf("empty UpsertBatch must be a no-op, got %v", err)
	}
}
