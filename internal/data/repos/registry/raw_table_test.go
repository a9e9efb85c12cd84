package registry_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/featurestore-backend/internal/data/repos/registry"
	"github.com/yungbote/featurestore-backend/internal/data/repos/testutil"
	types "github.com/yungbote/featurestore-backend/internal/domain"
	"github.com/yungbote/featurestore-backend/internal/pkg/dbctx"
)

func TestRawTableRepoCRUD(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := registry.NewRawTableRepo(db, testutil.Logger(t))
	dbc := dbctx.Background().WithTx(tx)

	table := &types.RawTable{
		Name:             "transactions",
		Description:      "payment events",
		SchemaDefinition: datatypes.JSON([]byte(`{"user_id":"string","amount":"float"}`)),
	}
	if err := repo.Create(dbc, table); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if table.ID == uuid.Nil {
		t.Fatal("expected generated id")
	}

	byID, err := repo.GetByID(dbc, table.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if byID == nil || byID.Name != "transactions" {
		t.Fatalf("GetByID returned %+v", byID)
	}

	byName, err := repo.GetByName(dbc, "transactions")
	if err != nil {
		t.Fatalf("GetByName: %v", err)
	}
	if byName == nil || byName.ID != table.ID {
		t.Fatalf("GetByName returned %+v", byName)
	}

	exists, err := repo.NameExists(dbc, "transactions")
	if err != nil || !exists {
		t.Fatalf("NameExists: exists=%v err=%v", exists, err)
	}
	exists, err = repo.NameExists(dbc, "sessions")
	if err != nil || exists {
		t.Fatalf("NameExists for unknown name: exists=%v err=%v", exists, err)
	}
}

func TestRawTableRepoMissingRow(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := registry.NewRawTableRepo(db, testutil.Logger(t))
	dbc := dbctx.Background().WithTx(tx)

	table, err := repo.GetByID(dbc, uuid.New())
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if table != nil {
		t.Fatalf("expected nil for missing row, got %+v", table)
	}

	table, err = repo.GetByName(dbc, "nope")
	if err != nil {
		t.Fatalf("GetByName: %v", err)
	}
	if table != nil {
		t.Fatalf("expected nil for missing row, got %+v", table)
	}
}

func TestRawRecordRepoBatch(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := registry.NewRawRecordRepo(db, testutil.Logger(t))
	dbc := dbctx.Background().WithTx(tx)

	table := testutil.SeedRawTable(t, ctx, tx, "transactions")
	batch := []*types.RawRecord{
		{RawTableID: table.ID, Payload: datatypes.JSON([]byte(`{"user_id":"u1","amount":10}`))},
		{RawTableID: table.ID, Payload: datatypes.JSON([]byte(`{"user_id":"u2","amount":5}`))},
	}
	if err := repo.CreateBatch(dbc, batch); err != nil {
		t.Fatalf("CreateBatch: %v", err)
	}

	rows, err := repo.ListByTable(dbc, table.ID)
	if err != nil {
		t.Fatalf("ListByTable: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	count, err := repo.CountByTable(dbc, table.ID)
	if err != nil || count != 2 {
		t.Fatalf("CountByTable: count=%d err=%v", count, err)
	}

	count, err = repo.CountByTable(dbc, uuid.New())
	if err != nil || count != 0 {
		t.Fatalf("CountByTable for unknown table: count=%d err=%v", count, err)
	}
}

func TestFeatureRepoLookups(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := registry.NewFeatureRepo(db, testutil.Logger(t))
	dbc := dbctx.Background().WithTx(tx)

	table := testutil.SeedRawTable(t, ctx, tx, "transactions")
	feature := testutil.SeedFeature(t, ctx, tx, table.ID, "avg_spend")

	byName, err := repo.GetByName(dbc, "avg_spend")
	if err != nil {
		t.Fatalf("GetByName: %v", err)
	}
	if byName == nil || byName.ID != feature.ID {
		t.Fatalf("GetByName returned %+v", byName)
	}

	byTable, err := repo.ListByRawTable(dbc, table.ID)
	if err != nil {
		t.Fatalf("ListByRawTable: %v", err)
	}
	if len(byTable) != 1 || byTable[0].ID != feature.ID {
		t.Fatalf("ListByRawTable returned %d rows", len(byTable))
	}

	missing, err := repo.GetByID(dbc, uuid.New())
	if err != nil || missing != nil {
		t.Fatalf("expected nil for missing feature, got %+v err=%v", missing, err)
	}
}
