package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/featurestore-backend/internal/data/repos"
	"github.com/yungbote/featurestore-backend/internal/data/repos/testutil"
	types "github.com/yungbote/featurestore-backend/internal/domain"
	"github.com/yungbote/featurestore-backend/internal/featurestore"
	"github.com/yungbote/featurestore-backend/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/featurestore-backend/internal/pkg/errors"
)

func newIngestService(t *testing.T) (IngestService, *gorm.DB) {
	t.Helper()
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	logg := testutil.Logger(t)
	svc := NewIngestService(
		tx,
		logg,
		repos.NewRawTableRepo(tx, logg),
		repos.NewRawRecordRepo(tx, logg),
	)
	return svc, tx
}

func TestIngestPersistsBatch(t *testing.T) {
	svc, tx := newIngestService(t)
	table := testutil.SeedRawTable(t, context.Background(), tx, "transactions")

	count, err := svc.Ingest(dbctx.Background(), table.ID, []featurestore.Record{
		{"user_id": "u1", "amount": 10.0},
		{"user_id": "u2", "amount": "5.5"},
	})
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 persisted, got %d", count)
	}

	var n int64
	if err := tx.Model(&types.RawRecord{}).Where("raw_table_id = ?", table.ID).Count(&n).Error; err != nil {
		t.Fatalf("count records: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 rows, found %d", n)
	}
}

func TestIngestRejectsWholeBatchOnViolation(t *testing.T) {
	svc, tx := newIngestService(t)
	table := testutil.SeedRawTable(t, context.Background(), tx, "transactions")

	_, err := svc.Ingest(dbctx.Background(), table.ID, []featurestore.Record{
		{"user_id": "u1", "amount": 10.0},
		{"user_id": "u2", "amount": "lots"},
		{"user_id": "u3"},
	})
	var verr *featurestore.SchemaValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected SchemaValidationError, got %v", err)
	}
	if len(verr.Violations) != 2 {
		t.Fatalf("expected 2 violations reported, got %d", len(verr.Violations))
	}

	var n int64
	if err := tx.Model(&types.RawRecord{}).Where("raw_table_id = ?", table.ID).Count(&n).Error; err != nil {
		t.Fatalf("count records: %v", err)
	}
	if n != 0 {
		t.Fatalf("rejected batch must persist nothing, found %d rows", n)
	}
}

func TestIngestEdgeCases(t *testing.T) {
	svc, tx := newIngestService(t)
	table := testutil.SeedRawTable(t, context.Background(), tx, "transactions")

	if _, err := svc.Ingest(dbctx.Background(), table.ID, nil); !errors.Is(err, pkgerrors.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument for empty batch, got %v", err)
	}
	if _, err := svc.Ingest(dbctx.Background(), uuid.New(), []featurestore.Record{{"user_id": "u1"}}); !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Fatalf("expected not found for unknown table, got %v", err)
	}
}
