package services

import (
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

func newRegistryService(t *testing.T) (RegistryService, *gorm.DB) {
	t.Helper()
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	logg := testutil.Logger(t)
	svc := NewRegistryService(
		tx,
		logg,
		repos.NewRawTableRepo(tx, logg),
		repos.NewFeatureRepo(tx, logg),
		repos.NewFeatureVersionRepo(tx, logg),
	)
	return svc, tx
}

func txnSchema() map[string]string {
	return map[string]string{
		"user_id": "string",
		"amount":  "float",
	}
}

func TestRegisterRawTable(t *testing.T) {
	svc, _ := newRegistryService(t)
	dbc := dbctx.Background()

	table, err := svc.RegisterRawTable(dbc, "transactions", "payment events", txnSchema())
	if err != nil {
		t.Fatalf("RegisterRawTable: %v", err)
	}
	if table.ID == uuid.Nil {
		t.Fatal("expected generated id")
	}

	got, err := svc.GetRawTable(dbc, table.ID)
	if err != nil {
		t.Fatalf("GetRawTable: %v", err)
	}
	if got.Name != "transactions" {
		t.Fatalf("unexpected name %q", got.Name)
	}
}

func TestRegisterRawTableDuplicateName(t *testing.T) {
	svc, _ := newRegistryService(t)
	dbc := dbctx.Background()

	if _, err := svc.RegisterRawTable(dbc, "transactions", "", txnSchema()); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, err := svc.RegisterRawTable(dbc, "transactions", "", txnSchema())
	if !errors.Is(err, pkgerrors.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestRegisterRawTableRejectsBadSchema(t *testing.T) {
	svc, _ := newRegistryService(t)
	dbc := dbctx.Background()

	_, err := svc.RegisterRawTable(dbc, "events", "", map[string]string{"ts": "timestamp"})
	if !errors.Is(err, pkgerrors.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument for unknown column type, got %v", err)
	}
	_, err = svc.RegisterRawTable(dbc, "", "", txnSchema())
	if !errors.Is(err, pkgerrors.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument for empty name, got %v", err)
	}
}

func TestCreateFeatureValidatesDefinition(t *testing.T) {
	svc, _ := newRegistryService(t)
	dbc := dbctx.Background()

	table, err := svc.RegisterRawTable(dbc, "transactions", "", txnSchema())
	if err != nil {
		t.Fatalf("RegisterRawTable: %v", err)
	}

	feature, err := svc.CreateFeature(dbc, "avg_spend", "", table.ID, "AVG(amount)", "user_id")
	if err != nil {
		t.Fatalf("CreateFeature: %v", err)
	}
	if feature.ComputationLogic != "AVG(amount)" {
		t.Fatalf("unexpected logic %q", feature.ComputationLogic)
	}

	// Entity key must be a schema column.
	_, err = svc.CreateFeature(dbc, "bad_key", "", table.ID, "AVG(amount)", "customer")
	var keyErr *featurestore.InvalidEntityKeyError
	if !errors.As(err, &keyErr) {
		t.Fatalf("expected InvalidEntityKeyError, got %v", err)
	}

	// Logic must reference schema columns.
	_, err = svc.CreateFeature(dbc, "bad_col", "", table.ID, "AVG(total)", "user_id")
	var logicErr *featurestore.InvalidComputationLogicError
	if !errors.As(err, &logicErr) {
		t.Fatalf("expected InvalidComputationLogicError, got %v", err)
	}

	// Only the supported aggregation verbs parse.
	_, err = svc.CreateFeature(dbc, "bad_verb", "", table.ID, "MEDIAN(amount)", "user_id")
	var verbErr *featurestore.UnsupportedComputationError
	if !errors.As(err, &verbErr) {
		t.Fatalf("expected UnsupportedComputationError, got %v", err)
	}
}

func TestCreateFeatureDuplicateName(t *testing.T) {
	svc, _ := newRegistryService(t)
	dbc := dbctx.Background()

	table, err := svc.RegisterRawTable(dbc, "transactions", "", txnSchema())
	if err != nil {
		t.Fatalf("RegisterRawTable: %v", err)
	}
	if _, err := svc.CreateFeature(dbc, "avg_spend", "", table.ID, "AVG(amount)", "user_id"); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err = svc.CreateFeature(dbc, "avg_spend", "", table.ID, "SUM(amount)", "user_id")
	if !errors.Is(err, pkgerrors.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestCreateVersionStartsDraft(t *testing.T) {
	svc, _ := newRegistryService(t)
	dbc := dbctx.Background()

	table, err := svc.RegisterRawTable(dbc, "transactions", "", txnSchema())
	if err != nil {
		t.Fatalf("RegisterRawTable: %v", err)
	}
	feature, err := svc.CreateFeature(dbc, "avg_spend", "", table.ID, "AVG(amount)", "user_id")
	if err != nil {
		t.Fatalf("CreateFeature: %v", err)
	}

	version, err := svc.CreateVersion(dbc, feature.ID, "v1")
	if err != nil {
		t.Fatalf("CreateVersion: %v", err)
	}
	if version.Status != types.VersionStatusDraft {
		t.Fatalf("expected draft status, got %q", version.Status)
	}

	_, err = svc.CreateVersion(dbc, feature.ID, "v1")
	if !errors.Is(err, pkgerrors.ErrConflict) {
		t.Fatalf("expected conflict on duplicate label, got %v", err)
	}

	versions, err := svc.ListVersions(dbc, feature.ID)
	if err != nil {
		t.Fatalf("ListVersions: %v", err)
	}
	if len(versions) != 1 {
		t.Fatalf("expected 1 version, got %d", len(versions))
	}
}
