package services

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/featurestore-backend/internal/data/repos"
	types "github.com/yungbote/featurestore-backend/internal/domain"
	"github.com/yungbote/featurestore-backend/internal/featurestore"
	"github.com/yungbote/featurestore-backend/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/featurestore-backend/internal/pkg/errors"
	"github.com/yungbote/featurestore-backend/internal/platform/logger"
)

// RegistryService owns raw table and feature definitions. All
// definition-level validation happens here, before anything is
// persisted.
type RegistryService interface {
	RegisterRawTable(dbc dbctx.Context, name, description string, schemaDef map[string]string) (*types.RawTable, error)
	GetRawTable(dbc dbctx.Context, id uuid.UUID) (*types.RawTable, error)
	ListRawTables(dbc dbctx.Context) ([]*types.RawTable, error)

	CreateFeature(dbc dbctx.Context, name, description string, rawTableID uuid.UUID, computationLogic, entityKey string) (*types.Feature, error)
	GetFeature(dbc dbctx.Context, id uuid.UUID) (*types.Feature, error)
	ListFeatures(dbc dbctx.Context) ([]*types.Feature, error)

	CreateVersion(dbc dbctx.Context, featureID uuid.UUID, label string) (*types.FeatureVersion, error)
	ListVersions(dbc dbctx.Context, featureID uuid.UUID) ([]*types.FeatureVersion, error)
}

type registryService struct {
	db       *gorm.DB
	log      *logger.Logger
	tables   repos.RawTableRepo
	features repos.FeatureRepo
	versions repos.FeatureVersionRepo
}

func NewRegistryService(
	db *gorm.DB,
	baseLog *logger.Logger,
	tables repos.RawTableRepo,
	features repos.FeatureRepo,
	versions repos.FeatureVersionRepo,
) RegistryService {
	return &registryService{
		db:       db,
		log:      baseLog.With("service", "RegistryService"),
		tables:   tables,
		features: features,
		versions: versions,
	}
}

func (s *registryService) RegisterRawTable(dbc dbctx.Context, name, description string, schemaDef map[string]string) (*types.RawTable, error) {
	if name == "" {
		return nil, fmt.Errorf("raw table name is required: %w", pkgerrors.ErrInvalidArgument)
	}
	if _, err := featurestore.ParseSchema(schemaDef); err != nil {
		return nil, fmt.Errorf("%v: %w", err, pkgerrors.ErrInvalidArgument)
	}
	exists, err := s.tables.NameExists(dbc, name)
	if err != nil {
		return nil, fmt.Errorf("check raw table name: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("raw table %q: %w", name, pkgerrors.ErrConflict)
	}

	raw, err := json.Marshal(schemaDef)
	if err != nil {
		return nil, fmt.Errorf("marshal schema definition: %w", err)
	}
	table := &types.RawTable{
		Name:             name,
		Description:      description,
		SchemaDefinition: datatypes.JSON(raw),
	}
	if err := s.tables.Create(dbc, table); err != nil {
		return nil, fmt.Errorf("create raw table: %w", err)
	}
	s.log.Info("registered raw table", "raw_table_id", table.ID, "name", name, "columns", len(schemaDef))
	return table, nil
}

func (s *registryService) GetRawTable(dbc dbctx.Context, id uuid.UUID) (*types.RawTable, error) {
	table, err := s.tables.GetByID(dbc, id)
	if err != nil {
		return nil, err
	}
	if table == nil {
		return nil, fmt.Errorf("raw table %s: %w", id, pkgerrors.ErrNotFound)
	}
	return table, nil
}

func (s *registryService) ListRawTables(dbc dbctx.Context) ([]*types.RawTable, error) {
	return s.tables.List(dbc)
}

func (s *registryService) CreateFeature(dbc dbctx.Context, name, description string, rawTableID uuid.UUID, computationLogic, entityKey string) (*types.Feature, error) {
	if name == "" {
		return nil, fmt.Errorf("feature name is required: %w", pkgerrors.ErrInvalidArgument)
	}
	table, err := s.tables.GetByID(dbc, rawTableID)
	if err != nil {
		return nil, fmt.Errorf("load raw table: %w", err)
	}
	if table == nil {
		return nil, fmt.Errorf("raw table %s: %w", rawTableID, pkgerrors.ErrNotFound)
	}

	schema, err := schemaOf(table)
	if err != nil {
		return nil, err
	}
	// Definition check happens before the insert; the original design
	// inserted first and deleted invalid rows afterwards.
	if _, err := featurestore.ValidateFeature(entityKey, computationLogic, schema); err != nil {
		return nil, err
	}

	exists, err := s.features.NameExists(dbc, name)
	if err != nil {
		return nil, fmt.Errorf("check feature name: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("feature %q: %w", name, pkgerrors.ErrConflict)
	}

	feature := &types.Feature{
		Name:             name,
		Description:      description,
		RawTableID:       rawTableID,
		ComputationLogic: computationLogic,
		EntityKey:        entityKey,
	}
	if err := s.features.Create(dbc, feature); err != nil {
		return nil, fmt.Errorf("create feature: %w", err)
	}
	s.log.Info("created feature", "feature_id", feature.ID, "name", name, "raw_table_id", rawTableID)
	return feature, nil
}

func (s *registryService) GetFeature(dbc dbctx.Context, id uuid.UUID) (*types.Feature, error) {
	feature, err := s.features.GetByID(dbc, id)
	if err != nil {
		return nil, err
	}
	if feature == nil {
		return nil, fmt.Errorf("feature %s: %w", id, pkgerrors.ErrNotFound)
	}
	return feature, nil
}

func (s *registryService) ListFeatures(dbc dbctx.Context) ([]*types.Feature, error) {
	return s.features.List(dbc)
}

func (s *registryService) CreateVersion(dbc dbctx.Context, featureID uuid.UUID, label string) (*types.FeatureVersion, error) {
	if label == "" {
		return nil, fmt.Errorf("version label is required: %w", pkgerrors.ErrInvalidArgument)
	}
	feature, err := s.features.GetByID(dbc, featureID)
	if err != nil {
		return nil, fmt.Errorf("load feature: %w", err)
	}
	if feature == nil {
		return nil, fmt.Errorf("feature %s: %w", featureID, pkgerrors.ErrNotFound)
	}
	existing, err := s.versions.GetByFeatureAndLabel(dbc, featureID, label)
	if err != nil {
		return nil, fmt.Errorf("check version label: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("version %q of feature %s: %w", label, featureID, pkgerrors.ErrConflict)
	}

	version := &types.FeatureVersion{
		FeatureID: featureID,
		Version:   label,
		Status:    types.VersionStatusDraft,
	}
	if err := s.versions.Create(dbc, version); err != nil {
		return nil, fmt.Errorf("create version: %w", err)
	}
	s.log.Info("created feature version", "feature_id", featureID, "version", label)
	return version, nil
}

func (s *registryService) ListVersions(dbc dbctx.Context, featureID uuid.UUID) ([]*types.FeatureVersion, error) {
	return s.versions.ListByFeature(dbc, featureID)
}

func schemaOf(table *types.RawTable) (featurestore.Schema, error) {
	var raw map[string]string
	if err := json.Unmarshal(table.SchemaDefinition, &raw); err != nil {
		return nil, fmt.Errorf("decode schema definition of %q: %w", table.Name, err)
	}
	schema, err := featurestore.ParseSchema(raw)
	if err != nil {
		return nil, fmt.Errorf("schema definition of %q: %w", table.Name, err)
	}
	return schema, nil
}
