package services

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/featurestore-backend/internal/cache"
	"github.com/yungbote/featurestore-backend/internal/data/repos"
	types "github.com/yungbote/featurestore-backend/internal/domain"
	"github.com/yungbote/featurestore-backend/internal/featurestore"
	"github.com/yungbote/featurestore-backend/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/featurestore-backend/internal/pkg/errors"
	"github.com/yungbote/featurestore-backend/internal/platform/logger"
)

// VectorRef resolves a read request to a concrete feature version:
// either an explicit version id or a feature name, which maps to the
// feature's currently active version.
type VectorRef struct {
	VersionID   *uuid.UUID
	FeatureName string
}

type ComputeResult struct {
	FeatureVersionID uuid.UUID `json:"feature_version_id"`
	Version          string    `json:"version"`
	Entities         int       `json:"entities_processed"`
	Skipped          int       `json:"records_skipped"`
	KeysInvalidated  int       `json:"cache_keys_invalidated"`
}

type VectorValue struct {
	EntityID         string          `json:"entity_id"`
	FeatureVersionID uuid.UUID       `json:"feature_version_id"`
	Value            json.RawMessage `json:"value"`
	ComputedAt       time.Time       `json:"computed_at"`
}

// VectorService orchestrates computation, persistence, cache
// invalidation, and cached reads. Concurrent computes on the same
// version are not serialized here; the final state follows the last
// persistence to finish.
type VectorService interface {
	Compute(dbc dbctx.Context, featureID uuid.UUID, versionLabel string, records []featurestore.Record) (*ComputeResult, error)
	GetVector(dbc dbctx.Context, entityID string, ref VectorRef) (*VectorValue, error)
	Activate(dbc dbctx.Context, versionID uuid.UUID) (*types.FeatureVersion, error)
	Deprecate(dbc dbctx.Context, versionID uuid.UUID) (*types.FeatureVersion, error)
}

type vectorService struct {
	db         *gorm.DB
	log        *logger.Logger
	tables     repos.RawTableRepo
	rawRecords repos.RawRecordRepo
	features   repos.FeatureRepo
	versions   repos.FeatureVersionRepo
	vectors    repos.FeatureVectorRepo
	cache      *cache.Handle
	flight     singleflight.Group
}

func NewVectorService(
	db *gorm.DB,
	baseLog *logger.Logger,
	tables repos.RawTableRepo,
	rawRecords repos.RawRecordRepo,
	features repos.FeatureRepo,
	versions repos.FeatureVersionRepo,
	vectors repos.FeatureVectorRepo,
	cacheHandle *cache.Handle,
) VectorService {
	return &vectorService{
		db:         db,
		log:        baseLog.With("service", "VectorService"),
		tables:     tables,
		rawRecords: rawRecords,
		features:   features,
		versions:   versions,
		vectors:    vectors,
		cache:      cacheHandle,
	}
}

// Compute runs the full pipeline for one version: validate, compute,
// check the batch, persist, invalidate. Any failure before the
// transaction commits leaves the store and the cache untouched.
func (s *vectorService) Compute(dbc dbctx.Context, featureID uuid.UUID, versionLabel string, records []featurestore.Record) (*ComputeResult, error) {
	if versionLabel == "" {
		return nil, fmt.Errorf("version label is required: %w", pkgerrors.ErrInvalidArgument)
	}
	feature, err := s.features.GetByID(dbc, featureID)
	if err != nil {
		return nil, fmt.Errorf("load feature: %w", err)
	}
	if feature == nil {
		return nil, fmt.Errorf("feature %s: %w", featureID, pkgerrors.ErrNotFound)
	}
	table, err := s.tables.GetByID(dbc, feature.RawTableID)
	if err != nil {
		return nil, fmt.Errorf("load raw table: %w", err)
	}
	if table == nil {
		return nil, fmt.Errorf("raw table %s: %w", feature.RawTableID, pkgerrors.ErrNotFound)
	}
	schema, err := schemaOf(table)
	if err != nil {
		return nil, err
	}
	expr, err := featurestore.ValidateFeature(feature.EntityKey, feature.ComputationLogic, schema)
	if err != nil {
		return nil, err
	}

	// Inline batches are (re)validated here; persisted ones were
	// validated at ingest time.
	if records != nil {
		if err := featurestore.ValidateRecords(schema, records); err != nil {
			return nil, err
		}
	} else {
		records, err = s.loadPersistedRecords(dbc, feature.RawTableID)
		if err != nil {
			return nil, err
		}
	}

	result, err := featurestore.Compute(expr, feature.EntityKey, records)
	if err != nil {
		return nil, err
	}
	if err := featurestore.ValidateVectors(result.Vectors); err != nil {
		return nil, err
	}

	version, err := s.versions.GetByFeatureAndLabel(dbc, featureID, versionLabel)
	if err != nil {
		return nil, fmt.Errorf("load version: %w", err)
	}

	computedAt := time.Now().UTC()
	err = s.db.WithContext(dbc.Ctx).Transaction(func(tx *gorm.DB) error {
		txc := dbc.WithTx(tx)

		if version == nil {
			version = &types.FeatureVersion{
				FeatureID: featureID,
				Version:   versionLabel,
				Status:    types.VersionStatusDraft,
			}
			if err := s.versions.Create(txc, version); err != nil {
				return fmt.Errorf("create version: %w", err)
			}
		}

		rows := make([]*types.FeatureVector, 0, len(result.Vectors))
		for _, v := range result.Vectors {
			raw, err := json.Marshal(v.Value)
			if err != nil {
				return fmt.Errorf("marshal value for entity %q: %w", v.EntityID, err)
			}
			rows = append(rows, &types.FeatureVector{
				FeatureVersionID: version.ID,
				EntityID:         v.EntityID,
				Value:            datatypes.JSON(raw),
				ComputedAt:       computedAt,
			})
		}
		if err := s.vectors.UpsertBatch(txc, rows); err != nil {
			return fmt.Errorf("persist vectors: %w", err)
		}

		// A feature with no serving version yet starts serving from its
		// first computed one; later versions require explicit activation.
		active, err := s.versions.GetActiveByFeature(txc, featureID)
		if err != nil {
			return fmt.Errorf("check active version: %w", err)
		}
		if active == nil {
			if err := s.versions.SetStatus(txc, version.ID, types.VersionStatusActive); err != nil {
				return fmt.Errorf("activate first version: %w", err)
			}
			version.Status = types.VersionStatusActive
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Invalidation is driven by the explicit affected-key list, after
	// the store write is durable.
	keys := make([]string, 0, 2*len(result.Vectors))
	for _, v := range result.Vectors {
		keys = append(keys, cache.VectorKeys(v.EntityID, version.ID.String(), feature.Name)...)
	}
	if len(keys) > 0 {
		s.cache.Delete(dbc.Ctx, keys...)
	}

	s.log.Info("computed feature version",
		"feature_id", featureID,
		"version", versionLabel,
		"entities", len(result.Vectors),
		"skipped", result.Skipped,
	)
	return &ComputeResult{
		FeatureVersionID: version.ID,
		Version:          version.Version,
		Entities:         len(result.Vectors),
		Skipped:          result.Skipped,
		KeysInvalidated:  len(keys),
	}, nil
}

// GetVector serves one entity's value for a version, preferring the
// cache and repopulating it on a store read. Concurrent misses on the
// same key collapse into one store read.
func (s *vectorService) GetVector(dbc dbctx.Context, entityID string, ref VectorRef) (*VectorValue, error) {
	if entityID == "" {
		return nil, fmt.Errorf("entity id is required: %w", pkgerrors.ErrInvalidArgument)
	}

	version, key, err := s.resolve(dbc, entityID, ref)
	if err != nil {
		return nil, err
	}

	if raw, hit := s.cache.Get(dbc.Ctx, key); hit {
		var out VectorValue
		if err := json.Unmarshal(raw, &out); err == nil {
			return &out, nil
		}
		// Undecodable entry: drop it and fall through to the store.
		s.cache.Delete(dbc.Ctx, key)
	}

	value, err, _ := s.flight.Do(key, func() (interface{}, error) {
		vector, err := s.vectors.GetByVersionAndEntity(dbc, version.ID, entityID)
		if err != nil {
			return nil, fmt.Errorf("read vector: %w", err)
		}
		if vector == nil {
			return nil, &featurestore.EntityNotFoundError{EntityID: entityID}
		}
		out := &VectorValue{
			EntityID:         vector.EntityID,
			FeatureVersionID: vector.FeatureVersionID,
			Value:            json.RawMessage(vector.Value),
			ComputedAt:       vector.ComputedAt,
		}
		if raw, err := json.Marshal(out); err == nil {
			s.cache.Set(dbc.Ctx, key, raw, s.cache.DefaultTTL())
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	return value.(*VectorValue), nil
}

// Activate promotes a version to serving status, demoting whichever
// version held it; at most one version per feature is active. Cache
// entries keyed by feature name are invalidated for every entity of
// the demoted version, since the alias now resolves elsewhere.
func (s *vectorService) Activate(dbc dbctx.Context, versionID uuid.UUID) (*types.FeatureVersion, error) {
	version, err := s.versions.GetByID(dbc, versionID)
	if err != nil {
		return nil, fmt.Errorf("load version: %w", err)
	}
	if version == nil {
		return nil, fmt.Errorf("feature version %s: %w", versionID, pkgerrors.ErrNotFound)
	}
	if version.Status == types.VersionStatusActive {
		return version, nil
	}
	feature, err := s.features.GetByID(dbc, version.FeatureID)
	if err != nil {
		return nil, fmt.Errorf("load feature: %w", err)
	}
	if feature == nil {
		return nil, fmt.Errorf("feature %s: %w", version.FeatureID, pkgerrors.ErrNotFound)
	}

	var staleKeys []string
	err = s.db.WithContext(dbc.Ctx).Transaction(func(tx *gorm.DB) error {
		txc := dbc.WithTx(tx)
		previous, err := s.versions.GetActiveByFeature(txc, version.FeatureID)
		if err != nil {
			return fmt.Errorf("load active version: %w", err)
		}
		if previous != nil {
			served, err := s.vectors.ListByVersion(txc, previous.ID)
			if err != nil {
				return fmt.Errorf("list served vectors: %w", err)
			}
			for _, v := range served {
				staleKeys = append(staleKeys, cache.Key("vector", v.EntityID, feature.Name))
			}
		}
		if err := s.versions.DemoteActive(txc, version.FeatureID); err != nil {
			return fmt.Errorf("demote active version: %w", err)
		}
		if err := s.versions.SetStatus(txc, versionID, types.VersionStatusActive); err != nil {
			return fmt.Errorf("promote version: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(staleKeys) > 0 {
		s.cache.Delete(dbc.Ctx, staleKeys...)
	}

	version.Status = types.VersionStatusActive
	s.log.Info("activated feature version", "feature_id", version.FeatureID, "version", version.Version)
	return version, nil
}

func (s *vectorService) Deprecate(dbc dbctx.Context, versionID uuid.UUID) (*types.FeatureVersion, error) {
	version, err := s.versions.GetByID(dbc, versionID)
	if err != nil {
		return nil, fmt.Errorf("load version: %w", err)
	}
	if version == nil {
		return nil, fmt.Errorf("feature version %s: %w", versionID, pkgerrors.ErrNotFound)
	}
	if err := s.versions.SetStatus(dbc, versionID, types.VersionStatusDeprecated); err != nil {
		return nil, fmt.Errorf("deprecate version: %w", err)
	}
	version.Status = types.VersionStatusDeprecated
	s.log.Info("deprecated feature version", "feature_id", version.FeatureID, "version", version.Version)
	return version, nil
}

func (s *vectorService) resolve(dbc dbctx.Context, entityID string, ref VectorRef) (*types.FeatureVersion, string, error) {
	switch {
	case ref.VersionID != nil:
		version, err := s.versions.GetByID(dbc, *ref.VersionID)
		if err != nil {
			return nil, "", fmt.Errorf("load version: %w", err)
		}
		if version == nil {
			return nil, "", fmt.Errorf("feature version %s: %w", *ref.VersionID, pkgerrors.ErrNotFound)
		}
		return version, cache.Key("vector", entityID, version.ID.String()), nil
	case ref.FeatureName != "":
		feature, err := s.features.GetByName(dbc, ref.FeatureName)
		if err != nil {
			return nil, "", fmt.Errorf("load feature: %w", err)
		}
		if feature == nil {
			return nil, "", fmt.Errorf("feature %q: %w", ref.FeatureName, pkgerrors.ErrNotFound)
		}
		version, err := s.versions.GetActiveByFeature(dbc, feature.ID)
		if err != nil {
			return nil, "", fmt.Errorf("load active version: %w", err)
		}
		if version == nil {
			return nil, "", fmt.Errorf("feature %q has no active version: %w", ref.FeatureName, pkgerrors.ErrNotFound)
		}
		return version, cache.Key("vector", entityID, ref.FeatureName), nil
	default:
		return nil, "", fmt.Errorf("either feature_version_id or feature_name must be provided: %w", pkgerrors.ErrInvalidArgument)
	}
}

func (s *vectorService) loadPersistedRecords(dbc dbctx.Context, rawTableID uuid.UUID) ([]featurestore.Record, error) {
	rows, err := s.rawRecords.ListByTable(dbc, rawTableID)
	if err != nil {
		return nil, fmt.Errorf("load persisted records: %w", err)
	}
	records := make([]featurestore.Record, 0, len(rows))
	for _, row := range rows {
		var record featurestore.Record
		if err := json.Unmarshal(row.Payload, &record); err != nil {
			return nil, fmt.Errorf("decode persisted record %s: %w", row.ID, err)
		}
		records = append(records, record)
	}
	return records, nil
}
