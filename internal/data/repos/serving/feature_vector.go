package serving

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/featurestore-backend/internal/domain"
	"github.com/yungbote/featurestore-backend/internal/pkg/dbctx"
	"github.com/yungbote/featurestore-backend/internal/platform/logger"
)

type FeatureVectorRepo interface {
	UpsertBatch(dbc dbctx.Context, vectors []*types.FeatureVector) error
	GetByVersionAndEntity(dbc dbctx.Context, versionID uuid.UUID, entityID string) (*types.FeatureVector, error)
	ListByVersion(dbc dbctx.Context, versionID uuid.UUID) ([]*types.FeatureVector, error)
}

type featureVectorRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFeatureVectorRepo(db *gorm.DB, baseLog *logger.Logger) FeatureVectorRepo {
	return &featureVectorRepo{
		db:  db,
		log: baseLog.With("repo", "FeatureVectorRepo"),
	}
}

func (r *featureVectorRepo) conn(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

// UpsertBatch overwrites any existing vector for the same
// (version, entity) pair; recomputation is last-write-wins at the row
// level.
func (r *featureVectorRepo) UpsertBatch(dbc dbctx.Context, vectors []*types.FeatureVector) error {
	if len(vectors) == 0 {
		return nil
	}
	return r.conn(dbc).WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "feature_version_id"},
				{Name: "entity_id"},
			},
			DoUpdates: clause.AssignmentColumns([]string{"value", "computed_at"}),
		}).
		CreateInBatches(&vectors, 500).Error
}

func (r *featureVectorRepo) GetByVersionAndEntity(dbc dbctx.Context, versionID uuid.UUID, entityID string) (*types.FeatureVector, error) {
	var vector types.FeatureVector
	err := r.conn(dbc).WithContext(dbc.Ctx).
		Where("feature_version_id = ? AND entity_id = ?", versionID, entityID).
		Limit(1).
		Find(&vector).Error
	if err != nil {
		return nil, err
	}
	if vector.ID == uuid.Nil {
		return nil, nil
	}
	return &vector, nil
}

func (r *featureVectorRepo) ListByVersion(dbc dbctx.Context, versionID uuid.UUID) ([]*types.FeatureVector, error) {
	var out []*types.FeatureVector
	if err := r.conn(dbc).WithContext(dbc.Ctx).
		Where("feature_version_id = ?", versionID).
		Order("entity_id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
