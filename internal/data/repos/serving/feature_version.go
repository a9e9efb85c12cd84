package serving

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/featurestore-backend/internal/domain"
	"github.com/yungbote/featurestore-backend/internal/pkg/dbctx"
	"github.com/yungbote/featurestore-backend/internal/platform/logger"
)

type FeatureVersionRepo interface {
	Create(dbc dbctx.Context, version *types.FeatureVersion) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.FeatureVersion, error)
	GetByFeatureAndLabel(dbc dbctx.Context, featureID uuid.UUID, label string) (*types.FeatureVersion, error)
	GetActiveByFeature(dbc dbctx.Context, featureID uuid.UUID) (*types.FeatureVersion, error)
	ListByFeature(dbc dbctx.Context, featureID uuid.UUID) ([]*types.FeatureVersion, error)
	SetStatus(dbc dbctx.Context, id uuid.UUID, status string) error
	DemoteActive(dbc dbctx.Context, featureID uuid.UUID) error
}

type featureVersionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFeatureVersionRepo(db *gorm.DB, baseLog *logger.Logger) FeatureVersionRepo {
	return &featureVersionRepo{
		db:  db,
		log: baseLog.With("repo", "FeatureVersionRepo"),
	}
}

func (r *featureVersionRepo) conn(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *featureVersionRepo) Create(dbc dbctx.Context, version *types.FeatureVersion) error {
	return r.conn(dbc).WithContext(dbc.Ctx).Create(version).Error
}

func (r *featureVersionRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.FeatureVersion, error) {
	var version types.FeatureVersion
	err := r.conn(dbc).WithContext(dbc.Ctx).
		Where("id = ?", id).
		Limit(1).
		Find(&version).Error
	if err != nil {
		return nil, err
	}
	if version.ID == uuid.Nil {
		return nil, nil
	}
	return &version, nil
}

func (r *featureVersionRepo) GetByFeatureAndLabel(dbc dbctx.Context, featureID uuid.UUID, label string) (*types.FeatureVersion, error) {
	var version types.FeatureVersion
	err := r.conn(dbc).WithContext(dbc.Ctx).
		Where("feature_id = ? AND version = ?", featureID, label).
		Limit(1).
		Find(&version).Error
	if err != nil {
		return nil, err
	}
	if version.ID == uuid.Nil {
		return nil, nil
	}
	return &version, nil
}

func (r *featureVersionRepo) GetActiveByFeature(dbc dbctx.Context, featureID uuid.UUID) (*types.FeatureVersion, error) {
	var version types.FeatureVersion
	err := r.conn(dbc).WithContext(dbc.Ctx).
		Where("feature_id = ? AND status = ?", featureID, types.VersionStatusActive).
		Order("updated_at DESC").
		Limit(1).
		Find(&version).Error
	if err != nil {
		return nil, err
	}
	if version.ID == uuid.Nil {
		return nil, nil
	}
	return &version, nil
}

func (r *featureVersionRepo) ListByFeature(dbc dbctx.Context, featureID uuid.UUID) ([]*types.FeatureVersion, error) {
	var out []*types.FeatureVersion
	if err := r.conn(dbc).WithContext(dbc.Ctx).
		Where("feature_id = ?", featureID).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *featureVersionRepo) SetStatus(dbc dbctx.Context, id uuid.UUID, status string) error {
	return r.conn(dbc).WithContext(dbc.Ctx).
		Model(&types.FeatureVersion{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now().UTC(),
		}).Error
}

// DemoteActive deprecates whatever version currently serves the
// feature. Run inside the same transaction as the promotion so the
// single-active invariant holds.
func (r *featureVersionRepo) DemoteActive(dbc dbctx.Context, featureID uuid.UUID) error {
	return r.conn(dbc).WithContext(dbc.Ctx).
		Model(&types.FeatureVersion{}).
		Where("feature_id = ? AND status = ?", featureID, types.VersionStatusActive).
		Updates(map[string]interface{}{
			"status":     types.VersionStatusDeprecated,
			"updated_at": time.Now().UTC(),
		}).Error
}
