package registry

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/featurestore-backend/internal/domain"
	"github.com/yungbote/featurestore-backend/internal/pkg/dbctx"
	"github.com/yungbote/featurestore-backend/internal/platform/logger"
)

type FeatureRepo interface {
	Create(dbc dbctx.Context, feature *types.Feature) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Feature, error)
	GetByName(dbc dbctx.Context, name string) (*types.Feature, error)
	List(dbc dbctx.Context) ([]*types.Feature, error)
	ListByRawTable(dbc dbctx.Context, rawTableID uuid.UUID) ([]*types.Feature, error)
	NameExists(dbc dbctx.Context, name string) (bool, error)
}

type featureRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFeatureRepo(db *gorm.DB, baseLog *logger.Logger) FeatureRepo {
	return &featureRepo{
		db:  db,
		log: baseLog.With("repo", "FeatureRepo"),
	}
}

func (r *featureRepo) conn(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *featureRepo) Create(dbc dbctx.Context, feature *types.Feature) error {
	return r.conn(dbc).WithContext(dbc.Ctx).Create(feature).Error
}

func (r *featureRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Feature, error) {
	var feature types.Feature
	err := r.conn(dbc).WithContext(dbc.Ctx).
		Where("id = ?", id).
		Limit(1).
		Find(&feature).Error
	if err != nil {
		return nil, err
	}
	if feature.ID == uuid.Nil {
		return nil, nil
	}
	return &feature, nil
}

func (r *featureRepo) GetByName(dbc dbctx.Context, name string) (*types.Feature, error) {
	var feature types.Feature
	err := r.conn(dbc).WithContext(dbc.Ctx).
		Where("name = ?", name).
		Limit(1).
		Find(&feature).Error
	if err != nil {
		return nil, err
	}
	if feature.ID == uuid.Nil {
		return nil, nil
	}
	return &feature, nil
}

func (r *featureRepo) List(dbc dbctx.Context) ([]*types.Feature, error) {
	var out []*types.Feature
	if err := r.conn(dbc).WithContext(dbc.Ctx).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *featureRepo) ListByRawTable(dbc dbctx.Context, rawTableID uuid.UUID) ([]*types.Feature, error) {
	var out []*types.Feature
	if err := r.conn(dbc).WithContext(dbc.Ctx).
		Where("raw_table_id = ?", rawTableID).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *featureRepo) NameExists(dbc dbctx.Context, name string) (bool, error) {
	var count int64
	err := r.conn(dbc).WithContext(dbc.Ctx).
		Model(&types.Feature{}).
		Where("name = ?", name).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
