package registry

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/featurestore-backend/internal/domain"
	"github.com/yungbote/featurestore-backend/internal/pkg/dbctx"
	"github.com/yungbote/featurestore-backend/internal/platform/logger"
)

type RawTableRepo interface {
	Create(dbc dbctx.Context, table *types.RawTable) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.RawTable, error)
	GetByName(dbc dbctx.Context, name string) (*types.RawTable, error)
	List(dbc dbctx.Context) ([]*types.RawTable, error)
	NameExists(dbc dbctx.Context, name string) (bool, error)
}

type rawTableRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRawTableRepo(db *gorm.DB, baseLog *logger.Logger) RawTableRepo {
	return &rawTableRepo{
		db:  db,
		log: baseLog.With("repo", "RawTableRepo"),
	}
}

func (r *rawTableRepo) conn(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *rawTableRepo) Create(dbc dbctx.Context, table *types.RawTable) error {
	return r.conn(dbc).WithContext(dbc.Ctx).Create(table).Error
}

func (r *rawTableRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.RawTable, error) {
	var table types.RawTable
	err := r.conn(dbc).WithContext(dbc.Ctx).
		Where("id = ?", id).
		Limit(1).
		Find(&table).Error
	if err != nil {
		return nil, err
	}
	if table.ID == uuid.Nil {
		return nil, nil
	}
	return &table, nil
}

func (r *rawTableRepo) GetByName(dbc dbctx.Context, name string) (*types.RawTable, error) {
	var table types.RawTable
	err := r.conn(dbc).WithContext(dbc.Ctx).
		Where("name = ?", name).
		Limit(1).
		Find(&table).Error
	if err != nil {
		return nil, err
	}
	if table.ID == uuid.Nil {
		return nil, nil
	}
	return &table, nil
}

func (r *rawTableRepo) List(dbc dbctx.Context) ([]*types.RawTable, error) {
	var out []*types.RawTable
	if err := r.conn(dbc).WithContext(dbc.Ctx).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *rawTableRepo) NameExists(dbc dbctx.Context, name string) (bool, error) {
	var count int64
	err := r.conn(dbc).WithContext(dbc.Ctx).
		Model(&types.RawTable{}).
		Where("name = ?", name).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
