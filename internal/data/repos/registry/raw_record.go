package registry

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/featurestore-backend/internal/domain"
	"github.com/yungbote/featurestore-backend/internal/pkg/dbctx"
	"github.com/yungbote/featurestore-backend/internal/platform/logger"
)

type RawRecordRepo interface {
	CreateBatch(dbc dbctx.Context, records []*types.RawRecord) error
	ListByTable(dbc dbctx.Context, rawTableID uuid.UUID) ([]*types.RawRecord, error)
	CountByTable(dbc dbctx.Context, rawTableID uuid.UUID) (int64, error)
}

type rawRecordRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRawRecordRepo(db *gorm.DB, baseLog *logger.Logger) RawRecordRepo {
	return &rawRecordRepo{
		db:  db,
		log: baseLog.With("repo", "RawRecordRepo"),
	}
}

func (r *rawRecordRepo) conn(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *rawRecordRepo) CreateBatch(dbc dbctx.Context, records []*types.RawRecord) error {
	if len(records) == 0 {
		return nil
	}
	return r.conn(dbc).WithContext(dbc.Ctx).CreateInBatches(&records, 500).Error
}

// ListByTable returns records in ingestion order so computation over a
// persisted batch stays deterministic.
func (r *rawRecordRepo) ListByTable(dbc dbctx.Context, rawTableID uuid.UUID) ([]*types.RawRecord, error) {
	var out []*types.RawRecord
	if err := r.conn(dbc).WithContext(dbc.Ctx).
		Where("raw_table_id = ?", rawTableID).
		Order("ingested_at ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *rawRecordRepo) CountByTable(dbc dbctx.Context, rawTableID uuid.UUID) (int64, error) {
	var count int64
	err := r.conn(dbc).WithContext(dbc.Ctx).
		Model(&types.RawRecord{}).
		Where("raw_table_id = ?", rawTableID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
