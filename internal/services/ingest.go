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

// IngestService validates record batches against their table's schema
// and persists them. A batch with any violation is rejected whole,
// with every violation reported.
type IngestService interface {
	Ingest(dbc dbctx.Context, rawTableID uuid.UUID, records []featurestore.Record) (int, error)
}

type ingestService struct {
	db      *gorm.DB
	log     *logger.Logger
	tables  repos.RawTableRepo
	records repos.RawRecordRepo
}

func NewIngestService(
	db *gorm.DB,
	baseLog *logger.Logger,
	tables repos.RawTableRepo,
	records repos.RawRecordRepo,
) IngestService {
	return &ingestService{
		db:      db,
		log:     baseLog.With("service", "IngestService"),
		tables:  tables,
		records: records,
	}
}

func (s *ingestService) Ingest(dbc dbctx.Context, rawTableID uuid.UUID, records []featurestore.Record) (int, error) {
	table, err := s.tables.GetByID(dbc, rawTableID)
	if err != nil {
		return 0, fmt.Errorf("load raw table: %w", err)
	}
	if table == nil {
		return 0, fmt.Errorf("raw table %s: %w", rawTableID, pkgerrors.ErrNotFound)
	}
	if len(records) == 0 {
		return 0, fmt.Errorf("no records to ingest: %w", pkgerrors.ErrInvalidArgument)
	}

	schema, err := schemaOf(table)
	if err != nil {
		return 0, err
	}
	if err := featurestore.ValidateRecords(schema, records); err != nil {
		return 0, err
	}

	rows := make([]*types.RawRecord, 0, len(records))
	for i, record := range records {
		payload, err := json.Marshal(record)
		if err != nil {
			return 0, fmt.Errorf("marshal record %d: %w", i, err)
		}
		rows = append(rows, &types.RawRecord{
			RawTableID: rawTableID,
			Payload:    datatypes.JSON(payload),
		})
	}
	if err := s.records.CreateBatch(dbc, rows); err != nil {
		return 0, fmt.Errorf("persist records: %w", err)
	}

	s.log.Info("ingested records", "raw_table_id", rawTableID, "count", len(rows))
	return len(rows), nil
}
