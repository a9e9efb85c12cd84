package registry

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// RawRecord is a single ingested row for a raw table, kept so feature
// computation can run against the persisted batch when the caller does
// not supply one inline.
type RawRecord struct {
	ID         uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	RawTableID uuid.UUID      `gorm:"type:uuid;not null;index" json:"raw_table_id"`
	Payload    datatypes.JSON `gorm:"column:payload;type:jsonb;not null" json:"payload"`
	IngestedAt time.Time      `gorm:"column:ingested_at;not null;default:now();index" json:"ingested_at"`
}

func (RawRecord) TableName() string { return "raw_record" }
