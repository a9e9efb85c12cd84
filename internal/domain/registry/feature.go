package registry

import (
	"time"

	"github.com/google/uuid"
)

// Feature is a named computation over one raw table, producing one
// value per entity. EntityKey must be a column of the referenced
// table's schema and ComputationLogic must parse against it; both are
// checked before the row is created.
type Feature struct {
	ID               uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name             string    `gorm:"column:name;not null;uniqueIndex" json:"name"`
	Description      string    `gorm:"column:description;type:text" json:"description,omitempty"`
	RawTableID       uuid.UUID `gorm:"type:uuid;not null;index" json:"raw_table_id"`
	ComputationLogic string    `gorm:"column:computation_logic;type:text;not null" json:"computation_logic"`
	EntityKey        string    `gorm:"column:entity_key;not null" json:"entity_key"`
	CreatedAt        time.Time `gorm:"not null;default:now();index" json:"created_at"`
}

func (Feature) TableName() string { return "feature" }
