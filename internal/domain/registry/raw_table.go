package registry

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// RawTable is a registered source of ingestible records. Its schema
// (column name -> declared type) is fixed at registration; there is no
// migration path.
type RawTable struct {
	ID               uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name             string         `gorm:"column:name;not null;uniqueIndex" json:"name"`
	Description      string         `gorm:"column:description;type:text" json:"description,omitempty"`
	SchemaDefinition datatypes.JSON `gorm:"column:schema_definition;type:jsonb;not null" json:"schema_definition"`
	CreatedAt        time.Time      `gorm:"not null;default:now();index" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (RawTable) TableName() string { return "raw_table" }
