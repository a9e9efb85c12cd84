package serving

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// FeatureVector is the computed value for one entity under one
// feature version. Recomputing the version overwrites the row; it is
// read-only otherwise.
type FeatureVector struct {
	ID               uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	FeatureVersionID uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_vector_version_entity" json:"feature_version_id"`
	EntityID         string         `gorm:"column:entity_id;not null;uniqueIndex:idx_vector_version_entity;index" json:"entity_id"`
	Value            datatypes.JSON `gorm:"column:value;type:jsonb;not null" json:"value"`
	ComputedAt       time.Time      `gorm:"column:computed_at;not null;default:now();index" json:"computed_at"`
}

func (FeatureVector) TableName() string { return "feature_vector" }
