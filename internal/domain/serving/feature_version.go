package serving

import (
	"time"

	"github.com/google/uuid"
)

const (
	VersionStatusDraft      = "draft"
	VersionStatusActive     = "active"
	VersionStatusDeprecated = "deprecated"
)

// FeatureVersion is one instantiation of a feature's logic. The
// version label is unique within its feature, and at most one version
// per feature holds the active status (enforced on activation).
type FeatureVersion struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	FeatureID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_feature_version_label" json:"feature_id"`
	Version   string    `gorm:"column:version;not null;uniqueIndex:idx_feature_version_label" json:"version"`
	Status    string    `gorm:"column:status;not null;default:draft;index" json:"status"`
	CreatedAt time.Time `gorm:"not null;default:now();index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (FeatureVersion) TableName() string { return "feature_version" }
