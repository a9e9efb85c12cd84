package db

import (
	"gorm.io/gorm"

	types "github.com/yungbote/featurestore-backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(

		// Registry (raw sources + feature definitions)
		&types.RawTable{},
		&types.RawRecord{},
		&types.Feature{},

		// Serving (versions + computed vectors)
		&types.FeatureVersion{},
		&types.FeatureVector{},
	)
}
