package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/featurestore-backend/internal/data/repos/registry"
	"github.com/yungbote/featurestore-backend/internal/data/repos/serving"
	"github.com/yungbote/featurestore-backend/internal/platform/logger"
)

type RawTableRepo = registry.RawTableRepo
type RawRecordRepo = registry.RawRecordRepo
type FeatureRepo = registry.FeatureRepo

type FeatureVersionRepo = serving.FeatureVersionRepo
type FeatureVectorRepo = serving.FeatureVectorRepo

func NewRawTableRepo(db *gorm.DB, baseLog *logger.Logger) RawTableRepo {
	return registry.NewRawTableRepo(db, baseLog)
}
func NewRawRecordRepo(db *gorm.DB, baseLog *logger.Logger) RawRecordRepo {
	return registry.NewRawRecordRepo(db, baseLog)
}
func NewFeatureRepo(db *gorm.DB, baseLog *logger.Logger) FeatureRepo {
	return registry.NewFeatureRepo(db, baseLog)
}

func NewFeatureVersionRepo(db *gorm.DB, baseLog *logger.Logger) FeatureVersionRepo {
	return serving.NewFeatureVersionRepo(db, baseLog)
}
func NewFeatureVectorRepo(db *gorm.DB, baseLog *logger.Logger) FeatureVectorRepo {
	return serving.NewFeatureVectorRepo(db, baseLog)
}
