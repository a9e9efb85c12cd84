package domain

import (
	"github.com/yungbote/featurestore-backend/internal/domain/registry"
	"github.com/yungbote/featurestore-backend/internal/domain/serving"
)

type RawTable = registry.RawTable
type RawRecord = registry.RawRecord
type Feature = registry.Feature

type FeatureVersion = serving.FeatureVersion
type FeatureVector = serving.FeatureVector

const (
	VersionStatusDraft      = serving.VersionStatusDraft
	VersionStatusActive     = serving.VersionStatusActive
	VersionStatusDeprecated = serving.VersionStatusDeprecated
)
