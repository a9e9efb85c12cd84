package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/featurestore-backend/internal/featurestore"
	"github.com/yungbote/featurestore-backend/internal/pkg/dbctx"
	"github.com/yungbote/featurestore-backend/internal/services"
)

type FeatureHandler struct {
	registry services.RegistryService
	vectors  services.VectorService
}

func NewFeatureHandler(registry services.RegistryService, vectors services.VectorService) *FeatureHandler {
	return &FeatureHandler{registry: registry, vectors: vectors}
}

type createFeatureRequest struct {
	Name             string    `json:"name" binding:"required"`
	Description      string    `json:"description"`
	RawTableID       uuid.UUID `json:"raw_table_id" binding:"required"`
	ComputationLogic string    `json:"computation_logic" binding:"required"`
	EntityKey        string    `json:"entity_key" binding:"required"`
}

// POST /api/features
func (h *FeatureHandler) Create(c *gin.Context) {
	var req createFeatureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	feature, err := h.registry.CreateFeature(
		dbctx.From(c.Request.Context()),
		req.Name,
		req.Description,
		req.RawTableID,
		req.ComputationLogic,
		req.EntityKey,
	)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondCreated(c, gin.H{"feature": feature})
}

// GET /api/features
func (h *FeatureHandler) List(c *gin.Context) {
	features, err := h.registry.ListFeatures(dbctx.From(c.Request.Context()))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"features": features})
}

// GET /api/features/:id
func (h *FeatureHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_feature_id", err)
		return
	}
	feature, err := h.registry.GetFeature(dbctx.From(c.Request.Context()), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"feature": feature})
}

type createVersionRequest struct {
	Version string `json:"version" binding:"required"`
}

// POST /api/features/:id/versions
func (h *FeatureHandler) CreateVersion(c *gin.Context) {
	featureID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_feature_id", err)
		return
	}
	var req createVersionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	version, err := h.registry.CreateVersion(dbctx.From(c.Request.Context()), featureID, req.Version)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondCreated(c, gin.H{"feature_version": version})
}

// GET /api/features/:id/versions
func (h *FeatureHandler) ListVersions(c *gin.Context) {
	featureID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_feature_id", err)
		return
	}
	versions, err := h.registry.ListVersions(dbctx.From(c.Request.Context()), featureID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"feature_versions": versions})
}

// POST /api/features/:id/versions/:version_id/activate
func (h *FeatureHandler) ActivateVersion(c *gin.Context) {
	versionID, err := uuid.Parse(c.Param("version_id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_version_id", err)
		return
	}
	version, err := h.vectors.Activate(dbctx.From(c.Request.Context()), versionID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"feature_version": version})
}

// POST /api/features/:id/versions/:version_id/deprecate
func (h *FeatureHandler) DeprecateVersion(c *gin.Context) {
	versionID, err := uuid.Parse(c.Param("version_id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_version_id", err)
		return
	}
	version, err := h.vectors.Deprecate(dbctx.From(c.Request.Context()), versionID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"feature_version": version})
}

type computeFeatureRequest struct {
	Version string                `json:"version" binding:"required"`
	RawData []featurestore.Record `json:"raw_data"`
}

// POST /api/features/:id/compute
func (h *FeatureHandler) Compute(c *gin.Context) {
	featureID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_feature_id", err)
		return
	}
	var req computeFeatureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	result, err := h.vectors.Compute(dbctx.From(c.Request.Context()), featureID, req.Version, req.RawData)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"result": result})
}
