package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/featurestore-backend/internal/pkg/dbctx"
	"github.com/yungbote/featurestore-backend/internal/services"
)

type VectorHandler struct {
	vectors services.VectorService
}

func NewVectorHandler(vectors services.VectorService) *VectorHandler {
	return &VectorHandler{vectors: vectors}
}

// GET /api/feature-vectors?entity_id=...&feature_version_id=...|feature_name=...
func (h *VectorHandler) Get(c *gin.Context) {
	entityID := c.Query("entity_id")
	if entityID == "" {
		RespondError(c, http.StatusBadRequest, "missing_entity_id", nil)
		return
	}

	var ref services.VectorRef
	if raw := c.Query("feature_version_id"); raw != "" {
		versionID, err := uuid.Parse(raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_version_id", err)
			return
		}
		ref.VersionID = &versionID
	}
	ref.FeatureName = c.Query("feature_name")

	value, err := h.vectors.GetVector(dbctx.From(c.Request.Context()), entityID, ref)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"feature_vector": value})
}
