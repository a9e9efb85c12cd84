package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/featurestore-backend/internal/featurestore"
	"github.com/yungbote/featurestore-backend/internal/pkg/dbctx"
	"github.com/yungbote/featurestore-backend/internal/services"
)

type RawTableHandler struct {
	registry services.RegistryService
	ingest   services.IngestService
}

func NewRawTableHandler(registry services.RegistryService, ingest services.IngestService) *RawTableHandler {
	return &RawTableHandler{registry: registry, ingest: ingest}
}

type registerRawTableRequest struct {
	Name             string            `json:"name" binding:"required"`
	Description      string            `json:"description"`
	SchemaDefinition map[string]string `json:"schema_definition" binding:"required"`
}

// POST /api/raw-tables
func (h *RawTableHandler) Register(c *gin.Context) {
	var req registerRawTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	table, err := h.registry.RegisterRawTable(dbctx.From(c.Request.Context()), req.Name, req.Description, req.SchemaDefinition)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondCreated(c, gin.H{"raw_table": table})
}

// GET /api/raw-tables
func (h *RawTableHandler) List(c *gin.Context) {
	tables, err := h.registry.ListRawTables(dbctx.From(c.Request.Context()))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"raw_tables": tables})
}

// GET /api/raw-tables/:id
func (h *RawTableHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_raw_table_id", err)
		return
	}
	table, err := h.registry.GetRawTable(dbctx.From(c.Request.Context()), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"raw_table": table})
}

type ingestRequest struct {
	RawTableID uuid.UUID             `json:"raw_table_id" binding:"required"`
	Data       []featurestore.Record `json:"data" binding:"required"`
}

// POST /api/ingest
func (h *RawTableHandler) Ingest(c *gin.Context) {
	var req ingestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	count, err := h.ingest.Ingest(dbctx.From(c.Request.Context()), req.RawTableID, req.Data)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"records_ingested": count})
}
