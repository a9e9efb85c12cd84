package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/featurestore-backend/internal/featurestore"
	pkgerrors "github.com/yungbote/featurestore-backend/internal/pkg/errors"
	"github.com/yungbote/featurestore-backend/internal/platform/apierr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	envelope := ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	}
	var schemaErr *featurestore.SchemaValidationError
	if errors.As(err, &schemaErr) {
		envelope.Error.Details = schemaErr.Violations
	}
	c.JSON(status, envelope)
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}

// RespondDomainError maps the error taxonomy onto transport statuses:
// not-found to 404, definition/batch rejections to 422, everything
// else invalid to 400.
func RespondDomainError(c *gin.Context, err error) {
	e := classify(err)
	RespondError(c, e.Status, e.Code, e.Err)
}

func classify(err error) *apierr.Error {
	var preclassified *apierr.Error
	if errors.As(err, &preclassified) {
		return preclassified
	}

	var (
		schemaErr      *featurestore.SchemaValidationError
		entityKeyErr   *featurestore.InvalidEntityKeyError
		logicErr       *featurestore.InvalidComputationLogicError
		unsupportedErr *featurestore.UnsupportedComputationError
		shapeErr       *featurestore.InconsistentVectorShapeError
		duplicateErr   *featurestore.DuplicateEntityError
		notFoundErr    *featurestore.EntityNotFoundError
	)
	switch {
	case errors.As(err, &notFoundErr), errors.Is(err, pkgerrors.ErrNotFound):
		return apierr.New(http.StatusNotFound, "not_found", err)
	case errors.As(err, &schemaErr):
		return apierr.New(http.StatusUnprocessableEntity, "schema_validation_failed", err)
	case errors.As(err, &entityKeyErr):
		return apierr.New(http.StatusUnprocessableEntity, "invalid_entity_key", err)
	case errors.As(err, &logicErr):
		return apierr.New(http.StatusUnprocessableEntity, "invalid_computation_logic", err)
	case errors.As(err, &unsupportedErr):
		return apierr.New(http.StatusUnprocessableEntity, "unsupported_computation", err)
	case errors.As(err, &shapeErr):
		return apierr.New(http.StatusUnprocessableEntity, "inconsistent_vector_shape", err)
	case errors.As(err, &duplicateErr):
		return apierr.New(http.StatusUnprocessableEntity, "duplicate_entity", err)
	case errors.Is(err, pkgerrors.ErrConflict):
		return apierr.New(http.StatusConflict, "already_exists", err)
	case errors.Is(err, pkgerrors.ErrInvalidArgument):
		return apierr.New(http.StatusBadRequest, "invalid_argument", err)
	default:
		return apierr.New(http.StatusInternalServerError, "internal_error", err)
	}
}
