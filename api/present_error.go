package api

import (
	"context"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"

	"github.com/zaxion/zaxion-backend/dto"
	"github.com/zaxion/zaxion-backend/models"
	"github.com/zaxion/zaxion-backend/utils"
)

func presentError(ctx context.Context, c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	switch {
	case errors.Is(err, models.BadParameterError),
		errors.Is(err, models.ErrMalformedRulesLogic),
		errors.Is(err, models.ErrOverrideReasonTooShort):
		c.JSON(http.StatusBadRequest, dto.APIErrorResponse{Message: err.Error()})
	case errors.Is(err, models.UnAuthorizedError):
		c.JSON(http.StatusUnauthorized, dto.APIErrorResponse{Message: err.Error()})
	case errors.Is(err, models.ForbiddenError):
		c.JSON(http.StatusForbidden, dto.APIErrorResponse{Message: err.Error()})
	case errors.Is(err, models.NotFoundError):
		c.JSON(http.StatusNotFound, dto.APIErrorResponse{Message: err.Error()})
	case errors.Is(err, models.ConflictError),
		errors.Is(err, models.ErrDecisionStillPending):
		c.JSON(http.StatusConflict, dto.APIErrorResponse{Message: err.Error()})
	case errors.Is(err, models.ErrFactIngestion):
		c.JSON(http.StatusBadGateway, dto.APIErrorResponse{Message: err.Error()})
	default:
		utils.LoggerFromContext(ctx).ErrorContext(ctx, "unexpected error handling request",
			"error", err.Error())
		c.JSON(http.StatusInternalServerError, dto.APIErrorResponse{Message: err.Error()})
	}
	return true
}
