package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/zaxion/zaxion-backend/dto"
	"github.com/zaxion/zaxion-backend/models"
	"github.com/zaxion/zaxion-backend/pure_utils"
	"github.com/zaxion/zaxion-backend/usecases"
)

func handleOverrideDecision(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		decisionId := c.Param("decision_id")

		var body dto.CreateOverrideBody
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, dto.APIErrorResponse{Message: err.Error()})
			return
		}

		usecase := uc.NewOverrideUsecase()
		override, err := usecase.OverrideDecision(ctx, models.CreateOverrideInput{
			DecisionId: decisionId,
			UserLogin:  body.UserLogin,
			Reason:     body.Reason,
			Category:   body.Category,
			TtlHours:   body.TtlHours,
		})
		if presentError(ctx, c, err) {
			return
		}
		c.JSON(http.StatusCreated, dto.AdaptOverrideDto(override, time.Now()))
	}
}

func handleListDecisionOverrides(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		decisionId := c.Param("decision_id")

		usecase := uc.NewOverrideUsecase()
		overrides, err := usecase.ListOverrides(ctx, decisionId)
		if presentError(ctx, c, err) {
			return
		}

		now := time.Now()
		c.JSON(http.StatusOK, pure_utils.Map(overrides, func(o models.Override) dto.APIOverride {
			return dto.AdaptOverrideDto(o, now)
		}))
	}
}
