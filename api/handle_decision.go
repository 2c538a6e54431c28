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

func handleCreateDecision(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		var body dto.CreateDecisionBody
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, dto.APIErrorResponse{Message: err.Error()})
			return
		}

		usecase := uc.NewDecisionUsecase()
		decision, override, err := usecase.Decide(ctx, models.DecisionKey{
			RepoOwner: body.RepoOwner,
			RepoName:  body.RepoName,
			PrNumber:  body.PrNumber,
			CommitSha: body.CommitSha,
		})
		if presentError(ctx, c, err) {
			return
		}
		c.JSON(http.StatusOK, dto.AdaptDecisionDto(decision, override, time.Now()))
	}
}

func handleGetDecision(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		decisionId := c.Param("decision_id")

		usecase := uc.NewDecisionUsecase()
		decision, override, err := usecase.GetDecision(ctx, decisionId)
		if presentError(ctx, c, err) {
			return
		}
		c.JSON(http.StatusOK, dto.AdaptDecisionDto(decision, override, time.Now()))
	}
}

func handleListDecisions(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		var filters dto.DecisionFilters
		if err := c.ShouldBind(&filters); err != nil {
			c.JSON(http.StatusBadRequest, dto.APIErrorResponse{Message: err.Error()})
			return
		}

		usecase := uc.NewDecisionUsecase()
		decisions, err := usecase.ListDecisions(ctx, models.DecisionFilters{
			RepoOwner: filters.RepoOwner,
			RepoName:  filters.RepoName,
			PrNumber:  filters.PrNumber,
		})
		if presentError(ctx, c, err) {
			return
		}

		now := time.Now()
		c.JSON(http.StatusOK, pure_utils.Map(decisions, func(d models.DecisionWithOverride) dto.APIDecision {
			return dto.AdaptDecisionListItemDto(d.Decision, d.Override, now)
		}))
	}
}

func handleGetDecisionReview(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		decisionId := c.Param("decision_id")

		usecase := uc.NewDecisionReviewUsecase()
		review, err := usecase.GetDecisionReview(ctx, decisionId)
		if presentError(ctx, c, err) {
			return
		}
		c.JSON(http.StatusOK, dto.AdaptDecisionReviewDto(review))
	}
}
