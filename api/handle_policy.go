package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zaxion/zaxion-backend/dto"
	"github.com/zaxion/zaxion-backend/pure_utils"
	"github.com/zaxion/zaxion-backend/usecases"
)

func handleCreatePolicy(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		var body dto.CreatePolicyBody
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, dto.APIErrorResponse{Message: err.Error()})
			return
		}
		input, err := dto.AdaptCreatePolicyInput(body)
		if presentError(ctx, c, err) {
			return
		}

		usecase := uc.NewPolicyUsecase()
		policy, err := usecase.CreatePolicy(ctx, input)
		if presentError(ctx, c, err) {
			return
		}
		c.JSON(http.StatusCreated, dto.AdaptPolicyWithVersionDto(policy))
	}
}

func handleListPolicies(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		usecase := uc.NewPolicyUsecase()
		policies, err := usecase.ListPolicies(ctx)
		if presentError(ctx, c, err) {
			return
		}
		c.JSON(http.StatusOK, pure_utils.Map(policies, dto.AdaptPolicyDto))
	}
}

func handleGetPolicy(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		policyId := c.Param("policy_id")

		usecase := uc.NewPolicyUsecase()
		policy, err := usecase.GetPolicy(ctx, policyId)
		if presentError(ctx, c, err) {
			return
		}
		c.JSON(http.StatusOK, dto.AdaptPolicyWithVersionDto(policy))
	}
}

func handleCreatePolicyVersion(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		policyId := c.Param("policy_id")

		var body dto.CreatePolicyVersionBody
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, dto.APIErrorResponse{Message: err.Error()})
			return
		}
		input, err := dto.AdaptCreatePolicyVersionInput(policyId, body)
		if presentError(ctx, c, err) {
			return
		}

		usecase := uc.NewPolicyUsecase()
		version, err := usecase.AddPolicyVersion(ctx, input)
		if presentError(ctx, c, err) {
			return
		}
		c.JSON(http.StatusCreated, dto.AdaptPolicyVersionDto(version))
	}
}

func handleGetPolicyVersion(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		policyId := c.Param("policy_id")
		versionId := c.Param("version_id")

		usecase := uc.NewPolicyUsecase()
		version, err := usecase.GetPolicyVersion(ctx, policyId, versionId)
		if presentError(ctx, c, err) {
			return
		}
		c.JSON(http.StatusOK, dto.AdaptPolicyVersionDto(version))
	}
}

func handleListPolicyVersions(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		policyId := c.Param("policy_id")

		usecase := uc.NewPolicyUsecase()
		versions, err := usecase.ListPolicyVersions(ctx, policyId)
		if presentError(ctx, c, err) {
			return
		}
		c.JSON(http.StatusOK, pure_utils.Map(versions, dto.AdaptPolicyVersionDto))
	}
}

func handleGetPolicyMetrics(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		policyId := c.Param("policy_id")

		usecase := uc.NewPolicyUsecase()
		metrics, err := usecase.GetPolicyMetrics(ctx, policyId)
		if presentError(ctx, c, err) {
			return
		}
		c.JSON(http.StatusOK, pure_utils.Map(metrics, dto.AdaptPolicyMetricsDto))
	}
}
