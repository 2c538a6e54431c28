package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zaxion/zaxion-backend/dto"
	"github.com/zaxion/zaxion-backend/usecases"
)

func handleIngestFacts(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		var body dto.IngestFactsBody
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, dto.APIErrorResponse{Message: err.Error()})
			return
		}

		usecase := uc.NewFactIngestionUsecase()
		snapshot, err := usecase.IngestFacts(ctx, body.RepoFullName, body.PrNumber, body.CommitSha)
		if presentError(ctx, c, err) {
			return
		}
		c.JSON(http.StatusCreated, dto.AdaptFactSnapshotDto(snapshot))
	}
}
