package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/zaxion/zaxion-backend/usecases"
	"github.com/zaxion/zaxion-backend/utils"
)

type Configuration struct {
	Env     string
	AppName string
	Port    string
}

func corsOption() cors.Config {
	return cors.Config{
		AllowOrigins:     []string{"https://*", "http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Api-Key"},
		AllowCredentials: false,
		MaxAge:           7200 * time.Second,
	}
}

// loggingMiddleware stores the logger in the request context and logs one
// line per request.
func loggingMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		ctx := utils.StoreLoggerInContext(c.Request.Context(), logger)
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		logger.InfoContext(ctx, "request handled",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
		)
	}
}

func InitRouter(conf Configuration, uc usecases.Usecases, logger *slog.Logger) *gin.Engine {
	if conf.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(corsOption()))
	r.Use(loggingMiddleware(logger))

	r.GET("/liveness", handleLivenessProbe)

	r.POST("/facts/ingest", handleIngestFacts(uc))

	r.POST("/decisions", handleCreateDecision(uc))
	r.GET("/decisions", handleListDecisions(uc))
	r.GET("/decisions/:decision_id", handleGetDecision(uc))
	r.GET("/decisions/:decision_id/review", handleGetDecisionReview(uc))
	r.POST("/decisions/:decision_id/override", handleOverrideDecision(uc))
	r.GET("/decisions/:decision_id/overrides", handleListDecisionOverrides(uc))

	r.POST("/policies", handleCreatePolicy(uc))
	r.GET("/policies", handleListPolicies(uc))
	r.GET("/policies/:policy_id", handleGetPolicy(uc))
	r.POST("/policies/:policy_id/versions", handleCreatePolicyVersion(uc))
	r.GET("/policies/:policy_id/versions", handleListPolicyVersions(uc))
	r.GET("/policies/:policy_id/versions/:version_id", handleGetPolicyVersion(uc))
	r.GET("/policies/:policy_id/metrics", handleGetPolicyMetrics(uc))

	return r
}

func NewServer(conf Configuration, uc usecases.Usecases, logger *slog.Logger) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%s", conf.Port),
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
		IdleTimeout:  60 * time.Second,
		Handler:      InitRouter(conf, uc, logger),
	}
}

func handleLivenessProbe(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
