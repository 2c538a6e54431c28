package cmd

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/zaxion/zaxion-backend/api"
	"github.com/zaxion/zaxion-backend/infra"
	"github.com/zaxion/zaxion-backend/repositories"
	"github.com/zaxion/zaxion-backend/usecases"
	"github.com/zaxion/zaxion-backend/utils"
)

func RunServer() error {
	apiConfig := api.Configuration{
		Env:     utils.GetEnv("ENV", "development"),
		AppName: "zaxion-backend",
		Port:    utils.GetRequiredEnv[string]("PORT"),
	}
	pgConfig := infra.PgConfig{
		ConnectionString:   utils.GetEnv("PG_CONNECTION_STRING", ""),
		Database:           "zaxion",
		Hostname:           utils.GetEnv("PG_HOSTNAME", ""),
		Password:           utils.GetEnv("PG_PASSWORD", ""),
		Port:               utils.GetEnv("PG_PORT", "5432"),
		User:               utils.GetEnv("PG_USER", ""),
		MaxPoolConnections: utils.GetEnv("PG_MAX_POOL_SIZE", infra.DEFAULT_MAX_CONNECTIONS),
		SslMode:            utils.GetEnv("PG_SSL_MODE", "prefer"),
	}
	githubConfig := infra.GithubConfig{
		ApiUrl: utils.GetEnv("GITHUB_API_URL", ""),
		Token:  utils.GetEnv("GITHUB_TOKEN", ""),
	}

	logger := utils.NewLogger(utils.GetEnv("LOGGING_FORMAT", "text"))
	ctx := utils.StoreLoggerInContext(context.Background(), logger)

	pool, err := infra.NewPostgresConnectionPool(pgConfig.GetConnectionString(),
		pgConfig.MaxPoolConnections)
	if err != nil {
		return errors.Wrap(err, "can't create postgres connection pool")
	}
	defer pool.Close()

	repos := repositories.NewRepositories(pool, githubConfig, nil)
	uc := usecases.NewUsecases(repos)

	server := api.NewServer(apiConfig, uc, logger)

	notify, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.InfoContext(ctx, "starting server", "port", apiConfig.Port)
		err := server.ListenAndServe()
		if !errors.Is(err, http.ErrServerClosed) {
			logger.ErrorContext(ctx, "error while serving the app", "error", err.Error())
		}
		logger.InfoContext(ctx, "server returned")
	}()

	<-notify.Done()
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "error while shutting down the server")
	}
	return nil
}
