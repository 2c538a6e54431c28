package repositories

import (
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zaxion/zaxion-backend/infra"
)

type Repositories struct {
	ExecutorGetter         ExecutorGetter
	GovernanceDbRepository *GovernanceDbRepository
	GithubRepository       *GithubRepository
}

func NewRepositories(
	pool *pgxpool.Pool,
	githubConfig infra.GithubConfig,
	githubClient *http.Client,
) Repositories {
	return Repositories{
		ExecutorGetter:         NewExecutorGetter(pool),
		GovernanceDbRepository: NewGovernanceDbRepository(),
		GithubRepository:       NewGithubRepository(githubConfig, githubClient),
	}
}
