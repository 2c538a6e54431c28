package repositories

import (
	"context"
	"net/http"
	"testing"

	"github.com/h2non/gock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zaxion/zaxion-backend/infra"
)

func githubTestRepository() *GithubRepository {
	client := &http.Client{}
	gock.InterceptClient(client)
	return NewGithubRepository(infra.GithubConfig{Token: "test-token"}, client)
}

func TestFetchPullRequest(t *testing.T) {
	defer gock.Off()

	gock.New("https://api.github.com").
		Get("/repos/acme/api/pulls/42").
		MatchHeader("Authorization", "Bearer test-token").
		MatchHeader("Accept", "application/vnd.github.v3\\+json").
		Reply(http.StatusOK).
		SetHeader("x-ratelimit-remaining", "4999").
		JSON(map[string]any{
			"title": "Add login flow",
			"draft": false,
			"user":  map[string]any{"id": 7, "login": "dev"},
			"base":  map[string]any{"ref": "main"},
			"labels": []map[string]any{
				{"name": "feature"},
				{"name": "auth"},
			},
		})

	repo := githubTestRepository()
	metadata, err := repo.FetchPullRequest(context.Background(), "acme/api", 42)

	require.NoError(t, err)
	assert.Equal(t, "Add login flow", metadata.Title)
	assert.Equal(t, int64(7), metadata.AuthorId)
	assert.Equal(t, "dev", metadata.AuthorLogin)
	assert.Equal(t, "main", metadata.BaseRef)
	assert.Equal(t, []string{"feature", "auth"}, metadata.Labels)
	assert.Equal(t, 4999, metadata.RateLimitRemaining)
}

func TestFetchChangedFiles(t *testing.T) {
	defer gock.Off()

	gock.New("https://api.github.com").
		Get("/repos/acme/api/pulls/42/files").
		MatchParam("per_page", "100").
		Reply(http.StatusOK).
		SetHeader("x-ratelimit-remaining", "4998").
		JSON([]map[string]any{
			{"filename": "src/auth/login.ts", "status": "modified", "additions": 10, "deletions": 2},
			{"filename": "README.md", "status": "added", "additions": 5, "deletions": 0},
		})

	repo := githubTestRepository()
	files, err := repo.FetchChangedFiles(context.Background(), "acme/api", 42)

	require.NoError(t, err)
	require.Len(t, files.Files, 2)
	assert.Equal(t, "src/auth/login.ts", files.Files[0].Path)
	assert.Equal(t, "modified", files.Files[0].Status)
	assert.Equal(t, 10, files.Files[0].Additions)
	assert.Equal(t, 4998, files.RateLimitRemaining)
}

func TestFetchPullRequestNotFound(t *testing.T) {
	defer gock.Off()

	gock.New("https://api.github.com").
		Get("/repos/acme/api/pulls/404").
		Reply(http.StatusNotFound).
		JSON(map[string]any{"message": "Not Found"})

	repo := githubTestRepository()
	_, err := repo.FetchPullRequest(context.Background(), "acme/api", 404)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestFetchPullRequestRetriesTransientFailures(t *testing.T) {
	defer gock.Off()

	gock.New("https://api.github.com").
		Get("/repos/acme/api/pulls/42").
		Reply(http.StatusBadGateway)
	gock.New("https://api.github.com").
		Get("/repos/acme/api/pulls/42").
		Reply(http.StatusOK).
		JSON(map[string]any{
			"title": "Recovered",
			"user":  map[string]any{"id": 1, "login": "dev"},
			"base":  map[string]any{"ref": "main"},
		})

	repo := githubTestRepository()
	metadata, err := repo.FetchPullRequest(context.Background(), "acme/api", 42)

	require.NoError(t, err)
	assert.Equal(t, "Recovered", metadata.Title)
}
