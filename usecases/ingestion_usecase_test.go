package usecases

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/zaxion/zaxion-backend/mocks"
	"github.com/zaxion/zaxion-backend/models"
)

func TestIsTestFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"src/auth/login.test.js", true},
		{"src/auth/login.spec.ts", true},
		{"pkg/server_test.go", true},
		{"scripts/test_runner.py", true},
		{"tests/auth.js", true},
		{"src/__tests__/app.tsx", true},
		{"backend/test/helpers.js", true},
		{"src/auth/login.js", false},
		{"docs/testing-guide.md", false},
		{"src/contest/vote.js", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, isTestFile(tt.path), "path %q", tt.path)
	}
}

func TestExtractPathPrefixes(t *testing.T) {
	files := []models.ChangedFile{
		{Path: "src/auth/login.ts"},
		{Path: "src/app.ts"},
		{Path: "README.md"},
	}

	prefixes := extractPathPrefixes(files)

	assert.Equal(t, []string{"src", "src/auth"}, prefixes)
}

func TestIngestFactsReturnsExistingSnapshot(t *testing.T) {
	ctx := context.Background()
	stored := models.FactSnapshot{
		Id:           "existing-id",
		RepoFullName: "acme/api",
		CommitSha:    "abc123",
	}

	executorFactory := new(mocks.ExecutorFactory)
	executorFactory.On("NewExecutor").Return(nil)
	repository := new(mocks.GovernanceDbRepository)
	repository.On("GetFactSnapshot", ctx, nil, "acme/api", "abc123").Return(&stored, nil)
	github := new(mocks.GithubAdapter)

	usecase := NewFactIngestionUsecase(executorFactory, repository, github)
	snapshot, err := usecase.IngestFacts(ctx, "acme/api", 42, "abc123")

	require.NoError(t, err)
	assert.Equal(t, stored, snapshot)
	github.AssertNotCalled(t, "FetchPullRequest")
	github.AssertNotCalled(t, "FetchChangedFiles")
}

func TestIngestFactsAssemblesDerivations(t *testing.T) {
	ctx := context.Background()

	executorFactory := new(mocks.ExecutorFactory)
	executorFactory.On("NewExecutor").Return(nil)
	repository := new(mocks.GovernanceDbRepository)
	repository.On("GetFactSnapshot", ctx, nil, "acme/api", "abc123").Return(nil, nil)
	repository.On("CreateFactSnapshot", ctx, nil, mock.Anything).Return(nil)

	github := new(mocks.GithubAdapter)
	github.On("FetchPullRequest", ctx, "acme/api", 42).Return(models.PullRequestMetadata{
		Title:              "Add login",
		AuthorId:           7,
		AuthorLogin:        "dev",
		BaseRef:            "main",
		Labels:             []string{"feature"},
		RateLimitRemaining: 4900,
	}, nil)
	github.On("FetchChangedFiles", ctx, "acme/api", 42).Return(models.PullRequestFiles{
		Files: []models.PullRequestFile{
			{Path: "src/auth/login.ts", Status: "modified", Additions: 10, Deletions: 2},
			{Path: "src/auth/login.test.ts", Status: "added", Additions: 30},
			{Path: "README.md", Status: "modified", Additions: 1},
		},
	}, nil)

	usecase := NewFactIngestionUsecase(executorFactory, repository, github)
	snapshot, err := usecase.IngestFacts(ctx, "acme/api", 42, "abc123")

	require.NoError(t, err)
	assert.Equal(t, models.FactSnapshotVersion, snapshot.SnapshotVersion)
	assert.Equal(t, 3, snapshot.Data.Changes.TotalFiles)
	assert.Equal(t, 41, snapshot.Data.Changes.Additions)
	assert.Equal(t, 2, snapshot.Data.Changes.Deletions)
	assert.Equal(t, 1, snapshot.Data.Metadata.TestFilesChangedCount)
	assert.Equal(t, []string{"src", "src/auth"}, snapshot.Data.Metadata.PathPrefixes)
	assert.Equal(t, ".ts", snapshot.Data.Changes.Files[0].Extension)
	assert.True(t, snapshot.Data.Changes.Files[1].IsTestFile)
	assert.Equal(t, 4900, snapshot.Data.Provenance.RateLimitRemaining)
	assert.Equal(t, "github", snapshot.Data.Provenance.Source)
	assert.True(t, snapshot.Data.IngestionStatus.Complete)
	repository.AssertCalled(t, "CreateFactSnapshot", ctx, nil, mock.Anything)
}

func TestIngestFactsWrapsUpstreamFailure(t *testing.T) {
	ctx := context.Background()

	executorFactory := new(mocks.ExecutorFactory)
	executorFactory.On("NewExecutor").Return(nil)
	repository := new(mocks.GovernanceDbRepository)
	repository.On("GetFactSnapshot", ctx, nil, "acme/api", "abc123").Return(nil, nil)

	github := new(mocks.GithubAdapter)
	github.On("FetchPullRequest", ctx, "acme/api", 42).
		Return(models.PullRequestMetadata{}, errors.New("github API returned status 404"))

	usecase := NewFactIngestionUsecase(executorFactory, repository, github)
	_, err := usecase.IngestFacts(ctx, "acme/api", 42, "abc123")

	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrFactIngestion)
	repository.AssertNotCalled(t, "CreateFactSnapshot")
}
