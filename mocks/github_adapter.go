package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/zaxion/zaxion-backend/models"
)

type GithubAdapter struct {
	mock.Mock
}

func (m *GithubAdapter) FetchPullRequest(ctx context.Context, repoFullName string, prNumber int) (models.PullRequestMetadata, error) {
	args := m.Called(ctx, repoFullName, prNumber)
	return args.Get(0).(models.PullRequestMetadata), args.Error(1)
}

func (m *GithubAdapter) FetchChangedFiles(ctx context.Context, repoFullName string, prNumber int) (models.PullRequestFiles, error) {
	args := m.Called(ctx, repoFullName, prNumber)
	return args.Get(0).(models.PullRequestFiles), args.Error(1)
}
