package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/cockroachdb/errors"

	"github.com/zaxion/zaxion-backend/infra"
	"github.com/zaxion/zaxion-backend/models"
	"github.com/zaxion/zaxion-backend/repositories/httpmodels"
)

// GithubRepository is the code host client used by fact ingestion. It only
// reads: pull request metadata and the changed-file list.
type GithubRepository struct {
	config infra.GithubConfig
	client *http.Client
}

func NewGithubRepository(config infra.GithubConfig, client *http.Client) *GithubRepository {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &GithubRepository{
		config: config,
		client: client,
	}
}

func (repo *GithubRepository) FetchPullRequest(ctx context.Context,
	repoFullName string, prNumber int,
) (models.PullRequestMetadata, error) {
	url := fmt.Sprintf("%s/repos/%s/pulls/%d", repo.config.BaseUrl(), repoFullName, prNumber)

	var pr httpmodels.HTTPGithubPullRequest
	rateLimitRemaining, err := repo.getJSON(ctx, url, &pr)
	if err != nil {
		return models.PullRequestMetadata{}, err
	}

	metadata := httpmodels.AdaptPullRequestMetadata(pr)
	metadata.RateLimitRemaining = rateLimitRemaining
	return metadata, nil
}

func (repo *GithubRepository) FetchChangedFiles(ctx context.Context,
	repoFullName string, prNumber int,
) (models.PullRequestFiles, error) {
	// Fetches up to 100 files. Pagination would be needed for larger PRs.
	url := fmt.Sprintf("%s/repos/%s/pulls/%d/files?per_page=100",
		repo.config.BaseUrl(), repoFullName, prNumber)

	var files []httpmodels.HTTPGithubPullRequestFile
	rateLimitRemaining, err := repo.getJSON(ctx, url, &files)
	if err != nil {
		return models.PullRequestFiles{}, err
	}

	return models.PullRequestFiles{
		Files:              httpmodels.AdaptPullRequestFiles(files),
		RateLimitRemaining: rateLimitRemaining,
	}, nil
}

// getJSON performs an authenticated GET and decodes the body into out. It
// returns the x-ratelimit-remaining value of the response. Transient upstream
// failures (5xx) are retried a few times; anything else fails immediately.
func (repo *GithubRepository) getJSON(ctx context.Context, url string, out any) (int, error) {
	var rateLimitRemaining int

	err := retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
			if err != nil {
				return retry.Unrecoverable(err)
			}
			req.Header.Set("Authorization", "Bearer "+repo.config.Token)
			req.Header.Set("Accept", "application/vnd.github.v3+json")

			resp, err := repo.client.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if remaining := resp.Header.Get("x-ratelimit-remaining"); remaining != "" {
				if parsed, err := strconv.Atoi(remaining); err == nil {
					rateLimitRemaining = parsed
				}
			}

			if resp.StatusCode >= http.StatusInternalServerError {
				return errors.Newf("github API returned status %d", resp.StatusCode)
			}
			if resp.StatusCode != http.StatusOK {
				body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
				return retry.Unrecoverable(errors.Newf(
					"github API returned status %d: %s", resp.StatusCode, string(body)))
			}

			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				return retry.Unrecoverable(errors.Wrap(err, "can't decode github response"))
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(200*time.Millisecond),
		retry.LastErrorOnly(true),
	)
	return rateLimitRemaining, err
}
