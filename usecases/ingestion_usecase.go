package usecases

import (
	"context"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/zaxion/zaxion-backend/models"
	"github.com/zaxion/zaxion-backend/repositories"
	"github.com/zaxion/zaxion-backend/usecases/executor_factory"
	"github.com/zaxion/zaxion-backend/utils"
)

type githubAdapter interface {
	FetchPullRequest(ctx context.Context, repoFullName string, prNumber int) (models.PullRequestMetadata, error)
	FetchChangedFiles(ctx context.Context, repoFullName string, prNumber int) (models.PullRequestFiles, error)
}

type factSnapshotRepository interface {
	GetFactSnapshot(ctx context.Context, exec repositories.Executor,
		repoFullName, commitSha string) (*models.FactSnapshot, error)
	CreateFactSnapshot(ctx context.Context, exec repositories.Executor,
		snapshot models.FactSnapshot) error
}

// FactIngestionUsecase freezes the observable state of a pull request at a
// commit into an immutable snapshot. Ingestion is deduplicated on
// (repo full name, commit sha): a second call for the same key returns the
// stored snapshot without calling the code host again.
type FactIngestionUsecase struct {
	executorFactory executor_factory.ExecutorFactory
	repository      factSnapshotRepository
	githubAdapter   githubAdapter
}

func NewFactIngestionUsecase(
	executorFactory executor_factory.ExecutorFactory,
	repository factSnapshotRepository,
	githubAdapter githubAdapter,
) FactIngestionUsecase {
	return FactIngestionUsecase{
		executorFactory: executorFactory,
		repository:      repository,
		githubAdapter:   githubAdapter,
	}
}

func (usecase FactIngestionUsecase) IngestFacts(ctx context.Context,
	repoFullName string, prNumber int, commitSha string,
) (models.FactSnapshot, error) {
	logger := utils.LoggerFromContext(ctx)
	exec := usecase.executorFactory.NewExecutor()

	existing, err := usecase.repository.GetFactSnapshot(ctx, exec, repoFullName, commitSha)
	if err != nil {
		return models.FactSnapshot{}, err
	}
	if existing != nil {
		logger.InfoContext(ctx, "returning existing fact snapshot",
			"repo", repoFullName, "commit_sha", commitSha)
		return *existing, nil
	}

	logger.InfoContext(ctx, "starting fact ingestion",
		"repo", repoFullName, "pr_number", prNumber, "commit_sha", commitSha)

	metadata, err := usecase.githubAdapter.FetchPullRequest(ctx, repoFullName, prNumber)
	if err != nil {
		return models.FactSnapshot{}, errors.Wrap(models.ErrFactIngestion, err.Error())
	}
	changedFiles, err := usecase.githubAdapter.FetchChangedFiles(ctx, repoFullName, prNumber)
	if err != nil {
		return models.FactSnapshot{}, errors.Wrap(models.ErrFactIngestion, err.Error())
	}

	now := time.Now()
	snapshot := models.FactSnapshot{
		Id:              uuid.NewString(),
		RepoFullName:    repoFullName,
		PrNumber:        prNumber,
		CommitSha:       commitSha,
		Data:            assembleFactData(metadata, changedFiles, now),
		SnapshotVersion: models.FactSnapshotVersion,
		IngestedAt:      now,
	}

	if err := usecase.repository.CreateFactSnapshot(ctx, exec, snapshot); err != nil {
		// A concurrent ingestion of the same key may have won the insert.
		if repositories.IsUniqueViolationError(err) {
			winner, readErr := usecase.repository.GetFactSnapshot(ctx, exec, repoFullName, commitSha)
			if readErr == nil && winner != nil {
				return *winner, nil
			}
		}
		return models.FactSnapshot{}, errors.Wrap(models.ErrFactIngestion, err.Error())
	}

	logger.InfoContext(ctx, "created fact snapshot", "snapshot_id", snapshot.Id)
	return snapshot, nil
}

func assembleFactData(metadata models.PullRequestMetadata,
	changedFiles models.PullRequestFiles, now time.Time,
) models.FactData {
	files := make([]models.ChangedFile, len(changedFiles.Files))
	additions, deletions, testFilesCount := 0, 0, 0
	for i, f := range changedFiles.Files {
		isTest := isTestFile(f.Path)
		if isTest {
			testFilesCount++
		}
		additions += f.Additions
		deletions += f.Deletions
		files[i] = models.ChangedFile{
			Path:       f.Path,
			Extension:  path.Ext(f.Path),
			Status:     f.Status,
			Additions:  f.Additions,
			Deletions:  f.Deletions,
			IsTestFile: isTest,
		}
	}

	rateLimitRemaining := metadata.RateLimitRemaining
	if rateLimitRemaining == 0 {
		rateLimitRemaining = changedFiles.RateLimitRemaining
	}

	return models.FactData{
		IngestionStatus: models.IngestionStatus{
			Complete:      true,
			MissingFields: []string{},
			IngestedAt:    now,
		},
		Provenance: models.Provenance{
			Source:             "github",
			ApiVersion:         "v3",
			IngestionMethod:    "api",
			RateLimitRemaining: rateLimitRemaining,
		},
		PullRequest: models.PullRequestFacts{
			Title:       metadata.Title,
			AuthorId:    metadata.AuthorId,
			AuthorLogin: metadata.AuthorLogin,
			BaseBranch:  metadata.BaseRef,
			Labels:      metadata.Labels,
			IsDraft:     metadata.Draft,
		},
		Changes: models.ChangeFacts{
			TotalFiles: len(files),
			Additions:  additions,
			Deletions:  deletions,
			Files:      files,
		},
		Metadata: models.DerivedMetadata{
			TestFilesChangedCount: testFilesCount,
			PathPrefixes:          extractPathPrefixes(files),
		},
	}
}

// isTestFile applies naming conventions shared across the js/ts/py
// ecosystems: test tokens in the file name, or a test directory anywhere in
// the path. Case-insensitive.
func isTestFile(filename string) bool {
	lowerPath := strings.ToLower(filename)

	for _, pattern := range []string{".test.", ".spec.", "_test.", "test_"} {
		if strings.Contains(lowerPath, pattern) {
			return true
		}
	}

	for _, dir := range []string{"tests/", "test/", "__tests__/"} {
		if strings.HasPrefix(lowerPath, dir) || strings.Contains(lowerPath, "/"+dir) {
			return true
		}
	}
	return false
}

// extractPathPrefixes lists every ancestor directory of the changed files,
// deduplicated and sorted. A file at the repository root contributes nothing.
func extractPathPrefixes(files []models.ChangedFile) []string {
	seen := make(map[string]bool)
	for _, f := range files {
		parts := strings.Split(f.Path, "/")
		if len(parts) < 2 {
			continue
		}
		current := ""
		for _, part := range parts[:len(parts)-1] {
			if part == "" {
				continue
			}
			if current == "" {
				current = part
			} else {
				current = current + "/" + part
			}
			seen[current] = true
		}
	}

	prefixes := make([]string, 0, len(seen))
	for prefix := range seen {
		prefixes = append(prefixes, prefix)
	}
	sort.Strings(prefixes)
	return prefixes
}
