package repositories

import (
	"context"
	"encoding/json"

	"github.com/cockroachdb/errors"

	"github.com/zaxion/zaxion-backend/models"
	"github.com/zaxion/zaxion-backend/repositories/dbmodels"
)

// GetFactSnapshot returns the snapshot stored for (repoFullName, commitSha),
// or nil when none exists. The pair is the snapshot's uniqueness key.
func (repo *GovernanceDbRepository) GetFactSnapshot(ctx context.Context, exec Executor,
	repoFullName, commitSha string,
) (*models.FactSnapshot, error) {
	query := NewQueryBuilder().
		Select(dbmodels.SelectFactSnapshotColumns...).
		From(dbmodels.TABLE_FACT_SNAPSHOTS).
		Where("repo_full_name = ?", repoFullName).
		Where("commit_sha = ?", commitSha)

	return SqlToOptionalModel(ctx, exec, query, dbmodels.AdaptFactSnapshot)
}

func (repo *GovernanceDbRepository) CreateFactSnapshot(ctx context.Context, exec Executor,
	snapshot models.FactSnapshot,
) error {
	data, err := json.Marshal(snapshot.Data)
	if err != nil {
		return errors.Wrap(err, "can't encode fact snapshot data")
	}

	query := NewQueryBuilder().
		Insert(dbmodels.TABLE_FACT_SNAPSHOTS).
		Columns(
			"id",
			"repo_full_name",
			"pr_number",
			"commit_sha",
			"data",
			"snapshot_version",
			"ingested_at",
		).
		Values(
			snapshot.Id,
			snapshot.RepoFullName,
			snapshot.PrNumber,
			snapshot.CommitSha,
			data,
			snapshot.SnapshotVersion,
			snapshot.IngestedAt,
		)

	_, err = ExecBuilder(ctx, exec, query)
	return err
}
