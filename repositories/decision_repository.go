package repositories

import (
	"context"
	"encoding/json"

	"github.com/Masterminds/squirrel"
	"github.com/cockroachdb/errors"

	"github.com/zaxion/zaxion-backend/models"
	"github.com/zaxion/zaxion-backend/repositories/dbmodels"
)

// InsertPendingDecision claims the idempotency key by inserting the PENDING
// row. A unique-constraint violation (detectable with IsUniqueViolationError)
// means another writer already holds the key; callers recover by re-reading.
func (repo *GovernanceDbRepository) InsertPendingDecision(ctx context.Context, exec Executor,
	key models.DecisionKey, policyVersion string, newDecisionId string,
) error {
	query := NewQueryBuilder().
		Insert(dbmodels.TABLE_PR_DECISIONS).
		Columns(
			"id",
			"repo_owner",
			"repo_name",
			"pr_number",
			"commit_sha",
			"policy_version",
			"decision",
			"reason",
			"raw_data",
			"started_at",
		).
		Values(
			newDecisionId,
			key.RepoOwner,
			key.RepoName,
			key.PrNumber,
			key.CommitSha,
			policyVersion,
			string(models.DecisionPending),
			"Queued for evaluation",
			[]byte("{}"),
			squirrel.Expr("now()"),
		)

	_, err := ExecBuilder(ctx, exec, query)
	return err
}

func (repo *GovernanceDbRepository) GetDecisionByKey(ctx context.Context, exec Executor,
	key models.DecisionKey,
) (*models.Decision, error) {
	query := NewQueryBuilder().
		Select(dbmodels.SelectDecisionColumns...).
		From(dbmodels.TABLE_PR_DECISIONS).
		Where("repo_owner = ?", key.RepoOwner).
		Where("repo_name = ?", key.RepoName).
		Where("pr_number = ?", key.PrNumber).
		Where("commit_sha = ?", key.CommitSha)

	return SqlToOptionalModel(ctx, exec, query, dbmodels.AdaptDecision)
}

func (repo *GovernanceDbRepository) GetDecisionById(ctx context.Context, exec Executor,
	decisionId string,
) (models.Decision, error) {
	query := NewQueryBuilder().
		Select(dbmodels.SelectDecisionColumns...).
		From(dbmodels.TABLE_PR_DECISIONS).
		Where("id = ?", decisionId)

	return SqlToModel(ctx, exec, query, dbmodels.AdaptDecision)
}

// FinalizeDecision writes the verdict, reason and raw data onto the claimed
// row. The update is guarded on the PENDING state so a finalized decision can
// never be rewritten: reason and raw_data are write-once.
func (repo *GovernanceDbRepository) FinalizeDecision(ctx context.Context, exec Executor,
	decisionId string, state models.DecisionState, reason string, rawData json.RawMessage,
) (models.Decision, error) {
	query := NewQueryBuilder().
		Update(dbmodels.TABLE_PR_DECISIONS).
		Set("decision", string(state)).
		Set("reason", reason).
		Set("raw_data", []byte(rawData)).
		Set("updated_at", squirrel.Expr("now()")).
		Where("id = ?", decisionId).
		Where("decision = ?", string(models.DecisionPending)).
		Suffix("RETURNING " + sqlColumnList(dbmodels.SelectDecisionColumns))

	decision, err := SqlToModel(ctx, exec, query, dbmodels.AdaptDecision)
	if errors.Is(err, models.NotFoundError) {
		return models.Decision{}, errors.Wrap(models.ConflictError,
			"decision was already finalized by another writer")
	}
	return decision, err
}

// SetDecisionOverride updates the denormalized override pointer only. The
// decision's recorded verdict, reason and raw data are left untouched.
func (repo *GovernanceDbRepository) SetDecisionOverride(ctx context.Context, exec Executor,
	decisionId string, overrideId string,
) error {
	query := NewQueryBuilder().
		Update(dbmodels.TABLE_PR_DECISIONS).
		Set("override_id", overrideId).
		Set("updated_at", squirrel.Expr("now()")).
		Where("id = ?", decisionId)

	_, err := ExecBuilder(ctx, exec, query)
	return err
}

func (repo *GovernanceDbRepository) ListDecisions(ctx context.Context, exec Executor,
	filters models.DecisionFilters,
) ([]models.Decision, error) {
	query := NewQueryBuilder().
		Select(dbmodels.SelectDecisionColumns...).
		From(dbmodels.TABLE_PR_DECISIONS).
		OrderBy("created_at DESC")

	if filters.RepoOwner != "" {
		query = query.Where("repo_owner = ?", filters.RepoOwner)
	}
	if filters.RepoName != "" {
		query = query.Where("repo_name = ?", filters.RepoName)
	}
	if filters.PrNumber != nil {
		query = query.Where("pr_number = ?", *filters.PrNumber)
	}

	return SqlToListOfModels(ctx, exec, query, dbmodels.AdaptDecision)
}
