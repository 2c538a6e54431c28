package repositories

import (
	"context"

	"github.com/Masterminds/squirrel"

	"github.com/zaxion/zaxion-backend/models"
	"github.com/zaxion/zaxion-backend/repositories/dbmodels"
)

// InsertOverride appends a new override row. Overrides are never updated or
// deleted; a newer override supersedes older ones by creation time.
func (repo *GovernanceDbRepository) InsertOverride(ctx context.Context, exec Executor,
	input models.CreateOverrideInput, newOverrideId string,
) (models.Override, error) {
	query := NewQueryBuilder().
		Insert(dbmodels.TABLE_PR_OVERRIDES).
		Columns(
			"id",
			"pr_decision_id",
			"user_login",
			"override_reason",
			"category",
			"ttl_hours",
		).
		Values(
			newOverrideId,
			input.DecisionId,
			input.UserLogin,
			input.Reason,
			input.Category,
			input.TtlHours,
		).
		Suffix("RETURNING " + sqlColumnList(dbmodels.SelectOverrideColumns))

	return SqlToModel(ctx, exec, query, dbmodels.AdaptOverride)
}

func (repo *GovernanceDbRepository) GetOverride(ctx context.Context, exec Executor,
	overrideId string,
) (models.Override, error) {
	query := NewQueryBuilder().
		Select(dbmodels.SelectOverrideColumns...).
		From(dbmodels.TABLE_PR_OVERRIDES).
		Where("id = ?", overrideId)

	return SqlToModel(ctx, exec, query, dbmodels.AdaptOverride)
}

// LatestOverrideForDecision returns the most recent override, or nil when the
// decision has never been overridden. Expiry is not filtered here: it is the
// caller's job to check the TTL at read time.
func (repo *GovernanceDbRepository) LatestOverrideForDecision(ctx context.Context, exec Executor,
	decisionId string,
) (*models.Override, error) {
	query := NewQueryBuilder().
		Select(dbmodels.SelectOverrideColumns...).
		From(dbmodels.TABLE_PR_OVERRIDES).
		Where("pr_decision_id = ?", decisionId).
		OrderBy("created_at DESC").
		Limit(1)

	return SqlToOptionalModel(ctx, exec, query, dbmodels.AdaptOverride)
}

// ListOverridesByIds fetches overrides by primary key in one round trip, for
// joining overrides onto a page of decisions.
func (repo *GovernanceDbRepository) ListOverridesByIds(ctx context.Context, exec Executor,
	overrideIds []string,
) ([]models.Override, error) {
	query := NewQueryBuilder().
		Select(dbmodels.SelectOverrideColumns...).
		From(dbmodels.TABLE_PR_OVERRIDES).
		Where(squirrel.Eq{"id": overrideIds})

	return SqlToListOfModels(ctx, exec, query, dbmodels.AdaptOverride)
}

func (repo *GovernanceDbRepository) ListOverridesForDecision(ctx context.Context, exec Executor,
	decisionId string,
) ([]models.Override, error) {
	query := NewQueryBuilder().
		Select(dbmodels.SelectOverrideColumns...).
		From(dbmodels.TABLE_PR_OVERRIDES).
		Where("pr_decision_id = ?", decisionId).
		OrderBy("created_at DESC")

	return SqlToListOfModels(ctx, exec, query, dbmodels.AdaptOverride)
}
