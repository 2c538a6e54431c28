package repositories

import (
	"context"

	"github.com/zaxion/zaxion-backend/models"
	"github.com/zaxion/zaxion-backend/repositories/dbmodels"
)

// IncrementPolicyMetrics bumps the derived counters for one policy version.
// Upsert keyed on (policy_id, policy_version_id).
func (repo *GovernanceDbRepository) IncrementPolicyMetrics(ctx context.Context, exec Executor,
	policyId, policyVersionId string, increment models.PolicyMetricsIncrement,
) error {
	query := NewQueryBuilder().
		Insert(dbmodels.TABLE_POLICY_METRICS).
		Columns(
			"policy_id",
			"policy_version_id",
			"total_evaluations",
			"total_blocks",
			"total_overrides",
		).
		Values(
			policyId,
			policyVersionId,
			increment.Evaluations,
			increment.Blocks,
			increment.Overrides,
		).
		Suffix("ON CONFLICT (policy_id, policy_version_id) DO UPDATE SET " +
			"total_evaluations = " + dbmodels.TABLE_POLICY_METRICS + ".total_evaluations + excluded.total_evaluations, " +
			"total_blocks = " + dbmodels.TABLE_POLICY_METRICS + ".total_blocks + excluded.total_blocks, " +
			"total_overrides = " + dbmodels.TABLE_POLICY_METRICS + ".total_overrides + excluded.total_overrides, " +
			"updated_at = now()")

	_, err := ExecBuilder(ctx, exec, query)
	return err
}

func (repo *GovernanceDbRepository) GetPolicyMetrics(ctx context.Context, exec Executor,
	policyId string,
) ([]models.PolicyMetrics, error) {
	query := NewQueryBuilder().
		Select(dbmodels.SelectPolicyMetricsColumns...).
		From(dbmodels.TABLE_POLICY_METRICS).
		Where("policy_id = ?", policyId).
		OrderBy("updated_at DESC")

	return SqlToListOfModels(ctx, exec, query, dbmodels.AdaptPolicyMetrics)
}
