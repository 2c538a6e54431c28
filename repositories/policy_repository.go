package repositories

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/cockroachdb/errors"

	"github.com/zaxion/zaxion-backend/models"
	"github.com/zaxion/zaxion-backend/repositories/dbmodels"
)

func (repo *GovernanceDbRepository) CreatePolicy(ctx context.Context, exec Executor,
	input models.CreatePolicyInput, newPolicyId string,
) error {
	query := NewQueryBuilder().
		Insert(dbmodels.TABLE_POLICIES).
		Columns(
			"id",
			"name",
			"scope",
			"target_id",
			"owning_role",
		).
		Values(
			newPolicyId,
			input.Name,
			string(input.Scope),
			input.TargetId,
			input.OwningRole,
		)

	_, err := ExecBuilder(ctx, exec, query)
	return err
}

func (repo *GovernanceDbRepository) GetPolicy(ctx context.Context, exec Executor,
	policyId string,
) (models.Policy, error) {
	query := NewQueryBuilder().
		Select(dbmodels.SelectPolicyColumns...).
		From(dbmodels.TABLE_POLICIES).
		Where("id = ?", policyId)

	return SqlToModel(ctx, exec, query, dbmodels.AdaptPolicy)
}

func (repo *GovernanceDbRepository) ListPolicies(ctx context.Context, exec Executor) ([]models.Policy, error) {
	query := NewQueryBuilder().
		Select(dbmodels.SelectPolicyColumns...).
		From(dbmodels.TABLE_POLICIES).
		OrderBy("created_at")

	return SqlToListOfModels(ctx, exec, query, dbmodels.AdaptPolicy)
}

// CreatePolicyVersion inserts a new immutable version, numbered one above the
// current maximum for the policy. Existing versions are never touched.
func (repo *GovernanceDbRepository) CreatePolicyVersion(ctx context.Context, exec Executor,
	input models.CreatePolicyVersionInput, newVersionId string,
) (models.PolicyVersion, error) {
	rules, err := json.Marshal(input.Rules)
	if err != nil {
		return models.PolicyVersion{}, errors.Wrap(err, "can't encode policy rules")
	}

	query := NewQueryBuilder().
		Insert(dbmodels.TABLE_POLICY_VERSIONS).
		Columns(
			"id",
			"policy_id",
			"version_number",
			"enforcement_level",
			"rules_logic",
		).
		Values(
			newVersionId,
			input.PolicyId,
			squirrel.Expr(
				"(SELECT coalesce(max(version_number), 0) + 1 FROM "+
					dbmodels.TABLE_POLICY_VERSIONS+" WHERE policy_id = ?)",
				input.PolicyId,
			),
			string(input.Level),
			rules,
		).
		Suffix("RETURNING " + sqlColumnList(dbmodels.SelectPolicyVersionColumns))

	return SqlToModel(ctx, exec, query, dbmodels.AdaptPolicyVersion)
}

// LatestPolicyVersion returns the newest version of a policy, regardless of
// timestamp.
func (repo *GovernanceDbRepository) LatestPolicyVersion(ctx context.Context, exec Executor,
	policyId string,
) (models.PolicyVersion, error) {
	query := NewQueryBuilder().
		Select(dbmodels.SelectPolicyVersionColumns...).
		From(dbmodels.TABLE_POLICY_VERSIONS).
		Where("policy_id = ?", policyId).
		OrderBy("version_number DESC").
		Limit(1)

	return SqlToModel(ctx, exec, query, dbmodels.AdaptPolicyVersion)
}

func (repo *GovernanceDbRepository) ListPolicyVersions(ctx context.Context, exec Executor,
	policyId string,
) ([]models.PolicyVersion, error) {
	query := NewQueryBuilder().
		Select(dbmodels.SelectPolicyVersionColumns...).
		From(dbmodels.TABLE_POLICY_VERSIONS).
		Where("policy_id = ?", policyId).
		OrderBy("version_number DESC")

	return SqlToListOfModels(ctx, exec, query, dbmodels.AdaptPolicyVersion)
}

func (repo *GovernanceDbRepository) GetPolicyVersion(ctx context.Context, exec Executor,
	versionId string,
) (models.PolicyVersion, error) {
	query := NewQueryBuilder().
		Select(dbmodels.SelectPolicyVersionColumns...).
		From(dbmodels.TABLE_POLICY_VERSIONS).
		Where("id = ?", versionId)

	return SqlToModel(ctx, exec, query, dbmodels.AdaptPolicyVersion)
}

// ListPoliciesByScope fetches the policies bound to one target at one scope,
// each paired with its latest version created at or before asOf. Policies
// whose first version postdates asOf are not returned: they were not active
// when the snapshot was taken.
func (repo *GovernanceDbRepository) ListPoliciesByScope(ctx context.Context, exec Executor,
	scope models.PolicyScope, targetId string, asOf time.Time,
) ([]models.PolicyWithVersion, error) {
	query := NewQueryBuilder().
		Select(append(
			columnsNames("p", dbmodels.SelectPolicyColumns),
			columnsNames("v", dbmodels.SelectPolicyVersionColumns)...,
		)...).
		From(dbmodels.TABLE_POLICIES + " p").
		JoinClause(
			"JOIN LATERAL (SELECT * FROM "+dbmodels.TABLE_POLICY_VERSIONS+
				" pv WHERE pv.policy_id = p.id AND pv.created_at <= ?"+
				" ORDER BY pv.version_number DESC LIMIT 1) v ON true",
			asOf,
		).
		Where("p.scope = ?", string(scope)).
		Where("p.target_id = ?", targetId).
		OrderBy("p.created_at")

	return SqlToListOfModels(ctx, exec, query, dbmodels.AdaptPolicyWithVersion)
}
