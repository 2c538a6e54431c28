package mocks

import (
	"context"
	"encoding/json"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/zaxion/zaxion-backend/models"
	"github.com/zaxion/zaxion-backend/repositories"
)

type GovernanceDbRepository struct {
	mock.Mock
}

func (m *GovernanceDbRepository) GetFactSnapshot(ctx context.Context, exec repositories.Executor,
	repoFullName, commitSha string,
) (*models.FactSnapshot, error) {
	args := m.Called(ctx, exec, repoFullName, commitSha)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FactSnapshot), args.Error(1)
}

func (m *GovernanceDbRepository) CreateFactSnapshot(ctx context.Context, exec repositories.Executor,
	snapshot models.FactSnapshot,
) error {
	args := m.Called(ctx, exec, snapshot)
	return args.Error(0)
}

func (m *GovernanceDbRepository) InsertPendingDecision(ctx context.Context, exec repositories.Executor,
	key models.DecisionKey, policyVersion string, newDecisionId string,
) error {
	args := m.Called(ctx, exec, key, policyVersion, newDecisionId)
	return args.Error(0)
}

func (m *GovernanceDbRepository) GetDecisionByKey(ctx context.Context, exec repositories.Executor,
	key models.DecisionKey,
) (*models.Decision, error) {
	args := m.Called(ctx, exec, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Decision), args.Error(1)
}

func (m *GovernanceDbRepository) GetDecisionById(ctx context.Context, exec repositories.Executor,
	decisionId string,
) (models.Decision, error) {
	args := m.Called(ctx, exec, decisionId)
	return args.Get(0).(models.Decision), args.Error(1)
}

func (m *GovernanceDbRepository) FinalizeDecision(ctx context.Context, exec repositories.Executor,
	decisionId string, state models.DecisionState, reason string, rawData json.RawMessage,
) (models.Decision, error) {
	args := m.Called(ctx, exec, decisionId, state, reason, rawData)
	return args.Get(0).(models.Decision), args.Error(1)
}

func (m *GovernanceDbRepository) SetDecisionOverride(ctx context.Context, exec repositories.Executor,
	decisionId string, overrideId string,
) error {
	args := m.Called(ctx, exec, decisionId, overrideId)
	return args.Error(0)
}

func (m *GovernanceDbRepository) ListDecisions(ctx context.Context, exec repositories.Executor,
	filters models.DecisionFilters,
) ([]models.Decision, error) {
	args := m.Called(ctx, exec, filters)
	return args.Get(0).([]models.Decision), args.Error(1)
}

func (m *GovernanceDbRepository) InsertOverride(ctx context.Context, exec repositories.Executor,
	input models.CreateOverrideInput, newOverrideId string,
) (models.Override, error) {
	args := m.Called(ctx, exec, input, newOverrideId)
	return args.Get(0).(models.Override), args.Error(1)
}

func (m *GovernanceDbRepository) GetOverride(ctx context.Context, exec repositories.Executor,
	overrideId string,
) (models.Override, error) {
	args := m.Called(ctx, exec, overrideId)
	return args.Get(0).(models.Override), args.Error(1)
}

func (m *GovernanceDbRepository) LatestOverrideForDecision(ctx context.Context, exec repositories.Executor,
	decisionId string,
) (*models.Override, error) {
	args := m.Called(ctx, exec, decisionId)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Override), args.Error(1)
}

func (m *GovernanceDbRepository) ListOverridesByIds(ctx context.Context, exec repositories.Executor,
	overrideIds []string,
) ([]models.Override, error) {
	args := m.Called(ctx, exec, overrideIds)
	return args.Get(0).([]models.Override), args.Error(1)
}

func (m *GovernanceDbRepository) ListOverridesForDecision(ctx context.Context, exec repositories.Executor,
	decisionId string,
) ([]models.Override, error) {
	args := m.Called(ctx, exec, decisionId)
	return args.Get(0).([]models.Override), args.Error(1)
}

func (m *GovernanceDbRepository) CreatePolicy(ctx context.Context, exec repositories.Executor,
	input models.CreatePolicyInput, newPolicyId string,
) error {
	args := m.Called(ctx, exec, input, newPolicyId)
	return args.Error(0)
}

func (m *GovernanceDbRepository) GetPolicy(ctx context.Context, exec repositories.Executor,
	policyId string,
) (models.Policy, error) {
	args := m.Called(ctx, exec, policyId)
	return args.Get(0).(models.Policy), args.Error(1)
}

func (m *GovernanceDbRepository) ListPolicies(ctx context.Context, exec repositories.Executor) ([]models.Policy, error) {
	args := m.Called(ctx, exec)
	return args.Get(0).([]models.Policy), args.Error(1)
}

func (m *GovernanceDbRepository) CreatePolicyVersion(ctx context.Context, exec repositories.Executor,
	input models.CreatePolicyVersionInput, newVersionId string,
) (models.PolicyVersion, error) {
	args := m.Called(ctx, exec, input, newVersionId)
	return args.Get(0).(models.PolicyVersion), args.Error(1)
}

func (m *GovernanceDbRepository) LatestPolicyVersion(ctx context.Context, exec repositories.Executor,
	policyId string,
) (models.PolicyVersion, error) {
	args := m.Called(ctx, exec, policyId)
	return args.Get(0).(models.PolicyVersion), args.Error(1)
}

func (m *GovernanceDbRepository) ListPolicyVersions(ctx context.Context, exec repositories.Executor,
	policyId string,
) ([]models.PolicyVersion, error) {
	args := m.Called(ctx, exec, policyId)
	return args.Get(0).([]models.PolicyVersion), args.Error(1)
}

func (m *GovernanceDbRepository) GetPolicyVersion(ctx context.Context, exec repositories.Executor,
	versionId string,
) (models.PolicyVersion, error) {
	args := m.Called(ctx, exec, versionId)
	return args.Get(0).(models.PolicyVersion), args.Error(1)
}

func (m *GovernanceDbRepository) ListPoliciesByScope(ctx context.Context, exec repositories.Executor,
	scope models.PolicyScope, targetId string, asOf time.Time,
) ([]models.PolicyWithVersion, error) {
	args := m.Called(ctx, exec, scope, targetId, asOf)
	return args.Get(0).([]models.PolicyWithVersion), args.Error(1)
}

func (m *GovernanceDbRepository) IncrementPolicyMetrics(ctx context.Context, exec repositories.Executor,
	policyId, policyVersionId string, increment models.PolicyMetricsIncrement,
) error {
	args := m.Called(ctx, exec, policyId, policyVersionId, increment)
	return args.Error(0)
}

func (m *GovernanceDbRepository) GetPolicyMetrics(ctx context.Context, exec repositories.Executor,
	policyId string,
) ([]models.PolicyMetrics, error) {
	args := m.Called(ctx, exec, policyId)
	return args.Get(0).([]models.PolicyMetrics), args.Error(1)
}
