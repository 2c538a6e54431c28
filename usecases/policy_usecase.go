package usecases

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/zaxion/zaxion-backend/models"
	"github.com/zaxion/zaxion-backend/repositories"
	"github.com/zaxion/zaxion-backend/usecases/executor_factory"
	"github.com/zaxion/zaxion-backend/utils"
)

type policyAdminRepository interface {
	CreatePolicy(ctx context.Context, exec repositories.Executor,
		input models.CreatePolicyInput, newPolicyId string) error
	GetPolicy(ctx context.Context, exec repositories.Executor,
		policyId string) (models.Policy, error)
	ListPolicies(ctx context.Context, exec repositories.Executor) ([]models.Policy, error)
	CreatePolicyVersion(ctx context.Context, exec repositories.Executor,
		input models.CreatePolicyVersionInput, newVersionId string) (models.PolicyVersion, error)
	LatestPolicyVersion(ctx context.Context, exec repositories.Executor,
		policyId string) (models.PolicyVersion, error)
	ListPolicyVersions(ctx context.Context, exec repositories.Executor,
		policyId string) ([]models.PolicyVersion, error)
	GetPolicyVersion(ctx context.Context, exec repositories.Executor,
		versionId string) (models.PolicyVersion, error)
	GetPolicyMetrics(ctx context.Context, exec repositories.Executor,
		policyId string) ([]models.PolicyMetrics, error)
}

// PolicyUsecase is the admin surface of the policy repository. Writes always
// go through rule validation: malformed rule-sets never enter storage.
type PolicyUsecase struct {
	executorFactory    executor_factory.ExecutorFactory
	transactionFactory executor_factory.TransactionFactory
	repository         policyAdminRepository
}

func NewPolicyUsecase(
	executorFactory executor_factory.ExecutorFactory,
	transactionFactory executor_factory.TransactionFactory,
	repository policyAdminRepository,
) PolicyUsecase {
	return PolicyUsecase{
		executorFactory:    executorFactory,
		transactionFactory: transactionFactory,
		repository:         repository,
	}
}

func (usecase PolicyUsecase) CreatePolicy(ctx context.Context,
	input models.CreatePolicyInput,
) (models.PolicyWithVersion, error) {
	if strings.TrimSpace(input.Name) == "" {
		return models.PolicyWithVersion{}, errors.Wrap(models.BadParameterError,
			"policy name is required")
	}
	if _, err := models.PolicyScopeFrom(string(input.Scope)); err != nil {
		return models.PolicyWithVersion{}, errors.Wrap(models.BadParameterError, err.Error())
	}
	if _, err := models.EnforcementLevelFrom(string(input.Level)); err != nil {
		return models.PolicyWithVersion{}, errors.Wrap(models.BadParameterError, err.Error())
	}
	if err := input.Rules.Validate(); err != nil {
		return models.PolicyWithVersion{}, errors.Wrap(models.BadParameterError, err.Error())
	}

	policyId := uuid.NewString()
	var version models.PolicyVersion

	err := usecase.transactionFactory.Transaction(ctx, func(tx repositories.Transaction) error {
		if err := usecase.repository.CreatePolicy(ctx, tx, input, policyId); err != nil {
			return err
		}
		created, err := usecase.repository.CreatePolicyVersion(ctx, tx,
			models.CreatePolicyVersionInput{
				PolicyId: policyId,
				Level:    input.Level,
				Rules:    input.Rules,
			}, uuid.NewString())
		if err != nil {
			return err
		}
		version = created
		return nil
	})
	if err != nil {
		return models.PolicyWithVersion{}, err
	}

	policy, err := usecase.repository.GetPolicy(ctx, usecase.executorFactory.NewExecutor(), policyId)
	if err != nil {
		return models.PolicyWithVersion{}, err
	}

	utils.LoggerFromContext(ctx).InfoContext(ctx, "policy created",
		"policy_id", policyId, "scope", input.Scope, "level", input.Level)
	return models.PolicyWithVersion{Policy: policy, Version: version}, nil
}

// AddPolicyVersion appends a new immutable version; the previous versions
// stay addressable for replay.
func (usecase PolicyUsecase) AddPolicyVersion(ctx context.Context,
	input models.CreatePolicyVersionInput,
) (models.PolicyVersion, error) {
	if _, err := models.EnforcementLevelFrom(string(input.Level)); err != nil {
		return models.PolicyVersion{}, errors.Wrap(models.BadParameterError, err.Error())
	}
	if err := input.Rules.Validate(); err != nil {
		return models.PolicyVersion{}, errors.Wrap(models.BadParameterError, err.Error())
	}

	exec := usecase.executorFactory.NewExecutor()
	if _, err := usecase.repository.GetPolicy(ctx, exec, input.PolicyId); err != nil {
		return models.PolicyVersion{}, err
	}

	return usecase.repository.CreatePolicyVersion(ctx, exec, input, uuid.NewString())
}

func (usecase PolicyUsecase) GetPolicy(ctx context.Context,
	policyId string,
) (models.PolicyWithVersion, error) {
	exec := usecase.executorFactory.NewExecutor()

	policy, err := usecase.repository.GetPolicy(ctx, exec, policyId)
	if err != nil {
		return models.PolicyWithVersion{}, err
	}
	version, err := usecase.repository.LatestPolicyVersion(ctx, exec, policyId)
	if err != nil {
		return models.PolicyWithVersion{}, err
	}
	return models.PolicyWithVersion{Policy: policy, Version: version}, nil
}

func (usecase PolicyUsecase) ListPolicies(ctx context.Context) ([]models.Policy, error) {
	return usecase.repository.ListPolicies(ctx, usecase.executorFactory.NewExecutor())
}

// GetPolicyVersion fetches one historical version, for replaying how a past
// decision was judged. The version must belong to the addressed policy.
func (usecase PolicyUsecase) GetPolicyVersion(ctx context.Context,
	policyId, versionId string,
) (models.PolicyVersion, error) {
	version, err := usecase.repository.GetPolicyVersion(ctx,
		usecase.executorFactory.NewExecutor(), versionId)
	if err != nil {
		return models.PolicyVersion{}, err
	}
	if version.PolicyId != policyId {
		return models.PolicyVersion{}, errors.Wrapf(models.NotFoundError,
			"version %s does not belong to policy %s", versionId, policyId)
	}
	return version, nil
}

func (usecase PolicyUsecase) ListPolicyVersions(ctx context.Context,
	policyId string,
) ([]models.PolicyVersion, error) {
	return usecase.repository.ListPolicyVersions(ctx, usecase.executorFactory.NewExecutor(), policyId)
}

func (usecase PolicyUsecase) GetPolicyMetrics(ctx context.Context,
	policyId string,
) ([]models.PolicyMetrics, error) {
	return usecase.repository.GetPolicyMetrics(ctx, usecase.executorFactory.NewExecutor(), policyId)
}
