package usecases

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/zaxion/zaxion-backend/models"
	"github.com/zaxion/zaxion-backend/repositories"
	"github.com/zaxion/zaxion-backend/usecases/executor_factory"
	"github.com/zaxion/zaxion-backend/utils"
)

type overrideRepository interface {
	GetDecisionById(ctx context.Context, exec repositories.Executor,
		decisionId string) (models.Decision, error)
	LatestOverrideForDecision(ctx context.Context, exec repositories.Executor,
		decisionId string) (*models.Override, error)
	InsertOverride(ctx context.Context, exec repositories.Executor,
		input models.CreateOverrideInput, newOverrideId string) (models.Override, error)
	SetDecisionOverride(ctx context.Context, exec repositories.Executor,
		decisionId string, overrideId string) error
	ListOverridesForDecision(ctx context.Context, exec repositories.Executor,
		decisionId string) ([]models.Override, error)
	IncrementPolicyMetrics(ctx context.Context, exec repositories.Executor,
		policyId, policyVersionId string, increment models.PolicyMetricsIncrement) error
}

// OverrideUsecase records human exceptions to blocking decisions. The
// decision's recorded verdict, reason and raw data stay untouched: an
// override only flips the state computed at read time.
type OverrideUsecase struct {
	executorFactory    executor_factory.ExecutorFactory
	transactionFactory executor_factory.TransactionFactory
	repository         overrideRepository
}

func NewOverrideUsecase(
	executorFactory executor_factory.ExecutorFactory,
	transactionFactory executor_factory.TransactionFactory,
	repository overrideRepository,
) OverrideUsecase {
	return OverrideUsecase{
		executorFactory:    executorFactory,
		transactionFactory: transactionFactory,
		repository:         repository,
	}
}

func (usecase OverrideUsecase) OverrideDecision(ctx context.Context,
	input models.CreateOverrideInput,
) (models.Override, error) {
	if len(strings.TrimSpace(input.Reason)) < models.MinOverrideReasonLength {
		return models.Override{}, errors.Wrapf(models.ErrOverrideReasonTooShort,
			"justification must be at least %d characters long", models.MinOverrideReasonLength)
	}

	exec := usecase.executorFactory.NewExecutor()
	now := time.Now()

	decision, err := usecase.repository.GetDecisionById(ctx, exec, input.DecisionId)
	if err != nil {
		return models.Override{}, err
	}

	current, err := usecase.repository.LatestOverrideForDecision(ctx, exec, decision.Id)
	if err != nil {
		return models.Override{}, err
	}
	if !decision.CanBeOverridden(current, now) {
		return models.Override{}, errors.Wrapf(models.ErrOverrideInvalidState,
			"decision %s has effective state %s", decision.Id, decision.EffectiveState(current, now))
	}

	var override models.Override
	err = usecase.transactionFactory.Transaction(ctx, func(tx repositories.Transaction) error {
		created, err := usecase.repository.InsertOverride(ctx, tx, input, uuid.NewString())
		if err != nil {
			return err
		}
		override = created
		return usecase.repository.SetDecisionOverride(ctx, tx, decision.Id, created.Id)
	})
	if err != nil {
		return models.Override{}, err
	}

	usecase.recordOverrideMetrics(ctx, exec, decision)

	utils.LoggerFromContext(ctx).InfoContext(ctx, "decision overridden",
		"decision_id", decision.Id, "override_id", override.Id, "user", input.UserLogin)
	return override, nil
}

// recordOverrideMetrics bumps the override counter of every policy the
// decision evaluated. Best-effort.
func (usecase OverrideUsecase) recordOverrideMetrics(ctx context.Context,
	exec repositories.Executor, decision models.Decision,
) {
	var rawData struct {
		Policies []models.ResolvedPolicy `json:"policies"`
	}
	if err := json.Unmarshal(decision.RawData, &rawData); err != nil {
		return
	}

	for _, policy := range rawData.Policies {
		if err := usecase.repository.IncrementPolicyMetrics(ctx, exec,
			policy.PolicyId, policy.PolicyVersionId,
			models.PolicyMetricsIncrement{Overrides: 1}); err != nil {
			utils.LoggerFromContext(ctx).WarnContext(ctx, "failed to record override metrics",
				"policy_id", policy.PolicyId, "error", err.Error())
		}
	}
}

func (usecase OverrideUsecase) ListOverrides(ctx context.Context,
	decisionId string,
) ([]models.Override, error) {
	exec := usecase.executorFactory.NewExecutor()
	return usecase.repository.ListOverridesForDecision(ctx, exec, decisionId)
}
