package usecases

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/zaxion/zaxion-backend/mocks"
	"github.com/zaxion/zaxion-backend/models"
	"github.com/zaxion/zaxion-backend/pure_utils"
)

func overrideUsecaseWith(repository *mocks.GovernanceDbRepository) OverrideUsecase {
	executorFactory := new(mocks.ExecutorFactory)
	executorFactory.On("NewExecutor").Return(nil)
	transactionFactory := new(mocks.TransactionFactory)
	transactionFactory.On("Transaction", mock.Anything, mock.Anything).Return(nil)
	return NewOverrideUsecase(executorFactory, transactionFactory, repository)
}

func blockedDecision() models.Decision {
	return models.Decision{
		Id:       "decision-id",
		Decision: models.DecisionBlock,
		Reason:   "coverage missing",
		RawData:  json.RawMessage(`{"policies":[{"policy_id":"p1","policy_version_id":"p1-v1"}]}`),
	}
}

func TestOverrideDecisionRejectsShortReason(t *testing.T) {
	repository := new(mocks.GovernanceDbRepository)
	usecase := overrideUsecaseWith(repository)

	_, err := usecase.OverrideDecision(context.Background(), models.CreateOverrideInput{
		DecisionId: "decision-id",
		UserLogin:  "lead",
		Reason:     "because",
	})

	require.ErrorIs(t, err, models.ErrOverrideReasonTooShort)
	repository.AssertNotCalled(t, "InsertOverride")
}

func TestOverrideDecisionRejectsPassDecision(t *testing.T) {
	ctx := context.Background()
	repository := new(mocks.GovernanceDbRepository)
	repository.On("GetDecisionById", ctx, nil, "decision-id").
		Return(models.Decision{Id: "decision-id", Decision: models.DecisionPass}, nil)
	repository.On("LatestOverrideForDecision", ctx, nil, "decision-id").Return(nil, nil)

	usecase := overrideUsecaseWith(repository)
	_, err := usecase.OverrideDecision(ctx, models.CreateOverrideInput{
		DecisionId: "decision-id",
		UserLogin:  "lead",
		Reason:     "hotfix for the incident, risk accepted",
	})

	require.ErrorIs(t, err, models.ErrOverrideInvalidState)
	repository.AssertNotCalled(t, "InsertOverride")
}

func TestOverrideDecisionRejectsAlreadyOverridden(t *testing.T) {
	ctx := context.Background()
	decision := blockedDecision()
	overrideId := "override-id"
	decision.OverrideId = &overrideId
	active := &models.Override{Id: overrideId, PrDecisionId: decision.Id, CreatedAt: time.Now()}

	repository := new(mocks.GovernanceDbRepository)
	repository.On("GetDecisionById", ctx, nil, "decision-id").Return(decision, nil)
	repository.On("LatestOverrideForDecision", ctx, nil, "decision-id").Return(active, nil)

	usecase := overrideUsecaseWith(repository)
	_, err := usecase.OverrideDecision(ctx, models.CreateOverrideInput{
		DecisionId: "decision-id",
		UserLogin:  "lead",
		Reason:     "hotfix for the incident, risk accepted",
	})

	require.ErrorIs(t, err, models.ErrOverrideInvalidState)
}

func TestOverrideDecisionSucceedsOnBlock(t *testing.T) {
	ctx := context.Background()
	decision := blockedDecision()
	input := models.CreateOverrideInput{
		DecisionId: "decision-id",
		UserLogin:  "lead",
		Reason:     "hotfix for the incident, risk accepted",
		Category:   "EMERGENCY",
	}
	created := models.Override{
		Id:             "new-override-id",
		PrDecisionId:   decision.Id,
		UserLogin:      input.UserLogin,
		OverrideReason: input.Reason,
		CreatedAt:      time.Now(),
	}

	repository := new(mocks.GovernanceDbRepository)
	repository.On("GetDecisionById", ctx, nil, "decision-id").Return(decision, nil)
	repository.On("LatestOverrideForDecision", ctx, nil, "decision-id").Return(nil, nil)
	repository.On("InsertOverride", ctx, nil, input, mock.Anything).Return(created, nil)
	repository.On("SetDecisionOverride", ctx, nil, "decision-id", "new-override-id").Return(nil)
	repository.On("IncrementPolicyMetrics", ctx, nil, mock.Anything, mock.Anything,
		models.PolicyMetricsIncrement{Overrides: 1}).Return(nil)

	usecase := overrideUsecaseWith(repository)
	override, err := usecase.OverrideDecision(ctx, input)

	require.NoError(t, err)
	assert.Equal(t, created, override)
	repository.AssertCalled(t, "SetDecisionOverride", ctx, nil, "decision-id", "new-override-id")
}

func TestExpiredOverrideAllowsNewOverride(t *testing.T) {
	ctx := context.Background()
	decision := blockedDecision()
	overrideId := "old-override"
	decision.OverrideId = &overrideId
	expired := &models.Override{
		Id:           overrideId,
		PrDecisionId: decision.Id,
		TtlHours:     pure_utils.Ptr(1),
		CreatedAt:    time.Now().Add(-2 * time.Hour),
	}
	input := models.CreateOverrideInput{
		DecisionId: "decision-id",
		UserLogin:  "lead",
		Reason:     "previous exception lapsed, still shipping the hotfix",
	}

	repository := new(mocks.GovernanceDbRepository)
	repository.On("GetDecisionById", ctx, nil, "decision-id").Return(decision, nil)
	repository.On("LatestOverrideForDecision", ctx, nil, "decision-id").Return(expired, nil)
	repository.On("InsertOverride", ctx, nil, input, mock.Anything).
		Return(models.Override{Id: "new-override", PrDecisionId: decision.Id}, nil)
	repository.On("SetDecisionOverride", ctx, nil, "decision-id", "new-override").Return(nil)
	repository.On("IncrementPolicyMetrics", ctx, nil, mock.Anything, mock.Anything,
		mock.Anything).Return(nil)

	usecase := overrideUsecaseWith(repository)
	override, err := usecase.OverrideDecision(ctx, input)

	require.NoError(t, err)
	assert.Equal(t, "new-override", override.Id)
}
