package usecases

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zaxion/zaxion-backend/mocks"
	"github.com/zaxion/zaxion-backend/models"
	"github.com/zaxion/zaxion-backend/usecases/evaluate_policies"
)

func reviewUsecaseWith(repository *mocks.GovernanceDbRepository) DecisionReviewUsecase {
	executorFactory := new(mocks.ExecutorFactory)
	executorFactory.On("NewExecutor").Return(nil)
	return NewDecisionReviewUsecase(executorFactory, repository, evaluate_policies.Evaluator{})
}

// reviewScenario evaluates the block scenario for real, so the stored hash in
// the decision's raw data matches what the review recomputes.
func reviewScenario(t *testing.T) (models.Decision, models.FactSnapshot) {
	t.Helper()
	ingestor, resolver := blockScenario()
	snapshot := ingestor.snapshot

	evaluation := evaluate_policies.Evaluator{}.Evaluate(snapshot, resolver.resolved, time.Now())
	rawData, err := json.Marshal(decisionRawData{
		FactSnapshotId: snapshot.Id,
		Facts:          snapshot.Data,
		Policies:       resolver.resolved,
		Evaluation:     evaluation,
	})
	require.NoError(t, err)

	decision := models.Decision{
		Id:        "01234567-89ab-cdef-0123-456789abcdef",
		RepoOwner: "acme",
		RepoName:  "api",
		PrNumber:  snapshot.PrNumber,
		CommitSha: snapshot.CommitSha,
		Decision:  evaluation.Result,
		Reason:    evaluation.Rationale,
		RawData:   rawData,
		CreatedAt: snapshot.IngestedAt,
		UpdatedAt: snapshot.IngestedAt,
	}
	return decision, snapshot
}

func TestGetDecisionReviewRejectsPendingDecision(t *testing.T) {
	ctx := context.Background()
	repository := new(mocks.GovernanceDbRepository)
	repository.On("GetDecisionById", ctx, nil, "decision-id").
		Return(models.Decision{Id: "decision-id", Decision: models.DecisionPending}, nil)

	usecase := reviewUsecaseWith(repository)
	_, err := usecase.GetDecisionReview(ctx, "decision-id")

	require.ErrorIs(t, err, models.ErrDecisionStillPending)
}

func TestGetDecisionReviewFailsWithoutSnapshot(t *testing.T) {
	ctx := context.Background()
	decision, _ := reviewScenario(t)

	repository := new(mocks.GovernanceDbRepository)
	repository.On("GetDecisionById", ctx, nil, decision.Id).Return(decision, nil)
	repository.On("GetFactSnapshot", ctx, nil, "acme/api", decision.CommitSha).Return(nil, nil)

	usecase := reviewUsecaseWith(repository)
	_, err := usecase.GetDecisionReview(ctx, decision.Id)

	require.ErrorIs(t, err, models.NotFoundError)
}

func TestGetDecisionReviewBuildsEvidenceChain(t *testing.T) {
	ctx := context.Background()
	decision, snapshot := reviewScenario(t)

	repository := new(mocks.GovernanceDbRepository)
	repository.On("GetDecisionById", ctx, nil, decision.Id).Return(decision, nil)
	repository.On("GetFactSnapshot", ctx, nil, "acme/api", decision.CommitSha).Return(&snapshot, nil)
	repository.On("LatestOverrideForDecision", ctx, nil, decision.Id).Return(nil, nil)

	usecase := reviewUsecaseWith(repository)
	review, err := usecase.GetDecisionReview(ctx, decision.Id)

	require.NoError(t, err)
	assert.Equal(t, "REV-01234567", review.ReviewId)
	assert.Equal(t, models.DecisionBlock, review.VerdictSummary)
	assert.Equal(t, models.DecisionBlock, review.EffectiveState)
	assert.Equal(t, "acme/api", review.RepoFullName)

	require.Len(t, review.Timeline, 3)
	assert.Equal(t, "FACT_INGESTION", review.Timeline[0].Step)
	assert.Equal(t, "POLICY_RESOLUTION", review.Timeline[1].Step)
	assert.Equal(t, "JUDGMENT_EXECUTION", review.Timeline[2].Step)
	assert.Len(t, review.Timeline[1].Evidence, 2)

	assert.True(t, review.Integrity.HashVerified)
	assert.Equal(t, review.Integrity.StoredHash, review.Integrity.CalculatedHash)
	assert.Nil(t, review.Override)
}

func TestGetDecisionReviewDetectsTamperedFacts(t *testing.T) {
	ctx := context.Background()
	decision, snapshot := reviewScenario(t)
	snapshot.Data.Changes.TotalFiles = 99

	repository := new(mocks.GovernanceDbRepository)
	repository.On("GetDecisionById", ctx, nil, decision.Id).Return(decision, nil)
	repository.On("GetFactSnapshot", ctx, nil, "acme/api", decision.CommitSha).Return(&snapshot, nil)
	repository.On("LatestOverrideForDecision", ctx, nil, decision.Id).Return(nil, nil)

	usecase := reviewUsecaseWith(repository)
	review, err := usecase.GetDecisionReview(ctx, decision.Id)

	require.NoError(t, err)
	assert.False(t, review.Integrity.HashVerified)
	assert.NotEqual(t, review.Integrity.StoredHash, review.Integrity.CalculatedHash)
}
