package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/zaxion/zaxion-backend/models"
	"github.com/zaxion/zaxion-backend/pure_utils"
	"github.com/zaxion/zaxion-backend/repositories"
	"github.com/zaxion/zaxion-backend/usecases/executor_factory"
)

type decisionReviewRepository interface {
	GetDecisionById(ctx context.Context, exec repositories.Executor,
		decisionId string) (models.Decision, error)
	GetFactSnapshot(ctx context.Context, exec repositories.Executor,
		repoFullName, commitSha string) (*models.FactSnapshot, error)
	LatestOverrideForDecision(ctx context.Context, exec repositories.Executor,
		decisionId string) (*models.Override, error)
}

type reviewEvaluator interface {
	Evaluate(snapshot models.FactSnapshot, resolved []models.ResolvedPolicy,
		now time.Time) models.EvaluationResult
}

// DecisionReviewUsecase turns the persisted decision artifacts into a
// read-only evidence chain: what was ingested, what applied, what was judged,
// and whether the stored evaluation hash still checks out. It never writes.
type DecisionReviewUsecase struct {
	executorFactory executor_factory.ExecutorFactory
	repository      decisionReviewRepository
	evaluator       reviewEvaluator
}

func NewDecisionReviewUsecase(
	executorFactory executor_factory.ExecutorFactory,
	repository decisionReviewRepository,
	evaluator reviewEvaluator,
) DecisionReviewUsecase {
	return DecisionReviewUsecase{
		executorFactory: executorFactory,
		repository:      repository,
		evaluator:       evaluator,
	}
}

func (usecase DecisionReviewUsecase) GetDecisionReview(ctx context.Context,
	decisionId string,
) (models.DecisionReview, error) {
	exec := usecase.executorFactory.NewExecutor()
	now := time.Now()

	decision, err := usecase.repository.GetDecisionById(ctx, exec, decisionId)
	if err != nil {
		return models.DecisionReview{}, err
	}
	if decision.Decision == models.DecisionPending {
		return models.DecisionReview{}, errors.Wrapf(models.ErrDecisionStillPending,
			"decision %s has no evaluation artifacts yet", decisionId)
	}

	var rawData decisionRawData
	if err := json.Unmarshal(decision.RawData, &rawData); err != nil {
		return models.DecisionReview{}, errors.Wrapf(err,
			"can't decode raw data of decision %s", decisionId)
	}

	repoFullName := decision.RepoOwner + "/" + decision.RepoName
	snapshot, err := usecase.repository.GetFactSnapshot(ctx, exec, repoFullName, decision.CommitSha)
	if err != nil {
		return models.DecisionReview{}, err
	}
	if snapshot == nil {
		return models.DecisionReview{}, errors.Wrapf(models.NotFoundError,
			"fact snapshot of decision %s not found", decisionId)
	}

	override, err := usecase.repository.LatestOverrideForDecision(ctx, exec, decision.Id)
	if err != nil {
		return models.DecisionReview{}, err
	}

	review := models.DecisionReview{
		ReviewId:       "REV-" + strings.ToUpper(shortId(decision.Id)),
		DecisionId:     decision.Id,
		VerdictSummary: decision.Decision,
		EffectiveState: decision.EffectiveState(override, now),
		RepoFullName:   snapshot.RepoFullName,
		PrNumber:       snapshot.PrNumber,
		CommitSha:      snapshot.CommitSha,
		Timeline:       buildTimeline(decision, *snapshot, rawData),
		Integrity:      usecase.verifyIntegrity(*snapshot, rawData),
		GeneratedAt:    now,
	}

	if override != nil {
		review.Override = &models.OverrideInfo{
			Id:        override.Id,
			UserLogin: override.UserLogin,
			Reason:    override.OverrideReason,
			Category:  override.Category,
			ExpiresAt: override.ExpiresAt(),
			Expired:   override.IsExpired(now),
			CreatedAt: override.CreatedAt,
		}
	}
	return review, nil
}

func shortId(id string) string {
	if len(id) < 8 {
		return id
	}
	return id[:8]
}

func buildTimeline(decision models.Decision, snapshot models.FactSnapshot,
	rawData decisionRawData,
) []models.ReviewStep {
	steps := []models.ReviewStep{
		{
			Step:      "FACT_INGESTION",
			Timestamp: snapshot.IngestedAt,
			Evidence:  []string{"snapshot_id:" + snapshot.Id},
		},
		{
			Step:      "POLICY_RESOLUTION",
			Timestamp: decision.CreatedAt,
			Evidence: pure_utils.Map(rawData.Policies, func(p models.ResolvedPolicy) string {
				return fmt.Sprintf("policy_version_id:%s matched via %s", p.PolicyVersionId, p.ResolutionPath)
			}),
		},
	}

	judgment := models.ReviewStep{
		Step:      "JUDGMENT_EXECUTION",
		Timestamp: decision.UpdatedAt,
		Evidence:  []string{"result:" + string(rawData.Evaluation.Result)},
	}
	for _, violation := range rawData.Evaluation.ViolatedPolicies {
		judgment.Evidence = append(judgment.Evidence,
			fmt.Sprintf("[%s] %s: %s", violation.Level, violation.Name, violation.Message))
	}
	return append(steps, judgment)
}

// verifyIntegrity re-computes the evaluation hash from the persisted snapshot
// and applied policies. A mismatch means the stored artifacts no longer match
// what was judged.
func (usecase DecisionReviewUsecase) verifyIntegrity(snapshot models.FactSnapshot,
	rawData decisionRawData,
) models.IntegrityReport {
	recomputed := usecase.evaluator.Evaluate(snapshot, rawData.Policies,
		rawData.Evaluation.EvaluatedAt)

	return models.IntegrityReport{
		HashVerified:   recomputed.EvaluationHash == rawData.Evaluation.EvaluationHash,
		StoredHash:     rawData.Evaluation.EvaluationHash,
		CalculatedHash: recomputed.EvaluationHash,
	}
}
