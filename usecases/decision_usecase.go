package usecases

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/zaxion/zaxion-backend/models"
	"github.com/zaxion/zaxion-backend/repositories"
	"github.com/zaxion/zaxion-backend/usecases/evaluate_policies"
	"github.com/zaxion/zaxion-backend/usecases/executor_factory"
	"github.com/zaxion/zaxion-backend/utils"
)

type decisionRepository interface {
	InsertPendingDecision(ctx context.Context, exec repositories.Executor,
		key models.DecisionKey, policyVersion string, newDecisionId string) error
	GetDecisionByKey(ctx context.Context, exec repositories.Executor,
		key models.DecisionKey) (*models.Decision, error)
	GetDecisionById(ctx context.Context, exec repositories.Executor,
		decisionId string) (models.Decision, error)
	FinalizeDecision(ctx context.Context, exec repositories.Executor, decisionId string,
		state models.DecisionState, reason string, rawData json.RawMessage) (models.Decision, error)
	ListDecisions(ctx context.Context, exec repositories.Executor,
		filters models.DecisionFilters) ([]models.Decision, error)
	GetOverride(ctx context.Context, exec repositories.Executor,
		overrideId string) (models.Override, error)
	ListOverridesByIds(ctx context.Context, exec repositories.Executor,
		overrideIds []string) ([]models.Override, error)
	IncrementPolicyMetrics(ctx context.Context, exec repositories.Executor,
		policyId, policyVersionId string, increment models.PolicyMetricsIncrement) error
}

type policyResolver interface {
	ResolvePolicies(ctx context.Context, exec repositories.Executor, orgId, repoId string,
		changedPaths []string, asOf time.Time) ([]models.ResolvedPolicy, error)
}

type factIngestor interface {
	IngestFacts(ctx context.Context, repoFullName string, prNumber int,
		commitSha string) (models.FactSnapshot, error)
}

type policyEvaluator interface {
	Evaluate(snapshot models.FactSnapshot, resolved []models.ResolvedPolicy,
		now time.Time) models.EvaluationResult
}

// decisionRawData is the full decision context persisted write-once on the
// decision row.
type decisionRawData struct {
	FactSnapshotId string                  `json:"fact_snapshot_id"`
	Facts          models.FactData         `json:"facts"`
	Policies       []models.ResolvedPolicy `json:"policies"`
	Evaluation     models.EvaluationResult `json:"evaluation"`
}

// DecisionUsecase runs the whole gate pipeline: claim the idempotency key,
// ingest facts, resolve and evaluate policies, finalize the verdict. For a
// given (owner, repo, pr, sha) the pipeline materializes exactly one decision
// row no matter how many times or how concurrently it runs.
type DecisionUsecase struct {
	executorFactory executor_factory.ExecutorFactory
	repository      decisionRepository
	ingestion       factIngestor
	resolver        policyResolver
	evaluator       policyEvaluator
}

func NewDecisionUsecase(
	executorFactory executor_factory.ExecutorFactory,
	repository decisionRepository,
	ingestion factIngestor,
	resolver policyResolver,
	evaluator policyEvaluator,
) DecisionUsecase {
	return DecisionUsecase{
		executorFactory: executorFactory,
		repository:      repository,
		ingestion:       ingestion,
		resolver:        resolver,
		evaluator:       evaluator,
	}
}

func (usecase DecisionUsecase) Decide(ctx context.Context,
	key models.DecisionKey,
) (models.Decision, *models.Override, error) {
	logger := utils.LoggerFromContext(ctx)
	exec := usecase.executorFactory.NewExecutor()

	existing, err := usecase.repository.GetDecisionByKey(ctx, exec, key)
	if err != nil {
		return models.Decision{}, nil, err
	}
	if existing != nil && existing.Decision != models.DecisionPending {
		logger.InfoContext(ctx, "returning existing decision",
			"decision_id", existing.Id, "decision", existing.Decision)
		// A redelivery may hit a decision that has been overridden since; the
		// caller needs the override to compute the effective state.
		override, err := usecase.latestOverride(ctx, exec, *existing)
		if err != nil {
			return models.Decision{}, nil, err
		}
		return *existing, override, nil
	}

	var decisionId string
	if existing != nil {
		// A stuck PENDING claim from an earlier failed run. Re-run the
		// pipeline on the same row; finalize is still guarded on PENDING.
		decisionId = existing.Id
		logger.InfoContext(ctx, "recovering stuck pending decision", "decision_id", decisionId)
	} else {
		decisionId = uuid.NewString()
		err := usecase.repository.InsertPendingDecision(ctx, exec, key,
			evaluate_policies.EngineVersion, decisionId)
		if repositories.IsUniqueViolationError(err) {
			// Lost the claim race. The winner's row is the decision.
			winner, readErr := usecase.repository.GetDecisionByKey(ctx, exec, key)
			if readErr != nil {
				return models.Decision{}, nil, readErr
			}
			if winner == nil {
				return models.Decision{}, nil, errors.Wrap(models.NotFoundError,
					"decision row vanished after unique violation")
			}
			if winner.Decision != models.DecisionPending {
				override, err := usecase.latestOverride(ctx, exec, *winner)
				if err != nil {
					return models.Decision{}, nil, err
				}
				return *winner, override, nil
			}
			decisionId = winner.Id
		} else if err != nil {
			return models.Decision{}, nil, err
		}
	}

	// A freshly finalized decision cannot have an override yet.
	decision, err := usecase.runPipeline(ctx, exec, key, decisionId)
	return decision, nil, err
}

func (usecase DecisionUsecase) runPipeline(ctx context.Context, exec repositories.Executor,
	key models.DecisionKey, decisionId string,
) (models.Decision, error) {
	repoFullName := key.RepoOwner + "/" + key.RepoName

	snapshot, err := usecase.ingestion.IngestFacts(ctx, repoFullName, key.PrNumber, key.CommitSha)
	if err != nil {
		// The claim stays PENDING; the next delivery recovers it.
		return models.Decision{}, err
	}

	resolved, err := usecase.resolver.ResolvePolicies(ctx, exec,
		key.RepoOwner, repoFullName, snapshot.ChangedPaths(), snapshot.IngestedAt)
	if err != nil {
		return models.Decision{}, err
	}

	evaluation := usecase.evaluator.Evaluate(snapshot, resolved, time.Now())

	rawData, err := json.Marshal(decisionRawData{
		FactSnapshotId: snapshot.Id,
		Facts:          snapshot.Data,
		Policies:       resolved,
		Evaluation:     evaluation,
	})
	if err != nil {
		return models.Decision{}, errors.Wrap(err, "can't encode decision raw data")
	}

	decision, err := usecase.repository.FinalizeDecision(ctx, exec, decisionId,
		evaluation.Result, evaluation.Rationale, rawData)
	if errors.Is(err, models.ConflictError) {
		// Another writer finalized the row between our claim recovery and
		// now. Its verdict is as good as ours: both evaluated the same facts.
		return usecase.repository.GetDecisionById(ctx, exec, decisionId)
	}
	if err != nil {
		return models.Decision{}, err
	}

	usecase.recordPolicyMetrics(ctx, exec, resolved, evaluation)

	utils.LoggerFromContext(ctx).InfoContext(ctx, "decision finalized",
		"decision_id", decision.Id, "decision", decision.Decision,
		"evaluation_hash", evaluation.EvaluationHash)
	return decision, nil
}

// recordPolicyMetrics is best-effort: a metrics failure never fails the
// decision.
func (usecase DecisionUsecase) recordPolicyMetrics(ctx context.Context,
	exec repositories.Executor, resolved []models.ResolvedPolicy,
	evaluation models.EvaluationResult,
) {
	violated := make(map[string]bool, len(evaluation.ViolatedPolicies))
	for _, v := range evaluation.ViolatedPolicies {
		if v.Verdict == models.VerdictBlock {
			violated[v.PolicyVersionId] = true
		}
	}

	for _, policy := range resolved {
		increment := models.PolicyMetricsIncrement{Evaluations: 1}
		if violated[policy.PolicyVersionId] {
			increment.Blocks = 1
		}
		if err := usecase.repository.IncrementPolicyMetrics(ctx, exec,
			policy.PolicyId, policy.PolicyVersionId, increment); err != nil {
			utils.LoggerFromContext(ctx).WarnContext(ctx, "failed to record policy metrics",
				"policy_id", policy.PolicyId, "error", err.Error())
		}
	}
}

func (usecase DecisionUsecase) GetDecision(ctx context.Context,
	decisionId string,
) (models.Decision, *models.Override, error) {
	exec := usecase.executorFactory.NewExecutor()

	decision, err := usecase.repository.GetDecisionById(ctx, exec, decisionId)
	if err != nil {
		return models.Decision{}, nil, err
	}

	override, err := usecase.latestOverride(ctx, exec, decision)
	if err != nil {
		return models.Decision{}, nil, err
	}
	return decision, override, nil
}

// ListDecisions joins each decision with the override its pointer references,
// so list consumers see the same effective state as the detail endpoint.
func (usecase DecisionUsecase) ListDecisions(ctx context.Context,
	filters models.DecisionFilters,
) ([]models.DecisionWithOverride, error) {
	exec := usecase.executorFactory.NewExecutor()

	decisions, err := usecase.repository.ListDecisions(ctx, exec, filters)
	if err != nil {
		return nil, err
	}

	overrideIds := make([]string, 0, len(decisions))
	for _, decision := range decisions {
		if decision.OverrideId != nil {
			overrideIds = append(overrideIds, *decision.OverrideId)
		}
	}

	byId := make(map[string]models.Override, len(overrideIds))
	if len(overrideIds) > 0 {
		overrides, err := usecase.repository.ListOverridesByIds(ctx, exec, overrideIds)
		if err != nil {
			return nil, errors.Wrap(err, "can't read overrides of listed decisions")
		}
		for _, override := range overrides {
			byId[override.Id] = override
		}
	}

	result := make([]models.DecisionWithOverride, len(decisions))
	for i, decision := range decisions {
		result[i] = models.DecisionWithOverride{Decision: decision}
		if decision.OverrideId != nil {
			if override, ok := byId[*decision.OverrideId]; ok {
				result[i].Override = &override
			}
		}
	}
	return result, nil
}

func (usecase DecisionUsecase) latestOverride(ctx context.Context,
	exec repositories.Executor, decision models.Decision,
) (*models.Override, error) {
	if decision.OverrideId == nil {
		return nil, nil
	}
	override, err := usecase.repository.GetOverride(ctx, exec, *decision.OverrideId)
	if err != nil {
		return nil, errors.Wrapf(err, "can't read override of decision %s", decision.Id)
	}
	return &override, nil
}
