package usecases

import (
	"github.com/zaxion/zaxion-backend/repositories"
	"github.com/zaxion/zaxion-backend/usecases/evaluate_policies"
	"github.com/zaxion/zaxion-backend/usecases/executor_factory"
)

// Usecases wires the repositories into the use case layer. One instance lives
// for the lifetime of the process; the use cases it hands out are cheap
// per-request values.
type Usecases struct {
	Repositories repositories.Repositories
}

func NewUsecases(repos repositories.Repositories) Usecases {
	return Usecases{Repositories: repos}
}

func (usecases Usecases) NewExecutorFactory() executor_factory.ExecutorFactory {
	return executor_factory.NewDbExecutorFactory(usecases.Repositories.ExecutorGetter)
}

func (usecases Usecases) NewTransactionFactory() executor_factory.TransactionFactory {
	return executor_factory.NewDbExecutorFactory(usecases.Repositories.ExecutorGetter)
}

func (usecases Usecases) NewFactIngestionUsecase() FactIngestionUsecase {
	return NewFactIngestionUsecase(
		usecases.NewExecutorFactory(),
		usecases.Repositories.GovernanceDbRepository,
		usecases.Repositories.GithubRepository,
	)
}

func (usecases Usecases) NewDecisionUsecase() DecisionUsecase {
	return NewDecisionUsecase(
		usecases.NewExecutorFactory(),
		usecases.Repositories.GovernanceDbRepository,
		usecases.NewFactIngestionUsecase(),
		evaluate_policies.NewResolver(usecases.Repositories.GovernanceDbRepository),
		evaluate_policies.Evaluator{},
	)
}

func (usecases Usecases) NewOverrideUsecase() OverrideUsecase {
	return NewOverrideUsecase(
		usecases.NewExecutorFactory(),
		usecases.NewTransactionFactory(),
		usecases.Repositories.GovernanceDbRepository,
	)
}

func (usecases Usecases) NewPolicyUsecase() PolicyUsecase {
	return NewPolicyUsecase(
		usecases.NewExecutorFactory(),
		usecases.NewTransactionFactory(),
		usecases.Repositories.GovernanceDbRepository,
	)
}

func (usecases Usecases) NewDecisionReviewUsecase() DecisionReviewUsecase {
	return NewDecisionReviewUsecase(
		usecases.NewExecutorFactory(),
		usecases.Repositories.GovernanceDbRepository,
		evaluate_policies.Evaluator{},
	)
}
