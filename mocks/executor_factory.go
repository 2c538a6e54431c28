package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/zaxion/zaxion-backend/repositories"
)

type ExecutorFactory struct {
	mock.Mock
}

func (m *ExecutorFactory) NewExecutor() repositories.Executor {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(repositories.Executor)
}

// TransactionFactory runs the callback with a nil transaction: the usecase
// tests stub the repository anyway, so no real transaction is needed.
type TransactionFactory struct {
	mock.Mock
}

func (m *TransactionFactory) Transaction(ctx context.Context,
	fn func(tx repositories.Transaction) error,
) error {
	args := m.Called(ctx, fn)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(nil)
}
