package repositories

// GovernanceDbRepository carries every Postgres-backed store of the engine:
// fact snapshots, policies and their versions, decisions, overrides and the
// derived policy metrics. Methods take an Executor so callers decide whether
// they run in a transaction.
type GovernanceDbRepository struct{}

func NewGovernanceDbRepository() *GovernanceDbRepository {
	return &GovernanceDbRepository{}
}
