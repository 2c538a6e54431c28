package models

import "time"

// PolicyMetrics are derived counters per policy version, incremented as a
// side-effect of recording decisions. Purely statistical; never consulted by
// the evaluation path.
type PolicyMetrics struct {
	PolicyId         string
	PolicyVersionId  string
	TotalEvaluations int
	TotalBlocks      int
	TotalOverrides   int
	UpdatedAt        time.Time
}

type PolicyMetricsIncrement struct {
	Evaluations int
	Blocks      int
	Overrides   int
}
