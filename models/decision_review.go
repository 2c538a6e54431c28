package models

import "time"

// DecisionReview is a read-only projection that turns the persisted decision
// artifacts into a human-readable evidence chain. It is derived on demand and
// never stored.
type DecisionReview struct {
	ReviewId       string
	DecisionId     string
	VerdictSummary DecisionState
	EffectiveState DecisionState
	RepoFullName   string
	PrNumber       int
	CommitSha      string
	Timeline       []ReviewStep
	Integrity      IntegrityReport
	Override       *OverrideInfo
	GeneratedAt    time.Time
}

type ReviewStep struct {
	Step      string
	Timestamp time.Time
	Evidence  []string
}

// IntegrityReport records whether the stored evaluation hash still matches a
// re-computation over the persisted snapshot and applied policies.
type IntegrityReport struct {
	HashVerified   bool
	StoredHash     string
	CalculatedHash string
}

type OverrideInfo struct {
	Id        string
	UserLogin string
	Reason    string
	Category  string
	ExpiresAt *time.Time
	Expired   bool
	CreatedAt time.Time
}
