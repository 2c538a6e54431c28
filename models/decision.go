package models

import (
	"encoding/json"
	"time"
)

type DecisionState string

const (
	// DecisionPending is the transient claim state: it only exists between the
	// idempotency-key insert and the finalize update of one evaluation, and is
	// never a terminal state.
	DecisionPending DecisionState = "PENDING"

	DecisionPass  DecisionState = "PASS"
	DecisionBlock DecisionState = "BLOCK"
	DecisionWarn  DecisionState = "WARN"

	// DecisionOverriddenPass is never stored on the decision row itself. It is
	// the effective state computed at read time when an active override points
	// at a blocking or warning decision.
	DecisionOverriddenPass DecisionState = "OVERRIDDEN_PASS"
)

// DecisionKey is the idempotency anchor of the whole pipeline: exactly one
// decision row is ever materialized per key, enforced by a unique constraint.
type DecisionKey struct {
	RepoOwner string
	RepoName  string
	PrNumber  int
	CommitSha string
}

// Decision is the persisted verdict for one (repo, PR, commit) triple. Reason
// and RawData are write-once: an override never rewrites them, it only sets
// the denormalized OverrideId pointer.
type Decision struct {
	Id            string
	RepoOwner     string
	RepoName      string
	PrNumber      int
	CommitSha     string
	PolicyVersion string
	Decision      DecisionState
	Reason        string
	RawData       json.RawMessage
	OverrideId    *string
	StartedAt     time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// DecisionWithOverride pairs a decision with the override its OverrideId
// points at, nil when the decision was never overridden.
type DecisionWithOverride struct {
	Decision
	Override *Override
}

func (d Decision) Key() DecisionKey {
	return DecisionKey{
		RepoOwner: d.RepoOwner,
		RepoName:  d.RepoName,
		PrNumber:  d.PrNumber,
		CommitSha: d.CommitSha,
	}
}

// EffectiveState computes the state downstream consumers act on. It is derived
// at read time, never cached, so that override expiry takes effect without
// background jobs: an expired override reverts the effective state to the
// original BLOCK or WARN.
func (d Decision) EffectiveState(override *Override, now time.Time) DecisionState {
	if d.OverrideId == nil || override == nil {
		return d.Decision
	}
	if d.Decision != DecisionBlock && d.Decision != DecisionWarn {
		return d.Decision
	}
	if override.IsExpired(now) {
		return d.Decision
	}
	return DecisionOverriddenPass
}

// CanBeOverridden reports whether the decision is currently in an overridable
// state: it must be blocking or warning and not already covered by an active
// override.
func (d Decision) CanBeOverridden(override *Override, now time.Time) bool {
	if d.Decision != DecisionBlock && d.Decision != DecisionWarn {
		return false
	}
	return d.EffectiveState(override, now) != DecisionOverriddenPass
}

type PolicyVerdict string

const (
	VerdictPass  PolicyVerdict = "PASS"
	VerdictBlock PolicyVerdict = "BLOCK"
	VerdictWarn  PolicyVerdict = "WARN"
)

// PolicyEvaluation is the per-policy outcome produced by the evaluator before
// aggregation into a single decision state.
type PolicyEvaluation struct {
	PolicyId        string            `json:"policy_id"`
	PolicyVersionId string            `json:"policy_version_id"`
	Name            string            `json:"name"`
	Scope           PolicyScope       `json:"scope"`
	Level           EnforcementLevel  `json:"level"`
	RuleKind        RuleKind          `json:"rule_kind"`
	ResolutionPath  string            `json:"resolution_path"`
	Verdict         PolicyVerdict     `json:"verdict"`
	Message         string            `json:"message"`
	Details         map[string]string `json:"details,omitempty"`
}

// EvaluationResult is the combined verdict over all resolved policies,
// persisted verbatim inside the decision's raw data.
type EvaluationResult struct {
	Result           DecisionState      `json:"result"`
	Rationale        string             `json:"rationale"`
	Policies         []PolicyEvaluation `json:"policies"`
	ViolatedPolicies []PolicyEvaluation `json:"violated_policies"`
	EvaluationHash   string             `json:"evaluation_hash"`
	EngineVersion    string             `json:"engine_version"`
	EvaluatedAt      time.Time          `json:"evaluated_at"`
}

type DecisionFilters struct {
	RepoOwner string
	RepoName  string
	PrNumber  *int
}
