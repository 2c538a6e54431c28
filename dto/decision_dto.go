package dto

import (
	"encoding/json"
	"time"

	"github.com/guregu/null/v5"

	"github.com/zaxion/zaxion-backend/models"
)

type CreateDecisionBody struct {
	RepoOwner string `json:"repo_owner" binding:"required"`
	RepoName  string `json:"repo_name" binding:"required"`
	PrNumber  int    `json:"pr_number" binding:"required"`
	CommitSha string `json:"commit_sha" binding:"required"`
}

type DecisionFilters struct {
	RepoOwner string `form:"repo_owner"`
	RepoName  string `form:"repo_name"`
	PrNumber  *int   `form:"pr_number"`
}

type APIDecision struct {
	Id                string          `json:"id"`
	RepoOwner         string          `json:"repo_owner"`
	RepoName          string          `json:"repo_name"`
	PrNumber          int             `json:"pr_number"`
	CommitSha         string          `json:"commit_sha"`
	PolicyVersion     string          `json:"policy_version"`
	Decision          string          `json:"decision"`
	EffectiveDecision string          `json:"effective_decision"`
	Reason            string          `json:"reason"`
	RawData           json.RawMessage `json:"raw_data,omitempty"`
	Override          *APIOverride    `json:"override,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// AdaptDecisionDto is the detail shape: full raw data plus the override.
func AdaptDecisionDto(decision models.Decision, override *models.Override, now time.Time) APIDecision {
	out := APIDecision{
		Id:                decision.Id,
		RepoOwner:         decision.RepoOwner,
		RepoName:          decision.RepoName,
		PrNumber:          decision.PrNumber,
		CommitSha:         decision.CommitSha,
		PolicyVersion:     decision.PolicyVersion,
		Decision:          string(decision.Decision),
		EffectiveDecision: string(decision.EffectiveState(override, now)),
		Reason:            decision.Reason,
		RawData:           decision.RawData,
		CreatedAt:         decision.CreatedAt,
		UpdatedAt:         decision.UpdatedAt,
	}
	if override != nil {
		dto := AdaptOverrideDto(*override, now)
		out.Override = &dto
	}
	return out
}

// AdaptDecisionListItemDto redacts the raw data: list endpoints only carry the
// verdict and its reason.
func AdaptDecisionListItemDto(decision models.Decision, override *models.Override, now time.Time) APIDecision {
	out := AdaptDecisionDto(decision, override, now)
	out.RawData = nil
	return out
}

type APIDecisionReview struct {
	ReviewId       string             `json:"review_id"`
	DecisionId     string             `json:"decision_id"`
	VerdictSummary string             `json:"verdict_summary"`
	EffectiveState string             `json:"effective_state"`
	RepoFullName   string             `json:"repo_full_name"`
	PrNumber       int                `json:"pr_number"`
	CommitSha      string             `json:"commit_sha"`
	Timeline       []APIReviewStep    `json:"timeline"`
	Integrity      APIIntegrityReport `json:"integrity"`
	Override       *APIOverride       `json:"override,omitempty"`
	GeneratedAt    time.Time          `json:"generated_at"`
}

type APIReviewStep struct {
	Step      string    `json:"step"`
	Timestamp time.Time `json:"timestamp"`
	Evidence  []string  `json:"evidence"`
}

type APIIntegrityReport struct {
	HashVerified   bool   `json:"evaluation_hash_verified"`
	StoredHash     string `json:"stored_hash"`
	CalculatedHash string `json:"calculated_hash"`
}

func AdaptDecisionReviewDto(review models.DecisionReview) APIDecisionReview {
	out := APIDecisionReview{
		ReviewId:       review.ReviewId,
		DecisionId:     review.DecisionId,
		VerdictSummary: string(review.VerdictSummary),
		EffectiveState: string(review.EffectiveState),
		RepoFullName:   review.RepoFullName,
		PrNumber:       review.PrNumber,
		CommitSha:      review.CommitSha,
		Integrity: APIIntegrityReport{
			HashVerified:   review.Integrity.HashVerified,
			StoredHash:     review.Integrity.StoredHash,
			CalculatedHash: review.Integrity.CalculatedHash,
		},
		GeneratedAt: review.GeneratedAt,
	}
	for _, step := range review.Timeline {
		out.Timeline = append(out.Timeline, APIReviewStep(step))
	}
	if review.Override != nil {
		out.Override = &APIOverride{
			Id:        review.Override.Id,
			UserLogin: review.Override.UserLogin,
			Reason:    review.Override.Reason,
			Category:  review.Override.Category,
			ExpiresAt: null.ValueFromPtr(review.Override.ExpiresAt),
			Expired:   review.Override.Expired,
			CreatedAt: review.Override.CreatedAt,
		}
	}
	return out
}
