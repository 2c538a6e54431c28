package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zaxion/zaxion-backend/models"
	"github.com/zaxion/zaxion-backend/pure_utils"
)

func overriddenBlockDecision(createdAt time.Time) (models.Decision, models.Override) {
	overrideId := "override-id"
	decision := models.Decision{
		Id:         "decision-id",
		RepoOwner:  "acme",
		RepoName:   "api",
		PrNumber:   42,
		CommitSha:  "abc123",
		Decision:   models.DecisionBlock,
		Reason:     "auth changes need tests",
		RawData:    json.RawMessage(`{"policies":[]}`),
		OverrideId: &overrideId,
	}
	override := models.Override{
		Id:             overrideId,
		PrDecisionId:   decision.Id,
		UserLogin:      "octocat",
		OverrideReason: "hotfix approved by release manager",
		Category:       "emergency",
		TtlHours:       pure_utils.Ptr(24),
		CreatedAt:      createdAt,
	}
	return decision, override
}

func TestAdaptDecisionDtoRendersActiveOverride(t *testing.T) {
	now := time.Now()
	decision, override := overriddenBlockDecision(now.Add(-time.Hour))

	out := AdaptDecisionDto(decision, &override, now)

	assert.Equal(t, "BLOCK", out.Decision)
	assert.Equal(t, "OVERRIDDEN_PASS", out.EffectiveDecision)
	require.NotNil(t, out.Override)
	assert.Equal(t, "octocat", out.Override.UserLogin)
	assert.False(t, out.Override.Expired)
}

func TestAdaptDecisionDtoExpiredOverrideRevertsToBlock(t *testing.T) {
	now := time.Now()
	decision, override := overriddenBlockDecision(now.Add(-48 * time.Hour))

	out := AdaptDecisionDto(decision, &override, now)

	assert.Equal(t, "BLOCK", out.EffectiveDecision)
	require.NotNil(t, out.Override)
	assert.True(t, out.Override.Expired)
}

func TestAdaptDecisionListItemDtoKeepsOverrideDropsRawData(t *testing.T) {
	now := time.Now()
	decision, override := overriddenBlockDecision(now.Add(-time.Hour))

	out := AdaptDecisionListItemDto(decision, &override, now)

	assert.Equal(t, "OVERRIDDEN_PASS", out.EffectiveDecision)
	require.NotNil(t, out.Override)
	assert.Nil(t, out.RawData)
}
