package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

func TestEffectiveStateWithoutOverride(t *testing.T) {
	decision := Decision{Decision: DecisionBlock}

	assert.Equal(t, DecisionBlock, decision.EffectiveState(nil, time.Now()))
}

func TestEffectiveStateWithActiveOverride(t *testing.T) {
	overrideId := "override-id"
	decision := Decision{Decision: DecisionBlock, OverrideId: &overrideId}
	override := &Override{Id: overrideId, CreatedAt: time.Now()}

	assert.Equal(t, DecisionOverriddenPass, decision.EffectiveState(override, time.Now()))
}

func TestEffectiveStateRevertsOnExpiredOverride(t *testing.T) {
	overrideId := "override-id"
	decision := Decision{Decision: DecisionWarn, OverrideId: &overrideId}
	override := &Override{
		Id:        overrideId,
		TtlHours:  intPtr(1),
		CreatedAt: time.Now().Add(-2 * time.Hour),
	}

	assert.Equal(t, DecisionWarn, decision.EffectiveState(override, time.Now()))
}

func TestEffectiveStateIgnoresOverrideOnPass(t *testing.T) {
	overrideId := "override-id"
	decision := Decision{Decision: DecisionPass, OverrideId: &overrideId}
	override := &Override{Id: overrideId, CreatedAt: time.Now()}

	assert.Equal(t, DecisionPass, decision.EffectiveState(override, time.Now()))
}

func TestCanBeOverridden(t *testing.T) {
	now := time.Now()

	assert.True(t, Decision{Decision: DecisionBlock}.CanBeOverridden(nil, now))
	assert.True(t, Decision{Decision: DecisionWarn}.CanBeOverridden(nil, now))
	assert.False(t, Decision{Decision: DecisionPass}.CanBeOverridden(nil, now))
	assert.False(t, Decision{Decision: DecisionPending}.CanBeOverridden(nil, now))

	overrideId := "override-id"
	covered := Decision{Decision: DecisionBlock, OverrideId: &overrideId}
	active := &Override{Id: overrideId, CreatedAt: now}
	assert.False(t, covered.CanBeOverridden(active, now))

	expired := &Override{Id: overrideId, TtlHours: intPtr(1), CreatedAt: now.Add(-2 * time.Hour)}
	assert.True(t, covered.CanBeOverridden(expired, now))
}

func TestOverrideExpiresAt(t *testing.T) {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	noTtl := Override{CreatedAt: created}
	assert.Nil(t, noTtl.ExpiresAt())
	assert.False(t, noTtl.IsExpired(created.Add(1000*time.Hour)))

	withTtl := Override{TtlHours: intPtr(24), CreatedAt: created}
	assert.Equal(t, created.Add(24*time.Hour), *withTtl.ExpiresAt())
	assert.False(t, withTtl.IsExpired(created.Add(23*time.Hour)))
	assert.True(t, withTtl.IsExpired(created.Add(25*time.Hour)))
}
