package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRulesLogicUnmarshalCoverageDefaults(t *testing.T) {
	var rules RulesLogic
	require.NoError(t, json.Unmarshal([]byte(`{"type":"coverage"}`), &rules))

	rule, ok := rules.Rule.(CoverageRule)
	require.True(t, ok)
	assert.Equal(t, 1, rule.MinTests)
}

func TestRulesLogicUnmarshalFull(t *testing.T) {
	payload := `{
		"type": "pr_size",
		"max_files": 50,
		"include_paths": ["src/*"],
		"exclude_paths": ["src/generated/*"]
	}`

	var rules RulesLogic
	require.NoError(t, json.Unmarshal([]byte(payload), &rules))

	assert.Equal(t, []string{"src/*"}, rules.IncludePaths)
	assert.Equal(t, []string{"src/generated/*"}, rules.ExcludePaths)
	rule, ok := rules.Rule.(PrSizeRule)
	require.True(t, ok)
	assert.Equal(t, 50, rule.MaxFiles)
}

func TestRulesLogicUnmarshalUnknownTypeYieldsMalformedRule(t *testing.T) {
	var rules RulesLogic
	require.NoError(t, json.Unmarshal([]byte(`{"type":"no_such_check"}`), &rules))

	rule, ok := rules.Rule.(MalformedRule)
	require.True(t, ok)
	assert.Equal(t, "no_such_check", rule.RawKind)
	assert.ErrorIs(t, rule.Err, ErrMalformedRulesLogic)
	assert.ErrorIs(t, rules.Validate(), ErrMalformedRulesLogic)
}

func TestRulesLogicUnmarshalMissingType(t *testing.T) {
	var rules RulesLogic
	require.NoError(t, json.Unmarshal([]byte(`{"include_paths":["*"]}`), &rules))

	_, ok := rules.Rule.(MalformedRule)
	assert.True(t, ok)
	assert.ErrorIs(t, rules.Validate(), ErrMalformedRulesLogic)
}

func TestRulesLogicRoundTrip(t *testing.T) {
	rules := RulesLogic{
		IncludePaths: []string{"src/auth/*"},
		Rule:         SecurityPathRule{SecurityPaths: []string{"auth/", "config/"}},
	}

	encoded, err := json.Marshal(rules)
	require.NoError(t, err)

	var decoded RulesLogic
	require.NoError(t, json.Unmarshal(encoded, &decoded))
	assert.Equal(t, rules, decoded)
	assert.NoError(t, decoded.Validate())
}
