package evaluate_policies

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zaxion/zaxion-backend/models"
	"github.com/zaxion/zaxion-backend/repositories"
)

type stubPolicyRepository struct {
	orgPolicies  []models.PolicyWithVersion
	repoPolicies []models.PolicyWithVersion
}

func (s stubPolicyRepository) ListPoliciesByScope(ctx context.Context, exec repositories.Executor,
	scope models.PolicyScope, targetId string, asOf time.Time,
) ([]models.PolicyWithVersion, error) {
	if scope == models.PolicyScopeOrg {
		return s.orgPolicies, nil
	}
	return s.repoPolicies, nil
}

func policyWithVersion(id, name string, scope models.PolicyScope,
	level models.EnforcementLevel, rules models.RulesLogic,
) models.PolicyWithVersion {
	return models.PolicyWithVersion{
		Policy: models.Policy{Id: id, Name: name, Scope: scope},
		Version: models.PolicyVersion{
			Id:       id + "-v1",
			PolicyId: id,
			Level:    level,
			Rules:    rules,
		},
	}
}

func TestNormalizePath(t *testing.T) {
	asserts := assert.New(t)

	asserts.Equal("src/app.js", normalizePath("  src/app.js "))
	asserts.Equal("src/app.js", normalizePath("./src/app.js"))
	asserts.Equal("src/app.js", normalizePath("src\\app.js"))
	asserts.Equal("src/readme.md", normalizePath("src/README.md"))
}

func TestPathMatches(t *testing.T) {
	tests := []struct {
		path    string
		pattern string
		want    bool
	}{
		{"src/app.js", "*", true},
		{"src/auth/login.js", "src/auth/*", true},
		{"src/app.js", "src/auth/*", false},
		{"readme.md", "readme.md", true},
		{"readme.md", "docs/readme.md", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, pathMatches(tt.path, tt.pattern),
			"path %q pattern %q", tt.path, tt.pattern)
	}
}

func TestMatchPolicyExcludePrecedence(t *testing.T) {
	rules := models.RulesLogic{
		IncludePaths: []string{"*"},
		ExcludePaths: []string{"tests/*"},
		Rule:         models.CoverageRule{MinTests: 1},
	}

	_, ok := matchPolicy(rules, []string{"tests/auth.js"})
	assert.False(t, ok)

	path, ok := matchPolicy(rules, []string{"tests/auth.js", "src/app.js"})
	assert.True(t, ok)
	assert.Equal(t, "src/app.js", path)
}

func TestMatchPolicyEmptyIncludesMatchEverything(t *testing.T) {
	path, ok := matchPolicy(models.RulesLogic{Rule: models.PrSizeRule{MaxFiles: 20}},
		[]string{"anything/at/all.go"})

	assert.True(t, ok)
	assert.Equal(t, "anything/at/all.go", path)
}

func TestResolveConflictsScopeBeatsLevel(t *testing.T) {
	policies := []models.ResolvedPolicy{
		{PolicyId: "p1", Scope: models.PolicyScopeRepo, Level: models.EnforcementMandatory},
		{PolicyId: "p1", Scope: models.PolicyScopeOrg, Level: models.EnforcementAdvisory},
	}

	resolved := resolveConflicts(policies)

	require.Len(t, resolved, 1)
	assert.Equal(t, models.PolicyScopeOrg, resolved[0].Scope)
}

func TestResolveConflictsLevelWithinScope(t *testing.T) {
	policies := []models.ResolvedPolicy{
		{PolicyId: "p1", Scope: models.PolicyScopeRepo, Level: models.EnforcementAdvisory},
		{PolicyId: "p1", Scope: models.PolicyScopeRepo, Level: models.EnforcementMandatory},
	}

	resolved := resolveConflicts(policies)

	require.Len(t, resolved, 1)
	assert.Equal(t, models.EnforcementMandatory, resolved[0].Level)
}

func TestResolveConflictsTieKeepsFirstSeen(t *testing.T) {
	policies := []models.ResolvedPolicy{
		{PolicyId: "p1", Scope: models.PolicyScopeRepo, Level: models.EnforcementMandatory, ResolutionPath: "first"},
		{PolicyId: "p1", Scope: models.PolicyScopeRepo, Level: models.EnforcementMandatory, ResolutionPath: "second"},
	}

	resolved := resolveConflicts(policies)

	require.Len(t, resolved, 1)
	assert.Equal(t, "first", resolved[0].ResolutionPath)
}

func TestResolvePolicies(t *testing.T) {
	repo := stubPolicyRepository{
		orgPolicies: []models.PolicyWithVersion{
			policyWithVersion("org-1", "auth changes need tests", models.PolicyScopeOrg,
				models.EnforcementMandatory, models.RulesLogic{
					IncludePaths: []string{"src/auth/*"},
					Rule:         models.CoverageRule{MinTests: 1},
				}),
		},
		repoPolicies: []models.PolicyWithVersion{
			policyWithVersion("repo-1", "readme advisory", models.PolicyScopeRepo,
				models.EnforcementAdvisory, models.RulesLogic{
					IncludePaths: []string{"readme.md"},
					Rule:         models.PrSizeRule{MaxFiles: 20},
				}),
			policyWithVersion("repo-2", "docs only", models.PolicyScopeRepo,
				models.EnforcementAdvisory, models.RulesLogic{
					IncludePaths: []string{"docs/*"},
					Rule:         models.PrSizeRule{MaxFiles: 20},
				}),
		},
	}
	resolver := NewResolver(repo)

	resolved, err := resolver.ResolvePolicies(context.Background(), nil, "org-id", "repo-id",
		[]string{"src/auth/login.js", "README.md"}, time.Now())

	require.NoError(t, err)
	require.Len(t, resolved, 2)
	assert.Equal(t, "org-1", resolved[0].PolicyId)
	assert.Equal(t, "src/auth/login.js", resolved[0].ResolutionPath)
	assert.Equal(t, "Org-level policy", resolved[0].Reason)
	assert.Equal(t, "repo-1", resolved[1].PolicyId)
	assert.Equal(t, "readme.md", resolved[1].ResolutionPath)
}

func TestResolvePoliciesEmptyInputs(t *testing.T) {
	resolver := NewResolver(stubPolicyRepository{})

	resolved, err := resolver.ResolvePolicies(context.Background(), nil, "org-id", "repo-id",
		nil, time.Now())

	require.NoError(t, err)
	assert.Empty(t, resolved)
}
