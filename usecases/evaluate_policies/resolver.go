package evaluate_policies

import (
	"context"
	"strings"
	"time"

	"github.com/zaxion/zaxion-backend/models"
	"github.com/zaxion/zaxion-backend/repositories"
	"github.com/zaxion/zaxion-backend/utils"
)

type PolicyResolverRepository interface {
	ListPoliciesByScope(ctx context.Context, exec repositories.Executor,
		scope models.PolicyScope, targetId string, asOf time.Time) ([]models.PolicyWithVersion, error)
}

// Resolver decides which policies apply to a changed-file set. Resolution is
// versioned: asOf selects the latest policy version created at or before the
// fact snapshot, so replaying an old decision sees the rules of that time.
type Resolver struct {
	repository PolicyResolverRepository
}

func NewResolver(repository PolicyResolverRepository) Resolver {
	return Resolver{repository: repository}
}

func (r Resolver) ResolvePolicies(
	ctx context.Context,
	exec repositories.Executor,
	orgId, repoId string,
	changedPaths []string,
	asOf time.Time,
) ([]models.ResolvedPolicy, error) {
	logger := utils.LoggerFromContext(ctx)
	logger.InfoContext(ctx, "resolving policies",
		"org_id", orgId, "repo_id", repoId, "as_of", asOf)

	normalizedPaths := make([]string, len(changedPaths))
	for i, p := range changedPaths {
		normalizedPaths[i] = normalizePath(p)
	}

	orgPolicies, err := r.repository.ListPoliciesByScope(ctx, exec, models.PolicyScopeOrg, orgId, asOf)
	if err != nil {
		return nil, err
	}
	repoPolicies, err := r.repository.ListPoliciesByScope(ctx, exec, models.PolicyScopeRepo, repoId, asOf)
	if err != nil {
		return nil, err
	}

	// Org policies come first so that the first-seen tie-break in conflict
	// resolution favors them.
	var applicable []models.ResolvedPolicy
	for _, policy := range append(orgPolicies, repoPolicies...) {
		resolutionPath, ok := matchPolicy(policy.Version.Rules, normalizedPaths)
		if !ok {
			continue
		}

		reason := "Repo-level policy"
		if policy.Scope == models.PolicyScopeOrg {
			reason = "Org-level policy"
		}

		applicable = append(applicable, models.ResolvedPolicy{
			PolicyId:        policy.Id,
			PolicyVersionId: policy.Version.Id,
			Name:            policy.Name,
			Scope:           policy.Scope,
			Level:           policy.Version.Level,
			ResolutionPath:  resolutionPath,
			Reason:          reason,
			Rules:           policy.Version.Rules,
		})
	}

	return resolveConflicts(applicable), nil
}

// normalizePath makes path matching deterministic across platforms: windows
// separators become posix, a leading ./ is dropped, and matching is
// case-insensitive.
func normalizePath(p string) string {
	normalized := strings.ReplaceAll(strings.TrimSpace(p), "\\", "/")
	normalized = strings.TrimPrefix(normalized, "./")
	return strings.ToLower(normalized)
}

// matchPolicy reports whether the rule-set applies to the changed paths, and
// if so which path triggered it. A path triggers when it matches an include
// pattern and no exclude pattern; the first matching path in input order wins.
func matchPolicy(rules models.RulesLogic, changedPaths []string) (string, bool) {
	includePaths := rules.IncludePaths
	if len(includePaths) == 0 {
		includePaths = []string{"*"}
	}

	for _, path := range changedPaths {
		included := false
		for _, pattern := range includePaths {
			if pathMatches(path, normalizePath(pattern)) {
				included = true
				break
			}
		}
		if !included {
			continue
		}

		excluded := false
		for _, pattern := range rules.ExcludePaths {
			if pathMatches(path, normalizePath(pattern)) {
				excluded = true
				break
			}
		}
		if !excluded {
			return path, true
		}
	}
	return "", false
}

// pathMatches implements the supported patterns: "*" matches everything,
// "dir/*" is a prefix match, anything else is an exact match.
func pathMatches(path, pattern string) bool {
	if pattern == "*" {
		return true
	}
	if strings.HasSuffix(pattern, "/*") {
		return strings.HasPrefix(path, strings.TrimSuffix(pattern, "/*"))
	}
	return path == pattern
}

var levelRank = map[models.EnforcementLevel]int{
	models.EnforcementMandatory: 2,
	models.EnforcementAdvisory:  1,
}

// resolveConflicts deduplicates by policy id. When the same policy matched
// more than once, ORG scope beats REPO scope, MANDATORY beats ADVISORY within
// equal scope, and remaining ties keep the first-seen entry. Output preserves
// first-seen order.
func resolveConflicts(policies []models.ResolvedPolicy) []models.ResolvedPolicy {
	resolved := make([]models.ResolvedPolicy, 0, len(policies))
	indexById := make(map[string]int, len(policies))

	for _, p := range policies {
		idx, seen := indexById[p.PolicyId]
		if !seen {
			indexById[p.PolicyId] = len(resolved)
			resolved = append(resolved, p)
			continue
		}

		existing := resolved[idx]
		if p.Scope == models.PolicyScopeOrg && existing.Scope == models.PolicyScopeRepo {
			resolved[idx] = p
			continue
		}
		if p.Scope == existing.Scope && levelRank[p.Level] > levelRank[existing.Level] {
			resolved[idx] = p
		}
	}
	return resolved
}
