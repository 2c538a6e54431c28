package evaluate_policies

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zaxion/zaxion-backend/models"
)

func snapshotWithFiles(testFilesCount int, files ...models.ChangedFile) models.FactSnapshot {
	return models.FactSnapshot{
		Id: "snapshot-id",
		Data: models.FactData{
			Changes: models.ChangeFacts{
				TotalFiles: len(files),
				Files:      files,
			},
			Metadata: models.DerivedMetadata{
				TestFilesChangedCount: testFilesCount,
			},
		},
	}
}

func resolvedPolicy(id string, level models.EnforcementLevel, rule models.Rule) models.ResolvedPolicy {
	return models.ResolvedPolicy{
		PolicyId:        id,
		PolicyVersionId: id + "-v1",
		Name:            id,
		Scope:           models.PolicyScopeOrg,
		Level:           level,
		ResolutionPath:  "src/app.js",
		Rules:           models.RulesLogic{Rule: rule},
	}
}

func TestEvaluateNoPoliciesPasses(t *testing.T) {
	result := Evaluator{}.Evaluate(snapshotWithFiles(0), nil, time.Now())

	assert.Equal(t, models.DecisionPass, result.Result)
	assert.Equal(t, "All policies passed successfully.", result.Rationale)
	assert.NotEmpty(t, result.EvaluationHash)
	assert.Equal(t, EngineVersion, result.EngineVersion)
}

func TestEvaluateCoverageViolationBlocks(t *testing.T) {
	snapshot := snapshotWithFiles(0, models.ChangedFile{Path: "src/app.js", Extension: ".js"})
	policies := []models.ResolvedPolicy{
		resolvedPolicy("coverage", models.EnforcementMandatory, models.CoverageRule{MinTests: 2}),
	}

	result := Evaluator{}.Evaluate(snapshot, policies, time.Now())

	assert.Equal(t, models.DecisionBlock, result.Result)
	require.Len(t, result.ViolatedPolicies, 1)
	assert.Equal(t, models.VerdictBlock, result.ViolatedPolicies[0].Verdict)
	assert.Contains(t, result.ViolatedPolicies[0].Message, "at least 2 test file(s)")
	assert.Equal(t, "0", result.ViolatedPolicies[0].Details["actual"])
}

func TestEvaluateAdvisoryBlockDowngradesToWarn(t *testing.T) {
	// A BLOCK verdict from an ADVISORY policy must not block the decision.
	snapshot := snapshotWithFiles(0, models.ChangedFile{Path: "src/app.js", Extension: ".js"})
	policies := []models.ResolvedPolicy{
		resolvedPolicy("coverage", models.EnforcementAdvisory, models.CoverageRule{MinTests: 1}),
	}

	result := Evaluator{}.Evaluate(snapshot, policies, time.Now())

	assert.Equal(t, models.DecisionWarn, result.Result)
}

func TestEvaluatePrSizeWarns(t *testing.T) {
	files := make([]models.ChangedFile, 25)
	for i := range files {
		files[i] = models.ChangedFile{Path: "src/app.js", Extension: ".js"}
	}
	snapshot := snapshotWithFiles(5, files...)
	policies := []models.ResolvedPolicy{
		resolvedPolicy("size", models.EnforcementMandatory, models.PrSizeRule{MaxFiles: 20}),
	}

	result := Evaluator{}.Evaluate(snapshot, policies, time.Now())

	assert.Equal(t, models.DecisionWarn, result.Result)
	assert.Contains(t, result.Rationale, "[MANDATORY]")
	assert.Contains(t, result.Rationale, "PR is large (25 files)")
}

func TestEvaluateSecurityPathBlocks(t *testing.T) {
	snapshot := snapshotWithFiles(1,
		models.ChangedFile{Path: "auth/token.go", Extension: ".go"},
		models.ChangedFile{Path: "docs/readme.md", Extension: ".md"},
	)
	policies := []models.ResolvedPolicy{
		resolvedPolicy("security", models.EnforcementMandatory,
			models.SecurityPathRule{SecurityPaths: []string{"auth/"}}),
	}

	result := Evaluator{}.Evaluate(snapshot, policies, time.Now())

	assert.Equal(t, models.DecisionBlock, result.Result)
	assert.Contains(t, result.ViolatedPolicies[0].Message, "auth/token.go")
	assert.NotContains(t, result.ViolatedPolicies[0].Message, "docs/readme.md")
}

func TestEvaluateFileExtension(t *testing.T) {
	snapshot := snapshotWithFiles(1,
		models.ChangedFile{Path: "main.go", Extension: ".go"},
		models.ChangedFile{Path: "hack.exe", Extension: ".exe"},
	)
	policies := []models.ResolvedPolicy{
		resolvedPolicy("extensions", models.EnforcementMandatory,
			models.FileExtensionRule{AllowedExtensions: []string{".go", ".md"}}),
	}

	result := Evaluator{}.Evaluate(snapshot, policies, time.Now())

	assert.Equal(t, models.DecisionBlock, result.Result)
	assert.Contains(t, result.ViolatedPolicies[0].Message, ".exe")
}

func TestEvaluateMalformedRuleFailsClosed(t *testing.T) {
	snapshot := snapshotWithFiles(5, models.ChangedFile{Path: "src/app.js", Extension: ".js"})

	mandatory := []models.ResolvedPolicy{
		resolvedPolicy("broken", models.EnforcementMandatory,
			models.MalformedRule{RawKind: "no_such_rule"}),
	}
	result := Evaluator{}.Evaluate(snapshot, mandatory, time.Now())
	assert.Equal(t, models.DecisionBlock, result.Result)
	assert.Contains(t, result.Rationale, "failing closed")

	advisory := []models.ResolvedPolicy{
		resolvedPolicy("broken", models.EnforcementAdvisory,
			models.MalformedRule{RawKind: "no_such_rule"}),
	}
	result = Evaluator{}.Evaluate(snapshot, advisory, time.Now())
	assert.Equal(t, models.DecisionWarn, result.Result)
}

func TestEvaluateMandatoryWinsOverAdvisory(t *testing.T) {
	snapshot := snapshotWithFiles(0,
		models.ChangedFile{Path: "src/auth/login.js", Extension: ".js"},
		models.ChangedFile{Path: "README.md", Extension: ".md"},
	)
	policies := []models.ResolvedPolicy{
		resolvedPolicy("org-coverage", models.EnforcementMandatory, models.CoverageRule{MinTests: 1}),
		resolvedPolicy("repo-size", models.EnforcementAdvisory, models.PrSizeRule{MaxFiles: 1}),
	}

	result := Evaluator{}.Evaluate(snapshot, policies, time.Now())

	assert.Equal(t, models.DecisionBlock, result.Result)
	assert.Len(t, result.Policies, 2)
	assert.Len(t, result.ViolatedPolicies, 2)
}

func TestEvaluationHashIsDeterministic(t *testing.T) {
	snapshot := snapshotWithFiles(1, models.ChangedFile{Path: "src/app.js", Extension: ".js"})
	policies := []models.ResolvedPolicy{
		resolvedPolicy("coverage", models.EnforcementMandatory, models.CoverageRule{MinTests: 1}),
	}

	first := Evaluator{}.Evaluate(snapshot, policies, time.Now())
	second := Evaluator{}.Evaluate(snapshot, policies, time.Now())
	assert.Equal(t, first.EvaluationHash, second.EvaluationHash)

	changed := snapshotWithFiles(0, models.ChangedFile{Path: "src/app.js", Extension: ".js"})
	third := Evaluator{}.Evaluate(changed, policies, time.Now())
	assert.NotEqual(t, first.EvaluationHash, third.EvaluationHash)
}
