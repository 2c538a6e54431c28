package evaluate_policies

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/zaxion/zaxion-backend/models"
)

const EngineVersion = "1.0.0"

type checkResult struct {
	Verdict models.PolicyVerdict
	Message string
	Details map[string]string
}

// Evaluator is the judge: a pure function from (fact snapshot, resolved
// policies) to an evaluation result. Same inputs always produce the same
// verdicts and the same evaluation hash.
type Evaluator struct{}

func (e Evaluator) Evaluate(
	snapshot models.FactSnapshot,
	resolved []models.ResolvedPolicy,
	now time.Time,
) models.EvaluationResult {
	facts := snapshot.Data

	policyResults := make([]models.PolicyEvaluation, 0, len(resolved))
	var violated []models.PolicyEvaluation

	for _, policy := range resolved {
		check := checkRule(facts, policy.Rules.Rule, policy.Level)

		result := models.PolicyEvaluation{
			PolicyId:        policy.PolicyId,
			PolicyVersionId: policy.PolicyVersionId,
			Name:            policy.Name,
			Scope:           policy.Scope,
			Level:           policy.Level,
			RuleKind:        ruleKindLabel(policy.Rules.Rule),
			ResolutionPath:  policy.ResolutionPath,
			Verdict:         check.Verdict,
			Message:         check.Message,
			Details:         check.Details,
		}
		policyResults = append(policyResults, result)
		if check.Verdict != models.VerdictPass {
			violated = append(violated, result)
		}
	}

	finalResult := aggregate(policyResults)

	return models.EvaluationResult{
		Result:           finalResult,
		Rationale:        generateRationale(finalResult, policyResults),
		Policies:         policyResults,
		ViolatedPolicies: violated,
		EvaluationHash:   evaluationHash(facts, resolved),
		EngineVersion:    EngineVersion,
		EvaluatedAt:      now,
	}
}

// aggregate combines the per-policy verdicts: a BLOCK from a MANDATORY policy
// blocks the whole decision, any other violation downgrades to WARN.
func aggregate(results []models.PolicyEvaluation) models.DecisionState {
	hasViolation := false
	for _, r := range results {
		if r.Verdict == models.VerdictBlock && r.Level == models.EnforcementMandatory {
			return models.DecisionBlock
		}
		if r.Verdict != models.VerdictPass {
			hasViolation = true
		}
	}
	if hasViolation {
		return models.DecisionWarn
	}
	return models.DecisionPass
}

func checkRule(facts models.FactData, rule models.Rule, level models.EnforcementLevel) checkResult {
	switch rule := rule.(type) {
	case models.CoverageRule:
		return checkCoverage(facts, rule)
	case models.PrSizeRule:
		return checkPrSize(facts, rule)
	case models.SecurityPathRule:
		return checkSecurityPath(facts, rule)
	case models.FileExtensionRule:
		return checkFileExtension(facts, rule)
	default:
		// Unknown or malformed rules fail closed at the policy's enforcement
		// level instead of silently passing.
		verdict := models.VerdictWarn
		if level == models.EnforcementMandatory {
			verdict = models.VerdictBlock
		}
		return checkResult{
			Verdict: verdict,
			Message: "Policy rules could not be interpreted; failing closed.",
		}
	}
}

func ruleKindLabel(rule models.Rule) models.RuleKind {
	if malformed, ok := rule.(models.MalformedRule); ok && malformed.RawKind != "" {
		return models.RuleKind(malformed.RawKind)
	}
	if rule == nil {
		return ""
	}
	return rule.Kind()
}

func checkCoverage(facts models.FactData, rule models.CoverageRule) checkResult {
	testFiles := facts.Metadata.TestFilesChangedCount
	if testFiles < rule.MinTests {
		return checkResult{
			Verdict: models.VerdictBlock,
			Message: fmt.Sprintf("Required at least %d test file(s), but found %d.", rule.MinTests, testFiles),
			Details: map[string]string{
				"fact_path": "metadata.test_files_changed_count",
				"expected":  fmt.Sprintf(">= %d", rule.MinTests),
				"actual":    fmt.Sprintf("%d", testFiles),
			},
		}
	}
	return checkResult{Verdict: models.VerdictPass, Message: "Coverage requirements met."}
}

func checkPrSize(facts models.FactData, rule models.PrSizeRule) checkResult {
	totalFiles := facts.Changes.TotalFiles
	if totalFiles > rule.MaxFiles {
		return checkResult{
			Verdict: models.VerdictWarn,
			Message: fmt.Sprintf("PR is large (%d files). Recommended maximum is %d.", totalFiles, rule.MaxFiles),
			Details: map[string]string{
				"fact_path": "changes.total_files",
				"expected":  fmt.Sprintf("<= %d", rule.MaxFiles),
				"actual":    fmt.Sprintf("%d", totalFiles),
			},
		}
	}
	return checkResult{Verdict: models.VerdictPass, Message: "PR size is within limits."}
}

func checkSecurityPath(facts models.FactData, rule models.SecurityPathRule) checkResult {
	securityPaths := rule.SecurityPaths
	if len(securityPaths) == 0 {
		securityPaths = []string{"auth/", "config/"}
	}

	var violations []string
	for _, file := range facts.Changes.Files {
		for _, prefix := range securityPaths {
			if strings.HasPrefix(file.Path, prefix) {
				violations = append(violations, file.Path)
				break
			}
		}
	}

	if len(violations) > 0 {
		return checkResult{
			Verdict: models.VerdictBlock,
			Message: "Unauthorized changes to security-sensitive paths: " + strings.Join(violations, ", "),
			Details: map[string]string{
				"fact_path": "changes.files.path",
				"expected":  "No changes to security paths",
				"actual":    strings.Join(violations, ", "),
			},
		}
	}
	return checkResult{Verdict: models.VerdictPass, Message: "No security path violations."}
}

func checkFileExtension(facts models.FactData, rule models.FileExtensionRule) checkResult {
	if len(rule.AllowedExtensions) == 0 {
		return checkResult{Verdict: models.VerdictPass, Message: "All extensions allowed."}
	}

	allowed := make(map[string]bool, len(rule.AllowedExtensions))
	for _, ext := range rule.AllowedExtensions {
		allowed[ext] = true
	}

	var invalidExts []string
	seen := make(map[string]bool)
	for _, file := range facts.Changes.Files {
		if !allowed[file.Extension] && !seen[file.Extension] {
			seen[file.Extension] = true
			invalidExts = append(invalidExts, file.Extension)
		}
	}

	if len(invalidExts) > 0 {
		return checkResult{
			Verdict: models.VerdictBlock,
			Message: "Forbidden file extensions found: " + strings.Join(invalidExts, ", "),
			Details: map[string]string{
				"fact_path": "changes.files.extension",
				"expected":  "One of: " + strings.Join(rule.AllowedExtensions, ", "),
				"actual":    strings.Join(invalidExts, ", "),
			},
		}
	}
	return checkResult{Verdict: models.VerdictPass, Message: "File extensions are valid."}
}

// generateRationale is always non-empty, even on PASS with no policies.
func generateRationale(result models.DecisionState, policyResults []models.PolicyEvaluation) string {
	if result == models.DecisionPass {
		return "All policies passed successfully."
	}

	var summaries []string
	for _, r := range policyResults {
		if r.Verdict == models.VerdictPass {
			continue
		}
		line := fmt.Sprintf("[%s] %s", r.Level, r.Message)
		if r.ResolutionPath != "" {
			line += fmt.Sprintf(" (matched via %s)", r.ResolutionPath)
		}
		summaries = append(summaries, line)
	}

	return fmt.Sprintf("Evaluation Result: %s. Issues found:\n- %s",
		result, strings.Join(summaries, "\n- "))
}

// evaluationHash fingerprints one evaluation: the facts, the resolved rules
// and the engine version. Two evaluations with equal inputs hash identically.
func evaluationHash(facts models.FactData, resolved []models.ResolvedPolicy) string {
	type hashedPolicy struct {
		Id    string            `json:"id"`
		Rules models.RulesLogic `json:"rules"`
	}

	policies := make([]hashedPolicy, len(resolved))
	for i, p := range resolved {
		policies[i] = hashedPolicy{Id: p.PolicyVersionId, Rules: p.Rules}
	}

	input, _ := json.Marshal(struct {
		Facts    models.FactData `json:"facts"`
		Policies []hashedPolicy  `json:"policies"`
		Version  string          `json:"version"`
	}{Facts: facts, Policies: policies, Version: EngineVersion})

	digest := sha256.Sum256(input)
	return hex.EncodeToString(digest[:])
}
