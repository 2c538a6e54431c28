package models

import (
	"encoding/json"

	"github.com/cockroachdb/errors"
)

type RuleKind string

const (
	RuleKindCoverage      RuleKind = "coverage"
	RuleKindPrSize        RuleKind = "pr_size"
	RuleKindSecurityPath  RuleKind = "security_path"
	RuleKindFileExtension RuleKind = "file_extension"
)

// Rule is the closed set of deterministic checks a policy version can carry.
// The wire format is a flat JSON object discriminated by its "type" field;
// anything that does not decode into a known kind becomes a MalformedRule so
// that evaluation can fail closed instead of silently skipping the policy.
type Rule interface {
	Kind() RuleKind
}

type CoverageRule struct {
	MinTests int `json:"min_tests"`
}

func (CoverageRule) Kind() RuleKind { return RuleKindCoverage }

type PrSizeRule struct {
	MaxFiles int `json:"max_files"`
}

func (PrSizeRule) Kind() RuleKind { return RuleKindPrSize }

type SecurityPathRule struct {
	SecurityPaths []string `json:"security_paths"`
}

func (SecurityPathRule) Kind() RuleKind { return RuleKindSecurityPath }

type FileExtensionRule struct {
	AllowedExtensions []string `json:"allowed_extensions"`
}

func (FileExtensionRule) Kind() RuleKind { return RuleKindFileExtension }

// MalformedRule carries a rule that could not be decoded. It keeps the policy
// applicable so the evaluator can turn it into a violation at the policy's
// enforcement level.
type MalformedRule struct {
	RawKind string
	Err     error
}

func (MalformedRule) Kind() RuleKind { return "" }

// RulesLogic is the rule-set of one policy version: the path scoping that
// decides whether the policy applies to a changed-file set, plus the rule
// predicate evaluated against the fact snapshot.
type RulesLogic struct {
	IncludePaths []string
	ExcludePaths []string
	Rule         Rule
}

type rawRulesLogic struct {
	Type              *string  `json:"type"`
	IncludePaths      []string `json:"include_paths,omitempty"`
	ExcludePaths      []string `json:"exclude_paths,omitempty"`
	MinTests          *int     `json:"min_tests,omitempty"`
	MaxFiles          *int     `json:"max_files,omitempty"`
	SecurityPaths     []string `json:"security_paths,omitempty"`
	AllowedExtensions []string `json:"allowed_extensions,omitempty"`
}

func (r *RulesLogic) UnmarshalJSON(data []byte) error {
	var raw rawRulesLogic
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.Wrap(ErrMalformedRulesLogic, err.Error())
	}

	r.IncludePaths = raw.IncludePaths
	r.ExcludePaths = raw.ExcludePaths

	if raw.Type == nil {
		r.Rule = MalformedRule{Err: errors.Wrap(ErrMalformedRulesLogic, "missing rule type")}
		return nil
	}

	switch RuleKind(*raw.Type) {
	case RuleKindCoverage:
		rule := CoverageRule{MinTests: 1}
		if raw.MinTests != nil {
			rule.MinTests = *raw.MinTests
		}
		r.Rule = rule
	case RuleKindPrSize:
		rule := PrSizeRule{MaxFiles: 20}
		if raw.MaxFiles != nil {
			rule.MaxFiles = *raw.MaxFiles
		}
		r.Rule = rule
	case RuleKindSecurityPath:
		r.Rule = SecurityPathRule{SecurityPaths: raw.SecurityPaths}
	case RuleKindFileExtension:
		r.Rule = FileExtensionRule{AllowedExtensions: raw.AllowedExtensions}
	default:
		r.Rule = MalformedRule{
			RawKind: *raw.Type,
			Err:     errors.Wrapf(ErrMalformedRulesLogic, "unknown rule type %q", *raw.Type),
		}
	}
	return nil
}

func (r RulesLogic) MarshalJSON() ([]byte, error) {
	raw := rawRulesLogic{
		IncludePaths: r.IncludePaths,
		ExcludePaths: r.ExcludePaths,
	}

	switch rule := r.Rule.(type) {
	case CoverageRule:
		t := string(RuleKindCoverage)
		raw.Type = &t
		raw.MinTests = &rule.MinTests
	case PrSizeRule:
		t := string(RuleKindPrSize)
		raw.Type = &t
		raw.MaxFiles = &rule.MaxFiles
	case SecurityPathRule:
		t := string(RuleKindSecurityPath)
		raw.Type = &t
		raw.SecurityPaths = rule.SecurityPaths
	case FileExtensionRule:
		t := string(RuleKindFileExtension)
		raw.Type = &t
		raw.AllowedExtensions = rule.AllowedExtensions
	case MalformedRule:
		if rule.RawKind != "" {
			raw.Type = &rule.RawKind
		}
	}
	return json.Marshal(raw)
}

// Validate rejects rule-sets that could not be decoded. Used on the policy
// write path so that malformed rules never enter the repository in the first
// place; the evaluator's fail-closed handling covers rows that predate a rule
// kind being removed.
func (r RulesLogic) Validate() error {
	if malformed, ok := r.Rule.(MalformedRule); ok {
		return malformed.Err
	}
	if r.Rule == nil {
		return errors.Wrap(ErrMalformedRulesLogic, "missing rule")
	}
	return nil
}
