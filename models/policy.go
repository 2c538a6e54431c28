package models

import (
	"time"
)

type PolicyScope string

const (
	PolicyScopeOrg  PolicyScope = "ORG"
	PolicyScopeRepo PolicyScope = "REPO"
)

func PolicyScopeFrom(s string) (PolicyScope, error) {
	switch PolicyScope(s) {
	case PolicyScopeOrg, PolicyScopeRepo:
		return PolicyScope(s), nil
	}
	return "", ErrUnknownPolicyScope
}

type EnforcementLevel string

const (
	EnforcementMandatory EnforcementLevel = "MANDATORY"
	EnforcementAdvisory  EnforcementLevel = "ADVISORY"
)

func EnforcementLevelFrom(s string) (EnforcementLevel, error) {
	switch EnforcementLevel(s) {
	case EnforcementMandatory, EnforcementAdvisory:
		return EnforcementLevel(s), nil
	}
	return "", ErrUnknownEnforcementLevel
}

// Policy is an organizational rule container, bound either to a whole
// organization (scope ORG) or a single repository (scope REPO). The rules
// themselves live in immutable PolicyVersions.
type Policy struct {
	Id         string
	Name       string
	Scope      PolicyScope
	TargetId   string
	OwningRole string
	CreatedAt  time.Time
}

// PolicyVersion is an immutable, versioned rule-set. Changing the rules of a
// policy means creating a new version; the latest version is the active one
// for new decisions, older versions stay addressable for replay and audit.
type PolicyVersion struct {
	Id            string
	PolicyId      string
	VersionNumber int
	Level         EnforcementLevel
	Rules         RulesLogic
	CreatedAt     time.Time
}

type PolicyWithVersion struct {
	Policy
	Version PolicyVersion
}

type CreatePolicyInput struct {
	Name       string
	Scope      PolicyScope
	TargetId   string
	OwningRole string
	Level      EnforcementLevel
	Rules      RulesLogic
}

type CreatePolicyVersionInput struct {
	PolicyId string
	Level    EnforcementLevel
	Rules    RulesLogic
}

// ResolvedPolicy is one effective ruling produced by the policy resolver: a
// deduplicated policy together with the version that applies and the changed
// path that triggered the match.
type ResolvedPolicy struct {
	PolicyId        string           `json:"policy_id"`
	PolicyVersionId string           `json:"policy_version_id"`
	Name            string           `json:"name"`
	Scope           PolicyScope      `json:"scope"`
	Level           EnforcementLevel `json:"level"`
	// ResolutionPath is the first changed path (in input order) that matched
	// the policy's include rules. Surfaced in remediation messages.
	ResolutionPath string     `json:"resolution_path"`
	Reason         string     `json:"reason"`
	Rules          RulesLogic `json:"rules"`
}
