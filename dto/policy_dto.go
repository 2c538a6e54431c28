package dto

import (
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/zaxion/zaxion-backend/models"
)

type CreatePolicyBody struct {
	Name             string          `json:"name" binding:"required"`
	Scope            string          `json:"scope" binding:"required"`
	TargetId         string          `json:"target_id" binding:"required"`
	OwningRole       string          `json:"owning_role"`
	EnforcementLevel string          `json:"enforcement_level" binding:"required"`
	RulesLogic       json.RawMessage `json:"rules_logic" binding:"required"`
}

type CreatePolicyVersionBody struct {
	EnforcementLevel string          `json:"enforcement_level" binding:"required"`
	RulesLogic       json.RawMessage `json:"rules_logic" binding:"required"`
}

func AdaptCreatePolicyInput(body CreatePolicyBody) (models.CreatePolicyInput, error) {
	scope, err := models.PolicyScopeFrom(body.Scope)
	if err != nil {
		return models.CreatePolicyInput{}, errors.Wrap(models.BadParameterError, err.Error())
	}
	level, err := models.EnforcementLevelFrom(body.EnforcementLevel)
	if err != nil {
		return models.CreatePolicyInput{}, errors.Wrap(models.BadParameterError, err.Error())
	}

	var rules models.RulesLogic
	if err := json.Unmarshal(body.RulesLogic, &rules); err != nil {
		return models.CreatePolicyInput{}, errors.Wrap(models.BadParameterError, err.Error())
	}

	return models.CreatePolicyInput{
		Name:       body.Name,
		Scope:      scope,
		TargetId:   body.TargetId,
		OwningRole: body.OwningRole,
		Level:      level,
		Rules:      rules,
	}, nil
}

func AdaptCreatePolicyVersionInput(policyId string, body CreatePolicyVersionBody) (models.CreatePolicyVersionInput, error) {
	level, err := models.EnforcementLevelFrom(body.EnforcementLevel)
	if err != nil {
		return models.CreatePolicyVersionInput{}, errors.Wrap(models.BadParameterError, err.Error())
	}

	var rules models.RulesLogic
	if err := json.Unmarshal(body.RulesLogic, &rules); err != nil {
		return models.CreatePolicyVersionInput{}, errors.Wrap(models.BadParameterError, err.Error())
	}

	return models.CreatePolicyVersionInput{
		PolicyId: policyId,
		Level:    level,
		Rules:    rules,
	}, nil
}

type APIPolicy struct {
	Id         string    `json:"id"`
	Name       string    `json:"name"`
	Scope      string    `json:"scope"`
	TargetId   string    `json:"target_id"`
	OwningRole string    `json:"owning_role,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type APIPolicyVersion struct {
	Id               string            `json:"id"`
	PolicyId         string            `json:"policy_id"`
	VersionNumber    int               `json:"version_number"`
	EnforcementLevel string            `json:"enforcement_level"`
	RulesLogic       models.RulesLogic `json:"rules_logic"`
	CreatedAt        time.Time         `json:"created_at"`
}

type APIPolicyWithVersion struct {
	APIPolicy
	LatestVersion APIPolicyVersion `json:"latest_version"`
}

func AdaptPolicyDto(policy models.Policy) APIPolicy {
	return APIPolicy{
		Id:         policy.Id,
		Name:       policy.Name,
		Scope:      string(policy.Scope),
		TargetId:   policy.TargetId,
		OwningRole: policy.OwningRole,
		CreatedAt:  policy.CreatedAt,
	}
}

func AdaptPolicyVersionDto(version models.PolicyVersion) APIPolicyVersion {
	return APIPolicyVersion{
		Id:               version.Id,
		PolicyId:         version.PolicyId,
		VersionNumber:    version.VersionNumber,
		EnforcementLevel: string(version.Level),
		RulesLogic:       version.Rules,
		CreatedAt:        version.CreatedAt,
	}
}

func AdaptPolicyWithVersionDto(policy models.PolicyWithVersion) APIPolicyWithVersion {
	return APIPolicyWithVersion{
		APIPolicy:     AdaptPolicyDto(policy.Policy),
		LatestVersion: AdaptPolicyVersionDto(policy.Version),
	}
}

type APIPolicyMetrics struct {
	PolicyId         string    `json:"policy_id"`
	PolicyVersionId  string    `json:"policy_version_id"`
	TotalEvaluations int       `json:"total_evaluations"`
	TotalBlocks      int       `json:"total_blocks"`
	TotalOverrides   int       `json:"total_overrides"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func AdaptPolicyMetricsDto(metrics models.PolicyMetrics) APIPolicyMetrics {
	return APIPolicyMetrics(metrics)
}
