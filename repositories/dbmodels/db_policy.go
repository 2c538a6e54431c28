package dbmodels

import (
	"time"

	"github.com/zaxion/zaxion-backend/models"
	"github.com/zaxion/zaxion-backend/utils"
)

const TABLE_POLICIES = "policies"

type DbPolicy struct {
	Id         string    `db:"id"`
	Name       string    `db:"name"`
	Scope      string    `db:"scope"`
	TargetId   string    `db:"target_id"`
	OwningRole string    `db:"owning_role"`
	CreatedAt  time.Time `db:"created_at"`
}

var SelectPolicyColumns = utils.ColumnList[DbPolicy]()

func AdaptPolicy(db DbPolicy) (models.Policy, error) {
	scope, err := models.PolicyScopeFrom(db.Scope)
	if err != nil {
		return models.Policy{}, err
	}

	return models.Policy{
		Id:         db.Id,
		Name:       db.Name,
		Scope:      scope,
		TargetId:   db.TargetId,
		OwningRole: db.OwningRole,
		CreatedAt:  db.CreatedAt,
	}, nil
}

type DbPolicyWithVersion struct {
	DbPolicy
	DbPolicyVersion
}

func AdaptPolicyWithVersion(db DbPolicyWithVersion) (models.PolicyWithVersion, error) {
	policy, err := AdaptPolicy(db.DbPolicy)
	if err != nil {
		return models.PolicyWithVersion{}, err
	}
	version, err := AdaptPolicyVersion(db.DbPolicyVersion)
	if err != nil {
		return models.PolicyWithVersion{}, err
	}
	return models.PolicyWithVersion{Policy: policy, Version: version}, nil
}
