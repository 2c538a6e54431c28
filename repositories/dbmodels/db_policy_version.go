package dbmodels

import (
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/zaxion/zaxion-backend/models"
	"github.com/zaxion/zaxion-backend/utils"
)

const TABLE_POLICY_VERSIONS = "policy_versions"

type DbPolicyVersion struct {
	Id               string    `db:"id"`
	PolicyId         string    `db:"policy_id"`
	VersionNumber    int       `db:"version_number"`
	EnforcementLevel string    `db:"enforcement_level"`
	RulesLogic       []byte    `db:"rules_logic"`
	CreatedAt        time.Time `db:"created_at"`
}

var SelectPolicyVersionColumns = utils.ColumnList[DbPolicyVersion]()

func AdaptPolicyVersion(db DbPolicyVersion) (models.PolicyVersion, error) {
	level, err := models.EnforcementLevelFrom(db.EnforcementLevel)
	if err != nil {
		return models.PolicyVersion{}, err
	}

	// RulesLogic decoding never fails on unknown rule kinds: those surface as
	// a MalformedRule so that evaluation fails closed instead of dropping the
	// policy.
	var rules models.RulesLogic
	if err := json.Unmarshal(db.RulesLogic, &rules); err != nil {
		return models.PolicyVersion{}, errors.Wrap(err, "can't decode policy version rules")
	}

	return models.PolicyVersion{
		Id:            db.Id,
		PolicyId:      db.PolicyId,
		VersionNumber: db.VersionNumber,
		Level:         level,
		Rules:         rules,
		CreatedAt:     db.CreatedAt,
	}, nil
}
