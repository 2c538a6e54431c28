package dbmodels

import (
	"time"

	"github.com/zaxion/zaxion-backend/models"
	"github.com/zaxion/zaxion-backend/utils"
)

const TABLE_POLICY_METRICS = "derived_policy_metrics"

type DbPolicyMetrics struct {
	PolicyId         string    `db:"policy_id"`
	PolicyVersionId  string    `db:"policy_version_id"`
	TotalEvaluations int       `db:"total_evaluations"`
	TotalBlocks      int       `db:"total_blocks"`
	TotalOverrides   int       `db:"total_overrides"`
	UpdatedAt        time.Time `db:"updated_at"`
}

var SelectPolicyMetricsColumns = utils.ColumnList[DbPolicyMetrics]()

func AdaptPolicyMetrics(db DbPolicyMetrics) (models.PolicyMetrics, error) {
	return models.PolicyMetrics{
		PolicyId:         db.PolicyId,
		PolicyVersionId:  db.PolicyVersionId,
		TotalEvaluations: db.TotalEvaluations,
		TotalBlocks:      db.TotalBlocks,
		TotalOverrides:   db.TotalOverrides,
		UpdatedAt:        db.UpdatedAt,
	}, nil
}
