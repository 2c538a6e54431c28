package dbmodels

import (
	"time"

	"github.com/zaxion/zaxion-backend/models"
	"github.com/zaxion/zaxion-backend/utils"
)

const TABLE_PR_OVERRIDES = "pr_overrides"

type DbOverride struct {
	Id             string    `db:"id"`
	PrDecisionId   string    `db:"pr_decision_id"`
	UserLogin      string    `db:"user_login"`
	OverrideReason string    `db:"override_reason"`
	Category       string    `db:"category"`
	TtlHours       *int      `db:"ttl_hours"`
	CreatedAt      time.Time `db:"created_at"`
}

var SelectOverrideColumns = utils.ColumnList[DbOverride]()

func AdaptOverride(db DbOverride) (models.Override, error) {
	return models.Override{
		Id:             db.Id,
		PrDecisionId:   db.PrDecisionId,
		UserLogin:      db.UserLogin,
		OverrideReason: db.OverrideReason,
		Category:       db.Category,
		TtlHours:       db.TtlHours,
		CreatedAt:      db.CreatedAt,
	}, nil
}
