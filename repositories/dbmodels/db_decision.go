package dbmodels

import (
	"time"

	"github.com/zaxion/zaxion-backend/models"
	"github.com/zaxion/zaxion-backend/utils"
)

const TABLE_PR_DECISIONS = "pr_decisions"

type DbDecision struct {
	Id            string    `db:"id"`
	RepoOwner     string    `db:"repo_owner"`
	RepoName      string    `db:"repo_name"`
	PrNumber      int       `db:"pr_number"`
	CommitSha     string    `db:"commit_sha"`
	PolicyVersion string    `db:"policy_version"`
	Decision      string    `db:"decision"`
	Reason        string    `db:"reason"`
	RawData       []byte    `db:"raw_data"`
	OverrideId    *string   `db:"override_id"`
	StartedAt     time.Time `db:"started_at"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

var SelectDecisionColumns = utils.ColumnList[DbDecision]()

func AdaptDecision(db DbDecision) (models.Decision, error) {
	return models.Decision{
		Id:            db.Id,
		RepoOwner:     db.RepoOwner,
		RepoName:      db.RepoName,
		PrNumber:      db.PrNumber,
		CommitSha:     db.CommitSha,
		PolicyVersion: db.PolicyVersion,
		Decision:      models.DecisionState(db.Decision),
		Reason:        db.Reason,
		RawData:       db.RawData,
		OverrideId:    db.OverrideId,
		StartedAt:     db.StartedAt,
		CreatedAt:     db.CreatedAt,
		UpdatedAt:     db.UpdatedAt,
	}, nil
}
