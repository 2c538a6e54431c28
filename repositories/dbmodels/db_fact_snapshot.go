package dbmodels

import (
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/zaxion/zaxion-backend/models"
	"github.com/zaxion/zaxion-backend/utils"
)

const TABLE_FACT_SNAPSHOTS = "fact_snapshots"

type DbFactSnapshot struct {
	Id              string    `db:"id"`
	RepoFullName    string    `db:"repo_full_name"`
	PrNumber        int       `db:"pr_number"`
	CommitSha       string    `db:"commit_sha"`
	Data            []byte    `db:"data"`
	SnapshotVersion string    `db:"snapshot_version"`
	IngestedAt      time.Time `db:"ingested_at"`
}

var SelectFactSnapshotColumns = utils.ColumnList[DbFactSnapshot]()

func AdaptFactSnapshot(db DbFactSnapshot) (models.FactSnapshot, error) {
	var data models.FactData
	if err := json.Unmarshal(db.Data, &data); err != nil {
		return models.FactSnapshot{}, errors.Wrap(err, "can't decode fact snapshot data")
	}

	return models.FactSnapshot{
		Id:              db.Id,
		RepoFullName:    db.RepoFullName,
		PrNumber:        db.PrNumber,
		CommitSha:       db.CommitSha,
		Data:            data,
		SnapshotVersion: db.SnapshotVersion,
		IngestedAt:      db.IngestedAt,
	}, nil
}
