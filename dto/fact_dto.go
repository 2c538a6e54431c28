package dto

import (
	"time"

	"github.com/zaxion/zaxion-backend/models"
)

type IngestFactsBody struct {
	RepoFullName string `json:"repo_full_name" binding:"required"`
	PrNumber     int    `json:"pr_number" binding:"required"`
	CommitSha    string `json:"commit_sha" binding:"required"`
}

type APIFactSnapshot struct {
	Id              string          `json:"id"`
	RepoFullName    string          `json:"repo_full_name"`
	PrNumber        int             `json:"pr_number"`
	CommitSha       string          `json:"commit_sha"`
	Data            models.FactData `json:"data"`
	SnapshotVersion string          `json:"snapshot_version"`
	IngestedAt      time.Time       `json:"ingested_at"`
}

func AdaptFactSnapshotDto(snapshot models.FactSnapshot) APIFactSnapshot {
	return APIFactSnapshot(snapshot)
}
