package models

import (
	"time"
)

const FactSnapshotVersion = "1.0.0"

// FactSnapshot is the immutable record of a pull request's state at a specific
// commit. There is at most one snapshot per (repo full name, commit sha):
// re-ingestion of the same key returns the stored snapshot without touching
// the code host again.
type FactSnapshot struct {
	Id              string
	RepoFullName    string
	PrNumber        int
	CommitSha       string
	Data            FactData
	SnapshotVersion string
	IngestedAt      time.Time
}

type FactData struct {
	IngestionStatus IngestionStatus  `json:"ingestion_status"`
	Provenance      Provenance       `json:"provenance"`
	PullRequest     PullRequestFacts `json:"pull_request"`
	Changes         ChangeFacts      `json:"changes"`
	Metadata        DerivedMetadata  `json:"metadata"`
}

type IngestionStatus struct {
	Complete      bool      `json:"complete"`
	MissingFields []string  `json:"missing_fields"`
	IngestedAt    time.Time `json:"ingested_at"`
}

type Provenance struct {
	Source             string `json:"source"`
	ApiVersion         string `json:"api_version"`
	IngestionMethod    string `json:"ingestion_method"`
	RateLimitRemaining int    `json:"rate_limit_remaining"`
}

type PullRequestFacts struct {
	Title       string   `json:"title"`
	AuthorId    int64    `json:"author_id"`
	AuthorLogin string   `json:"author_login"`
	BaseBranch  string   `json:"base_branch"`
	Labels      []string `json:"labels"`
	IsDraft     bool     `json:"is_draft"`
}

type ChangeFacts struct {
	TotalFiles int           `json:"total_files"`
	Additions  int           `json:"additions"`
	Deletions  int           `json:"deletions"`
	Files      []ChangedFile `json:"files"`
}

type ChangedFile struct {
	Path       string `json:"path"`
	Extension  string `json:"extension"`
	Status     string `json:"status"`
	Additions  int    `json:"additions"`
	Deletions  int    `json:"deletions"`
	IsTestFile bool   `json:"is_test_file"`
}

type DerivedMetadata struct {
	TestFilesChangedCount int      `json:"test_files_changed_count"`
	PathPrefixes          []string `json:"path_prefixes"`
}

// ChangedPaths returns the raw changed file paths, in the order the code host
// returned them. The resolver relies on this order to pick resolution paths.
func (s FactSnapshot) ChangedPaths() []string {
	paths := make([]string, len(s.Data.Changes.Files))
	for i, f := range s.Data.Changes.Files {
		paths[i] = f.Path
	}
	return paths
}
