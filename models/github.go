package models

// PullRequestMetadata is what the code host reports about a pull request,
// before any derivation.
type PullRequestMetadata struct {
	Title              string
	AuthorId           int64
	AuthorLogin        string
	BaseRef            string
	Labels             []string
	Draft              bool
	RateLimitRemaining int
}

// PullRequestFile is one entry of the changed-file list reported by the code
// host.
type PullRequestFile struct {
	Path      string
	Status    string
	Additions int
	Deletions int
}

type PullRequestFiles struct {
	Files              []PullRequestFile
	RateLimitRemaining int
}
