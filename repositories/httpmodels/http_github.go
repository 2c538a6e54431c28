package httpmodels

import (
	"github.com/zaxion/zaxion-backend/models"
	"github.com/zaxion/zaxion-backend/pure_utils"
)

type HTTPGithubPullRequest struct {
	Title string `json:"title"`
	Draft bool   `json:"draft"`
	User  struct {
		Id    int64  `json:"id"`
		Login string `json:"login"`
	} `json:"user"`
	Base struct {
		Ref string `json:"ref"`
	} `json:"base"`
	Labels []struct {
		Name string `json:"name"`
	} `json:"labels"`
}

type HTTPGithubPullRequestFile struct {
	Filename  string `json:"filename"`
	Status    string `json:"status"`
	Additions int    `json:"additions"`
	Deletions int    `json:"deletions"`
}

func AdaptPullRequestMetadata(pr HTTPGithubPullRequest) models.PullRequestMetadata {
	labels := make([]string, 0, len(pr.Labels))
	for _, label := range pr.Labels {
		labels = append(labels, label.Name)
	}
	return models.PullRequestMetadata{
		Title:       pr.Title,
		AuthorId:    pr.User.Id,
		AuthorLogin: pr.User.Login,
		BaseRef:     pr.Base.Ref,
		Labels:      labels,
		Draft:       pr.Draft,
	}
}

func AdaptPullRequestFiles(files []HTTPGithubPullRequestFile) []models.PullRequestFile {
	return pure_utils.Map(files, func(f HTTPGithubPullRequestFile) models.PullRequestFile {
		return models.PullRequestFile{
			Path:      f.Filename,
			Status:    f.Status,
			Additions: f.Additions,
			Deletions: f.Deletions,
		}
	})
}
