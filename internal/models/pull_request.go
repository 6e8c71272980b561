package models

import (
	"time"

	"github.com/google/uuid"
)

// PullRequest represents a GitHub pull request persisted for audit and detail views
type PullRequest struct {
	ID               string     `json:"id"`
	TeamID           string     `json:"team_id"`
	GithubRepoID     int64      `json:"github_repo_id"`
	GithubPRID       int64      `json:"github_pr_id"`
	GithubPRNumber   int        `json:"github_pr_number"`
	Title            string     `json:"title"`
	State            string     `json:"state"`
	ContributorID    string     `json:"contributor_id"`
	ContributorLogin string     `json:"contributor_login"`
	Additions        int        `json:"additions"`
	Deletions        int        `json:"deletions"`
	MergedAt         *time.Time `json:"merged_at"`
	GithubCreatedAt  time.Time  `json:"github_created_at"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// NewPullRequest creates a new PullRequest with a generated UUID
func NewPullRequest(teamID string, githubRepoID, githubPRID int64, number int, title string) *PullRequest {
	now := time.Now()
	return &PullRequest{
		ID:             uuid.New().String(),
		TeamID:         teamID,
		GithubRepoID:   githubRepoID,
		GithubPRID:     githubPRID,
		GithubPRNumber: number,
		Title:          title,
		State:          "open",
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// IsMerged checks if the pull request was merged
func (pr *PullRequest) IsMerged() bool {
	return pr.MergedAt != nil
}
