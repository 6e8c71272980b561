package models

import (
	"time"

	"github.com/google/uuid"
)

// Commit represents a Git commit persisted for audit and detail views
type Commit struct {
	ID               string    `json:"id"`
	TeamID           string    `json:"team_id"`
	GithubRepoID     int64     `json:"github_repo_id"`
	CommitSHA        string    `json:"commit_sha"`
	Message          string    `json:"message"`
	ContributorID    string    `json:"contributor_id"`
	ContributorLogin string    `json:"contributor_login"`
	CommitDate       time.Time `json:"commit_date"`
	Additions        int       `json:"additions"`
	Deletions        int       `json:"deletions"`
	CreatedAt        time.Time `json:"created_at"`
}

// NewCommit creates a new Commit with a generated UUID
func NewCommit(teamID string, githubRepoID int64, commitSHA, message string, commitDate time.Time) *Commit {
	return &Commit{
		ID:           uuid.New().String(),
		TeamID:       teamID,
		GithubRepoID: githubRepoID,
		CommitSHA:    commitSHA,
		Message:      message,
		CommitDate:   commitDate,
		CreatedAt:    time.Now(),
	}
}

// SetAuthor sets the commit author identity
func (c *Commit) SetAuthor(contributorID, login string) {
	c.ContributorID = contributorID
	c.ContributorLogin = login
}

// SetStats sets the commit line statistics
func (c *Commit) SetStats(additions, deletions int) {
	c.Additions = additions
	c.Deletions = deletions
}
