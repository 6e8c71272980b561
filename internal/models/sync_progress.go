package models

import (
	"time"

	"github.com/google/uuid"
)

// SyncProgress tracks how far a repository's historical pull has advanced,
// so an interrupted sync resumes instead of refetching from scratch
type SyncProgress struct {
	ID               string    `json:"id"`
	TeamRepositoryID string    `json:"team_repository_id"`
	CommitCursor     time.Time `json:"commit_cursor"`
	CommitPage       int       `json:"commit_page"`
	PullRequestPage  int       `json:"pull_request_page"`
	ProcessedCommits int       `json:"processed_commits"`
	ProcessedPRs     int       `json:"processed_prs"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// NewSyncProgress creates a zeroed SyncProgress for a team repository
func NewSyncProgress(teamRepositoryID string) *SyncProgress {
	return &SyncProgress{
		ID:               uuid.New().String(),
		TeamRepositoryID: teamRepositoryID,
		UpdatedAt:        time.Now(),
	}
}
