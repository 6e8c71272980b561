package models

import (
	"time"

	"github.com/google/uuid"
)

// TeamRepository represents a GitHub repository tracked for a team
type TeamRepository struct {
	ID           string     `json:"id"`
	TeamID       string     `json:"team_id"`
	GithubRepoID int64      `json:"github_repo_id"`
	Owner        string     `json:"owner"`
	Name         string     `json:"name"`
	FullName     string     `json:"full_name"`
	IsTracked    bool       `json:"is_tracked"`
	LastSyncedAt *time.Time `json:"last_synced_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// NewTeamRepository creates a new TeamRepository with a generated UUID
func NewTeamRepository(teamID string, githubRepoID int64, owner, name string) *TeamRepository {
	now := time.Now()
	return &TeamRepository{
		ID:           uuid.New().String(),
		TeamID:       teamID,
		GithubRepoID: githubRepoID,
		Owner:        owner,
		Name:         name,
		FullName:     owner + "/" + name,
		IsTracked:    true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// MarkSynced records a completed sync for this repository
func (tr *TeamRepository) MarkSynced() {
	now := time.Now()
	tr.LastSyncedAt = &now
	tr.UpdatedAt = now
}
