package repositories

import (
	"database/sql"
	"sync"
	"time"

	"github.com/teampulse/teampulse/internal/models"
)

// SyncProgressRepository handles database operations for sync cursors
type SyncProgressRepository struct {
	db *sql.DB
	mu sync.RWMutex
}

func NewSyncProgressRepository(db *sql.DB) *SyncProgressRepository {
	return &SyncProgressRepository{db: db}
}

// GetByTeamRepositoryID retrieves the sync cursor for a repository.
// Returns (nil, nil) when no sync has run yet.
func (r *SyncProgressRepository) GetByTeamRepositoryID(teamRepositoryID string) (*models.SyncProgress, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	query := `
		SELECT id, team_repository_id, commit_cursor, commit_page, pull_request_page, processed_commits, processed_prs, updated_at
		FROM sync_progress WHERE team_repository_id = ?
	`

	progress := &models.SyncProgress{}
	err := r.db.QueryRow(query, teamRepositoryID).Scan(
		&progress.ID,
		&progress.TeamRepositoryID,
		&progress.CommitCursor,
		&progress.CommitPage,
		&progress.PullRequestPage,
		&progress.ProcessedCommits,
		&progress.ProcessedPRs,
		&progress.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return progress, nil
}

// Upsert saves the sync cursor keyed by team_repository_id
func (r *SyncProgressRepository) Upsert(progress *models.SyncProgress) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	progress.UpdatedAt = time.Now()

	query := `
		INSERT INTO sync_progress (id, team_repository_id, commit_cursor, commit_page, pull_request_page, processed_commits, processed_prs, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(team_repository_id) DO UPDATE SET
			commit_cursor = excluded.commit_cursor,
			commit_page = excluded.commit_page,
			pull_request_page = excluded.pull_request_page,
			processed_commits = excluded.processed_commits,
			processed_prs = excluded.processed_prs,
			updated_at = excluded.updated_at
	`

	_, err := r.db.Exec(query,
		progress.ID,
		progress.TeamRepositoryID,
		progress.CommitCursor,
		progress.CommitPage,
		progress.PullRequestPage,
		progress.ProcessedCommits,
		progress.ProcessedPRs,
		progress.UpdatedAt,
	)
	return err
}
