package repositories

import (
	"database/sql"
	"sync"
	"time"

	"github.com/teampulse/teampulse/internal/models"
)

// PullRequestRepository handles database operations for audit pull request rows
type PullRequestRepository struct {
	db *sql.DB
	mu sync.RWMutex
}

func NewPullRequestRepository(db *sql.DB) *PullRequestRepository {
	return &PullRequestRepository{db: db}
}

// Upsert inserts a pull request, replacing any existing row with the same
// GitHub PR ID so re-syncs and state changes stay idempotent
func (r *PullRequestRepository) Upsert(pr *models.PullRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	pr.UpdatedAt = time.Now()

	query := `
		INSERT INTO pull_requests (id, team_id, github_repo_id, github_pr_id, github_pr_number, title, state, contributor_id, contributor_login, additions, deletions, merged_at, github_created_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(github_pr_id) DO UPDATE SET
			title = excluded.title,
			state = excluded.state,
			additions = excluded.additions,
			deletions = excluded.deletions,
			merged_at = excluded.merged_at,
			updated_at = excluded.updated_at
	`

	_, err := r.db.Exec(query,
		pr.ID,
		pr.TeamID,
		pr.GithubRepoID,
		pr.GithubPRID,
		pr.GithubPRNumber,
		pr.Title,
		pr.State,
		pr.ContributorID,
		pr.ContributorLogin,
		pr.Additions,
		pr.Deletions,
		pr.MergedAt,
		pr.GithubCreatedAt,
		pr.CreatedAt,
		pr.UpdatedAt,
	)
	return err
}

// GetByTeamAndDateRange retrieves pull requests for a team whose activity
// date (merge date for merged PRs, creation date otherwise) falls within
// [start, end)
func (r *PullRequestRepository) GetByTeamAndDateRange(teamID string, start, end time.Time) ([]*models.PullRequest, error) {
	query := `
		SELECT id, team_id, github_repo_id, github_pr_id, github_pr_number, title, state, contributor_id, contributor_login, additions, deletions, merged_at, github_created_at, created_at, updated_at
		FROM pull_requests
		WHERE team_id = ?
		AND COALESCE(merged_at, github_created_at) >= ?
		AND COALESCE(merged_at, github_created_at) < ?
		ORDER BY github_created_at ASC
	`

	rows, err := r.db.Query(query, teamID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var prs []*models.PullRequest
	for rows.Next() {
		pr := &models.PullRequest{}
		err := rows.Scan(
			&pr.ID,
			&pr.TeamID,
			&pr.GithubRepoID,
			&pr.GithubPRID,
			&pr.GithubPRNumber,
			&pr.Title,
			&pr.State,
			&pr.ContributorID,
			&pr.ContributorLogin,
			&pr.Additions,
			&pr.Deletions,
			&pr.MergedAt,
			&pr.GithubCreatedAt,
			&pr.CreatedAt,
			&pr.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		prs = append(prs, pr)
	}

	return prs, rows.Err()
}

// GetDateRangeByTeamID returns the earliest and latest activity dates for a
// team's pull requests, bucketed the same way date-range queries are
func (r *PullRequestRepository) GetDateRangeByTeamID(teamID string) (time.Time, time.Time, error) {
	query := `
		SELECT MIN(COALESCE(merged_at, github_created_at)), MAX(COALESCE(merged_at, github_created_at))
		FROM pull_requests WHERE team_id = ?
	`

	var min, max sql.NullTime
	if err := r.db.QueryRow(query, teamID).Scan(&min, &max); err != nil {
		return time.Time{}, time.Time{}, err
	}
	if !min.Valid || !max.Valid {
		return time.Time{}, time.Time{}, sql.ErrNoRows
	}

	return min.Time, max.Time, nil
}
