package repositories

import (
	"database/sql"
	"sync"
	"time"

	"github.com/teampulse/teampulse/internal/models"
)

// CommitRepository handles database operations for audit commit rows
type CommitRepository struct {
	db *sql.DB
	mu sync.RWMutex
}

func NewCommitRepository(db *sql.DB) *CommitRepository {
	return &CommitRepository{db: db}
}

// Upsert inserts a commit, replacing any existing row with the same SHA for
// the repository so re-syncs stay idempotent
func (r *CommitRepository) Upsert(commit *models.Commit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	query := `
		INSERT INTO commits (id, team_id, github_repo_id, commit_sha, message, contributor_id, contributor_login, commit_date, additions, deletions, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(github_repo_id, commit_sha) DO UPDATE SET
			message = excluded.message,
			contributor_id = excluded.contributor_id,
			contributor_login = excluded.contributor_login,
			commit_date = excluded.commit_date,
			additions = excluded.additions,
			deletions = excluded.deletions
	`

	_, err := r.db.Exec(query,
		commit.ID,
		commit.TeamID,
		commit.GithubRepoID,
		commit.CommitSHA,
		commit.Message,
		commit.ContributorID,
		commit.ContributorLogin,
		commit.CommitDate,
		commit.Additions,
		commit.Deletions,
		commit.CreatedAt,
	)
	return err
}

// GetByTeamAndDateRange retrieves commits for a team within [start, end)
func (r *CommitRepository) GetByTeamAndDateRange(teamID string, start, end time.Time) ([]*models.Commit, error) {
	query := `
		SELECT id, team_id, github_repo_id, commit_sha, message, contributor_id, contributor_login, commit_date, additions, deletions, created_at
		FROM commits WHERE team_id = ? AND commit_date >= ? AND commit_date < ?
		ORDER BY commit_date ASC
	`

	rows, err := r.db.Query(query, teamID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var commits []*models.Commit
	for rows.Next() {
		commit := &models.Commit{}
		err := rows.Scan(
			&commit.ID,
			&commit.TeamID,
			&commit.GithubRepoID,
			&commit.CommitSHA,
			&commit.Message,
			&commit.ContributorID,
			&commit.ContributorLogin,
			&commit.CommitDate,
			&commit.Additions,
			&commit.Deletions,
			&commit.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		commits = append(commits, commit)
	}

	return commits, rows.Err()
}

// GetDateRangeByTeamID returns the earliest and latest commit dates for a team
func (r *CommitRepository) GetDateRangeByTeamID(teamID string) (time.Time, time.Time, error) {
	query := `SELECT MIN(commit_date), MAX(commit_date) FROM commits WHERE team_id = ?`

	var min, max sql.NullTime
	if err := r.db.QueryRow(query, teamID).Scan(&min, &max); err != nil {
		return time.Time{}, time.Time{}, err
	}
	if !min.Valid || !max.Valid {
		return time.Time{}, time.Time{}, sql.ErrNoRows
	}

	return min.Time, max.Time, nil
}
