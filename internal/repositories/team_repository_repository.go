package repositories

import (
	"database/sql"
	"sync"
	"time"

	"github.com/teampulse/teampulse/internal/models"
)

// TeamRepositoryRepository handles database operations for tracked repositories
type TeamRepositoryRepository struct {
	db *sql.DB
	mu sync.RWMutex
}

func NewTeamRepositoryRepository(db *sql.DB) *TeamRepositoryRepository {
	return &TeamRepositoryRepository{db: db}
}

// Create creates a new tracked repository
func (r *TeamRepositoryRepository) Create(teamRepo *models.TeamRepository) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	query := `
		INSERT INTO team_repositories (id, team_id, github_repo_id, owner, name, full_name, is_tracked, last_synced_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		teamRepo.ID,
		teamRepo.TeamID,
		teamRepo.GithubRepoID,
		teamRepo.Owner,
		teamRepo.Name,
		teamRepo.FullName,
		teamRepo.IsTracked,
		teamRepo.LastSyncedAt,
		teamRepo.CreatedAt,
		teamRepo.UpdatedAt,
	)
	return err
}

// GetByID retrieves a tracked repository by ID
func (r *TeamRepositoryRepository) GetByID(id string) (*models.TeamRepository, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	query := `
		SELECT id, team_id, github_repo_id, owner, name, full_name, is_tracked, last_synced_at, created_at, updated_at
		FROM team_repositories WHERE id = ?
	`

	return r.scanOne(r.db.QueryRow(query, id))
}

// GetByTeamID retrieves all tracked repositories for a team
func (r *TeamRepositoryRepository) GetByTeamID(teamID string) ([]*models.TeamRepository, error) {
	query := `
		SELECT id, team_id, github_repo_id, owner, name, full_name, is_tracked, last_synced_at, created_at, updated_at
		FROM team_repositories WHERE team_id = ?
		ORDER BY full_name ASC
	`

	rows, err := r.db.Query(query, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var teamRepos []*models.TeamRepository
	for rows.Next() {
		teamRepo := &models.TeamRepository{}
		err := rows.Scan(
			&teamRepo.ID,
			&teamRepo.TeamID,
			&teamRepo.GithubRepoID,
			&teamRepo.Owner,
			&teamRepo.Name,
			&teamRepo.FullName,
			&teamRepo.IsTracked,
			&teamRepo.LastSyncedAt,
			&teamRepo.CreatedAt,
			&teamRepo.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		teamRepos = append(teamRepos, teamRepo)
	}

	return teamRepos, rows.Err()
}

// GetByGithubRepoID retrieves a tracked repository by its GitHub ID
func (r *TeamRepositoryRepository) GetByGithubRepoID(githubRepoID int64) (*models.TeamRepository, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	query := `
		SELECT id, team_id, github_repo_id, owner, name, full_name, is_tracked, last_synced_at, created_at, updated_at
		FROM team_repositories WHERE github_repo_id = ? AND is_tracked = 1
	`

	return r.scanOne(r.db.QueryRow(query, githubRepoID))
}

// Update updates a tracked repository
func (r *TeamRepositoryRepository) Update(teamRepo *models.TeamRepository) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	teamRepo.UpdatedAt = time.Now()

	query := `
		UPDATE team_repositories
		SET is_tracked = ?, last_synced_at = ?, updated_at = ?
		WHERE id = ?
	`

	_, err := r.db.Exec(query, teamRepo.IsTracked, teamRepo.LastSyncedAt, teamRepo.UpdatedAt, teamRepo.ID)
	return err
}

func (r *TeamRepositoryRepository) scanOne(row *sql.Row) (*models.TeamRepository, error) {
	teamRepo := &models.TeamRepository{}
	err := row.Scan(
		&teamRepo.ID,
		&teamRepo.TeamID,
		&teamRepo.GithubRepoID,
		&teamRepo.Owner,
		&teamRepo.Name,
		&teamRepo.FullName,
		&teamRepo.IsTracked,
		&teamRepo.LastSyncedAt,
		&teamRepo.CreatedAt,
		&teamRepo.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return teamRepo, nil
}
