package repositories

import (
	"database/sql"
	"sync"
	"time"

	"github.com/teampulse/teampulse/internal/models"
)

// TeamRepository handles database operations for teams
type TeamRepository struct {
	db *sql.DB
	mu sync.RWMutex
}

func NewTeamRepository(db *sql.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

// Create creates a new team
func (r *TeamRepository) Create(team *models.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	query := `
		INSERT INTO teams (id, name, slug, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query, team.ID, team.Name, team.Slug, team.CreatedAt, team.UpdatedAt)
	return err
}

// GetByID retrieves a team by ID
func (r *TeamRepository) GetByID(id string) (*models.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	query := `
		SELECT id, name, slug, created_at, updated_at, deleted_at
		FROM teams WHERE id = ? AND deleted_at IS NULL
	`

	team := &models.Team{}
	err := r.db.QueryRow(query, id).Scan(
		&team.ID,
		&team.Name,
		&team.Slug,
		&team.CreatedAt,
		&team.UpdatedAt,
		&team.DeletedAt,
	)

	if err != nil {
		return nil, err
	}

	return team, nil
}

// GetAll retrieves all teams
func (r *TeamRepository) GetAll() ([]*models.Team, error) {
	query := `
		SELECT id, name, slug, created_at, updated_at, deleted_at
		FROM teams WHERE deleted_at IS NULL
		ORDER BY name ASC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var teams []*models.Team
	for rows.Next() {
		team := &models.Team{}
		err := rows.Scan(
			&team.ID,
			&team.Name,
			&team.Slug,
			&team.CreatedAt,
			&team.UpdatedAt,
			&team.DeletedAt,
		)
		if err != nil {
			return nil, err
		}
		teams = append(teams, team)
	}

	return teams, rows.Err()
}

// Delete soft-deletes a team
func (r *TeamRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	query := `UPDATE teams SET deleted_at = ?, updated_at = ? WHERE id = ?`

	now := time.Now()
	_, err := r.db.Exec(query, now, now, id)
	return err
}
