package repositories

import (
	"database/sql"
	"sync"
	"time"

	"github.com/teampulse/teampulse/internal/models"
)

// JobRepository handles database operations for jobs
type JobRepository struct {
	db *sql.DB
	mu sync.RWMutex
}

func NewJobRepository(db *sql.DB) *JobRepository {
	return &JobRepository{db: db}
}

// Create creates a new job
func (r *JobRepository) Create(job *models.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	query := `
		INSERT INTO jobs (id, team_id, team_repository_id, job_type, status, error_message, started_at, completed_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		job.ID,
		job.TeamID,
		job.TeamRepositoryID,
		job.JobType,
		job.Status,
		job.ErrorMessage,
		job.StartedAt,
		job.CompletedAt,
		job.CreatedAt,
		job.UpdatedAt,
	)
	return err
}

// GetByID retrieves a job by ID
func (r *JobRepository) GetByID(id string) (*models.Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	query := `
		SELECT id, team_id, team_repository_id, job_type, status, error_message, started_at, completed_at, created_at, updated_at
		FROM jobs WHERE id = ?
	`

	job := &models.Job{}
	err := r.db.QueryRow(query, id).Scan(
		&job.ID,
		&job.TeamID,
		&job.TeamRepositoryID,
		&job.JobType,
		&job.Status,
		&job.ErrorMessage,
		&job.StartedAt,
		&job.CompletedAt,
		&job.CreatedAt,
		&job.UpdatedAt,
	)

	if err != nil {
		return nil, err
	}

	return job, nil
}

// GetByTeamID retrieves all jobs for a team, newest first
func (r *JobRepository) GetByTeamID(teamID string) ([]*models.Job, error) {
	query := `
		SELECT id, team_id, team_repository_id, job_type, status, error_message, started_at, completed_at, created_at, updated_at
		FROM jobs WHERE team_id = ?
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(query, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []*models.Job
	for rows.Next() {
		job := &models.Job{}
		err := rows.Scan(
			&job.ID,
			&job.TeamID,
			&job.TeamRepositoryID,
			&job.JobType,
			&job.Status,
			&job.ErrorMessage,
			&job.StartedAt,
			&job.CompletedAt,
			&job.CreatedAt,
			&job.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}

	return jobs, rows.Err()
}

// GetNextPendingJob retrieves the oldest runnable pending job of the given
// type and marks it in-progress atomically.
//
// A stats job is runnable only once its team has no sync jobs pending or
// in progress: the rebuild must see the whole pull, and with several sync
// workers the jobs of one run complete in any order. A failed sync job is
// neither pending nor in progress, so it never strands the stats job; the
// rebuild trues up whatever history did land.
func (r *JobRepository) GetNextPendingJob(jobType models.JobType) (*models.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	query := `
		SELECT id, team_id, team_repository_id, job_type, status, error_message, started_at, completed_at, created_at, updated_at
		FROM jobs
		WHERE status = ? AND job_type = ?
		ORDER BY created_at ASC
		LIMIT 1
	`
	args := []interface{}{models.JobStatusPending, jobType}

	if jobType == models.JobTypeStats {
		query = `
			SELECT j.id, j.team_id, j.team_repository_id, j.job_type, j.status, j.error_message,
			       j.started_at, j.completed_at, j.created_at, j.updated_at
			FROM jobs j
			WHERE j.status = ? AND j.job_type = ?
			AND NOT EXISTS (
				SELECT 1 FROM jobs s
				WHERE s.team_id = j.team_id AND s.job_type = ? AND s.status IN (?, ?)
			)
			ORDER BY j.created_at ASC
			LIMIT 1
		`
		args = []interface{}{
			models.JobStatusPending, jobType,
			models.JobTypeSync, models.JobStatusPending, models.JobStatusInProgress,
		}
	}

	job := &models.Job{}
	err = tx.QueryRow(query, args...).Scan(
		&job.ID,
		&job.TeamID,
		&job.TeamRepositoryID,
		&job.JobType,
		&job.Status,
		&job.ErrorMessage,
		&job.StartedAt,
		&job.CompletedAt,
		&job.CreatedAt,
		&job.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	now := time.Now()
	_, err = tx.Exec(`UPDATE jobs SET status = ?, started_at = ?, updated_at = ? WHERE id = ?`,
		models.JobStatusInProgress, now, now, job.ID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	job.Status = models.JobStatusInProgress
	job.StartedAt = &now
	job.UpdatedAt = now

	return job, nil
}

// Update updates a job's status fields
func (r *JobRepository) Update(job *models.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	job.UpdatedAt = time.Now()

	query := `
		UPDATE jobs
		SET status = ?, error_message = ?, started_at = ?, completed_at = ?, updated_at = ?
		WHERE id = ?
	`

	_, err := r.db.Exec(query,
		job.Status,
		job.ErrorMessage,
		job.StartedAt,
		job.CompletedAt,
		job.UpdatedAt,
		job.ID,
	)
	return err
}
