package repositories

import (
	"database/sql"
	"sync"
	"time"

	"github.com/teampulse/teampulse/internal/models"
)

// LeadRepository handles database operations for CRM leads
type LeadRepository struct {
	db *sql.DB
	mu sync.RWMutex
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{db: db}
}

// Create creates a new lead
func (r *LeadRepository) Create(lead *models.Lead) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	query := `
		INSERT INTO leads (id, name, email, phone, source, status, attempts, last_error, synced_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		lead.ID,
		lead.Name,
		lead.Email,
		lead.Phone,
		lead.Source,
		lead.Status,
		lead.Attempts,
		lead.LastError,
		lead.SyncedAt,
		lead.CreatedAt,
		lead.UpdatedAt,
	)
	return err
}

// GetPending retrieves leads waiting for CRM delivery, oldest first,
// capped at limit
func (r *LeadRepository) GetPending(limit int) ([]*models.Lead, error) {
	query := `
		SELECT id, name, email, phone, source, status, attempts, last_error, synced_at, created_at, updated_at
		FROM leads WHERE status != ?
		ORDER BY created_at ASC
		LIMIT ?
	`

	rows, err := r.db.Query(query, models.LeadStatusSynced, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leads []*models.Lead
	for rows.Next() {
		lead := &models.Lead{}
		err := rows.Scan(
			&lead.ID,
			&lead.Name,
			&lead.Email,
			&lead.Phone,
			&lead.Source,
			&lead.Status,
			&lead.Attempts,
			&lead.LastError,
			&lead.SyncedAt,
			&lead.CreatedAt,
			&lead.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}

	return leads, rows.Err()
}

// Update updates a lead's sync state
func (r *LeadRepository) Update(lead *models.Lead) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	lead.UpdatedAt = time.Now()

	query := `
		UPDATE leads
		SET status = ?, attempts = ?, last_error = ?, synced_at = ?, updated_at = ?
		WHERE id = ?
	`

	_, err := r.db.Exec(query,
		lead.Status,
		lead.Attempts,
		lead.LastError,
		lead.SyncedAt,
		lead.UpdatedAt,
		lead.ID,
	)
	return err
}
