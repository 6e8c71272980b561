package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/teampulse/teampulse/internal/models"
)

// MonthlyStatsRepository handles database operations for monthly records.
// The stats blob is stored as JSON in a single column; the row is keyed
// UNIQUE(team_id, month_start).
type MonthlyStatsRepository struct {
	db *sql.DB
	mu sync.RWMutex
}

func NewMonthlyStatsRepository(db *sql.DB) *MonthlyStatsRepository {
	return &MonthlyStatsRepository{db: db}
}

// GetByTeamAndMonth retrieves the record for a team and month.
// Returns (nil, nil) when no record exists.
func (r *MonthlyStatsRepository) GetByTeamAndMonth(teamID string, monthStart time.Time) (*models.MonthlyRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	query := `
		SELECT id, team_id, month_start, stats, created_at, updated_at
		FROM monthly_stats WHERE team_id = ? AND month_start = ?
	`

	record := &models.MonthlyRecord{}
	var statsJSON []byte
	err := r.db.QueryRow(query, teamID, models.MonthStart(monthStart)).Scan(
		&record.ID,
		&record.TeamID,
		&record.MonthStart,
		&statsJSON,
		&record.CreatedAt,
		&record.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(statsJSON, &record.Stats); err != nil {
		return nil, fmt.Errorf("failed to unmarshal stats for record %s: %w", record.ID, err)
	}

	return record, nil
}

// Upsert inserts or replaces the record keyed by (team_id, month_start)
func (r *MonthlyStatsRepository) Upsert(record *models.MonthlyRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	statsJSON, err := json.Marshal(record.Stats)
	if err != nil {
		return fmt.Errorf("failed to marshal stats for record %s: %w", record.ID, err)
	}

	record.UpdatedAt = time.Now()

	query := `
		INSERT INTO monthly_stats (id, team_id, month_start, stats, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(team_id, month_start) DO UPDATE SET
			stats = excluded.stats,
			updated_at = excluded.updated_at
	`

	_, err = r.db.Exec(query,
		record.ID,
		record.TeamID,
		record.MonthStart,
		statsJSON,
		record.CreatedAt,
		record.UpdatedAt,
	)
	return err
}

// ListMonthsByTeam returns the month starts that have a record for a team,
// newest first
func (r *MonthlyStatsRepository) ListMonthsByTeam(teamID string) ([]time.Time, error) {
	query := `
		SELECT month_start FROM monthly_stats
		WHERE team_id = ?
		ORDER BY month_start DESC
	`

	rows, err := r.db.Query(query, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var months []time.Time
	for rows.Next() {
		var month time.Time
		if err := rows.Scan(&month); err != nil {
			return nil, err
		}
		months = append(months, month)
	}

	return months, rows.Err()
}
