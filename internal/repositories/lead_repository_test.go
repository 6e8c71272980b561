package repositories

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teampulse/teampulse/internal/models"
)

func newLeadTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`
		CREATE TABLE leads (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL,
			phone TEXT,
			source TEXT,
			status TEXT NOT NULL,
			attempts INTEGER NOT NULL DEFAULT 0,
			last_error TEXT,
			synced_at TIMESTAMP,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)
	`)
	require.NoError(t, err)

	return db
}

func TestLeadLifecycle(t *testing.T) {
	repo := NewLeadRepository(newLeadTestDB(t))

	lead := models.NewLead("Ada", "ada@example.com", "+1555", "booking")
	require.NoError(t, repo.Create(lead))

	pending, err := repo.GetPending(10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, lead.ID, pending[0].ID)
	assert.Equal(t, models.LeadStatusPending, pending[0].Status)

	// A failed delivery keeps the lead retryable and counts the attempt
	pending[0].MarkFailed("CRM returned status 500")
	require.NoError(t, repo.Update(pending[0]))

	pending, err = repo.GetPending(10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, 1, pending[0].Attempts)
	require.NotNil(t, pending[0].LastError)

	// A synced lead leaves the queue
	pending[0].MarkSynced()
	require.NoError(t, repo.Update(pending[0]))

	pending, err = repo.GetPending(10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}
