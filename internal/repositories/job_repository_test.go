package repositories

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teampulse/teampulse/internal/models"
)

func newJobTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`
		CREATE TABLE jobs (
			id TEXT PRIMARY KEY,
			team_id TEXT NOT NULL,
			team_repository_id TEXT,
			job_type TEXT NOT NULL,
			status TEXT NOT NULL,
			error_message TEXT,
			started_at TIMESTAMP,
			completed_at TIMESTAMP,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)
	`)
	require.NoError(t, err)

	return db
}

func TestGetNextPendingJobMarksInProgress(t *testing.T) {
	repo := NewJobRepository(newJobTestDB(t))

	job := models.NewJob("team-1", models.JobTypeSync)
	require.NoError(t, repo.Create(job))

	claimed, err := repo.GetNextPendingJob(models.JobTypeSync)
	require.NoError(t, err)
	require.NotNil(t, claimed)
	assert.Equal(t, job.ID, claimed.ID)
	assert.Equal(t, models.JobStatusInProgress, claimed.Status)
	require.NotNil(t, claimed.StartedAt)

	// The claim is persisted, so a second dispatch finds nothing
	again, err := repo.GetNextPendingJob(models.JobTypeSync)
	require.NoError(t, err)
	assert.Nil(t, again)
}

func TestStatsJobWaitsForAllTeamSyncJobs(t *testing.T) {
	repo := NewJobRepository(newJobTestDB(t))

	syncA := models.NewJob("team-1", models.JobTypeSync)
	syncB := models.NewJob("team-1", models.JobTypeSync)
	stats := models.NewJob("team-1", models.JobTypeStats)
	require.NoError(t, repo.Create(syncA))
	require.NoError(t, repo.Create(syncB))
	require.NoError(t, repo.Create(stats))

	// Both sync jobs pending: stats is held back
	claimed, err := repo.GetNextPendingJob(models.JobTypeStats)
	require.NoError(t, err)
	assert.Nil(t, claimed)

	// One sync job done, the other still in progress: still held back
	running, err := repo.GetNextPendingJob(models.JobTypeSync)
	require.NoError(t, err)
	require.NotNil(t, running)

	done, err := repo.GetNextPendingJob(models.JobTypeSync)
	require.NoError(t, err)
	require.NotNil(t, done)
	done.MarkCompleted()
	require.NoError(t, repo.Update(done))

	claimed, err = repo.GetNextPendingJob(models.JobTypeStats)
	require.NoError(t, err)
	assert.Nil(t, claimed)

	// Last sync job done: stats is dispatched
	running.MarkCompleted()
	require.NoError(t, repo.Update(running))

	claimed, err = repo.GetNextPendingJob(models.JobTypeStats)
	require.NoError(t, err)
	require.NotNil(t, claimed)
	assert.Equal(t, stats.ID, claimed.ID)
}

func TestStatsJobNotStrandedByFailedSync(t *testing.T) {
	repo := NewJobRepository(newJobTestDB(t))

	syncJob := models.NewJob("team-1", models.JobTypeSync)
	stats := models.NewJob("team-1", models.JobTypeStats)
	require.NoError(t, repo.Create(syncJob))
	require.NoError(t, repo.Create(stats))

	claimed, err := repo.GetNextPendingJob(models.JobTypeSync)
	require.NoError(t, err)
	require.NotNil(t, claimed)
	claimed.SetError("boom")
	claimed.MarkFailed()
	require.NoError(t, repo.Update(claimed))

	// A failed sync run still releases the stats job
	dispatched, err := repo.GetNextPendingJob(models.JobTypeStats)
	require.NoError(t, err)
	require.NotNil(t, dispatched)
	assert.Equal(t, stats.ID, dispatched.ID)
}

func TestStatsJobIgnoresOtherTeamsSyncJobs(t *testing.T) {
	repo := NewJobRepository(newJobTestDB(t))

	otherSync := models.NewJob("team-2", models.JobTypeSync)
	stats := models.NewJob("team-1", models.JobTypeStats)
	require.NoError(t, repo.Create(otherSync))
	require.NoError(t, repo.Create(stats))

	dispatched, err := repo.GetNextPendingJob(models.JobTypeStats)
	require.NoError(t, err)
	require.NotNil(t, dispatched)
	assert.Equal(t, stats.ID, dispatched.ID)
}
