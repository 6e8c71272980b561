package services

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teampulse/teampulse/internal/models"
)

func newTestAggregationService() *AggregationService {
	return NewAggregationService(NewScoringService())
}

func commitEvent(repoID, contributorID, login string, added, removed int) *models.ContributionEvent {
	return &models.ContributionEvent{
		Kind:             models.EventKindCommit,
		RepositoryID:     repoID,
		RepositoryName:   repoID,
		ContributorID:    contributorID,
		ContributorLogin: login,
		LinesAdded:       added,
		LinesRemoved:     removed,
		OccurredAt:       time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC),
	}
}

func prEvent(repoID, contributorID, login string, added, removed int, merged bool) *models.ContributionEvent {
	return &models.ContributionEvent{
		Kind:             models.EventKindPullRequest,
		RepositoryID:     repoID,
		RepositoryName:   repoID,
		ContributorID:    contributorID,
		ContributorLogin: login,
		LinesAdded:       added,
		LinesRemoved:     removed,
		OccurredAt:       time.Date(2025, 6, 20, 9, 0, 0, 0, time.UTC),
		Merged:           merged,
	}
}

func TestApplyEventsCommits(t *testing.T) {
	service := newTestAggregationService()
	record := models.NewMonthlyRecord("team-1", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))

	_, err := service.ApplyEvents(record, []*models.ContributionEvent{
		commitEvent("repo-A", "alice", "alice", 100, 10),
		commitEvent("repo-A", "alice", "alice", 5, 2),
	})
	require.NoError(t, err)

	assert.Equal(t, 2, record.Stats.Repositories["repo-A"].Commits)
	assert.Equal(t, 105, record.Stats.Contributors["alice"].LinesAdded)
	assert.Equal(t, 12, record.Stats.Contributors["alice"].LinesRemoved)
	assert.Equal(t, 2, record.Stats.Overall.TotalCommits)
	assert.Equal(t, 105, record.Stats.Overall.LinesAdded)
	assert.Equal(t, 12, record.Stats.Overall.LinesRemoved)
	assert.Equal(t, 1, record.Stats.Overall.ActiveContributors)
	assert.Equal(t, []string{"repo-A"}, record.Stats.Contributors["alice"].ActiveRepositories)
}

func TestApplyEventsMergedPullRequest(t *testing.T) {
	service := newTestAggregationService()
	record := models.NewMonthlyRecord("team-1", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))

	_, err := service.ApplyEvents(record, []*models.ContributionEvent{
		prEvent("repo-B", "bob", "bob", 50, 5, true),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, record.Stats.Repositories["repo-B"].MergedPullRequests)
	assert.Equal(t, 1, record.Stats.Repositories["repo-B"].PullRequests)
	assert.Equal(t, 1, record.Stats.Contributors["bob"].MergedPullRequests)
	assert.Equal(t, 1, record.Stats.Overall.MergedPullRequests)
	assert.Equal(t, 1, record.Stats.Overall.TotalPullRequests)
	assert.Equal(t, 50, record.Stats.Overall.LinesAdded)
	assert.Equal(t, 1, record.Stats.Overall.ActiveContributors)
	assert.Equal(t, 1, record.Stats.Repositories["repo-B"].ActiveContributors)

	// Only contributor with activity scores 100
	assert.Equal(t, 100, record.Stats.Contributors["bob"].ContributionScore)
	assert.Equal(t, 100, record.Stats.Overall.AverageContributionScore)
}

func TestApplyEventsUnmergedPullRequest(t *testing.T) {
	service := newTestAggregationService()
	record := models.NewMonthlyRecord("team-1", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))

	_, err := service.ApplyEvents(record, []*models.ContributionEvent{
		prEvent("repo-B", "bob", "bob", 50, 5, false),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, record.Stats.Overall.TotalPullRequests)
	assert.Equal(t, 0, record.Stats.Overall.MergedPullRequests)
	assert.Equal(t, 0, record.Stats.Contributors["bob"].MergedPullRequests)
}

func TestApplyEventsEmptyBatchIsIdempotent(t *testing.T) {
	service := newTestAggregationService()
	record := models.NewMonthlyRecord("team-1", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))

	_, err := service.ApplyEvents(record, []*models.ContributionEvent{
		commitEvent("repo-A", "alice", "alice", 10, 1),
		prEvent("repo-A", "bob", "bob", 20, 2, true),
	})
	require.NoError(t, err)

	first, err := service.ApplyEvents(record, nil)
	require.NoError(t, err)
	firstJSON, err := json.Marshal(first.Stats)
	require.NoError(t, err)

	second, err := service.ApplyEvents(record, []*models.ContributionEvent{})
	require.NoError(t, err)
	secondJSON, err := json.Marshal(second.Stats)
	require.NoError(t, err)

	assert.Equal(t, string(firstJSON), string(secondJSON))
}

func TestApplyEventsPreservesStickyFields(t *testing.T) {
	service := newTestAggregationService()
	record := models.NewMonthlyRecord("team-1", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))

	// Usage feed wrote these before any commit activity arrived
	alice := record.Stats.Contributor("alice", "alice")
	alice.Tabs = 5
	alice.PremiumRequests = 3

	_, err := service.ApplyEvents(record, []*models.ContributionEvent{
		commitEvent("repo-A", "alice", "alice", 100, 10),
		prEvent("repo-A", "alice", "alice", 20, 2, true),
	})
	require.NoError(t, err)

	assert.Equal(t, 5, record.Stats.Contributors["alice"].Tabs)
	assert.Equal(t, 3, record.Stats.Contributors["alice"].PremiumRequests)
}

func TestApplyEventsNewContributorDefaultsUsageToZero(t *testing.T) {
	service := newTestAggregationService()
	record := models.NewMonthlyRecord("team-1", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))

	_, err := service.ApplyEvents(record, []*models.ContributionEvent{
		commitEvent("repo-A", "carol", "carol", 1, 0),
	})
	require.NoError(t, err)

	assert.Equal(t, 0, record.Stats.Contributors["carol"].Tabs)
	assert.Equal(t, 0, record.Stats.Contributors["carol"].PremiumRequests)
}

func TestApplyEventsSumInvariant(t *testing.T) {
	service := newTestAggregationService()
	record := models.NewMonthlyRecord("team-1", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))

	_, err := service.ApplyEvents(record, []*models.ContributionEvent{
		commitEvent("repo-A", "alice", "alice", 100, 10),
		commitEvent("repo-B", "alice", "alice", 30, 3),
		commitEvent("repo-B", "bob", "bob", 7, 1),
		prEvent("repo-A", "bob", "bob", 50, 5, true),
		prEvent("repo-C", "carol", "carol", 9, 0, false),
	})
	require.NoError(t, err)

	var commits, prs, merged, added, removed int
	for _, repo := range record.Stats.Repositories {
		commits += repo.Commits
		prs += repo.PullRequests
		merged += repo.MergedPullRequests
		added += repo.LinesAdded
		removed += repo.LinesRemoved
	}

	assert.Equal(t, record.Stats.Overall.TotalCommits, commits)
	assert.Equal(t, record.Stats.Overall.TotalPullRequests, prs)
	assert.Equal(t, record.Stats.Overall.MergedPullRequests, merged)
	assert.Equal(t, record.Stats.Overall.LinesAdded, added)
	assert.Equal(t, record.Stats.Overall.LinesRemoved, removed)
	assert.Equal(t, record.Stats.Overall.ActiveContributors, len(record.Stats.Contributors))
}

func TestApplyEventsActiveRepositoriesGrowOnly(t *testing.T) {
	service := newTestAggregationService()
	record := models.NewMonthlyRecord("team-1", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))

	_, err := service.ApplyEvents(record, []*models.ContributionEvent{
		commitEvent("repo-A", "alice", "alice", 1, 0),
		commitEvent("repo-B", "alice", "alice", 1, 0),
		commitEvent("repo-A", "alice", "alice", 1, 0),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"repo-A", "repo-B"}, record.Stats.Contributors["alice"].ActiveRepositories)
	assert.Equal(t, 1, record.Stats.Repositories["repo-A"].ActiveContributors)
	assert.Equal(t, 1, record.Stats.Repositories["repo-B"].ActiveContributors)
}

func TestApplyEventsRejectsInvalidRecord(t *testing.T) {
	service := newTestAggregationService()

	record := models.NewMonthlyRecord("team-1", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	record.Stats.Contributors = nil // simulates a corrupt stats blob

	_, err := service.ApplyEvents(record, nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidRecordState)
}

func TestBucketByMonth(t *testing.T) {
	june := commitEvent("repo-A", "alice", "alice", 1, 0)
	july := commitEvent("repo-A", "alice", "alice", 1, 0)
	july.OccurredAt = time.Date(2025, 7, 2, 0, 0, 0, 0, time.UTC)

	buckets := BucketByMonth([]*models.ContributionEvent{june, july})

	assert.Len(t, buckets, 2)
	assert.Len(t, buckets["2025-06-01"], 1)
	assert.Len(t, buckets["2025-07-01"], 1)
}

func TestSetContributorUsage(t *testing.T) {
	t.Run("Sets counters and rescores", func(t *testing.T) {
		service := newTestAggregationService()
		record := models.NewMonthlyRecord("team-1", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))

		err := service.SetContributorUsage(record, "42", "alice", 120, 30)

		require.NoError(t, err)
		contributor := record.Stats.Contributors["42"]
		require.NotNil(t, contributor)
		assert.Equal(t, "alice", contributor.Login)
		assert.Equal(t, 120, contributor.Tabs)
		assert.Equal(t, 30, contributor.PremiumRequests)
		// Holds the tabs and premium-request maxima; every other
		// metric max is 0, so score = (0.10 + 0.20) * 100
		assert.Equal(t, 30, contributor.ContributionScore)
	})

	t.Run("Corrupt stats blob fails fast without panicking", func(t *testing.T) {
		service := newTestAggregationService()
		record := models.NewMonthlyRecord("team-1", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
		// A null stats column unmarshals to nil maps
		require.NoError(t, json.Unmarshal([]byte("null"), &record.Stats))

		err := service.SetContributorUsage(record, "42", "alice", 120, 30)

		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidRecordState)
	})
}
