package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMonthStart(t *testing.T) {
	tests := []struct {
		name     string
		input    time.Time
		expected time.Time
	}{
		{
			name:     "mid-month timestamp",
			input:    time.Date(2024, 3, 17, 14, 22, 5, 0, time.UTC),
			expected: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "already first of month",
			input:    time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
			expected: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "non-UTC timestamp normalizes to UTC month",
			input:    time.Date(2024, 2, 1, 3, 0, 0, 0, time.FixedZone("UTC+5", 5*3600)),
			expected: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MonthStart(tt.input))
		})
	}
}

func TestNewMonthlyRecord(t *testing.T) {
	record := NewMonthlyRecord("team-1", time.Date(2024, 5, 20, 9, 0, 0, 0, time.UTC))

	assert.NotEmpty(t, record.ID)
	assert.Equal(t, "team-1", record.TeamID)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), record.MonthStart)
	assert.NotNil(t, record.Stats.Repositories)
	assert.NotNil(t, record.Stats.Contributors)
	assert.Empty(t, record.Stats.Repositories)
	assert.Empty(t, record.Stats.Contributors)
	assert.Equal(t, 0, record.Stats.Overall.TotalCommits)
}

func TestMonthlyRecordValidate(t *testing.T) {
	t.Run("valid record", func(t *testing.T) {
		record := NewMonthlyRecord("team-1", time.Now())
		assert.NoError(t, record.Validate())
	})

	t.Run("missing team ID", func(t *testing.T) {
		record := NewMonthlyRecord("", time.Now())
		assert.Error(t, record.Validate())
	})

	t.Run("nil contributors map", func(t *testing.T) {
		record := NewMonthlyRecord("team-1", time.Now())
		record.Stats.Contributors = nil
		assert.Error(t, record.Validate())
	})

	t.Run("nil repositories map", func(t *testing.T) {
		record := NewMonthlyRecord("team-1", time.Now())
		record.Stats.Repositories = nil
		assert.Error(t, record.Validate())
	})
}

func TestContributorBucketPreservesUsage(t *testing.T) {
	stats := MonthlyStats{
		Repositories: make(map[string]*RepositoryStats),
		Contributors: make(map[string]*ContributorStats),
	}

	first := stats.Contributor("42", "alice")
	first.Tabs = 120
	first.PremiumRequests = 30

	again := stats.Contributor("42", "alice")
	assert.Same(t, first, again)
	assert.Equal(t, 120, again.Tabs)
	assert.Equal(t, 30, again.PremiumRequests)
}

func TestTouchRepository(t *testing.T) {
	c := &ContributorStats{ActiveRepositories: []string{}}

	c.TouchRepository("repo-1")
	c.TouchRepository("repo-2")
	c.TouchRepository("repo-1")

	assert.Equal(t, []string{"repo-1", "repo-2"}, c.ActiveRepositories)
	assert.True(t, c.WorkedOn("repo-2"))
	assert.False(t, c.WorkedOn("repo-3"))
}
