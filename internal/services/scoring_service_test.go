package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/teampulse/teampulse/internal/models"
)

func TestScore(t *testing.T) {
	service := NewScoringService()

	t.Run("Empty contributor set", func(t *testing.T) {
		scores := service.Score(map[string]*models.ContributorStats{})

		assert.Empty(t, scores)
		assert.Equal(t, 0, service.Average(scores))
	})

	t.Run("Single contributor with activity scores 100", func(t *testing.T) {
		scores := service.Score(map[string]*models.ContributorStats{
			"1": {Login: "alice", Commits: 3, LinesAdded: 100, LinesRemoved: 20, MergedPullRequests: 1, Tabs: 4, PremiumRequests: 2},
		})

		assert.Equal(t, 100, scores["1"])
	})

	t.Run("All-zero contributors score 0, not NaN", func(t *testing.T) {
		scores := service.Score(map[string]*models.ContributorStats{
			"1": {Login: "alice"},
			"2": {Login: "bob"},
		})

		assert.Equal(t, 0, scores["1"])
		assert.Equal(t, 0, scores["2"])
		assert.Equal(t, 0, service.Average(scores))
	})

	t.Run("Weighted normalization against per-metric max", func(t *testing.T) {
		scores := service.Score(map[string]*models.ContributorStats{
			"1": {Login: "alice", Commits: 10, LinesAdded: 1000, MergedPullRequests: 5, Tabs: 10, PremiumRequests: 10},
			"2": {Login: "bob", Commits: 5, LinesAdded: 500, MergedPullRequests: 0, Tabs: 0, PremiumRequests: 5},
		})

		// alice leads every metric
		assert.Equal(t, 100, scores["1"])
		// bob: 0.50*0.5 + 0.10*0 + 0.10*0.5 + 0.10*0 + 0.20*0.5 = 0.40
		assert.Equal(t, 40, scores["2"])
	})

	t.Run("Rounding is half away from zero", func(t *testing.T) {
		// bob has half of alice's lines and nothing else:
		// 0.50 * (1/2) * 100 = 25 exactly; use commits to force a .5 case
		scores := service.Score(map[string]*models.ContributorStats{
			"1": {Login: "alice", Commits: 20},
			"2": {Login: "bob", Commits: 13},
		})

		// bob: 0.10 * 13/20 * 100 = 6.5 -> rounds to 7
		assert.Equal(t, 7, scores["2"])
	})
}

func TestScoreBounds(t *testing.T) {
	service := NewScoringService()

	contributors := map[string]*models.ContributorStats{
		"1": {Login: "alice", Commits: 17, LinesAdded: 941, LinesRemoved: 33, MergedPullRequests: 4, Tabs: 9, PremiumRequests: 3},
		"2": {Login: "bob", Commits: 2, LinesAdded: 10, MergedPullRequests: 1, PremiumRequests: 11},
		"3": {Login: "carol", LinesRemoved: 5000, Tabs: 40},
		"4": {Login: "dave"},
	}

	scores := service.Score(contributors)

	assert.Len(t, scores, len(contributors))
	for id, score := range scores {
		assert.GreaterOrEqual(t, score, 0, "score for %s should be >= 0", id)
		assert.LessOrEqual(t, score, 100, "score for %s should be <= 100", id)
	}
}

func TestScoreMonotonicity(t *testing.T) {
	service := NewScoringService()

	base := map[string]*models.ContributorStats{
		"1": {Login: "alice", Commits: 5, LinesAdded: 200, MergedPullRequests: 2},
		"2": {Login: "bob", Commits: 8, LinesAdded: 400, MergedPullRequests: 1},
	}

	before := service.Score(base)["1"]

	// Bump alice's lines, everything else fixed
	base["1"].LinesAdded += 300
	after := service.Score(base)["1"]

	assert.GreaterOrEqual(t, after, before)
}

func TestAverage(t *testing.T) {
	service := NewScoringService()

	testCases := []struct {
		name     string
		scores   map[string]int
		expected int
	}{
		{
			name:     "Empty set averages to zero",
			scores:   map[string]int{},
			expected: 0,
		},
		{
			name:     "Single score",
			scores:   map[string]int{"1": 100},
			expected: 100,
		},
		{
			name:     "Rounded mean",
			scores:   map[string]int{"1": 100, "2": 40, "3": 11},
			expected: 50, // 151/3 = 50.33 -> 50
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, service.Average(tc.scores))
		})
	}
}
