package services

import (
	"math"

	"github.com/teampulse/teampulse/internal/models"
)

// Metric weights for the contribution score. Fixed policy, not configurable.
const (
	weightLinesOfCode     = 0.50
	weightMergedPRs       = 0.10
	weightCommits         = 0.10
	weightTabs            = 0.10
	weightPremiumRequests = 0.20
)

// ScoringService computes normalized weighted contribution scores
type ScoringService struct{}

func NewScoringService() *ScoringService {
	return &ScoringService{}
}

// Score computes a 0-100 score per contributor. Each metric is normalized
// against the maximum value across the input set (0 when the max is 0),
// the normalized values are combined with the fixed weights, and the result
// is scaled to 100 and rounded half away from zero.
func (s *ScoringService) Score(contributors map[string]*models.ContributorStats) map[string]int {
	scores := make(map[string]int, len(contributors))
	if len(contributors) == 0 {
		return scores
	}

	var maxLines, maxMerged, maxCommits, maxTabs, maxPremium int
	for _, c := range contributors {
		if lines := c.LinesAdded + c.LinesRemoved; lines > maxLines {
			maxLines = lines
		}
		if c.MergedPullRequests > maxMerged {
			maxMerged = c.MergedPullRequests
		}
		if c.Commits > maxCommits {
			maxCommits = c.Commits
		}
		if c.Tabs > maxTabs {
			maxTabs = c.Tabs
		}
		if c.PremiumRequests > maxPremium {
			maxPremium = c.PremiumRequests
		}
	}

	for id, c := range contributors {
		weighted := weightLinesOfCode*normalize(c.LinesAdded+c.LinesRemoved, maxLines) +
			weightMergedPRs*normalize(c.MergedPullRequests, maxMerged) +
			weightCommits*normalize(c.Commits, maxCommits) +
			weightTabs*normalize(c.Tabs, maxTabs) +
			weightPremiumRequests*normalize(c.PremiumRequests, maxPremium)

		scores[id] = int(math.Round(weighted * 100))
	}

	return scores
}

// Average returns the mean of the given scores, rounded half away from zero.
// An empty score set averages to 0.
func (s *ScoringService) Average(scores map[string]int) int {
	if len(scores) == 0 {
		return 0
	}

	total := 0
	for _, score := range scores {
		total += score
	}

	return int(math.Round(float64(total) / float64(len(scores))))
}

// normalize maps value into [0,1] against max, with 0/0 defined as 0
func normalize(value, max int) float64 {
	if max == 0 {
		return 0
	}
	return float64(value) / float64(max)
}
