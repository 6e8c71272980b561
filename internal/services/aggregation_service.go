package services

import (
	"fmt"

	"github.com/teampulse/teampulse/internal/models"
)

// AggregationService folds normalized contribution events into a team's
// monthly record. It is a synchronous in-memory fold; fetching events and
// persisting the record belong to the callers.
type AggregationService struct {
	scoringService *ScoringService
}

func NewAggregationService(scoringService *ScoringService) *AggregationService {
	return &AggregationService{
		scoringService: scoringService,
	}
}

// ApplyEvents folds a batch of events into the record, recomputes the
// active-contributor counts and every contribution score, and returns the
// same record. Events outside the record's month are the caller's
// responsibility to filter; use BucketByMonth before calling.
//
// An empty batch still recomputes scores and is idempotent. Contributor
// tabs and premium-request counters are never touched here; they default
// to 0 only when a contributor bucket is first created.
func (s *AggregationService) ApplyEvents(record *models.MonthlyRecord, events []*models.ContributionEvent) (*models.MonthlyRecord, error) {
	if err := record.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecordState, err)
	}

	stats := &record.Stats
	for _, event := range events {
		repo := stats.Repository(event.RepositoryID, event.RepositoryName)
		contributor := stats.Contributor(event.ContributorID, event.ContributorLogin)
		contributor.TouchRepository(event.RepositoryID)

		switch event.Kind {
		case models.EventKindCommit:
			repo.Commits++
			contributor.Commits++
			stats.Overall.TotalCommits++
		case models.EventKindPullRequest:
			repo.PullRequests++
			contributor.PullRequests++
			stats.Overall.TotalPullRequests++
			if event.Merged {
				repo.MergedPullRequests++
				contributor.MergedPullRequests++
				stats.Overall.MergedPullRequests++
			}
		}

		repo.LinesAdded += event.LinesAdded
		repo.LinesRemoved += event.LinesRemoved
		contributor.LinesAdded += event.LinesAdded
		contributor.LinesRemoved += event.LinesRemoved
		stats.Overall.LinesAdded += event.LinesAdded
		stats.Overall.LinesRemoved += event.LinesRemoved
	}

	s.recountActiveContributors(stats)

	scores := s.scoringService.Score(stats.Contributors)
	for id, contributor := range stats.Contributors {
		contributor.ContributionScore = scores[id]
	}
	stats.Overall.AverageContributionScore = s.scoringService.Average(scores)

	return record, nil
}

// SetContributorUsage writes the externally-fed usage counters for a
// contributor and rescores the record. The record is validated before any
// bucket is touched, so a corrupt stats blob fails fast instead of
// panicking on a nil map.
func (s *AggregationService) SetContributorUsage(record *models.MonthlyRecord, contributorID, login string, tabs, premiumRequests int) error {
	if err := record.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRecordState, err)
	}

	contributor := record.Stats.Contributor(contributorID, login)
	contributor.Tabs = tabs
	contributor.PremiumRequests = premiumRequests

	// Usage counters feed the score, so rescore with an empty batch
	_, err := s.ApplyEvents(record, nil)
	return err
}

// recountActiveContributors derives the overall and per-repository
// active-contributor counts from the contributor buckets
func (s *AggregationService) recountActiveContributors(stats *models.MonthlyStats) {
	stats.Overall.ActiveContributors = len(stats.Contributors)

	for repositoryID, repo := range stats.Repositories {
		count := 0
		for _, contributor := range stats.Contributors {
			if contributor.WorkedOn(repositoryID) {
				count++
			}
		}
		repo.ActiveContributors = count
	}
}

// BucketByMonth groups events by the first day of the month they occurred
// in (UTC). Callers use this to hand ApplyEvents only events belonging to
// the record's month.
func BucketByMonth(events []*models.ContributionEvent) map[string][]*models.ContributionEvent {
	buckets := make(map[string][]*models.ContributionEvent)
	for _, event := range events {
		key := models.MonthStart(event.OccurredAt).Format("2006-01-02")
		buckets[key] = append(buckets[key], event)
	}
	return buckets
}
