package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// OverallStats holds month-wide totals across all repositories and contributors
type OverallStats struct {
	TotalCommits             int `json:"total_commits"`
	TotalPullRequests        int `json:"total_pull_requests"`
	MergedPullRequests       int `json:"merged_pull_requests"`
	LinesAdded               int `json:"lines_added"`
	LinesRemoved             int `json:"lines_removed"`
	ActiveContributors       int `json:"active_contributors"`
	AverageContributionScore int `json:"average_contribution_score"`
}

// RepositoryStats holds per-repository running totals for a month
type RepositoryStats struct {
	Name               string `json:"name"`
	Commits            int    `json:"commits"`
	PullRequests       int    `json:"pull_requests"`
	MergedPullRequests int    `json:"merged_pull_requests"`
	LinesAdded         int    `json:"lines_added"`
	LinesRemoved       int    `json:"lines_removed"`
	ActiveContributors int    `json:"active_contributors"`
}

// ContributorStats holds per-contributor running totals for a month.
// Tabs and PremiumRequests come from an external usage feed; the
// aggregation path preserves them but never computes them.
type ContributorStats struct {
	Login              string   `json:"login"`
	Commits            int      `json:"commits"`
	PullRequests       int      `json:"pull_requests"`
	MergedPullRequests int      `json:"merged_pull_requests"`
	LinesAdded         int      `json:"lines_added"`
	LinesRemoved       int      `json:"lines_removed"`
	ActiveRepositories []string `json:"active_repositories"`
	Tabs               int      `json:"tabs"`
	PremiumRequests    int      `json:"premium_requests"`
	ContributionScore  int      `json:"contribution_score"`
}

// MonthlyStats is the aggregate blob stored on a MonthlyRecord.
// Repositories and Contributors are keyed by their stable external IDs.
type MonthlyStats struct {
	Overall      OverallStats                 `json:"overall"`
	Repositories map[string]*RepositoryStats  `json:"repositories"`
	Contributors map[string]*ContributorStats `json:"contributors"`
}

// MonthlyRecord represents the per-team, per-calendar-month aggregate snapshot
type MonthlyRecord struct {
	ID         string       `json:"id"`
	TeamID     string       `json:"team_id"`
	MonthStart time.Time    `json:"month_start"`
	Stats      MonthlyStats `json:"stats"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

// NewMonthlyRecord creates a zeroed MonthlyRecord with a generated UUID.
// monthStart is normalized to the first day of its month in UTC.
func NewMonthlyRecord(teamID string, monthStart time.Time) *MonthlyRecord {
	now := time.Now()
	return &MonthlyRecord{
		ID:         uuid.New().String(),
		TeamID:     teamID,
		MonthStart: MonthStart(monthStart),
		Stats: MonthlyStats{
			Repositories: make(map[string]*RepositoryStats),
			Contributors: make(map[string]*ContributorStats),
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// MonthStart normalizes a timestamp to the first day of its month, UTC
func MonthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// Validate validates the MonthlyRecord shape before aggregation touches it.
// A record with nil maps came from a corrupt stats blob; folding events into
// it would silently drop sticky usage fields, so callers must reject it.
func (r *MonthlyRecord) Validate() error {
	if r.TeamID == "" {
		return errors.New("team ID is required")
	}
	if r.MonthStart.IsZero() {
		return errors.New("month start is required")
	}
	if r.Stats.Repositories == nil {
		return errors.New("repositories map is missing")
	}
	if r.Stats.Contributors == nil {
		return errors.New("contributors map is missing")
	}
	return nil
}

// Repository returns the stats bucket for a repository, creating a zeroed
// bucket if none exists yet
func (s *MonthlyStats) Repository(repositoryID, name string) *RepositoryStats {
	if repo, ok := s.Repositories[repositoryID]; ok {
		if repo.Name == "" && name != "" {
			repo.Name = name
		}
		return repo
	}
	repo := &RepositoryStats{Name: name}
	s.Repositories[repositoryID] = repo
	return repo
}

// Contributor returns the stats bucket for a contributor, creating a zeroed
// bucket if none exists yet. Tabs and PremiumRequests start at 0 only here;
// existing buckets keep whatever the usage feed wrote.
func (s *MonthlyStats) Contributor(contributorID, login string) *ContributorStats {
	if contributor, ok := s.Contributors[contributorID]; ok {
		if login != "" {
			contributor.Login = login
		}
		return contributor
	}
	contributor := &ContributorStats{
		Login:              login,
		ActiveRepositories: []string{},
	}
	s.Contributors[contributorID] = contributor
	return contributor
}

// TouchRepository records repository activity for the contributor.
// The active set only ever grows within a month.
func (c *ContributorStats) TouchRepository(repositoryID string) {
	for _, id := range c.ActiveRepositories {
		if id == repositoryID {
			return
		}
	}
	c.ActiveRepositories = append(c.ActiveRepositories, repositoryID)
}

// WorkedOn checks whether the contributor touched the given repository this month
func (c *ContributorStats) WorkedOn(repositoryID string) bool {
	for _, id := range c.ActiveRepositories {
		if id == repositoryID {
			return true
		}
	}
	return false
}
