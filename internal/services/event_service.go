package services

import (
	"strconv"

	"github.com/google/go-github/v57/github"
	"github.com/teampulse/teampulse/internal/models"
)

// EventService normalizes raw GitHub payloads into contribution events.
// Normalization is pure; events that lack a usable author identity are
// skipped (ok=false), never surfaced as errors, so one bad event cannot
// poison a batch.
type EventService struct{}

func NewEventService() *EventService {
	return &EventService{}
}

// NormalizeCommit converts an API commit into a ContributionEvent.
// Commits without a resolvable GitHub author account (e.g. authored with an
// email unknown to GitHub) are skipped. Missing stats default to zero lines.
func (s *EventService) NormalizeCommit(githubRepoID int64, repoName string, commit *github.RepositoryCommit) (*models.ContributionEvent, bool) {
	if commit == nil || commit.Author == nil || commit.Author.ID == nil {
		return nil, false
	}

	event := &models.ContributionEvent{
		Kind:             models.EventKindCommit,
		RepositoryID:     strconv.FormatInt(githubRepoID, 10),
		RepositoryName:   repoName,
		ContributorID:    strconv.FormatInt(commit.Author.GetID(), 10),
		ContributorLogin: commit.Author.GetLogin(),
		OccurredAt:       commit.GetCommit().GetAuthor().GetDate().Time,
	}

	if stats := commit.GetStats(); stats != nil {
		event.LinesAdded = stats.GetAdditions()
		event.LinesRemoved = stats.GetDeletions()
	}

	return event, true
}

// NormalizePullRequest converts an API pull request into a ContributionEvent.
// Pull requests without a user are skipped. Merged PRs are bucketed into the
// month they were merged; open and closed-unmerged PRs into the month they
// were opened.
func (s *EventService) NormalizePullRequest(githubRepoID int64, repoName string, pr *github.PullRequest) (*models.ContributionEvent, bool) {
	if pr == nil || pr.User == nil || pr.User.ID == nil {
		return nil, false
	}

	merged := pr.GetMerged() || pr.MergedAt != nil

	occurredAt := pr.GetCreatedAt().Time
	if merged && pr.MergedAt != nil {
		occurredAt = pr.GetMergedAt().Time
	}

	return &models.ContributionEvent{
		Kind:             models.EventKindPullRequest,
		RepositoryID:     strconv.FormatInt(githubRepoID, 10),
		RepositoryName:   repoName,
		ContributorID:    strconv.FormatInt(pr.User.GetID(), 10),
		ContributorLogin: pr.User.GetLogin(),
		LinesAdded:       pr.GetAdditions(),
		LinesRemoved:     pr.GetDeletions(),
		OccurredAt:       occurredAt,
		Merged:           merged,
	}, true
}

// FromCommitRow converts a persisted audit commit back into an event,
// used by the stats worker when folding stored history
func (s *EventService) FromCommitRow(commit *models.Commit, repoName string) *models.ContributionEvent {
	return &models.ContributionEvent{
		Kind:             models.EventKindCommit,
		RepositoryID:     strconv.FormatInt(commit.GithubRepoID, 10),
		RepositoryName:   repoName,
		ContributorID:    commit.ContributorID,
		ContributorLogin: commit.ContributorLogin,
		LinesAdded:       commit.Additions,
		LinesRemoved:     commit.Deletions,
		OccurredAt:       commit.CommitDate,
	}
}

// FromPullRequestRow converts a persisted audit pull request back into an event
func (s *EventService) FromPullRequestRow(pr *models.PullRequest, repoName string) *models.ContributionEvent {
	occurredAt := pr.GithubCreatedAt
	if pr.MergedAt != nil {
		occurredAt = *pr.MergedAt
	}

	return &models.ContributionEvent{
		Kind:             models.EventKindPullRequest,
		RepositoryID:     strconv.FormatInt(pr.GithubRepoID, 10),
		RepositoryName:   repoName,
		ContributorID:    pr.ContributorID,
		ContributorLogin: pr.ContributorLogin,
		LinesAdded:       pr.Additions,
		LinesRemoved:     pr.Deletions,
		OccurredAt:       occurredAt,
		Merged:           pr.IsMerged(),
	}
}
