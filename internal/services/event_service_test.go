package services

import (
	"testing"
	"time"

	"github.com/google/go-github/v57/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teampulse/teampulse/internal/models"
)

func TestNormalizeCommit(t *testing.T) {
	service := NewEventService()
	commitDate := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	t.Run("Full commit", func(t *testing.T) {
		commit := &github.RepositoryCommit{
			Author: &github.User{
				ID:    github.Int64(42),
				Login: github.String("alice"),
			},
			Commit: &github.Commit{
				Author: &github.CommitAuthor{
					Date: &github.Timestamp{Time: commitDate},
				},
			},
			Stats: &github.CommitStats{
				Additions: github.Int(100),
				Deletions: github.Int(10),
			},
		}

		event, ok := service.NormalizeCommit(7, "repo-A", commit)

		require.True(t, ok)
		assert.Equal(t, models.EventKindCommit, event.Kind)
		assert.Equal(t, "7", event.RepositoryID)
		assert.Equal(t, "repo-A", event.RepositoryName)
		assert.Equal(t, "42", event.ContributorID)
		assert.Equal(t, "alice", event.ContributorLogin)
		assert.Equal(t, 100, event.LinesAdded)
		assert.Equal(t, 10, event.LinesRemoved)
		assert.Equal(t, commitDate, event.OccurredAt)
	})

	t.Run("Missing author is skipped", func(t *testing.T) {
		commit := &github.RepositoryCommit{
			Commit: &github.Commit{},
		}

		event, ok := service.NormalizeCommit(7, "repo-A", commit)

		assert.False(t, ok)
		assert.Nil(t, event)
	})

	t.Run("Missing author ID is skipped", func(t *testing.T) {
		commit := &github.RepositoryCommit{
			Author: &github.User{Login: github.String("ghost")},
		}

		_, ok := service.NormalizeCommit(7, "repo-A", commit)

		assert.False(t, ok)
	})

	t.Run("Missing stats default to zero", func(t *testing.T) {
		commit := &github.RepositoryCommit{
			Author: &github.User{ID: github.Int64(42), Login: github.String("alice")},
		}

		event, ok := service.NormalizeCommit(7, "repo-A", commit)

		require.True(t, ok)
		assert.Equal(t, 0, event.LinesAdded)
		assert.Equal(t, 0, event.LinesRemoved)
	})
}

func TestNormalizePullRequest(t *testing.T) {
	service := NewEventService()
	createdAt := time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)
	mergedAt := time.Date(2025, 7, 1, 16, 0, 0, 0, time.UTC)

	t.Run("Merged pull request", func(t *testing.T) {
		pr := &github.PullRequest{
			User:      &github.User{ID: github.Int64(99), Login: github.String("bob")},
			Additions: github.Int(50),
			Deletions: github.Int(5),
			CreatedAt: &github.Timestamp{Time: createdAt},
			MergedAt:  &github.Timestamp{Time: mergedAt},
		}

		event, ok := service.NormalizePullRequest(7, "repo-B", pr)

		require.True(t, ok)
		assert.Equal(t, models.EventKindPullRequest, event.Kind)
		assert.True(t, event.Merged)
		assert.Equal(t, 50, event.LinesAdded)
		assert.Equal(t, 5, event.LinesRemoved)
		// Merged PRs bucket into the merge month
		assert.Equal(t, mergedAt, event.OccurredAt)
	})

	t.Run("Open pull request buckets into creation month", func(t *testing.T) {
		pr := &github.PullRequest{
			User:      &github.User{ID: github.Int64(99), Login: github.String("bob")},
			CreatedAt: &github.Timestamp{Time: createdAt},
		}

		event, ok := service.NormalizePullRequest(7, "repo-B", pr)

		require.True(t, ok)
		assert.False(t, event.Merged)
		assert.Equal(t, createdAt, event.OccurredAt)
	})

	t.Run("Missing user is skipped", func(t *testing.T) {
		pr := &github.PullRequest{
			CreatedAt: &github.Timestamp{Time: createdAt},
		}

		event, ok := service.NormalizePullRequest(7, "repo-B", pr)

		assert.False(t, ok)
		assert.Nil(t, event)
	})
}

func TestFromRows(t *testing.T) {
	service := NewEventService()

	t.Run("Commit row", func(t *testing.T) {
		commit := models.NewCommit("team-1", 7, "abc123", "fix", time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC))
		commit.SetAuthor("42", "alice")
		commit.SetStats(10, 2)

		event := service.FromCommitRow(commit, "repo-A")

		assert.Equal(t, models.EventKindCommit, event.Kind)
		assert.Equal(t, "7", event.RepositoryID)
		assert.Equal(t, "42", event.ContributorID)
		assert.Equal(t, 10, event.LinesAdded)
		assert.Equal(t, 2, event.LinesRemoved)
	})

	t.Run("Merged pull request row", func(t *testing.T) {
		pr := models.NewPullRequest("team-1", 7, 1001, 12, "feature")
		pr.ContributorID = "99"
		pr.ContributorLogin = "bob"
		pr.GithubCreatedAt = time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
		mergedAt := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
		pr.MergedAt = &mergedAt

		event := service.FromPullRequestRow(pr, "repo-A")

		assert.True(t, event.Merged)
		assert.Equal(t, mergedAt, event.OccurredAt)
	})
}
