package services

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

// GitHubService wraps the GitHub API client with rate limiting. All fetches
// go through the limiter so bulk syncs stay inside the API quota.
type GitHubService struct {
	client  *github.Client
	limiter *rate.Limiter
}

// NewGitHubService creates a GitHub client authenticated with the given
// token. requestsPerSecond caps the API call rate.
func NewGitHubService(token string, requestsPerSecond int) *GitHubService {
	var httpClient *http.Client
	if token != "" {
		tokenSource := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(context.Background(), tokenSource)
	}

	return &GitHubService{
		client:  github.NewClient(httpClient),
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
	}
}

// GetRepository fetches repository metadata
func (s *GitHubService) GetRepository(ctx context.Context, owner, name string) (*github.Repository, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	repo, _, err := s.client.Repositories.Get(ctx, owner, name)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch repository %s/%s: %w", owner, name, err)
	}

	return repo, nil
}

// ListCommits fetches one page of commits since the given time.
// Returns the commits and the next page number (0 when done).
func (s *GitHubService) ListCommits(ctx context.Context, owner, name string, since time.Time, page int) ([]*github.RepositoryCommit, int, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, 0, fmt.Errorf("rate limiter: %w", err)
	}

	opts := &github.CommitsListOptions{
		Since: since,
		ListOptions: github.ListOptions{
			Page:    page,
			PerPage: 100,
		},
	}

	commits, resp, err := s.client.Repositories.ListCommits(ctx, owner, name, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list commits for %s/%s: %w", owner, name, err)
	}

	return commits, resp.NextPage, nil
}

// GetCommit fetches a single commit with its line stats.
// The list endpoint omits stats, so every commit needs a detail fetch.
func (s *GitHubService) GetCommit(ctx context.Context, owner, name, sha string) (*github.RepositoryCommit, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	commit, _, err := s.client.Repositories.GetCommit(ctx, owner, name, sha, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch commit %s: %w", sha, err)
	}

	return commit, nil
}

// ListPullRequests fetches one page of pull requests in all states.
// Returns the pull requests and the next page number (0 when done).
func (s *GitHubService) ListPullRequests(ctx context.Context, owner, name string, page int) ([]*github.PullRequest, int, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, 0, fmt.Errorf("rate limiter: %w", err)
	}

	opts := &github.PullRequestListOptions{
		State:     "all",
		Sort:      "created",
		Direction: "asc",
		ListOptions: github.ListOptions{
			Page:    page,
			PerPage: 100,
		},
	}

	prs, resp, err := s.client.PullRequests.List(ctx, owner, name, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list pull requests for %s/%s: %w", owner, name, err)
	}

	return prs, resp.NextPage, nil
}

// GetPullRequest fetches a single pull request with its line stats.
// The list endpoint omits additions/deletions, so PRs need a detail fetch.
func (s *GitHubService) GetPullRequest(ctx context.Context, owner, name string, number int) (*github.PullRequest, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	pr, _, err := s.client.PullRequests.Get(ctx, owner, name, number)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pull request #%d: %w", number, err)
	}

	return pr, nil
}
