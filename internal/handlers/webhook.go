package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/go-github/v57/github"
	"github.com/sirupsen/logrus"
	"github.com/teampulse/teampulse/internal/models"
	"github.com/teampulse/teampulse/internal/services"
	"github.com/teampulse/teampulse/pkg/config"
	"github.com/teampulse/teampulse/pkg/logger"
)

// WebhookHandler ingests GitHub push and pull request deliveries. Each
// delivery is verified (HMAC-SHA256 over the raw body), normalized, and
// folded into the affected monthly records through the same ApplyEvents
// path the bulk sync uses.
type WebhookHandler struct {
	teamService         *services.TeamService
	eventService        *services.EventService
	githubService       *services.GitHubService
	monthlyStatsService *services.MonthlyStatsService
	aggregationService  *services.AggregationService
	commitRepo          CommitWriter
	pullRequestRepo     PullRequestWriter
}

// CommitWriter persists audit commit rows
type CommitWriter interface {
	Upsert(commit *models.Commit) error
}

// PullRequestWriter persists audit pull request rows
type PullRequestWriter interface {
	Upsert(pr *models.PullRequest) error
}

func NewWebhookHandler(
	teamService *services.TeamService,
	eventService *services.EventService,
	githubService *services.GitHubService,
	monthlyStatsService *services.MonthlyStatsService,
	aggregationService *services.AggregationService,
	commitRepo CommitWriter,
	pullRequestRepo PullRequestWriter,
) *WebhookHandler {
	return &WebhookHandler{
		teamService:         teamService,
		eventService:        eventService,
		githubService:       githubService,
		monthlyStatsService: monthlyStatsService,
		aggregationService:  aggregationService,
		commitRepo:          commitRepo,
		pullRequestRepo:     pullRequestRepo,
	}
}

// HandleGitHub handles POST /webhooks/github
func (h *WebhookHandler) HandleGitHub(c *gin.Context) {
	payload, err := github.ValidatePayload(c.Request, []byte(config.AppConfig.GitHub.WebhookSecret))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
		return
	}

	event, err := github.ParseWebHook(github.WebHookType(c.Request), payload)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unparseable payload"})
		return
	}

	switch e := event.(type) {
	case *github.PushEvent:
		h.handlePush(c.Request.Context(), e)
	case *github.PullRequestEvent:
		h.handlePullRequest(c.Request.Context(), e)
	default:
		// Event types we don't aggregate are acknowledged and dropped
	}

	c.JSON(http.StatusAccepted, gin.H{"status": "accepted"})
}

// handlePush folds the pushed commits into the affected monthly records.
// The push payload has no line stats, so each commit takes a detail fetch.
func (h *WebhookHandler) handlePush(ctx context.Context, push *github.PushEvent) {
	githubRepoID := push.GetRepo().GetID()
	team, teamRepo, err := h.teamService.GetTeamByRepositoryGithubID(githubRepoID)
	if err != nil {
		logger.WithField("github_repo_id", githubRepoID).Warnf("Push for untracked repository dropped")
		return
	}

	var events []*models.ContributionEvent
	for _, pushed := range push.Commits {
		commit, err := h.githubService.GetCommit(ctx, teamRepo.Owner, teamRepo.Name, pushed.GetID())
		if err != nil {
			logger.WithError(err).WithField("sha", pushed.GetID()).Error("Failed to fetch pushed commit")
			continue
		}

		event, ok := h.eventService.NormalizeCommit(teamRepo.GithubRepoID, teamRepo.Name, commit)
		if !ok {
			continue
		}
		events = append(events, event)

		row := models.NewCommit(team.ID, teamRepo.GithubRepoID, commit.GetSHA(), commit.GetCommit().GetMessage(), event.OccurredAt)
		row.SetAuthor(event.ContributorID, event.ContributorLogin)
		row.SetStats(event.LinesAdded, event.LinesRemoved)
		if err := h.commitRepo.Upsert(row); err != nil {
			logger.WithError(err).Error("Failed to persist webhook commit")
		}
	}

	h.applyByMonth(team.ID, events)
}

// handlePullRequest folds a pull request into its monthly record once, when
// it closes. Counting on open would double the PR when the merge delivery
// arrives; the periodic stats rebuild trues everything up regardless.
func (h *WebhookHandler) handlePullRequest(ctx context.Context, prEvent *github.PullRequestEvent) {
	githubRepoID := prEvent.GetRepo().GetID()
	team, teamRepo, err := h.teamService.GetTeamByRepositoryGithubID(githubRepoID)
	if err != nil {
		logger.WithField("github_repo_id", githubRepoID).Warnf("Pull request for untracked repository dropped")
		return
	}

	pr := prEvent.GetPullRequest()
	event, ok := h.eventService.NormalizePullRequest(teamRepo.GithubRepoID, teamRepo.Name, pr)
	if !ok {
		return
	}

	row := models.NewPullRequest(team.ID, teamRepo.GithubRepoID, pr.GetID(), pr.GetNumber(), pr.GetTitle())
	row.State = pr.GetState()
	row.ContributorID = event.ContributorID
	row.ContributorLogin = event.ContributorLogin
	row.Additions = event.LinesAdded
	row.Deletions = event.LinesRemoved
	row.GithubCreatedAt = pr.GetCreatedAt().Time
	if pr.MergedAt != nil {
		mergedAt := pr.GetMergedAt().Time
		row.MergedAt = &mergedAt
	}
	if err := h.pullRequestRepo.Upsert(row); err != nil {
		logger.WithError(err).Error("Failed to persist webhook pull request")
	}

	if prEvent.GetAction() != "closed" {
		return
	}

	h.applyByMonth(team.ID, []*models.ContributionEvent{event})
}

// applyByMonth folds events into their monthly records, serializing the
// read-modify-write per (team, month) so concurrent deliveries cannot
// lose updates
func (h *WebhookHandler) applyByMonth(teamID string, events []*models.ContributionEvent) {
	for _, batch := range services.BucketByMonth(events) {
		monthStart := models.MonthStart(batch[0].OccurredAt)

		unlock := h.monthlyStatsService.LockMonth(teamID, monthStart)

		record, err := h.monthlyStatsService.GetOrCreate(teamID, monthStart)
		if err == nil {
			_, err = h.aggregationService.ApplyEvents(record, batch)
		}
		if err == nil {
			err = h.monthlyStatsService.Save(record)
		}

		unlock()

		if err != nil {
			logger.WithError(err).WithFields(logrus.Fields{
				"team_id": teamID,
				"month":   monthStart.Format("2006-01"),
			}).Error("Failed to apply webhook events")
		}
	}
}
