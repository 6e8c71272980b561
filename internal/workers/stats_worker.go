package workers

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/teampulse/teampulse/internal/models"
	"github.com/teampulse/teampulse/internal/repositories"
	"github.com/teampulse/teampulse/internal/services"
	"github.com/teampulse/teampulse/pkg/logger"
)

// StatsWorker rebuilds a team's monthly records from the persisted commit
// and pull request history
type StatsWorker struct {
	pollingWorker
	jobRepo             *repositories.JobRepository
	teamRepoRepo        *repositories.TeamRepositoryRepository
	commitRepo          *repositories.CommitRepository
	pullRequestRepo     *repositories.PullRequestRepository
	monthlyStatsService *services.MonthlyStatsService
	aggregationService  *services.AggregationService
	eventService        *services.EventService
}

// NewStatsWorker creates a new stats worker
func NewStatsWorker(
	workerID string,
	jobRepo *repositories.JobRepository,
	teamRepoRepo *repositories.TeamRepositoryRepository,
	commitRepo *repositories.CommitRepository,
	pullRequestRepo *repositories.PullRequestRepository,
	monthlyStatsService *services.MonthlyStatsService,
	aggregationService *services.AggregationService,
	eventService *services.EventService,
) *StatsWorker {
	return &StatsWorker{
		pollingWorker:       newPollingWorker(workerID),
		jobRepo:             jobRepo,
		teamRepoRepo:        teamRepoRepo,
		commitRepo:          commitRepo,
		pullRequestRepo:     pullRequestRepo,
		monthlyStatsService: monthlyStatsService,
		aggregationService:  aggregationService,
		eventService:        eventService,
	}
}

// Start begins the stats worker process
func (w *StatsWorker) Start(ctx context.Context) error {
	w.running = true
	logger.WithField("worker_id", w.id).Info("Stats worker started")

	for {
		select {
		case <-ctx.Done():
			logger.WithField("worker_id", w.id).Info("Stats worker stopping due to context cancellation")
			return ctx.Err()
		case <-w.stopChan:
			logger.WithField("worker_id", w.id).Info("Stats worker stopping")
			return nil
		default:
			job, err := w.jobRepo.GetNextPendingJob(models.JobTypeStats)
			if err != nil {
				logger.WithError(err).WithField("worker_id", w.id).Error("Failed to get stats job")
				time.Sleep(5 * time.Second)
				continue
			}

			if job == nil {
				time.Sleep(10 * time.Second)
				continue
			}

			w.processJob(ctx, job)
		}
	}
}

func (w *StatsWorker) processJob(ctx context.Context, job *models.Job) {
	log := logger.WithFields(logrus.Fields{"worker_id": w.id, "job_id": job.ID, "team_id": job.TeamID})
	log.Info("Processing stats job")

	if err := w.rebuildTeamStats(ctx, job.TeamID); err != nil {
		log.WithError(err).Error("Stats job failed")
		job.SetError(err.Error())
		job.MarkFailed()
	} else {
		job.MarkCompleted()
		log.Info("Stats job completed")
	}

	if err := w.jobRepo.Update(job); err != nil {
		log.WithError(err).Error("Failed to update stats job status")
	}
}

// rebuildTeamStats refolds every month in the team's commit history.
// Usage counters (tabs, premium requests) come from an external feed and
// are carried over from the existing record before refolding.
func (w *StatsWorker) rebuildTeamStats(ctx context.Context, teamID string) error {
	minDate, maxDate, err := w.activityDateRange(teamID)
	if err == sql.ErrNoRows {
		// No synced activity yet; nothing to fold
		return nil
	}
	if err != nil {
		return err
	}

	repoNames, err := w.repoNamesByGithubID(teamID)
	if err != nil {
		return err
	}

	month := models.MonthStart(minDate)
	last := models.MonthStart(maxDate)

	for !month.After(last) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := w.rebuildMonth(teamID, month, repoNames); err != nil {
			return fmt.Errorf("failed to rebuild %s: %w", month.Format("2006-01"), err)
		}
		month = month.AddDate(0, 1, 0)
	}

	return nil
}

func (w *StatsWorker) rebuildMonth(teamID string, monthStart time.Time, repoNames map[int64]string) error {
	monthEnd := monthStart.AddDate(0, 1, 0)

	commits, err := w.commitRepo.GetByTeamAndDateRange(teamID, monthStart, monthEnd)
	if err != nil {
		return err
	}
	prs, err := w.pullRequestRepo.GetByTeamAndDateRange(teamID, monthStart, monthEnd)
	if err != nil {
		return err
	}

	events := make([]*models.ContributionEvent, 0, len(commits)+len(prs))
	for _, commit := range commits {
		events = append(events, w.eventService.FromCommitRow(commit, repoNames[commit.GithubRepoID]))
	}
	for _, pr := range prs {
		events = append(events, w.eventService.FromPullRequestRow(pr, repoNames[pr.GithubRepoID]))
	}

	unlock := w.monthlyStatsService.LockMonth(teamID, monthStart)
	defer unlock()

	record, err := w.monthlyStatsService.GetOrCreate(teamID, monthStart)
	if err != nil {
		return err
	}

	resetStatsPreservingUsage(record)

	if _, err := w.aggregationService.ApplyEvents(record, events); err != nil {
		return err
	}

	return w.monthlyStatsService.Save(record)
}

// resetStatsPreservingUsage zeroes the record's aggregates before a full
// refold while carrying forward each contributor's sticky usage counters
func resetStatsPreservingUsage(record *models.MonthlyRecord) {
	previous := record.Stats.Contributors

	record.Stats = models.MonthlyStats{
		Repositories: make(map[string]*models.RepositoryStats),
		Contributors: make(map[string]*models.ContributorStats),
	}

	for id, contributor := range previous {
		if contributor.Tabs == 0 && contributor.PremiumRequests == 0 {
			continue
		}
		record.Stats.Contributors[id] = &models.ContributorStats{
			Login:              contributor.Login,
			ActiveRepositories: []string{},
			Tabs:               contributor.Tabs,
			PremiumRequests:    contributor.PremiumRequests,
		}
	}
}

// activityDateRange spans both commit and pull request history so a month
// with only pull request activity still gets rebuilt
func (w *StatsWorker) activityDateRange(teamID string) (time.Time, time.Time, error) {
	commitMin, commitMax, commitErr := w.commitRepo.GetDateRangeByTeamID(teamID)
	prMin, prMax, prErr := w.pullRequestRepo.GetDateRangeByTeamID(teamID)

	switch {
	case commitErr == sql.ErrNoRows && prErr == sql.ErrNoRows:
		return time.Time{}, time.Time{}, sql.ErrNoRows
	case commitErr != nil && commitErr != sql.ErrNoRows:
		return time.Time{}, time.Time{}, commitErr
	case prErr != nil && prErr != sql.ErrNoRows:
		return time.Time{}, time.Time{}, prErr
	case commitErr == sql.ErrNoRows:
		return prMin, prMax, nil
	case prErr == sql.ErrNoRows:
		return commitMin, commitMax, nil
	}

	if prMin.Before(commitMin) {
		commitMin = prMin
	}
	if prMax.After(commitMax) {
		commitMax = prMax
	}
	return commitMin, commitMax, nil
}

func (w *StatsWorker) repoNamesByGithubID(teamID string) (map[int64]string, error) {
	teamRepos, err := w.teamRepoRepo.GetByTeamID(teamID)
	if err != nil {
		return nil, err
	}

	names := make(map[int64]string, len(teamRepos))
	for _, teamRepo := range teamRepos {
		names[teamRepo.GithubRepoID] = teamRepo.Name
	}
	return names, nil
}
