package workers

import (
	"context"
	"fmt"
	"time"

	"github.com/google/go-github/v57/github"
	"github.com/sirupsen/logrus"
	"github.com/teampulse/teampulse/internal/models"
	"github.com/teampulse/teampulse/internal/repositories"
	"github.com/teampulse/teampulse/internal/services"
	"github.com/teampulse/teampulse/pkg/logger"
	"golang.org/x/sync/errgroup"
)

// Commit detail fetches run concurrently per listed page
const commitDetailWorkers = 10

// SyncWorker pulls a repository's commit and pull request history from
// GitHub and persists audit rows. Progress is checkpointed per page so an
// interrupted sync resumes where it left off.
type SyncWorker struct {
	pollingWorker
	jobRepo          *repositories.JobRepository
	teamRepoRepo     *repositories.TeamRepositoryRepository
	commitRepo       *repositories.CommitRepository
	pullRequestRepo  *repositories.PullRequestRepository
	syncProgressRepo *repositories.SyncProgressRepository
	githubService    *services.GitHubService
	eventService     *services.EventService
}

// NewSyncWorker creates a new sync worker
func NewSyncWorker(
	workerID string,
	jobRepo *repositories.JobRepository,
	teamRepoRepo *repositories.TeamRepositoryRepository,
	commitRepo *repositories.CommitRepository,
	pullRequestRepo *repositories.PullRequestRepository,
	syncProgressRepo *repositories.SyncProgressRepository,
	githubService *services.GitHubService,
	eventService *services.EventService,
) *SyncWorker {
	return &SyncWorker{
		pollingWorker:    newPollingWorker(workerID),
		jobRepo:          jobRepo,
		teamRepoRepo:     teamRepoRepo,
		commitRepo:       commitRepo,
		pullRequestRepo:  pullRequestRepo,
		syncProgressRepo: syncProgressRepo,
		githubService:    githubService,
		eventService:     eventService,
	}
}

// Start begins the sync worker process
func (w *SyncWorker) Start(ctx context.Context) error {
	w.running = true
	logger.WithField("worker_id", w.id).Info("Sync worker started")

	for {
		select {
		case <-ctx.Done():
			logger.WithField("worker_id", w.id).Info("Sync worker stopping due to context cancellation")
			return ctx.Err()
		case <-w.stopChan:
			logger.WithField("worker_id", w.id).Info("Sync worker stopping")
			return nil
		default:
			job, err := w.jobRepo.GetNextPendingJob(models.JobTypeSync)
			if err != nil {
				logger.WithError(err).WithField("worker_id", w.id).Error("Failed to get sync job")
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

func (w *SyncWorker) processJob(ctx context.Context, job *models.Job) {
	log := logger.WithFields(logrus.Fields{"worker_id": w.id, "job_id": job.ID})
	log.Info("Processing sync job")

	if err := w.syncRepository(ctx, job); err != nil {
		log.WithError(err).Error("Sync job failed")
		job.SetError(err.Error())
		job.MarkFailed()
	} else {
		job.MarkCompleted()
		log.Info("Sync job completed")
	}

	if err := w.jobRepo.Update(job); err != nil {
		log.WithError(err).Error("Failed to update sync job status")
	}
}

func (w *SyncWorker) syncRepository(ctx context.Context, job *models.Job) error {
	if job.TeamRepositoryID == nil {
		return fmt.Errorf("sync job %s has no repository", job.ID)
	}

	teamRepo, err := w.teamRepoRepo.GetByID(*job.TeamRepositoryID)
	if err != nil {
		return fmt.Errorf("failed to get team repository %s: %w", *job.TeamRepositoryID, err)
	}

	if !teamRepo.IsTracked {
		return fmt.Errorf("repository %s is not tracked", teamRepo.FullName)
	}

	progress, err := w.syncProgressRepo.GetByTeamRepositoryID(teamRepo.ID)
	if err != nil {
		return fmt.Errorf("failed to load sync progress: %w", err)
	}
	if progress == nil {
		progress = models.NewSyncProgress(teamRepo.ID)
	}

	if err := w.syncCommits(ctx, teamRepo, progress); err != nil {
		return err
	}
	if err := w.syncPullRequests(ctx, teamRepo, progress); err != nil {
		return err
	}

	teamRepo.MarkSynced()
	return w.teamRepoRepo.Update(teamRepo)
}

func (w *SyncWorker) syncCommits(ctx context.Context, teamRepo *models.TeamRepository, progress *models.SyncProgress) error {
	page := progress.CommitPage
	if page == 0 {
		page = 1
	}

	for {
		listed, nextPage, err := w.githubService.ListCommits(ctx, teamRepo.Owner, teamRepo.Name, progress.CommitCursor, page)
		if err != nil {
			return err
		}

		// The list endpoint omits line stats; fetch details concurrently
		detailed := make([]*github.RepositoryCommit, len(listed))
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(commitDetailWorkers)
		for i, commit := range listed {
			i, commit := i, commit
			g.Go(func() error {
				full, err := w.githubService.GetCommit(gctx, teamRepo.Owner, teamRepo.Name, commit.GetSHA())
				if err != nil {
					return err
				}
				detailed[i] = full
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		for _, commit := range detailed {
			event, ok := w.eventService.NormalizeCommit(teamRepo.GithubRepoID, teamRepo.Name, commit)
			if !ok {
				// No resolvable author; dropped per the best-effort policy
				continue
			}

			row := models.NewCommit(teamRepo.TeamID, teamRepo.GithubRepoID, commit.GetSHA(), commit.GetCommit().GetMessage(), event.OccurredAt)
			row.SetAuthor(event.ContributorID, event.ContributorLogin)
			row.SetStats(event.LinesAdded, event.LinesRemoved)
			if err := w.commitRepo.Upsert(row); err != nil {
				return fmt.Errorf("failed to persist commit %s: %w", commit.GetSHA(), err)
			}
			progress.ProcessedCommits++
		}

		progress.CommitPage = page
		if err := w.syncProgressRepo.Upsert(progress); err != nil {
			return fmt.Errorf("failed to checkpoint commit progress: %w", err)
		}

		if nextPage == 0 {
			break
		}
		page = nextPage
	}

	// Next incremental sync starts from here
	progress.CommitCursor = time.Now()
	progress.CommitPage = 0
	return w.syncProgressRepo.Upsert(progress)
}

func (w *SyncWorker) syncPullRequests(ctx context.Context, teamRepo *models.TeamRepository, progress *models.SyncProgress) error {
	page := progress.PullRequestPage
	if page == 0 {
		page = 1
	}

	for {
		listed, nextPage, err := w.githubService.ListPullRequests(ctx, teamRepo.Owner, teamRepo.Name, page)
		if err != nil {
			return err
		}

		for _, pr := range listed {
			// The list endpoint omits additions/deletions
			full, err := w.githubService.GetPullRequest(ctx, teamRepo.Owner, teamRepo.Name, pr.GetNumber())
			if err != nil {
				return err
			}

			event, ok := w.eventService.NormalizePullRequest(teamRepo.GithubRepoID, teamRepo.Name, full)
			if !ok {
				continue
			}

			row := models.NewPullRequest(teamRepo.TeamID, teamRepo.GithubRepoID, full.GetID(), full.GetNumber(), full.GetTitle())
			row.State = full.GetState()
			row.ContributorID = event.ContributorID
			row.ContributorLogin = event.ContributorLogin
			row.Additions = event.LinesAdded
			row.Deletions = event.LinesRemoved
			row.GithubCreatedAt = full.GetCreatedAt().Time
			if full.MergedAt != nil {
				mergedAt := full.GetMergedAt().Time
				row.MergedAt = &mergedAt
			}
			if err := w.pullRequestRepo.Upsert(row); err != nil {
				return fmt.Errorf("failed to persist pull request #%d: %w", full.GetNumber(), err)
			}
			progress.ProcessedPRs++
		}

		progress.PullRequestPage = page
		if err := w.syncProgressRepo.Upsert(progress); err != nil {
			return fmt.Errorf("failed to checkpoint pull request progress: %w", err)
		}

		if nextPage == 0 {
			break
		}
		page = nextPage
	}

	progress.PullRequestPage = 0
	return w.syncProgressRepo.Upsert(progress)
}
