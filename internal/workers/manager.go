package workers

import (
	"context"
	"fmt"
	"sync"

	"github.com/teampulse/teampulse/internal/repositories"
	"github.com/teampulse/teampulse/internal/services"
	"github.com/teampulse/teampulse/pkg/config"
	"github.com/teampulse/teampulse/pkg/logger"
)

// WorkerManager manages multiple workers of different types
type WorkerManager struct {
	workers []Worker
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc

	jobRepo          *repositories.JobRepository
	teamRepoRepo     *repositories.TeamRepositoryRepository
	commitRepo       *repositories.CommitRepository
	pullRequestRepo  *repositories.PullRequestRepository
	syncProgressRepo *repositories.SyncProgressRepository

	githubService       *services.GitHubService
	eventService        *services.EventService
	monthlyStatsService *services.MonthlyStatsService
	aggregationService  *services.AggregationService
}

// NewWorkerManager creates a new worker manager
func NewWorkerManager(
	jobRepo *repositories.JobRepository,
	teamRepoRepo *repositories.TeamRepositoryRepository,
	commitRepo *repositories.CommitRepository,
	pullRequestRepo *repositories.PullRequestRepository,
	syncProgressRepo *repositories.SyncProgressRepository,
	githubService *services.GitHubService,
	eventService *services.EventService,
	monthlyStatsService *services.MonthlyStatsService,
	aggregationService *services.AggregationService,
) *WorkerManager {
	ctx, cancel := context.WithCancel(context.Background())
	return &WorkerManager{
		workers:             make([]Worker, 0),
		ctx:                 ctx,
		cancel:              cancel,
		jobRepo:             jobRepo,
		teamRepoRepo:        teamRepoRepo,
		commitRepo:          commitRepo,
		pullRequestRepo:     pullRequestRepo,
		syncProgressRepo:    syncProgressRepo,
		githubService:       githubService,
		eventService:        eventService,
		monthlyStatsService: monthlyStatsService,
		aggregationService:  aggregationService,
	}
}

// StartAll starts all workers based on configuration
func (wm *WorkerManager) StartAll() error {
	syncWorkers := config.AppConfig.Workers.SyncWorkers
	statsWorkers := config.AppConfig.Workers.StatsWorkers

	logger.Infof("Starting workers - Sync: %d, Stats: %d", syncWorkers, statsWorkers)

	for i := 0; i < syncWorkers; i++ {
		worker := NewSyncWorker(
			fmt.Sprintf("sync-%d", i+1),
			wm.jobRepo, wm.teamRepoRepo, wm.commitRepo, wm.pullRequestRepo,
			wm.syncProgressRepo, wm.githubService, wm.eventService,
		)
		wm.workers = append(wm.workers, worker)
		wm.startWorker(worker)
	}

	// Stats jobs rebuild whole months; one at a time keeps the
	// single-mutator-per-month assumption trivially true on this path
	for i := 0; i < statsWorkers; i++ {
		worker := NewStatsWorker(
			fmt.Sprintf("stats-%d", i+1),
			wm.jobRepo, wm.teamRepoRepo, wm.commitRepo, wm.pullRequestRepo,
			wm.monthlyStatsService, wm.aggregationService, wm.eventService,
		)
		wm.workers = append(wm.workers, worker)
		wm.startWorker(worker)
	}

	logger.Infof("Started %d total workers", len(wm.workers))
	return nil
}

// StopAll gracefully stops all workers
func (wm *WorkerManager) StopAll() error {
	logger.Info("Stopping all workers...")

	wm.cancel()

	for _, worker := range wm.workers {
		if err := worker.Stop(); err != nil {
			logger.WithError(err).Errorf("Error stopping worker %s", worker.ID())
		}
	}

	wm.wg.Wait()

	logger.Info("All workers stopped")
	return nil
}

// startWorker starts a single worker in a goroutine
func (wm *WorkerManager) startWorker(worker Worker) {
	wm.wg.Add(1)
	go func() {
		defer wm.wg.Done()
		if err := worker.Start(wm.ctx); err != nil && err != context.Canceled {
			logger.WithError(err).Errorf("Worker %s stopped with error", worker.ID())
		}
	}()
}

// GetWorkerStatus reports, per worker ID, whether the worker is running
func (wm *WorkerManager) GetWorkerStatus() map[string]bool {
	status := make(map[string]bool, len(wm.workers))
	for _, worker := range wm.workers {
		status[worker.ID()] = worker.Running()
	}
	return status
}
