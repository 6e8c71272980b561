package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/teampulse/teampulse/internal/handlers"
	"github.com/teampulse/teampulse/internal/middleware"
	"github.com/teampulse/teampulse/internal/repositories"
	"github.com/teampulse/teampulse/internal/services"
	"github.com/teampulse/teampulse/internal/workers"
	"github.com/teampulse/teampulse/pkg/config"
	"github.com/teampulse/teampulse/pkg/database"
	"github.com/teampulse/teampulse/pkg/logger"
)

func main() {
	// Load configuration
	if err := config.Load(); err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	logger.Init()
	gin.SetMode(config.AppConfig.Server.Mode)

	// Initialize database
	if err := database.Init(); err != nil {
		logger.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	// Repositories
	teamRepo := repositories.NewTeamRepository(database.DB)
	teamRepoRepo := repositories.NewTeamRepositoryRepository(database.DB)
	monthlyStatsRepo := repositories.NewMonthlyStatsRepository(database.DB)
	commitRepo := repositories.NewCommitRepository(database.DB)
	pullRequestRepo := repositories.NewPullRequestRepository(database.DB)
	jobRepo := repositories.NewJobRepository(database.DB)
	syncProgressRepo := repositories.NewSyncProgressRepository(database.DB)
	leadRepo := repositories.NewLeadRepository(database.DB)

	// Services
	githubService := services.NewGitHubService(config.AppConfig.GitHub.Token, config.AppConfig.GitHub.RateLimit)
	scoringService := services.NewScoringService()
	aggregationService := services.NewAggregationService(scoringService)
	eventService := services.NewEventService()
	monthlyStatsService := services.NewMonthlyStatsService(monthlyStatsRepo)
	teamService := services.NewTeamService(teamRepo, teamRepoRepo, githubService)
	jobService := services.NewJobService(jobRepo)
	exportService := services.NewExportService()
	bookingService := services.NewBookingService(config.AppConfig.Booking.ServiceURL)
	scheduleService := services.NewScheduleService(
		config.AppConfig.Schedule.BusinessStartHour,
		config.AppConfig.Schedule.BusinessEndHour,
		config.AppConfig.Schedule.WindowMinutes,
		config.AppConfig.Schedule.MinNoticeMinutes,
	)

	// Worker manager
	workerManager := workers.NewWorkerManager(
		jobRepo, teamRepoRepo, commitRepo, pullRequestRepo, syncProgressRepo,
		githubService, eventService, monthlyStatsService, aggregationService,
	)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())

	setupRoutes(router,
		teamService, jobService, monthlyStatsService, aggregationService,
		eventService, githubService, exportService, bookingService, scheduleService,
		commitRepo, pullRequestRepo, leadRepo, workerManager,
	)

	// Start workers
	if err := workerManager.StartAll(); err != nil {
		logger.Fatalf("Failed to start workers: %v", err)
	}
	defer workerManager.StopAll()

	server := &http.Server{
		Addr:         ":" + config.AppConfig.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(config.AppConfig.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(config.AppConfig.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Infof("Server starting on :%s", config.AppConfig.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Server shutdown failed")
	}
	logger.Info("Server stopped")
}

func setupRoutes(
	router *gin.Engine,
	teamService *services.TeamService,
	jobService *services.JobService,
	monthlyStatsService *services.MonthlyStatsService,
	aggregationService *services.AggregationService,
	eventService *services.EventService,
	githubService *services.GitHubService,
	exportService *services.ExportService,
	bookingService *services.BookingService,
	scheduleService *services.ScheduleService,
	commitRepo *repositories.CommitRepository,
	pullRequestRepo *repositories.PullRequestRepository,
	leadRepo *repositories.LeadRepository,
	workerManager *workers.WorkerManager,
) {
	teamHandler := handlers.NewTeamHandler(teamService, jobService)
	dashboardHandler := handlers.NewDashboardHandler(teamService, monthlyStatsService, aggregationService, exportService)
	webhookHandler := handlers.NewWebhookHandler(
		teamService, eventService, githubService, monthlyStatsService, aggregationService,
		commitRepo, pullRequestRepo,
	)
	bookingHandler := handlers.NewBookingHandler(bookingService)
	scheduleHandler := handlers.NewScheduleHandler(scheduleService)
	leadHandler := handlers.NewLeadHandler(leadRepo)
	healthHandler := handlers.NewHealthHandler(workerManager)

	api := router.Group("/api")
	{
		api.GET("/teams", teamHandler.ListTeams)
		api.POST("/teams", teamHandler.CreateTeam)
		api.GET("/teams/:id", teamHandler.GetTeam)
		api.DELETE("/teams/:id", teamHandler.DeleteTeam)
		api.POST("/teams/:id/repositories", teamHandler.AttachRepository)
		api.POST("/teams/:id/sync", teamHandler.SyncTeam)
		api.GET("/teams/:id/jobs", teamHandler.ListJobs)

		api.GET("/teams/:id/months", dashboardHandler.ListMonths)
		api.GET("/teams/:id/stats/:month", dashboardHandler.GetMonth)
		api.GET("/teams/:id/stats/:month/export", dashboardHandler.ExportMonth)
		api.GET("/teams/:id/stats/:month/contributors/:contributor_id", dashboardHandler.GetContributor)
		api.PUT("/teams/:id/stats/:month/contributors/:contributor_id/usage", dashboardHandler.UpdateContributorUsage)

		api.POST("/booking", bookingHandler.CreateBooking)
		api.GET("/call-windows", scheduleHandler.GetCallWindows)
		api.POST("/leads", leadHandler.CreateLead)
	}

	router.POST("/webhooks/github", webhookHandler.HandleGitHub)
	router.GET("/health", healthHandler.HealthCheck)
}
