package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"charity-workflow-backend/internal/config"
	"charity-workflow-backend/internal/jobs"
	"charity-workflow-backend/internal/logger"
	"charity-workflow-backend/internal/repository/kvstore"
	"charity-workflow-backend/internal/scheduler"
	"charity-workflow-backend/internal/security"
	"charity-workflow-backend/internal/service"
	"charity-workflow-backend/internal/storage"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'sweep-orphaned-notifications', 'all')")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Charity Workflow Cronjob Runner...", "log_level", cfg.Log.Level)

	// Initialize durable store
	kv, err := storage.New(context.Background(), cfg.StorageConfig())
	if err != nil {
		logger.Error("Failed to open store", "backend", cfg.Store.Backend, "error", err)
		log.Fatalf("Failed to open store: %v", err)
	}
	defer kv.Close()
	logger.Info("Store ready", "backend", cfg.Store.Backend)

	// Initialize Repositories
	store := kvstore.NewStore(kv)

	// Initialize Services
	hasher, err := security.NewPasswordHasher(cfg.Security.PasswordScheme)
	if err != nil {
		log.Fatalf("Failed to initialize password hasher: %v", err)
	}
	ids := service.UUIDGenerator()
	clock := service.SystemClock()
	noteSvc := service.NewNotificationService(store.NotificationRepository, ids, clock)
	jobServices := &jobs.Services{
		Data: service.NewDataService(
			store.UserRepository,
			store.RequestRepository,
			store.ProjectRepository,
			store.ChatRepository,
			store.NotificationRepository,
		),
		Identity: service.NewIdentityService(
			store.UserRepository,
			store.RequestRepository,
			store.ProjectRepository,
			store.ChatRepository,
			hasher,
			ids,
			clock,
		),
		Requests: service.NewRequestService(store.RequestRepository, ids, clock),
		Lifecycle: service.NewLifecycleService(
			store.ProjectRepository,
			store.RequestRepository,
			noteSvc,
			ids,
			clock,
			service.LifecycleOptions{RequireApprovedPhases: cfg.Policy.RequireApprovedPhases},
		),
		Chat: service.NewChatService(store.ChatRepository, ids, clock),
	}

	// Initialize Job Runner
	jobRunner := jobs.NewJobRunner(store, jobServices, cfg)

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		runJobOnce(jobRunner, *runOnce)
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	// Initialize Scheduler
	cronScheduler := scheduler.NewScheduler(jobRunner)

	// Start scheduler
	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down cronjob scheduler...")
	cronScheduler.Stop()
	logger.Info("Cronjob scheduler stopped. Goodbye!")
}

// runJobOnce runs a specific job once and exits
func runJobOnce(jobRunner *jobs.JobRunner, jobName string) {
	switch jobName {
	case "sweep-orphaned-notifications":
		jobRunner.SweepOrphanedNotifications()
	case "log-data-snapshot":
		jobRunner.LogDataSnapshot()
	case "seed-test-data":
		jobRunner.SeedTestData()
	case "all":
		jobRunner.RunAll()
	default:
		logger.Error("Unknown job name", "job", jobName)
		fmt.Printf("Available jobs:\n")
		fmt.Printf("  - sweep-orphaned-notifications\n")
		fmt.Printf("  - log-data-snapshot\n")
		fmt.Printf("  - seed-test-data\n")
		fmt.Printf("  - all\n")
		os.Exit(1)
	}
}
