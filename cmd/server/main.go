package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "charity-workflow-backend/internal/api/http"
	"charity-workflow-backend/internal/config"
	"charity-workflow-backend/internal/logger"
	"charity-workflow-backend/internal/mirror"
	"charity-workflow-backend/internal/remote"
	"charity-workflow-backend/internal/repository/kvstore"
	"charity-workflow-backend/internal/security"
	"charity-workflow-backend/internal/service"
	"charity-workflow-backend/internal/storage"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Charity Workflow Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Store configuration", "backend", cfg.Store.Backend)

	ctx := context.Background()

	// Initialize durable store
	kv, err := storage.New(ctx, cfg.StorageConfig())
	if err != nil {
		logger.Error("Failed to open store", "backend", cfg.Store.Backend, "error", err)
		log.Fatalf("Failed to open store: %v", err)
	}
	defer kv.Close()
	logger.Info("Store ready", "backend", cfg.Store.Backend)

	// Initialize Repositories
	store := kvstore.NewStore(kv)

	// Initialize Security
	hasher, err := security.NewPasswordHasher(cfg.Security.PasswordScheme)
	if err != nil {
		log.Fatalf("Failed to initialize password hasher: %v", err)
	}
	if cfg.Security.PasswordScheme == security.SchemePlaintext {
		logger.Warn("Passwords are stored in plaintext; set security.password_scheme to bcrypt for real deployments")
	}
	tokenManager := security.NewTokenManager(cfg.Security.JWTSecret, cfg.Security.TokenExpiry)

	// Initialize Services
	ids := service.UUIDGenerator()
	clock := service.SystemClock()
	noteSvc := service.NewNotificationService(store.NotificationRepository, ids, clock)
	services := httpapi.Services{
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
		Notifications: noteSvc,
		Chat:          service.NewChatService(store.ChatRepository, ids, clock),
		Policy:        service.NewPolicyService(store.ProjectRepository, store.RequestRepository, cfg.Policy.MaxActiveProjectsPerEmployee),
		Data: service.NewDataService(
			store.UserRepository,
			store.RequestRepository,
			store.ProjectRepository,
			store.ChatRepository,
			store.NotificationRepository,
		),
	}

	// Wrap mutating services with the remote mirror
	var dispatcher *mirror.Dispatcher
	if cfg.Remote.Enabled {
		client, err := remote.NewClient(remote.Config{
			BaseURL: cfg.Remote.BaseURL,
			APIKey:  cfg.Remote.APIKey,
			Timeout: cfg.Remote.Timeout,
		})
		if err != nil {
			log.Fatalf("Failed to initialize remote client: %v", err)
		}
		reach := mirror.NewReachability(client, cfg.Remote.HealthTTL, cfg.Remote.Timeout)
		dispatcher = mirror.NewDispatcher(reach, cfg.Remote.Timeout, mirror.WithMaxPending(cfg.Remote.MaxPending))

		services.Identity = mirror.Identity(services.Identity, client, dispatcher)
		services.Requests = mirror.Requests(services.Requests, client, dispatcher)
		services.Lifecycle = mirror.Lifecycle(services.Lifecycle, client, dispatcher, cfg.Remote.CompareReads)
		services.Notifications = mirror.Notifications(services.Notifications, client, dispatcher)
		services.Chat = mirror.Chat(services.Chat, client, dispatcher)
		logger.Info("Remote mirroring enabled", "base_url", cfg.Remote.BaseURL, "health_ttl", cfg.Remote.HealthTTL)
	}

	router := httpapi.NewRouter(services, httpapi.Options{
		Tokens:      tokenManager,
		RequireAuth: cfg.Security.RequireAuth,
		PeerAPIKey:  cfg.Security.PeerAPIKey,
		Policy: httpapi.PolicyOptions{
			EnforceCapacity:  cfg.Policy.MaxActiveProjectsPerEmployee > 0,
			OneActivePerUser: cfg.Policy.OneActivePerUser,
		},
	})

	srv := &http.Server{
		Addr:              cfg.GetServerAddress(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "error", err)
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}
	if dispatcher != nil {
		dispatcher.Wait()
	}
	logger.Info("Server stopped. Goodbye!")
}
