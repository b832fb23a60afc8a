package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"asperro-contact-backend/config"
	_ "asperro-contact-backend/docs" // Important for Swagger
	v1 "asperro-contact-backend/internal/delivery/http/v1"
	"asperro-contact-backend/internal/domain"
	"asperro-contact-backend/internal/repository/objectstore"
	"asperro-contact-backend/internal/repository/postgres"
	"asperro-contact-backend/internal/usecase"
	"asperro-contact-backend/pkg/database"
	"asperro-contact-backend/pkg/email"
	"asperro-contact-backend/pkg/logger"
	"asperro-contact-backend/pkg/redis"
	"asperro-contact-backend/pkg/security"
	"asperro-contact-backend/pkg/storage"
	"asperro-contact-backend/pkg/validation"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
)

// @title           AsperroStudio Contact API
// @version         1.0
// @description     Validates contact form submissions and relays them to the studio inbox.
// @host            localhost:8080
// @BasePath        /
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	gin.SetMode(cfg.GinMode)

	// 2. Setup Logger
	logger.Init(cfg.LogLevel)
	logger.Log.Info("Starting contact backend", "port", cfg.Port, "mail_provider", cfg.MailProvider)
	secLogger := security.InitSecurityLogger("asperro-contact", cfg.GinMode)
	defer secLogger.Sync()

	startCtx, cancelStart := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelStart()

	// 3. Setup Email Sender
	sender, err := email.NewSender(cfg)
	if err != nil {
		logger.Log.Error("Failed to create email sender", "error", err)
		os.Exit(1)
	}

	healthChecks := map[string]usecase.HealthCheck{}

	// 4. Setup Redis (optional, rate limiting falls back to memory)
	var redisClient *goredis.Client
	if cfg.UpstashRedisURL != "" {
		redisClient, err = redis.NewClient(startCtx, redis.Config{URL: cfg.UpstashRedisURL, Password: cfg.UpstashRedisPassword})
		if err != nil {
			logger.Log.Warn("Redis unavailable, using in-memory rate limiting", "error", err)
			redisClient = nil
		} else {
			defer redisClient.Close()
			healthChecks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
		}
	}

	// 5. Setup Submission Archives (optional)
	var archives domain.Archives
	if cfg.DBUrl != "" {
		dbPool, err := database.NewPostgresConnection(startCtx, cfg.DBUrl)
		if err != nil {
			logger.Log.Error("Failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer dbPool.Close()

		repo := postgres.NewSubmissionRepository(dbPool)
		if err := repo.EnsureSchema(startCtx); err != nil {
			logger.Log.Error("Failed to prepare submission archive", "error", err)
			os.Exit(1)
		}
		archives = append(archives, repo)
		healthChecks["database"] = dbPool.Ping
	}
	if cfg.ArchiveS3Bucket != "" {
		s3Client, err := storage.NewS3Client(startCtx, storage.S3ClientConfig{
			Provider:        storage.ParseProvider(cfg.S3Provider),
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
		})
		if err != nil {
			logger.Log.Error("Failed to create S3 client", "error", err)
			os.Exit(1)
		}
		if err := storage.CheckBucket(startCtx, s3Client, cfg.ArchiveS3Bucket); err != nil {
			logger.Log.Warn("Archive bucket not reachable, writes may fail", "error", err)
		}
		archives = append(archives, objectstore.NewSubmissionArchive(s3Client, cfg.ArchiveS3Bucket, cfg.ArchiveS3Prefix))
	}

	// A nil slice inside the interface would not compare equal to nil
	var archive domain.SubmissionArchive
	switch len(archives) {
	case 0:
	case 1:
		archive = archives[0]
	default:
		archive = archives
	}

	// 6. Setup UseCases
	settings := domain.ContactSettings{
		SenderAddress:    cfg.SenderAddress,
		RecipientAddress: cfg.RecipientAddress,
		SiteURL:          cfg.SiteURL,
		MaxNameLength:    cfg.MaxNameLength,
		MaxEmailLength:   cfg.MaxEmailLength,
		MaxPhoneLength:   cfg.MaxPhoneLength,
		MaxMessageLength: cfg.MaxMessageLength,
		ProviderTimeout:  cfg.ProviderTimeout,
		HoneypotDelayMin: cfg.HoneypotDelayMin,
		HoneypotDelayMax: cfg.HoneypotDelayMax,
	}
	contactUC := usecase.NewContactUsecase(sender, archive, validation.New(), settings)

	// 7. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		ContactUC: contactUC,
		HealthUC:  usecase.NewHealthUsecase(healthChecks),
		Redis:     redisClient,
		Config:    cfg,
	})

	// 8. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}
