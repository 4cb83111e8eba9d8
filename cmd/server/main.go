package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/huddlehq/huddle-backend/internal/adapter/storage"
	"github.com/huddlehq/huddle-backend/internal/config"
	"github.com/huddlehq/huddle-backend/internal/infrastructure/database"
	httpServer "github.com/huddlehq/huddle-backend/internal/infrastructure/http"
	"github.com/huddlehq/huddle-backend/internal/infrastructure/mail"
	redisMessaging "github.com/huddlehq/huddle-backend/internal/infrastructure/messaging"
	"github.com/huddlehq/huddle-backend/internal/infrastructure/sms"
	"github.com/huddlehq/huddle-backend/internal/usecase"
	"github.com/huddlehq/huddle-backend/pkg/logger"
	"github.com/huddlehq/huddle-backend/pkg/messaging"
	"go.uber.org/zap"
)

const sweepInterval = time.Hour

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	zapLogger, err := logger.NewZapLogger(logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		Output:      cfg.Log.Output,
		Development: cfg.Log.Development,
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	// Initialize database connection
	db, err := database.NewConnection(&cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := database.Close(db, zapLogger); err != nil {
			zapLogger.Error("Failed to close database connection", zap.Error(err))
		}
	}()

	// Run database migrations
	if err := database.Migrate(db, zapLogger); err != nil {
		zapLogger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	// Initialize repositories
	repos := database.NewRepositories(db, zapLogger)

	// Redis event publisher
	redisClient, err := messaging.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		zapLogger.Fatal("Failed to connect to redis", zap.Error(err))
	}
	defer redisClient.Close()
	events := redisMessaging.NewRedisEventPublisher(redisClient, zapLogger)

	// S3 blob store
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.S3.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3.AccessKey, cfg.S3.SecretKey, "")),
	)
	if err != nil {
		zapLogger.Fatal("Failed to load AWS config", zap.Error(err))
	}
	blob := storage.NewS3BlobRepository(s3.NewFromConfig(awsCfg), cfg.S3.BucketName, zapLogger)

	// Mail and SMS collaborators
	mailClient := mail.NewSMTPClient(mail.SMTPConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	}, zapLogger)
	smsClient := sms.NewLogSMSClient(zapLogger)

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Periodic expiry sweeps; resolves and accepts already treat expired
	// rows as absent, this just keeps the tables tidy.
	sessions := usecase.NewSessionUseCase(repos.Session, repos.User, zapLogger)
	invitations := usecase.NewInvitationUseCase(sessions, repos.Organization, repos.OrgMember,
		repos.OrgInvitation, repos.Workspace, repos.WorkspaceMember, repos.WorkspaceInvitation,
		repos.User, mailClient, cfg.Service.InviteURL, zapLogger)
	go func() {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if _, err := sessions.SweepExpired(ctx); err != nil {
					zapLogger.Error("Session sweep failed", zap.Error(err))
				}
				if _, err := invitations.SweepExpired(ctx); err != nil {
					zapLogger.Error("Invitation sweep failed", zap.Error(err))
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	// Initialize and start the HTTP server
	srv := httpServer.NewServer(cfg, zapLogger, repos, httpServer.Collaborators{
		Blob:   blob,
		Mail:   mailClient,
		SMS:    smsClient,
		Events: events,
	})

	go func() {
		if err := srv.Start(); err != nil {
			zapLogger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	zapLogger.Info("Shutting down server...")

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("Failed to shutdown HTTP server", zap.Error(err))
	}

	zapLogger.Info("Server shut down successfully")
}
