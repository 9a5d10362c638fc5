package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"hotfood/internal/app"
	"hotfood/internal/config"
	"hotfood/internal/database"
	"hotfood/internal/services"
	"hotfood/pkg/identity"
	"hotfood/pkg/mailer"
	"hotfood/pkg/rabbitmq"
	"hotfood/pkg/redisstore"
	"hotfood/pkg/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

const authRateLimit = 20

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	log.SetLevel(logLevel(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Database ---
	store, err := database.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer store.Close(context.Background())

	deps := app.ServiceDeps{
		Repos:              store.Repos,
		JWTSecret:          cfg.JWTSecret,
		EventStrictPricing: cfg.EventStrictPricing,
	}

	// --- Optional integrations ---
	if cfg.GoogleClientID != "" {
		deps.Verifier = identity.NewGoogleVerifier(cfg.GoogleClientID)
	} else {
		log.Warn("GOOGLE_CLIENT_ID not set, Google login disabled")
	}

	if cfg.SMTP.Host != "" {
		deps.Mailer = mailer.New(mailer.Config{
			Host:       cfg.SMTP.Host,
			Port:       cfg.SMTP.Port,
			Username:   cfg.SMTP.Username,
			Password:   cfg.SMTP.Password,
			From:       cfg.SMTP.From,
			SenderName: cfg.SMTP.SenderName,
		})
	}

	if cfg.S3.Bucket != "" {
		uploader, err := storage.NewS3Uploader(ctx, storage.Config{
			Region:          cfg.S3.Region,
			Bucket:          cfg.S3.Bucket,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			Endpoint:        cfg.S3.Endpoint,
			PublicURL:       cfg.S3.PublicURL,
		})
		if err != nil {
			log.Fatalf("Failed to initialize S3 uploader: %v", err)
		}
		deps.Uploader = uploader
	}

	var mqClient *rabbitmq.Client
	if cfg.RabbitMQURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close()
		deps.Publisher = mqClient
	}

	var limiterStorage fiber.Storage
	if cfg.RedisAddr != "" {
		rs, err := redisstore.New(ctx, cfg.RedisAddr, "hotfood:limiter:")
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer rs.Close()
		limiterStorage = rs
	}

	svcs := app.NewServices(deps)

	// --- Bootstrap data ---
	if cfg.SeedOnStart {
		if err := svcs.Products.SeedIfEmpty(ctx); err != nil {
			log.Errorf("Failed to seed catalog: %v", err)
		}
	}
	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		if err := svcs.Auth.EnsureAdmin(ctx, cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			log.Errorf("Failed to ensure admin account: %v", err)
		}
	}

	// --- Order event consumer ---
	if mqClient != nil {
		if err := mqClient.ConsumeOrderEvents(ctx, svcs.Notifications.HandleOrderEvent); err != nil {
			log.Errorf("Failed to start RabbitMQ consumer: %v", err)
		}
	}

	fiberApp := app.NewApp(svcs, app.Options{
		CORSOrigins:    cfg.CORSOrigins,
		AuthRateLimit:  authRateLimit,
		LimiterStorage: limiterStorage,
	})

	go func() {
		log.Infof("Starting server on port %s", cfg.AppPort)
		if err := fiberApp.Listen(cfg.AppPort); err != nil {
			log.Errorf("Server stopped: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")
	if err := fiberApp.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Errorf("Error during Fiber shutdown: %v", err)
	}
	if svcs.Direct != nil {
		svcs.Direct.Wait()
	}
	log.Info("Server gracefully stopped")
}

func logLevel(level string) log.Level {
	switch level {
	case "trace":
		return log.LevelTrace
	case "debug":
		return log.LevelDebug
	case "warn":
		return log.LevelWarn
	case "error":
		return log.LevelError
	}
	return log.LevelInfo
}

var _ services.OrderEventPublisher = (*rabbitmq.Client)(nil)
