package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/GoCleeny/service-booking/internal/application"
	"github.com/GoCleeny/service-booking/internal/config"
	bookingDomain "github.com/GoCleeny/service-booking/internal/domain/booking"
	inquiryDomain "github.com/GoCleeny/service-booking/internal/domain/inquiry"
	bookingEvents "github.com/GoCleeny/service-booking/internal/events"
	"github.com/GoCleeny/service-booking/internal/handler"
	"github.com/GoCleeny/service-booking/internal/notification"
	"github.com/GoCleeny/service-booking/internal/repository"
	"github.com/GoCleeny/service-booking/pkg/auth"
	"github.com/GoCleeny/service-booking/pkg/database"
	"github.com/GoCleeny/service-booking/pkg/health"
	"github.com/GoCleeny/service-booking/pkg/kafka"
	"github.com/GoCleeny/service-booking/pkg/logger"
	"github.com/GoCleeny/service-booking/pkg/middleware"
)

const serviceName = "service-booking"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, serviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting service-booking",
		zap.String("port", cfg.Port),
		zap.String("store", cfg.StoreDriver),
		zap.String("notifications", cfg.Notification.Driver),
	)

	// Initialize repositories
	var (
		db          *gorm.DB
		bookingRepo bookingDomain.BookingRepository
		inquiryRepo inquiryDomain.InquiryRepository
	)
	if cfg.StoreDriver == config.StorePostgres {
		db = connectDatabase(cfg, log)
		bookingRepo = repository.NewGormBookingRepository(db)
		inquiryRepo = repository.NewGormInquiryRepository(db)
	} else {
		log.Warn("using in-memory store; bookings are lost on restart")
		bookingRepo = repository.NewMemoryBookingRepository()
		inquiryRepo = repository.NewMemoryInquiryRepository()
	}

	// Initialize notification delivery
	logGateway := notification.NewLogGateway(cfg.Notification.Sender, log.Named("mail"))
	var notifier notification.Gateway = logGateway
	var redisClient *redis.Client
	if cfg.Notification.Driver == config.NotifyQueue {
		redisOpt := asynq.RedisClientOpt{
			Addr:     cfg.RedisConfig.Addr,
			Password: cfg.RedisConfig.Password,
			DB:       cfg.RedisConfig.DB,
		}
		asynqClient := asynq.NewClient(redisOpt)
		defer func() { _ = asynqClient.Close() }()
		notifier = notification.NewQueueGateway(asynqClient, log)

		worker := notification.NewWorker(redisOpt, cfg.Notification.WorkerConcurrency, logGateway, log.Named("notification-worker"))
		if err := worker.Start(); err != nil {
			log.Fatal("failed to start notification worker", zap.Error(err))
		}
		defer worker.Shutdown()

		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisConfig.Addr,
			Password: cfg.RedisConfig.Password,
			DB:       cfg.RedisConfig.DB,
		})
		defer func() { _ = redisClient.Close() }()
	}

	// Initialize Kafka producer. A nil publisher disables event streaming.
	var publisher application.EventPublisher
	if cfg.KafkaConfig.Enabled() {
		kafkaProducer := kafka.NewProducer(cfg.KafkaConfig.Brokers, log)
		defer func() { _ = kafkaProducer.Close() }()
		publisher = kafkaProducer
	} else {
		log.Info("kafka disabled; booking events will not be published")
	}

	// Initialize application services
	bookingService := application.NewBookingService(
		bookingRepo,
		notifier,
		publisher,
		cfg.Notification.OperatorEmail,
		log,
	)
	inquiryService := application.NewInquiryService(
		inquiryRepo,
		notifier,
		cfg.Notification.OperatorEmail,
		log,
	)

	// Initialize and start ops event consumer in a goroutine
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.KafkaConfig.Enabled() {
		groupID := cfg.KafkaConfig.GroupPrefix + "booking-service"
		opsConsumer := bookingEvents.NewOpsEventConsumer(
			cfg.KafkaConfig.Brokers,
			groupID,
			bookingService,
			log,
		)
		defer func() { _ = opsConsumer.Close() }()

		go func() {
			log.Info("starting ops event consumer")
			if err := opsConsumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("ops event consumer error", zap.Error(err))
			}
		}()
	}

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(
		cfg.JWTConfig.Secret,
		15*time.Minute,
		7*24*time.Hour,
	)

	// Setup Gin router
	if cfg.AppEnv != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.CORSOrigins...))
	router.Use(middleware.SecurityHeadersMiddleware())

	// Register health check routes
	healthHandler := health.NewHandler(db, serviceName)
	if redisClient != nil {
		healthHandler.AddCheck("redis", health.RedisCheck(redisClient))
	}
	healthHandler.RegisterRoutes(router)

	// Register routes
	writeLimit := middleware.RateLimitMiddleware(
		middleware.NewIPRateLimiter(cfg.RateLimit.PerMinute, cfg.RateLimit.Burst),
		log,
	)
	handler.NewBookingHandler(bookingService).RegisterRoutes(&router.RouterGroup, writeLimit)
	handler.NewInquiryHandler(inquiryService).RegisterRoutes(&router.RouterGroup, writeLimit)
	handler.NewAdminHandler(bookingService, inquiryService).RegisterRoutes(&router.RouterGroup, jwtManager)

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down service-booking...")

	// Cancel the consumer context
	cancel()

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info("service-booking stopped")
}

func connectDatabase(cfg *config.ServiceConfig, log *zap.Logger) *gorm.DB {
	dbConfig := database.PostgresConfig{
		Host:     cfg.DBConfig.Host,
		Port:     cfg.DBConfig.Port,
		User:     cfg.DBConfig.User,
		Password: cfg.DBConfig.Password,
		DBName:   cfg.DBConfig.DBName,
		SSLMode:  cfg.DBConfig.SSLMode,
	}
	db, err := database.Connect(dbConfig, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run database migrations
	if cfg.AppEnv == "development" {
		if err := db.AutoMigrate(&repository.BookingModel{}, &repository.InquiryModel{}); err != nil {
			log.Fatal("failed to run auto-migration", zap.Error(err))
		}
		log.Info("database migration completed (dev auto-migrate)")
	} else {
		if err := database.RunMigrations(dbConfig.DatabaseURL(), "migrations", log); err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}
	}
	return db
}
