package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"meal-service/consumer"
	"meal-service/controllers"
	"meal-service/database"
	"meal-service/events"
	"meal-service/logger"
	"meal-service/metrics"
	"meal-service/models"
	awspkg "meal-service/pkg/aws"
	"meal-service/repository"
	"meal-service/routes"
	"meal-service/scheduler"
	"meal-service/sender"
	"meal-service/services"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("Config load failed: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- AWS setup (only when a feature needs it) ---
	var awsCfg aws.Config
	needsAWS := cfg.AWSUseSecrets || cfg.CloudWatchEnabled || cfg.EventBus == "sns" || cfg.UploadBucket != "" || cfg.TaskQueueURL != ""
	if needsAWS {
		if awsCfg, err = awspkg.LoadAWSConfig(ctx); err != nil {
			log.Fatalf("Failed to load AWS config: %v", err)
		}
	}
	if cfg.AWSUseSecrets {
		if err := cfg.ApplySecrets(ctx, awspkg.NewSecretsClient(awsCfg)); err != nil {
			log.Fatalf("Secrets Manager override failed: %v", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	// --- Logging ---
	logOpts := logger.Options{FilePath: cfg.LogFile}
	if cfg.CloudWatchEnabled {
		if w, err := awspkg.NewCloudWatchLogsWriter(ctx, awsCfg, cfg.CloudWatchLogGroup, "meal-service"); err != nil {
			log.Printf("CloudWatch Logs writer init failed (non-fatal): %v", err)
		} else {
			logOpts.Remote = w
		}
	}
	zlog, err := logger.Initialize(cfg.Env, cfg.LogLevel, logOpts)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	// --- Database ---
	db, err := database.ConnectPostgres(cfg.Postgres, zlog)
	if err != nil {
		zlog.Fatal("DB connection failed", zap.Error(err))
	}

	var locker services.Locker
	if cfg.RedisURL != "" {
		rdb, err := database.NewRedisClient(ctx, cfg.RedisURL, zlog)
		if err != nil {
			zlog.Fatal("Redis connection failed", zap.Error(err))
		}
		defer rdb.Close()
		hostname, _ := os.Hostname()
		locker = database.NewRedisLocker(rdb, hostname+"-"+uuid.NewString())
	} else {
		zlog.Warn("REDIS_URL not set, scheduled tasks are not deduplicated across replicas")
	}

	// --- Integrations ---
	var publisher services.EventPublisher
	switch cfg.EventBus {
	case "sns":
		publisher = awspkg.NewSNSEventPublisher(awsCfg, cfg.OrderEventsTopicARN, zlog)
	case "kafka":
		kp := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, zlog)
		defer kp.Close()
		publisher = kp
	}

	var storage services.FileStorage
	if cfg.UploadBucket != "" {
		storage = awspkg.NewS3Presigner(awsCfg, cfg.UploadBucket, cfg.UploadURLExpiry)
	}

	var cw *awspkg.MetricsClient
	if cfg.CloudWatchEnabled {
		cw = awspkg.NewMetricsClient(awsCfg, cfg.CloudWatchNamespace)
	}

	var whatsapp sender.WhatsAppSender
	if cfg.WhatsAppConfigured() {
		if ws, err := sender.NewWhatsAppSender(cfg.WhatsApp); err != nil {
			zlog.Warn("WhatsApp sender disabled", zap.Error(err))
		} else {
			whatsapp = ws
		}
	}
	var email sender.EmailSender
	if cfg.SMTPConfigured() {
		if es, err := sender.NewSMTPSender(cfg.SMTP); err != nil {
			zlog.Warn("SMTP sender disabled", zap.Error(err))
		} else {
			email = es
		}
	}

	// --- Dependency injection ---
	clock := services.NewSystemClock(cfg.Timezone)

	restaurantRepo := repository.NewGormRestaurantRepository(db)
	menuRepo := repository.NewGormMenuRepository(db)
	orderRepo := repository.NewGormOrderRepository(db)
	userRepo := repository.NewGormUserRepository(db)
	dispatchRepo := repository.NewGormDispatchRepository(db)
	motdRepo := repository.NewGormMotdRepository(db)

	availabilityService := services.NewAvailabilityService(restaurantRepo, zlog)
	restaurantService := services.NewRestaurantService(restaurantRepo, zlog)
	motdService := services.NewMotdService(motdRepo, restaurantRepo, clock, zlog)
	menuService := services.NewMenuService(menuRepo, restaurantRepo, storage, clock, zlog)
	orderService := services.NewOrderService(orderRepo, menuRepo, availabilityService, publisher, zlog)
	userService := services.NewUserService(userRepo, zlog)
	reportService := services.NewReportService(orderRepo, restaurantRepo, menuRepo, userRepo, clock, zlog)
	dispatchService := services.NewDispatchService(services.DispatchConfig{
		FrontendURL:       cfg.FrontendURL,
		ReminderDaysAhead: cfg.ReminderDaysAhead,
	}, services.DispatchDeps{
		Orders:      orderRepo,
		Restaurants: restaurantRepo,
		Menus:       menuRepo,
		Users:       userRepo,
		Records:     dispatchRepo,
		WhatsApp:    whatsapp,
		Email:       email,
		Clock:       clock,
		Logger:      zlog,
	})
	taskRunner := metrics.InstrumentTaskRunner(
		services.NewTaskRunner(dispatchService, locker, clock, zlog), cw, zlog,
	)

	controllers.RegisterValidators()
	r := routes.NewRouter(routes.Options{
		JWTSecret:          cfg.JWTSecret,
		TaskToken:          cfg.TaskToken,
		CORSOrigins:        cfg.CORSOrigins,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		RequestTimeout:     30 * time.Second,
		Metrics:            cw,
		Logger:             zlog,
	}, routes.Handlers{
		Restaurants: controllers.NewRestaurantController(restaurantService, availabilityService),
		Menus:       controllers.NewMenuController(menuService, clock),
		Orders:      controllers.NewOrderController(orderService, clock),
		Admin:       controllers.NewAdminController(reportService, orderService, dispatchService, clock, zlog),
		Users:       controllers.NewUserController(userService),
		Tasks:       controllers.NewTaskController(taskRunner),
		Motd:        controllers.NewMotdController(motdService),
	})

	// --- Background workers ---
	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()

	var sched *scheduler.Scheduler
	if cfg.SchedulerEnabled {
		reminderJob, err := scheduler.ParseJob(models.TaskDailyReminders, cfg.ReminderTime)
		if err != nil {
			zlog.Fatal("Invalid REMINDER_TIME", zap.Error(err))
		}
		summaryJob, err := scheduler.ParseJob(models.TaskRestaurantSummaries, cfg.SummaryTime)
		if err != nil {
			zlog.Fatal("Invalid RESTAURANT_SUMMARY_TIME", zap.Error(err))
		}
		sched = scheduler.New(taskRunner, clock.Location, zlog, reminderJob, summaryJob)
		sched.Start(workerCtx)
	}

	consumerDone := make(chan struct{})
	if cfg.TaskQueueURL != "" {
		taskConsumer := consumer.NewTaskConsumer(awspkg.NewSQSConsumer(awsCfg, cfg.TaskQueueURL, zlog), taskRunner, zlog)
		go func() {
			defer close(consumerDone)
			taskConsumer.Start(workerCtx)
		}()
	} else {
		close(consumerDone)
	}

	// --- HTTP server ---
	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		zlog.Info("Meal service started", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatal("server failed", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	<-ctx.Done()
	zlog.Info("Initiating graceful shutdown...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("Server shutdown error", zap.Error(err))
	}

	cancelWorkers()
	if sched != nil {
		sched.Wait()
	}
	<-consumerDone

	if err := database.Close(db); err != nil {
		zlog.Error("Database close error", zap.Error(err))
	}
	zlog.Info("Meal service stopped gracefully")
}
