package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"silvercare/common/database"
	"silvercare/common/logger"
	"silvercare/common/mqtt"
	commonredis "silvercare/common/redis"
	"silvercare/internal/config"
	httpapi "silvercare/internal/http"
	"silvercare/internal/notify"
	"silvercare/internal/repository"
	"silvercare/internal/service"
	"silvercare/internal/view"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "silvercare")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Storage: Postgres when reachable, memory otherwise.
	var (
		db           *sql.DB
		medsRepo     repository.MedicationsRepository
		contactsRepo repository.EmergencyContactsRepository
		feedbackRepo repository.FeedbackRepository
	)
	if cfg.DBEnabled {
		if d, err := database.NewPostgresDB(&cfg.Database); err == nil {
			if err := repository.EnsureSchema(ctx, d); err != nil {
				log.Warn("failed to ensure schema, falling back to memory", zap.Error(err))
				_ = database.Close(d)
			} else {
				db = d
				log.Info("DB enabled for silvercare")
			}
		} else {
			log.Warn("DB enabled but connection failed, falling back to memory", zap.Error(err))
		}
	}
	if db != nil {
		medsRepo = repository.NewPostgresMedicationsRepository(db)
		contactsRepo = repository.NewPostgresEmergencyContactsRepository(db)
		feedbackRepo = repository.NewPostgresFeedbackRepository(db)
	} else {
		meds := repository.NewMemoryMedicationsRepository()
		contacts := repository.NewMemoryEmergencyContactsRepository()
		if cfg.SeedDemo {
			if err := repository.SeedDemo(ctx, meds, contacts); err != nil {
				log.Warn("failed to seed demo data", zap.Error(err))
			}
		}
		medsRepo, contactsRepo, feedbackRepo = meds, contacts, repository.NewMemoryFeedbackRepository()
	}
	defer database.Close(db)

	// SOS history: Redis when reachable, memory otherwise.
	var (
		redisClient *redis.Client
		events      service.SosEventRecorder
	)
	if cfg.RedisEnabled {
		c := commonredis.NewRedisClient(&cfg.Redis)
		pingCtx, pingCancel := context.WithTimeout(ctx, 3*time.Second)
		err := commonredis.Ping(pingCtx, c)
		pingCancel()
		if err == nil {
			redisClient = c
			events = service.NewRedisSosEventRecorder(c, cfg.SOS.EventTTL, cfg.SOS.StreamMaxLen)
		} else {
			log.Warn("redis unavailable, keeping sos events in memory", zap.Error(err))
			_ = c.Close()
		}
	}
	if events == nil {
		events = service.NewMemorySosEventRecorder(cfg.SOS.EventTTL, 1000)
	}
	defer commonredis.Close(redisClient)

	// Notifications.
	contactSender, err := notify.NewContactSender(ctx, cfg.SMS, log)
	if err != nil {
		log.Fatal("invalid sms configuration", zap.Error(err))
	}
	var broadcast notify.Sender
	logSender := notify.NewLogSender(log)
	reminderSender := notify.Sender(logSender)
	if cfg.MQTT.Enabled {
		mc, err := mqtt.NewClient(&cfg.MQTT.MQTTConfig, log)
		if err != nil {
			log.Warn("mqtt unavailable, alerts are log-only", zap.Error(err))
		} else {
			defer mc.Disconnect()
			mqttSender := notify.NewMQTTSender(mc, cfg.MQTT.TopicPrefix)
			broadcast = mqttSender
			reminderSender = notify.MultiSender{logSender, mqttSender}
		}
	}

	// Services.
	medSvc := service.NewMedicationService(medsRepo, log)
	dispatcher := service.NewSosDispatcher(contactsRepo, contactSender, broadcast, events, log)

	var chatProvider service.ChatProvider
	if cfg.Chat.APIKey != "" {
		chatProvider = service.NewOpenAIProvider(cfg.Chat)
	} else {
		log.Info("no chat API key configured, using the simulated assistant")
	}
	chat := service.NewChatProxy(chatProvider, cfg.Chat.Timeout, log)

	providers, err := service.NewProviderDirectory(cfg.Maps.APIKey, cfg.Maps.RadiusMeters, log)
	if err != nil {
		log.Warn("maps client unavailable, using the static directory", zap.Error(err))
		providers, _ = service.NewProviderDirectory("", cfg.Maps.RadiusMeters, log)
	}
	feedbackSvc := service.NewFeedbackService(feedbackRepo, log)

	if cfg.Reminder.Enabled {
		loc, err := service.LoadLocation(cfg.Reminder.Location)
		if err != nil {
			log.Fatal("invalid reminder configuration", zap.Error(err))
		}
		reminders := service.NewReminderService(medsRepo, reminderSender, loc, log)
		if err := reminders.Start(cfg.Reminder.Spec); err != nil {
			log.Fatal("invalid reminder configuration", zap.Error(err))
		}
		defer reminders.Stop()
	}

	sessions := view.NewSessions(view.Deps{
		Medications:   medSvc,
		Sos:           dispatcher,
		Chat:          chat,
		Providers:     providers,
		Feedback:      feedbackSvc,
		SOSDelay:      cfg.SOS.Delay,
		LocationWait:  cfg.SOS.LocationWait,
		NotifyTimeout: 10 * time.Second,
		Logger:        log,
	})
	defer sessions.Close()

	handler, err := httpapi.NewHandler(httpapi.Deps{
		Medications:  medSvc,
		Sos:          dispatcher,
		Contacts:     contactsRepo,
		Chat:         chat,
		Providers:    providers,
		Feedback:     feedbackSvc,
		Sessions:     sessions,
		DB:           db,
		Redis:        redisClient,
		MaxBodyBytes: cfg.HTTP.MaxBodyBytes,
		RateLimit:    cfg.RateLimit,
		Logger:       log,
	})
	if err != nil {
		log.Fatal("failed to build HTTP handler", zap.Error(err))
	}

	srv := service.NewServer(cfg.HTTP.Addr, handler, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			log.Error("HTTP server failed", zap.Error(err))
		}
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		log.Error("failed to stop HTTP server", zap.Error(err))
	}
}
