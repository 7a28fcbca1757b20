package main

import (
	"context"
	"fmt"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/avenside/inkpost-be/internal/api"
	"github.com/avenside/inkpost-be/internal/auth"
	"github.com/avenside/inkpost-be/internal/config"
	"github.com/avenside/inkpost-be/internal/database"
	"github.com/avenside/inkpost-be/internal/events"
	"github.com/avenside/inkpost-be/internal/logger"
	"github.com/avenside/inkpost-be/internal/mail"
	"github.com/avenside/inkpost-be/internal/monitoring"
	"github.com/avenside/inkpost-be/internal/notify"
	"github.com/avenside/inkpost-be/internal/relay"
	"github.com/avenside/inkpost-be/internal/services"
	"github.com/avenside/inkpost-be/internal/websocket"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		stdlog.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Init(cfg.LogFile)

	if cfg.JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET is empty; tokens are signed with an empty key")
	}
	auth.Init(cfg.JWTSecret)

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Set up mail transport
	mailer, err := mail.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize mail transport")
	}

	// Set up WebSocket Hub
	hub := websocket.NewHub()
	go hub.Run()

	// Set up the event bus and services. Services publish lifecycle
	// events; all handler bindings are made explicitly below.
	bus := events.NewBus()
	userService := services.NewUserService(db, bus)
	postService := services.NewPostService(db, bus)
	activityService := services.NewActivityService(db)

	notify.Register(bus,
		notify.NewWelcomeMailer(mailer, cfg.MailFrom),
		notify.NewDeletionNotice(os.Stdout),
		notify.NewActivityRecorder(activityService),
		notify.NewBroadcaster(hub),
	)

	// Optional Kafka relay for downstream consumers
	var kafkaRelay *relay.KafkaRelay
	if len(cfg.KafkaBrokers) > 0 {
		kafkaRelay = relay.NewKafkaRelay(relay.NewWriter(cfg.KafkaBrokers, cfg.KafkaTopic))
		kafkaRelay.Register(bus)
		defer kafkaRelay.Close()
		log.Info().Strs("brokers", cfg.KafkaBrokers).Str("topic", cfg.KafkaTopic).Msg("Kafka event relay enabled")
	}

	// Set up and run the background activity log pruner
	pruner, err := monitoring.NewPruner(activityService, cfg.PruneSchedule, cfg.RetentionDays)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize pruner")
	}
	go pruner.Run()

	// Set up router
	router := api.NewRouter(hub, userService, postService, activityService)

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe()")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	pruner.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
