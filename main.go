package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"crash-event-service/config"
	"crash-event-service/database"
	"crash-event-service/dispatch"
	"crash-event-service/handlers"
	"crash-event-service/logging"
	"crash-event-service/metrics"
	"crash-event-service/middleware"
	"crash-event-service/rabbitmq"
	"crash-event-service/service"
	"crash-event-service/version"

	"github.com/apex/log"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := config.Load()
	logging.Setup(cfg.LogLevel, cfg.LogFormat)

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	info := version.Get()
	log.WithFields(log.Fields{
		"version": info.Version,
		"commit":  info.Commit,
	}).Info("Starting crash event service")

	metrics.Register()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.InitSchema(ctx, db, cfg.EventLogTable); err != nil {
		log.Fatalf("Failed to initialize database schema: %v", err)
	}

	store := database.NewEventStore(db, cfg.StaticUserIdentifier, cfg.EventLogTable)
	var (
		publisher service.Publisher
		broker    handlers.BrokerStatus
	)
	if p := newPublisher(ctx, cfg); p != nil {
		publisher = p
		broker = p
		defer func() {
			if err := p.Close(); err != nil {
				log.Warnf("Failed to close RabbitMQ publisher: %v", err)
			}
		}()
	}
	svc := service.NewService(store, dispatch.NewEngine(nil), publisher, nil)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           setupRouter(svc, broker),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof("Starting HTTP server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Server forced to shutdown: %v", err)
	}
	log.Info("Server exited")
}

// newPublisher returns nil when notifications are disabled or the broker is
// unreachable; intake works without them.
func newPublisher(ctx context.Context, cfg *config.Config) *rabbitmq.Publisher {
	if !cfg.RabbitMQEnabled {
		log.Info("RabbitMQ notifications disabled")
		return nil
	}

	publisher, err := rabbitmq.NewPublisher(ctx, cfg.GetAMQPURL(), cfg.RabbitMQExchange, cfg.RabbitMQCrashEventRoutingKey)
	if err != nil {
		log.Warnf("Crash event notifications disabled: %v", err)
		return nil
	}
	return publisher
}

func setupRouter(svc handlers.EventService, broker handlers.BrokerStatus) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.Metrics())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CORS())
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	handlers.NewEventsHandler(svc).RegisterRoutes(router)

	router.GET("/health", handlers.NewHealthHandler(broker).HealthCheck)
	router.GET("/version", handlers.Version)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}
