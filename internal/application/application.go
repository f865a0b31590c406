package application

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/warrantydesk/tracking-service/internal/chat"
	"github.com/warrantydesk/tracking-service/internal/config"
	"github.com/warrantydesk/tracking-service/internal/database"
	"github.com/warrantydesk/tracking-service/internal/handler"
	"github.com/warrantydesk/tracking-service/internal/kafka"
	"github.com/warrantydesk/tracking-service/internal/ratelimit"
	"github.com/warrantydesk/tracking-service/internal/router"
	"github.com/warrantydesk/tracking-service/internal/service"
)

// API is the application in api mode: the public HTTP server plus its
// outbound clients.
type API struct {
	cfg      *config.Config
	httpSrv  *http.Server
	producer *kafka.Producer
}

func NewAPI(cfg *config.Config) (*API, error) {
	if err := cfg.ValidateAPI(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := database.MigrateUp(cfg.DatabaseURL()); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	db, err := database.Open(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	ticketSvc := service.NewTicketService(db)
	limiter := ratelimit.New(limiterStore(cfg), cfg.RateLimit.MaxRequests, cfg.RateLimit.Window)
	producer := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopicTracking)
	relay := chat.NewClient(cfg.ChatWebhookURL)

	ticketHandler := handler.NewTicketHandler(ticketSvc, limiter, producer)
	chatHandler := handler.NewChatHandler(relay)

	httpSrv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router.New(ticketHandler, chatHandler),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return &API{
		cfg:      cfg,
		httpSrv:  httpSrv,
		producer: producer,
	}, nil
}

// limiterStore picks the shared Redis store when configured, otherwise the
// per-process in-memory map.
func limiterStore(cfg *config.Config) ratelimit.Store {
	if cfg.RateLimit.RedisAddr == "" {
		return ratelimit.NewMemoryStore()
	}
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RateLimit.RedisAddr})
	log.Printf("ratelimit: using redis store at %s", cfg.RateLimit.RedisAddr)
	return ratelimit.NewRedisStore(rdb)
}

// Run starts the HTTP server and blocks until ctx is canceled.
func (a *API) Run(ctx context.Context) error {
	host := a.cfg.AppHost
	if host == "0.0.0.0" {
		host = "localhost"
	}
	base := "http://" + host + ":" + a.cfg.HTTPPort
	log.Printf("HTTP server listening on %s", a.httpSrv.Addr)
	log.Printf("  Swagger UI:    %s/swagger", base)
	log.Printf("  Swagger spec:  %s/swagger/openapi.json", base)
	log.Printf("  Health:        %s/health", base)
	log.Printf("  Ready:         %s/ready", base)
	log.Printf("  Lookup:        %s/track/{trackingCode}", base)
	log.Printf("  Chat relay:    %s/chat", base)

	go func() {
		if err := a.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("http: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	if err := a.producer.Close(); err != nil {
		log.Printf("kafka: close: %v", err)
	}
	return nil
}
