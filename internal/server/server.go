// Package server wires the relay's components into a gin router.
package server

import (
	"context"
	"net/http"
	"path/filepath"

	"github.com/cyphera/address-relay/internal/client/geo"
	"github.com/cyphera/address-relay/internal/config"
	"github.com/cyphera/address-relay/internal/events"
	"github.com/cyphera/address-relay/internal/form"
	"github.com/cyphera/address-relay/internal/handlers"
	"github.com/cyphera/address-relay/internal/interfaces"
	"github.com/cyphera/address-relay/internal/logger"
	"github.com/cyphera/address-relay/internal/metrics"
	"github.com/cyphera/address-relay/internal/middleware"
	"github.com/cyphera/address-relay/internal/outbound"
	"github.com/cyphera/address-relay/internal/webhook"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Components are the collaborators behind the HTTP surface.
type Components struct {
	Store     webhook.Store
	Session   *form.Session
	Publisher interfaces.EventPublisher
	Registry  *prometheus.Registry
	Metrics   *metrics.Metrics
}

// Server owns the router and everything that must be closed with it.
type Server struct {
	Router     *gin.Engine
	Components Components

	cancel  context.CancelFunc
	closers []func()
}

// New builds every component from cfg and returns a ready router.
func New(cfg *config.Config) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.NewMetrics(registry)

	s := &Server{}

	publisher, closePublisher, err := newPublisher(context.Background(), cfg)
	if err != nil {
		return nil, err
	}
	s.closers = append(s.closers, closePublisher)

	locator := geo.NewLocationClient(geo.Config{
		BaseURL:       cfg.LocationAPIURL,
		Timeout:       cfg.LookupTimeout,
		RatePerSecond: cfg.LookupRatePerSecond,
		Metrics:       m,
	})
	suggester := geo.NewSuggestionClient(geo.Config{
		BaseURL:       cfg.SuggestionAPIURL,
		UserAgent:     cfg.SuggestionUserAgent,
		Timeout:       cfg.LookupTimeout,
		RatePerSecond: cfg.LookupRatePerSecond,
		Metrics:       m,
	})
	dispatcher := outbound.NewAutomationClient(cfg.AutomationURL, cfg.OutboundTimeout, m)

	session := form.NewSession(form.Config{
		StreetDelay:   cfg.StreetDebounce,
		ZipDelay:      cfg.ZipDebounce,
		BlurGrace:     cfg.BlurGrace,
		LookupTimeout: cfg.LookupTimeout,
	}, form.Dependencies{
		Locator:    locator,
		Suggester:  suggester,
		Dispatcher: dispatcher,
		Publisher:  publisher,
		Metrics:    m,
	})
	s.closers = append(s.closers, session.Close)

	s.Components = Components{
		Store:     webhook.NewMemoryStore(),
		Session:   session,
		Publisher: publisher,
		Registry:  registry,
		Metrics:   m,
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.Router = NewRouter(ctx, cfg, s.Components)

	return s, nil
}

// Close releases background resources.
func (s *Server) Close() {
	if s.cancel != nil {
		s.cancel()
	}
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

// newPublisher picks the event sink: SQS when a queue URL is set, then
// NATS, then none.
func newPublisher(ctx context.Context, cfg *config.Config) (interfaces.EventPublisher, func(), error) {
	switch {
	case cfg.SQSQueueURL != "":
		sqsPublisher, err := events.NewSQSPublisher(ctx, cfg.SQSQueueURL)
		if err != nil {
			return nil, nil, errors.Wrap(err, "failed to create SQS publisher")
		}
		logger.Info("Publishing relay events to SQS", zap.String("queue_url", cfg.SQSQueueURL))
		return sqsPublisher, sqsPublisher.Close, nil
	case cfg.NATSURL != "":
		natsPublisher, err := events.Connect(cfg.NATSURL)
		if err != nil {
			return nil, nil, errors.Wrap(err, "failed to connect to NATS")
		}
		logger.Info("Publishing relay events to NATS", zap.String("url", cfg.NATSURL))
		return natsPublisher, natsPublisher.Close, nil
	default:
		return events.NoopPublisher{}, events.NoopPublisher{}.Close, nil
	}
}

// NewRouter registers every route on a new gin engine. ctx bounds background
// work owned by the router, such as rate limiter cleanup.
func NewRouter(ctx context.Context, cfg *config.Config, c Components) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CorrelationID())
	router.Use(middleware.RequestLogging(cfg.IsDevelopment()))
	router.Use(configureCORS(cfg.CORS))

	healthHandler := handlers.NewHealthHandler()
	webhookHandler := handlers.NewWebhookHandler(c.Store, c.Publisher, c.Metrics)
	formHandler := handlers.NewFormHandler(c.Session, c.Store)

	router.GET("/health", healthHandler.Health)
	if c.Registry != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(c.Registry, promhttp.HandlerOpts{})))
	}

	webhookLimiter := middleware.NewRateLimiter(ctx, cfg.WebhookRatePerSecond, cfg.WebhookRateBurst)
	router.POST("/webhook", webhookLimiter.Middleware(), webhookHandler.Receive)
	router.GET("/api/webhook-data", webhookHandler.List)

	v1 := router.Group("/api/v1")
	{
		f := v1.Group("/form")
		f.GET("", formHandler.Get)
		f.POST("/reset", formHandler.Reset)
		f.POST("/submit", formHandler.Submit)

		subs := f.Group("/subscriptions/:id")
		subs.POST("/toggle", formHandler.Toggle)
		subs.PATCH("/address", formHandler.SetField)
		subs.POST("/suggestions/blur", formHandler.BlurSuggestions)
		subs.POST("/suggestions/:index/select", formHandler.SelectSuggestion)
	}

	if cfg.StaticDir != "" {
		router.Static("/static", cfg.StaticDir)
		router.StaticFile("/", filepath.Join(cfg.StaticDir, "index.html"))
	}

	router.NoRoute(func(ctx *gin.Context) {
		ctx.JSON(http.StatusNotFound, handlers.ErrorResponse{Error: "Not found"})
	})

	return router
}

// configureCORS returns a configured CORS middleware
func configureCORS(c config.CORSConfig) gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = c.AllowedOrigins
	if len(corsConfig.AllowOrigins) == 0 {
		corsConfig.AllowOrigins = []string{"http://localhost:3000"}
	}
	if len(c.AllowedMethods) > 0 {
		corsConfig.AllowMethods = c.AllowedMethods
	}
	if len(c.AllowedHeaders) > 0 {
		corsConfig.AllowHeaders = c.AllowedHeaders
	}
	corsConfig.ExposeHeaders = []string{middleware.CorrelationIDHeader}
	corsConfig.AllowCredentials = c.AllowCredentials
	return cors.New(corsConfig)
}
