package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	redis "github.com/redis/go-redis/v9"

	"github.com/noah-isme/backend-lapak/internal/config"
	"github.com/noah-isme/backend-lapak/internal/customer"
	"github.com/noah-isme/backend-lapak/internal/discount"
	"github.com/noah-isme/backend-lapak/internal/health"
	"github.com/noah-isme/backend-lapak/internal/holiday"
	"github.com/noah-isme/backend-lapak/internal/invoice"
	"github.com/noah-isme/backend-lapak/internal/item"
	"github.com/noah-isme/backend-lapak/internal/merchant"
	"github.com/noah-isme/backend-lapak/internal/obs"
	"github.com/noah-isme/backend-lapak/internal/ratelimit"
	"github.com/noah-isme/backend-lapak/internal/reports"
	"github.com/noah-isme/backend-lapak/internal/resilience"
	"github.com/noah-isme/backend-lapak/internal/revenue"
	"github.com/noah-isme/backend-lapak/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logFormat := envOrDefault("OBS_LOG_FORMAT", "json")
	logLevel := envOrDefault("OBS_LOG_LEVEL", "info")
	logger := obs.NewLogger(logFormat, logLevel).With().Str("env", cfg.AppEnv).Logger()

	metricsNamespace := envOrDefault("OBS_METRICS_NAMESPACE", "lapak")
	metricsEnabled := envBool("OBS_ENABLE_PROMETHEUS", true)

	if envBool("DB_MIGRATE_ON_START", true) {
		if err := store.RunMigrations(cfg.DatabaseURL); err != nil {
			logger.Fatal().Err(err).Msg("run migrations")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse database config")
	}
	if poolConfig.ConnConfig.RuntimeParams == nil {
		poolConfig.ConnConfig.RuntimeParams = map[string]string{}
	}
	poolConfig.ConnConfig.RuntimeParams["application_name"] = "lapak-api"

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect database")
	}
	defer pool.Close()

	db := store.New(pool)
	if err := db.Ping(ctx, 5*time.Second); err != nil {
		logger.Fatal().Err(err).Msg("ping database")
	}

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse redis url")
	}
	redisClient := redis.NewClient(redisOpts)
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error().Err(err).Msg("close redis")
		}
	}()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal().Err(err).Msg("ping redis")
	}

	validate := validator.New()

	calc := revenue.Calculator{
		Entries:   store.RevenueSource{DB: db},
		Discounts: store.RevenueSource{DB: db},
		Log:       logger,
	}

	merchantHandler := &merchant.Handler{DB: db, Calc: calc, Validate: validate}
	customerHandler := &customer.Handler{
		DB:             db,
		Validate:       validate,
		DefaultPerPage: cfg.DefaultPerPage,
		MaxPerPage:     cfg.MaxPerPage,
	}
	itemHandler := &item.Handler{DB: db, Validate: validate}
	discountHandler := &discount.Handler{DB: db, Validate: validate}
	invoiceHandler := &invoice.Handler{DB: db, Calc: calc, Validate: validate}

	reportSvc := &reports.Service{
		Q:            db,
		R:            redisClient,
		TTL:          cfg.ReportCacheTTL,
		DefaultLimit: int32(cfg.DefaultPerPage),
	}
	reportHandler := &reports.Handler{Svc: reportSvc}

	var holidayProvider holiday.Provider
	switch envOrDefault("HOLIDAY_FEED_PROVIDER", "nager") {
	case "mock":
		holidayProvider = holiday.MockProvider{}
	default:
		holidayProvider = holiday.NagerClient{
			BaseURL: cfg.HolidayBaseURL,
			HTTP: resilience.HTTPClient{
				Client:      &http.Client{Timeout: cfg.HolidayTimeout},
				Breaker:     resilience.NewBreaker(5, 0.5, 30*time.Second),
				BaseBackoff: 100 * time.Millisecond,
				MaxAttempts: 3,
				Jitter:      0.2,
				Timeout:     cfg.HolidayTimeout,
			},
		}
	}
	holidayHandler := holiday.Handler{Svc: holiday.Service{
		Provider: holidayProvider,
		Country:  cfg.HolidayCountry,
	}}

	limiter := ratelimit.Handler{
		Limiter: ratelimit.Limiter{Client: redisClient, Prefix: "rl"},
		Config: ratelimit.Config{
			Key:    clientKey,
			Window: cfg.RateLimitWindow,
			Max:    cfg.RateLimitMax,
		},
		OnError: func(err error) {
			logger.Error().Err(err).Msg("rate limiter unavailable")
		},
	}

	var httpMetrics *obs.HTTPMetrics
	if metricsEnabled {
		httpMetrics = obs.NewHTTPMetrics(metricsNamespace, nil, nil)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(obs.RoutePatternMiddleware)
	if metricsEnabled && httpMetrics != nil {
		r.Use(obs.HTTPObs{Metrics: httpMetrics}.Middleware)
	}
	r.Use(obs.RequestLogger{Logger: logger}.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins(cfg),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	healthHandler := health.Handler{
		Checker:      readinessChecker{db: db, redis: redisClient},
		DBTimeout:    envDurationMillis("HEALTH_READY_DB_TIMEOUT_MS", 500),
		RedisTimeout: envDurationMillis("HEALTH_READY_REDIS_TIMEOUT_MS", 300),
	}
	r.Get("/health/live", healthHandler.Live)
	r.Get("/health/ready", healthHandler.Ready)

	r.Route("/api/v1", func(v chi.Router) {
		v.Use(limiter.Middleware)

		v.Route("/merchants", func(m chi.Router) {
			m.Get("/", merchantHandler.List)
			m.Post("/", merchantHandler.Create)
			m.Route("/{merchantID}", func(one chi.Router) {
				one.Get("/", merchantHandler.Get)
				one.Put("/", merchantHandler.Update)
				one.Patch("/status", merchantHandler.SetStatus)
				one.Delete("/", merchantHandler.Delete)

				one.Get("/invoices/{invoiceID}/revenue", merchantHandler.InvoiceRevenue)

				one.Get("/items", itemHandler.ListByMerchant)
				one.Post("/items", itemHandler.Create)

				one.Get("/discounts", discountHandler.ListByMerchant)
				one.Post("/discounts", discountHandler.Create)

				one.Route("/reports", func(rep chi.Router) {
					rep.Get("/top_items", reportHandler.TopItems)
					rep.Get("/favorite_customers", reportHandler.FavoriteCustomers)
					rep.Get("/best_day", reportHandler.BestDay)
				})
			})
		})

		v.Route("/items/{itemID}", func(i chi.Router) {
			i.Get("/", itemHandler.Get)
			i.Put("/", itemHandler.Update)
			i.Patch("/status", itemHandler.SetStatus)
		})

		v.Route("/discounts/{discountID}", func(d chi.Router) {
			d.Get("/", discountHandler.Get)
			d.Put("/", discountHandler.Update)
			d.Delete("/", discountHandler.Delete)
		})

		v.Route("/customers", func(c chi.Router) {
			c.Get("/", customerHandler.List)
			c.Post("/", customerHandler.Create)
			c.Get("/{customerID}", customerHandler.Get)
		})

		v.Route("/invoices", func(in chi.Router) {
			in.Get("/", invoiceHandler.List)
			in.Get("/incomplete", invoiceHandler.Incomplete)
			in.Post("/", invoiceHandler.Create)
			in.Route("/{invoiceID}", func(one chi.Router) {
				one.Get("/", invoiceHandler.Get)
				one.Patch("/status", invoiceHandler.SetStatus)
				one.Post("/line_items", invoiceHandler.AddLineItem)
				one.Post("/transactions", invoiceHandler.RecordTransaction)
				one.Get("/revenue", invoiceHandler.Revenue)
			})
		})

		v.Patch("/line_items/{lineItemID}", invoiceHandler.UpdateLineItem)

		v.Get("/reports/top_merchants", reportHandler.TopMerchants)
		v.Get("/holidays/next", holidayHandler.Next)
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	shutdownErr := make(chan error, 1)
	go func() {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		<-stop

		logger.Info().Msg("shutting down")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		shutdownErr <- srv.Shutdown(shutdownCtx)
	}()

	logger.Info().Str("addr", srv.Addr).Msg("server starting")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("server exited unexpectedly")
	}
	if err := <-shutdownErr; err != nil {
		logger.Error().Err(err).Msg("shutdown")
	}
}

func allowedOrigins(cfg *config.Config) []string {
	if len(cfg.CORSAllowedOrigins) == 0 {
		return []string{"*"}
	}
	return cfg.CORSAllowedOrigins
}

// clientKey buckets rate-limit counters per client IP. RealIP middleware has
// already rewritten RemoteAddr from the forwarding headers.
func clientKey(r *http.Request) string {
	host := r.RemoteAddr
	if i := strings.LastIndex(host, ":"); i > 0 {
		host = host[:i]
	}
	return host
}

type readinessChecker struct {
	db    *store.Store
	redis *redis.Client
}

func (c readinessChecker) PingDB(ctx context.Context, timeout time.Duration) error {
	if c.db == nil {
		return errors.New("db not configured")
	}
	return c.db.Ping(ctx, timeout)
}

func (c readinessChecker) PingRedis(ctx context.Context, timeout time.Duration) error {
	if c.redis == nil {
		return errors.New("redis not configured")
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return c.redis.Ping(ctx).Err()
}

func envOrDefault(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		trimmed := strings.TrimSpace(val)
		if trimmed != "" {
			return trimmed
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if val, ok := os.LookupEnv(key); ok {
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "1", "t", "true", "yes", "on":
			return true
		case "0", "f", "false", "no", "off":
			return false
		}
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(strings.TrimSpace(val)); err == nil {
			return parsed
		}
	}
	return fallback
}

func envDurationMillis(key string, fallback int) time.Duration {
	return time.Duration(envInt(key, fallback)) * time.Millisecond
}
