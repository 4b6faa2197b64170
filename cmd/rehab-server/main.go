package main

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rehab/rehab/internal/config"
	"github.com/rehab/rehab/internal/domain/alert"
	"github.com/rehab/rehab/internal/domain/protocol"
	"github.com/rehab/rehab/internal/domain/redflag"
	"github.com/rehab/rehab/internal/domain/risk"
	"github.com/rehab/rehab/internal/domain/screening"
	"github.com/rehab/rehab/internal/platform/auth"
	"github.com/rehab/rehab/internal/platform/cache"
	"github.com/rehab/rehab/internal/platform/db"
	"github.com/rehab/rehab/internal/platform/events"
	"github.com/rehab/rehab/internal/platform/middleware"
	"github.com/rehab/rehab/migrations"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "rehab-server",
		Short: "Rehab clinical risk and red-flag API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

// migrationSource returns the embedded migrations unless a directory is given.
func migrationSource(dir string) fs.FS {
	if dir == "" {
		return migrations.FS
	}
	return os.DirFS(dir)
}

func openPool(ctx context.Context) (*pgxpool.Pool, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	// migrate up
	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			ctx := context.Background()
			pool, err := openPool(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			count, err := db.NewMigrator(pool, migrationSource(dir)).Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "", "Path to a migrations directory (defaults to the embedded set)")
	cmd.AddCommand(upCmd)

	// migrate status
	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			ctx := context.Background()
			pool, err := openPool(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			statuses, err := db.NewMigrator(pool, migrationSource(dir)).Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			fmt.Println("---------- ---------------------------------------- ---------- --------------------")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "", "Path to a migrations directory (defaults to the embedded set)")
	cmd.AddCommand(statusCmd)

	return cmd
}

func newLogger(cfg *config.Config) zerolog.Logger {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if cfg.IsDev() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	return logger.Level(cfg.Level())
}

// newPublisher returns a Kafka publisher, or a no-op one when no brokers are
// configured.
func newPublisher(cfg *config.Config) events.Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		return events.Nop{}
	}
	return events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaAlertTopic)
}

func rateLimitConfig(cfg *config.Config) middleware.RateLimitConfig {
	rl := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rl.RequestsPerSecond <= 0 || rl.BurstSize <= 0 {
		rl = middleware.DefaultRateLimitConfig()
	}
	return rl
}

// deps are the external connections the router is built over. Pool and rdb
// may be nil; a nil rdb disables red-flag caching.
type deps struct {
	pool      *pgxpool.Pool
	rdb       *redis.Client
	publisher events.Publisher
}

func newRouter(cfg *config.Config, d deps, logger zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID", "Accept-Language"},
	}))
	e.Use(middleware.RequestTimeout(cfg.RequestTimeout))

	// Health check
	probes := map[string]db.Probe{}
	if d.rdb != nil {
		probes["redis"] = cache.Probe(d.rdb)
	}
	e.GET("/health", db.HealthHandler(d.pool, probes))

	jwtCfg := auth.JWTConfig{
		Issuer:     cfg.AuthIssuer,
		Audience:   cfg.AuthAudience,
		SigningKey: []byte(cfg.AuthSigningKey),
	}
	authMW := auth.JWTMiddleware(jwtCfg)
	if cfg.IsDev() {
		authMW = auth.DevAuthMiddleware(jwtCfg)
	}

	apiV1 := e.Group("/api/v1", authMW)
	apiV1.Use(middleware.RateLimit(rateLimitConfig(cfg)))

	// Protocols and red flags
	protocolSvc := protocol.NewService(protocol.NewRepoPG(d.pool))
	var checker redflag.Checker = redflag.NewClassifier(protocol.NewRedFlagLookup(protocolSvc), logger)
	if d.rdb != nil {
		checker = redflag.NewCachedChecker(checker, d.rdb, cfg.RedFlagCacheTTL, logger)
	}

	// Alerts
	alertSvc := alert.NewService(alert.NewRepoPG(d.pool), d.publisher, logger)

	// Risk
	engine := risk.NewEngine(
		risk.NewHistoryRepoPG(d.pool),
		risk.NewAssessmentRepoPG(d.pool),
		logger,
		risk.WithWeights(risk.WeightsFromSlice(cfg.Weights())),
		risk.WithObserver(alertSvc),
		risk.WithLanguage(cfg.RiskLocale),
	)
	riskSvc := risk.NewService(engine, risk.NewAssessmentRepoPG(d.pool), cfg.AlertRecent)

	redflag.NewHandler(checker, alertSvc, logger).RegisterRoutes(apiV1)
	screening.NewHandler().RegisterRoutes(apiV1)
	protocol.NewHandler(protocolSvc).RegisterRoutes(apiV1)
	risk.NewHandler(riskSvc).RegisterRoutes(apiV1)
	alert.NewHandler(alertSvc).RegisterRoutes(apiV1)

	return e
}

func runServer() error {
	// Config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := newLogger(cfg)
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	// Database
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// Redis is optional; red-flag checks run uncached without it.
	var rdb *redis.Client
	if cfg.RedisURL != "" {
		rdb, err = cache.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			logger.Warn().Err(err).Msg("redis unavailable, red flag cache disabled")
			rdb = nil
		} else {
			defer rdb.Close()
		}
	}

	publisher := newPublisher(cfg)
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Warn().Err(err).Msg("close event publisher")
		}
	}()

	e := newRouter(cfg, deps{pool: pool, rdb: rdb, publisher: publisher}, logger)

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
