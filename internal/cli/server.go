package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lms-grading-service/internal/app"
	"lms-grading-service/internal/config"
	"lms-grading-service/internal/infra/memory"
	"lms-grading-service/internal/infra/postgres"
	rediscache "lms-grading-service/internal/infra/redis"
	transport "lms-grading-service/internal/transport/http"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the grading server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.Auth.JWTSecret == "" {
		return errors.New("auth.jwtSecret (or JWT_SECRET) must be set")
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	catalog, err := loadCatalog(cfg, logger)
	if err != nil {
		return err
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
	}

	var loader app.CatalogLoader = memory.NewStaticCatalog(catalog.Courses, catalog.Quizzes)
	var results app.ResultStore
	if cfg.Postgres.URL != "" {
		if err := runMigrations(ctx, cfg, logger); err != nil {
			return err
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
		loader = postgres.NewCatalogLoader(pool)

		db := postgres.OpenDB(cfg.Postgres.URL)
		defer db.Close()
		results = postgres.NewResultStore(db)
	}

	catalogTTL := config.TTLDuration(cfg.Catalog.TTL, 10*time.Minute)
	var repo interface {
		app.QuizRepository
		app.CourseCatalog
	}
	if redisClient != nil {
		repo = rediscache.NewQuizRepository(redisClient, loader, catalogTTL, logger)
	} else {
		repo = memory.NewQuizRepository(loader, catalogTTL)
	}

	switch {
	case results != nil:
		logger.Info("storing results in postgres")
	case redisClient != nil:
		results = rediscache.NewResultStore(redisClient)
		logger.Info("storing results in redis")
	default:
		results = memory.NewResultStore()
		logger.Warn("storing results in memory; they are lost on restart")
	}

	feed := app.NewResultFeed()
	service := app.NewQuizService(repo, repo, results, logger.Named("grading"),
		app.WithPublisher(feed),
		app.WithDeadlineGrace(config.TTLDuration(cfg.Grading.DeadlineGrace, 0)),
	)
	aggregator := app.NewResultAggregator(results, repo, memory.NewUserDirectory(catalog.Users))

	if !cfg.Log.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	handler := transport.NewHandler(service, aggregator, feed, logger.Named("ws"))
	router := transport.NewRouter(handler, transport.NewAuthenticator(cfg.Auth.JWTSecret, cfg.Auth.Issuer), logger.Named("http"), cfg.Server.CORSOrigins)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      router,
		ReadTimeout:  config.TTLDuration(cfg.Server.ReadTimeout, 15*time.Second),
		WriteTimeout: config.TTLDuration(cfg.Server.WriteTimeout, 15*time.Second),
	}

	go func() {
		logger.Info("starting grading service", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("failed to start server", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		logger.Info("shutting down server")
	case <-ctx.Done():
		logger.Info("context canceled, shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// loadCatalog reads the configured catalog file, falling back to the built-in sample.
func loadCatalog(cfg config.Config, logger *zap.Logger) (config.Catalog, error) {
	if cfg.Catalog.File == "" {
		logger.Info("no catalog file configured, using sample catalog")
		return sampleCatalog(), nil
	}
	catalog, err := config.LoadCatalog(cfg.Catalog.File)
	if errors.Is(err, os.ErrNotExist) {
		logger.Warn("catalog file missing, using sample catalog", zap.String("file", cfg.Catalog.File))
		return sampleCatalog(), nil
	}
	return catalog, err
}
