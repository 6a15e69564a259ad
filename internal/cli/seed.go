package cli

import (
	"fmt"
	"time"

	"lms-grading-service/internal/config"
	"lms-grading-service/internal/infra/memory"
	"lms-grading-service/internal/infra/postgres"
	rediscache "lms-grading-service/internal/infra/redis"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewSeedCmd loads the YAML catalog into Postgres and drops stale cache entries.
func NewSeedCmd(configPath *string) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Upsert the course catalog into Postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			logger, err := config.NewLogger(cfg.Log)
			if err != nil {
				return err
			}
			defer logger.Sync()

			if file == "" {
				file = cfg.Catalog.File
			}
			catalog, err := config.LoadCatalog(file)
			if err != nil {
				return err
			}
			if err := runMigrations(cmd.Context(), cfg, logger); err != nil {
				return err
			}

			db := postgres.OpenDB(cfg.Postgres.URL)
			defer db.Close()
			if err := postgres.SeedCatalog(cmd.Context(), db, catalog.Courses, catalog.Quizzes); err != nil {
				return fmt.Errorf("seed catalog: %w", err)
			}
			logger.Info("catalog seeded",
				zap.String("file", file),
				zap.Int("courses", len(catalog.Courses)),
				zap.Int("quizzes", len(catalog.Quizzes)),
			)

			if cfg.Redis.Addr == "" {
				return nil
			}
			client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
			defer client.Close()
			loader := memory.NewStaticCatalog(catalog.Courses, catalog.Quizzes)
			cache := rediscache.NewQuizRepository(client, loader, config.TTLDuration(cfg.Catalog.TTL, 10*time.Minute), logger)
			for _, course := range catalog.Courses {
				if err := cache.InvalidateCourse(cmd.Context(), course.ID); err != nil {
					logger.Warn("invalidate cached course", zap.String("course_id", course.ID), zap.Error(err))
				}
			}
			for _, quiz := range catalog.Quizzes {
				if err := cache.Invalidate(cmd.Context(), quiz.ID); err != nil {
					logger.Warn("invalidate cached quiz", zap.String("quiz_id", quiz.ID), zap.Error(err))
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "catalog YAML to load (defaults to catalog.file)")
	return cmd
}
