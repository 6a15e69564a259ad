package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"lms-grading-service/internal/domain"
)

func TestLoadAppliesEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
server:
  port: "9090"
redis:
  addr: "localhost:6379"
auth:
  jwtSecret: from-file
catalog:
  ttl: 5m
log:
  level: debug
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("DATABASE_URL", "postgres://example")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "9090" || cfg.Redis.Addr != "localhost:6379" || cfg.Log.Level != "debug" {
		t.Fatalf("file values not loaded: %+v", cfg)
	}
	if cfg.Auth.JWTSecret != "from-env" || cfg.Redis.DB != 3 || cfg.Postgres.URL != "postgres://example" {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
	if got := TTLDuration(cfg.Catalog.TTL, time.Minute); got != 5*time.Minute {
		t.Fatalf("ttl = %v", got)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not exist error, got %v", err)
	}
}

func TestTTLDurationFallbacks(t *testing.T) {
	if got := TTLDuration("", 7*time.Second); got != 7*time.Second {
		t.Fatalf("empty: %v", got)
	}
	if got := TTLDuration("garbage", 7*time.Second); got != 7*time.Second {
		t.Fatalf("garbage: %v", got)
	}
	if got := TTLDuration("30s", 0); got != 30*time.Second {
		t.Fatalf("30s: %v", got)
	}
}

func TestLoadShippedFiles(t *testing.T) {
	if _, err := Load("../../config/config.yaml"); err != nil {
		t.Fatalf("load shipped config: %v", err)
	}
	catalog, err := LoadCatalog("../../config/catalog.yaml")
	if err != nil {
		t.Fatalf("load shipped catalog: %v", err)
	}
	if len(catalog.Courses) != 4 || len(catalog.Quizzes) != 2 || len(catalog.Users) != 3 {
		t.Fatalf("unexpected catalog sizes %d/%d/%d", len(catalog.Courses), len(catalog.Quizzes), len(catalog.Users))
	}
	quiz := catalog.Quizzes[0]
	if quiz.TotalPoints() != 50 || quiz.PassingScore != 70 || quiz.Questions[1].CorrectOptionID != "opt-7" {
		t.Fatalf("unexpected first quiz %+v", quiz)
	}
}

func TestLoadCatalogRejectsInvalidQuiz(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	yaml := `
quizzes:
  - id: quiz-1
    courseId: course-1
    passingScore: 70
    questions:
      - id: q-1
        points: 10
        correctOptionId: opt-9
        options:
          - {id: opt-1, text: A}
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	if _, err := LoadCatalog(path); !errors.Is(err, domain.ErrInvalidQuiz) {
		t.Fatalf("expected invalid quiz, got %v", err)
	}
}

func TestNewLogger(t *testing.T) {
	for _, cfg := range []LogConfig{{}, {Level: "debug", Development: true}, {Level: "not-a-level"}} {
		logger, err := NewLogger(cfg)
		if err != nil {
			t.Fatalf("new logger %+v: %v", cfg, err)
		}
		logger.Info("hello")
	}
}
