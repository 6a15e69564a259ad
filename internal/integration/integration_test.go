package integration

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"lms-grading-service/internal/app"
	"lms-grading-service/internal/domain"
	"lms-grading-service/internal/infra/postgres"
	infraredis "lms-grading-service/internal/infra/redis"
	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap/zaptest"
)

func TestSubmitAttemptEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	db := postgres.OpenDB(pgURL)
	defer db.Close()
	if _, err := postgres.Migrate(ctx, db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := postgres.SeedCatalog(ctx, db, []domain.Course{sampleCourse()}, []domain.Quiz{sampleQuiz()}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	defer redisClient.Close()

	logger := zaptest.NewLogger(t)
	repo := infraredis.NewQuizRepository(redisClient, postgres.NewCatalogLoader(pool), 5*time.Minute, logger)
	results := postgres.NewResultStore(db)
	now := time.Date(2024, 1, 20, 10, 30, 0, 0, time.UTC)
	service := app.NewQuizService(repo, repo, results, logger, app.WithClock(func() time.Time { return now }))
	aggregator := app.NewResultAggregator(results, repo, nil)

	alice := domain.Identity{UserID: "u1", Name: "Alice", Email: "alice@example.com", Role: domain.RoleStudent}
	bob := domain.Identity{UserID: "u2", Name: "Bob", Email: "bob@example.com", Role: domain.RoleStudent}

	passed, err := service.Submit(ctx, alice, domain.Attempt{QuizID: "quiz-1", Answers: map[string]string{"q1": "o2", "q2": "o4"}})
	if err != nil {
		t.Fatalf("submit alice: %v", err)
	}
	if passed.Score != 2 || passed.Percentage != 100 || !passed.Passed || passed.CourseTitle != "Arithmetic" {
		t.Fatalf("unexpected result %+v", passed)
	}

	failed, err := service.Submit(ctx, bob, domain.Attempt{QuizID: "quiz-1", Answers: map[string]string{"q1": "o1"}})
	if err != nil {
		t.Fatalf("submit bob: %v", err)
	}
	// Same timestamp as Alice's attempt: the later append must list first.
	if _, err := service.Submit(ctx, alice, domain.Attempt{QuizID: "quiz-1"}); err != nil {
		t.Fatalf("submit alice again: %v", err)
	}

	all, err := results.ListAll(ctx)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 3 || all[1].ID != failed.ID || all[2].ID != passed.ID {
		t.Fatalf("unexpected order %v", resultIDs(all))
	}

	history, err := aggregator.StudentHistory(ctx, "u1")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 2 || history[1].ID != passed.ID || len(history[1].Answers) != 2 {
		t.Fatalf("unexpected history %+v", history)
	}

	summary, err := aggregator.AdminSummary(ctx)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	want := domain.AdminSummary{Courses: 1, Students: 2, QuizAttempts: 3, PassedAttempts: 1, PassRate: 33}
	if summary != want {
		t.Fatalf("summary = %+v, want %+v", summary, want)
	}

	rows, err := aggregator.AllStudentResults(ctx)
	if err != nil {
		t.Fatalf("student results: %v", err)
	}
	if rows[1].StudentName != "Bob" || rows[1].StudentEmail != "bob@example.com" {
		t.Fatalf("snapshot not persisted: %+v", rows[1])
	}

	if err := results.Append(ctx, passed); !errors.Is(err, domain.ErrDuplicateResult) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
	if _, err := service.Submit(ctx, alice, domain.Attempt{QuizID: "quiz-404"}); !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected quiz not found, got %v", err)
	}
}

func TestRedisResultStoreEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	redisURL, cleanup := startRedis(t, ctx)
	defer cleanup()
	client, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	defer client.Close()

	store := infraredis.NewResultStore(client)
	base := time.Date(2024, 1, 20, 10, 0, 0, 0, time.UTC)
	for i, user := range []string{"u1", "u2", "u1"} {
		r := domain.QuizResult{ID: fmt.Sprintf("r%d", i+1), UserID: user, QuizID: "quiz-1", AttemptedAt: base.Add(time.Duration(i) * time.Minute)}
		if err := store.Append(ctx, r); err != nil {
			t.Fatalf("append %s: %v", r.ID, err)
		}
	}

	mine, err := store.ListByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("list by user: %v", err)
	}
	if got := strings.Join(resultIDs(mine), ","); got != "r3,r1" {
		t.Fatalf("unexpected order %s", got)
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "lms", "POSTGRES_PASSWORD": "lmspass", "POSTGRES_DB": "grading"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForAll(
			wait.ForListeningPort("5432/tcp"),
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
		).WithDeadline(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://lms:lmspass@%s:%s/grading?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}
	url := fmt.Sprintf("redis://%s:%s", host, port.Port())
	return url, func() {
		_ = container.Terminate(ctx)
	}
}

func sampleCourse() domain.Course {
	return domain.Course{ID: "course-1", Title: "Arithmetic"}
}

func sampleQuiz() domain.Quiz {
	return domain.Quiz{
		ID:           "quiz-1",
		CourseID:     "course-1",
		Title:        "Sums",
		PassingScore: 50,
		Questions: []domain.Question{
			{
				ID:              "q1",
				Text:            "What is 2 + 2?",
				Options:         []domain.Option{{ID: "o1", Text: "3"}, {ID: "o2", Text: "4"}},
				CorrectOptionID: "o2",
				Points:          1,
			},
			{
				ID:              "q2",
				Text:            "What is 3 + 3?",
				Options:         []domain.Option{{ID: "o3", Text: "5"}, {ID: "o4", Text: "6"}},
				CorrectOptionID: "o4",
				Points:          1,
			},
		},
	}
}

func resultIDs(results []domain.QuizResult) []string {
	ids := make([]string, 0, len(results))
	for _, r := range results {
		ids = append(ids, r.ID)
	}
	return ids
}

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
