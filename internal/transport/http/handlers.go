package http

import (
	"net/http"
	"time"

	"lms-grading-service/internal/app"
	"lms-grading-service/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	msgPassed    = "Congratulations! You passed!"
	msgCompleted = "Quiz completed. Keep practicing!"
)

// Handler serves the quiz and results endpoints.
type Handler struct {
	quizzes  *app.QuizService
	results  *app.ResultAggregator
	feed     *app.ResultFeed
	logger   *zap.Logger
	upgrader websocket.Upgrader
	memo     feedMemo
}

func NewHandler(quizzes *app.QuizService, results *app.ResultAggregator, feed *app.ResultFeed, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		quizzes: quizzes,
		results: results,
		feed:    feed,
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// NewRouter mounts every route on a gin engine.
func NewRouter(h *Handler, auth *Authenticator, logger *zap.Logger, corsOrigins string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), CORS(corsOrigins), RequestLogger(logger))

	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	api := r.Group("/api", auth.Middleware())
	api.GET("/courses/:id/quiz", h.CourseQuiz)
	api.POST("/quizzes/:id/attempt", h.SubmitAttempt)
	api.GET("/results", h.MyResults)

	admin := api.Group("/admin", RequireRole(domain.RoleAdmin))
	admin.GET("/results", h.StudentResults)
	admin.GET("/summary", h.Summary)
	admin.GET("/quizzes", h.Quizzes)

	r.GET("/ws/admin/results", auth.Middleware(), RequireRole(domain.RoleAdmin), h.ServeAdminFeed)
	return r
}

type answerRequest struct {
	QuestionID       string `json:"questionId" binding:"required"`
	SelectedOptionID string `json:"selectedOptionId"`
}

type attemptRequest struct {
	QuizID    string          `json:"quizId"`
	Answers   []answerRequest `json:"answers" binding:"dive"`
	StartedAt *time.Time      `json:"startedAt"`
}

func (req attemptRequest) toAttempt(quizID string) domain.Attempt {
	attempt := domain.Attempt{QuizID: quizID, Answers: make(map[string]string, len(req.Answers))}
	for _, a := range req.Answers {
		// Later entries for the same question overwrite earlier ones.
		attempt.Answers[a.QuestionID] = a.SelectedOptionID
	}
	if req.StartedAt != nil {
		attempt.StartedAt = *req.StartedAt
	}
	return attempt
}

// SubmitAttempt grades the caller's answers for a quiz.
func (h *Handler) SubmitAttempt(c *gin.Context) {
	who, _ := identityFrom(c)
	quizID := c.Param("id")

	var req attemptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.QuizID != "" && req.QuizID != quizID {
		fail(c, http.StatusBadRequest, "quizId does not match the path")
		return
	}

	result, err := h.quizzes.Submit(c.Request.Context(), who, req.toAttempt(quizID))
	if err != nil {
		_ = c.Error(err)
		failWith(c, err)
		return
	}

	message := msgCompleted
	if result.Passed {
		message = msgPassed
	}
	ok(c, http.StatusOK, message, result)
}

// CourseQuiz returns the quiz a student takes for a course, answer keys stripped.
func (h *Handler) CourseQuiz(c *gin.Context) {
	quiz, err := h.quizzes.QuizForCourse(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		failWith(c, err)
		return
	}
	ok(c, http.StatusOK, "Quiz loaded", quiz)
}

// MyResults lists the caller's own results, newest first.
func (h *Handler) MyResults(c *gin.Context) {
	who, _ := identityFrom(c)
	results, err := h.results.StudentHistory(c.Request.Context(), who.UserID)
	if err != nil {
		_ = c.Error(err)
		failWith(c, err)
		return
	}
	ok(c, http.StatusOK, "Results loaded", results)
}

// StudentResults lists every result with the submitting student.
func (h *Handler) StudentResults(c *gin.Context) {
	rows, err := h.results.AllStudentResults(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		failWith(c, err)
		return
	}
	ok(c, http.StatusOK, "Results loaded", rows)
}

// Summary returns the admin dashboard counters.
func (h *Handler) Summary(c *gin.Context) {
	summary, err := h.results.AdminSummary(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		failWith(c, err)
		return
	}
	ok(c, http.StatusOK, "Summary loaded", summary)
}

// Quizzes lists full quiz definitions for admins.
func (h *Handler) Quizzes(c *gin.Context) {
	quizzes, err := h.quizzes.ListQuizzes(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		failWith(c, err)
		return
	}
	ok(c, http.StatusOK, "Quizzes loaded", quizzes)
}
