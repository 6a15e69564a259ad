package http

import (
	"errors"
	"net/http"

	"lms-grading-service/internal/domain"
	"github.com/gin-gonic/gin"
)

// envelope is the response body shape shared by every endpoint.
type envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func ok(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, envelope{Success: true, Message: message, Data: data})
}

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, envelope{Success: false, Message: message})
}

// failWith maps use case errors to status codes and stable messages.
func failWith(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrQuizNotFound):
		fail(c, http.StatusNotFound, "Quiz not found")
	case errors.Is(err, domain.ErrCourseNotFound):
		fail(c, http.StatusNotFound, "Course not found")
	case errors.Is(err, domain.ErrDeadlineExceeded):
		fail(c, http.StatusConflict, "Time limit exceeded")
	default:
		fail(c, http.StatusInternalServerError, "Internal server error")
	}
}
