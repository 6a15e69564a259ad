package memory

import (
	"context"

	"lms-grading-service/internal/domain"
)

// StaticCatalog is a catalog loader backed by in-memory slices (useful for tests/demos).
// It indexes quizzes by ID and by owning course so lookups never scan.
type StaticCatalog struct {
	courses   map[string]domain.Course
	quizzes   map[string]domain.Quiz
	quizOrder []string
	byCourse  map[string][]string
}

func NewStaticCatalog(courses []domain.Course, quizzes []domain.Quiz) *StaticCatalog {
	c := &StaticCatalog{
		courses:  make(map[string]domain.Course, len(courses)),
		quizzes:  make(map[string]domain.Quiz, len(quizzes)),
		byCourse: make(map[string][]string),
	}
	for _, course := range courses {
		c.courses[course.ID] = course
	}
	for _, quiz := range quizzes {
		if _, dup := c.quizzes[quiz.ID]; !dup {
			c.quizOrder = append(c.quizOrder, quiz.ID)
			c.byCourse[quiz.CourseID] = append(c.byCourse[quiz.CourseID], quiz.ID)
		}
		c.quizzes[quiz.ID] = quiz
	}
	return c
}

func (c *StaticCatalog) LoadQuiz(_ context.Context, quizID string) (domain.Quiz, error) {
	if quiz, ok := c.quizzes[quizID]; ok {
		return quiz, nil
	}
	return domain.Quiz{}, domain.ErrQuizNotFound
}

func (c *StaticCatalog) LoadQuizzesByCourse(_ context.Context, courseID string) ([]domain.Quiz, error) {
	ids := c.byCourse[courseID]
	out := make([]domain.Quiz, 0, len(ids))
	for _, id := range ids {
		out = append(out, c.quizzes[id])
	}
	return out, nil
}

func (c *StaticCatalog) LoadQuizzes(_ context.Context) ([]domain.Quiz, error) {
	out := make([]domain.Quiz, 0, len(c.quizOrder))
	for _, id := range c.quizOrder {
		out = append(out, c.quizzes[id])
	}
	return out, nil
}

func (c *StaticCatalog) LoadCourse(_ context.Context, courseID string) (domain.Course, error) {
	if course, ok := c.courses[courseID]; ok {
		return course, nil
	}
	return domain.Course{}, domain.ErrCourseNotFound
}

func (c *StaticCatalog) CountCourses(_ context.Context) (int, error) {
	return len(c.courses), nil
}
