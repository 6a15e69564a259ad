package domain

import "time"

// Option is one selectable answer of a question.
type Option struct {
	ID   string `json:"id" yaml:"id"`
	Text string `json:"text" yaml:"text"`
}

// Question models an MCQ question with exactly one correct option.
type Question struct {
	ID              string   `json:"id" yaml:"id"`
	Text            string   `json:"text" yaml:"text"`
	Options         []Option `json:"options" yaml:"options"`
	CorrectOptionID string   `json:"correctOptionId,omitempty" yaml:"correctOptionId"`
	Points          int      `json:"points" yaml:"points"`
}

// Quiz is an ordered collection of questions owned by a course.
type Quiz struct {
	ID           string     `json:"id" yaml:"id"`
	CourseID     string     `json:"courseId" yaml:"courseId"`
	Title        string     `json:"title" yaml:"title"`
	Description  string     `json:"description" yaml:"description"`
	TimeLimit    int        `json:"timeLimit" yaml:"timeLimit"` // minutes, advisory
	PassingScore int        `json:"passingScore" yaml:"passingScore"`
	Questions    []Question `json:"questions" yaml:"questions"`
}

// TotalPoints sums the points of every question.
func (q Quiz) TotalPoints() int {
	total := 0
	for _, question := range q.Questions {
		total += question.Points
	}
	return total
}

// StudentView returns a copy of the quiz with answer keys removed.
func (q Quiz) StudentView() Quiz {
	out := q
	out.Questions = make([]Question, len(q.Questions))
	for i, question := range q.Questions {
		question.Options = append([]Option(nil), question.Options...)
		question.CorrectOptionID = ""
		out.Questions[i] = question
	}
	return out
}

// Course is the catalog entry a quiz belongs to.
type Course struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Instructor  string `json:"instructor" yaml:"instructor"`
	Level       string `json:"level" yaml:"level"`
}

// User is a directory entry used to label admin views.
type User struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Email string `json:"email" yaml:"email"`
	Role  string `json:"role" yaml:"role"`
}

// Roles recognised by the transport layer.
const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

// Identity is the caller as vouched for by the external auth provider.
type Identity struct {
	UserID string
	Name   string
	Email  string
	Role   string
}

// Attempt is a student's submission for one quiz, keyed by question ID.
type Attempt struct {
	QuizID    string
	Answers   map[string]string
	StartedAt time.Time // zero when the caller does not track it
}

// GradedAnswer freezes the correctness of one question at grading time.
type GradedAnswer struct {
	QuestionID       string `json:"questionId"`
	SelectedOptionID string `json:"selectedOptionId"`
	CorrectOptionID  string `json:"correctOptionId"`
	IsCorrect        bool   `json:"isCorrect"`
}

// QuizResult is the immutable record of one graded attempt.
type QuizResult struct {
	ID           string         `json:"id"`
	QuizID       string         `json:"quizId"`
	QuizTitle    string         `json:"quizTitle"`
	CourseID     string         `json:"courseId"`
	CourseTitle  string         `json:"courseTitle"`
	UserID       string         `json:"userId"`
	StudentName  string         `json:"studentName,omitempty"`
	StudentEmail string         `json:"studentEmail,omitempty"`
	Score        int            `json:"score"`
	TotalPoints  int            `json:"totalPoints"`
	Percentage   int            `json:"percentage"`
	Passed       bool           `json:"passed"`
	AttemptedAt  time.Time      `json:"attemptedAt"`
	Answers      []GradedAnswer `json:"answers"`
}

// StudentResult is the admin-facing row for one result.
type StudentResult struct {
	ID           string    `json:"id"`
	StudentID    string    `json:"studentId"`
	StudentName  string    `json:"studentName"`
	StudentEmail string    `json:"studentEmail"`
	QuizID       string    `json:"quizId"`
	QuizTitle    string    `json:"quizTitle"`
	CourseTitle  string    `json:"courseTitle"`
	Score        int       `json:"score"`
	TotalPoints  int       `json:"totalPoints"`
	Percentage   int       `json:"percentage"`
	Passed       bool      `json:"passed"`
	AttemptedAt  time.Time `json:"attemptedAt"`
}

// AdminSummary holds the dashboard counters.
type AdminSummary struct {
	Courses        int `json:"courses"`
	Students       int `json:"students"`
	QuizAttempts   int `json:"quizAttempts"`
	PassedAttempts int `json:"passedAttempts"`
	PassRate       int `json:"passRate"`
}
