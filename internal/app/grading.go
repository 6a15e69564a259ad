package app

import (
	"sort"
	"time"

	"lms-grading-service/internal/domain"
)

// UnknownCourseTitle labels results whose course could not be resolved at grading time.
const UnknownCourseTitle = "Unknown Course"

// Stamp carries the values a graded result takes from its surroundings rather than from the
// quiz and the answers.
type Stamp struct {
	ID          string
	At          time.Time
	CourseTitle string
	Student     domain.Identity
}

// Grade scores an attempt against a quiz. It never fails: unanswered questions count as
// incorrect and answers for questions outside the quiz are ignored.
func Grade(quiz domain.Quiz, attempt domain.Attempt, stamp Stamp) domain.QuizResult {
	answers := make([]domain.GradedAnswer, 0, len(quiz.Questions))
	score := 0
	for _, question := range quiz.Questions {
		selected := attempt.Answers[question.ID]
		correct := selected != "" && selected == question.CorrectOptionID
		if correct {
			score += question.Points
		}
		answers = append(answers, domain.GradedAnswer{
			QuestionID:       question.ID,
			SelectedOptionID: selected,
			CorrectOptionID:  question.CorrectOptionID,
			IsCorrect:        correct,
		})
	}

	total := quiz.TotalPoints()
	pct := Percentage(score, total)

	courseTitle := stamp.CourseTitle
	if courseTitle == "" {
		courseTitle = UnknownCourseTitle
	}

	return domain.QuizResult{
		ID:           stamp.ID,
		QuizID:       quiz.ID,
		QuizTitle:    quiz.Title,
		CourseID:     quiz.CourseID,
		CourseTitle:  courseTitle,
		UserID:       stamp.Student.UserID,
		StudentName:  stamp.Student.Name,
		StudentEmail: stamp.Student.Email,
		Score:        score,
		TotalPoints:  total,
		Percentage:   pct,
		Passed:       total > 0 && pct >= quiz.PassingScore,
		AttemptedAt:  stamp.At,
		Answers:      answers,
	}
}

// Percentage returns 100*part/whole rounded half-up, or 0 when whole is not positive.
func Percentage(part, whole int) int {
	if whole <= 0 || part <= 0 {
		return 0
	}
	return (200*part + whole) / (2 * whole)
}

// UnknownQuestions lists, sorted, the answered question IDs that the quiz does not contain.
func UnknownQuestions(quiz domain.Quiz, attempt domain.Attempt) []string {
	if len(attempt.Answers) == 0 {
		return nil
	}
	known := make(map[string]struct{}, len(quiz.Questions))
	for _, question := range quiz.Questions {
		known[question.ID] = struct{}{}
	}
	var unknown []string
	for questionID := range attempt.Answers {
		if _, ok := known[questionID]; !ok {
			unknown = append(unknown, questionID)
		}
	}
	sort.Strings(unknown)
	return unknown
}
