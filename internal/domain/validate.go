package domain

import "fmt"

// Validate checks the structural invariants of a quiz definition.
func (q Quiz) Validate() error {
	if q.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidQuiz)
	}
	if q.CourseID == "" {
		return fmt.Errorf("%w: quiz %s has no course", ErrInvalidQuiz, q.ID)
	}
	if q.PassingScore < 0 || q.PassingScore > 100 {
		return fmt.Errorf("%w: quiz %s passing score %d out of range", ErrInvalidQuiz, q.ID, q.PassingScore)
	}

	seen := make(map[string]struct{}, len(q.Questions))
	for _, question := range q.Questions {
		if question.ID == "" {
			return fmt.Errorf("%w: quiz %s has a question without id", ErrInvalidQuiz, q.ID)
		}
		if _, dup := seen[question.ID]; dup {
			return fmt.Errorf("%w: duplicate question %s", ErrInvalidQuiz, question.ID)
		}
		seen[question.ID] = struct{}{}

		if question.Points <= 0 {
			return fmt.Errorf("%w: question %s must be worth at least one point", ErrInvalidQuiz, question.ID)
		}

		options := make(map[string]struct{}, len(question.Options))
		for _, opt := range question.Options {
			if opt.ID == "" {
				return fmt.Errorf("%w: question %s has an option without id", ErrInvalidQuiz, question.ID)
			}
			if _, dup := options[opt.ID]; dup {
				return fmt.Errorf("%w: question %s repeats option %s", ErrInvalidQuiz, question.ID, opt.ID)
			}
			options[opt.ID] = struct{}{}
		}
		if _, ok := options[question.CorrectOptionID]; !ok {
			return fmt.Errorf("%w: question %s correct option %q is not one of its options", ErrInvalidQuiz, question.ID, question.CorrectOptionID)
		}
	}
	return nil
}
