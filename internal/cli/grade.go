package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"lms-grading-service/internal/app"
	"lms-grading-service/internal/config"
	"lms-grading-service/internal/domain"
	"lms-grading-service/internal/infra/memory"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// attemptFile mirrors the HTTP submission body.
type attemptFile struct {
	QuizID  string `json:"quizId"`
	Answers []struct {
		QuestionID       string `json:"questionId"`
		SelectedOptionID string `json:"selectedOptionId"`
	} `json:"answers"`
}

// NewGradeCmd grades an attempt file against a catalog without touching any store.
func NewGradeCmd() *cobra.Command {
	var (
		catalogFile string
		userID      string
	)
	cmd := &cobra.Command{
		Use:   "grade <attempt.json>",
		Short: "Grade an attempt offline and print the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog := sampleCatalog()
			if catalogFile != "" {
				var err error
				if catalog, err = config.LoadCatalog(catalogFile); err != nil {
					return err
				}
			}

			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var in attemptFile
			if err := json.Unmarshal(raw, &in); err != nil {
				return fmt.Errorf("parse attempt %s: %w", args[0], err)
			}
			if in.QuizID == "" {
				return errors.New("attempt has no quizId")
			}

			attempt := domain.Attempt{QuizID: in.QuizID, Answers: make(map[string]string, len(in.Answers))}
			for _, a := range in.Answers {
				attempt.Answers[a.QuestionID] = a.SelectedOptionID
			}

			student := domain.Identity{UserID: userID, Role: domain.RoleStudent}
			if user, err := memory.NewUserDirectory(catalog.Users).GetUser(cmd.Context(), userID); err == nil {
				student.Name, student.Email = user.Name, user.Email
			}

			result, err := gradeOffline(cmd, catalog, student, attempt)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), result)
		},
	}
	cmd.Flags().StringVar(&catalogFile, "catalog", "", "catalog YAML (defaults to the built-in sample)")
	cmd.Flags().StringVar(&userID, "user", "offline", "user ID to stamp on the result")
	return cmd
}

func gradeOffline(cmd *cobra.Command, catalog config.Catalog, student domain.Identity, attempt domain.Attempt) (domain.QuizResult, error) {
	static := memory.NewStaticCatalog(catalog.Courses, catalog.Quizzes)
	repo := memory.NewQuizRepository(static, time.Minute)
	service := app.NewQuizService(repo, repo, memory.NewResultStore(), zap.NewNop())
	return service.Submit(cmd.Context(), student, attempt)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
