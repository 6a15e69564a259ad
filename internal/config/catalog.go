package config

import (
	"fmt"
	"os"

	"lms-grading-service/internal/domain"
	"gopkg.in/yaml.v3"
)

// Catalog is the YAML form of the course catalog, used for demos, seeding and offline grading.
type Catalog struct {
	Courses []domain.Course `yaml:"courses"`
	Quizzes []domain.Quiz   `yaml:"quizzes"`
	Users   []domain.User   `yaml:"users"`
}

// LoadCatalog reads and validates a catalog file.
func LoadCatalog(path string) (Catalog, error) {
	var c Catalog
	data, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return c, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Validate checks every quiz and rejects duplicate quiz IDs.
func (c Catalog) Validate() error {
	seen := make(map[string]struct{}, len(c.Quizzes))
	for _, quiz := range c.Quizzes {
		if err := quiz.Validate(); err != nil {
			return err
		}
		if _, dup := seen[quiz.ID]; dup {
			return fmt.Errorf("%w: duplicate quiz %s", domain.ErrInvalidQuiz, quiz.ID)
		}
		seen[quiz.ID] = struct{}{}
	}
	return nil
}
