package simulation

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/quantcoach/tempo/internal/domain/model"
)

// poolFile is the YAML document shape for external question pools.
type poolFile struct {
	Questions []model.Question `yaml:"questions"`
}

// LoadPool reads a YAML question pool from disk. Entries with an unknown
// competency, difficulty, or type fail the load rather than being skipped:
// a broken pool file is an operator error, not an evaluator signal.
func LoadPool(path string) ([]model.Question, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadPool, err)
	}

	var doc poolFile
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadPool, err)
	}
	if len(doc.Questions) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyPool, path)
	}

	for i, q := range doc.Questions {
		if _, err := model.ParseCompetency(string(q.Competency)); err != nil {
			return nil, fmt.Errorf("%w: question %d: %w", ErrLoadPool, i, err)
		}
		if _, err := model.ParseDifficulty(string(q.Difficulty)); err != nil {
			return nil, fmt.Errorf("%w: question %d: %w", ErrLoadPool, i, err)
		}
		if _, err := model.ParseQuestionType(string(q.Type)); err != nil {
			return nil, fmt.Errorf("%w: question %d: %w", ErrLoadPool, i, err)
		}
		if q.Key() == "" {
			return nil, fmt.Errorf("%w: question %d has neither id nor text", ErrLoadPool, i)
		}
	}

	return doc.Questions, nil
}

// WritePool saves a question pool as YAML, e.g. to replay a generated pool.
func WritePool(path string, pool []model.Question) error {
	raw, err := yaml.Marshal(poolFile{Questions: pool})
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0600)
}
