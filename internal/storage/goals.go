package storage

import (
	"fmt"
	"path/filepath"

	"github.com/valter-silva-au/dayplan/pkg/models"
)

// GoalFile is the top-level structure of goals.yaml.
type GoalFile struct {
	Version string        `yaml:"version"`
	Goals   []models.Goal `yaml:"goals"`
}

// GoalFileStore persists the goal set for core.GoalStore. It holds no state
// of its own: the GoalStore owns the goals and hands over the full set on
// every mutation.
type GoalFileStore struct {
	path string
}

// NewGoalFileStore creates a store for goals.yaml under basePath.
func NewGoalFileStore(basePath string) *GoalFileStore {
	return &GoalFileStore{path: filepath.Join(basePath, "goals.yaml")}
}

// LoadGoals reads goals.yaml. A missing file yields no goals.
func (s *GoalFileStore) LoadGoals() ([]models.Goal, error) {
	var file GoalFile
	if _, err := readYAML(s.path, &file); err != nil {
		return nil, fmt.Errorf("loading goals: %w", err)
	}
	return file.Goals, nil
}

// SaveGoals replaces goals.yaml with goals.
func (s *GoalFileStore) SaveGoals(goals []models.Goal) error {
	file := GoalFile{Version: fileVersion, Goals: goals}
	if err := writeYAML(s.path, &file); err != nil {
		return fmt.Errorf("saving goals: %w", err)
	}
	return nil
}
