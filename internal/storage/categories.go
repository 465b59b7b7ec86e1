package storage

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/valter-silva-au/dayplan/pkg/models"
)

// CategoryFile is the top-level structure of categories.yaml.
type CategoryFile struct {
	Version    string            `yaml:"version"`
	Categories []models.Category `yaml:"categories"`
}

// CategoryStore keeps categories in categories.yaml.
type CategoryStore struct {
	mu   sync.Mutex
	path string
	data CategoryFile
}

// NewCategoryStore loads categories.yaml from basePath.
func NewCategoryStore(basePath string) (*CategoryStore, error) {
	s := &CategoryStore{
		path: filepath.Join(basePath, "categories.yaml"),
		data: CategoryFile{Version: fileVersion},
	}
	if _, err := readYAML(s.path, &s.data); err != nil {
		return nil, fmt.Errorf("loading categories: %w", err)
	}
	return s, nil
}

func (s *CategoryStore) AddCategory(c models.Category) error {
	if c.ID == "" {
		return fmt.Errorf("adding category: ID must not be empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexOf(c.ID) >= 0 {
		return fmt.Errorf("adding category: category %s already exists", c.ID)
	}
	next := s.snapshot()
	next = append(next, c)
	return s.commit("adding category", next)
}

// GetCategory returns (nil, nil) when id is absent.
func (s *CategoryStore) GetCategory(id models.CategoryID) (*models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return nil, nil
	}
	c := s.data.Categories[i]
	return &c, nil
}

func (s *CategoryStore) ListCategories() ([]models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot(), nil
}

func (s *CategoryStore) Count() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data.Categories), nil
}

func (s *CategoryStore) UpdateCategory(c models.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(c.ID)
	if i < 0 {
		return fmt.Errorf("updating category: category %s not found", c.ID)
	}
	next := s.snapshot()
	next[i] = c
	return s.commit("updating category", next)
}

func (s *CategoryStore) DeleteCategory(id models.CategoryID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("deleting category: category %s not found", id)
	}
	next := make([]models.Category, 0, len(s.data.Categories)-1)
	next = append(next, s.data.Categories[:i]...)
	next = append(next, s.data.Categories[i+1:]...)
	return s.commit("deleting category", next)
}

// NameTaken reports whether a category other than excludeID is called name,
// ignoring case.
func (s *CategoryStore) NameTaken(name string, excludeID models.CategoryID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.data.Categories {
		if c.ID != excludeID && models.SameName(c.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (s *CategoryStore) indexOf(id models.CategoryID) int {
	for i := range s.data.Categories {
		if s.data.Categories[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *CategoryStore) snapshot() []models.Category {
	out := make([]models.Category, len(s.data.Categories))
	copy(out, s.data.Categories)
	return out
}

func (s *CategoryStore) commit(op string, next []models.Category) error {
	file := CategoryFile{Version: fileVersion, Categories: next}
	if err := writeYAML(s.path, &file); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.data = file
	return nil
}
