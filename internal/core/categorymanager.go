package core

import (
	"fmt"

	"github.com/valter-silva-au/dayplan/pkg/models"
)

// CategoryManager creates, renames and lists categories. Deletion goes
// through IntegrityCascade.
type CategoryManager interface {
	CreateCategory(name string) (*models.Category, error)
	RenameCategory(id models.CategoryID, name string) (*models.Category, error)
	ListCategories() ([]models.Category, error)
	// EnsureCategory returns the category called name, creating it if no
	// category with that name exists.
	EnsureCategory(name string) (*models.Category, error)
}

type categoryManager struct {
	categories CategoryStore
	logger     EventLogger
}

// NewCategoryManager creates a CategoryManager. logger may be nil.
func NewCategoryManager(categories CategoryStore, logger EventLogger) CategoryManager {
	return &categoryManager{categories: categories, logger: logger}
}

func (cm *categoryManager) CreateCategory(name string) (*models.Category, error) {
	const op = "creating category"
	category, err := models.NewCategory(name)
	if err != nil {
		return nil, err
	}
	if err := cm.checkUnique(op, category.Name, ""); err != nil {
		return nil, err
	}
	if err := cm.categories.AddCategory(category); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	logEvent(cm.logger, LevelInfo, EventCategoryCreated, map[string]any{
		"category_id":   string(category.ID),
		"category_name": category.Name,
	})
	return &category, nil
}

func (cm *categoryManager) RenameCategory(id models.CategoryID, name string) (*models.Category, error) {
	const op = "renaming category"
	if id == "" {
		return nil, models.InvalidArgument(op, "category id is required")
	}
	renamed, err := models.NewCategory(name)
	if err != nil {
		return nil, err
	}
	current, err := cm.categories.GetCategory(id)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", op, id, err)
	}
	if current == nil {
		return nil, models.NotFound(op, "category %s not found", id)
	}
	if err := cm.checkUnique(op, renamed.Name, id); err != nil {
		return nil, err
	}
	oldName := current.Name
	current.Name = renamed.Name
	if err := cm.categories.UpdateCategory(*current); err != nil {
		return nil, fmt.Errorf("%s %s: %w", op, id, err)
	}
	logEvent(cm.logger, LevelInfo, EventCategoryRenamed, map[string]any{
		"category_id": string(id),
		"old_name":    oldName,
		"new_name":    current.Name,
	})
	return current, nil
}

func (cm *categoryManager) ListCategories() ([]models.Category, error) {
	categories, err := cm.categories.ListCategories()
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	return categories, nil
}

func (cm *categoryManager) EnsureCategory(name string) (*models.Category, error) {
	categories, err := cm.ListCategories()
	if err != nil {
		return nil, err
	}
	for i := range categories {
		if models.SameName(categories[i].Name, name) {
			return &categories[i], nil
		}
	}
	return cm.CreateCategory(name)
}

func (cm *categoryManager) checkUnique(op, name string, excludeID models.CategoryID) error {
	taken, err := cm.categories.NameTaken(name, excludeID)
	if err != nil {
		return fmt.Errorf("%s: checking name: %w", op, err)
	}
	if taken {
		return models.PolicyViolation(op, "a category named %q already exists", name)
	}
	return nil
}
