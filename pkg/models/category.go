package models

import "strings"

// Category is a named grouping referenced by id from tasks and events.
// Names are unique ignoring case.
type Category struct {
	ID   CategoryID `yaml:"id"`
	Name string     `yaml:"name"`
}

// NewCategory validates the name and assigns a fresh id.
func NewCategory(name string) (Category, error) {
	name = strings.TrimSpace(name)
	if err := validateName("new category", name); err != nil {
		return Category{}, err
	}
	return Category{ID: NewCategoryID(), Name: name}, nil
}

// SameName compares category names case-insensitively.
func SameName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
