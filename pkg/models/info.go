package models

import (
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MaxNameLength        = 20
	MaxDescriptionLength = 100
)

// Info is the metadata shared by tasks, events and goals. Values are
// immutable; the With* methods return modified copies.
type Info struct {
	ID          string     `yaml:"id,omitempty"`
	Name        string     `yaml:"name"`
	Description string     `yaml:"description,omitempty"`
	CategoryID  CategoryID `yaml:"category_id,omitempty"`
	CreatedDate time.Time  `yaml:"created_date"`
}

// NewInfo validates name and description, assigns a fresh ID and stamps the
// creation day. The With* copies keep the ID.
func NewInfo(name, description string, categoryID CategoryID, created time.Time) (Info, error) {
	name = strings.TrimSpace(name)
	if err := validateName("new info", name); err != nil {
		return Info{}, err
	}
	if utf8.RuneCountInString(description) > MaxDescriptionLength {
		return Info{}, InvalidArgument("new info", "description must be at most %d characters", MaxDescriptionLength)
	}
	return Info{
		ID:          NewInfoID(),
		Name:        name,
		Description: description,
		CategoryID:  categoryID,
		CreatedDate: DateOf(created),
	}, nil
}

// WithName returns a copy of i carrying name.
func (i Info) WithName(name string) (Info, error) {
	name = strings.TrimSpace(name)
	if err := validateName("rename", name); err != nil {
		return i, err
	}
	i.Name = name
	return i, nil
}

// WithDescription returns a copy of i carrying description.
func (i Info) WithDescription(description string) (Info, error) {
	if utf8.RuneCountInString(description) > MaxDescriptionLength {
		return i, InvalidArgument("describe", "description must be at most %d characters", MaxDescriptionLength)
	}
	i.Description = description
	return i, nil
}

// WithCategory returns a copy of i referencing id. Pass "" to uncategorize.
func (i Info) WithCategory(id CategoryID) Info {
	i.CategoryID = id
	return i
}

// Uncategorized reports whether the info has no category reference.
func (i Info) Uncategorized() bool { return i.CategoryID == "" }

func validateName(op, name string) error {
	if name == "" {
		return InvalidArgument(op, "name must not be empty")
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return InvalidArgument(op, "name %q must be at most %d characters", name, MaxNameLength)
	}
	return nil
}
