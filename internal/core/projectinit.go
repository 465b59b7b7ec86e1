package core

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"github.com/valter-silva-au/dayplan/pkg/models"
)

// InitConfig holds the parameters for initializing a dayplan workspace.
type InitConfig struct {
	BasePath        string
	DefaultCategory string
	OrphanPolicy    models.OrphanPolicy
}

// InitResult holds a summary of what was created vs. skipped.
type InitResult struct {
	Created []string
	Skipped []string
	// Category is the default category, seeded or already present.
	Category *models.Category
}

// CategoryStoreOpener opens the category store rooted at a workspace path.
type CategoryStoreOpener func(basePath string) (CategoryStore, error)

// ProjectInitializer prepares a directory for dayplan: configuration,
// ignore rules and the seeded default category.
type ProjectInitializer interface {
	Init(config InitConfig) (*InitResult, error)
}

type projectInitializer struct {
	openCategories CategoryStoreOpener
	logger         EventLogger
}

// NewProjectInitializer creates a ProjectInitializer. logger may be nil.
func NewProjectInitializer(openCategories CategoryStoreOpener, logger EventLogger) ProjectInitializer {
	return &projectInitializer{openCategories: openCategories, logger: logger}
}

const configTemplate = `# dayplan workspace configuration
categories:
  # Smallest number of categories that must remain after a deletion.
  minimum: 1
  default: {{ printf "%q" .DefaultCategory }}
goals:
  rollover:
    # false carries progress into the next weekly window.
    reset_progress: true
  # remove | keep | block
  orphan_policy: {{ .OrphanPolicy }}
alerts:
  lookback_days: 7
notifications:
  enabled: false
  webhook_url: ""
`

const gitignoreContent = `.dayplan_events.jsonl
*.lock
*.tmp
`

// Init creates the workspace configuration files and seeds the default
// category. It is safe to run on an existing workspace: files that already
// exist are skipped and an existing category of the same name is reused.
func (pi *projectInitializer) Init(config InitConfig) (*InitResult, error) {
	if config.DefaultCategory == "" {
		config.DefaultCategory = DefaultGlobalConfig().DefaultCategory
	}
	if config.OrphanPolicy == "" {
		config.OrphanPolicy = models.OrphanRemove
	}
	if !validOrphanPolicies[config.OrphanPolicy] {
		return nil, models.InvalidArgument("initializing workspace", "orphan policy %q must be remove, keep or block", config.OrphanPolicy)
	}

	result := &InitResult{}
	if _, err := os.Stat(config.BasePath); err != nil {
		if err := os.MkdirAll(config.BasePath, 0o750); err != nil {
			return nil, fmt.Errorf("initializing workspace: creating directory %s: %w", config.BasePath, err)
		}
		result.Created = append(result.Created, config.BasePath)
	}

	configPath := filepath.Join(config.BasePath, ConfigFileName)
	if err := writeFileIfNotExists(configPath, func() ([]byte, error) {
		return renderConfig(config)
	}, result); err != nil {
		return nil, err
	}

	gitignorePath := filepath.Join(config.BasePath, ".gitignore")
	if err := writeFileIfNotExists(gitignorePath, func() ([]byte, error) {
		return []byte(gitignoreContent), nil
	}, result); err != nil {
		return nil, err
	}

	categories, err := pi.openCategories(config.BasePath)
	if err != nil {
		return nil, fmt.Errorf("initializing workspace: opening categories: %w", err)
	}
	category, err := NewCategoryManager(categories, pi.logger).EnsureCategory(config.DefaultCategory)
	if err != nil {
		return nil, fmt.Errorf("initializing workspace: seeding category %q: %w", config.DefaultCategory, err)
	}
	result.Category = category

	return result, nil
}

// writeFileIfNotExists writes content from contentFn if the file does not exist.
// It records created/skipped in the result.
func writeFileIfNotExists(path string, contentFn func() ([]byte, error), result *InitResult) error {
	if _, err := os.Stat(path); err == nil {
		result.Skipped = append(result.Skipped, path)
		return nil
	}
	content, err := contentFn()
	if err != nil {
		return fmt.Errorf("initializing workspace: generating content for %s: %w", path, err)
	}
	if err := os.WriteFile(path, content, 0o600); err != nil {
		return fmt.Errorf("initializing workspace: writing %s: %w", path, err)
	}
	result.Created = append(result.Created, path)
	return nil
}

func renderConfig(config InitConfig) ([]byte, error) {
	tmpl, err := template.New("dayplanconfig").Parse(configTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing config template: %w", err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, config); err != nil {
		return nil, fmt.Errorf("rendering config template: %w", err)
	}
	return buf.Bytes(), nil
}
