package core

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/valter-silva-au/dayplan/pkg/models"
)

// sharedCategories returns an opener that always hands back store.
func sharedCategories(store CategoryStore) CategoryStoreOpener {
	return func(string) (CategoryStore, error) { return store, nil }
}

func TestInit_CreatesWorkspace(t *testing.T) {
	base := filepath.Join(t.TempDir(), "plan")
	categories := newInMemoryCategories()
	pi := NewProjectInitializer(sharedCategories(categories), nil)

	result, err := pi.Init(InitConfig{BasePath: base, DefaultCategory: "Personal"})
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	for _, name := range []string{ConfigFileName, ".gitignore"} {
		if _, err := os.Stat(filepath.Join(base, name)); err != nil {
			t.Errorf("%s not created: %v", name, err)
		}
	}
	if len(result.Skipped) != 0 {
		t.Errorf("expected nothing skipped on a fresh directory, got %v", result.Skipped)
	}
	if result.Category == nil || result.Category.Name != "Personal" {
		t.Fatalf("expected seeded category Personal, got %+v", result.Category)
	}
	if n, _ := categories.Count(); n != 1 {
		t.Errorf("expected 1 category, got %d", n)
	}
}

func TestInit_WrittenConfigLoads(t *testing.T) {
	base := t.TempDir()
	pi := NewProjectInitializer(sharedCategories(newInMemoryCategories()), nil)

	if _, err := pi.Init(InitConfig{BasePath: base, DefaultCategory: "Deep Work", OrphanPolicy: models.OrphanKeep}); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	cm := NewConfigurationManager(base)
	cfg, err := cm.LoadGlobalConfig()
	if err != nil {
		t.Fatalf("loading generated config: %v", err)
	}
	if err := cm.ValidateConfig(cfg); err != nil {
		t.Fatalf("generated config does not validate: %v", err)
	}
	if cfg.DefaultCategory != "Deep Work" {
		t.Errorf("DefaultCategory = %q, want Deep Work", cfg.DefaultCategory)
	}
	if cfg.OrphanPolicy != models.OrphanKeep {
		t.Errorf("OrphanPolicy = %q, want keep", cfg.OrphanPolicy)
	}
	if !cfg.ResetProgressOnRoll || cfg.MinCategories != 1 {
		t.Errorf("unexpected defaults %+v", cfg)
	}
}

func TestInit_Idempotent(t *testing.T) {
	base := t.TempDir()
	categories := newInMemoryCategories()
	pi := NewProjectInitializer(sharedCategories(categories), nil)

	first, err := pi.Init(InitConfig{BasePath: base})
	if err != nil {
		t.Fatalf("first Init: %v", err)
	}
	custom := "categories:\n  minimum: 3\n"
	writeFile(t, base, ConfigFileName, custom)

	second, err := pi.Init(InitConfig{BasePath: base})
	if err != nil {
		t.Fatalf("second Init: %v", err)
	}
	if len(second.Created) != 0 {
		t.Errorf("expected nothing created on rerun, got %v", second.Created)
	}
	if second.Category.ID != first.Category.ID {
		t.Errorf("expected the existing category to be reused")
	}
	if n, _ := categories.Count(); n != 1 {
		t.Errorf("expected 1 category after rerun, got %d", n)
	}

	data, err := os.ReadFile(filepath.Join(base, ConfigFileName))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != custom {
		t.Error("existing config was overwritten")
	}
}

func TestInit_DefaultsCategoryName(t *testing.T) {
	pi := NewProjectInitializer(sharedCategories(newInMemoryCategories()), nil)

	result, err := pi.Init(InitConfig{BasePath: t.TempDir()})
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if result.Category.Name != DefaultGlobalConfig().DefaultCategory {
		t.Errorf("expected default category %q, got %q", DefaultGlobalConfig().DefaultCategory, result.Category.Name)
	}
}

func TestInit_RejectsUnknownOrphanPolicy(t *testing.T) {
	base := t.TempDir()
	pi := NewProjectInitializer(sharedCategories(newInMemoryCategories()), nil)

	_, err := pi.Init(InitConfig{BasePath: base, OrphanPolicy: "archive"})
	if !errors.Is(err, models.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	if _, statErr := os.Stat(filepath.Join(base, ConfigFileName)); statErr == nil {
		t.Error("config written despite invalid input")
	}
}

func TestInit_OpenerFailure(t *testing.T) {
	pi := NewProjectInitializer(func(string) (CategoryStore, error) {
		return nil, errors.New("disk unavailable")
	}, nil)

	_, err := pi.Init(InitConfig{BasePath: t.TempDir()})
	if err == nil || !strings.Contains(err.Error(), "disk unavailable") {
		t.Fatalf("expected opener error, got %v", err)
	}
}

func TestRenderConfig_QuotesCategory(t *testing.T) {
	out, err := renderConfig(InitConfig{DefaultCategory: `Work: "deep"`, OrphanPolicy: models.OrphanBlock})
	if err != nil {
		t.Fatalf("renderConfig: %v", err)
	}
	if !strings.Contains(string(out), `default: "Work: \"deep\""`) {
		t.Errorf("category not quoted safely:\n%s", out)
	}
	if !strings.Contains(string(out), "orphan_policy: block") {
		t.Errorf("orphan policy missing:\n%s", out)
	}
}
