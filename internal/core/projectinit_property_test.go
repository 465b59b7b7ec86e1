package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/valter-silva-au/dayplan/pkg/models"
	"pgregory.net/rapid"
)

// categoryNameGenerator draws names NewCategory accepts, including quotes
// and colons that need escaping in YAML.
func categoryNameGenerator() *rapid.Generator[string] {
	return rapid.StringMatching(`[A-Za-z][A-Za-z0-9 :"'#-]{0,18}[A-Za-z0-9]`)
}

// Init always writes a config that loads back to the requested category
// and orphan policy, and a rerun creates nothing new.
func TestProperty_InitRoundTripAndIdempotent(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		name := categoryNameGenerator().Draw(rt, "category")
		policy := rapid.SampledFrom([]models.OrphanPolicy{
			models.OrphanRemove, models.OrphanKeep, models.OrphanBlock,
		}).Draw(rt, "policy")

		base := filepath.Join(t.TempDir(), "ws")
		categories := newInMemoryCategories()
		pi := NewProjectInitializer(sharedCategories(categories), nil)

		first, err := pi.Init(InitConfig{BasePath: base, DefaultCategory: name, OrphanPolicy: policy})
		if err != nil {
			rt.Fatalf("Init(%q, %s): %v", name, policy, err)
		}

		cfg, err := NewConfigurationManager(base).LoadGlobalConfig()
		if err != nil {
			rt.Fatalf("loading config for %q: %v", name, err)
		}
		if cfg.DefaultCategory != first.Category.Name {
			rt.Fatalf("config category %q, seeded %q", cfg.DefaultCategory, first.Category.Name)
		}
		if cfg.OrphanPolicy != policy {
			rt.Fatalf("config policy %q, want %q", cfg.OrphanPolicy, policy)
		}

		second, err := pi.Init(InitConfig{BasePath: base, DefaultCategory: name, OrphanPolicy: policy})
		if err != nil {
			rt.Fatalf("rerun: %v", err)
		}
		if len(second.Created) != 0 {
			rt.Fatalf("rerun created %v", second.Created)
		}
		if second.Category.ID != first.Category.ID {
			rt.Fatal("rerun seeded a second category")
		}
		for _, f := range []string{ConfigFileName, ".gitignore"} {
			if _, err := os.Stat(filepath.Join(base, f)); err != nil {
				rt.Fatalf("%s missing: %v", f, err)
			}
		}
	})
}
