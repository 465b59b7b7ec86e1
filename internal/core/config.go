// Package core contains the business logic for dayplan: the goal store,
// completion propagation, goal lifecycle maintenance, the referential
// integrity cascade, and configuration.
package core

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"github.com/valter-silva-au/dayplan/pkg/models"
)

// ConfigFileName is the name of the global configuration file.
const ConfigFileName = ".dayplanconfig"

// ConfigurationManager defines the interface for loading and validating
// configuration from the global .dayplanconfig file.
type ConfigurationManager interface {
	LoadGlobalConfig() (*models.GlobalConfig, error)
	ValidateConfig(cfg *models.GlobalConfig) error
}

// viperConfigManager implements ConfigurationManager using Viper for
// reading YAML configuration files.
type viperConfigManager struct {
	// basePath is the root directory where .dayplanconfig resides.
	basePath string
}

// NewConfigurationManager creates a new ConfigurationManager that reads
// configuration files relative to basePath.
func NewConfigurationManager(basePath string) ConfigurationManager {
	return &viperConfigManager{basePath: basePath}
}

// DefaultGlobalConfig returns a GlobalConfig populated with sensible defaults.
func DefaultGlobalConfig() *models.GlobalConfig {
	return &models.GlobalConfig{
		MinCategories:       1,
		ResetProgressOnRoll: true,
		OrphanPolicy:        models.OrphanRemove,
		DefaultCategory:     "General",
		AlertLookbackDays:   7,
	}
}

// LoadGlobalConfig reads the .dayplanconfig file from the base path using
// Viper. If the file does not exist, defaults are returned.
func (cm *viperConfigManager) LoadGlobalConfig() (*models.GlobalConfig, error) {
	cfg := DefaultGlobalConfig()

	v := viper.New()
	v.SetConfigName(ConfigFileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(cm.basePath)

	v.SetDefault("categories.minimum", cfg.MinCategories)
	v.SetDefault("categories.default", cfg.DefaultCategory)
	v.SetDefault("goals.rollover.reset_progress", cfg.ResetProgressOnRoll)
	v.SetDefault("goals.orphan_policy", string(cfg.OrphanPolicy))
	v.SetDefault("notifications.enabled", cfg.Notifications.Enabled)
	v.SetDefault("notifications.webhook_url", cfg.Notifications.WebhookURL)
	v.SetDefault("alerts.lookback_days", cfg.AlertLookbackDays)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading %s: %w", ConfigFileName, err)
	}

	cfg.MinCategories = v.GetInt("categories.minimum")
	cfg.DefaultCategory = v.GetString("categories.default")
	cfg.ResetProgressOnRoll = v.GetBool("goals.rollover.reset_progress")
	cfg.OrphanPolicy = models.OrphanPolicy(strings.ToLower(v.GetString("goals.orphan_policy")))
	cfg.Notifications.Enabled = v.GetBool("notifications.enabled")
	cfg.Notifications.WebhookURL = v.GetString("notifications.webhook_url")
	cfg.AlertLookbackDays = v.GetInt("alerts.lookback_days")

	return cfg, nil
}

var validOrphanPolicies = map[models.OrphanPolicy]bool{
	models.OrphanRemove: true,
	models.OrphanKeep:   true,
	models.OrphanBlock:  true,
}

// ValidateConfig checks the configuration for invalid values and reports
// every problem found in one error.
func (cm *viperConfigManager) ValidateConfig(cfg *models.GlobalConfig) error {
	if cfg == nil {
		return fmt.Errorf("configuration is nil")
	}

	var errs []string

	if cfg.MinCategories < 0 {
		errs = append(errs, fmt.Sprintf("categories.minimum must be non-negative, got %d", cfg.MinCategories))
	}
	if !validOrphanPolicies[cfg.OrphanPolicy] {
		errs = append(errs, fmt.Sprintf(
			"goals.orphan_policy %q is invalid, must be one of: remove, keep, block",
			cfg.OrphanPolicy,
		))
	}
	if cfg.DefaultCategory != "" {
		if _, err := models.NewCategory(cfg.DefaultCategory); err != nil {
			errs = append(errs, fmt.Sprintf("categories.default: %v", err))
		}
	}
	if cfg.AlertLookbackDays <= 0 {
		errs = append(errs, fmt.Sprintf("alerts.lookback_days must be positive, got %d", cfg.AlertLookbackDays))
	}
	if cfg.Notifications.Enabled && cfg.Notifications.WebhookURL == "" {
		errs = append(errs, "notifications.webhook_url is required when notifications are enabled")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// CascadePolicyFrom derives the cascade rules from configuration.
func CascadePolicyFrom(cfg *models.GlobalConfig) CascadePolicy {
	return CascadePolicy{MinCategories: cfg.MinCategories, Orphans: cfg.OrphanPolicy}
}
