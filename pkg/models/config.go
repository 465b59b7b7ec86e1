package models

// OrphanPolicy decides what happens to goals whose target task is deleted.
type OrphanPolicy string

const (
	// OrphanRemove deletes goals targeting the deleted task.
	OrphanRemove OrphanPolicy = "remove"
	// OrphanKeep leaves them in place and only reports them.
	OrphanKeep OrphanPolicy = "keep"
	// OrphanBlock refuses to delete a task while goals target it.
	OrphanBlock OrphanPolicy = "block"
)

// NotificationConfig configures the outbound webhook.
type NotificationConfig struct {
	Enabled    bool   `yaml:"enabled" mapstructure:"enabled"`
	WebhookURL string `yaml:"webhook_url" mapstructure:"webhook_url"`
}

// GlobalConfig holds system-wide settings read from .dayplanconfig via Viper.
type GlobalConfig struct {
	MinCategories       int                `yaml:"min_categories" mapstructure:"min_categories"`
	ResetProgressOnRoll bool               `yaml:"reset_progress_on_rollover" mapstructure:"reset_progress_on_rollover"`
	OrphanPolicy        OrphanPolicy       `yaml:"orphan_policy" mapstructure:"orphan_policy"`
	DefaultCategory     string             `yaml:"default_category" mapstructure:"default_category"`
	AlertLookbackDays   int                `yaml:"alert_lookback_days" mapstructure:"alert_lookback_days"`
	Notifications       NotificationConfig `yaml:"notifications" mapstructure:"notifications"`
}
