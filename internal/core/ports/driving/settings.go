package driving

import "github.com/custodia-labs/structdb/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.Settings, error)

	// Save persists application settings.
	Save(settings *domain.Settings) error

	// Set updates a single setting by key after validating it.
	Set(key, value string) error

	// Keys returns every key accepted by Set.
	Keys() []string

	// GetDefaults returns default settings.
	GetDefaults() domain.Settings
}
