package services

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/custodia-labs/structdb/internal/core/domain"
	"github.com/custodia-labs/structdb/internal/core/ports/driven"
	"github.com/custodia-labs/structdb/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	KeyBuildWorkers     = "build.workers"
	KeyBuildMaxLength   = "build.max_length"
	KeyBuildOverwrite   = "build.overwrite"
	KeyMMseqsPath       = "search.mmseqs_path"
	KeyKBestHits        = "filter.k_best_hits"
	KeyMinIdentity      = "filter.min_identity"
	KeyMinBitScore      = "filter.min_bit_score"
	KeyMaxEValue        = "filter.max_evalue"
	KeyContactMapCutoff = "contact_map.cutoff"
)

// settingKeys lists every key accepted by Set, in display order.
var settingKeys = []string{
	KeyBuildWorkers,
	KeyBuildMaxLength,
	KeyBuildOverwrite,
	KeyMMseqsPath,
	KeyKBestHits,
	KeyMinIdentity,
	KeyMinBitScore,
	KeyMaxEValue,
	KeyContactMapCutoff,
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings.
// Missing or invalid values fall back to their defaults.
func (s *SettingsService) Get() (*domain.Settings, error) {
	defaults := domain.DefaultSettings()

	settings := &domain.Settings{
		Build: domain.BuildSettings{
			Workers:   s.getPositiveInt(KeyBuildWorkers, defaults.Build.Workers),
			MaxLength: s.getNonNegativeInt(KeyBuildMaxLength, defaults.Build.MaxLength),
			Overwrite: s.getBool(KeyBuildOverwrite, defaults.Build.Overwrite),
		},
		Search: domain.SearchSettings{
			MMseqsPath: s.getString(KeyMMseqsPath, defaults.Search.MMseqsPath),
		},
		Filter: domain.FilterSettings{
			KBestHits: s.getNonNegativeInt(KeyKBestHits, defaults.Filter.KBestHits),
			Thresholds: domain.HitThresholds{
				MinIdentity: s.getOptionalFloat(KeyMinIdentity),
				MinBitScore: s.getOptionalFloat(KeyMinBitScore),
				MaxEValue:   s.getOptionalFloat(KeyMaxEValue),
			},
		},
		ContactMap: domain.ContactMapSettings{
			Cutoff: s.getPositiveFloat(KeyContactMapCutoff, defaults.ContactMap.Cutoff),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.Settings) error {
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("validate settings: %w", err)
	}

	values := map[string]any{
		KeyBuildWorkers:     settings.Build.Workers,
		KeyBuildMaxLength:   settings.Build.MaxLength,
		KeyBuildOverwrite:   settings.Build.Overwrite,
		KeyMMseqsPath:       settings.Search.MMseqsPath,
		KeyKBestHits:        settings.Filter.KBestHits,
		KeyMinIdentity:      optionalValue(settings.Filter.Thresholds.MinIdentity),
		KeyMinBitScore:      optionalValue(settings.Filter.Thresholds.MinBitScore),
		KeyMaxEValue:        optionalValue(settings.Filter.Thresholds.MaxEValue),
		KeyContactMapCutoff: settings.ContactMap.Cutoff,
	}
	if err := s.configStore.Update(values); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// Set parses and stores a single setting.
// Thresholds are cleared by an empty value or "none".
func (s *SettingsService) Set(key, value string) error {
	value = strings.TrimSpace(value)
	settings, err := s.Get()
	if err != nil {
		return err
	}

	switch key {
	case KeyBuildWorkers:
		n, err := parseInt(key, value, 1)
		if err != nil {
			return err
		}
		settings.Build.Workers = n
	case KeyBuildMaxLength:
		n, err := parseInt(key, value, 0)
		if err != nil {
			return err
		}
		settings.Build.MaxLength = n
	case KeyBuildOverwrite:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be true or false, got %q", domain.ErrInvalidInput, key, value)
		}
		settings.Build.Overwrite = b
	case KeyMMseqsPath:
		if value == "" {
			return fmt.Errorf("%w: %s must not be empty", domain.ErrInvalidInput, key)
		}
		settings.Search.MMseqsPath = value
	case KeyKBestHits:
		n, err := parseInt(key, value, 0)
		if err != nil {
			return err
		}
		settings.Filter.KBestHits = n
	case KeyMinIdentity, KeyMinBitScore, KeyMaxEValue:
		f, err := parseOptionalFloat(key, value)
		if err != nil {
			return err
		}
		switch key {
		case KeyMinIdentity:
			settings.Filter.Thresholds.MinIdentity = f
		case KeyMinBitScore:
			settings.Filter.Thresholds.MinBitScore = f
		default:
			settings.Filter.Thresholds.MaxEValue = f
		}
	case KeyContactMapCutoff:
		f, err := parseOptionalFloat(key, value)
		if err != nil {
			return err
		}
		if f == nil || *f <= 0 {
			return fmt.Errorf("%w: %s must be a positive number, got %q", domain.ErrInvalidInput, key, value)
		}
		settings.ContactMap.Cutoff = *f
	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	return s.Save(settings)
}

// Keys returns every setting key accepted by Set.
func (s *SettingsService) Keys() []string {
	return append([]string(nil), settingKeys...)
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.Settings {
	return domain.DefaultSettings()
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getPositiveInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val < 1 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getNonNegativeInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	val := s.configStore.GetInt(key)
	if val < 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getPositiveFloat(key string, defaultVal float64) float64 {
	val := s.configStore.GetFloat(key)
	if val <= 0 || math.IsNaN(val) {
		return defaultVal
	}
	return val
}

// getOptionalFloat returns nil for absent, empty or non-numeric values.
func (s *SettingsService) getOptionalFloat(key string) *float64 {
	raw, exists := s.configStore.Get(key)
	if !exists {
		return nil
	}
	switch raw.(type) {
	case float64, float32, int64, int:
	default:
		return nil
	}
	val := s.configStore.GetFloat(key)
	return &val
}

// optionalValue maps an unset threshold to nil so the key is removed.
func optionalValue(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func parseInt(key, value string, minVal int) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil || n < minVal {
		return 0, fmt.Errorf("%w: %s must be an integer >= %d, got %q", domain.ErrInvalidInput, key, minVal, value)
	}
	return n, nil
}

func parseOptionalFloat(key, value string) (*float64, error) {
	if value == "" || strings.EqualFold(value, "none") {
		return nil, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("%w: %s must be a number, got %q", domain.ErrInvalidInput, key, value)
	}
	return &f, nil
}
