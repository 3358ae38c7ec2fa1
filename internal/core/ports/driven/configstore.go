package driven

// ConfigStore holds application configuration as dot-notation keys
// ("build.workers"). Typed getters return the zero value for missing keys
// or values of another type.
type ConfigStore interface {
	// Get retrieves a raw value and whether the key exists.
	Get(key string) (any, bool)

	GetString(key string) string
	GetInt(key string) int

	// GetFloat converts integer values.
	GetFloat(key string) float64

	GetBool(key string) bool

	// Set stores and persists a single value.
	Set(key string, value any) error

	// Update stores and persists several values at once. A nil value
	// removes its key. Either every change is applied or none is.
	Update(values map[string]any) error
}
