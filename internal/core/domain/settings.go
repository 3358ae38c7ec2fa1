package domain

// Settings holds the application configuration used by structdb.
type Settings struct {
	Build      BuildSettings
	Search     SearchSettings
	Filter     FilterSettings
	ContactMap ContactMapSettings
}

// BuildSettings configure database builds.
type BuildSettings struct {
	Workers   int
	MaxLength int
	Overwrite bool
}

// SearchSettings configure the external sequence-search tool.
type SearchSettings struct {
	// MMseqsPath is the executable name or path of MMseqs2.
	MMseqsPath string
}

// FilterSettings configure alignment hit filtering.
type FilterSettings struct {
	KBestHits  int
	Thresholds HitThresholds
}

// ContactMapSettings configure contact map computation.
type ContactMapSettings struct {
	Cutoff float64
}

// Default values.
const (
	DefaultWorkers    = 1
	DefaultMaxLength  = 1000
	DefaultMMseqsPath = "mmseqs"
	DefaultKBestHits  = 30
)

// DefaultSettings returns settings with sensible defaults.
func DefaultSettings() Settings {
	return Settings{
		Build: BuildSettings{
			Workers:   DefaultWorkers,
			MaxLength: DefaultMaxLength,
		},
		Search: SearchSettings{
			MMseqsPath: DefaultMMseqsPath,
		},
		Filter: FilterSettings{
			KBestHits: DefaultKBestHits,
		},
		ContactMap: ContactMapSettings{
			Cutoff: DefaultContactCutoff,
		},
	}
}

// Validate checks settings for consistency.
func (s *Settings) Validate() error {
	if s.Build.Workers < 1 {
		return ErrInvalidInput
	}
	if s.Build.MaxLength < 0 {
		return ErrInvalidInput
	}
	if s.Search.MMseqsPath == "" {
		return ErrInvalidInput
	}
	if s.ContactMap.Cutoff <= 0 {
		return ErrInvalidInput
	}
	return nil
}
