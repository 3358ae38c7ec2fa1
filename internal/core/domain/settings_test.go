package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	assert.Equal(t, 1, s.Build.Workers)
	assert.Equal(t, 1000, s.Build.MaxLength)
	assert.False(t, s.Build.Overwrite)
	assert.Equal(t, "mmseqs", s.Search.MMseqsPath)
	assert.Equal(t, 30, s.Filter.KBestHits)
	assert.Nil(t, s.Filter.Thresholds.MinIdentity)
	assert.Equal(t, 6.0, s.ContactMap.Cutoff)
	require.NoError(t, s.Validate())
}

func TestSettings_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Settings)
	}{
		{"zero workers", func(s *Settings) { s.Build.Workers = 0 }},
		{"negative max length", func(s *Settings) { s.Build.MaxLength = -1 }},
		{"empty mmseqs path", func(s *Settings) { s.Search.MMseqsPath = "" }},
		{"zero cutoff", func(s *Settings) { s.ContactMap.Cutoff = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.mutate(&s)
			assert.ErrorIs(t, s.Validate(), ErrInvalidInput)
		})
	}
}
