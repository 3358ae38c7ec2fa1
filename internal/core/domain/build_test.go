package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProcessingStatus(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		s := Success()

		assert.True(t, s.IsSuccess())
		assert.Equal(t, "SUCCESS", s.String())
		assert.Equal(t, StateSuccess, s.State())
	})

	t.Run("failure carries reason", func(t *testing.T) {
		s := Fail("no ATOM records")

		assert.False(t, s.IsSuccess())
		assert.Equal(t, "FAIL:no ATOM records", s.String())
		assert.Equal(t, StateFailed, s.State())
	})

	t.Run("parse is the inverse of String", func(t *testing.T) {
		for _, s := range []ProcessingStatus{Success(), Fail("bad header"), Fail("")} {
			assert.Equal(t, s, ParseProcessingStatus(s.String()))
		}
	})
}

func TestBuildReport(t *testing.T) {
	report := &BuildReport{
		Results: []StructureResult{
			{ID: "a", Status: Success()},
			{ID: "b", Status: Fail("parse error")},
			{ID: "c", Status: Success()},
		},
	}

	assert.Equal(t, 2, report.Succeeded())
	assert.Equal(t, map[string]int{"SUCCESS": 2, "FAIL:parse error": 1}, report.Counts())

	failed := report.Failed()
	assert.Len(t, failed, 1)
	assert.Equal(t, "b", failed[0].ID)
}

func TestNewBuildManifest(t *testing.T) {
	ids := []string{"3C", "1A", "2B"}
	paths := []string{"/z", "/a"}

	m := NewBuildManifest(ids, 500, paths)

	assert.Equal(t, []string{"1A", "2B", "3C"}, m.Sequences)
	assert.Equal(t, []string{"/a", "/z"}, m.InputPaths)
	assert.Equal(t, 500, m.MaxLength)
	// Inputs are not reordered in place.
	assert.Equal(t, []string{"3C", "1A", "2B"}, ids)
}
