package annotation_test

import (
	"testing"

	"github.com/jcoope02/annotation-scripts/pkg/annotation"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeTimestamp(t *testing.T) {
	cases := []struct {
		input    string
		expected string
	}{
		{"2025-01-27T10:00:00Z", "2025-01-27T10:00:00Z"},
		// the one repairable pattern: extra segment after seconds
		{"2025-01-27T10:00:00:11Z", "2025-01-27T10:00:00Z"},
		{"2025-01-27T10:00:00.123Z", "2025-01-27T10:00:00Z"},
		{" 2025-01-27T10:00:00Z ", "2025-01-27T10:00:00Z"},
	}
	for _, c := range cases {
		result, err := annotation.NormalizeTimestamp(c.input)
		assert.NoError(t, err, c.input)
		assert.Equal(t, c.expected, result, c.input)
	}
}

func TestNormalizeTimestampIsIdempotent(t *testing.T) {
	repaired, err := annotation.NormalizeTimestamp("2025-01-27T10:00:00:11Z")
	assert.NoError(t, err)
	again, err := annotation.NormalizeTimestamp(repaired)
	assert.NoError(t, err)
	assert.Equal(t, repaired, again)
}

func TestNormalizeTimestampErrors(t *testing.T) {
	invalid := []string{
		"not-a-date",
		"",
		"2025-01-27T10:00:00",
		"2025-01-27T10:00:00+02:00",
		"2025-01-27T10::00:00Z",
		"2025-01-27T10:00:00:11:22Z",
		"2025-13-27T10:00:00Z",
	}
	for _, input := range invalid {
		_, err := annotation.NormalizeTimestamp(input)
		assert.Error(t, err, input)
		validationErr, ok := err.(*annotation.ValidationError)
		assert.True(t, ok, input)
		assert.Equal(t, "invalid timestamp", validationErr.Reason)
		assert.Equal(t, input, validationErr.Input)
	}
}
