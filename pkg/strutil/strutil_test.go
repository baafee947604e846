package strutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// =============================================================================
// Number Formatting Tests
// =============================================================================

func TestFormatCommas(t *testing.T) {
	t.Parallel()

	t.Run("int", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			input    int
			expected string
		}{
			{0, "0"},
			{100, "100"},
			{1000, "1,000"},
			{123456, "123,456"},
			{1234567, "1,234,567"},
			{-999, "-999"},
			{-1234567, "-1,234,567"},
		}
		for _, tt := range tests {
			assert.Equal(t, tt.expected, FormatCommas(tt.input))
		}
	})

	t.Run("int64 경계값", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "9,223,372,036,854,775,807", FormatCommas(int64(math.MaxInt64)))
		assert.Equal(t, "-9,223,372,036,854,775,808", FormatCommas(int64(math.MinInt64)))
	})

	t.Run("uint64 최대값", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "18,446,744,073,709,551,615", FormatCommas(uint64(math.MaxUint64)))
	})
}

// =============================================================================
// Masking Tests
// =============================================================================

func TestMaskSensitiveData(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"빈 문자열", "", ""},
		{"1자", "a", "***"},
		{"3자", "abc", "***"},
		{"4자", "abcd", "abcd***"},
		{"12자", "123456789012", "1234***"},
		{"긴 토큰", "123456789:ABCdefGHIjklMNOpqrsTUVwxyz", "1234***wxyz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, MaskSensitiveData(tt.input))
		})
	}
}
