package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorType_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		errType ErrorType
		want    string
		code    string
	}{
		{Unknown, "Unknown", "unknown"},
		{System, "System", "system"},
		{InvalidInput, "InvalidInput", "invalid_input"},
		{NotFound, "NotFound", "not_found"},
		{ParsingFailed, "ParsingFailed", "parsing_failed"},
		{Canceled, "Canceled", "canceled"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, tt.errType.String())
			assert.Equal(t, tt.code, tt.errType.Code())
		})
	}
}

func TestErrorType_String_정의되지_않은_값(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "ErrorType(-1)", ErrorType(-1).String())
	assert.Equal(t, "ErrorType(99)", ErrorType(99).String())
}
