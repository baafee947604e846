package xmlparser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{in: "PT1.5S", want: 1.5},
		{in: "PT2M3.25S", want: 123.25},
		{in: "PT1H", want: 3600},
		{in: " PT0S ", want: 0},
		{in: "1.5", wantErr: true},
		{in: "PT", wantErr: true},
		{in: "PTxS", wantErr: true},
		{in: "PT1.5", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := parseDuration(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}
