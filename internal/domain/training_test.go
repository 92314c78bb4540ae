package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntensityDowngrade(t *testing.T) {
	tests := []struct {
		in     Intensity
		want   Intensity
		wantOK bool
	}{
		{IntensityHigh, IntensityMedium, true},
		{IntensityMedium, IntensityLow, true},
		{IntensityLow, IntensityLow, false},
		{IntensityRecovery, IntensityRecovery, false},
		{IntensityRest, IntensityRest, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.in), func(t *testing.T) {
			got, ok := tt.in.Downgrade()
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestIntensityValid(t *testing.T) {
	assert.True(t, IntensityRecovery.Valid())
	assert.False(t, Intensity("extreme").Valid())
	assert.False(t, Intensity("").Valid())
}
