package machine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestThreshold_EncodeDecode(t *testing.T) {
	tests := []struct {
		name    string
		stored  int32
		want    Threshold
	}{
		{name: "calibrated", stored: 220000, want: Cutoff(220000)},
		{name: "zero is a valid reading", stored: 0, want: Cutoff(0)},
		{name: "sentinel decodes as absent", stored: -1, want: NoCutoff()},
		{name: "negative readings survive", stored: -5000, want: Cutoff(-5000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecodeThreshold(tt.stored)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.stored, got.Encode(), "stored form round-trips")
		})
	}
}

func TestThreshold_AbsentEncodesSentinel(t *testing.T) {
	assert.Equal(t, int32(-1), NoCutoff().Encode())

	// A literal -1 reading collapses into the sentinel; this matches the
	// store format already in the field.
	assert.Equal(t, NoCutoff(), DecodeThreshold(Cutoff(-1).Encode()))
}

func TestThreshold_String(t *testing.T) {
	assert.Equal(t, "manual", NoCutoff().String())
	assert.Equal(t, "240000", Cutoff(240000).String())
}

func TestMode_ShouldDispense(t *testing.T) {
	calibrated := Mode{VolumeML: 200, Threshold: Cutoff(220000)}
	assert.True(t, calibrated.shouldDispense(219999))
	assert.False(t, calibrated.shouldDispense(220000))
	assert.False(t, calibrated.shouldDispense(300000))

	manual := Mode{}
	assert.True(t, manual.shouldDispense(0))
	assert.True(t, manual.shouldDispense(999999), "no cutoff means no reading comparison")
}
