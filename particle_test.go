package particlefilter

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeAngle(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{math.Pi, math.Pi},
		{-math.Pi, math.Pi},
		{3 * math.Pi / 2, -math.Pi / 2},
		{-3 * math.Pi / 2, math.Pi / 2},
		{2 * math.Pi, 0},
		{101 * math.Pi / 2, math.Pi / 2},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, NormalizeAngle(tt.in), 1e-9, "NormalizeAngle(%v)", tt.in)
	}

	for _, a := range []float64{1e6, -1e6, 7.5, -7.5, 1e12} {
		got := NormalizeAngle(a)
		assert.True(t, got > -math.Pi && got <= math.Pi, "NormalizeAngle(%v) = %v", a, got)
	}
}

func TestPoseFinite(t *testing.T) {
	assert.True(t, Pose{1, 2, 3}.finite())
	assert.False(t, Pose{math.NaN(), 0, 0}.finite())
	assert.False(t, Pose{0, math.Inf(1), 0}.finite())
	assert.False(t, Pose{0, 0, math.Inf(-1)}.finite())
}
