package particlefilter

import "math"

// SensorOffsets are the heading offsets of the four co-located rangefinders:
// front, left, back and right. All of them sit at the agent's position.
var SensorOffsets = [4]float64{0, math.Pi / 2, math.Pi, 3 * math.Pi / 2}

// Range is one rangefinder result. OK is false when the beam hit no wall.
type Range struct {
	Distance float64
	OK       bool
}

// Reading is what the four rangefinders report from a single pose.
type Reading [len(SensorOffsets)]Range

// ReadingFrom ray casts every rangefinder beam from the pose.
func (f *FieldModel) ReadingFrom(pose Pose) Reading {
	var r Reading
	for i, off := range SensorOffsets {
		mock := Pose{X: pose.X, Y: pose.Y, Heading: pose.Heading + off}
		r[i].Distance, r[i].OK = f.DistanceToBoundary(mock)
	}
	return r
}

// Likelihood scores how consistent a predicted reading is with the actual one.
// Beams are treated as independent, so per-beam likelihoods multiply. A beam
// missing on either side counts as total disagreement.
func (r Reading) Likelihood(actual Reading, sigma float64) float64 {
	w := 1.0
	for i := range r {
		if !r[i].OK || !actual[i].OK {
			return 0
		}
		w *= rangeLikelihood(r[i].Distance, actual[i].Distance, sigma)
	}
	return w
}

// unnormalized Gaussian of the range error
func rangeLikelihood(predicted, actual, sigma float64) float64 {
	d := predicted - actual
	return math.Exp(-(d * d) / (2 * sigma * sigma))
}
