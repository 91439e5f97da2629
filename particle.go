package particlefilter

import "math"

// Pose is a position in arena units plus a heading in radians.
type Pose struct {
	X       float64
	Y       float64
	Heading float64
}

// Particle is a weighted pose hypothesis.
type Particle struct {
	Pose   Pose
	Weight float64
}

func (p Pose) finite() bool {
	return isFinite(p.X) && isFinite(p.Y) && isFinite(p.Heading)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// NormalizeAngle maps a finite angle into (-π, π].
func NormalizeAngle(a float64) float64 {
	if math.Abs(a) > 4*math.Pi {
		a = math.Mod(a, 2*math.Pi)
	}
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}
