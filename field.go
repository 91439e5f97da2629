package particlefilter

import "math"

// Point is a 2-D location in arena units.
type Point struct {
	X float64
	Y float64
}

// Segment is a wall running from A to B.
type Segment struct {
	A Point
	B Point
}

// FieldModel is the fixed, known map: the walls of a rectangular arena.
// It is never mutated after construction.
type FieldModel struct {
	walls []Segment
}

// NewFieldModel builds the four walls of a width x height box with a corner at the origin.
func NewFieldModel(width, height float64) *FieldModel {
	return &FieldModel{
		walls: []Segment{
			{A: Point{0, 0}, B: Point{width, 0}},
			{A: Point{width, 0}, B: Point{width, height}},
			{A: Point{width, height}, B: Point{0, height}},
			{A: Point{0, height}, B: Point{0, 0}},
		},
	}
}

// Walls returns a copy of the wall segments.
func (f *FieldModel) Walls() []Segment {
	out := make([]Segment, len(f.walls))
	copy(out, f.walls)
	return out
}

// DistanceToBoundary casts a ray from the pose along its heading and returns
// the distance to the nearest wall it crosses. ok is false when no wall is hit,
// which can only happen for a pose outside the arena.
func (f *FieldModel) DistanceToBoundary(pose Pose) (dist float64, ok bool) {
	p1 := Point{pose.X, pose.Y}
	p2 := Point{pose.X + math.Cos(pose.Heading), pose.Y + math.Sin(pose.Heading)}

	for _, w := range f.walls {
		t, hit := intersectRaySegment(p1, p2, w)
		if !hit {
			continue
		}
		if !ok || t < dist {
			dist = t
			ok = true
		}
	}
	return dist, ok
}

// Tolerances for beams cast from a particle clipped onto a wall. cos(π/2) is
// not exactly 0, so a beam along a wall is nearly but not exactly parallel to it,
// and the end of the far wall it should hit lands a hair outside [0, 1].
const (
	parallelEpsilon = 1e-12 // |denom| per unit of wall length
	segmentEpsilon  = 1e-9  // slack on the wall parameter u
)

// intersectRaySegment solves the two-line parametric intersection between the
// ray p1->p2 and the wall. t is measured in units of |p2-p1|, which is 1.
func intersectRaySegment(p1, p2 Point, w Segment) (t float64, ok bool) {
	p3, p4 := w.A, w.B

	denom := (p1.X-p2.X)*(p3.Y-p4.Y) - (p1.Y-p2.Y)*(p3.X-p4.X)
	if math.Abs(denom) <= parallelEpsilon*math.Hypot(p3.X-p4.X, p3.Y-p4.Y) {
		// parallel
		return 0, false
	}

	t = ((p1.X-p3.X)*(p3.Y-p4.Y) - (p1.Y-p3.Y)*(p3.X-p4.X)) / denom
	u := -((p1.X-p2.X)*(p1.Y-p3.Y) - (p1.Y-p2.Y)*(p1.X-p3.X)) / denom

	if t < 0 || u < -segmentEpsilon || u > 1+segmentEpsilon {
		return 0, false
	}
	return t, true
}
