package tangible

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

const tolerance = 1e-6

func floatEquals(a, b float64) bool {
	return math.Abs(a-b) < tolerance
}

func vecEquals(a, b r2.Vec) bool {
	return floatEquals(a.X, b.X) && floatEquals(a.Y, b.Y)
}

// rightTriangle returns markers at (0,10), (0,0) and (10,0), radius 5.
func rightTriangle() (m1, m2, m3 *Marker) {
	return NewMarker(r2.Vec{X: 0, Y: 10}, 5),
		NewMarker(r2.Vec{X: 0, Y: 0}, 5),
		NewMarker(r2.Vec{X: 10, Y: 0}, 5)
}

func mustTangible(markers ...*Marker) *Tangible {
	t, err := NewTangible(markers)
	if err != nil {
		panic(err)
	}
	return t
}

func mustPattern(points ...r2.Vec) *Pattern {
	p, err := NewPatternFromPoints([3]r2.Vec{points[0], points[1], points[2]})
	if err != nil {
		panic(err)
	}
	return p
}
