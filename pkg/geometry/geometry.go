// Package geometry provides the 2D vector kernel used by tangible recognition.
// Coordinates follow the screen convention: the origin is top left and y grows
// downward, so positive rotations appear clockwise.
package geometry

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// ErrCollinear is returned when three points do not span a triangle.
var ErrCollinear = errors.New("geometry: points are collinear")

// collinearEpsilon bounds the circumcenter determinant below which the
// points are treated as lying on one line.
const collinearEpsilon = 1e-9

// Up points from the origin toward the top of the screen.
var Up = r2.Vec{X: 0, Y: -1}

// Vector returns the displacement from one point to another.
func Vector(from, to r2.Vec) r2.Vec {
	return r2.Sub(to, from)
}

// Distance returns the euclidean distance between two points.
func Distance(a, b r2.Vec) float64 {
	return r2.Norm(r2.Sub(b, a))
}

// Normalize returns v scaled to unit length. The zero vector is returned unchanged.
func Normalize(v r2.Vec) r2.Vec {
	if v.X == 0 && v.Y == 0 {
		return v
	}
	return r2.Unit(v)
}

// AngleBetween returns the angle in radians from v1 to v2 in (-π, π].
// A positive value means v2 lies clockwise of v1 on screen.
// If absolute is true the magnitude is returned (0..π).
func AngleBetween(v1, v2 r2.Vec, absolute bool) float64 {
	radian := math.Atan2(v2.Y, v2.X) - math.Atan2(v1.Y, v1.X)

	if radian > math.Pi {
		radian -= 2 * math.Pi
	} else if radian <= -math.Pi {
		radian += 2 * math.Pi
	}
	if absolute {
		return math.Abs(radian)
	}
	return radian
}

// Rotate rotates p around the given point by degrees, clockwise on screen.
func Rotate(p, around r2.Vec, degrees float64) r2.Vec {
	return r2.Rotate(p, Radians(degrees), around)
}

// RotateVector rotates a displacement vector by degrees, clockwise on screen.
func RotateVector(v r2.Vec, degrees float64) r2.Vec {
	return Rotate(v, r2.Vec{}, degrees)
}

// Circumcenter returns the center of the circle through a, b and c.
// ErrCollinear is returned when no such circle exists.
func Circumcenter(a, b, c r2.Vec) (r2.Vec, error) {
	d := 2 * (a.X*(b.Y-c.Y) + b.X*(c.Y-a.Y) + c.X*(a.Y-b.Y))
	if math.Abs(d) < collinearEpsilon {
		return r2.Vec{}, ErrCollinear
	}

	sa := a.X*a.X + a.Y*a.Y
	sb := b.X*b.X + b.Y*b.Y
	sc := c.X*c.X + c.Y*c.Y

	return r2.Vec{
		X: (sa*(b.Y-c.Y) + sb*(c.Y-a.Y) + sc*(a.Y-b.Y)) / d,
		Y: (sa*(c.X-b.X) + sb*(a.X-c.X) + sc*(b.X-a.X)) / d,
	}, nil
}

// CircleCenters returns both centers of the circles of the given radius that
// pass through p1 and p2. A radius shorter than half the chord is raised to
// half the chord, which collapses both answers onto the midpoint.
// Coincident points yield (p1, p1).
func CircleCenters(p1, p2 r2.Vec, radius float64) (r2.Vec, r2.Vec) {
	q := Distance(p1, p2)
	if q == 0 {
		return p1, p1
	}

	half := r2.Scale(0.5, r2.Add(p1, p2))
	if radius < q/2 {
		radius = q / 2
	}
	// distance from the chord midpoint along the mirror line
	d := math.Sqrt(math.Max(0, radius*radius-(q/2)*(q/2)))

	nx := (p2.X - p1.X) / q
	ny := (p1.Y - p2.Y) / q

	c1 := r2.Vec{X: half.X + d*ny, Y: half.Y + d*nx}
	c2 := r2.Vec{X: half.X - d*ny, Y: half.Y - d*nx}
	return c1, c2
}

// Closest returns whichever of a and b is nearer to from. Ties return a.
func Closest(from, a, b r2.Vec) r2.Vec {
	if Distance(from, a) <= Distance(from, b) {
		return a
	}
	return b
}

// ClosestOnCircle projects p onto the circle around center with the given radius.
// A point at the center is returned unchanged.
func ClosestOnCircle(center r2.Vec, radius float64, p r2.Vec) r2.Vec {
	v := Vector(center, p)
	if v.X == 0 && v.Y == 0 {
		return p
	}
	return r2.Add(center, r2.Scale(radius, r2.Unit(v)))
}

// Square returns the axis-aligned square of half side radius around center.
func Square(center r2.Vec, radius float64) r2.Box {
	return r2.Box{
		Min: r2.Vec{X: center.X - radius, Y: center.Y - radius},
		Max: r2.Vec{X: center.X + radius, Y: center.Y + radius},
	}
}

// Contains reports whether p lies inside box, edges included.
func Contains(box r2.Box, p r2.Vec) bool {
	return p.X >= box.Min.X && p.X <= box.Max.X &&
		p.Y >= box.Min.Y && p.Y <= box.Max.Y
}

// Degrees converts radians to degrees.
func Degrees(radians float64) float64 {
	return radians * 180.0 / math.Pi
}

// Radians converts degrees to radians.
func Radians(degrees float64) float64 {
	return degrees * math.Pi / 180.0
}
