package tangible

import (
	"errors"
	"math"
	"testing"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/teslashibe/go-tangible/pkg/geometry"
)

func TestNewPattern_RightTriangle(t *testing.T) {
	m1, m2, m3 := rightTriangle()
	p, err := patternOf(m1, m2, m3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !floatEquals(p.Radius(), math.Sqrt(200)/2) {
		t.Errorf("radius: got %v, want %v", p.Radius(), math.Sqrt(200)/2)
	}

	tests := []struct {
		name   string
		marker *Marker
		want   float64
	}{
		{"m1", m1, 45},
		{"m2", m2, 90},
		{"m3", m3, 45},
	}
	for _, tc := range tests {
		got := geometry.Degrees(p.AngleAt(tc.marker.ID()))
		if !floatEquals(got, tc.want) {
			t.Errorf("angle at %s: got %v, want %v", tc.name, got, tc.want)
		}
	}

	// circumcenter is the origin of pattern space
	for _, s := range p.Snapshots() {
		if !floatEquals(r2.Norm(s.Center), p.Radius()) {
			t.Errorf("snapshot %v not on circumcircle", s.Center)
		}
	}
}

func TestNewPattern_Errors(t *testing.T) {
	a := NewSnapshot(r2.Vec{}, 5)
	b := NewSnapshot(r2.Vec{X: 1, Y: 1}, 5)
	c := NewSnapshot(r2.Vec{X: 2, Y: 2}, 5)

	if _, err := NewPattern(a, b); !errors.Is(err, ErrMarkerCount) {
		t.Errorf("two snapshots: got %v, want ErrMarkerCount", err)
	}
	if _, err := NewPattern(a, b, c, a); !errors.Is(err, ErrMarkerCount) {
		t.Errorf("four snapshots: got %v, want ErrMarkerCount", err)
	}

	_, err := NewPattern(a, b, c)
	if !errors.Is(err, ErrDegenerate) {
		t.Errorf("collinear: got %v, want ErrDegenerate", err)
	}
	if !errors.Is(err, geometry.ErrCollinear) {
		t.Errorf("collinear: got %v, want wrapped ErrCollinear", err)
	}
}

func TestPattern_Lookups(t *testing.T) {
	m1, m2, m3 := rightTriangle()
	p, err := patternOf(m1, m2, m3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	v, ok := p.Vector(m2.ID(), m1.ID())
	if !ok {
		t.Fatal("expected vector between known markers")
	}
	if !vecEquals(v, r2.Vec{X: 0, Y: 10}) {
		t.Errorf("vector m2->m1: got %v, want (0, 10)", v)
	}

	unknown := uuid.New()
	if _, ok := p.Vector(unknown, m1.ID()); ok {
		t.Error("expected miss for unknown from id")
	}
	if _, ok := p.Vector(m1.ID(), unknown); ok {
		t.Error("expected miss for unknown to id")
	}
	if got := p.AngleAt(unknown); !math.IsInf(got, 1) {
		t.Errorf("angle at unknown id: got %v, want +Inf", got)
	}
	if p.IsAngleSimilar(unknown, 45) {
		t.Error("unknown id must never be angle-similar")
	}
}

func TestPattern_SimilarToItself(t *testing.T) {
	shapes := [][3]r2.Vec{
		{{X: 0, Y: 10}, {X: 0, Y: 0}, {X: 10, Y: 0}},
		{{X: 3, Y: 1}, {X: 40, Y: 7}, {X: 12, Y: 33}},
		{{X: -1, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: math.Sqrt(3)}},
	}
	for _, s := range shapes {
		p := mustPattern(s[0], s[1], s[2])
		if !p.IsSimilar(p) {
			t.Errorf("pattern %v not similar to itself", s)
		}
		if !p.Equal(p) {
			t.Errorf("pattern %v not equal to itself", s)
		}
	}
}

func TestPattern_OrderInvariance(t *testing.T) {
	pts := []r2.Vec{{X: 3, Y: 1}, {X: 40, Y: 7}, {X: 12, Y: 33}}
	snaps := []MarkerSnapshot{
		NewSnapshot(pts[0], 5),
		NewSnapshot(pts[1], 5),
		NewSnapshot(pts[2], 5),
	}
	orders := [][3]int{
		{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0},
	}

	var patterns []*Pattern
	for _, o := range orders {
		p, err := NewPattern(snaps[o[0]], snaps[o[1]], snaps[o[2]])
		if err != nil {
			t.Fatalf("order %v: %v", o, err)
		}
		patterns = append(patterns, p)
	}

	for i, a := range patterns {
		for j, b := range patterns {
			if !a.IsSimilar(b) {
				t.Errorf("order %v not similar to order %v", orders[i], orders[j])
			}
		}
	}
}

func TestPattern_RigidMotionInvariance(t *testing.T) {
	pts := [3]r2.Vec{{X: 3, Y: 1}, {X: 40, Y: 7}, {X: 12, Y: 33}}
	original := mustPattern(pts[0], pts[1], pts[2])

	tests := []struct {
		name      string
		translate r2.Vec
		degrees   float64
	}{
		{"translated", r2.Vec{X: 250, Y: -80}, 0},
		{"rotated", r2.Vec{}, 73},
		{"translated and rotated", r2.Vec{X: -40, Y: 515}, 211},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var moved [3]r2.Vec
			for i, p := range pts {
				moved[i] = r2.Add(geometry.Rotate(p, pts[0], tc.degrees), tc.translate)
			}
			p := mustPattern(moved[0], moved[1], moved[2])
			if !p.IsSimilar(original) || !original.IsSimilar(p) {
				t.Errorf("moved pattern not similar to original (angles %v vs %v)", p.Angles(), original.Angles())
			}
		})
	}
}

func TestPattern_Dissimilar(t *testing.T) {
	right := mustPattern(r2.Vec{X: 0, Y: 10}, r2.Vec{}, r2.Vec{X: 10, Y: 0})

	tests := []struct {
		name  string
		other *Pattern
	}{
		{"scaled up", mustPattern(r2.Vec{X: 0, Y: 30}, r2.Vec{}, r2.Vec{X: 30, Y: 0})},
		{"different angles", mustPattern(r2.Vec{X: 0, Y: 3}, r2.Vec{}, r2.Vec{X: 14, Y: 0})},
		{"nil", nil},
	}
	for _, tc := range tests {
		if right.IsSimilar(tc.other) {
			t.Errorf("%s: expected patterns to differ", tc.name)
		}
	}
}

func TestPattern_RadiusSimilarity(t *testing.T) {
	p := mustPattern(r2.Vec{X: 0, Y: 10}, r2.Vec{}, r2.Vec{X: 10, Y: 0})
	r := p.Radius()

	tests := []struct {
		radius float64
		want   bool
	}{
		{r, true},
		{r + 5.9, true},
		{r - 5.9, true},
		{r + 6.1, false},
		{r - 6.1, false},
	}
	for _, tc := range tests {
		if got := p.IsRadiusSimilar(tc.radius); got != tc.want {
			t.Errorf("IsRadiusSimilar(%v): got %v, want %v", tc.radius, got, tc.want)
		}
	}
}

func TestSnapshot_RadiusSimilarity(t *testing.T) {
	base := NewSnapshot(r2.Vec{}, 10)
	tests := []struct {
		radius float64
		want   bool
	}{
		{10, true},
		{18.9, true},
		{1.1, true},
		{19.1, false},
		{0.5, false},
	}
	for _, tc := range tests {
		other := NewSnapshot(r2.Vec{X: 50}, tc.radius)
		if got := base.IsRadiusSimilar(other); got != tc.want {
			t.Errorf("radius %v: got %v, want %v", tc.radius, got, tc.want)
		}
	}
	if base.ID == NewSnapshot(r2.Vec{}, 10).ID {
		t.Error("snapshots must get distinct ids")
	}
}
