package protocol

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/teslashibe/go-tangible/pkg/tangible"
)

func point(v r2.Vec) Point {
	return Point{X: v.X, Y: v.Y}
}

// NewMarkerState snapshots a marker for the wire.
func NewMarkerState(m *tangible.Marker) MarkerState {
	return MarkerState{
		ID:     m.ID().String(),
		Center: point(m.Center()),
		Radius: m.Radius(),
		Active: m.IsActive(),
	}
}

// NewTangibleState snapshots a tangible for the wire. state is the manager
// collection the tangible is filed under.
func NewTangibleState(t *tangible.Tangible, state tangible.State) TangibleState {
	ts := TangibleState{
		ID:                 t.ID().String(),
		State:              state.String(),
		Center:             point(t.Center()),
		Radius:             t.Radius(),
		Active:             t.IsActive(),
		InitialOrientation: point(t.InitialOrientationVector()),
		Angles:             t.Pattern().Angles(),
	}
	if id, ok := t.PatternIdentifier(); ok {
		ts.Identifier = id
	}
	if v, ok := t.OrientationVector(); ok {
		o := point(v)
		ts.Orientation = &o
	}
	for _, m := range t.Markers() {
		ts.Markers = append(ts.Markers, NewMarkerState(m))
	}
	return ts
}
