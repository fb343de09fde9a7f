package surface

import (
	"errors"
	"testing"

	"github.com/teslashibe/go-tangible/pkg/tangible"
	"gonum.org/v1/gonum/spatial/r2"
)

func newTestSurface(t *testing.T) (*Surface, *tangible.Recorder) {
	t.Helper()
	rec := tangible.NewRecorder()
	mgr, err := tangible.NewManager(
		tangible.WithSink(rec),
		tangible.WithWhitelistDisabled(true),
		tangible.WithAcceptPolicy(tangible.AcceptUnique),
	)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	return New(mgr, nil), rec
}

var corner = map[string]r2.Vec{
	"a": {X: 100, Y: 110},
	"b": {X: 100, Y: 100},
	"c": {X: 110, Y: 100},
}

func putDown(t *testing.T, s *Surface) map[string]*tangible.Marker {
	t.Helper()
	out := make(map[string]*tangible.Marker)
	for _, id := range []string{"a", "b", "c"} {
		m, err := s.Began(id, corner[id], 5)
		if err != nil {
			t.Fatalf("Began(%s): %v", id, err)
		}
		out[id] = m
	}
	return out
}

func TestSurface_ComposesTangible(t *testing.T) {
	s, rec := newTestSurface(t)
	putDown(t, s)

	if got := rec.Count(tangible.EventTangibleActive); got != 1 {
		t.Fatalf("tangible_active events = %d, want 1", got)
	}
	s.Do(func(m *tangible.Manager) {
		if n := len(m.CompleteTangibles()); n != 1 {
			t.Errorf("complete = %d, want 1", n)
		}
		if n := len(m.Unassigned()); n != 0 {
			t.Errorf("unassigned = %d, want 0", n)
		}
	})
	if got := s.Touches(); got != 3 {
		t.Errorf("Touches() = %d, want 3", got)
	}
}

func TestSurface_ReusesLostMarker(t *testing.T) {
	s, rec := newTestSurface(t)
	lost := putDown(t, s)["b"]

	if err := s.Ended("b", corner["b"], 5); err != nil {
		t.Fatalf("Ended: %v", err)
	}
	if got := rec.Count(tangible.EventTangibleLost); got != 1 {
		t.Fatalf("tangible_lost events = %d, want 1", got)
	}

	m, err := s.Began("d", corner["b"], 5)
	if err != nil {
		t.Fatalf("Began: %v", err)
	}
	if m != lost {
		t.Errorf("new touch got marker %s, want reused %s", m.ID(), lost.ID())
	}
	if got := rec.Count(tangible.EventTangibleRecovered); got != 1 {
		t.Errorf("tangible_recovered events = %d, want 1", got)
	}
	s.Do(func(mgr *tangible.Manager) {
		if n := len(mgr.CompleteTangibles()); n != 1 {
			t.Errorf("complete = %d, want 1", n)
		}
		if n := len(mgr.Unassigned()); n != 0 {
			t.Errorf("unassigned = %d, want 0", n)
		}
	})
}

func TestSurface_UnassignedLeavesSurface(t *testing.T) {
	s, rec := newTestSurface(t)

	if _, err := s.Began("x", r2.Vec{X: 500, Y: 500}, 5); err != nil {
		t.Fatalf("Began: %v", err)
	}
	if got := s.Shown(); got != 1 {
		t.Fatalf("Shown() = %d, want 1", got)
	}
	if err := s.Ended("x", r2.Vec{X: 500, Y: 500}, 5); err != nil {
		t.Fatalf("Ended: %v", err)
	}
	if got := s.Shown(); got != 0 {
		t.Errorf("Shown() = %d after lift, want 0", got)
	}
	if got := rec.Count(tangible.EventMarkerInactive); got != 1 {
		t.Errorf("marker_inactive events = %d, want 1", got)
	}

	// a second touch at the same place is a fresh marker
	if _, err := s.Began("y", r2.Vec{X: 500, Y: 500}, 5); err != nil {
		t.Fatalf("Began: %v", err)
	}
	if got := rec.Count(tangible.EventMarkerActive); got != 2 {
		t.Errorf("marker_active events = %d, want 2", got)
	}
}

func TestSurface_Errors(t *testing.T) {
	s, _ := newTestSurface(t)

	tests := []struct {
		name string
		call func() error
		want error
	}{
		{"moved unknown", func() error { return s.Moved("nope", r2.Vec{}, 5) }, ErrUnknownTouch},
		{"ended unknown", func() error { return s.Ended("nope", r2.Vec{}, 5) }, ErrUnknownTouch},
		{"cancelled unknown", func() error { return s.Cancelled("nope", r2.Vec{}, 5) }, ErrUnknownTouch},
		{"began twice", func() error {
			if _, err := s.Began("dup", r2.Vec{X: 1, Y: 1}, 5); err != nil {
				return err
			}
			_, err := s.Began("dup", r2.Vec{X: 1, Y: 1}, 5)
			return err
		}, ErrTouchInUse},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.call(); !errors.Is(err, tc.want) {
				t.Errorf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestSurface_MovedFollowsTouch(t *testing.T) {
	s, rec := newTestSurface(t)
	putDown(t, s)

	for _, id := range []string{"a", "b", "c"} {
		p := r2.Add(corner[id], r2.Vec{X: 20, Y: 0})
		if err := s.Moved(id, p, 5); err != nil {
			t.Fatalf("Moved(%s): %v", id, err)
		}
	}
	if rec.Count(tangible.EventTangibleMoved) == 0 {
		t.Error("no tangible_moved events")
	}
	s.Do(func(m *tangible.Manager) {
		c := m.CompleteTangibles()[0].Center()
		if c.X < 124.9 || c.X > 125.1 || c.Y < 104.9 || c.Y > 105.1 {
			t.Errorf("center = %v, want (125,105)", c)
		}
	})
}
