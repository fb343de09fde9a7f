package tangible

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

// callLog records MarkerStatus and tangible sink calls in one sequence.
type callLog struct {
	NopSink
	calls []string
}

func (c *callLog) MarkerDidBecomeActive(*Marker)   { c.calls = append(c.calls, "manager:active") }
func (c *callLog) MarkerDidBecomeInactive(*Marker) { c.calls = append(c.calls, "manager:inactive") }
func (c *callLog) TangibleRecoveredMarker(*Tangible, *Marker) {
	c.calls = append(c.calls, "tangible:recovered")
}
func (c *callLog) TangibleLostMarker(*Tangible, *Marker) {
	c.calls = append(c.calls, "tangible:lost")
}

func TestMarker_Lifecycle(t *testing.T) {
	log := &callLog{}
	m := NewMarker(r2.Vec{X: 1, Y: 1}, 22)
	m.SetManager(log)

	if m.IsActive() {
		t.Fatal("new marker should be inactive")
	}

	m.Began(r2.Vec{X: 2, Y: 2}, 22)
	if !m.IsActive() {
		t.Error("marker should be active after Began")
	}
	if m.PreviousCenter() != (r2.Vec{X: 1, Y: 1}) {
		t.Errorf("previous center: got %v, want (1, 1)", m.PreviousCenter())
	}

	m.Moved(r2.Vec{X: 5, Y: 2}, 22)
	if m.Center() != (r2.Vec{X: 5, Y: 2}) || m.PreviousCenter() != (r2.Vec{X: 2, Y: 2}) {
		t.Errorf("after move: center %v previous %v", m.Center(), m.PreviousCenter())
	}

	m.Cancelled(r2.Vec{X: 5, Y: 3}, 22)
	if m.IsActive() {
		t.Error("marker should be inactive after Cancelled")
	}

	want := []string{"manager:active", "manager:inactive"}
	if len(log.calls) != len(want) {
		t.Fatalf("calls: got %v, want %v", log.calls, want)
	}
	for i := range want {
		if log.calls[i] != want[i] {
			t.Errorf("call %d: got %s, want %s", i, log.calls[i], want[i])
		}
	}
}

func TestMarker_RadiusMean(t *testing.T) {
	m := NewMarker(r2.Vec{}, 22)
	if m.Radius() != 22 {
		t.Errorf("initial radius: got %v, want 22", m.Radius())
	}

	m.Began(r2.Vec{}, 22)
	if !floatEquals(m.Radius(), 22) {
		t.Errorf("after first sample: got %v, want 22", m.Radius())
	}
	m.Moved(r2.Vec{}, 10)
	if !floatEquals(m.Radius(), 16) {
		t.Errorf("after second sample: got %v, want 16", m.Radius())
	}

	m.SetUseMeanValues(false)
	m.Moved(r2.Vec{}, 30)
	if !floatEquals(m.Radius(), 30) {
		t.Errorf("raw radius: got %v, want 30", m.Radius())
	}
}

func TestMarker_PlaceholderRadius(t *testing.T) {
	tests := []struct {
		name    string
		useMean bool
		radius  float64
		want    float64
	}{
		{"raw small radius widened", false, 5, 20},
		{"raw large radius kept", false, 25, 25},
		{"smoothed radius kept", true, 5, 5},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := NewMarker(r2.Vec{}, tc.radius)
			m.SetUseMeanValues(tc.useMean)
			m.Began(r2.Vec{}, tc.radius)
			m.Ended(r2.Vec{}, tc.radius)
			if !floatEquals(m.Radius(), tc.want) {
				t.Errorf("got %v, want %v", m.Radius(), tc.want)
			}
		})
	}
}

func TestMarker_TangibleNotifiedBeforeManager(t *testing.T) {
	log := &callLog{}
	m1, m2, m3 := rightTriangle()
	tg := mustTangible(m1, m2, m3)
	tg.sink = log
	m3.SetManager(log)

	m3.Began(m3.Center(), 5)
	m3.Ended(m3.Center(), 5)

	want := []string{"tangible:recovered", "manager:active", "tangible:lost", "manager:inactive"}
	if len(log.calls) != len(want) {
		t.Fatalf("calls: got %v, want %v", log.calls, want)
	}
	for i := range want {
		if log.calls[i] != want[i] {
			t.Errorf("call %d: got %s, want %s", i, log.calls[i], want[i])
		}
	}
}

func TestMarker_IsSimilar(t *testing.T) {
	a := NewMarker(r2.Vec{}, 10)
	b := NewMarker(r2.Vec{X: 100}, 15)
	c := NewMarker(r2.Vec{}, 30)
	if !a.IsSimilar(b) {
		t.Error("radii 10 and 15 should be similar")
	}
	if a.IsSimilar(c) {
		t.Error("radii 10 and 30 should differ")
	}
}

func TestMeanCalculator(t *testing.T) {
	var c MeanCalculator
	if c.Mean() != 0 {
		t.Errorf("empty mean: got %v", c.Mean())
	}
	for i, tc := range []struct{ add, want float64 }{{4, 4}, {8, 6}, {0, 4}} {
		if got := c.Add(tc.add); !floatEquals(got, tc.want) {
			t.Errorf("step %d: got %v, want %v", i, got, tc.want)
		}
	}
	if c.Count() != 3 {
		t.Errorf("count: got %d, want 3", c.Count())
	}
}
