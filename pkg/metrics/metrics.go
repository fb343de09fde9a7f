// Package metrics exports tangible recognition counters to prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/teslashibe/go-tangible/pkg/tangible"
)

const namespace = "tangible"

// Collector counts tangible events and tracks manager collection sizes.
// It implements tangible.EventSink.
type Collector struct {
	registry *prometheus.Registry

	events      *prometheus.CounterVec
	collections *prometheus.GaugeVec
	clients     prometheus.Gauge
	touches     *prometheus.CounterVec
}

// New creates a collector with its own registry. Go runtime and process
// collectors are registered alongside.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Tangible and marker events by type.",
		}, []string{"event"}),
		collections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "collection_size",
			Help:      "Markers and tangibles per manager collection.",
		}, []string{"collection"}),
		clients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "event_clients",
			Help:      "Connected event stream clients.",
		}),
		touches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "touches_total",
			Help:      "Touches received by phase.",
		}, []string{"phase"}),
	}

	c.registry.MustRegister(
		c.events,
		c.collections,
		c.clients,
		c.touches,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// Registry returns the underlying registry.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// Handler serves the registry in the prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// ObserveStats records the manager collection sizes.
func (c *Collector) ObserveStats(s tangible.Stats) {
	c.collections.WithLabelValues("unassigned").Set(float64(s.Unassigned))
	c.collections.WithLabelValues("complete").Set(float64(s.Complete))
	c.collections.WithLabelValues("incomplete").Set(float64(s.Incomplete))
	c.collections.WithLabelValues("blocked").Set(float64(s.Blocked))
	c.collections.WithLabelValues("whitelisted").Set(float64(s.Whitelisted))
}

// ObserveClients records the number of event stream clients.
func (c *Collector) ObserveClients(n int) {
	c.clients.Set(float64(n))
}

// ObserveTouch counts a received touch.
func (c *Collector) ObserveTouch(phase string) {
	c.touches.WithLabelValues(phase).Inc()
}

func (c *Collector) inc(event string) {
	c.events.WithLabelValues(event).Inc()
}

func (c *Collector) MarkerDidBecomeActive(*tangible.Marker) {
	c.inc(tangible.EventMarkerActive)
}

func (c *Collector) MarkerDidBecomeInactive(*tangible.Marker) {
	c.inc(tangible.EventMarkerInactive)
}

func (c *Collector) TangibleDidBecomeActive(*tangible.Tangible) {
	c.inc(tangible.EventTangibleActive)
}

func (c *Collector) TangibleDidBecomeInactive(*tangible.Tangible) {
	c.inc(tangible.EventTangibleInactive)
}

func (c *Collector) TangibleMoved(*tangible.Tangible) {
	c.inc(tangible.EventTangibleMoved)
}

func (c *Collector) TangibleLostMarker(*tangible.Tangible, *tangible.Marker) {
	c.inc(tangible.EventTangibleLost)
}

func (c *Collector) TangibleRecoveredMarker(*tangible.Tangible, *tangible.Marker) {
	c.inc(tangible.EventTangibleRecovered)
}

var _ tangible.EventSink = (*Collector)(nil)
