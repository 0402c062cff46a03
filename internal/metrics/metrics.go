// Package metrics exports classification activity in Prometheus format.
// Collectors are fed from bus events so the core stays free of instrumentation.
package metrics

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/common/expfmt"

	"github.com/chrisconley/greencity/internal"
	"github.com/chrisconley/greencity/internal/infra"
)

const namespace = "greencity"

type Collector struct {
	registry *prometheus.Registry

	classified     *prometheus.CounterVec
	resistance     prometheus.Histogram
	temperature    prometheus.Histogram
	activeSessions prometheus.Gauge
}

// NewCollector registers the greencity collectors on a private registry.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		classified: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "batteries_classified_total",
				Help:      "Number of batteries classified, by zone, ward and disposal status",
			},
			[]string{"zone", "ward", "status"},
		),
		resistance: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "battery_internal_resistance_ohms",
				Help:      "Derived internal resistance of classified batteries",
				Buckets:   prometheus.LinearBuckets(0.25, 0.25, 8),
			},
		),
		temperature: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "battery_temperature_celsius",
				Help:      "Measured temperature of classified batteries",
				Buckets:   prometheus.LinearBuckets(20, 5, 5),
			},
		),
		activeSessions: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "sessions_active",
				Help:      "Number of open dashboard sessions",
			},
		),
	}
	c.registry.MustRegister(c.classified, c.resistance, c.temperature, c.activeSessions)
	return c
}

// Subscribe wires the collector to battery and session events.
func (c *Collector) Subscribe(bus *infra.Bus) {
	bus.Subscribe(infra.BatteryAdded, c.handleBatteryAdded)
	bus.Subscribe(infra.SessionOpened, func(infra.Event) { c.activeSessions.Inc() })
	bus.Subscribe(infra.SessionClosed, func(infra.Event) { c.activeSessions.Dec() })
}

func (c *Collector) handleBatteryAdded(e infra.Event) {
	added, ok := e.(internal.BatteryAddedEvent)
	if !ok {
		return
	}
	r := added.Record
	c.classified.WithLabelValues(r.Zone, r.WardID, r.Status).Inc()
	if v, err := strconv.ParseFloat(r.InternalResistance, 64); err == nil {
		c.resistance.Observe(v)
	}
	if v, err := strconv.ParseFloat(r.Measurement.Temperature, 64); err == nil {
		c.temperature.Observe(v)
	}
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry for scraping.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// WriteText renders every metric in the Prometheus text exposition format.
func (c *Collector) WriteText(w io.Writer) error {
	families, err := c.registry.Gather()
	if err != nil {
		return fmt.Errorf("gathering metrics: %w", err)
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("encoding %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
