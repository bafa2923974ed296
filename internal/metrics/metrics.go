// Package metrics collects session counters and writes them as a Prometheus
// text file when the session ends.
package metrics

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// Collector captures metrics for one explorer session.
type Collector struct {
	registry      *prometheus.Registry
	buildsTotal   *prometheus.CounterVec
	buildDuration prometheus.Histogram
	elements      *prometheus.GaugeVec
	clicksTotal   *prometheus.CounterVec
	transitions   *prometheus.CounterVec
	exportsTotal  *prometheus.CounterVec
}

// NewCollector initializes a new metrics registry.
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()
	collector := &Collector{
		registry: registry,
		buildsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "graphscope_builds_total", Help: "Total number of element graph builds"},
			[]string{"status"},
		),
		buildDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "graphscope_build_duration_seconds",
				Help:    "Element graph build duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		elements: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{Name: "graphscope_elements", Help: "Elements in the last built graph"},
			[]string{"kind"},
		),
		clicksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "graphscope_clicks_total", Help: "Click events by target kind"},
			[]string{"target"},
		),
		transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "graphscope_transitions_total", Help: "Interaction state transitions"},
			[]string{"kind"},
		),
		exportsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "graphscope_exports_total", Help: "Export attempts by format and status"},
			[]string{"format", "status"},
		),
	}

	registry.MustRegister(
		collector.buildsTotal,
		collector.buildDuration,
		collector.elements,
		collector.clicksTotal,
		collector.transitions,
		collector.exportsTotal,
	)
	return collector
}

// ObserveBuild records a build outcome and, on success, the element counts.
func (c *Collector) ObserveBuild(duration time.Duration, leaves, metanodes, edges int, err error) {
	if err != nil {
		c.buildsTotal.WithLabelValues("error").Inc()
		return
	}
	c.buildsTotal.WithLabelValues("ok").Inc()
	c.buildDuration.Observe(duration.Seconds())
	c.elements.WithLabelValues("leaf").Set(float64(leaves))
	c.elements.WithLabelValues("metanode").Set(float64(metanodes))
	c.elements.WithLabelValues("edge").Set(float64(edges))
}

// ObserveClick records a click on a target of the given kind.
func (c *Collector) ObserveClick(target string) {
	if target == "" {
		target = "background"
	}
	c.clicksTotal.WithLabelValues(target).Inc()
}

// Transition records an interaction state transition.
func (c *Collector) Transition(kind string) {
	c.transitions.WithLabelValues(kind).Inc()
}

// ObserveExport records an export attempt.
func (c *Collector) ObserveExport(format string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	c.exportsTotal.WithLabelValues(format, status).Inc()
}

// Registry exposes the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Write writes all metrics to a Prometheus text file.
func (c *Collector) Write(path string) error {
	metricFamilies, err := c.registry.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	var buf bytes.Buffer
	enc := expfmt.NewEncoder(&buf, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, family := range metricFamilies {
		if err := enc.Encode(family); err != nil {
			return fmt.Errorf("failed to encode metric %s: %w", family.GetName(), err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write metrics file %s: %w", path, err)
	}
	return nil
}
