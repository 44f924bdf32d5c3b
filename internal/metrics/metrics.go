// Package metrics counts crawl core outcomes with Prometheus collectors.
//
// A Collector owns its registry, so several crawls in one process never
// share counters. It implements the crawler's Observer interface and can
// wrap a report emitter to count report writes. WriteToTextfile exports the
// registry in the node_exporter textfile format.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/nao1215/scopecrawl/internal/model"
	"github.com/nao1215/scopecrawl/internal/policy"
	"github.com/nao1215/scopecrawl/internal/stats"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "scopecrawl"

// Collector holds the crawl counters.
type Collector struct {
	registry *prometheus.Registry

	pages       *prometheus.CounterVec
	links       *prometheus.CounterVec
	reports     *prometheus.CounterVec
	uniquePages prometheus.Gauge
}

// NewCollector creates a Collector whose metrics are prefixed by namespace.
// An empty namespace selects DefaultNamespace.
func NewCollector(namespace string) *Collector {
	if namespace == "" {
		namespace = DefaultNamespace
	}

	c := &Collector{
		registry: prometheus.NewRegistry(),
		pages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pages_total",
			Help:      "Pages processed, by outcome.",
		}, []string{"outcome"}),
		links: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "links_total",
			Help:      "Candidate links evaluated, by decision and rejecting rule.",
		}, []string{"decision", "rule"}),
		reports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reports_total",
			Help:      "Report writes, by result.",
		}, []string{"result"}),
		uniquePages: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "report_unique_pages",
			Help:      "Unique pages in the last report written.",
		}),
	}

	c.registry.MustRegister(c.pages, c.links, c.reports, c.uniquePages)
	return c
}

// Registry returns the registry holding the collector's metrics.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// ObservePage counts one page outcome.
func (c *Collector) ObservePage(reason model.FailureReason) {
	c.pages.WithLabelValues(reason.String()).Inc()
}

// ObserveLink counts one link decision.
func (c *Collector) ObserveLink(v policy.Verdict) {
	if v.Admitted {
		c.links.WithLabelValues("admitted", "none").Inc()
		return
	}
	c.links.WithLabelValues("rejected", string(v.Rule)).Inc()
}

// ObserveReport counts one report write.
func (c *Collector) ObserveReport(snap model.Snapshot, err error) {
	if err != nil {
		c.reports.WithLabelValues("failed").Inc()
		return
	}
	c.reports.WithLabelValues("written").Inc()
	c.uniquePages.Set(float64(snap.UniquePages))
}

// WrapEmitter returns an emitter that forwards to e and counts the result.
func (c *Collector) WrapEmitter(e stats.Emitter) stats.Emitter {
	return stats.EmitterFunc(func(snap model.Snapshot) error {
		err := e.Emit(snap)
		c.ObserveReport(snap, err)
		return err
	})
}

// WriteToTextfile writes the registry to path in the text exposition format.
func (c *Collector) WriteToTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("write metrics %s: %w", path, err)
	}
	return nil
}
