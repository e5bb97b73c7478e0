// Package stats counts resolution outcomes on a private Prometheus registry.
package stats

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.trai.ch/ancestry/internal/core/domain"
)

const metricsNamespace = "ancestry"

const (
	matchesName      = metricsNamespace + "_matches_total"
	anomaliesName    = metricsNamespace + "_match_anomalies_total"
	noIdentifierName = metricsNamespace + "_packages_without_identifier_total"
	skippedName      = metricsNamespace + "_provenance_items_skipped_total"
	originsName      = metricsNamespace + "_origins_applied_total"
)

// Collector implements ports.StatsSink. It is safe for concurrent use.
type Collector struct {
	registry *prometheus.Registry

	MatchesTotal      *prometheus.CounterVec
	AnomaliesTotal    *prometheus.CounterVec
	NoIdentifierTotal *prometheus.CounterVec
	SkippedTotal      *prometheus.CounterVec
	OriginsTotal      *prometheus.CounterVec
}

// New creates a Collector with its own registry.
func New() *Collector {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,
		MatchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "matches_total",
				Help:      "Parent/component package comparisons by deciding identifier and outcome",
			},
			[]string{"tier", "matched", "parent_producer", "component_producer"},
		),
		AnomaliesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "match_anomalies_total",
				Help:      "Matches where the component package was produced by the dependency tool",
			},
			[]string{"parent_producer", "component_producer"},
		),
		NoIdentifierTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "packages_without_identifier_total",
				Help:      "Packages with no checksum, verification code or versioned purl",
			},
			[]string{"side"},
		),
		SkippedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "provenance_items_skipped_total",
				Help:      "Provenance items that were not attributed to a package",
			},
			[]string{"reason"},
		),
		OriginsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "origins_applied_total",
				Help:      "Origin assignments applied to component packages",
			},
			[]string{"kind"},
		),
	}
}

// Registry exposes the collector's registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// RecordMatch records the outcome of one parent/component comparison.
func (c *Collector) RecordMatch(result domain.MatchResult) {
	c.MatchesTotal.WithLabelValues(
		string(result.Tier),
		strconv.FormatBool(result.Matched),
		string(result.ParentProducer),
		string(result.ComponentProducer),
	).Inc()

	if result.Anomalous() {
		c.AnomaliesTotal.WithLabelValues(string(result.ParentProducer), string(result.ComponentProducer)).Inc()
	}
}

// RecordNoIdentifier records a package that cannot be matched at all.
func (c *Collector) RecordNoIdentifier(side domain.Side, _ string) {
	c.NoIdentifierTotal.WithLabelValues(string(side)).Inc()
}

// RecordSkippedItem records a provenance item that was not attributed.
func (c *Collector) RecordSkippedItem(reason domain.SkipReason, _ string) {
	c.SkippedTotal.WithLabelValues(string(reason)).Inc()
}

// RecordOrigin records an applied origin assignment.
func (c *Collector) RecordOrigin(kind domain.OriginKind) {
	c.OriginsTotal.WithLabelValues(string(kind)).Inc()
}

// Snapshot is a point-in-time summary of the collector's counters.
type Snapshot struct {
	Matched      int
	Unmatched    int
	ByTier       map[domain.MatchTier]int
	Anomalies    int
	NoIdentifier map[domain.Side]int
	Skipped      map[domain.SkipReason]int
	Origins      map[domain.OriginKind]int
}

// Snapshot gathers the current counter values.
func (c *Collector) Snapshot() (Snapshot, error) {
	s := Snapshot{
		ByTier:       map[domain.MatchTier]int{},
		NoIdentifier: map[domain.Side]int{},
		Skipped:      map[domain.SkipReason]int{},
		Origins:      map[domain.OriginKind]int{},
	}

	families, err := c.registry.Gather()
	if err != nil {
		return s, err
	}

	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			labels := make(map[string]string, len(m.GetLabel()))
			for _, lp := range m.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			n := int(m.GetCounter().GetValue())

			switch mf.GetName() {
			case matchesName:
				if labels["matched"] == "true" {
					s.Matched += n
					s.ByTier[domain.MatchTier(labels["tier"])] += n
				} else {
					s.Unmatched += n
				}
			case anomaliesName:
				s.Anomalies += n
			case noIdentifierName:
				s.NoIdentifier[domain.Side(labels["side"])] += n
			case skippedName:
				s.Skipped[domain.SkipReason(labels["reason"])] += n
			case originsName:
				s.Origins[domain.OriginKind(labels["kind"])] += n
			}
		}
	}
	return s, nil
}

// String renders the snapshot as a single log line.
func (s Snapshot) String() string {
	parts := []string{
		fmt.Sprintf("matched=%d", s.Matched),
		fmt.Sprintf("unmatched=%d", s.Unmatched),
	}
	for _, tier := range slices.Sorted(maps.Keys(s.ByTier)) {
		parts = append(parts, fmt.Sprintf("by_%s=%d", tier, s.ByTier[tier]))
	}
	if s.Anomalies > 0 {
		parts = append(parts, fmt.Sprintf("anomalies=%d", s.Anomalies))
	}
	for _, side := range slices.Sorted(maps.Keys(s.NoIdentifier)) {
		parts = append(parts, fmt.Sprintf("no_identifier_%s=%d", side, s.NoIdentifier[side]))
	}
	for _, reason := range slices.Sorted(maps.Keys(s.Skipped)) {
		parts = append(parts, fmt.Sprintf("skipped_%s=%d", reason, s.Skipped[reason]))
	}
	for _, kind := range slices.Sorted(maps.Keys(s.Origins)) {
		parts = append(parts, fmt.Sprintf("origins_%s=%d", kind, s.Origins[kind]))
	}
	return strings.Join(parts, " ")
}
