package xmetrics

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	CounterType   = "counter"
	GaugeType     = "gauge"
	HistogramType = "histogram"
	SummaryType   = "summary"
)

// Module supplies metric descriptors to preregister, e.g. debounce.Metrics
type Module func() []Metric

// Metric describes a label-less metric to preregister with a Registry.  Fields that do not apply
// to the Type are ignored.
type Metric struct {
	Name string `mapstructure:"name"`

	// Type is one of CounterType, GaugeType, HistogramType, or SummaryType
	Type string `mapstructure:"type"`

	// Namespace and Subsystem override the Registry's values when set
	Namespace string `mapstructure:"namespace"`
	Subsystem string `mapstructure:"subsystem"`

	// Help defaults to the name
	Help        string            `mapstructure:"help"`
	ConstLabels map[string]string `mapstructure:"constLabels"`

	// Buckets applies to histograms
	Buckets []float64 `mapstructure:"buckets"`

	// Objectives and MaxAge apply to summaries
	Objectives map[float64]float64 `mapstructure:"objectives"`
	MaxAge     time.Duration       `mapstructure:"maxAge"`
}

// NewCollector creates a label-less Prometheus vector from a Metric descriptor.  The name must not be empty.
// Namespace and subsystem default to the given values, and help defaults to the name.
func NewCollector(m Metric, namespace, subsystem string) (prometheus.Collector, error) {
	if len(m.Name) == 0 {
		return nil, errors.New("a name is required for a metric")
	}

	if len(m.Namespace) > 0 {
		namespace = m.Namespace
	}

	if len(m.Subsystem) > 0 {
		subsystem = m.Subsystem
	}

	help := m.Help
	if len(help) == 0 {
		help = m.Name
	}

	switch m.Type {
	case CounterType:
		return prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   subsystem,
			Name:        m.Name,
			Help:        help,
			ConstLabels: prometheus.Labels(m.ConstLabels),
		}, []string{}), nil

	case GaugeType:
		return prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   namespace,
			Subsystem:   subsystem,
			Name:        m.Name,
			Help:        help,
			ConstLabels: prometheus.Labels(m.ConstLabels),
		}, []string{}), nil

	case HistogramType:
		return prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   namespace,
			Subsystem:   subsystem,
			Name:        m.Name,
			Help:        help,
			Buckets:     m.Buckets,
			ConstLabels: prometheus.Labels(m.ConstLabels),
		}, []string{}), nil

	case SummaryType:
		return prometheus.NewSummaryVec(prometheus.SummaryOpts{
			Namespace:   namespace,
			Subsystem:   subsystem,
			Name:        m.Name,
			Help:        help,
			Objectives:  m.Objectives,
			MaxAge:      m.MaxAge,
			ConstLabels: prometheus.Labels(m.ConstLabels),
		}, []string{}), nil

	default:
		return nil, fmt.Errorf("unsupported metric type: %s", m.Type)
	}
}
