package debounce

import (
	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/discard"
	"github.com/go-kit/kit/metrics/provider"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/xmidt-org/debounce/xmetrics"
	themisXmetrics "github.com/xmidt-org/themis/xmetrics"
	"go.uber.org/fx"
)

// Names for our metrics
const (
	CallsCounter       = "debounce_calls"
	InvocationsCounter = "debounce_invocations"
	RejectedCounter    = "debounce_rejected"
	ErrorsCounter      = "debounce_errors"
	ArmedGauge         = "debounce_armed"
)

// help messages
const (
	callsHelp       = "Count of attempts to call debounced functions"
	invocationsHelp = "Count of real invocations of debounced functions"
	rejectedHelp    = "Count of calls refused because a debounced function reached its call ceiling"
	errorsHelp      = "Count of debounced invocations that returned an error or panicked"
	armedHelp       = "Number of debounced functions currently waiting on a timer"
)

// Metrics returns the metrics relevant to this package targeting our older non uber/fx applications.
// To initialize the metrics, use NewMeasures().
func Metrics() []xmetrics.Metric {
	return []xmetrics.Metric{
		{
			Name: CallsCounter,
			Type: xmetrics.CounterType,
			Help: callsHelp,
		},
		{
			Name: InvocationsCounter,
			Type: xmetrics.CounterType,
			Help: invocationsHelp,
		},
		{
			Name: RejectedCounter,
			Type: xmetrics.CounterType,
			Help: rejectedHelp,
		},
		{
			Name: ErrorsCounter,
			Type: xmetrics.CounterType,
			Help: errorsHelp,
		},
		{
			Name: ArmedGauge,
			Type: xmetrics.GaugeType,
			Help: armedHelp,
		},
	}
}

// ProvideMetrics provides the metrics relevant to this package as uber/fx options.
func ProvideMetrics() fx.Option {
	return fx.Provide(
		themisXmetrics.ProvideCounter(prometheus.CounterOpts{
			Name: CallsCounter,
			Help: callsHelp,
		}),
		themisXmetrics.ProvideCounter(prometheus.CounterOpts{
			Name: InvocationsCounter,
			Help: invocationsHelp,
		}),
		themisXmetrics.ProvideCounter(prometheus.CounterOpts{
			Name: RejectedCounter,
			Help: rejectedHelp,
		}),
		themisXmetrics.ProvideCounter(prometheus.CounterOpts{
			Name: ErrorsCounter,
			Help: errorsHelp,
		}),
		themisXmetrics.ProvideGauge(prometheus.GaugeOpts{
			Name: ArmedGauge,
			Help: armedHelp,
		}),
	)
}

// Measures describes the defined metrics that will be used by Debounced functions.  Any number of
// Debounced functions may share the same Measures.
type Measures struct {
	fx.In

	Calls       metrics.Counter `name:"debounce_calls"`
	Invocations metrics.Counter `name:"debounce_invocations"`
	Rejected    metrics.Counter `name:"debounce_rejected"`
	Errors      metrics.Counter `name:"debounce_errors"`
	Armed       metrics.Gauge   `name:"debounce_armed"`
}

// NewMeasures realizes desired metrics.  It's intended to be used alongside Metrics() for
// our older non uber/fx applications.
func NewMeasures(p provider.Provider) Measures {
	return Measures{
		Calls:       p.NewCounter(CallsCounter),
		Invocations: p.NewCounter(InvocationsCounter),
		Rejected:    p.NewCounter(RejectedCounter),
		Errors:      p.NewCounter(ErrorsCounter),
		Armed:       p.NewGauge(ArmedGauge),
	}
}

func discardMeasures() Measures {
	return Measures{}.withDefaults()
}

func (m Measures) withDefaults() Measures {
	if m.Calls == nil {
		m.Calls = discard.NewCounter()
	}

	if m.Invocations == nil {
		m.Invocations = discard.NewCounter()
	}

	if m.Rejected == nil {
		m.Rejected = discard.NewCounter()
	}

	if m.Errors == nil {
		m.Errors = discard.NewCounter()
	}

	if m.Armed == nil {
		m.Armed = discard.NewGauge()
	}

	return m
}
