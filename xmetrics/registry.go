package xmetrics

import (
	"fmt"
	"sync"

	"github.com/go-kit/kit/metrics"
	gokitprometheus "github.com/go-kit/kit/metrics/prometheus"
	"github.com/go-kit/kit/metrics/provider"
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the core abstraction for this package.  It is a Prometheus registry and a go-kit metrics.Provider all in one.
//
// The Provider implementation works slightly differently than the go-kit implementation.  For any metric that is already defined
// the provider returns a new go-kit wrapper for that metric.  Additionally, new metrics (including ad hoc metrics) are cached
// and returned by subsequent calls to the Provider methods.  Asking for an existing metric as the wrong type panics.
type Registry interface {
	provider.Provider
	prometheus.Gatherer
	prometheus.Registerer
}

// registry is the internal Registry implementation
type registry struct {
	*prometheus.Registry

	lock      sync.Mutex
	namespace string
	subsystem string
	cache     map[string]prometheus.Collector
}

// NewRegistry creates a Registry with the metrics from the given modules and the Options preregistered.
// The Options may be nil, in which case defaults are used.
func NewRegistry(o *Options, m ...Module) (Registry, error) {
	r := &registry{
		Registry:  o.registry(),
		namespace: o.namespace(),
		subsystem: o.subsystem(),
		cache:     make(map[string]prometheus.Collector),
	}

	for _, module := range append(m, o.Module) {
		for _, metric := range module() {
			if _, ok := r.cache[metric.Name]; ok {
				return nil, fmt.Errorf("duplicate metric with name: %s", metric.Name)
			}

			c, err := NewCollector(metric, r.namespace, r.subsystem)
			if err != nil {
				return nil, err
			}

			if err := r.Registry.Register(c); err != nil {
				return nil, fmt.Errorf("error while preregistering metric %s: %s", metric.Name, err)
			}

			r.cache[metric.Name] = c
		}
	}

	return r, nil
}

// collector returns the cached collector with the given name, creating and registering
// an ad hoc metric of type t if necessary.
func (r *registry) collector(name, t string) prometheus.Collector {
	r.lock.Lock()
	defer r.lock.Unlock()

	if existing, ok := r.cache[name]; ok {
		return existing
	}

	c, err := NewCollector(Metric{Name: name, Type: t}, r.namespace, r.subsystem)
	if err != nil {
		panic(err)
	}

	if err := r.Registry.Register(c); err != nil {
		if already, ok := err.(prometheus.AlreadyRegisteredError); ok {
			c = already.ExistingCollector
		} else {
			panic(err)
		}
	}

	r.cache[name] = c
	return c
}

func (r *registry) NewCounter(name string) metrics.Counter {
	vec, ok := r.collector(name, CounterType).(*prometheus.CounterVec)
	if !ok {
		panic(fmt.Errorf("the metric %s is not a counter", name))
	}

	return gokitprometheus.NewCounter(vec)
}

func (r *registry) NewGauge(name string) metrics.Gauge {
	vec, ok := r.collector(name, GaugeType).(*prometheus.GaugeVec)
	if !ok {
		panic(fmt.Errorf("the metric %s is not a gauge", name))
	}

	return gokitprometheus.NewGauge(vec)
}

// NewHistogram will return a Histogram for either a Summary or Histogram.  This is different
// behavior from metrics.Provider.
func (r *registry) NewHistogram(name string, _ int) metrics.Histogram {
	switch vec := r.collector(name, HistogramType).(type) {
	case *prometheus.HistogramVec:
		return gokitprometheus.NewHistogram(vec)
	case *prometheus.SummaryVec:
		return gokitprometheus.NewSummary(vec)
	default:
		panic(fmt.Errorf("the metric %s is not a histogram or summary", name))
	}
}

func (r *registry) Stop() {
}
