package xmetrics

import (
	"fmt"
	"sync"

	"github.com/go-kit/kit/metrics"
	gokitprometheus "github.com/go-kit/kit/metrics/prometheus"
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the core abstraction for this package.  It is a Prometheus registry that also hands out
// go-kit wrappers for the histograms it creates.
//
// Histograms are created on first use and cached, so asking for the same name twice returns
// wrappers around the same underlying vector.
type Registry interface {
	prometheus.Gatherer
	prometheus.Registerer

	// NewHistogramVec returns the named histogram vector, creating it if necessary.  Asking
	// for an existing name with different label names panics.
	NewHistogramVec(name string, labelNames ...string) *prometheus.HistogramVec

	// NewHistogram is the go-kit view of NewHistogramVec
	NewHistogram(name string, labelNames ...string) metrics.Histogram

	// WriteTextfile writes everything gathered so far to the configured textfile.
	// If no textfile is configured, this method does nothing.
	WriteTextfile() error
}

// registry is the internal Registry implementation
type registry struct {
	*prometheus.Registry

	namespace string
	subsystem string
	buckets   []float64
	textfile  string

	lock  sync.Mutex
	cache map[string]cachedVec
}

type cachedVec struct {
	vec        *prometheus.HistogramVec
	labelNames []string
}

func sameLabels(left, right []string) bool {
	if len(left) != len(right) {
		return false
	}

	for i := range left {
		if left[i] != right[i] {
			return false
		}
	}

	return true
}

func (r *registry) NewHistogramVec(name string, labelNames ...string) *prometheus.HistogramVec {
	r.lock.Lock()
	defer r.lock.Unlock()

	if existing, ok := r.cache[name]; ok {
		if !sameLabels(existing.labelNames, labelNames) {
			panic(fmt.Errorf("the histogram %s has labels %v, not %v", name, existing.labelNames, labelNames))
		}

		return existing.vec
	}

	histogramVec := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: r.namespace,
		Subsystem: r.subsystem,
		Name:      name,
		Help:      name,
		Buckets:   r.buckets,
	}, labelNames)

	if err := r.Registry.Register(histogramVec); err != nil {
		if already, ok := err.(prometheus.AlreadyRegisteredError); ok {
			histogramVec = already.ExistingCollector.(*prometheus.HistogramVec)
		} else {
			panic(err)
		}
	}

	r.cache[name] = cachedVec{
		vec:        histogramVec,
		labelNames: append([]string(nil), labelNames...),
	}

	return histogramVec
}

func (r *registry) NewHistogram(name string, labelNames ...string) metrics.Histogram {
	return gokitprometheus.NewHistogram(r.NewHistogramVec(name, labelNames...))
}

func (r *registry) WriteTextfile() error {
	if len(r.textfile) == 0 {
		return nil
	}

	if err := prometheus.WriteToTextfile(r.textfile, r.Registry); err != nil {
		return fmt.Errorf("unable to write metrics to %s: %w", r.textfile, err)
	}

	return nil
}

// NewRegistry creates a Registry from a (possibly nil) Options
func NewRegistry(o *Options) Registry {
	return &registry{
		Registry:  o.registry(),
		namespace: o.namespace(),
		subsystem: o.subsystem(),
		buckets:   o.buckets(),
		textfile:  o.textfile(),
		cache:     make(map[string]cachedVec),
	}
}
