package xmetrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/viper"
	"github.com/xmidt-org/otlp-debug/xviper"
)

const (
	// MetricsKey is the Viper subkey under which metrics configuration is stored
	MetricsKey = "metrics"

	DefaultNamespace = "otlp_debug"
	DefaultSubsystem = "trace"
)

// Options is the configurable options for creating a Prometheus registry
type Options struct {
	// Namespace is the namespace for metrics created through the registry.
	// If not supplied, DefaultNamespace is used.
	Namespace string

	// Subsystem is the subsystem for metrics created through the registry.
	// If not supplied, DefaultSubsystem is used.
	Subsystem string

	// Textfile is the path to which WriteTextfile dumps the gathered metrics.  If unset,
	// WriteTextfile does nothing.
	Textfile string

	// Pedantic indicates whether the registry is created via NewPedanticRegistry().  By default, this is false.  Set
	// to true for testing or development.
	Pedantic bool

	// DisableGoCollector controls whether the Go Collector is registered with the Registry.  By default this is false,
	// meaning that a GoCollector is registered.
	DisableGoCollector bool

	// DisableProcessCollector controls whether the Process Collector is registered with the Registry.  By default this is false,
	// meaning that a ProcessCollector is registered.
	DisableProcessCollector bool

	// Buckets are the histogram buckets, in seconds.  If unset, prometheus.DefBuckets is used.
	Buckets []float64
}

func (o *Options) namespace() string {
	if o != nil && len(o.Namespace) > 0 {
		return o.Namespace
	}

	return DefaultNamespace
}

func (o *Options) subsystem() string {
	if o != nil && len(o.Subsystem) > 0 {
		return o.Subsystem
	}

	return DefaultSubsystem
}

func (o *Options) textfile() string {
	if o != nil {
		return o.Textfile
	}

	return ""
}

func (o *Options) buckets() []float64 {
	if o != nil && len(o.Buckets) > 0 {
		return o.Buckets
	}

	return prometheus.DefBuckets
}

func (o *Options) registry() *prometheus.Registry {
	var pr *prometheus.Registry

	if o != nil && o.Pedantic {
		pr = prometheus.NewPedanticRegistry()
	} else {
		pr = prometheus.NewRegistry()
	}

	if o == nil || !o.DisableGoCollector {
		pr.MustRegister(collectors.NewGoCollector())
	}

	if o == nil || !o.DisableProcessCollector {
		pr.MustRegister(collectors.NewProcessCollector(
			collectors.ProcessCollectorOpts{
				Namespace: o.namespace(),
			},
		))
	}

	return pr
}

// Sub returns the standard child Viper, using MetricsKey, for this package.
// If passed nil, this function returns nil.
func Sub(v *viper.Viper) *viper.Viper {
	return xviper.Sub(v, MetricsKey)
}

// FromViper produces an Options from a (possibly nil) Viper instance.
func FromViper(v *viper.Viper) (*Options, error) {
	o := new(Options)
	if v != nil {
		if err := v.Unmarshal(o); err != nil {
			return nil, err
		}
	}

	return o, nil
}
