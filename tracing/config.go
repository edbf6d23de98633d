package tracing

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/segmentio/ksuid"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
	"github.com/xmidt-org/otlp-debug/xviper"
)

const (
	// TracingKey is the Viper subkey under which tracing configuration is stored
	TracingKey = "tracing"

	ExporterOTLPGRPC = "otlpgrpc"
	ExporterOTLPHTTP = "otlphttp"
	ExporterZipkin   = "zipkin"
	ExporterJaeger   = "jaeger"
	ExporterStdout   = "stdout"
	ExporterNoop     = "noop"

	DefaultExporter    = ExporterOTLPGRPC
	DefaultTimeout     = 3 * time.Second
	DefaultServiceName = "otlp_debug"
	DefaultEnvironment = "dev"

	// these match the batch span processor's own defaults
	DefaultBatchTimeout       = 5 * time.Second
	DefaultMaxExportBatchSize = 512
	DefaultMaxQueueSize       = 2048
)

var defaultEndpoints = map[string]string{
	ExporterOTLPGRPC: "http://127.0.0.1:4317",
	ExporterOTLPHTTP: "http://127.0.0.1:4318",
	ExporterZipkin:   "http://127.0.0.1:9411/api/v2/spans",
	ExporterJaeger:   "http://127.0.0.1:14268/api/traces",
}

// Config describes the exporter and the resource this process reports itself as.
type Config struct {
	// Exporter selects the span exporter.  The empty string means DefaultExporter.
	Exporter string `json:"exporter"`

	// Endpoint is the collector address.  For the OTLP exporters an http scheme means an
	// insecure connection.  If unset, the conventional local address for the exporter is used.
	Endpoint string `json:"endpoint"`

	// Timeout bounds each export call.  If unset, DefaultTimeout is used.
	Timeout time.Duration `json:"timeout"`

	// Headers are sent with every OTLP export request
	Headers map[string]string `json:"headers" mapstructure:"-"`

	ServiceName    string `json:"serviceName"`
	ServiceVersion string `json:"serviceVersion"`
	Environment    string `json:"environment"`

	// InstanceID is reported as service.instance.id.  A new KSUID is generated when unset.
	InstanceID string `json:"instanceId"`

	// Resource holds additional resource attributes.  The dedicated fields above take
	// precedence over entries with the same key.
	Resource map[string]string `json:"resource" mapstructure:"-"`

	// BatchTimeout, MaxExportBatchSize and MaxQueueSize tune the batch span processor.
	// Zero values leave the SDK defaults in place.
	BatchTimeout       time.Duration `json:"batchTimeout"`
	MaxExportBatchSize int           `json:"maxExportBatchSize"`
	MaxQueueSize       int           `json:"maxQueueSize"`
}

func (c Config) exporter() string {
	if len(c.Exporter) > 0 {
		return strings.ToLower(c.Exporter)
	}

	return DefaultExporter
}

func (c Config) endpoint() string {
	if len(c.Endpoint) > 0 {
		return c.Endpoint
	}

	return defaultEndpoints[c.exporter()]
}

func (c Config) timeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}

	return DefaultTimeout
}

func (c Config) serviceName() string {
	if len(c.ServiceName) > 0 {
		return c.ServiceName
	}

	return DefaultServiceName
}

func (c Config) environment() string {
	if len(c.Environment) > 0 {
		return c.Environment
	}

	return DefaultEnvironment
}

func (c Config) instanceID() string {
	if len(c.InstanceID) > 0 {
		return c.InstanceID
	}

	return ksuid.New().String()
}

// hostAndInsecure splits an OTLP endpoint into the host:port the exporters expect, the
// URL path (if any), and whether transport security should be disabled.  Endpoints without
// a scheme are passed through and treated as insecure.
func hostAndInsecure(endpoint string) (host, path string, insecure bool, err error) {
	if !strings.Contains(endpoint, "://") {
		return endpoint, "", true, nil
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return "", "", false, err
	}

	return u.Host, strings.TrimSuffix(u.Path, "/"), u.Scheme != "https", nil
}

// Sub returns the standard child Viper, using TracingKey, for this package.
// If passed nil, this function returns nil.
func Sub(v *viper.Viper) *viper.Viper {
	return xviper.Sub(v, TracingKey)
}

// stringMap reads a map of strings that may be nested configuration or a JSON object string
func stringMap(v *viper.Viper, key string) (map[string]string, error) {
	raw := v.Get(key)
	if raw == nil {
		return nil, nil
	}

	m, err := cast.ToStringMapStringE(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", key, err)
	}

	return m, nil
}

// FromViper produces a Config from a (possibly nil) Viper instance.  Durations may be given
// as strings such as "3s".  The headers and resource maps may also be given as JSON object
// strings, which is convenient for environment variables.
func FromViper(v *viper.Viper) (Config, error) {
	var c Config
	if v == nil {
		return c, nil
	}

	err := v.Unmarshal(&c, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))

	if err != nil {
		return Config{}, err
	}

	if c.Headers, err = stringMap(v, "headers"); err != nil {
		return Config{}, err
	}

	if c.Resource, err = stringMap(v, "resource"); err != nil {
		return Config{}, err
	}

	return c, nil
}
