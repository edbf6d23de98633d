package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/xmidt-org/otlp-debug/clock"
	"github.com/xmidt-org/otlp-debug/concurrent"
	"github.com/xmidt-org/otlp-debug/logging"
	"github.com/xmidt-org/otlp-debug/tracing"
	"github.com/xmidt-org/otlp-debug/workflow"
	"github.com/xmidt-org/otlp-debug/xmetrics"
	"github.com/xmidt-org/otlp-debug/xviper"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

const (
	applicationName = "otlp-debug"

	// loggerName is the target that the default log filter enables at info
	loggerName = "otlp_debug"

	// rootSpanName is the span the whole workflow runs under
	rootSpanName = "test"

	// spanDurationName is the histogram fed by every ended span
	spanDurationName = "span_duration_seconds"

	// logFilterEnv is the environment variable which overrides the log filter directives
	logFilterEnv = "OTLP_DEBUG_LOG"
)

func newFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet(applicationName, pflag.ContinueOnError)
	fs.StringP(xviper.DefaultFileFlag, "f", "", "the configuration file to use, overrides --name")
	fs.StringP(xviper.DefaultNameFlag, "n", applicationName, "the configuration name, searched for in the standard locations")
	fs.String("exporter", tracing.DefaultExporter, "the span exporter: otlpgrpc, otlphttp, zipkin, jaeger, stdout or noop")
	fs.String("endpoint", "", "the collector endpoint, defaults to the local address for the exporter")
	fs.String("log-filter", "", "log filter directives, e.g. otlp_debug=info")
	fs.String("metrics-textfile", "", "the file to which span duration metrics are written at shutdown")
	fs.Float64("scale", workflow.DefaultScale, "multiplier applied to every workflow delay")
	return fs
}

// defaults registers every configuration key.  A key viper does not know about cannot be
// overridden from the environment, since xviper.Sub only sees known keys.
func defaults() xviper.Defaults {
	return xviper.Defaults{
		"tracing.exporter":           tracing.DefaultExporter,
		"tracing.endpoint":           "",
		"tracing.timeout":            tracing.DefaultTimeout.String(),
		"tracing.headers":            map[string]string{},
		"tracing.serviceName":        tracing.DefaultServiceName,
		"tracing.serviceVersion":     "",
		"tracing.environment":        tracing.DefaultEnvironment,
		"tracing.instanceId":         "",
		"tracing.resource":           map[string]string{},
		"tracing.batchTimeout":       tracing.DefaultBatchTimeout.String(),
		"tracing.maxExportBatchSize": tracing.DefaultMaxExportBatchSize,
		"tracing.maxQueueSize":       tracing.DefaultMaxQueueSize,
		"log.file":                   logging.StdoutFile,
		"log.maxsize":                0,
		"log.maxage":                 0,
		"log.maxbackups":             0,
		"log.json":                   false,
		"log.level":                  logging.DefaultLevel,
		"log.filter":                 loggerName + "=info",
		"metrics.namespace":          xmetrics.DefaultNamespace,
		"metrics.subsystem":          xmetrics.DefaultSubsystem,
		"metrics.textfile":           "",
		"workflow.scale":             workflow.DefaultScale,
	}
}

// loadConfig parses the command line and produces the merged configuration.  Precedence,
// highest first: flags, environment, configuration file, defaults.
func loadConfig(arguments []string) (*viper.Viper, error) {
	fs := newFlagSet()
	if err := fs.Parse(arguments); err != nil {
		return nil, err
	}

	return xviper.New(
		xviper.StdOptions(applicationName, fs),
		xviper.WithDefaults(defaults()),
		xviper.BindEnv("log.filter", logFilterEnv),
		xviper.BindPFlag("tracing.exporter", fs, "exporter"),
		xviper.BindPFlag("tracing.endpoint", fs, "endpoint"),
		xviper.BindPFlag("log.filter", fs, "log-filter"),
		xviper.BindPFlag("metrics.textfile", fs, "metrics-textfile"),
		xviper.BindPFlag("workflow.scale", fs, "scale"),
	)
}

// Config is every component's configuration, unmarshaled from the merged viper instance
type Config struct {
	fx.Out

	Logging  *logging.Options
	Tracing  tracing.Config
	Metrics  *xmetrics.Options
	Workflow *workflow.Options
}

func provideConfig(v *viper.Viper) (c Config, err error) {
	if c.Logging, err = logging.FromViper(logging.Sub(v)); err != nil {
		err = fmt.Errorf("unable to read logging configuration: %w", err)
	} else if c.Tracing, err = tracing.FromViper(tracing.Sub(v)); err != nil {
		err = fmt.Errorf("unable to read tracing configuration: %w", err)
	} else if c.Metrics, err = xmetrics.FromViper(xmetrics.Sub(v)); err != nil {
		err = fmt.Errorf("unable to read metrics configuration: %w", err)
	} else if c.Workflow, err = workflow.FromViper(workflow.Sub(v)); err != nil {
		err = fmt.Errorf("unable to read workflow configuration: %w", err)
	}

	return
}

func provideLogger(o *logging.Options) (*zap.Logger, error) {
	return logging.New(o)
}

func provideRegistry(lc fx.Lifecycle, o *xmetrics.Options, logger *zap.Logger) xmetrics.Registry {
	r := xmetrics.NewRegistry(o)
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			if err := r.WriteTextfile(); err != nil {
				logger.Error("unable to write metrics", zap.Error(err))
				return err
			}

			return nil
		},
	})

	return r
}

func provideExporter(c tracing.Config) (sdktrace.SpanExporter, error) {
	exporter, err := tracing.NewExporter(context.Background(), c, nil)
	if err != nil {
		return nil, fmt.Errorf("unable to create span exporter: %w", err)
	}

	return exporter, nil
}

// provideTracerProvider builds the provider and installs it globally when the application
// starts.  Stopping the application shuts the provider down, flushing any batched spans.
func provideTracerProvider(lc fx.Lifecycle, c tracing.Config, exporter sdktrace.SpanExporter, r xmetrics.Registry, logger *zap.Logger) (*sdktrace.TracerProvider, error) {
	tp, err := tracing.NewTracerProvider(
		context.Background(),
		c,
		exporter,
		tracing.NewDurationProcessor(r.NewHistogram(spanDurationName, tracing.SpanNameLabel)),
	)

	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			tracing.Install(tp, logger)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if err := tp.Shutdown(ctx); err != nil {
				logger.Error("unable to shut down tracer provider", zap.Error(err))
				return err
			}

			return nil
		},
	})

	return tp, nil
}

// workflowClock supplies the clock that drives workflow delays and span timestamps
var workflowClock = clock.System

func provideWorkflow(o *workflow.Options, tp *sdktrace.TracerProvider) *workflow.Workflow {
	return workflow.New(o, tp.Tracer(loggerName), workflowClock())
}

func provideFxLogger(logger *zap.Logger) fxevent.Logger {
	return &fxevent.ZapLogger{Logger: logger.Named("fx")}
}

func newApp(v *viper.Viper, populate ...interface{}) *fx.App {
	return fx.New(
		fx.Supply(v),
		fx.WithLogger(provideFxLogger),
		fx.Provide(
			provideConfig,
			provideLogger,
			provideRegistry,
			provideExporter,
			provideTracerProvider,
			provideWorkflow,
		),
		fx.Populate(populate...),
	)
}

// otlpDebug runs the program and returns the process exit code.  A panic in the workflow
// is not recovered: it propagates out of this function once the workflow task is joined.
func otlpDebug(arguments []string, stderr io.Writer) int {
	v, err := loadConfig(arguments)
	if err != nil {
		fmt.Fprintf(stderr, "Unable to load configuration: %s\n", err)
		return 1
	}

	var (
		logger *zap.Logger
		tp     *sdktrace.TracerProvider
		w      *workflow.Workflow
	)

	app := newApp(v, &logger, &tp, &w)
	if err := app.Err(); err != nil {
		fmt.Fprintf(stderr, "Unable to initialize: %s\n", err)
		return 1
	}

	startCtx, cancel := context.WithTimeout(context.Background(), app.StartTimeout())
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		fmt.Fprintf(stderr, "Unable to start: %s\n", err)
		return 1
	}

	ctx := logging.WithLogger(context.Background(), logger.Named(loggerName))
	ctx, root := tp.Tracer(loggerName).Start(ctx, rootSpanName)
	task := concurrent.Spawn(func() {
		w.Run(ctx, workflow.DefaultPlan())
	})

	task.Join()
	root.End()

	stopCtx, cancel := context.WithTimeout(context.Background(), app.StopTimeout())
	defer cancel()
	if err := app.Stop(stopCtx); err != nil {
		fmt.Fprintf(stderr, "Unable to shut down cleanly: %s\n", err)
		return 1
	}

	return 0
}

func main() {
	os.Exit(otlpDebug(os.Args[1:], os.Stderr))
}
