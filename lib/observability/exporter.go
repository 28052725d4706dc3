package observability

// https://opentelemetry.io/docs/languages/go/exporters/

import (
	"context"
	"io"
	"strings"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	otelruntime "go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/sdk/metric"

	"github.com/benz9527/xordered/lib/tree"
)

// ShutdownFunc flushes and stops the installed meter provider.
type ShutdownFunc func(ctx context.Context) error

type exporterConfig struct {
	interval      time.Duration
	timeout       time.Duration
	writer        io.Writer
	registerer    promclient.Registerer
	scopePrefixes []string
}

// ExporterOption configures both the console and the prometheus exporter,
// the options that only one of them understands are ignored by the other.
type ExporterOption func(*exporterConfig)

// WithExporterInterval sets the console push period and its timeout.
func WithExporterInterval(interval, timeout time.Duration) ExporterOption {
	return func(cfg *exporterConfig) {
		if interval > 0 {
			cfg.interval = interval
		}
		if timeout > 0 {
			cfg.timeout = timeout
		}
	}
}

// WithExporterWriter redirects the console exporter, stdout by default.
func WithExporterWriter(w io.Writer) ExporterOption {
	return func(cfg *exporterConfig) {
		cfg.writer = w
	}
}

// WithExporterRegisterer sets the prometheus registry, the client default
// registerer by default.
func WithExporterRegisterer(reg promclient.Registerer) ExporterOption {
	return func(cfg *exporterConfig) {
		cfg.registerer = reg
	}
}

// WithExporterScopes appends meter scope prefixes to be exported next to
// the xordered ones.
func WithExporterScopes(prefixes ...string) ExporterOption {
	return func(cfg *exporterConfig) {
		cfg.scopePrefixes = append(cfg.scopePrefixes, prefixes...)
	}
}

func newExporterConfig(opts ...ExporterOption) *exporterConfig {
	cfg := &exporterConfig{
		interval: 10 * time.Second,
		timeout:  5 * time.Second,
		scopePrefixes: []string{
			tree.RBTreeStatsName,
			AppStatsName,
			otelruntime.ScopeName,
		},
	}
	for _, o := range opts {
		if o != nil {
			o(cfg)
		}
	}
	return cfg
}

// scopeView drops the instruments of the other libraries sharing the
// global meter provider.
func (cfg *exporterConfig) scopeView() metric.View {
	return func(inst metric.Instrument) (metric.Stream, bool) {
		for _, prefix := range cfg.scopePrefixes {
			if strings.HasPrefix(inst.Scope.Name, prefix) {
				return metric.Stream{}, false
			}
		}
		return metric.Stream{Name: inst.Name, Aggregation: metric.AggregationDrop{}}, true
	}
}

func (cfg *exporterConfig) install(reader metric.Reader) ShutdownFunc {
	mp := metric.NewMeterProvider(
		metric.WithReader(reader),
		metric.WithView(cfg.scopeView()),
	)
	otel.SetMeterProvider(mp)
	return mp.Shutdown
}

// NewConsoleMetricsExporter serves for test/dev environment. The
// containers built with stats after this call are pushed to the writer
// every interval.
func NewConsoleMetricsExporter(opts ...ExporterOption) (ShutdownFunc, error) {
	cfg := newExporterConfig(opts...)
	stdoutOpts := make([]stdoutmetric.Option, 0, 1)
	if cfg.writer != nil {
		stdoutOpts = append(stdoutOpts, stdoutmetric.WithWriter(cfg.writer))
	}
	exporter, err := stdoutmetric.New(stdoutOpts...)
	if err != nil {
		return nil, err
	}
	return cfg.install(metric.NewPeriodicReader(
		exporter,
		metric.WithInterval(cfg.interval),
		metric.WithTimeout(cfg.timeout),
	)), nil
}

// NewPrometheusMetricsExporter serves for the product environment, the
// stats are fetched by HTTP from the registerer.
func NewPrometheusMetricsExporter(opts ...ExporterOption) (ShutdownFunc, error) {
	cfg := newExporterConfig(opts...)
	promOpts := make([]prometheus.Option, 0, 1)
	if cfg.registerer != nil {
		promOpts = append(promOpts, prometheus.WithRegisterer(cfg.registerer))
	}
	exporter, err := prometheus.New(promOpts...)
	if err != nil {
		return nil, err
	}
	return cfg.install(exporter), nil
}
