package otel

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/propagation"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.uber.org/zap"
	"google.golang.org/grpc/credentials"

	"github.com/JailtonJunior94/graceful/pkg/observability"
)

// OTLPProtocol defines the protocol to use for OTLP export.
type OTLPProtocol string

const (
	// ProtocolGRPC uses gRPC for OTLP export (default port 4317).
	ProtocolGRPC OTLPProtocol = "grpc"
	// ProtocolHTTP uses HTTP/protobuf for OTLP export (default port 4318).
	ProtocolHTTP OTLPProtocol = "http"
)

// Config holds the configuration for the OpenTelemetry provider.
type Config struct {
	ServiceName    string
	ServiceVersion string
	Environment    string

	// OTLPEndpoint is the collector address. Empty keeps telemetry in
	// process: spans and metrics are recorded but never exported.
	OTLPEndpoint string
	OTLPProtocol OTLPProtocol // "grpc" or "http", defaults to "grpc"

	// Security configuration
	Insecure  bool        // Allow insecure connections (only for non-production environments)
	TLSConfig *tls.Config // Custom TLS configuration (optional, uses system defaults if nil)

	// Trace configuration
	TraceSampleRate float64 // 0.0 to 1.0, default 1.0 (always sample)

	// Log configuration
	LogLevel  observability.LogLevel
	LogFormat observability.LogFormat
	LogOutput io.Writer // defaults to os.Stdout

	// Resource attributes (optional)
	ResourceAttributes map[string]string
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig(serviceName string) *Config {
	return &Config{
		ServiceName:     serviceName,
		ServiceVersion:  "unknown",
		Environment:     "development",
		OTLPEndpoint:    "localhost:4317",
		OTLPProtocol:    ProtocolGRPC,
		TraceSampleRate: 1.0,
		LogLevel:        observability.LogLevelInfo,
		LogFormat:       observability.LogFormatJSON,
		LogOutput:       os.Stdout,
	}
}

func normalizeProtocol(protocol string) OTLPProtocol {
	switch strings.ToLower(protocol) {
	case "http", "http/protobuf":
		return ProtocolHTTP
	default:
		return ProtocolGRPC
	}
}

// Provider implements observability.Observability with OpenTelemetry traces,
// metrics and logs. Log entries are written by zap and exported over OTLP. Register it last on the shutdown queue so
// telemetry emitted by earlier handlers is flushed.
type Provider struct {
	config         *Config
	tracerProvider *sdktrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
	loggerProvider *sdklog.LoggerProvider
	base           *zap.Logger
	tracer         *otelTracer
	logger         *zapLogger
	metrics        *otelMetrics
	shutdownFuncs  []func(context.Context) error
}

func isProduction(environment string) bool {
	env := strings.ToLower(environment)
	return env == "production" || env == "prod"
}

// validateSecurityConfig rejects settings that would leak telemetry in
// production and returns warnings for the ones that are merely risky.
func validateSecurityConfig(config *Config) ([]string, error) {
	var warnings []string

	if config.Insecure {
		if isProduction(config.Environment) {
			return nil, errors.New("insecure connections are not allowed in production environment")
		}
		warnings = append(warnings, fmt.Sprintf("using insecure OTLP connection to %s", config.OTLPEndpoint))
	}

	if config.TLSConfig != nil {
		if config.TLSConfig.InsecureSkipVerify {
			warnings = append(warnings, "TLS verification is disabled")
		}

		if config.TLSConfig.MinVersion > 0 && config.TLSConfig.MinVersion < tls.VersionTLS12 {
			return nil, errors.New("minimum TLS version must be 1.2 or higher for security compliance")
		}
	}

	return warnings, nil
}

// NewProvider creates and initializes a new OpenTelemetry provider.
func NewProvider(ctx context.Context, config *Config) (*Provider, error) {
	if config == nil {
		return nil, errors.New("config cannot be nil")
	}

	if config.ServiceName == "" {
		return nil, errors.New("service name is required")
	}

	warnings, err := validateSecurityConfig(config)
	if err != nil {
		return nil, err
	}

	config.OTLPProtocol = normalizeProtocol(string(config.OTLPProtocol))
	if config.LogOutput == nil {
		config.LogOutput = os.Stdout
	}

	provider := &Provider{config: config}

	res, err := provider.createResource(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	if err := provider.initTracerProvider(ctx, res); err != nil {
		return nil, fmt.Errorf("failed to initialize tracer provider: %w", err)
	}

	if err := provider.initMeterProvider(ctx, res); err != nil {
		_ = provider.Shutdown(ctx)
		return nil, fmt.Errorf("failed to initialize meter provider: %w", err)
	}

	if err := provider.initLoggerProvider(ctx, res); err != nil {
		_ = provider.Shutdown(ctx)
		return nil, fmt.Errorf("failed to initialize logger provider: %w", err)
	}

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	provider.base = newZap(config.LogLevel, config.LogFormat, config.LogOutput).With(
		zap.String("service", config.ServiceName),
		zap.String("environment", config.Environment),
	)
	provider.shutdownFuncs = append(provider.shutdownFuncs, func(context.Context) error {
		return syncLogger(provider.base)
	})

	provider.tracer = newOtelTracer(provider.tracerProvider.Tracer(config.ServiceName))
	provider.logger = newZapLogger(provider.base, provider.loggerProvider.Logger(config.ServiceName))
	provider.metrics = newOtelMetrics(provider.meterProvider.Meter(config.ServiceName))

	for _, warning := range warnings {
		provider.logger.Warn(ctx, warning, observability.String("environment", config.Environment))
	}

	return provider, nil
}

func (p *Provider) createResource(ctx context.Context) (*resource.Resource, error) {
	attrs := []resource.Option{
		resource.WithAttributes(
			semconv.ServiceName(p.config.ServiceName),
			semconv.ServiceVersion(p.config.ServiceVersion),
			semconv.DeploymentEnvironment(p.config.Environment),
		),
	}

	if len(p.config.ResourceAttributes) > 0 {
		customAttrs := make([]attribute.KeyValue, 0, len(p.config.ResourceAttributes))
		for k, v := range p.config.ResourceAttributes {
			customAttrs = append(customAttrs, attribute.String(k, v))
		}
		attrs = append(attrs, resource.WithAttributes(customAttrs...))
	}

	return resource.New(ctx, attrs...)
}

func (p *Provider) initTracerProvider(ctx context.Context, res *resource.Resource) error {
	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(p.createTraceSampler()),
	}

	if p.config.OTLPEndpoint != "" {
		exporter, err := p.createTraceExporter(ctx)
		if err != nil {
			return fmt.Errorf("failed to create trace exporter: %w", err)
		}
		opts = append(opts, sdktrace.WithBatcher(exporter))
	}

	p.tracerProvider = sdktrace.NewTracerProvider(opts...)

	otel.SetTracerProvider(p.tracerProvider)
	p.shutdownFuncs = append(p.shutdownFuncs, p.tracerProvider.Shutdown)

	return nil
}

func (p *Provider) createTraceExporter(ctx context.Context) (sdktrace.SpanExporter, error) {
	if p.config.OTLPProtocol == ProtocolHTTP {
		opts := []otlptracehttp.Option{
			otlptracehttp.WithEndpoint(p.config.OTLPEndpoint),
		}

		if p.config.Insecure {
			opts = append(opts, otlptracehttp.WithInsecure())
		} else if p.config.TLSConfig != nil {
			opts = append(opts, otlptracehttp.WithTLSClientConfig(p.config.TLSConfig))
		}

		return otlptracehttp.New(ctx, opts...)
	}

	opts := []otlptracegrpc.Option{
		otlptracegrpc.WithEndpoint(p.config.OTLPEndpoint),
	}

	if p.config.Insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	} else if p.config.TLSConfig != nil {
		opts = append(opts, otlptracegrpc.WithTLSCredentials(credentials.NewTLS(p.config.TLSConfig)))
	}

	return otlptracegrpc.New(ctx, opts...)
}

// createTraceSampler honors the parent decision so a drain started inside a
// sampled request stays sampled.
func (p *Provider) createTraceSampler() sdktrace.Sampler {
	switch {
	case p.config.TraceSampleRate >= 1.0:
		return sdktrace.ParentBased(sdktrace.AlwaysSample())
	case p.config.TraceSampleRate <= 0.0:
		return sdktrace.ParentBased(sdktrace.NeverSample())
	default:
		return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(p.config.TraceSampleRate))
	}
}

func (p *Provider) initMeterProvider(ctx context.Context, res *resource.Resource) error {
	opts := []sdkmetric.Option{
		sdkmetric.WithResource(res),
	}

	if p.config.OTLPEndpoint != "" {
		exporter, err := p.createMetricExporter(ctx)
		if err != nil {
			return fmt.Errorf("failed to create metrics exporter: %w", err)
		}
		opts = append(opts, sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter)))
	}

	p.meterProvider = sdkmetric.NewMeterProvider(opts...)

	otel.SetMeterProvider(p.meterProvider)
	p.shutdownFuncs = append(p.shutdownFuncs, p.meterProvider.Shutdown)

	return nil
}

func (p *Provider) createMetricExporter(ctx context.Context) (sdkmetric.Exporter, error) {
	if p.config.OTLPProtocol == ProtocolHTTP {
		opts := []otlpmetrichttp.Option{
			otlpmetrichttp.WithEndpoint(p.config.OTLPEndpoint),
		}

		if p.config.Insecure {
			opts = append(opts, otlpmetrichttp.WithInsecure())
		} else if p.config.TLSConfig != nil {
			opts = append(opts, otlpmetrichttp.WithTLSClientConfig(p.config.TLSConfig))
		}

		return otlpmetrichttp.New(ctx, opts...)
	}

	opts := []otlpmetricgrpc.Option{
		otlpmetricgrpc.WithEndpoint(p.config.OTLPEndpoint),
	}

	if p.config.Insecure {
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	} else if p.config.TLSConfig != nil {
		opts = append(opts, otlpmetricgrpc.WithTLSCredentials(credentials.NewTLS(p.config.TLSConfig)))
	}

	return otlpmetricgrpc.New(ctx, opts...)
}

// initLoggerProvider builds the OTLP log pipeline. Without an endpoint the
// provider has no processor and records are dropped after the console write.
func (p *Provider) initLoggerProvider(ctx context.Context, res *resource.Resource) error {
	opts := []sdklog.LoggerProviderOption{
		sdklog.WithResource(res),
	}

	if p.config.OTLPEndpoint != "" {
		exporter, err := p.createLogExporter(ctx)
		if err != nil {
			return fmt.Errorf("failed to create log exporter: %w", err)
		}
		opts = append(opts, sdklog.WithProcessor(sdklog.NewBatchProcessor(exporter)))
	}

	p.loggerProvider = sdklog.NewLoggerProvider(opts...)

	global.SetLoggerProvider(p.loggerProvider)
	p.shutdownFuncs = append(p.shutdownFuncs, p.loggerProvider.Shutdown)

	return nil
}

func (p *Provider) createLogExporter(ctx context.Context) (sdklog.Exporter, error) {
	if p.config.OTLPProtocol == ProtocolHTTP {
		opts := []otlploghttp.Option{
			otlploghttp.WithEndpoint(p.config.OTLPEndpoint),
		}

		if p.config.Insecure {
			opts = append(opts, otlploghttp.WithInsecure())
		} else if p.config.TLSConfig != nil {
			opts = append(opts, otlploghttp.WithTLSClientConfig(p.config.TLSConfig))
		}

		return otlploghttp.New(ctx, opts...)
	}

	opts := []otlploggrpc.Option{
		otlploggrpc.WithEndpoint(p.config.OTLPEndpoint),
	}

	if p.config.Insecure {
		opts = append(opts, otlploggrpc.WithInsecure())
	} else if p.config.TLSConfig != nil {
		opts = append(opts, otlploggrpc.WithTLSCredentials(credentials.NewTLS(p.config.TLSConfig)))
	}

	return otlploggrpc.New(ctx, opts...)
}

func (p *Provider) Tracer() observability.Tracer {
	return p.tracer
}

func (p *Provider) Logger() observability.Logger {
	return p.logger
}

func (p *Provider) Metrics() observability.Metrics {
	return p.metrics
}

// Shutdown flushes pending telemetry. Every component is shut down even when
// an earlier one fails; the failures are joined.
func (p *Provider) Shutdown(ctx context.Context) error {
	var errs []error
	for i := len(p.shutdownFuncs) - 1; i >= 0; i-- {
		if err := p.shutdownFuncs[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
