package telemetry

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/contrib/bridges/otelzap"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutlog"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Qubut/IP-Claim/packages/dispatch_requests/internal/logger"
)

type Config struct {
	Enabled     bool
	ServiceName string            // e.g. "dispatch-requests"
	Exporter    string            // "otlp", "stdout" or "none"
	Endpoint    string            // OTLP endpoint, host:port
	Protocol    string            // "grpc" (default) or "http"
	Insecure    bool              // plaintext OTLP, development only
	Headers     map[string]string // extra OTLP headers, e.g. auth
	LogFile     string            // JSON log file, empty for none
	LogLevel    string
	Version     string
}

// Telemetry bundles the instruments every service receives.
type Telemetry struct {
	Tracer   trace.Tracer
	Meter    metric.Meter
	Logger   *zap.SugaredLogger
	Shutdown func(context.Context) error
}

// Noop returns instruments that record nothing, with logs going to log.
func Noop(log *zap.SugaredLogger) Telemetry {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return Telemetry{
		Tracer: tracenoop.NewTracerProvider().Tracer(""),
		Meter:  metricnoop.NewMeterProvider().Meter(""),
		Logger: log,
		Shutdown: func(context.Context) error {
			return log.Sync()
		},
	}
}

// InitOTEL sets up trace, metric and log providers and a zap logger bridged
// into OpenTelemetry logs. A disabled config or the "none" exporter yields
// no-op instruments with the plain file logger.
func InitOTEL(cfg Config) (Telemetry, error) {
	if !cfg.Enabled || cfg.Exporter == "none" || cfg.Exporter == "" {
		return Noop(logger.NewLogger(cfg.LogFile, cfg.LogLevel)), nil
	}
	if cfg.Exporter == "otlp" {
		if cfg.Endpoint == "" {
			return Telemetry{}, fmt.Errorf("OTLP endpoint required")
		}
		if cfg.Protocol == "" {
			cfg.Protocol = "grpc"
		}
	}

	ctx := context.Background()
	res, err := resource.Merge(
		resource.Default(),
		resource.NewSchemaless(semconv.ServiceNameKey.String(cfg.ServiceName)),
	)
	if err != nil {
		return Telemetry{}, err
	}

	traceExp, err := newTraceExporter(ctx, cfg)
	if err != nil {
		return Telemetry{}, fmt.Errorf("trace exporter: %w", err)
	}
	metricExp, err := newMetricExporter(ctx, cfg)
	if err != nil {
		return Telemetry{}, fmt.Errorf("metric exporter: %w", err)
	}
	logExp, err := newLogExporter(ctx, cfg)
	if err != nil {
		return Telemetry{}, fmt.Errorf("log exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExp),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExp)),
	)
	otel.SetMeterProvider(mp)

	lp := sdklog.NewLoggerProvider(
		sdklog.WithProcessor(sdklog.NewBatchProcessor(logExp)),
		sdklog.WithResource(res),
	)
	global.SetLoggerProvider(lp)

	level := logger.ParseLevel(cfg.LogLevel)
	cores := []zapcore.Core{
		otelzap.NewCore(
			cfg.ServiceName,
			otelzap.WithLoggerProvider(lp),
			otelzap.WithVersion(cfg.Version),
		),
	}
	if cfg.LogFile != "" {
		cores = append(cores, logger.FileCore(cfg.LogFile, level))
	}
	zapLogger := zap.New(zapcore.NewTee(cores...))

	shutdown := func(ctx context.Context) error {
		return errors.Join(
			tp.Shutdown(ctx),
			mp.Shutdown(ctx),
			lp.Shutdown(ctx),
			zapLogger.Sync(),
		)
	}

	return Telemetry{
		Tracer:   otel.Tracer(cfg.ServiceName),
		Meter:    otel.Meter(cfg.ServiceName),
		Logger:   zapLogger.Sugar(),
		Shutdown: shutdown,
	}, nil
}

func newTraceExporter(ctx context.Context, cfg Config) (sdktrace.SpanExporter, error) {
	if cfg.Exporter == "stdout" {
		return stdouttrace.New(stdouttrace.WithPrettyPrint())
	}
	var client otlptrace.Client
	switch cfg.Protocol {
	case "grpc":
		opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.Endpoint)}
		if cfg.Insecure {
			opts = append(opts, otlptracegrpc.WithInsecure())
		}
		if len(cfg.Headers) > 0 {
			opts = append(opts, otlptracegrpc.WithHeaders(cfg.Headers))
		}
		client = otlptracegrpc.NewClient(opts...)
	case "http":
		opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(cfg.Endpoint)}
		if cfg.Insecure {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		if len(cfg.Headers) > 0 {
			opts = append(opts, otlptracehttp.WithHeaders(cfg.Headers))
		}
		client = otlptracehttp.NewClient(opts...)
	default:
		return nil, fmt.Errorf("invalid protocol: %s", cfg.Protocol)
	}
	return otlptrace.New(ctx, client)
}

func newMetricExporter(ctx context.Context, cfg Config) (sdkmetric.Exporter, error) {
	if cfg.Exporter == "stdout" {
		return stdoutmetric.New(stdoutmetric.WithPrettyPrint())
	}
	switch cfg.Protocol {
	case "grpc":
		opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(cfg.Endpoint)}
		if cfg.Insecure {
			opts = append(opts, otlpmetricgrpc.WithInsecure())
		}
		if len(cfg.Headers) > 0 {
			opts = append(opts, otlpmetricgrpc.WithHeaders(cfg.Headers))
		}
		return otlpmetricgrpc.New(ctx, opts...)
	case "http":
		opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(cfg.Endpoint)}
		if cfg.Insecure {
			opts = append(opts, otlpmetrichttp.WithInsecure())
		}
		if len(cfg.Headers) > 0 {
			opts = append(opts, otlpmetrichttp.WithHeaders(cfg.Headers))
		}
		return otlpmetrichttp.New(ctx, opts...)
	default:
		return nil, fmt.Errorf("invalid protocol: %s", cfg.Protocol)
	}
}

func newLogExporter(ctx context.Context, cfg Config) (sdklog.Exporter, error) {
	if cfg.Exporter == "stdout" {
		return stdoutlog.New()
	}
	switch cfg.Protocol {
	case "grpc":
		opts := []otlploggrpc.Option{otlploggrpc.WithEndpoint(cfg.Endpoint)}
		if cfg.Insecure {
			opts = append(opts, otlploggrpc.WithInsecure())
		}
		if len(cfg.Headers) > 0 {
			opts = append(opts, otlploggrpc.WithHeaders(cfg.Headers))
		}
		return otlploggrpc.New(ctx, opts...)
	case "http":
		opts := []otlploghttp.Option{otlploghttp.WithEndpoint(cfg.Endpoint)}
		if cfg.Insecure {
			opts = append(opts, otlploghttp.WithInsecure())
		}
		if len(cfg.Headers) > 0 {
			opts = append(opts, otlploghttp.WithHeaders(cfg.Headers))
		}
		return otlploghttp.New(ctx, opts...)
	default:
		return nil, fmt.Errorf("invalid protocol: %s", cfg.Protocol)
	}
}
