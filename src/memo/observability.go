package memo

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	// Instrumentation library name
	instrumentationName    = "github.com/seuros/gopher-memo/src/memo"
	instrumentationVersion = "0.1.0"
)

// ObservabilityConfig controls telemetry collection for a cache.
type ObservabilityConfig struct {
	// EnableTracing wraps each computation in an OpenTelemetry span
	EnableTracing bool

	// EnableMetrics enables OpenTelemetry metrics collection
	EnableMetrics bool

	// TracingAttributes are additional attributes to add to all spans
	TracingAttributes []attribute.KeyValue

	// MetricAttributes are additional attributes to add to all metrics
	MetricAttributes []attribute.KeyValue
}

// DefaultObservabilityConfig returns default observability configuration
func DefaultObservabilityConfig() *ObservabilityConfig {
	return &ObservabilityConfig{
		EnableTracing: true,
		EnableMetrics: true,
		TracingAttributes: []attribute.KeyValue{
			attribute.String("cache.system", "gopher-memo"),
			attribute.String("cache.version", instrumentationVersion),
		},
		MetricAttributes: []attribute.KeyValue{
			attribute.String("cache.system", "gopher-memo"),
		},
	}
}

// observabilityInstruments holds OpenTelemetry instruments
type observabilityInstruments struct {
	tracer trace.Tracer
	meter  metric.Meter

	// Metrics
	lookupCount     metric.Int64Counter
	evictionCount   metric.Int64Counter
	entryCount      metric.Int64UpDownCounter
	computeDuration metric.Float64Histogram
}

// initObservability initializes OpenTelemetry instruments
func initObservability() *observabilityInstruments {
	tracer := otel.Tracer(instrumentationName, trace.WithInstrumentationVersion(instrumentationVersion))
	meter := otel.Meter(instrumentationName, metric.WithInstrumentationVersion(instrumentationVersion))

	instruments := &observabilityInstruments{
		tracer: tracer,
		meter:  meter,
	}

	var err error

	instruments.lookupCount, err = meter.Int64Counter(
		"cache.lookups",
		metric.WithDescription("Number of cache lookups, split by hit/miss"),
	)
	if err != nil {
		otel.Handle(err)
	}

	instruments.evictionCount, err = meter.Int64Counter(
		"cache.evictions",
		metric.WithDescription("Number of entries evicted to make room"),
	)
	if err != nil {
		otel.Handle(err)
	}

	instruments.entryCount, err = meter.Int64UpDownCounter(
		"cache.entries",
		metric.WithDescription("Number of live cache entries"),
	)
	if err != nil {
		otel.Handle(err)
	}

	instruments.computeDuration, err = meter.Float64Histogram(
		"cache.compute.duration",
		metric.WithDescription("Duration of the wrapped computation on a miss"),
		metric.WithUnit("s"),
	)
	if err != nil {
		otel.Handle(err)
	}

	return instruments
}

// spanContext holds span-specific context information
type spanContext struct {
	span      trace.Span
	startTime time.Time
}

// startComputeSpan opens a span around one invocation of the wrapped
// computation. Argument values are never attached, only their counts.
func (oi *observabilityInstruments) startComputeSpan(config *ObservabilityConfig, nargs, nkwargs int) *spanContext {
	if !config.EnableTracing {
		return &spanContext{startTime: time.Now()}
	}

	attrs := make([]attribute.KeyValue, 0, len(config.TracingAttributes)+2)
	attrs = append(attrs, config.TracingAttributes...)
	attrs = append(attrs,
		attribute.Int("cache.call.args", nargs),
		attribute.Int("cache.call.kwargs", nkwargs),
	)

	_, span := oi.tracer.Start(context.Background(), "cache.compute",
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindInternal),
	)

	return &spanContext{
		span:      span,
		startTime: time.Now(),
	}
}

// finishComputeSpan completes a compute span and records its duration
func (oi *observabilityInstruments) finishComputeSpan(spanCtx *spanContext, err error, config *ObservabilityConfig) {
	duration := time.Since(spanCtx.startTime)

	if config.EnableMetrics {
		statusAttr := attribute.String("compute.status", "success")
		if err != nil {
			statusAttr = attribute.String("compute.status", "error")
		}
		oi.computeDuration.Record(context.Background(), duration.Seconds(),
			metric.WithAttributes(append(config.MetricAttributes, statusAttr)...))
	}

	if config.EnableTracing && spanCtx.span != nil {
		if err != nil {
			spanCtx.span.RecordError(err)
			spanCtx.span.SetStatus(codes.Error, err.Error())
		} else {
			spanCtx.span.SetStatus(codes.Ok, "")
		}
		spanCtx.span.End()
	}
}

// recordLookup records one completed lookup with its hit/miss result
func (oi *observabilityInstruments) recordLookup(hit bool, config *ObservabilityConfig) {
	if !config.EnableMetrics {
		return
	}
	resultAttr := attribute.String("cache.result", "miss")
	if hit {
		resultAttr = attribute.String("cache.result", "hit")
	}
	oi.lookupCount.Add(context.Background(), 1,
		metric.WithAttributes(append(config.MetricAttributes, resultAttr)...))
}

// recordEviction records one capacity-driven eviction
func (oi *observabilityInstruments) recordEviction(config *ObservabilityConfig) {
	if !config.EnableMetrics {
		return
	}
	oi.evictionCount.Add(context.Background(), 1,
		metric.WithAttributes(config.MetricAttributes...))
}

// recordEntries adjusts the live-entry gauge
func (oi *observabilityInstruments) recordEntries(delta int64, config *ObservabilityConfig) {
	if !config.EnableMetrics || delta == 0 {
		return
	}
	oi.entryCount.Add(context.Background(), delta,
		metric.WithAttributes(config.MetricAttributes...))
}
