package extractor

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	tracer = otel.Tracer("javagraph.extractor")
	meter  = otel.Meter("javagraph.extractor")
)

var (
	parseLatency   metric.Float64Histogram
	parseTotal     metric.Int64Counter
	parseErrors    metric.Int64Counter
	typesExtracted metric.Int64Histogram

	metricsOnce sync.Once
	metricsErr  error
)

func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		parseLatency, err = meter.Float64Histogram(
			"javagraph_parse_duration_seconds",
			metric.WithDescription("Duration of source parsing"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		parseTotal, err = meter.Int64Counter(
			"javagraph_parse_total",
			metric.WithDescription("Total number of parse operations"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		parseErrors, err = meter.Int64Counter(
			"javagraph_parse_errors_total",
			metric.WithDescription("Total number of sources rejected by the parser"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		typesExtracted, err = meter.Int64Histogram(
			"javagraph_types_extracted",
			metric.WithDescription("Number of top-level types extracted per source"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

func recordParseMetrics(ctx context.Context, language string, duration time.Duration, unit *CompilationUnit, err error) {
	if initMetrics() != nil {
		return
	}

	lang := attribute.String("language", language)
	attrs := metric.WithAttributes(lang, attribute.Bool("success", err == nil))

	parseLatency.Record(ctx, duration.Seconds(), attrs)
	parseTotal.Add(ctx, 1, attrs)

	if err != nil {
		parseErrors.Add(ctx, 1, metric.WithAttributes(lang))
		return
	}
	if unit != nil {
		typesExtracted.Record(ctx, int64(len(unit.Types)), metric.WithAttributes(lang))
	}
}
