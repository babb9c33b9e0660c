package ingest

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the pipeline's OpenTelemetry instruments. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	filesWalked      metric.Int64Counter
	importsExtracted metric.Int64Counter
	stageDuration    metric.Float64Histogram
}

// NewMetrics creates the pipeline instruments on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	filesWalked, err := meter.Int64Counter("repolens_files_walked_total",
		metric.WithDescription("Files placed into the tree across all runs."))
	if err != nil {
		return nil, fmt.Errorf("create files counter: %w", err)
	}

	importsExtracted, err := meter.Int64Counter("repolens_imports_extracted_total",
		metric.WithDescription("Import statements extracted across all runs."))
	if err != nil {
		return nil, fmt.Errorf("create imports counter: %w", err)
	}

	stageDuration, err := meter.Float64Histogram("repolens_stage_duration_seconds",
		metric.WithDescription("Wall time per pipeline stage."),
		metric.WithUnit("s"))
	if err != nil {
		return nil, fmt.Errorf("create stage histogram: %w", err)
	}

	return &Metrics{
		filesWalked:      filesWalked,
		importsExtracted: importsExtracted,
		stageDuration:    stageDuration,
	}, nil
}

// RecordStage records one stage's wall time.
func (m *Metrics) RecordStage(ctx context.Context, stage string, d time.Duration) {
	if m == nil {
		return
	}

	m.stageDuration.Record(ctx, d.Seconds(),
		metric.WithAttributes(attribute.String("stage", stage)))
}

// RecordFiles adds to the walked-files counter.
func (m *Metrics) RecordFiles(ctx context.Context, n int) {
	if m == nil {
		return
	}

	m.filesWalked.Add(ctx, int64(n))
}

// RecordImports adds to the extracted-imports counter.
func (m *Metrics) RecordImports(ctx context.Context, n int) {
	if m == nil {
		return
	}

	m.importsExtracted.Add(ctx, int64(n))
}
