package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricFiles        = "chainlint.files.total"
	metricFileDuration = "chainlint.file.duration.seconds"
	metricFindings     = "chainlint.findings.total"
	metricRuleErrors   = "chainlint.rule.errors.total"
	metricFixes        = "chainlint.fixes.applied.total"

	attrRule     = "rule"
	attrSeverity = "severity"
)

// FileStats summarizes one linted file. It is kept free of lint types so the
// package has no dependency on the engine.
type FileStats struct {
	Status   string
	Duration time.Duration

	// Findings counts reported findings per rule ID and severity name.
	Findings   []FindingCount
	RuleErrors []string
	Applied    int
}

// FindingCount is the number of findings one rule reported in a file.
type FindingCount struct {
	Rule     string
	Severity string
	Count    int64
}

// LintMetrics holds the instruments describing lint runs.
type LintMetrics struct {
	files        metric.Int64Counter
	fileDuration metric.Float64Histogram
	findings     metric.Int64Counter
	ruleErrors   metric.Int64Counter
	fixes        metric.Int64Counter
}

// NewLintMetrics creates the lint instruments from mt.
func NewLintMetrics(mt metric.Meter) (*LintMetrics, error) {
	b := &builder{meter: mt}

	lm := &LintMetrics{
		files:        b.counter(metricFiles, "Files linted", "{file}"),
		fileDuration: b.histogram(metricFileDuration, "Time spent linting one file", "s"),
		findings:     b.counter(metricFindings, "Findings reported", "{finding}"),
		ruleErrors:   b.counter(metricRuleErrors, "Rule callbacks that panicked", "{error}"),
		fixes:        b.counter(metricFixes, "Rewrites applied by fix", "{rewrite}"),
	}

	if b.err != nil {
		return nil, b.err
	}

	return lm, nil
}

// RecordFile records the outcome of linting one file. A nil receiver is a no-op.
func (lm *LintMetrics) RecordFile(ctx context.Context, stats FileStats) {
	if lm == nil {
		return
	}

	lm.files.Add(ctx, 1, metric.WithAttributes(attribute.String(attrStatus, stats.Status)))
	lm.fileDuration.Record(ctx, stats.Duration.Seconds())

	for _, fc := range stats.Findings {
		lm.findings.Add(ctx, fc.Count, metric.WithAttributes(
			attribute.String(attrRule, fc.Rule),
			attribute.String(attrSeverity, fc.Severity),
		))
	}

	for _, rule := range stats.RuleErrors {
		lm.ruleErrors.Add(ctx, 1, metric.WithAttributes(attribute.String(attrRule, rule)))
	}

	if stats.Applied > 0 {
		lm.fixes.Add(ctx, int64(stats.Applied))
	}
}

// builder keeps the first instrument creation error.
type builder struct {
	meter metric.Meter
	err   error
}

func (b *builder) counter(name, desc, unit string) metric.Int64Counter {
	c, err := b.meter.Int64Counter(name, metric.WithDescription(desc), metric.WithUnit(unit))
	if err != nil && b.err == nil {
		b.err = fmt.Errorf("create %s: %w", name, err)
	}

	return c
}

func (b *builder) histogram(name, desc, unit string) metric.Float64Histogram {
	h, err := b.meter.Float64Histogram(name,
		metric.WithDescription(desc),
		metric.WithUnit(unit),
		metric.WithExplicitBucketBoundaries(durationBucketBoundaries...),
	)
	if err != nil && b.err == nil {
		b.err = fmt.Errorf("create %s: %w", name, err)
	}

	return h
}

func (b *builder) gauge(name, desc, unit string) metric.Int64UpDownCounter {
	g, err := b.meter.Int64UpDownCounter(name, metric.WithDescription(desc), metric.WithUnit(unit))
	if err != nil && b.err == nil {
		b.err = fmt.Errorf("create %s: %w", name, err)
	}

	return g
}
