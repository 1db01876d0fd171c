// Package bootstrap runs the startable pass for an application: it reads the
// YAML configuration, logs with zap, traces with OpenTelemetry and exports
// Prometheus metrics around startable.Starter.
package bootstrap

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/centraunit/digo"
	"github.com/centraunit/digo/startable"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerName = "github.com/centraunit/digo/bootstrap"

// Host starts the startable components of a container.
type Host struct {
	cfg        Config
	logger     *zap.Logger
	tracer     trace.Tracer
	registerer prometheus.Registerer

	runs     *prometheus.CounterVec
	selected prometheus.Gauge
}

// Option configures a Host.
type Option func(*Host)

// WithLogger replaces the logger built from Config.LogLevel.
func WithLogger(logger *zap.Logger) Option {
	return func(h *Host) {
		h.logger = logger
	}
}

// WithTracer replaces the tracer taken from the global provider.
func WithTracer(tracer trace.Tracer) Option {
	return func(h *Host) {
		h.tracer = tracer
	}
}

// WithRegisterer registers the Host metrics with reg instead of a private registry.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(h *Host) {
		h.registerer = reg
	}
}

// New builds a Host from cfg.
func New(cfg Config, opts ...Option) (*Host, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	h := &Host{cfg: cfg}
	for _, opt := range opts {
		opt(h)
	}

	if h.logger == nil {
		logger, err := newLogger(cfg.LogLevel)
		if err != nil {
			return nil, err
		}
		h.logger = logger
	}
	if h.tracer == nil {
		h.tracer = otel.Tracer(tracerName)
	}
	if h.registerer == nil {
		h.registerer = prometheus.NewRegistry()
	}

	h.runs = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: cfg.MetricsNamespace,
		Name:      "startable_runs_total",
		Help:      "Startable passes by result.",
	}, []string{"result"})
	h.selected = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: cfg.MetricsNamespace,
		Name:      "startable_selected_components",
		Help:      "Components selected by the last startable pass.",
	})
	for _, c := range []prometheus.Collector{h.runs, h.selected} {
		if err := h.registerer.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register startable metrics: %w", err)
		}
	}

	return h, nil
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = lvl
	return zcfg.Build()
}

// Logger returns the logger the Host writes to.
func (h *Host) Logger() *zap.Logger {
	return h.logger
}

// BindOption marks a binding as startable when its type name is listed in
// Config.Startable.
func (h *Host) BindOption() digo.BindOption {
	names := slices.Clone(h.cfg.Startable)
	return startable.AsStartableIf(func(typeName string) bool {
		return slices.Contains(names, typeName)
	})
}

// Run starts the startable components of c. The error of the failing
// component is returned unchanged.
func (h *Host) Run(ctx context.Context, c startable.Container) error {
	if !h.cfg.AutoStart {
		h.logger.Info("auto start disabled, skipping startable components")
		h.runs.WithLabelValues("skipped").Inc()
		return nil
	}

	// Starter.Start takes no context, so the span has no children; it only
	// brackets the pass.
	_, span := h.tracer.Start(ctx, "startable.Start")
	defer span.End()

	starter, err := startable.New(c)
	if err != nil {
		h.fail(span, err)
		return err
	}

	// Reported up front; Start rescans on its own.
	ids, err := startable.Select(c.ComponentRegistrations())
	if err != nil {
		h.fail(span, err)
		return err
	}
	h.selected.Set(float64(len(ids)))
	span.SetAttributes(attribute.Int("startable.selected", len(ids)))
	h.logger.Info("starting startable components",
		zap.Int("count", len(ids)),
		zap.Stringer("trace_id", span.SpanContext().TraceID()))

	began := time.Now()
	if err := starter.Start(); err != nil {
		h.fail(span, err)
		return err
	}

	h.runs.WithLabelValues("success").Inc()
	span.SetStatus(codes.Ok, "")
	h.logger.Info("startable components started",
		zap.Int("count", len(ids)),
		zap.Duration("elapsed", time.Since(began)))
	return nil
}

func (h *Host) fail(span trace.Span, err error) {
	h.runs.WithLabelValues("failure").Inc()
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	h.logger.Error("startable components failed to start", zap.Error(err))
}
