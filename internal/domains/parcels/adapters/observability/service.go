package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Apurer/parcel-intake-api/internal/domains/parcels/application/types"
	"github.com/Apurer/parcel-intake-api/internal/domains/parcels/domain"
	"github.com/Apurer/parcel-intake-api/internal/domains/parcels/ports"
)

const tracerName = "github.com/Apurer/parcel-intake-api/internal/domains/parcels/adapters/observability/service"

// Service decorates the parcel intake port with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithTracer injects a tracer implementation.
func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

// WithMeter injects the meter used to create service metrics instruments.
func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wires a decorator around the core service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  defaultLogger(),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if s.logger == nil {
		s.logger = defaultLogger()
	}
	return s
}

// Ingest runs a manifest through the pipeline and records per-item outcomes.
func (s *Service) Ingest(ctx context.Context, input types.IngestManifestInput) (*types.IngestionResult, error) {
	ctx, span := s.startSpan(ctx, "ParcelService.Ingest",
		attribute.String("manifest.filename", input.Filename),
		attribute.Int("manifest.bytes", len(input.Manifest)))
	defer span.End()

	s.logInfo(ctx, "ingesting manifest", slog.String("manifest.filename", input.Filename), slog.Int("manifest.bytes", len(input.Manifest)))
	result, err := s.inner.Ingest(ctx, input)
	if err != nil {
		s.metrics.recordManifestRejected(ctx)
		return nil, s.handleError(ctx, span, err, "failed to ingest manifest", slog.String("manifest.filename", input.Filename))
	}
	for _, p := range result.Processed {
		s.metrics.recordIngested(ctx, p.Entity.Department)
	}
	s.metrics.recordItemErrors(ctx, len(result.Errors))
	span.SetAttributes(
		attribute.Int("manifest.processed", len(result.Processed)),
		attribute.Int("manifest.errors", len(result.Errors)))
	s.logInfo(ctx, "manifest ingested",
		slog.Int("manifest.processed", len(result.Processed)),
		slog.Int("manifest.errors", len(result.Errors)),
		slog.String("manifest.archive_key", result.ArchiveKey))
	return result, nil
}

func (s *Service) List(ctx context.Context, input types.ListParcelsInput) ([]*types.ParcelProjection, error) {
	ctx, span := s.startSpan(ctx, "ParcelService.List",
		attribute.String("filter.department", input.Department),
		attribute.String("filter.status", input.Status))
	defer span.End()

	result, err := s.inner.List(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list parcels",
			slog.String("filter.department", input.Department), slog.String("filter.status", input.Status))
	}
	span.SetAttributes(attribute.Int("parcels.count", len(result)))
	return result, nil
}

func (s *Service) Get(ctx context.Context, id types.ParcelIdentifier) (*types.ParcelProjection, error) {
	ctx, span := s.startSpan(ctx, "ParcelService.Get", attribute.String("parcel.id", id.ParcelID))
	defer span.End()

	result, err := s.inner.Get(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load parcel", slog.String("parcel.id", id.ParcelID))
	}
	return result, nil
}

func (s *Service) ApproveInsurance(ctx context.Context, id types.ParcelIdentifier) (*types.ParcelProjection, error) {
	ctx, span := s.startSpan(ctx, "ParcelService.ApproveInsurance", attribute.String("parcel.id", id.ParcelID))
	defer span.End()

	s.logInfo(ctx, "approving insurance", slog.String("parcel.id", id.ParcelID))
	result, err := s.inner.ApproveInsurance(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to approve insurance", slog.String("parcel.id", id.ParcelID))
	}
	if result.Entity.InsuranceApproved {
		s.metrics.recordApproved(ctx)
	}
	s.logInfo(ctx, "insurance approval handled",
		slog.String("parcel.id", id.ParcelID), slog.String("status", string(result.Entity.Status)))
	return result, nil
}

func (s *Service) CompleteProcessing(ctx context.Context, id types.ParcelIdentifier) (*types.ParcelProjection, error) {
	ctx, span := s.startSpan(ctx, "ParcelService.CompleteProcessing", attribute.String("parcel.id", id.ParcelID))
	defer span.End()

	s.logInfo(ctx, "completing parcel", slog.String("parcel.id", id.ParcelID))
	result, err := s.inner.CompleteProcessing(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to complete parcel", slog.String("parcel.id", id.ParcelID))
	}
	s.metrics.recordCompleted(ctx, result.Entity.Department)
	return result, nil
}

func (s *Service) Metrics(ctx context.Context) (*types.DashboardMetrics, error) {
	ctx, span := s.startSpan(ctx, "ParcelService.Metrics")
	defer span.End()

	result, err := s.inner.Metrics(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to compute dashboard metrics")
	}
	span.SetAttributes(attribute.Int("parcels.total", result.TotalParcels))
	return result, nil
}

func (s *Service) Rules(ctx context.Context) (domain.RuleSet, error) {
	ctx, span := s.startSpan(ctx, "ParcelService.Rules")
	defer span.End()

	result, err := s.inner.Rules(ctx)
	if err != nil {
		return domain.RuleSet{}, s.handleError(ctx, span, err, "failed to load business rules")
	}
	return result, nil
}

func (s *Service) ReplaceRules(ctx context.Context, rules domain.RuleSet) (domain.RuleSet, error) {
	ctx, span := s.startSpan(ctx, "ParcelService.ReplaceRules",
		attribute.Float64("rules.mail.max_weight", rules.Mail.MaxWeight),
		attribute.Float64("rules.regular.max_weight", rules.Regular.MaxWeight),
		attribute.Float64("rules.insurance.min_value", rules.Insurance.MinValue),
		attribute.Bool("rules.insurance.enabled", rules.Insurance.Enabled))
	defer span.End()

	s.logInfo(ctx, "replacing business rules")
	result, err := s.inner.ReplaceRules(ctx, rules)
	if err != nil {
		return domain.RuleSet{}, s.handleError(ctx, span, err, "failed to replace business rules")
	}
	s.metrics.recordRulesReplaced(ctx)
	return result, nil
}

func (s *Service) Reset(ctx context.Context) error {
	ctx, span := s.startSpan(ctx, "ParcelService.Reset")
	defer span.End()

	s.logInfo(ctx, "resetting parcel store and rules")
	if err := s.inner.Reset(ctx); err != nil {
		return s.handleError(ctx, span, err, "failed to reset parcel store")
	}
	return nil
}

func (s *Service) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := s.tracer
	if tracer == nil {
		tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if err == nil {
		return nil
	}
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type serviceMetrics struct {
	parcelsIngested   metric.Int64Counter
	itemErrors        metric.Int64Counter
	manifestsRejected metric.Int64Counter
	insuranceApproved metric.Int64Counter
	parcelsCompleted  metric.Int64Counter
	rulesReplaced     metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	ingested, _ := m.Int64Counter("parcels.service.ingested", metric.WithDescription("Number of parcels routed and stored"))
	itemErrors, _ := m.Int64Counter("parcels.service.item_errors", metric.WithDescription("Number of manifest entries that failed ingestion"))
	rejected, _ := m.Int64Counter("parcels.service.manifests_rejected", metric.WithDescription("Number of manifests rejected as a whole"))
	approved, _ := m.Int64Counter("parcels.service.insurance_approved", metric.WithDescription("Number of insurance approvals"))
	completed, _ := m.Int64Counter("parcels.service.completed", metric.WithDescription("Number of parcels marked completed"))
	rules, _ := m.Int64Counter("parcels.service.rules_replaced", metric.WithDescription("Number of business rule replacements"))
	return serviceMetrics{
		parcelsIngested:   ingested,
		itemErrors:        itemErrors,
		manifestsRejected: rejected,
		insuranceApproved: approved,
		parcelsCompleted:  completed,
		rulesReplaced:     rules,
	}
}

func (m serviceMetrics) recordIngested(ctx context.Context, department domain.Department) {
	addCounter(ctx, m.parcelsIngested, 1, attribute.String("parcel.department", string(department)))
}

func (m serviceMetrics) recordItemErrors(ctx context.Context, n int) {
	if n == 0 {
		return
	}
	addCounter(ctx, m.itemErrors, int64(n))
}

func (m serviceMetrics) recordManifestRejected(ctx context.Context) {
	addCounter(ctx, m.manifestsRejected, 1)
}

func (m serviceMetrics) recordApproved(ctx context.Context) {
	addCounter(ctx, m.insuranceApproved, 1)
}

func (m serviceMetrics) recordCompleted(ctx context.Context, department domain.Department) {
	addCounter(ctx, m.parcelsCompleted, 1, attribute.String("parcel.department", string(department)))
}

func (m serviceMetrics) recordRulesReplaced(ctx context.Context) {
	addCounter(ctx, m.rulesReplaced, 1)
}

func addCounter(ctx context.Context, counter metric.Int64Counter, value int64, attrs ...attribute.KeyValue) {
	if counter == nil {
		return
	}
	counter.Add(ctx, value, metric.WithAttributes(attrs...))
}

var _ ports.Service = (*Service)(nil)
