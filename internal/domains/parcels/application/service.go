package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Apurer/parcel-intake-api/internal/domains/parcels/application/types"
	"github.com/Apurer/parcel-intake-api/internal/domains/parcels/domain"
	"github.com/Apurer/parcel-intake-api/internal/domains/parcels/manifest"
	"github.com/Apurer/parcel-intake-api/internal/domains/parcels/ports"
)

// Service orchestrates the parcel intake use cases.
type Service struct {
	repo    ports.Repository
	rules   ports.RuleStore
	parser  *manifest.Parser
	archive ports.ManifestArchive
	logger  *slog.Logger
	now     func() time.Time
}

// ServiceOption customises optional collaborators.
type ServiceOption func(*Service)

// WithParser overrides the manifest parser.
func WithParser(parser *manifest.Parser) ServiceOption {
	return func(s *Service) {
		if parser != nil {
			s.parser = parser
		}
	}
}

// WithManifestArchive stores every uploaded manifest before it is parsed.
func WithManifestArchive(archive ports.ManifestArchive) ServiceOption {
	return func(s *Service) {
		s.archive = archive
	}
}

// WithClock overrides the time source stamped on processed parcels.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the logger used for best-effort side effects.
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService wires the parcels service with its dependencies.
func NewService(repo ports.Repository, rules ports.RuleStore, opts ...ServiceOption) *Service {
	s := &Service{
		repo:   repo,
		rules:  rules,
		parser: manifest.NewParser(),
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// List returns parcels matching the filter, newest first.
func (s *Service) List(ctx context.Context, input types.ListParcelsInput) ([]*types.ParcelProjection, error) {
	filter := ports.ListFilter{Search: strings.TrimSpace(input.Search)}
	if raw := strings.TrimSpace(input.Department); raw != "" && !strings.EqualFold(raw, "all") {
		department, ok := domain.ParseDepartment(raw)
		if !ok {
			return nil, fmt.Errorf("%w: %w", ErrInvalidInput, domain.ErrInvalidDepartment)
		}
		filter.Department = department
	}
	if raw := strings.TrimSpace(input.Status); raw != "" && !strings.EqualFold(raw, "all") {
		status, ok := domain.ParseStatus(raw)
		if !ok {
			return nil, fmt.Errorf("%w: %w", ErrInvalidInput, domain.ErrInvalidStatus)
		}
		filter.Status = status
	}
	return s.repo.List(ctx, filter)
}

// Get loads a parcel by its manifest id.
func (s *Service) Get(ctx context.Context, id types.ParcelIdentifier) (*types.ParcelProjection, error) {
	return s.repo.GetByParcelID(ctx, id.ParcelID)
}

// ApproveInsurance clears the insurance review of a parcel. Parcels that do
// not require insurance are returned unchanged.
func (s *Service) ApproveInsurance(ctx context.Context, id types.ParcelIdentifier) (*types.ParcelProjection, error) {
	current, err := s.repo.GetByParcelID(ctx, id.ParcelID)
	if err != nil {
		return nil, err
	}
	if !current.Entity.ApproveInsurance() {
		return current, nil
	}
	return s.repo.Update(ctx, current.Entity)
}

// CompleteProcessing marks a parcel as completed. Repeated calls are harmless.
func (s *Service) CompleteProcessing(ctx context.Context, id types.ParcelIdentifier) (*types.ParcelProjection, error) {
	current, err := s.repo.GetByParcelID(ctx, id.ParcelID)
	if err != nil {
		return nil, err
	}
	current.Entity.Complete()
	return s.repo.Update(ctx, current.Entity)
}

// Metrics aggregates the parcel store for the dashboard.
func (s *Service) Metrics(ctx context.Context) (*types.DashboardMetrics, error) {
	parcels, err := s.repo.List(ctx, ports.ListFilter{})
	if err != nil {
		return nil, err
	}
	metrics := &types.DashboardMetrics{TotalParcels: len(parcels)}
	for _, p := range parcels {
		parcel := p.Entity
		completed := parcel.Status == domain.StatusCompleted
		switch parcel.Status {
		case domain.StatusCompleted:
			metrics.Processed++
		case domain.StatusInsuranceReview:
			metrics.PendingInsurance++
		case domain.StatusError:
			metrics.Errors++
		}
		var bucket *types.DepartmentMetrics
		switch parcel.Department {
		case domain.DepartmentMail:
			bucket = &metrics.Mail
		case domain.DepartmentRegular:
			bucket = &metrics.Regular
		case domain.DepartmentHeavy:
			bucket = &metrics.Heavy
		}
		if bucket != nil {
			bucket.Count++
			if completed {
				bucket.Processed++
			} else {
				bucket.Pending++
			}
		}
		if parcel.RequiresInsurance {
			metrics.Insurance.Count++
			if parcel.InsuranceApproved {
				metrics.Insurance.Approved++
			} else {
				metrics.Insurance.Reviewing++
			}
		}
	}
	return metrics, nil
}

// Rules returns the active rule set.
func (s *Service) Rules(ctx context.Context) (domain.RuleSet, error) {
	return s.rules.Active(ctx)
}

// ReplaceRules swaps the active rule set. Parcels already routed keep their
// department and status.
func (s *Service) ReplaceRules(ctx context.Context, rules domain.RuleSet) (domain.RuleSet, error) {
	if err := rules.Validate(); err != nil {
		return domain.RuleSet{}, mapError(err)
	}
	return s.rules.Replace(ctx, rules)
}

// Reset clears all parcels and restores the default rule set.
func (s *Service) Reset(ctx context.Context) error {
	if err := s.repo.Reset(ctx); err != nil {
		return err
	}
	return s.rules.Reset(ctx)
}

var (
	_ ports.Service        = (*Service)(nil)
	_ ports.IngestionSteps = (*Service)(nil)
)
