package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/parcel-intake-api/internal/domains/departments/domain"
	"github.com/Apurer/parcel-intake-api/internal/domains/departments/ports"
)

// ErrInvalidInput signals the request violated a domain invariant.
var ErrInvalidInput = errors.New("invalid department input")

// Service orchestrates the department catalogue.
type Service struct {
	repo  ports.Repository
	now   func() time.Time
	newID func() string
}

func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo, now: time.Now, newID: uuid.NewString}
}

func (s *Service) List(ctx context.Context) ([]*domain.Department, error) {
	return s.repo.List(ctx)
}

func (s *Service) Create(ctx context.Context, input ports.CreateDepartmentInput) (*domain.Department, error) {
	department, err := domain.NewCustomDepartment(s.newID(), input.Name, input.Description, input.Color, input.Icon)
	if err != nil {
		return nil, mapError(err)
	}
	department.CreatedAt = s.now()
	return s.repo.Create(ctx, department)
}

// Delete removes a custom department; built-in ones are refused.
func (s *Service) Delete(ctx context.Context, id string) error {
	department, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := department.CanDelete(); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) EnsureDefaults(ctx context.Context) error {
	existing, err := s.repo.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	return s.repo.ReplaceAll(ctx, s.defaults())
}

func (s *Service) Reset(ctx context.Context) error {
	return s.repo.ReplaceAll(ctx, s.defaults())
}

func (s *Service) defaults() []*domain.Department {
	seeds := domain.Defaults()
	out := make([]*domain.Department, 0, len(seeds))
	now := s.now()
	for i := range seeds {
		d := seeds[i]
		d.ID = s.newID()
		d.CreatedAt = now
		out = append(out, &d)
	}
	return out
}

func mapError(err error) error {
	if errors.Is(err, domain.ErrEmptyName) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}

var _ ports.Service = (*Service)(nil)
