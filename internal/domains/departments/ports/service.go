package ports

import (
	"context"

	"github.com/Apurer/parcel-intake-api/internal/domains/departments/domain"
)

// CreateDepartmentInput carries a custom department definition.
type CreateDepartmentInput struct {
	Name        string
	Description string
	Color       string
	Icon        string
}

// Service exposes department catalogue use cases to adapters.
type Service interface {
	List(ctx context.Context) ([]*domain.Department, error)
	Create(ctx context.Context, input CreateDepartmentInput) (*domain.Department, error)
	Delete(ctx context.Context, id string) error
	// EnsureDefaults seeds the built-in departments into an empty catalogue.
	EnsureDefaults(ctx context.Context) error
	// Reset restores the catalogue to the built-in departments only.
	Reset(ctx context.Context) error
}
