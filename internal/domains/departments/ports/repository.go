package ports

import (
	"context"
	"errors"

	"github.com/Apurer/parcel-intake-api/internal/domains/departments/domain"
)

var (
	ErrNotFound      = errors.New("department not found")
	ErrDuplicateName = errors.New("department name already exists")
)

// Repository persists the department catalogue.
type Repository interface {
	List(ctx context.Context) ([]*domain.Department, error)
	GetByID(ctx context.Context, id string) (*domain.Department, error)
	Create(ctx context.Context, department *domain.Department) (*domain.Department, error)
	Delete(ctx context.Context, id string) error
	// ReplaceAll drops the catalogue and stores the given departments instead.
	ReplaceAll(ctx context.Context, departments []*domain.Department) error
}
