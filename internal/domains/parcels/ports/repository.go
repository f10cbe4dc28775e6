package ports

import (
	"context"
	"errors"

	"github.com/Apurer/parcel-intake-api/internal/domains/parcels/application/types"
	"github.com/Apurer/parcel-intake-api/internal/domains/parcels/domain"
)

var (
	ErrNotFound        = errors.New("parcel not found")
	ErrDuplicateParcel = errors.New("parcel id already exists")
)

// ListFilter narrows a parcel listing. Zero values match everything; Search
// is matched case-insensitively against parcel id and department.
type ListFilter struct {
	Department domain.Department
	Status     domain.Status
	Search     string
}

// Repository persists parcels keyed by their manifest id.
type Repository interface {
	// Create inserts a new parcel and fails with ErrDuplicateParcel when the id is taken.
	Create(ctx context.Context, parcel *domain.Parcel) (*types.ParcelProjection, error)
	// Update overwrites the mutable state of an existing parcel.
	Update(ctx context.Context, parcel *domain.Parcel) (*types.ParcelProjection, error)
	GetByParcelID(ctx context.Context, parcelID string) (*types.ParcelProjection, error)
	// List returns matching parcels, newest first.
	List(ctx context.Context, filter ListFilter) ([]*types.ParcelProjection, error)
	// Reset removes every parcel.
	Reset(ctx context.Context) error
}
