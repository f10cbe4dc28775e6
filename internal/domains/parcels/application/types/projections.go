package types

import (
	"time"

	"github.com/Apurer/parcel-intake-api/internal/domains/parcels/domain"
	"github.com/Apurer/parcel-intake-api/internal/shared/projection"
)

// ParcelProjection transports a parcel together with its persistence metadata.
type ParcelProjection = projection.Projection[*domain.Parcel]

// NewParcelProjection wraps a parcel with persistence metadata.
func NewParcelProjection(parcel *domain.Parcel, createdAt, updatedAt time.Time) *ParcelProjection {
	if parcel == nil {
		return nil
	}
	return &ParcelProjection{
		Entity:   parcel,
		Metadata: projection.Metadata{CreatedAt: createdAt, UpdatedAt: updatedAt},
	}
}

// CloneParcel returns a deep copy of a parcel.
func CloneParcel(parcel *domain.Parcel) *domain.Parcel {
	if parcel == nil {
		return nil
	}
	clone := *parcel
	if parcel.ErrorMessage != nil {
		msg := *parcel.ErrorMessage
		clone.ErrorMessage = &msg
	}
	return &clone
}
