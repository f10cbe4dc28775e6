package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/parcel-intake-api/internal/domains/parcels/domain"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid parcel input")
	// ErrNoValidParcels rejects a manifest that yielded no usable parcel.
	ErrNoValidParcels = errors.New("no valid parcels found")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyParcelID) ||
		errors.Is(err, domain.ErrInvalidWeight) ||
		errors.Is(err, domain.ErrInvalidValue) ||
		errors.Is(err, domain.ErrInvalidDepartment) ||
		errors.Is(err, domain.ErrInvalidStatus) ||
		errors.Is(err, domain.ErrInvalidRuleSet) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
