package ports

import (
	"context"

	"github.com/Apurer/parcel-intake-api/internal/domains/parcels/domain"
)

// RuleStore holds the active routing rule set.
type RuleStore interface {
	// Active returns the configured rule set, or the default one when none is set.
	Active(ctx context.Context) (domain.RuleSet, error)
	// Replace swaps the active rule set as a whole.
	Replace(ctx context.Context, rules domain.RuleSet) (domain.RuleSet, error)
	// Reset restores the default rule set.
	Reset(ctx context.Context) error
}
