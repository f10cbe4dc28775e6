package memory

import (
	"context"
	"sync/atomic"

	"github.com/Apurer/parcel-intake-api/internal/domains/parcels/domain"
	"github.com/Apurer/parcel-intake-api/internal/domains/parcels/ports"
)

var _ ports.RuleStore = (*RuleStore)(nil)

// RuleStore keeps the active rule set behind an atomic pointer so readers
// never observe a half-written rule set.
type RuleStore struct {
	active atomic.Pointer[domain.RuleSet]
}

// NewRuleStore returns a store that serves the default rule set until replaced.
func NewRuleStore() *RuleStore {
	return &RuleStore{}
}

func (s *RuleStore) Active(_ context.Context) (domain.RuleSet, error) {
	if rules := s.active.Load(); rules != nil {
		return *rules, nil
	}
	return domain.DefaultRuleSet(), nil
}

func (s *RuleStore) Replace(_ context.Context, rules domain.RuleSet) (domain.RuleSet, error) {
	stored := rules
	s.active.Store(&stored)
	return stored, nil
}

func (s *RuleStore) Reset(_ context.Context) error {
	s.active.Store(nil)
	return nil
}
