package domain

import (
	"errors"
	"math"
)

const (
	DefaultMailMaxWeight     = 1.0
	DefaultRegularMaxWeight  = 10.0
	DefaultInsuranceMinValue = 1000.0
)

var ErrInvalidRuleSet = errors.New("rule set thresholds must be finite numbers greater or equal to zero")

// MailRule bounds the weight accepted by the mail department.
type MailRule struct {
	MaxWeight float64
}

// RegularRule bounds the weight accepted by the regular department.
type RegularRule struct {
	MaxWeight float64
}

// InsuranceRule decides which parcels need an insurance review.
type InsuranceRule struct {
	MinValue float64
	Enabled  bool
}

// RuleSet groups the thresholds used to route parcels. It is replaced as a
// whole; mail.MaxWeight below regular.MaxWeight is expected but not enforced.
type RuleSet struct {
	Mail      MailRule
	Regular   RegularRule
	Insurance InsuranceRule
}

// DefaultRuleSet returns the thresholds used when no rule set was configured.
func DefaultRuleSet() RuleSet {
	return RuleSet{
		Mail:      MailRule{MaxWeight: DefaultMailMaxWeight},
		Regular:   RegularRule{MaxWeight: DefaultRegularMaxWeight},
		Insurance: InsuranceRule{MinValue: DefaultInsuranceMinValue, Enabled: true},
	}
}

// Validate rejects thresholds that cannot be compared against parcel amounts.
func (r RuleSet) Validate() error {
	for _, v := range []float64{r.Mail.MaxWeight, r.Regular.MaxWeight, r.Insurance.MinValue} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return ErrInvalidRuleSet
		}
	}
	return nil
}
