package manifest

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultWeight replaces weights that are missing, zero, or negative.
const DefaultWeight = 1.0

var (
	nonNumeric    = regexp.MustCompile(`[^\d.\-]`)
	numericPrefix = regexp.MustCompile(`^-?(\d+\.?\d*|\.\d+)`)
)

// parseAmount extracts a number from free-form text such as "2.5 kg" or
// "EUR 1,200". Missing text and text whose cleaned form has no usable
// numeric prefix yield zero. Text without any digit is rejected.
func parseAmount(field, raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	cleaned := nonNumeric.ReplaceAllString(raw, "")
	if !strings.ContainsAny(cleaned, "0123456789") {
		return 0, fmt.Errorf("%s %q is not a number", field, raw)
	}
	prefix := numericPrefix.FindString(cleaned)
	if prefix == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(prefix, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, fmt.Errorf("%s %q is out of range", field, raw)
	}
	return v, nil
}

// Repair clamps the draft amounts into insertable values: negative numbers
// become zero, a zero weight becomes DefaultWeight, and both amounts are
// rounded to two decimals.
func Repair(d Draft) Draft {
	weight := d.Weight
	if math.IsNaN(weight) || weight < 0 {
		weight = 0
	}
	if weight == 0 {
		weight = DefaultWeight
	}
	value := d.Value
	if math.IsNaN(value) || value < 0 {
		value = 0
	}
	d.Weight = round2(weight)
	d.Value = round2(value)
	return d
}

func round2(v float64) float64 {
	rounded, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return rounded
}
