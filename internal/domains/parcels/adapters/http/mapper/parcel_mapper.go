package mapper

import (
	"errors"
	"time"

	"github.com/Apurer/parcel-intake-api/internal/domains/parcels/application/types"
	"github.com/Apurer/parcel-intake-api/internal/domains/parcels/domain"
)

// Parcel is the HTTP representation of a stored parcel.
type Parcel struct {
	ParcelID          string    `json:"parcelId"`
	Weight            float64   `json:"weight"`
	Value             float64   `json:"value"`
	Recipient         string    `json:"recipient,omitempty"`
	Destination       string    `json:"destination,omitempty"`
	Department        string    `json:"department"`
	Status            string    `json:"status"`
	RequiresInsurance bool      `json:"requiresInsurance"`
	InsuranceApproved bool      `json:"insuranceApproved"`
	ProcessingTime    time.Time `json:"processingTime"`
	ErrorMessage      *string   `json:"errorMessage"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// IngestionError reports a skipped manifest entry.
type IngestionError struct {
	ParcelID string `json:"parcelId"`
	Error    string `json:"error"`
}

// UploadResponse is returned by the manifest upload endpoint.
type UploadResponse struct {
	Message    string           `json:"message"`
	Parcels    []Parcel         `json:"parcels"`
	Errors     []IngestionError `json:"errors,omitempty"`
	ArchiveKey string           `json:"archiveKey,omitempty"`
}

// FromProjection converts a parcel projection into its HTTP shape.
func FromProjection(p *types.ParcelProjection) Parcel {
	if p == nil || p.Entity == nil {
		return Parcel{}
	}
	e := p.Entity
	return Parcel{
		ParcelID:          e.ParcelID,
		Weight:            e.Weight,
		Value:             e.Value,
		Recipient:         e.Recipient,
		Destination:       e.Destination,
		Department:        string(e.Department),
		Status:            string(e.Status),
		RequiresInsurance: e.RequiresInsurance,
		InsuranceApproved: e.InsuranceApproved,
		ProcessingTime:    e.ProcessingTime,
		ErrorMessage:      e.ErrorMessage,
		CreatedAt:         p.Metadata.CreatedAt,
		UpdatedAt:         p.Metadata.UpdatedAt,
	}
}

// FromProjectionList converts a list of projections, never returning nil.
func FromProjectionList(list []*types.ParcelProjection) []Parcel {
	out := make([]Parcel, 0, len(list))
	for _, p := range list {
		out = append(out, FromProjection(p))
	}
	return out
}

// FromIngestionResult builds the upload response body.
func FromIngestionResult(result *types.IngestionResult) UploadResponse {
	resp := UploadResponse{Message: result.Summary(), Parcels: []Parcel{}}
	if result == nil {
		return resp
	}
	resp.Parcels = FromProjectionList(result.Processed)
	resp.ArchiveKey = result.ArchiveKey
	for _, e := range result.Errors {
		resp.Errors = append(resp.Errors, IngestionError{ParcelID: e.ParcelID, Error: e.Error})
	}
	return resp
}

// MailRule is the HTTP shape of the mail threshold.
type MailRule struct {
	MaxWeight *float64 `json:"maxWeight" yaml:"maxWeight"`
}

// RegularRule is the HTTP shape of the regular threshold.
type RegularRule struct {
	MaxWeight *float64 `json:"maxWeight" yaml:"maxWeight"`
}

// InsuranceRule is the HTTP shape of the insurance rule.
type InsuranceRule struct {
	MinValue *float64 `json:"minValue" yaml:"minValue"`
	Enabled  *bool    `json:"enabled" yaml:"enabled"`
}

// BusinessRules is the full rule document exchanged on /api/business-rules
// and read from rule files by the CLI.
type BusinessRules struct {
	Mail      *MailRule      `json:"mail" yaml:"mail"`
	Regular   *RegularRule   `json:"regular" yaml:"regular"`
	Insurance *InsuranceRule `json:"insurance" yaml:"insurance"`
}

var (
	errMissingMail      = errors.New("mail.maxWeight is required")
	errMissingRegular   = errors.New("regular.maxWeight is required")
	errMissingInsurance = errors.New("insurance.minValue and insurance.enabled are required")
)

// ToRuleSet converts a full rule document into the domain rule set. Partial
// documents are rejected since the rule set is replaced as a whole.
func ToRuleSet(in BusinessRules) (domain.RuleSet, error) {
	if in.Mail == nil || in.Mail.MaxWeight == nil {
		return domain.RuleSet{}, errMissingMail
	}
	if in.Regular == nil || in.Regular.MaxWeight == nil {
		return domain.RuleSet{}, errMissingRegular
	}
	if in.Insurance == nil || in.Insurance.MinValue == nil || in.Insurance.Enabled == nil {
		return domain.RuleSet{}, errMissingInsurance
	}
	return domain.RuleSet{
		Mail:      domain.MailRule{MaxWeight: *in.Mail.MaxWeight},
		Regular:   domain.RegularRule{MaxWeight: *in.Regular.MaxWeight},
		Insurance: domain.InsuranceRule{MinValue: *in.Insurance.MinValue, Enabled: *in.Insurance.Enabled},
	}, nil
}

// FromRuleSet renders a domain rule set.
func FromRuleSet(r domain.RuleSet) BusinessRules {
	mail, regular, minValue, enabled := r.Mail.MaxWeight, r.Regular.MaxWeight, r.Insurance.MinValue, r.Insurance.Enabled
	return BusinessRules{
		Mail:      &MailRule{MaxWeight: &mail},
		Regular:   &RegularRule{MaxWeight: &regular},
		Insurance: &InsuranceRule{MinValue: &minValue, Enabled: &enabled},
	}
}

// DepartmentMetrics is the per-lane counter block of the dashboard.
type DepartmentMetrics struct {
	Count     int `json:"count"`
	Processed int `json:"processed"`
	Pending   int `json:"pending"`
}

// InsuranceMetrics counts insurance reviews.
type InsuranceMetrics struct {
	Count     int `json:"count"`
	Approved  int `json:"approved"`
	Reviewing int `json:"reviewing"`
}

// DepartmentBreakdown groups the dashboard counters per department.
type DepartmentBreakdown struct {
	Mail      DepartmentMetrics `json:"mail"`
	Regular   DepartmentMetrics `json:"regular"`
	Heavy     DepartmentMetrics `json:"heavy"`
	Insurance InsuranceMetrics  `json:"insurance"`
}

// DashboardMetrics is returned by /api/dashboard/metrics.
type DashboardMetrics struct {
	TotalParcels     int                 `json:"totalParcels"`
	Processed        int                 `json:"processed"`
	PendingInsurance int                 `json:"pendingInsurance"`
	Errors           int                 `json:"errors"`
	Departments      DepartmentBreakdown `json:"departments"`
}

func FromMetrics(m *types.DashboardMetrics) DashboardMetrics {
	if m == nil {
		return DashboardMetrics{}
	}
	lane := func(d types.DepartmentMetrics) DepartmentMetrics {
		return DepartmentMetrics{Count: d.Count, Processed: d.Processed, Pending: d.Pending}
	}
	return DashboardMetrics{
		TotalParcels:     m.TotalParcels,
		Processed:        m.Processed,
		PendingInsurance: m.PendingInsurance,
		Errors:           m.Errors,
		Departments: DepartmentBreakdown{
			Mail:    lane(m.Mail),
			Regular: lane(m.Regular),
			Heavy:   lane(m.Heavy),
			Insurance: InsuranceMetrics{
				Count:     m.Insurance.Count,
				Approved:  m.Insurance.Approved,
				Reviewing: m.Insurance.Reviewing,
			},
		},
	}
}
