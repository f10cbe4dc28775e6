package domain

import (
	"errors"
	"math"
	"strings"
	"time"
)

// Department identifies the handling lane a parcel is routed to.
type Department string

const (
	DepartmentMail       Department = "mail"
	DepartmentRegular    Department = "regular"
	DepartmentHeavy      Department = "heavy"
	DepartmentInsurance  Department = "insurance"
	DepartmentUnassigned Department = "unassigned"
)

// Status represents the lifecycle state of a parcel on the intake floor.
type Status string

const (
	StatusPending         Status = "pending"
	StatusProcessing      Status = "processing"
	StatusInsuranceReview Status = "insurance_review"
	StatusCompleted       Status = "completed"
	StatusError           Status = "error"
)

var (
	ErrEmptyParcelID       = errors.New("parcel id is required")
	ErrInvalidWeight       = errors.New("weight must be a finite number greater or equal to zero")
	ErrInvalidValue        = errors.New("value must be a finite number greater or equal to zero")
	ErrInvalidDepartment   = errors.New("department is invalid")
	ErrInvalidStatus       = errors.New("parcel status is invalid")
	ErrInsuranceNotPending = errors.New("insurance review requires a parcel that needs insurance")
	ErrErrorDepartment     = errors.New("parcels in error must be unassigned")
)

// Parcel is the aggregate managed by the parcels bounded context.
type Parcel struct {
	ParcelID          string
	Weight            float64
	Value             float64
	Recipient         string
	Destination       string
	Department        Department
	RequiresInsurance bool
	InsuranceApproved bool
	Status            Status
	ProcessingTime    time.Time
	ErrorMessage      *string
}

// NewParcel builds a routed parcel ready to be persisted.
func NewParcel(parcelID string, weight, value float64, recipient, destination string, routing Routing, processedAt time.Time) (*Parcel, error) {
	parcel := &Parcel{
		ParcelID:          strings.TrimSpace(parcelID),
		Weight:            weight,
		Value:             value,
		Recipient:         recipient,
		Destination:       destination,
		Department:        routing.Department,
		RequiresInsurance: routing.RequiresInsurance,
		Status:            routing.Status,
		ProcessingTime:    processedAt,
	}
	if err := parcel.Validate(); err != nil {
		return nil, err
	}
	return parcel, nil
}

// Validate enforces the aggregate invariants.
func (p *Parcel) Validate() error {
	if strings.TrimSpace(p.ParcelID) == "" {
		return ErrEmptyParcelID
	}
	if !isNonNegativeFinite(p.Weight) {
		return ErrInvalidWeight
	}
	if !isNonNegativeFinite(p.Value) {
		return ErrInvalidValue
	}
	if !IsValidDepartment(p.Department) {
		return ErrInvalidDepartment
	}
	if !IsValidStatus(p.Status) {
		return ErrInvalidStatus
	}
	if p.Status == StatusInsuranceReview && !p.RequiresInsurance {
		return ErrInsuranceNotPending
	}
	if p.Status == StatusError && p.Department != DepartmentUnassigned {
		return ErrErrorDepartment
	}
	return nil
}

// ApproveInsurance marks the insurance check as done and moves the parcel
// into processing. It reports false and leaves the parcel untouched when no
// insurance is required.
func (p *Parcel) ApproveInsurance() bool {
	if !p.RequiresInsurance {
		return false
	}
	p.InsuranceApproved = true
	p.Status = StatusProcessing
	return true
}

// Complete moves the parcel to completed regardless of its current state.
func (p *Parcel) Complete() {
	p.Status = StatusCompleted
}

// IsValidDepartment reports whether the department belongs to the known set.
func IsValidDepartment(department Department) bool {
	switch department {
	case DepartmentMail, DepartmentRegular, DepartmentHeavy, DepartmentInsurance, DepartmentUnassigned:
		return true
	default:
		return false
	}
}

// IsValidStatus reports whether the status belongs to the known set.
func IsValidStatus(status Status) bool {
	switch status {
	case StatusPending, StatusProcessing, StatusInsuranceReview, StatusCompleted, StatusError:
		return true
	default:
		return false
	}
}

// ParseDepartment normalises free-form input into a Department.
func ParseDepartment(raw string) (Department, bool) {
	department := Department(strings.ToLower(strings.TrimSpace(raw)))
	return department, IsValidDepartment(department)
}

// ParseStatus normalises free-form input into a Status.
func ParseStatus(raw string) (Status, bool) {
	status := Status(strings.ToLower(strings.TrimSpace(raw)))
	return status, IsValidStatus(status)
}

func isNonNegativeFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}
