package types

// ListParcelsInput filters the parcel listing. Empty fields match everything.
type ListParcelsInput struct {
	Department string
	Status     string
	Search     string
}

// ParcelIdentifier addresses a single parcel by its manifest id.
type ParcelIdentifier struct {
	ParcelID string
}

// DepartmentMetrics counts parcels routed to one department.
type DepartmentMetrics struct {
	Count     int
	Processed int
	Pending   int
}

// InsuranceMetrics counts parcels that needed an insurance review.
type InsuranceMetrics struct {
	Count     int
	Approved  int
	Reviewing int
}

// DashboardMetrics aggregates the parcel store for the dashboard.
type DashboardMetrics struct {
	TotalParcels     int
	Processed        int
	PendingInsurance int
	Errors           int
	Mail             DepartmentMetrics
	Regular          DepartmentMetrics
	Heavy            DepartmentMetrics
	Insurance        InsuranceMetrics
}
