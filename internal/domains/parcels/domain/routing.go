package domain

// Routing is the outcome of classifying a parcel against a rule set.
type Routing struct {
	Department        Department
	RequiresInsurance bool
	Status            Status
}

// Route classifies a parcel by weight into a department and by value into
// the insurance review lane. The insurance threshold is strict: a value equal
// to MinValue does not require insurance.
func Route(weight, value float64, rules RuleSet) Routing {
	routing := Routing{Department: DepartmentHeavy, Status: StatusPending}
	switch {
	case weight <= rules.Mail.MaxWeight:
		routing.Department = DepartmentMail
	case weight <= rules.Regular.MaxWeight:
		routing.Department = DepartmentRegular
	}
	if rules.Insurance.Enabled && value > rules.Insurance.MinValue {
		routing.RequiresInsurance = true
		routing.Status = StatusInsuranceReview
	}
	return routing
}
