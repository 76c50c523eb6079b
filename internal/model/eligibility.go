package model

import "github.com/google/uuid"

// EligibilityLink asserts that a specific employee may perform a specific
// service. At most one link exists per (EmployeeID, ServiceID) pair.
type EligibilityLink struct {
	ID         uuid.UUID `json:"id"`
	EmployeeID uuid.UUID `json:"employee_id"`
	ServiceID  uuid.UUID `json:"service_id"`
}

type GrantEligibilityRequest struct {
	EmployeeID uuid.UUID `json:"employee_id" binding:"required"`
	ServiceID  uuid.UUID `json:"service_id" binding:"required"`
}
