package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/servly/booking-api/pkg/errors"
)

// BookingWire is the booking payload exactly as the existing backend emits
// it (camelCase). Timestamps travel as raw strings; values the backend
// stored malformed decode to nil times rather than failing the whole load.
type BookingWire struct {
	ID           string `json:"id"`
	CustomerID   string `json:"customerId"`
	CustomerName string `json:"customerName"`
	ServiceID    string `json:"serviceId"`
	ServiceName  string `json:"serviceName"`
	EmployeeID   string `json:"employeeId"`
	StartTime    string `json:"startTime"`
	EndTime      string `json:"endTime"`
	Status       string `json:"status"`
	Notes        string `json:"notes"`
}

// EmployeeServiceRow is the eligibility relation row as the backend returns
// it, snake_case and all. Do not "fix" the casing: the backend contract
// requires it.
type EmployeeServiceRow struct {
	ID         string `json:"id"`
	OrgID      string `json:"org_id"`
	EmployeeID string `json:"employee_id"`
	ServiceID  string `json:"service_id"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

var wireTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseWireTime decodes a backend timestamp string. Missing or malformed
// values return nil; callers treat that as the "unknown" schedule bucket.
func ParseWireTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range wireTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

func parseOptionalID(s string) (*uuid.UUID, error) {
	if s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// BookingFromWire converts a backend booking payload to the domain type.
func BookingFromWire(w *BookingWire) (*Booking, error) {
	id, err := uuid.Parse(w.ID)
	if err != nil {
		return nil, errors.Validation("invalid booking id", err)
	}
	customerID, err := parseOptionalID(w.CustomerID)
	if err != nil {
		return nil, errors.Validation("invalid customer id", err)
	}
	serviceID, err := parseOptionalID(w.ServiceID)
	if err != nil {
		return nil, errors.Validation("invalid service id", err)
	}
	employeeID, err := parseOptionalID(w.EmployeeID)
	if err != nil {
		return nil, errors.Validation("invalid employee id", err)
	}
	status := BookingStatus(w.Status)
	if !status.Valid() {
		return nil, errors.Validation("invalid booking status", nil)
	}

	return &Booking{
		ID:           id,
		CustomerID:   customerID,
		CustomerName: w.CustomerName,
		ServiceID:    serviceID,
		ServiceName:  w.ServiceName,
		EmployeeID:   employeeID,
		StartTime:    ParseWireTime(w.StartTime),
		EndTime:      ParseWireTime(w.EndTime),
		Status:       status,
		Notes:        w.Notes,
	}, nil
}

func formatOptionalID(id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	return id.String()
}

func formatWireTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}

// BookingToWire converts a domain booking back to the backend payload.
func BookingToWire(b *Booking) *BookingWire {
	return &BookingWire{
		ID:           b.ID.String(),
		CustomerID:   formatOptionalID(b.CustomerID),
		CustomerName: b.CustomerName,
		ServiceID:    formatOptionalID(b.ServiceID),
		ServiceName:  b.ServiceName,
		EmployeeID:   formatOptionalID(b.EmployeeID),
		StartTime:    formatWireTime(b.StartTime),
		EndTime:      formatWireTime(b.EndTime),
		Status:       string(b.Status),
		Notes:        b.Notes,
	}
}

// LinkFromRow converts a relation row to the domain link.
func LinkFromRow(row *EmployeeServiceRow) (*EligibilityLink, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return nil, errors.Validation("invalid link id", err)
	}
	employeeID, err := uuid.Parse(row.EmployeeID)
	if err != nil {
		return nil, errors.Validation("invalid employee id", err)
	}
	serviceID, err := uuid.Parse(row.ServiceID)
	if err != nil {
		return nil, errors.Validation("invalid service id", err)
	}
	return &EligibilityLink{
		ID:         id,
		EmployeeID: employeeID,
		ServiceID:  serviceID,
	}, nil
}
