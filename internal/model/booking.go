package model

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Valid reports whether s is one of the known booking statuses.
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCompleted, BookingStatusCancelled:
		return true
	}
	return false
}

// Booking is the core scheduling record. CustomerName and ServiceName are
// display fallbacks that must be non-empty when the matching id is absent.
// EmployeeID is nil while the booking is unassigned. Bookings are never
// deleted; cancellation is a status.
type Booking struct {
	ID           uuid.UUID     `json:"id"`
	CustomerID   *uuid.UUID    `json:"customer_id,omitempty"`
	CustomerName string        `json:"customer_name"`
	ServiceID    *uuid.UUID    `json:"service_id,omitempty"`
	ServiceName  string        `json:"service_name"`
	EmployeeID   *uuid.UUID    `json:"employee_id,omitempty"`
	StartTime    *time.Time    `json:"start_time,omitempty"`
	EndTime      *time.Time    `json:"end_time,omitempty"`
	Status       BookingStatus `json:"status"`
	Notes        string        `json:"notes,omitempty"`
}

type CreateBookingRequest struct {
	CustomerID   *uuid.UUID `json:"customer_id"`
	CustomerName string     `json:"customer_name" binding:"required"`
	ServiceID    *uuid.UUID `json:"service_id"`
	ServiceName  string     `json:"service_name" binding:"required"`
	EmployeeID   *uuid.UUID `json:"employee_id"`
	StartTime    time.Time  `json:"start_time" binding:"required"`
	EndTime      time.Time  `json:"end_time" binding:"required,gtfield=StartTime"`
	Notes        string     `json:"notes" binding:"max=1000"`
}

type UpdateBookingStatusRequest struct {
	Status BookingStatus `json:"status" binding:"required,booking_status"`
}

type AssignBookingRequest struct {
	EmployeeID *uuid.UUID `json:"employee_id"`
}

// BookingFilters narrows a booking listing. Zero values mean "no filter".
type BookingFilters struct {
	Status     BookingStatus
	EmployeeID *uuid.UUID
}
