// Package store holds the authoritative in-memory collections for the
// booking core and is the only place mutations happen. Reads hand out
// snapshots; the pure projection functions in package schedule do the rest.
package store

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/servly/booking-api/internal/eligibility"
	"github.com/servly/booking-api/internal/model"
	"github.com/servly/booking-api/internal/schedule"
	"github.com/servly/booking-api/internal/workflow"
	"github.com/servly/booking-api/pkg/errors"
)

// Config carries the store's explicit configuration. There is no
// process-wide state; every dependency arrives through the constructor.
type Config struct {
	OrgID string
}

type BookingStore struct {
	cfg      Config
	workflow *workflow.Workflow
	matrix   *eligibility.Matrix

	mu        sync.RWMutex
	bookings  []*model.Booking
	byID      map[uuid.UUID]*model.Booking
	employees map[uuid.UUID]*model.Employee
	services  map[uuid.UUID]*model.Service
}

func New(cfg Config, wf *workflow.Workflow, matrix *eligibility.Matrix) *BookingStore {
	if wf == nil {
		wf = workflow.New(nil)
	}
	if matrix == nil {
		matrix = eligibility.NewMatrix()
	}
	return &BookingStore{
		cfg:       cfg,
		workflow:  wf,
		matrix:    matrix,
		byID:      make(map[uuid.UUID]*model.Booking),
		employees: make(map[uuid.UUID]*model.Employee),
		services:  make(map[uuid.UUID]*model.Service),
	}
}

// Load replaces every collection wholesale from backend data. Booking order
// is preserved as received so listings stay stable across refreshes.
func (s *BookingStore) Load(bookings []*model.Booking, employees []*model.Employee, services []*model.Service, rows []*model.EmployeeServiceRow) error {
	byID := make(map[uuid.UUID]*model.Booking, len(bookings))
	for _, b := range bookings {
		if !b.Status.Valid() {
			return errors.Validation(fmt.Sprintf("booking %s has unknown status %q", b.ID, b.Status), nil)
		}
		byID[b.ID] = b
	}
	empIndex := make(map[uuid.UUID]*model.Employee, len(employees))
	for _, e := range employees {
		empIndex[e.ID] = e
	}
	svcIndex := make(map[uuid.UUID]*model.Service, len(services))
	for _, svc := range services {
		svcIndex[svc.ID] = svc
	}

	if err := s.matrix.Load(rows, empIndex, svcIndex); err != nil {
		return err
	}

	s.mu.Lock()
	s.bookings = bookings
	s.byID = byID
	s.employees = empIndex
	s.services = svcIndex
	s.mu.Unlock()
	return nil
}

// CreateBooking validates the request and appends a new pending booking.
func (s *BookingStore) CreateBooking(req *model.CreateBookingRequest) (*model.Booking, error) {
	if req.CustomerName == "" {
		return nil, errors.Validation("customer name is required", nil)
	}
	if req.ServiceName == "" {
		return nil, errors.Validation("service name is required", nil)
	}
	if req.StartTime.IsZero() || req.EndTime.IsZero() {
		return nil, errors.Validation("start and end times are required", nil)
	}
	if !req.StartTime.Before(req.EndTime) {
		return nil, errors.Validation("start time must be before end time", nil)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if req.EmployeeID != nil {
		if _, ok := s.employees[*req.EmployeeID]; !ok {
			return nil, errors.NotFound("employee", nil)
		}
	}

	start := req.StartTime
	end := req.EndTime
	b := &model.Booking{
		ID:           uuid.New(),
		CustomerID:   req.CustomerID,
		CustomerName: req.CustomerName,
		ServiceID:    req.ServiceID,
		ServiceName:  req.ServiceName,
		EmployeeID:   req.EmployeeID,
		StartTime:    &start,
		EndTime:      &end,
		Status:       model.BookingStatusPending,
		Notes:        req.Notes,
	}
	s.bookings = append(s.bookings, b)
	s.byID[b.ID] = b
	return b, nil
}

// GetBooking returns a copy of the booking so callers cannot mutate store
// state behind the lock.
func (s *BookingStore) GetBooking(id uuid.UUID) (*model.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.byID[id]
	if !ok {
		return nil, errors.NotFound("booking", nil)
	}
	copied := *b
	return &copied, nil
}

// ListBookings returns filtered copies in stable load/creation order.
func (s *BookingStore) ListBookings(f model.BookingFilters) []*model.Booking {
	s.mu.RLock()
	snapshot := s.snapshotLocked()
	s.mu.RUnlock()
	return schedule.Filter(snapshot, f)
}

// ListByStart returns the filtered list view, ascending by start time.
func (s *BookingStore) ListByStart(f model.BookingFilters) []*model.Booking {
	return schedule.SortByStart(s.ListBookings(f))
}

// Schedule returns the filtered day-view projection.
func (s *BookingStore) Schedule(f model.BookingFilters) []schedule.DayGroup {
	return schedule.GroupByDay(s.ListBookings(f))
}

// UpdateStatus applies a status transition to the booking. Concurrent
// updates to one booking serialize on the store lock; the last writer wins.
func (s *BookingStore) UpdateStatus(id uuid.UUID, to model.BookingStatus) (*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.byID[id]
	if !ok {
		return nil, errors.NotFound("booking", nil)
	}
	if err := s.workflow.Transition(b, to); err != nil {
		return nil, err
	}
	copied := *b
	return &copied, nil
}

// AssignEmployee reassigns the booking, or unassigns it when employeeID is
// nil. Assignment requires the employee to be eligible for the booking's
// service when the booking carries a service id.
func (s *BookingStore) AssignEmployee(id uuid.UUID, employeeID *uuid.UUID) (*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.byID[id]
	if !ok {
		return nil, errors.NotFound("booking", nil)
	}
	if employeeID != nil {
		if _, ok := s.employees[*employeeID]; !ok {
			return nil, errors.NotFound("employee", nil)
		}
		if b.ServiceID != nil && !s.matrix.IsEligible(*employeeID, *b.ServiceID) {
			return nil, errors.Conflict("employee is not eligible for this service", nil)
		}
	}
	b.EmployeeID = employeeID
	copied := *b
	return &copied, nil
}

// Grant makes the employee eligible for the service. The second return
// reports whether a new link was created; granting an existing pair
// succeeds without one.
func (s *BookingStore) Grant(employeeID, serviceID uuid.UUID) (*model.EligibilityLink, bool, error) {
	s.mu.RLock()
	_, empOK := s.employees[employeeID]
	_, svcOK := s.services[serviceID]
	s.mu.RUnlock()

	if !empOK {
		return nil, false, errors.NotFound("employee", nil)
	}
	if !svcOK {
		return nil, false, errors.NotFound("service", nil)
	}
	link, created := s.matrix.Grant(employeeID, serviceID)
	return link, created, nil
}

// LinkFor returns the current eligibility link for the pair, if any.
func (s *BookingStore) LinkFor(employeeID, serviceID uuid.UUID) (*model.EligibilityLink, bool) {
	return s.matrix.LinkFor(employeeID, serviceID)
}

// AdoptLink rewrites the pair's link id with the id the backend assigned
// when the link was pushed remotely.
func (s *BookingStore) AdoptLink(employeeID, serviceID, backendID uuid.UUID) (*model.EligibilityLink, bool) {
	return s.matrix.AdoptID(employeeID, serviceID, backendID)
}

// Revoke removes the eligibility link if present and returns it so the
// boundary can delete it remotely. Revoking an absent pair is a
// successful no-op.
func (s *BookingStore) Revoke(employeeID, serviceID uuid.UUID) (*model.EligibilityLink, bool) {
	return s.matrix.Revoke(employeeID, serviceID)
}

// IsEligible reports whether the employee may perform the service.
func (s *BookingStore) IsEligible(employeeID, serviceID uuid.UUID) bool {
	return s.matrix.IsEligible(employeeID, serviceID)
}

// ServicesFor returns the services the employee is currently eligible for.
func (s *BookingStore) ServicesFor(employeeID uuid.UUID) ([]*model.Service, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.employees[employeeID]; !ok {
		return nil, errors.NotFound("employee", nil)
	}
	var services []*model.Service
	for _, svcID := range s.matrix.LinksFor(employeeID) {
		if svc, ok := s.services[svcID]; ok {
			services = append(services, svc)
		}
	}
	return services, nil
}

// EligibleEmployees suggests active employees who may take a booking for
// the service.
func (s *BookingStore) EligibleEmployees(serviceID uuid.UUID) ([]*model.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.services[serviceID]; !ok {
		return nil, errors.NotFound("service", nil)
	}
	var employees []*model.Employee
	for _, empID := range s.matrix.EmployeesFor(serviceID) {
		if emp, ok := s.employees[empID]; ok && emp.Active {
			employees = append(employees, emp)
		}
	}
	return employees, nil
}

func (s *BookingStore) snapshotLocked() []*model.Booking {
	snapshot := make([]*model.Booking, len(s.bookings))
	for i, b := range s.bookings {
		copied := *b
		snapshot[i] = &copied
	}
	return snapshot
}
