package eligibility

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/servly/booking-api/internal/model"
	"github.com/servly/booking-api/pkg/errors"
)

type pairKey struct {
	employeeID uuid.UUID
	serviceID  uuid.UUID
}

// Matrix owns the employee-to-service eligibility relation. Mutations for
// a given (employee, service) pair are serialized on a single lock, so two
// concurrent grants for the same pair can never both observe "no link" and
// create duplicates.
type Matrix struct {
	mu    sync.RWMutex
	links map[pairKey]*model.EligibilityLink
}

func NewMatrix() *Matrix {
	return &Matrix{links: make(map[pairKey]*model.EligibilityLink)}
}

// Load replaces the matrix contents from backend relation rows. Rows that
// reference an unknown employee or service are rejected: the API layer is
// supposed to prevent orphans, but the core validates anyway. Duplicate
// rows for a pair collapse to the first one seen.
func (m *Matrix) Load(rows []*model.EmployeeServiceRow, employees map[uuid.UUID]*model.Employee, services map[uuid.UUID]*model.Service) error {
	links := make(map[pairKey]*model.EligibilityLink, len(rows))
	for _, row := range rows {
		link, err := model.LinkFromRow(row)
		if err != nil {
			return err
		}
		if _, ok := employees[link.EmployeeID]; !ok {
			return errors.NotFound("employee", fmt.Errorf("eligibility link %s references employee %s", link.ID, link.EmployeeID))
		}
		if _, ok := services[link.ServiceID]; !ok {
			return errors.NotFound("service", fmt.Errorf("eligibility link %s references service %s", link.ID, link.ServiceID))
		}
		key := pairKey{link.EmployeeID, link.ServiceID}
		if _, ok := links[key]; ok {
			continue
		}
		links[key] = link
	}

	m.mu.Lock()
	m.links = links
	m.mu.Unlock()
	return nil
}

// IsEligible reports whether the employee may perform the service.
func (m *Matrix) IsEligible(employeeID, serviceID uuid.UUID) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.links[pairKey{employeeID, serviceID}]
	return ok
}

// Grant makes the employee eligible for the service. Granting an existing
// pair is a no-op that returns the existing link.
func (m *Matrix) Grant(employeeID, serviceID uuid.UUID) (*model.EligibilityLink, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := pairKey{employeeID, serviceID}
	if link, ok := m.links[key]; ok {
		return link, false
	}
	link := &model.EligibilityLink{
		ID:         uuid.New(),
		EmployeeID: employeeID,
		ServiceID:  serviceID,
	}
	m.links[key] = link
	return link, true
}

// LinkFor returns a copy of the link for the pair, if present.
func (m *Matrix) LinkFor(employeeID, serviceID uuid.UUID) (*model.EligibilityLink, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	link, ok := m.links[pairKey{employeeID, serviceID}]
	if !ok {
		return nil, false
	}
	copied := *link
	return &copied, true
}

// AdoptID replaces the pair's link id with the backend's authoritative id,
// so a later revoke deletes the row the backend actually issued. The entry
// is replaced rather than mutated; links handed out earlier stay stable.
func (m *Matrix) AdoptID(employeeID, serviceID, id uuid.UUID) (*model.EligibilityLink, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := pairKey{employeeID, serviceID}
	if _, ok := m.links[key]; !ok {
		return nil, false
	}
	adopted := &model.EligibilityLink{
		ID:         id,
		EmployeeID: employeeID,
		ServiceID:  serviceID,
	}
	m.links[key] = adopted
	return adopted, true
}

// Revoke removes the employee's eligibility for the service and returns
// the removed link. Revoking a pair with no link is a no-op.
func (m *Matrix) Revoke(employeeID, serviceID uuid.UUID) (*model.EligibilityLink, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := pairKey{employeeID, serviceID}
	link, ok := m.links[key]
	if !ok {
		return nil, false
	}
	delete(m.links, key)
	return link, true
}

// LinksFor returns the ids of every service the employee is eligible for.
// Order is unspecified.
func (m *Matrix) LinksFor(employeeID uuid.UUID) []uuid.UUID {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var services []uuid.UUID
	for key := range m.links {
		if key.employeeID == employeeID {
			services = append(services, key.serviceID)
		}
	}
	return services
}

// EmployeesFor returns the ids of every employee eligible for the service.
func (m *Matrix) EmployeesFor(serviceID uuid.UUID) []uuid.UUID {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var employees []uuid.UUID
	for key := range m.links {
		if key.serviceID == serviceID {
			employees = append(employees, key.employeeID)
		}
	}
	return employees
}

// Len returns the number of links in the matrix.
func (m *Matrix) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.links)
}
