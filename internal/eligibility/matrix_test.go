package eligibility

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/servly/booking-api/internal/model"
	"github.com/servly/booking-api/pkg/errors"
)

func TestGrantIsIdempotent(t *testing.T) {
	m := NewMatrix()
	employee := uuid.New()
	service := uuid.New()

	first, created := m.Grant(employee, service)
	require.True(t, created)
	require.NotNil(t, first)

	second, created := m.Grant(employee, service)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, m.Len())
}

func TestRevokeIsIdempotent(t *testing.T) {
	m := NewMatrix()
	employee := uuid.New()
	service := uuid.New()

	link, removed := m.Revoke(employee, service)
	assert.False(t, removed)
	assert.Nil(t, link)
	assert.Equal(t, 0, m.Len())

	granted, _ := m.Grant(employee, service)
	link, removed = m.Revoke(employee, service)
	require.True(t, removed)
	assert.Equal(t, granted.ID, link.ID)

	_, removed = m.Revoke(employee, service)
	assert.False(t, removed)
	assert.Equal(t, 0, m.Len())
}

func TestAdoptIDReplacesLinkID(t *testing.T) {
	m := NewMatrix()
	employee := uuid.New()
	service := uuid.New()
	backendID := uuid.New()

	_, ok := m.AdoptID(employee, service, backendID)
	assert.False(t, ok, "adopting an absent pair must fail")

	local, created := m.Grant(employee, service)
	require.True(t, created)
	require.NotEqual(t, backendID, local.ID)

	adopted, ok := m.AdoptID(employee, service, backendID)
	require.True(t, ok)
	assert.Equal(t, backendID, adopted.ID)
	assert.Equal(t, employee, adopted.EmployeeID)
	assert.Equal(t, service, adopted.ServiceID)

	link, ok := m.LinkFor(employee, service)
	require.True(t, ok)
	assert.Equal(t, backendID, link.ID)

	removed, ok := m.Revoke(employee, service)
	require.True(t, ok)
	assert.Equal(t, backendID, removed.ID)
}

func TestLinkFor(t *testing.T) {
	m := NewMatrix()
	employee := uuid.New()
	service := uuid.New()

	_, ok := m.LinkFor(employee, service)
	assert.False(t, ok)

	granted, _ := m.Grant(employee, service)
	link, ok := m.LinkFor(employee, service)
	require.True(t, ok)
	assert.Equal(t, granted.ID, link.ID)
}

func TestGrantRevokeNetEffect(t *testing.T) {
	m := NewMatrix()
	employee := uuid.New()
	service := uuid.New()

	m.Grant(employee, service)
	m.Revoke(employee, service)
	assert.False(t, m.IsEligible(employee, service))

	m.Grant(employee, service)
	m.Grant(employee, service)
	m.Revoke(employee, service)
	m.Revoke(employee, service)
	m.Grant(employee, service)
	assert.True(t, m.IsEligible(employee, service))
	assert.Equal(t, 1, m.Len())
}

func TestConcurrentGrantsCreateOneLink(t *testing.T) {
	m := NewMatrix()
	employee := uuid.New()
	service := uuid.New()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Grant(employee, service)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, m.Len())
	assert.True(t, m.IsEligible(employee, service))
}

func TestLinksForAndEmployeesFor(t *testing.T) {
	m := NewMatrix()
	alice := uuid.New()
	bob := uuid.New()
	cut := uuid.New()
	color := uuid.New()

	m.Grant(alice, cut)
	m.Grant(alice, color)
	m.Grant(bob, cut)

	assert.ElementsMatch(t, []uuid.UUID{cut, color}, m.LinksFor(alice))
	assert.ElementsMatch(t, []uuid.UUID{cut}, m.LinksFor(bob))
	assert.ElementsMatch(t, []uuid.UUID{alice, bob}, m.EmployeesFor(cut))
	assert.Empty(t, m.LinksFor(uuid.New()))
}

func row(employeeID, serviceID uuid.UUID) *model.EmployeeServiceRow {
	return &model.EmployeeServiceRow{
		ID:         uuid.NewString(),
		OrgID:      uuid.NewString(),
		EmployeeID: employeeID.String(),
		ServiceID:  serviceID.String(),
	}
}

func TestLoadValidatesReferences(t *testing.T) {
	employee := uuid.New()
	service := uuid.New()
	employees := map[uuid.UUID]*model.Employee{employee: {ID: employee, Name: "Alice"}}
	services := map[uuid.UUID]*model.Service{service: {ID: service, Name: "Cut"}}

	t.Run("valid rows load", func(t *testing.T) {
		m := NewMatrix()
		require.NoError(t, m.Load([]*model.EmployeeServiceRow{row(employee, service)}, employees, services))
		assert.True(t, m.IsEligible(employee, service))
	})

	t.Run("orphan employee rejected", func(t *testing.T) {
		m := NewMatrix()
		err := m.Load([]*model.EmployeeServiceRow{row(uuid.New(), service)}, employees, services)
		require.Error(t, err)
		assert.True(t, errors.IsNotFound(err))
	})

	t.Run("orphan service rejected", func(t *testing.T) {
		m := NewMatrix()
		err := m.Load([]*model.EmployeeServiceRow{row(employee, uuid.New())}, employees, services)
		require.Error(t, err)
		assert.True(t, errors.IsNotFound(err))
	})

	t.Run("duplicate rows collapse to one link", func(t *testing.T) {
		m := NewMatrix()
		rows := []*model.EmployeeServiceRow{row(employee, service), row(employee, service)}
		require.NoError(t, m.Load(rows, employees, services))
		assert.Equal(t, 1, m.Len())
	})
}
