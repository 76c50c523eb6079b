package worker

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/servly/booking-api/internal/apiclient"
	"github.com/servly/booking-api/internal/model"
	"github.com/servly/booking-api/internal/store"
	"github.com/servly/booking-api/pkg/logger"
	"github.com/servly/booking-api/pkg/metrics"
)

var testMetrics = metrics.NewMetrics("booking", "refreshertest")

func backendFixture(t *testing.T) *httptest.Server {
	t.Helper()

	employeeID := uuid.New()
	serviceID := uuid.New()

	mux := http.NewServeMux()
	mux.HandleFunc("/bookings", func(w http.ResponseWriter, r *http.Request) {
		payload := []map[string]string{{
			"id":           uuid.NewString(),
			"customerName": "Dana",
			"serviceName":  "Haircut",
			"startTime":    "2025-03-02T09:00",
			"endTime":      "2025-03-02T10:00",
			"status":       "confirmed",
		}}
		require.NoError(t, json.NewEncoder(w).Encode(payload))
	})
	mux.HandleFunc("/employees", func(w http.ResponseWriter, r *http.Request) {
		payload := []*model.Employee{{ID: employeeID, Name: "Alice", Active: true}}
		require.NoError(t, json.NewEncoder(w).Encode(payload))
	})
	mux.HandleFunc("/services", func(w http.ResponseWriter, r *http.Request) {
		payload := []*model.Service{{ID: serviceID, Name: "Haircut", Active: true}}
		require.NoError(t, json.NewEncoder(w).Encode(payload))
	})
	mux.HandleFunc("/employee-services", func(w http.ResponseWriter, r *http.Request) {
		payload := []*model.EmployeeServiceRow{{
			ID:         uuid.NewString(),
			OrgID:      "org-1",
			EmployeeID: employeeID.String(),
			ServiceID:  serviceID.String(),
		}}
		require.NoError(t, json.NewEncoder(w).Encode(payload))
	})
	return httptest.NewServer(mux)
}

func TestRefreshLoadsAllCollections(t *testing.T) {
	srv := backendFixture(t)
	defer srv.Close()

	client := apiclient.New(apiclient.Config{BaseURL: srv.URL, Timeout: 2 * time.Second})
	s := store.New(store.Config{}, nil, nil)
	r := NewRefresher(client, s, RefresherConfig{Interval: time.Minute}, logger.NewLogger(nil), testMetrics)

	require.NoError(t, r.Refresh(context.Background()))

	bookings := s.ListBookings(model.BookingFilters{})
	require.Len(t, bookings, 1)
	assert.Equal(t, model.BookingStatusConfirmed, bookings[0].Status)

	groups := s.Schedule(model.BookingFilters{})
	require.Len(t, groups, 1)
	assert.Equal(t, "2025-03-02", groups[0].Date)
}

func TestRefreshFailureKeepsPreviousState(t *testing.T) {
	srv := backendFixture(t)

	client := apiclient.New(apiclient.Config{BaseURL: srv.URL, Timeout: time.Second})
	s := store.New(store.Config{}, nil, nil)
	r := NewRefresher(client, s, RefresherConfig{Interval: time.Minute}, logger.NewLogger(nil), testMetrics)

	require.NoError(t, r.Refresh(context.Background()))
	srv.Close()

	err := r.Refresh(context.Background())
	require.Error(t, err)
	assert.Len(t, s.ListBookings(model.BookingFilters{}), 1)
}

func TestNewRefresherRejectsBadInterval(t *testing.T) {
	assert.Panics(t, func() {
		NewRefresher(nil, nil, RefresherConfig{}, logger.NewLogger(nil), testMetrics)
	})
}
