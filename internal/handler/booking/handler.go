package booking

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	cache "github.com/patrickmn/go-cache"

	"github.com/servly/booking-api/internal/apiclient"
	"github.com/servly/booking-api/internal/handler"
	"github.com/servly/booking-api/internal/model"
	"github.com/servly/booking-api/internal/store"
	"github.com/servly/booking-api/pkg/errors"
	"github.com/servly/booking-api/pkg/metrics"
)

// Handler serves booking CRUD and lifecycle endpoints. Mutations apply to
// the store first, then push to the backend when a client is configured;
// a backend failure is surfaced to the caller and reconciled by the next
// refresh cycle.
type Handler struct {
	store   *store.BookingStore
	client  *apiclient.Client
	cache   *cache.Cache
	metrics *metrics.Metrics
}

func NewHandler(s *store.BookingStore, client *apiclient.Client, c *cache.Cache, m *metrics.Metrics) *Handler {
	return &Handler{store: s, client: client, cache: c, metrics: m}
}

func (h *Handler) flushCache() {
	if h.cache != nil {
		h.cache.Flush()
	}
}

func (h *Handler) CreateBooking(c *gin.Context) {
	var req model.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	booking, err := h.store.CreateBooking(&req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	if h.client != nil {
		if _, err := h.client.CreateBooking(c.Request.Context(), booking); err != nil {
			handler.RespondError(c, err)
			return
		}
	}

	if h.metrics != nil {
		h.metrics.BookingsCreated.Inc()
	}
	h.flushCache()
	c.JSON(http.StatusCreated, gin.H{"status": "success", "data": booking})
}

func (h *Handler) GetBooking(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid booking ID"})
		return
	}

	booking, err := h.store.GetBooking(id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": booking})
}

func parseFilters(c *gin.Context) (model.BookingFilters, bool) {
	var filters model.BookingFilters

	if status := c.Query("status"); status != "" {
		s := model.BookingStatus(status)
		if !s.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid status filter"})
			return filters, false
		}
		filters.Status = s
	}

	if id := c.Query("employee_id"); id != "" {
		employeeID, err := uuid.Parse(id)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid employee ID"})
			return filters, false
		}
		filters.EmployeeID = &employeeID
	}

	return filters, true
}

func (h *Handler) ListBookings(c *gin.Context) {
	filters, ok := parseFilters(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": h.store.ListBookings(filters)})
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid booking ID"})
		return
	}

	var req model.UpdateBookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	booking, err := h.store.UpdateStatus(id, req.Status)
	if err != nil {
		if h.metrics != nil && errors.IsConflict(err) {
			h.metrics.TransitionsDenied.Inc()
		}
		handler.RespondError(c, err)
		return
	}

	if h.client != nil {
		if err := h.client.UpdateBooking(c.Request.Context(), booking); err != nil {
			handler.RespondError(c, err)
			return
		}
	}

	if h.metrics != nil {
		h.metrics.StatusTransitions.WithLabelValues(string(req.Status)).Inc()
	}
	h.flushCache()
	c.JSON(http.StatusOK, gin.H{"status": "success", "data": booking})
}

func (h *Handler) AssignEmployee(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid booking ID"})
		return
	}

	var req model.AssignBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	booking, err := h.store.AssignEmployee(id, req.EmployeeID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	if h.client != nil {
		if err := h.client.UpdateBooking(c.Request.Context(), booking); err != nil {
			handler.RespondError(c, err)
			return
		}
	}

	h.flushCache()
	c.JSON(http.StatusOK, gin.H{"status": "success", "data": booking})
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	bookings := r.Group("/bookings")
	{
		bookings.POST("", h.CreateBooking)
		bookings.GET("", h.ListBookings)
		bookings.GET("/:id", h.GetBooking)
		bookings.PATCH("/:id/status", h.UpdateStatus)
		bookings.PATCH("/:id/assign", h.AssignEmployee)
	}
}
