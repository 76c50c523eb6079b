package eligibility

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/servly/booking-api/internal/apiclient"
	"github.com/servly/booking-api/internal/handler"
	"github.com/servly/booking-api/internal/model"
	"github.com/servly/booking-api/internal/store"
	"github.com/servly/booking-api/pkg/errors"
	"github.com/servly/booking-api/pkg/metrics"
)

// Handler serves the employee-to-service eligibility endpoints.
type Handler struct {
	store   *store.BookingStore
	client  *apiclient.Client
	metrics *metrics.Metrics
}

func NewHandler(s *store.BookingStore, client *apiclient.Client, m *metrics.Metrics) *Handler {
	return &Handler{store: s, client: client, metrics: m}
}

func (h *Handler) Grant(c *gin.Context) {
	var req model.GrantEligibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	link, created, err := h.store.Grant(req.EmployeeID, req.ServiceID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	if created && h.client != nil {
		row, err := h.client.Grant(c.Request.Context(), req.EmployeeID, req.ServiceID)
		if err != nil {
			handler.RespondError(c, err)
			return
		}
		// The backend assigns its own link id; keep that one so a later
		// revoke deletes the row the backend knows about. A nil row means
		// the backend already had the link.
		if row != nil {
			backendLink, err := model.LinkFromRow(row)
			if err != nil {
				handler.RespondError(c, err)
				return
			}
			if adopted, ok := h.store.AdoptLink(req.EmployeeID, req.ServiceID, backendLink.ID); ok {
				link = adopted
			}
		}
	}

	if h.metrics != nil {
		outcome := "noop"
		if created {
			outcome = "created"
		}
		h.metrics.EligibilityGrants.WithLabelValues(outcome).Inc()
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"status": "success", "data": link})
}

func (h *Handler) Revoke(c *gin.Context) {
	employeeID, err := uuid.Parse(c.Query("employee_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid employee ID"})
		return
	}
	serviceID, err := uuid.Parse(c.Query("service_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid service ID"})
		return
	}

	// Delete remotely first: the link only leaves the matrix once the
	// backend no longer has it, otherwise the next refresh would resurrect
	// a locally-revoked pair. A remote 404 means the link is already gone
	// there; fall through to the local removal.
	link, exists := h.store.LinkFor(employeeID, serviceID)
	if exists && h.client != nil {
		if err := h.client.Revoke(c.Request.Context(), link.ID); err != nil && !errors.IsNotFound(err) {
			handler.RespondError(c, err)
			return
		}
	}

	_, removed := h.store.Revoke(employeeID, serviceID)

	if h.metrics != nil {
		outcome := "noop"
		if removed {
			outcome = "removed"
		}
		h.metrics.EligibilityRevokes.WithLabelValues(outcome).Inc()
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) ListEmployeeServices(c *gin.Context) {
	employeeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid employee ID"})
		return
	}

	services, err := h.store.ServicesFor(employeeID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": services})
}

func (h *Handler) ListServiceEmployees(c *gin.Context) {
	serviceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid service ID"})
		return
	}

	employees, err := h.store.EligibleEmployees(serviceID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": employees})
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/eligibility", h.Grant)
	r.DELETE("/eligibility", h.Revoke)
	r.GET("/employees/:id/eligibility", h.ListEmployeeServices)
	r.GET("/services/:id/employees", h.ListServiceEmployees)
}
