package schedule

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	cache "github.com/patrickmn/go-cache"

	"github.com/servly/booking-api/internal/model"
	"github.com/servly/booking-api/internal/store"
	"github.com/servly/booking-api/pkg/metrics"
)

// Handler serves the derived schedule projections. Day views are cached
// briefly; booking mutations flush the shared cache.
type Handler struct {
	store   *store.BookingStore
	cache   *cache.Cache
	metrics *metrics.Metrics
}

func NewHandler(s *store.BookingStore, c *cache.Cache, m *metrics.Metrics) *Handler {
	return &Handler{store: s, cache: c, metrics: m}
}

func cacheKey(f model.BookingFilters) string {
	employee := ""
	if f.EmployeeID != nil {
		employee = f.EmployeeID.String()
	}
	return fmt.Sprintf("day:%s:%s", f.Status, employee)
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

// DayView returns bookings grouped by calendar date, unknown dates last.
func (h *Handler) DayView(c *gin.Context) {
	filters, ok := parseFilters(c)
	if !ok {
		return
	}

	key := cacheKey(filters)
	if h.cache != nil {
		if cached, found := h.cache.Get(key); found {
			if h.metrics != nil {
				h.metrics.ScheduleCacheHits.Inc()
			}
			c.JSON(http.StatusOK, gin.H{"status": "success", "data": cached})
			return
		}
	}

	started := time.Now()
	groups := h.store.Schedule(filters)
	if h.metrics != nil {
		h.metrics.ScheduleBuilds.Inc()
		h.metrics.ScheduleBuildLatency.Observe(time.Since(started).Seconds())
	}

	if h.cache != nil {
		h.cache.Set(key, groups, cache.DefaultExpiration)
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "data": groups})
}

// ListView returns the flat list view, ascending by start time with
// missing start times first.
func (h *Handler) ListView(c *gin.Context) {
	filters, ok := parseFilters(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": h.store.ListByStart(filters)})
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	group := r.Group("/schedule")
	{
		group.GET("", h.DayView)
		group.GET("/list", h.ListView)
	}
}
