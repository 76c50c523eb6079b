// Package apiclient talks to the existing business-management backend. It
// is the only place the backend's wire shapes and status codes are known;
// everything it returns is a domain type or a typed error.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/servly/booking-api/internal/model"
	"github.com/servly/booking-api/pkg/errors"
)

type Config struct {
	BaseURL string
	OrgID   string
	Timeout time.Duration
}

type Client struct {
	baseURL string
	orgID   string
	http    *http.Client
}

func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: cfg.BaseURL,
		orgID:   cfg.OrgID,
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) (int, error) {
	u, err := url.JoinPath(c.baseURL, path)
	if err != nil {
		return 0, errors.Internal(fmt.Errorf("invalid request path: %w", err))
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, errors.Internal(fmt.Errorf("failed to encode request: %w", err))
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return 0, errors.Internal(fmt.Errorf("failed to build request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.orgID != "" {
		q := req.URL.Query()
		q.Set("org_id", c.orgID)
		req.URL.RawQuery = q.Encode()
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, errors.Internal(fmt.Errorf("backend request failed: %w", err))
	}
	defer resp.Body.Close()

	if err := statusError(resp); err != nil {
		return resp.StatusCode, err
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return resp.StatusCode, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, errors.Internal(fmt.Errorf("failed to decode backend response: %w", err))
	}
	return resp.StatusCode, nil
}

// statusError maps non-2xx backend responses to the typed error taxonomy.
func statusError(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	err := fmt.Errorf("backend returned %d: %s", resp.StatusCode, bytes.TrimSpace(detail))

	switch resp.StatusCode {
	case http.StatusNotFound:
		return errors.NotFound("resource", err)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return errors.Validation("backend rejected request", err)
	case http.StatusConflict:
		return errors.Conflict("backend reported a conflict", err)
	default:
		return errors.Internal(err)
	}
}

// ListBookings fetches every booking for the org. Bookings with malformed
// ids fail the load; malformed timestamps survive as nil times.
func (c *Client) ListBookings(ctx context.Context) ([]*model.Booking, error) {
	var wires []*model.BookingWire
	if _, err := c.do(ctx, http.MethodGet, "/bookings", nil, &wires); err != nil {
		return nil, err
	}
	bookings := make([]*model.Booking, 0, len(wires))
	for _, w := range wires {
		b, err := model.BookingFromWire(w)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, nil
}

func (c *Client) ListEmployees(ctx context.Context) ([]*model.Employee, error) {
	var employees []*model.Employee
	if _, err := c.do(ctx, http.MethodGet, "/employees", nil, &employees); err != nil {
		return nil, err
	}
	return employees, nil
}

func (c *Client) ListServices(ctx context.Context) ([]*model.Service, error) {
	var services []*model.Service
	if _, err := c.do(ctx, http.MethodGet, "/services", nil, &services); err != nil {
		return nil, err
	}
	return services, nil
}

// ListEligibility returns the raw relation rows; the matrix validates them
// against the employee and service collections on load.
func (c *Client) ListEligibility(ctx context.Context) ([]*model.EmployeeServiceRow, error) {
	var rows []*model.EmployeeServiceRow
	if _, err := c.do(ctx, http.MethodGet, "/employee-services", nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// CreateBooking posts a new booking and returns the backend's copy.
func (c *Client) CreateBooking(ctx context.Context, b *model.Booking) (*model.Booking, error) {
	var wire model.BookingWire
	if _, err := c.do(ctx, http.MethodPost, "/bookings", model.BookingToWire(b), &wire); err != nil {
		return nil, err
	}
	return model.BookingFromWire(&wire)
}

// UpdateBooking patches an existing booking with its full current state.
func (c *Client) UpdateBooking(ctx context.Context, b *model.Booking) error {
	path := fmt.Sprintf("/bookings/%s", b.ID)
	_, err := c.do(ctx, http.MethodPatch, path, model.BookingToWire(b), nil)
	return err
}

type grantPayload struct {
	EmployeeID string `json:"employee_id"`
	ServiceID  string `json:"service_id"`
}

// Grant creates an eligibility link on the backend. A 409 means another
// session won the race to create the same link; that is folded into
// idempotent success per the at-most-one-link contract.
func (c *Client) Grant(ctx context.Context, employeeID, serviceID uuid.UUID) (*model.EmployeeServiceRow, error) {
	payload := grantPayload{EmployeeID: employeeID.String(), ServiceID: serviceID.String()}
	var row model.EmployeeServiceRow
	_, err := c.do(ctx, http.MethodPost, "/employee-services", payload, &row)
	if errors.IsConflict(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// Revoke deletes an eligibility link by id. The backend contract is a 204;
// any other success status means the delete did something unexpected and
// is surfaced as a failure.
func (c *Client) Revoke(ctx context.Context, linkID uuid.UUID) error {
	path := fmt.Sprintf("/employee-services/%s", linkID)
	status, err := c.do(ctx, http.MethodDelete, path, nil, nil)
	if err != nil {
		return err
	}
	if status != http.StatusNoContent {
		return errors.Internal(fmt.Errorf("backend answered %d to link delete, want 204", status))
	}
	return nil
}
