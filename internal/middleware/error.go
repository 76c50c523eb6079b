package middleware

// ErrorResponse is the body written when a request fails outside a
// handler: panics, timeouts.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	TraceID string `json:"trace_id,omitempty"`
}
