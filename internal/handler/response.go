package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/servly/booking-api/pkg/errors"
)

type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Status: "success",
		Data:   data,
	}
}

func NewErrorResponse(message string) *Response {
	return &Response{
		Status:  "error",
		Message: message,
	}
}

// RespondError writes a typed error with the status its code maps to. The
// error is also recorded on the context so the request log carries it.
func RespondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	if appErr, ok := err.(*errors.AppError); ok {
		status = appErr.StatusCode()
	}
	_ = c.Error(err)
	c.JSON(status, NewErrorResponse(err.Error()))
}
