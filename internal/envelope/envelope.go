// Package envelope defines the uniform JSON response wrapper every endpoint
// returns: {route, timestamp, success, data, message, status}. Handlers never
// shape response bodies by hand; they build one of these and call Write.
package envelope

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type Envelope struct {
	Route     string    `json:"route"`
	Timestamp time.Time `json:"timestamp"`
	Success   bool      `json:"success"`
	Data      any       `json:"data"`
	Message   string    `json:"message"`
	Status    int       `json:"status"`
}

// New builds an envelope. Statuses below 400 count as success. A nil data
// payload is rendered as an empty object rather than JSON null.
func New(status int, data any, message string) *Envelope {
	if data == nil {
		data = gin.H{}
	}
	return &Envelope{
		Timestamp: time.Now().UTC(),
		Success:   status < http.StatusBadRequest,
		Data:      data,
		Message:   message,
		Status:    status,
	}
}

func Ok(data any, message string) *Envelope {
	return New(http.StatusOK, data, message)
}

func Created(data any, message string) *Envelope {
	return New(http.StatusCreated, data, message)
}

func BadRequest(message string) *Envelope {
	return New(http.StatusBadRequest, nil, message)
}

func Unauthorized(message string) *Envelope {
	return New(http.StatusUnauthorized, nil, message)
}

func Forbidden(message string) *Envelope {
	return New(http.StatusForbidden, nil, message)
}

func NotFound(message string) *Envelope {
	return New(http.StatusNotFound, nil, message)
}

func Conflict(message string) *Envelope {
	return New(http.StatusConflict, nil, message)
}

func MethodNotAllowed() *Envelope {
	return New(http.StatusMethodNotAllowed, nil, "method not supported on this route")
}

func TooManyRequests() *Envelope {
	return New(http.StatusTooManyRequests, nil, "rate limit exceeded")
}

// Internal hides the underlying failure from the caller; the detail is logged
// server-side before this is built.
func Internal() *Envelope {
	return New(http.StatusInternalServerError, nil, "something went wrong, please try again later")
}

// Write stamps the originating route and renders the envelope with its own
// status code. It does not abort the chain; middleware callers abort themselves.
func (e *Envelope) Write(c *gin.Context) {
	e.Route = c.FullPath()
	if e.Route == "" {
		e.Route = c.Request.URL.Path
	}
	c.JSON(e.Status, e)
}
