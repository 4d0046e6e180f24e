package ginscope

import (
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kbukum/scopekit/validation"
)

// HeaderRequestID carries the request identifier in both directions.
const HeaderRequestID = "X-Request-Id"

const maxRequestIDLength = 128

var requestIDPattern = regexp.MustCompile(`^[A-Za-z0-9._:-]+$`)

// RequestID identifies the request a scope serves. It is registered in
// every request scope.
type RequestID string

// String returns the identifier.
func (id RequestID) String() string { return string(id) }

// requestID reuses the inbound header when it is well formed and
// generates a uuid otherwise.
func requestID(c *gin.Context) RequestID {
	id := c.GetHeader(HeaderRequestID)
	v := validation.New().
		Required("request_id", id).
		MaxLength("request_id", id, maxRequestIDLength).
		Pattern("request_id", id, requestIDPattern)
	if v.HasErrors() {
		id = uuid.New().String()
	}
	return RequestID(id)
}
