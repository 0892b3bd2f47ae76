// Package response renders the JSON error envelope used by infrastructure
// and middleware failures. Domain handlers that must reproduce the legacy
// client contract (plain-text signup errors, the signin body) write their
// responses directly and never come through here.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Envelope is the error wire format: {"success":false,"error":{...}}.
// Success payloads are written by handlers as bare JSON, so Success here
// only ever serializes to false.
type Envelope struct {
	Success bool       `json:"success"`
	Error   *ErrorBody `json:"error"`
}

// ErrorBody carries a stable machine code plus a human message. Details is
// only populated for 500s, where the underlying error aids debugging.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// Error writes the envelope with the given status and error fields.
func Error(c *gin.Context, status int, code, message string, details string) {
	c.JSON(status, Envelope{
		Error: &ErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

func InternalError(c *gin.Context, err error) {
	Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal Server Error", err.Error())
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, "BAD_REQUEST", message, "")
}

func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, "NOT_FOUND", message, "")
}

func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, "UNAUTHORIZED", message, "")
}
