// Package response writes the JSON envelopes of the HTTP API.
package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/brave-warrior/routecache/internal/domain"
)

// ErrorBody is the error envelope.
type ErrorBody struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code"`
}

// Success writes data with 200 OK.
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

// Created writes data with 201 Created.
func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": data})
}

// BadRequest writes a 400 with message.
func BadRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorBody{Error: message, Code: "bad_request"})
}

// Error maps err to a status code and writes it. Errors outside the domain
// error types are reported as 500 without their text.
func Error(c *gin.Context, err error) {
	status, code := StatusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal server error"
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, ErrorBody{Error: message, Code: code})
}

// StatusFor returns the HTTP status and error code for err.
func StatusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, "validation_failed"
	case errors.Is(err, domain.ErrUpstream):
		return http.StatusBadGateway, "upstream_failed"
	case errors.Is(err, domain.ErrStorage):
		return http.StatusInternalServerError, "storage_failed"
	default:
		return http.StatusInternalServerError, "internal"
	}
}
