package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"invex/internal/domain"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

// APIError holds error details in the response. Detail carries technical
// context when it is safe to expose, e.g. the upstream failure reason.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	switch {
	case errors.Is(err, domain.ErrEmptyDocument):
		return http.StatusBadRequest, "EMPTY_DOCUMENT", "uploaded document is empty"
	case errors.Is(err, domain.ErrUnsupportedFileType):
		return http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE", "unsupported file type; expected a PDF document"
	case errors.Is(err, domain.ErrServiceMisconfigured):
		return http.StatusInternalServerError, "SERVICE_MISCONFIGURED", "document analysis service is not configured"
	case errors.Is(err, domain.ErrAnalysisTimeout):
		return http.StatusGatewayTimeout, "UPSTREAM_TIMEOUT", "document analysis did not complete in time"
	case errors.Is(err, domain.ErrUpstreamAnalysis):
		return http.StatusBadGateway, "UPSTREAM_ERROR", "document analysis service failed to process the document"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// HandleError maps a domain error and sends the appropriate error response.
// Upstream failures carry their detail; internal errors stay generic.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status >= 500 {
		requestID, _ := c.Get("request_id")
		log.Printf("[%s] %s: %v", requestID, code, err)
	}

	apiErr := &APIError{Code: code, Message: msg}
	if errors.Is(err, domain.ErrUpstreamAnalysis) || errors.Is(err, domain.ErrAnalysisTimeout) {
		apiErr.Detail = err.Error()
	}
	c.JSON(status, APIResponse{Success: false, Error: apiErr})
}
