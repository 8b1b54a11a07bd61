package apierror

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ContentTypeProblemJSON is the MIME type for RFC 9457 Problem Details.
const ContentTypeProblemJSON = "application/problem+json"

// WriteProblem writes a ProblemDetails response to the gin context.
// It sets the correct Content-Type header and, if RetryAfter is set,
// also sets the Retry-After header.
func WriteProblem(c *gin.Context, problem *ProblemDetails) {
	c.Header("Content-Type", ContentTypeProblemJSON)

	if problem.RetryAfter != nil {
		c.Header("Retry-After", strconv.Itoa(*problem.RetryAfter))
	}
	if problem.Instance == "" && c.Request != nil {
		problem.Instance = c.Request.URL.Path
	}

	c.AbortWithStatusJSON(problem.Status, problem)
}

// GetRequestID extracts the request ID from the gin context.
// Returns empty string if not found.
func GetRequestID(c *gin.Context) string {
	if requestID, exists := c.Get("request_id"); exists {
		if id, ok := requestID.(string); ok {
			return id
		}
	}
	if c.Request == nil {
		return ""
	}
	return c.GetHeader("X-Request-ID")
}

// NewValidationError creates a 400 Bad Request response for validation failures.
// Multiple field errors can be included to report all validation issues at once.
func NewValidationError(requestID string, errors []FieldError) *ProblemDetails {
	return &ProblemDetails{
		Type:        TypeValidation,
		Title:       TitleValidation,
		Status:      http.StatusBadRequest,
		Detail:      "One or more fields failed validation",
		RequestID:   requestID,
		UserMessage: "Please check your input and try again",
		Errors:      errors,
	}
}

// NewBadRequestError creates a 400 Bad Request response for malformed requests.
func NewBadRequestError(requestID, detail, userMessage string) *ProblemDetails {
	return &ProblemDetails{
		Type:        TypeBadRequest,
		Title:       TitleBadRequest,
		Status:      http.StatusBadRequest,
		Detail:      detail,
		RequestID:   requestID,
		UserMessage: userMessage,
	}
}

// NewInvalidDateError creates a 400 response for an unparseable date parameter.
func NewInvalidDateError(requestID, field, value string) *ProblemDetails {
	return &ProblemDetails{
		Type:        TypeInvalidDate,
		Title:       TitleInvalidDate,
		Status:      http.StatusBadRequest,
		Detail:      fmt.Sprintf("Invalid date for field '%s': '%s'", field, value),
		RequestID:   requestID,
		UserMessage: "Dates must look like 2024-01-31",
		Errors: []FieldError{
			{Field: field, Message: "must be YYYY-MM-DD or RFC 3339", Code: "invalid_date"},
		},
	}
}

// NewInvalidTimezoneError creates a 400 response for a malformed tz_offset.
func NewInvalidTimezoneError(requestID, field, value string) *ProblemDetails {
	return &ProblemDetails{
		Type:        TypeInvalidTimezone,
		Title:       TitleInvalidTimezone,
		Status:      http.StatusBadRequest,
		Detail:      fmt.Sprintf("Invalid timezone offset for field '%s': '%s'", field, value),
		RequestID:   requestID,
		UserMessage: "Timezone offsets must look like +02:00",
		Errors: []FieldError{
			{Field: field, Message: "must be +HH:MM or -HH:MM", Code: "invalid_timezone"},
		},
	}
}

// NewInvalidWindowError creates a 400 response for an inverted or oversized window.
func NewInvalidWindowError(requestID, detail string) *ProblemDetails {
	return &ProblemDetails{
		Type:        TypeInvalidWindow,
		Title:       TitleInvalidWindow,
		Status:      http.StatusBadRequest,
		Detail:      detail,
		RequestID:   requestID,
		UserMessage: "Please choose a shorter date range that starts before it ends",
	}
}

// NewSupersededError creates a 409 Conflict response for an analysis that
// finished after a newer one for the same user had already started.
func NewSupersededError(requestID string, generation uint64) *ProblemDetails {
	return &ProblemDetails{
		Type:        TypeSuperseded,
		Title:       TitleSuperseded,
		Status:      http.StatusConflict,
		Detail:      fmt.Sprintf("Analysis generation %d was superseded by a newer request", generation),
		RequestID:   requestID,
		UserMessage: "Your insights are being refreshed",
		Action:      "retry",
		Generation:  &generation,
	}
}

// NewRateLimitError creates a 429 Too Many Requests response.
// retryAfter specifies seconds until the client should retry.
func NewRateLimitError(requestID string, retryAfter int) *ProblemDetails {
	return &ProblemDetails{
		Type:        TypeRateLimit,
		Title:       TitleRateLimit,
		Status:      http.StatusTooManyRequests,
		Detail:      fmt.Sprintf("Rate limit exceeded. Please retry after %d seconds", retryAfter),
		RequestID:   requestID,
		UserMessage: "Too many requests. Please wait before trying again.",
		RetryAfter:  &retryAfter,
	}
}

// NewUnauthorizedError creates a 401 Unauthorized response.
func NewUnauthorizedError(requestID string) *ProblemDetails {
	return &ProblemDetails{
		Type:        TypeUnauthorized,
		Title:       TitleUnauthorized,
		Status:      http.StatusUnauthorized,
		Detail:      "Authentication is required to access this resource",
		RequestID:   requestID,
		UserMessage: "Please sign in to continue",
		Action:      "authenticate",
	}
}

// NewServiceUnavailableError creates a 503 Service Unavailable response.
// retryAfter specifies seconds until the client should retry.
func NewServiceUnavailableError(requestID string, retryAfter int) *ProblemDetails {
	return &ProblemDetails{
		Type:        TypeUnavailable,
		Title:       TitleUnavailable,
		Status:      http.StatusServiceUnavailable,
		Detail:      "The wellness log store is temporarily unavailable",
		RequestID:   requestID,
		UserMessage: "Service is temporarily unavailable. Please try again later.",
		RetryAfter:  &retryAfter,
	}
}

// NewInternalError creates a 500 Internal Server Error response.
// Internal error details are never exposed; log them server-side.
func NewInternalError(requestID string) *ProblemDetails {
	return &ProblemDetails{
		Type:        TypeInternal,
		Title:       TitleInternal,
		Status:      http.StatusInternalServerError,
		Detail:      "An unexpected error occurred",
		RequestID:   requestID,
		UserMessage: "Something went wrong. Please try again later.",
	}
}
