package handlers

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/JonnyWalker81/breathe/backend/internal/apierror"
	"github.com/JonnyWalker81/breathe/backend/internal/logger"
	"github.com/JonnyWalker81/breathe/backend/internal/service"
)

// storeRetryAfter is the Retry-After hint, in seconds, sent when the log
// store is temporarily unavailable
const storeRetryAfter = 5

// writeServiceError maps a service error onto a problem details response
func writeServiceError(c *gin.Context, err error) {
	requestID := apierror.GetRequestID(c)
	log := logger.Ctx(c.Request.Context())

	var paramErr *service.ParamError
	var superseded *service.SupersededError
	var fetchErr *service.FetchError

	switch {
	case errors.As(err, &paramErr):
		if paramErr.Kind == service.ParamTimezone {
			apierror.WriteProblem(c, apierror.NewInvalidTimezoneError(requestID, paramErr.Field, paramErr.Value))
			return
		}
		apierror.WriteProblem(c, apierror.NewInvalidDateError(requestID, paramErr.Field, paramErr.Value))

	case errors.Is(err, service.ErrInvalidWindow):
		apierror.WriteProblem(c, apierror.NewInvalidWindowError(requestID, err.Error()))

	case errors.As(err, &superseded):
		apierror.WriteProblem(c, apierror.NewSupersededError(requestID, superseded.Latest))

	case errors.As(err, &fetchErr) && fetchErr.Temporary():
		log.Warn("log store unavailable", logger.Err(err))
		apierror.WriteProblem(c, apierror.NewServiceUnavailableError(requestID, storeRetryAfter))

	case errors.Is(err, context.Canceled):
		log.Debug("request canceled by client", logger.Err(err))
		apierror.WriteProblem(c, apierror.NewInternalError(requestID))

	default:
		log.Error("analysis failed", logger.Err(err))
		apierror.WriteProblem(c, apierror.NewInternalError(requestID))
	}
}
