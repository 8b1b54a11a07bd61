package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/JonnyWalker81/breathe/backend/internal/apierror"
	"github.com/JonnyWalker81/breathe/backend/internal/logger"
	"github.com/JonnyWalker81/breathe/backend/pkg/supabase"
)

// TokenVerifier resolves a bearer token to a user. *supabase.Client
// implements it.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (*supabase.User, error)
}

// Auth middleware to verify JWT tokens
func Auth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logger.FromContext(c.Request.Context())

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			log.Debug("authentication failed: missing authorization header")
			apierror.WriteProblem(c, apierror.NewUnauthorizedError(apierror.GetRequestID(c)))
			return
		}

		// Extract token from "Bearer <token>"
		scheme, token, ok := strings.Cut(authHeader, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			log.Debug("authentication failed: invalid authorization format")
			apierror.WriteProblem(c, apierror.NewUnauthorizedError(apierror.GetRequestID(c)))
			return
		}

		user, err := verifier.VerifyToken(c.Request.Context(), strings.TrimSpace(token))
		if err != nil {
			if supabase.IsTemporary(err) {
				log.Error("authentication unavailable", logger.Err(err))
				apierror.WriteProblem(c, apierror.NewServiceUnavailableError(apierror.GetRequestID(c), 30))
				return
			}
			log.Warn("authentication failed: token verification error", logger.Err(err))
			apierror.WriteProblem(c, apierror.NewUnauthorizedError(apierror.GetRequestID(c)))
			return
		}

		c.Set("user_id", user.ID)
		c.Set("user_email", user.Email)

		// Add user ID to request context for logging
		ctx := logger.WithUserID(c.Request.Context(), user.ID)
		c.Request = c.Request.WithContext(ctx)

		log.Debug("authentication successful", logger.String("user_id", user.ID))

		c.Next()
	}
}

// UserID returns the authenticated user's ID set by Auth
func UserID(c *gin.Context) string {
	return c.GetString("user_id")
}
