package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"alcyxob/fitclub/internal/domain"
	"alcyxob/fitclub/internal/service"
	"alcyxob/fitclub/internal/session"
)

// Constants for context keys
const (
	ContextRequestIDKey = "requestID"
	ContextSessionKey   = "session"
	ContextSessionIDKey = "sessionID"
	ContextUserKey      = "user"

	RequestIDHeader = "X-Request-Id"
	LoginPath       = "/login"
)

// RequestID reuses the caller's X-Request-Id or assigns a new one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(ContextRequestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// RequestLogger writes one line per request.
func RequestLogger(log zerolog.Logger) gin.HandlerFunc {
	log = log.With().Str("component", "http").Logger()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		ev := log.Info()
		if status >= http.StatusInternalServerError {
			ev = log.Error()
		} else if status >= http.StatusBadRequest {
			ev = log.Warn()
		}
		if len(c.Errors) > 0 {
			ev = ev.Str("errors", c.Errors.String())
		}
		ev.Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", status).
			Int("bytes", c.Writer.Size()).
			Dur("duration", time.Since(start)).
			Str("request_id", c.GetString(ContextRequestIDKey)).
			Str("user_agent", c.Request.UserAgent()).
			Msg("request completed")
	}
}

// AuthMiddleware is the access gate. It resolves the token's session, waits
// for the session's first auth-state resolution and only lets the request
// through when a Session User is present.
func AuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthenticated(c, "Authorization header is missing")
			return
		}

		// Expecting "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			abortUnauthenticated(c, "Authorization header format must be Bearer {token}")
			return
		}

		claims, err := authService.ParseToken(parts[1])
		if err != nil {
			abortUnauthenticated(c, "Invalid or expired token")
			return
		}

		ctx := c.Request.Context()
		m, err := authService.Resolve(ctx, claims)
		if err != nil {
			abortUnauthenticated(c, "Session has ended")
			return
		}

		select {
		case <-m.Ready():
		case <-ctx.Done():
			abortWithError(c, http.StatusServiceUnavailable, "Session is not ready")
			return
		}

		user := m.Current()
		if user == nil || user.ID != claims.UserID {
			abortUnauthenticated(c, "Sign in to continue")
			return
		}
		m.Touch()

		c.Set(ContextSessionKey, m)
		c.Set(ContextSessionIDKey, m.ID())
		c.Set(ContextUserKey, user)
		c.Next()
	}
}

// Helper to return JSON error response and abort request
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}

func abortUnauthenticated(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": message, "redirect": LoginPath})
}

// RoleMiddleware checks the live Session User's role, so a role change
// applies without a new token. Must run AFTER AuthMiddleware.
func RoleMiddleware(allowedRoles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := getUserFromContext(c)
		if err != nil {
			abortWithError(c, http.StatusInternalServerError, "User not found in context")
			return
		}

		for _, allowedRole := range allowedRoles {
			if user.Role == allowedRole {
				c.Next()
				return
			}
		}
		abortWithError(c, http.StatusForbidden, fmt.Sprintf("Access denied: Role '%s' does not have permission", user.Role))
	}
}

func getUserFromContext(c *gin.Context) (*domain.User, error) {
	raw, exists := c.Get(ContextUserKey)
	if !exists {
		return nil, errors.New("user not found in context")
	}
	user, ok := raw.(*domain.User)
	if !ok || user == nil {
		return nil, errors.New("invalid user type in context")
	}
	return user, nil
}

func getSessionFromContext(c *gin.Context) (*session.Manager, error) {
	raw, exists := c.Get(ContextSessionKey)
	if !exists {
		return nil, errors.New("session not found in context")
	}
	m, ok := raw.(*session.Manager)
	if !ok {
		return nil, errors.New("invalid session type in context")
	}
	return m, nil
}

// currentUser reads the user the gate admitted; handlers behind the gate
// can rely on it.
func currentUser(c *gin.Context) (*domain.User, bool) {
	user, err := getUserFromContext(c)
	if err != nil {
		abortUnauthenticated(c, "Sign in to continue")
		return nil, false
	}
	return user, true
}
