package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"alcyxob/fitclub/internal/domain"
	"alcyxob/fitclub/internal/generator"
	"alcyxob/fitclub/internal/identity"
	"alcyxob/fitclub/internal/repository"
	"alcyxob/fitclub/internal/service"
	"alcyxob/fitclub/internal/session"
)

// respondError maps service errors to HTTP responses. Anything unknown is a
// 500 with a generic message; details go to the request log.
func respondError(c *gin.Context, err error) {
	var sessionIssues *session.ValidationError
	var inputIssues *generator.ValidationError

	switch {
	case errors.As(err, &sessionIssues):
		abortWithIssues(c, sessionIssues.Issues)
	case errors.As(err, &inputIssues):
		abortWithIssues(c, inputIssues.Issues)
	case errors.Is(err, service.ErrNoSession):
		abortUnauthenticated(c, "Sign in to continue")
	case errors.Is(err, service.ErrPremiumRequired),
		errors.Is(err, service.ErrForbiddenObject):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrProfileIncomplete),
		errors.Is(err, service.ErrAnalysisRequired),
		errors.Is(err, service.ErrTrialUsed):
		abortWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrProgramNotFound),
		errors.Is(err, service.ErrResultNotFound),
		errors.Is(err, repository.ErrNotFound),
		errors.Is(err, domain.ErrDayOutOfRange),
		errors.Is(err, domain.ErrExerciseNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidPlan),
		errors.Is(err, identity.ErrWrongPassword),
		errors.Is(err, identity.ErrResetTokenInvalid),
		errors.Is(err, identity.ErrPasswordNotSet):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, identity.ErrWeakPassword):
		abortWithIssues(c, []string{err.Error()})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		abortWithError(c, http.StatusServiceUnavailable, "Request was cancelled")
	default:
		_ = c.Error(err)
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}

func abortWithIssues(c *gin.Context, issues []string) {
	msg := "Validation failed"
	if len(issues) > 0 {
		msg = issues[0]
	}
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": msg, "issues": issues})
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}
