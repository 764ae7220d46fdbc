package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"alcyxob/fitclub/internal/domain"
	"alcyxob/fitclub/internal/service"
)

type ProfileHandler struct {
	profileService service.ProfileService
}

func NewProfileHandler(profileService service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

func (h *ProfileHandler) Me(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	m, err := getSessionFromContext(c)
	if err != nil {
		abortUnauthenticated(c, "Sign in to continue")
		return
	}
	var req domain.ProfileUpdate
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.profileService.Update(c.Request.Context(), m, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile updated", "user": user})
}

func (h *ProfileHandler) ChangePassword(c *gin.Context) {
	m, err := getSessionFromContext(c)
	if err != nil {
		abortUnauthenticated(c, "Sign in to continue")
		return
	}
	var req service.PasswordChange
	if !bindJSON(c, &req) {
		return
	}

	if err := h.profileService.ChangePassword(c.Request.Context(), m, req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password changed"})
}
