package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"alcyxob/fitclub/internal/service"
)

type MembershipHandler struct {
	membershipService service.MembershipService
}

func NewMembershipHandler(membershipService service.MembershipService) *MembershipHandler {
	return &MembershipHandler{membershipService: membershipService}
}

func (h *MembershipHandler) Dashboard(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	view, err := h.membershipService.Dashboard(c.Request.Context(), user)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *MembershipHandler) Page(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	view, err := h.membershipService.Page(c.Request.Context(), user)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Cancel signs the session out; the client follows the redirect.
func (h *MembershipHandler) Cancel(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	res, err := h.membershipService.Cancel(c.Request.Context(), user, c.GetString(ContextSessionIDKey))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":   res.Message,
		"endsAt":    res.EndsAt,
		"loggedOut": res.LoggedOut,
		"redirect":  LoginPath,
	})
}

func (h *MembershipHandler) ChangePlan(c *gin.Context) {
	var req service.PlanChange
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.membershipService.ChangePlan(c.Request.Context(), c.Param("userId"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
