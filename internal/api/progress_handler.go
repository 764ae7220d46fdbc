package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"alcyxob/fitclub/internal/service"
)

type ProgressHandler struct {
	progressService service.ProgressService
}

func NewProgressHandler(progressService service.ProgressService) *ProgressHandler {
	return &ProgressHandler{progressService: progressService}
}

// List reads ?range=7days|1month|all; empty means 1month.
func (h *ProgressHandler) List(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	report, err := h.progressService.List(c.Request.Context(), user, service.ProgressRange(c.Query("range")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *ProgressHandler) Add(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req service.ProgressInput
	if !bindJSON(c, &req) {
		return
	}
	entry, err := h.progressService.Add(c.Request.Context(), user, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}
