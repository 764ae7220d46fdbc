package api

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	"alcyxob/fitclub/internal/domain"
	"alcyxob/fitclub/internal/service"
)

type DietHandler struct {
	dietService   service.DietService
	uploadService service.UploadService
}

func NewDietHandler(dietService service.DietService, uploadService service.UploadService) *DietHandler {
	return &DietHandler{dietService: dietService, uploadService: uploadService}
}

type DietAnalyzeRequest struct {
	ObjectKey string `json:"objectKey" binding:"required"`
}

func (h *DietHandler) Page(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	view, err := h.dietService.Page(c.Request.Context(), user)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Analyze checks entitlement before touching the uploaded object.
func (h *DietHandler) Analyze(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	if !user.HasPremiumAccess() {
		respondError(c, service.ErrPremiumRequired)
		return
	}
	var req DietAnalyzeRequest
	if !bindJSON(c, &req) {
		return
	}
	ctx := c.Request.Context()

	file, err := h.uploadService.Resolve(ctx, user, domain.UploadBloodTest, req.ObjectKey)
	if err != nil {
		respondError(c, err)
		return
	}
	outcome, err := h.dietService.Analyze(ctx, user, file)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, outcome)
}

func (h *DietHandler) Reset(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	view, err := h.dietService.Reset(c.Request.Context(), user)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *DietHandler) ExportPDF(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := h.dietService.ExportPDF(c.Request.Context(), user, &buf); err != nil {
		respondError(c, err)
		return
	}
	sendPDF(c, h.dietService.PDFFileName(user), buf.Bytes())
}
