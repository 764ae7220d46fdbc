package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"alcyxob/fitclub/internal/domain"
	"alcyxob/fitclub/internal/generator"
	"alcyxob/fitclub/internal/service"
)

type AnalysisHandler struct {
	analysisService service.AnalysisService
	uploadService   service.UploadService
}

func NewAnalysisHandler(analysisService service.AnalysisService, uploadService service.UploadService) *AnalysisHandler {
	return &AnalysisHandler{analysisService: analysisService, uploadService: uploadService}
}

// StagePhotoRequest points at a photo uploaded through POST /uploads.
type StagePhotoRequest struct {
	Angle     domain.PhotoAngle `json:"angle" binding:"required"`
	ObjectKey string            `json:"objectKey" binding:"required"`
}

func (h *AnalysisHandler) Page(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	view, err := h.analysisService.Page(c.Request.Context(), user)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// StagePhoto checks one angle. A rejected photo is a 422 that also carries
// the per-photo check so the client can show which angle failed.
func (h *AnalysisHandler) StagePhoto(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req StagePhotoRequest
	if !bindJSON(c, &req) {
		return
	}
	ctx := c.Request.Context()

	file, err := h.uploadService.Resolve(ctx, user, domain.UploadBodyPhoto, req.ObjectKey)
	if err != nil {
		respondError(c, err)
		return
	}
	check, err := h.analysisService.StagePhoto(ctx, user, req.Angle, file)
	if err != nil {
		var issues *generator.ValidationError
		if errors.As(err, &issues) && check != nil {
			c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{
				"error":  issues.Error(),
				"issues": issues.Issues,
				"check":  check,
			})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, check)
}

func (h *AnalysisHandler) Analyze(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	outcome, err := h.analysisService.Analyze(c.Request.Context(), user)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, outcome)
}

func (h *AnalysisHandler) Reset(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	view, err := h.analysisService.Reset(c.Request.Context(), user)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
