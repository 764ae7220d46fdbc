package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"alcyxob/fitclub/internal/service"
)

type UploadHandler struct {
	uploadService service.UploadService
}

func NewUploadHandler(uploadService service.UploadService) *UploadHandler {
	return &UploadHandler{uploadService: uploadService}
}

// CreateUpload returns a presigned PUT URL. The client uploads directly to
// object storage and then passes the object key to the analysis endpoint.
func (h *UploadHandler) CreateUpload(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req service.UploadRequest
	if !bindJSON(c, &req) {
		return
	}
	ticket, err := h.uploadService.CreateUpload(c.Request.Context(), user, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ticket)
}
