package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"alcyxob/fitclub/internal/access"
	"alcyxob/fitclub/internal/service"
)

const (
	defaultQRSize = 256
	maxQRSize     = 1024
)

type AccessHandler struct {
	accessService service.AccessService
}

func NewAccessHandler(accessService service.AccessService) *AccessHandler {
	return &AccessHandler{accessService: accessService}
}

type ScanRequest struct {
	Payload string `json:"payload"`
}

// QRImage renders the member's entry code as PNG; ?size= is clamped.
func (h *AccessHandler) QRImage(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	size := defaultQRSize
	if raw := c.Query("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 64 {
			abortWithError(c, http.StatusBadRequest, "Invalid size")
			return
		}
		size = min(n, maxQRSize)
	}
	png, err := h.accessService.PNG(c.Request.Context(), user, size)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", png)
}

func (h *AccessHandler) QRPayload(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	code, err := h.accessService.Payload(c.Request.Context(), user)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, code)
}

// Scan accepts either a multipart "image" of the code or the decoded text
// as JSON. The verdict is always 200; Allowed tells the two apart.
func (h *AccessHandler) Scan(c *gin.Context) {
	ctx := c.Request.Context()
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fh, err := c.FormFile("image")
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Image file is required")
			return
		}
		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusOK, access.ScanResult{Message: access.MsgUnreadable})
			return
		}
		defer f.Close()
		c.JSON(http.StatusOK, h.accessService.ScanImage(ctx, f))
		return
	}

	var req ScanRequest
	if !bindJSON(c, &req) {
		return
	}
	c.JSON(http.StatusOK, h.accessService.Scan(ctx, req.Payload))
}
