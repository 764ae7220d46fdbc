package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"alcyxob/fitclub/internal/domain"
	"alcyxob/fitclub/internal/generator"
	"alcyxob/fitclub/internal/service"
)

const DeviceIDHeader = "X-Device-Id"

type FreemiumHandler struct {
	freemiumService service.FreemiumService
}

func NewFreemiumHandler(freemiumService service.FreemiumService) *FreemiumHandler {
	return &FreemiumHandler{freemiumService: freemiumService}
}

type BMIRequest struct {
	HeightCm float64 `json:"heightCm"`
	WeightKg float64 `json:"weightKg"`
}

func (h *FreemiumHandler) BMI(c *gin.Context) {
	var req BMIRequest
	if !bindJSON(c, &req) {
		return
	}
	preview, err := h.freemiumService.BMI(req.HeightCm, req.WeightKg)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, preview)
}

// Status reports whether the device has used its free analysis.
func (h *FreemiumHandler) Status(c *gin.Context) {
	used, err := h.freemiumService.Status(c.Request.Context(), c.GetHeader(DeviceIDHeader))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"used": used})
}

// Analyze takes a multipart form: heightCm, weightKg and a "photo" file.
// The device is identified by the X-Device-Id header. Only the photo's
// declared type and size are used.
func (h *FreemiumHandler) Analyze(c *gin.Context) {
	// Unparseable numbers stay 0 and fail validation.
	height, _ := strconv.ParseFloat(c.PostForm("heightCm"), 64)
	weight, _ := strconv.ParseFloat(c.PostForm("weightKg"), 64)
	in := generator.FreemiumInput{HeightCm: height, WeightKg: weight}
	if fh, err := c.FormFile("photo"); err == nil {
		in.Photo = domain.FileInfo{
			FileName:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
		}
	}

	res, err := h.freemiumService.Analyze(c.Request.Context(), c.GetHeader(DeviceIDHeader), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
