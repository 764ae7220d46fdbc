package api

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"alcyxob/fitclub/internal/service"
)

type WorkoutHandler struct {
	workoutService service.WorkoutService
}

func NewWorkoutHandler(workoutService service.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService}
}

type NotesRequest struct {
	Notes string `json:"notes"`
}

func (h *WorkoutHandler) Page(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	view, err := h.workoutService.Page(c.Request.Context(), user)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func dayParam(c *gin.Context) (int, bool) {
	day, err := strconv.Atoi(c.Param("day"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid day index")
		return 0, false
	}
	return day, true
}

func (h *WorkoutHandler) ToggleExercise(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	day, ok := dayParam(c)
	if !ok {
		return
	}
	update, err := h.workoutService.ToggleExercise(c.Request.Context(), user, day, c.Param("exerciseId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, update)
}

func (h *WorkoutHandler) SaveNotes(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	day, ok := dayParam(c)
	if !ok {
		return
	}
	var req NotesRequest
	if !bindJSON(c, &req) {
		return
	}
	update, err := h.workoutService.SaveNotes(c.Request.Context(), user, day, c.Param("exerciseId"), req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, update)
}

func (h *WorkoutHandler) ExportPDF(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := h.workoutService.ExportPDF(c.Request.Context(), user, &buf); err != nil {
		respondError(c, err)
		return
	}
	sendPDF(c, h.workoutService.PDFFileName(user), buf.Bytes())
}

func sendPDF(c *gin.Context, fileName string, body []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	c.Data(http.StatusOK, "application/pdf", body)
}
