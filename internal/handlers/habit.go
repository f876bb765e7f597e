package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yukikurage/study-tracker-api/internal/dto"
	apierrors "github.com/yukikurage/study-tracker-api/internal/errors"
	"github.com/yukikurage/study-tracker-api/internal/services"
)

// HabitHandler serves habit and completion endpoints.
type HabitHandler struct {
	habitService *services.HabitService
}

// NewHabitHandler creates a new HabitHandler.
func NewHabitHandler(habitService *services.HabitService) *HabitHandler {
	return &HabitHandler{
		habitService: habitService,
	}
}

// GetWeeklyReport returns the study's habits with this week's completions
func (h *HabitHandler) GetWeeklyReport(c *gin.Context) {
	studyID, ok := parseUUIDParam(c, "studyId", "study")
	if !ok {
		return
	}

	report, err := h.habitService.GetWeeklyReport(c.Request.Context(), studyID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToWeeklyReportDTO(*report))
}

// CreateHabits creates several habits at once
func (h *HabitHandler) CreateHabits(c *gin.Context) {
	studyID, ok := parseUUIDParam(c, "studyId", "study")
	if !ok {
		return
	}

	type HabitInput struct {
		Name string `json:"name" binding:"required"`
	}
	type CreateHabitsRequest struct {
		Habits []HabitInput `json:"habits" binding:"required,min=1,dive"`
	}

	var req CreateHabitsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	names := make([]string, len(req.Habits))
	for i, habit := range req.Habits {
		names[i] = habit.Name
	}

	habits, err := h.habitService.CreateHabits(c.Request.Context(), studyID, names)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToHabitListResponse(habits))
}

// UpdateHabits renames several habits at once
func (h *HabitHandler) UpdateHabits(c *gin.Context) {
	studyID, ok := parseUUIDParam(c, "studyId", "study")
	if !ok {
		return
	}

	type HabitInput struct {
		ID   uuid.UUID `json:"id" binding:"required"`
		Name string    `json:"name" binding:"required"`
	}
	type UpdateHabitsRequest struct {
		Habits []HabitInput `json:"habits" binding:"required,min=1,dive"`
	}

	var req UpdateHabitsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	renames := make([]services.HabitRename, len(req.Habits))
	for i, habit := range req.Habits {
		renames[i] = services.HabitRename{ID: habit.ID, Name: habit.Name}
	}

	habits, err := h.habitService.UpdateHabits(c.Request.Context(), studyID, renames)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToHabitListResponse(habits))
}

// DeleteHabits deletes several habits at once
func (h *HabitHandler) DeleteHabits(c *gin.Context) {
	studyID, ok := parseUUIDParam(c, "studyId", "study")
	if !ok {
		return
	}

	type DeleteHabitsRequest struct {
		IDs []uuid.UUID `json:"ids" binding:"required,min=1"`
	}

	var req DeleteHabitsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.habitService.DeleteHabits(c.Request.Context(), studyID, req.IDs); err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Habits deleted successfully",
	})
}

// DeleteHabit deletes a single habit
func (h *HabitHandler) DeleteHabit(c *gin.Context) {
	studyID, ok := parseUUIDParam(c, "studyId", "study")
	if !ok {
		return
	}
	habitID, ok := parseUUIDParam(c, "habitId", "habit")
	if !ok {
		return
	}

	if err := h.habitService.DeleteHabit(c.Request.Context(), studyID, habitID); err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Habit deleted successfully",
	})
}

// CompleteHabit marks a habit as done for today
func (h *HabitHandler) CompleteHabit(c *gin.Context) {
	studyID, ok := parseUUIDParam(c, "studyId", "study")
	if !ok {
		return
	}
	habitID, ok := parseUUIDParam(c, "habitId", "habit")
	if !ok {
		return
	}

	completion, err := h.habitService.CompleteHabit(c.Request.Context(), studyID, habitID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToCompletedHabitDTO(*completion))
}

// UncompleteHabit reverts today's completion of a habit
func (h *HabitHandler) UncompleteHabit(c *gin.Context) {
	studyID, ok := parseUUIDParam(c, "studyId", "study")
	if !ok {
		return
	}
	habitID, ok := parseUUIDParam(c, "habitId", "habit")
	if !ok {
		return
	}

	if err := h.habitService.DeleteCompletedHabit(c.Request.Context(), studyID, habitID); err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Completion reverted successfully",
	})
}

// SuggestHabits generates habit name suggestions using AI
func (h *HabitHandler) SuggestHabits(c *gin.Context) {
	studyID, ok := parseUUIDParam(c, "id", "study")
	if !ok {
		return
	}

	type SuggestHabitsRequest struct {
		Goal string `json:"goal" binding:"required,max=500"`
	}

	var req SuggestHabitsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	names, err := h.habitService.SuggestHabits(c.Request.Context(), studyID, req.Goal)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"habits": names,
	})
}
