package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yukikurage/study-tracker-api/internal/dto"
	apierrors "github.com/yukikurage/study-tracker-api/internal/errors"
	"github.com/yukikurage/study-tracker-api/internal/services"
)

type PointHandler struct {
	pointService *services.PointService
}

func NewPointHandler(pointService *services.PointService) *PointHandler {
	return &PointHandler{
		pointService: pointService,
	}
}

// AddPoints adds focus points to a study
func (h *PointHandler) AddPoints(c *gin.Context) {
	type AddPointsRequest struct {
		StudyID uuid.UUID `json:"studyId" binding:"required"`
		Points  *int64    `json:"points" binding:"required,min=0"`
	}

	var req AddPointsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	focus, err := h.pointService.AddPoints(c.Request.Context(), req.StudyID, *req.Points)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToFocusDTO(*focus))
}
