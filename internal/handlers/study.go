package handlers

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yukikurage/study-tracker-api/internal/dto"
	apierrors "github.com/yukikurage/study-tracker-api/internal/errors"
	"github.com/yukikurage/study-tracker-api/internal/middleware"
	"github.com/yukikurage/study-tracker-api/internal/models"
	"github.com/yukikurage/study-tracker-api/internal/services"
	"github.com/yukikurage/study-tracker-api/internal/utils"
)

// StudyHandler serves study endpoints.
type StudyHandler struct {
	studyService *services.StudyService
}

// NewStudyHandler creates a new StudyHandler.
func NewStudyHandler(studyService *services.StudyService) *StudyHandler {
	return &StudyHandler{
		studyService: studyService,
	}
}

// CreateStudy creates a study protected by a password
func (h *StudyHandler) CreateStudy(c *gin.Context) {
	type CreateStudyRequest struct {
		Name       string `json:"name" binding:"required,max=255"`
		Nickname   string `json:"nickname" binding:"required,max=255"`
		Intro      string `json:"intro"`
		Background string `json:"background" binding:"max=255"`
		Password   string `json:"password" binding:"required"`
	}

	var req CreateStudyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	study, err := h.studyService.CreateStudy(c.Request.Context(), services.CreateStudyInput{
		Name:       req.Name,
		Nickname:   req.Nickname,
		Intro:      req.Intro,
		Background: req.Background,
		Password:   req.Password,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToStudyDTO(*study))
}

// ListStudies returns a page of studies
// Supports orderBy=createdAt|points and order=asc|desc
func (h *StudyHandler) ListStudies(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	studies, total, err := h.studyService.ListStudies(c.Request.Context(), services.ListStudiesInput{
		Page:    params.Page,
		Take:    params.Limit,
		OrderBy: c.Query("orderBy"),
		Order:   c.Query("order"),
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, studyListResponse(studies, params, total))
}

// SearchStudies lists studies matching a keyword
func (h *StudyHandler) SearchStudies(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	studies, total, err := h.studyService.SearchStudies(c.Request.Context(), services.ListStudiesInput{
		Keyword: c.Query("keyword"),
		Page:    params.Page,
		Take:    params.Limit,
		OrderBy: c.Query("orderBy"),
		Order:   c.Query("order"),
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, studyListResponse(studies, params, total))
}

// GetRecentStudies returns the recently viewed studies named by the caller
func (h *StudyHandler) GetRecentStudies(c *gin.Context) {
	type RecentStudiesRequest struct {
		UUIDs []uuid.UUID `json:"uuids"`
	}

	var req RecentStudiesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	studies, err := h.studyService.GetRecentStudies(c.Request.Context(), req.UUIDs)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"studies": dto.ToStudyDTOs(studies),
	})
}

// GetStudy returns a single study
func (h *StudyHandler) GetStudy(c *gin.Context) {
	studyID, ok := parseUUIDParam(c, "id", "study")
	if !ok {
		return
	}

	study, err := h.studyService.GetStudy(c.Request.Context(), studyID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToStudyDTO(*study))
}

// VerifyPassword checks the study password and unlocks the study for this session
func (h *StudyHandler) VerifyPassword(c *gin.Context) {
	studyID, ok := parseUUIDParam(c, "id", "study")
	if !ok {
		return
	}

	type VerifyPasswordRequest struct {
		Password string `json:"password" binding:"required"`
	}

	var req VerifyPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.studyService.VerifyStudyPassword(c.Request.Context(), studyID, req.Password); err != nil {
		apierrors.Respond(c, err)
		return
	}

	if err := middleware.MarkStudyVerified(sessions.Default(c), studyID); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"verified": true,
	})
}

// UpdateStudy updates a verified study
func (h *StudyHandler) UpdateStudy(c *gin.Context) {
	studyID, exists := middleware.GetStudyID(c)
	if !exists {
		apierrors.Forbidden(c, "Study password verification required")
		return
	}

	type UpdateStudyRequest struct {
		Name       *string `json:"name" binding:"omitempty,max=255"`
		Nickname   *string `json:"nickname" binding:"omitempty,max=255"`
		Intro      *string `json:"intro"`
		Background *string `json:"background" binding:"omitempty,max=255"`
		Password   *string `json:"password"`
	}

	var req UpdateStudyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	study, err := h.studyService.UpdateStudy(c.Request.Context(), studyID, services.UpdateStudyInput{
		Name:       req.Name,
		Nickname:   req.Nickname,
		Intro:      req.Intro,
		Background: req.Background,
		Password:   req.Password,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToStudyDTO(*study))
}

// DeleteStudy deletes a verified study with everything it owns
func (h *StudyHandler) DeleteStudy(c *gin.Context) {
	studyID, exists := middleware.GetStudyID(c)
	if !exists {
		apierrors.Forbidden(c, "Study password verification required")
		return
	}

	if err := h.studyService.DeleteStudy(c.Request.Context(), studyID); err != nil {
		apierrors.Respond(c, err)
		return
	}

	if err := middleware.ForgetStudy(sessions.Default(c), studyID); err != nil {
		_ = c.Error(err)
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Study deleted successfully",
	})
}

func studyListResponse(studies []models.Study, params utils.PaginationParams, total int64) dto.StudyListResponse {
	return dto.StudyListResponse{
		Studies: dto.ToStudyDTOs(studies),
		Pagination: utils.PaginationResponse{
			Page:  params.Page,
			Take:  params.Limit,
			Total: total,
		},
	}
}
