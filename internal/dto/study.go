package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/yukikurage/study-tracker-api/internal/models"
	"github.com/yukikurage/study-tracker-api/internal/utils"
)

// StudyDTO represents a study in API responses
type StudyDTO struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Nickname   string    `json:"nickname"`
	Intro      string    `json:"intro"`
	Background string    `json:"background"`
	Points     int64     `json:"points"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// StudyListResponse represents a paginated list of studies
type StudyListResponse struct {
	Studies    []StudyDTO               `json:"studies"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// FocusDTO represents a study's focus points
type FocusDTO struct {
	StudyID uuid.UUID `json:"studyId"`
	Points  int64     `json:"points"`
}

// ToStudyDTO converts a Study model to StudyDTO
func ToStudyDTO(study models.Study) StudyDTO {
	return StudyDTO{
		ID:         study.ID,
		Name:       study.Name,
		Nickname:   study.Nickname,
		Intro:      study.Intro,
		Background: study.Background,
		Points:     study.Points(),
		CreatedAt:  study.CreatedAt,
		UpdatedAt:  study.UpdatedAt,
	}
}

// ToStudyDTOs converts a slice of studies
func ToStudyDTOs(studies []models.Study) []StudyDTO {
	dtos := make([]StudyDTO, len(studies))
	for i, study := range studies {
		dtos[i] = ToStudyDTO(study)
	}
	return dtos
}

// ToFocusDTO converts a Focus model to FocusDTO
func ToFocusDTO(focus models.Focus) FocusDTO {
	return FocusDTO{
		StudyID: focus.StudyID,
		Points:  focus.Points,
	}
}
