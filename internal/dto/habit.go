package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/yukikurage/study-tracker-api/internal/models"
	"github.com/yukikurage/study-tracker-api/internal/services"
)

// HabitDTO represents a habit in API responses
type HabitDTO struct {
	ID        uuid.UUID `json:"id"`
	StudyID   uuid.UUID `json:"studyId"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// CompletedHabitDTO represents a completion record in API responses
type CompletedHabitDTO struct {
	ID          uuid.UUID `json:"id"`
	HabitID     uuid.UUID `json:"habitId"`
	StudyID     uuid.UUID `json:"studyId"`
	CompletedAt time.Time `json:"completedAt"`
}

// HabitProgressDTO is a habit with its progress of the current week
type HabitProgressDTO struct {
	HabitDTO
	CompletedToday    bool                `json:"completedToday"`
	CompletedThisWeek []CompletedHabitDTO `json:"completedThisWeek"`
}

// WeeklyReportDTO represents the weekly habit report
type WeeklyReportDTO struct {
	StudyID   uuid.UUID          `json:"studyId"`
	WeekStart time.Time          `json:"weekStart"`
	WeekEnd   time.Time          `json:"weekEnd"`
	Habits    []HabitProgressDTO `json:"habits"`
}

// HabitListResponse wraps habits returned by bulk operations
type HabitListResponse struct {
	Habits []HabitDTO `json:"habits"`
}

// ToHabitDTO converts a Habit model to HabitDTO
func ToHabitDTO(habit models.Habit) HabitDTO {
	return HabitDTO{
		ID:        habit.ID,
		StudyID:   habit.StudyID,
		Name:      habit.Name,
		CreatedAt: habit.CreatedAt,
	}
}

// ToHabitListResponse converts habits to a HabitListResponse
func ToHabitListResponse(habits []models.Habit) HabitListResponse {
	dtos := make([]HabitDTO, len(habits))
	for i, habit := range habits {
		dtos[i] = ToHabitDTO(habit)
	}
	return HabitListResponse{Habits: dtos}
}

// ToCompletedHabitDTO converts a CompletedHabit model to CompletedHabitDTO
func ToCompletedHabitDTO(completion models.CompletedHabit) CompletedHabitDTO {
	return CompletedHabitDTO{
		ID:          completion.ID,
		HabitID:     completion.HabitID,
		StudyID:     completion.StudyID,
		CompletedAt: completion.CompletedAt,
	}
}

// ToWeeklyReportDTO converts a weekly report to its response shape
func ToWeeklyReportDTO(report services.WeeklyReport) WeeklyReportDTO {
	habits := make([]HabitProgressDTO, len(report.Habits))
	for i, progress := range report.Habits {
		completions := make([]CompletedHabitDTO, len(progress.CompletedThisWeek))
		for j, completion := range progress.CompletedThisWeek {
			completions[j] = ToCompletedHabitDTO(completion)
		}
		habits[i] = HabitProgressDTO{
			HabitDTO:          ToHabitDTO(progress.Habit),
			CompletedToday:    progress.CompletedToday,
			CompletedThisWeek: completions,
		}
	}

	return WeeklyReportDTO{
		StudyID:   report.StudyID,
		WeekStart: report.WeekStart,
		WeekEnd:   report.WeekEnd,
		Habits:    habits,
	}
}
