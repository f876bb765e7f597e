package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/yukikurage/study-tracker-api/internal/models"
	"github.com/yukikurage/study-tracker-api/internal/utils"
)

// HabitProgress is a habit together with its completions of the current week
type HabitProgress struct {
	Habit             models.Habit
	CompletedToday    bool
	CompletedThisWeek []models.CompletedHabit
}

// WeeklyReport lists a study's habits with the progress of the current week
type WeeklyReport struct {
	StudyID   uuid.UUID
	WeekStart time.Time
	WeekEnd   time.Time
	Habits    []HabitProgress
}

// GetWeeklyReport builds the weekly progress of every habit in the study.
// The week runs from Monday 00:00:00.000 to Sunday 23:59:59.999 in the
// clock's location.
func (s *HabitService) GetWeeklyReport(ctx context.Context, studyID uuid.UUID) (*WeeklyReport, error) {
	if err := s.guard.EnsureStudyExists(ctx, studyID); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	week := utils.WeekBounds(now)

	habits, err := s.habitRepo.ListByStudy(ctx, studyID)
	if err != nil {
		return nil, storageError(s.log, "list habits", err)
	}

	completions, err := s.habitRepo.ListCompletions(ctx, studyID, week.Start, week.End)
	if err != nil {
		return nil, storageError(s.log, "list completions", err)
	}

	return buildWeeklyReport(studyID, now, week, habits, completions), nil
}

// buildWeeklyReport groups completions by habit. completions must be ordered
// newest first; the order is kept within each habit.
func buildWeeklyReport(studyID uuid.UUID, now time.Time, week utils.TimeRange, habits []models.Habit, completions []models.CompletedHabit) *WeeklyReport {
	byHabit := make(map[uuid.UUID][]models.CompletedHabit, len(habits))
	for _, completion := range completions {
		completion.CompletedAt = completion.CompletedAt.In(now.Location())
		if !week.Contains(completion.CompletedAt) {
			continue
		}
		byHabit[completion.HabitID] = append(byHabit[completion.HabitID], completion)
	}

	report := &WeeklyReport{
		StudyID:   studyID,
		WeekStart: week.Start,
		WeekEnd:   week.End,
		Habits:    make([]HabitProgress, len(habits)),
	}

	for i, habit := range habits {
		habit.CreatedAt = habit.CreatedAt.In(now.Location())
		done := byHabit[habit.ID]
		if done == nil {
			done = []models.CompletedHabit{}
		}

		completedToday := false
		for _, completion := range done {
			if utils.SameDay(completion.CompletedAt, now) {
				completedToday = true
				break
			}
		}

		report.Habits[i] = HabitProgress{
			Habit:             habit,
			CompletedToday:    completedToday,
			CompletedThisWeek: done,
		}
	}

	return report
}
