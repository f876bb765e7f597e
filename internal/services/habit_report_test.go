package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/study-tracker-api/internal/models"
	"github.com/yukikurage/study-tracker-api/internal/utils"
)

func TestHabitService_GetWeeklyReport(t *testing.T) {
	ctx := context.Background()

	t.Run("completed today after completing", func(t *testing.T) {
		env := setupHabitTestEnv(t)
		habits, err := env.service.CreateHabits(ctx, env.study.ID, []string{"Read", "Walk"})
		require.NoError(t, err)
		_, err = env.service.CompleteHabit(ctx, env.study.ID, habits[0].ID)
		require.NoError(t, err)

		report, err := env.service.GetWeeklyReport(ctx, env.study.ID)
		require.NoError(t, err)
		require.Len(t, report.Habits, 2)

		assert.Equal(t, "Read", report.Habits[0].Habit.Name)
		assert.True(t, report.Habits[0].CompletedToday)
		assert.Len(t, report.Habits[0].CompletedThisWeek, 1)

		assert.Equal(t, "Walk", report.Habits[1].Habit.Name)
		assert.False(t, report.Habits[1].CompletedToday)
		assert.Empty(t, report.Habits[1].CompletedThisWeek)
		assert.NotNil(t, report.Habits[1].CompletedThisWeek)
	})

	t.Run("only the current week is included", func(t *testing.T) {
		env := setupHabitTestEnv(t)
		habits, err := env.service.CreateHabits(ctx, env.study.ID, []string{"Read"})
		require.NoError(t, err)
		habit := habits[0]

		previousSunday := time.Date(2024, time.May, 12, 23, 59, 59, 999_000_000, kst)
		monday := time.Date(2024, time.May, 13, 0, 0, 0, 0, kst)
		tuesday := time.Date(2024, time.May, 14, 8, 0, 0, 0, kst)
		env.insertCompletion(t, habit, previousSunday)
		env.insertCompletion(t, habit, monday)
		env.insertCompletion(t, habit, tuesday)

		report, err := env.service.GetWeeklyReport(ctx, env.study.ID)
		require.NoError(t, err)

		assert.True(t, report.WeekStart.Equal(monday))
		assert.True(t, report.WeekEnd.Equal(time.Date(2024, time.May, 19, 23, 59, 59, 999_000_000, kst)))

		done := report.Habits[0].CompletedThisWeek
		require.Len(t, done, 2)
		assert.True(t, done[0].CompletedAt.Equal(tuesday), "newest first")
		assert.True(t, done[1].CompletedAt.Equal(monday))
		assert.False(t, report.Habits[0].CompletedToday)

		week := utils.WeekBounds(testNow)
		for _, completion := range done {
			assert.True(t, week.Contains(completion.CompletedAt))
		}
	})

	t.Run("sunday belongs to the week that began on monday", func(t *testing.T) {
		env := setupHabitTestEnv(t)
		habits, err := env.service.CreateHabits(ctx, env.study.ID, []string{"Read"})
		require.NoError(t, err)
		env.insertCompletion(t, habits[0], time.Date(2024, time.May, 13, 9, 0, 0, 0, kst))

		env.clock.Time = time.Date(2024, time.May, 19, 22, 0, 0, 0, kst)
		_, err = env.service.CompleteHabit(ctx, env.study.ID, habits[0].ID)
		require.NoError(t, err)

		report, err := env.service.GetWeeklyReport(ctx, env.study.ID)
		require.NoError(t, err)
		assert.True(t, report.WeekStart.Equal(time.Date(2024, time.May, 13, 0, 0, 0, 0, kst)))
		assert.Len(t, report.Habits[0].CompletedThisWeek, 2)
		assert.True(t, report.Habits[0].CompletedToday)
	})

	t.Run("completions of other studies are not reported", func(t *testing.T) {
		env := setupHabitTestEnv(t)
		habits, err := env.service.CreateHabits(ctx, env.study.ID, []string{"Read"})
		require.NoError(t, err)

		other := setupOtherStudyHabit(t, env)
		env.insertCompletion(t, other, testNow)

		report, err := env.service.GetWeeklyReport(ctx, env.study.ID)
		require.NoError(t, err)
		require.Len(t, report.Habits, 1)
		assert.Equal(t, habits[0].ID, report.Habits[0].Habit.ID)
		assert.Empty(t, report.Habits[0].CompletedThisWeek)
	})

	t.Run("empty study", func(t *testing.T) {
		env := setupHabitTestEnv(t)

		report, err := env.service.GetWeeklyReport(ctx, env.study.ID)
		require.NoError(t, err)
		assert.Equal(t, env.study.ID, report.StudyID)
		assert.Empty(t, report.Habits)
	})

	t.Run("unknown study", func(t *testing.T) {
		env := setupHabitTestEnv(t)

		_, err := env.service.GetWeeklyReport(ctx, uuid.New())
		assert.Equal(t, ErrStudyNotFound, err)
	})
}

func setupOtherStudyHabit(t *testing.T, env habitTestEnv) models.Habit {
	t.Helper()
	other := models.Study{Name: "Other", Nickname: "other", PasswordHash: "x"}
	require.NoError(t, env.db.Create(&other).Error)
	habits, err := env.service.CreateHabits(context.Background(), other.ID, []string{"Read"})
	require.NoError(t, err)
	return habits[0]
}

func TestBuildWeeklyReport(t *testing.T) {
	studyID := uuid.New()
	habit := models.Habit{ID: uuid.New(), StudyID: studyID, Name: "Read", CreatedAt: testNow.Add(-time.Hour)}
	week := utils.WeekBounds(testNow)

	completions := []models.CompletedHabit{
		{ID: uuid.New(), HabitID: habit.ID, StudyID: studyID, CompletedAt: testNow.UTC()},
		// outside the window, dropped even if the store returned it
		{ID: uuid.New(), HabitID: habit.ID, StudyID: studyID, CompletedAt: week.Start.Add(-time.Millisecond).UTC()},
	}

	report := buildWeeklyReport(studyID, testNow, week, []models.Habit{habit}, completions)
	require.Len(t, report.Habits, 1)
	assert.True(t, report.Habits[0].CompletedToday)
	require.Len(t, report.Habits[0].CompletedThisWeek, 1)
	assert.Equal(t, kst, report.Habits[0].CompletedThisWeek[0].CompletedAt.Location())
}
