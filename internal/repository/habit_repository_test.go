package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/study-tracker-api/internal/models"
	"github.com/yukikurage/study-tracker-api/internal/testutil"
	"gorm.io/gorm"
)

func createHabits(t *testing.T, repo HabitRepository, studyID uuid.UUID, names ...string) []models.Habit {
	t.Helper()
	base := time.Now().UTC()
	habits := make([]models.Habit, len(names))
	for i, name := range names {
		habits[i] = models.Habit{StudyID: studyID, Name: name, CreatedAt: base.Add(time.Duration(i) * time.Millisecond)}
	}
	require.NoError(t, repo.Create(context.Background(), habits))
	return habits
}

func TestHabitRepository_UniqueNamePerStudy(t *testing.T) {
	db := testutil.OpenDB(t)
	repo := NewHabitRepository(db)
	study := testutil.CreateStudy(t, db, "Algorithms", "secret")
	other := testutil.CreateStudy(t, db, "Databases", "secret")

	createHabits(t, repo, study.ID, "Read")
	createHabits(t, repo, other.ID, "Read")

	err := repo.Create(context.Background(), []models.Habit{{StudyID: study.ID, Name: "Read"}})
	assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey), "got %v", err)
}

func TestHabitRepository_RejectsUnknownParents(t *testing.T) {
	ctx := context.Background()
	db := testutil.OpenDB(t)
	repo := NewHabitRepository(db)
	study := testutil.CreateStudy(t, db, "Algorithms", "secret")

	err := repo.Create(ctx, []models.Habit{{StudyID: uuid.New(), Name: "Read"}})
	assert.ErrorIs(t, err, gorm.ErrForeignKeyViolated)

	err = repo.CreateCompletion(ctx, &models.CompletedHabit{
		HabitID: uuid.New(), StudyID: study.ID, CompletedAt: time.Now().UTC(), CompletedOn: "2024-05-15",
	})
	assert.ErrorIs(t, err, gorm.ErrForeignKeyViolated)

	var count int64
	require.NoError(t, db.Model(&models.Habit{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestHabitRepository_ListByStudyBreaksTiesByID(t *testing.T) {
	ctx := context.Background()
	db := testutil.OpenDB(t)
	repo := NewHabitRepository(db)
	study := testutil.CreateStudy(t, db, "Algorithms", "secret")

	createdAt := time.Date(2024, time.May, 15, 1, 0, 0, 0, time.UTC)
	habits := make([]models.Habit, 0, 4)
	for _, name := range []string{"Walk", "Read", "Anki", "Stretch"} {
		habits = append(habits, models.Habit{StudyID: study.ID, Name: name, CreatedAt: createdAt})
	}
	require.NoError(t, repo.Create(ctx, habits))

	listed, err := repo.ListByStudy(ctx, study.ID)
	require.NoError(t, err)
	require.Len(t, listed, 4)
	for i, habit := range listed {
		assert.Equal(t, habits[i].Name, habit.Name)
	}
}

func TestHabitRepository_OneCompletionPerDay(t *testing.T) {
	ctx := context.Background()
	db := testutil.OpenDB(t)
	repo := NewHabitRepository(db)
	study := testutil.CreateStudy(t, db, "Algorithms", "secret")
	habit := createHabits(t, repo, study.ID, "Read")[0]

	morning := time.Date(2024, time.May, 15, 1, 0, 0, 0, time.UTC)
	require.NoError(t, repo.CreateCompletion(ctx, &models.CompletedHabit{
		HabitID: habit.ID, StudyID: study.ID, CompletedAt: morning, CompletedOn: "2024-05-15",
	}))

	err := repo.CreateCompletion(ctx, &models.CompletedHabit{
		HabitID: habit.ID, StudyID: study.ID, CompletedAt: morning.Add(time.Hour), CompletedOn: "2024-05-15",
	})
	assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey), "got %v", err)

	require.NoError(t, repo.CreateCompletion(ctx, &models.CompletedHabit{
		HabitID: habit.ID, StudyID: study.ID, CompletedAt: morning.AddDate(0, 0, 1), CompletedOn: "2024-05-16",
	}))
}

func TestHabitRepository_FindByNames(t *testing.T) {
	ctx := context.Background()
	db := testutil.OpenDB(t)
	repo := NewHabitRepository(db)
	study := testutil.CreateStudy(t, db, "Algorithms", "secret")
	habits := createHabits(t, repo, study.ID, "Read", "Walk", "Anki")

	found, err := repo.FindByNames(ctx, study.ID, []string{"Walk", "Read", "Missing"}, nil)
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "Read", found[0].Name)
	assert.Equal(t, "Walk", found[1].Name)

	found, err = repo.FindByNames(ctx, study.ID, []string{"Walk", "Read"}, []uuid.UUID{habits[0].ID})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Walk", found[0].Name)

	found, err = repo.FindByNames(ctx, study.ID, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestHabitRepository_CompletionWindow(t *testing.T) {
	ctx := context.Background()
	db := testutil.OpenDB(t)
	repo := NewHabitRepository(db)
	study := testutil.CreateStudy(t, db, "Algorithms", "secret")
	habit := createHabits(t, repo, study.ID, "Read")[0]

	zone := time.FixedZone("KST", 9*60*60)
	dayStart := time.Date(2024, time.May, 15, 0, 0, 0, 0, zone)
	dayEnd := time.Date(2024, time.May, 15, 23, 59, 59, 999_000_000, zone)

	// distinct day keys keep the unique index out of the way
	for i, at := range []time.Time{dayStart.Add(-time.Millisecond), dayStart, dayEnd} {
		require.NoError(t, repo.CreateCompletion(ctx, &models.CompletedHabit{
			HabitID:     habit.ID,
			StudyID:     study.ID,
			CompletedAt: at.UTC(),
			CompletedOn: fmt.Sprintf("key-%d", i),
		}))
	}

	completions, err := repo.ListCompletions(ctx, study.ID, dayStart, dayEnd)
	require.NoError(t, err)
	require.Len(t, completions, 2)
	assert.True(t, completions[0].CompletedAt.Equal(dayEnd), "newest first")
	assert.True(t, completions[1].CompletedAt.Equal(dayStart))

	latest, err := repo.FindCompletion(ctx, study.ID, habit.ID, dayStart, dayEnd)
	require.NoError(t, err)
	assert.True(t, latest.CompletedAt.Equal(dayEnd))

	_, err = repo.FindCompletion(ctx, study.ID, habit.ID, dayEnd.Add(time.Millisecond), dayEnd.Add(time.Hour))
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestHabitRepository_TransactionRollsBack(t *testing.T) {
	ctx := context.Background()
	db := testutil.OpenDB(t)
	repo := NewHabitRepository(db)
	study := testutil.CreateStudy(t, db, "Algorithms", "secret")

	errAbort := errors.New("abort")
	err := repo.Transaction(ctx, func(tx HabitRepository) error {
		if err := tx.Create(ctx, []models.Habit{{StudyID: study.ID, Name: "Read"}}); err != nil {
			return err
		}
		return errAbort
	})
	assert.ErrorIs(t, err, errAbort)

	habits, err := repo.ListByStudy(ctx, study.ID)
	require.NoError(t, err)
	assert.Empty(t, habits)
}

func TestHabitRepository_DeleteRemovesCompletions(t *testing.T) {
	ctx := context.Background()
	db := testutil.OpenDB(t)
	repo := NewHabitRepository(db)
	study := testutil.CreateStudy(t, db, "Algorithms", "secret")
	habits := createHabits(t, repo, study.ID, "Read", "Walk")

	for _, habit := range habits {
		require.NoError(t, repo.CreateCompletion(ctx, &models.CompletedHabit{
			HabitID: habit.ID, StudyID: study.ID, CompletedAt: time.Now().UTC(), CompletedOn: "2024-05-15",
		}))
	}

	require.NoError(t, repo.Delete(ctx, []uuid.UUID{habits[0].ID}))

	var remaining []models.CompletedHabit
	require.NoError(t, db.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, habits[1].ID, remaining[0].HabitID)
}
