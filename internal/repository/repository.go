package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/yukikurage/study-tracker-api/internal/models"
	"github.com/yukikurage/study-tracker-api/internal/utils"
)

// HabitRepository defines the interface for habit and completion data access
type HabitRepository interface {
	// Transaction runs fn against a repository bound to a single transaction.
	// Returning an error from fn rolls every write back.
	Transaction(ctx context.Context, fn func(repo HabitRepository) error) error

	// Create inserts habits in a single statement
	Create(ctx context.Context, habits []models.Habit) error

	// FindByID finds a habit that belongs to the study
	FindByID(ctx context.Context, studyID, habitID uuid.UUID) (*models.Habit, error)

	// FindByIDs finds the habits of the study among the given IDs
	FindByIDs(ctx context.Context, studyID uuid.UUID, ids []uuid.UUID) ([]models.Habit, error)

	// FindByNames finds habits of the study whose name is in names,
	// skipping the habits listed in excludeIDs
	FindByNames(ctx context.Context, studyID uuid.UUID, names []string, excludeIDs []uuid.UUID) ([]models.Habit, error)

	// ListByStudy lists the habits of a study, oldest first
	ListByStudy(ctx context.Context, studyID uuid.UUID) ([]models.Habit, error)

	// UpdateName renames a habit
	UpdateName(ctx context.Context, habitID uuid.UUID, name string) error

	// Delete removes habits together with their completions
	Delete(ctx context.Context, habitIDs []uuid.UUID) error

	// CreateCompletion inserts a completion record
	CreateCompletion(ctx context.Context, completion *models.CompletedHabit) error

	// FindCompletion finds a completion of the habit within [from, to]
	FindCompletion(ctx context.Context, studyID, habitID uuid.UUID, from, to time.Time) (*models.CompletedHabit, error)

	// ListCompletions lists the study's completions within [from, to], newest first
	ListCompletions(ctx context.Context, studyID uuid.UUID, from, to time.Time) ([]models.CompletedHabit, error)

	// DeleteCompletion removes a single completion record
	DeleteCompletion(ctx context.Context, id uuid.UUID) error
}

// StudyFilter holds filtering options for listing studies
type StudyFilter struct {
	Keyword    string
	OrderBy    string
	Desc       bool
	Pagination utils.PaginationParams
}

// StudyRepository defines the interface for study data access
type StudyRepository interface {
	// Exists reports whether a study with the ID exists
	Exists(ctx context.Context, id uuid.UUID) (bool, error)

	// CreateWithFocus creates a study and its zero-point focus atomically
	CreateWithFocus(ctx context.Context, study *models.Study) error

	// FindByID finds a study with its focus preloaded
	FindByID(ctx context.Context, id uuid.UUID) (*models.Study, error)

	// FindByIDs finds the existing studies among ids, newest first
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Study, error)

	// List retrieves studies with filtering and pagination
	List(ctx context.Context, filter StudyFilter) ([]models.Study, int64, error)

	// Update saves the given columns of a study
	Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error

	// Delete deletes a study and all related data
	Delete(ctx context.Context, id uuid.UUID) error

	// AddPoints increments the study's focus total and returns the new row
	AddPoints(ctx context.Context, studyID uuid.UUID, points int64) (*models.Focus, error)
}
