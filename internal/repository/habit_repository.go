package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/yukikurage/study-tracker-api/internal/database"
	"github.com/yukikurage/study-tracker-api/internal/models"
	"gorm.io/gorm"
)

// GormHabitRepository is a GORM implementation of HabitRepository
type GormHabitRepository struct {
	db *gorm.DB
}

// NewHabitRepository creates a new HabitRepository
func NewHabitRepository(db *gorm.DB) HabitRepository {
	return &GormHabitRepository{db: db}
}

// Transaction runs fn inside a database transaction
func (r *GormHabitRepository) Transaction(ctx context.Context, fn func(repo HabitRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormHabitRepository{db: tx})
	})
}

// Create inserts habits in a single statement
func (r *GormHabitRepository) Create(ctx context.Context, habits []models.Habit) error {
	if len(habits) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&habits).Error
}

// FindByID finds a habit that belongs to the study
func (r *GormHabitRepository) FindByID(ctx context.Context, studyID, habitID uuid.UUID) (*models.Habit, error) {
	var habit models.Habit
	if err := r.db.WithContext(ctx).
		Where("id = ? AND study_id = ?", habitID, studyID).
		First(&habit).Error; err != nil {
		return nil, err
	}
	return &habit, nil
}

// FindByIDs finds the habits of the study among the given IDs
func (r *GormHabitRepository) FindByIDs(ctx context.Context, studyID uuid.UUID, ids []uuid.UUID) ([]models.Habit, error) {
	var habits []models.Habit
	if len(ids) == 0 {
		return habits, nil
	}
	if err := r.db.WithContext(ctx).
		Where("study_id = ? AND id IN ?", studyID, ids).
		Find(&habits).Error; err != nil {
		return nil, err
	}
	return habits, nil
}

// FindByNames finds habits of the study whose name is in names
func (r *GormHabitRepository) FindByNames(ctx context.Context, studyID uuid.UUID, names []string, excludeIDs []uuid.UUID) ([]models.Habit, error) {
	var habits []models.Habit
	if len(names) == 0 {
		return habits, nil
	}

	query := r.db.WithContext(ctx).Where("study_id = ? AND name IN ?", studyID, names)
	if len(excludeIDs) > 0 {
		query = query.Where("id NOT IN ?", excludeIDs)
	}

	if err := query.Order("created_at ASC, id ASC").Find(&habits).Error; err != nil {
		return nil, err
	}
	return habits, nil
}

// ListByStudy lists the habits of a study, oldest first
func (r *GormHabitRepository) ListByStudy(ctx context.Context, studyID uuid.UUID) ([]models.Habit, error) {
	var habits []models.Habit
	if err := r.db.WithContext(ctx).
		Scopes(database.InStudy(studyID)).
		Order("created_at ASC, id ASC").
		Find(&habits).Error; err != nil {
		return nil, err
	}
	return habits, nil
}

// UpdateName renames a habit
func (r *GormHabitRepository) UpdateName(ctx context.Context, habitID uuid.UUID, name string) error {
	return r.db.WithContext(ctx).
		Model(&models.Habit{}).
		Where("id = ?", habitID).
		Update("name", name).Error
}

// Delete removes habits together with their completions
func (r *GormHabitRepository) Delete(ctx context.Context, habitIDs []uuid.UUID) error {
	if len(habitIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("habit_id IN ?", habitIDs).Delete(&models.CompletedHabit{}).Error; err != nil {
			return err
		}

		return tx.Where("id IN ?", habitIDs).Delete(&models.Habit{}).Error
	})
}

// CreateCompletion inserts a completion record
func (r *GormHabitRepository) CreateCompletion(ctx context.Context, completion *models.CompletedHabit) error {
	return r.db.WithContext(ctx).Create(completion).Error
}

// FindCompletion finds a completion of the habit within [from, to]
func (r *GormHabitRepository) FindCompletion(ctx context.Context, studyID, habitID uuid.UUID, from, to time.Time) (*models.CompletedHabit, error) {
	var completion models.CompletedHabit
	if err := r.db.WithContext(ctx).
		Where("study_id = ? AND habit_id = ?", studyID, habitID).
		Where("completed_at >= ? AND completed_at <= ?", from.UTC(), to.UTC()).
		Order("completed_at DESC").
		First(&completion).Error; err != nil {
		return nil, err
	}
	return &completion, nil
}

// ListCompletions lists the study's completions within [from, to], newest first
func (r *GormHabitRepository) ListCompletions(ctx context.Context, studyID uuid.UUID, from, to time.Time) ([]models.CompletedHabit, error) {
	var completions []models.CompletedHabit
	if err := r.db.WithContext(ctx).
		Scopes(database.InStudy(studyID)).
		Where("completed_at >= ? AND completed_at <= ?", from.UTC(), to.UTC()).
		Order("completed_at DESC").
		Find(&completions).Error; err != nil {
		return nil, err
	}
	return completions, nil
}

// DeleteCompletion removes a single completion record
func (r *GormHabitRepository) DeleteCompletion(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.CompletedHabit{}, "id = ?", id).Error
}
