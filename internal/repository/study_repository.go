package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/yukikurage/study-tracker-api/internal/database"
	"github.com/yukikurage/study-tracker-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Sortable columns of a study listing
const (
	StudyOrderByCreatedAt = "createdAt"
	StudyOrderByPoints    = "points"
)

// GormStudyRepository is a GORM implementation of StudyRepository
type GormStudyRepository struct {
	db *gorm.DB
}

// NewStudyRepository creates a new StudyRepository
func NewStudyRepository(db *gorm.DB) StudyRepository {
	return &GormStudyRepository{db: db}
}

// Exists reports whether a study with the ID exists
func (r *GormStudyRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Study{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateWithFocus creates a study and its zero-point focus atomically
func (r *GormStudyRepository) CreateWithFocus(ctx context.Context, study *models.Study) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(study).Error; err != nil {
			return err
		}

		focus := &models.Focus{StudyID: study.ID}
		if err := tx.Create(focus).Error; err != nil {
			return err
		}
		study.Focus = focus

		return nil
	})
}

// FindByID finds a study with its focus preloaded
func (r *GormStudyRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Study, error) {
	var study models.Study
	if err := r.db.WithContext(ctx).
		Preload("Focus").
		Where("id = ?", id).
		First(&study).Error; err != nil {
		return nil, err
	}
	return &study, nil
}

// FindByIDs finds the existing studies among ids, newest first
func (r *GormStudyRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Study, error) {
	studies := []models.Study{}
	if len(ids) == 0 {
		return studies, nil
	}
	if err := r.db.WithContext(ctx).
		Preload("Focus").
		Where("id IN ?", ids).
		Order("created_at DESC").
		Find(&studies).Error; err != nil {
		return nil, err
	}
	return studies, nil
}

// List retrieves studies with filtering and pagination
func (r *GormStudyRepository) List(ctx context.Context, filter StudyFilter) ([]models.Study, int64, error) {
	var studies []models.Study

	query := r.db.WithContext(ctx).Model(&models.Study{})

	if keyword := strings.TrimSpace(filter.Keyword); keyword != "" {
		pattern := "%" + strings.ToLower(keyword) + "%"
		query = query.Where(
			"LOWER(studies.name) LIKE ? OR LOWER(studies.nickname) LIKE ? OR LOWER(studies.intro) LIKE ?",
			pattern, pattern, pattern,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := clause.OrderByColumn{
		Column: clause.Column{Table: "studies", Name: "created_at"},
		Desc:   filter.Desc,
	}
	if filter.OrderBy == StudyOrderByPoints {
		order.Column = clause.Column{Table: "Focus", Name: "points"}
	}

	if err := query.
		Joins("Focus").
		Order(order).
		Scopes(database.Paginate(filter.Pagination)).
		Find(&studies).Error; err != nil {
		return nil, 0, err
	}

	return studies, total, nil
}

// Update saves the given columns of a study
func (r *GormStudyRepository) Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Study{}).
		Where("id = ?", id).
		Updates(fields).Error
}

// Delete deletes a study and all related data in a transaction
func (r *GormStudyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Delete all completions and habits of the study
		if err := tx.Scopes(database.InStudy(id)).Delete(&models.CompletedHabit{}).Error; err != nil {
			return err
		}
		if err := tx.Scopes(database.InStudy(id)).Delete(&models.Habit{}).Error; err != nil {
			return err
		}

		// Delete focus points
		if err := tx.Scopes(database.InStudy(id)).Delete(&models.Focus{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.Study{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return nil
	})
}

// AddPoints increments the study's focus total and returns the new row
func (r *GormStudyRepository) AddPoints(ctx context.Context, studyID uuid.UUID, points int64) (*models.Focus, error) {
	var focus models.Focus
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Scopes(database.InStudy(studyID)).First(&focus).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			focus = models.Focus{StudyID: studyID, Points: points}
			return tx.Create(&focus).Error
		}
		if err != nil {
			return err
		}

		if err := tx.Model(&models.Focus{}).
			Where("id = ?", focus.ID).
			Update("points", gorm.Expr("points + ?", points)).Error; err != nil {
			return err
		}

		return tx.First(&focus, "id = ?", focus.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return &focus, nil
}
