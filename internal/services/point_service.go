package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	apierrors "github.com/yukikurage/study-tracker-api/internal/errors"
	"github.com/yukikurage/study-tracker-api/internal/models"
	"github.com/yukikurage/study-tracker-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var ErrNegativePoints = apierrors.NewBadRequest("Points cannot be negative")

// PointService accumulates focus points
type PointService struct {
	studyRepo repository.StudyRepository
	guard     *StudyGuard
	log       *zap.Logger
}

// NewPointService creates a new PointService
func NewPointService(studyRepo repository.StudyRepository, guard *StudyGuard, log *zap.Logger) *PointService {
	return &PointService{
		studyRepo: studyRepo,
		guard:     guard,
		log:       log,
	}
}

// AddPoints adds points to the study's focus total and returns the new total
func (s *PointService) AddPoints(ctx context.Context, studyID uuid.UUID, points int64) (*models.Focus, error) {
	if points < 0 {
		return nil, ErrNegativePoints
	}

	if err := s.guard.EnsureStudyExists(ctx, studyID); err != nil {
		return nil, err
	}

	focus, err := s.studyRepo.AddPoints(ctx, studyID, points)
	if err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return nil, ErrStudyNotFound
		}
		return nil, storageError(s.log, "add points", err)
	}

	return focus, nil
}
