package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/yukikurage/study-tracker-api/internal/repository"
	"go.uber.org/zap"
)

// StudyGuard rejects study-scoped operations on studies that do not exist.
type StudyGuard struct {
	studyRepo repository.StudyRepository
	log       *zap.Logger
}

// NewStudyGuard creates a new StudyGuard.
func NewStudyGuard(studyRepo repository.StudyRepository, log *zap.Logger) *StudyGuard {
	return &StudyGuard{
		studyRepo: studyRepo,
		log:       log,
	}
}

// EnsureStudyExists returns ErrStudyNotFound when no study has the ID.
func (g *StudyGuard) EnsureStudyExists(ctx context.Context, studyID uuid.UUID) error {
	exists, err := g.studyRepo.Exists(ctx, studyID)
	if err != nil {
		return storageError(g.log, "check study", err)
	}
	if !exists {
		return ErrStudyNotFound
	}
	return nil
}
