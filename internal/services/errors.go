package services

import (
	"errors"
	"fmt"

	apierrors "github.com/yukikurage/study-tracker-api/internal/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrStudyNotFound          = apierrors.NewNotFound("Study not found")
	ErrHabitNotFound          = apierrors.NewNotFound("Habit not found")
	ErrCompletionNotFound     = apierrors.NewNotFound("Habit has not been completed today")
	ErrHabitAlreadyCompleted  = apierrors.NewConflict("Habit has already been completed today")
	ErrNoHabits               = apierrors.NewBadRequest("At least one habit is required")
	ErrHabitNameRequired      = apierrors.NewBadRequest("Habit name cannot be empty")
	ErrDuplicateHabitIDs      = apierrors.NewBadRequest("Habit IDs must be unique")
	ErrInvalidStudyPassword   = apierrors.NewAPIError(apierrors.ErrCodeUnauthorized, "Invalid password")
	ErrAIServiceNotConfigured = apierrors.NewAPIError(apierrors.ErrCodeServiceUnavailable, "AI service is not configured")
)

// storageError classifies an error coming out of a repository. Errors that
// already carry a code pass through unchanged and unique violations become
// conflicts. Anything else is logged and reported with a generic message.
func storageError(log *zap.Logger, action string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := apierrors.As(err); ok {
		return err
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apierrors.Wrap(apierrors.ErrCodeConflict, "Resource already exists", err)
	}

	log.Error("Storage operation failed", zap.String("action", action), zap.Error(err))
	return apierrors.Wrap(apierrors.ErrCodeInvalidInput, fmt.Sprintf("Failed to %s", action), err)
}
