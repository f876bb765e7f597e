package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yukikurage/study-tracker-api/internal/constants"
	apierrors "github.com/yukikurage/study-tracker-api/internal/errors"
	"github.com/yukikurage/study-tracker-api/internal/models"
	"github.com/yukikurage/study-tracker-api/internal/repository"
	"github.com/yukikurage/study-tracker-api/internal/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// HabitSuggester proposes habit names for a goal.
type HabitSuggester interface {
	SuggestHabitNames(ctx context.Context, goal string) ([]string, error)
}

// HabitService handles habit and completion business logic
type HabitService struct {
	habitRepo repository.HabitRepository
	guard     *StudyGuard
	clock     utils.Clock
	suggester HabitSuggester
	log       *zap.Logger
}

// NewHabitService creates a new HabitService. suggester may be nil when no
// AI backend is configured.
func NewHabitService(habitRepo repository.HabitRepository, guard *StudyGuard, clock utils.Clock, suggester HabitSuggester, log *zap.Logger) *HabitService {
	return &HabitService{
		habitRepo: habitRepo,
		guard:     guard,
		clock:     clock,
		suggester: suggester,
		log:       log,
	}
}

// HabitRename represents a single rename in a bulk update
type HabitRename struct {
	ID   uuid.UUID
	Name string
}

// CreateHabits creates habits with the given names in one transaction and
// returns them in request order.
func (s *HabitService) CreateHabits(ctx context.Context, studyID uuid.UUID, names []string) ([]models.Habit, error) {
	if len(names) == 0 {
		return nil, ErrNoHabits
	}

	trimmed, err := normalizeHabitNames(names)
	if err != nil {
		return nil, err
	}
	if dups := duplicates(trimmed); len(dups) > 0 {
		return nil, habitNameConflict(dups)
	}

	if err := s.guard.EnsureStudyExists(ctx, studyID); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	habits := make([]models.Habit, len(trimmed))
	for i, name := range trimmed {
		// v7 ids grow monotonically, so they order a batch that shares created_at
		id, err := uuid.NewV7()
		if err != nil {
			return nil, storageError(s.log, "create habits", err)
		}
		habits[i] = models.Habit{
			ID:        id,
			StudyID:   studyID,
			Name:      name,
			CreatedAt: now.UTC(),
		}
	}

	err = s.habitRepo.Transaction(ctx, func(repo repository.HabitRepository) error {
		existing, err := repo.FindByNames(ctx, studyID, trimmed, nil)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return habitNameConflict(habitNames(existing))
		}

		return repo.Create(ctx, habits)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apierrors.Wrap(apierrors.ErrCodeConflict, "Habit names already exist", err)
		}
		// the study was deleted after the guard ran
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return nil, ErrStudyNotFound
		}
		return nil, storageError(s.log, "create habits", err)
	}

	s.log.Debug("Created habits", zap.Stringer("study_id", studyID), zap.Int("count", len(habits)))
	return inLocation(habits, now.Location()), nil
}

// UpdateHabits renames habits of a study atomically and returns them in
// request order. Habits may keep their own name or swap names with each other.
func (s *HabitService) UpdateHabits(ctx context.Context, studyID uuid.UUID, renames []HabitRename) ([]models.Habit, error) {
	if len(renames) == 0 {
		return nil, ErrNoHabits
	}

	ids := make([]uuid.UUID, len(renames))
	rawNames := make([]string, len(renames))
	seen := make(map[uuid.UUID]struct{}, len(renames))
	for i, rename := range renames {
		if _, ok := seen[rename.ID]; ok {
			return nil, ErrDuplicateHabitIDs
		}
		seen[rename.ID] = struct{}{}
		ids[i] = rename.ID
		rawNames[i] = rename.Name
	}

	names, err := normalizeHabitNames(rawNames)
	if err != nil {
		return nil, err
	}
	if dups := duplicates(names); len(dups) > 0 {
		return nil, habitNameConflict(dups)
	}

	if err := s.guard.EnsureStudyExists(ctx, studyID); err != nil {
		return nil, err
	}

	var updated []models.Habit
	err = s.habitRepo.Transaction(ctx, func(repo repository.HabitRepository) error {
		habits, err := repo.FindByIDs(ctx, studyID, ids)
		if err != nil {
			return err
		}
		if len(habits) != len(ids) {
			return ErrHabitNotFound
		}

		taken, err := repo.FindByNames(ctx, studyID, names, ids)
		if err != nil {
			return err
		}
		if len(taken) > 0 {
			return habitNameConflict(habitNames(taken))
		}

		current := make(map[uuid.UUID]models.Habit, len(habits))
		for _, habit := range habits {
			current[habit.ID] = habit
		}

		var changed []int
		for i, id := range ids {
			if current[id].Name != names[i] {
				changed = append(changed, i)
			}
		}

		// Park changed habits on a placeholder first so names can move
		// between them without tripping the unique index.
		for _, i := range changed {
			if err := repo.UpdateName(ctx, ids[i], "~"+ids[i].String()); err != nil {
				return err
			}
		}
		for _, i := range changed {
			if err := repo.UpdateName(ctx, ids[i], names[i]); err != nil {
				return err
			}
		}

		updated = make([]models.Habit, len(ids))
		for i, id := range ids {
			habit := current[id]
			habit.Name = names[i]
			updated[i] = habit
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apierrors.Wrap(apierrors.ErrCodeConflict, "Habit names already exist", err)
		}
		return nil, storageError(s.log, "update habits", err)
	}

	return inLocation(updated, s.clock.Now().Location()), nil
}

// DeleteHabit deletes a single habit and its completions
func (s *HabitService) DeleteHabit(ctx context.Context, studyID, habitID uuid.UUID) error {
	return s.DeleteHabits(ctx, studyID, []uuid.UUID{habitID})
}

// DeleteHabits deletes habits of a study together with their completions.
// Nothing is deleted unless every habit belongs to the study.
func (s *HabitService) DeleteHabits(ctx context.Context, studyID uuid.UUID, habitIDs []uuid.UUID) error {
	if len(habitIDs) == 0 {
		return ErrNoHabits
	}

	ids := uniqueIDs(habitIDs)

	if err := s.guard.EnsureStudyExists(ctx, studyID); err != nil {
		return err
	}

	err := s.habitRepo.Transaction(ctx, func(repo repository.HabitRepository) error {
		habits, err := repo.FindByIDs(ctx, studyID, ids)
		if err != nil {
			return err
		}
		if len(habits) != len(ids) {
			return ErrHabitNotFound
		}

		return repo.Delete(ctx, ids)
	})
	if err != nil {
		return storageError(s.log, "delete habits", err)
	}

	return nil
}

// CompleteHabit records today's completion of a habit
func (s *HabitService) CompleteHabit(ctx context.Context, studyID, habitID uuid.UUID) (*models.CompletedHabit, error) {
	if err := s.guard.EnsureStudyExists(ctx, studyID); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	today := utils.DayBounds(now)

	var completion *models.CompletedHabit
	err := s.habitRepo.Transaction(ctx, func(repo repository.HabitRepository) error {
		if _, err := repo.FindByID(ctx, studyID, habitID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrHabitNotFound
			}
			return err
		}

		_, err := repo.FindCompletion(ctx, studyID, habitID, today.Start, today.End)
		if err == nil {
			return ErrHabitAlreadyCompleted
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		completion = &models.CompletedHabit{
			HabitID:     habitID,
			StudyID:     studyID,
			CompletedAt: now.UTC(),
			CompletedOn: utils.DayKey(now),
		}
		return repo.CreateCompletion(ctx, completion)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrHabitAlreadyCompleted
		}
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return nil, ErrHabitNotFound
		}
		return nil, storageError(s.log, "complete habit", err)
	}

	completion.CompletedAt = completion.CompletedAt.In(now.Location())
	return completion, nil
}

// DeleteCompletedHabit reverts today's completion of a habit. Completions
// from earlier days are never touched.
func (s *HabitService) DeleteCompletedHabit(ctx context.Context, studyID, habitID uuid.UUID) error {
	if err := s.guard.EnsureStudyExists(ctx, studyID); err != nil {
		return err
	}

	today := utils.DayBounds(s.clock.Now())

	err := s.habitRepo.Transaction(ctx, func(repo repository.HabitRepository) error {
		if _, err := repo.FindByID(ctx, studyID, habitID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrHabitNotFound
			}
			return err
		}

		completion, err := repo.FindCompletion(ctx, studyID, habitID, today.Start, today.End)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCompletionNotFound
			}
			return err
		}

		return repo.DeleteCompletion(ctx, completion.ID)
	})
	if err != nil {
		return storageError(s.log, "delete completion", err)
	}

	return nil
}

// SuggestHabits asks the configured suggester for habit names that fit goal.
// Names already used in the study are left out.
func (s *HabitService) SuggestHabits(ctx context.Context, studyID uuid.UUID, goal string) ([]string, error) {
	if s.suggester == nil {
		return nil, ErrAIServiceNotConfigured
	}

	goal = strings.TrimSpace(goal)
	if goal == "" {
		return nil, apierrors.NewBadRequest("Goal cannot be empty")
	}

	if err := s.guard.EnsureStudyExists(ctx, studyID); err != nil {
		return nil, err
	}

	existing, err := s.habitRepo.ListByStudy(ctx, studyID)
	if err != nil {
		return nil, storageError(s.log, "list habits", err)
	}

	suggested, err := s.suggester.SuggestHabitNames(ctx, goal)
	if err != nil {
		s.log.Warn("Habit suggestion failed", zap.Stringer("study_id", studyID), zap.Error(err))
		return nil, apierrors.Wrap(apierrors.ErrCodeServiceUnavailable, "Failed to generate habit suggestions", err)
	}

	taken := make(map[string]struct{}, len(existing)+len(suggested))
	for _, habit := range existing {
		taken[habit.Name] = struct{}{}
	}

	names := make([]string, 0, len(suggested))
	for _, name := range suggested {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := taken[name]; ok {
			continue
		}
		taken[name] = struct{}{}
		names = append(names, name)
		if len(names) == constants.MaxSuggestedHabits {
			break
		}
	}

	return names, nil
}

func normalizeHabitNames(names []string) ([]string, error) {
	trimmed := make([]string, len(names))
	for i, name := range names {
		trimmed[i] = strings.TrimSpace(name)
		if trimmed[i] == "" {
			return nil, ErrHabitNameRequired
		}
	}
	return trimmed, nil
}

// duplicates returns each name that appears more than once, in first-seen order
func duplicates(names []string) []string {
	counts := make(map[string]int, len(names))
	var dups []string
	for _, name := range names {
		counts[name]++
		if counts[name] == 2 {
			dups = append(dups, name)
		}
	}
	return dups
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	unique := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	return unique
}

func habitNames(habits []models.Habit) []string {
	names := make([]string, len(habits))
	for i, habit := range habits {
		names[i] = habit.Name
	}
	return names
}

func habitNameConflict(names []string) *apierrors.APIError {
	return apierrors.NewAPIErrorWithDetails(
		apierrors.ErrCodeConflict,
		fmt.Sprintf("Habit names already exist: %s", strings.Join(names, ", ")),
		map[string][]string{"names": names},
	)
}

// inLocation converts the habits' timestamps to loc
func inLocation(habits []models.Habit, loc *time.Location) []models.Habit {
	for i := range habits {
		habits[i].CreatedAt = habits[i].CreatedAt.In(loc)
	}
	return habits
}
