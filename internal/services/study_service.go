package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/yukikurage/study-tracker-api/internal/constants"
	apierrors "github.com/yukikurage/study-tracker-api/internal/errors"
	"github.com/yukikurage/study-tracker-api/internal/models"
	"github.com/yukikurage/study-tracker-api/internal/repository"
	"github.com/yukikurage/study-tracker-api/internal/utils"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrStudyNameRequired     = apierrors.NewBadRequest("Study name is required")
	ErrStudyNicknameRequired = apierrors.NewBadRequest("Nickname is required")
	ErrPasswordTooShort      = apierrors.NewBadRequest(fmt.Sprintf("Password must be at least %d characters", constants.MinPasswordLength))
	ErrInvalidKeyword        = apierrors.NewBadRequest(fmt.Sprintf("Keyword must be at most %d letters, digits or spaces", constants.MaxKeywordLength))
	ErrInvalidOrderBy        = apierrors.NewBadRequest("orderBy must be createdAt or points")
	ErrInvalidOrder          = apierrors.NewBadRequest("order must be asc or desc")
	ErrTooManyRecentStudies  = apierrors.NewBadRequest(fmt.Sprintf("At most %d recent studies can be requested", constants.MaxRecentStudies))
	ErrDuplicateStudyIDs     = apierrors.NewBadRequest("Study IDs must be unique")
)

// StudyService handles study business logic
type StudyService struct {
	studyRepo repository.StudyRepository
	log       *zap.Logger
}

// NewStudyService creates a new StudyService
func NewStudyService(studyRepo repository.StudyRepository, log *zap.Logger) *StudyService {
	return &StudyService{
		studyRepo: studyRepo,
		log:       log,
	}
}

// CreateStudyInput represents input for creating a study
type CreateStudyInput struct {
	Name       string
	Nickname   string
	Intro      string
	Background string
	Password   string
}

// UpdateStudyInput represents a partial study update. Nil fields are left as is.
type UpdateStudyInput struct {
	Name       *string
	Nickname   *string
	Intro      *string
	Background *string
	Password   *string
}

// ListStudiesInput represents paging, ordering and search options
type ListStudiesInput struct {
	Keyword string
	Page    int
	Take    int
	OrderBy string
	Order   string
}

// CreateStudy hashes the password and creates the study with an empty focus
func (s *StudyService) CreateStudy(ctx context.Context, input CreateStudyInput) (*models.Study, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrStudyNameRequired
	}
	nickname := strings.TrimSpace(input.Nickname)
	if nickname == "" {
		return nil, ErrStudyNicknameRequired
	}

	hash, err := hashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	study := &models.Study{
		Name:         name,
		Nickname:     nickname,
		Intro:        strings.TrimSpace(input.Intro),
		Background:   strings.TrimSpace(input.Background),
		PasswordHash: hash,
	}

	if err := s.studyRepo.CreateWithFocus(ctx, study); err != nil {
		return nil, storageError(s.log, "create study", err)
	}

	s.log.Info("Created study", zap.Stringer("study_id", study.ID))
	return study, nil
}

// ListStudies returns a page of studies and the total count
func (s *StudyService) ListStudies(ctx context.Context, input ListStudiesInput) ([]models.Study, int64, error) {
	filter, err := studyFilter(input)
	if err != nil {
		return nil, 0, err
	}

	studies, total, err := s.studyRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, storageError(s.log, "list studies", err)
	}

	return studies, total, nil
}

// SearchStudies lists studies whose name, nickname or intro contain the
// keyword, ignoring case
func (s *StudyService) SearchStudies(ctx context.Context, input ListStudiesInput) ([]models.Study, int64, error) {
	input.Keyword = strings.TrimSpace(input.Keyword)
	if !validKeyword(input.Keyword) {
		return nil, 0, ErrInvalidKeyword
	}
	return s.ListStudies(ctx, input)
}

// GetRecentStudies returns the existing studies among the caller's recently
// viewed IDs, newest first. Unknown IDs are ignored.
func (s *StudyService) GetRecentStudies(ctx context.Context, ids []uuid.UUID) ([]models.Study, error) {
	if len(ids) > constants.MaxRecentStudies {
		return nil, ErrTooManyRecentStudies
	}
	if len(uniqueIDs(ids)) != len(ids) {
		return nil, ErrDuplicateStudyIDs
	}

	studies, err := s.studyRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, storageError(s.log, "find studies", err)
	}
	return studies, nil
}

// GetStudy returns a study with its focus points
func (s *StudyService) GetStudy(ctx context.Context, id uuid.UUID) (*models.Study, error) {
	study, err := s.studyRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudyNotFound
		}
		return nil, storageError(s.log, "find study", err)
	}
	return study, nil
}

// UpdateStudy applies a partial update and returns the updated study
func (s *StudyService) UpdateStudy(ctx context.Context, id uuid.UUID, input UpdateStudyInput) (*models.Study, error) {
	if _, err := s.GetStudy(ctx, id); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrStudyNameRequired
		}
		fields["name"] = name
	}
	if input.Nickname != nil {
		nickname := strings.TrimSpace(*input.Nickname)
		if nickname == "" {
			return nil, ErrStudyNicknameRequired
		}
		fields["nickname"] = nickname
	}
	if input.Intro != nil {
		fields["intro"] = strings.TrimSpace(*input.Intro)
	}
	if input.Background != nil {
		fields["background"] = strings.TrimSpace(*input.Background)
	}
	if input.Password != nil {
		hash, err := hashPassword(*input.Password)
		if err != nil {
			return nil, err
		}
		fields["password_hash"] = hash
	}

	if err := s.studyRepo.Update(ctx, id, fields); err != nil {
		return nil, storageError(s.log, "update study", err)
	}

	return s.GetStudy(ctx, id)
}

// DeleteStudy deletes a study with its focus, habits and completions
func (s *StudyService) DeleteStudy(ctx context.Context, id uuid.UUID) error {
	if err := s.studyRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStudyNotFound
		}
		return storageError(s.log, "delete study", err)
	}

	s.log.Info("Deleted study", zap.Stringer("study_id", id))
	return nil
}

// VerifyStudyPassword checks password against the study's hash
func (s *StudyService) VerifyStudyPassword(ctx context.Context, id uuid.UUID, password string) error {
	study, err := s.GetStudy(ctx, id)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(study.PasswordHash), []byte(password)); err != nil {
		return ErrInvalidStudyPassword
	}
	return nil
}

func hashPassword(password string) (string, error) {
	if utf8.RuneCountInString(password) < constants.MinPasswordLength {
		return "", ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", apierrors.Wrap(apierrors.ErrCodeInternalError, "Failed to hash password", err)
	}
	return string(hash), nil
}

func studyFilter(input ListStudiesInput) (repository.StudyFilter, error) {
	filter := repository.StudyFilter{
		Keyword:    input.Keyword,
		OrderBy:    repository.StudyOrderByCreatedAt,
		Desc:       true,
		Pagination: utils.NewPaginationParams(input.Page, input.Take),
	}

	switch input.OrderBy {
	case "", repository.StudyOrderByCreatedAt:
	case repository.StudyOrderByPoints:
		filter.OrderBy = repository.StudyOrderByPoints
	default:
		return filter, ErrInvalidOrderBy
	}

	switch strings.ToLower(input.Order) {
	case "", "desc":
	case "asc":
		filter.Desc = false
	default:
		return filter, ErrInvalidOrder
	}

	return filter, nil
}

func validKeyword(keyword string) bool {
	if utf8.RuneCountInString(keyword) > constants.MaxKeywordLength {
		return false
	}
	for _, r := range keyword {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != ' ' {
			return false
		}
	}
	return true
}
