package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/learnhub-io/learnhub-api/internal/dto"
	"github.com/learnhub-io/learnhub-api/internal/models"
	"github.com/learnhub-io/learnhub-api/internal/repository"
)

var (
	// ErrSubjectNotFound indicates the subject lookup failed.
	ErrSubjectNotFound = errors.New("subject not found")
	// ErrDuplicateReview indicates the reviewer already reviewed this subject.
	ErrDuplicateReview = errors.New("you have already reviewed this subject")
)

// Listing limits on the subject detail page.
const (
	detailReviewLimit  = 5
	detailStudentLimit = 10
)

// SubjectService exposes subject listings, detail pages and reviews.
type SubjectService interface {
	ListSubjects(ctx context.Context) ([]dto.SubjectResponse, error)
	SubjectDetail(ctx context.Context, id uint) (dto.SubjectDetailResponse, error)
	CreateSubject(ctx context.Context, req dto.SubjectCreateRequest) (dto.SubjectResponse, error)
	UpdateSubject(ctx context.Context, id uint, req dto.SubjectUpdateRequest) (dto.SubjectResponse, error)
	DeleteSubject(ctx context.Context, id uint) error
	CreateReview(ctx context.Context, reviewerID uint, req dto.ReviewCreateRequest) (dto.ReviewResponse, error)
}

type subjectService struct {
	subjects   repository.SubjectRepository
	reviews    repository.ReviewRepository
	users      repository.UserRepository
	validator  *validator.Validate
	dashboards DashboardInvalidator
	logger     zerolog.Logger
}

// NewSubjectService constructs the subject service. dashboards may be nil.
func NewSubjectService(
	subjects repository.SubjectRepository,
	reviews repository.ReviewRepository,
	users repository.UserRepository,
	validate *validator.Validate,
	dashboards DashboardInvalidator,
	logger zerolog.Logger,
) SubjectService {
	return &subjectService{
		subjects:   subjects,
		reviews:    reviews,
		users:      users,
		validator:  validate,
		dashboards: dashboards,
		logger:     logger.With().Str("component", "subject_service").Logger(),
	}
}

func (s *subjectService) invalidateDashboard(ctx context.Context) {
	if s.dashboards != nil {
		s.dashboards.InvalidateAdminDashboard(ctx)
	}
}

func (s *subjectService) ListSubjects(ctx context.Context) ([]dto.SubjectResponse, error) {
	subjects, stats, err := s.subjects.ListWithStats(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]dto.SubjectResponse, 0, len(subjects))
	for _, subject := range subjects {
		items = append(items, dto.NewSubjectResponse(subject, statsToDTO(stats[subject.ID])))
	}
	return items, nil
}

func (s *subjectService) SubjectDetail(ctx context.Context, id uint) (dto.SubjectDetailResponse, error) {
	subject, err := s.subjects.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubjectDetailResponse{}, ErrSubjectNotFound
		}
		return dto.SubjectDetailResponse{}, err
	}

	stats, err := s.subjects.StatsFor(ctx, subject.ID)
	if err != nil {
		return dto.SubjectDetailResponse{}, err
	}

	reviews, err := s.subjects.RecentReviews(ctx, subject.ID, detailReviewLimit)
	if err != nil {
		return dto.SubjectDetailResponse{}, err
	}

	students, err := s.subjects.EnrolledStudents(ctx, subject.ID, detailStudentLimit)
	if err != nil {
		return dto.SubjectDetailResponse{}, err
	}

	reviewItems := make([]dto.ReviewResponse, 0, len(reviews))
	for _, review := range reviews {
		reviewItems = append(reviewItems, dto.NewReviewResponse(review))
	}
	studentItems := make([]dto.StudentResponse, 0, len(students))
	for _, student := range students {
		studentItems = append(studentItems, dto.NewStudentResponse(student))
	}

	return dto.SubjectDetailResponse{
		Subject:  dto.NewSubjectResponse(subject, statsToDTO(stats)),
		Reviews:  reviewItems,
		Students: studentItems,
	}, nil
}

func (s *subjectService) CreateSubject(ctx context.Context, req dto.SubjectCreateRequest) (dto.SubjectResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.SubjectResponse{}, err
	}

	subject := models.Subject{
		Name:        strings.TrimSpace(req.Name),
		ImageURL:    strings.TrimSpace(req.ImageURL),
		Type:        models.NormalizeSubjectType(req.Type),
		Description: strings.TrimSpace(req.Description),
	}
	if err := s.subjects.Create(ctx, &subject); err != nil {
		return dto.SubjectResponse{}, err
	}

	s.invalidateDashboard(ctx)
	s.logger.Info().Uint("subject_id", subject.ID).Str("name", subject.Name).Msg("subject created")
	return dto.NewSubjectResponse(subject, dto.SubjectStats{}), nil
}

func (s *subjectService) UpdateSubject(ctx context.Context, id uint, req dto.SubjectUpdateRequest) (dto.SubjectResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.SubjectResponse{}, err
	}

	subject, err := s.subjects.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubjectResponse{}, ErrSubjectNotFound
		}
		return dto.SubjectResponse{}, err
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		subject.Name = name
	}
	if image := strings.TrimSpace(req.ImageURL); image != "" {
		subject.ImageURL = image
	}
	if req.Type != "" {
		subject.Type = models.NormalizeSubjectType(req.Type)
	}
	if description := strings.TrimSpace(req.Description); description != "" {
		subject.Description = description
	}

	if err := s.subjects.Save(ctx, &subject); err != nil {
		return dto.SubjectResponse{}, err
	}
	s.invalidateDashboard(ctx)

	stats, err := s.subjects.StatsFor(ctx, subject.ID)
	if err != nil {
		return dto.SubjectResponse{}, err
	}
	return dto.NewSubjectResponse(subject, statsToDTO(stats)), nil
}

func (s *subjectService) DeleteSubject(ctx context.Context, id uint) error {
	if _, err := s.subjects.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSubjectNotFound
		}
		return err
	}
	if err := s.subjects.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateDashboard(ctx)
	return nil
}

func (s *subjectService) CreateReview(ctx context.Context, reviewerID uint, req dto.ReviewCreateRequest) (dto.ReviewResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.ReviewResponse{}, err
	}

	if _, err := s.subjects.GetByID(ctx, req.SubjectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ReviewResponse{}, ErrSubjectNotFound
		}
		return dto.ReviewResponse{}, err
	}

	// One review per (subject, reviewer); the unique index backs this up.
	if exists, err := s.reviews.Exists(ctx, req.SubjectID, reviewerID); err != nil {
		return dto.ReviewResponse{}, err
	} else if exists {
		return dto.ReviewResponse{}, ErrDuplicateReview
	}

	review := models.Review{
		SubjectID:  req.SubjectID,
		ReviewerID: reviewerID,
		Rating:     req.Rating,
		Comment:    strings.TrimSpace(req.Comment),
	}
	if err := s.reviews.Create(ctx, &review); err != nil {
		return dto.ReviewResponse{}, err
	}

	if reviewer, err := s.users.GetByID(ctx, reviewerID); err == nil {
		review.Reviewer = &reviewer
	}
	s.invalidateDashboard(ctx)

	s.logger.Info().Uint("subject_id", req.SubjectID).Uint("reviewer_id", reviewerID).Int("rating", req.Rating).Msg("review created")
	return dto.NewReviewResponse(review), nil
}

func statsToDTO(row repository.SubjectStatsRow) dto.SubjectStats {
	return dto.SubjectStats{
		ReviewCount:  row.ReviewCount,
		AvgRating:    row.AvgRating,
		StudentCount: row.StudentCount,
	}
}
