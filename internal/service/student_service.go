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
	// ErrStudentNotFound indicates the student lookup failed.
	ErrStudentNotFound = errors.New("student not found")
	// ErrProfileNumberTaken indicates the profile number is already assigned.
	ErrProfileNumberTaken = errors.New("a profile with this number already exists")
)

// StudentService manages students, profiles and enrollments.
type StudentService interface {
	ListStudents(ctx context.Context) ([]dto.StudentResponse, error)
	CreateStudent(ctx context.Context, req dto.StudentCreateRequest) (dto.StudentResponse, error)
	Enroll(ctx context.Context, req dto.EnrollmentRequest) error
	Unenroll(ctx context.Context, req dto.EnrollmentRequest) error
}

type studentService struct {
	students   repository.StudentRepository
	subjects   repository.SubjectRepository
	validator  *validator.Validate
	dashboards DashboardInvalidator
	logger     zerolog.Logger
}

// NewStudentService constructs the student service. dashboards may be nil.
func NewStudentService(
	students repository.StudentRepository,
	subjects repository.SubjectRepository,
	validate *validator.Validate,
	dashboards DashboardInvalidator,
	logger zerolog.Logger,
) StudentService {
	return &studentService{
		students:   students,
		subjects:   subjects,
		validator:  validate,
		dashboards: dashboards,
		logger:     logger.With().Str("component", "student_service").Logger(),
	}
}

func (s *studentService) invalidateDashboard(ctx context.Context) {
	if s.dashboards != nil {
		s.dashboards.InvalidateAdminDashboard(ctx)
	}
}

func (s *studentService) ListStudents(ctx context.Context) ([]dto.StudentResponse, error) {
	students, err := s.students.List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.StudentResponse, 0, len(students))
	for _, student := range students {
		items = append(items, dto.NewStudentResponse(student))
	}
	return items, nil
}

func (s *studentService) CreateStudent(ctx context.Context, req dto.StudentCreateRequest) (dto.StudentResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.StudentResponse{}, err
	}

	if req.ProfileNumber != nil {
		taken, err := s.students.ProfileNumberExists(ctx, *req.ProfileNumber)
		if err != nil {
			return dto.StudentResponse{}, err
		}
		if taken {
			return dto.StudentResponse{}, ErrProfileNumberTaken
		}
	}

	student := models.Student{
		Name:     strings.TrimSpace(req.Name),
		Location: strings.TrimSpace(req.Location),
	}
	if err := s.students.Create(ctx, &student); err != nil {
		return dto.StudentResponse{}, err
	}

	if req.ProfileNumber != nil {
		profile := models.StudentProfile{
			StudentID:     student.ID,
			Bio:           strings.TrimSpace(req.Bio),
			ProfileNumber: *req.ProfileNumber,
		}
		if err := s.students.CreateProfile(ctx, &profile); err != nil {
			return dto.StudentResponse{}, err
		}
		student.Profile = &profile
	}

	s.invalidateDashboard(ctx)
	s.logger.Info().Uint("student_id", student.ID).Str("name", student.Name).Msg("student created")
	return dto.NewStudentResponse(student), nil
}

func (s *studentService) Enroll(ctx context.Context, req dto.EnrollmentRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return err
	}
	student, subject, err := s.resolvePair(ctx, req)
	if err != nil {
		return err
	}
	if err := s.students.Enroll(ctx, &student, &subject); err != nil {
		return err
	}
	s.invalidateDashboard(ctx)
	return nil
}

func (s *studentService) Unenroll(ctx context.Context, req dto.EnrollmentRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return err
	}
	student, subject, err := s.resolvePair(ctx, req)
	if err != nil {
		return err
	}
	if err := s.students.Unenroll(ctx, &student, &subject); err != nil {
		return err
	}
	s.invalidateDashboard(ctx)
	return nil
}

func (s *studentService) resolvePair(ctx context.Context, req dto.EnrollmentRequest) (models.Student, models.Subject, error) {
	student, err := s.students.GetByID(ctx, req.StudentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Student{}, models.Subject{}, ErrStudentNotFound
		}
		return models.Student{}, models.Subject{}, err
	}
	subject, err := s.subjects.GetByID(ctx, req.SubjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Student{}, models.Subject{}, ErrSubjectNotFound
		}
		return models.Student{}, models.Subject{}, err
	}
	return student, subject, nil
}
