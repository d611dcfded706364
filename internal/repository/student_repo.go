package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/learnhub-io/learnhub-api/internal/models"
)

// StudentRepository persists students, their profiles and enrollments.
type StudentRepository interface {
	Create(ctx context.Context, student *models.Student) error
	CreateProfile(ctx context.Context, profile *models.StudentProfile) error
	GetByID(ctx context.Context, id uint) (models.Student, error)
	List(ctx context.Context) ([]models.Student, error)
	ProfileNumberExists(ctx context.Context, number int) (bool, error)
	Enroll(ctx context.Context, student *models.Student, subject *models.Subject) error
	Unenroll(ctx context.Context, student *models.Student, subject *models.Subject) error
	Count(ctx context.Context) (int64, error)
}

type studentRepository struct {
	db *gorm.DB
}

// NewStudentRepository constructs the repository implementation.
func NewStudentRepository(db *gorm.DB) StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) Create(ctx context.Context, student *models.Student) error {
	return r.db.WithContext(ctx).Create(student).Error
}

func (r *studentRepository) CreateProfile(ctx context.Context, profile *models.StudentProfile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

func (r *studentRepository) GetByID(ctx context.Context, id uint) (models.Student, error) {
	var student models.Student
	err := r.db.WithContext(ctx).Preload("Profile").First(&student, id).Error
	return student, err
}

func (r *studentRepository) List(ctx context.Context) ([]models.Student, error) {
	var students []models.Student
	err := r.db.WithContext(ctx).Preload("Profile").Order("name ASC").Find(&students).Error
	return students, err
}

func (r *studentRepository) ProfileNumberExists(ctx context.Context, number int) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.StudentProfile{}).
		Where("profile_number = ?", number).
		Count(&count).Error
	return count > 0, err
}

func (r *studentRepository) Enroll(ctx context.Context, student *models.Student, subject *models.Subject) error {
	return r.db.WithContext(ctx).Model(student).Association("Subjects").Append(subject)
}

func (r *studentRepository) Unenroll(ctx context.Context, student *models.Student, subject *models.Subject) error {
	return r.db.WithContext(ctx).Model(student).Association("Subjects").Delete(subject)
}

func (r *studentRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Student{}).Count(&count).Error
	return count, err
}
