package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/learnhub-io/learnhub-api/internal/models"
)

// SubjectStatsRow carries the aggregates computed per subject.
type SubjectStatsRow struct {
	SubjectID    uint
	ReviewCount  int64
	AvgRating    *float64
	StudentCount int64
}

// SubjectRepository persists subjects and answers their aggregate queries.
type SubjectRepository interface {
	ListWithStats(ctx context.Context) ([]models.Subject, map[uint]SubjectStatsRow, error)
	List(ctx context.Context) ([]models.Subject, error)
	GetByID(ctx context.Context, id uint) (models.Subject, error)
	StatsFor(ctx context.Context, subjectID uint) (SubjectStatsRow, error)
	RecentReviews(ctx context.Context, subjectID uint, limit int) ([]models.Review, error)
	EnrolledStudents(ctx context.Context, subjectID uint, limit int) ([]models.Student, error)
	Create(ctx context.Context, subject *models.Subject) error
	Save(ctx context.Context, subject *models.Subject) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
}

type subjectRepository struct {
	db *gorm.DB
}

// NewSubjectRepository constructs the repository implementation.
func NewSubjectRepository(db *gorm.DB) SubjectRepository {
	return &subjectRepository{db: db}
}

func (r *subjectRepository) List(ctx context.Context) ([]models.Subject, error) {
	var subjects []models.Subject
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&subjects).Error
	return subjects, err
}

// ListWithStats loads every subject newest-first together with its review
// count, mean rating and distinct enrollment count. Aggregates come from two
// grouped queries merged in memory, so the cost stays constant regardless of
// how many subjects exist.
func (r *subjectRepository) ListWithStats(ctx context.Context) ([]models.Subject, map[uint]SubjectStatsRow, error) {
	subjects, err := r.List(ctx)
	if err != nil {
		return nil, nil, err
	}

	stats := make(map[uint]SubjectStatsRow, len(subjects))

	var reviewRows []struct {
		SubjectID   uint
		ReviewCount int64
		AvgRating   *float64
	}
	err = r.db.WithContext(ctx).
		Model(&models.Review{}).
		Select("subject_id, COUNT(*) AS review_count, AVG(rating) AS avg_rating").
		Group("subject_id").
		Scan(&reviewRows).Error
	if err != nil {
		return nil, nil, err
	}
	for _, row := range reviewRows {
		entry := stats[row.SubjectID]
		entry.SubjectID = row.SubjectID
		entry.ReviewCount = row.ReviewCount
		entry.AvgRating = row.AvgRating
		stats[row.SubjectID] = entry
	}

	var enrollmentRows []struct {
		SubjectID    uint
		StudentCount int64
	}
	err = r.db.WithContext(ctx).
		Table("subject_enrollments").
		Select("subject_id, COUNT(DISTINCT student_id) AS student_count").
		Group("subject_id").
		Scan(&enrollmentRows).Error
	if err != nil {
		return nil, nil, err
	}
	for _, row := range enrollmentRows {
		entry := stats[row.SubjectID]
		entry.SubjectID = row.SubjectID
		entry.StudentCount = row.StudentCount
		stats[row.SubjectID] = entry
	}

	return subjects, stats, nil
}

func (r *subjectRepository) GetByID(ctx context.Context, id uint) (models.Subject, error) {
	var subject models.Subject
	err := r.db.WithContext(ctx).First(&subject, id).Error
	return subject, err
}

func (r *subjectRepository) StatsFor(ctx context.Context, subjectID uint) (SubjectStatsRow, error) {
	row := SubjectStatsRow{SubjectID: subjectID}

	var reviewRow struct {
		ReviewCount int64
		AvgRating   *float64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Select("COUNT(*) AS review_count, AVG(rating) AS avg_rating").
		Where("subject_id = ?", subjectID).
		Scan(&reviewRow).Error
	if err != nil {
		return row, err
	}
	row.ReviewCount = reviewRow.ReviewCount
	row.AvgRating = reviewRow.AvgRating

	err = r.db.WithContext(ctx).
		Table("subject_enrollments").
		Where("subject_id = ?", subjectID).
		Distinct("student_id").
		Count(&row.StudentCount).Error
	return row, err
}

func (r *subjectRepository) RecentReviews(ctx context.Context, subjectID uint, limit int) ([]models.Review, error) {
	var reviews []models.Review
	query := r.db.WithContext(ctx).
		Preload("Reviewer").
		Where("subject_id = ?", subjectID).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&reviews).Error
	return reviews, err
}

func (r *subjectRepository) EnrolledStudents(ctx context.Context, subjectID uint, limit int) ([]models.Student, error) {
	var students []models.Student
	query := r.db.WithContext(ctx).
		Model(&models.Student{}).
		Joins("JOIN subject_enrollments ON subject_enrollments.student_id = students.id").
		Where("subject_enrollments.subject_id = ?", subjectID).
		Order("students.name ASC").
		Preload("Profile")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&students).Error
	return students, err
}

func (r *subjectRepository) Create(ctx context.Context, subject *models.Subject) error {
	return r.db.WithContext(ctx).Create(subject).Error
}

func (r *subjectRepository) Save(ctx context.Context, subject *models.Subject) error {
	return r.db.WithContext(ctx).Save(subject).Error
}

func (r *subjectRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Subject{}, id).Error
}

func (r *subjectRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Subject{}).Count(&count).Error
	return count, err
}
