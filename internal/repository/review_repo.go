package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/learnhub-io/learnhub-api/internal/models"
)

// ReviewRepository persists subject reviews.
type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	Exists(ctx context.Context, subjectID, reviewerID uint) (bool, error)
	ListRecent(ctx context.Context, limit int) ([]models.Review, error)
	Count(ctx context.Context) (int64, error)
}

type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository constructs the repository implementation.
func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *reviewRepository) Exists(ctx context.Context, subjectID, reviewerID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Where("subject_id = ? AND reviewer_id = ?", subjectID, reviewerID).
		Count(&count).Error
	return count > 0, err
}

func (r *reviewRepository) ListRecent(ctx context.Context, limit int) ([]models.Review, error) {
	var reviews []models.Review
	query := r.db.WithContext(ctx).
		Preload("Reviewer").
		Preload("Subject").
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&reviews).Error
	return reviews, err
}

func (r *reviewRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Review{}).Count(&count).Error
	return count, err
}
