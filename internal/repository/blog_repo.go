package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/learnhub-io/learnhub-api/internal/models"
)

// BlogFilter narrows public blog listing queries.
type BlogFilter struct {
	Search   string
	Category string
	Page     int
	PageSize int
}

// BlogRepository persists blog posts and their comments.
type BlogRepository interface {
	ListPublished(ctx context.Context, filter BlogFilter) ([]models.Blog, int64, error)
	ListAll(ctx context.Context) ([]models.Blog, error)
	GetBySlug(ctx context.Context, slug string, publishedOnly bool) (models.Blog, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	IncrementViews(ctx context.Context, id uint) error
	Create(ctx context.Context, blog *models.Blog) error
	Save(ctx context.Context, blog *models.Blog) error
	Delete(ctx context.Context, id uint) error
	CommentCounts(ctx context.Context, blogIDs []uint) (map[uint]int64, error)
	CreateComment(ctx context.Context, comment *models.BlogComment) error
	ListComments(ctx context.Context, blogID uint) ([]models.BlogComment, error)
}

type blogRepository struct {
	db *gorm.DB
}

// NewBlogRepository constructs the repository implementation.
func NewBlogRepository(db *gorm.DB) BlogRepository {
	return &blogRepository{db: db}
}

func (r *blogRepository) ListPublished(ctx context.Context, filter BlogFilter) ([]models.Blog, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Blog{}).
		Where("status = ?", models.BlogStatusPublished)

	if search := strings.ToLower(strings.TrimSpace(filter.Search)); search != "" {
		pattern := "%" + search + "%"
		query = query.Where(
			"LOWER(title) LIKE ? OR LOWER(content) LIKE ? OR LOWER(excerpt) LIKE ?",
			pattern, pattern, pattern,
		)
	}
	if category := strings.ToLower(strings.TrimSpace(filter.Category)); category != "" {
		query = query.Where("category = ?", category)
	}

	countQuery := query.Session(&gorm.Session{})
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.PageSize > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		query = query.Offset((page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var blogs []models.Blog
	err := query.Preload("Author").Order("published_at DESC").Find(&blogs).Error
	return blogs, total, err
}

func (r *blogRepository) ListAll(ctx context.Context) ([]models.Blog, error) {
	var blogs []models.Blog
	err := r.db.WithContext(ctx).Preload("Author").Order("created_at DESC").Find(&blogs).Error
	return blogs, err
}

func (r *blogRepository) GetBySlug(ctx context.Context, slug string, publishedOnly bool) (models.Blog, error) {
	var blog models.Blog
	query := r.db.WithContext(ctx).Preload("Author").Where("slug = ?", slug)
	if publishedOnly {
		query = query.Where("status = ?", models.BlogStatusPublished)
	}
	err := query.First(&blog).Error
	return blog, err
}

func (r *blogRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Blog{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}

// IncrementViews bumps the counter with a SQL expression so each call adds
// exactly one regardless of the in-memory value. Concurrent increments are
// not otherwise guarded.
func (r *blogRepository) IncrementViews(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Model(&models.Blog{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1)).Error
}

func (r *blogRepository) Create(ctx context.Context, blog *models.Blog) error {
	return r.db.WithContext(ctx).Create(blog).Error
}

func (r *blogRepository) Save(ctx context.Context, blog *models.Blog) error {
	return r.db.WithContext(ctx).Save(blog).Error
}

func (r *blogRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Where("blog_id = ?", id).Delete(&models.BlogComment{}).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Delete(&models.Blog{}, id).Error
}

func (r *blogRepository) CommentCounts(ctx context.Context, blogIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(blogIDs))
	if len(blogIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		BlogID uint
		Total  int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.BlogComment{}).
		Select("blog_id, COUNT(*) AS total").
		Where("blog_id IN ?", blogIDs).
		Group("blog_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.BlogID] = row.Total
	}
	return counts, nil
}

func (r *blogRepository) CreateComment(ctx context.Context, comment *models.BlogComment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *blogRepository) ListComments(ctx context.Context, blogID uint) ([]models.BlogComment, error) {
	var comments []models.BlogComment
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("blog_id = ?", blogID).
		Order("created_at DESC").
		Find(&comments).Error
	return comments, err
}
