package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/learnhub-io/learnhub-api/internal/dto"
	"github.com/learnhub-io/learnhub-api/internal/models"
	"github.com/learnhub-io/learnhub-api/internal/observability"
	"github.com/learnhub-io/learnhub-api/internal/repository"
)

var (
	// ErrBlogNotFound indicates the blog lookup failed.
	ErrBlogNotFound = errors.New("blog not found")
	// ErrBlogSlugTaken indicates the requested slug is already in use.
	ErrBlogSlugTaken = errors.New("a blog with this slug already exists")
)

// BlogService exposes the public read path and the superuser write path.
type BlogService interface {
	ListPublished(ctx context.Context, req dto.BlogListRequest) (dto.BlogListResult, error)
	GetPublished(ctx context.Context, slug string) (dto.BlogDetailResponse, error)
	ListAll(ctx context.Context) ([]dto.BlogResponse, error)
	Create(ctx context.Context, authorID uint, req dto.BlogCreateRequest) (dto.BlogResponse, error)
	Update(ctx context.Context, slug string, req dto.BlogUpdateRequest) (dto.BlogResponse, error)
	Delete(ctx context.Context, slug string) error
	AddComment(ctx context.Context, slug string, userID uint, req dto.BlogCommentCreateRequest) (dto.BlogCommentResponse, error)
}

type blogService struct {
	blogs     repository.BlogRepository
	users     repository.UserRepository
	validator *validator.Validate
	policy    *bluemonday.Policy
	logger    zerolog.Logger
}

// NewBlogService constructs the blog service.
func NewBlogService(
	blogs repository.BlogRepository,
	users repository.UserRepository,
	validate *validator.Validate,
	logger zerolog.Logger,
) BlogService {
	return &blogService{
		blogs:     blogs,
		users:     users,
		validator: validate,
		policy:    bluemonday.UGCPolicy(),
		logger:    logger.With().Str("component", "blog_service").Logger(),
	}
}

func (s *blogService) ListPublished(ctx context.Context, req dto.BlogListRequest) (dto.BlogListResult, error) {
	filter := repository.BlogFilter{
		Search:   strings.TrimSpace(req.Search),
		Category: strings.TrimSpace(req.Category),
		Page:     normalizePage(req.Page),
		PageSize: clampPageSize(req.PageSize),
	}

	blogs, total, err := s.blogs.ListPublished(ctx, filter)
	if err != nil {
		return dto.BlogListResult{}, err
	}

	items, err := s.annotate(ctx, blogs)
	if err != nil {
		return dto.BlogListResult{}, err
	}

	return dto.BlogListResult{
		Items: items,
		Pagination: dto.PaginationMeta{
			Page:       filter.Page,
			PageSize:   filter.PageSize,
			TotalItems: total,
			TotalPages: calculateTotalPages(total, filter.PageSize),
		},
	}, nil
}

// GetPublished returns the blog page payload. Every call counts as a view;
// there is no per-viewer deduplication.
func (s *blogService) GetPublished(ctx context.Context, slug string) (dto.BlogDetailResponse, error) {
	blog, err := s.blogs.GetBySlug(ctx, slug, true)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.BlogDetailResponse{}, ErrBlogNotFound
		}
		return dto.BlogDetailResponse{}, err
	}

	if err := s.blogs.IncrementViews(ctx, blog.ID); err != nil {
		return dto.BlogDetailResponse{}, err
	}
	blog.Views++
	observability.BlogViews().WithLabelValues(blog.Slug).Inc()

	comments, err := s.blogs.ListComments(ctx, blog.ID)
	if err != nil {
		return dto.BlogDetailResponse{}, err
	}

	commentItems := make([]dto.BlogCommentResponse, 0, len(comments))
	for _, comment := range comments {
		commentItems = append(commentItems, dto.NewBlogCommentResponse(comment))
	}

	return dto.BlogDetailResponse{
		Blog:     dto.NewBlogResponse(blog, int64(len(comments))),
		Comments: commentItems,
	}, nil
}

func (s *blogService) ListAll(ctx context.Context) ([]dto.BlogResponse, error) {
	blogs, err := s.blogs.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.annotate(ctx, blogs)
}

func (s *blogService) Create(ctx context.Context, authorID uint, req dto.BlogCreateRequest) (dto.BlogResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.BlogResponse{}, err
	}

	slug := strings.TrimSpace(req.Slug)
	if slug == "" {
		slug = models.Slugify(req.Title)
	}
	if taken, err := s.blogs.SlugExists(ctx, slug); err != nil {
		return dto.BlogResponse{}, err
	} else if taken {
		return dto.BlogResponse{}, ErrBlogSlugTaken
	}

	blog := models.Blog{
		Title:            strings.TrimSpace(req.Title),
		Slug:             slug,
		AuthorID:         authorID,
		Category:         models.NormalizeBlogCategory(req.Category),
		Content:          s.policy.Sanitize(req.Content),
		Excerpt:          s.policy.Sanitize(strings.TrimSpace(req.Excerpt)),
		FeaturedImageURL: strings.TrimSpace(req.FeaturedImageURL),
		Status:           req.Status,
	}
	if err := s.blogs.Create(ctx, &blog); err != nil {
		return dto.BlogResponse{}, err
	}

	if author, err := s.users.GetByID(ctx, authorID); err == nil {
		blog.Author = &author
	}

	s.logger.Info().Uint("blog_id", blog.ID).Str("slug", blog.Slug).Str("status", blog.Status).Msg("blog created")
	return dto.NewBlogResponse(blog, 0), nil
}

func (s *blogService) Update(ctx context.Context, slug string, req dto.BlogUpdateRequest) (dto.BlogResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.BlogResponse{}, err
	}

	blog, err := s.blogs.GetBySlug(ctx, slug, false)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.BlogResponse{}, ErrBlogNotFound
		}
		return dto.BlogResponse{}, err
	}

	if title := strings.TrimSpace(req.Title); title != "" {
		blog.Title = title
	}
	if req.Category != "" {
		blog.Category = models.NormalizeBlogCategory(req.Category)
	}
	if req.Content != "" {
		blog.Content = s.policy.Sanitize(req.Content)
	}
	if excerpt := strings.TrimSpace(req.Excerpt); excerpt != "" {
		blog.Excerpt = s.policy.Sanitize(excerpt)
	}
	if image := strings.TrimSpace(req.FeaturedImageURL); image != "" {
		blog.FeaturedImageURL = image
	}
	if req.Status != "" {
		// PublishedAt stamping stays in the model hook; moving back to draft
		// never clears it.
		blog.Status = req.Status
	}

	if err := s.blogs.Save(ctx, &blog); err != nil {
		return dto.BlogResponse{}, err
	}

	counts, err := s.blogs.CommentCounts(ctx, []uint{blog.ID})
	if err != nil {
		return dto.BlogResponse{}, err
	}
	return dto.NewBlogResponse(blog, counts[blog.ID]), nil
}

func (s *blogService) Delete(ctx context.Context, slug string) error {
	blog, err := s.blogs.GetBySlug(ctx, slug, false)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBlogNotFound
		}
		return err
	}
	s.logger.Info().Uint("blog_id", blog.ID).Str("slug", blog.Slug).Msg("blog deleted")
	return s.blogs.Delete(ctx, blog.ID)
}

func (s *blogService) AddComment(ctx context.Context, slug string, userID uint, req dto.BlogCommentCreateRequest) (dto.BlogCommentResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.BlogCommentResponse{}, err
	}

	blog, err := s.blogs.GetBySlug(ctx, slug, true)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.BlogCommentResponse{}, ErrBlogNotFound
		}
		return dto.BlogCommentResponse{}, err
	}

	comment := models.BlogComment{
		BlogID:  blog.ID,
		UserID:  userID,
		Comment: s.policy.Sanitize(strings.TrimSpace(req.Comment)),
	}
	if err := s.blogs.CreateComment(ctx, &comment); err != nil {
		return dto.BlogCommentResponse{}, err
	}

	if user, err := s.users.GetByID(ctx, userID); err == nil {
		comment.User = &user
	}
	return dto.NewBlogCommentResponse(comment), nil
}

func (s *blogService) annotate(ctx context.Context, blogs []models.Blog) ([]dto.BlogResponse, error) {
	ids := make([]uint, 0, len(blogs))
	for _, blog := range blogs {
		ids = append(ids, blog.ID)
	}
	counts, err := s.blogs.CommentCounts(ctx, ids)
	if err != nil {
		return nil, err
	}

	items := make([]dto.BlogResponse, 0, len(blogs))
	for _, blog := range blogs {
		items = append(items, dto.NewBlogResponse(blog, counts[blog.ID]))
	}
	return items, nil
}
