package dto

import (
	"time"

	"github.com/learnhub-io/learnhub-api/internal/models"
)

// BlogResponse serializes a blog post annotated with its comment count.
type BlogResponse struct {
	ID               uint       `json:"id"`
	Title            string     `json:"title"`
	Slug             string     `json:"slug"`
	Author           string     `json:"author,omitempty"`
	Category         string     `json:"category"`
	Content          string     `json:"content"`
	Excerpt          string     `json:"excerpt"`
	FeaturedImageURL string     `json:"featured_image_url,omitempty"`
	Status           string     `json:"status"`
	Views            int64      `json:"views"`
	CommentCount     int64      `json:"comment_count"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	PublishedAt      *time.Time `json:"published_at,omitempty"`
}

// NewBlogResponse builds a blog response.
func NewBlogResponse(blog models.Blog, commentCount int64) BlogResponse {
	resp := BlogResponse{
		ID:               blog.ID,
		Title:            blog.Title,
		Slug:             blog.Slug,
		Category:         blog.Category,
		Content:          blog.Content,
		Excerpt:          blog.Excerpt,
		FeaturedImageURL: blog.FeaturedImageURL,
		Status:           blog.Status,
		Views:            blog.Views,
		CommentCount:     commentCount,
		CreatedAt:        blog.CreatedAt,
		UpdatedAt:        blog.UpdatedAt,
		PublishedAt:      blog.PublishedAt,
	}
	if blog.Author != nil {
		resp.Author = blog.Author.Username
	}
	return resp
}

// BlogListRequest captures the public listing filters.
type BlogListRequest struct {
	Search   string `json:"search"`
	Category string `json:"category"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
}

// BlogListResult wraps the blog listing payload.
type BlogListResult struct {
	Items      []BlogResponse `json:"items"`
	Pagination PaginationMeta `json:"pagination"`
}

// BlogCreateRequest validates blog creation payloads.
type BlogCreateRequest struct {
	Title            string `json:"title" validate:"required,min=3,max=255"`
	Slug             string `json:"slug" validate:"omitempty,max=160"`
	Category         string `json:"category" validate:"required,oneof=technology programming data-science ai web-development career tutorial news"`
	Content          string `json:"content" validate:"required,min=10"`
	Excerpt          string `json:"excerpt" validate:"omitempty,max=300"`
	FeaturedImageURL string `json:"featured_image_url" validate:"omitempty,url"`
	Status           string `json:"status" validate:"omitempty,oneof=draft published"`
}

// BlogUpdateRequest validates blog edits. Empty fields are left untouched.
type BlogUpdateRequest struct {
	Title            string `json:"title" validate:"omitempty,min=3,max=255"`
	Category         string `json:"category" validate:"omitempty,oneof=technology programming data-science ai web-development career tutorial news"`
	Content          string `json:"content" validate:"omitempty,min=10"`
	Excerpt          string `json:"excerpt" validate:"omitempty,max=300"`
	FeaturedImageURL string `json:"featured_image_url" validate:"omitempty,url"`
	Status           string `json:"status" validate:"omitempty,oneof=draft published"`
}

// BlogCommentCreateRequest validates a new comment.
type BlogCommentCreateRequest struct {
	Comment string `json:"comment" validate:"required,min=1"`
}

// BlogCommentResponse serializes a comment with its author resolved.
type BlogCommentResponse struct {
	ID        uint      `json:"id"`
	Author    string    `json:"author"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// NewBlogCommentResponse builds a comment response.
func NewBlogCommentResponse(comment models.BlogComment) BlogCommentResponse {
	resp := BlogCommentResponse{
		ID:        comment.ID,
		Comment:   comment.Comment,
		CreatedAt: comment.CreatedAt,
	}
	if comment.User != nil {
		resp.Author = comment.User.Username
	}
	return resp
}

// BlogDetailResponse bundles the blog page payload.
type BlogDetailResponse struct {
	Blog     BlogResponse          `json:"blog"`
	Comments []BlogCommentResponse `json:"comments"`
}
