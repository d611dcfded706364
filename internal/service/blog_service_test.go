package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/learnhub-io/learnhub-api/internal/dto"
	"github.com/learnhub-io/learnhub-api/internal/models"
	"github.com/learnhub-io/learnhub-api/internal/repository"
)

func newBlogService(t *testing.T) (BlogService, *gorm.DB, models.User) {
	t.Helper()
	db := newTestDB(t)
	svc := NewBlogService(
		repository.NewBlogRepository(db),
		repository.NewUserRepository(db),
		testValidator(),
		testLogger(),
	)
	author := models.User{Username: "editor", Email: "editor@example.com", PasswordHash: "x", IsSuperuser: true}
	require.NoError(t, db.Create(&author).Error)
	return svc, db, author
}

func TestBlogServiceCreateDerivesSlugAndSanitizes(t *testing.T) {
	svc, _, author := newBlogService(t)

	blog, err := svc.Create(context.Background(), author.ID, dto.BlogCreateRequest{
		Title:    "Hello World",
		Category: "programming",
		Content:  "<p>Safe</p><script>alert('x')</script>",
		Status:   "published",
	})
	require.NoError(t, err)
	require.Equal(t, "hello-world", blog.Slug)
	require.Equal(t, "<p>Safe</p>", blog.Content)
	require.NotNil(t, blog.PublishedAt)
	require.Equal(t, "editor", blog.Author)
}

func TestBlogServiceCreateRejectsDuplicateSlug(t *testing.T) {
	svc, _, author := newBlogService(t)

	req := dto.BlogCreateRequest{
		Title:    "Hello World",
		Category: "news",
		Content:  "long enough content",
	}
	_, err := svc.Create(context.Background(), author.ID, req)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), author.ID, req)
	require.ErrorIs(t, err, ErrBlogSlugTaken)
}

func TestBlogServicePublishedAtIsSticky(t *testing.T) {
	svc, _, author := newBlogService(t)

	blog, err := svc.Create(context.Background(), author.ID, dto.BlogCreateRequest{
		Title:    "Lifecycle",
		Category: "tutorial",
		Content:  "long enough content",
		Status:   "published",
	})
	require.NoError(t, err)
	require.NotNil(t, blog.PublishedAt)
	firstPublished := *blog.PublishedAt

	demoted, err := svc.Update(context.Background(), blog.Slug, dto.BlogUpdateRequest{Status: "draft"})
	require.NoError(t, err)
	require.Equal(t, models.BlogStatusDraft, demoted.Status)
	require.NotNil(t, demoted.PublishedAt)
	require.Equal(t, firstPublished.Unix(), demoted.PublishedAt.Unix())

	republished, err := svc.Update(context.Background(), blog.Slug, dto.BlogUpdateRequest{Status: "published"})
	require.NoError(t, err)
	require.Equal(t, firstPublished.Unix(), republished.PublishedAt.Unix())
}

func TestBlogServiceDetailIncrementsViews(t *testing.T) {
	svc, db, author := newBlogService(t)

	blog, err := svc.Create(context.Background(), author.ID, dto.BlogCreateRequest{
		Title:    "Counting Views",
		Category: "technology",
		Content:  "long enough content",
		Status:   "published",
	})
	require.NoError(t, err)

	first, err := svc.GetPublished(context.Background(), blog.Slug)
	require.NoError(t, err)
	require.EqualValues(t, 1, first.Blog.Views)

	second, err := svc.GetPublished(context.Background(), blog.Slug)
	require.NoError(t, err)
	require.EqualValues(t, 2, second.Blog.Views)

	var stored models.Blog
	require.NoError(t, db.First(&stored, blog.ID).Error)
	require.EqualValues(t, 2, stored.Views)
}

func TestBlogServiceDraftsHiddenFromPublicDetail(t *testing.T) {
	svc, _, author := newBlogService(t)

	blog, err := svc.Create(context.Background(), author.ID, dto.BlogCreateRequest{
		Title:    "Unpublished",
		Category: "career",
		Content:  "long enough content",
	})
	require.NoError(t, err)

	_, err = svc.GetPublished(context.Background(), blog.Slug)
	require.ErrorIs(t, err, ErrBlogNotFound)

	all, err := svc.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestBlogServiceListFiltersAndCounts(t *testing.T) {
	svc, db, author := newBlogService(t)

	first, err := svc.Create(context.Background(), author.ID, dto.BlogCreateRequest{
		Title:    "Intro to Go Routines",
		Category: "programming",
		Content:  "concurrency content here",
		Status:   "published",
	})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), author.ID, dto.BlogCreateRequest{
		Title:    "Career Ladders",
		Category: "career",
		Content:  "growth content here",
		Status:   "published",
	})
	require.NoError(t, err)

	reader := models.User{Username: "reader", Email: "reader@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&reader).Error)
	_, err = svc.AddComment(context.Background(), first.Slug, reader.ID, dto.BlogCommentCreateRequest{Comment: "nice"})
	require.NoError(t, err)

	result, err := svc.ListPublished(context.Background(), dto.BlogListRequest{Search: "go routines"})
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	require.Equal(t, first.Slug, result.Items[0].Slug)
	require.EqualValues(t, 1, result.Items[0].CommentCount)

	byCategory, err := svc.ListPublished(context.Background(), dto.BlogListRequest{Category: "career"})
	require.NoError(t, err)
	require.Len(t, byCategory.Items, 1)
	require.Equal(t, "Career Ladders", byCategory.Items[0].Title)
}
