package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/learnhub-io/learnhub-api/internal/models"
)

func TestBlogRepositorySearchIsCaseInsensitive(t *testing.T) {
	db := newTestDB(t)
	repo := NewBlogRepository(db)

	author := models.User{Username: "editor", Email: "editor@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&author).Error)

	published := models.Blog{
		Title: "Intro to Go Routines", AuthorID: author.ID,
		Category: "programming", Content: "concurrency content", Status: models.BlogStatusPublished,
	}
	draft := models.Blog{
		Title: "Go Routines Deep Dive", AuthorID: author.ID,
		Category: "programming", Content: "more concurrency", Status: models.BlogStatusDraft,
	}
	require.NoError(t, db.Create(&published).Error)
	require.NoError(t, db.Create(&draft).Error)

	blogs, total, err := repo.ListPublished(context.Background(), BlogFilter{Search: "GO ROUTINES", Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Len(t, blogs, 1)
	require.Equal(t, "Intro to Go Routines", blogs[0].Title)
	require.NotNil(t, blogs[0].Author)

	none, total, err := repo.ListPublished(context.Background(), BlogFilter{Search: "kubernetes", Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.EqualValues(t, 0, total)
	require.Empty(t, none)
}

func TestBlogRepositoryIncrementViews(t *testing.T) {
	db := newTestDB(t)
	repo := NewBlogRepository(db)

	author := models.User{Username: "editor", Email: "editor@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&author).Error)
	blog := models.Blog{Title: "Views", AuthorID: author.ID, Category: "news", Content: "content", Status: models.BlogStatusPublished}
	require.NoError(t, db.Create(&blog).Error)

	require.NoError(t, repo.IncrementViews(context.Background(), blog.ID))
	require.NoError(t, repo.IncrementViews(context.Background(), blog.ID))

	var stored models.Blog
	require.NoError(t, db.First(&stored, blog.ID).Error)
	require.EqualValues(t, 2, stored.Views)
}

func TestBlogRepositoryCommentCounts(t *testing.T) {
	db := newTestDB(t)
	repo := NewBlogRepository(db)

	author := models.User{Username: "editor", Email: "editor@example.com", PasswordHash: "x"}
	reader := models.User{Username: "reader", Email: "reader@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&author).Error)
	require.NoError(t, db.Create(&reader).Error)

	commented := models.Blog{Title: "Commented", AuthorID: author.ID, Category: "news", Content: "content", Status: models.BlogStatusPublished}
	quiet := models.Blog{Title: "Quiet", AuthorID: author.ID, Category: "news", Content: "content", Status: models.BlogStatusPublished}
	require.NoError(t, db.Create(&commented).Error)
	require.NoError(t, db.Create(&quiet).Error)

	require.NoError(t, repo.CreateComment(context.Background(), &models.BlogComment{BlogID: commented.ID, UserID: reader.ID, Comment: "first"}))
	require.NoError(t, repo.CreateComment(context.Background(), &models.BlogComment{BlogID: commented.ID, UserID: reader.ID, Comment: "second"}))

	counts, err := repo.CommentCounts(context.Background(), []uint{commented.ID, quiet.ID})
	require.NoError(t, err)
	require.EqualValues(t, 2, counts[commented.ID])
	require.EqualValues(t, 0, counts[quiet.ID])
}

func TestBlogRepositoryDeleteRemovesComments(t *testing.T) {
	db := newTestDB(t)
	repo := NewBlogRepository(db)

	author := models.User{Username: "editor", Email: "editor@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&author).Error)
	blog := models.Blog{Title: "Doomed", AuthorID: author.ID, Category: "news", Content: "content", Status: models.BlogStatusPublished}
	require.NoError(t, db.Create(&blog).Error)
	require.NoError(t, repo.CreateComment(context.Background(), &models.BlogComment{BlogID: blog.ID, UserID: author.ID, Comment: "bye"}))

	require.NoError(t, repo.Delete(context.Background(), blog.ID))

	var comments int64
	require.NoError(t, db.Model(&models.BlogComment{}).Where("blog_id = ?", blog.ID).Count(&comments).Error)
	require.EqualValues(t, 0, comments)
}
