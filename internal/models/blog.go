package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Blog statuses.
const (
	BlogStatusDraft     = "draft"
	BlogStatusPublished = "published"
)

// BlogCategories is the closed set of accepted blog categories.
var BlogCategories = []string{
	"technology",
	"programming",
	"data-science",
	"ai",
	"web-development",
	"career",
	"tutorial",
	"news",
}

// Blog is an authored post with draft/published lifecycle and a view counter.
type Blog struct {
	ID               uint          `gorm:"primaryKey" json:"id"`
	Title            string        `gorm:"size:255;not null" json:"title"`
	Slug             string        `gorm:"size:160;uniqueIndex;not null" json:"slug"`
	AuthorID         uint          `gorm:"not null;index" json:"author_id"`
	Category         string        `gorm:"size:32;not null;default:'technology'" json:"category"`
	Content          string        `gorm:"type:text;not null" json:"content"`
	Excerpt          string        `gorm:"size:300" json:"excerpt"`
	FeaturedImageURL string        `gorm:"size:512" json:"featured_image_url,omitempty"`
	Status           string        `gorm:"size:16;not null;default:'draft'" json:"status"`
	Views            int64         `gorm:"not null;default:0" json:"views"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
	PublishedAt      *time.Time    `gorm:"index" json:"published_at,omitempty"`
	Author           *User         `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Comments         []BlogComment `gorm:"foreignKey:BlogID" json:"comments,omitempty"`
}

// BeforeSave derives the slug from the title when absent, normalises
// category/status and stamps PublishedAt on the first transition to
// published. Both slug and PublishedAt are idempotent once set; moving a
// published post back to draft does not reset its publish time.
func (b *Blog) BeforeSave(tx *gorm.DB) error {
	if strings.TrimSpace(b.Slug) == "" {
		b.Slug = Slugify(b.Title)
	}
	b.Category = NormalizeBlogCategory(b.Category)
	b.Status = normalizeBlogStatus(b.Status)
	if b.Status == BlogStatusPublished && b.PublishedAt == nil {
		now := time.Now()
		b.PublishedAt = &now
	}
	return nil
}

func normalizeBlogStatus(status string) string {
	if strings.EqualFold(strings.TrimSpace(status), BlogStatusPublished) {
		return BlogStatusPublished
	}
	return BlogStatusDraft
}

// NormalizeBlogCategory maps input onto the category enum, defaulting to
// technology for unknown values.
func NormalizeBlogCategory(value string) string {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, category := range BlogCategories {
		if normalized == category {
			return category
		}
	}
	return BlogCategories[0]
}

// Slugify converts a title into a URL-safe slug.
func Slugify(title string) string {
	base := strings.ToLower(strings.TrimSpace(title))
	slug := make([]rune, 0, len(base))
	for _, r := range base {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			slug = append(slug, r)
		case r == ' ' || r == '-' || r == '_' || r == '.':
			if len(slug) == 0 || slug[len(slug)-1] == '-' {
				continue
			}
			slug = append(slug, '-')
		}
	}
	trimmed := strings.Trim(string(slug), "-")
	if trimmed == "" {
		return "post"
	}
	return trimmed
}

// BlogComment is a reader comment attached to a blog post.
type BlogComment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	BlogID    uint      `gorm:"not null;index" json:"blog_id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Comment   string    `gorm:"type:text;not null" json:"comment"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
