package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Subject study types.
const (
	SubjectTypeAI = "AI"
	SubjectTypeDS = "DS"
	SubjectTypeWD = "WD"
)

// Subject is a reviewable, enrollable course listing.
type Subject struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	ImageURL    string    `gorm:"size:512" json:"image_url"`
	Type        string    `gorm:"size:2;not null;default:'AI'" json:"type"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Reviews     []Review  `gorm:"foreignKey:SubjectID" json:"reviews,omitempty"`
	Students    []Student `gorm:"many2many:subject_enrollments" json:"students,omitempty"`
}

// BeforeSave keeps the study type inside the closed enum.
func (s *Subject) BeforeSave(tx *gorm.DB) error {
	s.Type = NormalizeSubjectType(s.Type)
	return nil
}

// NormalizeSubjectType maps free-form input onto the study type enum.
func NormalizeSubjectType(value string) string {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case SubjectTypeDS:
		return SubjectTypeDS
	case SubjectTypeWD:
		return SubjectTypeWD
	default:
		return SubjectTypeAI
	}
}

// Review is one user's rating and comment for one subject. A reviewer may
// review a given subject at most once.
type Review struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	SubjectID  uint      `gorm:"not null;uniqueIndex:idx_reviews_subject_reviewer" json:"subject_id"`
	ReviewerID uint      `gorm:"not null;uniqueIndex:idx_reviews_subject_reviewer" json:"reviewer_id"`
	Rating     int       `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	Comment    string    `gorm:"type:text" json:"comment"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
	Subject    *Subject  `gorm:"foreignKey:SubjectID" json:"subject,omitempty"`
	Reviewer   *User     `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
}

// Student enrolls in subjects and owns at most one profile.
type Student struct {
	ID       uint            `gorm:"primaryKey" json:"id"`
	Name     string          `gorm:"size:100;not null;index" json:"name"`
	Location string          `gorm:"size:100" json:"location"`
	Subjects []Subject       `gorm:"many2many:subject_enrollments" json:"subjects,omitempty"`
	Profile  *StudentProfile `gorm:"foreignKey:StudentID" json:"profile,omitempty"`
}

// StudentProfile carries the one-to-one profile data for a student.
type StudentProfile struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	StudentID         uint      `gorm:"uniqueIndex;not null" json:"student_id"`
	Bio               string    `gorm:"type:text" json:"bio"`
	ProfileNumber     int       `gorm:"uniqueIndex;not null" json:"profile_number"`
	ProfilePictureURL string    `gorm:"size:512" json:"profile_picture_url,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}
