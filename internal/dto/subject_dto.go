package dto

import (
	"time"

	"github.com/learnhub-io/learnhub-api/internal/models"
)

// SubjectStats aggregates review and enrollment figures for one subject.
// AvgRating is nil when the subject has no reviews.
type SubjectStats struct {
	ReviewCount  int64    `json:"review_count"`
	AvgRating    *float64 `json:"avg_rating"`
	StudentCount int64    `json:"student_count"`
}

// SubjectResponse serializes a subject together with its aggregates.
type SubjectResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	ImageURL    string    `json:"image_url"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	SubjectStats
}

// NewSubjectResponse builds a response from a model and its stats.
func NewSubjectResponse(subject models.Subject, stats SubjectStats) SubjectResponse {
	return SubjectResponse{
		ID:           subject.ID,
		Name:         subject.Name,
		ImageURL:     subject.ImageURL,
		Type:         subject.Type,
		Description:  subject.Description,
		CreatedAt:    subject.CreatedAt,
		SubjectStats: stats,
	}
}

// SubjectCreateRequest validates subject creation payloads.
type SubjectCreateRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	ImageURL    string `json:"image_url" validate:"omitempty,url"`
	Type        string `json:"type" validate:"omitempty,oneof=AI DS WD"`
	Description string `json:"description" validate:"omitempty"`
}

// SubjectUpdateRequest validates subject updates.
type SubjectUpdateRequest struct {
	Name        string `json:"name" validate:"omitempty,min=2,max=100"`
	ImageURL    string `json:"image_url" validate:"omitempty,url"`
	Type        string `json:"type" validate:"omitempty,oneof=AI DS WD"`
	Description string `json:"description" validate:"omitempty"`
}

// ReviewCreateRequest validates a new review submission.
type ReviewCreateRequest struct {
	SubjectID uint   `json:"subject_id" validate:"required"`
	Rating    int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment   string `json:"comment" validate:"required"`
}

// ReviewResponse serializes a review with its reviewer identity resolved.
type ReviewResponse struct {
	ID          uint      `json:"id"`
	SubjectID   uint      `json:"subject_id"`
	SubjectName string    `json:"subject_name,omitempty"`
	Reviewer    string    `json:"reviewer"`
	Rating      int       `json:"rating"`
	Comment     string    `json:"comment"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewReviewResponse builds a review response resolving related names.
func NewReviewResponse(review models.Review) ReviewResponse {
	resp := ReviewResponse{
		ID:        review.ID,
		SubjectID: review.SubjectID,
		Rating:    review.Rating,
		Comment:   review.Comment,
		CreatedAt: review.CreatedAt,
	}
	if review.Reviewer != nil {
		resp.Reviewer = review.Reviewer.Username
	}
	if review.Subject != nil {
		resp.SubjectName = review.Subject.Name
	}
	return resp
}

// StudentResponse serializes a student with optional profile data.
type StudentResponse struct {
	ID            uint   `json:"id"`
	Name          string `json:"name"`
	Location      string `json:"location"`
	ProfileNumber *int   `json:"profile_number,omitempty"`
	Bio           string `json:"bio,omitempty"`
}

// NewStudentResponse builds a student response.
func NewStudentResponse(student models.Student) StudentResponse {
	resp := StudentResponse{
		ID:       student.ID,
		Name:     student.Name,
		Location: student.Location,
	}
	if student.Profile != nil {
		number := student.Profile.ProfileNumber
		resp.ProfileNumber = &number
		resp.Bio = student.Profile.Bio
	}
	return resp
}

// StudentCreateRequest validates student creation, optionally with a profile.
type StudentCreateRequest struct {
	Name          string `json:"name" validate:"required,min=2,max=100"`
	Location      string `json:"location" validate:"required,max=100"`
	Bio           string `json:"bio" validate:"omitempty"`
	ProfileNumber *int   `json:"profile_number" validate:"omitempty,gt=0"`
}

// EnrollmentRequest enrolls or unenrolls a student in a subject.
type EnrollmentRequest struct {
	StudentID uint `json:"student_id" validate:"required"`
	SubjectID uint `json:"subject_id" validate:"required"`
}

// SubjectDetailResponse bundles the subject page payload: the subject, its
// most recent reviews, enrolled students and scoped aggregates.
type SubjectDetailResponse struct {
	Subject  SubjectResponse   `json:"subject"`
	Reviews  []ReviewResponse  `json:"reviews"`
	Students []StudentResponse `json:"students"`
}
