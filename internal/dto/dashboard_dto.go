package dto

// AdminDashboardResponse aggregates platform totals, per-subject stats and
// the most recent reviews for the admin dashboard.
type AdminDashboardResponse struct {
	TotalSubjects int64             `json:"total_subjects"`
	TotalStudents int64             `json:"total_students"`
	TotalReviews  int64             `json:"total_reviews"`
	Subjects      []SubjectResponse `json:"subjects"`
	RecentReviews []ReviewResponse  `json:"recent_reviews"`
}

// UserDashboardResponse lists the subjects shown on the user landing page.
type UserDashboardResponse struct {
	Subjects []SubjectResponse `json:"subjects"`
}
