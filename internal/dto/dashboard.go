package dto

import "github.com/noah-isme/centerkech-api/internal/models"

// UserStats counts accounts by state and role.
type UserStats struct {
	Total    int64 `json:"total"`
	Active   int64 `json:"active"`
	Inactive int64 `json:"inactive"`
	Students int64 `json:"students"`
	Teachers int64 `json:"teachers"`
	Admins   int64 `json:"admins"`
}

// SourceStats counts submissions per public form.
type SourceStats struct {
	Join     int64 `json:"join"`
	Contact  int64 `json:"contact"`
	Services int64 `json:"services"`
}

// SubmissionStats counts submissions by status and source.
type SubmissionStats struct {
	Total     int64       `json:"total"`
	Pending   int64       `json:"pending"`
	Contacted int64       `json:"contacted"`
	Enrolled  int64       `json:"enrolled"`
	Rejected  int64       `json:"rejected"`
	Sources   SourceStats `json:"sources"`
}

// Stats groups the dashboard counters.
type Stats struct {
	Users       UserStats       `json:"users"`
	Submissions SubmissionStats `json:"submissions"`
}

// RecentSubmission is a submission with its handler resolved.
type RecentSubmission struct {
	models.Submission
	HandledBy *models.UserRef `json:"handledBy"`
}

// DashboardStats is the admin dashboard payload.
type DashboardStats struct {
	Stats             Stats              `json:"stats"`
	RecentSubmissions []RecentSubmission `json:"recentSubmissions"`
}
