package dto

import "github.com/noah-isme/centerkech-api/internal/models"

// SubmitRequest is the public contact/enrollment form payload.
type SubmitRequest struct {
	Name      string `json:"name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Tel       string `json:"tel" validate:"required"`
	Formation string `json:"formation" validate:"required"`
	Message   string `json:"message"`
	Source    string `json:"source" validate:"required"`
}

// SubmitResult identifies the stored submission.
type SubmitResult struct {
	ID string `json:"id"`
}

// SubmissionQuery holds the raw listing parameters.
type SubmissionQuery struct {
	Status string `form:"status"`
	Source string `form:"source"`
	Sort   string `form:"sort"`
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}

// UpdateStatusRequest changes a submission status. Notes is optional.
type UpdateStatusRequest struct {
	Status string  `json:"status"`
	Notes  *string `json:"notes"`
}

// Pagination describes one page of a listing.
type Pagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int   `json:"pages"`
}

// SubmissionList is one page of submissions.
type SubmissionList struct {
	Submissions []models.Submission `json:"submissions"`
	Pagination  Pagination          `json:"pagination"`
}

// ExportQuery selects the submissions and format of an export.
type ExportQuery struct {
	Format string `form:"format"`
	Status string `form:"status"`
	Source string `form:"source"`
}

// ExportFile is a rendered export ready to stream.
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
}
