package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/centerkech-api/internal/dto"
	"github.com/noah-isme/centerkech-api/internal/models"
	appErrors "github.com/noah-isme/centerkech-api/pkg/errors"
	"github.com/noah-isme/centerkech-api/pkg/export"
)

const maxExportRows = 5000

type datasetRenderer interface {
	ContentType() string
	Render(data export.Dataset) ([]byte, error)
}

var submissionExportColumns = []export.Column{
	{Key: "createdAt", Label: "Received", Width: 32},
	{Key: "name", Label: "Name", Width: 40},
	{Key: "email", Label: "Email", Width: 55},
	{Key: "tel", Label: "Phone", Width: 30},
	{Key: "formation", Label: "Formation", Width: 40},
	{Key: "source", Label: "Source", Width: 22},
	{Key: "status", Label: "Status", Width: 24},
	{Key: "contactedAt", Label: "Contacted", Width: 32},
}

// ExportService renders submission listings as downloadable files.
type ExportService struct {
	repo      submissionRepository
	renderers map[string]datasetRenderer
	logger    *zap.Logger
	now       func() time.Time
}

// NewExportService constructs an ExportService with CSV and PDF renderers.
func NewExportService(repo submissionRepository, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		repo: repo,
		renderers: map[string]datasetRenderer{
			"csv": export.NewCSVExporter(),
			"pdf": export.NewPDFExporter(),
		},
		logger: logger,
		now:    time.Now,
	}
}

// ExportSubmissions renders the newest matching submissions in the requested format.
func (s *ExportService) ExportSubmissions(ctx context.Context, query dto.ExportQuery) (*dto.ExportFile, error) {
	format := strings.ToLower(strings.TrimSpace(query.Format))
	if format == "" {
		format = "csv"
	}
	renderer, ok := s.renderers[format]
	if !ok {
		return nil, invalidArgument("format must be csv or pdf")
	}

	filter, err := buildSubmissionFilter(query.Status, query.Source)
	if err != nil {
		return nil, err
	}
	filter.SortBy = models.SortCreatedAt
	filter.SortDesc = true
	filter.Limit = maxExportRows

	subs, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Internal(err, "Error exporting submissions")
	}
	if total > int64(len(subs)) {
		s.logger.Warn("submission export truncated", zap.Int64("total", total), zap.Int("rows", len(subs)))
	}

	dataset := export.Dataset{Title: "Submissions", Columns: submissionExportColumns, Rows: make([]map[string]string, 0, len(subs))}
	for _, sub := range subs {
		dataset.Rows = append(dataset.Rows, submissionRow(sub))
	}

	body, err := renderer.Render(dataset)
	if err != nil {
		return nil, appErrors.Internal(err, "Error exporting submissions")
	}
	return &dto.ExportFile{
		Filename:    fmt.Sprintf("submissions-%s.%s", s.now().UTC().Format("20060102-150405"), format),
		ContentType: renderer.ContentType(),
		Body:        body,
	}, nil
}

func submissionRow(sub models.Submission) map[string]string {
	row := map[string]string{
		"createdAt": sub.CreatedAt.UTC().Format("2006-01-02 15:04"),
		"name":      sub.Name,
		"email":     sub.Email,
		"tel":       sub.Tel,
		"formation": sub.Formation,
		"source":    string(sub.Source),
		"status":    string(sub.Status),
	}
	if sub.ContactedAt != nil {
		row["contactedAt"] = sub.ContactedAt.UTC().Format("2006-01-02 15:04")
	}
	return row
}
