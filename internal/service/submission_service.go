package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/centerkech-api/internal/dto"
	"github.com/noah-isme/centerkech-api/internal/models"
	"github.com/noah-isme/centerkech-api/internal/repository"
	appErrors "github.com/noah-isme/centerkech-api/pkg/errors"
)

const (
	defaultSubmissionPage  = 1
	defaultSubmissionLimit = 10
	maxSubmissionLimit     = 100
	defaultSubmissionSort  = "-createdAt"
)

var submissionSortFields = map[string]string{
	"createdAt": models.SortCreatedAt,
	"updatedAt": models.SortUpdatedAt,
	"name":      models.SortName,
	"status":    models.SortStatus,
}

type submissionRepository interface {
	Create(ctx context.Context, sub *models.Submission) error
	FindByID(ctx context.Context, id string) (*models.Submission, error)
	List(ctx context.Context, filter models.SubmissionFilter) ([]models.Submission, int64, error)
	UpdateStatus(ctx context.Context, change models.StatusChange) (*models.Submission, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context, filter models.SubmissionFilter) (int64, error)
}

// SubmissionService manages public form submissions and their follow-up status.
type SubmissionService struct {
	repo      submissionRepository
	validator *validator.Validate
	logger    *zap.Logger
	metrics   *MetricsService
	now       func() time.Time
}

// NewSubmissionService constructs a SubmissionService.
func NewSubmissionService(repo submissionRepository, validate *validator.Validate, logger *zap.Logger, metrics *MetricsService) *SubmissionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = NewValidator()
	}
	return &SubmissionService{repo: repo, validator: validate, logger: logger, metrics: metrics, now: time.Now}
}

// Submit stores a new pending submission and returns its id.
func (s *SubmissionService) Submit(ctx context.Context, req dto.SubmitRequest) (*dto.SubmitResult, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = normalizeEmail(req.Email)
	req.Tel = strings.TrimSpace(req.Tel)
	req.Formation = strings.TrimSpace(req.Formation)
	req.Message = strings.TrimSpace(req.Message)
	req.Source = strings.TrimSpace(req.Source)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "Missing required fields")
	}
	source := models.SubmissionSource(req.Source)
	if !source.Valid() {
		return nil, invalidArgument("Invalid source")
	}

	sub := &models.Submission{
		Name:      req.Name,
		Email:     req.Email,
		Tel:       req.Tel,
		Formation: req.Formation,
		Message:   req.Message,
		Source:    source,
		Status:    models.StatusPending,
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.Create(ctx, sub); err != nil {
		return nil, appErrors.Internal(err, "Error submitting form")
	}

	s.metrics.RecordSubmission(string(source))
	s.logger.Info("form submitted", zap.String("submission_id", sub.ID), zap.String("source", string(source)))
	return &dto.SubmitResult{ID: sub.ID}, nil
}

// List returns one page of submissions matching the query.
func (s *SubmissionService) List(ctx context.Context, query dto.SubmissionQuery) (*dto.SubmissionList, error) {
	filter, err := buildSubmissionFilter(query.Status, query.Source)
	if err != nil {
		return nil, err
	}
	filter.SortBy, filter.SortDesc = parseSubmissionSort(query.Sort)

	page := query.Page
	if page < 1 {
		page = defaultSubmissionPage
	}
	limit := query.Limit
	if limit < 1 {
		limit = defaultSubmissionLimit
	}
	if limit > maxSubmissionLimit {
		limit = maxSubmissionLimit
	}
	filter.Limit = limit

	var (
		subs  []models.Submission
		total int64
	)
	if page > math.MaxInt/limit {
		// The offset would overflow, so the page lies past any stored row.
		subs = []models.Submission{}
		total, err = s.repo.Count(ctx, filter)
	} else {
		filter.Offset = (page - 1) * limit
		subs, total, err = s.repo.List(ctx, filter)
	}
	if err != nil {
		return nil, appErrors.Internal(err, "Error retrieving submissions")
	}

	return &dto.SubmissionList{
		Submissions: subs,
		Pagination: dto.Pagination{
			Total: total,
			Page:  page,
			Limit: limit,
			Pages: int(math.Ceil(float64(total) / float64(limit))),
		},
	}, nil
}

// Get returns a single submission.
func (s *SubmissionService) Get(ctx context.Context, id string) (*models.Submission, error) {
	if !validSubmissionID(id) {
		return nil, notFound("Submission not found")
	}
	sub, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("Submission not found")
		}
		return nil, appErrors.Internal(err, "Error retrieving submission")
	}
	return sub, nil
}

// UpdateStatus moves a submission to a new status in one atomic store operation.
// contactedAt is stamped on the first move into contacted only.
func (s *SubmissionService) UpdateStatus(ctx context.Context, id string, req dto.UpdateStatusRequest, actorID string) (*models.Submission, error) {
	status := models.SubmissionStatus(strings.TrimSpace(req.Status))
	if !status.Valid() {
		return nil, invalidArgument("Invalid status")
	}
	if !validSubmissionID(id) {
		return nil, notFound("Submission not found")
	}

	change := models.StatusChange{ID: id, Status: status, Notes: req.Notes, At: s.now().UTC()}
	if actorID != "" {
		change.HandledBy = &actorID
	}
	sub, err := s.repo.UpdateStatus(ctx, change)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("Submission not found")
		}
		return nil, appErrors.Internal(err, "Error updating status")
	}

	s.metrics.RecordStatusChange(string(status))
	return sub, nil
}

// Delete removes a submission permanently.
func (s *SubmissionService) Delete(ctx context.Context, id string) error {
	if !validSubmissionID(id) {
		return notFound("Submission not found")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound("Submission not found")
		}
		return appErrors.Internal(err, "Error deleting submission")
	}
	return nil
}

func buildSubmissionFilter(rawStatus, rawSource string) (models.SubmissionFilter, error) {
	var filter models.SubmissionFilter
	if v := strings.TrimSpace(rawStatus); v != "" {
		status := models.SubmissionStatus(v)
		if !status.Valid() {
			return filter, invalidArgument("Invalid status filter")
		}
		filter.Status = &status
	}
	if v := strings.TrimSpace(rawSource); v != "" {
		source := models.SubmissionSource(v)
		if !source.Valid() {
			return filter, invalidArgument("Invalid source filter")
		}
		filter.Source = &source
	}
	return filter, nil
}

// parseSubmissionSort maps "field" or "-field" onto a store sort column.
// Unknown fields fall back to newest first.
func parseSubmissionSort(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		raw = defaultSubmissionSort
	}
	desc := strings.HasPrefix(raw, "-")
	column, ok := submissionSortFields[strings.TrimPrefix(raw, "-")]
	if !ok {
		return models.SortCreatedAt, true
	}
	return column, desc
}

func validSubmissionID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
