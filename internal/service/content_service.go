package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/centerkech-api/internal/dto"
	"github.com/noah-isme/centerkech-api/internal/models"
	"github.com/noah-isme/centerkech-api/internal/repository"
	appErrors "github.com/noah-isme/centerkech-api/pkg/errors"
)

type contentRepository interface {
	List(ctx context.Context, contentType *models.ContentType) ([]models.Content, error)
	FindByKey(ctx context.Context, key string) (*models.Content, error)
	Upsert(ctx context.Context, content *models.Content) (*models.Content, error)
}

// ContentService manages editable site content.
type ContentService struct {
	repo      contentRepository
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

var contentMessages = fieldMessages{
	"type.oneof": "Invalid content type",
}

// NewContentService constructs a ContentService.
func NewContentService(repo contentRepository, validate *validator.Validate, logger *zap.Logger) *ContentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = NewValidator()
	}
	return &ContentService{repo: repo, validator: validate, logger: logger, now: time.Now}
}

// List returns content data keyed by content key, optionally for one type.
func (s *ContentService) List(ctx context.Context, rawType string) (map[string]json.RawMessage, error) {
	result := map[string]json.RawMessage{}

	var filter *models.ContentType
	if v := strings.TrimSpace(rawType); v != "" {
		contentType := models.ContentType(v)
		if !contentType.Valid() {
			return result, nil
		}
		filter = &contentType
	}

	items, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Internal(err, "Error retrieving content")
	}
	for _, item := range items {
		result[item.Key] = item.Data
	}
	return result, nil
}

// Get returns the record stored under key.
func (s *ContentService) Get(ctx context.Context, key string) (*models.Content, error) {
	item, err := s.repo.FindByKey(ctx, key)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("Content not found")
		}
		return nil, appErrors.Internal(err, "Error retrieving content")
	}
	return item, nil
}

// Upsert replaces or creates the record stored under key.
func (s *ContentService) Upsert(ctx context.Context, key string, req dto.UpsertContentRequest, actorID string) (*models.Content, error) {
	key = strings.TrimSpace(key)
	req.Type = strings.TrimSpace(req.Type)
	req.Data = bytes.TrimSpace(req.Data)
	if len(req.Data) == 0 || bytes.Equal(req.Data, []byte("null")) {
		req.Data = nil
	}
	if key == "" {
		return nil, invalidArgument("Type and data are required")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationErrorWith(err, "Type and data are required", contentMessages)
	}
	if !json.Valid(req.Data) {
		return nil, invalidArgument("Data must be valid JSON")
	}
	contentType := models.ContentType(req.Type)

	content := &models.Content{
		Key:         key,
		Type:        contentType,
		Data:        req.Data,
		LastUpdated: s.now().UTC(),
	}
	if actorID != "" {
		content.UpdatedBy = &actorID
	}

	stored, err := s.repo.Upsert(ctx, content)
	if err != nil {
		return nil, appErrors.Internal(err, "Error updating content")
	}
	s.logger.Info("content updated", zap.String("key", key), zap.String("actor_id", actorID))
	return stored, nil
}
