package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/centerkech-api/internal/dto"
	"github.com/noah-isme/centerkech-api/internal/models"
	"github.com/noah-isme/centerkech-api/internal/repository"
	appErrors "github.com/noah-isme/centerkech-api/pkg/errors"
)

type locationRepository interface {
	List(ctx context.Context) ([]models.Location, error)
	FindByID(ctx context.Context, id string) (*models.Location, error)
	Upsert(ctx context.Context, location *models.Location) (*models.Location, error)
	Delete(ctx context.Context, id string) error
}

// LocationService manages the centre listings.
type LocationService struct {
	repo      locationRepository
	validator *validator.Validate
	logger    *zap.Logger
}

var locationMessages = fieldMessages{
	"coordinates.len": "Coordinates must contain exactly two numbers [latitude, longitude]",
}

// NewLocationService constructs a LocationService.
func NewLocationService(repo locationRepository, validate *validator.Validate, logger *zap.Logger) *LocationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = NewValidator()
	}
	return &LocationService{repo: repo, validator: validate, logger: logger}
}

func (s *LocationService) List(ctx context.Context) ([]models.Location, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "Error retrieving locations")
	}
	return items, nil
}

func (s *LocationService) Get(ctx context.Context, id string) (*models.Location, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("Location not found")
		}
		return nil, appErrors.Internal(err, "Error retrieving location")
	}
	return item, nil
}

// Upsert validates and stores the location under id. Nothing is written on validation failure.
func (s *LocationService) Upsert(ctx context.Context, id string, req dto.UpsertLocationRequest) (*models.Location, error) {
	id = strings.TrimSpace(id)
	req.Name = strings.TrimSpace(req.Name)
	req.Address = strings.TrimSpace(req.Address)
	if id == "" {
		return nil, invalidArgument("Missing required fields")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationErrorWith(err, "Missing required fields", locationMessages)
	}

	specialties := make([]string, 0, len(req.Specialties))
	for _, sp := range req.Specialties {
		if sp = strings.TrimSpace(sp); sp != "" {
			specialties = append(specialties, sp)
		}
	}

	stored, err := s.repo.Upsert(ctx, &models.Location{
		ID:          id,
		Name:        req.Name,
		Address:     req.Address,
		Phone:       strings.TrimSpace(req.Phone),
		Email:       strings.TrimSpace(req.Email),
		Coordinates: []float64{req.Coordinates[0], req.Coordinates[1]},
		Hours:       strings.TrimSpace(req.Hours),
		Specialties: specialties,
		Image:       strings.TrimSpace(req.Image),
	})
	if err != nil {
		return nil, appErrors.Internal(err, "Error updating location")
	}
	return stored, nil
}

func (s *LocationService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound("Location not found")
		}
		return appErrors.Internal(err, "Error deleting location")
	}
	return nil
}
