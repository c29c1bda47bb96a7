package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/centerkech-api/internal/dto"
	"github.com/noah-isme/centerkech-api/internal/models"
	appErrors "github.com/noah-isme/centerkech-api/pkg/errors"
)

type userRepository interface {
	authUserRepository
	List(ctx context.Context) ([]models.User, error)
}

// UserService provides administrator account management.
type UserService struct {
	auth      *AuthService
	repo      userRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUserService constructs a UserService sharing the hashing rules of auth.
func NewUserService(repo userRepository, auth *AuthService, validate *validator.Validate, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = NewValidator()
	}
	return &UserService{auth: auth, repo: repo, validator: validate, logger: logger}
}

// List returns every account, newest first.
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "Error retrieving users")
	}
	return users, nil
}

// Create adds an account with the requested role.
func (s *UserService) Create(ctx context.Context, req dto.CreateUserRequest, actorID string) (*models.UserInfo, error) {
	req.Email = normalizeEmail(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	req.Role = strings.TrimSpace(req.Role)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "All fields are required")
	}

	user, err := s.auth.createUser(ctx, req.Email, req.Password, req.Name, models.UserRole(req.Role), "Error creating user")
	if err != nil {
		return nil, err
	}
	s.logger.Info("user created", zap.String("user_id", user.ID), zap.String("role", string(user.Role)), zap.String("actor_id", actorID))
	info := user.Info()
	return &info, nil
}
