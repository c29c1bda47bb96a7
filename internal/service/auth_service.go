package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/centerkech-api/internal/dto"
	"github.com/noah-isme/centerkech-api/internal/models"
	"github.com/noah-isme/centerkech-api/internal/repository"
	appErrors "github.com/noah-isme/centerkech-api/pkg/errors"
)

type authUserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	UpdateLastLogin(ctx context.Context, id string, ts time.Time) error
	Count(ctx context.Context, filter models.UserFilter) (int64, error)
}

type passwordHasher interface {
	Hash(secret string) (string, error)
	Verify(secret, digest string) (bool, error)
	DummyVerify(secret string)
}

type tokenIssuer interface {
	Issue(userID string, role models.UserRole) (string, time.Time, error)
}

// AuthConfig defines configuration for authentication flows.
type AuthConfig struct {
	// HardenedSetup refuses the bootstrap endpoint once any account exists.
	HardenedSetup bool
}

// AuthService provides authentication use cases.
type AuthService struct {
	repo      authUserRepository
	hasher    passwordHasher
	tokens    tokenIssuer
	validator *validator.Validate
	logger    *zap.Logger
	metrics   *MetricsService
	config    AuthConfig
	now       func() time.Time

	// setupMu serialises the hardened count-then-create in this process.
	// Replicas are not coordinated; run setup against a single instance.
	setupMu sync.Mutex
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(repo authUserRepository, hasher passwordHasher, tokens tokenIssuer, validate *validator.Validate, logger *zap.Logger, metrics *MetricsService, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = NewValidator()
	}
	return &AuthService{
		repo:      repo,
		hasher:    hasher,
		tokens:    tokens,
		validator: validate,
		logger:    logger,
		metrics:   metrics,
		config:    config,
		now:       time.Now,
	}
}

// Login authenticates an account by email and password. Unknown emails and wrong
// passwords produce the same error after comparable work.
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResult, error) {
	req.Email = normalizeEmail(req.Email)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "Email and password are required")
	}

	user, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.hasher.DummyVerify(req.Password)
			s.metrics.RecordLogin(LoginFailure)
			return nil, appErrors.ErrInvalidCredentials
		}
		return nil, appErrors.Internal(err, "Server error during login")
	}

	ok, err := s.hasher.Verify(req.Password, user.PasswordHash)
	if err != nil {
		s.logger.Warn("password verification failed", zap.String("user_id", user.ID), zap.Error(err))
	}
	if !ok {
		s.metrics.RecordLogin(LoginFailure)
		return nil, appErrors.ErrInvalidCredentials
	}

	if !user.IsActive {
		s.metrics.RecordLogin(LoginInactive)
		return nil, appErrors.ErrInactiveAccount
	}

	if err := s.repo.UpdateLastLogin(ctx, user.ID, s.now().UTC()); err != nil {
		s.logger.Warn("failed to update last login", zap.String("user_id", user.ID), zap.Error(err))
	}

	token, expiresAt, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, appErrors.Internal(err, "Server error during login")
	}

	s.metrics.RecordLogin(LoginSuccess)
	return &dto.LoginResult{User: user.Info(), Token: token, ExpiresAt: expiresAt}, nil
}

// Me loads the account behind a verified token.
func (s *AuthService) Me(ctx context.Context, userID string) (*models.UserInfo, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("User not found")
		}
		return nil, appErrors.Internal(err, "Server error getting user data")
	}
	info := user.Info()
	return &info, nil
}

// Setup creates an administrator. Hardened deployments only allow it on an empty store.
func (s *AuthService) Setup(ctx context.Context, req dto.SetupRequest) (*models.UserInfo, error) {
	if s.config.HardenedSetup {
		s.setupMu.Lock()
		defer s.setupMu.Unlock()

		total, err := s.repo.Count(ctx, models.UserFilter{})
		if err != nil {
			return nil, appErrors.Internal(err, "Server error during setup")
		}
		if total > 0 {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "Setup already completed")
		}
	}

	req.Email = normalizeEmail(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "All fields are required")
	}

	user, err := s.createUser(ctx, req.Email, req.Password, req.Name, models.RoleAdmin, "Server error during setup")
	if err != nil {
		return nil, err
	}
	s.logger.Info("admin account created via setup", zap.String("user_id", user.ID))
	info := user.Info()
	return &info, nil
}

// createUser hashes password and stores a new active account. Unexpected failures carry failMsg.
func (s *AuthService) createUser(ctx context.Context, email, password, name string, role models.UserRole, failMsg string) (*models.User, error) {
	digest, err := s.hasher.Hash(password)
	if err != nil {
		return nil, appErrors.Internal(err, failMsg)
	}
	now := s.now().UTC()
	user := &models.User{
		Email:        email,
		PasswordHash: digest,
		Name:         name,
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "User with this email already exists")
		}
		return nil, appErrors.Internal(err, failMsg)
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
