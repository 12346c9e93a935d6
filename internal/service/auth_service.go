package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/opusnote/opusnote-api/internal/dto"
	"github.com/opusnote/opusnote-api/internal/models"
	"github.com/opusnote/opusnote-api/internal/repository"
)

// Authentication error taxonomy. Handlers map these onto 401/403/409.
var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUnauthorized       = errors.New("authentication required")
	ErrForbidden          = errors.New("admin role required")
	ErrUsernameTaken      = errors.New("username already taken")
)

// AuthService orchestrates credential bootstrap, login verification and
// teacher registration.
type AuthService interface {
	// Bootstrap seeds the default admin when the credential store is empty.
	// It must complete before the service accepts requests.
	Bootstrap(ctx context.Context) error
	Login(ctx context.Context, req dto.LoginRequest) (models.Identity, error)
	// Register creates a teacher account. While no teacher exists yet the call
	// is open (first setup); afterwards it requires an admin identity.
	Register(ctx context.Context, req dto.RegisterRequest, current *models.Identity) (models.Identity, error)
	NeedsFirstSetup(ctx context.Context) (bool, error)
}

type authService struct {
	accounts          repository.AccountRepository
	validator         *validator.Validate
	bootstrapUsername string
	bootstrapPassword string
	logger            zerolog.Logger
}

// NewAuthService constructs the authentication service. The bootstrap
// credentials seed the initial admin account.
func NewAuthService(accounts repository.AccountRepository, validator *validator.Validate, bootstrapUsername, bootstrapPassword string, logger zerolog.Logger) AuthService {
	return &authService{
		accounts:          accounts,
		validator:         validator,
		bootstrapUsername: bootstrapUsername,
		bootstrapPassword: bootstrapPassword,
		logger:            logger.With().Str("component", "auth_service").Logger(),
	}
}

func (s *authService) Bootstrap(ctx context.Context) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(s.bootstrapPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash bootstrap password: %w", err)
	}

	if err := s.accounts.Bootstrap(ctx, s.bootstrapUsername, string(hash)); err != nil {
		return fmt.Errorf("bootstrap admin account: %w", err)
	}

	s.logger.Info().Str("username", s.bootstrapUsername).Msg("credential store ready")
	return nil
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (models.Identity, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.Identity{}, err
	}

	account, err := s.accounts.Get(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.Identity{}, ErrInvalidCredentials
		}
		return models.Identity{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(req.Password)) != nil {
		return models.Identity{}, ErrInvalidCredentials
	}

	return models.Identity{Username: account.Username, Role: account.Role}, nil
}

func (s *authService) Register(ctx context.Context, req dto.RegisterRequest, current *models.Identity) (models.Identity, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.Identity{}, err
	}

	teachers, err := s.accounts.TeacherCount(ctx)
	if err != nil {
		return models.Identity{}, err
	}

	if teachers > 0 {
		if current == nil {
			return models.Identity{}, ErrUnauthorized
		}
		if !current.IsAdmin() {
			return models.Identity{}, ErrForbidden
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.Identity{}, fmt.Errorf("hash password: %w", err)
	}

	account, err := s.accounts.Insert(ctx, req.Username, string(hash), models.RoleTeacher)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return models.Identity{}, ErrUsernameTaken
		}
		return models.Identity{}, err
	}

	s.logger.Info().Str("username", account.Username).Msg("teacher account registered")
	return models.Identity{Username: account.Username, Role: account.Role}, nil
}

func (s *authService) NeedsFirstSetup(ctx context.Context) (bool, error) {
	teachers, err := s.accounts.TeacherCount(ctx)
	if err != nil {
		return false, err
	}
	return teachers == 0, nil
}
