package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/mergington-activities-api/internal/models"
	"github.com/noah-isme/mergington-activities-api/internal/repository"
	appErrors "github.com/noah-isme/mergington-activities-api/pkg/errors"
)

type teacherRepository interface {
	List(ctx context.Context) ([]models.Teacher, error)
	FindByUsername(ctx context.Context, username string) (*models.Teacher, error)
}

// SessionRepository persists the one live session each teacher may hold.
type SessionRepository interface {
	Save(ctx context.Context, session models.Session, ttl time.Duration) error
	FindUsername(ctx context.Context, token string) (string, error)
	DeleteByToken(ctx context.Context, token string) (string, error)
}

// AuthConfig defines configuration for the session flow.
type AuthConfig struct {
	SessionTTL time.Duration
}

// AuthService authenticates teachers and tracks their cookie sessions.
type AuthService struct {
	teachers  teacherRepository
	sessions  SessionRepository
	validator *validator.Validate
	logger    *zap.Logger
	metrics   *MetricsService
	config    AuthConfig
	newToken  func() (string, error)
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(teachers teacherRepository, sessions SessionRepository, validate *validator.Validate, logger *zap.Logger, metrics *MetricsService, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if config.SessionTTL <= 0 {
		config.SessionTTL = 24 * time.Hour
	}
	return &AuthService{
		teachers:  teachers,
		sessions:  sessions,
		validator: validate,
		logger:    logger,
		metrics:   metrics,
		config:    config,
		newToken:  generateSessionToken,
	}
}

// SessionTTL is how long the issued cookie stays valid in the browser.
func (s *AuthService) SessionTTL() time.Duration {
	return s.config.SessionTTL
}

// Login checks credentials against the users file and opens a session.
// A new login replaces whatever session the teacher already had.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "username and password are required")
	}

	teachers, err := s.teachers.List(ctx)
	if err != nil {
		s.logger.Error("failed to load teachers", zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load users")
	}

	var teacher *models.Teacher
	for i := range teachers {
		if teachers[i].Username == req.Username && passwordMatches(teachers[i], req.Password) {
			teacher = &teachers[i]
			break
		}
	}
	if teacher == nil {
		s.metrics.RecordLogin(false)
		s.logger.Info("login rejected", zap.String("username", req.Username), zap.String("ip", req.IP))
		return nil, appErrors.ErrInvalidCredentials
	}

	token, err := s.newToken()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create session token")
	}
	if err := s.sessions.Save(ctx, models.Session{Username: teacher.Username, Token: token}, s.config.SessionTTL); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist session")
	}

	s.metrics.RecordLogin(true)
	s.logger.Info("teacher logged in", zap.String("username", teacher.Username), zap.String("ip", req.IP))

	info := teacher.Info()
	return &models.LoginResult{
		Token: token,
		Response: models.LoginResponse{
			Success: true,
			Message: "Login successful",
			User:    &info,
		},
	}, nil
}

// Logout ends the session owning token. Unknown or empty tokens are not an
// error; the caller clears the cookie either way.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	username, err := s.sessions.DeleteByToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to end session")
	}
	s.logger.Info("teacher logged out", zap.String("username", username))
	return nil
}

// Status resolves a session token to the teacher it belongs to. Teachers
// removed from the users file read as logged out.
func (s *AuthService) Status(ctx context.Context, token string) (*models.AuthStatus, error) {
	username, err := s.Authenticate(ctx, token)
	if err != nil {
		if errors.Is(err, appErrors.ErrUnauthorized) {
			return &models.AuthStatus{Authenticated: false}, nil
		}
		return nil, err
	}

	teacher, err := s.teachers.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrTeacherNotFound) {
			return &models.AuthStatus{Authenticated: false}, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load users")
	}

	info := teacher.Info()
	return &models.AuthStatus{Authenticated: true, User: &info}, nil
}

// Authenticate returns the username owning token or ErrUnauthorized.
func (s *AuthService) Authenticate(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", appErrors.ErrUnauthorized
	}
	username, err := s.sessions.FindUsername(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return "", appErrors.ErrUnauthorized
		}
		s.logger.Warn("session lookup failed", zap.Error(err))
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve session")
	}
	return username, nil
}

func passwordMatches(t models.Teacher, password string) bool {
	if t.PasswordHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(t.PasswordHash), []byte(password)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(t.Password), []byte(password)) == 1
}

// generateSessionToken returns 32 random bytes as unpadded URL-safe base64.
func generateSessionToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
