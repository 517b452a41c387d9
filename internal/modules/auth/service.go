package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"filesmanager/internal/domain"
	"filesmanager/internal/metrics"
	"filesmanager/internal/pkg/validator"
	"filesmanager/internal/repository"
	"filesmanager/internal/session"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	// SessionTTL is how long a token stays valid after connect.
	SessionTTL = 24 * time.Hour

	tokenKeyPrefix = "auth_"
)

// Service issues, resolves and revokes session tokens.
type Service struct {
	users    UserRepository
	sessions session.Store
	log      *zap.Logger
	metrics  *metrics.Metrics
}

func NewService(users UserRepository, sessions session.Store, log *zap.Logger, m *metrics.Metrics) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{users: users, sessions: sessions, log: log, metrics: m}
}

func tokenKey(token string) string {
	return tokenKeyPrefix + token
}

// Register creates a user with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if errs := validator.Validate(req); errs != nil {
		switch {
		case errs["email"] == "required":
			return nil, ErrMissingEmail
		case errs["email"] != "":
			return nil, ErrInvalidEmail
		default:
			return nil, ErrMissingPassword
		}
	}

	if _, err := s.users.GetByEmail(ctx, req.Email); err == nil {
		return nil, ErrAlreadyExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{Email: req.Email, PasswordHash: string(hash)}
	if err := s.users.Create(ctx, user); err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAlreadyExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.log.Info("user registered", zap.String("user_id", user.ID))
	return user, nil
}

// Connect checks credentials and issues a token valid for SessionTTL.
func (s *Service) Connect(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		s.metrics.RecordAuthAttempt(false)
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrUnauthorized
		}
		return "", fmt.Errorf("lookup user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.metrics.RecordAuthAttempt(false)
		return "", ErrUnauthorized
	}

	token := uuid.NewString()
	if err := s.sessions.Set(ctx, tokenKey(token), user.ID, SessionTTL); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}

	s.metrics.RecordAuthAttempt(true)
	return token, nil
}

// Authenticate resolves a token to the id of an existing user.
func (s *Service) Authenticate(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrUnauthorized
	}

	userID, err := s.sessions.Get(ctx, tokenKey(token))
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return "", ErrUnauthorized
		}
		return "", fmt.Errorf("read session: %w", err)
	}

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrUnauthorized
		}
		return "", fmt.Errorf("lookup user: %w", err)
	}
	return userID, nil
}

// Disconnect revokes a token. Unknown tokens are ErrUnauthorized.
func (s *Service) Disconnect(ctx context.Context, token string) error {
	if _, err := s.Authenticate(ctx, token); err != nil {
		return err
	}
	if err := s.sessions.Del(ctx, tokenKey(token)); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *Service) Me(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	return user, nil
}
