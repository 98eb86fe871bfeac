package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/project-hub/internal/auth"
	"github.com/spec-kit/project-hub/internal/config"
	"github.com/spec-kit/project-hub/internal/domain"
	"github.com/spec-kit/project-hub/internal/events"
	"github.com/spec-kit/project-hub/internal/repository"
	apperrors "github.com/spec-kit/project-hub/pkg/util"
)

// AuthService coordinates registration and login, minting session tokens.
type AuthService struct {
	users      repository.UserRepository
	hasher     auth.PasswordHasher
	issuer     *auth.TokenIssuer
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// AuthDependencies encapsulates collaborator requirements for the auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	Hasher     auth.PasswordHasher
	Issuer     *auth.TokenIssuer
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	issuer := deps.Issuer
	if issuer == nil {
		issuer = auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.SessionTTL())
	}
	hasher := deps.Hasher
	if hasher == nil {
		hasher = auth.NewBcryptHasher(cfg.Auth.BcryptCost)
	}
	return &AuthService{
		users:      deps.UserRepo,
		hasher:     hasher,
		issuer:     issuer,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
}

// Register creates a new account and issues its first session token.
func (s *AuthService) Register(ctx context.Context, fullName, email, password string, role domain.Role) (*domain.User, string, time.Time, error) {
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, "", time.Time{}, apperrors.NewConflict("email is already used with another account", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, "", time.Time{}, err
	}

	if !role.Valid() {
		role = domain.RoleUser
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	user := &domain.User{
		FullName:     fullName,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", time.Time{}, err
	}

	token, exp, err := s.issuer.Issue(user.ID, user.Role)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	s.publish(ctx, events.EventUserRegistered, user.ID, events.UserRegisteredPayload{
		Email: user.Email,
		Role:  user.Role,
	})
	return user, token, exp, nil
}

// Login authenticates a user and issues a session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, time.Time, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewUnauthenticated("invalid email or password")
		}
		return nil, "", time.Time{}, err
	}
	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthenticated("invalid email or password")
	}

	token, exp, err := s.issuer.Issue(user.ID, user.Role)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, exp, nil
}

// Issuer exposes the token issuer for gate wiring.
func (s *AuthService) Issuer() *auth.TokenIssuer {
	return s.issuer
}

func (s *AuthService) publish(ctx context.Context, eventType events.EventType, subjectID string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		SubjectID: subjectID,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
