package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/project-hub/internal/auth"
	"github.com/spec-kit/project-hub/internal/events"
	"github.com/spec-kit/project-hub/internal/mail"
	"github.com/spec-kit/project-hub/internal/repository"
	"github.com/spec-kit/project-hub/internal/token"
	apperrors "github.com/spec-kit/project-hub/pkg/util"
)

// PasswordResetService issues reset tokens and consumes them to authorize a
// password change. Repeated requests each mint an independent token; earlier
// live tokens stay redeemable until their own expiry.
type PasswordResetService struct {
	users      repository.UserRepository
	tokens     token.Store
	hasher     auth.PasswordHasher
	mailer     mail.Dispatcher
	dispatcher events.Dispatcher
	logger     *zap.Logger
	ttl        time.Duration
	baseURL    string
}

// NewPasswordResetService builds the service.
func NewPasswordResetService(users repository.UserRepository, tokens token.Store, hasher auth.PasswordHasher, mailer mail.Dispatcher, dispatcher events.Dispatcher, logger *zap.Logger, ttl time.Duration, baseURL string) *PasswordResetService {
	return &PasswordResetService{
		users:      users,
		tokens:     tokens,
		hasher:     hasher,
		mailer:     mailer,
		dispatcher: dispatcher,
		logger:     logger,
		ttl:        ttl,
		baseURL:    baseURL,
	}
}

// RequestReset creates a reset token for the account behind the email and
// dispatches the reset link.
func (s *PasswordResetService) RequestReset(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user", map[string]any{"email": email})
		}
		return err
	}

	rec, err := s.tokens.Create(ctx, token.PurposeReset, user.ID, "", s.ttl)
	if err != nil {
		return err
	}

	link := fmt.Sprintf("%s/reset-password?token=%s", s.baseURL, rec.Value)
	body := fmt.Sprintf("A password reset was requested for your account.\n\nReset here: %s\n\nThe link expires at %s. If you did not request this, ignore this message.",
		link, rec.ExpiresAt.Format(time.RFC1123))
	if err := s.mailer.Send(ctx, user.Email, "Password reset", body); err != nil {
		return apperrors.NewMailDeliveryFailed(err)
	}

	s.publish(ctx, events.EventPasswordResetRequested, user.ID, events.PasswordResetRequestedPayload{
		UserID: user.ID,
	})
	return nil
}

// ValidateToken checks that a reset token is live without consuming it, so a
// form can be shown before the new password is submitted. A successful check
// does not guarantee a later redemption will succeed.
func (s *PasswordResetService) ValidateToken(ctx context.Context, tokenValue string) error {
	rec, err := s.tokens.Peek(ctx, tokenValue)
	if err != nil {
		if errors.Is(err, token.ErrExpired) {
			return apperrors.NewTokenExpired("reset token expired")
		}
		if errors.Is(err, token.ErrNotFound) {
			return apperrors.NewInvalidToken("reset token is invalid or expired")
		}
		return err
	}
	if rec.Purpose != token.PurposeReset {
		return apperrors.NewInvalidToken("reset token is invalid or expired")
	}
	return nil
}

// ConsumeForPasswordChange redeems the reset token and updates the bound
// user's credential. The token is consumed before any credential mutation, so
// a crash between the two leaves the password unchanged and the token dead.
func (s *PasswordResetService) ConsumeForPasswordChange(ctx context.Context, tokenValue, newPassword string) error {
	rec, err := s.tokens.Redeem(ctx, tokenValue)
	if err != nil {
		if errors.Is(err, token.ErrExpired) {
			return apperrors.NewTokenExpired("reset token expired")
		}
		if errors.Is(err, token.ErrNotFound) {
			return apperrors.NewInvalidToken("reset token is invalid or expired")
		}
		return err
	}
	if rec.Purpose != token.PurposeReset {
		return apperrors.NewInvalidToken("reset token is invalid or expired")
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, rec.SubjectRef, hash); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user", nil)
		}
		return err
	}

	s.publish(ctx, events.EventPasswordResetCompleted, rec.SubjectRef, events.PasswordResetCompletedPayload{
		UserID: rec.SubjectRef,
	})
	return nil
}

func (s *PasswordResetService) publish(ctx context.Context, eventType events.EventType, subjectID string, payload interface{}) {
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
