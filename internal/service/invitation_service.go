package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/project-hub/internal/events"
	"github.com/spec-kit/project-hub/internal/mail"
	"github.com/spec-kit/project-hub/internal/repository"
	"github.com/spec-kit/project-hub/internal/token"
	apperrors "github.com/spec-kit/project-hub/pkg/util"
)

// InvitationService issues project invitation tokens and redeems them into
// membership. Redemption does not check that the caller's email matches the
// invited address: a live invitation link is honored for any authenticated
// user, so links remain forwardable.
type InvitationService struct {
	tokens     token.Store
	mailer     mail.Dispatcher
	members    repository.ProjectMemberRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	ttl        time.Duration
	baseURL    string
}

// NewInvitationService builds the service.
func NewInvitationService(tokens token.Store, mailer mail.Dispatcher, members repository.ProjectMemberRepository, dispatcher events.Dispatcher, logger *zap.Logger, ttl time.Duration, baseURL string) *InvitationService {
	return &InvitationService{
		tokens:     tokens,
		mailer:     mailer,
		members:    members,
		dispatcher: dispatcher,
		logger:     logger,
		ttl:        ttl,
		baseURL:    baseURL,
	}
}

// Invite creates an invitation token for the email and dispatches the accept
// link. A blank email fails validation before any token is created.
func (s *InvitationService) Invite(ctx context.Context, email, projectID string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return apperrors.NewValidationError("email address cannot be empty", nil)
	}

	rec, err := s.tokens.Create(ctx, token.PurposeInvite, email, projectID, s.ttl)
	if err != nil {
		return err
	}

	link := fmt.Sprintf("%s/api/projects/accept_invitation?token=%s", s.baseURL, rec.Value)
	body := fmt.Sprintf("You have been invited to join a project.\n\nAccept here: %s\n\nThe link expires at %s.",
		link, rec.ExpiresAt.Format(time.RFC1123))
	if err := s.mailer.Send(ctx, email, "Project invitation", body); err != nil {
		return apperrors.NewMailDeliveryFailed(err)
	}

	s.publish(ctx, events.EventInvitationSent, "", events.InvitationSentPayload{
		Email:     email,
		ProjectID: projectID,
	})
	return nil
}

// Accept redeems the invitation token and registers the caller as a member of
// the invited project, returning the project id.
func (s *InvitationService) Accept(ctx context.Context, tokenValue, userID string) (string, error) {
	rec, err := s.tokens.Redeem(ctx, tokenValue)
	if err != nil {
		if errors.Is(err, token.ErrNotFound) || errors.Is(err, token.ErrExpired) {
			return "", apperrors.NewInvalidToken("invitation token is invalid or expired")
		}
		return "", err
	}
	if rec.Purpose != token.PurposeInvite {
		return "", apperrors.NewInvalidToken("invitation token is invalid or expired")
	}

	if err := s.members.AddMember(ctx, rec.ProjectID, userID); err != nil {
		return "", err
	}

	s.publish(ctx, events.EventInvitationAccepted, userID, events.InvitationAcceptedPayload{
		ProjectID: rec.ProjectID,
		UserID:    userID,
	})
	return rec.ProjectID, nil
}

func (s *InvitationService) publish(ctx context.Context, eventType events.EventType, subjectID string, payload interface{}) {
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
