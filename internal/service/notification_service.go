package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/project-hub/internal/config"
	"github.com/spec-kit/project-hub/internal/events"
	"github.com/spec-kit/project-hub/internal/mail"
)

// NotificationService reacts to auth lifecycle events. Token mails are sent
// synchronously by the managers; this service handles everything best-effort,
// like the welcome mail and audit logging.
type NotificationService struct {
	dispatcher events.Dispatcher
	mailer     mail.Dispatcher
	logger     *zap.Logger
	cfg        config.MailConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, mailer mail.Dispatcher, logger *zap.Logger, cfg config.MailConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		mailer:     mailer,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventUserRegistered, n.handleUserRegistered)
	n.dispatcher.Subscribe(events.EventInvitationSent, n.handleLogged("InvitationSent"))
	n.dispatcher.Subscribe(events.EventInvitationAccepted, n.handleLogged("InvitationAccepted"))
	n.dispatcher.Subscribe(events.EventPasswordResetRequested, n.handleLogged("PasswordResetRequested"))
	n.dispatcher.Subscribe(events.EventPasswordResetCompleted, n.handleLogged("PasswordResetCompleted"))
}

func (n *NotificationService) handleUserRegistered(ctx context.Context, event events.Event) error {
	n.logger.Info("UserRegistered", zap.String("subject_id", event.SubjectID), zap.Any("payload", event.Payload))

	payload, ok := event.Payload.(events.UserRegisteredPayload)
	if !ok || strings.TrimSpace(n.cfg.From) == "" {
		return nil
	}
	body := fmt.Sprintf("Welcome to project-hub!\n\nYour account %s is ready.", payload.Email)
	if err := n.mailer.Send(ctx, payload.Email, "Welcome", body); err != nil {
		// welcome mail is best-effort, registration already succeeded
		n.logger.Warn("welcome mail failed", zap.Error(err))
	}
	return nil
}

func (n *NotificationService) handleLogged(name string) events.EventHandler {
	return func(_ context.Context, event events.Event) error {
		n.logger.Info(name, zap.String("subject_id", event.SubjectID), zap.Any("payload", event.Payload))
		return nil
	}
}
