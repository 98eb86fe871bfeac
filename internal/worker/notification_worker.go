package worker

import (
	"github.com/spec-kit/project-hub/internal/service"
)

// StartNotificationWorker registers auth event handlers.
func StartNotificationWorker(notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}
