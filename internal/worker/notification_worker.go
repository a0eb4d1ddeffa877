package worker

import (
	"github.com/spec-kit/volunteer-service/internal/service"
)

// StartEventWorkers registers all event-driven handlers: notifications,
// newsletter sync and achievement milestones.
func StartEventWorkers(notifications *service.NotificationService, newsletter *service.NewsletterService, achievements *service.AchievementService) {
	if notifications != nil {
		notifications.RegisterHandlers()
	}
	if newsletter != nil {
		newsletter.RegisterHandlers()
	}
	if achievements != nil {
		achievements.RegisterHandlers()
	}
}
