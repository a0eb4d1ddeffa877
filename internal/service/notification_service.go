package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/volunteer-service/internal/config"
	"github.com/spec-kit/volunteer-service/internal/events"
)

// NotificationService handles emitting notifications for domain events.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventSignupCreated, n.handleSignupCreated)
	n.dispatcher.Subscribe(events.EventSignupStatusChanged, n.handleSignupStatusChanged)
	n.dispatcher.Subscribe(events.EventWaitlistPromoted, n.handleWaitlistPromoted)
	n.dispatcher.Subscribe(events.EventShiftCapacityExceeded, n.handleCapacityExceeded)
}

func (n *NotificationService) handleSignupCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("SignupCreated", zap.String("shift_id", event.ShiftID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleSignupStatusChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("SignupStatusChanged", zap.String("shift_id", event.ShiftID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleWaitlistPromoted(ctx context.Context, event events.Event) error {
	n.logger.Info("WaitlistPromoted", zap.String("shift_id", event.ShiftID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleCapacityExceeded(ctx context.Context, event events.Event) error {
	n.logger.Warn("ShiftCapacityExceeded", zap.String("shift_id", event.ShiftID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("shift_id", event.ShiftID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("shift_id", event.ShiftID),
		zap.String("event_type", string(event.Type)))
}
