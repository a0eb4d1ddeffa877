package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/volunteer-service/internal/config"
	"github.com/spec-kit/volunteer-service/internal/events"
)

// NewsletterService mirrors registered volunteers into an external
// mailing-list provider. Sync is best effort and never blocks
// registration.
type NewsletterService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NewsletterConfig
	client     *http.Client
}

// NewNewsletterService creates the service.
func NewNewsletterService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NewsletterConfig) *NewsletterService {
	return &NewsletterService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

// RegisterHandlers subscribes to events.
func (n *NewsletterService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventUserRegistered, n.handleUserRegistered)
}

func (n *NewsletterService) handleUserRegistered(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.UserRegisteredPayload)
	if !ok {
		n.logger.Warn("unexpected payload for user_registered event")
		return nil
	}
	if err := n.syncSubscriber(ctx, payload.Name, payload.Email); err != nil {
		n.logger.Warn("newsletter sync failed",
			zap.String("user_id", payload.UserID),
			zap.Error(err))
	}
	return nil
}

func (n *NewsletterService) syncSubscriber(ctx context.Context, name, email string) error {
	if strings.TrimSpace(n.cfg.APIURL) == "" {
		return nil
	}

	body, err := json.Marshal(map[string]string{
		"EmailAddress": email,
		"Name":         name,
	})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/subscribers/%s.json", strings.TrimRight(n.cfg.APIURL, "/"), n.cfg.ListID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(n.cfg.APIKey, "x")

	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("newsletter provider returned status %d", resp.StatusCode)
	}
	n.logger.Info("newsletter subscriber synced", zap.String("email", email))
	return nil
}
