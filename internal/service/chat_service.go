package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/volunteer-service/internal/config"
	apperrors "github.com/spec-kit/volunteer-service/pkg/util/errorutil"
)

// ChatTurn is one exchange in a help-desk conversation.
type ChatTurn struct {
	Role    string    `json:"role"`
	Content string    `json:"content"`
	SentAt  time.Time `json:"sent_at"`
}

// ChatReply is the answer returned to the caller.
type ChatReply struct {
	SessionID string `json:"session_id"`
	Answer    string `json:"answer"`
}

// ChatService proxies volunteer help-desk questions to an external
// model endpoint. Conversations live in Redis under a per-session key
// and expire after the configured TTL; no transcript is written to
// Postgres.
type ChatService struct {
	rdb    *redis.Client
	cfg    config.ChatConfig
	logger *zap.Logger
	client *http.Client
}

// NewChatService creates the service.
func NewChatService(rdb *redis.Client, cfg config.ChatConfig, logger *zap.Logger) *ChatService {
	return &ChatService{
		rdb:    rdb,
		cfg:    cfg,
		logger: logger,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// Enabled reports whether the chat proxy is configured.
func (c *ChatService) Enabled() bool {
	return strings.TrimSpace(c.cfg.ModelURL) != ""
}

// Ask appends the question to the conversation, forwards the history to
// the model endpoint, stores the answer, and refreshes the session TTL.
// An empty sessionID starts a new conversation.
func (c *ChatService) Ask(ctx context.Context, sessionID, question string) (*ChatReply, error) {
	if !c.Enabled() {
		return nil, apperrors.NewUnavailable("chat is not configured", nil)
	}
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, apperrors.NewValidationError("question is required", nil)
	}
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	turns, err := c.loadConversation(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	turns = append(turns, ChatTurn{Role: "user", Content: question, SentAt: time.Now().UTC()})

	answer, err := c.callModel(ctx, turns)
	if err != nil {
		return nil, apperrors.NewUnavailable("chat backend request failed", err)
	}
	turns = append(turns, ChatTurn{Role: "assistant", Content: answer, SentAt: time.Now().UTC()})

	// Keep only the most recent turns so conversations stay bounded.
	if c.cfg.MaxTurns > 0 && len(turns) > c.cfg.MaxTurns {
		turns = turns[len(turns)-c.cfg.MaxTurns:]
	}
	if err := c.storeConversation(ctx, sessionID, turns); err != nil {
		c.logger.Warn("failed to persist chat conversation",
			zap.String("session_id", sessionID),
			zap.Error(err))
	}

	return &ChatReply{SessionID: sessionID, Answer: answer}, nil
}

// History returns the stored turns for a session. Expired or unknown
// sessions return an empty slice.
func (c *ChatService) History(ctx context.Context, sessionID string) ([]ChatTurn, error) {
	if sessionID == "" {
		return nil, apperrors.NewValidationError("session id is required", nil)
	}
	return c.loadConversation(ctx, sessionID)
}

func conversationKey(sessionID string) string {
	return "chat:conv:" + sessionID
}

func (c *ChatService) loadConversation(ctx context.Context, sessionID string) ([]ChatTurn, error) {
	raw, err := c.rdb.Get(ctx, conversationKey(sessionID)).Bytes()
	if err == redis.Nil {
		return []ChatTurn{}, nil
	}
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	var turns []ChatTurn
	if err := json.Unmarshal(raw, &turns); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return turns, nil
}

func (c *ChatService) storeConversation(ctx context.Context, sessionID string, turns []ChatTurn) error {
	raw, err := json.Marshal(turns)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, conversationKey(sessionID), raw, c.cfg.SessionTTL()).Err()
}

func (c *ChatService) callModel(ctx context.Context, turns []ChatTurn) (string, error) {
	type modelMessage struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}
	messages := make([]modelMessage, 0, len(turns))
	for _, turn := range turns {
		messages = append(messages, modelMessage{Role: turn.Role, Content: turn.Content})
	}

	body, err := json.Marshal(map[string]interface{}{"messages": messages})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.ModelURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("model endpoint returned status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}
	var decoded struct {
		Answer string `json:"answer"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", err
	}
	if decoded.Answer == "" {
		return "", fmt.Errorf("model endpoint returned an empty answer")
	}
	return decoded.Answer, nil
}
