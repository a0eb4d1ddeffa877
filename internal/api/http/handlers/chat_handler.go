package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/volunteer-service/internal/api/dto"
	"github.com/spec-kit/volunteer-service/internal/service"
)

// ChatHandler proxies help-desk questions.
type ChatHandler struct {
	chat *service.ChatService
}

// NewChatHandler constructs handler.
func NewChatHandler(chatService *service.ChatService) *ChatHandler {
	return &ChatHandler{chat: chatService}
}

// Ask POST /api/chat.
func (h *ChatHandler) Ask(c *fiber.Ctx) error {
	if _, err := currentUser(c); err != nil {
		return err
	}
	var req dto.ChatAskRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	reply, err := h.chat.Ask(c.Context(), req.SessionID, req.Question)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ChatAskResponse{SessionID: reply.SessionID, Answer: reply.Answer}})
}

// History GET /api/chat/:session_id.
func (h *ChatHandler) History(c *fiber.Ctx) error {
	if _, err := currentUser(c); err != nil {
		return err
	}
	turns, err := h.chat.History(c.Context(), c.Params("session_id"))
	if err != nil {
		return err
	}
	items := make([]dto.ChatTurnResponse, 0, len(turns))
	for _, turn := range turns {
		items = append(items, dto.ChatTurnResponse{Role: turn.Role, Content: turn.Content, SentAt: turn.SentAt})
	}
	return c.JSON(fiber.Map{"data": items})
}
