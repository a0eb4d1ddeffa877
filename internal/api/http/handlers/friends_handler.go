package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/volunteer-service/internal/api/dto"
	"github.com/spec-kit/volunteer-service/internal/domain"
	"github.com/spec-kit/volunteer-service/internal/service"
)

// FriendsHandler serves the volunteer friend graph.
type FriendsHandler struct {
	friends *service.FriendService
}

// NewFriendsHandler constructs handler.
func NewFriendsHandler(friendService *service.FriendService) *FriendsHandler {
	return &FriendsHandler{friends: friendService}
}

// Request POST /api/friends/requests.
func (h *FriendsHandler) Request(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.FriendRequestRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	link, err := h.friends.Request(c.Context(), user, req.UserID)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": friendLinkResponse(link)})
}

// Accept POST /api/friends/requests/:id/accept.
func (h *FriendsHandler) Accept(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	link, err := h.friends.Accept(c.Context(), user, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": friendLinkResponse(link)})
}

// List GET /api/friends.
func (h *FriendsHandler) List(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	links, err := h.friends.ListForUser(c.Context(), user.ID)
	if err != nil {
		return err
	}
	items := make([]dto.FriendLinkResponse, 0, len(links))
	for i := range links {
		items = append(items, friendLinkResponse(&links[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

func friendLinkResponse(link *domain.FriendLink) dto.FriendLinkResponse {
	return dto.FriendLinkResponse{
		ID:          link.ID,
		RequesterID: link.RequesterID,
		AddresseeID: link.AddresseeID,
		Status:      link.Status,
		CreatedAt:   link.CreatedAt,
		AcceptedAt:  link.AcceptedAt,
	}
}
