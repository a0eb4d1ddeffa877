package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/volunteer-service/internal/api/dto"
	"github.com/spec-kit/volunteer-service/internal/service"
)

// SignupsHandler covers operations on an existing signup.
type SignupsHandler struct {
	signups *service.SignupService
}

// NewSignupsHandler constructs handler.
func NewSignupsHandler(signupService *service.SignupService) *SignupsHandler {
	return &SignupsHandler{signups: signupService}
}

// Cancel POST /api/signups/:id/cancel. Volunteers cancel their own
// signups; admins can cancel any.
func (h *SignupsHandler) Cancel(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	canceled, promoted, err := h.signups.Cancel(c.Context(), user, c.Params("id"))
	if err != nil {
		return err
	}
	resp := dto.CancelSignupResponse{Canceled: signupResponse(canceled)}
	if promoted != nil {
		p := signupResponse(promoted)
		resp.Promoted = &p
	}
	return c.JSON(fiber.Map{"data": resp})
}
