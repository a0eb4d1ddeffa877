package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/volunteer-service/internal/api/dto"
	"github.com/spec-kit/volunteer-service/internal/service"
	apperrors "github.com/spec-kit/volunteer-service/pkg/util/errorutil"
)

// UsersHandler exposes registration, login and profile endpoints.
type UsersHandler struct {
	auth         *service.AuthService
	signups      *service.SignupService
	achievements *service.AchievementService
	cutoffHour   int
}

// NewUsersHandler constructs handler.
func NewUsersHandler(authService *service.AuthService, signupService *service.SignupService, achievementService *service.AchievementService, cutoffHour int) *UsersHandler {
	return &UsersHandler{
		auth:         authService,
		signups:      signupService,
		achievements: achievementService,
		cutoffHour:   cutoffHour,
	}
}

// Register handles POST /auth/register.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterUserRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	user, token, exp, err := h.auth.RegisterUser(c.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return apperrors.NewValidationError(err.Error(), nil)
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": dto.AuthResponse{Token: token, ExpiresAt: exp, User: userResponse(user)},
	})
}

// Login handles POST /auth/login.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	user, token, exp, err := h.auth.LoginUser(c.Context(), req.Email, req.Password)
	if err != nil {
		return apperrors.NewUnauthorized(err.Error())
	}

	return c.JSON(fiber.Map{
		"data": dto.AuthResponse{Token: token, ExpiresAt: exp, User: userResponse(user)},
	})
}

// Me handles GET /api/me.
func (h *UsersHandler) Me(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponse(user)})
}

// MySignups handles GET /api/me/signups.
func (h *UsersHandler) MySignups(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	limit, offset := paginationFromQuery(c)
	items, err := h.signups.ListForUser(c.Context(), user.ID, limit, offset)
	if err != nil {
		return err
	}
	resp := make([]dto.MySignupResponse, 0, len(items))
	for i := range items {
		resp = append(resp, dto.MySignupResponse{
			Signup: signupResponse(&items[i].Signup),
			Shift:  shiftResponse(&items[i].Shift, nil, h.cutoffHour),
		})
	}
	return c.JSON(fiber.Map{"data": resp})
}

// MyAchievements handles GET /api/me/achievements.
func (h *UsersHandler) MyAchievements(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	awards, err := h.achievements.ListForUser(c.Context(), user.ID)
	if err != nil {
		return err
	}
	resp := make([]dto.AchievementResponse, 0, len(awards))
	for _, award := range awards {
		resp = append(resp, dto.AchievementResponse{
			ID:        award.ID,
			Kind:      award.Kind,
			AwardedAt: award.AwardedAt,
		})
	}
	return c.JSON(fiber.Map{"data": resp})
}
