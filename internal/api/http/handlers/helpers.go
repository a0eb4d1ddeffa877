package handlers

import (
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/volunteer-service/internal/api/dto"
	"github.com/spec-kit/volunteer-service/internal/auth"
	"github.com/spec-kit/volunteer-service/internal/domain"
	"github.com/spec-kit/volunteer-service/internal/service"
	apperrors "github.com/spec-kit/volunteer-service/pkg/util/errorutil"
)

var validate = validator.New()

// parseBody decodes and validates a JSON request body.
func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validate.Struct(out); err != nil {
		details := map[string]any{}
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				details[fe.Field()] = fe.Tag()
			}
		}
		return apperrors.NewValidationError("validation failed", details)
	}
	return nil
}

// currentUser extracts the authenticated user or fails with 401.
func currentUser(c *fiber.Ctx) (*domain.User, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	return principal.User, nil
}

func parseTime(val string) *time.Time {
	if val == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return nil
	}
	return &t
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func paginationFromQuery(c *fiber.Ctx) (limit, offset int) {
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	if pageSize > 100 {
		pageSize = 100
	}
	return pageSize, (page - 1) * pageSize
}

func userResponse(user *domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:             user.ID,
		Name:           user.Name,
		Email:          user.Email,
		Role:           user.Role,
		Status:         user.Status,
		VolunteerGrade: user.VolunteerGrade,
		NoShowCount:    user.NoShowCount,
		CreatedAt:      user.CreatedAt,
	}
}

func signupResponse(signup *domain.Signup) dto.SignupResponse {
	return dto.SignupResponse{
		ID:             signup.ID,
		ShiftID:        signup.ShiftID,
		UserID:         signup.UserID,
		Status:         signup.Status,
		PreviousStatus: signup.PreviousStatus,
		Origin:         signup.Origin,
		Note:           signup.Note,
		CreatedAt:      signup.CreatedAt,
		CanceledAt:     signup.CanceledAt,
	}
}

func shiftResponse(shift *domain.Shift, stats *service.ShiftStats, cutoffHour int) dto.ShiftResponse {
	resp := dto.ShiftResponse{
		ID:               shift.ID,
		Location:         shift.Location,
		ShiftTypeID:      shift.ShiftTypeID,
		StartsAt:         shift.StartsAt,
		EndsAt:           shift.EndsAt,
		Period:           shift.Period(cutoffHour),
		Capacity:         shift.Capacity,
		PlaceholderCount: shift.PlaceholderCount,
		Note:             shift.Note,
	}
	if stats != nil {
		resp.Confirmed = stats.Confirmed
		resp.Occupancy = stats.Occupancy
		resp.FillRate = stats.FillRate
		resp.FillLabel = stats.Label
	}
	return resp
}
