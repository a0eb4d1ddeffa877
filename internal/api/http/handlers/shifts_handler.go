package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/volunteer-service/internal/api/dto"
	"github.com/spec-kit/volunteer-service/internal/repository"
	"github.com/spec-kit/volunteer-service/internal/service"
)

// ShiftsHandler serves shift discovery and self-service signup.
type ShiftsHandler struct {
	shifts     *service.ShiftService
	signups    *service.SignupService
	cutoffHour int
}

// NewShiftsHandler constructs handler.
func NewShiftsHandler(shiftService *service.ShiftService, signupService *service.SignupService, cutoffHour int) *ShiftsHandler {
	return &ShiftsHandler{shifts: shiftService, signups: signupService, cutoffHour: cutoffHour}
}

// ListShifts GET /api/shifts.
func (h *ShiftsHandler) ListShifts(c *fiber.Ctx) error {
	filter := parseShiftQuery(c)
	shifts, stats, err := h.shifts.ListShifts(c.Context(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.ShiftResponse, 0, len(shifts))
	for i := range shifts {
		items = append(items, shiftResponse(&shifts[i], &stats[i], h.cutoffHour))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetShift GET /api/shifts/:id.
func (h *ShiftsHandler) GetShift(c *fiber.Ctx) error {
	shift, stats, err := h.shifts.GetShift(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": shiftResponse(shift, stats, h.cutoffHour)})
}

// ListTypes GET /api/shift-types.
func (h *ShiftsHandler) ListTypes(c *fiber.Ctx) error {
	types, err := h.shifts.ListTypes(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.ShiftTypeResponse, 0, len(types))
	for _, t := range types {
		items = append(items, dto.ShiftTypeResponse{ID: t.ID, Name: t.Name, ApprovalOnly: t.ApprovalOnly})
	}
	return c.JSON(fiber.Map{"data": items})
}

// SignUp POST /api/shifts/:id/signup.
func (h *ShiftsHandler) SignUp(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	signup, err := h.signups.SignUp(c.Context(), user, c.Params("id"))
	if err != nil {
		return err
	}
	// The signup dialog keys off the top-level status field.
	return c.JSON(fiber.Map{
		"status": signup.Status,
		"data":   dto.SignupDecisionResponse{Signup: signupResponse(signup)},
	})
}

// AutoApprovalCheck GET /api/shifts/:id/auto-approval-check.
func (h *ShiftsHandler) AutoApprovalCheck(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	eligible, reason, err := h.signups.AutoApprovalCheck(c.Context(), user, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.AutoApprovalResponse{Eligible: eligible, Reason: reason}})
}

func parseShiftQuery(c *fiber.Ctx) repository.ShiftFilter {
	filter := repository.ShiftFilter{}
	if location := c.Query("location"); location != "" {
		filter.Location = &location
	}
	if typeID := c.Query("shift_type_id"); typeID != "" {
		filter.ShiftTypeID = &typeID
	}
	filter.From = parseTime(c.Query("from"))
	filter.To = parseTime(c.Query("to"))
	filter.Limit, filter.Offset = paginationFromQuery(c)
	return filter
}
