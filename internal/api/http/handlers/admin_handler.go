package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/volunteer-service/internal/api/dto"
	"github.com/spec-kit/volunteer-service/internal/domain"
	"github.com/spec-kit/volunteer-service/internal/repository"
	"github.com/spec-kit/volunteer-service/internal/service"
	apperrors "github.com/spec-kit/volunteer-service/pkg/util/errorutil"
)

// AdminHandler serves the coordinator surface: shift management,
// manual placement, rosters, account merging, recurring schedules and
// the dashboard.
type AdminHandler struct {
	shifts     *service.ShiftService
	signups    *service.SignupService
	admin      *service.AdminService
	schedules  *service.RegularScheduleService
	cutoffHour int
}

// NewAdminHandler constructs handler.
func NewAdminHandler(shiftService *service.ShiftService, signupService *service.SignupService, adminService *service.AdminService, scheduleService *service.RegularScheduleService, cutoffHour int) *AdminHandler {
	return &AdminHandler{
		shifts:     shiftService,
		signups:    signupService,
		admin:      adminService,
		schedules:  scheduleService,
		cutoffHour: cutoffHour,
	}
}

// CreateShift POST /api/admin/shifts.
func (h *AdminHandler) CreateShift(c *fiber.Ctx) error {
	admin, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.CreateShiftRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	shift, err := h.shifts.CreateShift(c.Context(), admin, shiftInputFromRequest(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": shiftResponse(shift, nil, h.cutoffHour)})
}

// UpdateShift PUT /api/admin/shifts/:id.
func (h *AdminHandler) UpdateShift(c *fiber.Ctx) error {
	admin, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.CreateShiftRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	shift, err := h.shifts.UpdateShift(c.Context(), admin, c.Params("id"), shiftInputFromRequest(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": shiftResponse(shift, nil, h.cutoffHour)})
}

// DeleteShift DELETE /api/admin/shifts/:id.
func (h *AdminHandler) DeleteShift(c *fiber.Ctx) error {
	admin, err := currentUser(c)
	if err != nil {
		return err
	}
	if err := h.shifts.DeleteShift(c.Context(), admin, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// AssignVolunteer POST /api/admin/shifts/:id/assign.
func (h *AdminHandler) AssignVolunteer(c *fiber.Ctx) error {
	admin, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.AssignVolunteerRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if req.TargetUserID() == "" {
		return apperrors.NewValidationError("volunteerId required", nil)
	}
	signup, overCapacity, err := h.signups.AdminAssign(c.Context(), admin, c.Params("id"), req.TargetUserID(), req.Status, req.Note)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": dto.AssignVolunteerResponse{
			Signup:          signupResponse(signup),
			CapacityWarning: overCapacity,
		},
	})
}

// ListRoster GET /api/admin/shifts/:id/roster.
func (h *AdminHandler) ListRoster(c *fiber.Ctx) error {
	admin, err := currentUser(c)
	if err != nil {
		return err
	}
	signups, err := h.shifts.ListRoster(c.Context(), admin, c.Params("id"))
	if err != nil {
		return err
	}
	items := make([]dto.SignupResponse, 0, len(signups))
	for i := range signups {
		items = append(items, signupResponse(&signups[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// ConfirmSignup POST /api/admin/signups/:id/confirm.
func (h *AdminHandler) ConfirmSignup(c *fiber.Ctx) error {
	admin, err := currentUser(c)
	if err != nil {
		return err
	}
	signup, err := h.signups.Confirm(c.Context(), admin, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": signupResponse(signup)})
}

// MarkNoShow POST /api/admin/signups/:id/no-show.
func (h *AdminHandler) MarkNoShow(c *fiber.Ctx) error {
	admin, err := currentUser(c)
	if err != nil {
		return err
	}
	signup, err := h.signups.MarkNoShow(c.Context(), admin, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": signupResponse(signup)})
}

// ListUsers GET /api/admin/users.
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	admin, err := currentUser(c)
	if err != nil {
		return err
	}
	limit, offset := paginationFromQuery(c)
	users, err := h.admin.ListUsers(c.Context(), admin, limit, offset)
	if err != nil {
		return err
	}
	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, userResponse(&users[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// MergePreview POST /api/admin/users/merge/preview.
func (h *AdminHandler) MergePreview(c *fiber.Ctx) error {
	admin, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.MergeUsersRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	preview, err := h.admin.MergePreviewFor(c.Context(), admin, req.PrimaryID, req.DuplicateID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.MergePreviewResponse{
		PrimaryID:       preview.PrimaryID,
		DuplicateID:     preview.DuplicateID,
		Signups:         preview.Signups,
		Achievements:    preview.Achievements,
		SurveyResponses: preview.SurveyResponses,
		FriendLinks:     preview.FriendLinks,
	}})
}

// MergeUsers POST /api/admin/users/merge.
func (h *AdminHandler) MergeUsers(c *fiber.Ctx) error {
	admin, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.MergeUsersRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	result, err := h.admin.MergeUsers(c.Context(), admin, req.PrimaryID, req.DuplicateID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.MergeUsersResponse{
		SignupsMoved:         result.SignupsMoved,
		AchievementsMoved:    result.AchievementsMoved,
		SurveyResponsesMoved: result.SurveyResponsesMoved,
		FriendLinksMoved:     result.FriendLinksMoved,
	}})
}

// CreateRegularSchedule POST /api/admin/regular-schedules.
func (h *AdminHandler) CreateRegularSchedule(c *fiber.Ctx) error {
	admin, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.CreateRegularScheduleRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	schedule, err := h.schedules.Create(c.Context(), admin, &domain.RegularSchedule{
		UserID:      req.UserID,
		ShiftTypeID: req.ShiftTypeID,
		Location:    req.Location,
		Rule:        req.Rule,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": scheduleResponse(schedule)})
}

// GenerateSchedule POST /api/admin/regular-schedules/:id/generate.
func (h *AdminHandler) GenerateSchedule(c *fiber.Ctx) error {
	admin, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.GenerateScheduleRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	from := parseTime(req.From)
	to := parseTime(req.To)
	if from == nil || to == nil || !from.Before(*to) {
		return apperrors.NewValidationError("from must be an RFC3339 time before to", nil)
	}
	result, err := h.schedules.Generate(c.Context(), admin, c.Params("id"), *from, *to)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.GenerateScheduleResponse{Created: result.Created, Skipped: result.Skipped}})
}

// DeactivateSchedule POST /api/admin/regular-schedules/:id/deactivate.
func (h *AdminHandler) DeactivateSchedule(c *fiber.Ctx) error {
	admin, err := currentUser(c)
	if err != nil {
		return err
	}
	if err := h.schedules.Deactivate(c.Context(), admin, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Dashboard GET /api/admin/dashboard. Summarizes the next seven days.
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	if _, err := currentUser(c); err != nil {
		return err
	}
	now := time.Now()
	horizon := now.AddDate(0, 0, 7)
	shifts, stats, err := h.shifts.ListShifts(c.Context(), repository.ShiftFilter{
		From:  &now,
		To:    &horizon,
		Limit: 100,
	})
	if err != nil {
		return err
	}

	resp := dto.DashboardResponse{UpcomingShifts: make([]dto.ShiftResponse, 0, len(shifts))}
	for i := range shifts {
		resp.UpcomingShifts = append(resp.UpcomingShifts, shiftResponse(&shifts[i], &stats[i], h.cutoffHour))
		resp.TotalCapacity += shifts[i].Capacity
		resp.TotalConfirmed += stats[i].Confirmed
		if stats[i].Label == "Critical" {
			resp.CriticalShifts++
		}
	}
	return c.JSON(fiber.Map{"data": resp})
}

func shiftInputFromRequest(req dto.CreateShiftRequest) service.ShiftInput {
	return service.ShiftInput{
		Location:         req.Location,
		ShiftTypeID:      req.ShiftTypeID,
		StartsAt:         req.StartsAt,
		EndsAt:           req.EndsAt,
		Capacity:         req.Capacity,
		PlaceholderCount: req.PlaceholderCount,
		Note:             req.Note,
	}
}

func scheduleResponse(schedule *domain.RegularSchedule) dto.RegularScheduleResponse {
	return dto.RegularScheduleResponse{
		ID:          schedule.ID,
		UserID:      schedule.UserID,
		ShiftTypeID: schedule.ShiftTypeID,
		Location:    schedule.Location,
		Rule:        schedule.Rule,
		Active:      schedule.Active,
	}
}
