package dto

import (
	"time"

	"github.com/spec-kit/volunteer-service/internal/domain"
)

// CreateShiftRequest payload for admin shift creation and updates.
type CreateShiftRequest struct {
	Location         string    `json:"location" validate:"required,min=1,max=200"`
	ShiftTypeID      string    `json:"shift_type_id" validate:"required,uuid"`
	StartsAt         time.Time `json:"starts_at" validate:"required"`
	EndsAt           time.Time `json:"ends_at" validate:"required"`
	Capacity         int       `json:"capacity" validate:"required,gt=0"`
	PlaceholderCount int       `json:"placeholder_count" validate:"gte=0"`
	Note             string    `json:"note" validate:"max=500"`
}

// ShiftResponse is the public shift shape with occupancy.
type ShiftResponse struct {
	ID               string             `json:"id"`
	Location         string             `json:"location"`
	ShiftTypeID      string             `json:"shift_type_id"`
	StartsAt         time.Time          `json:"starts_at"`
	EndsAt           time.Time          `json:"ends_at"`
	Period           domain.ShiftPeriod `json:"period"`
	Capacity         int                `json:"capacity"`
	PlaceholderCount int                `json:"placeholder_count"`
	Note             string             `json:"note,omitempty"`
	Confirmed        int                `json:"confirmed"`
	Occupancy        string             `json:"occupancy"`
	FillRate         float64            `json:"fill_rate"`
	FillLabel        string             `json:"fill_label"`
}

// ShiftTypeResponse is one catalog entry.
type ShiftTypeResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ApprovalOnly bool   `json:"approval_only"`
}
