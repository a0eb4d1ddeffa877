package dto

import (
	"time"

	"github.com/spec-kit/volunteer-service/internal/domain"
)

// RegisterUserRequest payload.
type RegisterUserRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse wraps a token issue.
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// UserResponse is the public account shape.
type UserResponse struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	Email          string            `json:"email"`
	Role           domain.UserRole   `json:"role"`
	Status         domain.UserStatus `json:"status"`
	VolunteerGrade int               `json:"volunteer_grade"`
	NoShowCount    int               `json:"no_show_count"`
	CreatedAt      time.Time         `json:"created_at"`
}

// AchievementResponse is one milestone award.
type AchievementResponse struct {
	ID        string                 `json:"id"`
	Kind      domain.AchievementKind `json:"kind"`
	AwardedAt time.Time              `json:"awarded_at"`
}
