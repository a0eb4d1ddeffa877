package domain

import "time"

// UserRole separates volunteers from admins.
type UserRole string

const (
	RoleVolunteer UserRole = "VOLUNTEER"
	RoleAdmin     UserRole = "ADMIN"
)

// UserStatus represents lifecycle states for an account.
type UserStatus string

const (
	UserStatusActive   UserStatus = "ACTIVE"
	UserStatusDisabled UserStatus = "DISABLED"
	// UserStatusMerged marks a duplicate account folded into another.
	UserStatusMerged UserStatus = "MERGED"
)

// User is the domain model for volunteers and admins.
type User struct {
	ID             string
	Name           string
	Email          string
	PasswordHash   string
	Role           UserRole
	Status         UserStatus
	VolunteerGrade int
	NoShowCount    int
	MergedIntoID   *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsAdmin reports whether the user holds the admin capability.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
