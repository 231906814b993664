package models

import (
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID                   int64      `json:"id" db:"id" example:"1"`
	Name                 string     `json:"name" db:"name" example:"Asha Rao"`
	Email                string     `json:"email" db:"email" example:"asha@college.edu"`
	Password             string     `json:"-" db:"password"`
	Role                 Role       `json:"role" db:"role" example:"user"`
	LeetcodeUsername     *string    `json:"leetcodeUsername,omitempty" db:"leetcode_username" example:"asha_codes"`
	ResetPasswordToken   *string    `json:"-" db:"reset_password_token"`
	ResetPasswordExpires *time.Time `json:"-" db:"reset_password_expires"`
	CreatedAt            time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt            time.Time  `json:"updatedAt" db:"updated_at"`
}

// IsAdmin reports whether the user holds the admin role
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
