package dto

import "github.com/yigit/placementportal/internal/app/models"

// RegisterRequest represents a user registration request
type RegisterRequest struct {
	Name             string `json:"name" binding:"required,min=2,max=100" example:"Asha Rao"`
	Email            string `json:"email" binding:"required,email" example:"asha@college.edu"`
	Password         string `json:"password" binding:"required,min=6,max=72" example:"secret123"`
	LeetcodeUsername string `json:"leetcodeUsername" binding:"omitempty,handle" example:"asha_codes"`
}

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"asha@college.edu"`
	Password string `json:"password" binding:"required" example:"secret123"`
}

// ForgotPasswordRequest starts a password reset
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email" example:"asha@college.edu"`
}

// ResetPasswordRequest completes a password reset
type ResetPasswordRequest struct {
	Token    string `json:"token" binding:"required,hexadecimal,len=64"`
	Password string `json:"password" binding:"required,min=6,max=72" example:"newsecret123"`
}

// MakeAdminRequest promotes a user to admin
type MakeAdminRequest struct {
	UserID int64 `json:"userId" binding:"required,min=1" example:"2"`
}

// UserResponse represents public user information
type UserResponse struct {
	ID               int64       `json:"id" example:"1"`
	Name             string      `json:"name" example:"Asha Rao"`
	Email            string      `json:"email" example:"asha@college.edu"`
	LeetcodeUsername *string     `json:"leetcodeUsername,omitempty" example:"asha_codes"`
	Role             models.Role `json:"role" example:"user" enums:"user,admin"`
}

// AuthResponse is returned by register and login
type AuthResponse struct {
	Message   string       `json:"message" example:"Login successful"`
	Token     string       `json:"token"`
	ExpiresIn int64        `json:"expiresIn" example:"86400"`
	User      UserResponse `json:"user"`
}

// NewUserResponse maps a user model to its public representation
func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:               u.ID,
		Name:             u.Name,
		Email:            u.Email,
		LeetcodeUsername: u.LeetcodeUsername,
		Role:             u.Role,
	}
}
