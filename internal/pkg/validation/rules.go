package validation

import (
	"math"
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/yigit/placementportal/internal/app/models"
)

// Validation rule patterns
var (
	// HandlePattern matches coding-platform usernames. The first character
	// may not be '-' so a handle can never be read as a command-line flag.
	HandlePattern = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9_.-]{0,38}$`)

	// PasswordMinLength is the shortest accepted password
	PasswordMinLength = 6

	// NameMinLength is the shortest accepted display name
	NameMinLength = 2
)

// CGPAScale is the number of decimal places min_cgpa is stored with
const CGPAScale = 2

// HasScale reports whether f has at most places decimal places
func HasScale(f float64, places int) bool {
	shifted := f * math.Pow10(places)
	return math.Abs(shifted-math.Round(shifted)) < 1e-6
}

// IsValidHandle reports whether s is an acceptable platform username
func IsValidHandle(s string) bool {
	return HandlePattern.MatchString(s)
}

// Register installs the custom tags used by request DTOs:
//
//	month  full English month name
//	handle coding-platform username
//	cgpa   number with at most two decimal places
func Register(v *validator.Validate) error {
	if err := v.RegisterValidation("month", func(fl validator.FieldLevel) bool {
		return models.Month(fl.Field().String()).Valid()
	}); err != nil {
		return err
	}
	if err := v.RegisterValidation("cgpa", func(fl validator.FieldLevel) bool {
		return HasScale(fl.Field().Float(), CGPAScale)
	}); err != nil {
		return err
	}
	return v.RegisterValidation("handle", func(fl validator.FieldLevel) bool {
		return IsValidHandle(fl.Field().String())
	})
}
