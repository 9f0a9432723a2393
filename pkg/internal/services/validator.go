package services

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type SignupInput struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidateSignup reports only the first failing field, checked in the order
// name, email, password, confirmPassword.
func ValidateSignup(in SignupInput) error {
	if utf8.RuneCountInString(strings.TrimSpace(in.Name)) < 2 {
		return &ValidationError{Field: "name", Message: "Name must be at least 2 characters"}
	}
	if !IsValidEmail(in.Email) {
		return &ValidationError{Field: "email", Message: "Invalid email address"}
	}
	if utf8.RuneCountInString(in.Password) < 8 {
		return &ValidationError{Field: "password", Message: "Password must be at least 8 characters"}
	}
	if in.Password != in.ConfirmPassword {
		return &ValidationError{Field: "confirmPassword", Message: "Passwords don't match"}
	}
	return nil
}
