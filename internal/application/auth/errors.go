package auth

import "wealthdesk-backend/internal/pkg/apperr"

var (
	ErrEmailPasswordRequired = apperr.BadRequest("Email and password are required")
	ErrInvalidEmail          = apperr.Unauthorized("Invalid Email")
	ErrIncorrectPassword     = apperr.Unauthorized("Incorrect Password")
	ErrInactiveAdvisor       = apperr.Unauthorized("Advisor account is inactive")
	ErrNotAuthenticated      = apperr.Unauthorized("Not authenticated")
	ErrEmailTaken            = apperr.BadRequest("Email already registered")
)
