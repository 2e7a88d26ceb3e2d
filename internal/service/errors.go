package service

import "errors"

// 以下錯誤訊息會直接回傳給前端
var (
	ErrInvalidCredentials  = errors.New("Invalid email or password")
	ErrAccountDeactivated  = errors.New("Account is deactivated")
	ErrEmailTaken          = errors.New("User with this email already exists")
	ErrInvalidRefreshToken = errors.New("Invalid refresh token")
	ErrInactiveUser        = errors.New("User not found or inactive")
	ErrUserNotFound        = errors.New("User not found")
	ErrSelfDelete          = errors.New("You cannot delete your own account")
	ErrVehicleNotFound     = errors.New("Vehicle not found")
	ErrPlateTaken          = errors.New("Vehicle with this plate number already exists")
	ErrInvalidDateRange    = errors.New("Start date must be before end date")
	ErrInvalidDate         = errors.New("Date must be in YYYY-MM-DD format")
)
