package client

import (
	"fmt"
	"strings"
	"time"
)

// Tokens 一組 access / refresh token
type Tokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AuthResult 登入與註冊的回應
type AuthResult struct {
	User   User   `json:"user"`
	Tokens Tokens `json:"tokens"`
}

type StatusRecord struct {
	ID        string    `json:"id"`
	VehicleID string    `json:"vehicleId"`
	Status    string    `json:"status"`
	Latitude  *float64  `json:"latitude"`
	Longitude *float64  `json:"longitude"`
	Speed     *float64  `json:"speed"`
	Timestamp time.Time `json:"timestamp"`
	Location  string    `json:"location,omitempty"`
}

type Vehicle struct {
	ID            string         `json:"id"`
	PlateNumber   string         `json:"plateNumber"`
	Model         string         `json:"model"`
	Brand         string         `json:"brand"`
	Year          int            `json:"year"`
	Status        string         `json:"status"`
	StatusRecords []StatusRecord `json:"vehicleStatuses,omitempty"`
	Location      string         `json:"location,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalCount  int64 `json:"totalCount"`
	Limit       int   `json:"limit"`
}

type VehiclePage struct {
	Vehicles   []Vehicle  `json:"vehicles"`
	Pagination Pagination `json:"pagination"`
}

// DayStatus 車輛單日狀態
type DayStatus struct {
	Vehicle       Vehicle        `json:"vehicle"`
	StatusRecords []StatusRecord `json:"statusRecords"`
	Date          string         `json:"date"`
}

// ListVehiclesOptions 零值欄位不帶入查詢字串，由伺服器套用預設值
type ListVehiclesOptions struct {
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

type VehicleInput struct {
	PlateNumber string `json:"plateNumber,omitempty"`
	Model       string `json:"model,omitempty"`
	Brand       string `json:"brand,omitempty"`
	Year        int    `json:"year,omitempty"`
	Status      string `json:"status,omitempty"`
}

type StatusInput struct {
	Status    string     `json:"status"`
	Latitude  *float64   `json:"latitude,omitempty"`
	Longitude *float64   `json:"longitude,omitempty"`
	Speed     *float64   `json:"speed,omitempty"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// ReportRequest VehicleID 為空時呼叫 /reports/generate
type ReportRequest struct {
	VehicleID string
	StartDate string
	EndDate   string
	Status    string
	Format    string
}

// Report 下載的檔案
type Report struct {
	Filename    string
	ContentType string
	Data        []byte
}

// FieldError 伺服器回傳的欄位驗證錯誤
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// APIError 非 2xx 回應
type APIError struct {
	StatusCode int
	Message    string
	Errors     []FieldError
}

func (e *APIError) Error() string {
	if len(e.Errors) == 0 {
		return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
	}
	details := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		details[i] = fe.Field + ": " + fe.Message
	}
	return fmt.Sprintf("api error %d: %s (%s)", e.StatusCode, e.Message, strings.Join(details, "; "))
}
