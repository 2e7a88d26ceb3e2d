package models

import "fmt"

// Vehicle 表示一台被追蹤的車輛
type Vehicle struct {
	Base
	PlateNumber   string                `gorm:"uniqueIndex;size:20;not null" json:"plateNumber"`
	Model         string                `gorm:"size:100;not null" json:"model"`
	Brand         string                `gorm:"size:100;not null" json:"brand"`
	Year          int                   `gorm:"not null" json:"year"`
	Status        VehicleStatus         `gorm:"type:varchar(20);not null;default:ACTIVE;index" json:"status"`
	StatusRecords []VehicleStatusRecord `gorm:"foreignKey:VehicleID;constraint:OnDelete:CASCADE" json:"vehicleStatuses,omitempty"`
}

// VehicleStatus 車輛的生命週期狀態
type VehicleStatus string

const (
	VehicleActive      VehicleStatus = "ACTIVE"
	VehicleInactive    VehicleStatus = "INACTIVE"
	VehicleMaintenance VehicleStatus = "MAINTENANCE"
)

// FormatLocation 將座標格式化為 "lat, lng"（小數四位），缺任一值時回傳 "Unknown"
func FormatLocation(lat, lng *float64) string {
	if lat == nil || lng == nil {
		return "Unknown"
	}
	return fmt.Sprintf("%.4f, %.4f", *lat, *lng)
}
