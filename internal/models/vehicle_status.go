package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VehicleStatusRecord 某一時間點的車輛移動狀態觀測
type VehicleStatusRecord struct {
	ID        string     `gorm:"primaryKey;type:varchar(36)" json:"id"`
	VehicleID string     `gorm:"type:varchar(36);not null;index:idx_status_vehicle_time,priority:1" json:"vehicleId"`
	Status    StatusType `gorm:"type:varchar(10);not null" json:"status"`
	Latitude  *float64   `json:"latitude"`
	Longitude *float64   `json:"longitude"`
	Speed     *float64   `json:"speed"`
	// 欄位不直接命名為 timestamp，避免與 SQL 型別名稱衝突
	Timestamp time.Time `gorm:"column:recorded_at;not null;index:idx_status_vehicle_time,priority:2" json:"timestamp"`
	CreatedAt time.Time `json:"createdAt"`
}

// StatusType 車輛的移動狀態
type StatusType string

const (
	StatusTrip    StatusType = "TRIP"
	StatusIdle    StatusType = "IDLE"
	StatusStopped StatusType = "STOPPED"
)

func (r *VehicleStatusRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// Location 回傳格式化後的座標
func (r *VehicleStatusRecord) Location() string {
	return FormatLocation(r.Latitude, r.Longitude)
}
