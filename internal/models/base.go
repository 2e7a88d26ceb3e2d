package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base 取代 gorm.Model：主鍵使用 UUID 字串，且不做軟刪除
// （車牌、Email 的唯一索引不能被已刪除的資料佔用）
type Base struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate 在寫入前補上 UUID
func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}
