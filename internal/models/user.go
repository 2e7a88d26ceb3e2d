package models

// User 表示系統中的使用者
type User struct {
	Base
	Email    string   `gorm:"uniqueIndex;not null" json:"email"` // 一律以小寫儲存
	Password string   `gorm:"not null" json:"-"`                 // bcrypt 雜湊，json 序列化時會被忽略
	Name     string   `gorm:"not null" json:"name"`
	Role     UserRole `gorm:"type:varchar(10);not null;default:USER" json:"role"`
	IsActive bool     `gorm:"not null" json:"isActive"`
}

// UserRole 定義使用者角色的類型
type UserRole string

const (
	RoleAdmin UserRole = "ADMIN"
	RoleUser  UserRole = "USER"
)
