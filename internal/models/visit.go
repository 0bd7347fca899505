package models

import (
	"time"
)

// Visit 访问记录，只写不改
type Visit struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	IP        string    `gorm:"size:50;not null" json:"ip"`
	Location  string    `gorm:"size:200" json:"location"` // IP 地理位置，查询失败时为 Unknown
	UserAgent string    `gorm:"size:500" json:"user_agent"`
	Path      string    `gorm:"size:200" json:"path"`
	CreatedAt time.Time `json:"created_at"`
}
