package models

import (
	"time"
)

// Notification 用户通知
// 落库后再尝试 WS 推送；离线用户通过 HTTP 拉取。
type Notification struct {
	ID        string  `gorm:"primaryKey;size:40"`
	UserID    string  `gorm:"size:40;not null;index:idx_user_created,priority:1"`
	NoticeID  *string `gorm:"size:40;index"`
	Title     string  `gorm:"size:200;not null"`
	Message   string  `gorm:"type:text;not null"`
	Type      string  `gorm:"size:16;not null"` // notice / comment / emergency / system
	IsRead    bool    `gorm:"not null;default:false;index"`
	ReadAt    *time.Time
	CreatedAt time.Time `gorm:"index:idx_user_created,priority:2"`
}

func (Notification) TableName() string { return prefix + "notification" }
