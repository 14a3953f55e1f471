package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	prefix = "nb_"
)

// User 用户表
// email / username 统一小写存储，全局唯一。
// 软删除不使用 gorm.DeletedAt：被删除的用户仍需在后台可见、可恢复。
type User struct {
	ID           string     `gorm:"primaryKey;size:40"`
	Email        string     `gorm:"size:255;uniqueIndex;not null"`
	Username     string     `gorm:"size:100;uniqueIndex;not null"`
	PasswordHash string     `gorm:"size:128;not null"` // PBKDF2-SHA256 hex
	PasswordSalt string     `gorm:"size:64;not null"`  // 16 字节随机盐 hex
	FullName     string     `gorm:"size:200;not null"`
	Role         string     `gorm:"size:16;index;not null"` // admin / staff / student
	Department   *string    `gorm:"size:100"`
	IsVerified   bool       `gorm:"not null;default:false"`
	IsActive     bool       `gorm:"not null;default:true"`
	IsDeleted    bool       `gorm:"not null;default:false;index"`
	DeletedAt    *time.Time // 软删除时间
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (User) TableName() string {
	return prefix + "user"
}

// CanAuthenticate 已删除或被停用的用户永远不能登录/通过会话校验
func (u *User) CanAuthenticate() bool {
	return u != nil && !u.IsDeleted && u.IsActive
}

// Session 登录会话表：不透明 id -> 用户 + 过期时间
// 过期的会话即使尚未清理也视为不存在。
type Session struct {
	ID        string    `gorm:"primaryKey;size:80"`
	UserID    string    `gorm:"size:40;index;not null"`
	ExpiresAt time.Time `gorm:"index;not null"`
	CreatedAt time.Time
}

func (Session) TableName() string {
	return prefix + "session"
}

// ActivityLog 审计日志（只追加）
type ActivityLog struct {
	ID         string         `gorm:"primaryKey;size:40"`
	UserID     *string        `gorm:"size:40;index"` // 用户被彻底删除后置空
	Action     string         `gorm:"size:64;index;not null"`
	EntityType *string        `gorm:"size:32"`
	EntityID   *string        `gorm:"size:40"`
	Metadata   datatypes.JSON `gorm:"type:json"`
	IPAddress  string         `gorm:"size:64"`
	UserAgent  string         `gorm:"size:500"`
	CreatedAt  time.Time      `gorm:"index"`

	User *User `gorm:"foreignKey:UserID"`
}

func (ActivityLog) TableName() string {
	return prefix + "activity_log"
}
