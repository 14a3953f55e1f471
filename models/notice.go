package models

import (
	"time"
)

// 公告相关模型

// Notice 公告主表
// 审核状态：IsApproved=false 为待审核；IsArchived 与 IsPinned 各自独立。
// LikeCount / CommentCount 与明细表在同一事务内维护；ViewCount 只做近似统计。
type Notice struct {
	ID           string     `gorm:"primaryKey;size:40"`
	Title        string     `gorm:"size:200;not null"`
	Content      string     `gorm:"type:text;not null"`
	Summary      string     `gorm:"size:200"`
	Category     string     `gorm:"size:32;index;not null;default:general"`
	AuthorID     string     `gorm:"size:40;index;not null"`
	Department   *string    `gorm:"size:100;index"`
	IsPinned     bool       `gorm:"not null;default:false"`
	IsApproved   bool       `gorm:"not null;default:false;index"`
	IsArchived   bool       `gorm:"not null;default:false;index"`
	PublishAt    time.Time  `gorm:"index;not null"`
	ExpiresAt    *time.Time // 可选过期时间，仅作展示
	ViewCount    int64      `gorm:"not null;default:0"`
	LikeCount    int64      `gorm:"not null;default:0"`
	CommentCount int64      `gorm:"not null;default:0"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Author      User         `gorm:"foreignKey:AuthorID"`
	Attachments []Attachment `gorm:"foreignKey:NoticeID"`
}

func (Notice) TableName() string { return prefix + "notice" }

// Attachment 附件元数据（文件本身不在本服务存储）
type Attachment struct {
	ID         string    `gorm:"primaryKey;size:40"`
	NoticeID   string    `gorm:"size:40;index;not null"`
	FileName   string    `gorm:"size:255;not null"`
	FileType   string    `gorm:"size:100"`
	FileSize   int64     `gorm:"default:0"`
	StorageKey string    `gorm:"size:500"`
	UploadedAt time.Time `gorm:"autoCreateTime"`
}

func (Attachment) TableName() string { return prefix + "attachment" }

// Interaction 用户与公告的互动边
// (user_id, notice_id, type) 唯一，存在即“开”。
type Interaction struct {
	ID        string `gorm:"primaryKey;size:40"`
	UserID    string `gorm:"size:40;not null;uniqueIndex:idx_user_notice_type,priority:1"`
	NoticeID  string `gorm:"size:40;not null;index;uniqueIndex:idx_user_notice_type,priority:2"`
	Type      string `gorm:"size:16;not null;uniqueIndex:idx_user_notice_type,priority:3"`
	CreatedAt time.Time
}

func (Interaction) TableName() string { return prefix + "interaction" }

// Comment 公告评论（只追加，随公告或用户彻底删除而级联删除）
type Comment struct {
	ID        string `gorm:"primaryKey;size:40"`
	NoticeID  string `gorm:"size:40;index;not null"`
	UserID    string `gorm:"size:40;index;not null"`
	Content   string `gorm:"type:text;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time

	User User `gorm:"foreignKey:UserID"`
}

func (Comment) TableName() string { return prefix + "comment" }
