package models

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NewID 生成带前缀的主键：<prefix>_<32位hex>
func NewID(kind string) string {
	return kind + "_" + strings.ReplaceAll(uuid.New().String(), "-", "")
}

// BeforeCreate 主键为空时自动生成，已设置则保留

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = NewID("user")
	}
	return nil
}

func (n *Notice) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = NewID("notice")
	}
	return nil
}

func (a *Attachment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = NewID("att")
	}
	return nil
}

func (i *Interaction) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = NewID("int")
	}
	return nil
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = NewID("comment")
	}
	return nil
}

func (l *ActivityLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = NewID("log")
	}
	return nil
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = NewID("ntf")
	}
	return nil
}
