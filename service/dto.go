package service

import (
	"time"

	"github.com/golivishiva/Digital-Notice-Board/models"
)

// UserDTO 用户信息（不含密码哈希和盐）
type UserDTO struct {
	ID         string     `json:"id"`
	Email      string     `json:"email"`
	Username   string     `json:"username"`
	FullName   string     `json:"fullName"`
	Role       string     `json:"role"`
	Department *string    `json:"department"`
	IsVerified bool       `json:"isVerified"`
	IsActive   bool       `json:"isActive"`
	IsDeleted  bool       `json:"isDeleted"`
	DeletedAt  *time.Time `json:"deletedAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

func toUserDTO(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{
		ID:         u.ID,
		Email:      u.Email,
		Username:   u.Username,
		FullName:   u.FullName,
		Role:       u.Role,
		Department: u.Department,
		IsVerified: u.IsVerified,
		IsActive:   u.IsActive,
		IsDeleted:  u.IsDeleted,
		DeletedAt:  u.DeletedAt,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

// ToUserDTO 导出给 HTTP 层
func ToUserDTO(u *models.User) *UserDTO { return toUserDTO(u) }

// AuthorDTO 公告/评论里展示的用户摘要
type AuthorDTO struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
}

func toAuthorDTO(u *models.User) AuthorDTO {
	return AuthorDTO{ID: u.ID, Username: u.Username, FullName: u.FullName, Role: u.Role}
}

// normalizePage page 从 1 开始；limit 为 0 时取默认值，最大 100
func normalizePage(page, limit, def int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = def
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
