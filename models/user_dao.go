package models

import (
	"errors"
	"strings"
	"time"

	"github.com/golivishiva/Digital-Notice-Board/cons"
	"gorm.io/gorm"
)

// UserDAO 封装 User 相关的数据库操作
type UserDAO struct {
	db *gorm.DB
}

func NewUserDAO(db *gorm.DB) *UserDAO {
	return &UserDAO{db: db}
}

// WithDB 在事务中复用 DAO
func (dao *UserDAO) WithDB(db *gorm.DB) *UserDAO {
	if db == nil {
		return dao
	}
	return &UserDAO{db: db}
}

func (dao *UserDAO) Create(user *User) error {
	return dao.db.Create(user).Error
}

func (dao *UserDAO) FindByID(id string) (*User, error) {
	if id == "" {
		return nil, gorm.ErrRecordNotFound
	}
	var u User
	if err := dao.db.Where("id = ?", id).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (dao *UserDAO) FindByUsername(username string) (*User, error) {
	var u User
	if err := dao.db.Where("username = ?", NormalizeAccount(username)).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (dao *UserDAO) FindByEmail(email string) (*User, error) {
	email = NormalizeAccount(email)
	if email == "" {
		return nil, gorm.ErrRecordNotFound
	}
	var u User
	if err := dao.db.Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (dao *UserDAO) ExistsByUsername(username string) (bool, error) {
	var count int64
	err := dao.db.Model(&User{}).Where("username = ?", NormalizeAccount(username)).Count(&count).Error
	return count > 0, err
}

func (dao *UserDAO) ExistsByEmail(email string) (bool, error) {
	email = NormalizeAccount(email)
	if email == "" {
		return false, nil
	}
	var count int64
	err := dao.db.Model(&User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

func (dao *UserDAO) UpdateFields(id string, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return dao.db.Model(&User{}).Where("id = ?", id).Updates(updates).Error
}

// SoftDelete 标记删除并停用
func (dao *UserDAO) SoftDelete(id string, at time.Time) error {
	return dao.UpdateFields(id, map[string]any{
		"is_deleted": true,
		"is_active":  false,
		"deleted_at": at,
	})
}

// Restore 撤销软删除
func (dao *UserDAO) Restore(id string) error {
	return dao.UpdateFields(id, map[string]any{
		"is_deleted": false,
		"is_active":  true,
		"deleted_at": nil,
	})
}

// HardDelete 物理删除用户行（关联数据由上层在同一事务中清理）
func (dao *UserDAO) HardDelete(id string) error {
	return dao.db.Where("id = ?", id).Delete(&User{}).Error
}

// UserFilter 后台用户列表筛选条件
type UserFilter struct {
	Role           string
	Keyword        string // email / username / full_name 模糊匹配
	IncludeDeleted bool
	Limit          int
	Offset         int
}

// SearchUsers 按条件分页查询用户，同时返回总数。
// 注意：返回的是完整 User 结构体（含密码哈希），上层请自行转 DTO/脱敏。
func (dao *UserDAO) SearchUsers(f UserFilter) ([]User, int64, error) {
	keyword := strings.TrimSpace(f.Keyword)
	if f.Limit <= 0 {
		f.Limit = 50
	}
	if f.Limit > 100 {
		f.Limit = 100
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	q := dao.db.Model(&User{})
	if !f.IncludeDeleted {
		q = q.Where("is_deleted = ?", false)
	}
	if f.Role != "" {
		q = q.Where("role = ?", f.Role)
	}
	if keyword != "" {
		like := "%" + keyword + "%"
		q = q.Where("(email LIKE ? OR username LIKE ? OR full_name LIKE ?)", like, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []User
	err := q.Order("created_at DESC").Limit(f.Limit).Offset(f.Offset).Find(&users).Error
	return users, total, err
}

// ActiveUserIDs 所有可登录用户的 ID（紧急公告广播用）
func (dao *UserDAO) ActiveUserIDs() ([]string, error) {
	var ids []string
	err := dao.db.Model(&User{}).
		Where("is_deleted = ? AND is_active = ?", false, true).
		Pluck("id", &ids).Error
	return ids, err
}

// UserCounts 仪表盘统计
type UserCounts struct {
	Total    int64 `json:"total"`
	Active   int64 `json:"active"`
	Students int64 `json:"students"`
	Staff    int64 `json:"staff"`
	Admins   int64 `json:"admins"`
}

// Counts 统计未删除用户
func (dao *UserDAO) Counts() (UserCounts, error) {
	var c UserCounts
	base := func() *gorm.DB { return dao.db.Model(&User{}).Where("is_deleted = ?", false) }
	if err := base().Count(&c.Total).Error; err != nil {
		return c, err
	}
	if err := base().Where("is_active = ?", true).Count(&c.Active).Error; err != nil {
		return c, err
	}
	if err := base().Where("role = ?", cons.RoleStudent).Count(&c.Students).Error; err != nil {
		return c, err
	}
	if err := base().Where("role = ?", cons.RoleStaff).Count(&c.Staff).Error; err != nil {
		return c, err
	}
	if err := base().Where("role = ?", cons.RoleAdmin).Count(&c.Admins).Error; err != nil {
		return c, err
	}
	return c, nil
}

func (dao *UserDAO) IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// NormalizeAccount email / username 统一 trim + 小写
func NormalizeAccount(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
