package repository

import (
	"github.com/golivishiva/Digital-Notice-Board/models"
	"gorm.io/gorm"
)

// ActivityLogDAO 审计日志（只追加）
type ActivityLogDAO struct {
	db *gorm.DB
}

func NewActivityLogDAO(db *gorm.DB) *ActivityLogDAO {
	return &ActivityLogDAO{db: db}
}

func (dao *ActivityLogDAO) WithDB(db *gorm.DB) *ActivityLogDAO {
	if db == nil {
		return dao
	}
	return &ActivityLogDAO{db: db}
}

func (dao *ActivityLogDAO) Create(l *models.ActivityLog) error {
	return dao.db.Omit("User").Create(l).Error
}

// LogFilter 日志筛选
type LogFilter struct {
	Action string
	UserID string
	Limit  int
	Offset int
}

// List 最新在前，带操作人
func (dao *ActivityLogDAO) List(f LogFilter) ([]models.ActivityLog, int64, error) {
	q := dao.db.Model(&models.ActivityLog{})
	if f.Action != "" {
		q = q.Where("action = ?", f.Action)
	}
	if f.UserID != "" {
		q = q.Where("user_id = ?", f.UserID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []models.ActivityLog
	err := q.Preload("User").
		Order("created_at DESC").
		Limit(f.Limit).
		Offset(f.Offset).
		Find(&logs).Error
	return logs, total, err
}

// DetachUser 用户被彻底删除后保留日志，只清空 user_id
func (dao *ActivityLogDAO) DetachUser(userID string) error {
	return dao.db.Model(&models.ActivityLog{}).
		Where("user_id = ?", userID).
		Update("user_id", nil).Error
}
