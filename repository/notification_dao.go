package repository

import (
	"time"

	"github.com/golivishiva/Digital-Notice-Board/models"
	"gorm.io/gorm"
)

// NotificationDAO 用户通知
type NotificationDAO struct {
	db *gorm.DB
}

func NewNotificationDAO(db *gorm.DB) *NotificationDAO {
	return &NotificationDAO{db: db}
}

func (dao *NotificationDAO) WithDB(db *gorm.DB) *NotificationDAO {
	if db == nil {
		return dao
	}
	return &NotificationDAO{db: db}
}

// CreateBatch 分批写入，避免广播时单条 SQL 过大
func (dao *NotificationDAO) CreateBatch(items []models.Notification) error {
	if len(items) == 0 {
		return nil
	}
	return dao.db.CreateInBatches(&items, 200).Error
}

func (dao *NotificationDAO) ListByUser(userID string, unreadOnly bool, limit int) ([]models.Notification, error) {
	q := dao.db.Where("user_id = ?", userID)
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}
	var list []models.Notification
	err := q.Order("created_at DESC").Limit(limit).Find(&list).Error
	return list, err
}

func (dao *NotificationDAO) CountUnread(userID string) (int64, error) {
	var count int64
	err := dao.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

// MarkRead 只能标记自己的通知；ids 为空时全部标记已读
func (dao *NotificationDAO) MarkRead(userID string, ids []string, at time.Time) (int64, error) {
	q := dao.db.Model(&models.Notification{}).Where("user_id = ? AND is_read = ?", userID, false)
	if len(ids) > 0 {
		q = q.Where("id IN ?", ids)
	}
	res := q.Updates(map[string]any{"is_read": true, "read_at": at})
	return res.RowsAffected, res.Error
}

func (dao *NotificationDAO) DeleteByNotices(noticeIDs []string) error {
	if len(noticeIDs) == 0 {
		return nil
	}
	return dao.db.Where("notice_id IN ?", noticeIDs).Delete(&models.Notification{}).Error
}

func (dao *NotificationDAO) DeleteByUser(userID string) error {
	return dao.db.Where("user_id = ?", userID).Delete(&models.Notification{}).Error
}
