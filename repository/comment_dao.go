package repository

import (
	"github.com/golivishiva/Digital-Notice-Board/models"
	"gorm.io/gorm"
)

// CommentDAO 公告评论
type CommentDAO struct {
	db *gorm.DB
}

func NewCommentDAO(db *gorm.DB) *CommentDAO {
	return &CommentDAO{db: db}
}

// WithDB 用于在事务（tx）中复用 DAO
func (dao *CommentDAO) WithDB(db *gorm.DB) *CommentDAO {
	if db == nil {
		return dao
	}
	return &CommentDAO{db: db}
}

func (dao *CommentDAO) Create(c *models.Comment) error {
	return dao.db.Omit("User").Create(c).Error
}

// ListByNotice 最新在前，带评论者
func (dao *CommentDAO) ListByNotice(noticeID string) ([]models.Comment, error) {
	var list []models.Comment
	err := dao.db.Preload("User").
		Where("notice_id = ?", noticeID).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

func (dao *CommentDAO) CountByNotice(noticeID string) (int64, error) {
	var count int64
	err := dao.db.Model(&models.Comment{}).Where("notice_id = ?", noticeID).Count(&count).Error
	return count, err
}

func (dao *CommentDAO) DistinctNoticeIDsByUser(userID string) ([]string, error) {
	var ids []string
	err := dao.db.Model(&models.Comment{}).
		Where("user_id = ?", userID).
		Distinct("notice_id").
		Pluck("notice_id", &ids).Error
	return ids, err
}

func (dao *CommentDAO) DeleteByNotices(noticeIDs []string) error {
	if len(noticeIDs) == 0 {
		return nil
	}
	return dao.db.Where("notice_id IN ?", noticeIDs).Delete(&models.Comment{}).Error
}

func (dao *CommentDAO) DeleteByUser(userID string) error {
	return dao.db.Where("user_id = ?", userID).Delete(&models.Comment{}).Error
}
