package repository

import (
	"github.com/golivishiva/Digital-Notice-Board/models"
	"gorm.io/gorm"
)

// AttachmentDAO 附件元数据
type AttachmentDAO struct {
	db *gorm.DB
}

func NewAttachmentDAO(db *gorm.DB) *AttachmentDAO {
	return &AttachmentDAO{db: db}
}

func (dao *AttachmentDAO) WithDB(db *gorm.DB) *AttachmentDAO {
	if db == nil {
		return dao
	}
	return &AttachmentDAO{db: db}
}

func (dao *AttachmentDAO) CreateBatch(items []models.Attachment) error {
	if len(items) == 0 {
		return nil
	}
	return dao.db.Create(&items).Error
}

func (dao *AttachmentDAO) DeleteByNotices(noticeIDs []string) error {
	if len(noticeIDs) == 0 {
		return nil
	}
	return dao.db.Where("notice_id IN ?", noticeIDs).Delete(&models.Attachment{}).Error
}
