package repository

import (
	"github.com/golivishiva/Digital-Notice-Board/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InteractionDAO 用户-公告互动边
type InteractionDAO struct {
	db *gorm.DB
}

func NewInteractionDAO(db *gorm.DB) *InteractionDAO {
	return &InteractionDAO{db: db}
}

// WithDB 用于在事务（tx）中复用 DAO
func (dao *InteractionDAO) WithDB(db *gorm.DB) *InteractionDAO {
	if db == nil {
		return dao
	}
	return &InteractionDAO{db: db}
}

// Exists 某条互动是否存在
func (dao *InteractionDAO) Exists(userID, noticeID, typ string) (bool, error) {
	var count int64
	err := dao.db.Model(&models.Interaction{}).
		Where("user_id = ? AND notice_id = ? AND type = ?", userID, noticeID, typ).
		Count(&count).Error
	return count > 0, err
}

// InsertIgnore 插入互动，唯一键冲突时什么也不做。返回是否真正插入。
func (dao *InteractionDAO) InsertIgnore(userID, noticeID, typ string) (bool, error) {
	row := &models.Interaction{UserID: userID, NoticeID: noticeID, Type: typ}
	res := dao.db.Clauses(clause.OnConflict{DoNothing: true}).Create(row)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Delete 删除互动，返回是否真正删除
func (dao *InteractionDAO) Delete(userID, noticeID, typ string) (bool, error) {
	res := dao.db.Where("user_id = ? AND notice_id = ? AND type = ?", userID, noticeID, typ).
		Delete(&models.Interaction{})
	return res.RowsAffected > 0, res.Error
}

// TypesForUser 用户对某公告已有的互动类型
func (dao *InteractionDAO) TypesForUser(userID, noticeID string) ([]string, error) {
	types := make([]string, 0, 4)
	err := dao.db.Model(&models.Interaction{}).
		Where("user_id = ? AND notice_id = ?", userID, noticeID).
		Order("type ASC").
		Pluck("type", &types).Error
	return types, err
}

func (dao *InteractionDAO) CountByNotice(noticeID, typ string) (int64, error) {
	var count int64
	err := dao.db.Model(&models.Interaction{}).
		Where("notice_id = ? AND type = ?", noticeID, typ).
		Count(&count).Error
	return count, err
}

// NoticeIDsByUser 用户某类互动涉及的公告（按时间倒序）
func (dao *InteractionDAO) NoticeIDsByUser(userID, typ string) ([]string, error) {
	var ids []string
	err := dao.db.Model(&models.Interaction{}).
		Where("user_id = ? AND type = ?", userID, typ).
		Order("created_at DESC").
		Pluck("notice_id", &ids).Error
	return ids, err
}

// DistinctNoticeIDsByUser 用户有过任何互动的公告
func (dao *InteractionDAO) DistinctNoticeIDsByUser(userID string) ([]string, error) {
	var ids []string
	err := dao.db.Model(&models.Interaction{}).
		Where("user_id = ?", userID).
		Distinct("notice_id").
		Pluck("notice_id", &ids).Error
	return ids, err
}

func (dao *InteractionDAO) DeleteByNotices(noticeIDs []string) error {
	if len(noticeIDs) == 0 {
		return nil
	}
	return dao.db.Where("notice_id IN ?", noticeIDs).Delete(&models.Interaction{}).Error
}

func (dao *InteractionDAO) DeleteByUser(userID string) error {
	return dao.db.Where("user_id = ?", userID).Delete(&models.Interaction{}).Error
}
