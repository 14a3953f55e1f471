package repository

import (
	"time"

	"github.com/golivishiva/Digital-Notice-Board/models"
	"gorm.io/gorm"
)

// SessionDAO 登录会话的数据访问
//
// 约定：
// - 只做数据访问，过期判断由 service 完成。
// - 事务边界由 service 控制；如需在事务中执行，请使用 WithDB(tx)。
type SessionDAO struct {
	db *gorm.DB
}

func NewSessionDAO(db *gorm.DB) *SessionDAO {
	return &SessionDAO{db: db}
}

// WithDB 用于在事务（tx）中复用 DAO
func (dao *SessionDAO) WithDB(db *gorm.DB) *SessionDAO {
	if db == nil {
		return dao
	}
	return &SessionDAO{db: db}
}

func (dao *SessionDAO) Create(s *models.Session) error {
	return dao.db.Create(s).Error
}

func (dao *SessionDAO) FindByID(id string) (*models.Session, error) {
	var s models.Session
	if err := dao.db.Where("id = ?", id).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (dao *SessionDAO) Delete(id string) error {
	return dao.db.Where("id = ?", id).Delete(&models.Session{}).Error
}

// ListByUser 用户的全部会话（用于写缓存注销标记）
func (dao *SessionDAO) ListByUser(userID string) ([]models.Session, error) {
	var list []models.Session
	err := dao.db.Select("id", "expires_at").Where("user_id = ?", userID).Find(&list).Error
	return list, err
}

func (dao *SessionDAO) DeleteByUser(userID string) error {
	return dao.db.Where("user_id = ?", userID).Delete(&models.Session{}).Error
}

// DeleteExpired 删除 expires_at <= now 的会话，返回删除行数
func (dao *SessionDAO) DeleteExpired(now time.Time) (int64, error) {
	res := dao.db.Where("expires_at <= ?", now).Delete(&models.Session{})
	return res.RowsAffected, res.Error
}
