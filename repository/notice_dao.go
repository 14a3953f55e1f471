package repository

import (
	"strings"
	"time"

	"github.com/golivishiva/Digital-Notice-Board/models"
	"gorm.io/gorm"
)

// NoticeDAO 公告的数据访问
type NoticeDAO struct {
	db *gorm.DB
}

func NewNoticeDAO(db *gorm.DB) *NoticeDAO {
	return &NoticeDAO{db: db}
}

// WithDB 用于在事务（tx）中复用 DAO
func (dao *NoticeDAO) WithDB(db *gorm.DB) *NoticeDAO {
	if db == nil {
		return dao
	}
	return &NoticeDAO{db: db}
}

func (dao *NoticeDAO) Create(n *models.Notice) error {
	return dao.db.Omit("Author", "Attachments").Create(n).Error
}

func (dao *NoticeDAO) FindByID(id string) (*models.Notice, error) {
	var n models.Notice
	if err := dao.db.Where("id = ?", id).First(&n).Error; err != nil {
		return nil, err
	}
	return &n, nil
}

// FindDetail 带作者和附件
func (dao *NoticeDAO) FindDetail(id string) (*models.Notice, error) {
	var n models.Notice
	err := dao.db.
		Preload("Author").
		Preload("Attachments", func(db *gorm.DB) *gorm.DB { return db.Order("uploaded_at ASC") }).
		Where("id = ?", id).
		First(&n).Error
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (dao *NoticeDAO) Exists(id string) (bool, error) {
	var count int64
	err := dao.db.Model(&models.Notice{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (dao *NoticeDAO) UpdateFields(id string, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return dao.db.Model(&models.Notice{}).Where("id = ?", id).Updates(updates).Error
}

// IncrCounter 原子加减计数列（view_count / like_count / comment_count）
func (dao *NoticeDAO) IncrCounter(id, column string, delta int) error {
	return dao.db.Model(&models.Notice{}).
		Where("id = ?", id).
		UpdateColumn(column, gorm.Expr(column+" + ?", delta)).Error
}

func (dao *NoticeDAO) DeleteByIDs(ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return dao.db.Where("id IN ?", ids).Delete(&models.Notice{}).Error
}

// ListIDsByAuthor 某用户发布的全部公告
func (dao *NoticeDAO) ListIDsByAuthor(authorID string) ([]string, error) {
	var ids []string
	err := dao.db.Model(&models.Notice{}).Where("author_id = ?", authorID).Pluck("id", &ids).Error
	return ids, err
}

func (dao *NoticeDAO) ListAllIDs() ([]string, error) {
	var ids []string
	err := dao.db.Model(&models.Notice{}).Pluck("id", &ids).Error
	return ids, err
}

// Visibility 按角色投影的可见范围
type Visibility int

const (
	VisibleAll       Visibility = iota // admin
	VisibleOwnOrLive                   // staff：自己的 或 已审核
	VisiblePublished                   // student：已审核 且 已发布
)

// NoticeFilter 公告列表筛选
type NoticeFilter struct {
	Visibility Visibility
	ViewerID   string
	Now        time.Time

	Category   string
	Department string // 匹配该部门或无部门；"all" 或空表示不过滤
	Search     string
	Pinned     *bool
	Archived   bool
	Pending    bool // 只看待审核
	Limit      int
	Offset     int
}

func (dao *NoticeDAO) applyFilter(q *gorm.DB, f NoticeFilter) *gorm.DB {
	switch f.Visibility {
	case VisiblePublished:
		q = q.Where("is_approved = ? AND is_archived = ? AND publish_at <= ?", true, false, f.Now)
		if f.Archived {
			// 与上面的条件互斥：学生的归档视图恒为空
			q = q.Where("is_archived = ?", true)
		}
	case VisibleOwnOrLive:
		if f.Archived {
			q = q.Where("is_archived = ?", true)
		} else {
			q = q.Where("(author_id = ? OR is_approved = ?) AND is_archived = ?", f.ViewerID, true, false)
		}
	default:
		if f.Archived {
			q = q.Where("is_archived = ?", true)
		}
	}

	if f.Pending {
		q = q.Where("is_approved = ?", false)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if dept := strings.TrimSpace(f.Department); dept != "" && dept != "all" {
		q = q.Where("(department = ? OR department IS NULL)", dept)
	}
	if kw := strings.TrimSpace(f.Search); kw != "" {
		like := "%" + kw + "%"
		q = q.Where("(title LIKE ? OR content LIKE ?)", like, like)
	}
	if f.Pinned != nil {
		q = q.Where("is_pinned = ?", *f.Pinned)
	}
	return q
}

// List 分页查询公告（带作者），返回总数
func (dao *NoticeDAO) List(f NoticeFilter) ([]models.Notice, int64, error) {
	q := dao.applyFilter(dao.db.Model(&models.Notice{}), f)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var notices []models.Notice
	err := q.Preload("Author").
		Order("is_pinned DESC").
		Order("publish_at DESC").
		Limit(f.Limit).
		Offset(f.Offset).
		Find(&notices).Error
	return notices, total, err
}

// NoticeCounts 仪表盘统计
type NoticeCounts struct {
	Total    int64 `json:"total"`
	Approved int64 `json:"approved"`
	Pending  int64 `json:"pending"`
	Archived int64 `json:"archived"`
}

func (dao *NoticeDAO) Counts() (NoticeCounts, error) {
	var c NoticeCounts
	m := func() *gorm.DB { return dao.db.Model(&models.Notice{}) }
	if err := m().Count(&c.Total).Error; err != nil {
		return c, err
	}
	if err := m().Where("is_approved = ?", true).Count(&c.Approved).Error; err != nil {
		return c, err
	}
	if err := m().Where("is_approved = ?", false).Count(&c.Pending).Error; err != nil {
		return c, err
	}
	if err := m().Where("is_archived = ?", true).Count(&c.Archived).Error; err != nil {
		return c, err
	}
	return c, nil
}

// CategoryStat 分类统计
type CategoryStat struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// CategoryStats 已审核公告按分类计数
func (dao *NoticeDAO) CategoryStats() ([]CategoryStat, error) {
	var stats []CategoryStat
	err := dao.db.Model(&models.Notice{}).
		Select("category, COUNT(*) AS count").
		Where("is_approved = ?", true).
		Group("category").
		Order("count DESC").
		Scan(&stats).Error
	return stats, err
}

// Engagement 互动汇总
type Engagement struct {
	TotalViews    int64 `json:"totalViews"`
	TotalLikes    int64 `json:"totalLikes"`
	TotalComments int64 `json:"totalComments"`
}

func (dao *NoticeDAO) Engagement() (Engagement, error) {
	var e Engagement
	err := dao.db.Model(&models.Notice{}).
		Select("COALESCE(SUM(view_count),0) AS total_views, COALESCE(SUM(like_count),0) AS total_likes, COALESCE(SUM(comment_count),0) AS total_comments").
		Scan(&e).Error
	return e, err
}

// RecentApproved 最近发布的已审核公告
func (dao *NoticeDAO) RecentApproved(limit int) ([]models.Notice, error) {
	var notices []models.Notice
	err := dao.db.Where("is_approved = ?", true).
		Order("publish_at DESC").
		Limit(limit).
		Find(&notices).Error
	return notices, err
}
