package service

import (
	"context"
	"time"

	"github.com/golivishiva/Digital-Notice-Board/models"
	"github.com/golivishiva/Digital-Notice-Board/repository"
)

// AnalyticsService 仪表盘与统计，只做简单计数查询
type AnalyticsService struct{ *Service }

func NewAnalyticsService(s *Service) *AnalyticsService { return &AnalyticsService{Service: s} }

type Dashboard struct {
	Users          models.UserCounts       `json:"users"`
	Notices        repository.NoticeCounts `json:"notices"`
	RecentActivity []ActivityLogDTO        `json:"recentActivity"`
}

// Dashboard 管理后台概览
func (s *AnalyticsService) Dashboard(ctx context.Context, actor *models.User) (*Dashboard, error) {
	if !Can(actor, ActAdmin, "") {
		return nil, ErrPermissionDenied
	}
	users, err := models.NewUserDAO(s.db(ctx)).Counts()
	if err != nil {
		return nil, err
	}
	notices, err := repository.NewNoticeDAO(s.db(ctx)).Counts()
	if err != nil {
		return nil, err
	}
	recent, _, err := s.Activity.ListLogs(ctx, "", "", 1, 10)
	if err != nil {
		return nil, err
	}
	return &Dashboard{Users: users, Notices: notices, RecentActivity: recent}, nil
}

type RecentNotice struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Category     string    `json:"category"`
	ViewCount    int64     `json:"viewCount"`
	LikeCount    int64     `json:"likeCount"`
	CommentCount int64     `json:"commentCount"`
	PublishAt    time.Time `json:"publishAt"`
}

type Stats struct {
	CategoryStats []repository.CategoryStat `json:"categoryStats"`
	Engagement    repository.Engagement     `json:"engagement"`
	RecentNotices []RecentNotice            `json:"recentNotices"`
}

// Stats 分类分布、互动汇总、最近 5 条已审核公告
func (s *AnalyticsService) Stats(ctx context.Context) (*Stats, error) {
	dao := repository.NewNoticeDAO(s.db(ctx))
	cats, err := dao.CategoryStats()
	if err != nil {
		return nil, err
	}
	eng, err := dao.Engagement()
	if err != nil {
		return nil, err
	}
	recent, err := dao.RecentApproved(5)
	if err != nil {
		return nil, err
	}
	out := &Stats{
		CategoryStats: cats,
		Engagement:    eng,
		RecentNotices: make([]RecentNotice, 0, len(recent)),
	}
	if out.CategoryStats == nil {
		out.CategoryStats = []repository.CategoryStat{}
	}
	for _, n := range recent {
		out.RecentNotices = append(out.RecentNotices, RecentNotice{
			ID:           n.ID,
			Title:        n.Title,
			Category:     n.Category,
			ViewCount:    n.ViewCount,
			LikeCount:    n.LikeCount,
			CommentCount: n.CommentCount,
			PublishAt:    n.PublishAt,
		})
	}
	return out, nil
}
