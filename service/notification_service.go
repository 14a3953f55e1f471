package service

import (
	"context"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/golivishiva/Digital-Notice-Board/cons"
	"github.com/golivishiva/Digital-Notice-Board/logger"
	"github.com/golivishiva/Digital-Notice-Board/models"
	"github.com/golivishiva/Digital-Notice-Board/repository"
)

// NotificationService 用户通知
// 约定：先落库，再尽力通过 WS 推送；离线用户通过 HTTP 拉取。
// 通知失败不影响触发它的业务操作。
type NotificationService struct {
	*Service
}

func NewNotificationService(s *Service) *NotificationService {
	return &NotificationService{Service: s}
}

// NotificationDTO HTTP / WS 返回结构
type NotificationDTO struct {
	ID        string     `json:"id"`
	NoticeID  *string    `json:"noticeId,omitempty"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	Type      string     `json:"type"`
	IsRead    bool       `json:"isRead"`
	ReadAt    *time.Time `json:"readAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

func toNotificationDTO(n *models.Notification) NotificationDTO {
	return NotificationDTO{
		ID:        n.ID,
		NoticeID:  n.NoticeID,
		Title:     n.Title,
		Message:   n.Message,
		Type:      n.Type,
		IsRead:    n.IsRead,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
}

// Publish 给一组用户写入同一条通知并推送，userIDs 自动去重
func (s *NotificationService) Publish(ctx context.Context, userIDs []string, noticeID *string, typ, title, message string) error {
	if len(userIDs) == 0 {
		return nil
	}
	now := s.Now()

	uniq := make(map[string]struct{}, len(userIDs))
	rows := make([]models.Notification, 0, len(userIDs))
	for _, uid := range userIDs {
		if uid == "" {
			continue
		}
		if _, ok := uniq[uid]; ok {
			continue
		}
		uniq[uid] = struct{}{}
		rows = append(rows, models.Notification{
			ID:        models.NewID("ntf"),
			UserID:    uid,
			NoticeID:  noticeID,
			Title:     title,
			Message:   message,
			Type:      typ,
			CreatedAt: now,
		})
	}

	if err := repository.NewNotificationDAO(s.db(ctx)).CreateBatch(rows); err != nil {
		return err
	}

	// WS 推送（尽力而为：失败不影响主流程）
	s.push(rows)
	return nil
}

func (s *NotificationService) push(rows []models.Notification) {
	if s.WsNotifier == nil {
		return
	}
	for i := range rows {
		msg := struct {
			Type         string          `json:"type"`
			Notification NotificationDTO `json:"notification"`
		}{
			Type:         cons.EventNotification,
			Notification: toNotificationDTO(&rows[i]),
		}
		b, err := json.Marshal(msg)
		if err != nil {
			continue
		}
		s.WsNotifier(rows[i].UserID, b)
	}
}

// NoticeApproved 通知作者公告已通过审核
func (s *NotificationService) NoticeApproved(ctx context.Context, n *models.Notice) {
	if s == nil {
		return
	}
	err := s.Publish(ctx, []string{n.AuthorID}, &n.ID, cons.NotificationNotice,
		"Notice approved", fmt.Sprintf("Your notice %q has been approved", n.Title))
	if err != nil {
		logger.Errorf("notify approve %s: %v", n.ID, err)
	}
}

// NewComment 通知作者收到新评论；自己评论自己不通知
func (s *NotificationService) NewComment(ctx context.Context, n *models.Notice, commenter *models.User) {
	if s == nil {
		return
	}
	if commenter == nil || commenter.ID == n.AuthorID {
		return
	}
	err := s.Publish(ctx, []string{n.AuthorID}, &n.ID, cons.NotificationComment,
		"New comment", fmt.Sprintf("%s commented on %q", commenter.FullName, n.Title))
	if err != nil {
		logger.Errorf("notify comment %s: %v", n.ID, err)
	}
}

// EmergencyBroadcast 紧急公告发布后通知全部可登录用户
func (s *NotificationService) EmergencyBroadcast(ctx context.Context, n *models.Notice) {
	if s == nil {
		return
	}
	ids, err := models.NewUserDAO(s.db(ctx)).ActiveUserIDs()
	if err != nil {
		logger.Errorf("emergency broadcast %s: list users: %v", n.ID, err)
		return
	}
	if err := s.Publish(ctx, ids, &n.ID, cons.NotificationEmergency, n.Title, n.Summary); err != nil {
		logger.Errorf("emergency broadcast %s: %v", n.ID, err)
	}
}

// List 拉取用户通知（最新在前），同时返回未读数
func (s *NotificationService) List(ctx context.Context, userID string, unreadOnly bool, limit int) ([]NotificationDTO, int64, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	dao := repository.NewNotificationDAO(s.db(ctx))
	rows, err := dao.ListByUser(userID, unreadOnly, limit)
	if err != nil {
		return nil, 0, err
	}
	unread, err := dao.CountUnread(userID)
	if err != nil {
		return nil, 0, err
	}
	out := make([]NotificationDTO, 0, len(rows))
	for i := range rows {
		out = append(out, toNotificationDTO(&rows[i]))
	}
	return out, unread, nil
}

// MarkRead 标记已读；ids 为空表示全部
func (s *NotificationService) MarkRead(ctx context.Context, userID string, ids []string) (int64, error) {
	return repository.NewNotificationDAO(s.db(ctx)).MarkRead(userID, ids, s.Now())
}
