package service

import (
	"context"
	"time"

	json "github.com/goccy/go-json"
	"github.com/golivishiva/Digital-Notice-Board/logger"
	"github.com/golivishiva/Digital-Notice-Board/models"
	"github.com/golivishiva/Digital-Notice-Board/repository"
	"gorm.io/datatypes"
)

// RequestMeta 审计需要的请求信息
type RequestMeta struct {
	IP        string
	UserAgent string
}

// ActivityEntry 一条审计记录
type ActivityEntry struct {
	UserID     string
	Action     string
	EntityType string
	EntityID   string
	Metadata   map[string]any
	Meta       RequestMeta
}

// ActivityService 审计日志：只追加，写失败只记日志不影响业务
type ActivityService struct {
	*Service
}

func NewActivityService(s *Service) *ActivityService {
	return &ActivityService{Service: s}
}

// Log 尽力写入
func (s *ActivityService) Log(ctx context.Context, e ActivityEntry) {
	if s == nil {
		return
	}
	row := &models.ActivityLog{
		Action:    e.Action,
		IPAddress: e.Meta.IP,
		UserAgent: e.Meta.UserAgent,
		CreatedAt: s.Now(),
	}
	if e.UserID != "" {
		row.UserID = &e.UserID
	}
	if e.EntityType != "" {
		row.EntityType = &e.EntityType
	}
	if e.EntityID != "" {
		row.EntityID = &e.EntityID
	}
	if len(e.Metadata) > 0 {
		if b, err := json.Marshal(e.Metadata); err == nil {
			row.Metadata = datatypes.JSON(b)
		}
	}
	if err := repository.NewActivityLogDAO(s.db(ctx)).Create(row); err != nil {
		logger.L().Error().Err(err).Str("action", e.Action).Msg("activity log write failed")
	}
}

// ActivityLogDTO 后台日志列表
type ActivityLogDTO struct {
	ID         string         `json:"id"`
	UserID     *string        `json:"userId"`
	Username   *string        `json:"username"`
	FullName   *string        `json:"fullName"`
	Action     string         `json:"action"`
	EntityType *string        `json:"entityType"`
	EntityID   *string        `json:"entityId"`
	Metadata   datatypes.JSON `json:"metadata,omitempty"`
	IPAddress  string         `json:"ipAddress"`
	UserAgent  string         `json:"userAgent"`
	CreatedAt  time.Time      `json:"createdAt"`
}

func toActivityLogDTO(l *models.ActivityLog) ActivityLogDTO {
	dto := ActivityLogDTO{
		ID:         l.ID,
		UserID:     l.UserID,
		Action:     l.Action,
		EntityType: l.EntityType,
		EntityID:   l.EntityID,
		Metadata:   l.Metadata,
		IPAddress:  l.IPAddress,
		UserAgent:  l.UserAgent,
		CreatedAt:  l.CreatedAt,
	}
	if l.User != nil {
		dto.Username = &l.User.Username
		dto.FullName = &l.User.FullName
	}
	return dto
}

// ListLogs 后台查看审计日志
func (s *ActivityService) ListLogs(ctx context.Context, action, userID string, page, limit int) ([]ActivityLogDTO, int64, error) {
	page, limit = normalizePage(page, limit, 100)
	rows, total, err := repository.NewActivityLogDAO(s.db(ctx)).List(repository.LogFilter{
		Action: action,
		UserID: userID,
		Limit:  limit,
		Offset: (page - 1) * limit,
	})
	if err != nil {
		return nil, 0, err
	}
	out := make([]ActivityLogDTO, 0, len(rows))
	for i := range rows {
		out = append(out, toActivityLogDTO(&rows[i]))
	}
	return out, total, nil
}
