package service

import (
	"context"

	"github.com/golivishiva/Digital-Notice-Board/cons"
	"github.com/golivishiva/Digital-Notice-Board/logger"
	"github.com/golivishiva/Digital-Notice-Board/models"
	"github.com/golivishiva/Digital-Notice-Board/repository"
	"gorm.io/gorm"
)

// InteractionService 点赞/收藏/已读确认的切换与计数维护
type InteractionService struct{ *Service }

func NewInteractionService(s *Service) *InteractionService { return &InteractionService{Service: s} }

type InteractReq struct {
	Type string `json:"type" binding:"required"`
}

// Toggle 存在则删除，不存在则插入；like 同时维护 like_count。
// 行变更与计数在同一事务内完成；并发插入撞唯一键时不加计数。
func (s *InteractionService) Toggle(ctx context.Context, actor *models.User, noticeID, typ string) (string, error) {
	if !Can(actor, ActNoticeInteract, "") {
		return "", ErrPermissionDenied
	}
	if !cons.IsToggleInteraction(typ) {
		return "", ErrValidation("Invalid interaction type")
	}

	var result string
	err := s.db(ctx).Transaction(func(tx *gorm.DB) error {
		notices := repository.NewNoticeDAO(tx)
		n, err := notices.FindByID(noticeID)
		if err != nil {
			return notFoundOr(err, ErrNoticeNotFound)
		}
		if !visibleTo(actor, n, s.Now()) {
			return ErrNoticeNotFound
		}

		interactions := repository.NewInteractionDAO(tx)
		exists, err := interactions.Exists(actor.ID, noticeID, typ)
		if err != nil {
			return err
		}

		if exists {
			removed, err := interactions.Delete(actor.ID, noticeID, typ)
			if err != nil {
				return err
			}
			if removed && typ == cons.InteractionLike {
				if err := notices.IncrCounter(noticeID, "like_count", -1); err != nil {
					return err
				}
			}
			result = cons.InteractRemoved
			return nil
		}

		inserted, err := interactions.InsertIgnore(actor.ID, noticeID, typ)
		if err != nil {
			return err
		}
		if inserted && typ == cons.InteractionLike {
			if err := notices.IncrCounter(noticeID, "like_count", 1); err != nil {
				return err
			}
		}
		result = cons.InteractAdded
		return nil
	})
	if err != nil {
		return "", err
	}
	return result, nil
}

// CounterResult 校准结果
type CounterResult struct {
	NoticeID     string `json:"noticeId"`
	LikeCount    int64  `json:"likeCount"`
	CommentCount int64  `json:"commentCount"`
}

// ReconcileCounters 按明细重算 like_count / comment_count。view_count 不参与。
func (s *InteractionService) ReconcileCounters(ctx context.Context, actor *models.User, noticeID string, meta RequestMeta) (*CounterResult, error) {
	var res *CounterResult
	err := s.db(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := repository.NewNoticeDAO(tx).Exists(noticeID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrNoticeNotFound
		}
		res, err = reconcileNotice(tx, noticeID)
		return err
	})
	if err != nil {
		return nil, err
	}
	entry := ActivityEntry{
		Action:     cons.ActionReconcileNotice,
		EntityType: cons.EntityNotice, EntityID: noticeID,
		Metadata: map[string]any{"likeCount": res.LikeCount, "commentCount": res.CommentCount},
		Meta:     meta,
	}
	if actor != nil {
		entry.UserID = actor.ID
	}
	s.Activity.Log(ctx, entry)
	return res, nil
}

// ReconcileAll 全量校准（定时任务），单条失败不影响其它
func (s *InteractionService) ReconcileAll(ctx context.Context) (int, error) {
	ids, err := repository.NewNoticeDAO(s.db(ctx)).ListAllIDs()
	if err != nil {
		return 0, err
	}
	fixed := 0
	for _, id := range ids {
		if ctx.Err() != nil {
			return fixed, ctx.Err()
		}
		err := s.db(ctx).Transaction(func(tx *gorm.DB) error {
			_, err := reconcileNotice(tx, id)
			return err
		})
		if err != nil {
			logger.Errorf("reconcile notice %s: %v", id, err)
			continue
		}
		fixed++
	}
	return fixed, nil
}

// reconcileNotice 须在事务中调用
func reconcileNotice(tx *gorm.DB, noticeID string) (*CounterResult, error) {
	likes, err := repository.NewInteractionDAO(tx).CountByNotice(noticeID, cons.InteractionLike)
	if err != nil {
		return nil, err
	}
	comments, err := repository.NewCommentDAO(tx).CountByNotice(noticeID)
	if err != nil {
		return nil, err
	}
	err = repository.NewNoticeDAO(tx).UpdateFields(noticeID, map[string]any{
		"like_count":    likes,
		"comment_count": comments,
	})
	if err != nil {
		return nil, err
	}
	return &CounterResult{NoticeID: noticeID, LikeCount: likes, CommentCount: comments}, nil
}

// ListBookmarks 当前用户收藏的公告中仍对其可见的部分
func (s *InteractionService) ListBookmarks(ctx context.Context, actor *models.User) ([]NoticeItem, error) {
	ids, err := repository.NewInteractionDAO(s.db(ctx)).NoticeIDsByUser(actor.ID, cons.InteractionBookmark)
	if err != nil {
		return nil, err
	}
	items := make([]NoticeItem, 0, len(ids))
	if len(ids) == 0 {
		return items, nil
	}

	var rows []models.Notice
	if err := s.db(ctx).Preload("Author").Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	byID := make(map[string]*models.Notice, len(rows))
	for i := range rows {
		byID[rows[i].ID] = &rows[i]
	}
	now := s.Now()
	// 保持收藏时间倒序
	for _, id := range ids {
		n, ok := byID[id]
		if !ok || !visibleTo(actor, n, now) {
			continue
		}
		items = append(items, toNoticeItem(n))
	}
	return items, nil
}
