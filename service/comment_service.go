package service

import (
	"context"
	"strings"
	"time"

	"github.com/golivishiva/Digital-Notice-Board/cons"
	"github.com/golivishiva/Digital-Notice-Board/models"
	"github.com/golivishiva/Digital-Notice-Board/repository"
	"gorm.io/gorm"
)

type CommentService struct{ *Service }

func NewCommentService(s *Service) *CommentService { return &CommentService{Service: s} }

type AddCommentReq struct {
	Content string `json:"content" binding:"required"`
}

type CommentDTO struct {
	ID        string    `json:"id"`
	NoticeID  string    `json:"noticeId"`
	UserID    string    `json:"userId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CommentItem 评论 + 评论者摘要
type CommentItem struct {
	Comment CommentDTO `json:"comment"`
	User    *AuthorDTO `json:"user"`
}

// AddComment 发表评论；comment_count 与评论行同事务维护
func (s *CommentService) AddComment(ctx context.Context, actor *models.User, noticeID, content string, meta RequestMeta) (string, error) {
	if !Can(actor, ActNoticeComment, "") {
		return "", ErrPermissionDenied
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return "", ErrValidation("Comment content is required")
	}

	var notice *models.Notice
	now := s.Now()
	c := &models.Comment{
		ID:        models.NewID("comment"),
		NoticeID:  noticeID,
		UserID:    actor.ID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := s.db(ctx).Transaction(func(tx *gorm.DB) error {
		notices := repository.NewNoticeDAO(tx)
		n, err := notices.FindByID(noticeID)
		if err != nil {
			return notFoundOr(err, ErrNoticeNotFound)
		}
		if !visibleTo(actor, n, now) {
			return ErrNoticeNotFound
		}
		notice = n
		if err := repository.NewCommentDAO(tx).Create(c); err != nil {
			return err
		}
		return notices.IncrCounter(noticeID, "comment_count", 1)
	})
	if err != nil {
		return "", err
	}

	s.Activity.Log(ctx, ActivityEntry{
		UserID: actor.ID, Action: cons.ActionCreateComment,
		EntityType: cons.EntityComment, EntityID: c.ID,
		Metadata: map[string]any{"noticeId": noticeID},
		Meta:     meta,
	})
	s.Notify.NewComment(ctx, notice, actor)
	return c.ID, nil
}

// ListComments 最新在前
func (s *CommentService) ListComments(ctx context.Context, viewer *models.User, noticeID string) ([]CommentItem, error) {
	n, err := repository.NewNoticeDAO(s.db(ctx)).FindByID(noticeID)
	if err != nil {
		return nil, notFoundOr(err, ErrNoticeNotFound)
	}
	if !visibleTo(viewer, n, s.Now()) {
		return nil, ErrNoticeNotFound
	}

	rows, err := repository.NewCommentDAO(s.db(ctx)).ListByNotice(noticeID)
	if err != nil {
		return nil, err
	}
	out := make([]CommentItem, 0, len(rows))
	for i := range rows {
		r := &rows[i]
		item := CommentItem{Comment: CommentDTO{
			ID:        r.ID,
			NoticeID:  r.NoticeID,
			UserID:    r.UserID,
			Content:   r.Content,
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
		}}
		if r.User.ID != "" {
			a := toAuthorDTO(&r.User)
			item.User = &a
		}
		out = append(out, item)
	}
	return out, nil
}
