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

// NoticeService 公告生命周期：创建 -> 待审核 -> 已审核，归档/置顶为独立标记
type NoticeService struct{ *Service }

func NewNoticeService(s *Service) *NoticeService { return &NoticeService{Service: s} }

// AttachmentReq 附件元数据（文件本身由外部存储）
type AttachmentReq struct {
	FileName   string `json:"fileName" binding:"required"`
	FileType   string `json:"fileType"`
	FileSize   int64  `json:"fileSize" binding:"gte=0"`
	StorageKey string `json:"storageKey"`
}

// CreateNoticeReq 发布公告请求
type CreateNoticeReq struct {
	Title       string          `json:"title" binding:"required"`
	Content     string          `json:"content" binding:"required"`
	Category    string          `json:"category" binding:"omitempty,oneof=exams holidays sports events emergency general"`
	Department  string          `json:"department"`
	PublishAt   *time.Time      `json:"publishAt"`
	ExpiresAt   *time.Time      `json:"expiresAt"`
	IsPinned    bool            `json:"isPinned"`
	Attachments []AttachmentReq `json:"attachments" binding:"omitempty,dive"`
}

// UpdateNoticeReq 局部更新；nil 表示不修改
type UpdateNoticeReq struct {
	Title      *string    `json:"title"`
	Content    *string    `json:"content"`
	Category   *string    `json:"category"`
	Department *string    `json:"department"`
	PublishAt  *time.Time `json:"publishAt"`
	ExpiresAt  *time.Time `json:"expiresAt"`
	IsPinned   *bool      `json:"isPinned"`
	IsArchived *bool      `json:"isArchived"`
}

// ListNoticesReq 列表筛选
type ListNoticesReq struct {
	Category   string `form:"category"`
	Department string `form:"department"`
	Search     string `form:"search"`
	Pinned     *bool  `form:"pinned"`
	Archived   bool   `form:"archived"`
	Page       int    `form:"page"`
	Limit      int    `form:"limit"`
}

type NoticeDTO struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Content      string     `json:"content"`
	Summary      string     `json:"summary"`
	Category     string     `json:"category"`
	AuthorID     string     `json:"authorId"`
	Department   *string    `json:"department"`
	IsPinned     bool       `json:"isPinned"`
	IsApproved   bool       `json:"isApproved"`
	IsArchived   bool       `json:"isArchived"`
	PublishAt    time.Time  `json:"publishAt"`
	ExpiresAt    *time.Time `json:"expiresAt"`
	ViewCount    int64      `json:"viewCount"`
	LikeCount    int64      `json:"likeCount"`
	CommentCount int64      `json:"commentCount"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// NoticeAuthorDTO 公告作者摘要
type NoticeAuthorDTO struct {
	ID         string  `json:"id"`
	FullName   string  `json:"fullName"`
	Role       string  `json:"role"`
	Department *string `json:"department"`
}

// NoticeItem 列表项
type NoticeItem struct {
	Notice NoticeDTO        `json:"notice"`
	Author *NoticeAuthorDTO `json:"author"`
}

type AttachmentDTO struct {
	ID         string    `json:"id"`
	FileName   string    `json:"fileName"`
	FileType   string    `json:"fileType"`
	FileSize   int64     `json:"fileSize"`
	StorageKey string    `json:"storageKey"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// NoticeDetail 详情：公告 + 作者 + 附件 + 当前用户已有的互动
type NoticeDetail struct {
	NoticeItem
	Attachments      []AttachmentDTO `json:"attachments"`
	UserInteractions []string        `json:"userInteractions"`
}

// NoticePage 列表结果
type NoticePage struct {
	Items []NoticeItem
	Total int64
	Page  int
	Limit int
}

func toNoticeDTO(n *models.Notice) NoticeDTO {
	return NoticeDTO{
		ID:           n.ID,
		Title:        n.Title,
		Content:      n.Content,
		Summary:      n.Summary,
		Category:     n.Category,
		AuthorID:     n.AuthorID,
		Department:   n.Department,
		IsPinned:     n.IsPinned,
		IsApproved:   n.IsApproved,
		IsArchived:   n.IsArchived,
		PublishAt:    n.PublishAt,
		ExpiresAt:    n.ExpiresAt,
		ViewCount:    n.ViewCount,
		LikeCount:    n.LikeCount,
		CommentCount: n.CommentCount,
		CreatedAt:    n.CreatedAt,
		UpdatedAt:    n.UpdatedAt,
	}
}

func toNoticeItem(n *models.Notice) NoticeItem {
	item := NoticeItem{Notice: toNoticeDTO(n)}
	// 作者已被物理删除时 Author 为零值
	if n.Author.ID != "" {
		item.Author = &NoticeAuthorDTO{
			ID:         n.Author.ID,
			FullName:   n.Author.FullName,
			Role:       n.Author.Role,
			Department: n.Author.Department,
		}
	}
	return item
}

// visibleTo 详情可见性：学生只看已发布；教职工看不到他人未审核的公告
func visibleTo(viewer *models.User, n *models.Notice, now time.Time) bool {
	switch viewer.Role {
	case cons.RoleAdmin:
		return true
	case cons.RoleStaff:
		return n.IsApproved || n.AuthorID == viewer.ID
	default:
		return n.IsApproved && !n.IsArchived && !n.PublishAt.After(now)
	}
}

// Create 发布公告。管理员发布直接通过审核，教职工发布进入待审核。
func (s *NoticeService) Create(ctx context.Context, actor *models.User, req CreateNoticeReq, meta RequestMeta) (*NoticeDTO, error) {
	if !Can(actor, ActNoticeCreate, "") {
		return nil, ErrPermissionDenied
	}
	title := strings.TrimSpace(req.Title)
	content := strings.TrimSpace(req.Content)
	if title == "" || content == "" {
		return nil, ErrValidation("Title and content are required")
	}
	category := strings.TrimSpace(req.Category)
	if category == "" {
		category = Categorize(title, content)
	} else if !cons.IsValidCategory(category) {
		return nil, ErrValidation("Invalid category")
	}

	now := s.Now()
	publishAt := now
	if req.PublishAt != nil && !req.PublishAt.IsZero() {
		publishAt = req.PublishAt.UTC()
	}

	n := &models.Notice{
		ID:         models.NewID("notice"),
		Title:      title,
		Content:    content,
		Summary:    Summarize(content),
		Category:   category,
		AuthorID:   actor.ID,
		Department: strPtr(strings.TrimSpace(req.Department)),
		IsPinned:   req.IsPinned,
		IsApproved: actor.Role == cons.RoleAdmin,
		PublishAt:  publishAt,
		ExpiresAt:  req.ExpiresAt,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err := s.db(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repository.NewNoticeDAO(tx).Create(n); err != nil {
			return err
		}
		atts := make([]models.Attachment, 0, len(req.Attachments))
		for _, a := range req.Attachments {
			atts = append(atts, models.Attachment{
				NoticeID:   n.ID,
				FileName:   strings.TrimSpace(a.FileName),
				FileType:   a.FileType,
				FileSize:   a.FileSize,
				StorageKey: a.StorageKey,
				UploadedAt: now,
			})
		}
		return repository.NewAttachmentDAO(tx).CreateBatch(atts)
	})
	if err != nil {
		return nil, err
	}

	s.Activity.Log(ctx, ActivityEntry{
		UserID: actor.ID, Action: cons.ActionCreateNotice,
		EntityType: cons.EntityNotice, EntityID: n.ID,
		Metadata: map[string]any{"title": n.Title, "category": n.Category},
		Meta:     meta,
	})
	if n.IsApproved && n.Category == cons.CategoryEmergency {
		s.Notify.EmergencyBroadcast(ctx, n)
	}

	dto := toNoticeDTO(n)
	return &dto, nil
}

// Get 公告详情。不可见与不存在同样返回 404。
// 每次查看 view_count 无条件 +1，view 互动只记录一次。
func (s *NoticeService) Get(ctx context.Context, viewer *models.User, id string) (*NoticeDetail, error) {
	db := s.db(ctx)
	n, err := repository.NewNoticeDAO(db).FindDetail(id)
	if err != nil {
		return nil, notFoundOr(err, ErrNoticeNotFound)
	}
	if !visibleTo(viewer, n, s.Now()) {
		return nil, ErrNoticeNotFound
	}

	if err := repository.NewNoticeDAO(db).IncrCounter(id, "view_count", 1); err != nil {
		return nil, err
	}
	n.ViewCount++
	interactions := repository.NewInteractionDAO(db)
	if _, err := interactions.InsertIgnore(viewer.ID, id, cons.InteractionView); err != nil {
		return nil, err
	}
	types, err := interactions.TypesForUser(viewer.ID, id)
	if err != nil {
		return nil, err
	}

	detail := &NoticeDetail{
		NoticeItem:       toNoticeItem(n),
		Attachments:      make([]AttachmentDTO, 0, len(n.Attachments)),
		UserInteractions: types,
	}
	for _, a := range n.Attachments {
		detail.Attachments = append(detail.Attachments, AttachmentDTO{
			ID:         a.ID,
			FileName:   a.FileName,
			FileType:   a.FileType,
			FileSize:   a.FileSize,
			StorageKey: a.StorageKey,
			UploadedAt: a.UploadedAt,
		})
	}
	return detail, nil
}

// List 按角色投影的公告列表，置顶优先，再按发布时间倒序
func (s *NoticeService) List(ctx context.Context, viewer *models.User, req ListNoticesReq) (*NoticePage, error) {
	page, limit := normalizePage(req.Page, req.Limit, 20)

	f := repository.NoticeFilter{
		ViewerID:   viewer.ID,
		Now:        s.Now(),
		Category:   req.Category,
		Department: req.Department,
		Search:     req.Search,
		Pinned:     req.Pinned,
		Archived:   req.Archived,
		Limit:      limit,
		Offset:     (page - 1) * limit,
	}
	switch viewer.Role {
	case cons.RoleAdmin:
		f.Visibility = repository.VisibleAll
	case cons.RoleStaff:
		f.Visibility = repository.VisibleOwnOrLive
	default:
		f.Visibility = repository.VisiblePublished
	}
	return s.list(ctx, f, page, limit)
}

// ListPending 待审核公告（管理员）
func (s *NoticeService) ListPending(ctx context.Context, actor *models.User, page, limit int) (*NoticePage, error) {
	if !Can(actor, ActNoticeApprove, "") {
		return nil, ErrPermissionDenied
	}
	page, limit = normalizePage(page, limit, 20)
	return s.list(ctx, repository.NoticeFilter{
		Visibility: repository.VisibleAll,
		Pending:    true,
		Limit:      limit,
		Offset:     (page - 1) * limit,
	}, page, limit)
}

func (s *NoticeService) list(ctx context.Context, f repository.NoticeFilter, page, limit int) (*NoticePage, error) {
	rows, total, err := repository.NewNoticeDAO(s.db(ctx)).List(f)
	if err != nil {
		return nil, err
	}
	items := make([]NoticeItem, 0, len(rows))
	for i := range rows {
		items = append(items, toNoticeItem(&rows[i]))
	}
	return &NoticePage{Items: items, Total: total, Page: page, Limit: limit}, nil
}

// Update 作者或管理员局部修改；正文变化时重新生成摘要
func (s *NoticeService) Update(ctx context.Context, actor *models.User, id string, req UpdateNoticeReq, meta RequestMeta) error {
	dao := repository.NewNoticeDAO(s.db(ctx))
	n, err := dao.FindByID(id)
	if err != nil {
		return notFoundOr(err, ErrNoticeNotFound)
	}
	if !Can(actor, ActNoticeUpdate, n.AuthorID) {
		return ErrPermissionDenied
	}
	if req.IsArchived != nil && !Can(actor, ActNoticeArchive, n.AuthorID) {
		return ErrPermissionDenied
	}

	updates := make(map[string]any)
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return ErrValidation("Title cannot be empty")
		}
		updates["title"] = title
	}
	if req.Content != nil {
		content := strings.TrimSpace(*req.Content)
		if content == "" {
			return ErrValidation("Content cannot be empty")
		}
		updates["content"] = content
		updates["summary"] = Summarize(content)
	}
	if req.Category != nil {
		if !cons.IsValidCategory(*req.Category) {
			return ErrValidation("Invalid category")
		}
		updates["category"] = *req.Category
	}
	if req.Department != nil {
		updates["department"] = strPtr(strings.TrimSpace(*req.Department))
	}
	if req.PublishAt != nil {
		updates["publish_at"] = req.PublishAt.UTC()
	}
	if req.ExpiresAt != nil {
		updates["expires_at"] = req.ExpiresAt.UTC()
	}
	if req.IsPinned != nil {
		updates["is_pinned"] = *req.IsPinned
	}
	if req.IsArchived != nil {
		updates["is_archived"] = *req.IsArchived
	}
	if len(updates) == 0 {
		return ErrValidation("No fields to update")
	}
	updates["updated_at"] = s.Now()

	if err := dao.UpdateFields(id, updates); err != nil {
		return err
	}
	s.Activity.Log(ctx, ActivityEntry{
		UserID: actor.ID, Action: cons.ActionUpdateNotice,
		EntityType: cons.EntityNotice, EntityID: id,
		Metadata: changedKeys(updates),
		Meta:     meta,
	})
	return nil
}

// Approve 管理员审核通过，幂等
func (s *NoticeService) Approve(ctx context.Context, actor *models.User, id string, meta RequestMeta) error {
	if !Can(actor, ActNoticeApprove, "") {
		return ErrPermissionDenied
	}
	dao := repository.NewNoticeDAO(s.db(ctx))
	n, err := dao.FindByID(id)
	if err != nil {
		return notFoundOr(err, ErrNoticeNotFound)
	}
	if n.IsApproved {
		return nil
	}
	if err := dao.UpdateFields(id, map[string]any{"is_approved": true, "updated_at": s.Now()}); err != nil {
		return err
	}
	n.IsApproved = true

	s.Activity.Log(ctx, ActivityEntry{
		UserID: actor.ID, Action: cons.ActionApproveNotice,
		EntityType: cons.EntityNotice, EntityID: id,
		Meta: meta,
	})
	s.Notify.NoticeApproved(ctx, n)
	if n.Category == cons.CategoryEmergency {
		s.Notify.EmergencyBroadcast(ctx, n)
	}
	return nil
}

// Delete 作者或管理员删除，附件/互动/评论/通知在同一事务内级联删除
func (s *NoticeService) Delete(ctx context.Context, actor *models.User, id string, meta RequestMeta) error {
	n, err := repository.NewNoticeDAO(s.db(ctx)).FindByID(id)
	if err != nil {
		return notFoundOr(err, ErrNoticeNotFound)
	}
	if !Can(actor, ActNoticeDelete, n.AuthorID) {
		return ErrPermissionDenied
	}

	err = s.db(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteNoticesCascade(tx, []string{id})
	})
	if err != nil {
		return err
	}
	s.Activity.Log(ctx, ActivityEntry{
		UserID: actor.ID, Action: cons.ActionDeleteNotice,
		EntityType: cons.EntityNotice, EntityID: id,
		Metadata: map[string]any{"title": n.Title},
		Meta:     meta,
	})
	return nil
}

// deleteNoticesCascade 须在事务中调用
func deleteNoticesCascade(tx *gorm.DB, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if err := repository.NewAttachmentDAO(tx).DeleteByNotices(ids); err != nil {
		return err
	}
	if err := repository.NewInteractionDAO(tx).DeleteByNotices(ids); err != nil {
		return err
	}
	if err := repository.NewCommentDAO(tx).DeleteByNotices(ids); err != nil {
		return err
	}
	if err := repository.NewNotificationDAO(tx).DeleteByNotices(ids); err != nil {
		return err
	}
	return repository.NewNoticeDAO(tx).DeleteByIDs(ids)
}
