package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golivishiva/Digital-Notice-Board/cons"
	"github.com/golivishiva/Digital-Notice-Board/models"
)

func TestNoticeService_CreateApprovalByRole(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()
	admin := env.mustUser(t, "admin", cons.RoleAdmin)
	staff := env.mustUser(t, "staff", cons.RoleStaff)
	student := env.mustUser(t, "stu", cons.RoleStudent)

	byStaff := env.mustNotice(t, staff, "Exam Notice")
	if byStaff.IsApproved {
		t.Fatalf("staff notice should be pending")
	}
	if byStaff.Category != cons.CategoryExams {
		t.Fatalf("expected auto category exams, got %s", byStaff.Category)
	}
	byAdmin := env.mustNotice(t, admin, "Library hours")
	if !byAdmin.IsApproved {
		t.Fatalf("admin notice should be approved")
	}

	_, err := env.Notices.Create(ctx, student, CreateNoticeReq{Title: "x", Content: "y"}, RequestMeta{})
	if !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("student create: expected ErrPermissionDenied, got %v", err)
	}
	_, err = env.Notices.Create(ctx, staff, CreateNoticeReq{Title: " ", Content: "y"}, RequestMeta{})
	if KindOf(err) != KindValidation {
		t.Fatalf("blank title: expected validation, got %v", err)
	}
	_, err = env.Notices.Create(ctx, staff, CreateNoticeReq{Title: "x", Content: "y", Category: "misc"}, RequestMeta{})
	if KindOf(err) != KindValidation {
		t.Fatalf("bad category: expected validation, got %v", err)
	}
}

func TestNoticeService_CreateWithAttachmentsAndSummary(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()
	admin := env.mustUser(t, "admin", cons.RoleAdmin)

	content := "<p>" + strings.Repeat("x", 200) + "</p>"
	n, err := env.Notices.Create(ctx, admin, CreateNoticeReq{
		Title:    "Sports day",
		Content:  content,
		Category: cons.CategoryGeneral,
		Attachments: []AttachmentReq{
			{FileName: "schedule.pdf", FileType: "application/pdf", FileSize: 1024, StorageKey: "k/1"},
		},
	}, RequestMeta{})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if n.Category != cons.CategoryGeneral {
		t.Fatalf("explicit category should win, got %s", n.Category)
	}
	if n.Summary != strings.Repeat("x", 147)+"..." {
		t.Fatalf("unexpected summary %q", n.Summary)
	}

	detail, err := env.Notices.Get(ctx, admin, n.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(detail.Attachments) != 1 || detail.Attachments[0].FileName != "schedule.pdf" {
		t.Fatalf("unexpected attachments %+v", detail.Attachments)
	}
	if detail.Author == nil || detail.Author.ID != admin.ID {
		t.Fatalf("author summary missing")
	}
}

// 场景：教职工发布 -> 待审核；管理员审核 -> 学生列表可见
func TestNoticeService_ApproveScenario(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()
	admin := env.mustUser(t, "admin", cons.RoleAdmin)
	staff := env.mustUser(t, "user_a", cons.RoleStaff)
	student := env.mustUser(t, "stu", cons.RoleStudent)

	n := env.mustNotice(t, staff, "Exam Notice")

	page, err := env.Notices.List(ctx, student, ListNoticesReq{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if page.Total != 0 {
		t.Fatalf("student must not see pending notice")
	}
	if _, err := env.Notices.Get(ctx, student, n.ID); !errors.Is(err, ErrNoticeNotFound) {
		t.Fatalf("student detail of pending notice should be 404, got %v", err)
	}

	pending, err := env.Notices.ListPending(ctx, admin, 1, 20)
	if err != nil || pending.Total != 1 {
		t.Fatalf("ListPending: total=%v err=%v", pending, err)
	}
	if _, err := env.Notices.ListPending(ctx, staff, 1, 20); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("staff ListPending should be denied")
	}

	if err := env.Notices.Approve(ctx, staff, n.ID, RequestMeta{}); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("staff approve: expected ErrPermissionDenied, got %v", err)
	}
	if err := env.Notices.Approve(ctx, admin, "notice_missing", RequestMeta{}); !errors.Is(err, ErrNoticeNotFound) {
		t.Fatalf("approve unknown: expected 404, got %v", err)
	}
	if err := env.Notices.Approve(ctx, admin, n.ID, RequestMeta{}); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	// 幂等
	if err := env.Notices.Approve(ctx, admin, n.ID, RequestMeta{}); err != nil {
		t.Fatalf("second Approve: %v", err)
	}
	if !env.reloadNotice(t, n.ID).IsApproved {
		t.Fatalf("notice should be approved")
	}

	page, err = env.Notices.List(ctx, student, ListNoticesReq{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if page.Total != 1 || page.Items[0].Notice.ID != n.ID {
		t.Fatalf("student should now see the notice, got %+v", page)
	}

	// 作者收到一条审核通知（只在首次审核时）
	list, unread, err := env.Notifications.List(ctx, staff.ID, false, 10)
	if err != nil {
		t.Fatalf("Notifications.List: %v", err)
	}
	if len(list) != 1 || unread != 1 || list[0].Type != cons.NotificationNotice {
		t.Fatalf("expected one approval notification, got %+v", list)
	}
	if env.pushCount(staff.ID) != 1 {
		t.Fatalf("expected one ws push to author")
	}
}

func TestNoticeService_StudentVisibility(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()
	admin := env.mustUser(t, "admin", cons.RoleAdmin)
	staff := env.mustUser(t, "staff", cons.RoleStaff)
	student := env.mustUser(t, "stu", cons.RoleStudent)

	live := env.mustNotice(t, admin, "Live")
	future := env.Clock.Now().Add(24 * time.Hour)
	scheduled, err := env.Notices.Create(ctx, admin, CreateNoticeReq{Title: "Later", Content: "soon", PublishAt: &future}, RequestMeta{})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	archived := env.mustNotice(t, admin, "Old")
	yes := true
	if err := env.Notices.Update(ctx, admin, archived.ID, UpdateNoticeReq{IsArchived: &yes}, RequestMeta{}); err != nil {
		t.Fatalf("archive: %v", err)
	}
	pending := env.mustNotice(t, staff, "Draft")

	page, err := env.Notices.List(ctx, student, ListNoticesReq{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if page.Total != 1 || page.Items[0].Notice.ID != live.ID {
		t.Fatalf("student should only see live notice, got %d items", page.Total)
	}
	// archived=true 对学生也不泄露
	page, _ = env.Notices.List(ctx, student, ListNoticesReq{Archived: true})
	if page.Total != 0 {
		t.Fatalf("student archived view should be empty, got %d", page.Total)
	}
	for _, id := range []string{scheduled.ID, archived.ID, pending.ID} {
		if _, err := env.Notices.Get(ctx, student, id); !errors.Is(err, ErrNoticeNotFound) {
			t.Fatalf("student detail of %s should be 404", id)
		}
	}

	// staff：自己的 + 已审核，不含归档
	page, _ = env.Notices.List(ctx, staff, ListNoticesReq{})
	if page.Total != 3 {
		t.Fatalf("staff should see live, scheduled and own draft, got %d", page.Total)
	}
	page, _ = env.Notices.List(ctx, staff, ListNoticesReq{Archived: true})
	if page.Total != 1 {
		t.Fatalf("staff archived view should list archived, got %d", page.Total)
	}

	// admin：全部
	page, _ = env.Notices.List(ctx, admin, ListNoticesReq{})
	if page.Total != 4 {
		t.Fatalf("admin should see all, got %d", page.Total)
	}

	// 时间到了之后学生可见
	env.Clock.Advance(25 * time.Hour)
	page, _ = env.Notices.List(ctx, student, ListNoticesReq{})
	if page.Total != 2 {
		t.Fatalf("scheduled notice should become visible, got %d", page.Total)
	}
}

func TestNoticeService_ListFiltersAndOrder(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()
	admin := env.mustUser(t, "admin", cons.RoleAdmin)

	mk := func(title, dept string, pinned bool, offset time.Duration) *NoticeDTO {
		at := env.Clock.Now().Add(-offset)
		n, err := env.Notices.Create(ctx, admin, CreateNoticeReq{
			Title: title, Content: title, Department: dept, IsPinned: pinned, PublishAt: &at,
		}, RequestMeta{})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		return n
	}
	old := mk("Football match", "cs", false, 3*time.Hour)
	newer := mk("Library hours", "", false, time.Hour)
	pinned := mk("Campus map", "math", true, 5*time.Hour)

	page, _ := env.Notices.List(ctx, admin, ListNoticesReq{})
	if len(page.Items) != 3 {
		t.Fatalf("expected 3, got %d", len(page.Items))
	}
	if page.Items[0].Notice.ID != pinned.ID || page.Items[1].Notice.ID != newer.ID || page.Items[2].Notice.ID != old.ID {
		t.Fatalf("order should be pinned first then publishAt desc")
	}

	page, _ = env.Notices.List(ctx, admin, ListNoticesReq{Department: "cs"})
	if page.Total != 2 {
		t.Fatalf("department filter should include department-less notices, got %d", page.Total)
	}
	page, _ = env.Notices.List(ctx, admin, ListNoticesReq{Department: "all"})
	if page.Total != 3 {
		t.Fatalf("department=all means no filter, got %d", page.Total)
	}
	page, _ = env.Notices.List(ctx, admin, ListNoticesReq{Category: cons.CategorySports})
	if page.Total != 1 || page.Items[0].Notice.ID != old.ID {
		t.Fatalf("category filter failed")
	}
	page, _ = env.Notices.List(ctx, admin, ListNoticesReq{Search: "Library"})
	if page.Total != 1 {
		t.Fatalf("search filter failed")
	}
	yes := true
	page, _ = env.Notices.List(ctx, admin, ListNoticesReq{Pinned: &yes})
	if page.Total != 1 {
		t.Fatalf("pinned filter failed")
	}
	page, _ = env.Notices.List(ctx, admin, ListNoticesReq{Page: 2, Limit: 2})
	if page.Total != 3 || len(page.Items) != 1 {
		t.Fatalf("pagination failed: total=%d items=%d", page.Total, len(page.Items))
	}
}

func TestNoticeService_GetCountsViews(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()
	admin := env.mustUser(t, "admin", cons.RoleAdmin)
	student := env.mustUser(t, "stu", cons.RoleStudent)
	n := env.mustNotice(t, admin, "Hello")

	for i := 0; i < 3; i++ {
		d, err := env.Notices.Get(ctx, student, n.ID)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if d.Notice.ViewCount != int64(i+1) {
			t.Fatalf("view %d: viewCount=%d", i, d.Notice.ViewCount)
		}
		if len(d.UserInteractions) != 1 || d.UserInteractions[0] != cons.InteractionView {
			t.Fatalf("expected view interaction, got %v", d.UserInteractions)
		}
	}

	var views int64
	env.DB.Model(&models.Interaction{}).Where("notice_id = ? AND type = ?", n.ID, cons.InteractionView).Count(&views)
	if views != 1 {
		t.Fatalf("view interaction should be recorded once, got %d", views)
	}
	if _, err := env.Notices.Get(ctx, student, "notice_missing"); !errors.Is(err, ErrNoticeNotFound) {
		t.Fatalf("expected 404")
	}
}

func TestNoticeService_UpdatePermissions(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()
	admin := env.mustUser(t, "admin", cons.RoleAdmin)
	staff := env.mustUser(t, "staff", cons.RoleStaff)
	other := env.mustUser(t, "staff2", cons.RoleStaff)
	n := env.mustNotice(t, staff, "Original")

	content := "brand new content"
	if err := env.Notices.Update(ctx, other, n.ID, UpdateNoticeReq{Content: &content}, RequestMeta{}); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("other staff update: expected ErrPermissionDenied, got %v", err)
	}
	if err := env.Notices.Update(ctx, staff, n.ID, UpdateNoticeReq{Content: &content}, RequestMeta{}); err != nil {
		t.Fatalf("author update: %v", err)
	}
	got := env.reloadNotice(t, n.ID)
	if got.Content != content || got.Summary != content {
		t.Fatalf("content/summary not updated: %+v", got)
	}

	pin := true
	if err := env.Notices.Update(ctx, admin, n.ID, UpdateNoticeReq{IsPinned: &pin}, RequestMeta{}); err != nil {
		t.Fatalf("admin update: %v", err)
	}
	if !env.reloadNotice(t, n.ID).IsPinned {
		t.Fatalf("pin not applied")
	}
	if err := env.Notices.Update(ctx, admin, n.ID, UpdateNoticeReq{}, RequestMeta{}); KindOf(err) != KindValidation {
		t.Fatalf("empty update should be a validation error, got %v", err)
	}
	if err := env.Notices.Update(ctx, admin, "notice_missing", UpdateNoticeReq{IsPinned: &pin}, RequestMeta{}); !errors.Is(err, ErrNoticeNotFound) {
		t.Fatalf("expected 404, got %v", err)
	}
}

func TestNoticeService_DeleteCascades(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()
	admin := env.mustUser(t, "admin", cons.RoleAdmin)
	staff := env.mustUser(t, "staff", cons.RoleStaff)
	student := env.mustUser(t, "stu", cons.RoleStudent)

	n, err := env.Notices.Create(ctx, admin, CreateNoticeReq{
		Title: "With stuff", Content: "body",
		Attachments: []AttachmentReq{{FileName: "a.png"}},
	}, RequestMeta{})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := env.Interactions.Toggle(ctx, student, n.ID, cons.InteractionBookmark); err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if _, err := env.Comments.AddComment(ctx, student, n.ID, "nice", RequestMeta{}); err != nil {
		t.Fatalf("AddComment: %v", err)
	}

	if err := env.Notices.Delete(ctx, staff, n.ID, RequestMeta{}); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("staff delete of admin notice: expected ErrPermissionDenied, got %v", err)
	}
	if err := env.Notices.Delete(ctx, admin, n.ID, RequestMeta{}); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	for _, m := range []any{&models.Notice{}, &models.Attachment{}, &models.Interaction{}, &models.Comment{}, &models.Notification{}} {
		var count int64
		env.DB.Model(m).Count(&count)
		if count != 0 {
			t.Fatalf("%T rows should be cascaded, got %d", m, count)
		}
	}
	if err := env.Notices.Delete(ctx, admin, n.ID, RequestMeta{}); !errors.Is(err, ErrNoticeNotFound) {
		t.Fatalf("second delete: expected 404, got %v", err)
	}
}

func TestNoticeService_EmergencyBroadcast(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()
	admin := env.mustUser(t, "admin", cons.RoleAdmin)
	staff := env.mustUser(t, "staff", cons.RoleStaff)
	s1 := env.mustUser(t, "s1", cons.RoleStudent)
	s2 := env.mustUser(t, "s2", cons.RoleStudent)
	if err := env.Users.DeleteUser(ctx, admin, s2.ID, RequestMeta{}); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}

	// 教职工发布的紧急公告在审核通过后才广播
	n := env.mustNotice(t, staff, "URGENT: gas leak")
	if n.Category != cons.CategoryEmergency {
		t.Fatalf("expected emergency category, got %s", n.Category)
	}
	if env.pushCount(s1.ID) != 0 {
		t.Fatalf("pending emergency notice must not broadcast")
	}
	if err := env.Notices.Approve(ctx, admin, n.ID, RequestMeta{}); err != nil {
		t.Fatalf("Approve: %v", err)
	}

	var count int64
	env.DB.Model(&models.Notification{}).Where("type = ?", cons.NotificationEmergency).Count(&count)
	if count != 3 {
		t.Fatalf("expected emergency notification for 3 active users, got %d", count)
	}
	if env.pushCount(s2.ID) != 0 {
		t.Fatalf("deleted user must not be notified")
	}
	if env.pushCount(s1.ID) != 1 {
		t.Fatalf("active student should be pushed once")
	}
}
