package service

import (
	"context"
	"testing"

	"github.com/golivishiva/Digital-Notice-Board/cons"
)

func TestNotificationService_PublishDedupes(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()
	u := env.mustUser(t, "u", cons.RoleStudent)

	err := env.Notifications.Publish(ctx, []string{u.ID, u.ID, ""}, nil, cons.NotificationSystem, "Hi", "welcome")
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	list, unread, err := env.Notifications.List(ctx, u.ID, false, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 || unread != 1 {
		t.Fatalf("expected exactly one notification, got %d (unread %d)", len(list), unread)
	}
	if list[0].NoticeID != nil || list[0].Title != "Hi" {
		t.Fatalf("unexpected notification %+v", list[0])
	}
	if env.pushCount(u.ID) != 1 {
		t.Fatalf("expected one push, got %d", env.pushCount(u.ID))
	}

	if err := env.Notifications.Publish(ctx, nil, nil, cons.NotificationSystem, "x", "y"); err != nil {
		t.Fatalf("empty publish: %v", err)
	}
}

func TestNotificationService_MarkRead(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()
	u := env.mustUser(t, "u", cons.RoleStudent)
	other := env.mustUser(t, "other", cons.RoleStudent)

	for i := 0; i < 3; i++ {
		if err := env.Notifications.Publish(ctx, []string{u.ID, other.ID}, nil, cons.NotificationSystem, "t", "m"); err != nil {
			t.Fatalf("Publish: %v", err)
		}
	}
	list, unread, _ := env.Notifications.List(ctx, u.ID, false, 10)
	if len(list) != 3 || unread != 3 {
		t.Fatalf("setup: %d/%d", len(list), unread)
	}

	n, err := env.Notifications.MarkRead(ctx, u.ID, []string{list[0].ID})
	if err != nil || n != 1 {
		t.Fatalf("MarkRead one: n=%d err=%v", n, err)
	}
	unreadList, unread, _ := env.Notifications.List(ctx, u.ID, true, 10)
	if len(unreadList) != 2 || unread != 2 {
		t.Fatalf("after one read: %d/%d", len(unreadList), unread)
	}

	// 不能标记别人的通知
	otherList, _, _ := env.Notifications.List(ctx, other.ID, false, 10)
	if n, _ := env.Notifications.MarkRead(ctx, u.ID, []string{otherList[0].ID}); n != 0 {
		t.Fatalf("marked another user's notification")
	}

	if _, err := env.Notifications.MarkRead(ctx, u.ID, nil); err != nil {
		t.Fatalf("MarkRead all: %v", err)
	}
	if _, unread, _ = env.Notifications.List(ctx, u.ID, false, 10); unread != 0 {
		t.Fatalf("all should be read, unread=%d", unread)
	}
	if _, unread, _ = env.Notifications.List(ctx, other.ID, false, 10); unread != 3 {
		t.Fatalf("other user's notifications touched, unread=%d", unread)
	}
}

func TestNotificationService_NilSafe(t *testing.T) {
	var s *NotificationService
	s.NoticeApproved(context.Background(), nil)
	s.NewComment(context.Background(), nil, nil)
	s.EmergencyBroadcast(context.Background(), nil)
}
