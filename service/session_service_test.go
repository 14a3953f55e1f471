package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/golivishiva/Digital-Notice-Board/cons"
)

var sessionIDRe = regexp.MustCompile(`^sess_[0-9a-f]{64}$`)

func TestSessionService_CreateAndResolve(t *testing.T) {
	env := newTestEnv(t, true)
	ctx := context.Background()
	u := env.mustUser(t, "alice", cons.RoleStudent)

	sess, err := env.Sessions.CreateSession(ctx, u.ID)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if !sessionIDRe.MatchString(sess.ID) {
		t.Fatalf("unexpected session id %q", sess.ID)
	}
	if want := env.Clock.Now().Add(7 * 24 * time.Hour); !sess.ExpiresAt.Equal(want) {
		t.Fatalf("expires_at = %v, want %v", sess.ExpiresAt, want)
	}
	if !env.MR.Exists("nb:session:" + sess.ID) {
		t.Fatalf("expected cache key to be written")
	}

	got, err := env.Sessions.ResolveSession(ctx, sess.ID)
	if err != nil {
		t.Fatalf("ResolveSession: %v", err)
	}
	if got.ID != u.ID {
		t.Fatalf("resolved %s, want %s", got.ID, u.ID)
	}

	// 多个会话并存
	other, err := env.Sessions.CreateSession(ctx, u.ID)
	if err != nil {
		t.Fatalf("CreateSession second: %v", err)
	}
	if _, err := env.Sessions.ResolveSession(ctx, other.ID); err != nil {
		t.Fatalf("second session should resolve: %v", err)
	}
	if _, err := env.Sessions.ResolveSession(ctx, sess.ID); err != nil {
		t.Fatalf("first session should still resolve: %v", err)
	}
}

func TestSessionService_ResolveAbsent(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()

	for _, sid := range []string{"", "   ", "sess_missing"} {
		if _, err := env.Sessions.ResolveSession(ctx, sid); !errors.Is(err, ErrSessionNotFound) {
			t.Fatalf("sid %q: expected ErrSessionNotFound, got %v", sid, err)
		}
	}
}

func TestSessionService_ExpiredIsInert(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()
	u := env.mustUser(t, "bob", cons.RoleStaff)

	sess, err := env.Sessions.CreateSession(ctx, u.ID)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	env.Clock.Advance(7 * 24 * time.Hour)

	if _, err := env.Sessions.ResolveSession(ctx, sess.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected expired session to be absent, got %v", err)
	}

	// 解析不清理，清理由 SweepExpired 完成
	var count int64
	env.DB.Table("nb_session").Where("id = ?", sess.ID).Count(&count)
	if count != 1 {
		t.Fatalf("resolve must not delete rows, count=%d", count)
	}
	n, err := env.Sessions.SweepExpired(ctx, env.Clock.Now())
	if err != nil {
		t.Fatalf("SweepExpired: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 swept, got %d", n)
	}
}

func TestSessionService_DeletedOrInactiveUser(t *testing.T) {
	env := newTestEnv(t, true)
	ctx := context.Background()
	u := env.mustUser(t, "carol", cons.RoleStudent)

	sess, err := env.Sessions.CreateSession(ctx, u.ID)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	// 缓存仍然命中，但用户行每次都会重读
	env.DB.Table("nb_user").Where("id = ?", u.ID).Update("is_active", false)
	if _, err := env.Sessions.ResolveSession(ctx, sess.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("inactive user must not resolve, got %v", err)
	}

	env.DB.Table("nb_user").Where("id = ?", u.ID).Updates(map[string]any{"is_active": true, "is_deleted": true})
	if _, err := env.Sessions.ResolveSession(ctx, sess.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("deleted user must not resolve, got %v", err)
	}
}

func TestSessionService_RevokeIdempotent(t *testing.T) {
	env := newTestEnv(t, true)
	ctx := context.Background()
	u := env.mustUser(t, "dave", cons.RoleStudent)

	sess, err := env.Sessions.CreateSession(ctx, u.ID)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if err := env.Sessions.RevokeSession(ctx, sess.ID); err != nil {
		t.Fatalf("RevokeSession: %v", err)
	}
	if err := env.Sessions.RevokeSession(ctx, sess.ID); err != nil {
		t.Fatalf("second RevokeSession should be a no-op: %v", err)
	}
	if v, _ := env.MR.Get("nb:session:" + sess.ID); v != revokedMarker {
		t.Fatalf("cache entry = %q, want revoked marker", v)
	}
	if ttl := env.MR.TTL("nb:session:" + sess.ID); ttl <= 0 || ttl > 7*24*time.Hour {
		t.Fatalf("marker ttl = %v, want remaining session lifetime", ttl)
	}
	if _, err := env.Sessions.ResolveSession(ctx, sess.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("revoked session must not resolve, got %v", err)
	}

	// 未知 sid 不写标记
	if err := env.Sessions.RevokeSession(ctx, "sess_unknown"); err != nil {
		t.Fatalf("RevokeSession unknown: %v", err)
	}
	if env.MR.Exists("nb:session:sess_unknown") {
		t.Fatalf("unknown sid must not leave a cache key")
	}
}

// 解析方在注销前读到了会话行，注销完成后才回写缓存：回写必须失效
func TestSessionService_RevokeWinsOverConcurrentResolve(t *testing.T) {
	env := newTestEnv(t, true)
	ctx := context.Background()
	u := env.mustUser(t, "frank", cons.RoleStudent)

	sess, err := env.Sessions.CreateSession(ctx, u.ID)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	env.MR.Del("nb:session:" + sess.ID)

	// 解析方读行
	var row struct {
		UserID    string
		ExpiresAt time.Time
	}
	if err := env.DB.Table("nb_session").Where("id = ?", sess.ID).Take(&row).Error; err != nil {
		t.Fatalf("read session row: %v", err)
	}

	if err := env.Sessions.RevokeSession(ctx, sess.ID); err != nil {
		t.Fatalf("RevokeSession: %v", err)
	}

	// 解析方回写缓存
	if err := env.Sessions.cache.Put(ctx, sess.ID, row.UserID, row.ExpiresAt, env.Clock.Now()); err != nil {
		t.Fatalf("cache put: %v", err)
	}
	if _, err := env.Sessions.ResolveSession(ctx, sess.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("revoked session resolved through a late cache write, err=%v", err)
	}
}

func TestSessionService_RevokeAllForUser(t *testing.T) {
	env := newTestEnv(t, true)
	ctx := context.Background()
	u := env.mustUser(t, "erin", cons.RoleStudent)

	a, _ := env.Sessions.CreateSession(ctx, u.ID)
	b, _ := env.Sessions.CreateSession(ctx, u.ID)
	if err := env.Sessions.RevokeAllForUser(ctx, u.ID); err != nil {
		t.Fatalf("RevokeAllForUser: %v", err)
	}
	for _, sid := range []string{a.ID, b.ID} {
		// 并发解析的迟到回写同样无效
		if err := env.Sessions.cache.Put(ctx, sid, u.ID, a.ExpiresAt, env.Clock.Now()); err != nil {
			t.Fatalf("cache put: %v", err)
		}
		if _, err := env.Sessions.ResolveSession(ctx, sid); !errors.Is(err, ErrSessionNotFound) {
			t.Fatalf("session %s should be revoked", sid)
		}
	}
}

// sqlmock：解析不存在的会话只发一条 SELECT，不写库
func TestSessionService_ResolveIsReadOnly(t *testing.T) {
	gormDB, mock, sqlDB := newMockDB(t)
	defer func() { _ = sqlDB.Close() }()

	svc := NewSessionService(&Service{DB: gormDB})

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `nb_session` WHERE id = ?")).
		WithArgs("sess_nope", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "expires_at", "created_at"}))

	_, err := svc.ResolveSession(context.Background(), "sess_nope")
	if !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestGenerateSessionID(t *testing.T) {
	a, err := GenerateSessionID()
	if err != nil {
		t.Fatalf("GenerateSessionID: %v", err)
	}
	b, _ := GenerateSessionID()
	if a == b || !strings.HasPrefix(a, "sess_") {
		t.Fatalf("unexpected ids %q %q", a, b)
	}
}
