package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/golivishiva/Digital-Notice-Board/models"
	"github.com/golivishiva/Digital-Notice-Board/store"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// newMockDB 用 go-sqlmock 创建一个可被 GORM 使用的 *gorm.DB。
// 说明：我们用 mysql dialector 只是为了让 GORM 生成的 SQL/占位符风格稳定（? 占位符），
// 实际不会连接真实 MySQL。
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	sqldb, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}

	// SkipDefaultTransaction: 避免 GORM 默认在每次写操作开启事务，简化 sqlmock 断言
	db, err := gorm.Open(mysql.New(mysql.Config{Conn: sqldb, SkipInitializeWithVersion: true}), &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		_ = sqldb.Close()
		t.Fatalf("gorm.Open: %v", err)
	}

	return db, mock, sqldb
}

// testClock 可手动拨动的时钟
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// testEnv 基于内存 sqlite 的完整服务集合，用于场景测试
type testEnv struct {
	DB    *gorm.DB
	MR    *miniredis.Miniredis
	Clock *testClock
	Base  *Service

	Sessions      *SessionService
	Users         *UserService
	Notices       *NoticeService
	Interactions  *InteractionService
	Comments      *CommentService
	Notifications *NotificationService
	Analytics     *AnalyticsService

	pushedMu sync.Mutex
	pushed   map[string]int // userID -> WS 推送次数
}

func newTestEnv(t *testing.T, withRedis bool) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := store.Open("sqlite", dsn, false)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := store.AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}

	env := &testEnv{
		DB:     db,
		Clock:  &testClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)},
		pushed: make(map[string]int),
	}

	var rdb *redis.Client
	if withRedis {
		env.MR = miniredis.RunT(t)
		rdb = redis.NewClient(&redis.Options{Addr: env.MR.Addr()})
	}

	base := &Service{
		DB:         db,
		RDB:        rdb,
		SessionTTL: defaultSessionTTL,
		Clock:      env.Clock.Now,
		WsNotifier: func(userID string, _ []byte) {
			env.pushedMu.Lock()
			env.pushed[userID]++
			env.pushedMu.Unlock()
		},
	}
	base.Activity = NewActivityService(base)
	base.Notify = NewNotificationService(base)
	env.Base = base

	env.Sessions = NewSessionService(base)
	env.Users = NewUserService(base, env.Sessions)
	env.Notices = NewNoticeService(base)
	env.Interactions = NewInteractionService(base)
	env.Comments = NewCommentService(base)
	env.Notifications = base.Notify
	env.Analytics = NewAnalyticsService(base)
	return env
}

func (e *testEnv) pushCount(userID string) int {
	e.pushedMu.Lock()
	defer e.pushedMu.Unlock()
	return e.pushed[userID]
}

// mustUser 直接写库创建一个可登录用户
func (e *testEnv) mustUser(t *testing.T, username, role string) *models.User {
	t.Helper()
	hash, salt, err := HashPassword("secret1")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	u := &models.User{
		Email:        username + "@x.edu",
		Username:     username,
		PasswordHash: hash,
		PasswordSalt: salt,
		FullName:     username,
		Role:         role,
		IsActive:     true,
	}
	if err := e.DB.Create(u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func (e *testEnv) mustNotice(t *testing.T, author *models.User, title string) *NoticeDTO {
	t.Helper()
	n, err := e.Notices.Create(context.Background(), author, CreateNoticeReq{Title: title, Content: title + " content"}, RequestMeta{})
	if err != nil {
		t.Fatalf("create notice: %v", err)
	}
	return n
}

func (e *testEnv) reloadNotice(t *testing.T, id string) *models.Notice {
	t.Helper()
	var n models.Notice
	if err := e.DB.Where("id = ?", id).First(&n).Error; err != nil {
		t.Fatalf("reload notice: %v", err)
	}
	return &n
}
