package models

import (
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

var idPattern = regexp.MustCompile(`^[a-z]+_[0-9a-f]{32}$`)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New failed: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("gorm.Open failed: %v", err)
	}
	return db, mock
}

// TestNoticeBeforeCreate 主键为空时自动生成 notice_ 前缀 ID
func TestNoticeBeforeCreate(t *testing.T) {
	db, mock := newMockDB(t)

	t.Run("AutoGenerateID", func(t *testing.T) {
		n := &Notice{Title: "t", Content: "c", AuthorID: "user_1", Category: "general"}

		mock.ExpectExec("INSERT INTO `nb_notice`").
			WillReturnResult(sqlmock.NewResult(1, 1))

		if err := db.Create(n).Error; err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if !strings.HasPrefix(n.ID, "notice_") || !idPattern.MatchString(n.ID) {
			t.Errorf("unexpected generated id: %q", n.ID)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("Unfulfilled expectations: %v", err)
		}
	})

	t.Run("PreserveExistingID", func(t *testing.T) {
		n := &Notice{ID: "notice_fixed", Title: "t", Content: "c", AuthorID: "user_1", Category: "general"}

		mock.ExpectExec("INSERT INTO `nb_notice`").
			WillReturnResult(sqlmock.NewResult(1, 1))

		if err := db.Create(n).Error; err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if n.ID != "notice_fixed" {
			t.Errorf("ID should be preserved, got %s", n.ID)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("Unfulfilled expectations: %v", err)
		}
	})
}

func TestNewIDUnique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		id := NewID("user")
		if !idPattern.MatchString(id) {
			t.Fatalf("bad id %q", id)
		}
		if _, ok := seen[id]; ok {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = struct{}{}
	}
}

// TestTableNames 表名统一使用 nb_ 前缀
func TestTableNames(t *testing.T) {
	cases := map[string]string{
		User{}.TableName():         "nb_user",
		Session{}.TableName():      "nb_session",
		Notice{}.TableName():       "nb_notice",
		Attachment{}.TableName():   "nb_attachment",
		Interaction{}.TableName():  "nb_interaction",
		Comment{}.TableName():      "nb_comment",
		ActivityLog{}.TableName():  "nb_activity_log",
		Notification{}.TableName(): "nb_notification",
	}
	for got, want := range cases {
		if got != want {
			t.Errorf("TableName() = %s, want %s", got, want)
		}
	}
}

func TestCanAuthenticate(t *testing.T) {
	var nilUser *User
	if nilUser.CanAuthenticate() {
		t.Error("nil user must not authenticate")
	}
	if !(&User{IsActive: true}).CanAuthenticate() {
		t.Error("active user should authenticate")
	}
	if (&User{IsActive: true, IsDeleted: true}).CanAuthenticate() {
		t.Error("deleted user must not authenticate")
	}
	if (&User{IsActive: false}).CanAuthenticate() {
		t.Error("inactive user must not authenticate")
	}
}
