package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/golivishiva/Digital-Notice-Board/models"
	"github.com/golivishiva/Digital-Notice-Board/service"
	"github.com/golivishiva/Digital-Notice-Board/store"
)

// Usage:
//
//	NB_DB_DRIVER=sqlite NB_DB_DSN=noticeboard.db go run ./scripts/seed_demo_data.go
//
// 重复执行是安全的：已存在的账号直接复用。
func main() {
	driver := os.Getenv("NB_DB_DRIVER")
	dsn := os.Getenv("NB_DB_DSN")
	if dsn == "" {
		log.Fatal("NB_DB_DSN is empty")
	}

	db, err := store.Open(driver, dsn, false)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	if err := store.AutoMigrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	base := &service.Service{DB: db, SessionTTL: time.Hour}
	base.Activity = service.NewActivityService(base)
	base.Notify = service.NewNotificationService(base)
	sessions := service.NewSessionService(base)
	users := service.NewUserService(base, sessions)
	notices := service.NewNoticeService(base)
	interactions := service.NewInteractionService(base)
	comments := service.NewCommentService(base)

	ctx := context.Background()
	meta := service.RequestMeta{IP: "127.0.0.1", UserAgent: "seed"}
	dao := models.NewUserDAO(db)

	if err := users.EnsureAdmin(ctx, "admin@campus.edu", "admin", "admin123", "Campus Admin"); err != nil {
		log.Fatalf("admin: %v", err)
	}
	admin, err := dao.FindByEmail("admin@campus.edu")
	if err != nil {
		log.Fatalf("load admin: %v", err)
	}

	demo := []service.CreateUserReq{
		{Email: "prof.rao@campus.edu", Username: "prof.rao", Password: "staff123", FullName: "Anita Rao", Role: "staff", Department: "Computer Science"},
		{Email: "coach.das@campus.edu", Username: "coach.das", Password: "staff123", FullName: "Vikram Das", Role: "staff", Department: "Sports"},
		{Email: "meera@campus.edu", Username: "meera", Password: "student123", FullName: "Meera Iyer", Role: "student", Department: "Computer Science"},
		{Email: "arjun@campus.edu", Username: "arjun", Password: "student123", FullName: "Arjun Nair", Role: "student", Department: "Mechanical"},
	}
	byName := map[string]*models.User{}
	for _, req := range demo {
		if _, err := users.CreateUser(ctx, admin, req, meta); err != nil {
			var se *service.Error
			if !errors.As(err, &se) || se.Kind != service.KindConflict {
				log.Fatalf("create %s: %v", req.Username, err)
			}
		}
		u, err := dao.FindByUsername(req.Username)
		if err != nil {
			log.Fatalf("load %s: %v", req.Username, err)
		}
		byName[req.Username] = u
	}

	now := time.Now()
	nextWeek := now.Add(7 * 24 * time.Hour)
	posts := []struct {
		author string
		req    service.CreateNoticeReq
	}{
		{"admin", service.CreateNoticeReq{
			Title:    "Campus closed for Diwali",
			Content:  "The campus will remain closed for the Diwali festival. Hostels stay open with limited mess service.",
			IsPinned: true,
		}},
		{"prof.rao", service.CreateNoticeReq{
			Title:      "Mid-semester exam timetable",
			Content:    "The mid-semester exam schedule for all CS courses is attached. Hall tickets are issued from the department office.",
			Department: "Computer Science",
			Attachments: []service.AttachmentReq{
				{FileName: "timetable.pdf", FileType: "application/pdf", FileSize: 48213, StorageKey: "notices/timetable.pdf"},
			},
		}},
		{"coach.das", service.CreateNoticeReq{
			Title:     "Inter-college cricket tournament trials",
			Content:   "Trials for the inter-college cricket tournament are held on the main ground. Bring your own kit.",
			PublishAt: &nextWeek,
		}},
	}

	for _, p := range posts {
		author := admin
		if p.author != "admin" {
			author = byName[p.author]
		}
		n, err := notices.Create(ctx, author, p.req, meta)
		if err != nil {
			log.Fatalf("notice %q: %v", p.req.Title, err)
		}
		if !n.IsApproved {
			if err := notices.Approve(ctx, admin, n.ID, meta); err != nil {
				log.Fatalf("approve %q: %v", p.req.Title, err)
			}
		}
		fmt.Printf("notice %s [%s] %s\n", n.ID, n.Category, n.Title)

		// 定时发布的公告学生暂时看不到
		if p.req.PublishAt != nil {
			continue
		}
		student := byName["meera"]
		if _, err := interactions.Toggle(ctx, student, n.ID, "like"); err != nil {
			log.Printf("like %s: %v", n.ID, err)
		}
		if _, err := comments.AddComment(ctx, student, n.ID, "Thanks for the update!", meta); err != nil {
			log.Printf("comment %s: %v", n.ID, err)
		}
	}
	fmt.Println("seed done")
}
