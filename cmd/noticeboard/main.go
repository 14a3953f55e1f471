package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	noticeboard "github.com/golivishiva/Digital-Notice-Board"
	"github.com/golivishiva/Digital-Notice-Board/config"
	"github.com/golivishiva/Digital-Notice-Board/logger"
	"github.com/golivishiva/Digital-Notice-Board/store"
)

func main() {
	confPath := flag.String("config", "config.yaml", "配置文件路径（不存在时只用默认值和环境变量）")
	flag.Parse()

	// 1. 配置 + 日志
	cfg, err := config.Load(*confPath)
	if err != nil {
		logger.Errorf("加载配置失败: %v", err)
		os.Exit(1)
	}
	if err := logger.Init(logger.Options{Level: cfg.Log.Level, Console: cfg.Server.Debug, Path: cfg.Log.Path}); err != nil {
		logger.Errorf("初始化日志失败: %v", err)
		os.Exit(1)
	}
	defer logger.Close()
	if !cfg.Server.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// 2. 数据库 / Redis
	db, err := store.Open(cfg.Database.Driver, cfg.Database.DSN, cfg.Server.Debug)
	if err != nil {
		logger.Errorf("数据库连接失败: %v", err)
		os.Exit(1)
	}
	rdb := store.OpenRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if rdb != nil {
		defer rdb.Close()
	}

	// 3. Engine
	engine, err := noticeboard.NewEngine(
		noticeboard.WithDB(db),
		noticeboard.WithRDB(rdb),
		noticeboard.WithConfig(cfg),
	)
	if err != nil {
		logger.Errorf("初始化失败: %v", err)
		os.Exit(1)
	}
	defer engine.Close()

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           engine.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infof("Notice Board 启动在 %s", cfg.Server.Addr)
		logger.Infof("Swagger UI: http://localhost%s/swagger/index.html", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("服务器启动失败: %v", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("shutdown: %v", err)
	}
}
