// Package logger 全局日志门面，底层使用 zerolog。
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const permission = 0o664

var (
	mu      sync.RWMutex
	logger  = zerolog.New(os.Stderr).With().Timestamp().Logger()
	logFile *os.File
)

// Options 日志初始化参数
type Options struct {
	Level   string // debug / info / warn / error
	Console bool   // 人类可读的控制台输出（开发环境）
	Path    string // 追加写入的日志文件，可选
}

// Init 初始化全局 logger，可重复调用
func Init(opt Options) error {
	var writers []io.Writer
	if opt.Console {
		writers = append(writers, zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.DateTime})
	} else {
		writers = append(writers, os.Stderr)
	}

	var file *os.File
	if opt.Path != "" {
		f, err := os.OpenFile(opt.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, permission)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		file = f
		writers = append(writers, zerolog.SyncWriter(f))
	}

	l := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(ParseLevel(opt.Level)).
		With().Timestamp().Logger()

	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		_ = logFile.Close()
	}
	logFile = file
	logger = l
	return nil
}

// SetOutput 测试用：把日志写到指定 writer
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	logger = zerolog.New(w).With().Timestamp().Logger()
}

// ParseLevel 无法识别时返回 info
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Close 关闭日志文件
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
}

// L 返回底层 zerolog.Logger，用于带字段的结构化日志
func L() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	l := logger
	return &l
}

func Debug(args ...any) { L().Debug().Msg(fmt.Sprint(args...)) }

func Debugf(format string, args ...any) { L().Debug().Msgf(format, args...) }

func Info(args ...any) { L().Info().Msg(fmt.Sprint(args...)) }

func Infof(format string, args ...any) { L().Info().Msgf(format, args...) }

func Warning(args ...any) { L().Warn().Msg(fmt.Sprint(args...)) }

func Warningf(format string, args ...any) { L().Warn().Msgf(format, args...) }

func Error(args ...any) { L().Error().Msg(fmt.Sprint(args...)) }

func Errorf(format string, args ...any) { L().Error().Msgf(format, args...) }
