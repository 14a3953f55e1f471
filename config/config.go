// Package config 读取服务配置：YAML 文件 + .env + NB_* 环境变量覆盖。
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// Config 服务配置
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Auth     AuthConfig     `yaml:"auth"`
	Log      LogConfig      `yaml:"log"`
	Jobs     JobsConfig     `yaml:"jobs"`
}

type ServerConfig struct {
	Addr         string   `yaml:"addr"`
	Debug        bool     `yaml:"debug"`
	AllowOrigins []string `yaml:"allow_origins"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"` // mysql / postgres / sqlite
	DSN    string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"` // 为空则不使用 redis
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type AuthConfig struct {
	SessionTTL       time.Duration `yaml:"session_ttl"`
	AllowAdminSignup bool          `yaml:"allow_admin_signup"`
	LoginRateLimit   int           `yaml:"login_rate_limit"` // 每窗口每 IP 最大尝试次数，0 关闭
	LoginRateWindow  time.Duration `yaml:"login_rate_window"`

	// 启动时若不存在则创建的管理员
	BootstrapAdmin BootstrapAdmin `yaml:"bootstrap_admin"`
}

type BootstrapAdmin struct {
	Email    string `yaml:"email"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	FullName string `yaml:"full_name"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Path  string `yaml:"path"`
}

type JobsConfig struct {
	SessionSweep     string `yaml:"session_sweep"`     // cron 表达式
	CounterReconcile string `yaml:"counter_reconcile"` // cron 表达式
}

// Default 默认配置
func Default() *Config {
	return &Config{
		Server:   ServerConfig{Addr: ":8080"},
		Database: DatabaseConfig{Driver: "sqlite", DSN: "noticeboard.db"},
		Auth: AuthConfig{
			SessionTTL:      7 * 24 * time.Hour,
			LoginRateLimit:  10,
			LoginRateWindow: time.Minute,
		},
		Log: LogConfig{Level: "info"},
		Jobs: JobsConfig{
			SessionSweep:     "@every 1h",
			CounterReconcile: "0 3 * * *",
		},
	}
}

// Load 加载配置。path 为空或文件不存在时只使用默认值 + 环境变量。
func Load(path string) (*Config, error) {
	// .env 可选
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()
	if path != "" {
		file, err := os.Open(path)
		switch {
		case err == nil:
			defer file.Close()
			if err := yaml.NewDecoder(file).Decode(cfg); err != nil {
				return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("failed to open config file %s: %w", path, err)
		}
	}

	applyEnv(cfg)
	cfg.fillDefaults()
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("NB_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("NB_DEBUG"); v != "" {
		cfg.Server.Debug = v == "true" || v == "1"
	}
	if v := os.Getenv("NB_ALLOW_ORIGINS"); v != "" {
		cfg.Server.AllowOrigins = strings.Split(v, ",")
	}
	if v := os.Getenv("NB_DB_DRIVER"); v != "" {
		cfg.Database.Driver = v
	}
	if v := os.Getenv("NB_DB_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("NB_REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("NB_REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("NB_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("NB_ALLOW_ADMIN_SIGNUP"); v != "" {
		cfg.Auth.AllowAdminSignup, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("NB_ADMIN_EMAIL"); v != "" {
		cfg.Auth.BootstrapAdmin.Email = v
	}
	if v := os.Getenv("NB_ADMIN_PASSWORD"); v != "" {
		cfg.Auth.BootstrapAdmin.Password = v
	}
}

func (c *Config) fillDefaults() {
	d := Default()
	if c.Server.Addr == "" {
		c.Server.Addr = d.Server.Addr
	}
	if c.Database.Driver == "" {
		c.Database.Driver = d.Database.Driver
	}
	if c.Auth.SessionTTL <= 0 {
		c.Auth.SessionTTL = d.Auth.SessionTTL
	}
	if c.Auth.LoginRateWindow <= 0 {
		c.Auth.LoginRateWindow = d.Auth.LoginRateWindow
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Auth.BootstrapAdmin.Email != "" {
		if c.Auth.BootstrapAdmin.Username == "" {
			c.Auth.BootstrapAdmin.Username = "admin"
		}
		if c.Auth.BootstrapAdmin.FullName == "" {
			c.Auth.BootstrapAdmin.FullName = "Administrator"
		}
	}
}
