package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadYAMLAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  addr: ":9000"
database:
  driver: mysql
  dsn: "root:pw@tcp(127.0.0.1:3306)/nb?parseTime=true"
auth:
  session_ttl: 48h
  allow_admin_signup: true
  bootstrap_admin:
    email: admin@school.edu
    password: secret123
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("NB_DB_DRIVER", "postgres")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 48*time.Hour, cfg.Auth.SessionTTL)
	assert.True(t, cfg.Auth.AllowAdminSignup)
	assert.Equal(t, "admin", cfg.Auth.BootstrapAdmin.Username)
	assert.Equal(t, time.Minute, cfg.Auth.LoginRateWindow)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.SessionTTL)
	assert.False(t, cfg.Auth.AllowAdminSignup)
}
