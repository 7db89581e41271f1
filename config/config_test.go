package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeErrorMessage(t *testing.T) {
	fallback := "操作失败"
	testErr := errors.New("internal database error")

	// nil err 返回 fallback
	assert.Equal(t, fallback, SafeErrorMessage(nil, fallback))

	// release 模式返回 fallback，不暴露错误详情
	GlobalConfig = &Config{Server: ServerConfig{Mode: "release"}}
	defer func() { GlobalConfig = nil }()
	assert.Equal(t, fallback, SafeErrorMessage(testErr, fallback))

	// debug 模式返回 err.Error()
	GlobalConfig = &Config{Server: ServerConfig{Mode: "debug"}}
	assert.Equal(t, "internal database error", SafeErrorMessage(testErr, fallback))

	// GlobalConfig 为 nil 时返回 err.Error()（视为开发环境）
	GlobalConfig = nil
	assert.Equal(t, "internal database error", SafeErrorMessage(testErr, fallback))
}

func TestLoadConfig_Defaults(t *testing.T) {
	defer func() { GlobalConfig = nil }()
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "purchases.db", cfg.Database.Path)
	assert.Equal(t, 72*time.Hour, cfg.JWT.ExpireTime)
	assert.False(t, cfg.Email.Enabled)
	assert.Same(t, cfg, GetConfig())
}

func TestLoadConfig_ExternalFileAndEnv(t *testing.T) {
	defer func() { GlobalConfig = nil }()

	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	content := "server:\n  mode: release\njwt:\n  expire_hours: 0\ndatabase:\n  path: /tmp/other.db\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("PURCHASES_DATABASE_DRIVER", "mysql")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, "/tmp/other.db", cfg.Database.Path)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	// expire_hours <= 0 回退为 24 小时
	assert.Equal(t, 24*time.Hour, cfg.JWT.ExpireTime)
}

func TestGetConfig_PanicsWhenUninitialized(t *testing.T) {
	GlobalConfig = nil
	assert.Panics(t, func() { GetConfig() })
}

func TestMustLoadConfig_MissingExternalFile(t *testing.T) {
	defer func() { GlobalConfig = nil }()

	// 外部配置文件不存在时仅告警，仍使用内置配置
	var cfg *Config
	assert.NotPanics(t, func() { cfg = MustLoadConfig(filepath.Join(t.TempDir(), "missing.yaml")) })
	require.NotNil(t, cfg)
	assert.Equal(t, ":8080", cfg.Server.Port)
}
