package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644), "无法写入临时配置文件")
	return path
}

// TestLoadConfigPartialYAML 只写部分字段时其余字段保留默认值
func TestLoadConfigPartialYAML(t *testing.T) {
	path := writeConfig(t, `
server:
  address: ":9090"
upload:
  allowed_extensions: ["TXT", ".Md"]
  max_size_mb: 2
redis:
  enabled: true
  address: "redis:6379"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, []string{".txt", ".md"}, cfg.Upload.AllowedExtensions, "扩展名统一为小写并补全点号")
	assert.Equal(t, int64(2*1024*1024), cfg.Upload.MaxUploadBytes())
	assert.GreaterOrEqual(t, cfg.Server.MaxRequestBodyMB, 3)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "redis:6379", cfg.Redis.Address)
	assert.Equal(t, 10, cfg.Redis.PoolSize, "未出现的字段保留默认值")
	assert.False(t, cfg.MinIO.Enabled)
	assert.Equal(t, "info", cfg.Logger.Level)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	path := writeConfig(t, "server: [unclosed")
	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfigValidation(t *testing.T) {
	path := writeConfig(t, `
mysql:
  enabled: true
  host: ""
tracing:
  sample_ratio: 2
`)
	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mysql")
	assert.Contains(t, err.Error(), "sample_ratio")
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("RESUME_AIDS_ADDRESS", ":7070")
	t.Setenv("RESUME_AIDS_LOG_LEVEL", "debug")
	t.Setenv("RESUME_AIDS_API_KEY", "k1, k2,")

	path := writeConfig(t, "server:\n  address: \":9090\"\n")
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.Server.Address)
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, []string{"k1", "k2"}, cfg.Auth.APIKeys)
}

func TestBundledConfigLoads(t *testing.T) {
	cfg, err := LoadConfig("config.yaml")
	require.NoError(t, err, "仓库自带的配置文件应能加载")
	assert.Equal(t, 600, cfg.Server.QPM)
	assert.Equal(t, "resume.parse.events", cfg.RabbitMQ.ParseEventsExchange)
}

func TestDefaultConfigIsStandalone(t *testing.T) {
	cfg := DefaultConfig()
	assert.False(t, cfg.MinIO.Enabled)
	assert.False(t, cfg.Redis.Enabled)
	assert.False(t, cfg.RabbitMQ.Enabled)
	assert.False(t, cfg.MySQL.Enabled)
	assert.False(t, cfg.Tracing.Enabled)
	assert.NoError(t, cfg.Validate())
}

func TestIsAllowedExtension(t *testing.T) {
	u := UploadConfig{AllowedExtensions: []string{".txt", ".pdf"}}
	assert.True(t, u.IsAllowedExtension(".TXT"))
	assert.True(t, u.IsAllowedExtension(".pdf"))
	assert.False(t, u.IsAllowedExtension(".docx"))
	assert.False(t, u.IsAllowedExtension(""))
}

func TestCreateSampleConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.yaml")
	require.NoError(t, CreateSampleConfig(path))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Server.Address, cfg.Server.Address)

	assert.Error(t, CreateSampleConfig(path), "已存在的文件不会被覆盖")
}

func TestGetDuration(t *testing.T) {
	assert.Equal(t, 3*time.Second, GetDuration("3s", time.Second))
	assert.Equal(t, time.Second, GetDuration("", time.Second))
	assert.Equal(t, time.Second, GetDuration("bogus", time.Second))
}

func TestRequestBodyLimit(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 11*1024*1024, cfg.RequestBodyLimit())
	assert.Greater(t, int64(cfg.RequestBodyLimit()), cfg.Upload.MaxUploadBytes())

	// 手动构造的配置没有经过 applyDefaults 也要留出余量
	cfg.Server.MaxRequestBodyMB = 2
	cfg.Upload.MaxSizeMB = 10
	assert.Equal(t, 11*1024*1024, cfg.RequestBodyLimit())

	cfg.Server.MaxRequestBodyMB = 50
	assert.Equal(t, 50*1024*1024, cfg.RequestBodyLimit())
}
