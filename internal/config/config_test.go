package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoadConfigFromFile 验证YAML配置文件能被正确加载
func TestLoadConfigFromFile(t *testing.T) {
	yamlContent := `
mysql:
  host: "db.internal"
  port: 3307
  username: "parser"
  password: "secret"
  database: "interviewees"
redis:
  address: "cache.internal:6379"
  md5_record_expire_days: 30
app:
  resume_folder: "/data/resumes"
  workers: 8
logger:
  level: "debug"
`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(yamlContent), 0644), "无法写入临时配置文件")

	config, err := LoadConfig(configPath)
	require.NoError(t, err, "加载合法配置不应返回错误")
	require.NotNil(t, config)

	assert.Equal(t, "db.internal", config.MySQL.Host)
	assert.Equal(t, 3307, config.MySQL.Port)
	assert.Equal(t, "interviewees", config.MySQL.Database)
	assert.Equal(t, "cache.internal:6379", config.Redis.Address)
	assert.Equal(t, 30, config.Redis.MD5RecordExpireDays)
	assert.Equal(t, "/data/resumes", config.App.ResumeFolder)
	assert.Equal(t, 8, config.App.Workers)
	assert.Equal(t, "debug", config.Logger.Level)
}

// TestLoadConfigAppliesDefaults 缺失字段应被默认值填充
func TestLoadConfigAppliesDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("mysql:\n  host: \"localhost\"\n"), 0644))

	config, err := LoadConfig(configPath)
	require.NoError(t, err)

	assert.Equal(t, "resumes", config.App.ResumeFolder)
	assert.Equal(t, 4, config.App.Workers)
	assert.Equal(t, "1.0", config.ActiveExtractorVersion)
	assert.Equal(t, "candidate.events.exchange", config.RabbitMQ.CandidateExchange)
	assert.Equal(t, "candidate.parsed", config.RabbitMQ.CandidateParsedKey)
	assert.Equal(t, 5, config.RabbitMQ.PublishTimeoutSeconds, "发布确认超时应有默认值")
	assert.Equal(t, "info", config.Logger.Level)
}

// TestLoadConfigEnvOverrides 环境变量覆盖数据库与应用配置
func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("DB_HOST", "override-host")
	t.Setenv("DB_USER", "override-user")
	t.Setenv("DB_PASSWORD", "override-pass")
	t.Setenv("DB_NAME", "override-db")
	t.Setenv("DB_PORT", "13306")
	t.Setenv("RESUME_FOLDER", "/tmp/override-resumes")
	t.Setenv("LOG_LEVEL", "DEBUG")

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("mysql:\n  host: \"localhost\"\n  port: 3306\n"), 0644))

	config, err := LoadConfig(configPath)
	require.NoError(t, err)

	assert.Equal(t, "override-host", config.MySQL.Host)
	assert.Equal(t, "override-user", config.MySQL.Username)
	assert.Equal(t, "override-pass", config.MySQL.Password)
	assert.Equal(t, "override-db", config.MySQL.Database)
	assert.Equal(t, 13306, config.MySQL.Port)
	assert.Equal(t, "/tmp/override-resumes", config.App.ResumeFolder)
	assert.Equal(t, "debug", config.Logger.Level, "日志级别应被小写化")
}

// TestLoadConfigInvalidPort 非法的DB_PORT环境变量应被忽略
func TestLoadConfigInvalidPort(t *testing.T) {
	t.Setenv("DB_PORT", "not-a-number")

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("mysql:\n  port: 3306\n"), 0644))

	config, err := LoadConfig(configPath)
	require.NoError(t, err)
	assert.Equal(t, 3306, config.MySQL.Port, "解析失败的端口应保留原值")
}

// TestLoadConfigMissingFileInTestEnv 测试环境下找不到配置文件时返回默认配置
func TestLoadConfigMissingFileInTestEnv(t *testing.T) {
	config, err := LoadConfig(filepath.Join(t.TempDir(), "definitely-missing.yaml"))

	require.NoError(t, err, "测试环境下缺失配置文件不应报错")
	require.NotNil(t, config)
	assert.Equal(t, "localhost", config.MySQL.Host)
	assert.Equal(t, "interviewees", config.MySQL.Database)
	assert.Equal(t, 4, config.App.Workers)
}

// TestInTestEnvDetection 测试环境判断只认go test注入的特征
// 生产二进制的参数里碰巧含有"test"字样不应触发默认配置兜底
func TestInTestEnvDetection(t *testing.T) {
	savedArgs := os.Args
	defer func() { os.Args = savedArgs }()

	os.Args = []string{"resumeparser", "--dir", "./test-resumes"}
	assert.False(t, inTestEnv(), "普通参数含test字样不应判定为测试环境")

	os.Args = []string{"/usr/local/bin/resumeparser", "-c", "testing.yaml"}
	assert.False(t, inTestEnv())

	os.Args = []string{"config.test", "-test.v"}
	assert.True(t, inTestEnv(), "测试二进制名与-test.参数应判定为测试环境")

	os.Args = []string{"resumeparser", "-test.run", "TestFoo"}
	assert.True(t, inTestEnv())
}

// TestLoadConfigProductionMissingFile 非测试环境下配置文件缺失应直接报错
func TestLoadConfigProductionMissingFile(t *testing.T) {
	savedArgs := os.Args
	defer func() { os.Args = savedArgs }()
	os.Args = []string{"resumeparser", "--dir", "./test-resumes"}

	_, err := LoadConfig(filepath.Join(t.TempDir(), "definitely-missing.yaml"))
	require.Error(t, err, "生产环境缺失配置文件必须报错而非静默使用默认值")
	assert.Contains(t, err.Error(), "配置文件不存在")
}

// TestLoadConfigInvalidYAML 语法错误的YAML应返回错误
func TestLoadConfigInvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("mysql: [unclosed\n  host"), 0644))

	_, err := LoadConfig(configPath)
	assert.Error(t, err)
}

func TestCreateSampleConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "sample.yaml")

	require.NoError(t, CreateSampleConfig(configPath))

	// 生成的示例配置应能被重新加载
	config, err := LoadConfig(configPath)
	require.NoError(t, err)
	assert.Equal(t, "localhost", config.MySQL.Host)
	assert.Equal(t, "resume-originals", config.MinIO.OriginalsBucket)

	// 已存在的文件不会被覆盖
	assert.Error(t, CreateSampleConfig(configPath))
}

func TestGetDuration(t *testing.T) {
	assert.Equal(t, 5*time.Second, GetDuration("5s", time.Minute))
	assert.Equal(t, time.Minute, GetDuration("", time.Minute), "空字符串返回默认值")
	assert.Equal(t, time.Minute, GetDuration("garbage", time.Minute), "解析失败返回默认值")
}
