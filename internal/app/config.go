// Package app 提供应用容器，封装所有依赖和服务
package app

import (
	"os"
	"path/filepath"
	"time"

	"github.com/haierkeys/microdoc-service/internal/dao"
	pkgapp "github.com/haierkeys/microdoc-service/pkg/app"
	"github.com/haierkeys/microdoc-service/pkg/limiter"
	"github.com/haierkeys/microdoc-service/pkg/logger"
	"github.com/haierkeys/microdoc-service/pkg/writequeue"

	"github.com/creasty/defaults"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// AppConfig 应用配置
type AppConfig struct {
	File      string          `yaml:"-"` // 配置文件路径，不序列化
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	Database  DatabaseConfig  `yaml:"database"`
	App       AppSettings     `yaml:"app"`
	Security  SecurityConfig  `yaml:"security"`
	RateLimit RateLimitConfig `yaml:"rate-limit"`
	Tracer    TracerConfig    `yaml:"tracer"`
}

// LogConfig 日志配置
type LogConfig struct {
	// Level 日志级别，参见 zapcore.ParseLevel
	Level string `yaml:"level" default:"warn"`
	// File 日志文件路径，默认为 stderr
	File string `yaml:"file" default:"storage/logs/log.log"`
	// Production 是否启用 JSON 输出
	Production bool `yaml:"production" default:"true"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	// RunMode 运行模式
	RunMode string `yaml:"run-mode" default:"release"`
	// HttpPort HTTP 端口
	HttpPort string `yaml:"http-port" default:":9000"`
	// ReadTimeout 读取超时（秒）
	ReadTimeout int `yaml:"read-timeout" default:"60"`
	// WriteTimeout 写入超时（秒）
	WriteTimeout int `yaml:"write-timeout" default:"60"`
	// PrivateHttpListen 私有 HTTP 监听地址（metrics / pprof），为空则不启动
	PrivateHttpListen string `yaml:"private-http-listen" default:"127.0.0.1:9001"`
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	// NoteToken 笔记解锁令牌配置
	NoteToken NoteTokenConfig `yaml:"note-token"`
}

// NoteTokenConfig 笔记解锁令牌配置
type NoteTokenConfig struct {
	SecretKey   string        `yaml:"secret-key" default:"microdoc-note-token"`
	Expiry      time.Duration `yaml:"expiry" default:"24h"`
	Issuer      string        `yaml:"issuer" default:"microdoc-service"`
	BindMachine bool          `yaml:"bind-machine"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	// Type 数据库类型 sqlite | mysql | postgres
	Type string `yaml:"type" default:"sqlite"`
	// Path SQLite 数据库文件路径，":memory:" 表示内存数据库
	Path string `yaml:"path" default:"storage/database/microdoc.sqlite3"`
	// UserName 用户名
	UserName string `yaml:"username"`
	// Password 密码
	Password string `yaml:"password"`
	// Host 主机
	Host string `yaml:"host"`
	// Port 端口，仅 postgres 使用
	Port int `yaml:"port" default:"5432"`
	// Name 数据库名
	Name string `yaml:"name"`
	// TablePrefix 表前缀
	TablePrefix string `yaml:"table-prefix" default:"md_"`
	// AutoMigrate 是否启用自动迁移
	AutoMigrate bool `yaml:"auto-migrate" default:"true"`
	// Charset 字符集
	Charset string `yaml:"charset" default:"utf8mb4"`
	// SSLMode postgres sslmode
	SSLMode string `yaml:"ssl-mode" default:"disable"`
	// MaxIdleConns 最大闲置连接数，默认 10
	MaxIdleConns int `yaml:"max-idle-conns" default:"10"`
	// MaxOpenConns 最大打开连接数，默认 100
	MaxOpenConns int `yaml:"max-open-conns" default:"100"`
	// ConnMaxLifetime 连接最大生命周期
	ConnMaxLifetime time.Duration `yaml:"conn-max-lifetime" default:"30m"`
	// ConnMaxIdleTime 空闲连接最大生命周期
	ConnMaxIdleTime time.Duration `yaml:"conn-max-idle-time" default:"10m"`
	// EnableTrace 是否启用 SQL 链路追踪插件
	EnableTrace bool `yaml:"enable-trace" default:"false"`
	// Debug 是否输出 SQL 日志
	Debug bool `yaml:"debug" default:"false"`
}

// AppSettings 应用设置
type AppSettings struct {
	// DefaultLang 默认响应语言 en | zh-cn
	DefaultLang string `yaml:"default-lang" default:"en"`
	// DefaultContextTimeout 默认上下文超时时间（秒）
	DefaultContextTimeout int `yaml:"default-context-timeout" default:"60"`

	// SlugMaxLength 自定义地址最大长度
	SlugMaxLength int `yaml:"slug-max-length" default:"50"`
	// SlugAttempts 基础地址加后缀的尝试次数（含首次）
	SlugAttempts int `yaml:"slug-attempts" default:"5"`
	// SlugFallbackMaxAttempts 随机地址回退的尝试上限，0 表示不限制
	SlugFallbackMaxAttempts int `yaml:"slug-fallback-max-attempts" default:"0"`

	// PasswordCost bcrypt 成本
	PasswordCost int `yaml:"password-cost" default:"10"`
	// MaxContentSize 内容最大字节数，支持 B / KB / MB 后缀
	MaxContentSize string `yaml:"max-content-size" default:"1MB"`
	// OffensiveWords 额外的敏感词
	OffensiveWords []string `yaml:"offensive-words"`
	// OffensiveAllowWords 不视为敏感的词
	OffensiveAllowWords []string `yaml:"offensive-allow-words"`

	// PurgeExpiredAfter 过期笔记保留时长，超过后由后台任务物理删除，0 表示不清理
	PurgeExpiredAfter time.Duration `yaml:"purge-expired-after" default:"0s"`
	// PurgeSchedule 清理任务的 cron 表达式
	PurgeSchedule string `yaml:"purge-schedule" default:"@every 1h"`
	// LimiterSweepInterval 限流闲置键清理间隔
	LimiterSweepInterval time.Duration `yaml:"limiter-sweep-interval" default:"1m"`

	// Write Queue 配置
	WriteQueueCapacity int           `yaml:"write-queue-capacity" default:"100"`
	WriteQueueTimeout  time.Duration `yaml:"write-queue-timeout" default:"30s"`
}

// RateLimitConfig 限流配置
type RateLimitConfig struct {
	// Client 按客户端地址限流
	Client limiter.Config `yaml:"client"`
	// Route 写接口路由令牌桶
	Route RouteBucketConfig `yaml:"route"`
}

// RouteBucketConfig 路由令牌桶配置
type RouteBucketConfig struct {
	Enabled      bool          `yaml:"enabled"`
	FillInterval time.Duration `yaml:"fill-interval" default:"1s"`
	Capacity     int64         `yaml:"capacity" default:"20"`
	Quantum      int64         `yaml:"quantum" default:"10"`
}

// TracerConfig 请求追踪配置
type TracerConfig struct {
	// Enabled 是否启用追踪
	Enabled bool `yaml:"enabled" default:"true"`
	// Header 追踪 ID 请求头名称，默认 X-Trace-ID
	Header string `yaml:"header" default:"X-Trace-ID"`
}

// LoadConfig 从文件加载配置
// 返回配置实例和配置文件的绝对路径
func LoadConfig(f string) (*AppConfig, string, error) {
	realpath, err := filepath.Abs(f)
	if err != nil {
		return nil, "", err
	}
	realpath = filepath.Clean(realpath)

	c := new(AppConfig)
	c.File = realpath

	// 设置默认值
	if err := defaults.Set(c); err != nil {
		return nil, realpath, errors.Wrap(err, "set default config failed")
	}

	file, err := os.ReadFile(realpath)
	if err != nil {
		return nil, realpath, errors.Wrap(err, "read config file failed")
	}

	err = yaml.Unmarshal(file, c)
	if err != nil {
		return nil, realpath, errors.Wrap(err, "parse config file failed")
	}

	// 再次设置默认值，以填充 YAML 中存在但值为空的字段
	// defaults.Set 只有在字段为该类型的零值时才会填充
	if err := defaults.Set(c); err != nil {
		return nil, realpath, errors.Wrap(err, "re-set default config failed")
	}

	return c, realpath, nil
}

// GetLoggerConfig 获取日志配置
func (c *AppConfig) GetLoggerConfig() logger.Config {
	return logger.Config{
		Level:      c.Log.Level,
		File:       c.Log.File,
		Production: c.Log.Production,
	}
}

// GetDatabaseConfig 转换为 DAO 层数据库配置
func (c *AppConfig) GetDatabaseConfig() dao.DatabaseConfig {
	d := c.Database
	return dao.DatabaseConfig{
		Type:            d.Type,
		Path:            d.Path,
		UserName:        d.UserName,
		Password:        d.Password,
		Host:            d.Host,
		Port:            d.Port,
		Name:            d.Name,
		TablePrefix:     d.TablePrefix,
		AutoMigrate:     d.AutoMigrate,
		Charset:         d.Charset,
		SSLMode:         d.SSLMode,
		MaxIdleConns:    d.MaxIdleConns,
		MaxOpenConns:    d.MaxOpenConns,
		ConnMaxLifetime: d.ConnMaxLifetime,
		ConnMaxIdleTime: d.ConnMaxIdleTime,
		EnableTrace:     d.EnableTrace,
		Debug:           d.Debug || c.Server.RunMode == "debug",
	}
}

// GetWriteQueueConfig 获取 Write Queue 配置
func (c *AppConfig) GetWriteQueueConfig() writequeue.Config {
	cfg := writequeue.DefaultConfig()

	if c.App.WriteQueueCapacity > 0 {
		cfg.QueueCapacity = c.App.WriteQueueCapacity
	}
	if c.App.WriteQueueTimeout > 0 {
		cfg.WriteTimeout = c.App.WriteQueueTimeout
	}

	return cfg
}

// GetTokenConfig 获取笔记解锁令牌配置
func (c *AppConfig) GetTokenConfig() pkgapp.TokenConfig {
	return pkgapp.TokenConfig{
		SecretKey:   c.Security.NoteToken.SecretKey,
		Expiry:      c.Security.NoteToken.Expiry,
		Issuer:      c.Security.NoteToken.Issuer,
		BindMachine: c.Security.NoteToken.BindMachine,
	}
}

// IsSQLite 是否为 SQLite 部署
func (c *AppConfig) IsSQLite() bool {
	return c.Database.Type == "" || c.Database.Type == "sqlite"
}
