// Package service implements the business logic layer
// Package service 实现业务逻辑层
package service

import "time"

// ServiceConfig service layer configuration
// ServiceConfig 服务层配置
type ServiceConfig struct {
	Slug    SlugServiceConfig // Slug allocation config // 地址分配配置
	Note    NoteServiceConfig // Note lifecycle config // 笔记相关配置
	Cleanup CleanupConfig     // Expired note purge config // 过期笔记清理配置
}

// SlugServiceConfig slug allocation configuration
// SlugServiceConfig 地址分配配置
type SlugServiceConfig struct {
	MaxLength           int // Normalized base max length // 规范化后的最大长度
	Attempts            int // Base + suffixed attempts // 基础地址与加后缀的尝试次数
	FallbackMaxAttempts int // Random fallback cap, 0 = unbounded // 随机回退上限，0 表示不限制
}

// NoteServiceConfig note service configuration
// NoteServiceConfig 笔记服务配置
type NoteServiceConfig struct {
	PasswordCost   int           // bcrypt cost // bcrypt 成本
	MaxContentSize int64         // Max content bytes, 0 = unlimited // 内容最大字节数
	OffensiveWords []string      // Extra offensive words // 额外敏感词
	AllowWords     []string      // Words never reported as offensive // 敏感词白名单
	ReadTimeout    time.Duration // Deadline of a coalesced read // 合并读取的超时时间
}

// CleanupConfig expired note purge configuration
// CleanupConfig 过期笔记清理配置
type CleanupConfig struct {
	PurgeExpiredAfter time.Duration // Retention after expiry, 0 = never purge // 过期后保留时长
	Schedule          string        // Cron expression // cron 表达式
}

const (
	defaultSlugMaxLength = 50
	defaultSlugAttempts  = 5
	defaultReadTimeout   = 10 * time.Second
)

func (c *ServiceConfig) withDefaults() *ServiceConfig {
	out := ServiceConfig{}
	if c != nil {
		out = *c
	}
	if out.Slug.MaxLength <= 0 {
		out.Slug.MaxLength = defaultSlugMaxLength
	}
	if out.Slug.Attempts <= 0 {
		out.Slug.Attempts = defaultSlugAttempts
	}
	if out.Note.ReadTimeout <= 0 {
		out.Note.ReadTimeout = defaultReadTimeout
	}
	return &out
}
