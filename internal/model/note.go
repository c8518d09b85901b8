package model

import "github.com/haierkeys/microdoc-service/pkg/timex"

// Note 笔记表，表名由命名策略加前缀生成
type Note struct {
	ID               int64       `gorm:"column:id;primaryKey" json:"id" form:"id"`
	Slug             string      `gorm:"column:slug;size:64;not null;uniqueIndex:idx_note_slug" json:"slug" form:"slug"`
	Title            string      `gorm:"column:title;size:255;not null" json:"title" form:"title"`
	Content          string      `gorm:"column:content;not null" json:"content" form:"content"`
	CredentialDigest string      `gorm:"column:credential_digest;size:255;not null;default:''" json:"-" form:"-"`
	ExpiresAt        *timex.Time `gorm:"column:expires_at;index:idx_note_expires_at" json:"expiresAt" form:"expiresAt"`
	Version          int64       `gorm:"column:version;not null;default:1" json:"version" form:"version"`
	CreatedAt        timex.Time  `gorm:"column:created_at;autoCreateTime:false" json:"createdAt" form:"createdAt"`
	UpdatedAt        timex.Time  `gorm:"column:updated_at;autoUpdateTime:false" json:"updatedAt" form:"updatedAt"`
}
