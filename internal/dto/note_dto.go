// Package dto Defines data transfer objects (request parameters and response structs)
// Package dto 定义数据传输对象（请求参数和响应结构体）
package dto

import (
	"github.com/haierkeys/microdoc-service/pkg/diff"
	"github.com/haierkeys/microdoc-service/pkg/timex"
)

// NoteCreateRequest Request parameters for creating a note
// NoteCreateRequest 创建笔记的请求参数
type NoteCreateRequest struct {
	Title      string      `json:"title" form:"title" binding:"max=255"`
	Content    string      `json:"content" form:"content"`
	CustomSlug string      `json:"customSlug" form:"customSlug" binding:"omitempty,max=200"`
	Password   string      `json:"password" form:"password" binding:"omitempty,max=72"`
	ExpiresAt  *timex.Time `json:"expiresAt" form:"-"`
}

// NoteCreateResponse 创建笔记的响应
type NoteCreateResponse struct {
	Slug string `json:"slug"`
}

// NoteUpdateRequest Request parameters for updating a note
// NoteUpdateRequest 更新笔记的请求参数
type NoteUpdateRequest struct {
	Title           string       `json:"title" form:"title" binding:"max=255"`
	Content         string       `json:"content" form:"content"`
	CurrentPassword string       `json:"currentPassword" form:"currentPassword"`
	NewPassword     string       `json:"newPassword" form:"newPassword" binding:"omitempty,max=72"`
	ExpiresAt       NullableTime `json:"expiresAt" form:"-"`
	ExpectedVersion int64        `json:"expectedVersion" form:"expectedVersion" binding:"omitempty,min=1"`
}

// NoteRestoreRequest Request parameters for restoring a revision
// NoteRestoreRequest 恢复历史版本的请求参数
type NoteRestoreRequest struct {
	Revision        *int   `json:"revision" form:"revision" binding:"required,min=0"`
	CurrentPassword string `json:"currentPassword" form:"currentPassword"`
	ExpectedVersion int64  `json:"expectedVersion" form:"expectedVersion" binding:"omitempty,min=1"`
}

// NoteUpdateResponse 更新/恢复笔记的响应
type NoteUpdateResponse struct {
	Slug             string     `json:"slug"`
	Version          int64      `json:"version"`
	UpdatedAt        timex.Time `json:"updatedAt"`
	RevisionAppended bool       `json:"revisionAppended"`
}

// NoteUnlockRequest Request parameters for exchanging a password for an unlock token
// NoteUnlockRequest 密码换取解锁令牌的请求参数
type NoteUnlockRequest struct {
	Password string `json:"password" form:"password" binding:"required"`
}

// NoteUnlockResponse 解锁令牌
type NoteUnlockResponse struct {
	Token     string     `json:"token"`
	ExpiresAt timex.Time `json:"expiresAt"`
}

// NoteView Projected note returned to readers, never carries the digest
// NoteView 笔记视图，不包含密码摘要
type NoteView struct {
	Slug        string      `json:"slug"`
	Title       string      `json:"title"`
	Content     string      `json:"content"`
	IsProtected bool        `json:"isProtected" copier:"-"`
	Version     int64       `json:"version"`
	CreatedAt   timex.Time  `json:"createdAt" copier:"-"`
	UpdatedAt   timex.Time  `json:"updatedAt" copier:"-"`
	ExpiresAt   *timex.Time `json:"expiresAt" copier:"-"`
}

// RevisionView 历史版本视图
type RevisionView struct {
	Index     int        `json:"index"`
	Content   string     `json:"content"`
	Timestamp timex.Time `json:"timestamp"`
}

// NoteHistoryView 笔记历史视图，旧的在前
type NoteHistoryView struct {
	Title       string         `json:"title"`
	IsProtected bool           `json:"isProtected"`
	History     []RevisionView `json:"history"`
}

// NoteDiffRequest Query parameters of the diff endpoint
// NoteDiffRequest 差异对比请求参数
// To = -1 (or absent) compares against the current content // To 为 -1 或缺省时与当前内容对比
type NoteDiffRequest struct {
	From *int   `json:"from" form:"from" binding:"required,min=0"`
	To   *int   `json:"to" form:"to" binding:"omitempty,min=-1"`
	Mode string `json:"mode" form:"mode" binding:"omitempty,oneof=char line"`
}

// 差异粒度
const (
	DiffModeChar = "char"
	DiffModeLine = "line"
)

// NoteDiffView 差异对比结果
type NoteDiffView struct {
	From     int            `json:"from"`
	To       int            `json:"to"`
	Mode     string         `json:"mode"`
	Segments []diff.Segment `json:"segments"`
	Stat     diff.Stat      `json:"stat"`
}
