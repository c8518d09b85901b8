// Package domain 定义领域模型和接口
package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	// ErrNoteNotFound 笔记不存在或已过期
	ErrNoteNotFound = errors.New("note not found")
	// ErrSlugConflict 插入时地址唯一索引冲突
	ErrSlugConflict = errors.New("slug already taken")
	// ErrVersionConflict 乐观锁版本不匹配
	ErrVersionConflict = errors.New("note version conflict")
	// ErrInvalidUpdate NoteUpdate 校验失败
	ErrInvalidUpdate = errors.New("invalid note update")
)

// Note 笔记领域模型
type Note struct {
	ID               int64
	Slug             string
	Title            string
	Content          string
	CredentialDigest string
	ExpiresAt        *time.Time
	Version          int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
	// History 仅在 GetBySlugWithHistory 时加载，旧的在前
	History []Revision
}

// Revision is one immutable snapshot of a note's content.
// Revision 历史版本
type Revision struct {
	Content   string
	Timestamp time.Time
}

// IsProtected 是否设置了访问密码
func (n *Note) IsProtected() bool {
	return n.CredentialDigest != ""
}

// IsExpired reports whether the note is past its expiry at now.
// A note expiring exactly at now is already expired.
// IsExpired 判断笔记在 now 时刻是否已过期
func (n *Note) IsExpired(now time.Time) bool {
	return n.ExpiresAt != nil && !now.Before(*n.ExpiresAt)
}

// ExpiresAtDirective is the tri-state expiry instruction of an update:
// untouched, cleared, or set to Value.
// ExpiresAtDirective 过期时间更新指令：不变 / 清除 / 设置
type ExpiresAtDirective struct {
	Set   bool
	Clear bool
	Value time.Time
}

// NoteUpdate is the only shape of write the repository accepts.
// Fields left nil are not touched.
// NoteUpdate 笔记更新请求
type NoteUpdate struct {
	Title            string
	Content          string
	UpdatedAt        time.Time
	CredentialDigest *string
	ExpiresAt        ExpiresAtDirective
	// AppendRevision 非空时在同一事务中追加历史
	AppendRevision *Revision
	// ExpectedVersion 大于 0 时作为乐观锁条件
	ExpectedVersion int64
}

// Validate 校验更新请求
func (u *NoteUpdate) Validate() error {
	switch {
	case strings.TrimSpace(u.Title) == "":
		return errors.Join(ErrInvalidUpdate, errors.New("title is empty"))
	case strings.TrimSpace(u.Content) == "":
		return errors.Join(ErrInvalidUpdate, errors.New("content is empty"))
	case u.UpdatedAt.IsZero():
		return errors.Join(ErrInvalidUpdate, errors.New("updatedAt is zero"))
	case u.ExpiresAt.Set && u.ExpiresAt.Clear:
		return errors.Join(ErrInvalidUpdate, errors.New("expiresAt both set and cleared"))
	case u.ExpiresAt.Set && u.ExpiresAt.Value.IsZero():
		return errors.Join(ErrInvalidUpdate, errors.New("expiresAt value is zero"))
	case u.AppendRevision != nil && u.AppendRevision.Content != u.Content:
		return errors.Join(ErrInvalidUpdate, errors.New("appended revision differs from content"))
	case u.ExpectedVersion < 0:
		return errors.Join(ErrInvalidUpdate, errors.New("expectedVersion is negative"))
	}
	return nil
}
