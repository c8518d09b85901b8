// Package domain 定义领域模型和接口
package domain

import (
	"context"
	"time"
)

// NoteRepository 笔记仓储接口
type NoteRepository interface {
	// GetBySlug 根据地址获取笔记，不加载历史；不存在返回 ErrNoteNotFound
	GetBySlug(ctx context.Context, slug string) (*Note, error)

	// GetBySlugWithHistory 根据地址获取笔记并加载全部历史
	GetBySlugWithHistory(ctx context.Context, slug string) (*Note, error)

	// ExistsSlug 地址是否已被占用（包含已过期未清理的笔记）
	ExistsSlug(ctx context.Context, slug string) (bool, error)

	// Insert 创建笔记及其初始历史；地址冲突返回 ErrSlugConflict
	Insert(ctx context.Context, note *Note) (*Note, error)

	// UpdateBySlug applies update to a live (unexpired at update.UpdatedAt) note in one transaction.
	// matched is 0 when no live note carries slug. With ExpectedVersion set, a live note at another
	// version yields ErrVersionConflict.
	// UpdateBySlug 在单个事务中更新字段并追加历史
	UpdateBySlug(ctx context.Context, slug string, update *NoteUpdate) (matched, modified int64, err error)

	// PurgeExpired 物理删除在 before 之前过期的笔记，返回删除数量
	PurgeExpired(ctx context.Context, before time.Time) (int64, error)
}
