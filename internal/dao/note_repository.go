// Package dao 实现数据访问层
package dao

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/haierkeys/microdoc-service/internal/domain"
	"github.com/haierkeys/microdoc-service/internal/model"
	"github.com/haierkeys/microdoc-service/pkg/timex"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// noteRepository 实现 domain.NoteRepository 接口
type noteRepository struct {
	dao *Dao
}

// NewNoteRepository 创建 NoteRepository 实例
func NewNoteRepository(dao *Dao) domain.NoteRepository {
	return &noteRepository{dao: dao}
}

// toDomain 将 DAO Note 转换为领域模型
func (r *noteRepository) toDomain(m *model.Note) *domain.Note {
	if m == nil {
		return nil
	}
	note := &domain.Note{
		ID:               m.ID,
		Slug:             m.Slug,
		Title:            m.Title,
		Content:          m.Content,
		CredentialDigest: m.CredentialDigest,
		Version:          m.Version,
		CreatedAt:        m.CreatedAt.Std(),
		UpdatedAt:        m.UpdatedAt.Std(),
	}
	if m.ExpiresAt != nil && !m.ExpiresAt.IsZero() {
		t := m.ExpiresAt.Std()
		note.ExpiresAt = &t
	}
	return note
}

// toModel 将领域模型转换为数据库模型
func (r *noteRepository) toModel(note *domain.Note) *model.Note {
	if note == nil {
		return nil
	}
	return &model.Note{
		ID:               note.ID,
		Slug:             note.Slug,
		Title:            note.Title,
		Content:          note.Content,
		CredentialDigest: note.CredentialDigest,
		ExpiresAt:        timex.Ptr(note.ExpiresAt),
		Version:          note.Version,
		CreatedAt:        timex.Time(note.CreatedAt),
		UpdatedAt:        timex.Time(note.UpdatedAt),
	}
}

func (r *noteRepository) take(ctx context.Context, slug string) (*model.Note, error) {
	var m model.Note
	err := r.dao.DB(ctx).Where("slug = ?", slug).Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNoteNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// GetBySlug 根据地址获取笔记
func (r *noteRepository) GetBySlug(ctx context.Context, slug string) (*domain.Note, error) {
	m, err := r.take(ctx, slug)
	if err != nil {
		return nil, err
	}
	return r.toDomain(m), nil
}

// GetBySlugWithHistory 根据地址获取笔记及其历史
func (r *noteRepository) GetBySlugWithHistory(ctx context.Context, slug string) (*domain.Note, error) {
	m, err := r.take(ctx, slug)
	if err != nil {
		return nil, err
	}

	var revisions []model.NoteRevision
	if err := r.dao.DB(ctx).Where("note_id = ?", m.ID).Order("id ASC").Find(&revisions).Error; err != nil {
		return nil, err
	}

	note := r.toDomain(m)
	note.History = make([]domain.Revision, 0, len(revisions))
	for _, rev := range revisions {
		note.History = append(note.History, domain.Revision{
			Content:   rev.Content,
			Timestamp: rev.CreatedAt.Std(),
		})
	}
	return note, nil
}

// ExistsSlug 地址是否已被占用
func (r *noteRepository) ExistsSlug(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.dao.DB(ctx).Model(&model.Note{}).Where("slug = ?", slug).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Insert 创建笔记并写入初始历史
func (r *noteRepository) Insert(ctx context.Context, note *domain.Note) (*domain.Note, error) {
	m := r.toModel(note)
	if m.Version == 0 {
		m.Version = 1
	}

	err := r.dao.ExecuteWrite(ctx, func() error {
		return r.dao.DB(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(m).Error; err != nil {
				return err
			}
			for _, rev := range note.History {
				row := &model.NoteRevision{
					NoteID:    m.ID,
					Content:   rev.Content,
					CreatedAt: timex.Time(rev.Timestamp),
				}
				if err := tx.Create(row).Error; err != nil {
					return err
				}
			}
			return nil
		})
	})
	if err != nil {
		if isDuplicateKey(err) {
			return nil, domain.ErrSlugConflict
		}
		return nil, err
	}

	created := r.toDomain(m)
	created.History = append([]domain.Revision(nil), note.History...)
	return created, nil
}

// UpdateBySlug 在一个事务中更新字段并追加历史
func (r *noteRepository) UpdateBySlug(ctx context.Context, slug string, update *domain.NoteUpdate) (matched, modified int64, err error) {
	if err := update.Validate(); err != nil {
		return 0, 0, err
	}

	now := timex.Time(update.UpdatedAt)

	err = r.dao.ExecuteWrite(ctx, func() error {
		return r.dao.DB(ctx).Transaction(func(tx *gorm.DB) error {
			var m model.Note
			res := tx.Where("slug = ?", slug).
				Where("expires_at IS NULL OR expires_at > ?", now).
				Limit(1).Find(&m)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return nil
			}
			matched = 1

			if update.ExpectedVersion > 0 && m.Version != update.ExpectedVersion {
				return domain.ErrVersionConflict
			}

			fields := map[string]interface{}{
				"title":      update.Title,
				"content":    update.Content,
				"updated_at": now,
				"version":    gorm.Expr("version + ?", 1),
			}
			if update.CredentialDigest != nil {
				fields["credential_digest"] = *update.CredentialDigest
			}
			switch {
			case update.ExpiresAt.Clear:
				fields["expires_at"] = nil
			case update.ExpiresAt.Set:
				fields["expires_at"] = timex.Time(update.ExpiresAt.Value)
			}

			q := tx.Model(&model.Note{}).Where("id = ?", m.ID)
			if update.ExpectedVersion > 0 {
				q = q.Where("version = ?", update.ExpectedVersion)
			}
			res = q.Updates(fields)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 && update.ExpectedVersion > 0 {
				return domain.ErrVersionConflict
			}
			modified = res.RowsAffected

			if rev := update.AppendRevision; rev != nil {
				row := &model.NoteRevision{
					NoteID:    m.ID,
					Content:   rev.Content,
					CreatedAt: timex.Time(rev.Timestamp),
				}
				if err := tx.Create(row).Error; err != nil {
					return err
				}
			}
			return nil
		})
	})
	if err != nil {
		return 0, 0, err
	}
	return matched, modified, nil
}

// PurgeExpired 物理删除在 before 之前过期的笔记及其历史
func (r *noteRepository) PurgeExpired(ctx context.Context, before time.Time) (int64, error) {
	var purged int64

	err := r.dao.ExecuteWrite(ctx, func() error {
		return r.dao.DB(ctx).Transaction(func(tx *gorm.DB) error {
			var ids []int64
			err := tx.Model(&model.Note{}).
				Where("expires_at IS NOT NULL AND expires_at < ?", timex.Time(before)).
				Pluck("id", &ids).Error
			if err != nil || len(ids) == 0 {
				return err
			}

			if err := tx.Where("note_id IN ?", ids).Delete(&model.NoteRevision{}).Error; err != nil {
				return err
			}
			res := tx.Where("id IN ?", ids).Delete(&model.Note{})
			if res.Error != nil {
				return res.Error
			}
			purged = res.RowsAffected
			return nil
		})
	})
	if err != nil {
		return 0, err
	}

	if purged > 0 {
		r.dao.logger.Info("purged expired notes", zap.Int64("count", purged), zap.Time("before", before))
	}
	return purged, nil
}

// isDuplicateKey 判断是否为唯一索引冲突
// 未实现 ErrorTranslator 的驱动按错误文本识别
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate entry") ||
		strings.Contains(msg, "duplicate key")
}
