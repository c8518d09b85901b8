package service

import (
	"time"

	"github.com/haierkeys/microdoc-service/internal/domain"
	"github.com/haierkeys/microdoc-service/pkg/code"
)

// RevisionLog owns the append-only history rules of a note.
// RevisionLog 笔记历史规则
type RevisionLog struct{}

// ShouldAppend 内容严格不同才追加历史
func (RevisionLog) ShouldAppend(prev, next string) bool {
	return prev != next
}

// Append adds a revision to note.History and returns it for the repository update.
// Append 追加历史并返回该版本
func (RevisionLog) Append(note *domain.Note, content string, ts time.Time) *domain.Revision {
	rev := domain.Revision{Content: content, Timestamp: ts}
	note.History = append(note.History, rev)
	return &rev
}

// List 返回历史副本，旧的在前
func (RevisionLog) List(note *domain.Note) []domain.Revision {
	out := make([]domain.Revision, len(note.History))
	copy(out, note.History)
	return out
}

// At 按序号取历史版本
func (RevisionLog) At(note *domain.Note, index int) (domain.Revision, error) {
	if index < 0 || index >= len(note.History) {
		return domain.Revision{}, code.ErrorRevisionNotFound
	}
	return note.History[index], nil
}
