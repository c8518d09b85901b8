package model

import "github.com/haierkeys/microdoc-service/pkg/timex"

// NoteRevision 笔记历史表，按 id 升序即时间顺序
type NoteRevision struct {
	ID        int64      `gorm:"column:id;primaryKey" json:"id" form:"id"`
	NoteID    int64      `gorm:"column:note_id;not null;index:idx_note_revision_note" json:"noteId" form:"noteId"`
	Content   string     `gorm:"column:content;not null" json:"content" form:"content"`
	CreatedAt timex.Time `gorm:"column:created_at;autoCreateTime:false" json:"createdAt" form:"createdAt"`
}
