package code

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithDetailsDoesNotMutateShared(t *testing.T) {
	c := ErrorNoteNotFound.WithDetails("slug=abc")

	assert.True(t, c.HaveDetails())
	assert.False(t, ErrorNoteNotFound.HaveDetails())
	assert.Empty(t, ErrorNoteNotFound.Details())
	assert.True(t, errors.Is(c, ErrorNoteNotFound))
	assert.False(t, errors.Is(c, ErrorRevisionNotFound))
}

func TestStatusCodesAreDistinctPerCategory(t *testing.T) {
	tests := []struct {
		name string
		c    *Code
		want int
	}{
		{"validation", ErrorNoteTitleRequired, http.StatusBadRequest},
		{"offensive", ErrorOffensiveContent, http.StatusUnprocessableEntity},
		{"not found", ErrorNoteNotFound, http.StatusNotFound},
		{"secret required", ErrorNotePasswordRequired, http.StatusUnauthorized},
		{"unauthorized", ErrorNotePasswordInvalid, http.StatusForbidden},
		{"rate limited", ErrorTooManyRequests, http.StatusTooManyRequests},
		{"persistence", ErrorDBQuery, http.StatusInternalServerError},
		{"conflict", ErrorNoteVersionConflict, http.StatusConflict},
		{"success", Success, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.c.StatusCode())
		})
	}
}

func TestMsgIn(t *testing.T) {
	assert.Equal(t, "笔记不存在", ErrorNoteNotFound.MsgIn("zh-CN"))
	assert.Equal(t, "Note not found", ErrorNoteNotFound.MsgIn("en"))
	assert.Equal(t, "Note not found", ErrorNoteNotFound.MsgIn("fr"))
}

func TestRetryAfter(t *testing.T) {
	c := ErrorTooManyRequests.WithRetryAfter(7)
	assert.Equal(t, 7, c.RetryAfter())
	assert.Equal(t, 0, ErrorTooManyRequests.RetryAfter())
}
