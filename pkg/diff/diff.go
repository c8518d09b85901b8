// Package diff partitions two texts into equal / insert / delete segments for display.
package diff

import (
	"strings"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Kind 片段类型
type Kind string

const (
	Equal  Kind = "equal"
	Insert Kind = "insert"
	Delete Kind = "delete"
)

// Segment is one run of text in an edit script.
// Segment 差异片段
type Segment struct {
	Kind Kind   `json:"kind"`
	Text string `json:"text"`
}

// Stat 差异统计（按字符计）
type Stat struct {
	Inserted int `json:"inserted"`
	Deleted  int `json:"deleted"`
}

func newMatcher() *diffmatchpatch.DiffMatchPatch {
	dmp := diffmatchpatch.New()
	// 不设超时，保证相同输入得到相同输出
	dmp.DiffTimeout = 0
	return dmp
}

// Diff computes a character level edit script with semantic cleanup.
// Concatenating Equal+Delete texts yields oldText, Equal+Insert yields newText.
// Diff 计算字符级差异
func Diff(oldText, newText string) []Segment {
	return compute(oldText, newText, func(dmp *diffmatchpatch.DiffMatchPatch, a, b string) []diffmatchpatch.Diff {
		return dmp.DiffCleanupSemantic(dmp.DiffMain(a, b, false))
	})
}

// DiffLines computes a line level edit script; every segment holds whole lines.
// DiffLines 计算行级差异
func DiffLines(oldText, newText string) []Segment {
	return compute(oldText, newText, func(dmp *diffmatchpatch.DiffMatchPatch, a, b string) []diffmatchpatch.Diff {
		ca, cb, lines := dmp.DiffLinesToChars(a, b)
		return dmp.DiffCharsToLines(dmp.DiffMain(ca, cb, false), lines)
	})
}

// compute 输入含非法 UTF-8 时按字节比较：每个字节映射为 U+0000-U+00FF，结果再还原为原始字节
func compute(oldText, newText string, fn func(dmp *diffmatchpatch.DiffMatchPatch, a, b string) []diffmatchpatch.Diff) []Segment {
	dmp := newMatcher()
	if utf8.ValidString(oldText) && utf8.ValidString(newText) {
		return toSegments(fn(dmp, oldText, newText))
	}

	segments := toSegments(fn(dmp, widen(oldText), widen(newText)))
	for i := range segments {
		segments[i].Text = narrow(segments[i].Text)
	}
	return segments
}

func widen(s string) string {
	rs := make([]rune, len(s))
	for i := 0; i < len(s); i++ {
		rs[i] = rune(s[i])
	}
	return string(rs)
}

func narrow(s string) string {
	b := make([]byte, 0, len(s))
	for _, r := range s {
		b = append(b, byte(r))
	}
	return string(b)
}

func toSegments(diffs []diffmatchpatch.Diff) []Segment {
	segments := make([]Segment, 0, len(diffs))
	for _, d := range diffs {
		if d.Text == "" {
			continue
		}
		var kind Kind
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			kind = Insert
		case diffmatchpatch.DiffDelete:
			kind = Delete
		default:
			kind = Equal
		}
		// 合并相邻同类片段
		if n := len(segments); n > 0 && segments[n-1].Kind == kind {
			segments[n-1].Text += d.Text
			continue
		}
		segments = append(segments, Segment{Kind: kind, Text: d.Text})
	}
	return segments
}

// Old rebuilds the left-hand text from a segment list.
func Old(segments []Segment) string {
	var b strings.Builder
	for _, s := range segments {
		if s.Kind != Insert {
			b.WriteString(s.Text)
		}
	}
	return b.String()
}

// New rebuilds the right-hand text from a segment list.
func New(segments []Segment) string {
	var b strings.Builder
	for _, s := range segments {
		if s.Kind != Delete {
			b.WriteString(s.Text)
		}
	}
	return b.String()
}

// Stats 统计插入与删除的字符数
func Stats(segments []Segment) Stat {
	var st Stat
	for _, s := range segments {
		switch s.Kind {
		case Insert:
			st.Inserted += utf8.RuneCountInString(s.Text)
		case Delete:
			st.Deleted += utf8.RuneCountInString(s.Text)
		}
	}
	return st
}
