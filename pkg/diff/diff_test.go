package diff

import (
	"testing"
	"unicode"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

// 任意文本对的差异都能无损还原两侧
func TestProperty_DiffRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	tokens := []string{"a", "b", " ", "\n", "foo", "bar\n", "# title\n"}
	texts := gen.OneGenOf(
		gen.AlphaString(),
		gen.UnicodeString(unicode.Han),
		gen.SliceOf(gen.IntRange(0, len(tokens)-1)).Map(func(idx []int) string {
			out := ""
			for _, i := range idx {
				out += tokens[i]
			}
			return out
		}),
	)

	properties.Property("char diff reconstructs both sides", prop.ForAll(
		func(a, b string) bool {
			segments := Diff(a, b)
			return Old(segments) == a && New(segments) == b
		},
		texts, texts,
	))

	properties.Property("line diff reconstructs both sides", prop.ForAll(
		func(a, b string) bool {
			segments := DiffLines(a, b)
			return Old(segments) == a && New(segments) == b
		},
		texts, texts,
	))

	raw := gen.SliceOf(gen.UInt8()).Map(func(b []byte) string { return string(b) })

	properties.Property("arbitrary bytes reconstruct both sides", prop.ForAll(
		func(a, b string) bool {
			chars, lines := Diff(a, b), DiffLines(a, b)
			return Old(chars) == a && New(chars) == b && Old(lines) == a && New(lines) == b
		},
		raw, raw,
	))

	properties.Property("diff is deterministic", prop.ForAll(
		func(a, b string) bool {
			return assert.ObjectsAreEqual(Diff(a, b), Diff(a, b))
		},
		texts, texts,
	))

	properties.TestingRun(t)
}

func TestDiff(t *testing.T) {
	tests := []struct {
		name string
		old  string
		new  string
		want []Segment
	}{
		{"identical", "hello", "hello", []Segment{{Equal, "hello"}}},
		{"both empty", "", "", []Segment{}},
		{"pure insert", "", "abc", []Segment{{Insert, "abc"}}},
		{"pure delete", "abc", "", []Segment{{Delete, "abc"}}},
		{"append word", "hello", "hello world", []Segment{{Equal, "hello"}, {Insert, " world"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Diff(tt.old, tt.new))
		})
	}
}

func TestDiffLinesKeepsWholeLines(t *testing.T) {
	segments := DiffLines("a\nb\nc\n", "a\nx\nc\n")

	assert.Equal(t, []Segment{
		{Equal, "a\n"},
		{Delete, "b\n"},
		{Insert, "x\n"},
		{Equal, "c\n"},
	}, segments)
}

func TestDiffInvalidUTF8(t *testing.T) {
	a, b := "ab\xffcd", "ab\xfecd"

	segments := Diff(a, b)
	assert.Equal(t, []Segment{
		{Equal, "ab"},
		{Delete, "\xff"},
		{Insert, "\xfe"},
		{Equal, "cd"},
	}, segments)
	assert.Equal(t, a, Old(segments))
	assert.Equal(t, b, New(segments))

	lines := DiffLines("ok\n\xff\n", "ok\n\xfe\n")
	assert.Equal(t, "ok\n\xff\n", Old(lines))
	assert.Equal(t, "ok\n\xfe\n", New(lines))
}

func TestStats(t *testing.T) {
	st := Stats([]Segment{{Equal, "ab"}, {Insert, "你好"}, {Delete, "xyz"}})
	assert.Equal(t, Stat{Inserted: 2, Deleted: 3}, st)
}
