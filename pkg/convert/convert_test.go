package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStrTo_ToSize(t *testing.T) {
	tests := []struct {
		in   string
		want int64
		err  bool
	}{
		{"", 0, false},
		{"512", 512, false},
		{"512B", 512, false},
		{"4KB", 4096, false},
		{" 1mb ", 1 << 20, false},
		{"abc", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := StrTo(tt.in).ToSize()
			if tt.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	assert.Equal(t, int64(7), StrTo("nope").MustToSize(7))
}

func TestStructAssign(t *testing.T) {
	type src struct {
		Slug  string
		Title string
		Extra int
	}
	type dst struct {
		Slug  string
		Title string
	}

	out, err := StructAssign(&src{Slug: "a", Title: "b", Extra: 1}, &dst{})
	require.NoError(t, err)
	assert.Equal(t, &dst{Slug: "a", Title: "b"}, out)
}
