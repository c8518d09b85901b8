package service

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/haierkeys/microdoc-service/internal/domain"
	"github.com/haierkeys/microdoc-service/pkg/code"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// takenRepo answers ExistsSlug from a fixed set
type takenRepo struct {
	domain.NoteRepository
	taken map[string]bool
	err   error
	calls int
}

func (r *takenRepo) ExistsSlug(_ context.Context, slug string) (bool, error) {
	r.calls++
	if r.err != nil {
		return false, r.err
	}
	return r.taken[slug], nil
}

func sequence(values ...string) func(int) string {
	i := 0
	return func(int) string {
		v := values[i%len(values)]
		i++
		return v
	}
}

func TestNormalizeSlug(t *testing.T) {
	tests := []struct {
		name     string
		proposed string
		max      int
		want     string
	}{
		{"title", "Hello World", 50, "hello-world"},
		{"whitespace run", "  Hello \t\n World  ", 50, "hello-world"},
		{"punctuation dropped", "What's new?!", 50, "whats-new"},
		{"hyphens kept", "a-b--c", 50, "a-b--c"},
		{"non ascii dropped", "Café 2026", 50, "caf-2026"},
		{"truncated", "abcdefghij", 4, "abcd"},
		{"only symbols", "!!! ???", 50, ""},
		{"only hyphens after truncation", "---abc", 3, ""},
		{"empty", "", 50, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeSlug(tt.proposed, tt.max))
		})
	}
}

func TestProperty_NormalizeSlugAlphabet(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)
	pattern := regexp.MustCompile(`^[a-z0-9-]*$`)

	properties.Property("normalized slug stays in alphabet and length", prop.ForAll(
		func(s string, max int) bool {
			got := NormalizeSlug(s, max)
			return pattern.MatchString(got) && len(got) <= max
		},
		gen.AnyString(),
		gen.IntRange(1, 64),
	))

	properties.Property("normalization is idempotent", prop.ForAll(
		func(s string) bool {
			once := NormalizeSlug(s, 50)
			return NormalizeSlug(once, 50) == once
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}

func TestSlugAllocator_Allocate(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		proposed string
		taken    []string
		random   []string
		want     string
	}{
		{"base free", "My Note", nil, []string{"zzzz"}, "my-note"},
		{"suffix when base taken", "My Note", []string{"my-note"}, []string{"ab12"}, "my-note-ab12"},
		{"suffix retried", "My Note", []string{"my-note", "my-note-aaaa"}, []string{"aaaa", "bbbb"}, "my-note-bbbb"},
		{"random when unusable", "???", nil, []string{"k3j4h5g6"}, "k3j4h5g6"},
		{
			"random after all suffixes",
			"x",
			[]string{"x", "x-0000"},
			[]string{"0000", "0000", "0000", "0000", "r4nd0m00"},
			"r4nd0m00",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &takenRepo{taken: map[string]bool{}}
			for _, s := range tt.taken {
				repo.taken[s] = true
			}
			a := NewSlugAllocator(repo, nil).(*slugAllocator)
			a.random = sequence(tt.random...)

			got, err := a.Allocate(ctx, tt.proposed)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSlugAllocator_Exhausted(t *testing.T) {
	repo := &takenRepo{taken: map[string]bool{"x": true, "x-aaaa": true, "aaaaaaaa": true}}
	a := NewSlugAllocator(repo, &ServiceConfig{Slug: SlugServiceConfig{Attempts: 2, FallbackMaxAttempts: 3}}).(*slugAllocator)
	a.random = func(n int) string {
		if n == slugSuffixLength {
			return "aaaa"
		}
		return "aaaaaaaa"
	}

	got, err := a.Allocate(context.Background(), "x")
	assert.Empty(t, got)
	assert.ErrorIs(t, err, code.ErrorSlugExhausted)
	assert.Equal(t, 5, repo.calls)
}

func TestSlugAllocator_StoreError(t *testing.T) {
	boom := errors.New("boom")
	a := NewSlugAllocator(&takenRepo{err: boom}, nil)

	got, err := a.Allocate(context.Background(), "hello")
	assert.Empty(t, got)
	assert.ErrorIs(t, err, boom)
}

func TestSlugAllocator_ContextCancelled(t *testing.T) {
	repo := &takenRepo{taken: map[string]bool{"aaaaaaaa": true}}
	a := NewSlugAllocator(repo, nil).(*slugAllocator)
	a.random = func(int) string { return "aaaaaaaa" }

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := a.Allocate(ctx, "")
	assert.ErrorIs(t, err, context.Canceled)
}
