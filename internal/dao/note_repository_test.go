package dao

import (
	"context"
	"testing"
	"time"

	"github.com/haierkeys/microdoc-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDao(t *testing.T) *Dao {
	t.Helper()

	db, err := NewDBEngineWithConfig(DatabaseConfig{
		Type:        "sqlite",
		Path:        ":memory:",
		TablePrefix: "md_",
		AutoMigrate: true,
	}, nil)
	require.NoError(t, err)

	d := New(db, nil, nil)
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func seedNote(t *testing.T, repo domain.NoteRepository, slug string, now time.Time, expiresAt *time.Time) *domain.Note {
	t.Helper()

	note, err := repo.Insert(context.Background(), &domain.Note{
		Slug:      slug,
		Title:     "Title " + slug,
		Content:   "first",
		ExpiresAt: expiresAt,
		CreatedAt: now,
		UpdatedAt: now,
		History:   []domain.Revision{{Content: "first", Timestamp: now}},
	})
	require.NoError(t, err)
	return note
}

func TestNoteRepository_InsertAndGet(t *testing.T) {
	repo := NewNoteRepository(newTestDao(t))
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	created := seedNote(t, repo, "hello", now, nil)
	assert.NotZero(t, created.ID)
	assert.Equal(t, int64(1), created.Version)

	got, err := repo.GetBySlug(ctx, "hello")
	require.NoError(t, err)
	assert.Equal(t, "Title hello", got.Title)
	assert.Equal(t, "first", got.Content)
	assert.Nil(t, got.ExpiresAt)
	assert.True(t, got.CreatedAt.Equal(now))
	assert.Empty(t, got.History)

	withHistory, err := repo.GetBySlugWithHistory(ctx, "hello")
	require.NoError(t, err)
	require.Len(t, withHistory.History, 1)
	assert.Equal(t, "first", withHistory.History[0].Content)

	exists, err := repo.ExistsSlug(ctx, "hello")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsSlug(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = repo.GetBySlug(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNoteNotFound)
}

func TestNoteRepository_InsertConflict(t *testing.T) {
	repo := NewNoteRepository(newTestDao(t))
	now := time.Now().UTC()

	seedNote(t, repo, "taken", now, nil)

	_, err := repo.Insert(context.Background(), &domain.Note{
		Slug: "taken", Title: "again", Content: "x", CreatedAt: now, UpdatedAt: now,
	})
	assert.ErrorIs(t, err, domain.ErrSlugConflict)
}

func TestNoteRepository_UpdateBySlug(t *testing.T) {
	repo := NewNoteRepository(newTestDao(t))
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	seedNote(t, repo, "doc", now, nil)

	later := now.Add(time.Minute)
	digest := "digest"
	matched, modified, err := repo.UpdateBySlug(ctx, "doc", &domain.NoteUpdate{
		Title:            "New title",
		Content:          "second",
		UpdatedAt:        later,
		CredentialDigest: &digest,
		ExpiresAt:        domain.ExpiresAtDirective{Set: true, Value: later.Add(time.Hour)},
		AppendRevision:   &domain.Revision{Content: "second", Timestamp: later},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), matched)
	assert.Equal(t, int64(1), modified)

	got, err := repo.GetBySlugWithHistory(ctx, "doc")
	require.NoError(t, err)
	assert.Equal(t, "New title", got.Title)
	assert.Equal(t, "second", got.Content)
	assert.Equal(t, "digest", got.CredentialDigest)
	assert.Equal(t, int64(2), got.Version)
	assert.True(t, got.UpdatedAt.Equal(later))
	require.NotNil(t, got.ExpiresAt)
	assert.True(t, got.ExpiresAt.Equal(later.Add(time.Hour)))
	require.Len(t, got.History, 2)
	assert.Equal(t, []string{"first", "second"}, []string{got.History[0].Content, got.History[1].Content})

	// clearing the expiry and a title-only save
	_, _, err = repo.UpdateBySlug(ctx, "doc", &domain.NoteUpdate{
		Title:     "Only title",
		Content:   "second",
		UpdatedAt: later.Add(time.Minute),
		ExpiresAt: domain.ExpiresAtDirective{Clear: true},
	})
	require.NoError(t, err)

	got, err = repo.GetBySlugWithHistory(ctx, "doc")
	require.NoError(t, err)
	assert.Nil(t, got.ExpiresAt)
	assert.Equal(t, "digest", got.CredentialDigest)
	assert.Len(t, got.History, 2)
	assert.Equal(t, int64(3), got.Version)
}

func TestNoteRepository_UpdateBySlugMissingOrExpired(t *testing.T) {
	repo := NewNoteRepository(newTestDao(t))
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	expiry := now.Add(time.Second)
	seedNote(t, repo, "short", now, &expiry)

	update := &domain.NoteUpdate{Title: "t", Content: "c", UpdatedAt: now.Add(2 * time.Second)}

	matched, _, err := repo.UpdateBySlug(ctx, "short", update)
	require.NoError(t, err)
	assert.Zero(t, matched)

	matched, _, err = repo.UpdateBySlug(ctx, "nobody", update)
	require.NoError(t, err)
	assert.Zero(t, matched)

	got, err := repo.GetBySlug(ctx, "short")
	require.NoError(t, err)
	assert.Equal(t, "first", got.Content)
}

func TestNoteRepository_UpdateBySlugExpectedVersion(t *testing.T) {
	repo := NewNoteRepository(newTestDao(t))
	ctx := context.Background()
	now := time.Now().UTC()
	seedNote(t, repo, "cas", now, nil)

	_, _, err := repo.UpdateBySlug(ctx, "cas", &domain.NoteUpdate{
		Title: "t", Content: "c", UpdatedAt: now, ExpectedVersion: 7,
	})
	assert.ErrorIs(t, err, domain.ErrVersionConflict)

	matched, modified, err := repo.UpdateBySlug(ctx, "cas", &domain.NoteUpdate{
		Title: "t", Content: "c", UpdatedAt: now, ExpectedVersion: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), matched)
	assert.Equal(t, int64(1), modified)
}

func TestNoteRepository_UpdateBySlugRejectsInvalid(t *testing.T) {
	repo := NewNoteRepository(newTestDao(t))

	_, _, err := repo.UpdateBySlug(context.Background(), "x", &domain.NoteUpdate{Title: "", Content: "c", UpdatedAt: time.Now()})
	assert.ErrorIs(t, err, domain.ErrInvalidUpdate)
}

func TestNoteRepository_PurgeExpired(t *testing.T) {
	repo := NewNoteRepository(newTestDao(t))
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	old := now.Add(-48 * time.Hour)
	recent := now.Add(-time.Hour)
	seedNote(t, repo, "old", now.Add(-72*time.Hour), &old)
	seedNote(t, repo, "recent", now.Add(-2*time.Hour), &recent)
	seedNote(t, repo, "forever", now, nil)

	purged, err := repo.PurgeExpired(ctx, now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	for slug, want := range map[string]bool{"old": false, "recent": true, "forever": true} {
		exists, err := repo.ExistsSlug(ctx, slug)
		require.NoError(t, err)
		assert.Equal(t, want, exists, slug)
	}
}

func TestDao_ExecuteWriteUsesWriter(t *testing.T) {
	calls := 0
	d := New(nil, nil, func(ctx context.Context, fn func() error) error {
		calls++
		return fn()
	})

	ran := false
	require.NoError(t, d.ExecuteWrite(context.Background(), func() error { ran = true; return nil }))
	assert.True(t, ran)
	assert.Equal(t, 1, calls)
}
