package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBadger(t *testing.T) (*Badger, string) {
	t.Helper()
	dir := t.TempDir()
	s, err := NewBadger(filepath.Join(dir, "images"), filepath.Join(dir, "db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, filepath.Join(dir, "images")
}

func TestBadgerCreateGetDelete(t *testing.T) {
	s, imagesDir := newTestBadger(t)
	ctx := context.Background()

	rec, variants := testRecord("100_aaaa1111", "Harbor", time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC))
	require.NoError(t, s.Create(ctx, rec, variants))

	got, err := s.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "Harbor", got.Title)
	assert.Equal(t, rec.Path, got.Path)
	assert.True(t, rec.UploadDate.Equal(got.UploadDate))

	// Binaries land on disk even though documents live in the database.
	for _, name := range []string{"100_aaaa1111_original.png", "100_aaaa1111_modal.png", "100_aaaa1111_thumb.png"} {
		_, err := os.Stat(filepath.Join(imagesDir, name))
		require.NoError(t, err, name)
	}

	require.NoError(t, s.Delete(ctx, rec.ID))
	_, err = s.Get(ctx, rec.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	for _, name := range []string{"100_aaaa1111_original.png", "100_aaaa1111_modal.png", "100_aaaa1111_thumb.png"} {
		_, err := os.Stat(filepath.Join(imagesDir, name))
		assert.True(t, os.IsNotExist(err), name)
	}
}

func TestBadgerListOrder(t *testing.T) {
	s, _ := newTestBadger(t)
	ctx := context.Background()

	base := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"100_aaaa1111", "300_cccc3333", "200_bbbb2222"} {
		rec, variants := testRecord(id, "Image "+id, base.Add(time.Duration(i)*time.Hour))
		require.NoError(t, s.Create(ctx, rec, variants))
	}

	records, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "200_bbbb2222", records[0].ID)
	assert.Equal(t, "300_cccc3333", records[1].ID)
	assert.Equal(t, "100_aaaa1111", records[2].ID)
}

func TestBadgerUpdateTitle(t *testing.T) {
	s, _ := newTestBadger(t)
	ctx := context.Background()

	rec, variants := testRecord("100_aaaa1111", "Before", time.Now().UTC())
	require.NoError(t, s.Create(ctx, rec, variants))

	require.NoError(t, s.UpdateTitle(ctx, rec.ID, "After"))
	got, err := s.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "After", got.Title)
	assert.True(t, rec.UploadDate.Equal(got.UploadDate))

	assert.ErrorIs(t, s.UpdateTitle(ctx, rec.ID, ""), ErrInvalidInput)
	assert.ErrorIs(t, s.UpdateTitle(ctx, "nope", "New"), ErrNotFound)
}

func TestBadgerDeleteMissing(t *testing.T) {
	s, _ := newTestBadger(t)

	assert.ErrorIs(t, s.Delete(context.Background(), "nope"), ErrNotFound)
}
