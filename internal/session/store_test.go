// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package session

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/arxiv-research/pkg/types"
)

func sampleRecord(id string, started time.Time) types.SessionRecord {
	return types.SessionRecord{
		ID:          id,
		Query:       "diffusion models",
		Status:      types.RunSuccess,
		CallsUsed:   2,
		PapersRead:  []string{"2401.00001v1", "2401.00002v1"},
		DocumentURL: "file:///tmp/" + id + ".md",
		StartedAt:   started,
		FinishedAt:  started.Add(90 * time.Second),
	}
}

// storeContract runs the behaviour every Store must share.
func storeContract(t *testing.T, s Store) {
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, s.Save(ctx, sampleRecord("old", base)))
	require.NoError(t, s.Save(ctx, sampleRecord("new", base.Add(time.Hour))))
	require.NoError(t, s.Save(ctx, sampleRecord("mid", base.Add(500*time.Millisecond))))

	got, err := s.Get(ctx, "new")
	require.NoError(t, err)
	assert.Equal(t, "diffusion models", got.Query)
	assert.Equal(t, 2, got.CallsUsed)
	assert.Equal(t, []string{"2401.00001v1", "2401.00002v1"}, got.PapersRead)
	assert.True(t, got.StartedAt.Equal(base.Add(time.Hour)))
	assert.True(t, got.FinishedAt.Equal(base.Add(time.Hour+90*time.Second)))

	list, err := s.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "new", list[0].ID)
	assert.Equal(t, "mid", list[1].ID)
	assert.Equal(t, "old", list[2].ID)

	list, err = s.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "new", list[0].ID)

	// Saving again replaces.
	updated := sampleRecord("old", base)
	updated.Status = types.RunError
	updated.Error = "boom"
	updated.PapersRead = nil
	require.NoError(t, s.Save(ctx, updated))
	got, err = s.Get(ctx, "old")
	require.NoError(t, err)
	assert.Equal(t, types.RunError, got.Status)
	assert.Equal(t, "boom", got.Error)
	assert.Empty(t, got.PapersRead)

	_, err = s.Get(ctx, "missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	storeContract(t, s)
}

func TestSQLiteStore(t *testing.T) {
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "nested", "sessions.db"))
	require.NoError(t, err)
	defer s.Close()
	storeContract(t, s)
}

func TestSQLiteStoreReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.db")
	ctx := context.Background()

	s, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, sampleRecord("persisted", time.Now().UTC())))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(path)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Get(ctx, "persisted")
	require.NoError(t, err)
	assert.Equal(t, "persisted", got.ID)
}
