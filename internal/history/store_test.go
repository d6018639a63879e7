package history

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndGet(t *testing.T) {
	s := newTestStore(t)

	started := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	op := &Operation{
		Kind:      "write",
		Bridge:    "sim://",
		Part:      "24AA32A",
		Address:   0x50,
		Start:     0x34,
		Length:    610,
		Digest:    "abcd",
		Status:    StatusOK,
		StartedAt: started,
		Duration:  1500 * time.Millisecond,
	}
	require.NoError(t, s.Record(op))
	require.NotEmpty(t, op.ID)

	got, err := s.Get(op.ID)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, op.ID, got.ID)
	assert.Equal(t, "write", got.Kind)
	assert.Equal(t, "sim://", got.Bridge)
	assert.Equal(t, "24AA32A", got.Part)
	assert.Equal(t, uint8(0x50), got.Address)
	assert.Equal(t, 0x34, got.Start)
	assert.Equal(t, 610, got.Length)
	assert.Equal(t, "abcd", got.Digest)
	assert.Equal(t, StatusOK, got.Status)
	assert.Empty(t, got.Error)
	assert.True(t, started.Equal(got.StartedAt), "started %v", got.StartedAt)
	assert.Equal(t, 1500*time.Millisecond, got.Duration)
}

func TestGetMissing(t *testing.T) {
	s := newTestStore(t)

	got, err := s.Get("nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestListOrderAndFilter(t *testing.T) {
	s := newTestStore(t)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	parts := []string{"24AA32A", "24AA256", "24AA32A"}
	for i, p := range parts {
		require.NoError(t, s.Record(&Operation{
			Kind:      "read",
			Bridge:    "sim://",
			Part:      p,
			Address:   0x50,
			Status:    StatusOK,
			StartedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}

	all, err := s.List("", 0, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.True(t, all[0].StartedAt.After(all[1].StartedAt))
	assert.True(t, all[1].StartedAt.After(all[2].StartedAt))

	only, err := s.List("24AA32A", 10, 0)
	require.NoError(t, err)
	assert.Len(t, only, 2)

	page, err := s.List("", 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "24AA256", page[0].Part)
}

func TestDeleteBefore(t *testing.T) {
	s := newTestStore(t)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range 4 {
		require.NoError(t, s.Record(&Operation{
			Kind: "read", Bridge: "sim://", Part: "24AA64", Status: StatusOK,
			StartedAt: base.Add(time.Duration(i) * 24 * time.Hour),
		}))
	}

	n, err := s.DeleteBefore(base.Add(48 * time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	left, err := s.List("", 0, 0)
	require.NoError(t, err)
	assert.Len(t, left, 2)
}

func TestFinish(t *testing.T) {
	op := &Operation{StartedAt: time.Now()}
	op.Finish(nil)
	assert.Equal(t, StatusOK, op.Status)

	op = &Operation{StartedAt: time.Now()}
	op.Finish(errors.New("boom"))
	assert.Equal(t, StatusFailed, op.Status)
	assert.Equal(t, "boom", op.Error)
}

func TestPersistsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	s, err := NewStore(path)
	require.NoError(t, err)
	op := &Operation{Kind: "erase", Bridge: "sim://", Part: "24AA02", Status: StatusFailed, Error: "NACK", StartedAt: time.Now()}
	require.NoError(t, s.Record(op))
	require.NoError(t, s.Close())

	s, err = NewStore(path)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Get(op.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "NACK", got.Error)
}
