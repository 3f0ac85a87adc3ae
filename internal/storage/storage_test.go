package storage

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskdash/internal/task"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "todo.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen_EmptyPath(t *testing.T) {
	_, err := Open("")
	assert.Error(t, err)
}

func TestSqliteDSN(t *testing.T) {
	assert.Equal(t, "file:memdb?mode=memory", sqliteDSN("file:memdb?mode=memory"))

	dsn := sqliteDSN("/tmp/x/todo.db")
	assert.True(t, strings.HasPrefix(dsn, "file:///tmp/x/todo.db?"))
	assert.Contains(t, dsn, "mode=rwc")
	assert.Contains(t, dsn, "busy_timeout")
}

func TestStore_GetPut(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	_, ok, err := s.Get(ctx, "tasks")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Put(ctx, "tasks", []byte(`[1]`)))
	require.NoError(t, s.Put(ctx, "tasks", []byte(`[2]`)))

	v, ok, err := s.Get(ctx, "tasks")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[2]`, string(v))
}

func TestStore_PersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todo.db")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, "k", []byte("v")))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	v, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", string(v))
}

func TestMemory_CopiesValues(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	buf := []byte("abc")
	require.NoError(t, m.Put(ctx, "k", buf))
	buf[0] = 'x'

	v, ok, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "abc", string(v))
}

func TestTaskRepo_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewTaskRepo(openTemp(t))

	c := task.Collection{
		{ID: "1", Title: "Buy milk", Description: "2%", DueDate: "2025-01-01", Priority: task.Low},
		{ID: "2", Title: "Call", Description: "mom", DueDate: "2025-01-02", Priority: task.High, Completed: true},
	}
	require.NoError(t, repo.Save(ctx, c))

	got, dropped, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Zero(t, dropped)
	assert.Equal(t, c, got)
}

func TestTaskRepo_FieldNames(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()
	repo := NewTaskRepo(kv)

	require.NoError(t, repo.Save(ctx, task.Collection{
		{ID: "1", Title: "a", Description: "b", DueDate: "2025-01-01", Priority: task.Medium},
	}))
	raw, ok, err := kv.Get(ctx, TasksKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t,
		`[{"id":"1","title":"a","description":"b","dueDate":"2025-01-01","priority":"Medium","completed":false}]`,
		string(raw))
}

func TestTaskRepo_SaveNilWritesEmptyArray(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()
	require.NoError(t, NewTaskRepo(kv).Save(ctx, nil))

	raw, _, _ := kv.Get(ctx, TasksKey)
	assert.Equal(t, "[]", string(raw))
}

func TestTaskRepo_LoadAbsentIsEmpty(t *testing.T) {
	got, dropped, err := NewTaskRepo(NewMemory()).Load(context.Background())
	require.NoError(t, err)
	assert.Zero(t, dropped)
	assert.Empty(t, got)
}

func TestTaskRepo_LoadMalformed(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()
	require.NoError(t, kv.Put(ctx, TasksKey, []byte(`{not json`)))

	got, _, err := NewTaskRepo(kv).Load(ctx)
	assert.ErrorIs(t, err, ErrMalformed)
	assert.Empty(t, got)
}

func TestTaskRepo_LoadDropsBadRecords(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()
	require.NoError(t, kv.Put(ctx, TasksKey, []byte(`[
		{"id":"1","title":"ok","description":"d","dueDate":"2025-01-01","priority":"Low","completed":false},
		{"id":"2","title":"","description":"d","dueDate":"2025-01-01","priority":"Low"},
		{"id":"1","title":"dup","description":"d","dueDate":"2025-01-01","priority":"Low"}
	]`)))

	got, dropped, err := NewTaskRepo(kv).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, dropped)
	require.Len(t, got, 1)
	assert.Equal(t, "ok", got[0].Title)
}
