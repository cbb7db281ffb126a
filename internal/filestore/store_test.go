package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atinyakov/GophDate/internal/models"
)

func newStore(t *testing.T) *Store {
	return New(t.TempDir(), "calculations_", ".json", 10)
}

func TestCreateUser_AssignsSequentialIDs(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	a := &models.User{Username: "alice", PasswordHash: "h1", Email: "a@example.com"}
	b := &models.User{Username: "bob", PasswordHash: "h2"}
	require.NoError(t, s.CreateUser(ctx, a))
	require.NoError(t, s.CreateUser(ctx, b))
	assert.Equal(t, int64(1), a.ID)
	assert.Equal(t, int64(2), b.ID)

	got, err := s.UserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, &models.User{ID: 1, Username: "alice", PasswordHash: "h1", Email: "a@example.com"}, got)

	exists, err := s.UserExists(ctx, "bob")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestCreateUser_Duplicate(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateUser(ctx, &models.User{Username: "alice", PasswordHash: "h1"}))
	err := s.CreateUser(ctx, &models.User{Username: "alice", PasswordHash: "h2"})
	assert.ErrorIs(t, err, models.ErrDuplicateUser)

	u, err := s.UserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "h1", u.PasswordHash)
}

func TestUserByUsername_NotFound(t *testing.T) {
	s := newStore(t)
	_, err := s.UserByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, models.ErrUserNotFound)
}

func TestUsersFileFormat(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.CreateUser(context.Background(), &models.User{Username: "олена", PasswordHash: "abc", Email: "o@example.com"}))

	raw, err := os.ReadFile(filepath.Join(s.Dir, "users.json"))
	require.NoError(t, err)
	var doc map[string]map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, map[string]any{"password_hash": "abc", "email": "o@example.com", "id": float64(1)}, doc["олена"])
	assert.Contains(t, string(raw), "олена", "non-ASCII names are written as UTF-8")
}

func TestHistory_RetentionAndOrder(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 12; i++ {
		require.NoError(t, s.AppendCalculation(ctx, 1, models.Calculation{
			Type:      "weekday",
			Input:     fmt.Sprintf("input-%02d", i),
			Result:    "Monday",
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}

	got, err := s.RecentCalculations(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, got, 10)
	assert.Equal(t, "input-11", got[0].Input)
	assert.Equal(t, "input-02", got[9].Input)
	assert.True(t, got[0].CreatedAt.Equal(base.Add(11*time.Hour)))

	var onDisk []map[string]any
	raw, err := os.ReadFile(s.HistoryPath(1))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &onDisk))
	assert.Len(t, onDisk, 10)
	assert.ElementsMatch(t, []string{"type", "input", "timestamp", "result"}, keys(onDisk[0]))
}

func TestHistory_TruncationIsPositional(t *testing.T) {
	s := New(t.TempDir(), "calculations_", ".json", 2)
	ctx := context.Background()
	late := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	early := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.AppendCalculation(ctx, 1, models.Calculation{Input: "late", CreatedAt: late}))
	require.NoError(t, s.AppendCalculation(ctx, 1, models.Calculation{Input: "early-1", CreatedAt: early}))
	require.NoError(t, s.AppendCalculation(ctx, 1, models.Calculation{Input: "early-2", CreatedAt: early}))

	got, err := s.RecentCalculations(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "early-2", got[0].Input)
	assert.Equal(t, "early-1", got[1].Input)
}

func TestHistory_MissingFileIsEmpty(t *testing.T) {
	s := newStore(t)
	got, err := s.RecentCalculations(context.Background(), 42, 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestHistory_ReadsLegacyTimestamps(t *testing.T) {
	s := newStore(t)
	legacy := `[{"type": "День тижня", "input": "2024-01-01", "result": "Понеділок", "timestamp": "2024-01-01T10:30:00.123456"}]`
	require.NoError(t, os.WriteFile(s.HistoryPath(3), []byte(legacy), 0o644))

	got, err := s.RecentCalculations(context.Background(), 3, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Понеділок", got[0].Result)
	assert.Equal(t, 2024, got[0].CreatedAt.Year())
	assert.Equal(t, 30, got[0].CreatedAt.Minute())
}

func TestHistory_CorruptFileIsStorageIOError(t *testing.T) {
	s := newStore(t)
	require.NoError(t, os.WriteFile(s.HistoryPath(1), []byte("{broken"), 0o644))

	_, err := s.RecentCalculations(context.Background(), 1, 10)
	var ioErr *models.StorageIOError
	require.True(t, errors.As(err, &ioErr))
	assert.Equal(t, "read", ioErr.Op)

	err = s.AppendCalculation(context.Background(), 1, models.Calculation{Input: "x"})
	assert.True(t, errors.As(err, &ioErr))
}

func TestCreateUser_UnusableDirIsStorageIOError(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	s := New(filepath.Join(blocker, "sub"), "calculations_", ".json", 10)
	err := s.CreateUser(context.Background(), &models.User{Username: "x"})
	var ioErr *models.StorageIOError
	require.True(t, errors.As(err, &ioErr), "got %v", err)
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
