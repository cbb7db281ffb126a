// Package filestore is the flat-file persistence backend used when no
// relational database is reachable.
//
// Layout inside Dir:
//
//	users.json               {"<username>": {"password_hash", "email", "id"}}
//	calculations_<id>.json   [{"type", "input", "timestamp", "result"}, ...]
//
// Every save reads the whole history file, appends, keeps the last
// MaxRecords entries by position and rewrites the file. Retention is
// positional: entries appended out of time order are kept in insertion
// order, not sorted.
//
// There is no locking. Writes replace files atomically through a rename, so
// a reader never sees a half-written file, but two processes saving at the
// same time can lose each other's updates.
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/atinyakov/GophDate/internal/models"
)

const usersFile = "users.json"

// legacyTimestamp is how the previous desktop application wrote timestamps.
const legacyTimestamp = "2006-01-02T15:04:05.999999"

// Store keeps users and histories as JSON documents in Dir.
type Store struct {
	// Dir holds every file of the store.
	Dir string
	// Prefix and Ext name history files: Prefix + id + Ext.
	Prefix string
	Ext    string
	// MaxRecords is the number of calculations kept per user.
	MaxRecords int
}

// New returns a Store rooted at dir.
func New(dir, prefix, ext string, maxRecords int) *Store {
	return &Store{Dir: dir, Prefix: prefix, Ext: ext, MaxRecords: maxRecords}
}

type userEntry struct {
	PasswordHash string `json:"password_hash"`
	Email        string `json:"email"`
	ID           int64  `json:"id"`
}

type calcEntry struct {
	Type      string    `json:"type"`
	Input     string    `json:"input"`
	Timestamp timestamp `json:"timestamp"`
	Result    string    `json:"result"`
}

// timestamp writes RFC 3339 and also reads the zone-less form of older files.
type timestamp time.Time

func (t timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(t).Format(time.RFC3339Nano))
}

func (t *timestamp) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if v, err := time.Parse(time.RFC3339Nano, s); err == nil {
		*t = timestamp(v)
		return nil
	}
	v, err := time.ParseInLocation(legacyTimestamp, s, time.Local)
	if err != nil {
		return fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	*t = timestamp(v)
	return nil
}

func (s *Store) usersPath() string {
	return filepath.Join(s.Dir, usersFile)
}

// HistoryPath returns the history file of userID.
func (s *Store) HistoryPath(userID int64) string {
	return filepath.Join(s.Dir, fmt.Sprintf("%s%d%s", s.Prefix, userID, s.Ext))
}

// load decodes path into v. A missing file leaves v untouched.
func load(path string, v any) error {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return &models.StorageIOError{Op: "read", Path: path, Err: err}
	}
	defer f.Close()
	if err := json.NewDecoder(f).Decode(v); err != nil {
		return &models.StorageIOError{Op: "read", Path: path, Err: err}
	}
	return nil
}

// save encodes v into a temp file next to path and renames it over path.
func save(path string, v any) error {
	wrap := func(err error) error {
		return &models.StorageIOError{Op: "write", Path: path, Err: err}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return wrap(err)
	}
	f, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return wrap(err)
	}
	defer os.Remove(f.Name())

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		f.Close()
		return wrap(err)
	}
	if err := f.Close(); err != nil {
		return wrap(err)
	}
	if err := os.Rename(f.Name(), path); err != nil {
		return wrap(err)
	}
	return nil
}

func (s *Store) loadUsers() (map[string]userEntry, error) {
	users := map[string]userEntry{}
	if err := load(s.usersPath(), &users); err != nil {
		return nil, err
	}
	return users, nil
}

// CreateUser adds u to users.json and assigns it the next ID (count of users + 1).
func (s *Store) CreateUser(_ context.Context, u *models.User) error {
	users, err := s.loadUsers()
	if err != nil {
		return err
	}
	if _, ok := users[u.Username]; ok {
		return models.ErrDuplicateUser
	}
	u.ID = int64(len(users) + 1)
	users[u.Username] = userEntry{PasswordHash: u.PasswordHash, Email: u.Email, ID: u.ID}
	return save(s.usersPath(), users)
}

// UserExists reports whether username is registered.
func (s *Store) UserExists(_ context.Context, username string) (bool, error) {
	users, err := s.loadUsers()
	if err != nil {
		return false, err
	}
	_, ok := users[username]
	return ok, nil
}

// UserByUsername returns the stored user or models.ErrUserNotFound.
func (s *Store) UserByUsername(_ context.Context, username string) (*models.User, error) {
	users, err := s.loadUsers()
	if err != nil {
		return nil, err
	}
	e, ok := users[username]
	if !ok {
		return nil, models.ErrUserNotFound
	}
	return &models.User{ID: e.ID, Username: username, PasswordHash: e.PasswordHash, Email: e.Email}, nil
}

// AppendCalculation appends calc to the history of userID and keeps the last MaxRecords entries.
func (s *Store) AppendCalculation(_ context.Context, userID int64, calc models.Calculation) error {
	path := s.HistoryPath(userID)
	var calcs []calcEntry
	if err := load(path, &calcs); err != nil {
		return err
	}
	calcs = append(calcs, calcEntry{
		Type:      calc.Type,
		Input:     calc.Input,
		Timestamp: timestamp(calc.CreatedAt),
		Result:    calc.Result,
	})
	if len(calcs) > s.MaxRecords {
		calcs = calcs[len(calcs)-s.MaxRecords:]
	}
	return save(path, calcs)
}

// RecentCalculations returns up to limit entries of userID in reverse insertion order.
func (s *Store) RecentCalculations(_ context.Context, userID int64, limit int) ([]models.Calculation, error) {
	var calcs []calcEntry
	if err := load(s.HistoryPath(userID), &calcs); err != nil {
		return nil, err
	}
	out := make([]models.Calculation, 0, min(len(calcs), limit))
	for i := len(calcs) - 1; i >= 0 && len(out) < limit; i-- {
		c := calcs[i]
		out = append(out, models.Calculation{
			Type:      c.Type,
			Input:     c.Input,
			Result:    c.Result,
			CreatedAt: time.Time(c.Timestamp),
		})
	}
	return out, nil
}
