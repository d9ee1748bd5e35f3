package storage

import (
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"

	// sqlite driver
	_ "modernc.org/sqlite"

	"siplog/internal/entity/user"
	"siplog/internal/model/customerr"
)

// Keys of the two logical documents in the key-value store.
const (
	usersKey       = "alcoholTracker"
	waitingTimeKey = "waitingTime"
)

const createKVTable = `
	CREATE TABLE IF NOT EXISTS kv (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Question)

type config interface {
	Path() string
}

// SQLiteStorage persists the two store documents in a local single-file
// database, one row per key. Whole-document read-modify-write, last writer
// wins; good enough for a single local session.
type SQLiteStorage struct {
	db *sql.DB
}

func NewSQLiteStorage(config config) (*SQLiteStorage, error) {
	path := config.Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrap(err, "cannot create storage dir")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "cannot open database")
	}
	if err = db.Ping(); err != nil {
		return nil, errors.Wrap(err, "cannot open database")
	}
	if _, err = db.Exec(createKVTable); err != nil {
		return nil, errors.Wrap(err, "cannot init database")
	}
	return &SQLiteStorage{db}, nil
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// LoadUsers returns an empty document when nothing is stored yet. A stored
// value that no longer parses yields an empty document together with a
// CorruptedStoreError, so callers can warn and carry on.
func (s *SQLiteStorage) LoadUsers() (user.Document, error) {
	raw, ok, err := s.value(usersKey)
	if err != nil {
		return user.NewDocument(), errors.Wrap(err, "load users")
	}
	if !ok {
		return user.NewDocument(), nil
	}

	var doc user.Document
	if err = json.Unmarshal([]byte(raw), &doc); err != nil {
		return user.NewDocument(), &customerr.CorruptedStoreError{Err: err}
	}
	return doc, nil
}

func (s *SQLiteStorage) SaveUsers(doc user.Document) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return errors.Wrap(err, "save users")
	}
	if err = s.setValue(usersKey, string(raw)); err != nil {
		return &customerr.StorageWriteError{Err: err}
	}
	return nil
}

// WaitingMinutes falls back to the default when the value is absent or does
// not parse as a positive integer.
func (s *SQLiteStorage) WaitingMinutes() (int, error) {
	raw, ok, err := s.value(waitingTimeKey)
	if err != nil {
		return 0, errors.Wrap(err, "waiting minutes")
	}
	if !ok {
		return defaultWaitingMinutes, nil
	}
	minutes, err := strconv.Atoi(raw)
	if err != nil || minutes <= 0 {
		return defaultWaitingMinutes, nil
	}
	return minutes, nil
}

func (s *SQLiteStorage) SetWaitingMinutes(minutes int) error {
	if err := s.setValue(waitingTimeKey, strconv.Itoa(minutes)); err != nil {
		return &customerr.StorageWriteError{Err: err}
	}
	return nil
}

func (s *SQLiteStorage) value(key string) (string, bool, error) {
	query := qb.Select("value").
		From("kv").
		Where(sq.Eq{"key": key})

	var res string
	err := query.RunWith(s.db).QueryRow().Scan(&res)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrap(err, "get value")
	}
	return res, true, nil
}

func (s *SQLiteStorage) setValue(key, value string) error {
	query := qb.Insert("kv").
		Columns("key", "value").
		Values(key, value).
		Suffix("ON CONFLICT(key) DO UPDATE SET value = ?", value)

	_, err := query.RunWith(s.db).Exec()
	return errors.Wrap(err, "set value")
}
