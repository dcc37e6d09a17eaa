package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/alexanderramin/fortune/internal/db"
)

// SQLiteKVStore implements KVStore on the kv table.
type SQLiteKVStore struct {
	db  *sql.DB
	uow db.UnitOfWork
	now func() time.Time

	// mu serializes writers within the process; the transaction in Update
	// covers other processes sharing the file.
	mu sync.Mutex
}

// KVOption customizes a SQLiteKVStore.
type KVOption func(*SQLiteKVStore)

// WithUnitOfWork replaces the transaction runner used by Update.
func WithUnitOfWork(uow db.UnitOfWork) KVOption {
	return func(s *SQLiteKVStore) { s.uow = uow }
}

// WithNow sets the timestamp source for updated_at.
func WithNow(now func() time.Time) KVOption {
	return func(s *SQLiteKVStore) { s.now = now }
}

// NewSQLiteKVStore creates a new SQLiteKVStore.
func NewSQLiteKVStore(conn *sql.DB, opts ...KVOption) *SQLiteKVStore {
	s := &SQLiteKVStore{
		db:  conn,
		uow: db.NewSQLiteUnitOfWork(conn),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ KVStore = (*SQLiteKVStore)(nil)

func (s *SQLiteKVStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, _, ok, err := getRow(ctx, s.db, key)
	return v, ok, err
}

func (s *SQLiteKVStore) GetInt(ctx context.Context, key string) (int, bool, error) {
	v, kind, ok, err := getRow(ctx, s.db, key)
	if err != nil || !ok {
		return 0, ok, err
	}
	if kind != kindInt {
		return 0, false, fmt.Errorf("key %q holds %s: %w", key, kind, ErrWrongKind)
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false, fmt.Errorf("parsing int at %q: %w", key, err)
	}
	return n, true, nil
}

func (s *SQLiteKVStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return putRow(ctx, s.db, key, value, kindString, s.now())
}

func (s *SQLiteKVStore) SetInt(ctx context.Context, key string, value int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return putRow(ctx, s.db, key, strconv.Itoa(value), kindInt, s.now())
}

func (s *SQLiteKVStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("deleting key %q: %w", key, err)
	}
	return nil
}

func (s *SQLiteKVStore) Update(ctx context.Context, key string, fn UpdateFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		cur, _, ok, err := getRow(ctx, tx, key)
		if err != nil {
			return err
		}
		next, err := fn(cur, ok)
		if errors.Is(err, ErrNoChange) {
			return nil
		}
		if err != nil {
			return err
		}
		return putRow(ctx, tx, key, next, kindString, s.now())
	})
}

func (s *SQLiteKVStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv`); err != nil {
		return fmt.Errorf("clearing store: %w", err)
	}
	return nil
}

func (s *SQLiteKVStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key FROM kv WHERE substr(key, 1, ?) = ? ORDER BY key`,
		utf8.RuneCountInString(prefix), prefix)
	if err != nil {
		return nil, fmt.Errorf("listing keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scanning key: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

func getRow(ctx context.Context, q db.DBTX, key string) (value, kind string, ok bool, err error) {
	err = q.QueryRowContext(ctx, `SELECT value, kind FROM kv WHERE key = ?`, key).Scan(&value, &kind)
	if errors.Is(err, sql.ErrNoRows) {
		return "", "", false, nil
	}
	if err != nil {
		return "", "", false, fmt.Errorf("reading key %q: %w", key, err)
	}
	return value, kind, true, nil
}

func putRow(ctx context.Context, q db.DBTX, key, value, kind string, now time.Time) error {
	_, err := q.ExecContext(ctx,
		`INSERT INTO kv (key, value, kind, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, kind = excluded.kind,
			updated_at = excluded.updated_at`,
		key, value, kind, formatTime(now))
	if err != nil {
		return fmt.Errorf("writing key %q: %w", key, err)
	}
	return nil
}
