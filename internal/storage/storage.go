// Package storage implements the entity lifecycle manager over SQLite.
//
// Every table carries an active flag; "deleted" always means active = 0 and
// rows are never physically erased. Each entity store composes the generic
// lifecycle helper for the shared activation semantics and adds its own
// create/update queries on top.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Store bundles the per-entity stores sharing one SQLite handle.
type Store struct {
	db *sql.DB

	Users        *UserStore
	Accounts     *AccountStore
	Categories   *CategoryStore
	Transactions *TransactionStore
	Goals        *GoalStore
	Rules        *AlertRuleStore
}

// Open opens (creating if needed) the database at dbPath and runs migrations.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{
		db:           db,
		Users:        NewUserStore(db),
		Accounts:     NewAccountStore(db),
		Categories:   NewCategoryStore(db),
		Transactions: NewTransactionStore(db),
		Goals:        NewGoalStore(db),
		Rules:        NewAlertRuleStore(db),
	}, nil
}

// DB exposes the underlying handle for read-only aggregate queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Timestamps are stored as RFC3339 text and dates as YYYY-MM-DD text so
// that range predicates compare lexicographically.

func FormatDate(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

func ParseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

// nullID maps the domain convention "zero means unset" to SQL NULL.
func nullID(id int64) any {
	if id == 0 {
		return nil
	}
	return id
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
