package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when no entry has the requested ID or UID.
var ErrNotFound = errors.New("entry not found")

// Backend is the storage the CLI works against.
type Backend interface {
	Get(ctx context.Context, id int64) (Entry, error)
	GetByUID(ctx context.Context, uid string) (Entry, error)
	Add(ctx context.Context, e *Entry) error
	Update(ctx context.Context, e Entry) error
	Delete(ctx context.Context, id int64) error
	All(ctx context.Context) ([]Entry, error)
	Close() error
}

const schema = `create table if not exists reading_entries (
	id integer primary key autoincrement,
	uid text not null unique,
	title text not null default '',
	author text not null default '',
	genre text not null default '',
	format text not null default '',
	tags text not null default '',
	status text not null default '',
	created_at timestamp default current_timestamp,
	updated_at timestamp default current_timestamp
)`

const selectColumns = "id, uid, title, author, genre, format, tags, status"

// SQLiteBackend keeps the catalog in a single SQLite file.
type SQLiteBackend struct {
	db  *sql.DB
	log logrus.FieldLogger
}

// OpenSQLite opens (creating if needed) the catalog at path. The parent
// directory is created when missing.
func OpenSQLite(ctx context.Context, path string) (*SQLiteBackend, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create catalog directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	// One connection keeps ":memory:" databases alive across calls.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	log := logrus.WithField("db", path)
	log.Debug("Opened catalog")
	return &SQLiteBackend{db: db, log: log}, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(s scanner) (Entry, error) {
	var (
		e      Entry
		format string
		tags   string
	)
	if err := s.Scan(&e.ID, &e.UID, &e.Title, &e.Author, &e.Genre, &format, &tags, &e.Status); err != nil {
		return Entry{}, err
	}
	e.Format = ParseFormat(format)
	e.Tags = SplitTags(tags)
	return e, nil
}

func (b *SQLiteBackend) getOne(ctx context.Context, where string, arg interface{}) (Entry, error) {
	row := b.db.QueryRowContext(ctx, "select "+selectColumns+" from reading_entries where "+where, arg)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, fmt.Errorf("%w: %v", ErrNotFound, arg)
	}
	if err != nil {
		return Entry{}, fmt.Errorf("failed to read entry: %w", err)
	}
	return e, nil
}

// Get returns the entry with the given ID.
func (b *SQLiteBackend) Get(ctx context.Context, id int64) (Entry, error) {
	return b.getOne(ctx, "id = ?", id)
}

// GetByUID returns the entry with the given UID.
func (b *SQLiteBackend) GetByUID(ctx context.Context, uid string) (Entry, error) {
	return b.getOne(ctx, "uid = ?", uid)
}

// Add inserts e and fills in its ID, and its UID when empty.
func (b *SQLiteBackend) Add(ctx context.Context, e *Entry) error {
	if e.UID == "" {
		e.UID = uuid.NewString()
	}
	res, err := b.db.ExecContext(ctx,
		"insert into reading_entries (uid, title, author, genre, format, tags, status) values (?, ?, ?, ?, ?, ?, ?)",
		e.UID, e.Title, e.Author, e.Genre, e.Format.String(), e.TagString(), e.Status)
	if err != nil {
		return fmt.Errorf("failed to add entry: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read new entry id: %w", err)
	}
	e.ID = id
	b.log.WithFields(logrus.Fields{"id": id, "uid": e.UID}).Debug("Added entry")
	return nil
}

// Update overwrites the stored entry with e.ID.
func (b *SQLiteBackend) Update(ctx context.Context, e Entry) error {
	res, err := b.db.ExecContext(ctx,
		"update reading_entries set title = ?, author = ?, genre = ?, format = ?, tags = ?, status = ?, updated_at = current_timestamp where id = ?",
		e.Title, e.Author, e.Genre, e.Format.String(), e.TagString(), e.Status, e.ID)
	if err != nil {
		return fmt.Errorf("failed to update entry: %w", err)
	}
	if err := expectOne(res, e.ID); err != nil {
		return err
	}
	b.log.WithField("id", e.ID).Debug("Updated entry")
	return nil
}

// Delete removes the entry with the given ID.
func (b *SQLiteBackend) Delete(ctx context.Context, id int64) error {
	res, err := b.db.ExecContext(ctx, "delete from reading_entries where id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	if err := expectOne(res, id); err != nil {
		return err
	}
	b.log.WithField("id", id).Debug("Deleted entry")
	return nil
}

func expectOne(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return nil
}

// All returns every entry ordered by ID.
func (b *SQLiteBackend) All(ctx context.Context) ([]Entry, error) {
	rows, err := b.db.QueryContext(ctx, "select "+selectColumns+" from reading_entries order by id")
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	defer rows.Close()

	entries := make([]Entry, 0)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to read entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	return entries, nil
}

// Close releases the database handle.
func (b *SQLiteBackend) Close() error {
	return b.db.Close()
}
