package sqlite

import (
	"context"
	"encoding/hex"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/rexcrawl"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ rexcrawl.RecordIndex = (*RecordIndex)(nil)

// RecordIndex implements rexcrawl.RecordIndex using SQLite.
type RecordIndex struct {
	db *DB

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// NewRecordIndex creates a new RecordIndex.
func NewRecordIndex(db *DB) *RecordIndex {
	return &RecordIndex{db: db, Now: time.Now}
}

// hashContent computes xxHash of content and returns hex string.
func hashContent(content string) string {
	var b [8]byte
	h := xxhash.Sum64String(content)
	for i := range b {
		b[i] = byte(h >> (56 - 8*i))
	}
	return hex.EncodeToString(b[:])
}

// Has reports whether a record for url has been indexed.
func (s *RecordIndex) Has(ctx context.Context, url string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM records WHERE url = ?`, url).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Put indexes a written record. Indexing the same URL again replaces the
// previous entry.
func (s *RecordIndex) Put(ctx context.Context, r *rexcrawl.Record, path string) error {
	if err := r.Validate(); err != nil {
		return err
	}
	if path == "" {
		return rexcrawl.Errorf(rexcrawl.EINVALID, "record path required")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO records (id, url, name, path, category, content_hash, written_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			name = excluded.name,
			path = excluded.path,
			category = excluded.category,
			content_hash = excluded.content_hash,
			written_at = excluded.written_at
	`, uuid.New().String(), r.URL, r.Name, path, string(r.Category),
		hashContent(r.FullContent), s.Now().UTC().Format(time.RFC3339))

	return err
}

// FindEntries returns indexed entries matching filter, most recent first.
func (s *RecordIndex) FindEntries(ctx context.Context, filter rexcrawl.IndexFilter) ([]*rexcrawl.IndexEntry, error) {
	var query strings.Builder
	var args []any

	query.WriteString(`SELECT url, name, path, category, content_hash, written_at FROM records`)
	if filter.Category != nil {
		query.WriteString(` WHERE category = ?`)
		args = append(args, string(*filter.Category))
	}
	query.WriteString(` ORDER BY written_at DESC, rowid DESC`)
	appendLimit(&query, &args, filter.Limit)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]*rexcrawl.IndexEntry, 0)
	for rows.Next() {
		var e rexcrawl.IndexEntry
		var category, writtenAt string
		if err := rows.Scan(&e.URL, &e.Name, &e.Path, &category, &e.ContentHash, &writtenAt); err != nil {
			return nil, err
		}
		e.Category = rexcrawl.Category(category)
		if e.WrittenAt, err = parseRFC3339(writtenAt, "written_at"); err != nil {
			return nil, err
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}
