// Package ledger records published pages by content fingerprint so that
// repeated webhook deliveries do not create duplicate pages.
//
// The ledger is opt-in: callers that hold a nil *Ledger publish without
// deduplication.
//
// A publish claims its fingerprint before creating the page and completes
// the claim with the page id afterwards, so concurrent deliveries of the
// same content create one page.
package ledger

import (
	"context"
	"crypto/rand"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/fuelcore/meetingrelay/internal/errors"
)

// CurrentSchemaVersion is the latest schema version.
// Bump this when adding migrations.
const CurrentSchemaVersion = 2

// ClaimTTL is how long a pending claim holds its fingerprint. An older
// claim is assumed abandoned and may be taken over.
const ClaimTTL = 10 * time.Minute

// Publication states.
const (
	StatePending   = "pending"
	StatePublished = "published"
)

// ErrDuplicate is returned by Record and Claim when the fingerprint is
// already recorded or claimed.
var ErrDuplicate = &errors.RelayError{
	Code:    "DUPLICATE_FINGERPRINT",
	Status:  409,
	Message: "fingerprint already recorded",
}

// ErrInProgress reports that an identical page is being published by
// another request.
var ErrInProgress = &errors.RelayError{
	Code:    "PUBLISH_IN_PROGRESS",
	Status:  409,
	Message: "an identical page is already being published",
}

// Publication is one recorded page. A pending publication has no page id
// yet.
type Publication struct {
	ID          string `json:"id"`
	Fingerprint string `json:"fingerprint"`
	Kind        string `json:"kind"`
	Title       string `json:"title"`
	PageID      string `json:"page_id"`
	State       string `json:"state"`
	CreatedAt   int64  `json:"created_at"`
}

// Ledger is a SQLite-backed publication log.
type Ledger struct {
	db *sql.DB

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// Open opens or creates the ledger database at path.
func Open(path string) (*Ledger, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("failed to create ledger directory: %w", err)
		}
	}

	// Pragmas in the connection string apply to every pooled connection.
	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger: %w", err)
	}

	if err := verifyWALMode(db); err != nil {
		db.Close()
		return nil, err
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	// Set file permissions after file exists (best-effort)
	_ = os.Chmod(path, 0600)

	return &Ledger{db: db, entropy: ulid.Monotonic(rand.Reader, 0)}, nil
}

// Close closes the database.
func (l *Ledger) Close() error {
	return l.db.Close()
}

// migrate applies schema migrations based on user_version.
func migrate(db *sql.DB) error {
	version, err := getUserVersion(db)
	if err != nil {
		return err
	}

	// Migration 0 -> 1: publications table
	if version < 1 {
		schema := `
		CREATE TABLE IF NOT EXISTS publications (
		  id          TEXT PRIMARY KEY,
		  fingerprint TEXT NOT NULL,
		  kind        TEXT NOT NULL,
		  title       TEXT,
		  page_id     TEXT NOT NULL,
		  created_at  INTEGER NOT NULL
		);

		CREATE UNIQUE INDEX IF NOT EXISTS idx_publications_fingerprint
		ON publications(fingerprint);

		CREATE INDEX IF NOT EXISTS idx_publications_created
		ON publications(created_at DESC);
		`
		if _, err := db.Exec(schema); err != nil {
			return fmt.Errorf("migration 1 failed: %w", err)
		}
		if err := setUserVersion(db, 1); err != nil {
			return err
		}
		version = 1
	}

	// Migration 1 -> 2: publish claims
	if version < 2 {
		if _, err := db.Exec(`ALTER TABLE publications ADD COLUMN state TEXT NOT NULL DEFAULT 'published'`); err != nil {
			return fmt.Errorf("migration 2 failed: %w", err)
		}
		if err := setUserVersion(db, 2); err != nil {
			return err
		}
	}

	return nil
}

// verifyWALMode checks that WAL mode is active (set via connection string).
func verifyWALMode(db *sql.DB) error {
	var journalMode string
	if err := db.QueryRow("PRAGMA journal_mode;").Scan(&journalMode); err != nil {
		return fmt.Errorf("failed to verify journal mode: %w", err)
	}
	if journalMode != "wal" {
		return fmt.Errorf("expected WAL mode, got %s", journalMode)
	}
	return nil
}

func getUserVersion(db *sql.DB) (int, error) {
	var version int
	if err := db.QueryRow("PRAGMA user_version;").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get user_version: %w", err)
	}
	return version, nil
}

func setUserVersion(db *sql.DB, version int) error {
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version=%d", version)); err != nil {
		return fmt.Errorf("failed to set user_version: %w", err)
	}
	return nil
}

func (l *Ledger) newID() (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	id, err := ulid.New(ulid.Timestamp(time.Now()), l.entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// Lookup returns the publication recorded for fingerprint, or a NOT_FOUND
// error.
func (l *Ledger) Lookup(ctx context.Context, fingerprint string) (*Publication, error) {
	row := l.db.QueryRowContext(ctx, `
		SELECT id, fingerprint, kind, COALESCE(title, ''), page_id, state, created_at
		FROM publications
		WHERE fingerprint = ?
	`, fingerprint)

	var p Publication
	err := row.Scan(&p.ID, &p.Fingerprint, &p.Kind, &p.Title, &p.PageID, &p.State, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound("publication", fingerprint)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return &p, nil
}

// Record stores p as published, assigning its ID and CreatedAt.
func (l *Ledger) Record(ctx context.Context, p *Publication) error {
	id, err := l.newID()
	if err != nil {
		return errors.NewInternal(err)
	}
	p.ID = id
	p.State = StatePublished
	p.CreatedAt = time.Now().Unix()

	_, err = l.db.ExecContext(ctx, `
		INSERT INTO publications (id, fingerprint, kind, title, page_id, state, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.Fingerprint, p.Kind, toNullString(p.Title), p.PageID, p.State, p.CreatedAt)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrDuplicate
		}
		return errors.NewInternal(err)
	}
	return nil
}

// Claim reserves p.Fingerprint for a publish in progress. It assigns p's
// ID and CreatedAt and marks it pending. It returns ErrDuplicate when the
// fingerprint is published or claimed less than ClaimTTL ago; an older
// pending claim is taken over.
func (l *Ledger) Claim(ctx context.Context, p *Publication) error {
	id, err := l.newID()
	if err != nil {
		return errors.NewInternal(err)
	}
	now := time.Now()
	p.ID = id
	p.PageID = ""
	p.State = StatePending
	p.CreatedAt = now.Unix()

	res, err := l.db.ExecContext(ctx, `
		INSERT INTO publications (id, fingerprint, kind, title, page_id, state, created_at)
		VALUES (?, ?, ?, ?, '', 'pending', ?)
		ON CONFLICT(fingerprint) DO UPDATE SET
		  id = excluded.id,
		  kind = excluded.kind,
		  title = excluded.title,
		  created_at = excluded.created_at
		WHERE publications.state = 'pending' AND publications.created_at < ?
	`, p.ID, p.Fingerprint, p.Kind, toNullString(p.Title), p.CreatedAt, now.Add(-ClaimTTL).Unix())
	if err != nil {
		return errors.NewInternal(err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return errors.NewInternal(err)
	} else if n == 0 {
		return ErrDuplicate
	}
	return nil
}

// Complete records pageID against the claim held by p and marks it
// published. It returns NOT_FOUND when the claim was released or taken
// over.
func (l *Ledger) Complete(ctx context.Context, p *Publication, pageID string) error {
	res, err := l.db.ExecContext(ctx, `
		UPDATE publications SET page_id = ?, state = 'published'
		WHERE id = ? AND state = 'pending'
	`, pageID, p.ID)
	if err != nil {
		return errors.NewInternal(err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return errors.NewInternal(err)
	} else if n == 0 {
		return errors.NewNotFound("claim", p.Fingerprint)
	}
	p.PageID = pageID
	p.State = StatePublished
	return nil
}

// Release drops the claim held by p so the fingerprint can be published
// again. Releasing a claim that is already gone is not an error.
func (l *Ledger) Release(ctx context.Context, p *Publication) error {
	_, err := l.db.ExecContext(ctx, `
		DELETE FROM publications WHERE id = ? AND state = 'pending'
	`, p.ID)
	if err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// List returns the most recent publications, newest first.
func (l *Ledger) List(ctx context.Context, limit int) ([]Publication, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := l.db.QueryContext(ctx, `
		SELECT id, fingerprint, kind, COALESCE(title, ''), page_id, state, created_at
		FROM publications
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	out := []Publication{}
	for rows.Next() {
		var p Publication
		if err := rows.Scan(&p.ID, &p.Fingerprint, &p.Kind, &p.Title, &p.PageID, &p.State, &p.CreatedAt); err != nil {
			return nil, errors.NewInternal(err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return out, nil
}

// isUniqueConstraintError checks if the error is a SQLite UNIQUE constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	// SQLite returns "UNIQUE constraint failed: ..." for unique violations
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func toNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
