// Package waitlist records emails of users asking for Pro access.
package waitlist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/albapepper/scoracle-props/internal/db"
)

// ErrInvalidEmail is returned for addresses that do not look like emails.
var ErrInvalidEmail = errors.New("invalid email")

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether s looks like an email address.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// Entry is one waitlist signup.
type Entry struct {
	ID        uuid.UUID
	Email     string
	CreatedAt time.Time
}

// Store persists waitlist entries.
type Store interface {
	Add(ctx context.Context, e Entry) error
	Backend() string
}

// Waitlist validates and records signups.
type Waitlist struct {
	store Store
	now   func() time.Time
}

func New(store Store) *Waitlist {
	return &Waitlist{store: store, now: time.Now}
}

// Subscribe records email. The address is stored as given.
func (w *Waitlist) Subscribe(ctx context.Context, email string) (Entry, error) {
	if !ValidEmail(email) {
		return Entry{}, ErrInvalidEmail
	}
	e := Entry{ID: uuid.New(), Email: email, CreatedAt: w.now().UTC()}
	if err := w.store.Add(ctx, e); err != nil {
		return Entry{}, fmt.Errorf("add to %s waitlist: %w", w.store.Backend(), err)
	}
	return e, nil
}

func (w *Waitlist) Backend() string { return w.store.Backend() }

// ----------------------------------------------------------------------------
// Postgres
// ----------------------------------------------------------------------------

// Execer is satisfied by *pgxpool.Pool and *pgx.Conn.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PGStore writes entries through the prepared waitlist statements.
type PGStore struct {
	db Execer
}

func NewPGStore(db Execer) *PGStore { return &PGStore{db: db} }

func (s *PGStore) Add(ctx context.Context, e Entry) error {
	_, err := s.db.Exec(ctx, db.StmtWaitlistInsert, e.ID, e.Email, e.CreatedAt)
	return err
}

// Count returns the number of entries.
func (s *PGStore) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRow(ctx, db.StmtWaitlistCount).Scan(&n)
	return n, err
}

func (s *PGStore) Backend() string { return "postgres" }

// ----------------------------------------------------------------------------
// CSV
// ----------------------------------------------------------------------------

// timestampLayout is ISO 8601 in UTC with milliseconds.
const timestampLayout = "2006-01-02T15:04:05.000Z"

// CSVStore appends `timestamp,"email"` rows to a local file. The email is
// always JSON-quoted.
type CSVStore struct {
	mu   sync.Mutex
	path string
}

func NewCSVStore(path string) *CSVStore { return &CSVStore{path: path} }

func (s *CSVStore) Add(_ context.Context, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}

	email, err := json.Marshal(e.Email)
	if err != nil {
		f.Close()
		return err
	}
	if _, err := fmt.Fprintf(f, "%s,%s\n", e.CreatedAt.Format(timestampLayout), email); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (s *CSVStore) Backend() string { return "csv" }
