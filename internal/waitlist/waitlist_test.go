package waitlist

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/albapepper/scoracle-props/internal/db"
)

func TestValidEmail(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"fan@example.com", true},
		{"a.b+c@sub.example.co", true},
		{"no-at.example.com", false},
		{"two@@example.com", false},
		{"spaces in@example.com", false},
		{"nodot@example", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := ValidEmail(tt.in); got != tt.want {
			t.Errorf("ValidEmail(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSubscribe_CSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sql", "waitlist.csv")
	w := New(NewCSVStore(path))
	w.now = func() time.Time { return time.Date(2025, 8, 30, 18, 4, 5, 123e6, time.UTC) }

	if _, err := w.Subscribe(context.Background(), "fan@example.com"); err != nil {
		t.Fatal(err)
	}
	if _, err := w.Subscribe(context.Background(), "second@example.com"); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines", len(lines))
	}
	if lines[0] != `2025-08-30T18:04:05.123Z,"fan@example.com"` {
		t.Errorf("line = %s", lines[0])
	}
	if w.Backend() != "csv" {
		t.Errorf("backend = %s", w.Backend())
	}
}

func TestSubscribe_CSVConcurrent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "w.csv")
	w := New(NewCSVStore(path))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := w.Subscribe(context.Background(), "fan@example.com"); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	data, _ := os.ReadFile(path)
	if n := strings.Count(string(data), "\n"); n != 20 {
		t.Errorf("got %d lines, want 20", n)
	}
}

func TestSubscribe_InvalidEmail(t *testing.T) {
	store := &fakeExec{}
	w := New(NewPGStore(store))
	if _, err := w.Subscribe(context.Background(), "nope"); !errors.Is(err, ErrInvalidEmail) {
		t.Errorf("err = %v", err)
	}
	if len(store.args) != 0 {
		t.Error("invalid email reached the store")
	}
}

type fakeExec struct {
	sql   string
	args  []any
	err   error
	count int64
}

func (f *fakeExec) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.sql, f.args = sql, args
	return pgconn.NewCommandTag("INSERT 0 1"), f.err
}

func (f *fakeExec) QueryRow(_ context.Context, sql string, _ ...any) pgx.Row {
	f.sql = sql
	return fakeRow{n: f.count}
}

type fakeRow struct{ n int64 }

func (r fakeRow) Scan(dest ...any) error {
	*(dest[0].(*int64)) = r.n
	return nil
}

func TestSubscribe_Postgres(t *testing.T) {
	store := &fakeExec{}
	w := New(NewPGStore(store))

	e, err := w.Subscribe(context.Background(), "fan@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if store.sql != db.StmtWaitlistInsert || len(store.args) != 3 {
		t.Fatalf("exec = %s %v", store.sql, store.args)
	}
	if store.args[0] != e.ID || store.args[1] != "fan@example.com" {
		t.Errorf("args = %v", store.args)
	}
	if w.Backend() != "postgres" {
		t.Errorf("backend = %s", w.Backend())
	}

	store.err = errors.New("conn reset")
	if _, err := w.Subscribe(context.Background(), "fan@example.com"); err == nil || !strings.Contains(err.Error(), "postgres") {
		t.Errorf("err = %v", err)
	}
}

func TestPGStore_Count(t *testing.T) {
	store := &fakeExec{count: 7}
	n, err := NewPGStore(store).Count(context.Background())
	if err != nil || n != 7 || store.sql != db.StmtWaitlistCount {
		t.Errorf("count = %d, %v (%s)", n, err, store.sql)
	}
}
