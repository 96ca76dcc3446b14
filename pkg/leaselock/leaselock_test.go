package leaselock

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type row struct {
	key string
	err error
}

func (r row) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*dest[0].(*string) = r.key
	return nil
}

// fakeDB emulates app_locks for a single key.
type fakeDB struct {
	mu       sync.Mutex
	holder   string
	released []string
}

func (f *fakeDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if sql == dropLeaseSQL && f.holder == args[1].(string) {
		f.holder = ""
		f.released = append(f.released, args[0].(string))
	}
	return pgconn.NewCommandTag("DELETE 1"), nil
}

func (f *fakeDB) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	f.mu.Lock()
	defer f.mu.Unlock()
	key, token := args[0].(string), args[1].(string)
	switch sql {
	case acquireLeaseSQL:
		if f.holder != "" && f.holder != token {
			return row{err: pgx.ErrNoRows}
		}
		f.holder = token
		return row{key: key}
	case extendLeaseSQL:
		if f.holder != token {
			return row{err: pgx.ErrNoRows}
		}
		return row{key: key}
	}
	return row{err: errors.New("unexpected statement")}
}

func TestExerciseKey(t *testing.T) {
	if got := ExerciseKey(42); got != "classifications:42" {
		t.Fatalf("ExerciseKey(42) = %q", got)
	}
}

func TestAcquireBusyWithoutWait(t *testing.T) {
	c := &Client{db: &fakeDB{}}
	ctx := context.Background()

	first, err := c.Acquire(ctx, ExerciseKey(1), Options{TokenPrefix: "server-"})
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	defer first.Release(ctx)
	if !strings.HasPrefix(first.Token, "server-") {
		t.Fatalf("Acquire() token = %q, want server- prefix", first.Token)
	}

	if _, err := c.Acquire(ctx, ExerciseKey(1), Options{}); !errors.Is(err, ErrBusy) {
		t.Fatalf("second Acquire() error = %v, want ErrBusy", err)
	}
}

func TestWithLeaseReleases(t *testing.T) {
	db := &fakeDB{}
	c := &Client{db: db}

	called := false
	err := c.WithLease(context.Background(), "k", Options{}, func(ctx context.Context) error {
		called = true
		return ctx.Err()
	})
	if err != nil || !called {
		t.Fatalf("WithLease() = %v, called = %v", err, called)
	}
	if db.holder != "" || len(db.released) != 1 {
		t.Fatalf("WithLease() left holder %q, released %v", db.holder, db.released)
	}
}

func TestAcquireWaitHonoursContext(t *testing.T) {
	db := &fakeDB{holder: "someone-else"}
	c := &Client{db: db}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.Acquire(ctx, "k", Options{Wait: true, WaitInterval: 5 * time.Millisecond})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Acquire() error = %v, want deadline exceeded", err)
	}
}

func TestAcquireRejectsEmptyKey(t *testing.T) {
	c := &Client{db: &fakeDB{}}
	if _, err := c.Acquire(context.Background(), "", Options{}); err == nil {
		t.Fatalf("Acquire() with empty key succeeded")
	}
}

func TestOptionsWithDefaults(t *testing.T) {
	o := Options{TTL: 10 * time.Second, RenewEvery: time.Minute, WaitJitter: -1}.withDefaults()
	if o.RenewEvery != 5*time.Second || o.WaitInterval != 250*time.Millisecond || o.WaitJitter != 0 {
		t.Fatalf("withDefaults() = %+v", o)
	}
	if d := (Options{}).withDefaults(); d.TTL != 5*time.Minute || d.RenewEvery != 150*time.Second {
		t.Fatalf("withDefaults() defaults = %+v", d)
	}

	jittered := Options{WaitInterval: 10 * time.Millisecond, WaitJitter: 5 * time.Millisecond}
	for range 20 {
		if d := jittered.pollDelay(); d < 10*time.Millisecond || d > 15*time.Millisecond {
			t.Fatalf("pollDelay() = %v, want within [10ms, 15ms]", d)
		}
	}
}

func TestExtendReportsTakeover(t *testing.T) {
	db := &fakeDB{}
	c := &Client{db: db}
	ctx := context.Background()

	lease, err := c.Acquire(ctx, "k", Options{})
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	defer lease.Release(ctx)

	if err := lease.extend(); err != nil {
		t.Fatalf("extend() while held = %v", err)
	}

	db.mu.Lock()
	db.holder = "someone-else"
	db.mu.Unlock()
	if err := lease.extend(); !errors.Is(err, ErrLost) {
		t.Fatalf("extend() after takeover = %v, want ErrLost", err)
	}
}
