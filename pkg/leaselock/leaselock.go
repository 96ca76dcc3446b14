package leaselock

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/OFFIS-RIT/compass/internal/util"
	"github.com/OFFIS-RIT/compass/pkg/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrBusy = errors.New("lease lock busy")
	ErrLost = errors.New("lease lock lost")
)

const (
	defaultTTL          = 5 * time.Minute
	defaultWaitInterval = 250 * time.Millisecond
	minRenewInterval    = time.Second

	extendAttempts = 3
	extendBackoff  = 200 * time.Millisecond
	extendTimeout  = 15 * time.Second
)

type dbConn interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// ExerciseKey is the lock serializing classification writes of one exercise.
func ExerciseKey(exerciseID int64) string {
	return fmt.Sprintf("classifications:%d", exerciseID)
}

// Client hands out leases backed by rows of app_locks. A lease expires on
// its own unless its holder keeps extending it, so a crashed writer never
// blocks an exercise for longer than one TTL.
type Client struct {
	db dbConn
}

func New(pool *pgxpool.Pool) *Client {
	return &Client{db: pool}
}

// Options tune a lease. Zero values fall back to a five minute TTL extended
// at half its length, and a 250ms poll when Wait is set.
type Options struct {
	TTL        time.Duration
	RenewEvery time.Duration

	Wait         bool
	WaitInterval time.Duration
	WaitJitter   time.Duration

	TokenPrefix string
}

func (o Options) withDefaults() Options {
	if o.TTL <= 0 {
		o.TTL = defaultTTL
	}
	if o.RenewEvery <= 0 || o.RenewEvery >= o.TTL {
		o.RenewEvery = max(o.TTL/2, minRenewInterval)
	}
	if o.WaitInterval <= 0 {
		o.WaitInterval = defaultWaitInterval
	}
	o.WaitJitter = max(o.WaitJitter, 0)
	return o
}

// pollDelay is the pause between two acquire attempts.
func (o Options) pollDelay() time.Duration {
	if o.WaitJitter == 0 {
		return o.WaitInterval
	}
	return o.WaitInterval + rand.N(o.WaitJitter+1)
}

// Lease is a held lock. Context is cancelled once the lease is released or
// can no longer be extended; work done under the lease should observe it.
type Lease struct {
	Key     string
	Token   string
	Context context.Context

	client *Client
	ttlMs  int64
	cancel context.CancelCauseFunc
	once   sync.Once
	done   chan struct{}
}

// WithLease runs fn while holding key and releases the lease afterwards.
func (c *Client) WithLease(ctx context.Context, key string, opts Options, fn func(ctx context.Context) error) error {
	lease, err := c.Acquire(ctx, key, opts)
	if err != nil {
		return err
	}
	defer func() {
		if err := lease.Release(context.Background()); err != nil {
			logger.Warn("[LeaseLock] Release failed", "key", key, "err", err)
		}
	}()
	return fn(lease.Context)
}

// Acquire takes the lease on key. Without opts.Wait a held key returns
// ErrBusy; with it Acquire polls until the key frees up or ctx ends.
func (c *Client) Acquire(ctx context.Context, key string, opts Options) (*Lease, error) {
	if key == "" {
		return nil, errors.New("lease lock key is empty")
	}
	opts = opts.withDefaults()

	id, err := util.NewID()
	if err != nil {
		return nil, err
	}
	l := &Lease{
		Key:    key,
		Token:  opts.TokenPrefix + id,
		client: c,
		ttlMs:  max(opts.TTL.Milliseconds(), 1),
		done:   make(chan struct{}),
	}

	for {
		held, err := l.claim(ctx)
		if err != nil {
			return nil, err
		}
		if held {
			break
		}
		if !opts.Wait {
			logger.Debug("[LeaseLock] Lock busy", "key", key)
			return nil, ErrBusy
		}

		t := time.NewTimer(opts.pollDelay())
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		case <-t.C:
		}
	}

	l.Context, l.cancel = context.WithCancelCause(ctx)
	go l.keepAlive(opts.RenewEvery)
	return l, nil
}

// claim inserts the lock row, or takes it over when the previous holder let
// it expire.
func (l *Lease) claim(ctx context.Context) (bool, error) {
	var key string
	err := l.client.db.QueryRow(ctx, acquireLeaseSQL, l.Key, l.Token, l.ttlMs).Scan(&key)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return key != "", nil
}

// Release stops extending the lease and deletes its row. Calling it more
// than once is harmless.
func (l *Lease) Release(ctx context.Context) error {
	l.once.Do(func() {
		close(l.done)
		l.cancel(context.Canceled)
	})
	_, err := l.client.db.Exec(ctx, dropLeaseSQL, l.Key, l.Token)
	return err
}

func (l *Lease) keepAlive(every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()

	for {
		select {
		case <-l.done:
			return
		case <-l.Context.Done():
			return
		case <-t.C:
		}

		if err := l.extend(); err != nil {
			logger.Warn("[LeaseLock] Lease renewal failed", "key", l.Key, "err", err)
			l.cancel(err)
			return
		}
	}
}

// extend pushes the expiry one TTL into the future. Transient database
// errors are retried; a missing row means another holder took over.
func (l *Lease) extend() error {
	_, err := util.RetryWithContext(l.Context, extendAttempts, extendBackoff, func(ctx context.Context) (string, error) {
		ctx, cancel := context.WithTimeout(ctx, extendTimeout)
		defer cancel()

		var key string
		err := l.client.db.QueryRow(ctx, extendLeaseSQL, l.Key, l.Token, l.ttlMs).Scan(&key)
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrLost
		}
		return key, err
	})
	return err
}

const acquireLeaseSQL = `
INSERT INTO app_locks AS l (lock_key, locked_by, expires_at)
VALUES ($1, $2, now() + make_interval(secs => $3::bigint / 1000.0))
ON CONFLICT (lock_key) DO UPDATE
SET locked_by = EXCLUDED.locked_by, expires_at = EXCLUDED.expires_at
WHERE l.expires_at < now() OR l.locked_by = EXCLUDED.locked_by
RETURNING lock_key;
`

const extendLeaseSQL = `
UPDATE app_locks
SET expires_at = now() + make_interval(secs => $3::bigint / 1000.0)
WHERE lock_key = $1 AND locked_by = $2
RETURNING lock_key;
`

const dropLeaseSQL = `
DELETE FROM app_locks WHERE lock_key = $1 AND locked_by = $2;
`
