// Copyright (c) 2025 BVK Chaitanya

// Package trader schedules strategy execution. It owns the runtime state of
// every strategy that was started in this process and runs one background
// job per running strategy, which polls the price source and advances the
// strategy engine. Start, Stop and Pause calls on the same strategy are
// linearized so that a stale loop can never outlive a restart.
package trader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/bvk/dcabot/feed"
	"github.com/bvk/dcabot/gobs"
	"github.com/bvk/dcabot/job"
	"github.com/bvk/dcabot/keyring"
	"github.com/bvk/dcabot/kvutil"
	"github.com/bvk/dcabot/ledger"
	"github.com/bvk/dcabot/syncmap"
	"github.com/bvkgo/kv"
	"github.com/shopspring/decimal"
)

// StateKeyspace holds a snapshot of every strategy's runtime state, updated
// on each loop iteration. Snapshots exist for inspection through the db
// commands; they are never read back to resume a strategy after a restart.
const StateKeyspace = "/states/"

type Options struct {
	// PollInterval is the sleep between two strategy loop iterations.
	PollInterval time.Duration
}

func (v *Options) setDefaults() {
	if v.PollInterval == 0 {
		v.PollInterval = 5 * time.Second
	}
}

// Notifier carries fill and stop events to the messaging service.
type Notifier interface {
	SendMessage(ctx context.Context, at time.Time, text string) error
}

// Status summarizes one tracked strategy job for listings.
type Status struct {
	UID string

	ProductID string

	// State is the lifecycle state of the most recent loop job.
	State gobs.JobState

	Running bool
}

// entry is the runtime slot for one strategy uid. Slots are created on the
// first Start call and live for the rest of the process, so that the final
// state of a stopped strategy stays queryable.
type entry struct {
	uid string

	// opMu serializes Start, Stop and Pause on this strategy. It is held
	// across job cancellation waits, so the strategy loop must never
	// acquire it.
	opMu sync.Mutex

	// mu guards the fields below. The loop takes it only for short
	// sections, never across price fetches or sleeps.
	mu sync.Mutex

	state *ledger.State
	job   *job.Job
}

// snapshot returns a deep copy of the strategy state, safe to hand out to
// api handlers while the loop keeps mutating the original.
func (e *entry) snapshot() (*ledger.State, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == nil {
		return nil, fmt.Errorf("strategy %q has no runtime state: %w", e.uid, os.ErrNotExist)
	}
	return gobs.Clone(e.state)
}

type Trader struct {
	opts Options

	db kv.Database

	src feed.Source

	closeCtx    context.Context
	closeCancel context.CancelCauseFunc

	entryMap syncmap.Map[string, *entry]

	mu       sync.Mutex
	notifier Notifier
}

// New creates a strategy scheduler over the given database and price source.
func New(db kv.Database, src feed.Source, opts *Options) *Trader {
	if opts == nil {
		opts = new(Options)
	}
	opts.setDefaults()
	ctx, cancel := context.WithCancelCause(context.Background())
	return &Trader{
		opts:        *opts,
		db:          db,
		src:         src,
		closeCtx:    ctx,
		closeCancel: cancel,
	}
}

// SetNotifier attaches the messaging service that receives fill and stop
// events. A nil notifier turns notifications off.
func (t *Trader) SetNotifier(notifier Notifier) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.notifier = notifier
}

// Close stops all running strategy loops and waits for them to exit.
func (t *Trader) Close(ctx context.Context) error {
	var jobs []*job.Job
	t.entryMap.Range(func(uid string, e *entry) bool {
		e.opMu.Lock()
		defer e.opMu.Unlock()

		e.mu.Lock()
		if e.state != nil {
			e.state.Running = false
		}
		j := e.job
		e.mu.Unlock()

		if j != nil && !j.Done() {
			if err := j.Cancel(); err == nil {
				jobs = append(jobs, j)
			}
		}
		return true
	})
	for _, j := range jobs {
		if err := j.Wait(ctx); err != nil {
			return err
		}
	}
	t.closeCancel(os.ErrClosed)
	return nil
}

// Start launches the polling loop for a strategy. The configuration and the
// credential it names are resolved once here and stay frozen for the
// lifetime of the loop. Runtime state from an earlier run of the same
// strategy is reused, so realized pnl and open positions survive a
// stop/start sequence within one process.
func (t *Trader) Start(ctx context.Context, uid string) (*ledger.State, error) {
	var cfg *gobs.StrategyConfig
	var key *gobs.KeyData
	loader := func(ctx context.Context, r kv.Reader) error {
		c, err := LoadConfig(ctx, r, uid)
		if err != nil {
			return err
		}
		k, err := keyring.Load(ctx, r, c.KeyID)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("strategy %q key %q is not in the keyring: %w", uid, c.KeyID, os.ErrInvalid)
			}
			return err
		}
		cfg, key = c, k
		return nil
	}
	if err := kv.WithReader(ctx, t.db, loader); err != nil {
		return nil, err
	}

	if status := keyring.Probe(key); status != keyring.StatusConnected {
		return nil, fmt.Errorf("key %q reports status %q: %w", cfg.KeyID, status, os.ErrInvalid)
	}

	e, _ := t.entryMap.LoadOrStore(uid, &entry{uid: uid})
	e.opMu.Lock()
	defer e.opMu.Unlock()

	e.mu.Lock()
	old := e.job
	running := e.state != nil && e.state.Running
	flat := e.state == nil || e.state.Quantity.Sign() == 0
	e.mu.Unlock()

	if old != nil && !old.Done() {
		if running {
			return nil, fmt.Errorf("strategy %q is already running: %w", uid, os.ErrExist)
		}
		// A stale loop is still winding down. Cancel and await it so it
		// cannot clobber the state of the run we are about to launch.
		old.Cancel()
		if err := old.Wait(ctx); err != nil {
			return nil, err
		}
	}

	var reference decimal.Decimal
	if flat {
		p, err := t.src.GetPrice(ctx, cfg.ProductID)
		if err != nil {
			return nil, fmt.Errorf("could not fetch price for %q: %w", cfg.ProductID, err)
		}
		reference = p
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == nil {
		e.state = ledger.New(uid, cfg.KeyID, cfg.ProductID)
	}
	e.state.Running = true
	e.state.LastError = ""
	if flat && reference.Sign() > 0 {
		e.state.ReferencePrice = reference
	}
	snapshot, err := gobs.Clone(e.state)
	if err != nil {
		e.state.Running = false
		return nil, fmt.Errorf("could not clone strategy state: %w", err)
	}
	e.job = job.Run(func(ctx context.Context) error {
		return t.run(ctx, e, cfg)
	}, t.closeCtx)

	slog.InfoContext(ctx, "strategy started", "uid", uid, "product", cfg.ProductID, "key", cfg.KeyID)
	return snapshot, nil
}

// Stop halts the strategy loop and returns the final state. The loop job is
// recorded as canceled. Stopping an already stopped strategy is not an
// error.
func (t *Trader) Stop(ctx context.Context, uid string) (*ledger.State, error) {
	return t.halt(ctx, uid, false)
}

// Pause behaves exactly like Stop, but records the loop job as paused so
// that listings can tell a user-paused strategy from a stopped one.
func (t *Trader) Pause(ctx context.Context, uid string) (*ledger.State, error) {
	return t.halt(ctx, uid, true)
}

func (t *Trader) halt(ctx context.Context, uid string, pause bool) (*ledger.State, error) {
	e, ok := t.entryMap.Load(uid)
	if !ok {
		return nil, fmt.Errorf("strategy %q has no runtime state: %w", uid, os.ErrNotExist)
	}
	e.opMu.Lock()
	defer e.opMu.Unlock()

	e.mu.Lock()
	if e.state == nil {
		e.mu.Unlock()
		return nil, fmt.Errorf("strategy %q has no runtime state: %w", uid, os.ErrNotExist)
	}
	e.state.Running = false
	j := e.job
	e.mu.Unlock()

	if j != nil && !j.Done() {
		stop := j.Cancel
		if pause {
			stop = j.Pause
		}
		// The loop can finish on its own between the liveness check and
		// this call, which is not an error for the caller.
		if err := stop(); err != nil && !errors.Is(err, os.ErrClosed) {
			return nil, err
		}
		if err := j.Wait(ctx); err != nil {
			return nil, err
		}
	}

	snapshot, err := e.snapshot()
	if err != nil {
		return nil, err
	}
	if err := t.checkpoint(ctx, snapshot); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "strategy halted", "uid", uid, "paused", pause)
	return snapshot, nil
}

// GetState returns a copy of the strategy's runtime state.
func (t *Trader) GetState(ctx context.Context, uid string) (*ledger.State, error) {
	e, ok := t.entryMap.Load(uid)
	if !ok {
		return nil, fmt.Errorf("strategy %q has no runtime state: %w", uid, os.ErrNotExist)
	}
	return e.snapshot()
}

// List returns a summary of every strategy tracked in this process,
// including the ones whose loops have already finished.
func (t *Trader) List(ctx context.Context) []*Status {
	var statuses []*Status
	t.entryMap.Range(func(uid string, e *entry) bool {
		e.mu.Lock()
		defer e.mu.Unlock()
		if e.state == nil {
			return true
		}
		s := &Status{
			UID:       uid,
			ProductID: e.state.ProductID,
			Running:   e.state.Running,
		}
		if e.job != nil {
			s.State = e.job.State()
		}
		statuses = append(statuses, s)
		return true
	})
	slices.SortFunc(statuses, func(a, b *Status) int {
		return strings.Compare(a.UID, b.UID)
	})
	return statuses
}

// checkpoint writes a state snapshot into the database under the
// StateKeyspace.
func (t *Trader) checkpoint(ctx context.Context, state *ledger.State) error {
	saver := func(ctx context.Context, rw kv.ReadWriter) error {
		return kvutil.Set(ctx, rw, path.Join(StateKeyspace, state.UID), state)
	}
	if err := kv.WithReadWriter(ctx, t.db, saver); err != nil {
		return fmt.Errorf("could not save state for strategy %q: %w", state.UID, err)
	}
	return nil
}
