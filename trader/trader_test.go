// Copyright (c) 2025 BVK Chaitanya

package trader

import (
	"context"
	"errors"
	"os"
	"path"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bvk/dcabot/gobs"
	"github.com/bvk/dcabot/keyring"
	"github.com/bvk/dcabot/kvutil"
	"github.com/bvk/dcabot/ledger"
	"github.com/bvkgo/kv"
	"github.com/bvkgo/kv/kvmemdb"
	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type fakeFeed struct {
	mu    sync.Mutex
	price decimal.Decimal
	err   error
}

func newFakeFeed(price string) *fakeFeed {
	return &fakeFeed{price: d(price)}
}

func (f *fakeFeed) set(price string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.price = d(price)
	f.err = nil
}

func (f *fakeFeed) fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *fakeFeed) GetPrice(ctx context.Context, productID string) (decimal.Decimal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return decimal.Decimal{}, f.err
	}
	return f.price, nil
}

func testConfig(uid string) *gobs.StrategyConfig {
	return &gobs.StrategyConfig{
		UID:                 uid,
		Name:                "test " + uid,
		KeyID:               "key1",
		ProductID:           "BTC-USDT",
		InitialOrderAmount:  d("100"),
		BuyTriggerFallPct:   d("1"),
		SellTriggerRisePct:  d("1"),
		MaxCoverCount:       2,
		CoverMultiplier:     d("1"),
		CoverTriggerFallPct: d("5"),
		CoverReference:      gobs.CoverAverageHolding,
		Cyclic:              true,
	}
}

func setupStore(t *testing.T, cfgs ...*gobs.StrategyConfig) kv.Database {
	t.Helper()
	db := kvmemdb.New()
	setup := func(ctx context.Context, rw kv.ReadWriter) error {
		keys := []*gobs.KeyData{
			{UID: "key1", Name: "paper", APIKey: "alpha", SecretKey: "beta", Mode: "paper"},
			{UID: "badkey", Name: "broken", APIKey: "error-prone", SecretKey: "beta", Mode: "paper"},
		}
		for _, k := range keys {
			if err := keyring.Save(ctx, rw, k); err != nil {
				return err
			}
		}
		for _, cfg := range cfgs {
			if err := SaveConfig(ctx, rw, cfg); err != nil {
				return err
			}
		}
		return nil
	}
	if err := kv.WithReadWriter(context.Background(), db, setup); err != nil {
		t.Fatal(err)
	}
	return db
}

func waitFor(t *testing.T, what string, f func() bool) {
	t.Helper()
	for i := 0; i < 500; i++ {
		if f() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestStartValidation(t *testing.T) {
	ctx := context.Background()
	orphan := testConfig("s2")
	orphan.KeyID = "nokey"
	broken := testConfig("s3")
	broken.KeyID = "badkey"
	db := setupStore(t, testConfig("s1"), orphan, broken)
	tr := New(db, newFakeFeed("100"), &Options{PollInterval: time.Hour})
	defer tr.Close(ctx)

	if _, err := tr.Start(ctx, "missing"); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("start of unknown strategy = %v, want %v", err, os.ErrNotExist)
	}
	if _, err := tr.Start(ctx, "s2"); !errors.Is(err, os.ErrInvalid) {
		t.Fatalf("start with unknown key = %v, want %v", err, os.ErrInvalid)
	}
	if _, err := tr.Start(ctx, "s3"); !errors.Is(err, os.ErrInvalid) {
		t.Fatalf("start with failing key = %v, want %v", err, os.ErrInvalid)
	}

	// Validation failures must not leave runtime state behind.
	if _, err := tr.GetState(ctx, "s1"); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("state before first start = %v, want %v", err, os.ErrNotExist)
	}
	if _, err := tr.Stop(ctx, "s1"); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("stop before first start = %v, want %v", err, os.ErrNotExist)
	}
}

func TestStartStop(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig("s1")
	db := setupStore(t, cfg)
	feed := newFakeFeed("100")
	tr := New(db, feed, &Options{PollInterval: 10 * time.Millisecond})
	defer tr.Close(ctx)

	state, err := tr.Start(ctx, "s1")
	if err != nil {
		t.Fatal(err)
	}
	if !state.Running {
		t.Fatalf("state is not running after start")
	}
	if !state.ReferencePrice.Equal(d("100")) {
		t.Fatalf("reference price = %s, want 100", state.ReferencePrice)
	}

	feed.set("98")
	waitFor(t, "initial buy fill", func() bool {
		state, err := tr.GetState(ctx, "s1")
		if err != nil {
			t.Fatal(err)
		}
		return state.Quantity.Sign() > 0
	})

	state, err = tr.Stop(ctx, "s1")
	if err != nil {
		t.Fatal(err)
	}
	if state.Running {
		t.Fatalf("state still running after stop")
	}
	if state.Quantity.Sign() <= 0 {
		t.Fatalf("open position lost on stop")
	}

	statuses := tr.List(ctx)
	if len(statuses) != 1 || statuses[0].State != gobs.CANCELED || statuses[0].Running {
		t.Fatalf("list = %+v, want one canceled job", statuses[0])
	}

	// Stopping a stopped strategy returns the state without error.
	if _, err := tr.Stop(ctx, "s1"); err != nil {
		t.Fatal(err)
	}

	// The final snapshot is persisted for the db commands.
	check := func(ctx context.Context, r kv.Reader) error {
		saved, err := kvutil.Get[ledger.State](ctx, r, path.Join(StateKeyspace, "s1"))
		if err != nil {
			return err
		}
		if saved.Running {
			t.Fatalf("saved snapshot is still running")
		}
		if !saved.Quantity.Equal(state.Quantity) {
			t.Fatalf("saved quantity = %s, want %s", saved.Quantity, state.Quantity)
		}
		return nil
	}
	if err := kv.WithReader(ctx, db, check); err != nil {
		t.Fatal(err)
	}
}

func TestStartConflict(t *testing.T) {
	ctx := context.Background()
	db := setupStore(t, testConfig("s1"))
	tr := New(db, newFakeFeed("100"), &Options{PollInterval: time.Hour})
	defer tr.Close(ctx)

	if _, err := tr.Start(ctx, "s1"); err != nil {
		t.Fatal(err)
	}
	if _, err := tr.Start(ctx, "s1"); !errors.Is(err, os.ErrExist) {
		t.Fatalf("second start = %v, want %v", err, os.ErrExist)
	}
	if _, err := tr.Stop(ctx, "s1"); err != nil {
		t.Fatal(err)
	}
}

func TestPauseRecordsPausedJob(t *testing.T) {
	ctx := context.Background()
	db := setupStore(t, testConfig("s1"))
	tr := New(db, newFakeFeed("100"), &Options{PollInterval: time.Hour})
	defer tr.Close(ctx)

	if _, err := tr.Start(ctx, "s1"); err != nil {
		t.Fatal(err)
	}
	state, err := tr.Pause(ctx, "s1")
	if err != nil {
		t.Fatal(err)
	}
	if state.Running {
		t.Fatalf("state still running after pause")
	}

	statuses := tr.List(ctx)
	if len(statuses) != 1 || statuses[0].State != gobs.PAUSED {
		t.Fatalf("list = %+v, want one paused job", statuses[0])
	}

	// A paused strategy restarts the same way a stopped one does.
	if _, err := tr.Start(ctx, "s1"); err != nil {
		t.Fatal(err)
	}
	if _, err := tr.Stop(ctx, "s1"); err != nil {
		t.Fatal(err)
	}
}

func TestOneShotRestart(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig("s1")
	cfg.Cyclic = false
	cfg.BuyTriggerFallPct = decimal.Zero
	db := setupStore(t, cfg)
	feed := newFakeFeed("100")
	tr := New(db, feed, &Options{PollInterval: 10 * time.Millisecond})
	defer tr.Close(ctx)

	if _, err := tr.Start(ctx, "s1"); err != nil {
		t.Fatal(err)
	}
	waitFor(t, "initial buy fill", func() bool {
		state, err := tr.GetState(ctx, "s1")
		if err != nil {
			t.Fatal(err)
		}
		return state.Quantity.Sign() > 0
	})

	// The profit sell on a non-cyclic strategy stops its own loop.
	feed.set("102")
	waitFor(t, "loop completion", func() bool {
		statuses := tr.List(ctx)
		return len(statuses) == 1 && statuses[0].State == gobs.COMPLETED
	})

	state, err := tr.GetState(ctx, "s1")
	if err != nil {
		t.Fatal(err)
	}
	if state.Running {
		t.Fatalf("state still running after one-shot sell")
	}
	if !state.RealizedPNL.Equal(d("2")) {
		t.Fatalf("realized pnl = %s, want 2", state.RealizedPNL)
	}
	if state.Quantity.Sign() != 0 {
		t.Fatalf("quantity = %s, want 0", state.Quantity)
	}

	// Restarting reuses the runtime state and reseeds the reference price
	// because the position is flat.
	state, err = tr.Start(ctx, "s1")
	if err != nil {
		t.Fatal(err)
	}
	if !state.Running {
		t.Fatalf("state not running after restart")
	}
	if !state.ReferencePrice.Equal(d("102")) {
		t.Fatalf("reference price = %s, want 102", state.ReferencePrice)
	}
	if !state.RealizedPNL.Equal(d("2")) {
		t.Fatalf("realized pnl lost on restart: %s", state.RealizedPNL)
	}
	if _, err := tr.Stop(ctx, "s1"); err != nil {
		t.Fatal(err)
	}
}

func TestLoopRecordsPriceErrors(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig("s1")
	cfg.BuyTriggerFallPct = d("50")
	db := setupStore(t, cfg)
	feed := newFakeFeed("100")
	tr := New(db, feed, &Options{PollInterval: 10 * time.Millisecond})
	defer tr.Close(ctx)

	if _, err := tr.Start(ctx, "s1"); err != nil {
		t.Fatal(err)
	}

	feed.fail(errors.New("exchange is down"))
	waitFor(t, "price error", func() bool {
		state, err := tr.GetState(ctx, "s1")
		if err != nil {
			t.Fatal(err)
		}
		return strings.Contains(state.LastError, "could not fetch price")
	})

	state, err := tr.GetState(ctx, "s1")
	if err != nil {
		t.Fatal(err)
	}
	if !state.Running || state.Quantity.Sign() != 0 {
		t.Fatalf("price errors must not advance the strategy: %+v", state)
	}

	feed.set("100")
	if _, err := tr.Stop(ctx, "s1"); err != nil {
		t.Fatal(err)
	}
}

func TestClose(t *testing.T) {
	ctx := context.Background()
	db := setupStore(t, testConfig("s1"), testConfig("s2"))
	tr := New(db, newFakeFeed("100"), &Options{PollInterval: time.Hour})

	if _, err := tr.Start(ctx, "s1"); err != nil {
		t.Fatal(err)
	}
	if _, err := tr.Start(ctx, "s2"); err != nil {
		t.Fatal(err)
	}
	if err := tr.Close(ctx); err != nil {
		t.Fatal(err)
	}

	statuses := tr.List(ctx)
	if len(statuses) != 2 {
		t.Fatalf("list returned %d statuses, want 2", len(statuses))
	}
	for _, s := range statuses {
		if s.Running || s.State != gobs.CANCELED {
			t.Fatalf("status %+v, want canceled and not running", s)
		}
	}
}
