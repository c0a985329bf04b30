// Copyright (c) 2025 BVK Chaitanya

package trader

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bvk/dcabot/ctxutil"
	"github.com/bvk/dcabot/engine"
	"github.com/bvk/dcabot/gobs"
	"github.com/bvk/dcabot/ledger"
	"github.com/shopspring/decimal"
)

// tickSummary captures the parts of a strategy state that notifications are
// derived from. Comparing the summaries from before and after a tick tells
// us which fills happened during it.
type tickSummary struct {
	flat       bool
	coverCount int
	realized   decimal.Decimal
	running    bool
}

func summarize(state *ledger.State) tickSummary {
	return tickSummary{
		flat:       state.Quantity.Sign() == 0,
		coverCount: state.CoverCount,
		realized:   state.RealizedPNL,
		running:    state.Running,
	}
}

// run is the body of one strategy job. Each iteration fetches a price,
// advances the engine by one tick under the entry lock and checkpoints the
// resulting state. Price fetch failures are recorded and retried; an engine
// failure stops this strategy alone. The cleanup marks the state not
// running no matter how the loop exits.
func (t *Trader) run(ctx context.Context, e *entry, cfg *gobs.StrategyConfig) (status error) {
	slog.InfoContext(ctx, "strategy loop started", "uid", e.uid, "product", cfg.ProductID, "interval", t.opts.PollInterval)
	defer func() {
		e.mu.Lock()
		e.state.Running = false
		e.mu.Unlock()
		if snapshot, err := e.snapshot(); err == nil {
			if err := t.checkpoint(context.Background(), snapshot); err != nil {
				slog.WarnContext(ctx, "could not save final strategy state (ignored)", "uid", e.uid, "err", err)
			}
		}
		slog.InfoContext(ctx, "strategy loop stopped", "uid", e.uid, "status", status)
	}()

	for ; ; ctxutil.Sleep(ctx, t.opts.PollInterval) {
		if ctx.Err() != nil {
			e.mu.Lock()
			e.state.Running = false
			e.state.LastError = "strategy loop canceled"
			e.mu.Unlock()
			return context.Cause(ctx)
		}

		e.mu.Lock()
		running := e.state.Running
		e.mu.Unlock()
		if !running {
			// Stopped externally or by a non-cyclic sell.
			return nil
		}

		price, err := t.src.GetPrice(ctx, cfg.ProductID)
		if err != nil {
			if ctx.Err() == nil {
				e.mu.Lock()
				e.state.LastError = fmt.Sprintf("could not fetch price: %v", err)
				e.mu.Unlock()
				slog.WarnContext(ctx, "could not fetch price (will retry)", "uid", e.uid, "product", cfg.ProductID, "err", err)
			}
			continue
		}

		e.mu.Lock()
		if e.state.Quantity.Sign() == 0 && e.state.ReferencePrice.IsZero() {
			e.state.ReferencePrice = price
		}
		before := summarize(e.state)
		tickErr := engine.Tick(cfg, e.state, price)
		if tickErr != nil {
			e.state.Running = false
			e.state.LastError = fmt.Sprintf("critical loop error: %v", tickErr)
		}
		after := summarize(e.state)
		e.mu.Unlock()

		if tickErr != nil {
			slog.ErrorContext(ctx, "strategy loop failed", "uid", e.uid, "err", tickErr)
			return tickErr
		}

		t.notify(ctx, cfg, before, after)

		if snapshot, err := e.snapshot(); err == nil {
			if err := t.checkpoint(ctx, snapshot); err != nil {
				slog.WarnContext(ctx, "could not save strategy state (ignored; will retry)", "uid", e.uid, "err", err)
			}
		}
	}
}

// notify sends one message per fill or stop observed between two tick
// summaries. Notification failures are logged and dropped; they never
// affect the strategy loop.
func (t *Trader) notify(ctx context.Context, cfg *gobs.StrategyConfig, before, after tickSummary) {
	t.mu.Lock()
	notifier := t.notifier
	t.mu.Unlock()
	if notifier == nil {
		return
	}

	var lines []string
	switch {
	case before.flat && !after.flat:
		lines = append(lines, fmt.Sprintf("%s: opened a %s position worth %s", cfg.Name, cfg.ProductID, cfg.InitialOrderAmount.StringFixed(2)))
	case after.coverCount > before.coverCount:
		lines = append(lines, fmt.Sprintf("%s: cover buy %d filled on %s", cfg.Name, after.coverCount, cfg.ProductID))
	}
	if diff := after.realized.Sub(before.realized); !diff.IsZero() {
		lines = append(lines, fmt.Sprintf("%s: sold %s for %s profit (%s total)", cfg.Name, cfg.ProductID, diff.StringFixed(2), after.realized.StringFixed(2)))
	}
	if before.running && !after.running {
		lines = append(lines, fmt.Sprintf("%s: strategy on %s has stopped", cfg.Name, cfg.ProductID))
	}

	for _, line := range lines {
		if err := notifier.SendMessage(ctx, time.Now(), line); err != nil {
			slog.WarnContext(ctx, "could not send notification (ignored)", "err", err)
		}
	}
}
