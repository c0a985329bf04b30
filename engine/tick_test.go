// Copyright (c) 2025 BVK Chaitanya

package engine

import (
	"strings"
	"testing"

	"github.com/bvk/dcabot/gobs"
	"github.com/bvk/dcabot/ledger"
	"github.com/bvk/dcabot/trigger"
	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

// testConfig returns a config that buys immediately and takes profit on a
// 1% rise, with covers disabled. Tests adjust the fields they exercise.
func testConfig() *gobs.StrategyConfig {
	return &gobs.StrategyConfig{
		UID:                 "strategy1",
		Name:                "unit test",
		KeyID:               "key1",
		ProductID:           "SUI-USDT",
		InitialOrderAmount:  d("1000"),
		SellTriggerRisePct:  d("1"),
		CoverTriggerFallPct: d("5"),
		CoverMultiplier:     d("1"),
		CoverReference:      gobs.CoverAverageHolding,
		Cyclic:              true,
	}
}

func testState(reference string) *ledger.State {
	s := ledger.New("strategy1", "key1", "SUI-USDT")
	s.Running = true
	s.ReferencePrice = d(reference)
	return s
}

func tick(t *testing.T, cfg *gobs.StrategyConfig, state *ledger.State, price string) {
	t.Helper()
	if err := Tick(cfg, state, d(price)); err != nil {
		t.Fatal(err)
	}
	if err := state.Check(); err != nil {
		t.Fatal(err)
	}
}

func TestBuyTriggerSequence(t *testing.T) {
	cfg := testConfig()
	cfg.BuyTriggerFallPct = d("1")
	cfg.BuyCallbackRisePct = d("0.1")
	state := testState("100")

	tick(t, cfg, state, "99.5")
	if state.Quantity.Sign() != 0 || state.BuyTrack.State != trigger.Idle {
		t.Fatalf("0.5%% fall must not arm a 1%% trigger")
	}

	tick(t, cfg, state, "99.0")
	if state.Quantity.Sign() != 0 {
		t.Fatalf("arming tick must not buy")
	}
	if state.BuyTrack.State != trigger.Triggered || !state.BuyTrack.Anchor.Equal(d("99")) {
		t.Fatalf("buy track = %s at %s, want armed at 99", state.BuyTrack.State, state.BuyTrack.Anchor)
	}

	// 99.2 satisfies the 0.1% callback from 99 but no longer holds the 1%
	// fall against the reference, so the setup is discarded.
	tick(t, cfg, state, "99.2")
	if state.Quantity.Sign() != 0 {
		t.Fatalf("invalidated setup must not buy")
	}
	if state.BuyTrack.State != trigger.Idle || !state.BuyTrack.Anchor.IsZero() {
		t.Fatalf("buy track = %s at %s, want idle", state.BuyTrack.State, state.BuyTrack.Anchor)
	}
}

func TestImmediateBuyThenSell(t *testing.T) {
	cfg := testConfig()
	state := testState("100")

	tick(t, cfg, state, "100")
	if !state.Quantity.Equal(d("10")) || !state.AverageEntryPrice.Equal(d("100")) {
		t.Fatalf("quantity = %s @ %s, want 10 @ 100", state.Quantity, state.AverageEntryPrice)
	}

	// A 1% rise with a zero callback sells on the same tick it triggers.
	tick(t, cfg, state, "101")
	if state.Quantity.Sign() != 0 {
		t.Fatalf("position must be closed, quantity = %s", state.Quantity)
	}
	if !state.RealizedPNL.Equal(d("10")) {
		t.Fatalf("realized = %s, want 10", state.RealizedPNL)
	}
	if !state.Running {
		t.Fatalf("cyclic strategy must keep running after a sell")
	}

	// The cyclic rearm buys against the original reference price.
	tick(t, cfg, state, "100")
	if !state.Quantity.Equal(d("10")) {
		t.Fatalf("cyclic strategy must open a new cycle, quantity = %s", state.Quantity)
	}
}

func TestOneShotHaltsAfterSell(t *testing.T) {
	cfg := testConfig()
	cfg.Cyclic = false
	state := testState("100")

	tick(t, cfg, state, "100")
	tick(t, cfg, state, "101")
	if state.Running {
		t.Fatalf("one-shot strategy must stop after the sell")
	}

	// A stopped state ignores further ticks.
	tick(t, cfg, state, "90")
	if state.Quantity.Sign() != 0 || state.BuyTrack.State == trigger.Triggered {
		t.Fatalf("stopped strategy must not trade")
	}
}

func TestIndividualSellsFireTogether(t *testing.T) {
	cfg := testConfig()
	cfg.IndividualSells = true
	state := testState("100")
	if err := state.FillInitialBuy(d("100"), d("500"), true); err != nil {
		t.Fatal(err)
	}
	if err := state.FillCoverBuy(d("90"), d("450"), true); err != nil {
		t.Fatal(err)
	}

	// 101 is at least 1% above both entries, so both sub-positions close on
	// the same tick.
	tick(t, cfg, state, "101")
	if len(state.Positions) != 0 || state.Quantity.Sign() != 0 {
		t.Fatalf("positions = %d, quantity = %s", len(state.Positions), state.Quantity)
	}
	if !state.RealizedPNL.Equal(d("60")) {
		t.Fatalf("realized = %s, want 60", state.RealizedPNL)
	}
	if !state.Running {
		t.Fatalf("cyclic strategy must keep running")
	}
}

func TestIndividualSellsFireIndependently(t *testing.T) {
	cfg := testConfig()
	cfg.IndividualSells = true
	state := testState("100")
	if err := state.FillInitialBuy(d("100"), d("500"), true); err != nil {
		t.Fatal(err)
	}
	if err := state.FillCoverBuy(d("90"), d("450"), true); err != nil {
		t.Fatal(err)
	}

	// 95 closes only the 90-entry position.
	tick(t, cfg, state, "95")
	if len(state.Positions) != 1 || !state.Positions[0].EntryPrice.Equal(d("100")) {
		t.Fatalf("only the 90-entry position must close")
	}
	if !state.RealizedPNL.Equal(d("25")) {
		t.Fatalf("realized = %s, want 25", state.RealizedPNL)
	}
	if !state.AverageEntryPrice.Equal(d("100")) {
		t.Fatalf("average = %s, want 100 after rebalance", state.AverageEntryPrice)
	}

	tick(t, cfg, state, "101")
	if len(state.Positions) != 0 || state.Quantity.Sign() != 0 {
		t.Fatalf("remaining position must close at 101")
	}
	if !state.RealizedPNL.Equal(d("30")) {
		t.Fatalf("realized = %s, want 30", state.RealizedPNL)
	}
}

func TestCoverLadder(t *testing.T) {
	cfg := testConfig()
	cfg.MaxCoverCount = 3
	cfg.CoverMultiplier = d("2")
	state := testState("100")

	tick(t, cfg, state, "100")
	if !state.TotalInvested.Equal(d("1000")) {
		t.Fatalf("invested = %s, want 1000", state.TotalInvested)
	}

	// Each 5% fall from the running average buys a cover of twice the
	// previous notional: 1000, 2000 and 4000 on top of the initial 1000.
	for i, c := range []struct{ price, invested string }{
		{"95", "2000"},
		{"92", "4000"},
		{"89", "8000"},
	} {
		tick(t, cfg, state, c.price)
		if !state.TotalInvested.Equal(d(c.invested)) {
			t.Fatalf("cover %d: invested = %s, want %s", i+1, state.TotalInvested, c.invested)
		}
		if state.CoverCount != i+1 {
			t.Fatalf("cover %d: count = %d", i+1, state.CoverCount)
		}
		if !state.LastBuyPrice.Equal(d(c.price)) {
			t.Fatalf("cover %d: last buy = %s, want %s", i+1, state.LastBuyPrice, c.price)
		}
	}

	// The cover count limit holds no matter how far the price falls.
	tick(t, cfg, state, "80")
	if state.CoverCount != 3 || !state.TotalInvested.Equal(d("8000")) {
		t.Fatalf("cover cap exceeded: count = %d, invested = %s", state.CoverCount, state.TotalInvested)
	}
}

func TestCoverAmount(t *testing.T) {
	cfg := testConfig()
	cfg.InitialOrderAmount = d("100")
	cfg.CoverMultiplier = d("2")
	for n, want := range []string{"100", "200", "400", "800"} {
		if got := CoverAmount(cfg, n); !got.Equal(d(want)) {
			t.Fatalf("cover %d: amount = %s, want %s", n, got, want)
		}
	}
	cfg.CoverMultiplier = d("1")
	if got := CoverAmount(cfg, 5); !got.Equal(d("100")) {
		t.Fatalf("amount = %s, want 100", got)
	}
}

func TestCoverAfterPartialSell(t *testing.T) {
	cfg := testConfig()
	cfg.IndividualSells = true
	cfg.InitialOrderAmount = d("100")
	cfg.MaxCoverCount = 2
	cfg.CoverTriggerFallPct = d("1")
	cfg.CoverReference = gobs.CoverLastBuy
	state := testState("100")
	if err := state.FillInitialBuy(d("100"), d("100"), true); err != nil {
		t.Fatal(err)
	}
	if err := state.FillCoverBuy(d("200"), d("100"), true); err != nil {
		t.Fatal(err)
	}

	// 101 closes the 100-entry position and, on the same tick, is far
	// enough below the last buy at 200 to fill the next cover.
	tick(t, cfg, state, "101")
	if !state.RealizedPNL.Equal(d("1")) {
		t.Fatalf("realized = %s, want 1", state.RealizedPNL)
	}
	if state.CoverCount != 2 {
		t.Fatalf("cover count = %d, want 2", state.CoverCount)
	}
	if len(state.Positions) != 2 {
		t.Fatalf("positions = %d, want 2", len(state.Positions))
	}
	if !state.LastBuyPrice.Equal(d("101")) {
		t.Fatalf("last buy = %s, want 101", state.LastBuyPrice)
	}
}

func TestCoverInvalidatesSellSetup(t *testing.T) {
	cfg := testConfig()
	cfg.InitialOrderAmount = d("100")
	cfg.SellCallbackFallPct = d("0.5")
	cfg.MaxCoverCount = 2
	cfg.CoverReference = gobs.CoverLastBuy
	state := testState("100")
	if err := state.FillInitialBuy(d("100"), d("100"), false); err != nil {
		t.Fatal(err)
	}
	if err := state.FillCoverBuy(d("200"), d("100"), false); err != nil {
		t.Fatal(err)
	}

	// 135 arms the sell against the 133.33 average and then fills a cover
	// against the 200 last-buy reference, which moves the cost basis and
	// discards the armed sell setup.
	tick(t, cfg, state, "135")
	if state.CoverCount != 2 {
		t.Fatalf("cover count = %d, want 2", state.CoverCount)
	}
	if state.SellTrack.State != trigger.Idle || !state.SellTrack.Anchor.IsZero() {
		t.Fatalf("cover must reset the armed sell track, got %s at %s", state.SellTrack.State, state.SellTrack.Anchor)
	}
}

func TestBuyZeroPriceGuard(t *testing.T) {
	cfg := testConfig()
	state := testState("100")

	tick(t, cfg, state, "0")
	if state.Quantity.Sign() != 0 {
		t.Fatalf("zero price must not open a position")
	}
	if !strings.Contains(state.LastError, "initial buy failed") {
		t.Fatalf("last error = %q", state.LastError)
	}
	if !state.Running {
		t.Fatalf("a rejected fill must not stop the strategy")
	}

	// The next valid tick recovers and clears the error.
	tick(t, cfg, state, "100")
	if state.Quantity.Sign() == 0 || state.LastError != "" {
		t.Fatalf("quantity = %s, last error = %q", state.Quantity, state.LastError)
	}
}

func TestCoverZeroPriceGuard(t *testing.T) {
	cfg := testConfig()
	cfg.InitialOrderAmount = d("100")
	cfg.MaxCoverCount = 1
	cfg.CoverTriggerFallPct = d("0")
	state := testState("100")
	if err := state.FillInitialBuy(d("100"), d("100"), false); err != nil {
		t.Fatal(err)
	}

	tick(t, cfg, state, "0")
	if state.CoverCount != 0 {
		t.Fatalf("zero price must not fill a cover")
	}
	if !strings.Contains(state.LastError, "cover buy failed") {
		t.Fatalf("last error = %q", state.LastError)
	}
	if !state.Quantity.Equal(d("1")) {
		t.Fatalf("quantity = %s, want 1", state.Quantity)
	}
}

func TestNotRunningIgnoresTicks(t *testing.T) {
	cfg := testConfig()
	state := testState("100")
	state.Running = false

	tick(t, cfg, state, "50")
	if state.Quantity.Sign() != 0 || state.BuyTrack.State == trigger.Triggered {
		t.Fatalf("paused state must not trade")
	}
}

func TestBuyFallsBackToCurrentPrice(t *testing.T) {
	cfg := testConfig()
	state := testState("0")

	// With no recorded reference the current price is the baseline, so the
	// immediate-buy config fills right away.
	tick(t, cfg, state, "42")
	if !state.AverageEntryPrice.Equal(d("42")) {
		t.Fatalf("average = %s, want 42", state.AverageEntryPrice)
	}
}
