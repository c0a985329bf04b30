// Copyright (c) 2025 BVK Chaitanya

// Package engine holds the pure decision logic of the averaging-down
// strategy. Tick applies exactly one market price observation to a strategy
// state; it performs no I/O and never sleeps, which keeps the whole decision
// surface testable with scripted prices.
package engine

import (
	"fmt"

	"github.com/bvk/dcabot/gobs"
	"github.com/bvk/dcabot/ledger"
	"github.com/bvk/dcabot/trigger"
	"github.com/shopspring/decimal"
)

// Tick evaluates one market price against the strategy configuration and
// mutates the state with any fills the price produced. The order of checks
// within a tick is fixed:
//
//  1. Refresh the unrealized profit.
//  2. If flat, evaluate the initial buy against the reference price.
//  3. Otherwise evaluate sells, either per sub-position or aggregated.
//  4. Independently of 2 and 3, evaluate a cover buy while holding and
//     under the cover count limit.
//
// A fill rejected for a bad market price records the problem in LastError
// and ends the tick without an error. Tick itself fails only on evaluator
// misuse, which the strategy loop treats as fatal.
func Tick(cfg *gobs.StrategyConfig, state *ledger.State, price decimal.Decimal) error {
	if !state.Running {
		return nil
	}
	state.MarkPrice(price)

	if state.Quantity.Sign() == 0 {
		reference := state.ReferencePrice
		if reference.IsZero() {
			reference = price
		}
		fired, err := state.BuyTrack.Evaluate(price, reference, cfg.BuyTriggerFallPct, cfg.BuyCallbackRisePct, trigger.Down)
		if err != nil {
			return fmt.Errorf("could not evaluate buy condition: %w", err)
		}
		if fired {
			if err := state.FillInitialBuy(price, cfg.InitialOrderAmount, cfg.IndividualSells); err != nil {
				state.LastError = fmt.Sprintf("initial buy failed: %v", err)
				return nil
			}
			state.LastError = ""
		}
	} else if cfg.IndividualSells {
		var kept []*ledger.Position
		var sold bool
		for _, p := range state.Positions {
			fired, err := p.SellTrack.Evaluate(price, p.EntryPrice, cfg.SellTriggerRisePct, cfg.SellCallbackFallPct, trigger.Up)
			if err != nil {
				return fmt.Errorf("could not evaluate sell condition: %w", err)
			}
			if !fired {
				kept = append(kept, p)
				continue
			}
			state.FillPositionSell(p, price)
			state.LastError = ""
			sold = true
		}
		if sold {
			state.Positions = kept
			if state.RebalanceAfterSells() && !cfg.Cyclic {
				state.Running = false
			}
		}
	} else {
		fired, err := state.SellTrack.Evaluate(price, state.AverageEntryPrice, cfg.SellTriggerRisePct, cfg.SellCallbackFallPct, trigger.Up)
		if err != nil {
			return fmt.Errorf("could not evaluate sell condition: %w", err)
		}
		if fired {
			state.LastError = ""
			state.FillAggregateSell(price)
			if !cfg.Cyclic {
				state.Running = false
			}
		}
	}

	// The cover check runs on the same tick as the checks above, so a
	// partial individual sell can be followed immediately by a cover when
	// the price is depressed enough.
	if state.Quantity.Sign() > 0 && state.CoverCount < cfg.MaxCoverCount {
		reference := coverReference(cfg, state)
		if reference.Sign() > 0 {
			fired, err := state.CoverTrack.Evaluate(price, reference, cfg.CoverTriggerFallPct, cfg.CoverCallbackRisePct, trigger.Down)
			if err != nil {
				return fmt.Errorf("could not evaluate cover condition: %w", err)
			}
			if fired {
				amount := CoverAmount(cfg, state.CoverCount)
				if err := state.FillCoverBuy(price, amount, cfg.IndividualSells); err != nil {
					state.LastError = fmt.Sprintf("cover buy failed: %v", err)
					return nil
				}
				state.LastError = ""
			}
		}
	}
	return nil
}

// CoverAmount returns the notional size of the n-th cover buy, counted from
// zero. Each cover scales the initial order amount geometrically by the
// configured multiplier.
func CoverAmount(cfg *gobs.StrategyConfig, n int) decimal.Decimal {
	return cfg.InitialOrderAmount.Mul(cfg.CoverMultiplier.Pow(decimal.NewFromInt(int64(n))))
}

func coverReference(cfg *gobs.StrategyConfig, state *ledger.State) decimal.Decimal {
	switch cfg.CoverReference {
	case gobs.CoverLastBuy:
		return state.LastBuyPrice
	case gobs.CoverInitialEntry:
		return state.InitialEntryPrice
	}
	return state.AverageEntryPrice
}
