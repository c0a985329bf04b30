// Copyright (c) 2025 BVK Chaitanya

// Package strategy implements the strategy management subcommands.
package strategy

import (
	"flag"
	"fmt"

	"github.com/bvk/dcabot/api"
	"github.com/shopspring/decimal"
)

// paramsFlags holds the strategy parameter flags shared by the add and
// update commands.
type paramsFlags struct {
	name    string
	key     string
	product string

	initialAmount float64

	buyTriggerPct  float64
	buyCallbackPct float64

	sellTriggerPct  float64
	sellCallbackPct float64

	maxCovers        int
	coverMultiplier  float64
	coverTriggerPct  float64
	coverCallbackPct float64
	coverReference   string

	nonCyclic       bool
	individualSells bool
}

func (p *paramsFlags) SetFlags(fset *flag.FlagSet) {
	fset.StringVar(&p.name, "name", "", "display name for the strategy")
	fset.StringVar(&p.key, "key", "", "uid of the exchange key to trade with")
	fset.StringVar(&p.product, "product", "", "product id for the trade, eg. BTC-USDT")
	fset.Float64Var(&p.initialAmount, "initial-amount", 0, "notional amount for the first buy of a cycle")
	fset.Float64Var(&p.buyTriggerPct, "buy-trigger-pct", 0, "price fall percentage that arms the initial buy")
	fset.Float64Var(&p.buyCallbackPct, "buy-callback-pct", 0, "price rise percentage off the low that fires the buy")
	fset.Float64Var(&p.sellTriggerPct, "sell-trigger-pct", 0, "price rise percentage that arms the profit sell")
	fset.Float64Var(&p.sellCallbackPct, "sell-callback-pct", 0, "price fall percentage off the high that fires the sell")
	fset.IntVar(&p.maxCovers, "max-covers", 0, "max number of averaging-down buys per cycle")
	fset.Float64Var(&p.coverMultiplier, "cover-multiplier", 1, "size multiplier for each successive cover buy")
	fset.Float64Var(&p.coverTriggerPct, "cover-trigger-pct", 0, "price fall percentage that arms a cover buy")
	fset.Float64Var(&p.coverCallbackPct, "cover-callback-pct", 0, "price rise percentage off the low that fires the cover")
	fset.StringVar(&p.coverReference, "cover-reference", "average_holding", "baseline for cover falls, one of average_holding|last_buy_price|initial_price")
	fset.BoolVar(&p.nonCyclic, "non-cyclic", false, "when true the strategy stops after one buy-sell cycle")
	fset.BoolVar(&p.individualSells, "individual-sells", false, "when true every buy fill is sold on its own entry price")
}

func (p *paramsFlags) check() error {
	if len(p.name) == 0 {
		return fmt.Errorf("strategy name cannot be empty")
	}
	if len(p.key) == 0 {
		return fmt.Errorf("key uid cannot be empty")
	}
	if len(p.product) == 0 {
		return fmt.Errorf("product id cannot be empty")
	}
	if p.initialAmount <= 0 {
		return fmt.Errorf("initial amount cannot be zero or negative")
	}
	if p.sellTriggerPct <= 0 {
		return fmt.Errorf("sell trigger percentage must be positive")
	}
	if p.coverTriggerPct <= 0 {
		return fmt.Errorf("cover trigger percentage must be positive")
	}
	return nil
}

func (p *paramsFlags) params() *api.StrategyParams {
	cyclic := !p.nonCyclic
	return &api.StrategyParams{
		Name:                 p.name,
		KeyID:                p.key,
		ProductID:            p.product,
		InitialOrderAmount:   decimal.NewFromFloat(p.initialAmount),
		BuyTriggerFallPct:    decimal.NewFromFloat(p.buyTriggerPct),
		BuyCallbackRisePct:   decimal.NewFromFloat(p.buyCallbackPct),
		SellTriggerRisePct:   decimal.NewFromFloat(p.sellTriggerPct),
		SellCallbackFallPct:  decimal.NewFromFloat(p.sellCallbackPct),
		MaxCoverCount:        p.maxCovers,
		CoverMultiplier:      decimal.NewFromFloat(p.coverMultiplier),
		CoverTriggerFallPct:  decimal.NewFromFloat(p.coverTriggerPct),
		CoverCallbackRisePct: decimal.NewFromFloat(p.coverCallbackPct),
		CoverReference:       p.coverReference,
		Cyclic:               &cyclic,
		IndividualSells:      p.individualSells,
	}
}
