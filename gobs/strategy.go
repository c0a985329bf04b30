// Copyright (c) 2025 BVK Chaitanya

package gobs

import (
	"github.com/shopspring/decimal"
)

// CoverReference selects the baseline price against which cover buys are
// evaluated.
type CoverReference string

const (
	CoverAverageHolding CoverReference = "average_holding"
	CoverLastBuy        CoverReference = "last_buy_price"
	CoverInitialEntry   CoverReference = "initial_price"
)

func (r CoverReference) IsValid() bool {
	switch r {
	case CoverAverageHolding, CoverLastBuy, CoverInitialEntry:
		return true
	}
	return false
}

// StrategyConfig holds the parameters of one averaging-down strategy. A
// config is written once when the strategy is created and is immutable for
// the lifetime of every run started from it.
//
// All percentage fields are plain percent values, i.e., 1.5 means 1.5%.
type StrategyConfig struct {
	UID string

	Name string

	// KeyID refers to the exchange credential used by the strategy.
	KeyID string

	ProductID string

	// InitialOrderAmount is the notional value of the first buy of a cycle.
	InitialOrderAmount decimal.Decimal

	BuyTriggerFallPct  decimal.Decimal
	BuyCallbackRisePct decimal.Decimal

	SellTriggerRisePct  decimal.Decimal
	SellCallbackFallPct decimal.Decimal

	// MaxCoverCount bounds the number of averaging-down buys per cycle.
	MaxCoverCount int

	// CoverMultiplier scales each successive cover buy; the n-th cover is
	// sized InitialOrderAmount * CoverMultiplier^n with n starting at zero.
	CoverMultiplier decimal.Decimal

	CoverTriggerFallPct  decimal.Decimal
	CoverCallbackRisePct decimal.Decimal

	CoverReference CoverReference

	// Cyclic re-arms the strategy for a new buy cycle after a full sell.
	// One-shot strategies stop themselves instead.
	Cyclic bool

	// IndividualSells tracks every buy fill as its own sub-position and
	// sells each one independently against its own entry price. When false
	// the whole position is sold as one block at the average entry price.
	IndividualSells bool
}
