// Copyright (c) 2025 BVK Chaitanya

package api

import (
	"github.com/shopspring/decimal"
)

// StrategyParams carries the user-adjustable fields of a strategy
// configuration. It is shared by the add and update requests.
//
// All percentage fields are plain percent values, i.e., 1.5 means 1.5%.
type StrategyParams struct {
	Name string

	// KeyID identifies the exchange credential the strategy trades with.
	KeyID string

	ProductID string

	InitialOrderAmount decimal.Decimal

	BuyTriggerFallPct  decimal.Decimal
	BuyCallbackRisePct decimal.Decimal

	SellTriggerRisePct  decimal.Decimal
	SellCallbackFallPct decimal.Decimal

	MaxCoverCount int

	// CoverMultiplier defaults to one when left at zero.
	CoverMultiplier decimal.Decimal

	CoverTriggerFallPct  decimal.Decimal
	CoverCallbackRisePct decimal.Decimal

	// CoverReference defaults to "average_holding" when left empty.
	CoverReference string

	// Cyclic defaults to true when left unset.
	Cyclic *bool

	IndividualSells bool
}
