// Copyright (c) 2025 BVK Chaitanya

package api

import (
	"github.com/bvk/dcabot/gobs"
	"github.com/bvk/dcabot/ledger"
	"github.com/shopspring/decimal"
)

const StatusPath = "/dcabot/status"

type StatusRequest struct {
}

// StatusStrategy pairs a strategy configuration with its runtime state.
type StatusStrategy struct {
	Strategy *gobs.StrategyConfig

	// State is nil when the strategy was never started in this process.
	State *ledger.State

	// Price is the current market price of the strategy's product. It is
	// zero when the price feed has no answer.
	Price decimal.Decimal
}

type StatusResponse struct {
	Strategies []*StatusStrategy
}
