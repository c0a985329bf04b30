// Copyright (c) 2025 BVK Chaitanya

// Package feed defines the market data interface consumed by strategy
// loops. Implementations may talk to a real exchange or synthesize prices
// for paper trading.
package feed

import (
	"context"

	"github.com/shopspring/decimal"
)

// Source supplies current market prices.
type Source interface {
	// GetPrice returns the latest price of the given product, for example
	// "SUI-USDT". Implementations must be safe for concurrent use because
	// every strategy loop polls independently.
	GetPrice(ctx context.Context, productID string) (decimal.Decimal, error)
}
