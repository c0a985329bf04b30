// Copyright (c) 2025 BVK Chaitanya

// Package simfeed implements a random-walk price feed for paper trading.
// Prices drift a bounded percentage per observation, with tighter bounds
// for higher-priced products, and never fall below a penny.
package simfeed

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

var (
	one      = decimal.NewFromInt(1)
	ten      = decimal.NewFromInt(10)
	minPrice = decimal.New(1, -2)
)

// Feed is an in-memory price source. Products observed for the first time
// are registered at a price of one and walk from there.
type Feed struct {
	mu  sync.Mutex
	rng *rand.Rand

	priceMap map[string]decimal.Decimal
}

// New returns a feed preloaded with a few well-known products.
func New() *Feed {
	return &Feed{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
		priceMap: map[string]decimal.Decimal{
			"SUI-USDT": decimal.NewFromFloat(1.5),
			"BTC-USDT": decimal.NewFromInt(60000),
			"ETH-USDT": decimal.NewFromInt(4000),
		},
	}
}

// GetPrice advances the product's random walk by one step and returns the
// new price. It never fails.
func (f *Feed) GetPrice(ctx context.Context, productID string) (decimal.Decimal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	price, ok := f.priceMap[productID]
	if !ok {
		price = one
	}

	move := (f.rng.Float64()*2 - 1) * maxMovePct(price)
	next := price.Mul(decimal.NewFromFloat(1 + move))
	if next.LessThan(minPrice) {
		next = minPrice
	}
	f.priceMap[productID] = next
	return next, nil
}

// maxMovePct returns the per-observation move bound as a fraction. Cheap
// products are allowed bigger swings so that percentage triggers remain
// exercisable at any price level.
func maxMovePct(price decimal.Decimal) float64 {
	switch {
	case price.LessThan(one):
		return 0.05
	case price.LessThan(ten):
		return 0.02
	}
	return 0.005
}
