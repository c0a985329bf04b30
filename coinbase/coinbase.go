// Copyright (c) 2025 BVK Chaitanya

// Package coinbase implements a live price source over the public coinbase
// exchange websocket feed. One websocket connection carries ticker updates
// for every product requested through GetPrice; the connection is redialed
// and resubscribed automatically when it fails.
package coinbase

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bvk/dcabot/ctxutil"
	"github.com/bvk/dcabot/syncmap"
	"github.com/shopspring/decimal"
	"github.com/visvasity/topic"
	"golang.org/x/time/rate"
)

type Options struct {
	// WebsocketURL points at the public exchange feed. Tests override it
	// with a local server.
	WebsocketURL string

	// WebsocketRetryInterval is the wait before redialing a failed
	// websocket connection.
	WebsocketRetryInterval time.Duration

	// SubscribeRate bounds the subscribe messages sent per second.
	SubscribeRate rate.Limit
}

func (v *Options) setDefaults() {
	if v.WebsocketURL == "" {
		v.WebsocketURL = "wss://ws-feed.exchange.coinbase.com"
	}
	if v.WebsocketRetryInterval == 0 {
		v.WebsocketRetryInterval = 5 * time.Second
	}
	if v.SubscribeRate == 0 {
		v.SubscribeRate = 8
	}
}

// product carries the last observed price and a fan-out topic for callers
// awaiting the first ticker of a newly subscribed product.
type product struct {
	productID string

	topic *topic.Topic[decimal.Decimal]

	mu   sync.Mutex
	last decimal.Decimal
}

func newProduct(productID string) *product {
	return &product{
		productID: productID,
		topic:     topic.New[decimal.Decimal](),
	}
}

func (p *product) update(price decimal.Decimal) {
	if price.Sign() <= 0 {
		return
	}
	p.mu.Lock()
	p.last = price
	p.mu.Unlock()
	p.topic.Send(price)
}

func (p *product) lastPrice() (decimal.Decimal, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last, p.last.Sign() > 0
}

type Feed struct {
	opts Options

	cg ctxutil.CloseGroup

	limiter *rate.Limiter

	watchOnce sync.Once

	// mu guards productIDs, the full ordered set of products ever
	// requested. dirty tells the websocket goroutine to resync its
	// subscriptions with this set.
	mu         sync.Mutex
	productIDs []string
	dirty      atomic.Bool

	productMap syncmap.Map[string, *product]
}

// New creates a price feed over the public coinbase websocket. The
// websocket is dialed lazily when the first product is requested.
func New(opts *Options) *Feed {
	if opts == nil {
		opts = new(Options)
	}
	opts.setDefaults()
	return &Feed{
		opts:    *opts,
		limiter: rate.NewLimiter(opts.SubscribeRate, 1),
	}
}

// Close stops the websocket goroutine and interrupts pending GetPrice
// calls.
func (f *Feed) Close() error {
	f.cg.Close()
	return nil
}

// GetPrice returns the current ticker price for the product, subscribing to
// it on first use. The first call for a product blocks until its first
// ticker message arrives or the context expires; later calls return the
// most recent price immediately.
func (f *Feed) GetPrice(ctx context.Context, productID string) (decimal.Decimal, error) {
	p, loaded := f.productMap.LoadOrStore(productID, newProduct(productID))
	if !loaded {
		f.mu.Lock()
		f.productIDs = append(f.productIDs, productID)
		sort.Strings(f.productIDs)
		f.mu.Unlock()
		f.dirty.Store(true)
		f.watchOnce.Do(func() {
			f.cg.Go(f.goWatch)
		})
	}

	if last, ok := p.lastPrice(); ok {
		return last, nil
	}

	receiver, err := topic.Subscribe(p.topic, 1, true /* includeRecent */)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("could not subscribe for %q tickers: %w", productID, err)
	}
	defer receiver.Close()

	tickerCh, err := topic.ReceiveCh(receiver)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("could not receive %q tickers: %w", productID, err)
	}

	select {
	case <-ctx.Done():
		return decimal.Decimal{}, context.Cause(ctx)
	case <-f.cg.Context().Done():
		return decimal.Decimal{}, fmt.Errorf("price feed is closed: %w", os.ErrClosed)
	case price, ok := <-tickerCh:
		if !ok {
			return decimal.Decimal{}, fmt.Errorf("price feed is closed: %w", os.ErrClosed)
		}
		return price, nil
	}
}

// products returns a copy of the requested product set and clears the dirty
// flag.
func (f *Feed) products() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dirty.Store(false)
	ids := make([]string, len(f.productIDs))
	copy(ids, f.productIDs)
	return ids
}
