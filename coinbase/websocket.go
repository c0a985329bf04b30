// Copyright (c) 2025 BVK Chaitanya

package coinbase

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"slices"
	"time"

	"github.com/bvk/dcabot/ctxutil"
	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
)

// Message is the envelope of the public exchange feed. Subscribe requests
// and every server message share it; unused fields stay at their zero
// values.
type Message struct {
	Type string `json:"type"`

	// Message holds the description when Type is "error".
	Message string `json:"message"`
	Reason  string `json:"reason"`

	ProductIDs []string `json:"product_ids"`
	Channels   []string `json:"channels"`

	// Ticker fields.
	ProductID string          `json:"product_id"`
	Price     decimal.Decimal `json:"price"`
	Time      string          `json:"time"`
	Sequence  int64           `json:"sequence"`
}

func subscribeMsg(products []string) *Message {
	return &Message{
		Type:       "subscribe",
		ProductIDs: products,
		Channels:   []string{"ticker"},
	}
}

func (f *Feed) dial(ctx context.Context) (*websocket.Conn, error) {
	var dialer websocket.Dialer
	conn, _, err := dialer.DialContext(ctx, f.opts.WebsocketURL, nil)
	if err != nil {
		slog.ErrorContext(ctx, "could not dial to websocket feed", "url", f.opts.WebsocketURL, "err", err)
		return nil, err
	}
	return conn, nil
}

func readMessage(ctx context.Context, conn *websocket.Conn) (*Message, error) {
	stopc := make(chan struct{})
	stop := context.AfterFunc(ctx, func() {
		conn.SetReadDeadline(time.Now())
		close(stopc)
	})

	_, msg, err := conn.ReadMessage()
	if !stop() {
		// The AfterFunc has started. Wait for it to complete and reset the
		// conn's deadline.
		<-stopc
		conn.SetReadDeadline(time.Time{})
		return nil, context.Cause(ctx)
	}
	if err != nil {
		return nil, err
	}

	m := new(Message)
	if err := json.Unmarshal(msg, m); err != nil {
		slog.Error("could not unmarshal websocket message", "err", err)
		return nil, err
	}
	if m.Type == "error" {
		slog.Warn("received a websocket error message", "message", m.Message, "reason", m.Reason)
		return nil, errors.New(m.Message)
	}
	return m, nil
}

// goWatch keeps one websocket connection alive for the lifetime of the
// feed, redialing after failures.
func (f *Feed) goWatch(ctx context.Context) {
	for ctx.Err() == nil {
		f.dirty.Store(true)
		if err := f.dispatch(ctx); err != nil && ctx.Err() == nil {
			slog.WarnContext(ctx, "websocket feed has failed (will retry)", "err", err)
			ctxutil.Sleep(ctx, f.opts.WebsocketRetryInterval)
			continue
		}
		break
	}
}

// dispatch runs one websocket connection: it subscribes to the products
// requested so far, resyncs subscriptions whenever new products appear and
// routes ticker messages to their product topics. Returns when the
// connection fails or the context is canceled.
func (f *Feed) dispatch(ctx context.Context) error {
	conn, err := f.dial(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	var subscribed []string
	for ctx.Err() == nil {
		if f.dirty.Load() {
			want := f.products()
			var fresh []string
			for _, id := range want {
				if !slices.Contains(subscribed, id) {
					fresh = append(fresh, id)
				}
			}
			if len(fresh) > 0 {
				if err := f.limiter.Wait(ctx); err != nil {
					return err
				}
				if err := conn.WriteJSON(subscribeMsg(fresh)); err != nil {
					slog.ErrorContext(ctx, "could not subscribe to ticker channel", "products", fresh, "err", err)
					return err
				}
				slog.InfoContext(ctx, "subscribed to ticker channel", "products", fresh)
			}
			subscribed = want
		}

		msg, err := readMessage(ctx, conn)
		if err != nil {
			if ctx.Err() == nil {
				slog.ErrorContext(ctx, "closing the websocket connection", "err", err)
			}
			return err
		}
		f.handleMessage(msg)
	}
	return context.Cause(ctx)
}

func (f *Feed) handleMessage(msg *Message) {
	switch msg.Type {
	case "ticker":
		if p, ok := f.productMap.Load(msg.ProductID); ok {
			p.update(msg.Price)
		}
	case "subscriptions", "heartbeat":
		// Acknowledgments and keepalives carry no price data.
	default:
		slog.Debug("ignoring websocket message", "type", msg.Type)
	}
}
