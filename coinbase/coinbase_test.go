// Copyright (c) 2025 BVK Chaitanya

package coinbase

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
)

var upgrader = websocket.Upgrader{}

// serveTickers upgrades the connection, acks the first subscribe request
// and then streams ticker messages for the subscribed products until the
// client goes away.
func serveTickers(t *testing.T, w http.ResponseWriter, r *http.Request, price string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	sub := new(Message)
	if err := conn.ReadJSON(sub); err != nil {
		return
	}
	if sub.Type != "subscribe" || len(sub.ProductIDs) == 0 {
		t.Errorf("unexpected first message: %+v", sub)
		return
	}
	ack := &Message{Type: "subscriptions", Channels: sub.Channels}
	if err := conn.WriteJSON(ack); err != nil {
		return
	}

	for i := 0; ; i++ {
		for _, id := range sub.ProductIDs {
			tick := &Message{
				Type:      "ticker",
				ProductID: id,
				Price:     decimal.RequireFromString(price),
				Sequence:  int64(i),
				Time:      time.Now().UTC().Format(time.RFC3339),
			}
			if err := conn.WriteJSON(tick); err != nil {
				return
			}
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestGetPrice(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		serveTickers(t, w, r, "60000.5")
	}
	server := httptest.NewServer(http.HandlerFunc(handler))
	defer server.Close()

	feed := New(&Options{
		WebsocketURL:           "ws" + strings.TrimPrefix(server.URL, "http"),
		WebsocketRetryInterval: 50 * time.Millisecond,
	})
	defer feed.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	price, err := feed.GetPrice(ctx, "BTC-USD")
	if err != nil {
		t.Fatal(err)
	}
	if want := decimal.RequireFromString("60000.5"); !price.Equal(want) {
		t.Fatalf("price = %s, want %s", price, want)
	}

	// Later reads return the last price without waiting on the feed.
	price, err = feed.GetPrice(ctx, "BTC-USD")
	if err != nil {
		t.Fatal(err)
	}
	if price.Sign() <= 0 {
		t.Fatalf("cached price = %s, want positive", price)
	}
}

func TestReconnect(t *testing.T) {
	var conns atomic.Int64
	handler := func(w http.ResponseWriter, r *http.Request) {
		if conns.Add(1) == 1 {
			// Drop the first connection right away to force a retry.
			if conn, err := upgrader.Upgrade(w, r, nil); err == nil {
				conn.Close()
			}
			return
		}
		serveTickers(t, w, r, "1.5")
	}
	server := httptest.NewServer(http.HandlerFunc(handler))
	defer server.Close()

	feed := New(&Options{
		WebsocketURL:           "ws" + strings.TrimPrefix(server.URL, "http"),
		WebsocketRetryInterval: 50 * time.Millisecond,
	})
	defer feed.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	price, err := feed.GetPrice(ctx, "SUI-USD")
	if err != nil {
		t.Fatal(err)
	}
	if want := decimal.RequireFromString("1.5"); !price.Equal(want) {
		t.Fatalf("price = %s, want %s", price, want)
	}
	if n := conns.Load(); n < 2 {
		t.Fatalf("server saw %d connections, want at least 2", n)
	}
}

func TestClosedFeedFailsGetPrice(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		serveTickers(t, w, r, "100")
	}))
	defer server.Close()

	feed := New(&Options{
		WebsocketURL:           "ws" + strings.TrimPrefix(server.URL, "http"),
		WebsocketRetryInterval: 50 * time.Millisecond,
	})
	if err := feed.Close(); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if _, err := feed.GetPrice(ctx, "ETH-USD"); !errors.Is(err, os.ErrClosed) {
		t.Fatalf("GetPrice on a closed feed = %v, want %v", err, os.ErrClosed)
	}
}
