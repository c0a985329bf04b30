// Copyright (c) 2025 BVK Chaitanya

// Package server implements the dcabot control api. It owns the strategy
// scheduler and the optional telegram client and exposes every api
// operation as an http handler.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/bvk/dcabot/api"
	"github.com/bvk/dcabot/feed"
	"github.com/bvk/dcabot/telegram"
	"github.com/bvk/dcabot/trader"
	"github.com/bvkgo/kv"
)

type Options struct {
	// PollInterval overrides the default polling interval of the strategy
	// loops.
	PollInterval time.Duration
}

type Server struct {
	opts Options

	db kv.Database

	src feed.Source

	trader *trader.Trader

	telegramClient *telegram.Client
}

// New creates the dcabot service over the given database and price source.
// When the secrets carry a telegram configuration the telegram client is
// connected and wired up as the trade notifier.
func New(ctx context.Context, secrets *Secrets, db kv.Database, src feed.Source, opts *Options) (_ *Server, status error) {
	if opts == nil {
		opts = new(Options)
	}

	s := &Server{
		opts: *opts,
		db:   db,
		src:  src,
		trader: trader.New(db, src, &trader.Options{
			PollInterval: opts.PollInterval,
		}),
	}
	defer func() {
		if status != nil {
			s.trader.Close(ctx)
		}
	}()

	if secrets != nil && secrets.Telegram != nil {
		tc, err := telegram.New(ctx, db, secrets.Telegram)
		if err != nil {
			return nil, fmt.Errorf("could not create telegram client: %w", err)
		}
		s.telegramClient = tc
		s.trader.SetNotifier(tc)

		if err := s.AddTelegramCommand(ctx, "status", "Prints all strategies with their positions", s.statusTelegramCmd); err != nil {
			slog.WarnContext(ctx, "could not add telegram status command (ignored)", "err", err)
		}
	}
	return s, nil
}

// Close stops all running strategies and disconnects the telegram client.
func (s *Server) Close(ctx context.Context) error {
	if err := s.trader.Close(ctx); err != nil {
		return err
	}
	if s.telegramClient != nil {
		s.telegramClient.Close()
	}
	return nil
}

// HandlerMap returns all api handlers, keyed by their url paths, for
// registration with the http server.
func (s *Server) HandlerMap() map[string]http.Handler {
	return map[string]http.Handler{
		api.StrategyAddPath:    httpPostJSONHandler(s.doStrategyAdd),
		api.StrategyGetPath:    httpPostJSONHandler(s.doStrategyGet),
		api.StrategyListPath:   httpPostJSONHandler(s.doStrategyList),
		api.StrategyUpdatePath: httpPostJSONHandler(s.doStrategyUpdate),
		api.StrategyRemovePath: httpPostJSONHandler(s.doStrategyRemove),
		api.StrategyStartPath:  httpPostJSONHandler(s.doStrategyStart),
		api.StrategyStopPath:   httpPostJSONHandler(s.doStrategyStop),
		api.StrategyPausePath:  httpPostJSONHandler(s.doStrategyPause),
		api.StrategyStatePath:  httpPostJSONHandler(s.doStrategyState),
		api.KeyAddPath:         httpPostJSONHandler(s.doKeyAdd),
		api.KeyGetPath:         httpPostJSONHandler(s.doKeyGet),
		api.KeyListPath:        httpPostJSONHandler(s.doKeyList),
		api.KeyRemovePath:      httpPostJSONHandler(s.doKeyRemove),
		api.JobListPath:        httpPostJSONHandler(s.doJobList),
		api.StatusPath:         httpPostJSONHandler(s.doStatus),
	}
}
