// Copyright (c) 2025 BVK Chaitanya

package server

import (
	"context"
	"fmt"

	"github.com/bvk/dcabot/api"
	"github.com/bvk/dcabot/gobs"
	"github.com/bvk/dcabot/trader"
	"github.com/bvkgo/kv"
	"github.com/visvasity/cli"
)

func (s *Server) doStatus(ctx context.Context, req *api.StatusRequest) (*api.StatusResponse, error) {
	var cfgs []*gobs.StrategyConfig
	load := func(ctx context.Context, r kv.Reader) error {
		vs, err := trader.ListConfigs(ctx, r)
		if err != nil {
			return err
		}
		cfgs = vs
		return nil
	}
	if err := kv.WithReader(ctx, s.db, load); err != nil {
		return nil, err
	}

	resp := new(api.StatusResponse)
	for _, cfg := range cfgs {
		item := &api.StatusStrategy{
			Strategy: cfg,
		}
		// Runtime state exists only for strategies started in this process
		// and the price feed can be temporarily unavailable. Neither failure
		// should hide the strategy from the overview.
		if state, err := s.trader.GetState(ctx, cfg.UID); err == nil {
			item.State = state
		}
		if price, err := s.src.GetPrice(ctx, cfg.ProductID); err == nil {
			item.Price = price
		}
		resp.Strategies = append(resp.Strategies, item)
	}
	return resp, nil
}

func (s *Server) statusTelegramCmd(ctx context.Context, args []string) error {
	resp, err := s.doStatus(ctx, &api.StatusRequest{})
	if err != nil {
		return err
	}
	stdout := cli.Stdout(ctx)
	if len(resp.Strategies) == 0 {
		fmt.Fprintln(stdout, "no strategies are configured")
		return nil
	}
	for _, v := range resp.Strategies {
		if v.State == nil {
			fmt.Fprintf(stdout, "%s %s: not started\n", v.Strategy.Name, v.Strategy.ProductID)
			continue
		}
		verb := "stopped"
		if v.State.Running {
			verb = "running"
		}
		fmt.Fprintf(stdout, "%s %s: %s holding %s profit %s\n",
			v.Strategy.Name, v.Strategy.ProductID, verb, v.State.Quantity, v.State.RealizedPNL.StringFixed(3))
	}
	return nil
}
