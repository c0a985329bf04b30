// Copyright (c) 2025 BVK Chaitanya

package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/bvk/dcabot/api"
	"github.com/bvk/dcabot/gobs"
	"github.com/bvk/dcabot/keyring"
	"github.com/bvk/dcabot/trader"
	"github.com/bvkgo/kv"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// defaultListLimit bounds strategy listings when the request leaves the
// limit unset.
const defaultListLimit = 100

var one = decimal.NewFromInt(1)

// strategyConfig builds a strategy configuration from the request params,
// filling in the documented defaults.
func strategyConfig(uid string, p *api.StrategyParams) *gobs.StrategyConfig {
	cfg := &gobs.StrategyConfig{
		UID:                  uid,
		Name:                 p.Name,
		KeyID:                p.KeyID,
		ProductID:            p.ProductID,
		InitialOrderAmount:   p.InitialOrderAmount,
		BuyTriggerFallPct:    p.BuyTriggerFallPct,
		BuyCallbackRisePct:   p.BuyCallbackRisePct,
		SellTriggerRisePct:   p.SellTriggerRisePct,
		SellCallbackFallPct:  p.SellCallbackFallPct,
		MaxCoverCount:        p.MaxCoverCount,
		CoverMultiplier:      p.CoverMultiplier,
		CoverTriggerFallPct:  p.CoverTriggerFallPct,
		CoverCallbackRisePct: p.CoverCallbackRisePct,
		CoverReference:       gobs.CoverReference(p.CoverReference),
		Cyclic:               true,
		IndividualSells:      p.IndividualSells,
	}
	if cfg.CoverMultiplier.IsZero() {
		cfg.CoverMultiplier = one
	}
	if len(cfg.CoverReference) == 0 {
		cfg.CoverReference = gobs.CoverAverageHolding
	}
	if p.Cyclic != nil {
		cfg.Cyclic = *p.Cyclic
	}
	return cfg
}

// checkKeyExists resolves the credential named by a strategy
// configuration. A missing credential is a bad request, not a not-found,
// because the strategy is the subject of the operation.
func checkKeyExists(ctx context.Context, r kv.Reader, keyID string) error {
	if _, err := keyring.Load(ctx, r, keyID); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("key %q is not in the keyring: %w", keyID, os.ErrInvalid)
		}
		return err
	}
	return nil
}

func (s *Server) doStrategyAdd(ctx context.Context, req *api.StrategyAddRequest) (*api.StrategyAddResponse, error) {
	cfg := strategyConfig(uuid.New().String(), &req.StrategyParams)
	add := func(ctx context.Context, rw kv.ReadWriter) error {
		if err := checkKeyExists(ctx, rw, cfg.KeyID); err != nil {
			return err
		}
		return trader.SaveConfig(ctx, rw, cfg)
	}
	if err := kv.WithReadWriter(ctx, s.db, add); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "strategy added", "uid", cfg.UID, "name", cfg.Name, "product", cfg.ProductID)
	return &api.StrategyAddResponse{UID: cfg.UID}, nil
}

func (s *Server) doStrategyGet(ctx context.Context, req *api.StrategyGetRequest) (*api.StrategyGetResponse, error) {
	resp := new(api.StrategyGetResponse)
	load := func(ctx context.Context, r kv.Reader) error {
		cfg, err := trader.LoadConfig(ctx, r, req.UID)
		if err != nil {
			return err
		}
		resp.Strategy = cfg
		return nil
	}
	if err := kv.WithReader(ctx, s.db, load); err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *Server) doStrategyList(ctx context.Context, req *api.StrategyListRequest) (*api.StrategyListResponse, error) {
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

	limit := req.Limit
	if limit == 0 {
		limit = defaultListLimit
	}
	resp := new(api.StrategyListResponse)
	for i := req.Offset; i < len(cfgs) && len(resp.Strategies) < limit; i++ {
		resp.Strategies = append(resp.Strategies, cfgs[i])
	}
	return resp, nil
}

func (s *Server) doStrategyUpdate(ctx context.Context, req *api.StrategyUpdateRequest) (*api.StrategyUpdateResponse, error) {
	cfg := strategyConfig(req.UID, &req.StrategyParams)
	update := func(ctx context.Context, rw kv.ReadWriter) error {
		if err := checkKeyExists(ctx, rw, cfg.KeyID); err != nil {
			return err
		}
		return trader.UpdateConfig(ctx, rw, cfg)
	}
	if err := kv.WithReadWriter(ctx, s.db, update); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "strategy updated", "uid", cfg.UID, "name", cfg.Name)
	return &api.StrategyUpdateResponse{UID: cfg.UID}, nil
}

func (s *Server) doStrategyRemove(ctx context.Context, req *api.StrategyRemoveRequest) (*api.StrategyRemoveResponse, error) {
	remove := func(ctx context.Context, rw kv.ReadWriter) error {
		return trader.DeleteConfig(ctx, rw, req.UID)
	}
	if err := kv.WithReadWriter(ctx, s.db, remove); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "strategy removed", "uid", req.UID)
	return &api.StrategyRemoveResponse{}, nil
}
