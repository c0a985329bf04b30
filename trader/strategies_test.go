// Copyright (c) 2025 BVK Chaitanya

package trader

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/bvk/dcabot/gobs"
	"github.com/bvkgo/kv"
	"github.com/bvkgo/kv/kvmemdb"
	"github.com/shopspring/decimal"
)

func TestConfigStore(t *testing.T) {
	ctx := context.Background()
	db := kvmemdb.New()

	c1 := &gobs.StrategyConfig{
		UID:                 "s1",
		Name:                "sui averaging",
		KeyID:               "key1",
		ProductID:           "SUI-USDT",
		InitialOrderAmount:  decimal.NewFromInt(100),
		SellTriggerRisePct:  decimal.NewFromInt(2),
		CoverTriggerFallPct: decimal.NewFromInt(5),
		CoverMultiplier:     decimal.NewFromInt(1),
		CoverReference:      gobs.CoverAverageHolding,
		Cyclic:              true,
	}
	c2 := &gobs.StrategyConfig{
		UID:                 "s2",
		Name:                "btc averaging",
		KeyID:               "key1",
		ProductID:           "BTC-USDT",
		InitialOrderAmount:  decimal.NewFromInt(500),
		SellTriggerRisePct:  decimal.NewFromInt(1),
		CoverTriggerFallPct: decimal.NewFromInt(3),
		CoverMultiplier:     decimal.NewFromInt(2),
		CoverReference:      gobs.CoverLastBuy,
	}
	save := func(ctx context.Context, rw kv.ReadWriter) error {
		if err := SaveConfig(ctx, rw, c1); err != nil {
			return err
		}
		return SaveConfig(ctx, rw, c2)
	}
	if err := kv.WithReadWriter(ctx, db, save); err != nil {
		t.Fatal(err)
	}

	// Duplicate uids are rejected.
	dup := func(ctx context.Context, rw kv.ReadWriter) error {
		return SaveConfig(ctx, rw, c1)
	}
	if err := kv.WithReadWriter(ctx, db, dup); !errors.Is(err, os.ErrExist) {
		t.Fatalf("duplicate save = %v, want %v", err, os.ErrExist)
	}

	check := func(ctx context.Context, r kv.Reader) error {
		cfg, err := LoadConfig(ctx, r, "s2")
		if err != nil {
			return err
		}
		if cfg.Name != c2.Name || cfg.ProductID != c2.ProductID {
			t.Fatalf("loaded %+v, want %+v", cfg, c2)
		}
		if !cfg.InitialOrderAmount.Equal(c2.InitialOrderAmount) {
			t.Fatalf("initial amount = %s, want %s", cfg.InitialOrderAmount, c2.InitialOrderAmount)
		}

		if _, err := LoadConfig(ctx, r, "missing"); !errors.Is(err, os.ErrNotExist) {
			t.Fatalf("load missing = %v, want %v", err, os.ErrNotExist)
		}

		cfgs, err := ListConfigs(ctx, r)
		if err != nil {
			return err
		}
		if len(cfgs) != 2 || cfgs[0].UID != "s1" || cfgs[1].UID != "s2" {
			t.Fatalf("list returned %d configs in wrong order", len(cfgs))
		}
		return nil
	}
	if err := kv.WithReader(ctx, db, check); err != nil {
		t.Fatal(err)
	}

	// Updates replace the whole record and require it to exist.
	c1.Name = "sui averaging v2"
	update := func(ctx context.Context, rw kv.ReadWriter) error {
		return UpdateConfig(ctx, rw, c1)
	}
	if err := kv.WithReadWriter(ctx, db, update); err != nil {
		t.Fatal(err)
	}
	missing := &gobs.StrategyConfig{UID: "missing"}
	updateMissing := func(ctx context.Context, rw kv.ReadWriter) error {
		return UpdateConfig(ctx, rw, missing)
	}
	if err := kv.WithReadWriter(ctx, db, updateMissing); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("update missing = %v, want %v", err, os.ErrNotExist)
	}

	del := func(ctx context.Context, rw kv.ReadWriter) error {
		return DeleteConfig(ctx, rw, "s1")
	}
	if err := kv.WithReadWriter(ctx, db, del); err != nil {
		t.Fatal(err)
	}
	if err := kv.WithReadWriter(ctx, db, del); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("double delete = %v, want %v", err, os.ErrNotExist)
	}

	verify := func(ctx context.Context, r kv.Reader) error {
		cfg, err := LoadConfig(ctx, r, "s1")
		if err == nil {
			t.Fatalf("deleted strategy still loads: %+v", cfg)
		}
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		return nil
	}
	if err := kv.WithReader(ctx, db, verify); err != nil {
		t.Fatal(err)
	}
}
