// Copyright (c) 2025 BVK Chaitanya

package trader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"

	"github.com/bvk/dcabot/gobs"
	"github.com/bvk/dcabot/kvutil"
	"github.com/bvkgo/kv"
)

// Keyspace holds one gobs.StrategyConfig value per strategy.
const Keyspace = "/strategies/"

// SaveConfig stores a new strategy configuration. Fails with os.ErrExist
// when a configuration with the same uid is already present.
func SaveConfig(ctx context.Context, rw kv.ReadWriter, cfg *gobs.StrategyConfig) error {
	key := path.Join(Keyspace, cfg.UID)
	if _, err := kvutil.Get[gobs.StrategyConfig](ctx, rw, key); err == nil || !errors.Is(err, os.ErrNotExist) {
		if err == nil {
			return fmt.Errorf("strategy %q already exists: %w", cfg.UID, os.ErrExist)
		}
		return fmt.Errorf("could not check for strategy %q: %w", cfg.UID, err)
	}
	if err := kvutil.Set(ctx, rw, key, cfg); err != nil {
		return fmt.Errorf("could not save strategy %q: %w", cfg.UID, err)
	}
	return nil
}

// LoadConfig returns the configuration of the strategy with the given uid.
func LoadConfig(ctx context.Context, r kv.Reader, uid string) (*gobs.StrategyConfig, error) {
	cfg, err := kvutil.Get[gobs.StrategyConfig](ctx, r, path.Join(Keyspace, uid))
	if err != nil {
		return nil, fmt.Errorf("could not load strategy %q: %w", uid, err)
	}
	return cfg, nil
}

// UpdateConfig replaces an existing strategy configuration as a whole.
// Running loops are unaffected; they keep the configuration they started
// with until the next Start.
func UpdateConfig(ctx context.Context, rw kv.ReadWriter, cfg *gobs.StrategyConfig) error {
	key := path.Join(Keyspace, cfg.UID)
	if _, err := kvutil.Get[gobs.StrategyConfig](ctx, rw, key); err != nil {
		return fmt.Errorf("could not load strategy %q: %w", cfg.UID, err)
	}
	if err := kvutil.Set(ctx, rw, key, cfg); err != nil {
		return fmt.Errorf("could not update strategy %q: %w", cfg.UID, err)
	}
	return nil
}

// DeleteConfig removes the strategy configuration with the given uid.
func DeleteConfig(ctx context.Context, rw kv.ReadWriter, uid string) error {
	key := path.Join(Keyspace, uid)
	if _, err := kvutil.Get[gobs.StrategyConfig](ctx, rw, key); err != nil {
		return fmt.Errorf("could not load strategy %q: %w", uid, err)
	}
	if err := rw.Delete(ctx, key); err != nil {
		return fmt.Errorf("could not delete strategy %q: %w", uid, err)
	}
	return nil
}

// ListConfigs returns all strategy configurations in uid order.
func ListConfigs(ctx context.Context, r kv.Reader) ([]*gobs.StrategyConfig, error) {
	var cfgs []*gobs.StrategyConfig
	begin, end := kvutil.PathRange(Keyspace)
	cb := func(_ context.Context, _ kv.Reader, key string, value *gobs.StrategyConfig) error {
		cfgs = append(cfgs, value)
		return nil
	}
	if err := kvutil.Ascend(ctx, r, begin, end, cb); err != nil {
		return nil, fmt.Errorf("could not scan strategies: %w", err)
	}
	return cfgs, nil
}
