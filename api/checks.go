// Copyright (c) 2025 BVK Chaitanya

package api

import (
	"fmt"

	"github.com/bvk/dcabot/gobs"
)

func (r *StrategyParams) Check() error {
	if len(r.Name) == 0 {
		return fmt.Errorf("strategy name cannot be empty")
	}
	if len(r.Name) > MaxNameLength {
		return fmt.Errorf("strategy name cannot be longer than %d characters", MaxNameLength)
	}
	if len(r.KeyID) == 0 {
		return fmt.Errorf("key id cannot be empty")
	}
	if len(r.ProductID) == 0 {
		return fmt.Errorf("product id cannot be empty")
	}
	if len(r.ProductID) > MaxProductIDLength {
		return fmt.Errorf("product id cannot be longer than %d characters", MaxProductIDLength)
	}
	if r.InitialOrderAmount.Sign() <= 0 {
		return fmt.Errorf("initial order amount must be positive")
	}
	if r.BuyTriggerFallPct.Sign() < 0 {
		return fmt.Errorf("buy trigger percentage cannot be negative")
	}
	if r.BuyCallbackRisePct.Sign() < 0 {
		return fmt.Errorf("buy callback percentage cannot be negative")
	}
	if r.SellTriggerRisePct.Sign() <= 0 {
		return fmt.Errorf("sell trigger percentage must be positive")
	}
	if r.SellCallbackFallPct.Sign() < 0 {
		return fmt.Errorf("sell callback percentage cannot be negative")
	}
	if r.MaxCoverCount < 0 {
		return fmt.Errorf("max cover count cannot be negative")
	}
	if r.CoverMultiplier.Sign() < 0 {
		return fmt.Errorf("cover multiplier cannot be negative")
	}
	if r.CoverTriggerFallPct.Sign() <= 0 {
		return fmt.Errorf("cover trigger percentage must be positive")
	}
	if r.CoverCallbackRisePct.Sign() < 0 {
		return fmt.Errorf("cover callback percentage cannot be negative")
	}
	if len(r.CoverReference) != 0 && !gobs.CoverReference(r.CoverReference).IsValid() {
		return fmt.Errorf("cover reference %q is not valid", r.CoverReference)
	}
	return nil
}

func (r *StrategyUpdateRequest) Check() error {
	if len(r.UID) == 0 {
		return fmt.Errorf("strategy uid cannot be empty")
	}
	return r.StrategyParams.Check()
}

func (r *StrategyListRequest) Check() error {
	if r.Offset < 0 {
		return fmt.Errorf("offset cannot be negative")
	}
	if r.Limit < 0 {
		return fmt.Errorf("limit cannot be negative")
	}
	return nil
}

func (r *KeyAddRequest) Check() error {
	if len(r.Name) == 0 {
		return fmt.Errorf("key name cannot be empty")
	}
	if len(r.APIKey) == 0 {
		return fmt.Errorf("api key cannot be empty")
	}
	if len(r.SecretKey) == 0 {
		return fmt.Errorf("secret key cannot be empty")
	}
	if len(r.Mode) != 0 && r.Mode != "paper" && r.Mode != "live" {
		return fmt.Errorf("key mode must be paper or live")
	}
	return nil
}
