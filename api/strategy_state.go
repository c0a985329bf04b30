// Copyright (c) 2025 BVK Chaitanya

package api

import "github.com/bvk/dcabot/ledger"

const StrategyStatePath = "/dcabot/strategy/state"

type StrategyStateRequest struct {
	UID string
}

type StrategyStateResponse struct {
	State *ledger.State
}
