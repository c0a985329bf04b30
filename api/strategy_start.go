// Copyright (c) 2025 BVK Chaitanya

package api

import "github.com/bvk/dcabot/ledger"

const StrategyStartPath = "/dcabot/strategy/start"

type StrategyStartRequest struct {
	UID string
}

type StrategyStartResponse struct {
	State *ledger.State
}
