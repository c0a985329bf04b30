// Copyright (c) 2025 BVK Chaitanya

package api

import "github.com/bvk/dcabot/ledger"

const StrategyPausePath = "/dcabot/strategy/pause"

type StrategyPauseRequest struct {
	UID string
}

type StrategyPauseResponse struct {
	State *ledger.State
}
