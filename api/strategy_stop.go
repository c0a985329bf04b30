// Copyright (c) 2025 BVK Chaitanya

package api

import "github.com/bvk/dcabot/ledger"

const StrategyStopPath = "/dcabot/strategy/stop"

type StrategyStopRequest struct {
	UID string
}

type StrategyStopResponse struct {
	State *ledger.State
}
