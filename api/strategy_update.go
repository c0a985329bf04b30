// Copyright (c) 2025 BVK Chaitanya

package api

const StrategyUpdatePath = "/dcabot/strategy/update"

// StrategyUpdateRequest replaces a strategy configuration as a whole. A
// running strategy keeps the configuration it started with until it is
// started again.
type StrategyUpdateRequest struct {
	UID string

	StrategyParams
}

type StrategyUpdateResponse struct {
	UID string
}
