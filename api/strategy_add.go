// Copyright (c) 2025 BVK Chaitanya

package api

const StrategyAddPath = "/dcabot/strategy/add"

type StrategyAddRequest struct {
	StrategyParams
}

type StrategyAddResponse struct {
	UID string
}
