// Copyright (c) 2025 BVK Chaitanya

package api

const StrategyRemovePath = "/dcabot/strategy/remove"

type StrategyRemoveRequest struct {
	UID string
}

type StrategyRemoveResponse struct {
}
