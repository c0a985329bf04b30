// Copyright (c) 2025 BVK Chaitanya

package api

import "github.com/bvk/dcabot/gobs"

const StrategyGetPath = "/dcabot/strategy/get"

type StrategyGetRequest struct {
	UID string
}

type StrategyGetResponse struct {
	Strategy *gobs.StrategyConfig
}
