// Copyright (c) 2025 BVK Chaitanya

package api

import "github.com/bvk/dcabot/gobs"

const StrategyListPath = "/dcabot/strategy/list"

type StrategyListRequest struct {
	// Offset skips the first strategies of the uid-ordered listing.
	Offset int

	// Limit bounds the number of returned strategies. Zero picks the
	// default of 100.
	Limit int
}

type StrategyListResponse struct {
	Strategies []*gobs.StrategyConfig
}
