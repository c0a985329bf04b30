// Copyright (c) 2025 BVK Chaitanya

package api

const KeyListPath = "/dcabot/key/list"

type KeyListRequest struct {
}

type KeyListResponse struct {
	Keys []*Key
}
