// Copyright (c) 2025 BVK Chaitanya

package api

const KeyRemovePath = "/dcabot/key/remove"

// KeyRemoveRequest deletes a credential. Removal is refused while any
// strategy configuration still references the key.
type KeyRemoveRequest struct {
	UID string
}

type KeyRemoveResponse struct {
}
