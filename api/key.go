// Copyright (c) 2025 BVK Chaitanya

package api

// Key describes one exchange credential in responses. The secret is never
// included.
type Key struct {
	UID string

	Name string

	APIKey string

	// Mode is "paper" or "live".
	Mode string

	// Status is the result of the connectivity probe taken when the
	// response was prepared.
	Status string
}
