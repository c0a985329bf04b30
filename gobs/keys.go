// Copyright (c) 2025 BVK Chaitanya

package gobs

// KeyData holds one exchange credential.
type KeyData struct {
	UID string

	Name string

	APIKey    string
	SecretKey string

	// Mode is "paper" or "live".
	Mode string
}
