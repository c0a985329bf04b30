// Copyright (c) 2025 BVK Chaitanya

package api

const KeyAddPath = "/dcabot/key/add"

type KeyAddRequest struct {
	Name string

	APIKey    string
	SecretKey string

	// Mode defaults to "paper" when left empty.
	Mode string
}

type KeyAddResponse struct {
	UID string

	// Status is the result of the connectivity probe taken at creation.
	Status string
}
