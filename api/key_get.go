// Copyright (c) 2025 BVK Chaitanya

package api

const KeyGetPath = "/dcabot/key/get"

type KeyGetRequest struct {
	UID string
}

type KeyGetResponse struct {
	Key *Key
}
