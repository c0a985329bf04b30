// Copyright (c) 2025 BVK Chaitanya

// Package api defines the http endpoints of the dcabot daemon and their
// request and response message types. Every endpoint takes a POST request
// with a JSON body and returns a JSON body on success.
package api

// Limits on user supplied fields.
const (
	MaxNameLength = 100

	MaxProductIDLength = 20
)
