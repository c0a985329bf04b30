// Copyright (c) 2025 BVK Chaitanya

package gobs

// JobState tracks the lifecycle of a strategy loop.
type JobState string

const (
	RUNNING   JobState = "RUNNING"
	PAUSED    JobState = "PAUSED"
	CANCELED  JobState = "CANCELED"
	COMPLETED JobState = "COMPLETED"
	FAILED    JobState = "FAILED"
)
