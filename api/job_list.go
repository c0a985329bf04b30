// Copyright (c) 2025 BVK Chaitanya

package api

import "github.com/bvk/dcabot/gobs"

const JobListPath = "/dcabot/job/list"

type JobListRequest struct {
}

type JobListResponseItem struct {
	UID string

	ProductID string

	State gobs.JobState

	Running bool
}

type JobListResponse struct {
	Jobs []*JobListResponseItem
}
