// Copyright (c) 2025 BVK Chaitanya

package server

import (
	"context"

	"github.com/bvk/dcabot/api"
)

func (s *Server) doStrategyStart(ctx context.Context, req *api.StrategyStartRequest) (*api.StrategyStartResponse, error) {
	state, err := s.trader.Start(ctx, req.UID)
	if err != nil {
		return nil, err
	}
	return &api.StrategyStartResponse{State: state}, nil
}

func (s *Server) doStrategyStop(ctx context.Context, req *api.StrategyStopRequest) (*api.StrategyStopResponse, error) {
	state, err := s.trader.Stop(ctx, req.UID)
	if err != nil {
		return nil, err
	}
	return &api.StrategyStopResponse{State: state}, nil
}

func (s *Server) doStrategyPause(ctx context.Context, req *api.StrategyPauseRequest) (*api.StrategyPauseResponse, error) {
	state, err := s.trader.Pause(ctx, req.UID)
	if err != nil {
		return nil, err
	}
	return &api.StrategyPauseResponse{State: state}, nil
}

func (s *Server) doStrategyState(ctx context.Context, req *api.StrategyStateRequest) (*api.StrategyStateResponse, error) {
	state, err := s.trader.GetState(ctx, req.UID)
	if err != nil {
		return nil, err
	}
	return &api.StrategyStateResponse{State: state}, nil
}

func (s *Server) doJobList(ctx context.Context, req *api.JobListRequest) (*api.JobListResponse, error) {
	resp := new(api.JobListResponse)
	for _, v := range s.trader.List(ctx) {
		item := &api.JobListResponseItem{
			UID:       v.UID,
			ProductID: v.ProductID,
			State:     v.State,
			Running:   v.Running,
		}
		resp.Jobs = append(resp.Jobs, item)
	}
	return resp, nil
}
