// Copyright (c) 2025 BVK Chaitanya

package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/bvk/dcabot/api"
	"github.com/bvk/dcabot/gobs"
	"github.com/bvk/dcabot/keyring"
	"github.com/bvk/dcabot/trader"
	"github.com/bvkgo/kv"
	"github.com/google/uuid"
)

// apiKey prepares the response view of a credential. The secret is left
// out and the connectivity status is probed fresh.
func apiKey(k *gobs.KeyData) *api.Key {
	return &api.Key{
		UID:    k.UID,
		Name:   k.Name,
		APIKey: k.APIKey,
		Mode:   k.Mode,
		Status: keyring.Probe(k),
	}
}

func (s *Server) doKeyAdd(ctx context.Context, req *api.KeyAddRequest) (*api.KeyAddResponse, error) {
	k := &gobs.KeyData{
		UID:       uuid.New().String(),
		Name:      req.Name,
		APIKey:    req.APIKey,
		SecretKey: req.SecretKey,
		Mode:      req.Mode,
	}
	if len(k.Mode) == 0 {
		k.Mode = "paper"
	}
	add := func(ctx context.Context, rw kv.ReadWriter) error {
		return keyring.Save(ctx, rw, k)
	}
	if err := kv.WithReadWriter(ctx, s.db, add); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "key added", "uid", k.UID, "name", k.Name, "mode", k.Mode)
	return &api.KeyAddResponse{UID: k.UID, Status: keyring.Probe(k)}, nil
}

func (s *Server) doKeyGet(ctx context.Context, req *api.KeyGetRequest) (*api.KeyGetResponse, error) {
	resp := new(api.KeyGetResponse)
	load := func(ctx context.Context, r kv.Reader) error {
		k, err := keyring.Load(ctx, r, req.UID)
		if err != nil {
			return err
		}
		resp.Key = apiKey(k)
		return nil
	}
	if err := kv.WithReader(ctx, s.db, load); err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *Server) doKeyList(ctx context.Context, req *api.KeyListRequest) (*api.KeyListResponse, error) {
	resp := new(api.KeyListResponse)
	load := func(ctx context.Context, r kv.Reader) error {
		ks, err := keyring.List(ctx, r)
		if err != nil {
			return err
		}
		for _, k := range ks {
			resp.Keys = append(resp.Keys, apiKey(k))
		}
		return nil
	}
	if err := kv.WithReader(ctx, s.db, load); err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *Server) doKeyRemove(ctx context.Context, req *api.KeyRemoveRequest) (*api.KeyRemoveResponse, error) {
	remove := func(ctx context.Context, rw kv.ReadWriter) error {
		cfgs, err := trader.ListConfigs(ctx, rw)
		if err != nil {
			return err
		}
		for _, cfg := range cfgs {
			if cfg.KeyID == req.UID {
				return fmt.Errorf("key %q is in use by strategy %q: %w", req.UID, cfg.UID, os.ErrExist)
			}
		}
		return keyring.Delete(ctx, rw, req.UID)
	}
	if err := kv.WithReadWriter(ctx, s.db, remove); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "key removed", "uid", req.UID)
	return &api.KeyRemoveResponse{}, nil
}
