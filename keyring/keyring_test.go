// Copyright (c) 2025 BVK Chaitanya

package keyring

import (
	"context"
	"errors"
	"os"
	"slices"
	"testing"

	"github.com/bvk/dcabot/gobs"
	"github.com/bvkgo/kv"
	"github.com/bvkgo/kv/kvmemdb"
)

func TestProbe(t *testing.T) {
	good := &gobs.KeyData{UID: "key1", APIKey: "alpha", SecretKey: "beta", Mode: "paper"}
	if v := Probe(good); v != StatusConnected {
		t.Fatalf("probe = %q, want %q", v, StatusConnected)
	}

	badAPI := &gobs.KeyData{UID: "key2", APIKey: "my-ERROR-key", SecretKey: "beta"}
	if v := Probe(badAPI); !slices.Contains(probeFailures, v) {
		t.Fatalf("probe = %q, want a failure status", v)
	}

	badSecret := &gobs.KeyData{UID: "key3", APIKey: "alpha", SecretKey: "BadSecret"}
	if v := Probe(badSecret); !slices.Contains(probeFailures, v) {
		t.Fatalf("probe = %q, want a failure status", v)
	}
}

func TestKeyring(t *testing.T) {
	ctx := context.Background()
	db := kvmemdb.New()

	k1 := &gobs.KeyData{UID: "key1", Name: "primary", APIKey: "alpha", SecretKey: "beta", Mode: "paper"}
	k2 := &gobs.KeyData{UID: "key2", Name: "backup", APIKey: "gamma", SecretKey: "delta", Mode: "live"}
	save := func(ctx context.Context, rw kv.ReadWriter) error {
		if err := Save(ctx, rw, k1); err != nil {
			return err
		}
		return Save(ctx, rw, k2)
	}
	if err := kv.WithReadWriter(ctx, db, save); err != nil {
		t.Fatal(err)
	}

	// Duplicate uids are rejected.
	dup := func(ctx context.Context, rw kv.ReadWriter) error {
		return Save(ctx, rw, &gobs.KeyData{UID: "key1"})
	}
	if err := kv.WithReadWriter(ctx, db, dup); !errors.Is(err, os.ErrExist) {
		t.Fatalf("want os.ErrExist, got %v", err)
	}

	check := func(ctx context.Context, r kv.Reader) error {
		k, err := Load(ctx, r, "key1")
		if err != nil {
			return err
		}
		if k.Name != "primary" || k.APIKey != "alpha" || k.SecretKey != "beta" {
			t.Fatalf("loaded key = %+v", k)
		}

		if _, err := Load(ctx, r, "missing"); !errors.Is(err, os.ErrNotExist) {
			t.Fatalf("want os.ErrNotExist, got %v", err)
		}

		ks, err := List(ctx, r)
		if err != nil {
			return err
		}
		if len(ks) != 2 || ks[0].UID != "key1" || ks[1].UID != "key2" {
			t.Fatalf("list = %+v", ks)
		}
		return nil
	}
	if err := kv.WithReader(ctx, db, check); err != nil {
		t.Fatal(err)
	}

	del := func(ctx context.Context, rw kv.ReadWriter) error {
		return Delete(ctx, rw, "key2")
	}
	if err := kv.WithReadWriter(ctx, db, del); err != nil {
		t.Fatal(err)
	}
	if err := kv.WithReadWriter(ctx, db, del); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("want os.ErrNotExist, got %v", err)
	}
}
