// Copyright (c) 2025 BVK Chaitanya

// Package keyring stores the exchange credentials referenced by strategy
// configurations and implements the simulated connectivity probe run before
// a strategy starts.
package keyring

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path"
	"strings"

	"github.com/bvk/dcabot/gobs"
	"github.com/bvk/dcabot/kvutil"
	"github.com/bvkgo/kv"
)

// Keyspace holds one gobs.KeyData value per credential.
const Keyspace = "/keys/"

// StatusConnected is the probe result for a usable credential.
const StatusConnected = "connected"

var probeFailures = []string{
	"error: invalid credentials",
	"error: network issue",
}

// Probe simulates a connectivity test against the exchange. Credentials
// whose api key contains "error" or whose secret contains "bad" fail the
// probe with a random failure status.
func Probe(k *gobs.KeyData) string {
	if strings.Contains(strings.ToLower(k.APIKey), "error") ||
		strings.Contains(strings.ToLower(k.SecretKey), "bad") {
		return probeFailures[rand.Intn(len(probeFailures))]
	}
	return StatusConnected
}

// Save stores a new credential. Fails with os.ErrExist when a credential
// with the same uid is already present.
func Save(ctx context.Context, rw kv.ReadWriter, k *gobs.KeyData) error {
	key := path.Join(Keyspace, k.UID)
	if _, err := kvutil.Get[gobs.KeyData](ctx, rw, key); err == nil || !errors.Is(err, os.ErrNotExist) {
		if err == nil {
			return fmt.Errorf("key %q already exists: %w", k.UID, os.ErrExist)
		}
		return fmt.Errorf("could not check for key %q: %w", k.UID, err)
	}
	if err := kvutil.Set(ctx, rw, key, k); err != nil {
		return fmt.Errorf("could not save key %q: %w", k.UID, err)
	}
	return nil
}

// Load returns the credential with the given uid.
func Load(ctx context.Context, r kv.Reader, uid string) (*gobs.KeyData, error) {
	k, err := kvutil.Get[gobs.KeyData](ctx, r, path.Join(Keyspace, uid))
	if err != nil {
		return nil, fmt.Errorf("could not load key %q: %w", uid, err)
	}
	return k, nil
}

// Delete removes the credential with the given uid. Callers are responsible
// for checking that no strategy configuration still references it.
func Delete(ctx context.Context, rw kv.ReadWriter, uid string) error {
	key := path.Join(Keyspace, uid)
	if _, err := kvutil.Get[gobs.KeyData](ctx, rw, key); err != nil {
		return fmt.Errorf("could not load key %q: %w", uid, err)
	}
	if err := rw.Delete(ctx, key); err != nil {
		return fmt.Errorf("could not delete key %q: %w", uid, err)
	}
	return nil
}

// List returns all credentials in uid order.
func List(ctx context.Context, r kv.Reader) ([]*gobs.KeyData, error) {
	var ks []*gobs.KeyData
	begin, end := kvutil.PathRange(Keyspace)
	cb := func(_ context.Context, _ kv.Reader, key string, value *gobs.KeyData) error {
		ks = append(ks, value)
		return nil
	}
	if err := kvutil.Ascend(ctx, r, begin, end, cb); err != nil {
		return nil, fmt.Errorf("could not scan keys: %w", err)
	}
	return ks, nil
}
