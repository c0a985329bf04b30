// Copyright (c) 2025 BVK Chaitanya

package kvutil

import (
	"bytes"
	"context"
	"errors"
	"os"
	"testing"

	"github.com/bvkgo/kv"
	"github.com/bvkgo/kv/kvmemdb"
)

type item struct {
	Name  string
	Count int
}

func TestExportImport(t *testing.T) {
	ctx := context.Background()
	db := kvmemdb.New()

	fill := func(ctx context.Context, rw kv.ReadWriter) error {
		if err := Set(ctx, rw, "/items/a", &item{Name: "a", Count: 1}); err != nil {
			return err
		}
		return Set(ctx, rw, "/items/b", &item{Name: "b", Count: 2})
	}
	if err := kv.WithReadWriter(ctx, db, fill); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	export := func(ctx context.Context, r kv.Reader) error {
		return Export(ctx, r, &buf)
	}
	if err := kv.WithReader(ctx, db, export); err != nil {
		t.Fatal(err)
	}

	other := kvmemdb.New()
	restore := func(ctx context.Context, rw kv.ReadWriter) error {
		return Import(ctx, bytes.NewReader(buf.Bytes()), rw)
	}
	if err := kv.WithReadWriter(ctx, other, restore); err != nil {
		t.Fatal(err)
	}

	v, err := GetDB[item](ctx, other, "/items/b")
	if err != nil {
		t.Fatal(err)
	}
	if v.Name != "b" || v.Count != 2 {
		t.Fatalf("unexpected value %+v", v)
	}

	wipe := func(ctx context.Context, rw kv.ReadWriter) error {
		return DeleteAll(ctx, rw)
	}
	if err := kv.WithReadWriter(ctx, other, wipe); err != nil {
		t.Fatal(err)
	}
	if _, err := GetDB[item](ctx, other, "/items/b"); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("want os.ErrNotExist, got %v", err)
	}
}

func TestAscendRange(t *testing.T) {
	ctx := context.Background()
	db := kvmemdb.New()

	fill := func(ctx context.Context, rw kv.ReadWriter) error {
		for _, k := range []string{"/items/a", "/items/b", "/other/c"} {
			if err := Set(ctx, rw, k, &item{Name: k}); err != nil {
				return err
			}
		}
		return nil
	}
	if err := kv.WithReadWriter(ctx, db, fill); err != nil {
		t.Fatal(err)
	}

	var keys []string
	begin, end := PathRange("/items")
	scan := func(ctx context.Context, r kv.Reader) error {
		return Ascend(ctx, r, begin, end, func(_ context.Context, _ kv.Reader, k string, v *item) error {
			keys = append(keys, k)
			return nil
		})
	}
	if err := kv.WithReader(ctx, db, scan); err != nil {
		t.Fatal(err)
	}
	if len(keys) != 2 || keys[0] != "/items/a" || keys[1] != "/items/b" {
		t.Fatalf("unexpected keys %v", keys)
	}
}
