package storage_test

import (
	"context"
	"testing"

	"tabletop/internal/logger"
	"tabletop/internal/storage"
	"tabletop/internal/storage/memory"
)

func TestGatewayRead(t *testing.T) {
	ctx := context.Background()

	t.Run("absent key", func(t *testing.T) {
		g := storage.NewGateway(memory.New(0), nil)
		var out []string
		if g.Read(ctx, "missing", &out) {
			t.Fatalf("expected absent")
		}
	})

	t.Run("valid value", func(t *testing.T) {
		kv := memory.New(0)
		kv.Set(ctx, "k", []byte(`["a","b"]`))
		g := storage.NewGateway(kv, nil)
		var out []string
		if !g.Read(ctx, "k", &out) || len(out) != 2 {
			t.Fatalf("expected two values, got %v", out)
		}
	})

	t.Run("unparseable value is deleted", func(t *testing.T) {
		kv := memory.New(0)
		kv.Set(ctx, "k", []byte(`{not json`))
		log := &logger.Memory{}
		g := storage.NewGateway(kv, log)

		if _, ok := g.ReadRaw(ctx, "k"); ok {
			t.Fatalf("expected corrupt value to read as absent")
		}
		if _, err := kv.Get(ctx, "k"); err == nil {
			t.Fatalf("expected corrupt key to be removed")
		}
		if log.Count("error") == 0 {
			t.Fatalf("expected corruption to be logged")
		}
	})

	t.Run("type mismatch is deleted", func(t *testing.T) {
		kv := memory.New(0)
		kv.Set(ctx, "k", []byte(`{"a":1}`))
		g := storage.NewGateway(kv, nil)
		var out bool
		if g.Read(ctx, "k", &out) {
			t.Fatalf("expected decode failure")
		}
		if keys, _ := kv.Keys(ctx); len(keys) != 0 {
			t.Fatalf("expected key removal, still have %v", keys)
		}
	})
}

func TestGatewayWrite(t *testing.T) {
	ctx := context.Background()

	t.Run("round trip", func(t *testing.T) {
		g := storage.NewGateway(memory.New(0), nil)
		if !g.Write(ctx, storage.KeyCardAutoAssign, true) {
			t.Fatalf("expected write to succeed")
		}
		var out bool
		if !g.Read(ctx, storage.KeyCardAutoAssign, &out) || !out {
			t.Fatalf("expected true back")
		}
	})

	t.Run("quota exceeded", func(t *testing.T) {
		log := &logger.Memory{}
		g := storage.NewGateway(memory.New(8), log)
		if g.Write(ctx, "k", []string{"far too long for the quota"}) {
			t.Fatalf("expected failure")
		}
		var sawSize bool
		for _, e := range log.Entries() {
			if e.Level != "error" {
				continue
			}
			for i := 0; i+1 < len(e.KeyVals); i += 2 {
				if e.KeyVals[i] == "size" {
					sawSize = true
				}
			}
		}
		if !sawSize {
			t.Fatalf("expected serialized size in log context: %+v", log.Entries())
		}
		if log.Count("warn") != 1 {
			t.Fatalf("expected a quota warning")
		}
	})

	t.Run("unserializable value", func(t *testing.T) {
		g := storage.NewGateway(memory.New(0), nil)
		if g.Write(ctx, "k", make(chan int)) {
			t.Fatalf("expected failure")
		}
	})
}

func TestGatewayDelete(t *testing.T) {
	ctx := context.Background()
	kv := memory.New(0)
	kv.Set(ctx, "k", []byte(`1`))
	g := storage.NewGateway(kv, nil)
	if !g.Delete(ctx, "k") || !g.Delete(ctx, "k") {
		t.Fatalf("deleting present and absent keys should both succeed")
	}
}
