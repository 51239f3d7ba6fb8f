package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"tabletop/internal/logger"
)

// Gateway wraps a KV with the error policy the rest of the application
// relies on: reads and writes never return errors, corrupt values are
// deleted, and every failure is logged with context.
type Gateway struct {
	kv  KV
	log logger.Logger
}

func NewGateway(kv KV, log logger.Logger) *Gateway {
	return &Gateway{kv: kv, log: logger.With(log)}
}

// ReadRaw returns the stored JSON for key. A value that is not valid JSON is
// deleted and reported as absent.
func (g *Gateway) ReadRaw(ctx context.Context, key string) (json.RawMessage, bool) {
	data, err := g.kv.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			g.log.Error("reading storage key", "key", key, "err", err)
		}
		return nil, false
	}
	if !json.Valid(data) {
		g.discard(ctx, key, fmt.Errorf("invalid JSON (%d bytes)", len(data)))
		return nil, false
	}
	return json.RawMessage(data), true
}

// Read decodes the value stored at key into out. A value that cannot be
// decoded into out is deleted and reported as absent.
func (g *Gateway) Read(ctx context.Context, key string, out any) bool {
	raw, ok := g.ReadRaw(ctx, key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		g.discard(ctx, key, err)
		return false
	}
	return true
}

// Write serializes value and stores it in a single attempt.
func (g *Gateway) Write(ctx context.Context, key string, value any) bool {
	data, err := json.Marshal(value)
	if err != nil {
		g.log.Error("serializing storage value", "key", key, "value_type", fmt.Sprintf("%T", value), "err", err)
		return false
	}
	if err := g.kv.Set(ctx, key, data); err != nil {
		g.log.Error("writing storage key", "key", key, "value_type", fmt.Sprintf("%T", value), "size", len(data), "err", err)
		if errors.Is(err, ErrQuotaExceeded) {
			g.log.Warn("storage quota exceeded, consider deleting old configurations", "key", key)
		}
		return false
	}
	return true
}

func (g *Gateway) Delete(ctx context.Context, key string) bool {
	if err := g.kv.Delete(ctx, key); err != nil && !errors.Is(err, ErrNotFound) {
		g.log.Error("deleting storage key", "key", key, "err", err)
		return false
	}
	return true
}

func (g *Gateway) discard(ctx context.Context, key string, cause error) {
	g.log.Error("corrupt storage value, removing key", "key", key, "err", cause)
	if err := g.kv.Delete(ctx, key); err != nil && !errors.Is(err, ErrNotFound) {
		g.log.Error("removing corrupt storage key", "key", key, "err", err)
	}
}
