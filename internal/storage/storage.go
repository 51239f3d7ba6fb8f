package storage

import (
	"context"
	"errors"
)

// Keys used by the application.
const (
	KeySceneConfigurations      = "scene-configurations"
	KeySettlementConfigurations = "settlement-configurations"
	KeyCardAutoAssign           = "card-auto-assign-preference"
)

var (
	ErrNotFound      = errors.New("key not found")
	ErrQuotaExceeded = errors.New("storage quota exceeded")
)

// KV is a durable key-value store holding one serialized record per key.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
	Close(ctx context.Context) error
}
