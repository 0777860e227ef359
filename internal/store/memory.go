package store

import (
	"context"
	"maps"
	"sync"
)

// MemoryKV はプロセス内のマップに保存する KV です (テストと --ephemeral 用)
type MemoryKV struct {
	mu   sync.Mutex
	data map[string]string
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string]string)}
}

func (m *MemoryKV) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return memTx(m.data).Get(ctx, key)
}

func (m *MemoryKV) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return memTx(m.data).Set(ctx, key, value)
}

func (m *MemoryKV) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return memTx(m.data).Delete(ctx, key)
}

// Update はコピー上で fn を実行し、成功したときだけ差し替えます
func (m *MemoryKV) Update(ctx context.Context, fn func(tx KV) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	working := maps.Clone(m.data)
	if err := fn(memTx(working)); err != nil {
		return err
	}
	m.data = working
	return nil
}

// Len は保存されているキーの数です
func (m *MemoryKV) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}

// memTx はロック済みのマップに対する KV です
type memTx map[string]string

func (t memTx) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := t[key]
	return v, ok, nil
}

func (t memTx) Set(_ context.Context, key, value string) error {
	t[key] = value
	return nil
}

func (t memTx) Delete(_ context.Context, key string) error {
	delete(t, key)
	return nil
}

func (t memTx) Update(_ context.Context, fn func(tx KV) error) error {
	return fn(t)
}
