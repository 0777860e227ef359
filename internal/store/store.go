// Package store はローカルの永続化ストアです。
// 文字列キーにテキスト (JSON) を保存するだけの同期的な KV で、最後の書き込みが勝ちます。
package store

import (
	"context"
	"encoding/json"
	"fmt"
)

// コレクションのキー
const (
	ModulesKey     = "neon-quizlet-modules"
	StatsKey       = "neon-quizlet-stats"
	SettingsKey    = "neon-quizlet-settings"
	UsersKey       = "neon-quizlet-users"
	CurrentUserKey = "neon-quizlet-user"
)

// KV はストアの最小インターフェースです。
// Update に渡した fn 内の書き込みはまとめて反映され、fn がエラーを返せば何も反映されません。
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Update(ctx context.Context, fn func(tx KV) error) error
}

// ReadJSON は key の値を dst にデコードします。キーがなければ false を返し dst は変更しません
func ReadJSON(ctx context.Context, kv KV, key string, dst any) (bool, error) {
	raw, ok, err := kv.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("store.ReadJSON %s: %w", key, err)
	}
	if !ok || raw == "" {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return false, fmt.Errorf("store.ReadJSON %s: decode: %w", key, err)
	}
	return true, nil
}

// WriteJSON は v を JSON にして key に保存します
func WriteJSON(ctx context.Context, kv KV, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("store.WriteJSON %s: encode: %w", key, err)
	}
	if err := kv.Set(ctx, key, string(data)); err != nil {
		return fmt.Errorf("store.WriteJSON %s: %w", key, err)
	}
	return nil
}
