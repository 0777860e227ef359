package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// KVSuite は KV の実装に共通する振る舞いを確認します
type KVSuite struct {
	suite.Suite
	newKV func(t *testing.T) KV
	kv    KV
	ctx   context.Context
}

func (s *KVSuite) SetupTest() {
	s.ctx = context.Background()
	s.kv = s.newKV(s.T())
}

func (s *KVSuite) TestGetMissing() {
	v, ok, err := s.kv.Get(s.ctx, "missing")
	s.Require().NoError(err)
	s.False(ok)
	s.Empty(v)
}

func (s *KVSuite) TestSetOverwrite() {
	s.Require().NoError(s.kv.Set(s.ctx, "k", "v1"))
	s.Require().NoError(s.kv.Set(s.ctx, "k", "v2"))

	v, ok, err := s.kv.Get(s.ctx, "k")
	s.Require().NoError(err)
	s.True(ok)
	s.Equal("v2", v)
}

func (s *KVSuite) TestDelete() {
	s.Require().NoError(s.kv.Set(s.ctx, "k", "v"))
	s.Require().NoError(s.kv.Delete(s.ctx, "k"))
	// 存在しないキーの削除もエラーにしない
	s.Require().NoError(s.kv.Delete(s.ctx, "k"))

	_, ok, err := s.kv.Get(s.ctx, "k")
	s.Require().NoError(err)
	s.False(ok)
}

func (s *KVSuite) TestUpdateCommits() {
	err := s.kv.Update(s.ctx, func(tx KV) error {
		if err := tx.Set(s.ctx, "a", "1"); err != nil {
			return err
		}
		return tx.Set(s.ctx, "b", "2")
	})
	s.Require().NoError(err)

	for key, want := range map[string]string{"a": "1", "b": "2"} {
		v, ok, err := s.kv.Get(s.ctx, key)
		s.Require().NoError(err)
		s.True(ok)
		s.Equal(want, v)
	}
}

func (s *KVSuite) TestUpdateRollsBack() {
	s.Require().NoError(s.kv.Set(s.ctx, "a", "before"))
	boom := errors.New("boom")

	err := s.kv.Update(s.ctx, func(tx KV) error {
		if err := tx.Set(s.ctx, "a", "after"); err != nil {
			return err
		}
		if err := tx.Set(s.ctx, "b", "new"); err != nil {
			return err
		}
		return boom
	})
	s.ErrorIs(err, boom)

	v, _, err := s.kv.Get(s.ctx, "a")
	s.Require().NoError(err)
	s.Equal("before", v)
	_, ok, err := s.kv.Get(s.ctx, "b")
	s.Require().NoError(err)
	s.False(ok)
}

func (s *KVSuite) TestUpdateSeesOwnWrites() {
	err := s.kv.Update(s.ctx, func(tx KV) error {
		if err := tx.Set(s.ctx, "a", "1"); err != nil {
			return err
		}
		v, ok, err := tx.Get(s.ctx, "a")
		if err != nil {
			return err
		}
		s.True(ok)
		s.Equal("1", v)
		return nil
	})
	s.Require().NoError(err)
}

func TestMemoryKV(t *testing.T) {
	suite.Run(t, &KVSuite{newKV: func(t *testing.T) KV { return NewMemoryKV() }})
}

func TestGormKV(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	suite.Run(t, &KVSuite{newKV: func(t *testing.T) KV {
		// テストごとに別のインメモリDBを使う
		name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
		db, err := NewDB(DriverSQLite, fmt.Sprintf("file:%s?mode=memory&cache=shared", name), logger)
		require.NoError(t, err)
		t.Cleanup(func() {
			if sqlDB, err := db.DB(); err == nil {
				sqlDB.Close()
			}
		})
		kv, err := NewGormKV(db)
		require.NoError(t, err)
		return kv
	}})
}

func TestNewDB_UnsupportedDriver(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	_, err := NewDB("oracle", "whatever", logger)
	assert.Error(t, err)
}

func TestReadWriteJSON(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()

	type record struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	var got record
	ok, err := ReadJSON(ctx, kv, "rec", &got)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, WriteJSON(ctx, kv, "rec", record{Name: "x", Count: 2}))
	ok, err = ReadJSON(ctx, kv, "rec", &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, record{Name: "x", Count: 2}, got)

	raw, _, err := kv.Get(ctx, "rec")
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"x","count":2}`, raw)

	require.NoError(t, kv.Set(ctx, "bad", "{"))
	_, err = ReadJSON(ctx, kv, "bad", &got)
	assert.Error(t, err)
	assert.Equal(t, 2, kv.Len())
}
